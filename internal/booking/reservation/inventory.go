package reservation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
)

type seatState struct {
	seat      domain.Seat
	intervals []domain.Interval // ordenados por Start
}

// Inventory guarda os intervalos de reserva ativos de cada assento da frota.
// Os intervalos são protegidos por um RWMutex; quem altera precisa segurar os locks dos assentos.
type Inventory struct {
	mu    sync.RWMutex
	seats map[int]*seatState
	order []int
}

func NewInventory(seats []domain.Seat) *Inventory {
	inv := &Inventory{seats: make(map[int]*seatState, len(seats))}
	for _, s := range seats {
		if _, dup := inv.seats[s.ID]; dup {
			continue
		}
		inv.seats[s.ID] = &seatState{seat: s}
		inv.order = append(inv.order, s.ID)
	}
	sort.Ints(inv.order)
	return inv
}

func (inv *Inventory) Seat(seatID int) (domain.Seat, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	st, ok := inv.seats[seatID]
	if !ok {
		return domain.Seat{}, false
	}
	return st.seat, true
}

func (inv *Inventory) Seats() []domain.Seat {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	seats := make([]domain.Seat, len(inv.order))
	for i, id := range inv.order {
		seats[i] = inv.seats[id].seat
	}
	return seats
}

func (inv *Inventory) IsFree(seatID int, journeyDate string, start, end int) (bool, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	st, err := inv.state(seatID)
	if err != nil {
		return false, err
	}
	return st.isFree(journeyDate, start, end), nil
}

// Availability avalia todos os assentos sobre um único snapshot do inventário.
func (inv *Inventory) Availability(seatIDs []int, journeyDate string, start, end int) (map[int]bool, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	result := make(map[int]bool, len(seatIDs))
	for _, id := range seatIDs {
		st, err := inv.state(id)
		if err != nil {
			return nil, err
		}
		result[id] = st.isFree(journeyDate, start, end)
	}
	return result, nil
}

// Reserve insere o intervalo mantendo a lista do assento ordenada pelo início.
func (inv *Inventory) Reserve(iv domain.Interval) error {
	if iv.Start >= iv.End {
		return domain.NewValidationError("interval", "start must be before end")
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	st, err := inv.state(iv.SeatID)
	if err != nil {
		return err
	}
	if !st.isFree(iv.JourneyDate, iv.Start, iv.End) {
		return &domain.SeatUnavailableError{SeatIDs: []int{iv.SeatID}}
	}
	pos := sort.Search(len(st.intervals), func(i int) bool { return st.intervals[i].Start > iv.Start })
	st.intervals = append(st.intervals, domain.Interval{})
	copy(st.intervals[pos+1:], st.intervals[pos:])
	st.intervals[pos] = iv
	return nil
}

// Release remove todos os intervalos da reserva no assento e devolve quantos saíram.
// Liberar uma reserva que não segura nada não tem efeito.
func (inv *Inventory) Release(seatID int, bookingID string) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	st, ok := inv.seats[seatID]
	if !ok {
		return 0
	}
	kept := st.intervals[:0]
	removed := 0
	for _, iv := range st.intervals {
		if iv.BookingID == bookingID {
			removed++
			continue
		}
		kept = append(kept, iv)
	}
	st.intervals = kept
	return removed
}

// Remove apaga exatamente este intervalo do assento, comparando reserva, data e limites.
func (inv *Inventory) Remove(iv domain.Interval) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	st, ok := inv.seats[iv.SeatID]
	if !ok {
		return false
	}
	for i, held := range st.intervals {
		if held == iv {
			st.intervals = append(st.intervals[:i], st.intervals[i+1:]...)
			return true
		}
	}
	return false
}

// Load substitui os intervalos do assento pelos intervalos ativos informados.
func (inv *Inventory) Load(seatID int, intervals []domain.Interval) error {
	sorted := append([]domain.Interval(nil), intervals...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	inv.mu.Lock()
	defer inv.mu.Unlock()
	st, err := inv.state(seatID)
	if err != nil {
		return err
	}
	for i, iv := range sorted {
		if iv.SeatID != seatID {
			return fmt.Errorf("interval of booking %s belongs to seat %d, not %d", iv.BookingID, iv.SeatID, seatID)
		}
		for _, prev := range sorted[:i] {
			if prev.Overlaps(iv.JourneyDate, iv.Start, iv.End) {
				return fmt.Errorf("bookings %s and %s overlap on seat %d", prev.BookingID, iv.BookingID, seatID)
			}
		}
	}
	st.intervals = sorted
	return nil
}

func (inv *Inventory) Intervals(seatID int) []domain.Interval {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	st, ok := inv.seats[seatID]
	if !ok {
		return nil
	}
	return append([]domain.Interval(nil), st.intervals...)
}

// OccupiedSeats conta os assentos com ao menos um intervalo ativo.
func (inv *Inventory) OccupiedSeats() int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	n := 0
	for _, st := range inv.seats {
		if len(st.intervals) > 0 {
			n++
		}
	}
	return n
}

func (inv *Inventory) state(seatID int) (*seatState, error) {
	st, ok := inv.seats[seatID]
	if !ok {
		return nil, fmt.Errorf("seat %d: %w", seatID, domain.ErrNotFound)
	}
	return st, nil
}

func (s *seatState) isFree(journeyDate string, start, end int) bool {
	for _, iv := range s.intervals {
		if iv.Start >= end {
			break
		}
		if iv.Overlaps(journeyDate, start, end) {
			return false
		}
	}
	return true
}
