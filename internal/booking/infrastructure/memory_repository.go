package infrastructure

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	pkgApp "github.com/mateusmacedo/go-sleeper/pkg/application"
)

// InMemoryBookingRepository mantém as reservas na memória do processo. Os registros são copiados
// na entrada e na saída, então quem chama nunca compartilha slices com o repositório.
type InMemoryBookingRepository struct {
	mu     sync.RWMutex
	data   map[string]domain.Booking
	pnrs   map[string]string
	logger pkgApp.AppLogger
}

func NewInMemoryBookingRepository(logger pkgApp.AppLogger) *InMemoryBookingRepository {
	return &InMemoryBookingRepository{
		data:   make(map[string]domain.Booking),
		pnrs:   make(map[string]string),
		logger: logger,
	}
}

func (r *InMemoryBookingRepository) Create(ctx context.Context, booking domain.Booking) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[booking.ID]; exists {
		pkgApp.LogError(ctx, r.logger, "booking already exists", nil, map[string]interface{}{
			"booking_id": booking.ID,
		})
		return fmt.Errorf("booking %s already exists", booking.ID)
	}
	if _, exists := r.pnrs[booking.PNR]; exists {
		return fmt.Errorf("pnr %s already exists", booking.PNR)
	}

	r.data[booking.ID] = booking.Clone()
	r.pnrs[booking.PNR] = booking.ID
	pkgApp.LogDebug(ctx, r.logger, "booking saved", map[string]interface{}{
		"booking_id": booking.ID,
	})
	return nil
}

func (r *InMemoryBookingRepository) FindByID(ctx context.Context, id string) (domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, exists := r.data[id]
	if !exists {
		return domain.Booking{}, domain.ErrNotFound
	}
	return booking.Clone(), nil
}

func (r *InMemoryBookingRepository) FindByPNR(ctx context.Context, pnr string) (domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.pnrs[pnr]
	if !exists {
		return domain.Booking{}, domain.ErrNotFound
	}
	return r.data[id].Clone(), nil
}

func (r *InMemoryBookingRepository) ActiveIntervalsBySeat(ctx context.Context, seatID int) ([]domain.Interval, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var intervals []domain.Interval
	for _, booking := range r.data {
		if booking.Status != domain.StatusConfirmed {
			continue
		}
		for _, iv := range booking.Intervals() {
			if iv.SeatID == seatID {
				intervals = append(intervals, iv)
			}
		}
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start < intervals[j].Start })
	return intervals, nil
}

func (r *InMemoryBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, exists := r.data[id]
	if !exists || booking.Status != from {
		return domain.ErrNotFound
	}
	booking.Status = to
	r.data[id] = booking

	pkgApp.LogDebug(ctx, r.logger, "booking status updated", map[string]interface{}{
		"booking_id": id,
		"status":     to,
	})
	return nil
}

func (r *InMemoryBookingRepository) AddMeals(ctx context.Context, id string, meals []domain.MealLine, fare domain.FareBreakdown) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, exists := r.data[id]
	if !exists || booking.Status != domain.StatusConfirmed {
		return domain.ErrNotFound
	}
	booking.Meals = append(append([]domain.MealLine(nil), booking.Meals...), meals...)
	booking.Fare = fare
	r.data[id] = booking
	return nil
}

func (r *InMemoryBookingRepository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.Status]int)
	for _, booking := range r.data {
		counts[booking.Status]++
	}
	return counts, nil
}
