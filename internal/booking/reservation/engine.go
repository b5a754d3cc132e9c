package reservation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	pkgApp "github.com/mateusmacedo/go-sleeper/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-sleeper/pkg/domain"
)

const DefaultLockTimeout = 2 * time.Second

type Config struct {
	RatePerKm   float64
	LockTimeout time.Duration
}

// BookingRequest é um pedido validado para segurar assentos entre duas estações.
// Com BookingID vazio o motor gera um.
type BookingRequest struct {
	BookingID   string
	SeatIDs     []int
	FromStation string
	ToStation   string
	JourneyDate string
	Contact     domain.Contact
	Passengers  []domain.Passenger
	Meals       []domain.MealSelection
}

type SeatAvailability struct {
	domain.Seat
	Available bool  `json:"available"`
	Price     int64 `json:"price"`
}

type Statistics struct {
	TotalBookings     int     `json:"totalBookings"`
	ConfirmedBookings int     `json:"confirmedBookings"`
	CancelledBookings int     `json:"cancelledBookings"`
	ConfirmationRate  float64 `json:"confirmationRate"`
	TotalSeats        int     `json:"totalSeats"`
	OccupiedSeats     int     `json:"occupiedSeats"`
	OccupancyRate     float64 `json:"occupancyRate"`
}

// Engine é o único escritor do inventário de assentos. Reservas e cancelamentos rodam dentro
// do conjunto de locks dos seus assentos; pedidos em assentos disjuntos seguem em paralelo.
type Engine struct {
	stations    *domain.StationRegistry
	meals       *domain.MealCatalog
	fares       *domain.FareCalculator
	inventory   *Inventory
	locks       *SeatLocks
	repository  domain.BookingRepository
	idGenerator pkgDomain.IDGenerator[string]
	now         func() time.Time
	lockTimeout time.Duration
	logger      pkgApp.AppLogger
}

func NewEngine(
	catalog domain.Catalog,
	repository domain.BookingRepository,
	idGenerator pkgDomain.IDGenerator[string],
	cfg Config,
	logger pkgApp.AppLogger,
) (*Engine, error) {
	stations, err := domain.NewStationRegistry(catalog.Stations)
	if err != nil {
		return nil, fmt.Errorf("station registry: %w", err)
	}
	if len(catalog.Seats) == 0 {
		return nil, domain.NewValidationError("seats", "fleet has no seats")
	}

	rate := cfg.RatePerKm
	if rate <= 0 {
		rate = domain.DefaultRatePerKm
	}
	lockTimeout := cfg.LockTimeout
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}

	meals := domain.NewMealCatalog(catalog.Meals)
	return &Engine{
		stations:    stations,
		meals:       meals,
		fares:       domain.NewFareCalculator(rate, meals),
		inventory:   NewInventory(catalog.Seats),
		locks:       NewSeatLocks(),
		repository:  repository,
		idGenerator: idGenerator,
		now:         time.Now,
		lockTimeout: lockTimeout,
		logger:      logger,
	}, nil
}

// Hydrate carrega do repositório os intervalos ativos de cada assento. Chamar uma vez na subida.
func (e *Engine) Hydrate(ctx context.Context) error {
	total := 0
	for _, seat := range e.inventory.Seats() {
		intervals, err := e.repository.ActiveIntervalsBySeat(ctx, seat.ID)
		if err != nil {
			return domain.PersistenceFailure(fmt.Sprintf("load intervals of seat %d", seat.ID), err)
		}
		if err := e.inventory.Load(seat.ID, intervals); err != nil {
			return err
		}
		total += len(intervals)
	}
	pkgApp.LogInfo(ctx, e.logger, "seat inventory hydrated", map[string]interface{}{"intervals": total})
	return nil
}

func (e *Engine) BookSegment(ctx context.Context, req BookingRequest) (domain.Booking, error) {
	segment, err := e.stations.Segment(req.FromStation, req.ToStation)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := e.validateSeats(req.SeatIDs); err != nil {
		return domain.Booking{}, err
	}
	if err := validatePassengers(req.SeatIDs, req.Passengers); err != nil {
		return domain.Booking{}, err
	}
	selections, err := e.normalizeMeals(segment, req.Meals)
	if err != nil {
		return domain.Booking{}, err
	}

	release, err := e.acquire(ctx, req.SeatIDs)
	if err != nil {
		return domain.Booking{}, err
	}
	defer release()

	if err := e.ensureUnusedID(ctx, req.BookingID); err != nil {
		return domain.Booking{}, err
	}

	// verifica todos os assentos antes de mexer em qualquer um, um conflito deixa o inventário intacto
	availability, err := e.inventory.Availability(req.SeatIDs, req.JourneyDate, segment.Start(), segment.End())
	if err != nil {
		return domain.Booking{}, err
	}
	var conflicts []int
	for _, id := range req.SeatIDs {
		if !availability[id] {
			conflicts = append(conflicts, id)
		}
	}
	if len(conflicts) > 0 {
		sort.Ints(conflicts)
		pkgApp.LogInfo(ctx, e.logger, "seats unavailable", map[string]interface{}{
			"seats": conflicts,
			"from":  req.FromStation,
			"to":    req.ToStation,
			"date":  req.JourneyDate,
		})
		return domain.Booking{}, &domain.SeatUnavailableError{SeatIDs: conflicts}
	}

	id := req.BookingID
	if id == "" {
		id = e.idGenerator()
	}
	fare, lines := e.fares.Fare(segment.DistanceKm(), len(req.SeatIDs), selections)
	for i := range lines {
		lines[i].LineNo = i + 1
	}
	now := e.now().UTC()
	booking := domain.Booking{
		ID:          id,
		PNR:         domain.NewPNR(e.idGenerator()),
		SeatIDs:     append([]int(nil), req.SeatIDs...),
		FromStation: segment.From.ID,
		ToStation:   segment.To.ID,
		StartKm:     segment.Start(),
		EndKm:       segment.End(),
		JourneyDate: req.JourneyDate,
		Contact:     req.Contact,
		Passengers:  append([]domain.Passenger(nil), req.Passengers...),
		Meals:       lines,
		Fare:        fare,
		Status:      domain.StatusConfirmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// o rollback remove só o que esta chamada inseriu, nunca o intervalo de outra reserva
	reserved := make([]domain.Interval, 0, len(booking.SeatIDs))
	rollback := func() {
		for _, iv := range reserved {
			e.inventory.Remove(iv)
		}
	}
	for _, iv := range booking.Intervals() {
		if err := e.inventory.Reserve(iv); err != nil {
			rollback()
			return domain.Booking{}, err
		}
		reserved = append(reserved, iv)
	}

	if err := e.repository.Create(ctx, booking); err != nil {
		rollback()
		pkgApp.LogError(ctx, e.logger, "booking rolled back, store rejected it", err, map[string]interface{}{
			"booking_id": booking.ID,
		})
		var unavailable *domain.SeatUnavailableError
		if errors.As(err, &unavailable) {
			return domain.Booking{}, unavailable
		}
		return domain.Booking{}, domain.PersistenceFailure("create booking", err)
	}

	pkgApp.LogInfo(ctx, e.logger, "booking confirmed", map[string]interface{}{
		"booking_id": booking.ID,
		"pnr":        booking.PNR,
		"seats":      booking.SeatIDs,
		"total":      booking.Fare.Total,
	})
	return booking, nil
}

func (e *Engine) CancelBooking(ctx context.Context, bookingID string) (domain.Booking, error) {
	booking, err := e.findConfirmed(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}

	release, err := e.acquire(ctx, booking.SeatIDs)
	if err != nil {
		return domain.Booking{}, err
	}
	defer release()

	// o update condicional decide o vencedor entre dois cancelamentos concorrentes
	if err := e.repository.UpdateStatus(ctx, booking.ID, domain.StatusConfirmed, domain.StatusCancelled); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Booking{}, fmt.Errorf("active booking %s: %w", bookingID, domain.ErrNotFound)
		}
		return domain.Booking{}, domain.PersistenceFailure("cancel booking", err)
	}

	for _, seatID := range booking.SeatIDs {
		e.inventory.Release(seatID, booking.ID)
	}

	booking.Status = domain.StatusCancelled
	booking.UpdatedAt = e.now().UTC()
	pkgApp.LogInfo(ctx, e.logger, "booking cancelled", map[string]interface{}{
		"booking_id": booking.ID,
		"seats":      booking.SeatIDs,
	})
	return booking, nil
}

// AddMeal acrescenta uma refeição a uma reserva confirmada. Diferente da reserva, refeição desconhecida aqui é erro.
func (e *Engine) AddMeal(ctx context.Context, bookingID string, sel domain.MealSelection) (domain.Booking, error) {
	if sel.Quantity < 1 {
		return domain.Booking{}, domain.NewValidationError("quantity", "must be at least 1")
	}
	if _, ok := e.meals.Get(sel.MealID); !ok {
		return domain.Booking{}, fmt.Errorf("meal %s: %w", sel.MealID, domain.ErrNotFound)
	}

	booking, err := e.repository.FindByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, e.lookupError(bookingID, err)
	}

	release, err := e.acquire(ctx, booking.SeatIDs)
	if err != nil {
		return domain.Booking{}, err
	}
	defer release()

	// relê sob os locks, um cancelamento pode ter vencido a corrida
	booking, err = e.repository.FindByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, e.lookupError(bookingID, err)
	}
	if booking.Status != domain.StatusConfirmed {
		return domain.Booking{}, fmt.Errorf("booking %s: %w", bookingID, domain.ErrBookingCancelled)
	}

	segment, err := e.stations.Segment(booking.FromStation, booking.ToStation)
	if err != nil {
		return domain.Booking{}, err
	}
	normalized, err := e.normalizeMeals(segment, []domain.MealSelection{sel})
	if err != nil {
		return domain.Booking{}, err
	}
	line, ok := e.fares.MealLine(normalized[0])
	if !ok {
		return domain.Booking{}, fmt.Errorf("meal %s: %w", sel.MealID, domain.ErrNotFound)
	}
	line.LineNo = len(booking.Meals) + 1

	booking.Meals = append(booking.Meals, line)
	booking.Fare.MealCharge += line.Total
	booking.Fare.Total += line.Total
	booking.UpdatedAt = e.now().UTC()

	if err := e.repository.AddMeals(ctx, booking.ID, []domain.MealLine{line}, booking.Fare); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Booking{}, fmt.Errorf("active booking %s: %w", bookingID, domain.ErrNotFound)
		}
		return domain.Booking{}, domain.PersistenceFailure("add meal", err)
	}

	pkgApp.LogInfo(ctx, e.logger, "meal added to booking", map[string]interface{}{
		"booking_id": booking.ID,
		"meal_id":    line.MealID,
		"quantity":   line.Quantity,
	})
	return booking, nil
}

// QueryAvailability informa, por assento, se o trecho está livre em um snapshot consistente.
func (e *Engine) QueryAvailability(ctx context.Context, seatIDs []int, fromStation, toStation, journeyDate string) (map[int]bool, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	segment, err := e.stations.Segment(fromStation, toStation)
	if err != nil {
		return nil, err
	}
	if len(seatIDs) == 0 {
		return nil, domain.NewValidationError("seatIds", "at least one seat is required")
	}
	return e.inventory.Availability(seatIDs, journeyDate, segment.Start(), segment.End())
}

func (e *Engine) SeatMap(ctx context.Context, fromStation, toStation, journeyDate string) ([]SeatAvailability, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	segment, err := e.stations.Segment(fromStation, toStation)
	if err != nil {
		return nil, err
	}

	seats := e.inventory.Seats()
	ids := make([]int, len(seats))
	for i, s := range seats {
		ids[i] = s.ID
	}
	availability, err := e.inventory.Availability(ids, journeyDate, segment.Start(), segment.End())
	if err != nil {
		return nil, err
	}

	price := e.fares.PerSeat(segment.DistanceKm())
	result := make([]SeatAvailability, len(seats))
	for i, s := range seats {
		result[i] = SeatAvailability{Seat: s, Available: availability[s.ID], Price: price}
	}
	return result, nil
}

func (e *Engine) Statistics(ctx context.Context) (Statistics, error) {
	counts, err := e.repository.CountByStatus(ctx)
	if err != nil {
		return Statistics{}, domain.PersistenceFailure("count bookings", err)
	}

	stats := Statistics{
		ConfirmedBookings: counts[domain.StatusConfirmed],
		CancelledBookings: counts[domain.StatusCancelled],
		TotalSeats:        len(e.inventory.Seats()),
		OccupiedSeats:     e.inventory.OccupiedSeats(),
	}
	stats.TotalBookings = stats.ConfirmedBookings + stats.CancelledBookings
	stats.ConfirmationRate = percentage(stats.ConfirmedBookings, stats.TotalBookings)
	stats.OccupancyRate = percentage(stats.OccupiedSeats, stats.TotalSeats)
	return stats, nil
}

func (e *Engine) Stations() []domain.Station {
	return e.stations.List()
}

func (e *Engine) Meals() []domain.Meal {
	return e.meals.List()
}

func (e *Engine) Seats() []domain.Seat {
	return e.inventory.Seats()
}

// SeatIntervals devolve uma cópia dos intervalos ativos do assento, ordenados pelo início.
func (e *Engine) SeatIntervals(seatID int) []domain.Interval {
	return e.inventory.Intervals(seatID)
}

func (e *Engine) acquire(ctx context.Context, seatIDs []int) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, e.lockTimeout)
	defer cancel()

	release, err := e.locks.Acquire(lockCtx, seatIDs)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		pkgApp.LogInfo(ctx, e.logger, "seat lock timeout", map[string]interface{}{
			"seats":   seatIDs,
			"timeout": e.lockTimeout.String(),
		})
		return nil, err
	}
	return release, nil
}

func (e *Engine) findConfirmed(ctx context.Context, bookingID string) (domain.Booking, error) {
	booking, err := e.repository.FindByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, e.lookupError(bookingID, err)
	}
	if booking.Status != domain.StatusConfirmed {
		return domain.Booking{}, fmt.Errorf("active booking %s: %w", bookingID, domain.ErrNotFound)
	}
	return booking, nil
}

func (e *Engine) lookupError(bookingID string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("booking %s: %w", bookingID, domain.ErrNotFound)
	}
	return domain.PersistenceFailure("find booking", err)
}

func (e *Engine) validateSeats(seatIDs []int) error {
	if len(seatIDs) == 0 {
		return domain.NewValidationError("seatIds", "at least one seat is required")
	}
	seen := make(map[int]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if _, dup := seen[id]; dup {
			return domain.NewValidationError("seatIds", fmt.Sprintf("seat %d requested twice", id))
		}
		seen[id] = struct{}{}
		if _, ok := e.inventory.Seat(id); !ok {
			return fmt.Errorf("seat %d: %w", id, domain.ErrNotFound)
		}
	}
	return nil
}

// ensureUnusedID rejeita um id informado por quem chama que já pertence a uma reserva.
func (e *Engine) ensureUnusedID(ctx context.Context, bookingID string) error {
	if bookingID == "" {
		return nil
	}
	_, err := e.repository.FindByID(ctx, bookingID)
	switch {
	case err == nil:
		return domain.NewValidationError("bookingId", fmt.Sprintf("%s is already in use", bookingID))
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return domain.PersistenceFailure("check booking id", err)
	}
}

func validatePassengers(seatIDs []int, passengers []domain.Passenger) error {
	if len(passengers) == 0 {
		return nil
	}
	requested := make(map[int]bool, len(seatIDs))
	for _, id := range seatIDs {
		requested[id] = false
	}
	for _, p := range passengers {
		taken, ok := requested[p.SeatID]
		if !ok {
			return domain.NewValidationError("passengers", fmt.Sprintf("seat %d is not part of the booking", p.SeatID))
		}
		if taken {
			return domain.NewValidationError("passengers", fmt.Sprintf("seat %d has more than one passenger", p.SeatID))
		}
		requested[p.SeatID] = true
	}
	return nil
}

// normalizeMeals usa a estação de embarque como entrega padrão e confere que ela está no trecho.
func (e *Engine) normalizeMeals(segment domain.Segment, selections []domain.MealSelection) ([]domain.MealSelection, error) {
	normalized := make([]domain.MealSelection, len(selections))
	for i, sel := range selections {
		if sel.Quantity < 1 {
			return nil, domain.NewValidationError("meals.quantity", "must be at least 1")
		}
		if sel.DeliveryStation == "" {
			sel.DeliveryStation = segment.From.ID
		}
		st, err := e.stations.Get(sel.DeliveryStation)
		if err != nil {
			return nil, err
		}
		if !segment.Contains(st) {
			return nil, domain.NewValidationError("meals.deliveryStation", fmt.Sprintf("%s is not on the booked segment", st.ID))
		}
		normalized[i] = sel
	}
	return normalized, nil
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
}
