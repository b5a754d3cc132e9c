package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	"github.com/mateusmacedo/go-sleeper/internal/booking/reservation"
	pkgApp "github.com/mateusmacedo/go-sleeper/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-sleeper/pkg/domain"
)

type mockReserver struct {
	mock.Mock
}

func (m *mockReserver) BookSegment(ctx context.Context, req reservation.BookingRequest) (domain.Booking, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Booking), args.Error(1)
}

func (m *mockReserver) CancelBooking(ctx context.Context, bookingID string) (domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(domain.Booking), args.Error(1)
}

func (m *mockReserver) AddMeal(ctx context.Context, bookingID string, sel domain.MealSelection) (domain.Booking, error) {
	args := m.Called(ctx, bookingID, sel)
	return args.Get(0).(domain.Booking), args.Error(1)
}

func (m *mockReserver) QueryAvailability(ctx context.Context, seatIDs []int, fromStation, toStation, journeyDate string) (map[int]bool, error) {
	args := m.Called(ctx, seatIDs, fromStation, toStation, journeyDate)
	result, _ := args.Get(0).(map[int]bool)
	return result, args.Error(1)
}

func (m *mockReserver) SeatMap(ctx context.Context, fromStation, toStation, journeyDate string) ([]reservation.SeatAvailability, error) {
	args := m.Called(ctx, fromStation, toStation, journeyDate)
	result, _ := args.Get(0).([]reservation.SeatAvailability)
	return result, args.Error(1)
}

func (m *mockReserver) Statistics(ctx context.Context) (reservation.Statistics, error) {
	args := m.Called(ctx)
	return args.Get(0).(reservation.Statistics), args.Error(1)
}

func (m *mockReserver) Stations() []domain.Station {
	return m.Called().Get(0).([]domain.Station)
}

func (m *mockReserver) Meals() []domain.Meal {
	return m.Called().Get(0).([]domain.Meal)
}

func (m *mockReserver) Seats() []domain.Seat {
	return m.Called().Get(0).([]domain.Seat)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) RegisterHandler(eventName string, handler pkgApp.EventHandler[pkgDomain.Event[BookingEventData], BookingEventData]) {
	m.Called(eventName, handler)
}

func (m *mockEventBus) Publish(ctx context.Context, event pkgDomain.Event[BookingEventData]) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mockBookingRepository struct {
	mock.Mock
}

func (m *mockBookingRepository) Create(ctx context.Context, booking domain.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (domain.Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Booking), args.Error(1)
}

func (m *mockBookingRepository) FindByPNR(ctx context.Context, pnr string) (domain.Booking, error) {
	args := m.Called(ctx, pnr)
	return args.Get(0).(domain.Booking), args.Error(1)
}

func (m *mockBookingRepository) ActiveIntervalsBySeat(ctx context.Context, seatID int) ([]domain.Interval, error) {
	args := m.Called(ctx, seatID)
	result, _ := args.Get(0).([]domain.Interval)
	return result, args.Error(1)
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *mockBookingRepository) AddMeals(ctx context.Context, id string, meals []domain.MealLine, fare domain.FareBreakdown) error {
	return m.Called(ctx, id, meals, fare).Error(0)
}

func (m *mockBookingRepository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).(map[domain.Status]int)
	return result, args.Error(1)
}
