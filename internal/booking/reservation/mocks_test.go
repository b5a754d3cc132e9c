package reservation_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
)

type mockBookingRepository struct {
	mock.Mock
}

func (m *mockBookingRepository) Create(ctx context.Context, booking domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
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
	intervals, _ := args.Get(0).([]domain.Interval)
	return intervals, args.Error(1)
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *mockBookingRepository) AddMeals(ctx context.Context, id string, meals []domain.MealLine, fare domain.FareBreakdown) error {
	args := m.Called(ctx, id, meals, fare)
	return args.Error(0)
}

func (m *mockBookingRepository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[domain.Status]int)
	return counts, args.Error(1)
}
