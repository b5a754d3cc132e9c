package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	zapAdapter "github.com/mateusmacedo/go-sleeper/pkg/infrastructure/zaplogger/adapter"
)

func newMemoryRepository(t *testing.T) *InMemoryBookingRepository {
	return NewInMemoryBookingRepository(zapAdapter.NewZapAppLoggerFrom(zaptest.NewLogger(t)))
}

func TestInMemoryBookingRepository_CreateAndFind(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()
	booking := sampleBooking()

	require.NoError(t, repo.Create(ctx, booking))

	byID, err := repo.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking, byID)

	byPNR, err := repo.FindByPNR(ctx, booking.PNR)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, byPNR.ID)

	assert.Error(t, repo.Create(ctx, booking), "duplicate id")

	other := sampleBooking()
	other.ID = "b-2"
	assert.Error(t, repo.Create(ctx, other), "duplicate pnr")
}

func TestInMemoryBookingRepository_ReturnsCopies(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()
	booking := sampleBooking()
	require.NoError(t, repo.Create(ctx, booking))

	booking.SeatIDs[0] = 99
	found, err := repo.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, found.SeatIDs[0])

	found.Meals[0].Quantity = 50
	again, err := repo.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Meals[0].Quantity)
}

func TestInMemoryBookingRepository_NotFound(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.FindByPNR(ctx, "PNRMISSING")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", domain.StatusConfirmed, domain.StatusCancelled), domain.ErrNotFound)
}

func TestInMemoryBookingRepository_UpdateStatusIsConditional(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()
	booking := sampleBooking()
	require.NoError(t, repo.Create(ctx, booking))

	require.NoError(t, repo.UpdateStatus(ctx, booking.ID, domain.StatusConfirmed, domain.StatusCancelled))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, booking.ID, domain.StatusConfirmed, domain.StatusCancelled), domain.ErrNotFound)

	intervals, err := repo.ActiveIntervalsBySeat(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, intervals)

	assert.ErrorIs(t, repo.AddMeals(ctx, booking.ID, nil, booking.Fare), domain.ErrNotFound)
}

func TestInMemoryBookingRepository_ActiveIntervalsBySeat(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()

	late := sampleBooking()
	late.ID, late.PNR, late.StartKm, late.EndKm = "b-late", "PNRLATE", 260, 530
	early := sampleBooking()
	early.ID, early.PNR, early.StartKm, early.EndKm = "b-early", "PNREARLY", 0, 110
	require.NoError(t, repo.Create(ctx, late))
	require.NoError(t, repo.Create(ctx, early))

	intervals, err := repo.ActiveIntervalsBySeat(ctx, 4)
	require.NoError(t, err)
	require.Len(t, intervals, 2)
	assert.Equal(t, "b-early", intervals[0].BookingID)
	assert.Equal(t, "b-late", intervals[1].BookingID)

	intervals, err = repo.ActiveIntervalsBySeat(ctx, 12)
	require.NoError(t, err)
	assert.Empty(t, intervals)
}

func TestInMemoryBookingRepository_AddMealsAndCount(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()
	booking := sampleBooking()
	require.NoError(t, repo.Create(ctx, booking))

	line := domain.MealLine{LineNo: 2, MealID: "M003", Quantity: 1, UnitPrice: 220, Total: 220}
	fare := booking.Fare
	fare.MealCharge += 220
	fare.Total += 220
	require.NoError(t, repo.AddMeals(ctx, booking.ID, []domain.MealLine{line}, fare))

	found, err := repo.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Len(t, found.Meals, 2)
	assert.Equal(t, int64(786), found.Fare.Total)

	other := sampleBooking()
	other.ID, other.PNR = "b-2", "PNROTHER"
	require.NoError(t, repo.Create(ctx, other))
	require.NoError(t, repo.UpdateStatus(ctx, other.ID, domain.StatusConfirmed, domain.StatusCancelled))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.Status]int{domain.StatusConfirmed: 1, domain.StatusCancelled: 1}, counts)
}

func TestStaticCatalog_LoadCatalog(t *testing.T) {
	catalog, err := NewStaticCatalog().LoadCatalog(context.Background())
	require.NoError(t, err)

	assert.Len(t, catalog.Stations, 4)
	assert.Len(t, catalog.Seats, 40)
	assert.Equal(t, domain.DeckLower, catalog.Seats[19].Deck)
	assert.Equal(t, domain.DeckUpper, catalog.Seats[20].Deck)
	assert.True(t, catalog.Seats[9].LadiesOnly)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewStaticCatalog().LoadCatalog(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
