package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	"github.com/mateusmacedo/go-sleeper/internal/booking/reservation"
	pkgApp "github.com/mateusmacedo/go-sleeper/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-sleeper/pkg/domain"
	zapAdapter "github.com/mateusmacedo/go-sleeper/pkg/infrastructure/zaplogger/adapter"
)

func newTestLogger(t *testing.T) pkgApp.AppLogger {
	t.Helper()
	return zapAdapter.NewZapAppLoggerFrom(zaptest.NewLogger(t))
}

func confirmedBooking() domain.Booking {
	return domain.Booking{
		ID:          "b-1",
		PNR:         "PNR1234ABCD",
		SeatIDs:     []int{1, 2},
		FromStation: "ST001",
		ToStation:   "ST003",
		Fare:        domain.FareBreakdown{SeatCharge: 416, Total: 416},
		Status:      domain.StatusConfirmed,
	}
}

func TestBookSegmentHandler_PublishesConfirmedEvent(t *testing.T) {
	reserver := new(mockReserver)
	eventBus := new(mockEventBus)
	handler := NewBookSegmentHandler(reserver, eventBus, newTestLogger(t))

	data := BookSegmentData{BookingID: "b-1", SeatIDs: []int{1, 2}, FromStation: "ST001", ToStation: "ST003"}
	reserver.On("BookSegment", mock.Anything, mock.MatchedBy(func(req reservation.BookingRequest) bool {
		return req.BookingID == "b-1" && len(req.SeatIDs) == 2
	})).Return(confirmedBooking(), nil)
	eventBus.On("Publish", mock.Anything, mock.MatchedBy(func(e pkgDomain.Event[BookingEventData]) bool {
		return e.EventName() == BookingConfirmedEventName && e.Payload().Total == 416
	})).Return(nil)

	err := handler.Handle(context.Background(), NewBookSegmentCommand(data))

	require.NoError(t, err)
	reserver.AssertExpectations(t)
	eventBus.AssertExpectations(t)
}

func TestBookSegmentHandler_ReturnsEngineError(t *testing.T) {
	reserver := new(mockReserver)
	eventBus := new(mockEventBus)
	handler := NewBookSegmentHandler(reserver, eventBus, newTestLogger(t))

	reserver.On("BookSegment", mock.Anything, mock.Anything).
		Return(domain.Booking{}, &domain.SeatUnavailableError{SeatIDs: []int{1}})

	err := handler.Handle(context.Background(), NewBookSegmentCommand(BookSegmentData{SeatIDs: []int{1}}))

	assert.ErrorIs(t, err, domain.ErrSeatUnavailable)
	eventBus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestBookSegmentHandler_EventFailureDoesNotFailBooking(t *testing.T) {
	reserver := new(mockReserver)
	eventBus := new(mockEventBus)
	handler := NewBookSegmentHandler(reserver, eventBus, newTestLogger(t))

	reserver.On("BookSegment", mock.Anything, mock.Anything).Return(confirmedBooking(), nil)
	eventBus.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := handler.Handle(context.Background(), NewBookSegmentCommand(BookSegmentData{BookingID: "b-1"}))
	assert.NoError(t, err)
}

func TestBookSegmentHandler_CancelledContext(t *testing.T) {
	reserver := new(mockReserver)
	handler := NewBookSegmentHandler(reserver, new(mockEventBus), newTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handler.Handle(ctx, NewBookSegmentCommand(BookSegmentData{}))
	assert.ErrorIs(t, err, context.Canceled)
	reserver.AssertNotCalled(t, "BookSegment", mock.Anything, mock.Anything)
}

func TestCancelBookingHandler_PublishesCancelledEvent(t *testing.T) {
	reserver := new(mockReserver)
	eventBus := new(mockEventBus)
	handler := NewCancelBookingHandler(reserver, eventBus, newTestLogger(t))

	cancelled := confirmedBooking()
	cancelled.Status = domain.StatusCancelled
	reserver.On("CancelBooking", mock.Anything, "b-1").Return(cancelled, nil)
	eventBus.On("Publish", mock.Anything, mock.MatchedBy(func(e pkgDomain.Event[BookingEventData]) bool {
		return e.EventName() == BookingCancelledEventName && e.Payload().Status == domain.StatusCancelled
	})).Return(nil)

	err := handler.Handle(context.Background(), NewCancelBookingCommand(CancelBookingData{BookingID: "b-1"}))

	require.NoError(t, err)
	eventBus.AssertExpectations(t)
}

func TestCancelBookingHandler_NotFound(t *testing.T) {
	reserver := new(mockReserver)
	handler := NewCancelBookingHandler(reserver, new(mockEventBus), newTestLogger(t))

	reserver.On("CancelBooking", mock.Anything, "gone").Return(domain.Booking{}, domain.ErrNotFound)

	err := handler.Handle(context.Background(), NewCancelBookingCommand(CancelBookingData{BookingID: "gone"}))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddMealHandler(t *testing.T) {
	reserver := new(mockReserver)
	handler := NewAddMealHandler(reserver, newTestLogger(t))

	sel := domain.MealSelection{MealID: "M001", Quantity: 1}
	reserver.On("AddMeal", mock.Anything, "b-1", sel).Return(confirmedBooking(), nil).Once()
	reserver.On("AddMeal", mock.Anything, "b-2", sel).Return(domain.Booking{}, domain.ErrBookingCancelled).Once()

	require.NoError(t, handler.Handle(context.Background(), NewAddMealCommand(AddMealData{BookingID: "b-1", Meal: sel})))
	err := handler.Handle(context.Background(), NewAddMealCommand(AddMealData{BookingID: "b-2", Meal: sel}))
	assert.ErrorIs(t, err, domain.ErrBookingCancelled)
}

func TestFindBookingHandler(t *testing.T) {
	repo := new(mockBookingRepository)
	handler := NewFindBookingHandler(repo, newTestLogger(t))
	ctx := context.Background()

	repo.On("FindByID", mock.Anything, "b-1").Return(confirmedBooking(), nil)
	repo.On("FindByPNR", mock.Anything, "PNR1234ABCD").Return(confirmedBooking(), nil)
	repo.On("FindByID", mock.Anything, "missing").Return(domain.Booking{}, domain.ErrNotFound)
	repo.On("FindByID", mock.Anything, "broken").Return(domain.Booking{}, errors.New("timeout"))

	booking, err := handler.Handle(ctx, NewFindBookingQuery(FindBookingData{BookingID: "b-1"}))
	require.NoError(t, err)
	assert.Equal(t, "PNR1234ABCD", booking.PNR)

	booking, err = handler.Handle(ctx, NewFindBookingQuery(FindBookingData{PNR: "PNR1234ABCD"}))
	require.NoError(t, err)
	assert.Equal(t, "b-1", booking.ID)

	_, err = handler.Handle(ctx, NewFindBookingQuery(FindBookingData{BookingID: "missing"}))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = handler.Handle(ctx, NewFindBookingQuery(FindBookingData{BookingID: "broken"}))
	assert.ErrorIs(t, err, domain.ErrPersistence)

	_, err = handler.Handle(ctx, NewFindBookingQuery(FindBookingData{}))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReadHandlers_DelegateToReserver(t *testing.T) {
	reserver := new(mockReserver)
	ctx := context.Background()

	reserver.On("QueryAvailability", mock.Anything, []int{5}, "ST001", "ST003", "").Return(map[int]bool{5: false}, nil)
	reserver.On("SeatMap", mock.Anything, "ST001", "ST002", "2026-11-01").Return([]reservation.SeatAvailability{{Seat: domain.Seat{ID: 1}, Available: true, Price: 88}}, nil)
	reserver.On("Statistics", mock.Anything).Return(reservation.Statistics{TotalBookings: 3}, nil)
	reserver.On("Stations").Return([]domain.Station{{ID: "ST001"}})
	reserver.On("Meals").Return([]domain.Meal{{ID: "M001"}})
	reserver.On("Seats").Return([]domain.Seat{{ID: 1}})

	availability, err := NewAvailabilityHandler(reserver).Handle(ctx, NewAvailabilityQuery(AvailabilityData{SeatIDs: []int{5}, FromStation: "ST001", ToStation: "ST003"}))
	require.NoError(t, err)
	assert.False(t, availability[5])

	seats, err := NewSeatMapHandler(reserver).Handle(ctx, NewSeatMapQuery(SeatMapData{FromStation: "ST001", ToStation: "ST002", JourneyDate: "2026-11-01"}))
	require.NoError(t, err)
	assert.Equal(t, int64(88), seats[0].Price)

	stats, err := NewStatisticsHandler(reserver).Handle(ctx, NewStatisticsQuery())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalBookings)

	catalog, err := NewCatalogHandler(reserver).Handle(ctx, NewCatalogQuery())
	require.NoError(t, err)
	assert.Len(t, catalog.Stations, 1)
	assert.Len(t, catalog.Meals, 1)
	assert.Len(t, catalog.Seats, 1)
}

func TestBookingAuditHandler(t *testing.T) {
	handler := NewBookingAuditHandler(newTestLogger(t))
	err := handler.Handle(context.Background(), NewBookingConfirmedEvent(NewBookingEventData(confirmedBooking(), confirmedBooking().CreatedAt)))
	assert.NoError(t, err)
}
