package application

import (
	"context"
	"time"

	"github.com/mateusmacedo/go-sleeper/internal/booking/reservation"
	pkgApp "github.com/mateusmacedo/go-sleeper/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-sleeper/pkg/domain"
)

type bookSegmentHandler struct {
	reserver Reserver
	eventBus BookingEventBus
	logger   pkgApp.AppLogger
}

func (h *bookSegmentHandler) Handle(ctx context.Context, command pkgDomain.Command[BookSegmentData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	booking, err := h.reserver.BookSegment(ctx, reservation.BookingRequest{
		BookingID:   data.BookingID,
		SeatIDs:     data.SeatIDs,
		FromStation: data.FromStation,
		ToStation:   data.ToStation,
		JourneyDate: data.JourneyDate,
		Contact:     data.Contact,
		Passengers:  data.Passengers,
		Meals:       data.Meals,
	})
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "booking rejected", err, map[string]interface{}{
			"booking_id": data.BookingID,
			"seats":      data.SeatIDs,
		})
		return err
	}

	publish(ctx, h.eventBus, h.logger, NewBookingConfirmedEvent(NewBookingEventData(booking, time.Now().UTC())))
	return nil
}

func NewBookSegmentHandler(reserver Reserver, eventBus BookingEventBus, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[BookSegmentData], BookSegmentData] {
	return &bookSegmentHandler{
		reserver: reserver,
		eventBus: eventBus,
		logger:   logger,
	}
}

type cancelBookingHandler struct {
	reserver Reserver
	eventBus BookingEventBus
	logger   pkgApp.AppLogger
}

func (h *cancelBookingHandler) Handle(ctx context.Context, command pkgDomain.Command[CancelBookingData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	booking, err := h.reserver.CancelBooking(ctx, data.BookingID)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "cancellation rejected", err, map[string]interface{}{
			"booking_id": data.BookingID,
		})
		return err
	}

	publish(ctx, h.eventBus, h.logger, NewBookingCancelledEvent(NewBookingEventData(booking, time.Now().UTC())))
	return nil
}

func NewCancelBookingHandler(reserver Reserver, eventBus BookingEventBus, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[CancelBookingData], CancelBookingData] {
	return &cancelBookingHandler{
		reserver: reserver,
		eventBus: eventBus,
		logger:   logger,
	}
}

type addMealHandler struct {
	reserver Reserver
	logger   pkgApp.AppLogger
}

func (h *addMealHandler) Handle(ctx context.Context, command pkgDomain.Command[AddMealData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := command.Payload()
	if _, err := h.reserver.AddMeal(ctx, data.BookingID, data.Meal); err != nil {
		pkgApp.LogError(ctx, h.logger, "meal not added", err, map[string]interface{}{
			"booking_id": data.BookingID,
			"meal_id":    data.Meal.MealID,
		})
		return err
	}
	return nil
}

func NewAddMealHandler(reserver Reserver, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[AddMealData], AddMealData] {
	return &addMealHandler{
		reserver: reserver,
		logger:   logger,
	}
}

// publish nunca falha o comando: a reserva já foi gravada.
func publish(ctx context.Context, bus BookingEventBus, logger pkgApp.AppLogger, event pkgDomain.Event[BookingEventData]) {
	if err := bus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, logger, "error publishing event", err, map[string]interface{}{
			"event_name": event.EventName(),
			"booking_id": event.Payload().BookingID,
		})
	}
}
