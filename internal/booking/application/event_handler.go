package application

import (
	"context"

	pkgApp "github.com/mateusmacedo/go-sleeper/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-sleeper/pkg/domain"
)

// bookingAuditHandler registra no log da aplicação todo evento do ciclo de vida da reserva.
type bookingAuditHandler struct {
	logger pkgApp.AppLogger
}

func (h *bookingAuditHandler) Handle(ctx context.Context, event pkgDomain.Event[BookingEventData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := event.Payload()
	pkgApp.LogInfo(ctx, h.logger, "booking event received", map[string]interface{}{
		"event_name": event.EventName(),
		"booking_id": data.BookingID,
		"pnr":        data.PNR,
		"seats":      data.SeatIDs,
		"status":     data.Status,
		"total":      data.Total,
	})
	return nil
}

func NewBookingAuditHandler(logger pkgApp.AppLogger) pkgApp.EventHandler[pkgDomain.Event[BookingEventData], BookingEventData] {
	return &bookingAuditHandler{logger: logger}
}
