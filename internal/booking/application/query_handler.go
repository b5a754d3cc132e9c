package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	"github.com/mateusmacedo/go-sleeper/internal/booking/reservation"
	pkgApp "github.com/mateusmacedo/go-sleeper/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-sleeper/pkg/domain"
)

type findBookingHandler struct {
	repository domain.BookingRepository
	logger     pkgApp.AppLogger
}

func (h *findBookingHandler) Handle(ctx context.Context, query pkgDomain.Query[FindBookingData]) (domain.Booking, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return domain.Booking{}, ctx.Err()
	}

	data := query.Payload()
	var (
		booking domain.Booking
		err     error
	)
	switch {
	case data.BookingID != "":
		booking, err = h.repository.FindByID(ctx, data.BookingID)
	case data.PNR != "":
		booking, err = h.repository.FindByPNR(ctx, data.PNR)
	default:
		return domain.Booking{}, domain.NewValidationError("bookingId", "booking id or pnr is required")
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Booking{}, fmt.Errorf("booking %s%s: %w", data.BookingID, data.PNR, domain.ErrNotFound)
		}
		pkgApp.LogError(ctx, h.logger, "error finding booking", err, map[string]interface{}{
			"booking_id": data.BookingID,
			"pnr":        data.PNR,
		})
		return domain.Booking{}, domain.PersistenceFailure("find booking", err)
	}
	return booking, nil
}

func NewFindBookingHandler(repository domain.BookingRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[FindBookingData], FindBookingData, domain.Booking] {
	return &findBookingHandler{
		repository: repository,
		logger:     logger,
	}
}

type availabilityHandler struct {
	reserver Reserver
}

func (h *availabilityHandler) Handle(ctx context.Context, query pkgDomain.Query[AvailabilityData]) (map[int]bool, error) {
	data := query.Payload()
	return h.reserver.QueryAvailability(ctx, data.SeatIDs, data.FromStation, data.ToStation, data.JourneyDate)
}

func NewAvailabilityHandler(reserver Reserver) pkgApp.QueryHandler[pkgDomain.Query[AvailabilityData], AvailabilityData, map[int]bool] {
	return &availabilityHandler{reserver: reserver}
}

type seatMapHandler struct {
	reserver Reserver
}

func (h *seatMapHandler) Handle(ctx context.Context, query pkgDomain.Query[SeatMapData]) ([]reservation.SeatAvailability, error) {
	data := query.Payload()
	return h.reserver.SeatMap(ctx, data.FromStation, data.ToStation, data.JourneyDate)
}

func NewSeatMapHandler(reserver Reserver) pkgApp.QueryHandler[pkgDomain.Query[SeatMapData], SeatMapData, []reservation.SeatAvailability] {
	return &seatMapHandler{reserver: reserver}
}

type statisticsHandler struct {
	reserver Reserver
}

func (h *statisticsHandler) Handle(ctx context.Context, _ pkgDomain.Query[StatisticsData]) (reservation.Statistics, error) {
	return h.reserver.Statistics(ctx)
}

func NewStatisticsHandler(reserver Reserver) pkgApp.QueryHandler[pkgDomain.Query[StatisticsData], StatisticsData, reservation.Statistics] {
	return &statisticsHandler{reserver: reserver}
}

type catalogHandler struct {
	reserver Reserver
}

func (h *catalogHandler) Handle(ctx context.Context, _ pkgDomain.Query[CatalogData]) (CatalogView, error) {
	if ctx.Err() != nil {
		return CatalogView{}, ctx.Err()
	}
	return CatalogView{
		Stations: h.reserver.Stations(),
		Meals:    h.reserver.Meals(),
		Seats:    h.reserver.Seats(),
	}, nil
}

func NewCatalogHandler(reserver Reserver) pkgApp.QueryHandler[pkgDomain.Query[CatalogData], CatalogData, CatalogView] {
	return &catalogHandler{reserver: reserver}
}
