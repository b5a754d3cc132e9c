package application

import (
	"context"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	"github.com/mateusmacedo/go-sleeper/internal/booking/reservation"
	pkgApp "github.com/mateusmacedo/go-sleeper/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-sleeper/pkg/domain"
)

// Reserver é a parte do motor de reservas da qual os handlers dependem.
type Reserver interface {
	BookSegment(ctx context.Context, req reservation.BookingRequest) (domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) (domain.Booking, error)
	AddMeal(ctx context.Context, bookingID string, sel domain.MealSelection) (domain.Booking, error)
	QueryAvailability(ctx context.Context, seatIDs []int, fromStation, toStation, journeyDate string) (map[int]bool, error)
	SeatMap(ctx context.Context, fromStation, toStation, journeyDate string) ([]reservation.SeatAvailability, error)
	Statistics(ctx context.Context) (reservation.Statistics, error)
	Stations() []domain.Station
	Meals() []domain.Meal
	Seats() []domain.Seat
}

type (
	BookSegmentBus   = pkgApp.CommandBus[pkgDomain.Command[BookSegmentData], BookSegmentData]
	CancelBookingBus = pkgApp.CommandBus[pkgDomain.Command[CancelBookingData], CancelBookingData]
	AddMealBus       = pkgApp.CommandBus[pkgDomain.Command[AddMealData], AddMealData]

	FindBookingBus  = pkgApp.QueryBus[pkgDomain.Query[FindBookingData], FindBookingData, domain.Booking]
	AvailabilityBus = pkgApp.QueryBus[pkgDomain.Query[AvailabilityData], AvailabilityData, map[int]bool]
	SeatMapBus      = pkgApp.QueryBus[pkgDomain.Query[SeatMapData], SeatMapData, []reservation.SeatAvailability]
	StatisticsBus   = pkgApp.QueryBus[pkgDomain.Query[StatisticsData], StatisticsData, reservation.Statistics]
	CatalogBus      = pkgApp.QueryBus[pkgDomain.Query[CatalogData], CatalogData, CatalogView]

	BookingEventBus = pkgApp.EventBus[pkgDomain.Event[BookingEventData], BookingEventData]
)

// Buses agrupa todos os barramentos usados pelo slice de reservas.
type Buses struct {
	BookSegment   BookSegmentBus
	CancelBooking CancelBookingBus
	AddMeal       AddMealBus

	FindBooking  FindBookingBus
	Availability AvailabilityBus
	SeatMap      SeatMapBus
	Statistics   StatisticsBus
	Catalog      CatalogBus
}
