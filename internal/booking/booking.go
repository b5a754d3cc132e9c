package booking

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-sleeper/internal/booking/application"
	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	"github.com/mateusmacedo/go-sleeper/internal/booking/infrastructure"
	"github.com/mateusmacedo/go-sleeper/internal/booking/reservation"
	pkgApp "github.com/mateusmacedo/go-sleeper/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-sleeper/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-sleeper/pkg/infrastructure"
)

type BookingSlice struct {
	httpHandler *infrastructure.BookingHTTPHandler
}

// NewSimpleBuses monta barramentos em processo. Os comandos de reserva precisam devolver
// conflitos a quem chama, então comandos e consultas nunca passam por transporte assíncrono.
func NewSimpleBuses(logger pkgApp.AppLogger) application.Buses {
	return application.Buses{
		BookSegment:   pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.BookSegmentData], application.BookSegmentData](logger),
		CancelBooking: pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CancelBookingData], application.CancelBookingData](logger),
		AddMeal:       pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.AddMealData], application.AddMealData](logger),

		FindBooking:  pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.FindBookingData], application.FindBookingData, domain.Booking](logger),
		Availability: pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.AvailabilityData], application.AvailabilityData, map[int]bool](logger),
		SeatMap:      pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.SeatMapData], application.SeatMapData, []reservation.SeatAvailability](logger),
		Statistics:   pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.StatisticsData], application.StatisticsData, reservation.Statistics](logger),
		Catalog:      pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.CatalogData], application.CatalogData, application.CatalogView](logger),
	}
}

func NewBookingSlice(
	buses application.Buses,
	eventBus application.BookingEventBus,
	reserver application.Reserver,
	repository domain.BookingRepository,
	idGenerator pkgDomain.IDGenerator[string],
	logger pkgApp.AppLogger,
	requestTimeout time.Duration,
) *BookingSlice {
	RegisterHandlers(buses, eventBus, reserver, repository, logger)

	return &BookingSlice{
		httpHandler: infrastructure.NewBookingHTTPHandler(buses, idGenerator, logger, requestTimeout),
	}
}

// RegisterHandlers registra os handlers de reserva nos barramentos.
func RegisterHandlers(
	buses application.Buses,
	eventBus application.BookingEventBus,
	reserver application.Reserver,
	repository domain.BookingRepository,
	logger pkgApp.AppLogger,
) {
	buses.BookSegment.RegisterHandler(application.BookSegmentCommandName, application.NewBookSegmentHandler(reserver, eventBus, logger))
	buses.CancelBooking.RegisterHandler(application.CancelBookingCommandName, application.NewCancelBookingHandler(reserver, eventBus, logger))
	buses.AddMeal.RegisterHandler(application.AddMealCommandName, application.NewAddMealHandler(reserver, logger))

	buses.FindBooking.RegisterHandler(application.FindBookingQueryName, application.NewFindBookingHandler(repository, logger))
	buses.Availability.RegisterHandler(application.AvailabilityQueryName, application.NewAvailabilityHandler(reserver))
	buses.SeatMap.RegisterHandler(application.SeatMapQueryName, application.NewSeatMapHandler(reserver))
	buses.Statistics.RegisterHandler(application.StatisticsQueryName, application.NewStatisticsHandler(reserver))
	buses.Catalog.RegisterHandler(application.CatalogQueryName, application.NewCatalogHandler(reserver))

	auditHandler := application.NewBookingAuditHandler(logger)
	eventBus.RegisterHandler(application.BookingConfirmedEventName, auditHandler)
	eventBus.RegisterHandler(application.BookingCancelledEventName, auditHandler)
}

func (s *BookingSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
