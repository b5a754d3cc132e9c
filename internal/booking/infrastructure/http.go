package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mateusmacedo/go-sleeper/internal/booking/application"
	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	pkgApp "github.com/mateusmacedo/go-sleeper/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-sleeper/pkg/domain"
)

const (
	defaultRequestTimeout = 10 * time.Second
	retryAfterSeconds     = "1"
)

type BookingHTTPHandler struct {
	buses          application.Buses
	idGenerator    pkgDomain.IDGenerator[string]
	validate       *validator.Validate
	logger         pkgApp.AppLogger
	requestTimeout time.Duration
}

func NewBookingHTTPHandler(
	buses application.Buses,
	idGenerator pkgDomain.IDGenerator[string],
	logger pkgApp.AppLogger,
	requestTimeout time.Duration,
) *BookingHTTPHandler {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	return &BookingHTTPHandler{
		buses:          buses,
		idGenerator:    idGenerator,
		validate:       mustNewValidator(),
		logger:         logger,
		requestTimeout: requestTimeout,
	}
}

func (h *BookingHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealth)
		r.Get("/stations", h.HandleListStations)
		r.Get("/meals", h.HandleListMeals)
		r.Get("/seats", h.HandleSeatMap)
		r.Post("/seats/availability", h.HandleAvailability)
		r.Get("/statistics", h.HandleStatistics)

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", h.HandleBookSegment)
			r.Get("/pnr/{pnr}", h.HandleFindByPNR)
			r.Get("/{bookingID}", h.HandleFindBooking)
			r.Delete("/{bookingID}", h.HandleCancelBooking)
			r.Post("/{bookingID}/meals", h.HandleAddMeal)
		})
	})
}

func (h *BookingHTTPHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Success: true, Message: "ok"})
}

func (h *BookingHTTPHandler) HandleBookSegment(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	bookingID := h.idGenerator()
	if err := h.buses.BookSegment.Dispatch(ctx, application.NewBookSegmentCommand(req.toCommandData(bookingID))); err != nil {
		h.handleError(ctx, w, err)
		return
	}

	booking, err := h.buses.FindBooking.Dispatch(ctx, application.NewFindBookingQuery(application.FindBookingData{BookingID: bookingID}))
	if err != nil {
		h.handleError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Success: true, Message: "booking confirmed", Data: booking})
}

func (h *BookingHTTPHandler) HandleFindBooking(w http.ResponseWriter, r *http.Request) {
	h.findBooking(w, r, application.FindBookingData{BookingID: chi.URLParam(r, "bookingID")})
}

func (h *BookingHTTPHandler) HandleFindByPNR(w http.ResponseWriter, r *http.Request) {
	h.findBooking(w, r, application.FindBookingData{PNR: chi.URLParam(r, "pnr")})
}

func (h *BookingHTTPHandler) findBooking(w http.ResponseWriter, r *http.Request, data application.FindBookingData) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	booking, err := h.buses.FindBooking.Dispatch(ctx, application.NewFindBookingQuery(data))
	if err != nil {
		h.handleError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Data: booking})
}

func (h *BookingHTTPHandler) HandleCancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	if err := h.buses.CancelBooking.Dispatch(ctx, application.NewCancelBookingCommand(application.CancelBookingData{BookingID: bookingID})); err != nil {
		h.handleError(ctx, w, err)
		return
	}

	booking, err := h.buses.FindBooking.Dispatch(ctx, application.NewFindBookingQuery(application.FindBookingData{BookingID: bookingID}))
	if err != nil {
		h.handleError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Message: "booking cancelled", Data: booking})
}

func (h *BookingHTTPHandler) HandleAddMeal(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")

	var req mealRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	command := application.NewAddMealCommand(application.AddMealData{BookingID: bookingID, Meal: req.toSelection()})
	if err := h.buses.AddMeal.Dispatch(ctx, command); err != nil {
		h.handleError(ctx, w, err)
		return
	}

	booking, err := h.buses.FindBooking.Dispatch(ctx, application.NewFindBookingQuery(application.FindBookingData{BookingID: bookingID}))
	if err != nil {
		h.handleError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Message: "meal added", Data: booking})
}

func (h *BookingHTTPHandler) HandleAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	availability, err := h.buses.Availability.Dispatch(ctx, application.NewAvailabilityQuery(application.AvailabilityData{
		SeatIDs:     req.SeatIDs,
		FromStation: req.FromStation,
		ToStation:   req.ToStation,
		JourneyDate: req.JourneyDate,
	}))
	if err != nil {
		h.handleError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Data: availability})
}

func (h *BookingHTTPHandler) HandleSeatMap(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := seatMapRequest{
		FromStation: query.Get("from"),
		ToStation:   query.Get("to"),
		JourneyDate: query.Get("date"),
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	seats, err := h.buses.SeatMap.Dispatch(ctx, application.NewSeatMapQuery(application.SeatMapData{
		FromStation: req.FromStation,
		ToStation:   req.ToStation,
		JourneyDate: req.JourneyDate,
	}))
	if err != nil {
		h.handleError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Data: seats})
}

func (h *BookingHTTPHandler) HandleListStations(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.catalog(w, r)
	if ok {
		writeJSON(w, http.StatusOK, response{Success: true, Data: catalog.Stations})
	}
}

func (h *BookingHTTPHandler) HandleListMeals(w http.ResponseWriter, r *http.Request) {
	catalog, ok := h.catalog(w, r)
	if ok {
		writeJSON(w, http.StatusOK, response{Success: true, Data: catalog.Meals})
	}
}

func (h *BookingHTTPHandler) catalog(w http.ResponseWriter, r *http.Request) (application.CatalogView, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	catalog, err := h.buses.Catalog.Dispatch(ctx, application.NewCatalogQuery())
	if err != nil {
		h.handleError(ctx, w, err)
		return application.CatalogView{}, false
	}
	return catalog, true
}

func (h *BookingHTTPHandler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	stats, err := h.buses.Statistics.Dispatch(ctx, application.NewStatisticsQuery())
	if err != nil {
		h.handleError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Data: stats})
}

func (h *BookingHTTPHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "invalid request body"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: err.Error()})
		return false
	}
	return true
}

func (h *BookingHTTPHandler) handleError(ctx context.Context, w http.ResponseWriter, err error) {
	var unavailable *domain.SeatUnavailableError

	switch {
	case errors.As(err, &unavailable):
		writeJSON(w, http.StatusConflict, response{Success: false, Message: err.Error(), Seats: unavailable.SeatIDs})
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUnknownStation),
		errors.Is(err, domain.ErrInvalidRoute):
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, response{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrBookingCancelled):
		writeJSON(w, http.StatusConflict, response{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		w.Header().Set("Retry-After", retryAfterSeconds)
		writeJSON(w, http.StatusServiceUnavailable, response{Success: false, Message: "seats are busy, retry the request"})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, response{Success: false, Message: "request timed out"})
	default:
		pkgApp.LogError(ctx, h.logger, "request failed", err, nil)
		writeJSON(w, http.StatusInternalServerError, response{Success: false, Message: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
