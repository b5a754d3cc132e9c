package application

import (
	"time"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	pkgDomain "github.com/mateusmacedo/go-sleeper/pkg/domain"
)

const (
	BookingConfirmedEventName = "BookingConfirmed"
	BookingCancelledEventName = "BookingCancelled"
)

// BookingEventData é o payload trafegado pelos eventos do ciclo de vida da reserva.
type BookingEventData struct {
	BookingID   string        `json:"bookingId"`
	PNR         string        `json:"pnr"`
	SeatIDs     []int         `json:"seatIds"`
	FromStation string        `json:"fromStation"`
	ToStation   string        `json:"toStation"`
	JourneyDate string        `json:"journeyDate,omitempty"`
	Total       int64         `json:"total"`
	Status      domain.Status `json:"status"`
	OccurredAt  time.Time     `json:"occurredAt"`
}

func NewBookingEventData(booking domain.Booking, occurredAt time.Time) BookingEventData {
	return BookingEventData{
		BookingID:   booking.ID,
		PNR:         booking.PNR,
		SeatIDs:     append([]int(nil), booking.SeatIDs...),
		FromStation: booking.FromStation,
		ToStation:   booking.ToStation,
		JourneyDate: booking.JourneyDate,
		Total:       booking.Fare.Total,
		Status:      booking.Status,
		OccurredAt:  occurredAt,
	}
}

type bookingEvent struct {
	name string
	data BookingEventData
}

func (e bookingEvent) EventName() string {
	return e.name
}

func (e bookingEvent) Payload() BookingEventData {
	return e.data
}

func NewBookingConfirmedEvent(data BookingEventData) pkgDomain.Event[BookingEventData] {
	return bookingEvent{name: BookingConfirmedEventName, data: data}
}

func NewBookingCancelledEvent(data BookingEventData) pkgDomain.Event[BookingEventData] {
	return bookingEvent{name: BookingCancelledEventName, data: data}
}
