package domain

import (
	"context"
	"strings"
	"time"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Passenger struct {
	SeatID int    `json:"seatId"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

type MealLine struct {
	LineNo          int    `json:"lineNo"`
	MealID          string `json:"mealId"`
	Name            string `json:"name"`
	UnitPrice       int64  `json:"unitPrice"`
	Quantity        int    `json:"quantity"`
	DeliveryStation string `json:"deliveryStation"`
	Total           int64  `json:"total"`
}

type Booking struct {
	ID          string        `json:"id"`
	PNR         string        `json:"pnr"`
	SeatIDs     []int         `json:"seatIds"`
	FromStation string        `json:"fromStation"`
	ToStation   string        `json:"toStation"`
	StartKm     int           `json:"startKm"`
	EndKm       int           `json:"endKm"`
	JourneyDate string        `json:"journeyDate,omitempty"`
	Contact     Contact       `json:"contact"`
	Passengers  []Passenger   `json:"passengers"`
	Meals       []MealLine    `json:"meals"`
	Fare        FareBreakdown `json:"fare"`
	Status      Status        `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Intervals devolve os intervalos de reserva da booking, um por assento.
func (b Booking) Intervals() []Interval {
	intervals := make([]Interval, len(b.SeatIDs))
	for i, seatID := range b.SeatIDs {
		intervals[i] = Interval{
			SeatID:      seatID,
			BookingID:   b.ID,
			JourneyDate: b.JourneyDate,
			Start:       b.StartKm,
			End:         b.EndKm,
		}
	}
	return intervals
}

func (b Booking) Clone() Booking {
	c := b
	c.SeatIDs = append([]int(nil), b.SeatIDs...)
	c.Passengers = append([]Passenger(nil), b.Passengers...)
	c.Meals = append([]MealLine(nil), b.Meals...)
	return c
}

// NewPNR deriva do uuid novo a referência mostrada ao cliente.
func NewPNR(uuid string) string {
	code := strings.ReplaceAll(uuid, "-", "")
	if len(code) > 8 {
		code = code[:8]
	}
	return "PNR" + strings.ToUpper(code)
}

type BookingRepository interface {
	Create(ctx context.Context, booking Booking) error
	FindByID(ctx context.Context, id string) (Booking, error)
	FindByPNR(ctx context.Context, pnr string) (Booking, error)
	ActiveIntervalsBySeat(ctx context.Context, seatID int) ([]Interval, error)
	// UpdateStatus só faz a transição quando o registro está em from, senão ErrNotFound.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	AddMeals(ctx context.Context, id string, meals []MealLine, fare FareBreakdown) error
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

type Catalog struct {
	Stations []Station
	Seats    []Seat
	Meals    []Meal
}

type CatalogRepository interface {
	LoadCatalog(ctx context.Context) (Catalog, error)
}
