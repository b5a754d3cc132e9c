package infrastructure

import (
	"time"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
)

type bookingModel struct {
	ID            string `gorm:"primaryKey"`
	PNR           string `gorm:"column:pnr;uniqueIndex"`
	FromStation   string
	ToStation     string
	StartKm       int
	EndKm         int
	JourneyDate   string
	ContactName   string
	ContactEmail  string
	ContactPhone  string
	DistanceKm    int
	PerSeatCharge int64
	SeatCharge    int64
	MealCharge    int64
	Total         int64
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Seats []bookingSeatModel `gorm:"foreignKey:BookingID;references:ID"`
	Meals []bookingMealModel `gorm:"foreignKey:BookingID;references:ID"`
}

func (bookingModel) TableName() string { return "bookings" }

// bookingSeatModel é um intervalo de reserva mais o passageiro que viaja nele.
type bookingSeatModel struct {
	BookingID       string `gorm:"primaryKey"`
	SeatID          int    `gorm:"primaryKey"`
	JourneyDate     string
	StartKm         int
	EndKm           int
	PassengerName   string
	PassengerAge    int
	PassengerGender string
	Price           int64
	Active          bool
}

func (bookingSeatModel) TableName() string { return "booking_seats" }

type bookingMealModel struct {
	BookingID       string `gorm:"primaryKey"`
	LineNo          int    `gorm:"primaryKey"`
	MealID          string
	MealName        string
	UnitPrice       int64
	Quantity        int
	DeliveryStation string
	Total           int64
}

func (bookingMealModel) TableName() string { return "booking_meals" }

type stationModel struct {
	ID            string `gorm:"primaryKey"`
	Name          string
	Sequence      int
	DistanceKm    int
	ArrivalTime   string
	DepartureTime string
}

func (stationModel) TableName() string { return "stations" }

type seatModel struct {
	ID         int `gorm:"primaryKey;autoIncrement:false"`
	Deck       string
	LadiesOnly bool
}

func (seatModel) TableName() string { return "seats" }

type mealModel struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Description string
	Price       int64
	Type        string
	Available   bool
}

func (mealModel) TableName() string { return "meals" }

func toBookingModel(b domain.Booking) bookingModel {
	m := bookingModel{
		ID:            b.ID,
		PNR:           b.PNR,
		FromStation:   b.FromStation,
		ToStation:     b.ToStation,
		StartKm:       b.StartKm,
		EndKm:         b.EndKm,
		JourneyDate:   b.JourneyDate,
		ContactName:   b.Contact.Name,
		ContactEmail:  b.Contact.Email,
		ContactPhone:  b.Contact.Phone,
		DistanceKm:    b.Fare.DistanceKm,
		PerSeatCharge: b.Fare.PerSeat,
		SeatCharge:    b.Fare.SeatCharge,
		MealCharge:    b.Fare.MealCharge,
		Total:         b.Fare.Total,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	passengers := make(map[int]domain.Passenger, len(b.Passengers))
	for _, p := range b.Passengers {
		passengers[p.SeatID] = p
	}
	for _, seatID := range b.SeatIDs {
		p := passengers[seatID]
		m.Seats = append(m.Seats, bookingSeatModel{
			BookingID:       b.ID,
			SeatID:          seatID,
			JourneyDate:     b.JourneyDate,
			StartKm:         b.StartKm,
			EndKm:           b.EndKm,
			PassengerName:   p.Name,
			PassengerAge:    p.Age,
			PassengerGender: p.Gender,
			Price:           b.Fare.PerSeat,
			Active:          b.Status == domain.StatusConfirmed,
		})
	}
	m.Meals = toMealModels(b.ID, b.Meals)
	return m
}

func toMealModels(bookingID string, lines []domain.MealLine) []bookingMealModel {
	models := make([]bookingMealModel, 0, len(lines))
	for _, l := range lines {
		models = append(models, bookingMealModel{
			BookingID:       bookingID,
			LineNo:          l.LineNo,
			MealID:          l.MealID,
			MealName:        l.Name,
			UnitPrice:       l.UnitPrice,
			Quantity:        l.Quantity,
			DeliveryStation: l.DeliveryStation,
			Total:           l.Total,
		})
	}
	return models
}

func (m bookingModel) toDomain() domain.Booking {
	b := domain.Booking{
		ID:          m.ID,
		PNR:         m.PNR,
		FromStation: m.FromStation,
		ToStation:   m.ToStation,
		StartKm:     m.StartKm,
		EndKm:       m.EndKm,
		JourneyDate: m.JourneyDate,
		Contact: domain.Contact{
			Name:  m.ContactName,
			Email: m.ContactEmail,
			Phone: m.ContactPhone,
		},
		Fare: domain.FareBreakdown{
			DistanceKm: m.DistanceKm,
			PerSeat:    m.PerSeatCharge,
			SeatCharge: m.SeatCharge,
			MealCharge: m.MealCharge,
			Total:      m.Total,
		},
		Status:    domain.Status(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for _, s := range m.Seats {
		b.SeatIDs = append(b.SeatIDs, s.SeatID)
		if s.PassengerName != "" {
			b.Passengers = append(b.Passengers, domain.Passenger{
				SeatID: s.SeatID,
				Name:   s.PassengerName,
				Age:    s.PassengerAge,
				Gender: s.PassengerGender,
			})
		}
	}
	for _, l := range m.Meals {
		b.Meals = append(b.Meals, domain.MealLine{
			LineNo:          l.LineNo,
			MealID:          l.MealID,
			Name:            l.MealName,
			UnitPrice:       l.UnitPrice,
			Quantity:        l.Quantity,
			DeliveryStation: l.DeliveryStation,
			Total:           l.Total,
		})
	}
	return b
}
