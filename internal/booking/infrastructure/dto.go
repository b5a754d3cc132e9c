package infrastructure

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/mateusmacedo/go-sleeper/internal/booking/application"
	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
)

var phonePattern = regexp.MustCompile(`^[0-9+]+$`)

type contactRequest struct {
	Name  string `json:"name"  validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=10,max=15,phone"`
}

type passengerRequest struct {
	SeatID int    `json:"seatId" validate:"required,gt=0"`
	Name   string `json:"name"   validate:"required,min=2,max=100"`
	Age    int    `json:"age"    validate:"required,min=1,max=120"`
	Gender string `json:"gender" validate:"required,oneof=male female other"`
}

type mealRequest struct {
	MealID          string `json:"mealId"          validate:"required"`
	Quantity        int    `json:"quantity"        validate:"required,min=1,max=20"`
	DeliveryStation string `json:"deliveryStation" validate:"omitempty"`
}

type createBookingRequest struct {
	SeatIDs     []int              `json:"seatIds"     validate:"required,min=1,dive,gt=0"`
	FromStation string             `json:"fromStation" validate:"required"`
	ToStation   string             `json:"toStation"   validate:"required,nefield=FromStation"`
	JourneyDate string             `json:"journeyDate" validate:"omitempty,datetime=2006-01-02"`
	Contact     contactRequest     `json:"contact"     validate:"required"`
	Passengers  []passengerRequest `json:"passengers"  validate:"omitempty,dive"`
	Meals       []mealRequest      `json:"meals"       validate:"omitempty,dive"`
}

type availabilityRequest struct {
	SeatIDs     []int  `json:"seatIds"     validate:"required,min=1,dive,gt=0"`
	FromStation string `json:"fromStation" validate:"required"`
	ToStation   string `json:"toStation"   validate:"required"`
	JourneyDate string `json:"journeyDate" validate:"omitempty,datetime=2006-01-02"`
}

type seatMapRequest struct {
	FromStation string `validate:"required"`
	ToStation   string `validate:"required"`
	JourneyDate string `validate:"omitempty,datetime=2006-01-02"`
}

type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Seats   []int       `json:"conflictingSeats,omitempty"`
}

// mustNewValidator entra em pânico se uma regra customizada não puder ser registrada.
func mustNewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register phone validation: %v", err))
	}
	return v
}

func (r createBookingRequest) toCommandData(bookingID string) application.BookSegmentData {
	data := application.BookSegmentData{
		BookingID:   bookingID,
		SeatIDs:     r.SeatIDs,
		FromStation: r.FromStation,
		ToStation:   r.ToStation,
		JourneyDate: r.JourneyDate,
		Contact: domain.Contact{
			Name:  r.Contact.Name,
			Email: r.Contact.Email,
			Phone: r.Contact.Phone,
		},
	}
	for _, p := range r.Passengers {
		data.Passengers = append(data.Passengers, domain.Passenger{
			SeatID: p.SeatID,
			Name:   p.Name,
			Age:    p.Age,
			Gender: p.Gender,
		})
	}
	for _, m := range r.Meals {
		data.Meals = append(data.Meals, m.toSelection())
	}
	return data
}

func (m mealRequest) toSelection() domain.MealSelection {
	return domain.MealSelection{
		MealID:          m.MealID,
		Quantity:        m.Quantity,
		DeliveryStation: m.DeliveryStation,
	}
}
