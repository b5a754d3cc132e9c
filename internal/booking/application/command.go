package application

import (
	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	pkgDomain "github.com/mateusmacedo/go-sleeper/pkg/domain"
)

const (
	BookSegmentCommandName   = "BookSegment"
	CancelBookingCommandName = "CancelBooking"
	AddMealCommandName       = "AddMeal"
)

// BookSegmentData carrega um BookingID gerado por quem chama para consultar o resultado após o despacho.
type BookSegmentData struct {
	BookingID   string
	SeatIDs     []int
	FromStation string
	ToStation   string
	JourneyDate string
	Contact     domain.Contact
	Passengers  []domain.Passenger
	Meals       []domain.MealSelection
}

type bookSegmentCommand struct {
	data BookSegmentData
}

func (c bookSegmentCommand) CommandName() string {
	return BookSegmentCommandName
}

func (c bookSegmentCommand) Payload() BookSegmentData {
	return c.data
}

func NewBookSegmentCommand(data BookSegmentData) pkgDomain.Command[BookSegmentData] {
	return bookSegmentCommand{data: data}
}

type CancelBookingData struct {
	BookingID string
}

type cancelBookingCommand struct {
	data CancelBookingData
}

func (c cancelBookingCommand) CommandName() string {
	return CancelBookingCommandName
}

func (c cancelBookingCommand) Payload() CancelBookingData {
	return c.data
}

func NewCancelBookingCommand(data CancelBookingData) pkgDomain.Command[CancelBookingData] {
	return cancelBookingCommand{data: data}
}

type AddMealData struct {
	BookingID string
	Meal      domain.MealSelection
}

type addMealCommand struct {
	data AddMealData
}

func (c addMealCommand) CommandName() string {
	return AddMealCommandName
}

func (c addMealCommand) Payload() AddMealData {
	return c.data
}

func NewAddMealCommand(data AddMealData) pkgDomain.Command[AddMealData] {
	return addMealCommand{data: data}
}
