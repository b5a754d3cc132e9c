package application

import (
	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	pkgDomain "github.com/mateusmacedo/go-sleeper/pkg/domain"
)

const (
	FindBookingQueryName  = "FindBooking"
	AvailabilityQueryName = "QueryAvailability"
	SeatMapQueryName      = "SeatMap"
	StatisticsQueryName   = "Statistics"
	CatalogQueryName      = "Catalog"
)

// FindBookingData busca uma reserva pelo id, ou pelo PNR quando BookingID está vazio.
type FindBookingData struct {
	BookingID string
	PNR       string
}

type findBookingQuery struct {
	data FindBookingData
}

func (q findBookingQuery) QueryName() string {
	return FindBookingQueryName
}

func (q findBookingQuery) Payload() FindBookingData {
	return q.data
}

func NewFindBookingQuery(data FindBookingData) pkgDomain.Query[FindBookingData] {
	return findBookingQuery{data: data}
}

type AvailabilityData struct {
	SeatIDs     []int
	FromStation string
	ToStation   string
	JourneyDate string
}

type availabilityQuery struct {
	data AvailabilityData
}

func (q availabilityQuery) QueryName() string {
	return AvailabilityQueryName
}

func (q availabilityQuery) Payload() AvailabilityData {
	return q.data
}

func NewAvailabilityQuery(data AvailabilityData) pkgDomain.Query[AvailabilityData] {
	return availabilityQuery{data: data}
}

type SeatMapData struct {
	FromStation string
	ToStation   string
	JourneyDate string
}

type seatMapQuery struct {
	data SeatMapData
}

func (q seatMapQuery) QueryName() string {
	return SeatMapQueryName
}

func (q seatMapQuery) Payload() SeatMapData {
	return q.data
}

func NewSeatMapQuery(data SeatMapData) pkgDomain.Query[SeatMapData] {
	return seatMapQuery{data: data}
}

type StatisticsData struct{}

type statisticsQuery struct{}

func (q statisticsQuery) QueryName() string {
	return StatisticsQueryName
}

func (q statisticsQuery) Payload() StatisticsData {
	return StatisticsData{}
}

func NewStatisticsQuery() pkgDomain.Query[StatisticsData] {
	return statisticsQuery{}
}

type CatalogData struct{}

type CatalogView struct {
	Stations []domain.Station `json:"stations"`
	Meals    []domain.Meal    `json:"meals"`
	Seats    []domain.Seat    `json:"seats"`
}

type catalogQuery struct{}

func (q catalogQuery) QueryName() string {
	return CatalogQueryName
}

func (q catalogQuery) Payload() CatalogData {
	return CatalogData{}
}

func NewCatalogQuery() pkgDomain.Query[CatalogData] {
	return catalogQuery{}
}
