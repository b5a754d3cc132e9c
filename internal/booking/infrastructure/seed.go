package infrastructure

import (
	"context"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
)

const (
	fleetSize       = 40
	lowerDeckSeats  = 20
	ladiesSeatEvery = 10
)

// StaticCatalog serve a rota embutida de Ahmedabad a Mumbai usada pelo driver em memória.
type StaticCatalog struct {
	catalog domain.Catalog
}

func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{catalog: SeedCatalog()}
}

func (c *StaticCatalog) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	if ctx.Err() != nil {
		return domain.Catalog{}, ctx.Err()
	}
	return c.catalog, nil
}

func SeedCatalog() domain.Catalog {
	return domain.Catalog{
		Stations: []domain.Station{
			{ID: "ST001", Name: "Ahmedabad", Sequence: 1, DistanceKm: 0, DepartureTime: "22:00"},
			{ID: "ST002", Name: "Vadodara", Sequence: 2, DistanceKm: 110, ArrivalTime: "23:45", DepartureTime: "23:50"},
			{ID: "ST003", Name: "Surat", Sequence: 3, DistanceKm: 260, ArrivalTime: "02:15", DepartureTime: "02:20"},
			{ID: "ST004", Name: "Mumbai", Sequence: 4, DistanceKm: 530, ArrivalTime: "06:30"},
		},
		Seats: seedSeats(),
		Meals: []domain.Meal{
			{ID: "M001", Name: "Veg Thali", Description: "Roti, dal, sabzi, rice and salad", Price: 150, Type: domain.MealVeg, Available: true},
			{ID: "M002", Name: "Paneer Combo", Description: "Paneer curry with rice and roti", Price: 180, Type: domain.MealVeg, Available: true},
			{ID: "M003", Name: "Chicken Biryani", Description: "Biryani with raita", Price: 220, Type: domain.MealNonVeg, Available: true},
			{ID: "M004", Name: "Jain Thali", Description: "Thali without onion and garlic", Price: 160, Type: domain.MealJain, Available: true},
		},
	}
}

func seedSeats() []domain.Seat {
	seats := make([]domain.Seat, 0, fleetSize)
	for id := 1; id <= fleetSize; id++ {
		deck := domain.DeckLower
		if id > lowerDeckSeats {
			deck = domain.DeckUpper
		}
		seats = append(seats, domain.Seat{
			ID:         id,
			Deck:       deck,
			LadiesOnly: id%ladiesSeatEvery == 0,
		})
	}
	return seats
}
