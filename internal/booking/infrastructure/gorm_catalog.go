package infrastructure

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	"github.com/mateusmacedo/go-sleeper/pkg/application"
)

// GormCatalogRepository lê a rota, a frota e o cardápio semeados pelas migrations.
type GormCatalogRepository struct {
	db     *gorm.DB
	logger application.AppLogger
}

func NewGormCatalogRepository(db *gorm.DB, logger application.AppLogger) *GormCatalogRepository {
	return &GormCatalogRepository{db: db, logger: logger}
}

func (r *GormCatalogRepository) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	var (
		stations []stationModel
		seats    []seatModel
		meals    []mealModel
	)

	db := r.db.WithContext(ctx)
	if err := db.Order("sequence").Find(&stations).Error; err != nil {
		return domain.Catalog{}, fmt.Errorf("load stations: %w", err)
	}
	if err := db.Order("id").Find(&seats).Error; err != nil {
		return domain.Catalog{}, fmt.Errorf("load seats: %w", err)
	}
	if err := db.Order("id").Find(&meals).Error; err != nil {
		return domain.Catalog{}, fmt.Errorf("load meals: %w", err)
	}

	catalog := domain.Catalog{
		Stations: make([]domain.Station, 0, len(stations)),
		Seats:    make([]domain.Seat, 0, len(seats)),
		Meals:    make([]domain.Meal, 0, len(meals)),
	}
	for _, s := range stations {
		catalog.Stations = append(catalog.Stations, domain.Station{
			ID:            s.ID,
			Name:          s.Name,
			Sequence:      s.Sequence,
			DistanceKm:    s.DistanceKm,
			ArrivalTime:   s.ArrivalTime,
			DepartureTime: s.DepartureTime,
		})
	}
	for _, s := range seats {
		catalog.Seats = append(catalog.Seats, domain.Seat{
			ID:         s.ID,
			Deck:       domain.Deck(s.Deck),
			LadiesOnly: s.LadiesOnly,
		})
	}
	for _, m := range meals {
		catalog.Meals = append(catalog.Meals, domain.Meal{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			Price:       m.Price,
			Type:        domain.MealType(m.Type),
			Available:   m.Available,
		})
	}

	application.LogInfo(ctx, r.logger, "catalog loaded", map[string]interface{}{
		"stations": len(catalog.Stations),
		"seats":    len(catalog.Seats),
		"meals":    len(catalog.Meals),
	})
	return catalog, nil
}
