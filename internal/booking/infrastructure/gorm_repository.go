package infrastructure

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	"github.com/mateusmacedo/go-sleeper/pkg/application"
)

// exclusionViolation é o SQLSTATE levantado por booking_seats_no_overlap.
const exclusionViolation = "23P01"

type gormBookingRepository struct {
	db     *gorm.DB
	logger application.AppLogger
}

// NewGormBookingRepository espera o schema criado pelas migrations do goose.
func NewGormBookingRepository(db *gorm.DB, logger application.AppLogger) domain.BookingRepository {
	return &gormBookingRepository{
		db:     db,
		logger: logger,
	}
}

// Create grava a reserva, as linhas de assento e as de refeição em uma única transação.
func (r *gormBookingRepository) Create(ctx context.Context, booking domain.Booking) error {
	model := toBookingModel(booking)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&model).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.Seats).Error; err != nil {
			return err
		}
		if len(model.Meals) > 0 {
			if err := tx.Create(&model.Meals).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
			application.LogInfo(ctx, r.logger, "seat overlap rejected by database", map[string]interface{}{
				"booking_id": booking.ID,
				"constraint": pgErr.ConstraintName,
			})
			return &domain.SeatUnavailableError{SeatIDs: append([]int(nil), booking.SeatIDs...)}
		}
		application.LogError(ctx, r.logger, "failed to save booking", err, map[string]interface{}{
			"booking_id": booking.ID,
		})
		return err
	}

	application.LogDebug(ctx, r.logger, "booking saved", map[string]interface{}{
		"booking_id": booking.ID,
	})
	return nil
}

func (r *gormBookingRepository) FindByID(ctx context.Context, id string) (domain.Booking, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *gormBookingRepository) FindByPNR(ctx context.Context, pnr string) (domain.Booking, error) {
	return r.findOne(ctx, "pnr = ?", pnr)
}

func (r *gormBookingRepository) findOne(ctx context.Context, query string, arg interface{}) (domain.Booking, error) {
	var model bookingModel

	err := r.db.WithContext(ctx).
		Preload("Seats", func(db *gorm.DB) *gorm.DB { return db.Order("seat_id") }).
		Preload("Meals", func(db *gorm.DB) *gorm.DB { return db.Order("line_no") }).
		Where(query, arg).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Booking{}, domain.ErrNotFound
		}
		application.LogError(ctx, r.logger, "failed to find booking", err, map[string]interface{}{
			"query": query,
			"arg":   arg,
		})
		return domain.Booking{}, err
	}

	return model.toDomain(), nil
}

func (r *gormBookingRepository) ActiveIntervalsBySeat(ctx context.Context, seatID int) ([]domain.Interval, error) {
	var rows []struct {
		BookingID   string
		SeatID      int
		JourneyDate string
		StartKm     int
		EndKm       int
	}

	err := r.db.WithContext(ctx).
		Table("booking_seats AS bs").
		Select("bs.booking_id, bs.seat_id, bs.journey_date, bs.start_km, bs.end_km").
		Joins("JOIN bookings AS b ON b.id = bs.booking_id").
		Where("bs.seat_id = ? AND b.status = ?", seatID, string(domain.StatusConfirmed)).
		Order("bs.start_km").
		Scan(&rows).Error
	if err != nil {
		application.LogError(ctx, r.logger, "failed to load seat intervals", err, map[string]interface{}{
			"seat_id": seatID,
		})
		return nil, err
	}

	intervals := make([]domain.Interval, len(rows))
	for i, row := range rows {
		intervals[i] = domain.Interval{
			SeatID:      row.SeatID,
			BookingID:   row.BookingID,
			JourneyDate: row.JourneyDate,
			Start:       row.StartKm,
			End:         row.EndKm,
		}
	}
	return intervals, nil
}

// UpdateStatus muda o status da reserva e marca suas linhas de assento como ativas apenas
// enquanto confirmada; a constraint de sobreposição de booking_seats só considera as ativas.
func (r *gormBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", id, string(from)).
			Updates(map[string]interface{}{
				"status":     string(to),
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Model(&bookingSeatModel{}).
			Where("booking_id = ?", id).
			Update("active", to == domain.StatusConfirmed).Error
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			application.LogError(ctx, r.logger, "failed to update booking status", err, map[string]interface{}{
				"booking_id": id,
			})
		}
		return err
	}

	application.LogDebug(ctx, r.logger, "booking status updated", map[string]interface{}{
		"booking_id": id,
		"status":     to,
	})
	return nil
}

func (r *gormBookingRepository) AddMeals(ctx context.Context, id string, meals []domain.MealLine, fare domain.FareBreakdown) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", id, string(domain.StatusConfirmed)).
			Updates(map[string]interface{}{
				"meal_charge": fare.MealCharge,
				"total":       fare.Total,
				"updated_at":  time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		rows := toMealModels(id, meals)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		application.LogError(ctx, r.logger, "failed to add meals", err, map[string]interface{}{
			"booking_id": id,
		})
	}
	return err
}

func (r *gormBookingRepository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	var rows []struct {
		Status string
		Count  int
	}

	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		application.LogError(ctx, r.logger, "failed to count bookings", err, nil)
		return nil, err
	}

	counts := make(map[domain.Status]int, len(rows))
	for _, row := range rows {
		counts[domain.Status(row.Status)] = row.Count
	}
	return counts, nil
}
