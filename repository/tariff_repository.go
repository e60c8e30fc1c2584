package repository

import (
	"context"
	"time"

	"github.com/smitlab/tariff-api/models"
	"gorm.io/gorm"
)

// TariffRepositoryImpl implements TariffRepository interface
type TariffRepositoryImpl struct {
	*BaseRepository[models.Tariff, models.TariffFilter]
}

// NewTariffRepository creates a new tariff repository
func NewTariffRepository(db *gorm.DB) TariffRepository {
	return &TariffRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Tariff, models.TariffFilter](db),
	}
}

// ByDateAndCargoType finds tariffs matching the exact date and cargo type.
// No fallback to earlier dates; an empty slice means no rate is known.
func (r *TariffRepositoryImpl) ByDateAndCargoType(ctx context.Context, date time.Time, cargoType string) ([]*models.Tariff, error) {
	db := r.getDB(ctx)
	var tariffs []*models.Tariff
	err := db.Where("date = ? AND cargo_type = ?", date, cargoType).Find(&tariffs).Error
	if err != nil {
		return nil, err
	}
	return tariffs, nil
}

// ByFilter retrieves tariffs based on filter criteria
func (r *TariffRepositoryImpl) ByFilter(ctx context.Context, filter models.TariffFilter, orderBy string, limit, offset int) ([]*models.Tariff, error) {
	db := r.getDB(ctx)
	var tariffs []*models.Tariff

	query := db.Model(&models.Tariff{})
	query = r.applyFilter(query, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&tariffs).Error
	if err != nil {
		return nil, err
	}
	return tariffs, nil
}

// Count returns the number of tariffs matching the filter
func (r *TariffRepositoryImpl) Count(ctx context.Context, filter models.TariffFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64

	query := db.Model(&models.Tariff{})
	query = r.applyFilter(query, filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any tariff matching the filter exists
func (r *TariffRepositoryImpl) Exists(ctx context.Context, filter models.TariffFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies the filter to the query
func (r *TariffRepositoryImpl) applyFilter(query *gorm.DB, filter models.TariffFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.CargoType != nil {
		query = query.Where("cargo_type = ?", *filter.CargoType)
	}
	if filter.Date != nil {
		query = query.Where("date = ?", *filter.Date)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}
