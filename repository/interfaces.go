// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/smitlab/tariff-api/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

// DefaultLimit is applied when a caller passes a non-positive limit
const DefaultLimit = 100

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	List(ctx context.Context, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, id uint, fields map[string]any) (*T, error)
	Delete(ctx context.Context, id uint) (bool, error)
	ByFields(ctx context.Context, fields map[string]any, limit, offset int) ([]*T, error)
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// TariffRepository defines operations for tariffs
type TariffRepository interface {
	Repository[models.Tariff, models.TariffFilter]
	ByFilter(ctx context.Context, filter models.TariffFilter, orderBy string, limit, offset int) ([]*models.Tariff, error)
	ByDateAndCargoType(ctx context.Context, date time.Time, cargoType string) ([]*models.Tariff, error)
}
