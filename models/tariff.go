// Package models contains domain entities and business models for the tariff system
package models

import (
	"time"
)

// Tariff represents the shipping rate for a cargo type effective on a given date.
// Multiple rows may exist for the same (cargo_type, date) pair; lookups take the
// first row in the store's natural order.
type Tariff struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CargoType string    `gorm:"size:255;not null;index:idx_tariffs_cargo_type" json:"cargo_type"`
	Rate      float64   `gorm:"type:decimal(10,2);not null" json:"rate"`
	Date      time.Time `gorm:"type:date;not null;index:idx_tariffs_date" json:"date"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Tariff) TableName() string {
	return "tariffs"
}

// TariffFilter represents filter criteria for tariff queries
type TariffFilter struct {
	ID            *uint
	CargoType     *string
	Date          *time.Time
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
