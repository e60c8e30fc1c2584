// Package testing provides test utilities and database setup for testing the tariff service
package testing

import (
	"fmt"
	"time"

	"github.com/smitlab/tariff-api/models"
	"github.com/smitlab/tariff-api/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestTariff inserts a tariff row with the given values
func (tf *TestFixtures) CreateTestTariff(cargoType string, rate float64, date time.Time) (*models.Tariff, error) {
	tariff := &models.Tariff{
		CargoType: cargoType,
		Rate:      rate,
		Date:      utils.TruncateToDay(date),
		CreatedAt: utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(tariff).Error; err != nil {
		return nil, fmt.Errorf("failed to create test tariff: %w", err)
	}
	return tariff, nil
}

// MustDate parses a YYYY-MM-DD string, panicking on malformed input
func MustDate(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}
