// Package dto contains request and response contracts for the API endpoints
package dto

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateValue accepts either a plain date (YYYY-MM-DD) or an RFC3339 date-time
// in JSON. The time-of-day component, if any, is dropped on use.
type DateValue struct {
	time.Time
}

func (d *DateValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: use 'YYYY-MM-DD' or RFC3339", s)
	}
	d.Time = t
	return nil
}

func (d DateValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.DateOnly))
}

// TariffItem is one rate entry under a date key of an upload payload
type TariffItem struct {
	CargoType string  `json:"cargo_type" validate:"required"`
	Rate      float64 `json:"rate" validate:"required,gt=0"`
}

// TariffUpload is a mapping from date keys (YYYY-MM-DD) to rate entries.
// Parsing is two-phase: keys are converted into calendar dates first, then
// every item is checked. Any malformed key or non-positive rate rejects the
// whole payload; there is no partial acceptance.
type TariffUpload struct {
	Data map[time.Time][]TariffItem
}

func (u *TariffUpload) UnmarshalJSON(b []byte) error {
	var raw map[string][]TariffItem
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	data := make(map[time.Time][]TariffItem, len(raw))
	for key, items := range raw {
		day, err := time.Parse(time.DateOnly, key)
		if err != nil {
			return fmt.Errorf("invalid date format for key: %s. Use 'YYYY-MM-DD'", key)
		}
		for _, item := range items {
			if item.CargoType == "" {
				return fmt.Errorf("cargo_type is required for date %s", key)
			}
			if item.Rate <= 0 {
				return fmt.Errorf("rate must be greater than 0 for date %s", key)
			}
		}
		data[day] = items
	}

	u.Data = data
	return nil
}

// UploadTariffsResponse confirms a bulk ingestion
type UploadTariffsResponse struct {
	Message string `json:"message"`
}

// CreateTariffRequest creates a single tariff row
type CreateTariffRequest struct {
	CargoType string    `json:"cargo_type" validate:"required"`
	Rate      float64   `json:"rate" validate:"required,gt=0"`
	Date      DateValue `json:"date" validate:"required"`
}

// UpdateTariffRequest partially updates a tariff row. Omitted fields are left
// unchanged; there is no way to null a column through this request.
type UpdateTariffRequest struct {
	CargoType *string  `json:"cargo_type,omitempty" validate:"omitempty,min=1"`
	Rate      *float64 `json:"rate,omitempty" validate:"omitempty,gt=0"`
}

// CalculateTariffRequest asks for rate * amount on an exact (date, cargo_type)
// match. Amount is a pointer so zero and negative values pass through; only a
// missing amount is rejected.
type CalculateTariffRequest struct {
	Amount    *float64  `json:"amount" validate:"required"`
	Date      DateValue `json:"date" validate:"required"`
	CargoType string    `json:"cargo_type" validate:"required"`
}

// CalculateTariffResponse carries the computed amount
type CalculateTariffResponse struct {
	Amount float64 `json:"amount"`
}

// TariffDTO mirrors the persisted tariff entity
type TariffDTO struct {
	ID        uint    `json:"id"`
	CargoType string  `json:"cargo_type"`
	Rate      float64 `json:"rate"`
	Date      string  `json:"date"`
	CreatedAt string  `json:"created_at"`
}

// DeleteTariffResponse confirms a deletion
type DeleteTariffResponse struct {
	Message string `json:"message"`
}
