// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/smitlab/tariff-api/app/dto"
	"github.com/smitlab/tariff-api/models"
)

const RequestIDKey = "X-Request-ID"

// ToTariffDTO converts a tariff model to its response representation
func ToTariffDTO(tariff models.Tariff) dto.TariffDTO {
	return dto.TariffDTO{
		ID:        tariff.ID,
		CargoType: tariff.CargoType,
		Rate:      tariff.Rate,
		Date:      tariff.Date.Format(time.DateOnly),
		CreatedAt: tariff.CreatedAt.Format(time.RFC3339),
	}
}

// ToTariffDTOs converts a slice of tariff models, preserving order
func ToTariffDTOs(tariffs []*models.Tariff) []dto.TariffDTO {
	items := make([]dto.TariffDTO, 0, len(tariffs))
	for _, t := range tariffs {
		items = append(items, ToTariffDTO(*t))
	}
	return items
}
