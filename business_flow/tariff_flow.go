package businessflow

import (
	"context"
	"encoding/json"

	"github.com/smitlab/tariff-api/app/dto"
	"github.com/smitlab/tariff-api/models"
	"github.com/smitlab/tariff-api/repository"
	"github.com/smitlab/tariff-api/utils"
)

// TariffFlow defines the tariff CRUD, bulk ingestion, and calculation use cases.
type TariffFlow interface {
	UploadTariffs(ctx context.Context, req *dto.TariffUpload) (*dto.UploadTariffsResponse, error)
	UploadTariffsFile(ctx context.Context, content []byte) (*dto.UploadTariffsResponse, error)
	CalculateTariff(ctx context.Context, req *dto.CalculateTariffRequest) (*dto.CalculateTariffResponse, error)
	CreateTariff(ctx context.Context, req *dto.CreateTariffRequest) (*dto.TariffDTO, error)
	GetTariff(ctx context.Context, id uint) (*dto.TariffDTO, error)
	ListTariffs(ctx context.Context, limit, offset int) ([]dto.TariffDTO, error)
	UpdateTariff(ctx context.Context, id uint, req *dto.UpdateTariffRequest) (*dto.TariffDTO, error)
	DeleteTariff(ctx context.Context, id uint) (*dto.DeleteTariffResponse, error)
}

type TariffFlowImpl struct {
	tariffRepo repository.TariffRepository
}

func NewTariffFlow(tariffRepo repository.TariffRepository) TariffFlow {
	return &TariffFlowImpl{tariffRepo: tariffRepo}
}

// UploadTariffs flattens the date-keyed payload into rows and inserts them in
// one transaction. A failure persists nothing. An empty payload is a no-op
// that still reports success.
func (f *TariffFlowImpl) UploadTariffs(ctx context.Context, req *dto.TariffUpload) (*dto.UploadTariffsResponse, error) {
	rows := flattenUpload(req)

	if err := f.tariffRepo.SaveBatch(ctx, rows); err != nil {
		return nil, NewBusinessError("TARIFF_UPLOAD_FAILED", "Failed to save tariffs", err)
	}

	return &dto.UploadTariffsResponse{Message: "Tariffs successfully created"}, nil
}

// UploadTariffsFile parses raw file content as JSON and ingests it like an
// inline upload. Malformed JSON or schema violations reject the whole file.
func (f *TariffFlowImpl) UploadTariffsFile(ctx context.Context, content []byte) (*dto.UploadTariffsResponse, error) {
	var upload dto.TariffUpload
	if err := json.Unmarshal(content, &upload); err != nil {
		return nil, NewBusinessError("TARIFF_UPLOAD_INVALID_FILE", "Invalid JSON file", ErrInvalidJSONFile)
	}
	return f.UploadTariffs(ctx, &upload)
}

// CalculateTariff multiplies the requested amount by the rate of the first
// tariff matching the exact (date, cargo_type) pair. There is no fallback to
// earlier dates.
func (f *TariffFlowImpl) CalculateTariff(ctx context.Context, req *dto.CalculateTariffRequest) (*dto.CalculateTariffResponse, error) {
	date := utils.TruncateToDay(req.Date.Time)

	tariffs, err := f.tariffRepo.ByDateAndCargoType(ctx, date, req.CargoType)
	if err != nil {
		return nil, NewBusinessError("TARIFF_CALCULATE_FAILED", "Failed to look up tariffs", err)
	}
	if len(tariffs) == 0 {
		return nil, NewBusinessError("TARIFF_CALCULATE_NO_MATCH", "invalid tariff params", ErrNoMatchingTariff)
	}

	return &dto.CalculateTariffResponse{Amount: tariffs[0].Rate * *req.Amount}, nil
}

// CreateTariff inserts a single tariff row and returns it with the
// store-assigned fields populated.
func (f *TariffFlowImpl) CreateTariff(ctx context.Context, req *dto.CreateTariffRequest) (*dto.TariffDTO, error) {
	tariff := &models.Tariff{
		CargoType: req.CargoType,
		Rate:      req.Rate,
		Date:      utils.TruncateToDay(req.Date.Time),
		CreatedAt: utils.UTCNow(),
	}

	if err := f.tariffRepo.Save(ctx, tariff); err != nil {
		return nil, NewBusinessError("TARIFF_CREATE_FAILED", "Failed to create tariff", err)
	}

	res := ToTariffDTO(*tariff)
	return &res, nil
}

// GetTariff looks up a tariff by its identifier.
func (f *TariffFlowImpl) GetTariff(ctx context.Context, id uint) (*dto.TariffDTO, error) {
	tariff, err := f.tariffRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("TARIFF_GET_FAILED", "Failed to get tariff", err)
	}
	if tariff == nil {
		return nil, NewBusinessError("TARIFF_NOT_FOUND", "Tariff not found", ErrTariffNotFound)
	}

	res := ToTariffDTO(*tariff)
	return &res, nil
}

// ListTariffs returns tariffs paginated in the store's natural order.
func (f *TariffFlowImpl) ListTariffs(ctx context.Context, limit, offset int) ([]dto.TariffDTO, error) {
	tariffs, err := f.tariffRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, NewBusinessError("TARIFF_LIST_FAILED", "Failed to list tariffs", err)
	}
	return ToTariffDTOs(tariffs), nil
}

// UpdateTariff applies the provided fields to an existing tariff. Omitted
// fields are left unchanged.
func (f *TariffFlowImpl) UpdateTariff(ctx context.Context, id uint, req *dto.UpdateTariffRequest) (*dto.TariffDTO, error) {
	fields := map[string]any{}
	if req.CargoType != nil {
		fields["cargo_type"] = *req.CargoType
	}
	if req.Rate != nil {
		fields["rate"] = *req.Rate
	}
	if len(fields) == 0 {
		return nil, NewBusinessError("TARIFF_UPDATE_EMPTY", "At least one field must be provided for update", ErrNoUpdateFields)
	}

	tariff, err := f.tariffRepo.Update(ctx, id, fields)
	if err != nil {
		return nil, NewBusinessError("TARIFF_UPDATE_FAILED", "Failed to update tariff", err)
	}
	if tariff == nil {
		return nil, NewBusinessError("TARIFF_NOT_FOUND", "Tariff not found", ErrTariffNotFound)
	}

	res := ToTariffDTO(*tariff)
	return &res, nil
}

// DeleteTariff removes a tariff by its identifier.
func (f *TariffFlowImpl) DeleteTariff(ctx context.Context, id uint) (*dto.DeleteTariffResponse, error) {
	existed, err := f.tariffRepo.Delete(ctx, id)
	if err != nil {
		return nil, NewBusinessError("TARIFF_DELETE_FAILED", "Failed to delete tariff", err)
	}
	if !existed {
		return nil, NewBusinessError("TARIFF_NOT_FOUND", "Tariff not found", ErrTariffNotFound)
	}

	return &dto.DeleteTariffResponse{Message: "Tariff successfully deleted"}, nil
}

func flattenUpload(req *dto.TariffUpload) []*models.Tariff {
	var rows []*models.Tariff
	now := utils.UTCNow()
	for date, items := range req.Data {
		for _, item := range items {
			rows = append(rows, &models.Tariff{
				CargoType: item.CargoType,
				Rate:      item.Rate,
				Date:      date,
				CreatedAt: now,
			})
		}
	}
	return rows
}
