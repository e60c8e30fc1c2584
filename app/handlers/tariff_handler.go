package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/smitlab/tariff-api/app/dto"
	businessflow "github.com/smitlab/tariff-api/business_flow"
	"github.com/smitlab/tariff-api/utils"
)

// TariffHandlerInterface defines the contract for tariff handlers
type TariffHandlerInterface interface {
	UploadTariffs(c fiber.Ctx) error
	UploadTariffsFile(c fiber.Ctx) error
	CalculateTariff(c fiber.Ctx) error
	CreateTariff(c fiber.Ctx) error
	GetTariff(c fiber.Ctx) error
	ListTariffs(c fiber.Ctx) error
	UpdateTariff(c fiber.Ctx) error
	DeleteTariff(c fiber.Ctx) error
}

// TariffHandler handles tariff-related HTTP requests
type TariffHandler struct {
	flow      businessflow.TariffFlow
	validator *validator.Validate
}

// NewTariffHandler creates a new tariff handler
func NewTariffHandler(flow businessflow.TariffFlow) TariffHandlerInterface {
	return &TariffHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

func (h *TariffHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *TariffHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// UploadTariffs ingests a date-keyed tariff mapping from the request body
// @Summary Bulk upload tariffs
// @Description Ingest a mapping of YYYY-MM-DD keys to tariff items in one transaction
// @Tags Tariffs
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.UploadTariffsResponse} "Tariffs created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /tariffs/upload/ [post]
func (h *TariffHandler) UploadTariffs(c fiber.Ctx) error {
	var req dto.TariffUpload
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "TARIFF_UPLOAD_INVALID", nil)
	}

	res, err := h.flow.UploadTariffs(h.createRequestContext(c, "/tariffs/upload/"), &req)
	if err != nil {
		return h.tariffErrorResponse(c, err, "Upload tariffs failed")
	}

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// UploadTariffsFile ingests tariffs from an uploaded JSON file
// @Summary Bulk upload tariffs from file
// @Description Parse an uploaded JSON file with the same shape as the inline upload
// @Tags Tariffs
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "JSON file with date-keyed tariffs"
// @Success 200 {object} dto.APIResponse{data=dto.UploadTariffsResponse} "Tariffs created"
// @Failure 400 {object} dto.APIResponse "Invalid JSON file"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /tariffs/upload-file/ [post]
func (h *TariffHandler) UploadTariffsFile(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "File is required", "TARIFF_UPLOAD_FILE_MISSING", nil)
	}

	content, err := readFormFile(fileHeader)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file", "TARIFF_UPLOAD_FILE_UNREADABLE", nil)
	}

	res, err := h.flow.UploadTariffsFile(h.createRequestContext(c, "/tariffs/upload-file/"), content)
	if err != nil {
		return h.tariffErrorResponse(c, err, "Upload tariffs file failed")
	}

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// CalculateTariff multiplies a matching rate by the requested amount
// @Summary Calculate shipping cost
// @Description Multiply the rate of the exact (date, cargo_type) match by the requested amount
// @Tags Tariffs
// @Accept json
// @Produce json
// @Param request body dto.CalculateTariffRequest true "Calculation parameters"
// @Success 200 {object} dto.APIResponse{data=dto.CalculateTariffResponse} "Computed amount"
// @Failure 400 {object} dto.APIResponse "No matching tariff or validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /tariffs/calculate/ [post]
func (h *TariffHandler) CalculateTariff(c fiber.Ctx) error {
	var req dto.CalculateTariffRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "TARIFF_CALCULATE_INVALID", nil)
	}

	if details, ok := h.validateStruct(&req); !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "TARIFF_CALCULATE_INVALID", details)
	}

	res, err := h.flow.CalculateTariff(h.createRequestContext(c, "/tariffs/calculate/"), &req)
	if err != nil {
		return h.tariffErrorResponse(c, err, "Calculate tariff failed")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tariff calculated", res)
}

// CreateTariff inserts a single tariff row
// @Summary Create tariff
// @Description Insert one tariff row and return it with the assigned id
// @Tags Tariffs
// @Accept json
// @Produce json
// @Param request body dto.CreateTariffRequest true "Tariff data"
// @Success 201 {object} dto.APIResponse{data=dto.TariffDTO} "Created tariff"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /tariffs/tariffs/ [post]
func (h *TariffHandler) CreateTariff(c fiber.Ctx) error {
	var req dto.CreateTariffRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "TARIFF_CREATE_INVALID", nil)
	}

	if details, ok := h.validateStruct(&req); !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "TARIFF_CREATE_INVALID", details)
	}

	res, err := h.flow.CreateTariff(h.createRequestContext(c, "/tariffs/tariffs/"), &req)
	if err != nil {
		return h.tariffErrorResponse(c, err, "Create tariff failed")
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Tariff created", res)
}

// GetTariff looks up a tariff by id
// @Summary Get tariff
// @Description Point lookup of a tariff by its identifier
// @Tags Tariffs
// @Produce json
// @Param id path int true "Tariff ID"
// @Success 200 {object} dto.APIResponse{data=dto.TariffDTO} "Tariff"
// @Failure 404 {object} dto.APIResponse "Tariff not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /tariffs/tariffs/{id}/ [get]
func (h *TariffHandler) GetTariff(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid tariff id", "TARIFF_ID_INVALID", nil)
	}

	res, err := h.flow.GetTariff(h.createRequestContext(c, "/tariffs/tariffs/:id/"), id)
	if err != nil {
		return h.tariffErrorResponse(c, err, "Get tariff failed")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tariff retrieved", res)
}

// ListTariffs returns tariffs paginated by limit and offset
// @Summary List tariffs
// @Description Paginated listing in the store's natural order
// @Tags Tariffs
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.APIResponse{data=[]dto.TariffDTO} "Tariffs"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /tariffs/tariffs/ [get]
func (h *TariffHandler) ListTariffs(c fiber.Ctx) error {
	limit := utils.DefaultListLimit
	if v, err := strconv.Atoi(c.Query("limit", strconv.Itoa(utils.DefaultListLimit))); err == nil && v > 0 {
		limit = v
	}
	if limit > utils.MaxListLimit {
		limit = utils.MaxListLimit
	}
	offset := utils.DefaultListOffset
	if v, err := strconv.Atoi(c.Query("offset", "0")); err == nil && v >= 0 {
		offset = v
	}

	res, err := h.flow.ListTariffs(h.createRequestContext(c, "/tariffs/tariffs/"), limit, offset)
	if err != nil {
		return h.tariffErrorResponse(c, err, "List tariffs failed")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tariffs retrieved", res)
}

// UpdateTariff partially updates a tariff; omitted fields stay unchanged
// @Summary Update tariff
// @Description Apply the provided fields to the tariff with the given id
// @Tags Tariffs
// @Accept json
// @Produce json
// @Param id path int true "Tariff ID"
// @Param request body dto.UpdateTariffRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.TariffDTO} "Updated tariff"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Tariff not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /tariffs/tariffs/{id}/ [put]
func (h *TariffHandler) UpdateTariff(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid tariff id", "TARIFF_ID_INVALID", nil)
	}

	var req dto.UpdateTariffRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "TARIFF_UPDATE_INVALID", nil)
		}
	}

	// Query parameters are accepted as an alternative to the body
	if req.CargoType == nil {
		if v := c.Query("cargo_type"); v != "" {
			req.CargoType = utils.ToPtr(v)
		}
	}
	if req.Rate == nil {
		if v := c.Query("rate"); v != "" {
			rate, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid rate", "TARIFF_UPDATE_INVALID", nil)
			}
			req.Rate = utils.ToPtr(rate)
		}
	}

	if details, ok := h.validateStruct(&req); !ok {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "TARIFF_UPDATE_INVALID", details)
	}

	res, err := h.flow.UpdateTariff(h.createRequestContext(c, "/tariffs/tariffs/:id/"), id, &req)
	if err != nil {
		return h.tariffErrorResponse(c, err, "Update tariff failed")
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tariff updated", res)
}

// DeleteTariff removes a tariff by id
// @Summary Delete tariff
// @Description Remove the tariff with the given id
// @Tags Tariffs
// @Produce json
// @Param id path int true "Tariff ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteTariffResponse} "Deleted"
// @Failure 404 {object} dto.APIResponse "Tariff not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /tariffs/tariffs/{id}/ [delete]
func (h *TariffHandler) DeleteTariff(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid tariff id", "TARIFF_ID_INVALID", nil)
	}

	res, err := h.flow.DeleteTariff(h.createRequestContext(c, "/tariffs/tariffs/:id/"), id)
	if err != nil {
		return h.tariffErrorResponse(c, err, "Delete tariff failed")
	}

	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// tariffErrorResponse maps business errors to HTTP statuses
func (h *TariffHandler) tariffErrorResponse(c fiber.Ctx, err error, logPrefix string) error {
	log.Println(logPrefix+":", err)

	be, ok := businessflow.IsBusinessError(err)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, logPrefix, "TARIFF_INTERNAL_ERROR", nil)
	}

	switch {
	case errors.Is(err, businessflow.ErrTariffNotFound):
		return h.ErrorResponse(c, fiber.StatusNotFound, be.Message, be.Code, nil)
	case errors.Is(err, businessflow.ErrNoMatchingTariff),
		errors.Is(err, businessflow.ErrInvalidJSONFile),
		errors.Is(err, businessflow.ErrNoUpdateFields):
		return h.ErrorResponse(c, fiber.StatusBadRequest, be.Message, be.Code, nil)
	default:
		return h.ErrorResponse(c, fiber.StatusInternalServerError, be.Message, be.Code, nil)
	}
}

func (h *TariffHandler) validateStruct(req any) ([]map[string]string, bool) {
	err := h.validator.Struct(req)
	if err == nil {
		return nil, true
	}

	var details []map[string]string
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			details = append(details, map[string]string{
				"field":   verr.Field(),
				"message": getValidationErrorMessage(verr),
			})
		}
	}
	return details, false
}

func (h *TariffHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, utils.DefaultRequestTimeout)
}

func createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}

func parseIDParam(c fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
