package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/smitlab/tariff-api/app/dto"
	businessflow "github.com/smitlab/tariff-api/business_flow"
	"github.com/smitlab/tariff-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTariffFlow lets each test drive the flow responses directly
type stubTariffFlow struct {
	uploadFn     func(ctx context.Context, req *dto.TariffUpload) (*dto.UploadTariffsResponse, error)
	uploadFileFn func(ctx context.Context, content []byte) (*dto.UploadTariffsResponse, error)
	calculateFn  func(ctx context.Context, req *dto.CalculateTariffRequest) (*dto.CalculateTariffResponse, error)
	createFn     func(ctx context.Context, req *dto.CreateTariffRequest) (*dto.TariffDTO, error)
	getFn        func(ctx context.Context, id uint) (*dto.TariffDTO, error)
	listFn       func(ctx context.Context, limit, offset int) ([]dto.TariffDTO, error)
	updateFn     func(ctx context.Context, id uint, req *dto.UpdateTariffRequest) (*dto.TariffDTO, error)
	deleteFn     func(ctx context.Context, id uint) (*dto.DeleteTariffResponse, error)
}

func (s *stubTariffFlow) UploadTariffs(ctx context.Context, req *dto.TariffUpload) (*dto.UploadTariffsResponse, error) {
	return s.uploadFn(ctx, req)
}

func (s *stubTariffFlow) UploadTariffsFile(ctx context.Context, content []byte) (*dto.UploadTariffsResponse, error) {
	return s.uploadFileFn(ctx, content)
}

func (s *stubTariffFlow) CalculateTariff(ctx context.Context, req *dto.CalculateTariffRequest) (*dto.CalculateTariffResponse, error) {
	return s.calculateFn(ctx, req)
}

func (s *stubTariffFlow) CreateTariff(ctx context.Context, req *dto.CreateTariffRequest) (*dto.TariffDTO, error) {
	return s.createFn(ctx, req)
}

func (s *stubTariffFlow) GetTariff(ctx context.Context, id uint) (*dto.TariffDTO, error) {
	return s.getFn(ctx, id)
}

func (s *stubTariffFlow) ListTariffs(ctx context.Context, limit, offset int) ([]dto.TariffDTO, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *stubTariffFlow) UpdateTariff(ctx context.Context, id uint, req *dto.UpdateTariffRequest) (*dto.TariffDTO, error) {
	return s.updateFn(ctx, id, req)
}

func (s *stubTariffFlow) DeleteTariff(ctx context.Context, id uint) (*dto.DeleteTariffResponse, error) {
	return s.deleteFn(ctx, id)
}

func newTariffTestApp(flow businessflow.TariffFlow) *fiber.App {
	app := fiber.New()
	h := NewTariffHandler(flow)
	tariffs := app.Group("/tariffs")
	tariffs.Post("/upload/", h.UploadTariffs)
	tariffs.Post("/upload-file/", h.UploadTariffsFile)
	tariffs.Post("/calculate/", h.CalculateTariff)
	tariffs.Post("/tariffs/", h.CreateTariff)
	tariffs.Get("/tariffs/", h.ListTariffs)
	tariffs.Get("/tariffs/:id/", h.GetTariff)
	tariffs.Put("/tariffs/:id/", h.UpdateTariff)
	tariffs.Delete("/tariffs/:id/", h.DeleteTariff)
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeAPIResponse(t *testing.T, res *http.Response) dto.APIResponse {
	t.Helper()
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var parsed dto.APIResponse
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return parsed
}

func TestCreateTariffHandler(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		flow := &stubTariffFlow{
			createFn: func(_ context.Context, req *dto.CreateTariffRequest) (*dto.TariffDTO, error) {
				return &dto.TariffDTO{ID: 1, CargoType: req.CargoType, Rate: req.Rate, Date: "2024-01-01"}, nil
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(jsonRequest("POST", "/tariffs/tariffs/", `{"cargo_type": "Glass", "rate": 10.5, "date": "2024-01-01"}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, res.StatusCode)

		body := decodeAPIResponse(t, res)
		assert.True(t, body.Success)
	})

	t.Run("NonPositiveRateRejected", func(t *testing.T) {
		flow := &stubTariffFlow{
			createFn: func(_ context.Context, _ *dto.CreateTariffRequest) (*dto.TariffDTO, error) {
				t.Fatal("flow must not be called for invalid input")
				return nil, nil
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(jsonRequest("POST", "/tariffs/tariffs/", `{"cargo_type": "Glass", "rate": -1, "date": "2024-01-01"}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})

	t.Run("MalformedDateRejected", func(t *testing.T) {
		flow := &stubTariffFlow{}
		app := newTariffTestApp(flow)

		res, err := app.Test(jsonRequest("POST", "/tariffs/tariffs/", `{"cargo_type": "Glass", "rate": 1, "date": "01-01-2024"}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})
}

func TestGetTariffHandler(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		flow := &stubTariffFlow{
			getFn: func(_ context.Context, _ uint) (*dto.TariffDTO, error) {
				return nil, businessflow.NewBusinessError("TARIFF_NOT_FOUND", "Tariff not found", businessflow.ErrTariffNotFound)
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(httptest.NewRequest("GET", "/tariffs/tariffs/7/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

		body := decodeAPIResponse(t, res)
		assert.False(t, body.Success)
		assert.Equal(t, "Tariff not found", body.Message)
	})

	t.Run("InvalidID", func(t *testing.T) {
		flow := &stubTariffFlow{}
		app := newTariffTestApp(flow)

		res, err := app.Test(httptest.NewRequest("GET", "/tariffs/tariffs/abc/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})
}

func TestListTariffsHandler(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		var gotLimit, gotOffset int
		flow := &stubTariffFlow{
			listFn: func(_ context.Context, limit, offset int) ([]dto.TariffDTO, error) {
				gotLimit, gotOffset = limit, offset
				return []dto.TariffDTO{}, nil
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(httptest.NewRequest("GET", "/tariffs/tariffs/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.Equal(t, utils.DefaultListLimit, gotLimit)
		assert.Equal(t, utils.DefaultListOffset, gotOffset)
	})

	t.Run("ExplicitPagination", func(t *testing.T) {
		var gotLimit, gotOffset int
		flow := &stubTariffFlow{
			listFn: func(_ context.Context, limit, offset int) ([]dto.TariffDTO, error) {
				gotLimit, gotOffset = limit, offset
				return []dto.TariffDTO{}, nil
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(httptest.NewRequest("GET", "/tariffs/tariffs/?limit=1&offset=1", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.Equal(t, 1, gotLimit)
		assert.Equal(t, 1, gotOffset)
	})
}

func TestUpdateTariffHandler(t *testing.T) {
	t.Run("QueryParamsAccepted", func(t *testing.T) {
		var gotReq *dto.UpdateTariffRequest
		flow := &stubTariffFlow{
			updateFn: func(_ context.Context, _ uint, req *dto.UpdateTariffRequest) (*dto.TariffDTO, error) {
				gotReq = req
				return &dto.TariffDTO{ID: 3, CargoType: "Glass", Rate: 15.5, Date: "2024-01-01"}, nil
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(httptest.NewRequest("PUT", "/tariffs/tariffs/3/?rate=15.5", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		require.NotNil(t, gotReq.Rate)
		assert.InDelta(t, 15.5, *gotReq.Rate, 0.001)
		assert.Nil(t, gotReq.CargoType)
	})

	t.Run("NotFound", func(t *testing.T) {
		flow := &stubTariffFlow{
			updateFn: func(_ context.Context, _ uint, _ *dto.UpdateTariffRequest) (*dto.TariffDTO, error) {
				return nil, businessflow.NewBusinessError("TARIFF_NOT_FOUND", "Tariff not found", businessflow.ErrTariffNotFound)
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(jsonRequest("PUT", "/tariffs/tariffs/3/", `{"rate": 1.5}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	})
}

func TestDeleteTariffHandler(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		flow := &stubTariffFlow{
			deleteFn: func(_ context.Context, _ uint) (*dto.DeleteTariffResponse, error) {
				return nil, businessflow.NewBusinessError("TARIFF_NOT_FOUND", "Tariff not found", businessflow.ErrTariffNotFound)
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(httptest.NewRequest("DELETE", "/tariffs/tariffs/42/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	})
}

func TestCalculateTariffHandler(t *testing.T) {
	t.Run("NoMatchIsBadRequest", func(t *testing.T) {
		flow := &stubTariffFlow{
			calculateFn: func(_ context.Context, _ *dto.CalculateTariffRequest) (*dto.CalculateTariffResponse, error) {
				return nil, businessflow.NewBusinessError("TARIFF_CALCULATE_NO_MATCH", "invalid tariff params", businessflow.ErrNoMatchingTariff)
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(jsonRequest("POST", "/tariffs/calculate/", `{"amount": 2, "date": "2024-01-01", "cargo_type": "A"}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

		body := decodeAPIResponse(t, res)
		assert.Equal(t, "invalid tariff params", body.Message)
	})

	t.Run("ComputedAmount", func(t *testing.T) {
		flow := &stubTariffFlow{
			calculateFn: func(_ context.Context, req *dto.CalculateTariffRequest) (*dto.CalculateTariffResponse, error) {
				return &dto.CalculateTariffResponse{Amount: *req.Amount * 10.5}, nil
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(jsonRequest("POST", "/tariffs/calculate/", `{"amount": 2, "date": "2024-01-01", "cargo_type": "A"}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("ZeroAmountAccepted", func(t *testing.T) {
		var gotAmount *float64
		flow := &stubTariffFlow{
			calculateFn: func(_ context.Context, req *dto.CalculateTariffRequest) (*dto.CalculateTariffResponse, error) {
				gotAmount = req.Amount
				return &dto.CalculateTariffResponse{Amount: *req.Amount * 10.5}, nil
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(jsonRequest("POST", "/tariffs/calculate/", `{"amount": 0, "date": "2024-01-01", "cargo_type": "A"}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		require.NotNil(t, gotAmount)
		assert.Zero(t, *gotAmount)
	})

	t.Run("NegativeAmountAccepted", func(t *testing.T) {
		flow := &stubTariffFlow{
			calculateFn: func(_ context.Context, req *dto.CalculateTariffRequest) (*dto.CalculateTariffResponse, error) {
				return &dto.CalculateTariffResponse{Amount: *req.Amount * 10.5}, nil
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(jsonRequest("POST", "/tariffs/calculate/", `{"amount": -3.5, "date": "2024-01-01", "cargo_type": "A"}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})

	t.Run("MissingAmountRejected", func(t *testing.T) {
		flow := &stubTariffFlow{
			calculateFn: func(_ context.Context, _ *dto.CalculateTariffRequest) (*dto.CalculateTariffResponse, error) {
				t.Fatal("flow must not be called for invalid input")
				return nil, nil
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(jsonRequest("POST", "/tariffs/calculate/", `{"date": "2024-01-01", "cargo_type": "A"}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})
}

func TestUploadTariffsHandler(t *testing.T) {
	t.Run("MalformedKeyRejected", func(t *testing.T) {
		flow := &stubTariffFlow{
			uploadFn: func(_ context.Context, _ *dto.TariffUpload) (*dto.UploadTariffsResponse, error) {
				t.Fatal("flow must not be called for invalid payload")
				return nil, nil
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(jsonRequest("POST", "/tariffs/upload/", `{"2024-13-01": [{"cargo_type": "A", "rate": 1}]}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})

	t.Run("ValidPayloadAccepted", func(t *testing.T) {
		flow := &stubTariffFlow{
			uploadFn: func(_ context.Context, req *dto.TariffUpload) (*dto.UploadTariffsResponse, error) {
				assert.Len(t, req.Data, 1)
				return &dto.UploadTariffsResponse{Message: "Tariffs successfully created"}, nil
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(jsonRequest("POST", "/tariffs/upload/", `{"2024-01-01": [{"cargo_type": "A", "rate": 10.5}]}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
	})
}

func TestUploadTariffsFileHandler(t *testing.T) {
	newFileUpload := func(t *testing.T, content string) *http.Request {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "tariffs.json")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest("POST", "/tariffs/upload-file/", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	t.Run("FileForwardedToFlow", func(t *testing.T) {
		var gotContent []byte
		flow := &stubTariffFlow{
			uploadFileFn: func(_ context.Context, content []byte) (*dto.UploadTariffsResponse, error) {
				gotContent = content
				return &dto.UploadTariffsResponse{Message: "Tariffs successfully created"}, nil
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(newFileUpload(t, `{"2024-01-01": [{"cargo_type": "A", "rate": 10.5}]}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.Contains(t, string(gotContent), "2024-01-01")
	})

	t.Run("InvalidJSONFile", func(t *testing.T) {
		flow := &stubTariffFlow{
			uploadFileFn: func(_ context.Context, content []byte) (*dto.UploadTariffsResponse, error) {
				return nil, businessflow.NewBusinessError("TARIFF_UPLOAD_INVALID_FILE", "Invalid JSON file", businessflow.ErrInvalidJSONFile)
			},
		}
		app := newTariffTestApp(flow)

		res, err := app.Test(newFileUpload(t, `{not json`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

		body := decodeAPIResponse(t, res)
		assert.Equal(t, "Invalid JSON file", body.Message)
	})

	t.Run("MissingFile", func(t *testing.T) {
		flow := &stubTariffFlow{}
		app := newTariffTestApp(flow)

		res, err := app.Test(jsonRequest("POST", "/tariffs/upload-file/", `{}`))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})
}
