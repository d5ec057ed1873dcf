package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stockscan/internal/middleware"
	"go-stockscan/internal/model"
	"go-stockscan/internal/service"
)

// stubService answers ApplyScan from a canned function; the read endpoints
// are not under test here.
type stubService struct {
	applyScan func(req *model.ScanRequest) (*model.ScanResult, error)
}

func (s *stubService) ApplyScan(req *model.ScanRequest) (*model.ScanResult, error) {
	return s.applyScan(req)
}
func (s *stubService) CreateProduct(req *model.Product) error          { return nil }
func (s *stubService) GetAllProducts() ([]model.Product, error)       { return nil, nil }
func (s *stubService) GetProductByID(id uint) (*model.Product, error) { return nil, nil }
func (s *stubService) GetScanLogs(limit int) ([]model.ScanLog, error) { return nil, nil }
func (s *stubService) GetScanLogByID(id uint) (*model.ScanLog, error) { return nil, nil }

var _ service.InventoryService = (*stubService)(nil)

func newScanApp(svc service.InventoryService) *fiber.App {
	app := fiber.New()
	h := NewInventoryHandler(svc)
	app.Post("/api/v1/inventory/scan", middleware.DeviceContext(), h.Scan)
	return app
}

func postScan(t *testing.T, app *fiber.App, body interface{}, headers map[string]string) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/scan", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestScanHandler_Success(t *testing.T) {
	svc := &stubService{applyScan: func(req *model.ScanRequest) (*model.ScanResult, error) {
		assert.Equal(t, uint(42), req.ProductID)
		assert.Equal(t, model.ActionScanIn, req.Action)
		return &model.ScanResult{
			ProductID:        42,
			ProductName:      "Widget",
			ProductSKU:       "W-1",
			PreviousQuantity: 5,
			NewQuantity:      6,
			Change:           1,
		}, nil
	}}

	resp := postScan(t, newScanApp(svc), model.ScanRequest{
		ProductID: 42, Action: model.ActionScanIn, Quantity: 1, DeviceType: "desktop",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result model.ScanResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 5, result.PreviousQuantity)
	assert.Equal(t, 6, result.NewQuantity)
	assert.Equal(t, 1, result.Change)
}

func TestScanHandler_ErrorStatusMapping(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "product not found",
			err:        service.ErrProductNotFound,
			wantStatus: http.StatusNotFound,
			wantDetail: "product not found",
		},
		{
			name:       "insufficient stock",
			err:        service.ErrInsufficientStock,
			wantStatus: http.StatusConflict,
			wantDetail: "insufficient stock remaining",
		},
		{
			name:       "validation failure",
			err:        &service.ValidationError{Detail: "either product_id or barcode is required"},
			wantStatus: http.StatusBadRequest,
			wantDetail: "either product_id or barcode is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{applyScan: func(req *model.ScanRequest) (*model.ScanResult, error) {
				return nil, tc.err
			}}

			resp := postScan(t, newScanApp(svc), model.ScanRequest{
				ProductID: 1, Action: model.ActionScanOut, Quantity: 1, DeviceType: "mobile",
			}, nil)
			require.Equal(t, tc.wantStatus, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.wantDetail, body["detail"])
		})
	}
}

func TestScanHandler_InvalidJSON(t *testing.T) {
	svc := &stubService{applyScan: func(req *model.ScanRequest) (*model.ScanResult, error) {
		t.Fatal("service must not be called on a parse failure")
		return nil, nil
	}}
	app := newScanApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/scan", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScanHandler_UnknownDeviceHeaderRejected(t *testing.T) {
	svc := &stubService{applyScan: func(req *model.ScanRequest) (*model.ScanResult, error) {
		t.Fatal("service must not be called for an unknown device")
		return nil, nil
	}}

	resp := postScan(t, newScanApp(svc), model.ScanRequest{
		ProductID: 1, Action: model.ActionScanIn, Quantity: 1, DeviceType: "desktop",
	}, map[string]string{"X-Device-Type": "toaster"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
