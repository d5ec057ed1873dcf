package scanner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stockscan/internal/model"
)

func TestClient_ApplyScanSuccess(t *testing.T) {
	var got model.ScanRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/inventory/scan", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "desktop", r.Header.Get("X-Device-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(model.ScanResult{
			ProductID:        42,
			ProductName:      "Widget",
			ProductSKU:       "W-1",
			PreviousQuantity: 5,
			NewQuantity:      6,
			Change:           1,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	res, err := client.ApplyScan(context.Background(), model.ScanRequest{
		ProductID:  42,
		Action:     model.ActionScanIn,
		Quantity:   1,
		DeviceType: "desktop",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(42), res.ProductID)
	assert.Equal(t, 5, res.PreviousQuantity)
	assert.Equal(t, 6, res.NewQuantity)
	assert.Equal(t, 1, res.Change)

	assert.Equal(t, uint(42), got.ProductID)
	assert.Equal(t, model.ActionScanIn, got.Action)
}

func TestClient_DetailSurfacedVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "product not found"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.ApplyScan(context.Background(), model.ScanRequest{Barcode: "XYZ123", Action: model.ActionScanIn, Quantity: 1})
	require.Error(t, err)

	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "product not found", se.Detail)
}

func TestClient_MissingDetailGetsFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.ApplyScan(context.Background(), model.ScanRequest{ProductID: 1, Action: model.ActionScanIn, Quantity: 1})

	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Detail, "502")
}

func TestClient_ServiceRejectionsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"detail": "insufficient stock remaining"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	// Ten consecutive 4xx rejections: every one must still reach the service.
	for i := 0; i < 10; i++ {
		_, err := client.ApplyScan(context.Background(), model.ScanRequest{ProductID: 1, Action: model.ActionScanOut, Quantity: 1})
		var se *ServiceError
		require.ErrorAs(t, err, &se, "call %d", i)
	}
}

func TestClient_ServerFailuresTripBreaker(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	for i := 0; i < 5; i++ {
		_, err := client.ApplyScan(context.Background(), model.ScanRequest{ProductID: 1, Action: model.ActionScanIn, Quantity: 1})
		require.Error(t, err)
	}

	// Breaker is now open; the next call fails fast without a request.
	_, err := client.ApplyScan(context.Background(), model.ScanRequest{ProductID: 1, Action: model.ActionScanIn, Quantity: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inventory service unavailable")
	assert.Equal(t, 5, calls)
}
