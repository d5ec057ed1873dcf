package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"go-stockscan/internal/model"
)

// ServiceError carries a non-2xx response from the inventory service. Detail
// is the human-readable reason surfaced verbatim in the error notification.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	return e.Detail
}

// Client talks to the inventory-mutation service over REST. Requests run
// through a circuit breaker so a camera loop pointed at a dead network stops
// hammering the service; service-level rejections (4xx) do not count as
// breaker failures.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:        "inventory-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *ServiceError
			return errors.As(err, &se) && se.StatusCode < http.StatusInternalServerError
		},
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log,
	}
}

// ApplyScan posts one mutation and decodes the authoritative result.
func (c *Client) ApplyScan(ctx context.Context, scanReq model.ScanRequest) (*model.ScanResult, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doScan(ctx, scanReq)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("inventory service unavailable: %w", err)
		}
		return nil, err
	}
	return out.(*model.ScanResult), nil
}

func (c *Client) doScan(ctx context.Context, scanReq model.ScanRequest) (*model.ScanResult, error) {
	body, err := json.Marshal(scanReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/api/v1/inventory/scan"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-Type", scanReq.DeviceType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		var errBody struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(raw, &errBody); err != nil || errBody.Detail == "" {
			errBody.Detail = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return nil, &ServiceError{StatusCode: resp.StatusCode, Detail: errBody.Detail}
	}

	var result model.ScanResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}
