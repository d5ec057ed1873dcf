package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-stockscan/internal/model"
)

type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceMobile  DeviceType = "mobile"
)

var (
	// ErrScanInFlight means a scan is already being processed. Scans are
	// strictly serial per surface: a second code arriving before the first
	// mutation resolves is dropped, never queued.
	ErrScanInFlight = errors.New("scan already in flight")

	// ErrDuplicateScan means the code was suppressed by the debounce guard.
	ErrDuplicateScan = errors.New("duplicate scan suppressed")
)

// InventoryAPI is the scan boundary to the inventory-mutation service.
type InventoryAPI interface {
	ApplyScan(ctx context.Context, req model.ScanRequest) (*model.ScanResult, error)
}

// ProcessorConfig wires a Processor. Zero-value fields get working defaults
// so tests can instantiate isolated processors with only a client.
type ProcessorConfig struct {
	Client   InventoryAPI
	History  *History
	Guard    *DuplicateGuard
	Notifier Notifier
	Haptics  Haptics
	Device   DeviceType
	Logger   *zap.Logger
}

// Processor is the scan state machine: Idle -> Processing -> Idle, one
// outstanding mutation at most, history updated only after the server
// confirms.
type Processor struct {
	client   InventoryAPI
	history  *History
	guard    *DuplicateGuard
	notifier Notifier
	haptics  Haptics
	device   DeviceType
	log      *zap.Logger

	mu       sync.Mutex
	inFlight bool
	lastScan *model.ScanResult
}

func NewProcessor(cfg ProcessorConfig) *Processor {
	if cfg.History == nil {
		cfg.History = NewHistory(DefaultHistoryCap)
	}
	if cfg.Guard == nil {
		cfg.Guard = NewDuplicateGuard(DefaultDebounceWindow)
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NopNotifier{}
	}
	if cfg.Haptics == nil {
		cfg.Haptics = NopHaptics{}
	}
	if cfg.Device == "" {
		cfg.Device = DeviceDesktop
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Processor{
		client:   cfg.Client,
		history:  cfg.History,
		guard:    cfg.Guard,
		notifier: cfg.Notifier,
		haptics:  cfg.Haptics,
		device:   cfg.Device,
		log:      cfg.Logger,
	}
}

func (p *Processor) History() *History { return p.history }

// LastScan returns a copy of the single-slot last scan state, nil when empty.
func (p *Processor) LastScan() *model.ScanResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastScan == nil {
		return nil
	}
	res := *p.lastScan
	return &res
}

// ClearLastScan empties the last scan slot without touching history.
func (p *Processor) ClearLastScan() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastScan = nil
}

// Process runs one scan event end to end: in-flight guard, debounce,
// interpretation, one mutation of quantity 1, then history + last-scan +
// notification. The guard is released on every path so the surface never
// gets stuck.
func (p *Processor) Process(ctx context.Context, code string, action model.ScanAction) (*model.ScanResult, error) {
	if !p.acquire() {
		return nil, ErrScanInFlight
	}
	defer p.release()

	if p.guard.ShouldSuppress(code, time.Now()) {
		p.log.Debug("duplicate code suppressed", zap.String("code", code))
		return nil, ErrDuplicateScan
	}

	ref, err := Interpret(code)
	if err != nil {
		// Local reject, no network call for a code the service can never resolve.
		p.haptics.ScanFailed()
		p.notifier.Error("Scan failed", err.Error())
		return nil, err
	}
	p.haptics.ScanAccepted()

	req := model.ScanRequest{
		Action:     action,
		Quantity:   1,
		DeviceType: string(p.device),
	}
	if ref.Kind == RefProduct {
		req.ProductID = ref.ProductID
	} else {
		req.Barcode = ref.Raw
	}

	result, err := p.client.ApplyScan(ctx, req)
	if err != nil {
		p.haptics.ScanFailed()
		p.notifier.Error("Scan failed", reasonFromErr(err))
		p.log.Warn("scan rejected",
			zap.String("code", code),
			zap.String("action", string(action)),
			zap.Error(err))
		return nil, err
	}

	p.history.Push(*result)
	p.mu.Lock()
	res := *result
	p.lastScan = &res
	p.mu.Unlock()

	p.haptics.ScanSucceeded()
	p.notifier.Success("Stock updated",
		fmt.Sprintf("%s: %d -> %d", result.ProductName, result.PreviousQuantity, result.NewQuantity))
	p.log.Info("scan applied",
		zap.Uint("product_id", result.ProductID),
		zap.Int("previous", result.PreviousQuantity),
		zap.Int("new", result.NewQuantity),
		zap.Int("change", result.Change))

	return result, nil
}

func (p *Processor) acquire() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight {
		return false
	}
	p.inFlight = true
	return true
}

func (p *Processor) release() {
	p.mu.Lock()
	p.inFlight = false
	p.mu.Unlock()
}

// reasonFromErr surfaces the service-reported detail verbatim when present.
func reasonFromErr(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Detail
	}
	return err.Error()
}
