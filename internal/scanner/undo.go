package scanner

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"go-stockscan/internal/model"
)

// UndoReason tags the inverse mutation in the server-side scan log.
const UndoReason = "Undo scan"

// ErrUndoInFlight means an undo for this entry is already running. A double
// undo would apply the inverse mutation twice and drift stock by one extra
// unit.
var ErrUndoInFlight = errors.New("undo already in progress for this entry")

// Undo reverses a past scan: it issues a normal scan request with the action
// inverted and quantity abs(change), through the same mutation endpoint.
// The entry is removed from history only after the server confirms, so a
// failed undo never desyncs displayed history from actual stock.
func (p *Processor) Undo(ctx context.Context, entry *HistoryEntry) error {
	if entry == nil {
		return errors.New("no history entry to undo")
	}
	if !entry.beginUndo() {
		return ErrUndoInFlight
	}
	defer entry.endUndo()

	action := model.ActionScanOut // original was a stock-in
	if entry.Result.Change < 0 {
		action = model.ActionScanIn
	}
	quantity := entry.Result.Change
	if quantity < 0 {
		quantity = -quantity
	}

	req := model.ScanRequest{
		ProductID:  entry.Result.ProductID,
		Action:     action,
		Quantity:   quantity,
		Reason:     UndoReason,
		DeviceType: string(p.device),
	}

	result, err := p.client.ApplyScan(ctx, req)
	if err != nil {
		// Entry stays in history so the user can retry.
		p.notifier.Error("Undo failed", reasonFromErr(err))
		p.log.Warn("undo rejected",
			zap.Uint("product_id", entry.Result.ProductID),
			zap.Int("change", entry.Result.Change),
			zap.Error(err))
		return err
	}

	p.history.Remove(entry)

	// The last-scan slot no longer reflects current truth once its product
	// has been reverted.
	p.mu.Lock()
	if p.lastScan != nil && p.lastScan.ProductID == entry.Result.ProductID {
		p.lastScan = nil
	}
	p.mu.Unlock()

	p.notifier.Success("Scan undone",
		fmt.Sprintf("%s: %d -> %d", result.ProductName, result.PreviousQuantity, result.NewQuantity))
	p.log.Info("scan undone",
		zap.Uint("product_id", result.ProductID),
		zap.Int("change", result.Change))

	return nil
}
