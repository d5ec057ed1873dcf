package scanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stockscan/internal/model"
)

func TestUndo_InvertsStockOut(t *testing.T) {
	client := newStockClient(map[uint]int{7: 10})
	notifier := &recordingNotifier{}
	proc := newTestProcessor(client, notifier)

	// A past stock-out of 3: the inverse request is a stock-in of abs(change).
	entry := proc.History().Push(model.ScanResult{
		ProductID: 7, ProductName: "Widget", ProductSKU: "W-1",
		PreviousQuantity: 13, NewQuantity: 10, Change: -3,
	})

	err := proc.Undo(context.Background(), entry)
	require.NoError(t, err)

	req := client.lastRequest()
	assert.Equal(t, model.ActionScanIn, req.Action)
	assert.Equal(t, 3, req.Quantity)
	assert.Equal(t, UndoReason, req.Reason)
	assert.Equal(t, uint(7), req.ProductID)

	assert.Equal(t, 0, proc.History().Len(), "entry removed after server confirmation")
	require.Len(t, notifier.successes, 1)
}

func TestUndo_InvertsStockIn(t *testing.T) {
	client := newStockClient(map[uint]int{7: 10})
	proc := newTestProcessor(client, &recordingNotifier{})

	entry := proc.History().Push(model.ScanResult{
		ProductID: 7, PreviousQuantity: 9, NewQuantity: 10, Change: 1,
	})

	require.NoError(t, proc.Undo(context.Background(), entry))

	req := client.lastRequest()
	assert.Equal(t, model.ActionScanOut, req.Action)
	assert.Equal(t, 1, req.Quantity)
}

func TestUndo_ScanThenUndoNetsToZero(t *testing.T) {
	stock := map[uint]int{42: 5}
	client := newStockClient(stock)
	proc := newTestProcessor(client, &recordingNotifier{})

	_, err := proc.Process(context.Background(), "SPC42", model.ActionScanIn)
	require.NoError(t, err)
	assert.Equal(t, 6, stock[42])

	entry := proc.History().At(0)
	require.NotNil(t, entry)
	require.NoError(t, proc.Undo(context.Background(), entry))

	assert.Equal(t, 5, stock[42], "scan followed by undo has zero net stock effect")
	assert.Equal(t, 0, proc.History().Len())
}

func TestUndo_FailureRetainsEntryAndAllowsRetry(t *testing.T) {
	calls := 0
	client := &fakeClient{respond: func(req model.ScanRequest) (*model.ScanResult, error) {
		calls++
		if calls == 1 {
			return nil, &ServiceError{StatusCode: 409, Detail: "insufficient stock remaining"}
		}
		return &model.ScanResult{
			ProductID:        req.ProductID,
			PreviousQuantity: 3,
			NewQuantity:      3 - req.Quantity,
			Change:           -req.Quantity,
		}, nil
	}}
	notifier := &recordingNotifier{}
	proc := newTestProcessor(client, notifier)

	entry := proc.History().Push(model.ScanResult{
		ProductID: 7, PreviousQuantity: 2, NewQuantity: 3, Change: 1,
	})

	err := proc.Undo(context.Background(), entry)
	require.Error(t, err)
	assert.Equal(t, 1, proc.History().Len(), "failed undo never removes the entry")
	require.Len(t, notifier.errors, 1)
	assert.Equal(t, "insufficient stock remaining", notifier.errors[0])

	// The undoing flag must be cleared on failure so a retry is possible.
	require.NoError(t, proc.Undo(context.Background(), entry))
	assert.Equal(t, 0, proc.History().Len())
}

func TestUndo_ConcurrentDoubleUndoRejected(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	client := &fakeClient{respond: func(req model.ScanRequest) (*model.ScanResult, error) {
		close(entered)
		<-release
		return &model.ScanResult{ProductID: req.ProductID, PreviousQuantity: 6, NewQuantity: 5, Change: -1}, nil
	}}
	proc := newTestProcessor(client, &recordingNotifier{})

	entry := proc.History().Push(model.ScanResult{
		ProductID: 7, PreviousQuantity: 5, NewQuantity: 6, Change: 1,
	})

	done := make(chan error, 1)
	go func() {
		done <- proc.Undo(context.Background(), entry)
	}()

	<-entered // first undo is now in flight

	err := proc.Undo(context.Background(), entry)
	assert.ErrorIs(t, err, ErrUndoInFlight, "double undo would drift the stock count")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, client.requestCount(), "inverse mutation applied exactly once")
}

func TestUndo_ClearsMatchingLastScan(t *testing.T) {
	client := newStockClient(map[uint]int{42: 5})
	proc := newTestProcessor(client, &recordingNotifier{})

	_, err := proc.Process(context.Background(), "SPC42", model.ActionScanIn)
	require.NoError(t, err)
	require.NotNil(t, proc.LastScan())

	entry := proc.History().At(0)
	require.NoError(t, proc.Undo(context.Background(), entry))

	assert.Nil(t, proc.LastScan(), "last scan no longer reflects current truth")
}

func TestUndo_KeepsUnrelatedLastScan(t *testing.T) {
	client := newStockClient(map[uint]int{1: 5, 2: 5})
	proc := newTestProcessor(client, &recordingNotifier{})

	_, err := proc.Process(context.Background(), "SPC1", model.ActionScanIn)
	require.NoError(t, err)
	_, err = proc.Process(context.Background(), "SPC2", model.ActionScanIn)
	require.NoError(t, err)

	// Undo the older entry; the last-scan slot points at product 2.
	older := proc.History().At(1)
	require.Equal(t, uint(1), older.Result.ProductID)
	require.NoError(t, proc.Undo(context.Background(), older))

	require.NotNil(t, proc.LastScan())
	assert.Equal(t, uint(2), proc.LastScan().ProductID)
}

func TestUndo_NilEntry(t *testing.T) {
	proc := newTestProcessor(newStockClient(nil), &recordingNotifier{})
	assert.Error(t, proc.Undo(context.Background(), nil))
}
