package scanner

import (
	"sync"
	"sync/atomic"
	"time"

	"go-stockscan/internal/model"
)

// DefaultHistoryCap bounds the scan history. Both surfaces share the same
// cap; oldest entries are evicted silently.
const DefaultHistoryCap = 50

// HistoryEntry is a recorded past scan result, displayed and undoable.
type HistoryEntry struct {
	ID        int64
	Result    model.ScanResult
	ScannedAt time.Time

	undoing atomic.Bool
}

// beginUndo marks the entry as having an undo in flight. Returns false when
// an undo is already running, so the same entry cannot be inverted twice.
func (e *HistoryEntry) beginUndo() bool {
	return e.undoing.CompareAndSwap(false, true)
}

func (e *HistoryEntry) endUndo() {
	e.undoing.Store(false)
}

// History is an ordered, capped, most-recent-first log of scan results.
// It is an injectable instance rather than a package singleton so each
// surface (and each test) owns an isolated copy. Mutated only by the scan
// processor (push), the undo engine (remove) and the user clear action.
type History struct {
	mu      sync.Mutex
	cap     int
	seq     int64
	entries []*HistoryEntry
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCap
	}
	return &History{cap: capacity}
}

// Push prepends a result and evicts the oldest entry beyond the cap.
func (h *History) Push(result model.ScanResult) *HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	entry := &HistoryEntry{ID: h.seq, Result: result, ScannedAt: time.Now()}
	h.entries = append([]*HistoryEntry{entry}, h.entries...)
	if len(h.entries) > h.cap {
		h.entries = h.entries[:h.cap]
	}
	return entry
}

// Remove deletes the entry by identity. Returns false when the entry is no
// longer present (already undone or evicted).
func (h *History) Remove(entry *HistoryEntry) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, e := range h.entries {
		if e == entry {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return true
		}
	}
	return false
}

// At returns the entry at position i (0 = most recent), nil when out of range.
func (h *History) At(i int) *HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	if i < 0 || i >= len(h.entries) {
		return nil
	}
	return h.entries[i]
}

// Entries returns a snapshot copy, most recent first.
func (h *History) Entries() []*HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Clear empties the history. User initiated, irreversible, does not touch
// server-side stock.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}
