package scanner

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is how long a repeated identical code is suppressed.
// A continuous camera decode loop re-detects a stationary barcode many times
// per second; without this a single physical scan becomes dozens of mutations.
const DefaultDebounceWindow = 5 * time.Second

// DuplicateGuard suppresses re-processing of the most recently accepted code
// inside a fixed window. Orthogonal to the processor's in-flight guard: this
// blocks re-submission of the same code, the in-flight guard blocks
// overlapping submissions of any code.
type DuplicateGuard struct {
	mu       sync.Mutex
	window   time.Duration
	lastCode string
	lastAt   time.Time
}

func NewDuplicateGuard(window time.Duration) *DuplicateGuard {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &DuplicateGuard{window: window}
}

// ShouldSuppress reports whether code is a duplicate of the last accepted
// code inside the window. A non-suppressed code is recorded as the new most
// recently accepted one.
func (g *DuplicateGuard) ShouldSuppress(code string, now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if code == g.lastCode && now.Sub(g.lastAt) < g.window {
		return true
	}

	g.lastCode = code
	g.lastAt = now
	return false
}

// Reset forgets the last accepted code so the next scan of it is processed.
func (g *DuplicateGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastCode = ""
	g.lastAt = time.Time{}
}
