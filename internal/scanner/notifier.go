package scanner

import (
	"fmt"
	"io"
)

// Notifier is the toast sink: every scan or undo outcome produces exactly
// one notification through it.
type Notifier interface {
	Success(title, description string)
	Error(title, description string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(title, description string) {}
func (NopNotifier) Error(title, description string)   {}

// ConsoleNotifier renders notifications as terminal lines, the CLI stand-in
// for the toast layer.
type ConsoleNotifier struct {
	W io.Writer
}

func (n ConsoleNotifier) Success(title, description string) {
	fmt.Fprintf(n.W, "[ok]  %s: %s\n", title, description)
}

func (n ConsoleNotifier) Error(title, description string) {
	fmt.Fprintf(n.W, "[err] %s: %s\n", title, description)
}

// Haptics is the optional mobile feedback sink. Cosmetic only; the processor
// works with NopHaptics.
type Haptics interface {
	ScanAccepted()
	ScanSucceeded()
	ScanFailed()
}

type NopHaptics struct{}

func (NopHaptics) ScanAccepted()  {}
func (NopHaptics) ScanSucceeded() {}
func (NopHaptics) ScanFailed()    {}
