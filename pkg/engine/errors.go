package engine

import (
	"errors"
	"fmt"
)

// StopRequested is the internal signal a parse Callback's StopOutcome
// raises, unwound up to the Engine's loop to trigger the Any->Stopped
// transition of spec.md §4.4.2.
type StopRequested struct {
	Reason error
}

func (e *StopRequested) Error() string {
	if e.Reason == nil {
		return "spider requested stop"
	}
	return fmt.Sprintf("spider requested stop: %v", e.Reason)
}
func (e *StopRequested) Unwrap() error { return e.Reason }

// ErrInitIgnore is returned by Start when the spider's Init returned
// InitIgnore() — the spider is never created.
var ErrInitIgnore = errors.New("init: ignore")

// InitStopError is returned by Start when the spider's Init returned
// InitFailure(reason).
type InitStopError struct {
	Reason error
}

func (e *InitStopError) Error() string { return fmt.Sprintf("init stop: %v", e.Reason) }
func (e *InitStopError) Unwrap() error { return e.Reason }

// ErrUnsupportedFormat is returned by Export for an unrecognized Format.
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// ErrStopped is returned by Engine RPCs issued after the Engine has
// already transitioned to Stopped.
var ErrStopped = errors.New("engine: stopped")

// NormalStop is the canonical :normal stop reason — a clean termination,
// not an error condition, used for export-then-die and explicit
// StopOutcome(nil) calls.
var NormalStop = errors.New("normal")
