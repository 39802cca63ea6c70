// Package bootstraperr defines the typed error kinds the tier runner can
// surface to the caller of Start. Only ConfigError, BackendError, and
// ReentrancyError ever escape Start; CancelledError is returned as a plain
// nil (Start simply returns early) and is defined here only so tests and
// callers have a name for the condition.
package bootstraperr

import (
	"fmt"
	"time"
)

// ConfigError reports a nonsense option value, rejected before Tier 0
// starts.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
}

func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{Field: field, Value: value, Underlying: err}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

func (e *ConfigError) Unwrap() error { return e.Underlying }

// BackendError reports a failed backend operation (UpsertFiles,
// UpsertDirectories, GetFileByPath). It surfaces to the caller of Start and
// aborts the current and subsequent tiers.
type BackendError struct {
	Operation  string
	Tier       string
	Underlying error
	Timestamp  time.Time
}

func NewBackendError(op, tier string, err error) *BackendError {
	return &BackendError{Operation: op, Tier: tier, Underlying: err, Timestamp: time.Now()}
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s failed during tier %s: %v", e.Operation, e.Tier, e.Underlying)
}

func (e *BackendError) Unwrap() error { return e.Underlying }

// ReentrancyError reports a second concurrent Start call on the same
// engine instance. It fails fast with no state change.
type ReentrancyError struct{}

func (e *ReentrancyError) Error() string {
	return "bootstrap engine: start already in progress"
}

// CancelledError names the condition under which Start returns without an
// error after an abort was observed; Start itself returns nil in that case
// (per spec, cancellation is not a caller-visible error).
type CancelledError struct{}

func (e *CancelledError) Error() string {
	return "bootstrap engine: run was aborted"
}
