package models

import (
	"errors"
	"fmt"
)

// ErrCapabilityUnavailable marks an optional model that is absent or timed
// out. It is logged and triggers the documented fallback, never surfaced.
var ErrCapabilityUnavailable = errors.New("capability unavailable")

// DataSourceError reports malformed or missing required fields from the
// comment source. The batch aborts: aggregation over a malformed corpus is
// meaningless.
type DataSourceError struct {
	Reason string
	Err    error
}

func (e *DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("comment source: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("comment source: %s", e.Reason)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// PersistenceError reports a report sink failure. Surfaced to the caller and
// retryable.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("report sink: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
