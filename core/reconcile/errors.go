package reconcile

import (
	"fmt"

	"mapwize-api/core/models"
)

// FetchError reports a failed server listing. Nothing has been mutated.
type FetchError struct {
	Kind    models.Kind
	VenueID string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to list %s objects of venue %s: %v", e.Kind, e.VenueID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError reports a malformed desired object, detected before any mutation.
type ValidationError struct {
	Kind   models.Kind
	Index  int
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid %s at index %d: %s", e.Kind, e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q at index %d: %s", e.Kind, e.Name, e.Index, e.Reason)
}

// ExecutionError reports the gateway mutation that aborted a reconciliation.
type ExecutionError struct {
	Op   Action
	Kind models.Kind
	Name string
	ID   string
	Err  error
}

func (e *ExecutionError) Error() string {
	target := fmt.Sprintf("%q", e.Name)
	if e.ID != "" {
		target = fmt.Sprintf("%q (%s)", e.Name, e.ID)
	}
	return fmt.Sprintf("failed to %s %s %s: %v", e.Op, e.Kind, target, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
