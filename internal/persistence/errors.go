package persistence

import (
	"fmt"

	"github.com/ergomake/layeredit/internal/saveerrors"
)

type CapabilityReason string

const (
	DynamicLoadingDisallowed CapabilityReason = CapabilityReason("dynamic loading disallowed")
	EditingNotSupported      CapabilityReason = CapabilityReason("editing not supported")
	Locked                   CapabilityReason = CapabilityReason("locked")
)

// CapabilityError keeps a layer out of edit mode.
type CapabilityError struct {
	Layer  string
	Reason CapabilityReason
	Err    error
}

func (e *CapabilityError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("layer %s cannot be edited: %s", e.Layer, e.Reason)
	}

	return fmt.Sprintf("layer %s cannot be edited: %s: %s", e.Layer, e.Reason, e.Err)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}

type IOError struct {
	Layer  string
	Reason string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("fail to save layer %s: %s", e.Layer, e.Reason)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

type PartialPersistError struct {
	Layer      string
	SavedCount int
	Errors     []saveerrors.FeatureError
	Summary    string
}

func (e *PartialPersistError) Error() string {
	return fmt.Sprintf("layer %s partially saved (%d saved): %s", e.Layer, e.SavedCount, e.Summary)
}

// ConsistencyWarning means the save went through but the content could not be reloaded, so
// cached features may be stale.
type ConsistencyWarning struct {
	Layer string
	Err   error
}

func (w *ConsistencyWarning) Error() string {
	return fmt.Sprintf("layer %s may be out of sync with its source: %s", w.Layer, w.Err)
}

func (w *ConsistencyWarning) Unwrap() error {
	return w.Err
}
