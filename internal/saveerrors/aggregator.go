// Package saveerrors collects per-feature failures reported while pushing edits to an external
// source and classifies how bad the save went.
package saveerrors

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const DEFAULT_SUMMARY_LIMIT = 5

type FeatureError struct {
	FeatureIndex int    `json:"featureIndex"`
	FeatureID    string `json:"featureId,omitempty"`
	Message      string `json:"message"`
}

func (e *FeatureError) Error() string {
	if e.FeatureID == "" {
		return fmt.Sprintf("feature %d: %s", e.FeatureIndex, e.Message)
	}

	return fmt.Sprintf("feature %d (%s): %s", e.FeatureIndex, e.FeatureID, e.Message)
}

type Severity int

const (
	SeverityNone Severity = iota
	SeverityPartial
	SeverityTotal
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityPartial:
		return "partial"
	case SeverityTotal:
		return "total"
	}

	return fmt.Sprintf("severity(%d)", int(s))
}

// Aggregator is not safe for concurrent use.
type Aggregator struct {
	errs  *multierror.Error
	limit int
}

func NewAggregator(limit int) *Aggregator {
	if limit <= 0 {
		limit = DEFAULT_SUMMARY_LIMIT
	}

	a := &Aggregator{limit: limit, errs: &multierror.Error{}}
	a.errs.ErrorFormat = a.format

	return a
}

func (a *Aggregator) Add(fe FeatureError) {
	a.errs = multierror.Append(a.errs, &fe)
}

func (a *Aggregator) Addf(index int, id string, format string, args ...any) {
	a.Add(FeatureError{FeatureIndex: index, FeatureID: id, Message: fmt.Sprintf(format, args...)})
}

func (a *Aggregator) Len() int {
	return a.errs.Len()
}

func (a *Aggregator) Errors() []FeatureError {
	result := make([]FeatureError, 0, a.errs.Len())
	for _, err := range a.errs.WrappedErrors() {
		if fe, ok := err.(*FeatureError); ok {
			result = append(result, *fe)
		}
	}

	return result
}

// Err returns nil when nothing was collected.
func (a *Aggregator) Err() error {
	return a.errs.ErrorOrNil()
}

func (a *Aggregator) Classify(savedCount int) Severity {
	if a.errs.Len() == 0 {
		return SeverityNone
	}

	if savedCount <= 0 {
		return SeverityTotal
	}

	return SeverityPartial
}

func (a *Aggregator) Summary() string {
	if a.errs.Len() == 0 {
		return "no feature errors"
	}

	return a.errs.Error()
}

func (a *Aggregator) format(errs []error) string {
	noun := "features"
	if len(errs) == 1 {
		noun = "feature"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d %s failed to save:", len(errs), noun)
	for i, err := range errs {
		if i == a.limit {
			fmt.Fprintf(&b, "\n  ... and %d more", len(errs)-a.limit)
			break
		}

		fmt.Fprintf(&b, "\n  * %s", err)
	}

	return b.String()
}
