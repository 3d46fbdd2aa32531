package persistence

import (
	"github.com/ergomake/layeredit/internal/saveerrors"
)

type OutcomeKind string

const (
	OutcomeAllSaved     OutcomeKind = OutcomeKind("all-saved")
	OutcomePartialSaved OutcomeKind = OutcomeKind("partial-saved")
	OutcomeNoChanges    OutcomeKind = OutcomeKind("no-changes")
	OutcomeFailed       OutcomeKind = OutcomeKind("failed")
)

type SaveOutcome struct {
	Kind       OutcomeKind
	SavedCount int
	Errors     []saveerrors.FeatureError
	Reason     string
}

func AllSaved(savedCount int) SaveOutcome {
	return SaveOutcome{Kind: OutcomeAllSaved, SavedCount: savedCount}
}

func PartialSaved(savedCount int, errs []saveerrors.FeatureError) SaveOutcome {
	return SaveOutcome{Kind: OutcomePartialSaved, SavedCount: savedCount, Errors: errs}
}

func NoChanges() SaveOutcome {
	return SaveOutcome{Kind: OutcomeNoChanges}
}

func Failed(reason string) SaveOutcome {
	return SaveOutcome{Kind: OutcomeFailed, Reason: reason}
}

func (o SaveOutcome) String() string {
	switch o.Kind {
	case OutcomeAllSaved:
		return "All saved"
	case OutcomePartialSaved:
		return "Partially saved"
	case OutcomeNoChanges:
		return "No changes"
	case OutcomeFailed:
		return "Failed"
	}

	return string(o.Kind)
}

// Classify turns the counters reported by a backend into an outcome.
//
//   - nothing saved, nothing pending and no errors is NoChanges
//   - nothing saved with errors is Failed
//   - every pending change saved without errors is AllSaved
//   - anything else that saved at least one change is PartialSaved
func Classify(savedCount, totalPending int, errs []saveerrors.FeatureError) SaveOutcome {
	if savedCount <= 0 {
		if len(errs) == 0 && totalPending == 0 {
			return NoChanges()
		}

		if len(errs) == 0 {
			return Failed("no pending change was saved")
		}

		return SaveOutcome{Kind: OutcomeFailed, Errors: errs, Reason: errs[0].Message}
	}

	if savedCount >= totalPending && len(errs) == 0 {
		return AllSaved(savedCount)
	}

	return PartialSaved(savedCount, errs)
}
