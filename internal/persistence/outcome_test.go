package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ergomake/layeredit/internal/saveerrors"
)

func TestClassify(t *testing.T) {
	e1 := saveerrors.FeatureError{FeatureIndex: 1, Message: "e1"}
	e2 := saveerrors.FeatureError{FeatureIndex: 3, Message: "e2"}

	tests := []struct {
		name         string
		savedCount   int
		totalPending int
		errs         []saveerrors.FeatureError
		expected     SaveOutcome
	}{
		{
			name:     "nothing to do",
			expected: NoChanges(),
		},
		{
			name:         "everything saved",
			savedCount:   4,
			totalPending: 4,
			expected:     AllSaved(4),
		},
		{
			name:         "some features failed",
			savedCount:   3,
			totalPending: 5,
			errs:         []saveerrors.FeatureError{e1, e2},
			expected:     PartialSaved(3, []saveerrors.FeatureError{e1, e2}),
		},
		{
			name:         "every feature failed",
			totalPending: 2,
			errs:         []saveerrors.FeatureError{e1, e2},
			expected:     SaveOutcome{Kind: OutcomeFailed, Errors: []saveerrors.FeatureError{e1, e2}, Reason: "e1"},
		},
		{
			name:         "nothing saved without errors",
			totalPending: 2,
			expected:     Failed("no pending change was saved"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.savedCount, tt.totalPending, tt.errs))
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "All saved", AllSaved(1).String())
	assert.Equal(t, "Partially saved", PartialSaved(1, nil).String())
	assert.Equal(t, "No changes", NoChanges().String())
	assert.Equal(t, "Failed", Failed("x").String())
}
