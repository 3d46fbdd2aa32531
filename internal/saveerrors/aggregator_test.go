package saveerrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorClassify(t *testing.T) {
	tests := []struct {
		name       string
		errors     int
		savedCount int
		expected   Severity
	}{
		{name: "no errors", errors: 0, savedCount: 3, expected: SeverityNone},
		{name: "no errors and nothing saved", errors: 0, savedCount: 0, expected: SeverityNone},
		{name: "some saved", errors: 2, savedCount: 3, expected: SeverityPartial},
		{name: "none saved", errors: 2, savedCount: 0, expected: SeverityTotal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator(0)
			for i := 0; i < tt.errors; i++ {
				agg.Addf(i, "", "boom %d", i)
			}

			assert.Equal(t, tt.expected, agg.Classify(tt.savedCount))
		})
	}
}

func TestAggregatorErrors(t *testing.T) {
	agg := NewAggregator(5)
	assert.NoError(t, agg.Err())
	assert.Empty(t, agg.Errors())

	agg.Add(FeatureError{FeatureIndex: 1, FeatureID: "a", Message: "constraint failed"})
	agg.Addf(4, "", "missing %s", "geometry")

	require.Error(t, agg.Err())
	assert.Equal(t, 2, agg.Len())
	assert.Equal(t, []FeatureError{
		{FeatureIndex: 1, FeatureID: "a", Message: "constraint failed"},
		{FeatureIndex: 4, Message: "missing geometry"},
	}, agg.Errors())

	var fe *FeatureError
	require.ErrorAs(t, agg.Err(), &fe)
	assert.Equal(t, 1, fe.FeatureIndex)
}

func TestAggregatorSummary(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "no feature errors", NewAggregator(0).Summary())
	})

	t.Run("single error", func(t *testing.T) {
		agg := NewAggregator(0)
		agg.Addf(0, "f-1", "boom")

		assert.Equal(t, "1 feature failed to save:\n  * feature 0 (f-1): boom", agg.Summary())
	})

	t.Run("truncates to limit", func(t *testing.T) {
		agg := NewAggregator(2)
		for i := 0; i < 4; i++ {
			agg.Addf(i, "", "boom")
		}

		expected := "4 features failed to save:" +
			"\n  * feature 0: boom" +
			"\n  * feature 1: boom" +
			"\n  ... and 2 more"
		assert.Equal(t, expected, agg.Summary())
	})
}
