package metrics

import (
	"os"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTransition(t *testing.T) {
	m := New()
	m.RecordTransition(TransitionEnter)
	m.RecordTransition(TransitionEnter)
	m.RecordTransition(TransitionClose)

	expected := `
# HELP layeredit_transitions_total Edit lifecycle transitions by kind
# TYPE layeredit_transitions_total counter
layeredit_transitions_total{transition="close"} 1
layeredit_transitions_total{transition="enter"} 2
`
	err := testutil.CollectAndCompare(m.Transitions, strings.NewReader(expected))
	assert.NoError(t, err)
}

func TestRecordSave(t *testing.T) {
	m := New()
	m.RecordSave("external", "partial-saved", 3, 20*time.Millisecond)
	m.RecordSave("external", "all-saved", 2, 10*time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(m.Saves))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.FeaturesSaved.WithLabelValues("external")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.RecordTransition(TransitionEnter)
	m.RecordSave("memory", "failed", 0, time.Second)
	assert.NoError(t, m.WriteToTextfile("/nonexistent/metrics.prom"))
}

func TestWriteToTextfile(t *testing.T) {
	m := New()
	m.RecordTransition(TransitionCancel)

	fpath := path.Join(t.TempDir(), "layeredit.prom")
	require.NoError(t, m.WriteToTextfile(fpath))

	raw, err := os.ReadFile(fpath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `layeredit_transitions_total{transition="cancel"} 1`)
}
