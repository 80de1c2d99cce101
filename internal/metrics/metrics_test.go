package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RecordGeneration(t *testing.T) {
	rec, err := NewRecorder(nil)
	require.NoError(t, err)

	rec.RecordGeneration("2026-01", 20*time.Millisecond, 40, 2)
	rec.RecordGeneration("2026-02", 10*time.Millisecond, 30, 0)
	rec.RecordFailure()
	rec.RecordConflict("ng_day")

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.generations.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.generations.WithLabelValues(StatusFailed)))
	assert.Equal(t, 70.0, testutil.ToFloat64(rec.slots))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.conflicts.WithLabelValues("ng_day")))

	expected := `
# HELP shiftmaker_understaffed_slots 未达到最少人数的拠点日数
# TYPE shiftmaker_understaffed_slots gauge
shiftmaker_understaffed_slots{month="2026-01"} 2
shiftmaker_understaffed_slots{month="2026-02"} 0
`
	require.NoError(t, testutil.CollectAndCompare(rec.understaffed, strings.NewReader(expected)))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.duration))
}

func TestRecorder_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewRecorder(reg)
	require.NoError(t, err)
	second, err := NewRecorder(reg)
	require.NoError(t, err)

	first.RecordFailure()
	second.RecordFailure()
	assert.Equal(t, 2.0, testutil.ToFloat64(first.generations.WithLabelValues(StatusFailed)))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	rec, err := NewRecorder(nil)
	require.NoError(t, err)
	rec.RecordGeneration("2026-03", time.Millisecond, 5, 1)

	path := filepath.Join(t.TempDir(), "shiftmaker.prom")
	require.NoError(t, rec.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `shiftmaker_generation_total{status="success"} 1`)
	assert.Contains(t, string(data), "shiftmaker_assigned_slots_total 5")
}
