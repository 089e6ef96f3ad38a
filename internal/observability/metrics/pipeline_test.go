package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *PipelineMetrics {
	t.Helper()
	m, err := NewPipelineMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return m
}

func TestPipelineMetricsRecording(t *testing.T) {
	t.Parallel()

	m := newTestMetrics(t)

	m.RecordOperation(StageLoad, StatusSuccess)
	m.RecordOperation(StageLoad, StatusSuccess)
	m.RecordOperation(StageAnalyze, StatusError)
	m.RecordError(StageAnalyze, "insufficient-data")
	m.RecordTableRows(TableSpeciesRaw, 5824)
	m.RecordTableRows(TableSpeciesRaw, 5541)
	m.RecordDuplicates(TableObservationsRaw, 15)
	m.RecordDataQualityWarning(WarningUnknownStatus)
	m.RecordDataQualityWarning(WarningUnknownStatus)
	m.RecordEndangered(TableSpeciesClean, 15)
	m.RecordPValue(0.25)
	m.RecordDuration(StageRollup, 0.002)

	assert.InDelta(t, 2, testutil.ToFloat64(m.stageOperationsTotal.WithLabelValues(StageLoad, StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.stageErrorsTotal.WithLabelValues(StageAnalyze, "insufficient-data")), 0)
	assert.InDelta(t, 5541, testutil.ToFloat64(m.tableRows.WithLabelValues(TableSpeciesRaw)), 0, "gauges keep the last value")
	assert.InDelta(t, 15, testutil.ToFloat64(m.duplicateRows.WithLabelValues(TableObservationsRaw)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.dataQualityWarnings.WithLabelValues(WarningUnknownStatus)), 0)
	assert.InDelta(t, 15, testutil.ToFloat64(m.endangeredSpecies.WithLabelValues(TableSpeciesClean)), 0)
	assert.InDelta(t, 0.25, testutil.ToFloat64(m.chiSquarePValue), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.stageDuration))
}

func TestPipelineMetricsDoubleRegistration(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	_, err := NewPipelineMetrics(registry)
	require.NoError(t, err)
	_, err = NewPipelineMetrics(registry)
	require.Error(t, err)
}

func TestNoOpRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder = NoOpRecorder{}
	assert.NotPanics(t, func() {
		r.RecordOperation(StageLoad, StatusSuccess)
		r.RecordPValue(0.5)
	})
}
