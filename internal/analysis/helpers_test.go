package analysis

import (
	"sync"
	"testing"
	"time"

	"github.com/tphakala/parkbio/internal/logger"
	"github.com/tphakala/parkbio/internal/observability/metrics"
	"github.com/tphakala/parkbio/internal/observation"
)

// recordingRecorder captures the metrics a run reports
type recordingRecorder struct {
	metrics.NoOpRecorder

	mu         sync.Mutex
	operations map[string]string // stage -> last status
	errors     map[string]string // stage -> error type
	rows       map[string]int
	warnings   map[string]int
	prevalent  int
	pValue     float64
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{
		operations: make(map[string]string),
		errors:     make(map[string]string),
		rows:       make(map[string]int),
		warnings:   make(map[string]int),
		pValue:     -1,
	}
}

func (r *recordingRecorder) RecordOperation(stage, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations[stage] = status
}

func (r *recordingRecorder) RecordError(stage, errorType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors[stage] = errorType
}

func (r *recordingRecorder) RecordTableRows(table string, rows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[table] = rows
}

func (r *recordingRecorder) RecordDataQualityWarning(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings[kind]++
}

func (r *recordingRecorder) RecordPrevalent(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prevalent = count
}

func (r *recordingRecorder) RecordPValue(p float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pValue = p
}

func quietLogger(t *testing.T) logger.Logger {
	t.Helper()
	return logger.NewSlogLogger(nil, logger.LogLevelError, time.UTC)
}

func obs(species, location string, count int) observation.Observation {
	return observation.Observation{SpeciesName: species, LocationName: location, Count: count}
}

func sp(category observation.Category, name, common string, status observation.Status) observation.Species {
	return observation.Species{Category: category, ScientificName: name, CommonName: common, Status: status}
}
