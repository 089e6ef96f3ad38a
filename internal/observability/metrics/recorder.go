package metrics

// Recorder defines a minimal interface for recording pipeline metrics.
// Components depend on it rather than on the Prometheus collectors so tests
// and metric-less runs can pass NoOpRecorder.
type Recorder interface {
	// RecordOperation records the outcome of a pipeline stage.
	RecordOperation(stage, status string)

	// RecordDuration records how long a stage took, in seconds.
	RecordDuration(stage string, seconds float64)

	// RecordError records a stage failure by error category.
	RecordError(stage, errorType string)

	// RecordTableRows records the row count of an input or derived table.
	RecordTableRows(table string, rows int)

	// RecordDuplicates records how many exact duplicate rows a table held.
	RecordDuplicates(table string, rows int)

	// RecordDataQualityWarning counts an unrecognized category or status.
	RecordDataQualityWarning(kind string)

	// RecordEndangered records the endangered species count of a table.
	RecordEndangered(table string, count int)

	// RecordPrevalent records the size of the most prevalent species set.
	RecordPrevalent(count int)

	// RecordPValue records the independence test p-value.
	RecordPValue(p float64)
}

// NoOpRecorder discards everything.
type NoOpRecorder struct{}

func (NoOpRecorder) RecordOperation(string, string)  {}
func (NoOpRecorder) RecordDuration(string, float64)  {}
func (NoOpRecorder) RecordError(string, string)      {}
func (NoOpRecorder) RecordTableRows(string, int)     {}
func (NoOpRecorder) RecordDuplicates(string, int)    {}
func (NoOpRecorder) RecordDataQualityWarning(string) {}
func (NoOpRecorder) RecordEndangered(string, int)    {}
func (NoOpRecorder) RecordPrevalent(int)             {}
func (NoOpRecorder) RecordPValue(float64)            {}

var (
	_ Recorder = NoOpRecorder{}
	_ Recorder = (*PipelineMetrics)(nil)
)
