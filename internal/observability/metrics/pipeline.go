package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics contains Prometheus metrics for one analysis run
type PipelineMetrics struct {
	registry *prometheus.Registry

	stageOperationsTotal *prometheus.CounterVec
	stageDuration        *prometheus.HistogramVec
	stageErrorsTotal     *prometheus.CounterVec

	tableRows           *prometheus.GaugeVec
	duplicateRows       *prometheus.GaugeVec
	dataQualityWarnings *prometheus.CounterVec
	endangeredSpecies   *prometheus.GaugeVec
	prevalentSpecies    prometheus.Gauge
	chiSquarePValue     prometheus.Gauge

	// collectors is a slice of all collectors for easier iteration
	collectors []prometheus.Collector
}

// NewPipelineMetrics creates and registers new pipeline metrics
func NewPipelineMetrics(registry *prometheus.Registry) (*PipelineMetrics, error) {
	m := &PipelineMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *PipelineMetrics) initMetrics() {
	m.stageOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_operations_total",
			Help:      "Total number of pipeline stage executions",
		},
		[]string{"stage", "status"}, // status: success, error
	)

	m.stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time taken by pipeline stages",
			Buckets:   prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount15),
		},
		[]string{"stage"},
	)

	m.stageErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Total number of pipeline stage errors",
		},
		[]string{"stage", "error_type"},
	)

	m.tableRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_rows",
			Help:      "Row count of input and derived tables",
		},
		[]string{"table"},
	)

	m.duplicateRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "duplicate_rows",
			Help:      "Exact duplicate rows found in a raw table",
		},
		[]string{"table"},
	)

	m.dataQualityWarnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_quality_warnings_total",
			Help:      "Unrecognized categories and conservation statuses",
		},
		[]string{"kind"},
	)

	m.endangeredSpecies = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "endangered_species",
			Help:      "Species carrying the endangered status",
		},
		[]string{"table"},
	)

	m.prevalentSpecies = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "prevalent_species",
		Help:      "Species observed at the prevalence threshold",
	})

	m.chiSquarePValue = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "chisquare_pvalue",
		Help:      "P-value of the species by conservation status independence test",
	})

	m.collectors = []prometheus.Collector{
		m.stageOperationsTotal,
		m.stageDuration,
		m.stageErrorsTotal,
		m.tableRows,
		m.duplicateRows,
		m.dataQualityWarnings,
		m.endangeredSpecies,
		m.prevalentSpecies,
		m.chiSquarePValue,
	}
}

// Describe implements the Collector interface
func (m *PipelineMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *PipelineMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

func (m *PipelineMetrics) RecordOperation(stage, status string) {
	m.stageOperationsTotal.WithLabelValues(stage, status).Inc()
}

func (m *PipelineMetrics) RecordDuration(stage string, seconds float64) {
	m.stageDuration.WithLabelValues(stage).Observe(seconds)
}

func (m *PipelineMetrics) RecordError(stage, errorType string) {
	m.stageErrorsTotal.WithLabelValues(stage, errorType).Inc()
}

func (m *PipelineMetrics) RecordTableRows(table string, rows int) {
	m.tableRows.WithLabelValues(table).Set(float64(rows))
}

func (m *PipelineMetrics) RecordDuplicates(table string, rows int) {
	m.duplicateRows.WithLabelValues(table).Set(float64(rows))
}

func (m *PipelineMetrics) RecordDataQualityWarning(kind string) {
	m.dataQualityWarnings.WithLabelValues(kind).Inc()
}

func (m *PipelineMetrics) RecordEndangered(table string, count int) {
	m.endangeredSpecies.WithLabelValues(table).Set(float64(count))
}

func (m *PipelineMetrics) RecordPrevalent(count int) {
	m.prevalentSpecies.Set(float64(count))
}

func (m *PipelineMetrics) RecordPValue(p float64) {
	m.chiSquarePValue.Set(p)
}
