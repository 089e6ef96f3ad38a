// Package metrics provides constants used across metric definitions.
package metrics

// Pipeline stage names used as the "stage" label.
const (
	StageLoad        = "load"
	StageDeduplicate = "deduplicate"
	StageCategorize  = "categorize"
	StageRollup      = "rollup"
	StageAnalyze     = "analyze"
	StageReport      = "report"
)

// Table names used as the "table" label.
const (
	TableObservationsRaw    = "observations_raw"
	TableObservationsDedup  = "observations_dedup"
	TableObservationsRollup = "observations_rollup"
	TableSpeciesRaw         = "species_raw"
	TableSpeciesClean       = "species_clean"
)

// Data quality warning kinds.
const (
	WarningUnknownCategory = "unknown_category"
	WarningUnknownStatus   = "unknown_status"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Histogram bucket configuration.
const (
	// BucketStart1ms is the starting bucket for 1ms histograms.
	BucketStart1ms = 0.001
	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2
	// BucketCount15 defines 15 exponential buckets (1ms to ~16s).
	BucketCount15 = 15
)

const namespace = "parkbio"
