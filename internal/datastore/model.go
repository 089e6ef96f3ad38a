// model.go defines the snapshot tables written after an analysis run
package datastore

import "time"

// AnalysisRun is one row per run with the headline numbers
type AnalysisRun struct {
	ID         uint   `gorm:"primaryKey"`
	RunID      string `gorm:"size:36;uniqueIndex:idx_runs_run_id"`
	StartedAt  time.Time
	FinishedAt time.Time

	ObservationsRaw       int
	ObservationsDedup     int
	ObservationsRollup    int
	ObservationDuplicates int
	SpeciesRaw            int
	SpeciesClean          int
	SpeciesDuplicates     int
	DataQualityIssues     int

	EndangeredStatus string
	EndangeredRaw    int
	EndangeredClean  int

	ChiSquareStatistic *float64 // nil when the test had insufficient data
	ChiSquareDOF       *int
	PValue             *float64
	Alpha              float64

	PrevalenceThreshold int
	PrevalentSpecies    int
	MeanCategoryCode    float64
}

// ObservationRollup is one row of the rolled up observation table
type ObservationRollup struct {
	ID             uint   `gorm:"primaryKey"`
	RunID          string `gorm:"size:36;index:idx_rollups_run_id"`
	ScientificName string `gorm:"index:idx_rollups_sciname"`
	LocationName   string
	Count          int
}

// CleanSpecies is one row of the cleaned species table
type CleanSpecies struct {
	ID                 uint   `gorm:"primaryKey"`
	RunID              string `gorm:"size:36;index:idx_species_run_id"`
	Category           string
	ScientificName     string `gorm:"index:idx_species_sciname"`
	ConservationStatus string
}

// StatusCount is one status distribution bucket. Source is "raw" or "clean".
type StatusCount struct {
	ID     uint   `gorm:"primaryKey"`
	RunID  string `gorm:"size:36;index:idx_status_counts_run_id"`
	Source string `gorm:"size:8"`
	Status string
	Count  int
}

// PrevalentSpecies lists the species at the prevalence threshold
type PrevalentSpecies struct {
	ID             uint   `gorm:"primaryKey"`
	RunID          string `gorm:"size:36;index:idx_prevalent_run_id"`
	ScientificName string
	Locations      int
	Observations   int
}

// Distribution sources
const (
	SourceRaw   = "raw"
	SourceClean = "clean"
)

// models lists every table for migrations and per-run cleanup
func models() []any {
	return []any{&AnalysisRun{}, &ObservationRollup{}, &CleanSpecies{}, &StatusCount{}, &PrevalentSpecies{}}
}
