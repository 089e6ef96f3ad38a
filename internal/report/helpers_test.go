package report

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tphakala/parkbio/internal/analysis"
	"github.com/tphakala/parkbio/internal/conf"
	"github.com/tphakala/parkbio/internal/logger"
	"github.com/tphakala/parkbio/internal/observability/metrics"
	"github.com/tphakala/parkbio/internal/observation"
	"github.com/tphakala/parkbio/internal/testutil"
)

const (
	bryce       = "Bryce National Park"
	smoky       = "Great Smoky Mountains National Park"
	yellowstone = "Yellowstone National Park"
	yosemite    = "Yosemite National Park"
)

func quietLogger() logger.Logger {
	return testutil.QuietLogger()
}

func defaultAliases() *Aliaser {
	return NewAliaser(conf.DefaultLocationAliases)
}

// sampleResult analyzes a small two-park-system dataset in which Canis lupus
// and Ursus arctos are seen at all four parks.
func sampleResult(t *testing.T) *analysis.Result {
	t.Helper()

	obs := []observation.Observation{
		{SpeciesName: "Canis lupus", LocationName: bryce, Count: 3},
		{SpeciesName: "Canis lupus", LocationName: bryce, Count: 3},
		{SpeciesName: "Canis lupus", LocationName: bryce, Count: 4},
		{SpeciesName: "Canis lupus", LocationName: smoky, Count: 2},
		{SpeciesName: "Canis lupus", LocationName: yellowstone, Count: 9},
		{SpeciesName: "Canis lupus", LocationName: yosemite, Count: 1},
		{SpeciesName: "Ursus arctos", LocationName: bryce, Count: 5},
		{SpeciesName: "Ursus arctos", LocationName: smoky, Count: 6},
		{SpeciesName: "Ursus arctos", LocationName: yellowstone, Count: 7},
		{SpeciesName: "Ursus arctos", LocationName: yosemite, Count: 8},
		{SpeciesName: "Puma concolor", LocationName: yosemite, Count: 2},
		{SpeciesName: "Grus americana", LocationName: yellowstone, Count: 1},
	}
	species := []observation.Species{
		{Category: observation.CategoryMammal, ScientificName: "Canis lupus", CommonName: "Gray Wolf", Status: observation.StatusEndangered},
		{Category: observation.CategoryMammal, ScientificName: "Canis lupus", CommonName: "Wolf", Status: observation.StatusInRecovery},
		{Category: observation.CategoryMammal, ScientificName: "Puma concolor", CommonName: "Cougar"},
		{Category: observation.CategoryMammal, ScientificName: "Ursus arctos", CommonName: "Grizzly Bear", Status: observation.StatusThreatened},
		{Category: observation.CategoryBird, ScientificName: "Grus americana", CommonName: "Whooping Crane", Status: observation.StatusEndangered},
		{Category: observation.CategoryVascularPlant, ScientificName: "Abies fraseri", CommonName: "Fraser Fir", Status: observation.StatusSpeciesOfConcern},
		{Category: "Fungus", ScientificName: "Amanita muscaria", CommonName: "Fly Agaric"},
	}

	p := analysis.NewPipeline(nil, analysis.DefaultOptions(), quietLogger(), nil)
	res, err := p.Analyze(context.Background(), obs, species)
	require.NoError(t, err)
	return res
}

// emptyResult analyzes two empty tables
func emptyResult(t *testing.T) *analysis.Result {
	t.Helper()

	p := analysis.NewPipeline(nil, analysis.DefaultOptions(), quietLogger(), nil)
	res, err := p.Analyze(context.Background(), nil, nil)
	require.NoError(t, err)
	return res
}

// stageRecorder captures report stage metrics
type stageRecorder struct {
	metrics.NoOpRecorder

	mu         sync.Mutex
	operations map[string]string
	errors     map[string]string
	durations  int
}

func newStageRecorder() *stageRecorder {
	return &stageRecorder{operations: make(map[string]string), errors: make(map[string]string)}
}

func (r *stageRecorder) RecordOperation(stage, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations[stage] = status
}

func (r *stageRecorder) RecordError(stage, errorType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors[stage] = errorType
}

func (r *stageRecorder) RecordDuration(_ string, _ float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations++
}
