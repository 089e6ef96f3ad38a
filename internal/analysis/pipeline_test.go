package analysis

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/parkbio/internal/conf"
	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/loader"
	"github.com/tphakala/parkbio/internal/logger"
	"github.com/tphakala/parkbio/internal/observability/metrics"
	"github.com/tphakala/parkbio/internal/observation"
)

const observationsCSV = `scientific_name,park_name,observations
Canis lupus,Bryce National Park,3
Canis lupus,Bryce National Park,4
Canis lupus,Bryce National Park,4
Canis lupus,Zion National Park,2
Canis lupus,Yosemite National Park,5
Puma concolor,Bryce National Park,1
Puma concolor,Zion National Park,6
Columba livia,Bryce National Park,80
Columba livia,Zion National Park,75
Columba livia,Yosemite National Park,90
`

const speciesCSV = `category,scientific_name,common_names,conservation_status
Mammal,Canis lupus,Gray Wolf,Endangered
Mammal,Canis lupus,Red Wolf,In Recovery
Mammal,Puma concolor,Mountain Lion,
Bird,Columba livia,Rock Dove,
Bird,Columba livia,Rock Dove,
Bird,Grus americana,Whooping Crane,Endangered
Fish,Salmo trutta,Brown Trout,Species of Concern
`

func newTestPipeline(t *testing.T, opts Options, rec metrics.Recorder) *Pipeline {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "observations.csv", []byte(observationsCSV), 0o644))
	require.NoError(t, afero.WriteFile(fs, "species_info.csv", []byte(speciesCSV), 0o644))

	log := quietLogger(t)
	return NewPipeline(loader.New(fs, log), opts, log, rec)
}

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	rec := newRecordingRecorder()
	p := newTestPipeline(t, DefaultOptions(), rec)

	res, err := p.Run(context.Background(), "observations.csv", "species_info.csv")
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	require.NoError(t, err)
	assert.False(t, res.FinishedAt.Before(res.StartedAt))

	assert.Len(t, res.RawObservations, 10)
	assert.Equal(t, 1, res.ObservationDuplicates)
	assert.Len(t, res.Observations, 9)
	assert.Equal(t, 1, res.SpeciesDuplicates)

	assert.Contains(t, res.ObservationRollup, obs("Canis lupus", "Bryce National Park", 7))
	assert.Len(t, res.ObservationRollup, 8)
	assert.Equal(t, observation.TotalCount(res.Observations), observation.TotalCount(res.ObservationRollup))

	require.Len(t, res.CleanSpecies, 5)
	assert.Equal(t, observation.StatusEndangered, res.CleanSpecies[0].Status, "first row wins for Canis lupus")

	assert.Equal(t, 2, res.RawDistribution.Count(observation.StatusEndangered))
	assert.Equal(t, 1, res.RawDistribution.Count(observation.StatusInRecovery))
	assert.Zero(t, res.CleanDistribution.Count(observation.StatusInRecovery))
	assert.Equal(t, 2, res.CleanDistribution.Count(observation.StatusNone))

	assert.Equal(t, 2, res.Endangered.RawCount)
	assert.Equal(t, []string{"Canis lupus", "Grus americana"}, res.Endangered.Names())

	require.False(t, res.Independence.Insufficient)
	assert.Equal(t, []string{"Canis lupus", "Grus americana", "Salmo trutta"}, res.Independence.Table.Rows)
	assert.Equal(t, 2, res.Independence.Result.DOF)

	assert.Equal(t, 3, res.Prevalence.Threshold)
	assert.Equal(t, []string{"Canis lupus", "Columba livia"}, res.Prevalence.Names())

	assert.Empty(t, res.Issues)
	assert.Equal(t, observation.CategoryMammal, res.Categories[0].Category)

	for _, stage := range []string{metrics.StageLoad, metrics.StageDeduplicate, metrics.StageCategorize, metrics.StageRollup, metrics.StageAnalyze} {
		assert.Equal(t, metrics.StatusSuccess, rec.operations[stage], stage)
	}
	assert.Equal(t, 10, rec.rows[metrics.TableObservationsRaw])
	assert.Equal(t, 8, rec.rows[metrics.TableObservationsRollup])
	assert.Equal(t, 5, rec.rows[metrics.TableSpeciesClean])
	assert.Equal(t, 2, rec.prevalent)
	assert.InDelta(t, res.Independence.Result.PValue, rec.pValue, 0)

	obsPreview, speciesPreview := res.Preview()
	assert.Len(t, obsPreview, DefaultOptions().PreviewRows)
	assert.Len(t, speciesPreview, DefaultOptions().PreviewRows)
}

func TestPipelineRunMissingInput(t *testing.T) {
	t.Parallel()

	rec := newRecordingRecorder()
	p := newTestPipeline(t, DefaultOptions(), rec)

	_, err := p.Run(context.Background(), "observations.csv", "missing.csv")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
	assert.Equal(t, metrics.StatusError, rec.operations[metrics.StageLoad])
	assert.Equal(t, string(errors.CategoryFileIO), rec.errors[metrics.StageLoad])
}

func TestPipelineStrictPolicy(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.CategoryPolicy = PolicyStrict
	p := newTestPipeline(t, opts, nil)

	_, err := p.Analyze(context.Background(), nil, []observation.Species{
		sp("Lichen", "Cladonia rangiferina", "Reindeer Lichen", ""),
	})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryDataQuality))

	var ee *errors.EnhancedError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "analysis", ee.GetComponent())
	ctx := ee.GetContext()
	assert.Equal(t, metrics.StageCategorize, ctx["stage"])
	assert.Equal(t, metrics.StageCategorize, ctx["operation"])
	assert.Contains(t, ctx, "duration_ms")
}

func TestPipelineLogsCarryRunID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewSlogLogger(&buf, logger.LogLevelDebug, time.UTC)
	p := NewPipeline(nil, DefaultOptions(), log, nil)

	res, err := p.Analyze(context.Background(),
		[]observation.Observation{obs("Canis lupus", "Bryce", 3), obs("Canis lupus", "Zion", 2)},
		[]observation.Species{sp("Mammal", "Canis lupus", "Gray Wolf", "Endangered")})
	require.NoError(t, err)

	var stages []string
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		assert.Equal(t, res.RunID, rec["trace_id"], "record %q", rec["msg"])
		if rec["msg"] == "stage complete" {
			stages = append(stages, rec["stage"].(string))
		}
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{
		metrics.StageDeduplicate,
		metrics.StageCategorize,
		metrics.StageRollup,
		metrics.StageAnalyze,
	}, stages)
}

func TestPipelineCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline(t, DefaultOptions(), nil)
	_, err := p.Analyze(ctx, []observation.Observation{obs("Canis lupus", "Bryce", 1)}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, errors.IsCategory(err, errors.CategoryCancellation))
}

func TestPipelineEmptyTables(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, DefaultOptions(), nil)
	res, err := p.Analyze(context.Background(), nil, nil)
	require.NoError(t, err, "empty results are not errors")
	assert.True(t, res.Independence.Insufficient)
	assert.Empty(t, res.Prevalence.Species)
	assert.Empty(t, res.CleanDistribution)
}

func TestInspect(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, DefaultOptions(), nil)
	res, err := p.Run(context.Background(), "observations.csv", "species_info.csv")
	require.NoError(t, err)

	wolf := res.Inspect("Canis lupus")
	assert.True(t, wolf.Found())
	assert.Len(t, wolf.SpeciesRows, 2)
	require.Len(t, wolf.CleanRows, 1)
	assert.Equal(t, observation.StatusEndangered, wolf.CleanRows[0].Status)
	assert.Len(t, wolf.RawObservations, 5)
	assert.Equal(t, []observation.Observation{
		obs("Canis lupus", "Bryce National Park", 7),
		obs("Canis lupus", "Yosemite National Park", 5),
		obs("Canis lupus", "Zion National Park", 2),
	}, wolf.Rollup)
	assert.Equal(t, 3, wolf.Locations)
	assert.True(t, wolf.Prevalent)

	bear := res.Inspect("Ursus arctos")
	assert.False(t, bear.Found())
}

func TestOptionsFromSettings(t *testing.T) {
	t.Parallel()

	settings := &conf.Settings{Analysis: conf.AnalysisSettings{
		CategoryPolicy:   conf.CategoryPolicyStrict,
		KnownStatuses:    []string{"Endangered", "Vulnerable"},
		EndangeredStatus: "Vulnerable",
		Alpha:            0.01,
		Prevalence:       conf.PrevalenceSettings{Locations: 4},
		Preview:          2,
	}}

	assert.Equal(t, Options{
		CategoryPolicy:      PolicyStrict,
		KnownStatuses:       []observation.Status{observation.StatusEndangered, "Vulnerable"},
		EndangeredStatus:    "Vulnerable",
		Alpha:               0.01,
		PrevalenceLocations: 4,
		PreviewRows:         2,
	}, OptionsFromSettings(settings))

	opts := DefaultOptions()
	assert.Equal(t, PolicyWarn, opts.CategoryPolicy)
	assert.Equal(t, observation.StatusEndangered, opts.EndangeredStatus)
	assert.Contains(t, opts.KnownStatuses, observation.StatusSpeciesOfConcern)
}
