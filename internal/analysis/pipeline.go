package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/loader"
	"github.com/tphakala/parkbio/internal/logger"
	"github.com/tphakala/parkbio/internal/observability/metrics"
	"github.com/tphakala/parkbio/internal/observation"
)

// Result carries every table and summary of one run to the reporters.
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Options    Options

	RawObservations       []observation.Observation
	RawSpecies            []observation.Species // categorized, common names kept
	ObservationDuplicates int                   // removed from RawObservations
	SpeciesDuplicates     int                   // counted only

	Observations      []observation.Observation // deduplicated
	ObservationRollup []observation.Observation
	CleanSpecies      []observation.SpeciesStatus
	Issues            []DataQualityIssue

	RawDistribution   Distribution
	CleanDistribution Distribution
	Endangered        EndangeredSummary
	Categories        []CategoryStats
	MeanCategoryCode  float64
	MeanCategory      observation.Category // empty when the mean is out of range
	Independence      Independence
	Prevalence        Prevalence
}

// Pipeline runs the analysis stages in order. It holds no tables between
// runs; everything produced goes into the returned Result.
type Pipeline struct {
	loader *loader.Loader
	opts   Options
	log    logger.Logger
	rec    metrics.Recorder
}

// NewPipeline creates a pipeline. Nil log and rec are replaced with the
// global logger and a no-op recorder.
func NewPipeline(l *loader.Loader, opts Options, log logger.Logger, rec metrics.Recorder) *Pipeline {
	if log == nil {
		log = logger.Global().Module("analysis")
	}
	if rec == nil {
		rec = metrics.NoOpRecorder{}
	}
	if l == nil {
		l = loader.New(nil, log.Module("loader"))
	}
	return &Pipeline{loader: l, opts: opts, log: log, rec: rec}
}

// Run loads both tables and analyzes them. The context is checked between
// stages.
func (p *Pipeline) Run(ctx context.Context, observationsPath, speciesPath string) (*Result, error) {
	var (
		rawObs     []observation.Observation
		rawSpecies []observation.Species
	)

	err := p.stage(ctx, metrics.StageLoad, func() error {
		var err error
		if rawObs, err = p.loader.LoadObservations(ctx, observationsPath); err != nil {
			return err
		}
		rawSpecies, err = p.loader.LoadSpecies(ctx, speciesPath)
		return err
	})
	if err != nil {
		return nil, err
	}

	return p.Analyze(ctx, rawObs, rawSpecies)
}

// Analyze runs every stage after loading on the given raw tables.
func (p *Pipeline) Analyze(ctx context.Context, rawObs []observation.Observation, rawSpecies []observation.Species) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Options:   p.opts,
	}
	ctx = logger.WithTraceID(ctx, res.RunID)
	log := p.log.WithContext(ctx)

	p.rec.RecordTableRows(metrics.TableObservationsRaw, len(rawObs))
	p.rec.RecordTableRows(metrics.TableSpeciesRaw, len(rawSpecies))
	log.Info("analysis started",
		logger.Int("observations", len(rawObs)),
		logger.Int("species", len(rawSpecies)))

	res.RawObservations = rawObs

	err := p.stage(ctx, metrics.StageDeduplicate, func() error {
		res.Observations, res.ObservationDuplicates = Deduplicate(rawObs)
		res.SpeciesDuplicates = CountDuplicates(rawSpecies)

		p.rec.RecordDuplicates(metrics.TableObservationsRaw, res.ObservationDuplicates)
		p.rec.RecordDuplicates(metrics.TableSpeciesRaw, res.SpeciesDuplicates)
		p.rec.RecordTableRows(metrics.TableObservationsDedup, len(res.Observations))
		log.Info("removed duplicate observations",
			logger.Int("before", len(rawObs)),
			logger.Int("after", len(res.Observations)),
			logger.Int("species_duplicates", res.SpeciesDuplicates))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, metrics.StageCategorize, func() error {
		var err error
		res.RawSpecies, res.Issues, err = Categorize(rawSpecies, p.opts, log, p.rec)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, metrics.StageRollup, func() error {
		res.ObservationRollup = RollupObservations(res.Observations)
		res.CleanSpecies = RollupSpecies(res.RawSpecies)

		p.rec.RecordTableRows(metrics.TableObservationsRollup, len(res.ObservationRollup))
		p.rec.RecordTableRows(metrics.TableSpeciesClean, len(res.CleanSpecies))
		log.Info("rolled up tables",
			logger.Int("observations", len(res.ObservationRollup)),
			logger.Int("species", len(res.CleanSpecies)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, metrics.StageAnalyze, func() error {
		return p.analyze(res, log)
	})
	if err != nil {
		return nil, err
	}

	res.FinishedAt = time.Now()
	log.Info("analysis finished", logger.Duration("elapsed", res.FinishedAt.Sub(res.StartedAt)))
	return res, nil
}

// analyze fills in the summaries from the cleaned tables
func (p *Pipeline) analyze(res *Result, log logger.Logger) error {
	res.RawDistribution = StatusDistribution(res.RawSpecies, speciesStatus)
	res.CleanDistribution = StatusDistribution(res.CleanSpecies, cleanStatus)

	res.Endangered = Endangered(res.RawSpecies, res.CleanSpecies, p.opts.EndangeredStatus)
	p.rec.RecordEndangered(metrics.TableSpeciesRaw, res.Endangered.RawCount)
	p.rec.RecordEndangered(metrics.TableSpeciesClean, len(res.Endangered.Species))

	res.Categories = SummarizeCategories(res.CleanSpecies, p.opts.EndangeredStatus)
	res.MeanCategoryCode, res.MeanCategory, _ = MeanCategoryCode(res.RawSpecies)

	ind, err := TestIndependence(res.CleanSpecies, p.opts.Alpha)
	if err != nil {
		return err
	}
	res.Independence = ind
	if ind.Insufficient {
		log.Warn("insufficient data for independence test",
			logger.Int("rows", len(ind.Table.Rows)),
			logger.Int("cols", len(ind.Table.Cols)))
	} else {
		p.rec.RecordPValue(ind.Result.PValue)
		log.Info("independence test",
			logger.Float64("statistic", ind.Result.Statistic),
			logger.Int("dof", ind.Result.DOF),
			logger.Float64("p_value", ind.Result.PValue),
			logger.Bool("significant", ind.Significant()))
	}

	res.Prevalence = ComputePrevalence(res.ObservationRollup, p.opts.PrevalenceLocations)
	p.rec.RecordPrevalent(len(res.Prevalence.Species))
	log.Info("prevalent species",
		logger.Int("threshold", res.Prevalence.Threshold),
		logger.Strings("species", res.Prevalence.Names()))

	return nil
}

// stage runs fn as a named pipeline stage, recording its duration and
// outcome. A cancelled context stops the run before fn starts. Failures keep
// their category and gain the stage name and timing.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	log := p.log.WithContext(ctx)

	if err := ctx.Err(); err != nil {
		p.rec.RecordError(name, string(errors.CategoryCancellation))
		return errors.Wrap(err).
			Category(errors.CategoryCancellation).
			Context("stage", name).
			Build()
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	p.rec.RecordDuration(name, elapsed.Seconds())

	if err != nil {
		category := errors.CategoryOf(err)
		p.rec.RecordOperation(name, metrics.StatusError)
		p.rec.RecordError(name, string(category))
		return errors.Wrap(err).
			Category(category).
			Context("stage", name).
			Timing(name, elapsed).
			Build()
	}

	p.rec.RecordOperation(name, metrics.StatusSuccess)
	log.Debug("stage complete", logger.String("stage", name), logger.Duration("elapsed", elapsed))
	return nil
}

// Preview returns the leading rows of both raw tables
func (r *Result) Preview() ([]observation.Observation, []observation.Species) {
	return loader.Preview(r.RawObservations, r.Options.PreviewRows), loader.Preview(r.RawSpecies, r.Options.PreviewRows)
}
