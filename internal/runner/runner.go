// Package runner wires configuration, the analysis pipeline and the report
// sinks into the runs behind the CLI commands.
package runner

import (
	"context"
	"io"

	"github.com/tphakala/parkbio/internal/analysis"
	"github.com/tphakala/parkbio/internal/conf"
	"github.com/tphakala/parkbio/internal/datastore"
	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/loader"
	"github.com/tphakala/parkbio/internal/logger"
	"github.com/tphakala/parkbio/internal/observability"
	"github.com/tphakala/parkbio/internal/observability/metrics"
	"github.com/tphakala/parkbio/internal/report"
)

// Options tune a single run
type Options struct {
	Out     io.Writer // text report destination
	Preview bool
}

// Analyze runs the full analysis and writes every enabled artifact.
func Analyze(ctx context.Context, settings *conf.Settings, opts Options) (*analysis.Result, error) {
	if err := conf.ValidateInputs(&settings.Input); err != nil {
		return nil, errors.New(err).Category(errors.CategoryValidation).Build()
	}
	log := logger.Global().Module("runner")

	var (
		m   *observability.Metrics
		rec metrics.Recorder = metrics.NoOpRecorder{}
	)
	if settings.Output.Metrics.Enabled {
		var err error
		if m, err = observability.NewMetrics(); err != nil {
			return nil, err
		}
		rec = m.Pipeline
	}

	store, err := openStore(settings)
	if err != nil {
		return nil, err
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				log.Warn("failed to close database", logger.Error(err))
			}
		}()
	}

	res, runErr := run(ctx, settings, rec, opts, store)

	// Metrics are written last so they include the report stage, also when
	// the run failed
	if m != nil {
		path := settings.ResolveOutputPath(settings.Output.Metrics.Path)
		if err := m.WriteTextfile(path); err != nil {
			return res, errors.Join(runErr, err)
		}
	}
	return res, runErr
}

func run(ctx context.Context, settings *conf.Settings, rec metrics.Recorder, opts Options, store datastore.Interface) (*analysis.Result, error) {
	pipeline := newPipeline(settings, rec)
	res, err := pipeline.Run(ctx, settings.Input.Observations, settings.Input.Species)
	if err != nil {
		return nil, err
	}

	reporter := newReporter(settings, opts, store, rec)
	if err := reporter.Write(ctx, res); err != nil {
		return res, err
	}
	return res, nil
}

// Inspect runs the analysis without writing artifacts and prints what
// happened to one species.
func Inspect(ctx context.Context, settings *conf.Settings, scientificName string, opts Options) (*analysis.SpeciesInspection, error) {
	if err := conf.ValidateInputs(&settings.Input); err != nil {
		return nil, errors.New(err).Category(errors.CategoryValidation).Build()
	}

	res, err := newPipeline(settings, nil).Run(ctx, settings.Input.Observations, settings.Input.Species)
	if err != nil {
		return nil, err
	}

	si := res.Inspect(scientificName)
	if opts.Out == nil {
		return &si, nil
	}

	aliases := report.NewAliaser(settings.Report.LocationAliases)
	if opts.Preview {
		if err := report.WriteText(opts.Out, res, report.TextOptions{Aliases: aliases, Preview: true}); err != nil {
			return &si, err
		}
	}
	if err := report.WriteInspection(opts.Out, &si, aliases); err != nil {
		return &si, err
	}
	return &si, nil
}

func newPipeline(settings *conf.Settings, rec metrics.Recorder) *analysis.Pipeline {
	log := logger.Global()
	return analysis.NewPipeline(
		loader.New(nil, log.Module("loader")),
		analysis.OptionsFromSettings(settings),
		log.Module("analysis"),
		rec,
	)
}

// openStore connects to the snapshot database, nil when disabled
func openStore(settings *conf.Settings) (datastore.Interface, error) {
	store := datastore.New(settings, logger.Global().Module("datastore"))
	if store == nil {
		return nil, nil
	}
	if err := store.Open(); err != nil {
		return nil, err
	}
	return store, nil
}

// newReporter builds a reporter with the sinks enabled by settings
func newReporter(settings *conf.Settings, opts Options, store datastore.Interface, rec metrics.Recorder) *report.Reporter {
	aliases := report.NewAliaser(settings.Report.LocationAliases)
	log := logger.Global().Module("report")

	reporter := report.NewReporter(log, rec)
	if opts.Out != nil {
		reporter.Add(report.NewTextReport(opts.Out, report.TextOptions{Aliases: aliases, Preview: opts.Preview}))
	}
	if settings.Output.Charts.Enabled {
		reporter.Add(report.NewCharts(nil, settings.Output.Dir, aliases, log))
	}
	if settings.Output.Workbook.Enabled {
		path := settings.ResolveOutputPath(settings.Output.Workbook.Path)
		reporter.Add(report.NewWorkbook(nil, path, log))
	}
	if store != nil {
		reporter.Add(report.SinkFunc("database", func(_ context.Context, res *analysis.Result) error {
			return store.SaveRun(res)
		}))
	}

	log.Debug("report sinks", logger.Strings("sinks", reporter.Sinks()))
	return reporter
}
