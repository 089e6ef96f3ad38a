// Package report renders a finished analysis run: the text summary, HTML
// charts, the XLSX workbook and any other configured sink.
package report

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/parkbio/internal/analysis"
	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/logger"
	"github.com/tphakala/parkbio/internal/observability/metrics"
)

// Sink writes one artifact of a run. Sinks only read the result and may run
// concurrently with each other.
type Sink interface {
	Name() string
	Write(ctx context.Context, res *analysis.Result) error
}

type sinkFunc struct {
	name string
	fn   func(context.Context, *analysis.Result) error
}

func (s sinkFunc) Name() string { return s.name }

func (s sinkFunc) Write(ctx context.Context, res *analysis.Result) error {
	return s.fn(ctx, res)
}

// SinkFunc adapts a function to the Sink interface
func SinkFunc(name string, fn func(context.Context, *analysis.Result) error) Sink {
	return sinkFunc{name: name, fn: fn}
}

// Reporter fans a result out to its sinks.
type Reporter struct {
	sinks []Sink
	log   logger.Logger
	rec   metrics.Recorder
}

// NewReporter creates a reporter. Nil log and rec are replaced with the
// global logger and a no-op recorder.
func NewReporter(log logger.Logger, rec metrics.Recorder, sinks ...Sink) *Reporter {
	if log == nil {
		log = logger.Global().Module("report")
	}
	if rec == nil {
		rec = metrics.NoOpRecorder{}
	}
	return &Reporter{sinks: sinks, log: log, rec: rec}
}

// Add appends a sink
func (r *Reporter) Add(s Sink) {
	r.sinks = append(r.sinks, s)
}

// Sinks returns the sink names in registration order
func (r *Reporter) Sinks() []string {
	names := make([]string, len(r.sinks))
	for i, s := range r.sinks {
		names[i] = s.Name()
	}
	return names
}

// Write runs every sink concurrently. The first failure cancels the context
// passed to the others and is returned.
func (r *Reporter) Write(ctx context.Context, res *analysis.Result) error {
	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)

	for _, s := range r.sinks {
		g.Go(func() error {
			if err := s.Write(ctx, res); err != nil {
				err = sinkError(err, s.Name())
				r.log.Error("report sink failed", logger.ErrorFields(err)...)
				return err
			}
			r.log.Debug("report sink done", logger.String("sink", s.Name()))
			return nil
		})
	}

	err := g.Wait()
	r.rec.RecordDuration(metrics.StageReport, time.Since(start).Seconds())
	if err != nil {
		r.rec.RecordOperation(metrics.StageReport, metrics.StatusError)
		r.rec.RecordError(metrics.StageReport, string(errors.CategoryOf(err)))
		return err
	}

	r.rec.RecordOperation(metrics.StageReport, metrics.StatusSuccess)
	return nil
}

// sinkError keeps the category of categorized errors and tags the rest as
// report errors
func sinkError(err error, sink string) error {
	category := errors.CategoryOf(err)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		category = errors.CategoryCancellation
	case category == errors.CategoryGeneric:
		category = errors.CategoryReport
	}
	return errors.New(err).
		Category(category).
		Context("sink", sink).
		Build()
}
