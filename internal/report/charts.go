package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/afero"

	"github.com/tphakala/parkbio/internal/analysis"
	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/logger"
	"github.com/tphakala/parkbio/internal/observation"
)

// Chart file names written to the output directory
const (
	StatusDistributionChart   = "status_distribution.html"
	EndangeredByCategoryChart = "endangered_by_category.html"
	prevalentChartPrefix      = "prevalent_"
)

// Charts renders the bar charts of a run as standalone HTML files.
type Charts struct {
	fs      afero.Fs
	dir     string
	aliases *Aliaser
	log     logger.Logger
}

// NewCharts creates a chart sink writing into dir. A nil fs uses the OS
// filesystem.
func NewCharts(fs afero.Fs, dir string, aliases *Aliaser, log logger.Logger) *Charts {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = logger.Global().Module("report")
	}
	return &Charts{fs: fs, dir: dir, aliases: aliases, log: log}
}

type namedChart struct {
	name string
	bar  *charts.Bar
}

// Name implements Sink
func (c *Charts) Name() string { return "charts" }

// Write renders every chart. The context is checked between files.
func (c *Charts) Write(ctx context.Context, res *analysis.Result) error {
	if err := c.fs.MkdirAll(c.dir, 0o755); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("dir", c.dir).
			Build()
	}

	bars := []namedChart{
		{StatusDistributionChart, statusDistributionChart(res)},
		{EndangeredByCategoryChart, endangeredByCategoryChart(res)},
	}
	names := PrevalentChartNames(res.Prevalence.Names())
	for i, p := range res.Prevalence.Species {
		bars = append(bars, namedChart{names[i], c.prevalentChart(p)})
	}

	for _, nc := range bars {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.render(nc.name, nc.bar); err != nil {
			return err
		}
	}

	c.log.Info("charts written", logger.String("dir", c.dir), logger.Int("count", len(bars)))
	return nil
}

func (c *Charts) render(name string, bar *charts.Bar) error {
	path := filepath.Join(c.dir, name)
	f, err := c.fs.Create(path)
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	if err := bar.Render(f); err != nil {
		_ = f.Close()
		return errors.New(err).
			Category(errors.CategoryReport).
			Context("chart", name).
			Build()
	}
	if err := f.Close(); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	c.log.Debug("chart written", logger.String("path", path))
	return nil
}

// PrevalentChartName is the file name of the location chart of one species.
func PrevalentChartName(scientificName string) string {
	slug := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '_'
	}, strings.TrimSpace(scientificName))
	return prevalentChartPrefix + slug + ".html"
}

// PrevalentChartNames returns the chart file names of the given species in
// order. A name whose file name is already taken gets a numeric suffix
// starting at _2.
func PrevalentChartNames(scientificNames []string) []string {
	used := make(map[string]bool, len(scientificNames))
	out := make([]string, len(scientificNames))
	for i, name := range scientificNames {
		file := PrevalentChartName(name)
		base := strings.TrimSuffix(file, ".html")
		for n := 2; used[file]; n++ {
			file = fmt.Sprintf("%s_%d.html", base, n)
		}
		used[file] = true
		out[i] = file
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func newBarChart(title, subtitle, xName, yName string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "100%",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true)}),
		charts.WithLegendOpts(opts.Legend{Show: boolPtr(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      xName,
			AxisLabel: &opts.AxisLabel{Rotate: 30},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: yName,
		}),
		charts.WithGridOpts(opts.Grid{
			ContainLabel: boolPtr(true),
			Left:         "3%",
			Right:        "4%",
			Bottom:       "15%",
		}),
	)
	return bar
}

func statusDistributionChart(res *analysis.Result) *charts.Bar {
	statuses := distributionStatuses(res.RawDistribution, res.CleanDistribution)

	labels := make([]string, len(statuses))
	raw := make([]opts.BarData, len(statuses))
	clean := make([]opts.BarData, len(statuses))
	for i, s := range statuses {
		labels[i] = s.Label()
		raw[i] = opts.BarData{Value: res.RawDistribution.Count(s)}
		clean[i] = opts.BarData{Value: res.CleanDistribution.Count(s)}
	}

	bar := newBarChart("Conservation status", "species rows per status", "Status", "Species")
	bar.SetXAxis(labels).
		AddSeries("Raw", raw).
		AddSeries("Cleaned", clean)
	return bar
}

func endangeredByCategoryChart(res *analysis.Result) *charts.Bar {
	labels := make([]string, len(res.Categories))
	all := make([]opts.BarData, len(res.Categories))
	endangered := make([]opts.BarData, len(res.Categories))
	for i, c := range res.Categories {
		labels[i] = string(c.Category)
		all[i] = opts.BarData{Value: c.Species}
		endangered[i] = opts.BarData{Value: c.Endangered}
	}

	status := res.Endangered.Status.Label()
	bar := newBarChart(status+" species by category", "cleaned species table", "Category", "Species")
	bar.SetXAxis(labels).
		AddSeries("All", all).
		AddSeries(status, endangered)
	return bar
}

func (c *Charts) prevalentChart(p analysis.PrevalentSpecies) *charts.Bar {
	labels := make([]string, len(p.Breakdown))
	counts := make([]opts.BarData, len(p.Breakdown))
	for i, o := range p.Breakdown {
		labels[i] = c.aliases.Apply(o.LocationName)
		counts[i] = opts.BarData{Value: o.Count}
	}

	bar := newBarChart(p.ScientificName, observationSubtitle(p.Breakdown), "Location", "Observations")
	bar.SetXAxis(labels).AddSeries("Observations", counts)
	return bar
}

func observationSubtitle(rows []observation.Observation) string {
	return fmt.Sprintf("observed at %d locations, %d sightings", len(rows), observation.TotalCount(rows))
}
