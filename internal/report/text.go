package report

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/tphakala/parkbio/internal/analysis"
	"github.com/tphakala/parkbio/internal/observation"
)

// TextOptions controls the stdout report
type TextOptions struct {
	Aliases *Aliaser
	Preview bool // print the leading rows of both raw tables
}

// TextReport writes the diagnostic summary of a run as aligned plain text.
type TextReport struct {
	w    io.Writer
	opts TextOptions
}

// NewTextReport creates a text report writing to w
func NewTextReport(w io.Writer, opts TextOptions) *TextReport {
	return &TextReport{w: w, opts: opts}
}

// Name implements Sink
func (t *TextReport) Name() string { return "text" }

// Write implements Sink
func (t *TextReport) Write(_ context.Context, res *analysis.Result) error {
	return WriteText(t.w, res, t.opts)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// WriteText writes the run summary to w.
func WriteText(w io.Writer, res *analysis.Result, opts TextOptions) error {
	tw := newTabWriter(w)

	fmt.Fprintf(tw, "Run %s\n\n", res.RunID)

	if opts.Preview {
		writePreview(tw, res)
	}

	writeCounts(tw, res)
	writeCategories(tw, res)
	writeDistribution(tw, res)
	writeEndangered(tw, res)
	writeIndependence(tw, res)
	writePrevalence(tw, res, opts.Aliases)
	writeIssues(tw, res.Issues)

	return tw.Flush()
}

func writePreview(w io.Writer, res *analysis.Result) {
	obs, species := res.Preview()

	fmt.Fprintf(w, "Observations preview (%d of %d rows)\n", len(obs), len(res.RawObservations))
	fmt.Fprintln(w, "  scientific_name\tpark_name\tobservations")
	for _, o := range obs {
		fmt.Fprintf(w, "  %s\t%s\t%d\n", o.SpeciesName, o.LocationName, o.Count)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Species preview (%d of %d rows)\n", len(species), len(res.RawSpecies))
	fmt.Fprintln(w, "  category\tscientific_name\tcommon_names\tconservation_status")
	for _, s := range species {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", s.Category, s.ScientificName, s.CommonName, s.Status.Label())
	}
	fmt.Fprintln(w)
}

func writeCounts(w io.Writer, res *analysis.Result) {
	fmt.Fprintln(w, "Records")
	fmt.Fprintln(w, "  table\trows\tduplicates\tafter cleaning")
	fmt.Fprintf(w, "  observations\t%d\t%d\t%d\n",
		len(res.RawObservations), res.ObservationDuplicates, len(res.Observations))
	fmt.Fprintf(w, "  observations rolled up\t%d\t\t%d\n",
		len(res.Observations), len(res.ObservationRollup))
	fmt.Fprintf(w, "  species\t%d\t%d\t%d\n",
		len(res.RawSpecies), res.SpeciesDuplicates, len(res.CleanSpecies))
	fmt.Fprintf(w, "  total observed\t%d\t\t%d\n",
		observation.TotalCount(res.Observations), observation.TotalCount(res.ObservationRollup))
	fmt.Fprintln(w)
}

func writeCategories(w io.Writer, res *analysis.Result) {
	fmt.Fprintln(w, "Categories (cleaned species)")
	fmt.Fprintf(w, "  category\tspecies\t%s\tshare\n", strings.ToLower(string(res.Endangered.Status)))
	for _, c := range res.Categories {
		fmt.Fprintf(w, "  %s\t%d\t%d\t%.1f%%\n", c.Category, c.Species, c.Endangered, 100*c.EndangeredShare())
	}
	if res.MeanCategory != "" {
		fmt.Fprintf(w, "  mean category code %.2f (%s)\n", res.MeanCategoryCode, res.MeanCategory)
	} else if len(res.RawSpecies) > 0 {
		fmt.Fprintf(w, "  mean category code %.2f\n", res.MeanCategoryCode)
	}
	fmt.Fprintln(w)
}

// distributionStatuses lists the statuses of raw, then the ones only clean has
func distributionStatuses(raw, clean analysis.Distribution) []observation.Status {
	var out []observation.Status
	for _, sc := range raw {
		out = append(out, sc.Status)
	}
	for _, sc := range clean {
		if !slices.Contains(out, sc.Status) {
			out = append(out, sc.Status)
		}
	}
	return out
}

func writeDistribution(w io.Writer, res *analysis.Result) {
	fmt.Fprintln(w, "Conservation status")
	fmt.Fprintln(w, "  status\traw\tcleaned")
	for _, s := range distributionStatuses(res.RawDistribution, res.CleanDistribution) {
		fmt.Fprintf(w, "  %s\t%d\t%d\n", s.Label(), res.RawDistribution.Count(s), res.CleanDistribution.Count(s))
	}
	fmt.Fprintf(w, "  total\t%d\t%d\n", res.RawDistribution.Total(), res.CleanDistribution.Total())
	fmt.Fprintln(w)
}

func writeEndangered(w io.Writer, res *analysis.Result) {
	e := &res.Endangered
	fmt.Fprintf(w, "%s species: %d raw rows, %d after cleaning\n", e.Status.Label(), e.RawCount, len(e.Species))
	for _, s := range e.Species {
		fmt.Fprintf(w, "  %s\t%s\n", s.ScientificName, s.Category)
	}
	fmt.Fprintln(w)
}

func writeIndependence(w io.Writer, res *analysis.Result) {
	ind := &res.Independence
	fmt.Fprintln(w, "Independence of species and conservation status")

	if ind.Insufficient || ind.Result == nil {
		rows, cols := 0, 0
		if ind.Table != nil {
			rows, cols = len(ind.Table.Rows), len(ind.Table.Cols)
		}
		fmt.Fprintf(w, "  insufficient data (%d species x %d statuses)\n\n", rows, cols)
		return
	}

	r := ind.Result
	verdict := "not significant"
	if ind.Significant() {
		verdict = "significant"
	}
	fmt.Fprintf(w, "  chi-square\t%.4f\n", r.Statistic)
	fmt.Fprintf(w, "  degrees of freedom\t%d\n", r.DOF)
	fmt.Fprintf(w, "  p-value\t%.6g\n", r.PValue)
	fmt.Fprintf(w, "  verdict\t%s at alpha %g\n", verdict, ind.Alpha)
	if r.YatesCorrected {
		fmt.Fprintln(w, "  continuity correction applied")
	}
	fmt.Fprintln(w)
}

func writePrevalence(w io.Writer, res *analysis.Result, aliases *Aliaser) {
	p := &res.Prevalence
	fmt.Fprintf(w, "Prevalent species (observed at %d locations)\n", p.Threshold)
	if len(p.Species) == 0 {
		fmt.Fprintln(w, "  none")
		fmt.Fprintln(w)
		return
	}

	for _, s := range p.Species {
		fmt.Fprintf(w, "  %s: %d observations\n", s.ScientificName, s.Total())
		for _, o := range s.Breakdown {
			fmt.Fprintf(w, "    %s\t%d\n", aliases.Apply(o.LocationName), o.Count)
		}
	}
	fmt.Fprintln(w)
}

func writeIssues(w io.Writer, issues []analysis.DataQualityIssue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(w, "Data quality")
	fmt.Fprintln(w, "  kind\tvalue\trows\tfirst row")
	for _, i := range issues {
		fmt.Fprintf(w, "  %s\t%q\t%d\t%d\n", i.Kind, i.Value, i.Rows, i.FirstRow)
	}
	fmt.Fprintln(w)
}

// WriteInspection writes the rows of one species before and after cleaning.
func WriteInspection(w io.Writer, si *analysis.SpeciesInspection, aliases *Aliaser) error {
	tw := newTabWriter(w)

	fmt.Fprintf(tw, "Species %s\n", si.ScientificName)
	if !si.Found() {
		fmt.Fprintln(tw, "  not found in either table")
		return tw.Flush()
	}

	fmt.Fprintf(tw, "\nSpecies rows (%d)\n", len(si.SpeciesRows))
	for _, s := range si.SpeciesRows {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", s.Category, s.CommonName, s.Status.Label())
	}

	fmt.Fprintf(tw, "\nAfter cleaning (%d)\n", len(si.CleanRows))
	for _, s := range si.CleanRows {
		fmt.Fprintf(tw, "  %s\t%s\n", s.Category, s.Status.Label())
	}

	fmt.Fprintf(tw, "\nObservations (%d rows, %d total)\n", len(si.RawObservations), observation.TotalCount(si.RawObservations))
	for _, o := range si.RawObservations {
		fmt.Fprintf(tw, "  %s\t%d\n", aliases.Apply(o.LocationName), o.Count)
	}

	fmt.Fprintf(tw, "\nRolled up (%d locations)\n", si.Locations)
	for _, o := range si.Rollup {
		fmt.Fprintf(tw, "  %s\t%d\n", aliases.Apply(o.LocationName), o.Count)
	}

	if si.Prevalent {
		fmt.Fprintf(tw, "\nPrevalent at %d locations\n", si.Locations)
	}
	return tw.Flush()
}
