package report

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/tphakala/parkbio/internal/analysis"
	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/logger"
)

// Workbook sheet names
const (
	SheetSummary      = "Summary"
	SheetObservations = "Observations"
	SheetSpecies      = "Species"
	SheetDistribution = "Distribution"
	SheetEndangered   = "Endangered"
	SheetPrevalence   = "Prevalence"
	SheetDataQuality  = "Data Quality"
)

// Workbook exports the derived tables of a run as an XLSX file, one sheet
// per table.
type Workbook struct {
	fs   afero.Fs
	path string
	log  logger.Logger
}

// NewWorkbook creates a workbook sink writing to path. A nil fs uses the OS
// filesystem.
func NewWorkbook(fs afero.Fs, path string, log logger.Logger) *Workbook {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = logger.Global().Module("report")
	}
	return &Workbook{fs: fs, path: path, log: log}
}

// Name implements Sink
func (w *Workbook) Name() string { return "workbook" }

// Write builds the workbook in memory and saves it to the configured path.
func (w *Workbook) Write(ctx context.Context, res *analysis.Result) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			w.log.Warn("failed to close workbook", logger.Error(err))
		}
	}()

	// The default sheet becomes the summary so no empty sheet is left behind
	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return workbookError(err, SheetSummary)
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetSummary, summaryRows(res)},
		{SheetObservations, observationRows(res)},
		{SheetSpecies, speciesRows(res)},
		{SheetDistribution, distributionRows(res)},
		{SheetEndangered, endangeredRows(res)},
		{SheetPrevalence, prevalenceRows(res)},
		{SheetDataQuality, issueRows(res)},
	}

	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if sheet.name != SheetSummary {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return workbookError(err, sheet.name)
			}
		}
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return workbookError(err, sheet.name)
		}
	}

	if err := w.fs.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("path", w.path).
			Build()
	}
	out, err := w.fs.Create(w.path)
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("path", w.path).
			Build()
	}
	if err := f.Write(out); err != nil {
		_ = out.Close()
		return errors.New(err).
			Category(errors.CategoryReport).
			Context("path", w.path).
			Build()
	}
	if err := out.Close(); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("path", w.path).
			Build()
	}

	w.log.Info("workbook written", logger.String("path", w.path), logger.Int("sheets", len(sheets)))
	return nil
}

func workbookError(err error, sheet string) error {
	return errors.New(err).
		Category(errors.CategoryReport).
		Context("sheet", sheet).
		Build()
}

// writeRows writes rows starting at A1 and freezes the header row
func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if len(rows) < 2 {
		return nil
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func summaryRows(res *analysis.Result) [][]any {
	rows := [][]any{
		{"Metric", "Value"},
		{"Run ID", res.RunID},
		{"Started", res.StartedAt.Format("2006-01-02 15:04:05")},
		{"Raw observations", len(res.RawObservations)},
		{"Duplicate observations", res.ObservationDuplicates},
		{"Rolled up observations", len(res.ObservationRollup)},
		{"Raw species", len(res.RawSpecies)},
		{"Duplicate species rows", res.SpeciesDuplicates},
		{"Cleaned species", len(res.CleanSpecies)},
		{"Mean category code", res.MeanCategoryCode},
		{res.Endangered.Status.Label() + " (raw)", res.Endangered.RawCount},
		{res.Endangered.Status.Label() + " (cleaned)", len(res.Endangered.Species)},
		{"Prevalence threshold", res.Prevalence.Threshold},
		{"Prevalent species", strings.Join(res.Prevalence.Names(), ", ")},
	}

	ind := &res.Independence
	if ind.Result != nil {
		rows = append(rows,
			[]any{"Chi-square statistic", ind.Result.Statistic},
			[]any{"Degrees of freedom", ind.Result.DOF},
			[]any{"p-value", ind.Result.PValue},
			[]any{"Significant", ind.Significant()},
		)
	} else {
		rows = append(rows, []any{"p-value", "insufficient data"})
	}
	return rows
}

func observationRows(res *analysis.Result) [][]any {
	rows := make([][]any, 0, len(res.ObservationRollup)+1)
	rows = append(rows, []any{"scientific_name", "park_name", "observations"})
	for _, o := range res.ObservationRollup {
		rows = append(rows, []any{o.SpeciesName, o.LocationName, o.Count})
	}
	return rows
}

func speciesRows(res *analysis.Result) [][]any {
	rows := make([][]any, 0, len(res.CleanSpecies)+1)
	rows = append(rows, []any{"category", "scientific_name", "conservation_status"})
	for _, s := range res.CleanSpecies {
		rows = append(rows, []any{string(s.Category), s.ScientificName, s.Status.Label()})
	}
	return rows
}

func distributionRows(res *analysis.Result) [][]any {
	rows := [][]any{{"conservation_status", "raw", "cleaned"}}
	for _, s := range distributionStatuses(res.RawDistribution, res.CleanDistribution) {
		rows = append(rows, []any{s.Label(), res.RawDistribution.Count(s), res.CleanDistribution.Count(s)})
	}
	return rows
}

func endangeredRows(res *analysis.Result) [][]any {
	rows := [][]any{{"category", "scientific_name"}}
	for _, s := range res.Endangered.Species {
		rows = append(rows, []any{string(s.Category), s.ScientificName})
	}
	return rows
}

func prevalenceRows(res *analysis.Result) [][]any {
	rows := [][]any{{"scientific_name", "park_name", "observations"}}
	for _, p := range res.Prevalence.Species {
		for _, o := range p.Breakdown {
			rows = append(rows, []any{o.SpeciesName, o.LocationName, o.Count})
		}
	}
	return rows
}

func issueRows(res *analysis.Result) [][]any {
	rows := [][]any{{"kind", "value", "rows", "first_row"}}
	for _, i := range res.Issues {
		rows = append(rows, []any{i.Kind, i.Value, i.Rows, i.FirstRow})
	}
	return rows
}
