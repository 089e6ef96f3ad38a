// Package stats implements the contingency table chi-square test of
// independence.
package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tphakala/parkbio/internal/errors"
)

// ErrInsufficientData is returned when a table has no rows or columns, or
// when a marginal total is zero so expected frequencies cannot be formed.
var ErrInsufficientData = errors.NewStd("insufficient data for independence test")

// yatesMaxAdjustment is the largest continuity correction applied per cell
const yatesMaxAdjustment = 0.5

// ContingencyTable holds observed frequencies. Counts is indexed [row][col].
type ContingencyTable struct {
	Rows   []string
	Cols   []string
	Counts [][]float64
}

// Crosstab counts co-occurrences of rowLabels[i] and colLabels[i]. Labels
// are sorted, so the table layout does not depend on input order. Both
// slices must have the same length.
func Crosstab(rowLabels, colLabels []string) *ContingencyTable {
	n := min(len(rowLabels), len(colLabels))

	rows := sortedUnique(rowLabels[:n])
	cols := sortedUnique(colLabels[:n])

	rowIdx := indexOf(rows)
	colIdx := indexOf(cols)

	counts := make([][]float64, len(rows))
	for i := range counts {
		counts[i] = make([]float64, len(cols))
	}
	for i := range n {
		counts[rowIdx[rowLabels[i]]][colIdx[colLabels[i]]]++
	}

	return &ContingencyTable{Rows: rows, Cols: cols, Counts: counts}
}

func sortedUnique(labels []string) []string {
	out := slices.Clone(labels)
	slices.Sort(out)
	return slices.Compact(out)
}

func indexOf(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}

// ChiSquareResult is the outcome of an independence test
type ChiSquareResult struct {
	Statistic      float64
	DOF            int
	PValue         float64
	Expected       [][]float64
	YatesCorrected bool
}

// Significant reports whether the null hypothesis of independence is
// rejected at level alpha.
func (r *ChiSquareResult) Significant(alpha float64) bool {
	return r.PValue < alpha
}

// ChiSquare runs Pearson's chi-square test of independence on t. With one
// degree of freedom Yates' continuity correction is applied. A table with a
// single row or column has zero degrees of freedom and yields statistic 0
// and p-value 1.
func ChiSquare(t *ContingencyTable) (*ChiSquareResult, error) {
	if t == nil || len(t.Rows) == 0 || len(t.Cols) == 0 || len(t.Counts) == 0 {
		return nil, insufficient("empty table", 0, 0)
	}

	r, c := len(t.Counts), len(t.Counts[0])
	rowSums := make([]float64, r)
	colSums := make([]float64, c)
	total := 0.0

	for i, row := range t.Counts {
		if len(row) != c {
			return nil, errors.Newf("contingency table row %d has %d columns, want %d", i, len(row), c).
				Category(errors.CategoryAnalysis).
				Build()
		}
		for j, v := range row {
			if v < 0 || math.IsNaN(v) {
				return nil, errors.Newf("contingency table cell (%d, %d) is %v", i, j, v).
					Category(errors.CategoryAnalysis).
					Build()
			}
			rowSums[i] += v
			colSums[j] += v
			total += v
		}
	}

	if slices.Contains(rowSums, 0) || slices.Contains(colSums, 0) {
		return nil, insufficient("zero marginal total", r, c)
	}

	expected := make([][]float64, r)
	for i := range expected {
		expected[i] = make([]float64, c)
		for j := range expected[i] {
			expected[i][j] = rowSums[i] * colSums[j] / total
		}
	}

	dof := r*c - r - c + 1
	result := &ChiSquareResult{DOF: dof, Expected: expected}

	if dof == 0 {
		result.PValue = 1
		return result, nil
	}

	result.YatesCorrected = dof == 1

	for i, row := range t.Counts {
		for j, observed := range row {
			exp := expected[i][j]
			if result.YatesCorrected {
				diff := exp - observed
				observed += math.Copysign(math.Min(yatesMaxAdjustment, math.Abs(diff)), diff)
			}
			d := observed - exp
			result.Statistic += d * d / exp
		}
	}

	result.PValue = distuv.ChiSquared{K: float64(dof)}.Survival(result.Statistic)
	return result, nil
}

func insufficient(reason string, rows, cols int) error {
	return errors.New(ErrInsufficientData).
		Category(errors.CategoryInsufficientData).
		Context("reason", reason).
		Context("rows", rows).
		Context("cols", cols).
		Build()
}
