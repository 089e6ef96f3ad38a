package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/parkbio/internal/errors"
)

func table(counts ...[]float64) *ContingencyTable {
	t := &ContingencyTable{Counts: counts}
	for i := range counts {
		t.Rows = append(t.Rows, string(rune('a'+i)))
	}
	for j := range counts[0] {
		t.Cols = append(t.Cols, string(rune('A'+j)))
	}
	return t
}

func TestChiSquareUniformTableHasHighPValue(t *testing.T) {
	t.Parallel()

	res, err := ChiSquare(table([]float64{10, 10}, []float64{10, 10}))
	require.NoError(t, err)

	assert.Equal(t, 1, res.DOF)
	assert.True(t, res.YatesCorrected)
	assert.InDelta(t, 0, res.Statistic, 1e-12)
	assert.InDelta(t, 1, res.PValue, 1e-12)
	assert.False(t, res.Significant(0.05))
}

func TestChiSquareSkewedTableHasLowPValue(t *testing.T) {
	t.Parallel()

	res, err := ChiSquare(table([]float64{50, 0}, []float64{0, 50}))
	require.NoError(t, err)

	// Yates: each |O-E| of 25 shrinks to 24.5
	assert.InDelta(t, 4*24.5*24.5/25, res.Statistic, 1e-9)
	assert.Less(t, res.PValue, 1e-10)
	assert.True(t, res.Significant(0.05))
}

func TestChiSquareTwoDegreesOfFreedom(t *testing.T) {
	t.Parallel()

	res, err := ChiSquare(table(
		[]float64{10, 20},
		[]float64{20, 10},
		[]float64{15, 15},
	))
	require.NoError(t, err)

	assert.Equal(t, 2, res.DOF)
	assert.False(t, res.YatesCorrected)
	assert.InDelta(t, 100.0/15.0, res.Statistic, 1e-9)
	// the chi-square survival function with 2 dof is exp(-x/2)
	assert.InDelta(t, math.Exp(-res.Statistic/2), res.PValue, 1e-9)
	for _, row := range res.Expected {
		for _, e := range row {
			assert.InDelta(t, 15, e, 1e-12)
		}
	}
}

func TestChiSquareZeroDegreesOfFreedom(t *testing.T) {
	t.Parallel()

	res, err := ChiSquare(table([]float64{3}, []float64{4}, []float64{5}))
	require.NoError(t, err)
	assert.Equal(t, 0, res.DOF)
	assert.Zero(t, res.Statistic)
	assert.InDelta(t, 1, res.PValue, 0)
}

func TestChiSquareInsufficientData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		table *ContingencyTable
	}{
		{"nil", nil},
		{"empty", &ContingencyTable{}},
		{"empty crosstab", Crosstab(nil, nil)},
		{"zero column", table([]float64{1, 0}, []float64{2, 0})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ChiSquare(tt.table)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInsufficientData)
			assert.True(t, errors.IsCategory(err, errors.CategoryInsufficientData))
		})
	}
}

func TestChiSquareRejectsBadCells(t *testing.T) {
	t.Parallel()

	_, err := ChiSquare(table([]float64{1, -1}, []float64{2, 3}))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryAnalysis))

	ragged := table([]float64{1, 2}, []float64{2, 3})
	ragged.Counts[1] = []float64{2}
	_, err = ChiSquare(ragged)
	require.Error(t, err)
}

func TestCrosstab(t *testing.T) {
	t.Parallel()

	ct := Crosstab(
		[]string{"Canis lupus", "Puma concolor", "Canis lupus", "Ursus arctos"},
		[]string{"Endangered", "Species of Concern", "In Recovery", "Endangered"},
	)

	assert.Equal(t, []string{"Canis lupus", "Puma concolor", "Ursus arctos"}, ct.Rows)
	assert.Equal(t, []string{"Endangered", "In Recovery", "Species of Concern"}, ct.Cols)
	assert.Equal(t, [][]float64{
		{1, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	}, ct.Counts)
}
