package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/tphakala/parkbio/internal/errors"
)

func TestExportCopiesRuns(t *testing.T) {
	t.Parallel()

	src := setupTestDB(t)
	dst := setupTestDB(t)

	first := sampleResult(t)
	second := sampleResult(t)
	require.NoError(t, src.SaveRun(first))
	require.NoError(t, src.SaveRun(second))

	stats, err := Export(context.Background(), src, dst, ExportOptions{BatchSize: 2}, quietLogger())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.RunID, second.RunID}, stats.Runs)
	require.Len(t, stats.Tables, len(models()))
	assert.Equal(t, "analysis_runs", stats.Tables[0].Name)
	assert.EqualValues(t, 2, stats.Tables[0].Copied)
	assert.EqualValues(t, 6, stats.Tables[1].Copied)

	run, err := dst.GetRun(first.RunID)
	require.NoError(t, err)
	assert.Equal(t, 4, run.ObservationsRaw)

	counts, err := Verify(src, dst, stats.Runs)
	require.NoError(t, err)
	for _, c := range counts {
		assert.True(t, c.Match(), c.Name)
	}
}

func TestExportIsRepeatable(t *testing.T) {
	t.Parallel()

	src := setupTestDB(t)
	dst := setupTestDB(t)
	res := sampleResult(t)
	require.NoError(t, src.SaveRun(res))

	for range 2 {
		_, err := Export(context.Background(), src, dst, ExportOptions{}, quietLogger())
		require.NoError(t, err)
	}

	assert.EqualValues(t, 3, countRows(t, dst, &ObservationRollup{}, res.RunID))
	_, err := Verify(src, dst, []string{res.RunID})
	require.NoError(t, err)
}

func TestExportSelectedRuns(t *testing.T) {
	t.Parallel()

	src := setupTestDB(t)
	dst := setupTestDB(t)
	keep := sampleResult(t)
	skip := sampleResult(t)
	require.NoError(t, src.SaveRun(keep))
	require.NoError(t, src.SaveRun(skip))

	stats, err := Export(context.Background(), src, dst, ExportOptions{RunIDs: []string{keep.RunID}}, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{keep.RunID}, stats.Runs)

	_, err = dst.GetRun(skip.RunID)
	assert.True(t, errors.IsNotFound(err))
}

func TestExportUnknownRunID(t *testing.T) {
	t.Parallel()

	src := setupTestDB(t)
	dst := setupTestDB(t)
	res := sampleResult(t)
	require.NoError(t, src.SaveRun(res))

	_, err := Export(context.Background(), src, dst, ExportOptions{RunIDs: []string{res.RunID, "missing", "missing"}}, quietLogger())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "[missing]")

	// nothing was copied
	_, err = dst.GetRun(res.RunID)
	assert.True(t, errors.IsNotFound(err))
}

func TestExportPacesBatches(t *testing.T) {
	t.Parallel()

	src := setupTestDB(t)
	dst := setupTestDB(t)
	res := sampleResult(t)
	require.NoError(t, src.SaveRun(res))

	// one run row and three rollups give at least four batches of one
	start := time.Now()
	stats, err := Export(context.Background(), src, dst, ExportOptions{BatchSize: 1, BatchesPerSecond: 20}, quietLogger())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, []string{res.RunID}, stats.Runs)
}

func TestExportCancelled(t *testing.T) {
	t.Parallel()

	src := setupTestDB(t)
	dst := setupTestDB(t)
	res := sampleResult(t)
	require.NoError(t, src.SaveRun(res))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Export(ctx, src, dst, ExportOptions{BatchesPerSecond: 1}, quietLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryCancellation))

	_, err = dst.GetRun(res.RunID)
	assert.True(t, errors.IsNotFound(err))
}

func TestBatchLimiter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, rate.Inf, batchLimiter(0).Limit())
	assert.Equal(t, rate.Inf, batchLimiter(-1).Limit())
	assert.Equal(t, rate.Limit(5), batchLimiter(5).Limit())
	assert.Equal(t, 1, batchLimiter(5).Burst())
}

func TestExportEmptySource(t *testing.T) {
	t.Parallel()

	stats, err := Export(context.Background(), setupTestDB(t), setupTestDB(t), ExportOptions{}, quietLogger())
	require.NoError(t, err)
	assert.Empty(t, stats.Runs)
	assert.Empty(t, stats.Tables)
}

func TestExportRequiresOpenStores(t *testing.T) {
	t.Parallel()

	closed := NewSQLiteStore("unused.db", quietLogger())
	_, err := Export(context.Background(), closed, setupTestDB(t), ExportOptions{}, quietLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryDatabase))

	_, err = Verify(setupTestDB(t), closed, nil)
	require.Error(t, err)
}

func TestVerifyDetectsMismatch(t *testing.T) {
	t.Parallel()

	src := setupTestDB(t)
	dst := setupTestDB(t)
	res := sampleResult(t)
	require.NoError(t, src.SaveRun(res))

	counts, err := Verify(src, dst, []string{res.RunID})
	require.Error(t, err)
	require.NotEmpty(t, counts)
	assert.False(t, counts[0].Match())
}
