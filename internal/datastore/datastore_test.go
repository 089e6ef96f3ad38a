package datastore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/parkbio/internal/analysis"
	"github.com/tphakala/parkbio/internal/conf"
	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/logger"
	"github.com/tphakala/parkbio/internal/observation"
)

func quietLogger() logger.Logger {
	return logger.NewSlogLogger(nil, logger.LogLevelError, time.UTC)
}

// setupTestDB opens a fresh SQLite file per test
func setupTestDB(t *testing.T) *SQLiteStore {
	t.Helper()

	store := &SQLiteStore{
		DataStore: DataStore{log: quietLogger()},
		Path:      filepath.Join(t.TempDir(), "db", "parkbio.db"),
	}
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// sampleResult runs the analysis over a small fixture
func sampleResult(t *testing.T) *analysis.Result {
	t.Helper()

	obs := []observation.Observation{
		{SpeciesName: "Canis lupus", LocationName: "Bryce National Park", Count: 3},
		{SpeciesName: "Canis lupus", LocationName: "Bryce National Park", Count: 4},
		{SpeciesName: "Canis lupus", LocationName: "Zion National Park", Count: 2},
		{SpeciesName: "Puma concolor", LocationName: "Zion National Park", Count: 6},
	}
	species := []observation.Species{
		{Category: "Mammal", ScientificName: "Canis lupus", CommonName: "Gray Wolf", Status: "Endangered"},
		{Category: "Mammal", ScientificName: "Canis lupus", CommonName: "Red Wolf", Status: "In Recovery"},
		{Category: "Mammal", ScientificName: "Puma concolor", CommonName: "Mountain Lion", Status: ""},
		{Category: "Fish", ScientificName: "Salmo trutta", CommonName: "Brown Trout", Status: "Species of Concern"},
	}

	p := analysis.NewPipeline(nil, analysis.DefaultOptions(), quietLogger(), nil)
	res, err := p.Analyze(context.Background(), obs, species)
	require.NoError(t, err)
	return res
}

func countRows(t *testing.T, store *SQLiteStore, model any, runID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, store.DB.Model(model).Where("run_id = ?", runID).Count(&n).Error)
	return n
}

func TestSaveRun(t *testing.T) {
	t.Parallel()

	store := setupTestDB(t)
	res := sampleResult(t)

	require.NoError(t, store.SaveRun(res))

	run, err := store.GetRun(res.RunID)
	require.NoError(t, err)
	assert.Equal(t, 4, run.ObservationsRaw)
	assert.Equal(t, 3, run.ObservationsRollup)
	assert.Equal(t, 3, run.SpeciesClean)
	assert.Equal(t, 1, run.EndangeredClean)
	assert.Equal(t, "Endangered", run.EndangeredStatus)
	require.NotNil(t, run.PValue)
	assert.InDelta(t, res.Independence.Result.PValue, *run.PValue, 1e-12)
	require.NotNil(t, run.ChiSquareDOF)
	assert.Equal(t, 1, *run.ChiSquareDOF)

	assert.EqualValues(t, 3, countRows(t, store, &ObservationRollup{}, res.RunID))
	assert.EqualValues(t, 3, countRows(t, store, &CleanSpecies{}, res.RunID))
	assert.EqualValues(t, len(res.RawDistribution)+len(res.CleanDistribution), countRows(t, store, &StatusCount{}, res.RunID))
	assert.EqualValues(t, len(res.Prevalence.Species), countRows(t, store, &PrevalentSpecies{}, res.RunID))

	var wolf ObservationRollup
	require.NoError(t, store.DB.Where("run_id = ? AND scientific_name = ? AND location_name = ?",
		res.RunID, "Canis lupus", "Bryce National Park").First(&wolf).Error)
	assert.Equal(t, 7, wolf.Count)

	var noStatus StatusCount
	require.NoError(t, store.DB.Where("run_id = ? AND source = ? AND status = ?",
		res.RunID, SourceRaw, observation.NoStatusLabel).First(&noStatus).Error)
	assert.Equal(t, 1, noStatus.Count)
}

func TestSaveRunReplacesSameRun(t *testing.T) {
	t.Parallel()

	store := setupTestDB(t)
	first := sampleResult(t)
	second := sampleResult(t)

	require.NoError(t, store.SaveRun(first))
	require.NoError(t, store.SaveRun(second))
	require.NoError(t, store.SaveRun(first))

	assert.EqualValues(t, 3, countRows(t, store, &ObservationRollup{}, first.RunID))
	assert.EqualValues(t, 3, countRows(t, store, &ObservationRollup{}, second.RunID), "other runs are untouched")

	var runs int64
	require.NoError(t, store.DB.Model(&AnalysisRun{}).Count(&runs).Error)
	assert.EqualValues(t, 2, runs)
}

func TestSaveRunInsufficientData(t *testing.T) {
	t.Parallel()

	store := setupTestDB(t)
	p := analysis.NewPipeline(nil, analysis.DefaultOptions(), quietLogger(), nil)
	res, err := p.Analyze(context.Background(), nil, nil)
	require.NoError(t, err)

	require.NoError(t, store.SaveRun(res))
	run, err := store.GetRun(res.RunID)
	require.NoError(t, err)
	assert.Nil(t, run.PValue)
	assert.Nil(t, run.ChiSquareStatistic)
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	store := setupTestDB(t)
	_, err := store.GetRun("00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSaveRunWithoutOpen(t *testing.T) {
	t.Parallel()

	store := &SQLiteStore{DataStore: DataStore{log: quietLogger()}}
	err := store.SaveRun(&analysis.Result{RunID: "x"})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryDatabase))
	require.NoError(t, store.Close())
}

func TestNew(t *testing.T) {
	t.Parallel()

	settings := &conf.Settings{}
	settings.Output.Dir = "out"
	settings.Output.Database.Type = conf.DatabaseNone
	assert.Nil(t, New(settings, nil))

	settings.Output.Database.Type = conf.DatabaseSQLite
	settings.Output.Database.SQLite.Path = "parkbio.db"
	sqliteStore, ok := New(settings, quietLogger()).(*SQLiteStore)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("out", "parkbio.db"), sqliteStore.Path)

	settings.Output.Database.Type = conf.DatabaseMySQL
	settings.Output.Database.MySQL = conf.MySQLSettings{Host: "db", Port: 3306, Username: "park", Password: "pw", Database: "parkbio"}
	mysqlStore, ok := New(settings, quietLogger()).(*MySQLStore)
	require.True(t, ok)
	assert.Equal(t, "park:pw@tcp(db:3306)/parkbio", strings.SplitN(mysqlStore.dsn(), "?", 2)[0])
}

func TestMySQLDSN(t *testing.T) {
	t.Parallel()

	store := NewMySQLStore(conf.MySQLSettings{
		Host:     "db.example.org",
		Port:     3307,
		Username: "park",
		Password: "p@ss/word:1",
		Database: "parkbio",
	}, quietLogger())

	cfg, err := mysqldriver.ParseDSN(store.dsn())
	require.NoError(t, err)
	assert.Equal(t, "park", cfg.User)
	assert.Equal(t, "p@ss/word:1", cfg.Passwd)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "db.example.org:3307", cfg.Addr)
	assert.Equal(t, "parkbio", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, time.Local, cfg.Loc)
	assert.Equal(t, "utf8mb4", cfg.Params["charset"])
}
