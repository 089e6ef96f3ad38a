package datastore

import (
	"context"
	"slices"
	"time"

	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/logger"
)

// defaultExportBatchSize is used when ExportOptions.BatchSize is not set
const defaultExportBatchSize = 1000

// ExportOptions controls Export
type ExportOptions struct {
	RunIDs    []string // empty exports every run in the source
	BatchSize int
	// BatchesPerSecond caps the insert rate on the target. 0 means no limit.
	BatchesPerSecond float64
}

// TableStats counts the rows copied for one table
type TableStats struct {
	Name     string
	Copied   int64
	Duration time.Duration
}

// ExportStats summarizes an export
type ExportStats struct {
	StartTime time.Time
	EndTime   time.Time
	Runs      []string
	Tables    []TableStats
}

// TableCount compares row counts of one table after an export
type TableCount struct {
	Name   string
	Source int64
	Target int64
}

// Match reports whether both sides hold the same number of rows
func (c TableCount) Match() bool { return c.Source == c.Target }

type gormStore interface {
	gormDB() *gorm.DB
}

// snapshotTable pairs a display name with a copy function for one model
type snapshotTable struct {
	name  string
	model any
	copy  func(ctx context.Context, src, dst *gorm.DB, runIDs []string, batchSize int, limiter *rate.Limiter) (int64, error)
}

func snapshotTables() []snapshotTable {
	return []snapshotTable{
		{"analysis_runs", &AnalysisRun{}, copyTable[AnalysisRun]},
		{"observation_rollups", &ObservationRollup{}, copyTable[ObservationRollup]},
		{"clean_species", &CleanSpecies{}, copyTable[CleanSpecies]},
		{"status_counts", &StatusCount{}, copyTable[StatusCount]},
		{"prevalent_species", &PrevalentSpecies{}, copyTable[PrevalentSpecies]},
	}
}

func openedDB(store Interface, side string) (*gorm.DB, error) {
	gs, ok := store.(gormStore)
	if !ok || gs.gormDB() == nil {
		return nil, errors.Newf("%s database is not open", side).
			Category(errors.CategoryDatabase).
			Build()
	}
	return gs.gormDB(), nil
}

// Export copies the snapshot rows of the selected runs from src to dst, e.g.
// from a local SQLite file to a shared MySQL server. Rows the target already
// holds for an exported run are replaced, so exports can be repeated.
func Export(ctx context.Context, src, dst Interface, opts ExportOptions, log logger.Logger) (*ExportStats, error) {
	if log == nil {
		log = logger.Global().Module("datastore")
	}
	srcDB, err := openedDB(src, "source")
	if err != nil {
		return nil, err
	}
	dstDB, err := openedDB(dst, "target")
	if err != nil {
		return nil, err
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultExportBatchSize
	}
	limiter := batchLimiter(opts.BatchesPerSecond)

	stats := &ExportStats{StartTime: time.Now()}

	runs, err := selectRuns(srcDB, opts.RunIDs)
	if err != nil {
		return nil, err
	}
	if missing := missingRuns(opts.RunIDs, runs); len(missing) > 0 {
		return nil, errors.Newf("runs not found in source: %v", missing).
			Category(errors.CategoryNotFound).
			Context("runs", missing).
			Build()
	}
	stats.Runs = runs
	if len(runs) == 0 {
		log.Warn("no analysis runs to export")
		stats.EndTime = time.Now()
		return stats, nil
	}

	err = dstDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range models() {
			if err := tx.Where("run_id IN ?", runs).Delete(m).Error; err != nil {
				return err
			}
		}

		for _, t := range snapshotTables() {
			start := time.Now()
			copied, err := t.copy(ctx, srcDB, tx, runs, batchSize, limiter)
			if err != nil {
				if ctx.Err() != nil {
					return err
				}
				return errors.New(err).
					Category(errors.CategoryDatabase).
					Context("table", t.name).
					Build()
			}
			stats.Tables = append(stats.Tables, TableStats{Name: t.name, Copied: copied, Duration: time.Since(start)})
			log.Debug("exported table", logger.String("table", t.name), logger.Int64("rows", copied))
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.New(ctxErr).
				Category(errors.CategoryCancellation).
				Context("operation", "export").
				Build()
		}
		return nil, dbError(err, "export", "runs", len(runs))
	}

	stats.EndTime = time.Now()
	log.Info("exported analysis runs",
		logger.Int("runs", len(runs)),
		logger.Duration("elapsed", stats.EndTime.Sub(stats.StartTime)))
	return stats, nil
}

// selectRuns returns the run ids present in db, limited to want when set
func selectRuns(db *gorm.DB, want []string) ([]string, error) {
	q := db.Model(&AnalysisRun{})
	if len(want) > 0 {
		q = q.Where("run_id IN ?", want)
	}
	var runs []string
	if err := q.Order("started_at").Pluck("run_id", &runs).Error; err != nil {
		return nil, dbError(err, "select_runs")
	}
	return runs, nil
}

// missingRuns returns the wanted run ids absent from found
func missingRuns(want, found []string) []string {
	var missing []string
	for _, id := range want {
		if !slices.Contains(found, id) && !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// batchLimiter returns a limiter allowing perSecond batches, or an unlimited
// one when perSecond is not positive.
func batchLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// copyTable copies the rows of runIDs in batches. Target rows get fresh
// primary keys.
func copyTable[T any](ctx context.Context, src, dst *gorm.DB, runIDs []string, batchSize int, limiter *rate.Limiter) (int64, error) {
	var copied int64
	err := src.WithContext(ctx).Model(new(T)).Where("run_id IN ?", runIDs).
		FindInBatches(new([]T), batchSize, func(tx *gorm.DB, _ int) error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			records := tx.Statement.Dest.(*[]T)
			result := dst.Omit("ID").Create(records)
			if result.Error != nil {
				return result.Error
			}
			copied += result.RowsAffected
			return nil
		}).Error
	return copied, err
}

// Verify compares per-table row counts of the given runs in src and dst.
// The error lists the tables whose counts differ.
func Verify(src, dst Interface, runIDs []string) ([]TableCount, error) {
	srcDB, err := openedDB(src, "source")
	if err != nil {
		return nil, err
	}
	dstDB, err := openedDB(dst, "target")
	if err != nil {
		return nil, err
	}

	var (
		counts   []TableCount
		mismatch []string
	)
	for _, t := range snapshotTables() {
		c := TableCount{Name: t.name}
		if err := srcDB.Model(t.model).Where("run_id IN ?", runIDs).Count(&c.Source).Error; err != nil {
			return nil, dbError(err, "verify", "table", t.name)
		}
		if err := dstDB.Model(t.model).Where("run_id IN ?", runIDs).Count(&c.Target).Error; err != nil {
			return nil, dbError(err, "verify", "table", t.name)
		}
		if !c.Match() {
			mismatch = append(mismatch, t.name)
		}
		counts = append(counts, c)
	}

	if len(mismatch) > 0 {
		return counts, errors.Newf("row counts differ for %v", mismatch).
			Category(errors.CategoryDatabase).
			Context("tables", mismatch).
			Build()
	}
	return counts, nil
}
