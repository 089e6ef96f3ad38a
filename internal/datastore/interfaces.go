// interfaces.go defines the snapshot store and its shared GORM implementation
package datastore

import (
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/parkbio/internal/analysis"
	"github.com/tphakala/parkbio/internal/conf"
	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/logger"
)

// slowQueryThreshold is logged at WARN by the GORM adapter
const slowQueryThreshold = 500 * time.Millisecond

// insertBatchSize bounds rows per INSERT statement
const insertBatchSize = 500

// Interface abstracts the snapshot database
type Interface interface {
	Open() error
	SaveRun(res *analysis.Result) error
	GetRun(runID string) (*AnalysisRun, error)
	Close() error
}

// DataStore implements Interface on a GORM database.
type DataStore struct {
	DB  *gorm.DB
	log logger.Logger
}

// New returns the store selected by output.database.type, or nil when the
// snapshot is disabled.
func New(settings *conf.Settings, log logger.Logger) Interface {
	if log == nil {
		log = logger.Global().Module("datastore")
	}

	switch settings.Output.Database.Type {
	case conf.DatabaseSQLite:
		return NewSQLiteStore(settings.ResolveOutputPath(settings.Output.Database.SQLite.Path), log)
	case conf.DatabaseMySQL:
		return NewMySQLStore(settings.Output.Database.MySQL, log)
	default:
		return nil
	}
}

// gormDB exposes the connection to package level helpers such as Export
func (ds *DataStore) gormDB() *gorm.DB {
	return ds.DB
}

// gormConfig routes GORM logging through the module logger
func (ds *DataStore) gormConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.NewGormLoggerAdapter(ds.log, slowQueryThreshold)}
}

// performAutoMigration creates or updates all snapshot tables
func (ds *DataStore) performAutoMigration(dbType string) error {
	if err := ds.DB.AutoMigrate(models()...); err != nil {
		return dbError(err, "auto_migrate", "db_type", dbType)
	}
	ds.log.Debug("database schema ready", logger.String("db_type", dbType))
	return nil
}

// SaveRun writes the snapshot of res, replacing earlier rows of the same run.
func (ds *DataStore) SaveRun(res *analysis.Result) error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Category(errors.CategoryDatabase).
			Build()
	}

	snap := newSnapshot(res)
	start := time.Now()

	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range models() {
			if err := tx.Where("run_id = ?", res.RunID).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&snap.run).Error; err != nil {
			return err
		}
		if err := createBatches(tx, snap.rollup); err != nil {
			return err
		}
		if err := createBatches(tx, snap.species); err != nil {
			return err
		}
		if err := createBatches(tx, snap.statuses); err != nil {
			return err
		}
		return createBatches(tx, snap.prevalent)
	})
	if err != nil {
		return dbError(err, "save_run", "run_id", res.RunID)
	}

	ds.log.Info("saved analysis snapshot",
		logger.String("run_id", res.RunID),
		logger.Int("rollup_rows", len(snap.rollup)),
		logger.Int("species_rows", len(snap.species)),
		logger.Duration("elapsed", time.Since(start)))
	return nil
}

// createBatches inserts rows, skipping empty slices which GORM rejects
func createBatches[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, insertBatchSize).Error
}

// GetRun loads the run row for runID
func (ds *DataStore) GetRun(runID string) (*AnalysisRun, error) {
	var run AnalysisRun
	if err := ds.DB.Where("run_id = ?", runID).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Newf("analysis run not found: %s", runID).
				Category(errors.CategoryNotFound).
				Build()
		}
		return nil, dbError(err, "get_run", "run_id", runID)
	}
	return &run, nil
}

// Close releases the underlying connection pool
func (ds *DataStore) Close() error {
	if ds.DB == nil {
		return nil
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return dbError(err, "close")
	}
	if err := sqlDB.Close(); err != nil {
		return dbError(err, "close")
	}
	return nil
}
