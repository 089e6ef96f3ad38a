package datastore

import (
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/logger"
)

// SQLiteStore implements Interface for SQLite
type SQLiteStore struct {
	DataStore
	Path string // database file, or ":memory:"
}

// NewSQLiteStore creates an unopened SQLite store
func NewSQLiteStore(path string, log logger.Logger) *SQLiteStore {
	if log == nil {
		log = logger.Global().Module("datastore")
	}
	return &SQLiteStore{DataStore: DataStore{log: log}, Path: path}
}

// Open creates the database file if needed and migrates the schema
func (store *SQLiteStore) Open() error {
	if store.Path == "" {
		return errors.Newf("sqlite path is empty").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if store.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(store.Path), 0o755); err != nil {
			return errors.FileError(err, store.Path)
		}
	}

	db, err := gorm.Open(sqlite.Open(store.Path), store.gormConfig())
	if err != nil {
		return dbError(err, "open", "db_type", "sqlite", "path", store.Path)
	}

	store.DB = db
	store.log.Debug("opened sqlite database", logger.String("path", store.Path))
	return store.performAutoMigration("sqlite")
}
