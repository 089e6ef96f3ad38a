package datastore

import (
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/tphakala/parkbio/internal/conf"
	"github.com/tphakala/parkbio/internal/logger"
)

// MySQLStore implements Interface for MySQL
type MySQLStore struct {
	DataStore
	Settings conf.MySQLSettings
}

// NewMySQLStore creates an unopened MySQL store
func NewMySQLStore(settings conf.MySQLSettings, log logger.Logger) *MySQLStore {
	if log == nil {
		log = logger.Global().Module("datastore")
	}
	return &MySQLStore{DataStore: DataStore{log: log}, Settings: settings}
}

// dsn builds the go-sql-driver connection string
func (store *MySQLStore) dsn() string {
	s := store.Settings
	cfg := mysqldriver.NewConfig()
	cfg.User = s.Username
	cfg.Passwd = s.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", s.Host, s.Port)
	cfg.DBName = s.Database
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Open connects to MySQL and migrates the schema
func (store *MySQLStore) Open() error {
	db, err := gorm.Open(mysql.Open(store.dsn()), store.gormConfig())
	if err != nil {
		store.log.Error("failed to open MySQL database",
			logger.String("host", store.Settings.Host),
			logger.Int("port", store.Settings.Port),
			logger.String("database", store.Settings.Database),
			logger.Error(err))
		return dbError(err, "open", "db_type", "mysql", "host", store.Settings.Host)
	}

	store.DB = db
	return store.performAutoMigration("mysql")
}
