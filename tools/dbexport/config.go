package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/tphakala/parkbio/internal/conf"
	"github.com/tphakala/parkbio/internal/errors"
)

// Config holds the configuration for the export tool.
type Config struct {
	// Source database
	SQLitePath string

	// Target database
	MySQL conf.MySQLSettings

	// Export options
	RunIDs           []string
	BatchSize        int
	BatchesPerSecond float64
	SkipVerify       bool
	Verbose          bool

	// Config file path for fallback
	ConfigPath string
}

// Load validates the configuration, falling back to the parkbio config file
// for connection settings not given as flags.
func (c *Config) Load() error {
	if c.SQLitePath == "" || c.MySQL.Host == "" {
		if err := c.loadFromConfigFile(); err != nil && c.SQLitePath == "" {
			return fmt.Errorf("--sqlite-path is required (or provide a parkbio config file): %w", err)
		}
	}

	if _, err := os.Stat(c.SQLitePath); os.IsNotExist(err) {
		return errors.ValidationError("SQLite database not found: " + c.SQLitePath)
	}

	if c.MySQL.Host == "" {
		return errors.ValidationError("--mysql-host is required")
	}
	if c.MySQL.Port < 1 || c.MySQL.Port > 65535 {
		return errors.ValidationError("mysql-port must be between 1 and 65535")
	}

	if c.BatchSize < 1 {
		return errors.ValidationError("batch-size must be at least 1")
	}
	if c.BatchSize > 10000 {
		return errors.ValidationError("batch-size too large (max 10000)")
	}
	if c.BatchesPerSecond < 0 {
		return errors.ValidationError("batches-per-second must not be negative")
	}

	return nil
}

// loadFromConfigFile fills empty connection settings from parkbio's own
// configuration.
func (c *Config) loadFromConfigFile() error {
	settings, err := conf.Load(c.ConfigPath)
	if err != nil {
		return err
	}

	if c.SQLitePath == "" {
		c.SQLitePath = settings.ResolveOutputPath(settings.Output.Database.SQLite.Path)
	}
	if c.MySQL.Host == "" {
		c.MySQL = settings.Output.Database.MySQL
	}
	return nil
}

// SanitizedTarget describes the MySQL target with the password masked.
func (c *Config) SanitizedTarget() string {
	user := c.MySQL.Username
	if c.MySQL.Password != "" {
		user += ":" + strings.Repeat("*", 4)
	}
	return fmt.Sprintf("%s@tcp(%s:%d)/%s", user, c.MySQL.Host, c.MySQL.Port, c.MySQL.Database)
}
