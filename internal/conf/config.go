// Package conf loads and validates parkbio settings from defaults, config.yaml,
// environment variables and command line flags.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// InputSettings names the two source tables
type InputSettings struct {
	Observations string // park observations CSV
	Species      string // species info CSV
}

type ChartSettings struct {
	Enabled bool
}

type WorkbookSettings struct {
	Enabled bool
	Path    string // relative paths resolve against output.dir
}

type SQLiteSettings struct {
	Path string
}

type MySQLSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
}

// DatabaseSettings controls the optional derived-table snapshot
type DatabaseSettings struct {
	Type   string // none, sqlite or mysql
	SQLite SQLiteSettings
	MySQL  MySQLSettings
}

type MetricsSettings struct {
	Enabled bool
	Path    string // Prometheus textfile
}

// OutputSettings contains every artifact the report stage may write
type OutputSettings struct {
	Dir      string
	Charts   ChartSettings
	Workbook WorkbookSettings
	Database DatabaseSettings
	Metrics  MetricsSettings
}

type PrevalenceSettings struct {
	Locations int // species seen at exactly this many locations; 0 selects the maximum observed frequency
}

// AnalysisSettings holds the dataset specific knobs of the analysis
type AnalysisSettings struct {
	CategoryPolicy   string   // warn or strict
	KnownStatuses    []string // statuses accepted without a warning
	EndangeredStatus string   // status label selected by the endangered filter
	Alpha            float64  // significance level for the independence test
	Prevalence       PrevalenceSettings
	Preview          int // rows shown by table previews
}

// LocationAlias rewrites a substring of a location name for display
type LocationAlias struct {
	Match   string
	Replace string
}

type ReportSettings struct {
	LocationAliases []LocationAlias
}

// Settings is the merged parkbio configuration
type Settings struct {
	Debug    bool
	Input    InputSettings
	Output   OutputSettings
	Analysis AnalysisSettings
	Report   ReportSettings
	Logging  logger.LoggingConfig
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads defaults, the config file and environment variables into a new
// Settings instance and validates it. configFile may be empty to search the
// default config paths.
func Load(configFile string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := initViper(configFile); err != nil {
		return nil, err
	}

	settings, err := unmarshalSettings()
	if err != nil {
		return nil, err
	}

	settingsInstance = settings
	return settings, nil
}

// Reload re-reads viper state, e.g. after command line flags were bound.
func Reload() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings, err := unmarshalSettings()
	if err != nil {
		return nil, err
	}

	settingsInstance = settings
	return settings, nil
}

func unmarshalSettings() (*Settings, error) {
	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal").
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryValidation).
			Build()
	}

	return settings, nil
}

// initViper registers defaults and environment bindings and reads the config
// file. A missing config file is not an error; defaults apply.
func initViper(configFile string) error {
	viper.SetConfigType("yaml")

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(configName)
		for _, path := range GetDefaultConfigPaths() {
			viper.AddConfigPath(path)
		}
	}

	setDefaultConfig()

	if err := configureEnvironmentVariables(); err != nil {
		return errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "bind-env").
			Build()
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("config_file", configFile).
			Build()
	}

	return nil
}

// GetDefaultConfigPaths lists the directories searched for config.yaml in
// priority order.
func GetDefaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}
	return append(paths, filepath.Join("/etc", appName))
}

// ConfigFileUsed returns the path of the loaded config file, empty when
// running on defaults.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}

// GetSettings returns the most recently loaded settings
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// DefaultConfig returns the bundled, commented config.yaml
func DefaultConfig() ([]byte, error) {
	data, err := fs.ReadFile(configFiles, configFileName)
	if err != nil {
		return nil, fmt.Errorf("error reading embedded config: %w", err)
	}
	return data, nil
}

// WriteDefaultConfig writes the bundled config.yaml to path, refusing to
// overwrite an existing file.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file already exists: %s", path).
			Category(errors.CategoryConfiguration).
			Build()
	}

	data, err := DefaultConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.FileError(err, path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.FileError(err, path)
	}
	return nil
}

// ResolveOutputPath joins relative artifact paths with output.dir
func (s *Settings) ResolveOutputPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Output.Dir, path)
}
