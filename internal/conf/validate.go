package conf

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tphakala/parkbio/internal/logger"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct. Enumerated values are
// normalized to lower case in place.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	ve.Errors = append(ve.Errors, validateOutputSettings(&settings.Output)...)
	ve.Errors = append(ve.Errors, validateAnalysisSettings(&settings.Analysis)...)
	ve.Errors = append(ve.Errors, validateReportSettings(&settings.Report)...)
	ve.Errors = append(ve.Errors, validateLoggingSettings(settings)...)

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// ValidateInputs checks that both input tables are configured. It is separate
// from ValidateSettings so that commands not reading data can run without them.
func ValidateInputs(input *InputSettings) error {
	var errs []string
	if strings.TrimSpace(input.Observations) == "" {
		errs = append(errs, "input.observations must be set")
	}
	if strings.TrimSpace(input.Species) == "" {
		errs = append(errs, "input.species must be set")
	}
	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateOutputSettings(settings *OutputSettings) []string {
	var errs []string

	if settings.Dir == "" {
		settings.Dir = "."
	}

	if settings.Workbook.Enabled && settings.Workbook.Path == "" {
		errs = append(errs, "output.workbook.path is required when the workbook is enabled")
	}

	if settings.Metrics.Enabled && settings.Metrics.Path == "" {
		errs = append(errs, "output.metrics.path is required when metrics are enabled")
	}

	db := &settings.Database
	db.Type = strings.ToLower(strings.TrimSpace(db.Type))
	switch db.Type {
	case "", DatabaseNone:
		db.Type = DatabaseNone
	case DatabaseSQLite:
		if db.SQLite.Path == "" {
			errs = append(errs, "output.database.sqlite.path is required for sqlite")
		}
	case DatabaseMySQL:
		if db.MySQL.Host == "" {
			errs = append(errs, "output.database.mysql.host is required for mysql")
		}
		if db.MySQL.Database == "" {
			errs = append(errs, "output.database.mysql.database is required for mysql")
		}
		if db.MySQL.Port < 1 || db.MySQL.Port > 65535 {
			errs = append(errs, fmt.Sprintf("output.database.mysql.port must be between 1 and 65535, got %d", db.MySQL.Port))
		}
	default:
		errs = append(errs, fmt.Sprintf("output.database.type must be one of %s, %s, %s, got %q",
			DatabaseNone, DatabaseSQLite, DatabaseMySQL, db.Type))
	}

	return errs
}

func validateAnalysisSettings(settings *AnalysisSettings) []string {
	var errs []string

	settings.CategoryPolicy = strings.ToLower(strings.TrimSpace(settings.CategoryPolicy))
	if settings.CategoryPolicy == "" {
		settings.CategoryPolicy = DefaultCategoryPolicy
	}
	if settings.CategoryPolicy != CategoryPolicyWarn && settings.CategoryPolicy != CategoryPolicyStrict {
		errs = append(errs, fmt.Sprintf("analysis.categorypolicy must be %s or %s, got %q",
			CategoryPolicyWarn, CategoryPolicyStrict, settings.CategoryPolicy))
	}

	if strings.TrimSpace(settings.EndangeredStatus) == "" {
		errs = append(errs, "analysis.endangeredstatus must not be empty")
	} else if len(settings.KnownStatuses) > 0 && !slices.Contains(settings.KnownStatuses, settings.EndangeredStatus) {
		errs = append(errs, fmt.Sprintf("analysis.endangeredstatus %q is not in analysis.knownstatuses", settings.EndangeredStatus))
	}

	if settings.Alpha <= 0 || settings.Alpha >= 1 {
		errs = append(errs, fmt.Sprintf("analysis.alpha must be between 0 and 1 (exclusive), got %g", settings.Alpha))
	}

	if settings.Prevalence.Locations < 0 {
		errs = append(errs, fmt.Sprintf("analysis.prevalence.locations must be non-negative, got %d", settings.Prevalence.Locations))
	}

	if settings.Preview < 0 {
		errs = append(errs, fmt.Sprintf("analysis.preview must be non-negative, got %d", settings.Preview))
	}

	return errs
}

func validateReportSettings(settings *ReportSettings) []string {
	var errs []string
	for i, alias := range settings.LocationAliases {
		if alias.Match == "" {
			errs = append(errs, fmt.Sprintf("report.locationaliases[%d].match must not be empty", i))
		}
	}
	return errs
}

func validateLoggingSettings(settings *Settings) []string {
	var errs []string

	cfg := &settings.Logging
	for key, level := range map[string]string{
		"logging.defaultlevel":  cfg.DefaultLevel,
		"logging.console.level": cfg.Console.Level,
		"logging.file.level":    cfg.File.Level,
	} {
		if level != "" && validateEnvLogLevel(level) != nil {
			errs = append(errs, fmt.Sprintf("%s has unknown level %q", key, level))
		}
	}

	for module, level := range cfg.ModuleLevels {
		if validateEnvLogLevel(level) != nil {
			errs = append(errs, fmt.Sprintf("logging.modulelevels.%s has unknown level %q", module, level))
		}
	}

	if cfg.Timezone != "" && cfg.Timezone != "Local" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			errs = append(errs, fmt.Sprintf("logging.timezone: %v", err))
		}
	}

	// --debug lifts the console and the module default to debug. File output
	// keeps the level it had before.
	if settings.Debug {
		applyDebug(cfg)
	}

	slices.Sort(errs)
	return errs
}

func applyDebug(cfg *logger.LoggingConfig) {
	if cfg.DefaultLevel == "" {
		cfg.DefaultLevel = logger.DefaultLogLevel
	}
	if cfg.File.Level == "" {
		cfg.File.Level = cfg.DefaultLevel
	}
	if !isVerbose(cfg.Console.Level) {
		cfg.Console.Level = string(logger.LogLevelDebug)
	}
	if !isVerbose(cfg.DefaultLevel) {
		cfg.DefaultLevel = string(logger.LogLevelDebug)
	}
}

func isVerbose(level string) bool {
	level = strings.ToLower(strings.TrimSpace(level))
	return level == string(logger.LogLevelTrace) || level == string(logger.LogLevelDebug)
}
