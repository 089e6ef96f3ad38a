// env.go - Environment variable configuration and validation
package conf

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "PARKBIO_DEBUG", validateEnvBool},

		// Inputs
		{"input.observations", "PARKBIO_INPUT_OBSERVATIONS", nil},
		{"input.species", "PARKBIO_INPUT_SPECIES", nil},

		// Outputs
		{"output.dir", "PARKBIO_OUTPUT_DIR", nil},
		{"output.charts.enabled", "PARKBIO_OUTPUT_CHARTS_ENABLED", validateEnvBool},
		{"output.workbook.enabled", "PARKBIO_OUTPUT_WORKBOOK_ENABLED", validateEnvBool},
		{"output.database.type", "PARKBIO_OUTPUT_DATABASE_TYPE", validateEnvDatabaseType},
		{"output.database.sqlite.path", "PARKBIO_OUTPUT_DATABASE_SQLITE_PATH", nil},
		{"output.database.mysql.host", "PARKBIO_OUTPUT_DATABASE_MYSQL_HOST", nil},
		{"output.database.mysql.port", "PARKBIO_OUTPUT_DATABASE_MYSQL_PORT", validateEnvPort},
		{"output.database.mysql.username", "PARKBIO_OUTPUT_DATABASE_MYSQL_USERNAME", nil},
		{"output.database.mysql.password", "PARKBIO_OUTPUT_DATABASE_MYSQL_PASSWORD", nil},
		{"output.database.mysql.database", "PARKBIO_OUTPUT_DATABASE_MYSQL_DATABASE", nil},
		{"output.metrics.enabled", "PARKBIO_OUTPUT_METRICS_ENABLED", validateEnvBool},

		// Analysis
		{"analysis.categorypolicy", "PARKBIO_ANALYSIS_CATEGORYPOLICY", validateEnvCategoryPolicy},
		{"analysis.endangeredstatus", "PARKBIO_ANALYSIS_ENDANGEREDSTATUS", nil},
		{"analysis.alpha", "PARKBIO_ANALYSIS_ALPHA", validateEnvAlpha},
		{"analysis.prevalence.locations", "PARKBIO_ANALYSIS_PREVALENCE_LOCATIONS", validateEnvNonNegativeInt},

		// Logging
		{"logging.defaultlevel", "PARKBIO_LOGGING_DEFAULTLEVEL", validateEnvLogLevel},
		{"logging.file.enabled", "PARKBIO_LOGGING_FILE_ENABLED", validateEnvBool},
		{"logging.file.path", "PARKBIO_LOGGING_FILE_PATH", nil},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate != nil {
			if envValue := os.Getenv(binding.EnvVar); envValue != "" {
				if err := binding.Validate(envValue); err != nil {
					warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", binding.EnvVar, envValue, err))
				}
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

// configureEnvironmentVariables sets up environment variable support for Viper
func configureEnvironmentVariables() error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return bindEnvVars()
}

// Environment variable validation functions

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("invalid boolean value '%s': must be true/false, 1/0, t/f, TRUE/FALSE, T/F", value)
	}
	return nil
}

func validateEnvDatabaseType(value string) error {
	if !slices.Contains([]string{DatabaseNone, DatabaseSQLite, DatabaseMySQL}, strings.ToLower(value)) {
		return fmt.Errorf("database type must be one of %s, %s, %s", DatabaseNone, DatabaseSQLite, DatabaseMySQL)
	}
	return nil
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid port: %w", err)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

func validateEnvCategoryPolicy(value string) error {
	if !slices.Contains([]string{CategoryPolicyWarn, CategoryPolicyStrict}, strings.ToLower(value)) {
		return fmt.Errorf("category policy must be %s or %s", CategoryPolicyWarn, CategoryPolicyStrict)
	}
	return nil
}

func validateEnvAlpha(value string) error {
	alpha, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid alpha: %w", err)
	}
	if alpha <= 0 || alpha >= 1 {
		return fmt.Errorf("alpha must be between 0 and 1 (exclusive), got %g", alpha)
	}
	return nil
}

func validateEnvNonNegativeInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("value must be non-negative, got %d", n)
	}
	return nil
}

var validLogLevels = []string{"trace", "debug", "info", "warn", "warning", "error"}

func validateEnvLogLevel(value string) error {
	if !slices.Contains(validLogLevels, strings.ToLower(value)) {
		return fmt.Errorf("log level must be one of %s", strings.Join(validLogLevels, ", "))
	}
	return nil
}
