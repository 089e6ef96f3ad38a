// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"

	"github.com/tphakala/parkbio/internal/logger"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("input.observations", "observations.csv")
	viper.SetDefault("input.species", "species_info.csv")

	viper.SetDefault("output.dir", ".")
	viper.SetDefault("output.charts.enabled", true)
	viper.SetDefault("output.workbook.enabled", false)
	viper.SetDefault("output.workbook.path", "parkbio.xlsx")
	viper.SetDefault("output.database.type", DatabaseNone)
	viper.SetDefault("output.database.sqlite.path", "parkbio.db")
	viper.SetDefault("output.database.mysql.host", "localhost")
	viper.SetDefault("output.database.mysql.port", 3306)
	viper.SetDefault("output.database.mysql.username", "")
	viper.SetDefault("output.database.mysql.password", "")
	viper.SetDefault("output.database.mysql.database", appName)
	viper.SetDefault("output.metrics.enabled", false)
	viper.SetDefault("output.metrics.path", "parkbio.prom")

	viper.SetDefault("analysis.categorypolicy", DefaultCategoryPolicy)
	viper.SetDefault("analysis.knownstatuses", DefaultKnownStatuses)
	viper.SetDefault("analysis.endangeredstatus", DefaultEndangeredStatus)
	viper.SetDefault("analysis.alpha", DefaultAlpha)
	viper.SetDefault("analysis.prevalence.locations", DefaultPrevalenceLocations)
	viper.SetDefault("analysis.preview", DefaultPreviewRows)

	viper.SetDefault("report.locationaliases", DefaultLocationAliases)

	viper.SetDefault("logging.defaultlevel", logger.DefaultLogLevel)
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", logger.DefaultConsoleEnabled)
	viper.SetDefault("logging.console.level", logger.DefaultLogLevel)
	viper.SetDefault("logging.file.enabled", logger.DefaultFileEnabled)
	viper.SetDefault("logging.file.path", logger.DefaultLogPath)
	viper.SetDefault("logging.file.level", logger.DefaultLogLevel)
	viper.SetDefault("logging.file.maxsize", logger.DefaultMaxSize)
	viper.SetDefault("logging.file.maxage", logger.DefaultMaxAge)
	viper.SetDefault("logging.file.maxbackups", logger.DefaultMaxBackups)
	viper.SetDefault("logging.file.compress", false)
}
