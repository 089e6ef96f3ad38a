package conf

// Category handling policies
const (
	CategoryPolicyWarn   = "warn"
	CategoryPolicyStrict = "strict"
)

// Database types for the derived-table snapshot
const (
	DatabaseNone   = "none"
	DatabaseSQLite = "sqlite"
	DatabaseMySQL  = "mysql"
)

// Analysis defaults. These are properties of the bundled park dataset and can
// all be overridden in config.yaml.
const (
	DefaultEndangeredStatus    = "Endangered"
	DefaultAlpha               = 0.05
	DefaultPrevalenceLocations = 0 // 0 means the maximum observed frequency
	DefaultPreviewRows         = 5
	DefaultCategoryPolicy      = CategoryPolicyWarn
)

// DefaultKnownStatuses are the conservation statuses present in the park
// dataset. Anything else is flagged as a data quality warning.
var DefaultKnownStatuses = []string{
	"Endangered",
	"Threatened",
	"Species of Concern",
	"In Recovery",
}

// DefaultLocationAliases shorten park names on chart axes
var DefaultLocationAliases = []LocationAlias{
	{Match: " National Park", Replace: ""},
	{Match: "Great Smoky Mountains", Replace: "GSM"},
}

const (
	appName        = "parkbio"
	envPrefix      = "PARKBIO"
	configName     = "config"
	configFileName = "config.yaml"
)
