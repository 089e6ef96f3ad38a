package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/parkbio/internal/logger"
)

func validSettings() *Settings {
	return &Settings{
		Input: InputSettings{Observations: "observations.csv", Species: "species_info.csv"},
		Output: OutputSettings{
			Dir:      "out",
			Database: DatabaseSettings{Type: DatabaseNone},
		},
		Analysis: AnalysisSettings{
			CategoryPolicy:   CategoryPolicyWarn,
			KnownStatuses:    DefaultKnownStatuses,
			EndangeredStatus: DefaultEndangeredStatus,
			Alpha:            DefaultAlpha,
			Preview:          DefaultPreviewRows,
		},
		Report:  ReportSettings{LocationAliases: DefaultLocationAliases},
		Logging: logger.LoggingConfig{DefaultLevel: "info", Timezone: "UTC"},
	}
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"unknown policy", func(s *Settings) { s.Analysis.CategoryPolicy = "lenient" }, "analysis.categorypolicy"},
		{"alpha zero", func(s *Settings) { s.Analysis.Alpha = 0 }, "analysis.alpha"},
		{"alpha one", func(s *Settings) { s.Analysis.Alpha = 1 }, "analysis.alpha"},
		{"negative threshold", func(s *Settings) { s.Analysis.Prevalence.Locations = -1 }, "prevalence.locations"},
		{"negative preview", func(s *Settings) { s.Analysis.Preview = -2 }, "analysis.preview"},
		{"empty endangered", func(s *Settings) { s.Analysis.EndangeredStatus = " " }, "endangeredstatus"},
		{"endangered not known", func(s *Settings) { s.Analysis.EndangeredStatus = "Extinct" }, "not in analysis.knownstatuses"},
		{"unknown database", func(s *Settings) { s.Output.Database.Type = "postgres" }, "output.database.type"},
		{"sqlite without path", func(s *Settings) { s.Output.Database.Type = DatabaseSQLite }, "sqlite.path"},
		{"mysql without host", func(s *Settings) {
			s.Output.Database.Type = DatabaseMySQL
			s.Output.Database.MySQL = MySQLSettings{Port: 3306, Database: "parkbio"}
		}, "mysql.host"},
		{"workbook without path", func(s *Settings) { s.Output.Workbook.Enabled = true }, "workbook.path"},
		{"metrics without path", func(s *Settings) { s.Output.Metrics.Enabled = true }, "metrics.path"},
		{"empty alias", func(s *Settings) { s.Report.LocationAliases = []LocationAlias{{Replace: "x"}} }, "locationaliases[0]"},
		{"bad module level", func(s *Settings) { s.Logging.ModuleLevels = map[string]string{"loader": "loud"} }, "modulelevels.loader"},
		{"bad timezone", func(s *Settings) { s.Logging.Timezone = "Nowhere/Town" }, "logging.timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := validSettings()
			tt.mutate(s)
			err := ValidateSettings(s)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Error(), tt.wantErr)
		})
	}
}

func TestValidateSettingsNormalizes(t *testing.T) {
	t.Parallel()

	s := validSettings()
	s.Analysis.CategoryPolicy = " Strict "
	s.Output.Database.Type = ""
	s.Output.Dir = ""
	s.Debug = true

	require.NoError(t, ValidateSettings(s))
	assert.Equal(t, CategoryPolicyStrict, s.Analysis.CategoryPolicy)
	assert.Equal(t, DatabaseNone, s.Output.Database.Type)
	assert.Equal(t, ".", s.Output.Dir)
	assert.Equal(t, "debug", s.Logging.Console.Level)
	assert.Equal(t, "debug", s.Logging.DefaultLevel)
}

func TestValidateInputs(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateInputs(&InputSettings{Observations: "a.csv", Species: "b.csv"}))

	err := ValidateInputs(&InputSettings{Observations: "a.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input.species")
}

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	s := validSettings()
	assert.Equal(t, "out/parkbio.xlsx", s.ResolveOutputPath("parkbio.xlsx"))
	assert.Equal(t, "/tmp/parkbio.xlsx", s.ResolveOutputPath("/tmp/parkbio.xlsx"))
	assert.Empty(t, s.ResolveOutputPath(""))
}

func TestEnvValidators(t *testing.T) {
	t.Parallel()

	require.NoError(t, validateEnvBool("TRUE"))
	require.Error(t, validateEnvBool("yes"))
	require.NoError(t, validateEnvCategoryPolicy("Strict"))
	require.Error(t, validateEnvCategoryPolicy("lenient"))
	require.NoError(t, validateEnvDatabaseType("SQLITE"))
	require.Error(t, validateEnvDatabaseType("postgres"))
	require.NoError(t, validateEnvPort("3306"))
	require.Error(t, validateEnvPort("70000"))
	require.NoError(t, validateEnvNonNegativeInt("0"))
	require.Error(t, validateEnvNonNegativeInt("-1"))
	require.NoError(t, validateEnvLogLevel("warning"))
	require.Error(t, validateEnvLogLevel("verbose"))
}
