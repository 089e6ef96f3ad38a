package observability

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/parkbio/internal/logger"
	"github.com/tphakala/parkbio/internal/observability/metrics"
)

func TestNewMetricsUsesPrivateRegistry(t *testing.T) {
	t.Parallel()

	a, err := NewMetrics()
	require.NoError(t, err)
	b, err := NewMetrics()
	require.NoError(t, err, "collectors register on separate registries")
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)

	m.Pipeline.RecordTableRows(metrics.TableObservationsRaw, 23296)
	m.Pipeline.RecordPrevalent(8)
	m.Pipeline.RecordPValue(1)

	path := filepath.Join(t.TempDir(), "out", "parkbio.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `parkbio_table_rows{table="observations_raw"} 23296`)
	assert.Contains(t, text, "parkbio_prevalent_species 8")
	assert.Contains(t, text, "parkbio_chisquare_pvalue 1")

	expected := `
# HELP parkbio_prevalent_species Species observed at the prevalence threshold
# TYPE parkbio_prevalent_species gauge
parkbio_prevalent_species 8
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "parkbio_prevalent_species"))
}

// Not parallel: swaps the global logger.
func TestWriteTextfileLogsThroughGlobalLogger(t *testing.T) {
	var console bytes.Buffer
	cl, err := logger.NewCentralLogger(&logger.LoggingConfig{
		DefaultLevel: "debug",
		Timezone:     "UTC",
		Console:      logger.ConsoleOutput{Enabled: true, Level: "debug"},
	}, logger.WithConsoleWriter(&console))
	require.NoError(t, err)

	// the logger is installed after the package was initialized
	logger.SetGlobal(cl)
	t.Cleanup(func() { logger.SetGlobal(nil) })

	m, err := NewMetrics()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "parkbio.prom")
	require.NoError(t, m.WriteTextfile(path))

	assert.Contains(t, console.String(), "wrote metrics textfile")
	assert.Contains(t, console.String(), "module=metrics")
}
