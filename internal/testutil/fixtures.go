package testutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tphakala/parkbio/internal/logger"
)

// QuietLogger discards everything below ERROR
func QuietLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
}

// WriteFile writes content under dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteTables writes an observations and a species CSV into a fresh temp
// dir and returns their paths.
func WriteTables(t *testing.T, observationsCSV, speciesCSV string) (observations, species string) {
	t.Helper()

	dir := t.TempDir()
	return WriteFile(t, dir, "observations.csv", observationsCSV),
		WriteFile(t, dir, "species_info.csv", speciesCSV)
}
