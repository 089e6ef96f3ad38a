package observability

import "github.com/tphakala/parkbio/internal/logger"

// getLogger resolves the metrics logger on use so that it follows the
// logger installed with logger.SetGlobal after startup.
func getLogger() logger.Logger {
	return logger.Global().Module("metrics")
}
