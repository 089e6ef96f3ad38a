package conf

import (
	"github.com/tphakala/parkbio/internal/buildinfo"
	"github.com/tphakala/parkbio/internal/logger"
)

// Context is shared by the CLI commands. Settings and Logger are set once
// the root command has loaded the configuration.
type Context struct {
	ConfigFile string
	Settings   *Settings
	Logger     *logger.CentralLogger
	BuildInfo  *buildinfo.Context
}

// Close releases the logger's file handles
func (c *Context) Close() error {
	if c.Logger == nil {
		return nil
	}
	return c.Logger.Close()
}
