package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tphakala/parkbio/cmd"
	"github.com/tphakala/parkbio/internal/buildinfo"
	"github.com/tphakala/parkbio/internal/conf"
	"github.com/tphakala/parkbio/internal/logger"
)

// Set with -ldflags "-X main.version=... -X main.buildDate=... -X main.commit=..."
var (
	version   string
	buildDate string
	commit    string
)

func main() {
	os.Exit(run())
}

func run() int {
	// Ctrl-C cancels the run between pipeline stages
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &conf.Context{
		BuildInfo: &buildinfo.Context{Version: version, BuildDate: buildDate, Commit: commit},
	}
	defer func() { _ = appCtx.Close() }()

	rootCmd := cmd.RootCommand(appCtx)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if appCtx.Logger != nil {
			appCtx.Logger.Module("main").Error("command failed", logger.ErrorFields(err)...)
		}
		// Before the logger is up, or with console logging off, only stderr is left
		if appCtx.Logger == nil || !appCtx.Settings.Logging.Console.Enabled {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
