package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/parkbio/cmd/analyze"
	configcmd "github.com/tphakala/parkbio/cmd/config"
	"github.com/tphakala/parkbio/cmd/inspect"
	"github.com/tphakala/parkbio/cmd/version"
	"github.com/tphakala/parkbio/internal/conf"
	"github.com/tphakala/parkbio/internal/logger"
)

// RootCommand creates and returns the root command
func RootCommand(ctx *conf.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "parkbio",
		Short:         "Biodiversity analysis of national park observations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, ctx); err != nil {
		panic(err)
	}

	configCmd := configcmd.Command(ctx)
	versionCmd := version.Command(ctx)
	rootCmd.AddCommand(
		analyze.Command(ctx),
		inspect.Command(ctx),
		configCmd,
		versionCmd,
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The config command loads settings itself so it can write a default
		// file even when the current one does not validate
		if cmd.Name() == configCmd.Name() || cmd.Name() == versionCmd.Name() {
			return nil
		}
		return initialize(ctx)
	}

	return rootCmd
}

// initialize loads the settings and sets up the global logger. Flags bound
// to viper take precedence over the config file and environment.
func initialize(ctx *conf.Context) error {
	settings, err := conf.Load(ctx.ConfigFile)
	if err != nil {
		return err
	}

	cl, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.SetGlobal(cl)

	ctx.Settings = settings
	ctx.Logger = cl

	cl.Module("main").Debug("parkbio starting",
		logger.String("version", ctx.BuildInfo.GetVersion()),
		logger.String("config_file", conf.ConfigFileUsed()))
	return nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, ctx *conf.Context) error {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.ConfigFile, "config", "c", "", "Path to config file (default: search ., ~/.config/parkbio, /etc/parkbio)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("observations", "", "Path to the park observations CSV")
	flags.String("species", "", "Path to the species info CSV")
	flags.StringP("output-dir", "o", "", "Directory for charts and other artifacts")

	bindings := map[string]string{
		"debug":              "debug",
		"input.observations": "observations",
		"input.species":      "species",
		"output.dir":         "output-dir",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", flag, err)
		}
	}
	return nil
}
