package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tphakala/parkbio/internal/conf"
)

// Command creates the config command, which prints the effective settings
// or writes the bundled default config file.
func Command(ctx *conf.Context) *cobra.Command {
	var writePath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if writePath != "" {
				if err := conf.WriteDefaultConfig(writePath); err != nil {
					return err
				}
				fmt.Fprintln(os.Stderr, "Default config written to", writePath)
				return nil
			}

			settings, err := conf.Load(ctx.ConfigFile)
			if err != nil {
				return err
			}
			ctx.Settings = settings

			data, err := settings.ToYAML()
			if err != nil {
				return err
			}
			if used := conf.ConfigFileUsed(); used != "" {
				fmt.Fprintf(os.Stdout, "# loaded from %s\n", used)
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&writePath, "write", "w", "", "Write the default config file to this path and exit")

	return cmd
}
