package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/parkbio/internal/conf"
)

// Command creates the version command.
func Command(ctx *conf.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the parkbio version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), ctx.BuildInfo.String())
		},
	}
}
