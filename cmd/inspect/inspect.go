package inspect

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tphakala/parkbio/internal/conf"
	"github.com/tphakala/parkbio/internal/runner"
)

// Command creates the inspect command, which shows one species before and
// after cleaning.
func Command(ctx *conf.Context) *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:     "inspect <scientific name>",
		Short:   "Show the rows of one species before and after cleaning",
		Example: `  parkbio inspect "Canis lupus"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runner.Inspect(cmd.Context(), ctx.Settings, args[0], runner.Options{
				Out:     os.Stdout,
				Preview: preview,
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "Print the run summary and table previews first")

	return cmd
}
