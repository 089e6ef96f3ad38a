package analyze

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/parkbio/internal/conf"
	"github.com/tphakala/parkbio/internal/runner"
)

// Command creates the analyze command, which runs the full analysis and
// writes the report.
func Command(ctx *conf.Context) *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the observation and species tables",
		Long: `Load both tables, remove duplicates, roll them up and report the
conservation status distribution, endangered species, the species by status
independence test and the most prevalent species.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runner.Analyze(cmd.Context(), ctx.Settings, runner.Options{
				Out:     os.Stdout,
				Preview: preview,
			})
			return err
		},
	}

	setupFlags(cmd, &preview)

	return cmd
}

// setupFlags configures flags specific to the analyze command.
func setupFlags(cmd *cobra.Command, preview *bool) {
	cmd.Flags().BoolVar(preview, "preview", false, "Print the first rows of both input tables")
	cmd.Flags().Bool("charts", true, "Write HTML charts")
	cmd.Flags().Bool("workbook", false, "Write the XLSX workbook")
	cmd.Flags().Bool("metrics", false, "Write the Prometheus metrics textfile")

	_ = viper.BindPFlag("output.charts.enabled", cmd.Flags().Lookup("charts"))
	_ = viper.BindPFlag("output.workbook.enabled", cmd.Flags().Lookup("workbook"))
	_ = viper.BindPFlag("output.metrics.enabled", cmd.Flags().Lookup("metrics"))
}
