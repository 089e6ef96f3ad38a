// Package main provides a CLI tool for copying parkbio analysis snapshots
// from a local SQLite file to a shared MySQL database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tphakala/parkbio/internal/datastore"
	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/logger"
)

// Version information (can be set via ldflags during build)
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dbexport",
	Short: "Export parkbio analysis snapshots from SQLite to MySQL",
	Long: `Copy the analysis runs stored by "parkbio analyze" in a SQLite snapshot
database to MySQL.

Runs already present in the target are replaced, so the export can be
repeated after new runs were added locally.`,
	SilenceUsage: true,
	RunE:         runExport,
}

var cfg Config

func init() {
	// Source database flags
	rootCmd.Flags().StringVar(&cfg.SQLitePath, "sqlite-path", "", "Path to source SQLite database file")

	// Target database flags
	rootCmd.Flags().StringVar(&cfg.MySQL.Host, "mysql-host", "", "MySQL host")
	rootCmd.Flags().IntVar(&cfg.MySQL.Port, "mysql-port", 3306, "MySQL port")
	rootCmd.Flags().StringVar(&cfg.MySQL.Username, "mysql-user", "parkbio", "MySQL username")
	rootCmd.Flags().StringVar(&cfg.MySQL.Password, "mysql-pass", "", "MySQL password")
	rootCmd.Flags().StringVar(&cfg.MySQL.Database, "mysql-database", "parkbio", "MySQL database name")

	// Export options
	rootCmd.Flags().StringSliceVar(&cfg.RunIDs, "run-id", nil, "Export only these run ids (repeatable)")
	rootCmd.Flags().IntVar(&cfg.BatchSize, "batch-size", 1000, "Number of records per batch")
	rootCmd.Flags().Float64Var(&cfg.BatchesPerSecond, "batches-per-second", 0, "Limit inserts into MySQL to this many batches per second (0 = unlimited)")
	rootCmd.Flags().BoolVar(&cfg.SkipVerify, "skip-verify", false, "Skip post-export verification")
	rootCmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose output")

	// Config file fallback
	rootCmd.Flags().StringVar(&cfg.ConfigPath, "config", "", "Path to parkbio config.yaml (for connection fallback)")

	// Version flag
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}

func runExport(cmd *cobra.Command, args []string) error {
	// Handle version flag
	if v, _ := cmd.Flags().GetBool("version"); v {
		fmt.Printf("dbexport version %s\n", version)
		return nil
	}

	if err := cfg.Load(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	level := logger.LogLevelWarn
	if cfg.Verbose {
		level = logger.LogLevelDebug
		fmt.Printf("Source: %s\n", cfg.SQLitePath)
		fmt.Printf("Target: %s\n", cfg.SanitizedTarget())
		fmt.Printf("Batch size: %d\n", cfg.BatchSize)
	}
	log := logger.NewSlogLogger(os.Stderr, level, time.Local).Module("dbexport")

	src := datastore.NewSQLiteStore(cfg.SQLitePath, log)
	if err := src.Open(); err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst := datastore.NewMySQLStore(cfg.MySQL, log)
	if err := dst.Open(); err != nil {
		return fmt.Errorf("failed to open MySQL database: %w", err)
	}
	defer func() { _ = dst.Close() }()

	stats, err := datastore.Export(cmd.Context(), src, dst, datastore.ExportOptions{
		RunIDs:           cfg.RunIDs,
		BatchSize:        cfg.BatchSize,
		BatchesPerSecond: cfg.BatchesPerSecond,
	}, log)
	if err != nil {
		if errors.IsNotFound(err) {
			return fmt.Errorf("check --run-id: %w", err)
		}
		return fmt.Errorf("export failed: %w", err)
	}

	printStats(stats)

	if cfg.SkipVerify || len(stats.Runs) == 0 {
		return nil
	}

	fmt.Println("\n--- Verification ---")
	counts, err := datastore.Verify(src, dst, stats.Runs)
	printCounts(counts)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	fmt.Println("Verification passed!")
	return nil
}

// printStats outputs the export statistics.
func printStats(s *datastore.ExportStats) {
	fmt.Println("\n=== Export Summary ===")
	fmt.Printf("Runs: %d\n", len(s.Runs))
	fmt.Printf("Duration: %s\n\n", s.EndTime.Sub(s.StartTime).Round(time.Millisecond))

	fmt.Printf("%-25s %10s %12s\n", "Table", "Copied", "Duration")
	var total int64
	for _, t := range s.Tables {
		fmt.Printf("%-25s %10d %12s\n", t.Name, t.Copied, t.Duration.Round(time.Millisecond))
		total += t.Copied
	}
	fmt.Printf("%-25s %10d\n", "TOTAL", total)
}

// printCounts outputs the verification table.
func printCounts(counts []datastore.TableCount) {
	fmt.Printf("%-25s %12s %12s %8s\n", "Table", "Source", "Target", "Match")
	for _, c := range counts {
		match := "yes"
		if !c.Match() {
			match = "NO"
		}
		fmt.Printf("%-25s %12d %12d %8s\n", c.Name, c.Source, c.Target, match)
	}
}
