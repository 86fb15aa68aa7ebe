package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradereport/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <orders.csv>",
	Short: "Generate a performance report from an order log",
	Long: `Reconstruct realized trades from an order-log CSV and render the
performance report.

The report covers overall performance, long/short breakdown, every
realized trade, remaining open positions, and per-product tables.

Examples:
  tradereport report orders.csv
  tradereport report orders.csv -o report.txt
  tradereport report orders.csv --config tradereport.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var reportOutPath string

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportOutPath, "out", "o", "", "write the report to a file instead of stdout")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	parsed, err := loadOrders(args[0], cfg)
	if err != nil {
		return err
	}

	r, err := report.Build(parsed, filepath.Base(args[0]), cfg.Report.CapitalBase, time.Now())
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	out := os.Stdout
	if reportOutPath != "" {
		f, err := os.Create(reportOutPath)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := r.Render(out); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
