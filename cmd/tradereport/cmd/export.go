package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradereport/journal"
	"github.com/rustyeddy/tradereport/ledger"
	"github.com/rustyeddy/tradereport/pkg/id"
	"github.com/rustyeddy/tradereport/stats"
)

var exportCmd = &cobra.Command{
	Use:   "export <orders.csv>",
	Short: "Export reconstructed trades to a journal",
	Long: `Reconstruct realized trades from an order-log CSV and save them to a
CSV or SQLite journal. Each export gets a ULID run id so multiple
exports into the same database stay separate.

Examples:
  tradereport export orders.csv --db trades.sqlite
  tradereport export orders.csv --csv trades.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var (
	exportDBPath  string
	exportCSVPath string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportDBPath, "db", "d", "", "SQLite journal path")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "CSV journal path")
	exportCmd.MarkFlagsMutuallyExclusive("db", "csv")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	parsed, err := loadOrders(args[0], cfg)
	if err != nil {
		return err
	}

	trades, _ := ledger.Replay(parsed, cfg.Report.CapitalBase)
	m := stats.Compute(trades)

	var j journal.Journal
	switch {
	case exportCSVPath != "":
		j, err = journal.NewCSV(exportCSVPath)
	case exportDBPath != "":
		j, err = journal.NewSQLite(exportDBPath)
	case cfg.Journal.Type == "csv":
		j, err = journal.NewCSV(cfg.Journal.TradesFile)
	default:
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	}
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	runID := id.New()
	if err := j.RecordRun(journal.Run{
		RunID:   runID,
		Created: time.Now(),
		Source:  args[0],
		Orders:  len(parsed),
		Trades:  len(trades),
		TotalPL: m.TotalProfit,
	}); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	for _, t := range trades {
		if err := j.RecordTrade(journal.FromTrade(runID, t)); err != nil {
			return fmt.Errorf("record trade %d: %w", t.ID, err)
		}
	}

	fmt.Printf("exported %d trades from %d orders (run %s)\n", len(trades), len(parsed), runID)
	return nil
}
