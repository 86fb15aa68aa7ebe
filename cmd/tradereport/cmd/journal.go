package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradereport/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query an exported trade journal",
	Long: `Query and display trade records from a SQLite journal created by
"tradereport export".

Subcommands:
  runs   - List export runs
  run    - Show one run and its trades
  today  - List trades closed today
  day    - List trades closed on a specific day

Examples:
  tradereport journal runs
  tradereport journal run <run-id>
  tradereport journal day 2025-03-10`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List export runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Show one export run and its trades",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRun,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades closed today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalRunCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./tradereport.sqlite", "path to SQLite journal DB")
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns()
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	for _, r := range runs {
		fmt.Printf("%s  %s  %-20s orders=%d trades=%d pl=%.2f\n",
			r.RunID, r.Created.Format("2006-01-02 15:04"), r.Source, r.Orders, r.Trades, r.TotalPL)
	}
	return nil
}

func runJournalRun(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	r, err := j.GetRun(args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	fmt.Printf("run %s  source=%s  orders=%d trades=%d pl=%.2f\n\n",
		r.RunID, r.Source, r.Orders, r.Trades, r.TotalPL)

	recs, err := j.ListTradesByRun(args[0])
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	printTrades(recs)
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	loc := time.Local
	return listClosedOn(time.Now().In(loc).Format("2006-01-02"), loc)
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return listClosedOn(args[0], time.Local)
}

func listClosedOn(day string, loc *time.Location) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	start, end, err := dayBounds(loc, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListTradesClosedBetween(start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	printTrades(recs)
	return nil
}

func printTrades(recs []journal.TradeRecord) {
	for _, t := range recs {
		fmt.Printf("%4d %-14s %-6s %5.0f %9.2f -> %-9.2f %10.2f  %s\n",
			t.TradeID, t.Symbol, t.Side, t.Quantity,
			t.EntryPrice, t.ExitPrice, t.Profit,
			t.ExitTime.Format("2006-01-02 15:04:05"))
	}
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)
	return start, end, nil
}
