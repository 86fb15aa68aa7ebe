package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradereport/config"
	"github.com/rustyeddy/tradereport/market"
	"github.com/rustyeddy/tradereport/orders"
)

var rootCmd = &cobra.Command{
	Use:   "tradereport",
	Short: "Reconstruct round-trip trades from a brokerage order log",
	Long: `Tradereport turns a brokerage order log (one CSV row per fill) into
realized round-trip trades using FIFO lot matching, then renders a
performance report.

It provides tools for:
  - Generating the full text performance report from an order log
  - Exporting the reconstructed trades to a CSV or SQLite journal
  - Querying previously exported journals
  - Overriding capital base and contract multipliers via config file`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var cfgPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (YAML or JSON)")
}

// loadConfig returns the file-backed config when --config is set,
// defaults otherwise.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// loadOrders parses the order log with the config's multiplier table
// and reports skipped rows on stderr.
func loadOrders(path string, cfg *config.Config) ([]market.Order, error) {
	n := orders.New()
	n.Multiplier = cfg.MultiplierFor

	parsed, skipped, err := n.ParseFile(path)
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "skipped %s\n", s)
	}
	if err != nil {
		return nil, fmt.Errorf("parse order log: %w", err)
	}
	return parsed, nil
}
