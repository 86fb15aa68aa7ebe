package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradereport/market"
)

// Config holds everything a report run can override.
type Config struct {
	Report  ReportConfig  `json:"report" yaml:"report"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// ReportConfig controls trade reconstruction and sizing.
type ReportConfig struct {
	CapitalBase       float64            `json:"capital_base" yaml:"capital_base"`
	DefaultMultiplier float64            `json:"default_multiplier" yaml:"default_multiplier"`
	Multipliers       map[string]float64 `json:"multipliers,omitempty" yaml:"multipliers,omitempty"`
}

// JournalConfig selects where exported trades go.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// MultiplierFor resolves a root symbol against the config overrides
// first, then the built-in table, then the configured default.
func (c *Config) MultiplierFor(baseSymbol string) float64 {
	if m, ok := c.Report.Multipliers[baseSymbol]; ok {
		return m
	}
	if m, ok := market.Multipliers[baseSymbol]; ok {
		return m
	}
	return c.Report.DefaultMultiplier
}

// LoadFromFile loads configuration from a file (JSON or YAML based on
// content; YAML is tried first).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (format chosen by
// extension, JSON unless .yaml/.yml).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Report.CapitalBase <= 0 {
		return fmt.Errorf("report.capital_base must be positive")
	}
	if c.Report.DefaultMultiplier <= 0 {
		return fmt.Errorf("report.default_multiplier must be positive")
	}
	for root, m := range c.Report.Multipliers {
		if m <= 0 {
			return fmt.Errorf("multiplier for %q must be positive", root)
		}
	}
	switch c.Journal.Type {
	case "", "csv", "sqlite":
	default:
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && c.Journal.TradesFile == "" {
		return fmt.Errorf("journal.trades_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path required for SQLite type")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			CapitalBase:       market.CapitalBase,
			DefaultMultiplier: market.DefaultMultiplier,
		},
		Journal: JournalConfig{
			Type:       "sqlite",
			DBPath:     "./tradereport.sqlite",
			TradesFile: "./trades.csv",
		},
	}
}
