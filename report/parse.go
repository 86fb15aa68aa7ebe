package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradereport/ledger"
	"github.com/rustyeddy/tradereport/market"
	"github.com/rustyeddy/tradereport/stats"
)

// Parse is the exact inverse of Render: it reads a rendered report
// document back into the structured Report. Data rows are detected by
// their field count within the current section.
func Parse(rd io.Reader) (*Report, error) {
	r := &Report{}
	section := ""

	sc := bufio.NewScanner(rd)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "" || isRule(trimmed) || trimmed == Title:
			continue

		case strings.HasPrefix(trimmed, "Generated on: "):
			ts, err := time.Parse(generatedLayout, strings.TrimPrefix(trimmed, "Generated on: "))
			if err != nil {
				return nil, fmt.Errorf("parse generated timestamp: %w", err)
			}
			r.GeneratedAt = ts
			continue

		case trimmed == secOverall, trimmed == secBreakdown,
			trimmed == secByProduct, trimmed == secBySide:
			section = trimmed
			continue

		case strings.HasPrefix(trimmed, secTrades+" ("):
			section = secTrades
			continue

		case strings.HasPrefix(trimmed, secOpen+" ("):
			section = secOpen
			continue

		case strings.HasPrefix(trimmed, "Source: "):
			r.Source = strings.TrimPrefix(trimmed, "Source: ")
			continue

		case strings.HasPrefix(trimmed, "Capital base: $"):
			raw := strings.TrimPrefix(trimmed, "Capital base: $")
			v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
			if err != nil {
				return nil, fmt.Errorf("parse capital base %q: %w", raw, err)
			}
			r.CapitalBase = v
			continue
		}

		var err error
		switch section {
		case secOverall:
			err = parseOverall(&r.Metrics, trimmed)
		case secBreakdown:
			err = parseBreakdown(&r.Metrics, trimmed)
		case secTrades:
			err = parseTradeRow(r, trimmed)
		case secOpen:
			err = parseOpenRow(r, trimmed)
		case secByProduct:
			r.ByProduct, err = parseGroupRow(r.ByProduct, trimmed)
		case secBySide:
			r.BySide, err = parseGroupRow(r.BySide, trimmed)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	return r, nil
}

func isRule(line string) bool {
	return len(line) > 0 && strings.Trim(line, "=-") == ""
}

// labelValue splits "Label:   value" lines; ok is false for anything
// else (column header lines, stray text).
func labelValue(line string) (label, value string, ok bool) {
	i := strings.Index(line, ":")
	if i < 0 {
		return "", "", false
	}
	return line[:i], strings.TrimSpace(line[i+1:]), true
}

func parseOverall(m *stats.Metrics, line string) error {
	label, value, ok := labelValue(line)
	if !ok {
		return nil
	}

	var err error
	switch label {
	case "Total Trades":
		m.TotalTrades, err = strconv.Atoi(value)
	case "Winning Trades":
		m.WinningTrades, err = strconv.Atoi(value)
	case "Losing Trades":
		m.LosingTrades, err = strconv.Atoi(value)
	case "Win Rate":
		m.WinRate, err = parsePercent(value)
	case "Average Gain":
		m.AvgGainPct, err = parsePercent(value)
	case "Average Loss":
		m.AvgLossPct, err = parsePercent(value)
	case "Total P/L":
		m.TotalProfit, err = parseMoney(value)
	case "Profit Factor":
		m.ProfitFactor, err = parseFactor(value)
	case "Average Size":
		// "12.50% of capital"
		m.AvgSizePct, err = parsePercent(strings.Fields(value)[0])
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("parse %s %q: %w", label, value, err)
	}
	return nil
}

func parseBreakdown(m *stats.Metrics, line string) error {
	label, value, ok := labelValue(line)
	if !ok {
		return nil
	}

	var err error
	switch label {
	case "Long Trades":
		m.LongTrades, err = strconv.Atoi(value)
	case "Short Trades":
		m.ShortTrades, err = strconv.Atoi(value)
	case "Long P/L":
		m.LongProfit, err = parseMoney(value)
	case "Short P/L":
		m.ShortProfit, err = parseMoney(value)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("parse %s %q: %w", label, value, err)
	}
	return nil
}

func parseTradeRow(r *Report, line string) error {
	fields := strings.Fields(line)
	if len(fields) != tradeRowFields {
		return nil // column header or stray line
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil
	}

	entry, err := time.Parse(timeLayout, fields[4]+" "+fields[5])
	if err != nil {
		return fmt.Errorf("trade %d: entry time: %w", id, err)
	}
	exit, err := time.Parse(timeLayout, fields[6]+" "+fields[7])
	if err != nil {
		return fmt.Errorf("trade %d: exit time: %w", id, err)
	}

	nums, err := floats(fields[8:14])
	if err != nil {
		return fmt.Errorf("trade %d: %w", id, err)
	}

	r.Trades = append(r.Trades, ledger.Trade{
		ID:         id,
		Symbol:     fields[1],
		BaseSymbol: fields[2],
		Side:       ledger.Side(fields[3]),
		EntryTime:  entry,
		ExitTime:   exit,
		Quantity:   nums[0],
		EntryPrice: nums[1],
		ExitPrice:  nums[2],
		Profit:     nums[3],
		GainPct:    nums[4],
		SizePct:    nums[5],
		Duration:   exit.Sub(entry).Minutes(),
	})
	return nil
}

func parseOpenRow(r *Report, line string) error {
	fields := strings.Fields(line)
	if len(fields) != openRowFields {
		return nil
	}

	nums, err := floats(fields[1:5])
	if err != nil {
		return fmt.Errorf("open position %s: %w", fields[0], err)
	}

	opened, err := time.Parse(timeLayout, fields[5]+" "+fields[6])
	if err != nil {
		return fmt.Errorf("open position %s: opened time: %w", fields[0], err)
	}

	r.Open = append(r.Open, ledger.OpenPosition{
		Symbol:     fields[0],
		BaseSymbol: market.BaseSymbol(fields[0]),
		Quantity:   nums[0],
		AvgPrice:   nums[1],
		CostBasis:  nums[2],
		SizePct:    nums[3],
		OpenedAt:   opened,
	})
	return nil
}

func parseGroupRow(groups []stats.GroupStats, line string) ([]stats.GroupStats, error) {
	fields := strings.Fields(line)
	if len(fields) != groupRowFields {
		return groups, nil
	}

	trades, err := strconv.Atoi(fields[1])
	if err != nil {
		return groups, nil
	}
	wins, err := strconv.Atoi(fields[2])
	if err != nil {
		return groups, fmt.Errorf("group %s: wins: %w", fields[0], err)
	}
	nums, err := floats(fields[3:5])
	if err != nil {
		return groups, fmt.Errorf("group %s: %w", fields[0], err)
	}

	return append(groups, stats.GroupStats{
		Key:     fields[0],
		Trades:  trades,
		Wins:    wins,
		WinRate: nums[0],
		Profit:  nums[1],
	}), nil
}

func parsePercent(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
}

func parseMoney(s string) (float64, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")

	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}

func parseFactor(s string) (float64, error) {
	if s == "Inf" {
		return math.Inf(1), nil
	}
	return strconv.ParseFloat(s, 64)
}

func floats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}
