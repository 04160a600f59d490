package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// SaveSummaryCSV writes one row per backtest result. Callers sort
// beforehand; the writer preserves order.
func SaveSummaryCSV(path string, results []*Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"symbol_a", "symbol_b",
		"total_return", "cagr", "sharpe_ratio", "max_drawdown", "trade_count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	for _, r := range results {
		record := []string{
			r.Pair.A,
			r.Pair.B,
			strconv.FormatFloat(r.TotalReturn, 'f', 6, 64),
			strconv.FormatFloat(r.CAGR, 'f', 6, 64),
			strconv.FormatFloat(r.SharpeRatio, 'f', 6, 64),
			strconv.FormatFloat(r.MaxDrawdown, 'f', 6, 64),
			strconv.Itoa(r.TradeCount),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write summary row for %s: %w", r.Pair, err)
		}
	}
	return nil
}

// SaveGridCSV writes every cell of an optimization sweep.
func SaveGridCSV(path string, opt *OptimizationResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create grid file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"window", "threshold", "sharpe_ratio", "total_return", "trade_count"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write grid header: %w", err)
	}
	for _, cell := range opt.Cells {
		record := []string{
			strconv.Itoa(cell.Window),
			strconv.FormatFloat(cell.Threshold, 'f', 2, 64),
			strconv.FormatFloat(cell.SharpeRatio, 'f', 6, 64),
			strconv.FormatFloat(cell.TotalReturn, 'f', 6, 64),
			strconv.Itoa(cell.TradeCount),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write grid row: %w", err)
		}
	}
	return nil
}

// PrintSummary renders a fixed-width result table.
func PrintSummary(w io.Writer, results []*Result) {
	fmt.Fprintf(w, "%-10s %-10s %12s %10s %8s %10s %7s\n",
		"symbol_a", "symbol_b", "total_ret", "cagr", "sharpe", "max_dd", "trades")
	for _, r := range results {
		fmt.Fprintf(w, "%-10s %-10s %11.2f%% %9.2f%% %8.2f %9.2f%% %7d\n",
			r.Pair.A, r.Pair.B,
			r.TotalReturn*100, r.CAGR*100, r.SharpeRatio, r.MaxDrawdown*100,
			r.TradeCount)
	}
}

// PrintGrid renders an optimization sweep with the best cell marked.
func PrintGrid(w io.Writer, opt *OptimizationResult) {
	fmt.Fprintf(w, "Optimization grid for %s\n", opt.Pair)
	fmt.Fprintf(w, "%-8s %-10s %8s %12s %7s\n",
		"window", "threshold", "sharpe", "total_ret", "trades")
	for _, cell := range opt.Cells {
		marker := " "
		if cell == opt.Best {
			marker = "*"
		}
		fmt.Fprintf(w, "%-8d %-10.2f %8.2f %11.2f%% %6d %s\n",
			cell.Window, cell.Threshold, cell.SharpeRatio,
			cell.TotalReturn*100, cell.TradeCount, marker)
	}
}
