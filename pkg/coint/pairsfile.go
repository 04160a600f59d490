package coint

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/yourusername/statarb-research/pkg/pricetable"
)

// Ranked pair files carry the two instrument identifiers as separate
// columns so readers never have to parse (let alone evaluate) a joined
// pair string.

// SaveResultsCSV writes ranked scan results to a CSV file.
func SaveResultsCSV(path string, results []Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create pairs file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"symbol_a", "symbol_b", "p_value", "test_statistic"}); err != nil {
		return fmt.Errorf("failed to write pairs header: %w", err)
	}
	for _, r := range results {
		record := []string{
			r.Pair.A,
			r.Pair.B,
			strconv.FormatFloat(r.PValue, 'f', 6, 64),
			strconv.FormatFloat(r.Statistic, 'f', 6, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write pair %s: %w", r.Pair, err)
		}
	}
	return nil
}

// LoadResultsCSV reads a ranked pairs file written by SaveResultsCSV.
func LoadResultsCSV(path string) ([]Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pairs file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read pairs header: %w", err)
	}
	if len(header) < 4 || header[0] != "symbol_a" || header[1] != "symbol_b" {
		return nil, fmt.Errorf("invalid pairs file header: %v", header)
	}

	results := make([]Result, 0, 64)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read pairs row: %w", err)
		}

		pvalue, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid p_value %q: %w", record[2], err)
		}
		statistic, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid test_statistic %q: %w", record[3], err)
		}

		results = append(results, Result{
			Pair:      pricetable.Pair{A: record[0], B: record[1]},
			Statistic: statistic,
			PValue:    pvalue,
		})
	}
	return results, nil
}
