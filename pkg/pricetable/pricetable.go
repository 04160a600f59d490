// Package pricetable holds date-aligned adjusted close prices for a
// universe of instruments and provides pairwise views onto them.
package pricetable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/yourusername/statarb-research/pkg/series"
)

// Pair is an unordered pair of two distinct instruments, persisted as
// two separate fields. Callers fix the (A, B) order for reproducibility.
type Pair struct {
	A string
	B string
}

func (p Pair) String() string {
	return fmt.Sprintf("(%s, %s)", p.A, p.B)
}

// PriceTable is a date-indexed price matrix, one column per instrument.
// All columns share one ascending date axis; cells with no observation
// are undefined, never zero.
type PriceTable struct {
	Dates   []time.Time
	Symbols []string
	columns map[string]series.Series
}

// New builds a table from aligned columns. Every column must have one
// slot per date, and dates must be strictly ascending.
func New(dates []time.Time, symbols []string, columns map[string]series.Series) (*PriceTable, error) {
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("pricetable: dates not strictly ascending at row %d", i)
		}
	}
	for _, symbol := range symbols {
		col, ok := columns[symbol]
		if !ok {
			return nil, fmt.Errorf("pricetable: missing column for %s", symbol)
		}
		if col.Len() != len(dates) {
			return nil, fmt.Errorf("pricetable: column %s has %d rows, want %d", symbol, col.Len(), len(dates))
		}
	}

	return &PriceTable{
		Dates:   dates,
		Symbols: symbols,
		columns: columns,
	}, nil
}

// LoadCSV reads a date-indexed close price table. The first column is
// the date ("2006-01-02" or "2006-01-02 15:04:05"), the remaining
// columns are one instrument each. Empty cells are undefined.
func LoadCSV(path string) (*PriceTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("invalid price CSV: expected a date column plus at least one instrument")
	}

	symbols := append([]string(nil), header[1:]...)
	dates := make([]time.Time, 0, 1024)
	columns := make(map[string]series.Series, len(symbols))
	for _, symbol := range symbols {
		columns[symbol] = make(series.Series, 0, 1024)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if len(record) != len(header) {
			return nil, fmt.Errorf("invalid CSV row: %d fields, want %d", len(record), len(header))
		}

		date, err := parseDate(record[0])
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", record[0], err)
		}
		dates = append(dates, date)

		for i, symbol := range symbols {
			cell := record[i+1]
			if cell == "" {
				columns[symbol] = append(columns[symbol], series.Undefined())
				continue
			}
			price, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid price for %s on %s: %w", symbol, record[0], err)
			}
			columns[symbol] = append(columns[symbol], series.Defined(price))
		}
	}

	return New(dates, symbols, columns)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

// NumDates returns the number of rows.
func (pt *PriceTable) NumDates() int {
	return len(pt.Dates)
}

// NumSymbols returns the number of instruments.
func (pt *PriceTable) NumSymbols() int {
	return len(pt.Symbols)
}

// Column returns the aligned price series for one instrument.
func (pt *PriceTable) Column(symbol string) (series.Series, bool) {
	col, ok := pt.columns[symbol]
	return col, ok
}

// PairPrices is the overlapping, fully-defined history of one pair:
// rows where both instruments have a price, in date order.
type PairPrices struct {
	Pair  Pair
	Dates []time.Time
	A     []float64
	B     []float64
}

// Len returns the number of overlapping observations.
func (pp *PairPrices) Len() int {
	return len(pp.Dates)
}

// PairPrices extracts the overlapping history of two instruments,
// dropping every date where either price is undefined. The result may
// be empty; callers decide whether that means skip.
func (pt *PriceTable) PairPrices(symbolA, symbolB string) (*PairPrices, error) {
	colA, ok := pt.columns[symbolA]
	if !ok {
		return nil, fmt.Errorf("pricetable: unknown symbol %s", symbolA)
	}
	colB, ok := pt.columns[symbolB]
	if !ok {
		return nil, fmt.Errorf("pricetable: unknown symbol %s", symbolB)
	}

	pp := &PairPrices{
		Pair:  Pair{A: symbolA, B: symbolB},
		Dates: make([]time.Time, 0, len(pt.Dates)),
		A:     make([]float64, 0, len(pt.Dates)),
		B:     make([]float64, 0, len(pt.Dates)),
	}
	for i := range pt.Dates {
		if !colA[i].Valid || !colB[i].Valid {
			continue
		}
		pp.Dates = append(pp.Dates, pt.Dates[i])
		pp.A = append(pp.A, colA[i].Value)
		pp.B = append(pp.B, colB[i].Value)
	}
	return pp, nil
}

// DailyReturns computes simple percentage changes for one instrument
// over its defined observations, aligned to the table's date axis.
func (pt *PriceTable) DailyReturns(symbol string) (series.Series, error) {
	col, ok := pt.columns[symbol]
	if !ok {
		return nil, fmt.Errorf("pricetable: unknown symbol %s", symbol)
	}

	out := make(series.Series, col.Len())
	lastDefined := -1
	for i, v := range col {
		if !v.Valid {
			out[i] = series.Undefined()
			continue
		}
		if lastDefined >= 0 && col[lastDefined].Value != 0 {
			out[i] = series.Defined((v.Value - col[lastDefined].Value) / col[lastDefined].Value)
		} else {
			out[i] = series.Undefined()
		}
		lastDefined = i
	}
	return out, nil
}
