package coint

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/yourusername/statarb-research/pkg/pricetable"
)

// Result is one accepted pair, ranked by ascending p-value.
type Result struct {
	Pair      pricetable.Pair
	Statistic float64
	PValue    float64
}

// ScanConfig controls a cointegration scan.
type ScanConfig struct {
	// PValueThreshold accepts a pair when its p-value is strictly below.
	PValueThreshold float64 `yaml:"p_value_threshold"`
	// MinObservations is the minimum overlapping history per pair.
	MinObservations int `yaml:"min_observations"`
	// MaxWorkers caps the number of concurrent pair tests.
	MaxWorkers int `yaml:"max_workers"`
}

// DefaultScanConfig returns the standard screening configuration.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		PValueThreshold: 0.05,
		MinObservations: 60,
		MaxWorkers:      4,
	}
}

func (c ScanConfig) withDefaults() ScanConfig {
	if c.PValueThreshold <= 0 {
		c.PValueThreshold = 0.05
	}
	if c.MinObservations < minTestObservations {
		c.MinObservations = minTestObservations
	}
	if c.MaxWorkers < 1 {
		c.MaxWorkers = 1
	}
	return c
}

// ScanReport is the outcome of a full scan. Skipped counts pairs whose
// test could not be computed (short overlap or numerical degeneracy).
type ScanReport struct {
	Results []Result
	Tested  int
	Skipped int
}

// Scan tests every unique pair of instruments in the table for
// cointegration. Pair tests are independent and run concurrently up to
// MaxWorkers; a cancelled context stops scheduling new pairs and
// returns ctx.Err. Results are sorted ascending by p-value.
func Scan(ctx context.Context, table *pricetable.PriceTable, cfg ScanConfig) (*ScanReport, error) {
	cfg = cfg.withDefaults()

	symbols := table.Symbols
	pairs := make([]pricetable.Pair, 0, len(symbols)*(len(symbols)-1)/2)
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			pairs = append(pairs, pricetable.Pair{A: symbols[i], B: symbols[j]})
		}
	}
	log.Printf("[Scanner] Testing %d unique pairs across %d instruments", len(pairs), len(symbols))

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]Result, 0, len(pairs))
		tested  int
		skipped int
	)

	semaphore := make(chan struct{}, cfg.MaxWorkers)

	for _, pair := range pairs {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(pair pricetable.Pair) {
			defer wg.Done()
			defer func() { <-semaphore }()

			accepted, result := testPair(table, pair, cfg)

			mu.Lock()
			tested++
			if accepted == pairAccepted {
				results = append(results, result)
			} else if accepted == pairSkipped {
				skipped++
			}
			if tested%1000 == 0 {
				log.Printf("[Scanner] Tested %d/%d pairs", tested, len(pairs))
			}
			mu.Unlock()
		}(pair)
	}
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PValue < results[j].PValue
	})

	log.Printf("[Scanner] Scan complete: %d cointegrated, %d skipped, %d tested",
		len(results), skipped, tested)

	return &ScanReport{
		Results: results,
		Tested:  tested,
		Skipped: skipped,
	}, nil
}

type pairOutcome int

const (
	pairRejected pairOutcome = iota
	pairAccepted
	pairSkipped
)

func testPair(table *pricetable.PriceTable, pair pricetable.Pair, cfg ScanConfig) (pairOutcome, Result) {
	pp, err := table.PairPrices(pair.A, pair.B)
	if err != nil || pp.Len() < cfg.MinObservations {
		return pairSkipped, Result{}
	}

	test, err := EngleGranger(pp.A, pp.B)
	if err != nil {
		return pairSkipped, Result{}
	}
	if test.PValue >= cfg.PValueThreshold {
		return pairRejected, Result{}
	}

	return pairAccepted, Result{
		Pair:      pair,
		Statistic: test.Statistic,
		PValue:    test.PValue,
	}
}
