package backtest

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/yourusername/statarb-research/pkg/hedge"
	"github.com/yourusername/statarb-research/pkg/pricetable"
	"github.com/yourusername/statarb-research/pkg/signal"
)

// OptimizerConfig defines the parameter grid swept for one pair. Every
// (window, entry threshold) combination is backtested; the exit
// threshold and commission rate are held fixed across the grid.
type OptimizerConfig struct {
	Windows        []int     `yaml:"windows"`
	Thresholds     []float64 `yaml:"thresholds"`
	ExitThreshold  float64   `yaml:"exit_threshold"`
	CommissionRate float64   `yaml:"commission_rate"`
	MaxWorkers     int       `yaml:"max_workers"`
}

// DefaultOptimizerConfig returns the standard sweep grid.
func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		Windows:        []int{20, 40, 60, 90, 120},
		Thresholds:     []float64{1.5, 2.0, 2.5, 3.0},
		ExitThreshold:  0.5,
		CommissionRate: 0.001,
		MaxWorkers:     4,
	}
}

// Validate rejects grids that cannot produce a valid signal config, so
// a bad cell fails before any worker starts rather than mid-sweep.
func (c OptimizerConfig) Validate() error {
	if len(c.Windows) == 0 {
		return fmt.Errorf("optimizer: no windows to sweep")
	}
	if len(c.Thresholds) == 0 {
		return fmt.Errorf("optimizer: no thresholds to sweep")
	}
	for _, w := range c.Windows {
		if w < 2 {
			return fmt.Errorf("optimizer: window must be at least 2, got %d", w)
		}
	}
	for _, th := range c.Thresholds {
		cfg := signal.Config{Window: 2, EntryThreshold: th, ExitThreshold: c.ExitThreshold}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("optimizer: threshold %v: %w", th, err)
		}
	}
	return nil
}

func (c OptimizerConfig) workers() int {
	if c.MaxWorkers <= 0 {
		return 4
	}
	return c.MaxWorkers
}

// GridCell is the outcome of one grid combination. Sharpe is zero when
// the combination produced no defined returns (window longer than the
// history, for instance); such cells simply never win.
type GridCell struct {
	Window      int
	Threshold   float64
	SharpeRatio float64
	TotalReturn float64
	TradeCount  int
}

// OptimizationResult is a completed sweep. Cells are ordered window by
// window, threshold within window, matching the configured grid.
type OptimizationResult struct {
	Pair  pricetable.Pair
	Best  GridCell
	Cells []GridCell
}

// Optimize backtests every grid combination for one pair, in parallel,
// and picks the cell with the highest Sharpe ratio. Ties keep the
// earliest cell in grid order, so results are reproducible regardless
// of worker scheduling.
func Optimize(ctx context.Context, pp *pricetable.PairPrices, ratio hedge.Ratio, cfg OptimizerConfig) (*OptimizationResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cells := make([]GridCell, len(cfg.Windows)*len(cfg.Thresholds))

	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.workers())
	var mu sync.Mutex
	var firstErr error

	for i, window := range cfg.Windows {
		for j, threshold := range cfg.Thresholds {
			select {
			case <-ctx.Done():
				wg.Wait()
				return nil, ctx.Err()
			case sem <- struct{}{}:
			}

			wg.Add(1)
			go func(idx, window int, threshold float64) {
				defer wg.Done()
				defer func() { <-sem }()

				cell, err := runCell(pp, ratio, window, threshold, cfg)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					return
				}
				cells[idx] = cell
			}(i*len(cfg.Thresholds)+j, window, threshold)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	best := cells[0]
	for _, cell := range cells[1:] {
		if cell.SharpeRatio > best.SharpeRatio {
			best = cell
		}
	}
	log.Printf("[Optimizer] %s: best window=%d threshold=%.2f sharpe=%.3f",
		pp.Pair, best.Window, best.Threshold, best.SharpeRatio)

	return &OptimizationResult{Pair: pp.Pair, Best: best, Cells: cells}, nil
}

func runCell(pp *pricetable.PairPrices, ratio hedge.Ratio, window int, threshold float64, cfg OptimizerConfig) (GridCell, error) {
	sigCfg := signal.Config{
		Window:         window,
		EntryThreshold: threshold,
		ExitThreshold:  cfg.ExitThreshold,
	}
	sig, err := signal.Generate(pp, ratio, sigCfg)
	if err != nil {
		return GridCell{}, fmt.Errorf("optimizer: window=%d threshold=%v: %w", window, threshold, err)
	}

	result, err := NewEngine(cfg.CommissionRate).Run(pp, ratio, sig)
	if err != nil {
		return GridCell{}, fmt.Errorf("optimizer: window=%d threshold=%v: %w", window, threshold, err)
	}

	return GridCell{
		Window:      window,
		Threshold:   threshold,
		SharpeRatio: result.SharpeRatio,
		TotalReturn: result.TotalReturn,
		TradeCount:  result.TradeCount,
	}, nil
}
