// Package backtest simulates a pairs strategy over historical prices
// and summarizes its risk and return, and sweeps signal parameters.
package backtest

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/statarb-research/pkg/hedge"
	"github.com/yourusername/statarb-research/pkg/pricetable"
	"github.com/yourusername/statarb-research/pkg/series"
	"github.com/yourusername/statarb-research/pkg/signal"
)

const tradingDaysPerYear = 252

// Result summarizes one backtest. Immutable once computed.
type Result struct {
	Pair        pricetable.Pair
	TotalReturn float64
	CAGR        float64
	SharpeRatio float64
	MaxDrawdown float64
	TradeCount  int

	// NetReturns holds the per-step net strategy return; undefined
	// during warm-up. Equity is the running product of (1 + net),
	// starting at 1.
	NetReturns series.Series
	Equity     []float64
}

// Engine runs backtests with a flat proportional commission per unit of
// position change.
type Engine struct {
	commissionRate float64
}

// NewEngine creates an engine. A negative commission rate is treated
// as zero.
func NewEngine(commissionRate float64) *Engine {
	if commissionRate < 0 {
		commissionRate = 0
	}
	return &Engine{commissionRate: commissionRate}
}

// Run simulates the strategy. The position decided at t-1 is realized
// against the returns at t, so no step ever trades on information from
// its own day. The hedge ratio applied at t is the one known at t-1.
func (e *Engine) Run(pp *pricetable.PairPrices, ratio hedge.Ratio, sig *signal.Result) (*Result, error) {
	n := pp.Len()
	if n < 2 {
		return nil, fmt.Errorf("backtest: %d overlapping observations for %s", n, pp.Pair)
	}
	if len(sig.Positions) != n {
		return nil, fmt.Errorf("backtest: %d positions for %d observations", len(sig.Positions), n)
	}

	returnsA := series.PctChange(pp.A)
	returnsB := series.PctChange(pp.B)

	netReturns := make(series.Series, n)
	equity := make([]float64, n)
	value := 1.0
	tradeCount := 0

	for t := 0; t < n; t++ {
		if t >= sig.Warmup && sig.Warmup >= 0 {
			prev := signal.Flat
			if t > sig.Warmup {
				prev = sig.Positions[t-1]
			}
			tradeCount += positionChange(prev, sig.Positions[t])
		}

		if t > 0 && returnsA[t].Valid && returnsB[t].Valid {
			prevPos := signal.Flat
			if sig.Warmup >= 0 && t-1 >= sig.Warmup {
				prevPos = sig.Positions[t-1]
			}
			gross := float64(prevPos) * (returnsA[t].Value - ratio.At(t-1)*returnsB[t].Value)

			cost := 0.0
			if sig.Warmup >= 0 && t >= sig.Warmup {
				prev := signal.Flat
				if t > sig.Warmup {
					prev = sig.Positions[t-1]
				}
				cost = e.commissionRate * float64(positionChange(prev, sig.Positions[t]))
			}

			net := gross - cost
			netReturns[t] = series.Defined(net)
			value *= 1 + net
		}
		equity[t] = value
	}

	result := &Result{
		Pair:       pp.Pair,
		TradeCount: tradeCount,
		NetReturns: netReturns,
		Equity:     equity,
	}
	e.fillMetrics(result)
	return result, nil
}

// positionChange returns |Δposition|; a direct long/short flip counts
// as two units and is charged accordingly.
func positionChange(prev, next signal.Position) int {
	delta := int(next) - int(prev)
	if delta < 0 {
		delta = -delta
	}
	return delta
}

func (e *Engine) fillMetrics(result *Result) {
	defined := result.NetReturns.DefinedValues()
	finalEquity := 1.0
	if len(result.Equity) > 0 {
		finalEquity = result.Equity[len(result.Equity)-1]
	}

	// Total loss: fractional powers of non-positive equity are
	// undefined, so the outcome is pinned to -100%.
	if finalEquity <= 0 {
		result.TotalReturn = -1
		result.CAGR = -1
		result.MaxDrawdown = -1
		result.SharpeRatio = 0
		return
	}

	result.TotalReturn = finalEquity - 1
	if len(defined) > 0 {
		result.CAGR = math.Pow(finalEquity, tradingDaysPerYear/float64(len(defined))) - 1
	}

	if std := stat.StdDev(defined, nil); std > 0 {
		result.SharpeRatio = stat.Mean(defined, nil) / std * math.Sqrt(tradingDaysPerYear)
	}

	peak := math.Inf(-1)
	maxDrawdown := 0.0
	for _, v := range result.Equity {
		if v > peak {
			peak = v
		}
		if drawdown := (v - peak) / peak; drawdown < maxDrawdown {
			maxDrawdown = drawdown
		}
	}
	result.MaxDrawdown = maxDrawdown
}

// SortBySharpe orders backtest results by descending Sharpe ratio, the
// ranking used in summary reports.
func SortBySharpe(results []*Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SharpeRatio > results[j].SharpeRatio
	})
}
