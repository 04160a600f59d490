// Package signal converts a price pair and hedge ratio into a spread,
// a rolling z-score, and a discrete position sequence driven by a
// hysteresis state machine.
package signal

import (
	"fmt"

	"github.com/yourusername/statarb-research/pkg/hedge"
	"github.com/yourusername/statarb-research/pkg/pricetable"
	"github.com/yourusername/statarb-research/pkg/series"
	"github.com/yourusername/statarb-research/pkg/stats"
)

// Position is the strategy's stance at one timestamp. Long means long
// the spread (long A, short B scaled by the hedge ratio); Short is the
// inverse.
type Position int8

const (
	Short Position = -1
	Flat  Position = 0
	Long  Position = 1
)

func (p Position) String() string {
	switch p {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "flat"
	}
}

// Config holds the signal parameters.
type Config struct {
	// Window is the rolling window for the z-score.
	Window int `yaml:"window"`
	// EntryThreshold opens a position when |z| exceeds it.
	EntryThreshold float64 `yaml:"entry_threshold"`
	// ExitThreshold closes a position once the z-score has reverted
	// inside it. Smaller than EntryThreshold to provide hysteresis.
	ExitThreshold float64 `yaml:"exit_threshold"`
}

// DefaultConfig returns the standard signal parameters.
func DefaultConfig() Config {
	return Config{
		Window:         60,
		EntryThreshold: 2.0,
		ExitThreshold:  0.5,
	}
}

// Validate checks the parameters for internal consistency.
func (c Config) Validate() error {
	if c.Window < 2 {
		return fmt.Errorf("signal: window must be at least 2, got %d", c.Window)
	}
	if c.EntryThreshold <= 0 {
		return fmt.Errorf("signal: entry threshold must be positive, got %v", c.EntryThreshold)
	}
	if c.ExitThreshold < 0 {
		return fmt.Errorf("signal: exit threshold must be non-negative, got %v", c.ExitThreshold)
	}
	if c.ExitThreshold > c.EntryThreshold {
		return fmt.Errorf("signal: exit threshold %v exceeds entry threshold %v",
			c.ExitThreshold, c.EntryThreshold)
	}
	return nil
}

// Result is one signal evaluation over a pair's aligned history.
// Positions before Warmup are undefined; from Warmup on, every
// timestamp has a decided position.
type Result struct {
	Spread    []float64
	ZScore    series.Series
	Positions []Position
	Warmup    int
}

// Next advances the hysteresis state machine by one step. Entry
// conditions take precedence, so an entry signal can flip a position
// without passing through flat.
func Next(prev Position, z float64, cfg Config) Position {
	switch {
	case z < -cfg.EntryThreshold:
		return Long
	case z > cfg.EntryThreshold:
		return Short
	case prev == Long && z >= -cfg.ExitThreshold:
		return Flat
	case prev == Short && z <= cfg.ExitThreshold:
		return Flat
	default:
		return prev
	}
}

// Generate computes the spread, its rolling z-score, and the position
// sequence for a pair. The state machine starts flat at the first
// defined z-score; an undefined z-score after warm-up (zero rolling
// deviation) carries the previous state forward.
func Generate(pp *pricetable.PairPrices, ratio hedge.Ratio, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pp.Len() == 0 {
		return nil, fmt.Errorf("signal: empty pair history for %s", pp.Pair)
	}
	if !ratio.IsStatic() && len(ratio.Values()) != pp.Len() {
		return nil, fmt.Errorf("signal: hedge ratio length %d does not match %d observations",
			len(ratio.Values()), pp.Len())
	}

	n := pp.Len()
	spread := make([]float64, n)
	for i := 0; i < n; i++ {
		spread[i] = pp.A[i] - ratio.At(i)*pp.B[i]
	}

	rollingMean := series.RollingMean(spread, cfg.Window)
	rollingStd := series.RollingStd(spread, cfg.Window)

	zscore := make(series.Series, n)
	for i := 0; i < n; i++ {
		m, s := rollingMean[i], rollingStd[i]
		if !m.Valid || !s.Valid || s.Value < 1e-10 {
			zscore[i] = series.Undefined()
			continue
		}
		zscore[i] = series.Defined(stats.ZScore(spread[i], m.Value, s.Value))
	}

	positions := make([]Position, n)
	warmup := zscore.FirstDefined()
	if warmup >= 0 {
		state := Flat
		for i := warmup; i < n; i++ {
			if zscore[i].Valid {
				state = Next(state, zscore[i].Value, cfg)
			}
			positions[i] = state
		}
	}

	return &Result{
		Spread:    spread,
		ZScore:    zscore,
		Positions: positions,
		Warmup:    warmup,
	}, nil
}
