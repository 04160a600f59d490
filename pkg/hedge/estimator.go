// Package hedge estimates the hedge ratio of an instrument pair: the
// units of instrument B offsetting one unit of instrument A.
package hedge

import (
	"fmt"

	"github.com/yourusername/statarb-research/pkg/stats"
)

// Ratio is a hedge ratio, either one scalar applied uniformly or one
// value per timestamp. Immutable once produced.
type Ratio struct {
	static bool
	scalar float64
	values []float64
}

// StaticRatio wraps a single scalar ratio.
func StaticRatio(v float64) Ratio {
	return Ratio{static: true, scalar: v}
}

// DynamicRatio wraps one ratio value per timestamp.
func DynamicRatio(values []float64) Ratio {
	return Ratio{values: values}
}

// IsStatic reports whether the ratio is a single scalar.
func (r Ratio) IsStatic() bool {
	return r.static
}

// At returns the ratio in effect at timestamp index i.
func (r Ratio) At(i int) float64 {
	if r.static {
		return r.scalar
	}
	return r.values[i]
}

// Scalar returns the static value; only meaningful when IsStatic.
func (r Ratio) Scalar() float64 {
	return r.scalar
}

// Values returns a copy of the per-timestamp values; nil for a static
// ratio.
func (r Ratio) Values() []float64 {
	if r.static {
		return nil
	}
	out := make([]float64, len(r.values))
	copy(out, r.values)
	return out
}

// Estimator produces a hedge ratio from an aligned price pair. Both
// implementations are deterministic for identical input.
type Estimator interface {
	Estimate(a, b []float64) (Ratio, error)
	Name() string
}

// OLSEstimator fits a = intercept + ratio·b by ordinary least squares
// over the full history and applies the slope uniformly.
type OLSEstimator struct{}

// Name implements Estimator.
func (OLSEstimator) Name() string { return "ols" }

// Estimate implements Estimator.
func (OLSEstimator) Estimate(a, b []float64) (Ratio, error) {
	if len(a) != len(b) {
		return Ratio{}, fmt.Errorf("hedge: series lengths differ (%d vs %d)", len(a), len(b))
	}
	if len(a) < 2 {
		return Ratio{}, fmt.Errorf("hedge: need at least 2 observations, got %d", len(a))
	}
	if stats.Variance(b) < 1e-12 {
		return Ratio{}, fmt.Errorf("hedge: constant series %s", "b")
	}

	slope, _ := stats.LinearRegression(b, a)
	return StaticRatio(slope), nil
}
