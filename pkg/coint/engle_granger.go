// Package coint implements the Engle-Granger two-step cointegration
// test and a parallel scanner over all unique instrument pairs.
package coint

import (
	"fmt"
	"math"

	"github.com/yourusername/statarb-research/pkg/stats"
)

// TestResult is the outcome of one Engle-Granger test. PValue
// approximates the probability that the regression residual is
// non-stationary, i.e. that the pair is NOT cointegrated.
type TestResult struct {
	Statistic float64
	PValue    float64
	Lags      int
}

const minTestObservations = 20

// EngleGranger runs the two-step cointegration test on two aligned
// series: regress y on x with an intercept, then test the residual for
// a unit root with an augmented Dickey-Fuller regression (lag order by
// AIC). Degenerate inputs return an error so callers can skip the pair.
func EngleGranger(y, x []float64) (*TestResult, error) {
	if len(y) != len(x) {
		return nil, fmt.Errorf("coint: series lengths differ (%d vs %d)", len(y), len(x))
	}
	if len(y) < minTestObservations {
		return nil, fmt.Errorf("coint: %d observations, need at least %d", len(y), minTestObservations)
	}
	if stats.Variance(x) < 1e-12 || stats.Variance(y) < 1e-12 {
		return nil, fmt.Errorf("coint: constant series")
	}

	// Step 1: cointegrating regression y = α + β·x.
	slope, intercept := stats.LinearRegression(x, y)
	residuals := make([]float64, len(y))
	for i := range y {
		residuals[i] = y[i] - intercept - slope*x[i]
	}
	if stats.Variance(residuals) < 1e-16 {
		return nil, fmt.Errorf("coint: degenerate regression residuals")
	}

	// Step 2: unit-root test on the residuals.
	tau, lags, err := adfStatistic(residuals)
	if err != nil {
		return nil, fmt.Errorf("coint: unit-root regression failed: %w", err)
	}

	return &TestResult{
		Statistic: tau,
		PValue:    mackinnonPValue(tau),
		Lags:      lags,
	}, nil
}

// adfStatistic fits Δe_t = ρ·e_{t-1} + Σ δ_i·Δe_{t-i} (no constant, the
// residuals are mean zero by construction) and returns the t-statistic
// of ρ. The lag order is chosen by AIC over 0..maxlag on a common
// sample, then the chosen order is refit on the full usable sample.
func adfStatistic(e []float64) (tau float64, lags int, err error) {
	n := len(e)
	maxlag := int(math.Ceil(12.0 * math.Pow(float64(n)/100.0, 0.25)))
	if limit := n/2 - 4; maxlag > limit {
		maxlag = limit
	}
	if maxlag < 0 {
		maxlag = 0
	}

	diffs := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		diffs[i] = e[i+1] - e[i]
	}

	bestLag := 0
	bestAIC := math.Inf(1)
	for k := 0; k <= maxlag; k++ {
		fit, err := fitADF(e, diffs, k, maxlag)
		if err != nil {
			continue
		}
		if aic := fit.AIC(); aic < bestAIC {
			bestAIC = aic
			bestLag = k
		}
	}
	if math.IsInf(bestAIC, 1) {
		return 0, 0, fmt.Errorf("no admissible lag order")
	}

	fit, err := fitADF(e, diffs, bestLag, bestLag)
	if err != nil {
		return 0, 0, err
	}
	return fit.TStats[0], bestLag, nil
}

// fitADF regresses diffs[t] for t in [startLag, len(diffs)) on the
// lagged level e[t] and k lagged differences.
func fitADF(e, diffs []float64, k, startLag int) (*stats.OLSResult, error) {
	m := len(diffs)
	if startLag < k {
		startLag = k
	}
	nobs := m - startLag
	if nobs <= k+1 {
		return nil, fmt.Errorf("adf: too few observations for lag %d", k)
	}

	target := make([]float64, nobs)
	level := make([]float64, nobs)
	for i := 0; i < nobs; i++ {
		t := startLag + i
		target[i] = diffs[t]
		level[i] = e[t]
	}

	regressors := make([][]float64, 0, k+1)
	regressors = append(regressors, level)
	for lag := 1; lag <= k; lag++ {
		col := make([]float64, nobs)
		for i := 0; i < nobs; i++ {
			col[i] = diffs[startLag+i-lag]
		}
		regressors = append(regressors, col)
	}

	return stats.FitOLS(target, regressors)
}

// mackinnonPValue approximates the asymptotic p-value of the residual
// unit-root statistic for a two-variable cointegrating regression with
// constant, using the MacKinnon (1994) response surface. Accurate in
// the decision region; the tails are clamped.
func mackinnonPValue(tau float64) float64 {
	const (
		tauMax = 0.92
		tauMin = -19.0
	)
	if tau > tauMax {
		return 1.0
	}
	if tau < tauMin {
		return 0.0
	}

	z := 2.92 + 1.5012*tau + 0.039796*tau*tau
	p := stats.NormCDF(z)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
