package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// OLSResult holds a multi-regressor least-squares fit of y on the
// columns of X.
type OLSResult struct {
	Coefficients []float64
	StdErrors    []float64
	TStats       []float64
	Residuals    []float64
	SSR          float64
	NObs         int
	NParams      int
}

// FitOLS fits y = X·β by least squares. Each element of regressors is
// one column of X; no intercept is added implicitly, callers wanting one
// include a ones column. Returns an error when the design matrix is
// rank deficient.
func FitOLS(y []float64, regressors [][]float64) (*OLSResult, error) {
	n := len(y)
	k := len(regressors)
	if k == 0 {
		return nil, fmt.Errorf("ols: no regressors")
	}
	if n <= k {
		return nil, fmt.Errorf("ols: %d observations for %d parameters", n, k)
	}
	for j, col := range regressors {
		if len(col) != n {
			return nil, fmt.Errorf("ols: regressor %d has length %d, want %d", j, len(col), n)
		}
	}

	x := mat.NewDense(n, k, nil)
	for j, col := range regressors {
		x.SetCol(j, col)
	}
	yVec := mat.NewVecDense(n, append([]float64(nil), y...))

	var beta mat.VecDense
	if err := beta.SolveVec(x, yVec); err != nil {
		return nil, fmt.Errorf("ols: singular design matrix: %w", err)
	}

	// Residuals and sum of squared residuals.
	var fitted mat.VecDense
	fitted.MulVec(x, &beta)

	residuals := make([]float64, n)
	ssr := 0.0
	for i := 0; i < n; i++ {
		residuals[i] = y[i] - fitted.AtVec(i)
		ssr += residuals[i] * residuals[i]
	}

	// Parameter covariance: σ² (XᵀX)⁻¹.
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("ols: singular normal equations: %w", err)
	}
	sigma2 := ssr / float64(n-k)

	result := &OLSResult{
		Coefficients: make([]float64, k),
		StdErrors:    make([]float64, k),
		TStats:       make([]float64, k),
		Residuals:    residuals,
		SSR:          ssr,
		NObs:         n,
		NParams:      k,
	}
	for j := 0; j < k; j++ {
		result.Coefficients[j] = beta.AtVec(j)
		result.StdErrors[j] = math.Sqrt(sigma2 * inv.At(j, j))
		if result.StdErrors[j] > 0 {
			result.TStats[j] = result.Coefficients[j] / result.StdErrors[j]
		}
	}
	return result, nil
}

// AIC returns the Akaike information criterion of the fit, in the form
// used for comparing lag orders on a common sample.
func (r *OLSResult) AIC() float64 {
	if r.SSR <= 0 {
		return math.Inf(-1)
	}
	n := float64(r.NObs)
	return n*math.Log(r.SSR/n) + 2*float64(r.NParams)
}
