// Package stats provides statistical functions for price series analysis
package stats

import (
	"math"
)

// Mean computes the arithmetic mean
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	var sum float64
	for _, val := range data {
		sum += val
	}
	return sum / float64(len(data))
}

// Variance computes the population variance (n denominator)
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	mean := Mean(data)
	var variance float64
	for _, val := range data {
		diff := val - mean
		variance += diff * diff
	}
	return variance / float64(len(data))
}

// StdDev computes the population standard deviation
func StdDev(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// SampleStdDev computes the sample standard deviation (n-1 denominator).
// Returns 0 for fewer than two observations.
func SampleStdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}

	mean := Mean(data)
	var sq float64
	for _, val := range data {
		diff := val - mean
		sq += diff * diff
	}
	return math.Sqrt(sq / float64(len(data)-1))
}

// ZScore standardizes a value against a mean and standard deviation
// z = (x - μ) / σ
func ZScore(value, mean, std float64) float64 {
	if std < 1e-10 {
		return 0
	}
	return (value - mean) / std
}

// Correlation computes the Pearson correlation coefficient
// r = Σ[(xi - x̄)(yi - ȳ)] / sqrt[Σ(xi - x̄)² * Σ(yi - ȳ)²]
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var numerator, varX, varY float64
	for i := range x {
		diffX := x[i] - meanX
		diffY := y[i] - meanY
		numerator += diffX * diffY
		varX += diffX * diffX
		varY += diffY * diffY
	}

	denominator := math.Sqrt(varX * varY)
	if denominator < 1e-10 {
		return 0
	}

	return numerator / denominator
}

// Covariance computes the population covariance
// cov(X,Y) = Σ[(xi - x̄)(yi - ȳ)] / n
func Covariance(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var covariance float64
	for i := range x {
		covariance += (x[i] - meanX) * (y[i] - meanY)
	}

	return covariance / float64(len(x))
}

// LinearRegression fits y = slope * x + intercept by ordinary least
// squares and returns the slope and intercept.
func LinearRegression(x, y []float64) (slope, intercept float64) {
	if len(x) != len(y) || len(x) == 0 {
		return 0, 0
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var numerator, denominator float64
	for i := range x {
		diffX := x[i] - meanX
		numerator += diffX * (y[i] - meanY)
		denominator += diffX * diffX
	}

	if denominator < 1e-10 {
		return 0, meanY
	}

	slope = numerator / denominator
	intercept = meanY - slope*meanX

	return slope, intercept
}

// CorrelationMatrix computes the pairwise Pearson correlation matrix of
// equally long columns. Result is symmetric with a unit diagonal.
func CorrelationMatrix(columns [][]float64) [][]float64 {
	n := len(columns)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1.0
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := Correlation(columns[i], columns[j])
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}
	return matrix
}

// NormCDF is the standard normal cumulative distribution function.
func NormCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
