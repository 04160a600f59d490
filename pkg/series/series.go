// Package series provides time series primitives where missing or
// warm-up observations are represented explicitly instead of as NaN.
package series

import "math"

// Float64 is a possibly-undefined observation.
type Float64 struct {
	Value float64
	Valid bool
}

// Defined wraps a concrete value.
func Defined(v float64) Float64 {
	return Float64{Value: v, Valid: true}
}

// Undefined returns the undefined sentinel.
func Undefined() Float64 {
	return Float64{}
}

// Series is an ordered sequence of possibly-undefined observations,
// aligned 1:1 with an external timestamp axis.
type Series []Float64

// FromValues creates a fully-defined series.
func FromValues(values []float64) Series {
	s := make(Series, len(values))
	for i, v := range values {
		s[i] = Defined(v)
	}
	return s
}

// Len returns the series length, including undefined slots.
func (s Series) Len() int {
	return len(s)
}

// DefinedCount returns the number of defined observations.
func (s Series) DefinedCount() int {
	count := 0
	for _, v := range s {
		if v.Valid {
			count++
		}
	}
	return count
}

// DefinedValues returns the defined observations in order.
func (s Series) DefinedValues() []float64 {
	values := make([]float64, 0, len(s))
	for _, v := range s {
		if v.Valid {
			values = append(values, v.Value)
		}
	}
	return values
}

// FirstDefined returns the index of the first defined observation,
// or -1 if the series is entirely undefined.
func (s Series) FirstDefined() int {
	for i, v := range s {
		if v.Valid {
			return i
		}
	}
	return -1
}

// Shift lags the series by n steps; the first n slots become undefined.
func (s Series) Shift(n int) Series {
	if n < 0 {
		n = 0
	}
	out := make(Series, len(s))
	for i := range s {
		if i < n {
			out[i] = Undefined()
			continue
		}
		out[i] = s[i-n]
	}
	return out
}

// PctChange computes simple percentage changes of a fully-defined price
// sequence. The first slot is undefined; a zero previous price yields an
// undefined change.
func PctChange(prices []float64) Series {
	out := make(Series, len(prices))
	for i := range prices {
		if i == 0 || prices[i-1] == 0 {
			out[i] = Undefined()
			continue
		}
		out[i] = Defined((prices[i] - prices[i-1]) / prices[i-1])
	}
	return out
}

// RollingMean computes the trailing mean over a fixed window. The first
// window-1 slots are undefined.
func RollingMean(values []float64, window int) Series {
	out := make(Series, len(values))
	if window <= 0 || window > len(values) {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = Defined(sum / float64(window))
		}
	}
	return out
}

// RollingStd computes the trailing sample standard deviation (n-1
// denominator) over a fixed window. The first window-1 slots are
// undefined; a window of 1 has no sample deviation and stays undefined.
func RollingStd(values []float64, window int) Series {
	out := make(Series, len(values))
	if window <= 1 || window > len(values) {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		recent := values[i-window+1 : i+1]

		var sum float64
		for _, v := range recent {
			sum += v
		}
		mean := sum / float64(window)

		var sq float64
		for _, v := range recent {
			diff := v - mean
			sq += diff * diff
		}
		out[i] = Defined(math.Sqrt(sq / float64(window-1)))
	}
	return out
}
