package hedge

import (
	"math"
	"math/rand"
	"testing"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestOLSEstimator_IdenticalSeries(t *testing.T) {
	prices := []float64{100, 101, 99, 102, 98, 103, 100}

	ratio, err := OLSEstimator{}.Estimate(prices, prices)
	if err != nil {
		t.Fatalf("Estimate() error: %v", err)
	}
	if !ratio.IsStatic() {
		t.Fatal("OLS ratio should be static")
	}
	if !almostEqual(ratio.Scalar(), 1.0, 1e-10) {
		t.Errorf("Scalar() = %v, want 1.0 for identical series", ratio.Scalar())
	}
}

func TestOLSEstimator_RecoversKnownRatio(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	n := 500
	a := make([]float64, n)
	b := make([]float64, n)
	level := 100.0
	for i := 0; i < n; i++ {
		level += rng.NormFloat64()
		b[i] = level
		a[i] = 10 + 1.5*level + 0.5*rng.NormFloat64()
	}

	ratio, err := OLSEstimator{}.Estimate(a, b)
	if err != nil {
		t.Fatalf("Estimate() error: %v", err)
	}
	if !almostEqual(ratio.Scalar(), 1.5, 0.05) {
		t.Errorf("Scalar() = %v, want 1.5 within 0.05", ratio.Scalar())
	}
}

func TestOLSEstimator_Errors(t *testing.T) {
	if _, err := (OLSEstimator{}).Estimate([]float64{1, 2}, []float64{1}); err == nil {
		t.Error("Estimate should reject mismatched lengths")
	}
	if _, err := (OLSEstimator{}).Estimate([]float64{1}, []float64{1}); err == nil {
		t.Error("Estimate should reject a single observation")
	}
	if _, err := (OLSEstimator{}).Estimate([]float64{1, 2, 3}, []float64{5, 5, 5}); err == nil {
		t.Error("Estimate should reject a constant hedge leg")
	}
}

func TestKalmanEstimator_ConvergesToConstantRatio(t *testing.T) {
	n := 200
	a := make([]float64, n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		b[i] = 100 + float64(i%7)
		a[i] = 1.5 * b[i]
	}

	est := NewKalmanEstimator(DefaultKalmanConfig())
	ratio, err := est.Estimate(a, b)
	if err != nil {
		t.Fatalf("Estimate() error: %v", err)
	}
	if ratio.IsStatic() {
		t.Fatal("Kalman ratio should be dynamic")
	}

	values := ratio.Values()
	if len(values) != n {
		t.Fatalf("len(Values()) = %v, want %v", len(values), n)
	}
	if !almostEqual(values[n-1], 1.5, 1e-3) {
		t.Errorf("final ratio = %v, want 1.5", values[n-1])
	}
	// The prior pulls early estimates toward zero; the filter should
	// have moved most of the way after the first update already.
	if values[0] <= 0 || values[0] >= 1.5 {
		t.Errorf("first ratio = %v, want inside (0, 1.5)", values[0])
	}
}

func TestKalmanEstimator_CausalPrefix(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	n := 120
	a := make([]float64, n)
	b := make([]float64, n)
	level := 50.0
	for i := 0; i < n; i++ {
		level += rng.NormFloat64()
		b[i] = level
		a[i] = 2*level + rng.NormFloat64()
	}

	est := NewKalmanEstimator(DefaultKalmanConfig())
	full, err := est.Estimate(a, b)
	if err != nil {
		t.Fatalf("Estimate(full) error: %v", err)
	}
	prefix, err := est.Estimate(a[:60], b[:60])
	if err != nil {
		t.Fatalf("Estimate(prefix) error: %v", err)
	}

	fullValues := full.Values()
	for i, v := range prefix.Values() {
		if !almostEqual(v, fullValues[i], 1e-12) {
			t.Fatalf("prefix diverges at %d: %v vs %v; estimate must not use future data",
				i, v, fullValues[i])
		}
	}
}

func TestKalmanEstimator_Errors(t *testing.T) {
	est := NewKalmanEstimator(DefaultKalmanConfig())
	if _, err := est.Estimate(nil, nil); err == nil {
		t.Error("Estimate should reject empty series")
	}
	if _, err := est.Estimate([]float64{1, 2}, []float64{1, 0}); err == nil {
		t.Error("Estimate should reject a zero price in the hedge leg")
	}
}

func TestRatio_At(t *testing.T) {
	static := StaticRatio(1.25)
	for i := 0; i < 5; i++ {
		if static.At(i) != 1.25 {
			t.Fatalf("static At(%d) = %v, want 1.25", i, static.At(i))
		}
	}

	dynamic := DynamicRatio([]float64{1, 2, 3})
	if dynamic.At(1) != 2 {
		t.Errorf("dynamic At(1) = %v, want 2", dynamic.At(1))
	}
	if dynamic.IsStatic() {
		t.Error("dynamic ratio reported static")
	}
}
