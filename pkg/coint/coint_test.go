package coint

import (
	"math"
	"math/rand"
	"testing"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// cointegratedPair simulates a random walk x and y = 2x + stationary
// noise, the textbook cointegrated pair.
func cointegratedPair(n int, seed int64) (y, x []float64) {
	rng := rand.New(rand.NewSource(seed))
	x = make([]float64, n)
	y = make([]float64, n)
	level := 100.0
	noise := 0.0
	for i := 0; i < n; i++ {
		level += rng.NormFloat64()
		noise = 0.3*noise + rng.NormFloat64()
		x[i] = level
		y[i] = 5 + 2*level + noise
	}
	return y, x
}

// independentWalks simulates two unrelated random walks.
func independentWalks(n int, seed int64) (y, x []float64) {
	rng := rand.New(rand.NewSource(seed))
	x = make([]float64, n)
	y = make([]float64, n)
	a, b := 100.0, 100.0
	for i := 0; i < n; i++ {
		a += rng.NormFloat64()
		b += rng.NormFloat64()
		x[i] = a
		y[i] = b
	}
	return y, x
}

func TestEngleGranger_CointegratedPair(t *testing.T) {
	y, x := cointegratedPair(500, 42)

	result, err := EngleGranger(y, x)
	if err != nil {
		t.Fatalf("EngleGranger() error: %v", err)
	}

	if result.Statistic >= 0 {
		t.Errorf("Statistic = %v, want negative for a mean-reverting residual", result.Statistic)
	}
	if result.PValue >= 0.05 {
		t.Errorf("PValue = %v, want < 0.05 for a strongly cointegrated pair", result.PValue)
	}
}

func TestEngleGranger_RanksCointegrationAboveNoise(t *testing.T) {
	yc, xc := cointegratedPair(500, 7)
	yi, xi := independentWalks(500, 7)

	cointResult, err := EngleGranger(yc, xc)
	if err != nil {
		t.Fatalf("EngleGranger(cointegrated) error: %v", err)
	}
	indepResult, err := EngleGranger(yi, xi)
	if err != nil {
		t.Fatalf("EngleGranger(independent) error: %v", err)
	}

	if cointResult.PValue >= indepResult.PValue {
		t.Errorf("cointegrated p=%v should be below independent p=%v",
			cointResult.PValue, indepResult.PValue)
	}
}

func TestEngleGranger_Errors(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		if _, err := EngleGranger(make([]float64, 30), make([]float64, 40)); err == nil {
			t.Error("EngleGranger should reject mismatched lengths")
		}
	})
	t.Run("too short", func(t *testing.T) {
		y, x := cointegratedPair(10, 1)
		if _, err := EngleGranger(y, x); err == nil {
			t.Error("EngleGranger should reject short series")
		}
	})
	t.Run("constant series", func(t *testing.T) {
		x := make([]float64, 50)
		for i := range x {
			x[i] = 3.14
		}
		_, y := cointegratedPair(50, 1)
		if _, err := EngleGranger(y, x); err == nil {
			t.Error("EngleGranger should reject a constant regressor")
		}
	})
}

func TestMackinnonPValue(t *testing.T) {
	// Asymptotic critical values for the two-variable case with
	// constant: tau = -3.34 at 5%, tau = -3.90 at 1%.
	if got := mackinnonPValue(-3.34); !almostEqual(got, 0.05, 0.01) {
		t.Errorf("mackinnonPValue(-3.34) = %v, want about 0.05", got)
	}
	if got := mackinnonPValue(-3.90); !almostEqual(got, 0.01, 0.005) {
		t.Errorf("mackinnonPValue(-3.90) = %v, want about 0.01", got)
	}

	if got := mackinnonPValue(1.5); got != 1.0 {
		t.Errorf("mackinnonPValue(1.5) = %v, want 1", got)
	}
	if got := mackinnonPValue(-25); got != 0.0 {
		t.Errorf("mackinnonPValue(-25) = %v, want 0", got)
	}

	// Monotonic: a more negative statistic is stronger evidence.
	previous := 1.1
	for tau := 0.0; tau >= -10; tau -= 0.5 {
		p := mackinnonPValue(tau)
		if p > previous {
			t.Fatalf("mackinnonPValue not monotonic at tau=%v: %v > %v", tau, p, previous)
		}
		previous = p
	}
}
