package series

import (
	"math"
	"testing"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestPctChange(t *testing.T) {
	prices := []float64{100, 110, 99, 99}
	returns := PctChange(prices)

	if returns[0].Valid {
		t.Errorf("PctChange[0].Valid = true, want false")
	}
	expected := []float64{0, 0.10, -0.10, 0}
	for i := 1; i < len(prices); i++ {
		if !returns[i].Valid {
			t.Fatalf("PctChange[%d].Valid = false, want true", i)
		}
		if !almostEqual(returns[i].Value, expected[i], 1e-12) {
			t.Errorf("PctChange[%d] = %v, want %v", i, returns[i].Value, expected[i])
		}
	}
}

func TestPctChange_ZeroPrevious(t *testing.T) {
	returns := PctChange([]float64{0, 5, 10})
	if returns[1].Valid {
		t.Errorf("PctChange over zero base should be undefined")
	}
	if !returns[2].Valid || !almostEqual(returns[2].Value, 1.0, 1e-12) {
		t.Errorf("PctChange[2] = %+v, want 1.0", returns[2])
	}
}

func TestRollingMean(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	mean := RollingMean(values, 3)

	for i := 0; i < 2; i++ {
		if mean[i].Valid {
			t.Errorf("RollingMean[%d].Valid = true, want false", i)
		}
	}
	expected := []float64{0, 0, 2, 3, 4}
	for i := 2; i < len(values); i++ {
		if !almostEqual(mean[i].Value, expected[i], 1e-12) {
			t.Errorf("RollingMean[%d] = %v, want %v", i, mean[i].Value, expected[i])
		}
	}
}

func TestRollingStd(t *testing.T) {
	// Sample standard deviation of {1,2,3} and {2,3,4} is 1.
	values := []float64{1, 2, 3, 4}
	std := RollingStd(values, 3)

	if std[0].Valid || std[1].Valid {
		t.Errorf("RollingStd warm-up should be undefined")
	}
	for i := 2; i < len(values); i++ {
		if !almostEqual(std[i].Value, 1.0, 1e-12) {
			t.Errorf("RollingStd[%d] = %v, want 1.0", i, std[i].Value)
		}
	}
}

func TestRollingStd_ConstantWindow(t *testing.T) {
	std := RollingStd([]float64{5, 5, 5, 5}, 2)
	for i := 1; i < 4; i++ {
		if !std[i].Valid {
			t.Fatalf("RollingStd[%d].Valid = false, want true", i)
		}
		if !almostEqual(std[i].Value, 0, 1e-12) {
			t.Errorf("RollingStd[%d] = %v, want 0", i, std[i].Value)
		}
	}
}

func TestRollingStd_WindowTooSmall(t *testing.T) {
	std := RollingStd([]float64{1, 2, 3}, 1)
	for i, v := range std {
		if v.Valid {
			t.Errorf("RollingStd[%d].Valid = true, want false for window 1", i)
		}
	}
}

func TestSeries_FirstDefined(t *testing.T) {
	s := Series{Undefined(), Undefined(), Defined(1.5), Defined(2)}
	if got := s.FirstDefined(); got != 2 {
		t.Errorf("FirstDefined() = %v, want 2", got)
	}

	empty := Series{Undefined(), Undefined()}
	if got := empty.FirstDefined(); got != -1 {
		t.Errorf("FirstDefined() = %v, want -1", got)
	}
}

func TestSeries_DefinedValues(t *testing.T) {
	s := Series{Defined(1), Undefined(), Defined(3)}
	got := s.DefinedValues()
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("DefinedValues() = %v, want [1 3]", got)
	}
	if s.DefinedCount() != 2 {
		t.Errorf("DefinedCount() = %v, want 2", s.DefinedCount())
	}
}

func TestSeries_Shift(t *testing.T) {
	s := Series{Defined(1), Defined(2), Defined(3)}
	shifted := s.Shift(1)
	if shifted[0].Valid {
		t.Errorf("Shift(1)[0].Valid = true, want false")
	}
	if !almostEqual(shifted[1].Value, 1, 1e-12) || !almostEqual(shifted[2].Value, 2, 1e-12) {
		t.Errorf("Shift(1) = %v, want [_, 1, 2]", shifted)
	}
}
