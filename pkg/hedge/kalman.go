package hedge

import (
	"fmt"
)

// KalmanConfig tunes the recursive estimator. The latent ratio follows
// a random walk with ProcessNoise variance, observed through the raw
// price ratio a/b with ObservationNoise variance.
type KalmanConfig struct {
	ProcessNoise     float64 `yaml:"process_noise"`
	ObservationNoise float64 `yaml:"observation_noise"`
	PriorMean        float64 `yaml:"prior_mean"`
	PriorVariance    float64 `yaml:"prior_variance"`
}

// DefaultKalmanConfig returns the standard filter parameters.
func DefaultKalmanConfig() KalmanConfig {
	return KalmanConfig{
		ProcessNoise:     0.01,
		ObservationNoise: 1.0,
		PriorMean:        0.0,
		PriorVariance:    1.0,
	}
}

// KalmanEstimator tracks a time-varying hedge ratio with a scalar
// Kalman filter. Each output value depends only on observations up to
// and including its own timestamp; no smoothing over later data. The
// estimator holds no state across calls.
type KalmanEstimator struct {
	config KalmanConfig
}

// NewKalmanEstimator creates an estimator; non-positive noise values
// fall back to the defaults.
func NewKalmanEstimator(config KalmanConfig) *KalmanEstimator {
	defaults := DefaultKalmanConfig()
	if config.ProcessNoise <= 0 {
		config.ProcessNoise = defaults.ProcessNoise
	}
	if config.ObservationNoise <= 0 {
		config.ObservationNoise = defaults.ObservationNoise
	}
	if config.PriorVariance <= 0 {
		config.PriorVariance = defaults.PriorVariance
	}
	return &KalmanEstimator{config: config}
}

// Name implements Estimator.
func (e *KalmanEstimator) Name() string { return "kalman" }

// Estimate implements Estimator, returning one posterior mean per
// timestamp. The prior covers the state at the first observation, so
// process noise is added only between steps.
func (e *KalmanEstimator) Estimate(a, b []float64) (Ratio, error) {
	if len(a) != len(b) {
		return Ratio{}, fmt.Errorf("hedge: series lengths differ (%d vs %d)", len(a), len(b))
	}
	if len(a) == 0 {
		return Ratio{}, fmt.Errorf("hedge: empty series")
	}

	mean := e.config.PriorMean
	variance := e.config.PriorVariance
	values := make([]float64, len(a))

	for i := range a {
		if b[i] == 0 {
			return Ratio{}, fmt.Errorf("hedge: zero price for instrument b at index %d", i)
		}
		observed := a[i] / b[i]

		if i > 0 {
			variance += e.config.ProcessNoise
		}
		gain := variance / (variance + e.config.ObservationNoise)
		mean += gain * (observed - mean)
		variance *= 1 - gain

		values[i] = mean
	}

	return DynamicRatio(values), nil
}
