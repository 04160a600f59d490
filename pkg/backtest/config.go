package backtest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/statarb-research/pkg/coint"
	"github.com/yourusername/statarb-research/pkg/hedge"
	"github.com/yourusername/statarb-research/pkg/signal"
)

// Config is the research toolkit configuration shared by the scanner,
// backtester and optimizer binaries.
type Config struct {
	Data     DataSettings       `yaml:"data"`
	Scan     coint.ScanConfig   `yaml:"scan"`
	Signal   signal.Config      `yaml:"signal"`
	Kalman   hedge.KalmanConfig `yaml:"kalman"`
	Backtest BacktestSettings   `yaml:"backtest"`
	Optimize OptimizerConfig    `yaml:"optimize"`
	Publish  PublishSettings    `yaml:"publish"`
	Output   OutputSettings     `yaml:"output"`
}

// DataSettings locates the input price history.
type DataSettings struct {
	PricesPath string `yaml:"prices_path"`
	PairsPath  string `yaml:"pairs_path"`
}

// BacktestSettings contains backtest-specific settings.
type BacktestSettings struct {
	CommissionRate float64 `yaml:"commission_rate"`
	TopPairs       int     `yaml:"top_pairs"`
	Estimator      string  `yaml:"estimator"` // ols, kalman
}

// PublishSettings contains NATS publishing settings. Publishing is off
// unless an address is configured.
type PublishSettings struct {
	NATSAddr        string `yaml:"nats_addr"`
	PairsSubject    string `yaml:"pairs_subject"`
	BacktestSubject string `yaml:"backtest_subject"`
}

// OutputSettings contains result file settings.
type OutputSettings struct {
	ResultDir string `yaml:"result_dir"`
}

// LoadConfig loads and validates a YAML configuration file.
func LoadConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration. Zero-valued sections are
// allowed; the getters fill in defaults.
func (c *Config) Validate() error {
	if c.Data.PricesPath == "" {
		return fmt.Errorf("data.prices_path is required")
	}
	if c.Scan.PValueThreshold < 0 || c.Scan.PValueThreshold > 1 {
		return fmt.Errorf("scan.p_value_threshold must be within [0, 1], got %v",
			c.Scan.PValueThreshold)
	}
	if c.Signal != (signal.Config{}) {
		if err := c.GetSignalConfig().Validate(); err != nil {
			return err
		}
	}
	if c.Backtest.CommissionRate < 0 {
		return fmt.Errorf("backtest.commission_rate must be non-negative, got %v",
			c.Backtest.CommissionRate)
	}
	if len(c.Optimize.Windows) > 0 || len(c.Optimize.Thresholds) > 0 {
		if err := c.GetOptimizerConfig().Validate(); err != nil {
			return err
		}
	}
	switch c.Backtest.Estimator {
	case "", "ols", "kalman":
	default:
		return fmt.Errorf("backtest.estimator must be ols or kalman, got %q",
			c.Backtest.Estimator)
	}
	return nil
}

// GetScanConfig returns the scan section with defaults applied.
func (c *Config) GetScanConfig() coint.ScanConfig {
	cfg := c.Scan
	defaults := coint.DefaultScanConfig()
	if cfg.PValueThreshold == 0 {
		cfg.PValueThreshold = defaults.PValueThreshold
	}
	if cfg.MinObservations == 0 {
		cfg.MinObservations = defaults.MinObservations
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = defaults.MaxWorkers
	}
	return cfg
}

// GetSignalConfig returns the signal section with defaults applied.
func (c *Config) GetSignalConfig() signal.Config {
	cfg := c.Signal
	defaults := signal.DefaultConfig()
	if cfg.Window == 0 {
		cfg.Window = defaults.Window
	}
	if cfg.EntryThreshold == 0 {
		cfg.EntryThreshold = defaults.EntryThreshold
	}
	if cfg.ExitThreshold == 0 {
		cfg.ExitThreshold = defaults.ExitThreshold
	}
	return cfg
}

// GetKalmanConfig returns the kalman section with defaults applied.
func (c *Config) GetKalmanConfig() hedge.KalmanConfig {
	cfg := c.Kalman
	defaults := hedge.DefaultKalmanConfig()
	if cfg.ProcessNoise == 0 {
		cfg.ProcessNoise = defaults.ProcessNoise
	}
	if cfg.ObservationNoise == 0 {
		cfg.ObservationNoise = defaults.ObservationNoise
	}
	if cfg.PriorVariance == 0 {
		cfg.PriorVariance = defaults.PriorVariance
	}
	return cfg
}

// GetOptimizerConfig returns the optimize section with defaults applied.
func (c *Config) GetOptimizerConfig() OptimizerConfig {
	cfg := c.Optimize
	defaults := DefaultOptimizerConfig()
	if len(cfg.Windows) == 0 {
		cfg.Windows = defaults.Windows
	}
	if len(cfg.Thresholds) == 0 {
		cfg.Thresholds = defaults.Thresholds
	}
	if cfg.ExitThreshold == 0 {
		cfg.ExitThreshold = defaults.ExitThreshold
	}
	if cfg.CommissionRate == 0 {
		cfg.CommissionRate = c.GetCommissionRate()
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = defaults.MaxWorkers
	}
	return cfg
}

// GetCommissionRate returns the configured commission rate, defaulting
// to 10 basis points round trip.
func (c *Config) GetCommissionRate() float64 {
	if c.Backtest.CommissionRate == 0 {
		return 0.001
	}
	return c.Backtest.CommissionRate
}

// GetTopPairs returns how many ranked pairs the backtester runs.
func (c *Config) GetTopPairs() int {
	if c.Backtest.TopPairs <= 0 {
		return 5
	}
	return c.Backtest.TopPairs
}

// GetEstimator returns the configured hedge ratio estimator.
func (c *Config) GetEstimator() hedge.Estimator {
	if c.Backtest.Estimator == "kalman" {
		return hedge.NewKalmanEstimator(c.GetKalmanConfig())
	}
	return hedge.OLSEstimator{}
}

// GetResultDir returns the output directory for result files.
func (c *Config) GetResultDir() string {
	if c.Output.ResultDir == "" {
		return "./results"
	}
	return c.Output.ResultDir
}

// GetPairsSubject returns the NATS subject for scan results.
func (c *Config) GetPairsSubject() string {
	if c.Publish.PairsSubject == "" {
		return "statarb.pairs"
	}
	return c.Publish.PairsSubject
}

// GetBacktestSubject returns the NATS subject for backtest summaries.
func (c *Config) GetBacktestSubject() string {
	if c.Publish.BacktestSubject == "" {
		return "statarb.backtest"
	}
	return c.Publish.BacktestSubject
}
