package backtest

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/yourusername/statarb-research/pkg/coint"
	"github.com/yourusername/statarb-research/pkg/pricetable"
	"github.com/yourusername/statarb-research/pkg/series"
	"github.com/yourusername/statarb-research/pkg/signal"
)

// Full research pass over a synthetic universe: scan for cointegrated
// pairs, estimate the hedge ratio, generate signals, backtest.
func TestPipeline_ScanToBacktest(t *testing.T) {
	const n = 400
	rng := rand.New(rand.NewSource(99))

	level := 100.0
	noise := 0.0
	base := make([]float64, n)
	partner := make([]float64, n)
	for i := 0; i < n; i++ {
		level += rng.NormFloat64()
		noise = 0.3*noise + rng.NormFloat64()
		base[i] = level
		partner[i] = 30 + 1.4*level + noise
	}
	unrelated := make([]float64, n)
	walk := 200.0
	for i := 0; i < n; i++ {
		walk += 2 * rng.NormFloat64()
		unrelated[i] = walk
	}

	dates := make([]time.Time, n)
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	table, err := pricetable.New(dates, []string{"BASE", "PARTNER", "OTHER"}, map[string]series.Series{
		"BASE":    series.FromValues(base),
		"PARTNER": series.FromValues(partner),
		"OTHER":   series.FromValues(unrelated),
	})
	if err != nil {
		t.Fatalf("pricetable.New() error: %v", err)
	}

	report, err := coint.Scan(context.Background(), table, coint.DefaultScanConfig())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(report.Results) == 0 {
		t.Fatal("scan found no cointegrated pairs in a cointegrated universe")
	}

	top := report.Results[0]
	got := map[string]bool{top.Pair.A: true, top.Pair.B: true}
	if !got["BASE"] || !got["PARTNER"] {
		t.Fatalf("top pair = %v, want BASE/PARTNER", top.Pair)
	}

	pp, err := table.PairPrices(top.Pair.A, top.Pair.B)
	if err != nil {
		t.Fatalf("PairPrices() error: %v", err)
	}

	config := &Config{Data: DataSettings{PricesPath: "unused.csv"}}
	ratio, err := config.GetEstimator().Estimate(pp.A, pp.B)
	if err != nil {
		t.Fatalf("Estimate() error: %v", err)
	}

	sig, err := signal.Generate(pp, ratio, config.GetSignalConfig())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	result, err := NewEngine(config.GetCommissionRate()).Run(pp, ratio, sig)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if ratio.IsStatic() && math.Abs(ratio.Scalar()-1.4) > 0.05 {
		t.Errorf("hedge ratio = %v, want 1.4 within 0.05", ratio.Scalar())
	}
	if len(result.Equity) != pp.Len() {
		t.Errorf("len(Equity) = %v, want %v", len(result.Equity), pp.Len())
	}
	if result.TradeCount == 0 {
		t.Error("TradeCount = 0, want trades on a mean-reverting spread")
	}
	if math.IsNaN(result.SharpeRatio) || math.IsInf(result.SharpeRatio, 0) {
		t.Errorf("SharpeRatio = %v, want finite", result.SharpeRatio)
	}
	if result.MaxDrawdown > 0 {
		t.Errorf("MaxDrawdown = %v, want <= 0", result.MaxDrawdown)
	}
	if result.Equity[len(result.Equity)-1] <= 0 {
		t.Errorf("final equity = %v, want positive", result.Equity[len(result.Equity)-1])
	}
}
