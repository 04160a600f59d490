package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/yourusername/statarb-research/pkg/backtest"
	"github.com/yourusername/statarb-research/pkg/coint"
	"github.com/yourusername/statarb-research/pkg/hedge"
	"github.com/yourusername/statarb-research/pkg/pricetable"
	"github.com/yourusername/statarb-research/pkg/publish"
	"github.com/yourusername/statarb-research/pkg/signal"
)

var (
	configFile = flag.String("config", "config/statarb.yaml", "Configuration file")
	pricesFile = flag.String("prices", "", "Price CSV file (overrides config)")
	pairsFile  = flag.String("pairs", "", "Ranked pairs CSV file (overrides config)")
	estimator  = flag.String("estimator", "", "Hedge ratio estimator: ols, kalman (overrides config)")
	topN       = flag.Int("top", 0, "Number of ranked pairs to backtest (overrides config)")
)

func main() {
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	config, err := backtest.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *pricesFile != "" {
		config.Data.PricesPath = *pricesFile
	}
	if *pairsFile != "" {
		config.Data.PairsPath = *pairsFile
	}
	if *estimator != "" {
		config.Backtest.Estimator = *estimator
	}
	if *topN > 0 {
		config.Backtest.TopPairs = *topN
	}
	if config.Data.PairsPath == "" {
		config.Data.PairsPath = filepath.Join(config.GetResultDir(), "cointegrated_pairs.csv")
	}

	log.Println("========================================")
	log.Println("Pairs Backtester")
	log.Println("========================================")

	table, err := pricetable.LoadCSV(config.Data.PricesPath)
	if err != nil {
		log.Fatalf("Failed to load prices: %v", err)
	}
	pairs, err := coint.LoadResultsCSV(config.Data.PairsPath)
	if err != nil {
		log.Fatalf("Failed to load pairs: %v", err)
	}
	if len(pairs) == 0 {
		log.Fatal("No pairs to backtest")
	}

	limit := config.GetTopPairs()
	if limit > len(pairs) {
		limit = len(pairs)
	}

	est := config.GetEstimator()
	sigCfg := config.GetSignalConfig()
	engine := backtest.NewEngine(config.GetCommissionRate())
	log.Printf("[Backtester] Running top %d pairs, estimator=%s, window=%d, entry=%.2f, exit=%.2f",
		limit, est.Name(), sigCfg.Window, sigCfg.EntryThreshold, sigCfg.ExitThreshold)

	results := make([]*backtest.Result, 0, limit)
	for _, p := range pairs[:limit] {
		result, err := runPair(table, p.Pair, est, sigCfg, engine)
		if err != nil {
			log.Printf("[Backtester] Skipping %s: %v", p.Pair, err)
			continue
		}
		results = append(results, result)
	}
	if len(results) == 0 {
		log.Fatal("All backtests failed")
	}

	backtest.SortBySharpe(results)
	backtest.PrintSummary(os.Stdout, results)

	if err := os.MkdirAll(config.GetResultDir(), 0o755); err != nil {
		log.Fatalf("Failed to create result dir: %v", err)
	}
	outPath := filepath.Join(config.GetResultDir(), fmt.Sprintf("backtest_summary_%s.csv", est.Name()))
	if err := backtest.SaveSummaryCSV(outPath, results); err != nil {
		log.Fatalf("Failed to save summary: %v", err)
	}
	log.Printf("[Backtester] Wrote %s", outPath)

	if config.Publish.NATSAddr != "" {
		publisher, err := publish.Connect(config.Publish.NATSAddr)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer publisher.Close()
		if err := publisher.PublishBacktests(config.GetBacktestSubject(), results); err != nil {
			log.Fatalf("Failed to publish backtests: %v", err)
		}
		log.Printf("[Backtester] Published %d results to %s", len(results), config.GetBacktestSubject())
	}
}

func runPair(table *pricetable.PriceTable, pair pricetable.Pair, est hedge.Estimator,
	sigCfg signal.Config, engine *backtest.Engine) (*backtest.Result, error) {
	pp, err := table.PairPrices(pair.A, pair.B)
	if err != nil {
		return nil, err
	}
	ratio, err := est.Estimate(pp.A, pp.B)
	if err != nil {
		return nil, err
	}
	sig, err := signal.Generate(pp, ratio, sigCfg)
	if err != nil {
		return nil, err
	}
	return engine.Run(pp, ratio, sig)
}
