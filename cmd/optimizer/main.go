package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/yourusername/statarb-research/pkg/backtest"
	"github.com/yourusername/statarb-research/pkg/pricetable"
)

var (
	configFile = flag.String("config", "config/statarb.yaml", "Configuration file")
	pricesFile = flag.String("prices", "", "Price CSV file (overrides config)")
	symbolA    = flag.String("a", "", "First instrument of the pair")
	symbolB    = flag.String("b", "", "Second instrument of the pair")
	workers    = flag.Int("workers", 0, "Number of parallel workers (overrides config)")
)

func main() {
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if *symbolA == "" || *symbolB == "" {
		log.Fatal("Both -a and -b are required (e.g. -a STOCK_A -b STOCK_B)")
	}

	config, err := backtest.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *pricesFile != "" {
		config.Data.PricesPath = *pricesFile
	}

	optCfg := config.GetOptimizerConfig()
	if *workers > 0 {
		optCfg.MaxWorkers = *workers
	}

	log.Println("========================================")
	log.Println("Signal Parameter Optimizer")
	log.Println("========================================")

	table, err := pricetable.LoadCSV(config.Data.PricesPath)
	if err != nil {
		log.Fatalf("Failed to load prices: %v", err)
	}
	pp, err := table.PairPrices(*symbolA, *symbolB)
	if err != nil {
		log.Fatalf("Failed to align pair: %v", err)
	}
	log.Printf("[Optimizer] %s: %d overlapping observations, grid %dx%d",
		pp.Pair, pp.Len(), len(optCfg.Windows), len(optCfg.Thresholds))

	ratio, err := config.GetEstimator().Estimate(pp.A, pp.B)
	if err != nil {
		log.Fatalf("Failed to estimate hedge ratio: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt, err := backtest.Optimize(ctx, pp, ratio, optCfg)
	if err != nil {
		log.Fatalf("Optimization failed: %v", err)
	}

	backtest.PrintGrid(os.Stdout, opt)

	if err := os.MkdirAll(config.GetResultDir(), 0o755); err != nil {
		log.Fatalf("Failed to create result dir: %v", err)
	}
	outPath := filepath.Join(config.GetResultDir(),
		fmt.Sprintf("optimize_%s_%s.csv", pp.Pair.A, pp.Pair.B))
	if err := backtest.SaveGridCSV(outPath, opt); err != nil {
		log.Fatalf("Failed to save grid: %v", err)
	}
	log.Printf("[Optimizer] Wrote %s", outPath)
}
