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
	"github.com/yourusername/statarb-research/pkg/coint"
	"github.com/yourusername/statarb-research/pkg/pricetable"
	"github.com/yourusername/statarb-research/pkg/publish"
	"github.com/yourusername/statarb-research/pkg/series"
	"github.com/yourusername/statarb-research/pkg/stats"
)

var (
	configFile = flag.String("config", "config/statarb.yaml", "Configuration file")
	pricesFile = flag.String("prices", "", "Price CSV file (overrides config)")
	threshold  = flag.Float64("pvalue", 0, "P-value threshold (overrides config)")
	topN       = flag.Int("top", 10, "Number of top pairs to print")
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

	scanCfg := config.GetScanConfig()
	if *threshold > 0 {
		scanCfg.PValueThreshold = *threshold
	}

	log.Println("========================================")
	log.Println("Cointegration Pair Scanner")
	log.Println("========================================")

	table, err := pricetable.LoadCSV(config.Data.PricesPath)
	if err != nil {
		log.Fatalf("Failed to load prices: %v", err)
	}
	log.Printf("[Scanner] Loaded %d symbols over %d dates from %s",
		table.NumSymbols(), table.NumDates(), config.Data.PricesPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := coint.Scan(ctx, table, scanCfg)
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}
	log.Printf("[Scanner] Tested %d pairs, skipped %d, found %d below p=%.3f",
		report.Tested, report.Skipped, len(report.Results), scanCfg.PValueThreshold)

	limit := *topN
	if limit > len(report.Results) {
		limit = len(report.Results)
	}
	fmt.Printf("%-10s %-10s %10s %12s %8s\n", "symbol_a", "symbol_b", "p_value", "statistic", "corr")
	for _, r := range report.Results[:limit] {
		fmt.Printf("%-10s %-10s %10.6f %12.4f %8.4f\n",
			r.Pair.A, r.Pair.B, r.PValue, r.Statistic, returnCorrelation(table, r.Pair))
	}

	if err := os.MkdirAll(config.GetResultDir(), 0o755); err != nil {
		log.Fatalf("Failed to create result dir: %v", err)
	}
	outPath := filepath.Join(config.GetResultDir(), "cointegrated_pairs.csv")
	if err := coint.SaveResultsCSV(outPath, report.Results); err != nil {
		log.Fatalf("Failed to save results: %v", err)
	}
	log.Printf("[Scanner] Wrote %s", outPath)

	publishResults(config, report)
}

// returnCorrelation reports how tightly the two legs' daily returns
// co-move over their overlapping history.
func returnCorrelation(table *pricetable.PriceTable, pair pricetable.Pair) float64 {
	pp, err := table.PairPrices(pair.A, pair.B)
	if err != nil {
		return 0
	}
	returnsA := series.PctChange(pp.A).DefinedValues()
	returnsB := series.PctChange(pp.B).DefinedValues()
	return stats.Correlation(returnsA, returnsB)
}

func publishResults(config *backtest.Config, report *coint.ScanReport) {
	if config.Publish.NATSAddr != "" {
		publisher, err := publish.Connect(config.Publish.NATSAddr)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer publisher.Close()
		if err := publisher.PublishPairs(config.GetPairsSubject(), report.Results); err != nil {
			log.Fatalf("Failed to publish pairs: %v", err)
		}
		log.Printf("[Scanner] Published %d pairs to %s", len(report.Results), config.GetPairsSubject())
	}
}
