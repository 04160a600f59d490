package publish

import (
	"encoding/json"
	"testing"

	"github.com/yourusername/statarb-research/pkg/backtest"
	"github.com/yourusername/statarb-research/pkg/coint"
	"github.com/yourusername/statarb-research/pkg/pricetable"
)

func TestNewPairMessage(t *testing.T) {
	msg := NewPairMessage(coint.Result{
		Pair:      pricetable.Pair{A: "AAA", B: "BBB"},
		Statistic: -4.1,
		PValue:    0.003,
	})

	if msg.SymbolA != "AAA" || msg.SymbolB != "BBB" {
		t.Errorf("symbols = (%q, %q), want (AAA, BBB)", msg.SymbolA, msg.SymbolB)
	}
	if msg.PValue != 0.003 || msg.TestStatistic != -4.1 {
		t.Errorf("message = %+v", msg)
	}
	if msg.Timestamp <= 0 {
		t.Errorf("Timestamp = %v, want positive", msg.Timestamp)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if decoded["symbol_a"] != "AAA" {
		t.Errorf("wire symbol_a = %v, want AAA", decoded["symbol_a"])
	}
	if _, ok := decoded["p_value"]; !ok {
		t.Error("wire message missing p_value field")
	}
}

func TestNewBacktestMessage(t *testing.T) {
	msg := NewBacktestMessage(&backtest.Result{
		Pair:        pricetable.Pair{A: "AAA", B: "BBB"},
		TotalReturn: 0.12,
		CAGR:        0.08,
		SharpeRatio: 1.3,
		MaxDrawdown: -0.05,
		TradeCount:  9,
	})

	if msg.SymbolA != "AAA" || msg.TradeCount != 9 {
		t.Errorf("message = %+v", msg)
	}
	if msg.SharpeRatio != 1.3 || msg.MaxDrawdown != -0.05 {
		t.Errorf("metrics not carried over: %+v", msg)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if _, ok := decoded["sharpe_ratio"]; !ok {
		t.Error("wire message missing sharpe_ratio field")
	}
}

func TestConnect_BadAddress(t *testing.T) {
	if _, err := Connect("nats://127.0.0.1:1"); err == nil {
		t.Error("Connect to a closed port should fail")
	}
}
