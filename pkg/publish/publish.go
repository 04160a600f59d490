// Package publish pushes scan and backtest results onto a NATS bus so
// downstream consumers (plotting, monitoring) subscribe instead of
// polling result files.
package publish

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/yourusername/statarb-research/pkg/backtest"
	"github.com/yourusername/statarb-research/pkg/coint"
)

// PairMessage is one cointegration scan hit on the wire.
type PairMessage struct {
	SymbolA       string  `json:"symbol_a"`
	SymbolB       string  `json:"symbol_b"`
	PValue        float64 `json:"p_value"`
	TestStatistic float64 `json:"test_statistic"`
	Timestamp     int64   `json:"timestamp"`
}

// BacktestMessage is one backtest summary on the wire.
type BacktestMessage struct {
	SymbolA     string  `json:"symbol_a"`
	SymbolB     string  `json:"symbol_b"`
	TotalReturn float64 `json:"total_return"`
	CAGR        float64 `json:"cagr"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	MaxDrawdown float64 `json:"max_drawdown"`
	TradeCount  int     `json:"trade_count"`
	Timestamp   int64   `json:"timestamp"`
}

// NewPairMessage converts a scan result to its wire form.
func NewPairMessage(r coint.Result) PairMessage {
	return PairMessage{
		SymbolA:       r.Pair.A,
		SymbolB:       r.Pair.B,
		PValue:        r.PValue,
		TestStatistic: r.Statistic,
		Timestamp:     time.Now().UnixMilli(),
	}
}

// NewBacktestMessage converts a backtest result to its wire form.
func NewBacktestMessage(r *backtest.Result) BacktestMessage {
	return BacktestMessage{
		SymbolA:     r.Pair.A,
		SymbolB:     r.Pair.B,
		TotalReturn: r.TotalReturn,
		CAGR:        r.CAGR,
		SharpeRatio: r.SharpeRatio,
		MaxDrawdown: r.MaxDrawdown,
		TradeCount:  r.TradeCount,
		Timestamp:   time.Now().UnixMilli(),
	}
}

// Publisher owns one NATS connection.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials the NATS server.
func Connect(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	if p.conn != nil {
		p.conn.Flush()
		p.conn.Close()
	}
	return nil
}

// PublishPairs sends one JSON message per scan result.
func (p *Publisher) PublishPairs(subject string, results []coint.Result) error {
	for _, r := range results {
		if err := p.publishJSON(subject, NewPairMessage(r)); err != nil {
			return fmt.Errorf("failed to publish pair %s: %w", r.Pair, err)
		}
	}
	return nil
}

// PublishBacktests sends one JSON message per backtest result.
func (p *Publisher) PublishBacktests(subject string, results []*backtest.Result) error {
	for _, r := range results {
		if err := p.publishJSON(subject, NewBacktestMessage(r)); err != nil {
			return fmt.Errorf("failed to publish backtest %s: %w", r.Pair, err)
		}
	}
	return nil
}

func (p *Publisher) publishJSON(subject string, msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return p.conn.Publish(subject, data)
}
