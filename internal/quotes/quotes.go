// Package quotes supplies current prices for symbols. The feed is a
// read-only external collaborator: it may be stale or unavailable, and the
// ledger engine treats a failed fetch as a reason to abort an order rather
// than commit it at a stale or zero price.
package quotes

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrUnknownSymbol reports that the feed has no quote for the symbol.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Source returns the current price for a symbol.
type Source interface {
	Price(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Static is a fixed in-memory price table, used by tests and the local demo
// wiring. Safe for concurrent use.
type Static struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

func NewStatic(prices map[string]decimal.Decimal) *Static {
	cp := make(map[string]decimal.Decimal, len(prices))
	for sym, p := range prices {
		cp[sym] = p
	}
	return &Static{prices: cp}
}

func (s *Static) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prices[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return p, nil
}

// Set updates or adds a quote.
func (s *Static) Set(symbol string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[symbol] = price
}
