package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func deposit(seq uint64, amount string) Entry {
	return Entry{Sequence: seq, Kind: KindDeposit, Amount: dec(amount)}
}

func withdraw(seq uint64, amount string) Entry {
	return Entry{Sequence: seq, Kind: KindWithdraw, Amount: dec(amount)}
}

func buy(seq uint64, symbol, shares, price string) Entry {
	return Entry{
		Sequence: seq,
		Kind:     KindBuy,
		Symbol:   symbol,
		Shares:   dec(shares),
		Price:    dec(price),
		Amount:   dec(shares).Mul(dec(price)),
	}
}

func sell(seq uint64, symbol, shares, price string) Entry {
	return Entry{
		Sequence: seq,
		Kind:     KindSell,
		Symbol:   symbol,
		Shares:   dec(shares),
		Price:    dec(price),
		Amount:   dec(shares).Mul(dec(price)),
	}
}

// TestBalanceFold verifies the cash fold over all four entry kinds.
func TestBalanceFold(t *testing.T) {
	entries := []Entry{
		deposit(1, "1000"),
		deposit(2, "500"),
		buy(3, "AAPL", "2", "150"),
		sell(4, "AAPL", "1", "160"),
		withdraw(5, "100"),
	}

	// 1000 + 500 - 300 + 160 - 100
	assert.True(t, Balance(entries).Equal(dec("1260")),
		"got %s", Balance(entries))
}

func TestBalanceEmptyLedgerIsZero(t *testing.T) {
	assert.True(t, Balance(nil).IsZero())
}

// TestBalanceDeterministic verifies that replaying the same sequence always
// produces the same result.
func TestBalanceDeterministic(t *testing.T) {
	entries := []Entry{
		deposit(1, "999.99"),
		buy(2, "MSFT", "3.333333", "299.99"),
		sell(3, "MSFT", "1.111111", "310.55"),
	}

	first := Balance(entries)
	for i := 0; i < 10; i++ {
		assert.True(t, Balance(entries).Equal(first))
	}
}

func TestPositionsAccumulateBuys(t *testing.T) {
	entries := []Entry{
		deposit(1, "10000"),
		buy(2, "AAPL", "2", "150"),
		buy(3, "AAPL", "1", "180"),
		buy(4, "MSFT", "5", "300"),
	}

	positions := Positions(entries)
	require.Len(t, positions, 2)

	aapl := positions["AAPL"]
	assert.True(t, aapl.Shares.Equal(dec("3")))
	assert.True(t, aapl.InvestedAmount.Equal(dec("480")))

	msft := positions["MSFT"]
	assert.True(t, msft.Shares.Equal(dec("5")))
	assert.True(t, msft.InvestedAmount.Equal(dec("1500")))
}

// TestPositionsProportionalReduction verifies that selling part of a position
// reduces the invested amount by the fraction sold, independent of the sale
// price.
func TestPositionsProportionalReduction(t *testing.T) {
	entries := []Entry{
		deposit(1, "1500"),
		buy(2, "AAPL", "2", "150"),
		sell(3, "AAPL", "1", "160"),
	}

	p := Positions(entries)["AAPL"]
	assert.True(t, p.Shares.Equal(dec("1")), "got %s", p.Shares)
	assert.True(t, p.InvestedAmount.Equal(dec("150")), "got %s", p.InvestedAmount)
}

// TestPositionsSellToFlatRemovesSymbol verifies that a fully sold position
// disappears from the active view while the entries remain replayable.
func TestPositionsSellToFlatRemovesSymbol(t *testing.T) {
	entries := []Entry{
		deposit(1, "1000"),
		buy(2, "TSLA", "2", "200"),
		sell(3, "TSLA", "2", "210"),
	}

	positions := Positions(entries)
	_, ok := positions["TSLA"]
	assert.False(t, ok, "flat position should be dropped")

	// The fold still accounts for the trades in cash.
	assert.True(t, Balance(entries).Equal(dec("1020")))
}

// TestPositionsEpsilonResidueDropped verifies that a residual share count
// smaller than the precision boundary is treated as flat.
func TestPositionsEpsilonResidueDropped(t *testing.T) {
	entries := []Entry{
		deposit(1, "1000"),
		buy(2, "VT", "1", "100"),
		sell(3, "VT", "0.9999999999", "100"),
	}

	positions := Positions(entries)
	_, ok := positions["VT"]
	assert.False(t, ok, "residue below 1e-6 should be dropped")
}

func TestPositionsResidueAboveEpsilonKept(t *testing.T) {
	entries := []Entry{
		deposit(1, "1000"),
		buy(2, "VT", "1", "100"),
		sell(3, "VT", "0.9", "100"),
	}

	p, ok := Positions(entries)["VT"]
	require.True(t, ok)
	assert.True(t, p.Shares.Equal(dec("0.1")))
}

// TestApplyToPositionsMatchesFullReplay verifies that extending the fold one
// entry at a time converges to the same state as a full replay.
func TestApplyToPositionsMatchesFullReplay(t *testing.T) {
	entries := []Entry{
		deposit(1, "5000"),
		buy(2, "AAPL", "3", "150"),
		buy(3, "MSFT", "2", "300"),
		sell(4, "AAPL", "1", "155"),
		buy(5, "AAPL", "0.5", "160"),
		sell(6, "MSFT", "2", "310"),
	}

	incremental := make(map[string]Position)
	for _, e := range entries {
		ApplyToPositions(incremental, e)
	}

	full := Positions(entries)
	require.Equal(t, len(full), len(incremental))
	for sym, want := range full {
		got, ok := incremental[sym]
		require.True(t, ok, "missing %s", sym)
		assert.True(t, got.Shares.Equal(want.Shares))
		assert.True(t, got.InvestedAmount.Equal(want.InvestedAmount))
	}
}

func TestPositionForUnknownSymbolIsFlat(t *testing.T) {
	entries := []Entry{deposit(1, "100")}

	p := PositionFor(entries, "NVDA")
	assert.Equal(t, "NVDA", p.Symbol)
	assert.True(t, p.Shares.IsZero())
	assert.True(t, p.InvestedAmount.IsZero())
}

func TestSortedPositionsOrderedBySymbol(t *testing.T) {
	positions := map[string]Position{
		"MSFT": {Symbol: "MSFT", Shares: dec("1")},
		"AAPL": {Symbol: "AAPL", Shares: dec("2")},
		"GOOG": {Symbol: "GOOG", Shares: dec("3")},
	}

	sorted := SortedPositions(positions)
	require.Len(t, sorted, 3)
	assert.Equal(t, "AAPL", sorted[0].Symbol)
	assert.Equal(t, "GOOG", sorted[1].Symbol)
	assert.Equal(t, "MSFT", sorted[2].Symbol)
}

func TestCashDeltaPerKind(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"deposit adds", deposit(1, "250"), "250"},
		{"withdraw subtracts", withdraw(1, "75"), "-75"},
		{"buy costs shares times price", buy(1, "AAPL", "2", "150"), "-300"},
		{"sell credits shares times price", sell(1, "AAPL", "2", "160"), "320"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.entry.CashDelta().Equal(dec(tt.want)),
				"got %s", tt.entry.CashDelta())
		})
	}
}

func TestKindIsValid(t *testing.T) {
	for _, k := range []Kind{KindDeposit, KindWithdraw, KindBuy, KindSell} {
		assert.True(t, k.IsValid())
	}
	assert.False(t, Kind("TRANSFER").IsValid())
	assert.False(t, Kind("").IsValid())
}
