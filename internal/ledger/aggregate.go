package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// sharesEpsilonPlaces is the internal precision boundary: a position whose
// share count rounds to zero at this many decimal places is treated as flat
// and dropped from the active-positions view. History stays reconstructable
// by replaying the full ledger.
const sharesEpsilonPlaces = 6

// Balance folds the entry sequence into the account's cash balance:
// deposits minus withdrawals minus buy costs plus sell proceeds. The fold is
// deterministic: the same sequence always produces the same result.
func Balance(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.CashDelta())
	}
	return total
}

// Positions folds the entry sequence, in order, into per-symbol holdings.
// Buys add shares and cost; sells remove shares and reduce the invested
// amount proportionally to the fraction of the position sold. Flat positions
// are dropped from the result.
//
// All consumers derive holdings through this single fold; nothing re-derives
// share totals independently.
func Positions(entries []Entry) map[string]Position {
	out := make(map[string]Position)
	for _, e := range entries {
		ApplyToPositions(out, e)
	}
	return out
}

// PositionFor replays the ledger and returns the holding for one symbol.
// A flat or never-held symbol yields a zero-share position.
func PositionFor(entries []Entry, symbol string) Position {
	if p, ok := Positions(entries)[symbol]; ok {
		return p
	}
	return Position{Symbol: symbol, Shares: decimal.Zero, InvestedAmount: decimal.Zero}
}

// ApplyToPositions extends a positions map by a single entry, in place. This
// is the incremental form of the Positions fold used by the synchronizer; by
// construction, folding entry-by-entry equals a full replay.
func ApplyToPositions(positions map[string]Position, e Entry) {
	switch e.Kind {
	case KindBuy:
		p := positions[e.Symbol]
		p.Symbol = e.Symbol
		p.Shares = p.Shares.Add(e.Shares)
		p.InvestedAmount = p.InvestedAmount.Add(e.Shares.Mul(e.Price))
		positions[e.Symbol] = p
	case KindSell:
		p, ok := positions[e.Symbol]
		if !ok {
			return
		}
		previous := p.Shares
		p.Shares = p.Shares.Sub(e.Shares)
		if previous.IsPositive() {
			p.InvestedAmount = p.InvestedAmount.Mul(p.Shares).Div(previous)
		}
		if p.Shares.Round(sharesEpsilonPlaces).IsZero() {
			delete(positions, e.Symbol)
			return
		}
		positions[e.Symbol] = p
	}
}

// SortedPositions flattens a positions map into a slice ordered by symbol,
// for stable presentation.
func SortedPositions(positions map[string]Position) []Position {
	out := make([]Position, 0, len(positions))
	for _, p := range positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
