package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the type of a ledger entry.
type Kind string

const (
	KindDeposit  Kind = "DEPOSIT"
	KindWithdraw Kind = "WITHDRAW"
	KindBuy      Kind = "BUY"
	KindSell     Kind = "SELL"
)

// IsValid reports whether k is one of the closed set of entry kinds.
// The aggregation fold is exhaustive over this set; an unknown kind is a
// programming error, never silently skipped.
func (k Kind) IsValid() bool {
	switch k {
	case KindDeposit, KindWithdraw, KindBuy, KindSell:
		return true
	}
	return false
}

// Entry is one immutable ledger record. Entries are write-once: corrections
// happen only through new compensating entries, never by mutation.
//
// ID, Sequence and Timestamp are assigned by the store at commit time and are
// zero on a candidate entry produced by the validator. Sequence is unique and
// gapless per account.
type Entry struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Sequence  uint64          `json:"sequence"`
	Kind      Kind            `json:"kind"`
	Symbol    string          `json:"symbol,omitempty"`
	Shares    decimal.Decimal `json:"shares,omitempty"`
	Price     decimal.Decimal `json:"price,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// CashDelta returns the signed effect of the entry on the account's cash
// balance: deposits and sell proceeds are positive, withdrawals and buy
// costs negative.
func (e Entry) CashDelta() decimal.Decimal {
	switch e.Kind {
	case KindDeposit:
		return e.Amount
	case KindWithdraw:
		return e.Amount.Neg()
	case KindBuy:
		return e.Shares.Mul(e.Price).Neg()
	case KindSell:
		return e.Shares.Mul(e.Price)
	}
	return decimal.Zero
}

// Position is a derived per-symbol holding. It is never stored as ground
// truth; it is recomputed by folding the ledger.
type Position struct {
	Symbol         string          `json:"symbol"`
	Shares         decimal.Decimal `json:"shares"`
	InvestedAmount decimal.Decimal `json:"invested_amount"`
}

// QuantityKind selects how a buy/sell quantity is expressed.
type QuantityKind string

const (
	// QuantityShares means the quantity is a share count.
	QuantityShares QuantityKind = "shares"
	// QuantityAmount means the quantity is a cash amount to be converted to
	// shares at the current price.
	QuantityAmount QuantityKind = "amount"
)

func (q QuantityKind) IsValid() bool {
	return q == QuantityShares || q == QuantityAmount
}
