package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/example/brokerage-ledger/internal/quotes"
)

// Proposal is a validated candidate entry together with the ledger version
// the validation read. The commit protocol passes Version as the expected
// version to Append, which is what makes the validation snapshot-consistent:
// if anything committed in between, the append conflicts instead of
// committing an entry checked against stale state.
type Proposal struct {
	Entry   Entry
	Version uint64
}

// Validator computes candidate entries and checks them against the current
// aggregate before submission. It never mutates the store.
type Validator struct {
	store  Store
	quotes quotes.Source
}

func NewValidator(store Store, quotes quotes.Source) *Validator {
	return &Validator{store: store, quotes: quotes}
}

// ProposeDeposit validates a cash deposit. Deposits cannot overdraw, so only
// the amount itself is checked.
func (v *Validator) ProposeDeposit(ctx context.Context, accountID string, amount decimal.Decimal) (Proposal, error) {
	if !amount.IsPositive() {
		return Proposal{}, fmt.Errorf("deposit of %s: %w", amount, ErrInvalidAmount)
	}

	version, err := v.store.Version(ctx, accountID)
	if err != nil {
		return Proposal{}, fmt.Errorf("read version: %w", err)
	}

	return Proposal{
		Entry:   Entry{AccountID: accountID, Kind: KindDeposit, Amount: amount},
		Version: version,
	}, nil
}

// ProposeWithdraw validates a cash withdrawal against the balance at the
// current version.
func (v *Validator) ProposeWithdraw(ctx context.Context, accountID string, amount decimal.Decimal) (Proposal, error) {
	if !amount.IsPositive() {
		return Proposal{}, fmt.Errorf("withdrawal of %s: %w", amount, ErrInvalidAmount)
	}

	entries, err := v.store.Read(ctx, accountID)
	if err != nil {
		return Proposal{}, fmt.Errorf("read ledger: %w", err)
	}

	if amount.GreaterThan(Balance(entries)) {
		return Proposal{}, ErrInsufficientFunds
	}

	return Proposal{
		Entry:   Entry{AccountID: accountID, Kind: KindWithdraw, Amount: amount},
		Version: uint64(len(entries)),
	}, nil
}

// ProposeBuy resolves the requested quantity to a share count at the current
// quote and validates the cost against the balance at the current version.
func (v *Validator) ProposeBuy(ctx context.Context, accountID, symbol string, quantity decimal.Decimal, kind QuantityKind) (Proposal, error) {
	shares, price, err := v.resolveShares(ctx, symbol, quantity, kind)
	if err != nil {
		return Proposal{}, err
	}

	entries, err := v.store.Read(ctx, accountID)
	if err != nil {
		return Proposal{}, fmt.Errorf("read ledger: %w", err)
	}

	cost := shares.Mul(price)
	if cost.GreaterThan(Balance(entries)) {
		return Proposal{}, ErrInsufficientFunds
	}

	return Proposal{
		Entry: Entry{
			AccountID: accountID,
			Kind:      KindBuy,
			Symbol:    symbol,
			Shares:    shares,
			Price:     price,
			Amount:    cost,
		},
		Version: uint64(len(entries)),
	}, nil
}

// ProposeSell resolves the requested quantity and validates it against the
// holding at the current version. Proceeds are computed at the current quote
// regardless of original purchase price.
func (v *Validator) ProposeSell(ctx context.Context, accountID, symbol string, quantity decimal.Decimal, kind QuantityKind) (Proposal, error) {
	shares, price, err := v.resolveShares(ctx, symbol, quantity, kind)
	if err != nil {
		return Proposal{}, err
	}

	entries, err := v.store.Read(ctx, accountID)
	if err != nil {
		return Proposal{}, fmt.Errorf("read ledger: %w", err)
	}

	owned := PositionFor(entries, symbol).Shares
	if shares.GreaterThan(owned) {
		return Proposal{}, &InsufficientSharesError{Symbol: symbol, Owned: owned, Requested: shares}
	}

	return Proposal{
		Entry: Entry{
			AccountID: accountID,
			Kind:      KindSell,
			Symbol:    symbol,
			Shares:    shares,
			Price:     price,
			Amount:    shares.Mul(price),
		},
		Version: uint64(len(entries)),
	}, nil
}

// resolveShares fetches the current quote and converts an amount-denominated
// quantity into shares. A failed quote fetch aborts the whole operation.
func (v *Validator) resolveShares(ctx context.Context, symbol string, quantity decimal.Decimal, kind QuantityKind) (shares, price decimal.Decimal, err error) {
	if !kind.IsValid() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("quantity kind %q: %w", kind, ErrInvalidAmount)
	}
	if !quantity.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("quantity %s: %w", quantity, ErrInvalidAmount)
	}

	price, err = v.quotes.Price(ctx, symbol)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("quote %s: %w: %v", symbol, ErrUpstreamUnavailable, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("quote %s at %s: %w", symbol, price, ErrInvalidAmount)
	}

	shares = quantity
	if kind == QuantityAmount {
		shares = quantity.Div(price)
	}
	return shares, price, nil
}
