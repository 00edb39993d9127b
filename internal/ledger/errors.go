package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for conditions that carry no extra state. Business-rule
// errors are terminal: the caller must correct the request, retrying does
// not help.
var (
	// ErrInvalidAmount rejects a non-positive or non-finite quantity or
	// price before any store interaction.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds rejects a withdrawal or purchase that would
	// drive the cash balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUpstreamUnavailable reports that the quote feed failed; the
	// operation is aborted rather than committed at a stale or zero price.
	ErrUpstreamUnavailable = errors.New("quote feed unavailable")

	// ErrNotFound reports an unknown account or symbol on a query.
	ErrNotFound = errors.New("not found")
)

// InsufficientSharesError rejects a sell of more shares than the account
// holds for the symbol.
type InsufficientSharesError struct {
	Symbol    string
	Owned     decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient shares of %s: owned %s, requested %s",
		e.Symbol, e.Owned, e.Requested)
}

// ConflictError is returned by Store.Append when the caller's expected
// version no longer matches the account's latest sequence. It carries the
// actual latest version so the caller can revalidate against fresh state.
type ConflictError struct {
	AccountID       string
	ExpectedVersion uint64
	ActualVersion   uint64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict on account %s: expected %d, actual %d",
		e.AccountID, e.ExpectedVersion, e.ActualVersion)
}

// ErrConflict is surfaced by the commit protocol after its bounded retry
// budget is exhausted while the account keeps advancing underneath it.
var ErrConflict = errors.New("commit conflict: retries exhausted")

// IsBusinessError reports whether err is a terminal, user-correctable
// rejection (as opposed to a transient conflict or upstream failure).
func IsBusinessError(err error) bool {
	var ise *InsufficientSharesError
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.As(err, &ise)
}
