package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/brokerage-ledger/internal/quotes"
)

func testValidator(t *testing.T, prices map[string]decimal.Decimal) (*Validator, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return NewValidator(store, quotes.NewStatic(prices)), store
}

func mustAppend(t *testing.T, store *MemoryStore, accountID string, e Entry, version uint64) Entry {
	t.Helper()
	committed, err := store.Append(context.Background(), accountID, e, version)
	require.NoError(t, err)
	return committed
}

func TestProposeDepositRejectsNonPositiveAmount(t *testing.T) {
	v, _ := testValidator(t, nil)

	for _, amount := range []string{"0", "-1", "-0.01"} {
		_, err := v.ProposeDeposit(context.Background(), "acct-1", dec(amount))
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %s", amount)
	}
}

func TestProposeDepositCarriesCurrentVersion(t *testing.T) {
	v, store := testValidator(t, nil)
	mustAppend(t, store, "acct-1", Entry{Kind: KindDeposit, Amount: dec("100")}, 0)

	proposal, err := v.ProposeDeposit(context.Background(), "acct-1", dec("50"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), proposal.Version)
	assert.Equal(t, KindDeposit, proposal.Entry.Kind)
	assert.True(t, proposal.Entry.Amount.Equal(dec("50")))
}

func TestProposeWithdrawRejectsOverdraw(t *testing.T) {
	v, store := testValidator(t, nil)
	mustAppend(t, store, "acct-1", Entry{Kind: KindDeposit, Amount: dec("1200")}, 0)

	_, err := v.ProposeWithdraw(context.Background(), "acct-1", dec("2000"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestProposeWithdrawExactBalanceAllowed(t *testing.T) {
	v, store := testValidator(t, nil)
	mustAppend(t, store, "acct-1", Entry{Kind: KindDeposit, Amount: dec("1200")}, 0)

	proposal, err := v.ProposeWithdraw(context.Background(), "acct-1", dec("1200"))
	require.NoError(t, err)
	assert.Equal(t, KindWithdraw, proposal.Entry.Kind)
	assert.Equal(t, uint64(1), proposal.Version)
}

// TestProposeBuyAmountKindConvertsToShares verifies the amount-to-shares
// conversion at the quoted price.
func TestProposeBuyAmountKindConvertsToShares(t *testing.T) {
	v, store := testValidator(t, map[string]decimal.Decimal{"AAPL": dec("150")})
	mustAppend(t, store, "acct-1", Entry{Kind: KindDeposit, Amount: dec("1500")}, 0)

	proposal, err := v.ProposeBuy(context.Background(), "acct-1", "AAPL", dec("300"), QuantityAmount)
	require.NoError(t, err)

	assert.True(t, proposal.Entry.Shares.Equal(dec("2")), "got %s", proposal.Entry.Shares)
	assert.True(t, proposal.Entry.Price.Equal(dec("150")))
	assert.True(t, proposal.Entry.Amount.Equal(dec("300")))
}

func TestProposeBuySharesKind(t *testing.T) {
	v, store := testValidator(t, map[string]decimal.Decimal{"AAPL": dec("150")})
	mustAppend(t, store, "acct-1", Entry{Kind: KindDeposit, Amount: dec("1500")}, 0)

	proposal, err := v.ProposeBuy(context.Background(), "acct-1", "AAPL", dec("2"), QuantityShares)
	require.NoError(t, err)
	assert.True(t, proposal.Entry.Shares.Equal(dec("2")))
	assert.True(t, proposal.Entry.Amount.Equal(dec("300")))
}

func TestProposeBuyRejectsInsufficientFunds(t *testing.T) {
	v, store := testValidator(t, map[string]decimal.Decimal{"AAPL": dec("150")})
	mustAppend(t, store, "acct-1", Entry{Kind: KindDeposit, Amount: dec("100")}, 0)

	_, err := v.ProposeBuy(context.Background(), "acct-1", "AAPL", dec("1"), QuantityShares)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestProposeBuyRejectsInvalidQuantityKind(t *testing.T) {
	v, _ := testValidator(t, map[string]decimal.Decimal{"AAPL": dec("150")})

	_, err := v.ProposeBuy(context.Background(), "acct-1", "AAPL", dec("1"), QuantityKind("lots"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestProposeBuyQuoteFailureAborts(t *testing.T) {
	v, store := testValidator(t, nil) // empty feed: every symbol unknown
	mustAppend(t, store, "acct-1", Entry{Kind: KindDeposit, Amount: dec("1000")}, 0)

	_, err := v.ProposeBuy(context.Background(), "acct-1", "AAPL", dec("1"), QuantityShares)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestProposeBuyRejectsNonPositiveQuote(t *testing.T) {
	v, store := testValidator(t, map[string]decimal.Decimal{"DEAD": decimal.Zero})
	mustAppend(t, store, "acct-1", Entry{Kind: KindDeposit, Amount: dec("1000")}, 0)

	_, err := v.ProposeBuy(context.Background(), "acct-1", "DEAD", dec("1"), QuantityShares)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

// TestProposeSellRejectsOversell verifies the rejection carries the owned and
// requested share counts.
func TestProposeSellRejectsOversell(t *testing.T) {
	v, store := testValidator(t, map[string]decimal.Decimal{"AAPL": dec("160")})
	mustAppend(t, store, "acct-1", Entry{Kind: KindDeposit, Amount: dec("1500")}, 0)
	mustAppend(t, store, "acct-1", buy(0, "AAPL", "1", "150"), 1)

	_, err := v.ProposeSell(context.Background(), "acct-1", "AAPL", dec("5"), QuantityShares)

	var ise *InsufficientSharesError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, "AAPL", ise.Symbol)
	assert.True(t, ise.Owned.Equal(dec("1")), "owned %s", ise.Owned)
	assert.True(t, ise.Requested.Equal(dec("5")), "requested %s", ise.Requested)
}

func TestProposeSellNeverHeldSymbol(t *testing.T) {
	v, store := testValidator(t, map[string]decimal.Decimal{"NVDA": dec("500")})
	mustAppend(t, store, "acct-1", Entry{Kind: KindDeposit, Amount: dec("1000")}, 0)

	_, err := v.ProposeSell(context.Background(), "acct-1", "NVDA", dec("1"), QuantityShares)

	var ise *InsufficientSharesError
	require.ErrorAs(t, err, &ise)
	assert.True(t, ise.Owned.IsZero())
}

// TestProposeSellProceedsAtCurrentQuote verifies proceeds use the current
// quote, not the purchase price.
func TestProposeSellProceedsAtCurrentQuote(t *testing.T) {
	v, store := testValidator(t, map[string]decimal.Decimal{"AAPL": dec("160")})
	mustAppend(t, store, "acct-1", Entry{Kind: KindDeposit, Amount: dec("1500")}, 0)
	mustAppend(t, store, "acct-1", buy(0, "AAPL", "2", "150"), 1)

	proposal, err := v.ProposeSell(context.Background(), "acct-1", "AAPL", dec("1"), QuantityShares)
	require.NoError(t, err)
	assert.True(t, proposal.Entry.Price.Equal(dec("160")))
	assert.True(t, proposal.Entry.Amount.Equal(dec("160")))
	assert.Equal(t, uint64(2), proposal.Version)
}

func TestBusinessErrorClassification(t *testing.T) {
	assert.True(t, IsBusinessError(ErrInvalidAmount))
	assert.True(t, IsBusinessError(ErrInsufficientFunds))
	assert.True(t, IsBusinessError(&InsufficientSharesError{Symbol: "X"}))
	assert.False(t, IsBusinessError(ErrUpstreamUnavailable))
	assert.False(t, IsBusinessError(ErrConflict))
	assert.False(t, IsBusinessError(errors.New("boom")))
}
