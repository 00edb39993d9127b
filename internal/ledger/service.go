package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Auditor receives one payload per committed entry. Matched by
// audit.ChainLogger.
type Auditor interface {
	Append(payload string) string
}

// Service is the engine's command and query facade. Every command is a
// validate-then-commit round trip through the Submitter; queries replay the
// ledger through the single aggregation fold.
type Service struct {
	store     Store
	validator *Validator
	submitter *Submitter
	auditor   Auditor
	log       *slog.Logger
}

func NewService(store Store, validator *Validator, auditor Auditor, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:     store,
		validator: validator,
		submitter: NewSubmitter(store, log),
		auditor:   auditor,
		log:       log,
	}
}

// Deposit adds cash to the account.
func (s *Service) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (Entry, error) {
	return s.submit(ctx, accountID, func(ctx context.Context) (Proposal, error) {
		return s.validator.ProposeDeposit(ctx, accountID, amount)
	})
}

// Withdraw removes cash from the account, never below zero.
func (s *Service) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (Entry, error) {
	return s.submit(ctx, accountID, func(ctx context.Context) (Proposal, error) {
		return s.validator.ProposeWithdraw(ctx, accountID, amount)
	})
}

// Buy purchases shares of symbol at the current quote. The quantity is a
// share count or a cash amount depending on kind.
func (s *Service) Buy(ctx context.Context, accountID, symbol string, quantity decimal.Decimal, kind QuantityKind) (Entry, error) {
	return s.submit(ctx, accountID, func(ctx context.Context) (Proposal, error) {
		return s.validator.ProposeBuy(ctx, accountID, symbol, quantity, kind)
	})
}

// Sell disposes of shares of symbol at the current quote, never more than
// the account holds.
func (s *Service) Sell(ctx context.Context, accountID, symbol string, quantity decimal.Decimal, kind QuantityKind) (Entry, error) {
	return s.submit(ctx, accountID, func(ctx context.Context) (Proposal, error) {
		return s.validator.ProposeSell(ctx, accountID, symbol, quantity, kind)
	})
}

func (s *Service) submit(ctx context.Context, accountID string, propose ProposeFunc) (Entry, error) {
	committed, err := s.submitter.Submit(ctx, accountID, propose)
	if err != nil {
		s.log.Info("command rejected", "account", accountID, "error", err)
		return Entry{}, err
	}

	if s.auditor != nil {
		s.auditor.Append(fmt.Sprintf("%s|%s|%d|%s", committed.AccountID, committed.Kind, committed.Sequence, committed.Amount))
	}

	s.log.Info("entry committed",
		"account", committed.AccountID,
		"kind", string(committed.Kind),
		"sequence", committed.Sequence,
		"amount", committed.Amount.String(),
	)
	return committed, nil
}

// GetBalance replays the ledger and returns the cash balance.
func (s *Service) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	entries, err := s.store.Read(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read ledger: %w", err)
	}
	return Balance(entries), nil
}

// GetPositions replays the ledger and returns active holdings, ordered by
// symbol. Flat positions are absent.
func (s *Service) GetPositions(ctx context.Context, accountID string) ([]Position, error) {
	entries, err := s.store.Read(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return SortedPositions(Positions(entries)), nil
}

// GetPosition returns the holding for a single symbol. A symbol the account
// never traded is NotFound.
func (s *Service) GetPosition(ctx context.Context, accountID, symbol string) (Position, error) {
	entries, err := s.store.Read(ctx, accountID)
	if err != nil {
		return Position{}, fmt.Errorf("read ledger: %w", err)
	}
	for _, e := range entries {
		if e.Symbol == symbol {
			return PositionFor(entries, symbol), nil
		}
	}
	return Position{}, fmt.Errorf("position %s for account %s: %w", symbol, accountID, ErrNotFound)
}

// GetSnapshot replays the ledger once and returns the version, balance, and
// holdings together, consistent with each other.
func (s *Service) GetSnapshot(ctx context.Context, accountID string) (Snapshot, error) {
	entries, err := s.store.Read(ctx, accountID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read ledger: %w", err)
	}
	return Snapshot{
		Version:   uint64(len(entries)),
		Balance:   Balance(entries),
		Positions: SortedPositions(Positions(entries)),
	}, nil
}

// GetHistory returns the full ordered entry list, flat positions included,
// for statements and audits.
func (s *Service) GetHistory(ctx context.Context, accountID string) ([]Entry, error) {
	entries, err := s.store.Read(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return entries, nil
}

// Subscribe opens a stream of committed entries for the account.
func (s *Service) Subscribe(ctx context.Context, accountID string) (*Subscription, error) {
	return s.store.Subscribe(ctx, accountID)
}

// NewView starts a realtime materialized view of the account, kept in sync
// via subscription.
func (s *Service) NewView(ctx context.Context, accountID string) (*View, error) {
	return NewView(ctx, s.store, accountID)
}
