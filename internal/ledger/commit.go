package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// SubmissionState tracks a candidate entry through the commit protocol.
type SubmissionState string

const (
	StateValidated  SubmissionState = "VALIDATED"
	StateSubmitting SubmissionState = "SUBMITTING"
	StateCommitted  SubmissionState = "COMMITTED"
	StateConflict   SubmissionState = "CONFLICT"
	StateRejected   SubmissionState = "REJECTED"
)

const (
	// maxCommitAttempts bounds the conflict retry loop. Retry exhaustion
	// surfaces as ErrConflict; the caller may retry at a higher level.
	maxCommitAttempts = 5
	backoffStep       = 10 * time.Millisecond
	backoffJitter     = 10 * time.Millisecond
)

// ProposeFunc re-runs the order validator against the current aggregate and
// returns a fresh candidate with the version it validated against.
type ProposeFunc func(ctx context.Context) (Proposal, error)

// Submitter drives the commit protocol: optimistic-concurrency append with
// revalidation on conflict. Two concurrent submissions that would jointly
// overdraw can never both commit; the loser revalidates against post-commit
// state and is rejected deterministically if the resource is exhausted.
type Submitter struct {
	store Store
	log   *slog.Logger
}

func NewSubmitter(store Store, log *slog.Logger) *Submitter {
	if log == nil {
		log = slog.Default()
	}
	return &Submitter{store: store, log: log}
}

// Submit validates and appends one entry. Business-rule rejections
// (insufficient funds/shares, invalid amounts) are terminal and returned
// as-is; version conflicts are retried with fresh validation up to the
// attempt budget, then reported as ErrConflict.
//
// An individual append is atomic: it either commits or fails with no
// partial effects, so Submit never leaves the ledger half-written.
func (s *Submitter) Submit(ctx context.Context, accountID string, propose ProposeFunc) (Entry, error) {
	state := StateValidated

	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		proposal, err := propose(ctx)
		if err != nil {
			// A conflict forced revalidation, and the resource turned out
			// to be exhausted: report the business reason, not the
			// conflict.
			s.transition(accountID, state, StateRejected, attempt)
			return Entry{}, err
		}
		state = StateValidated

		s.transition(accountID, state, StateSubmitting, attempt)
		state = StateSubmitting

		committed, err := s.store.Append(ctx, accountID, proposal.Entry, proposal.Version)
		if err == nil {
			s.transition(accountID, state, StateCommitted, attempt)
			return committed, nil
		}

		var conflict *ConflictError
		if !errors.As(err, &conflict) {
			s.transition(accountID, state, StateRejected, attempt)
			return Entry{}, fmt.Errorf("append entry: %w", err)
		}

		s.transition(accountID, state, StateConflict, attempt)
		state = StateConflict

		if attempt < maxCommitAttempts-1 {
			select {
			case <-time.After(backoff(attempt)):
			case <-ctx.Done():
				return Entry{}, ctx.Err()
			}
		}
	}

	s.transition(accountID, state, StateRejected, maxCommitAttempts)
	return Entry{}, fmt.Errorf("account %s after %d attempts: %w", accountID, maxCommitAttempts, ErrConflict)
}

func backoff(attempt int) time.Duration {
	return time.Duration(attempt+1)*backoffStep + time.Duration(rand.Int63n(int64(backoffJitter)))
}

func (s *Submitter) transition(accountID string, from, to SubmissionState, attempt int) {
	s.log.Debug("commit transition",
		"account", accountID,
		"from", string(from),
		"to", string(to),
		"attempt", attempt,
	)
}
