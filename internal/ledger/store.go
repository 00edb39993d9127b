package ledger

import (
	"context"
)

// Store is the durability contract the engine is built against. An account's
// ledger is an append-only sequence of immutable entries; the per-account
// (entries, latestVersion) pair is the only mutable shared state, and only
// Append moves it, through the expected-version check.
type Store interface {
	// Append commits candidate if expectedVersion equals the account's
	// current latest sequence, assigning ID, Sequence and Timestamp, and
	// returns the committed entry. On a version mismatch it returns a
	// *ConflictError carrying the actual latest version and appends
	// nothing. There are no partial effects: the entry either commits
	// atomically or not at all.
	Append(ctx context.Context, accountID string, candidate Entry, expectedVersion uint64) (Entry, error)

	// Read returns the account's full entry history in ascending sequence
	// order. It is safe to call repeatedly for full replay and never blocks
	// behind writers.
	Read(ctx context.Context, accountID string) ([]Entry, error)

	// Version returns the account's latest committed sequence (0 for an
	// account with no entries).
	Version(ctx context.Context, accountID string) (uint64, error)

	// Subscribe delivers committed entries for the account in commit order,
	// at least once. Consumers must dedup by sequence; a buffer overflow may
	// produce a gap, which consumers heal with a full Read.
	Subscribe(ctx context.Context, accountID string) (*Subscription, error)
}

// Subscription is a cancellable stream of committed entries. Tearing it down
// releases resources immediately and has no effect on the store.
type Subscription struct {
	ch     chan Entry
	cancel func()
}

// NewSubscription wires a subscription around a delivery channel and a
// cancel hook. Intended for Store implementations.
func NewSubscription(ch chan Entry, cancel func()) *Subscription {
	return &Subscription{ch: ch, cancel: cancel}
}

// Entries is the receive side of the stream. The channel is closed when the
// subscription is cancelled or the store shuts down.
func (s *Subscription) Entries() <-chan Entry { return s.ch }

// Cancel tears the subscription down. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}
