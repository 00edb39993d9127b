package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Snapshot is one consistent observation of a materialized view.
type Snapshot struct {
	Version   uint64
	Balance   decimal.Decimal
	Positions []Position
}

// View maintains a per-session materialized (balance, positions) pair, kept
// in sync with the store via subscription. Each delivered entry extends the
// fold by one step; duplicates are dropped by sequence and a sequence gap
// (or the initial connect) triggers a full replay. The view is a cache: the
// ledger itself remains the source of truth.
type View struct {
	store     Store
	accountID string
	sub       *Subscription

	mu        sync.Mutex
	version   uint64
	balance   decimal.Decimal
	positions map[string]Position
	changed   chan struct{}
	closed    bool
}

// NewView subscribes to the account and primes the view with a full replay.
// The subscription is opened before the replay so no entry committed in
// between can be missed; anything delivered twice is deduplicated by
// sequence.
func NewView(ctx context.Context, store Store, accountID string) (*View, error) {
	sub, err := store.Subscribe(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	v := &View{
		store:     store,
		accountID: accountID,
		sub:       sub,
		balance:   decimal.Zero,
		positions: make(map[string]Position),
		changed:   make(chan struct{}),
	}

	if err := v.resync(ctx); err != nil {
		sub.Cancel()
		return nil, err
	}

	go v.run(ctx)
	return v, nil
}

func (v *View) run(ctx context.Context) {
	for entry := range v.sub.Entries() {
		v.mu.Lock()
		switch {
		case entry.Sequence <= v.version:
			// At-least-once delivery; already folded in.
			v.mu.Unlock()
			continue
		case entry.Sequence == v.version+1:
			v.balance = v.balance.Add(entry.CashDelta())
			ApplyToPositions(v.positions, entry)
			v.version = entry.Sequence
			v.notifyLocked()
			v.mu.Unlock()
		default:
			// Gap: fall back to a full replay.
			v.mu.Unlock()
			if err := v.resync(ctx); err != nil {
				return
			}
		}
	}
}

// resync replaces the materialized pair with a fresh full replay.
func (v *View) resync(ctx context.Context) error {
	entries, err := v.store.Read(ctx, v.accountID)
	if err != nil {
		return fmt.Errorf("replay ledger: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.balance = Balance(entries)
	v.positions = Positions(entries)
	v.version = uint64(len(entries))
	v.notifyLocked()
	return nil
}

func (v *View) notifyLocked() {
	if v.closed {
		return
	}
	close(v.changed)
	v.changed = make(chan struct{})
}

// Current returns the materialized view as of the latest applied entry.
func (v *View) Current() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	return Snapshot{
		Version:   v.version,
		Balance:   v.balance,
		Positions: SortedPositions(v.positions),
	}
}

// Changed returns a channel that is closed on the next view change, for UI
// binding. Call again after each wakeup.
func (v *View) Changed() <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.changed
}

// Close tears down the subscription. The last materialized state remains
// readable.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()
	v.sub.Cancel()
}
