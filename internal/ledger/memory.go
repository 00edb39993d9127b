package ledger

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls further behind than this sees a sequence gap and must resynchronize
// with a full Read; the store never blocks a writer on a slow consumer.
const subscriberBuffer = 64

// MemoryStore is the reference Store implementation. It keeps each account's
// (entries, version) pair under a single mutex and fans committed entries out
// to subscribers without blocking the committing writer.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]*memAccount
	nextSub  int
}

type memAccount struct {
	entries []Entry
	subs    map[int]chan Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]*memAccount)}
}

func (m *MemoryStore) account(accountID string) *memAccount {
	a, ok := m.accounts[accountID]
	if !ok {
		a = &memAccount{subs: make(map[int]chan Entry)}
		m.accounts[accountID] = a
	}
	return a
}

// Append implements the conditional commit. The version check and the append
// happen under one lock acquisition, so two writers racing on the same
// expected version cannot both succeed.
func (m *MemoryStore) Append(ctx context.Context, accountID string, candidate Entry, expectedVersion uint64) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a := m.account(accountID)
	current := uint64(len(a.entries))
	if current != expectedVersion {
		return Entry{}, &ConflictError{
			AccountID:       accountID,
			ExpectedVersion: expectedVersion,
			ActualVersion:   current,
		}
	}

	committed := candidate
	committed.ID = ulid.MustNew(ulid.Now(), rand.Reader).String()
	committed.AccountID = accountID
	committed.Sequence = current + 1
	committed.Timestamp = time.Now().UTC()
	a.entries = append(a.entries, committed)

	for _, ch := range a.subs {
		select {
		case ch <- committed:
		default:
			// Subscriber is saturated; the missed entry shows up as a
			// sequence gap on its side.
		}
	}

	return committed, nil
}

func (m *MemoryStore) Read(ctx context.Context, accountID string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[accountID]
	if !ok {
		return nil, nil
	}
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out, nil
}

func (m *MemoryStore) Version(ctx context.Context, accountID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[accountID]
	if !ok {
		return 0, nil
	}
	return uint64(len(a.entries)), nil
}

func (m *MemoryStore) Subscribe(ctx context.Context, accountID string) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	a := m.account(accountID)
	id := m.nextSub
	m.nextSub++
	ch := make(chan Entry, subscriberBuffer)
	a.subs[id] = ch
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(a.subs, id)
			m.mu.Unlock()
			close(ch)
		})
	}

	// Tear down with the caller's context as well, so an abandoned
	// subscription does not leak its registration.
	go func() {
		<-ctx.Done()
		cancel()
	}()

	return NewSubscription(ch, cancel), nil
}
