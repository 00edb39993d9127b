package ledger

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// PostgresSchema creates the ledger table. The (account_id, seq) primary key
// is what makes the conditional append race-safe: two writers that pass the
// version check concurrently collide on the insert, and the loser surfaces a
// conflict instead of a duplicate sequence.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
	account_id   TEXT NOT NULL,
	seq          BIGINT NOT NULL CHECK (seq > 0),
	id           TEXT NOT NULL UNIQUE,
	kind         TEXT NOT NULL CHECK (kind IN ('DEPOSIT', 'WITHDRAW', 'BUY', 'SELL')),
	symbol       TEXT NOT NULL DEFAULT '',
	shares       NUMERIC(30, 10) NOT NULL DEFAULT 0,
	price        NUMERIC(30, 10) NOT NULL DEFAULT 0,
	amount       NUMERIC(30, 10) NOT NULL CHECK (amount >= 0),
	committed_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (account_id, seq)
);
`

// pollInterval drives the subscription tail poll.
const pollInterval = 250 * time.Millisecond

// PostgresStore is the production Store, holding each account's ledger in a
// single append-only table.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

// Init applies the schema.
func (p *PostgresStore) Init(ctx context.Context) error {
	if _, err := p.Pool.Exec(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("apply ledger schema: %w", err)
	}
	return nil
}

func (p *PostgresStore) Append(ctx context.Context, accountID string, candidate Entry, expectedVersion uint64) (Entry, error) {
	queryCtx, cancelq := context.WithTimeout(ctx, 5*time.Second)
	defer cancelq()

	committed := candidate
	committed.ID = ulid.MustNew(ulid.Now(), rand.Reader).String()
	committed.AccountID = accountID
	committed.Sequence = expectedVersion + 1
	committed.Timestamp = time.Now().UTC()

	err := p.appendTx(queryCtx, committed, expectedVersion)
	if err == nil {
		return committed, nil
	}

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return Entry{}, err
	}

	// A unique-key collision or serialization failure means another writer
	// got there first; report it as the conflict it is, with the version
	// the loser must revalidate against.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "23505" || pgErr.Code == "40001") {
		actual, verr := p.Version(ctx, accountID)
		if verr != nil {
			return Entry{}, fmt.Errorf("read version after conflict: %w", verr)
		}
		return Entry{}, &ConflictError{
			AccountID:       accountID,
			ExpectedVersion: expectedVersion,
			ActualVersion:   actual,
		}
	}

	return Entry{}, fmt.Errorf("append entry: %w", err)
}

func (p *PostgresStore) appendTx(ctx context.Context, committed Entry, expectedVersion uint64) error {
	conn, err := p.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current uint64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM ledger_entries WHERE account_id = $1
	`, committed.AccountID).Scan(&current)
	if err != nil {
		return fmt.Errorf("read latest sequence: %w", err)
	}

	if current != expectedVersion {
		return &ConflictError{
			AccountID:       committed.AccountID,
			ExpectedVersion: expectedVersion,
			ActualVersion:   current,
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO ledger_entries (account_id, seq, id, kind, symbol, shares, price, amount, committed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, committed.AccountID, committed.Sequence, committed.ID, string(committed.Kind),
		committed.Symbol, committed.Shares.String(), committed.Price.String(),
		committed.Amount.String(), committed.Timestamp)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (p *PostgresStore) Read(ctx context.Context, accountID string) ([]Entry, error) {
	return p.readAfter(ctx, accountID, 0)
}

func (p *PostgresStore) readAfter(ctx context.Context, accountID string, afterSeq uint64) ([]Entry, error) {
	rows, err := p.Pool.Query(ctx, `
		SELECT id, account_id, seq, kind, symbol, shares, price, amount, committed_at
		FROM ledger_entries
		WHERE account_id = $1 AND seq > $2
		ORDER BY seq ASC
	`, accountID, afterSeq)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                     Entry
			kind                  string
			shares, price, amount string
		)
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Sequence, &kind, &e.Symbol, &shares, &price, &amount, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Kind = Kind(kind)
		if e.Shares, err = decimal.NewFromString(shares); err != nil {
			return nil, fmt.Errorf("parse shares %q: %w", shares, err)
		}
		if e.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price %q: %w", price, err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (p *PostgresStore) Version(ctx context.Context, accountID string) (uint64, error) {
	var version uint64
	err := p.Pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM ledger_entries WHERE account_id = $1
	`, accountID).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	return version, nil
}

// Subscribe tails the account's sequence by polling. Delivery is in commit
// order; a consumer that outruns the buffer handles the gap by replaying.
func (p *PostgresStore) Subscribe(ctx context.Context, accountID string) (*Subscription, error) {
	last, err := p.Version(ctx, accountID)
	if err != nil {
		return nil, err
	}

	ch := make(chan Entry, subscriberBuffer)
	subCtx, cancelPoll := context.WithCancel(ctx)

	go func() {
		defer close(ch)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-subCtx.Done():
				return
			case <-ticker.C:
			}

			entries, err := p.readAfter(subCtx, accountID, last)
			if err != nil {
				continue
			}
			for _, e := range entries {
				select {
				case ch <- e:
					last = e.Sequence
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return NewSubscription(ch, cancelPoll), nil
}
