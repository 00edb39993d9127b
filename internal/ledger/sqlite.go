package ledger

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// SQLiteSchema mirrors the Postgres layout for device-local and development
// deployments. Decimals are stored as strings to keep the arithmetic
// lossless across the round trip.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
	account_id   TEXT NOT NULL,
	seq          INTEGER NOT NULL CHECK (seq > 0),
	id           TEXT NOT NULL UNIQUE,
	kind         TEXT NOT NULL CHECK (kind IN ('DEPOSIT', 'WITHDRAW', 'BUY', 'SELL')),
	symbol       TEXT NOT NULL DEFAULT '',
	shares       TEXT NOT NULL DEFAULT '0',
	price        TEXT NOT NULL DEFAULT '0',
	amount       TEXT NOT NULL DEFAULT '0',
	committed_at DATETIME NOT NULL,
	PRIMARY KEY (account_id, seq)
);
`

// SQLiteStore implements Store on an embedded database. SQLite serializes
// writers, so the in-transaction version check is sufficient for the CAS
// contract; the primary key is the backstop.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if _, err := db.Exec(SQLiteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Append(ctx context.Context, accountID string, candidate Entry, expectedVersion uint64) (Entry, error) {
	committed := candidate
	committed.ID = ulid.MustNew(ulid.Now(), rand.Reader).String()
	committed.AccountID = accountID
	committed.Sequence = expectedVersion + 1
	committed.Timestamp = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return Entry{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current uint64
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM ledger_entries WHERE account_id = ?
	`, accountID).Scan(&current)
	if err != nil {
		return Entry{}, fmt.Errorf("read latest sequence: %w", err)
	}

	if current != expectedVersion {
		return Entry{}, &ConflictError{
			AccountID:       accountID,
			ExpectedVersion: expectedVersion,
			ActualVersion:   current,
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (account_id, seq, id, kind, symbol, shares, price, amount, committed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, committed.AccountID, committed.Sequence, committed.ID, string(committed.Kind),
		committed.Symbol, committed.Shares.String(), committed.Price.String(),
		committed.Amount.String(), committed.Timestamp)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			actual, verr := s.Version(ctx, accountID)
			if verr != nil {
				return Entry{}, fmt.Errorf("read version after conflict: %w", verr)
			}
			return Entry{}, &ConflictError{
				AccountID:       accountID,
				ExpectedVersion: expectedVersion,
				ActualVersion:   actual,
			}
		}
		return Entry{}, fmt.Errorf("insert entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("commit transaction: %w", err)
	}
	return committed, nil
}

func (s *SQLiteStore) Read(ctx context.Context, accountID string) ([]Entry, error) {
	return s.readAfter(ctx, accountID, 0)
}

func (s *SQLiteStore) readAfter(ctx context.Context, accountID string, afterSeq uint64) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, seq, kind, symbol, shares, price, amount, committed_at
		FROM ledger_entries
		WHERE account_id = ? AND seq > ?
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

func (s *SQLiteStore) Version(ctx context.Context, accountID string) (uint64, error) {
	var version uint64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM ledger_entries WHERE account_id = ?
	`, accountID).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	return version, nil
}

// Subscribe tails the sequence by polling, like the Postgres store.
func (s *SQLiteStore) Subscribe(ctx context.Context, accountID string) (*Subscription, error) {
	last, err := s.Version(ctx, accountID)
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

			entries, err := s.readAfter(subCtx, accountID, last)
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
