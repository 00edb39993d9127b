// Package audit provides a tamper-evident record of committed ledger
// entries. Each record hashes over its predecessor, so any mutation or
// removal inside the chain is detectable after the fact.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Record is a single chained audit line.
type Record struct {
	Timestamp    string `json:"timestamp"`
	PreviousHash string `json:"previous_hash"`
	Payload      string `json:"payload"`
	Hash         string `json:"hash"`
}

// ChainLogger appends hash-chained records. Safe for concurrent use.
type ChainLogger struct {
	mu           sync.Mutex
	previousHash string
	records      []Record
}

// NewChainLogger creates a ChainLogger initialized with a zero hash.
func NewChainLogger() *ChainLogger {
	return &ChainLogger{
		previousHash: strings.Repeat("0", 64),
	}
}

// Append adds a payload to the chain and returns the record's hash.
func (c *ChainLogger) Append(payload string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := Record{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		PreviousHash: c.previousHash,
		Payload:      payload,
	}

	rec.Hash = recordHash(rec.PreviousHash, rec.Timestamp, rec.Payload)
	c.previousHash = rec.Hash
	c.records = append(c.records, rec)
	return rec.Hash
}

// Records returns a copy of the chain so far.
func (c *ChainLogger) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

func recordHash(prevHash, timestamp, payload string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", prevHash, timestamp, payload)))
	return hex.EncodeToString(sum[:])
}

// VerifyChain checks that a slice of records forms a valid hash chain.
func VerifyChain(records []Record) bool {
	for i, rec := range records {
		if i > 0 && rec.PreviousHash != records[i-1].Hash {
			return false
		}
		if recordHash(rec.PreviousHash, rec.Timestamp, rec.Payload) != rec.Hash {
			return false
		}
	}
	return true
}
