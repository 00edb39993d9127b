package audit

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendChainsRecords(t *testing.T) {
	logger := NewChainLogger()

	h1 := logger.Append("acct-1|DEPOSIT|1|100")
	h2 := logger.Append("acct-1|BUY|2|300")

	records := logger.Records()
	require.Len(t, records, 2)

	assert.Equal(t, strings.Repeat("0", 64), records[0].PreviousHash)
	assert.Equal(t, h1, records[0].Hash)
	assert.Equal(t, h1, records[1].PreviousHash)
	assert.Equal(t, h2, records[1].Hash)
}

func TestVerifyChainAcceptsValidChain(t *testing.T) {
	logger := NewChainLogger()
	for _, p := range []string{"a", "b", "c", "d"} {
		logger.Append(p)
	}

	assert.True(t, VerifyChain(logger.Records()))
}

func TestVerifyChainEmptyIsValid(t *testing.T) {
	assert.True(t, VerifyChain(nil))
}

// TestVerifyChainDetectsTamper verifies that editing any field of a past
// record breaks verification.
func TestVerifyChainDetectsTamper(t *testing.T) {
	logger := NewChainLogger()
	for _, p := range []string{"a", "b", "c"} {
		logger.Append(p)
	}

	tampered := logger.Records()
	tampered[1].Payload = "b-modified"
	assert.False(t, VerifyChain(tampered))
}

func TestVerifyChainDetectsRemoval(t *testing.T) {
	logger := NewChainLogger()
	for _, p := range []string{"a", "b", "c"} {
		logger.Append(p)
	}

	records := logger.Records()
	// Drop the middle record; the link from a to c does not verify.
	assert.False(t, VerifyChain([]Record{records[0], records[2]}))
}

func TestRecordsReturnsCopy(t *testing.T) {
	logger := NewChainLogger()
	logger.Append("a")

	records := logger.Records()
	records[0].Payload = "mutated"

	assert.Equal(t, "a", logger.Records()[0].Payload)
}

func TestConcurrentAppendsKeepChainValid(t *testing.T) {
	logger := NewChainLogger()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				logger.Append("payload")
			}
		}()
	}
	wg.Wait()

	records := logger.Records()
	assert.Len(t, records, 160)
	assert.True(t, VerifyChain(records))
}
