package bridge

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingCall_ResolvesExactlyOnce(t *testing.T) {
	call := newPendingCall("req-1")

	reply := &Envelope{Type: "actor-created", RequestID: "req-1"}
	assert.True(t, call.resolve(reply), "first claim should win")
	assert.False(t, call.resolve(&Envelope{Type: "other"}), "second claim must be a no-op")
	assert.Equal(t, reply, call.result())
}

func TestPendingCall_ConcurrentClaims(t *testing.T) {
	call := newPendingCall("req-1")

	const claimers = 32
	var wins int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			// Half the claimers simulate the timeout path.
			var reply *Envelope
			if n%2 == 0 {
				reply = &Envelope{Type: fmt.Sprintf("reply-%d", n)}
			}
			if call.resolve(reply) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins, "exactly one claim may succeed")

	select {
	case <-call.done:
	default:
		t.Fatal("done channel should be closed after resolution")
	}
}

func TestPendingTable_TakeIsAtomic(t *testing.T) {
	table := newPendingTable()
	table.add("req-1")

	var taken int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if table.take("req-1") != nil {
				mu.Lock()
				taken++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, taken, "only one taker may win the entry")
	assert.Equal(t, 0, table.size())
}

func TestPendingTable_RemoveAndSize(t *testing.T) {
	table := newPendingTable()

	table.add("req-1")
	table.add("req-2")
	require.Equal(t, 2, table.size())

	table.remove("req-1")
	assert.Equal(t, 1, table.size())

	// Removing an absent id is a no-op.
	table.remove("req-1")
	assert.Equal(t, 1, table.size())

	assert.Nil(t, table.take("req-1"))
	assert.NotNil(t, table.take("req-2"))
	assert.Equal(t, 0, table.size())
}
