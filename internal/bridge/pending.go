package bridge

import (
	"sync"
	"time"
)

// pendingCall is the waiter for one in-flight call. It resolves exactly once:
// the receive loop and the timeout path both race to claim it, the first
// claim wins and every later attempt is a silent no-op.
type pendingCall struct {
	id      string
	created time.Time

	once  sync.Once
	reply *Envelope
	done  chan struct{}
}

func newPendingCall(id string) *pendingCall {
	return &pendingCall{
		id:      id,
		created: time.Now(),
		done:    make(chan struct{}),
	}
}

// resolve claims the waiter with a reply. A nil reply marks the call as timed
// out or cancelled. Returns true only for the winning claim.
func (p *pendingCall) resolve(reply *Envelope) bool {
	claimed := false
	p.once.Do(func() {
		p.reply = reply
		claimed = true
		close(p.done)
	})
	return claimed
}

// result must only be called after done is closed.
func (p *pendingCall) result() *Envelope {
	return p.reply
}

// pendingTable maps correlation ids to their waiters. Safe for concurrent use
// from connection receive loops and from any number of callers.
type pendingTable struct {
	mu    sync.Mutex
	calls map[string]*pendingCall
}

func newPendingTable() *pendingTable {
	return &pendingTable{
		calls: make(map[string]*pendingCall),
	}
}

// add registers a fresh waiter under id.
func (t *pendingTable) add(id string) *pendingCall {
	call := newPendingCall(id)

	t.mu.Lock()
	t.calls[id] = call
	t.mu.Unlock()

	return call
}

// take removes and returns the waiter for id, or nil if no such call is
// pending. Removal and lookup are atomic, so a reply and a timeout can never
// both take the same entry.
func (t *pendingTable) take(id string) *pendingCall {
	t.mu.Lock()
	defer t.mu.Unlock()

	call, ok := t.calls[id]
	if !ok {
		return nil
	}
	delete(t.calls, id)
	return call
}

// remove drops the waiter for id if it is still pending.
func (t *pendingTable) remove(id string) {
	t.mu.Lock()
	delete(t.calls, id)
	t.mu.Unlock()
}

// size returns the number of in-flight calls.
func (t *pendingTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}
