package bridge

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	registry := NewRegistry(&mockLogger{})
	return NewDispatcher(registry, &mockLogger{}, time.Second)
}

// replyWith answers every envelope sent to conn with the given reply type,
// echoing the request id.
func replyWith(d *Dispatcher, conn *mockConnection, replyType string, data any) {
	go func() {
		for env := range conn.sent {
			reply, _ := NewEnvelope(replyType, data, env.RequestID)
			d.HandleInbound(conn, reply)
		}
	}()
}

func TestDispatcher_NoConnectionFastPath(t *testing.T) {
	d := newTestDispatcher(t)

	start := time.Now()
	reply, err := d.Call(context.Background(), "list-actors", nil, 5*time.Second)

	assert.Nil(t, reply)
	assert.ErrorIs(t, err, ErrNoConnection)
	assert.Less(t, time.Since(start), time.Second, "fast path must not wait out the timeout")
	assert.Equal(t, 0, d.PendingCalls(), "fast path must not create a pending entry")
}

func TestDispatcher_ReplyResolvesCall(t *testing.T) {
	d := newTestDispatcher(t)

	conn := newMockConnection("conn-1")
	d.Registry().Register(conn)
	replyWith(d, conn, "actor-created", map[string]string{"uuid": "Actor.abc123", "name": "Goblin"})

	reply, err := d.Call(context.Background(), "create-actor", map[string]string{"name": "Goblin"}, time.Second)

	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, "actor-created", reply.Type)

	var data struct {
		UUID string `json:"uuid"`
		Name string `json:"name"`
	}
	require.NoError(t, reply.DecodeData(&data))
	assert.Equal(t, "Actor.abc123", data.UUID)
	assert.Equal(t, "Goblin", data.Name)
	assert.Equal(t, 0, d.PendingCalls())
}

func TestDispatcher_FirstReplyWins(t *testing.T) {
	d := newTestDispatcher(t)

	conn := newMockConnection("conn-1")
	d.Registry().Register(conn)

	go func() {
		env := <-conn.sent
		first, _ := NewEnvelope("actor-created", map[string]string{"uuid": "first"}, env.RequestID)
		second, _ := NewEnvelope("actor-created", map[string]string{"uuid": "second"}, env.RequestID)
		d.HandleInbound(conn, first)
		// A second client answering the same correlation id must be
		// dropped without disturbing the resolved call.
		d.HandleInbound(conn, second)
	}()

	reply, err := d.Call(context.Background(), "create-actor", nil, time.Second)

	require.NoError(t, err)
	var data struct {
		UUID string `json:"uuid"`
	}
	require.NoError(t, reply.DecodeData(&data))
	assert.Equal(t, "first", data.UUID)
	assert.Equal(t, 0, d.PendingCalls())
}

func TestDispatcher_TimeoutRemovesWaiter(t *testing.T) {
	d := newTestDispatcher(t)

	conn := newMockConnection("conn-1")
	d.Registry().Register(conn)

	reply, err := d.Call(context.Background(), "get-actor", map[string]string{"uuid": "x"}, 50*time.Millisecond)

	assert.Nil(t, reply)
	assert.ErrorIs(t, err, ErrCallTimeout)
	assert.Equal(t, 0, d.PendingCalls(), "timed-out entry must be removed")

	// A spurious reply with the same request id must have no observable
	// effect once the entry is gone.
	env := <-conn.sent
	late, _ := NewEnvelope("actor-data", map[string]string{"uuid": "x"}, env.RequestID)
	d.HandleInbound(conn, late)
	assert.Equal(t, 0, d.PendingCalls())
}

func TestDispatcher_ConcurrentCallsResolveIndependently(t *testing.T) {
	d := newTestDispatcher(t)

	conn := newMockConnection("conn-1")
	d.Registry().Register(conn)

	// Echo responder: replies with "re:<command>" per request.
	go func() {
		for env := range conn.sent {
			reply, _ := NewEnvelope("re:"+env.Type, nil, env.RequestID)
			d.HandleInbound(conn, reply)
		}
	}()

	type outcome struct {
		reply *Envelope
		err   error
	}
	results := make(chan outcome, 2)

	for _, cmd := range []string{"list-actors", "list-scenes"} {
		go func(cmd string) {
			reply, err := d.Call(context.Background(), cmd, nil, time.Second)
			results <- outcome{reply, err}
		}(cmd)
	}

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		res := <-results
		require.NoError(t, res.err)
		seen[res.reply.Type] = true
	}

	assert.True(t, seen["re:list-actors"], "list-actors call must get its own reply")
	assert.True(t, seen["re:list-scenes"], "list-scenes call must get its own reply")
	assert.Equal(t, 0, d.PendingCalls())
}

func TestDispatcher_PingAnsweredWithoutPendingEntry(t *testing.T) {
	d := newTestDispatcher(t)

	conn := newMockConnection("conn-1")
	d.Registry().Register(conn)

	d.HandleInbound(conn, &Envelope{Type: TypePing})

	select {
	case env := <-conn.sent:
		assert.Equal(t, TypePong, env.Type)
		assert.Empty(t, env.RequestID, "pong carries no correlation id")
	case <-time.After(time.Second):
		t.Fatal("expected a pong")
	}

	assert.Equal(t, 0, d.PendingCalls(), "ping must never touch the pending table")
}

func TestDispatcher_SendFailureDropsConnection(t *testing.T) {
	d := newTestDispatcher(t)

	bad := newMockConnection("bad")
	bad.setFailing(true)
	d.Registry().Register(bad)

	// With the only connection failing, the call cannot succeed.
	_, err := d.Call(context.Background(), "list-items", nil, time.Second)
	assert.ErrorIs(t, err, ErrNoConnection)
	assert.Equal(t, 0, d.Registry().Count(), "failing connection must be dropped")

	// With one healthy connection remaining, the call proceeds.
	bad2 := newMockConnection("bad-2")
	bad2.setFailing(true)
	good := newMockConnection("good")
	d.Registry().Register(bad2)
	d.Registry().Register(good)
	replyWith(d, good, "items-list", map[string]any{"items": []any{}})

	reply, err := d.Call(context.Background(), "list-items", nil, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "items-list", reply.Type)
	assert.Equal(t, 1, d.Registry().Count(), "only the failing connection is dropped")
}

func TestDispatcher_CancellationBehavesLikeTimeout(t *testing.T) {
	d := newTestDispatcher(t)

	conn := newMockConnection("conn-1")
	d.Registry().Register(conn)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-conn.sent
		cancel()
	}()

	reply, err := d.Call(ctx, "get-scene", map[string]string{"uuid": "s"}, 5*time.Second)

	assert.Nil(t, reply)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, d.PendingCalls(), "cancelled entry must be removed")
}

func TestDispatcher_UnsolicitedHandler(t *testing.T) {
	d := newTestDispatcher(t)

	conn := newMockConnection("conn-1")
	d.Registry().Register(conn)

	received := make(chan *Envelope, 1)
	d.SetUnsolicitedHandler(func(_ Connection, env *Envelope) {
		received <- env
	})

	data, _ := json.Marshal(map[string]string{"world": "test-world"})
	d.HandleInbound(conn, &Envelope{Type: "world-changed", Data: data})

	select {
	case env := <-received:
		assert.Equal(t, "world-changed", env.Type)
	case <-time.After(time.Second):
		t.Fatal("unsolicited handler was not invoked")
	}
	assert.Equal(t, 0, d.PendingCalls())
}

func TestDispatcher_CallTo(t *testing.T) {
	d := newTestDispatcher(t)

	target := newMockConnection("target")
	other := newMockConnection("other")
	d.Registry().Register(target)
	d.Registry().Register(other)
	replyWith(d, target, "journal-created", map[string]string{"uuid": "JournalEntry.1"})

	reply, err := d.CallTo(context.Background(), "target", "create-journal", map[string]string{"name": "Chapter 1"}, time.Second)

	require.NoError(t, err)
	assert.Equal(t, "journal-created", reply.Type)
	assert.Empty(t, other.sent, "CallTo must not fan out to other connections")

	_, err = d.CallTo(context.Background(), "absent", "create-journal", nil, time.Second)
	assert.ErrorIs(t, err, ErrNoConnection)
}
