package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"vtt-bridge/internal/infrastructure/logger"
)

// Caller is the narrow surface domain adapters need from the dispatcher.
type Caller interface {
	Call(ctx context.Context, command string, payload any, timeout time.Duration) (*Envelope, error)
}

// Dispatcher correlates outbound commands with their asynchronous replies.
// A single instance is shared process-wide and is safe for concurrent calls
// from any number of callers and connection receive loops.
type Dispatcher struct {
	registry *Registry
	pending  *pendingTable
	logger   logger.Logger

	defaultTimeout time.Duration

	unsolicitedMu sync.RWMutex
	unsolicited   InboundHandler
}

var _ Caller = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher over the given registry. defaultTimeout
// applies to calls issued without an explicit timeout.
func NewDispatcher(registry *Registry, log logger.Logger, defaultTimeout time.Duration) *Dispatcher {
	if defaultTimeout <= 0 {
		defaultTimeout = 30 * time.Second
	}
	return &Dispatcher{
		registry:       registry,
		pending:        newPendingTable(),
		logger:         log.WithField("component", "dispatcher"),
		defaultTimeout: defaultTimeout,
	}
}

// Registry exposes the connection registry the dispatcher fans out over.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// PendingCalls returns the number of calls currently awaiting a reply.
func (d *Dispatcher) PendingCalls() int {
	return d.pending.size()
}

// SetUnsolicitedHandler installs a hook for inbound messages that are neither
// keep-alives nor replies to a pending call. Without a hook such messages
// are logged and dropped.
func (d *Dispatcher) SetUnsolicitedHandler(h InboundHandler) {
	d.unsolicitedMu.Lock()
	d.unsolicited = h
	d.unsolicitedMu.Unlock()
}

// Call sends command to every connected client and waits for the first reply
// carrying the call's request id, or for the deadline. With no clients
// connected it fails immediately with ErrNoConnection and never touches the
// pending table. Each invocation is independent; callers may overlap freely.
func (d *Dispatcher) Call(
	ctx context.Context,
	command string,
	payload any,
	timeout time.Duration,
) (*Envelope, error) {
	if timeout <= 0 {
		timeout = d.defaultTimeout
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if d.registry.Count() == 0 {
		return nil, ErrNoConnection
	}

	requestID := uuid.NewString()
	env, err := NewEnvelope(command, payload, requestID)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", command, err)
	}

	call := d.pending.add(requestID)

	sent := 0
	d.registry.ForEach(func(conn Connection) {
		if err := conn.Send(ctx, env); err != nil {
			d.logger.Warnf(
				"send %s to connection %s failed, dropping connection: %v",
				command, conn.ID(), err,
			)
			d.registry.Unregister(conn.ID())
			return
		}
		sent++
	})
	if sent == 0 {
		d.pending.remove(requestID)
		return nil, ErrNoConnection
	}

	d.logger.Debugf("issued %s (request_id=%s) to %d connections", command, requestID, sent)

	return d.await(ctx, call, timeout)
}

// CallTo behaves like Call but targets a single connection.
func (d *Dispatcher) CallTo(
	ctx context.Context,
	connID string,
	command string,
	payload any,
	timeout time.Duration,
) (*Envelope, error) {
	if timeout <= 0 {
		timeout = d.defaultTimeout
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn, ok := d.registry.Get(connID)
	if !ok {
		return nil, ErrNoConnection
	}

	requestID := uuid.NewString()
	env, err := NewEnvelope(command, payload, requestID)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", command, err)
	}

	call := d.pending.add(requestID)

	if err := conn.Send(ctx, env); err != nil {
		d.pending.remove(requestID)
		d.registry.Unregister(connID)
		return nil, fmt.Errorf("send %s to connection %s: %w", command, connID, err)
	}

	return d.await(ctx, call, timeout)
}

// await suspends the caller until the waiter resolves or the deadline fires.
// The timeout path removes the table entry before claiming the waiter, so a
// reply that arrives later finds no entry and is treated as unsolicited.
func (d *Dispatcher) await(ctx context.Context, call *pendingCall, timeout time.Duration) (*Envelope, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-call.done:
	case <-timer.C:
		d.pending.remove(call.id)
		call.resolve(nil)
	case <-ctx.Done():
		d.pending.remove(call.id)
		call.resolve(nil)
	}

	// Whichever claim won has closed done by now. A reply that beat the
	// deadline to the claim still wins even if our timer fired first.
	<-call.done
	if reply := call.result(); reply != nil {
		return reply, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ErrCallTimeout
}

// HandleInbound routes one message read from a connection. Correlated
// replies resolve their waiter, pings are answered immediately and anything
// else goes to the unsolicited hook. It never blocks on a pending call, so
// the receive loop keeps draining and no reply can starve another call.
func (d *Dispatcher) HandleInbound(conn Connection, env *Envelope) {
	if env.RequestID != "" {
		if call := d.pending.take(env.RequestID); call != nil {
			call.resolve(env)
			d.logger.Debugf(
				"resolved %s (request_id=%s) after %s",
				env.Type, env.RequestID, time.Since(call.created),
			)
			return
		}
		// Late or duplicate reply: the waiter already resolved or timed
		// out. Dropping it keeps first-resolution-wins intact.
		d.logger.Debugf(
			"dropping reply %s with unknown request_id %s",
			env.Type, env.RequestID,
		)
		return
	}

	if env.Type == TypePing {
		d.answerPing(conn)
		return
	}

	d.unsolicitedMu.RLock()
	h := d.unsolicited
	d.unsolicitedMu.RUnlock()

	if h != nil {
		h(conn, env)
		return
	}
	d.logger.Debugf("dropping unsolicited message %s from connection %s", env.Type, conn.ID())
}

// answerPing sends a pong with no request id. The send happens off the
// receive loop so a full outbound queue cannot stall inbound routing.
func (d *Dispatcher) answerPing(conn Connection) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := conn.Send(ctx, &Envelope{Type: TypePong}); err != nil {
			d.logger.Warnf("failed to answer ping from connection %s: %v", conn.ID(), err)
		}
	}()
}
