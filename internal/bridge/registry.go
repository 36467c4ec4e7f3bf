package bridge

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"vtt-bridge/internal/infrastructure/logger"
)

// Connection is one persistent channel to a remote tabletop client.
type Connection interface {
	ID() string
	Send(ctx context.Context, env *Envelope) error
	Close() error
	IsClosed() bool
	Context() context.Context
}

// NewConnectionID returns a fresh connection identity. Identities are random
// UUIDs and are never reused within the process lifetime, so a stale id can
// never alias a newer connection.
func NewConnectionID() string {
	return uuid.NewString()
}

// Registry tracks the currently connected clients. It is safe for concurrent
// use from connection handlers, receive loops and callers doing fan-out.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Connection

	logger logger.Logger
}

// NewRegistry creates an empty connection registry.
func NewRegistry(log logger.Logger) *Registry {
	return &Registry{
		conns:  make(map[string]Connection),
		logger: log.WithField("component", "registry"),
	}
}

// Register adds a connection under its identity and watches its context so
// a client disconnect removes it automatically.
func (r *Registry) Register(conn Connection) {
	r.mu.Lock()
	r.conns[conn.ID()] = conn
	r.mu.Unlock()

	r.logger.Infof("connection %s registered", conn.ID())

	go func() {
		<-conn.Context().Done()
		r.Unregister(conn.ID())
	}()
}

// Unregister removes and closes the connection with the given identity.
// Unregistering an absent identity is a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	conn, ok := r.conns[id]
	if ok {
		delete(r.conns, id)
	}
	r.mu.Unlock()

	if ok {
		conn.Close()
		r.logger.Infof("connection %s unregistered", id)
	}
}

// Get returns the connection with the given identity.
func (r *Registry) Get(id string) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[id]
	return conn, ok
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// ForEach invokes fn for every registered connection. Iteration order is
// unspecified; callers must not depend on it. fn runs outside the registry
// lock so it may call Unregister.
func (r *Registry) ForEach(fn func(Connection)) {
	r.mu.RLock()
	conns := make([]Connection, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	for _, conn := range conns {
		fn(conn)
	}
}

// CloseAll disconnects every client. Used during shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	conns := r.conns
	r.conns = make(map[string]Connection)
	r.mu.Unlock()

	for id, conn := range conns {
		if err := conn.Close(); err != nil {
			r.logger.Errorf("failed to close connection %s: %v", id, err)
		}
	}
}
