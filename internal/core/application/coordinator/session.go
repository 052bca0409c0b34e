package coordinator

import (
	"context"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
)

// Session is one live connection. Send writes one encoded message and must be
// safe for concurrent use; it should give up when ctx is done.
type Session interface {
	ID() kernel.UUID
	Send(ctx context.Context, payload []byte) error
	Close() error
}

type binding struct {
	session   Session
	courierID int64
}

// registry maps live sessions to the courier they reported as, if any.
type registry struct {
	mu       sync.RWMutex
	sessions map[kernel.UUID]*binding
}

func newRegistry() *registry {
	return &registry{sessions: make(map[kernel.UUID]*binding)}
}

func (r *registry) add(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID()]; !ok {
		r.sessions[s.ID()] = &binding{session: s}
	}
}

func (r *registry) bind(s Session, courierID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.sessions[s.ID()]; ok {
		b.courierID = courierID
	}
}

// remove drops the session and returns the courier it was bound to, 0 if none.
func (r *registry) remove(id kernel.UUID) (courierID int64, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.sessions[id]
	if !ok {
		return 0, false
	}
	delete(r.sessions, id)
	return b.courierID, true
}

func (r *registry) snapshot() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Session, 0, len(r.sessions))
	for _, b := range r.sessions {
		out = append(out, b.session)
	}
	return out
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
