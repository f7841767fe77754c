package panel

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
)

// Registry keeps the live panel sessions, keyed by an opaque session id handed
// to the front end. Sessions idle past the TTL are dropped lazily on the next
// lookup pass.
type Registry struct {
	ttl      time.Duration
	newPanel func(postID domain.ID) *Panel

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	panel    *Panel
	lastSeen time.Time
}

func NewRegistry(ttl time.Duration, newPanel func(postID domain.ID) *Panel) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Registry{
		ttl:      ttl,
		newPanel: newPanel,
		sessions: make(map[string]*session),
	}
}

// Create opens a new panel session for a post and returns its id.
func (r *Registry) Create(postID domain.ID) (string, *Panel) {
	p := r.newPanel(postID)
	id := uuid.New().String()

	r.mu.Lock()
	r.evictStale()
	r.sessions[id] = &session{panel: p, lastSeen: time.Now()}
	r.mu.Unlock()

	return id, p
}

// Get returns the session's panel, refreshing its idle timer.
func (r *Registry) Get(id string) (*Panel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictStale()
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = time.Now()
	return s.panel, true
}

// Close drops a session explicitly.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// evictStale must be called with the lock held.
func (r *Registry) evictStale() {
	cutoff := time.Now().Add(-r.ttl)
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
