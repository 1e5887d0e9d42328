package session

import (
	"sort"
	"sync"
	"time"

	"canvass/internal/dialog"
)

// Session is the working state of one call. Rating zero means "not yet
// answered"; FinalReview empty means the same.
type Session struct {
	CallID string
	From   string
	To     string

	Stage dialog.Stage
	// Retries counts consecutive invalid or empty answers for the question
	// currently being asked. It resets whenever an answer is accepted.
	Retries int

	ProductRating  int
	DeliveryRating int
	FinalReview    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Registry owns every in-progress session, keyed by call ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Mutate looks up the session for callID, creating it at the greeting stage
// when unseen, runs fn on it under the registry lock, and returns a snapshot
// of the resulting state. from/to only populate newly created sessions.
func (r *Registry) Mutate(callID, from, to string, fn func(*Session)) Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[callID]
	if !ok {
		now := r.now()
		sess = &Session{
			CallID:    callID,
			From:      from,
			To:        to,
			Stage:     dialog.StageGreeting,
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.sessions[callID] = sess
	}
	if fn != nil {
		fn(sess)
	}
	sess.UpdatedAt = r.now()
	return *sess
}

// Get returns a snapshot of the session for callID.
func (r *Registry) Get(callID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[callID]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Remove discards the session for callID, if present.
func (r *Registry) Remove(callID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, callID)
}

// Count returns the number of in-progress sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Active returns snapshots of every session ordered by creation time.
func (r *Registry) Active() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		out = append(out, *sess)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CallID < out[j].CallID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// EvictBefore removes sessions whose last activity predates cutoff and
// returns how many were dropped. This is the timeout extension point for
// calls that hung up mid-survey and will never finalize.
func (r *Registry) EvictBefore(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, sess := range r.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}
