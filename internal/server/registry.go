package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ecotrip/flightgame/internal/game"
)

// Registry holds the live game sessions, keyed by the opaque token the
// client carries. Each session has its own lock so one slow guess never
// blocks other players, and every mutation is mirrored to the store so
// sessions survive a restart.
type Registry struct {
	store Store

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu   sync.Mutex
	sess *game.Session
}

func NewRegistry(store Store) *Registry {
	return &Registry{
		store:    store,
		sessions: make(map[string]*sessionEntry),
	}
}

// Restore reloads mirrored sessions from the store after a restart.
func (r *Registry) Restore(ctx context.Context) (int, error) {
	loaded, err := r.store.LoadSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading sessions: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for token, sess := range loaded {
		r.sessions[token] = &sessionEntry{sess: sess}
	}
	return len(loaded), nil
}

// Create registers a new session and mirrors it, returning its token.
func (r *Registry) Create(ctx context.Context, sess *game.Session) (string, error) {
	token := uuid.NewString()
	if err := r.store.SaveSession(ctx, token, sess); err != nil {
		return "", fmt.Errorf("saving session: %w", err)
	}

	r.mu.Lock()
	r.sessions[token] = &sessionEntry{sess: sess}
	r.mu.Unlock()
	return token, nil
}

// Acquire locks the session for exclusive use. The caller must invoke
// the returned release function when done. Only one guess (or replay,
// or quit) is in flight per session at a time.
func (r *Registry) Acquire(token string) (*game.Session, func(), error) {
	r.mu.RLock()
	e, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok {
		return nil, nil, ErrNotFound
	}

	e.mu.Lock()
	return e.sess, e.mu.Unlock, nil
}

// Has reports whether a session with this token is live.
func (r *Registry) Has(token string) bool {
	r.mu.RLock()
	_, ok := r.sessions[token]
	r.mu.RUnlock()
	return ok
}

// Sync mirrors the session's current state to the store. Callers hold
// the session lock.
func (r *Registry) Sync(ctx context.Context, token string, sess *game.Session) error {
	return r.store.SaveSession(ctx, token, sess)
}

// Remove drops a finished session from memory and from the mirror.
func (r *Registry) Remove(ctx context.Context, token string) error {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
	return r.store.DeleteSession(ctx, token)
}
