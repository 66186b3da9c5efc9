package service

import (
	"sync"
	"time"

	"optimeet/core/errors"
	"optimeet/core/utils"
	"optimeet/modules/calendar/engine"

	"github.com/google/uuid"
)

// selectionTTL bounds how long an abandoned selection session lingers.
const selectionTTL = 30 * time.Minute

type session struct {
	userID    uuid.UUID
	selection engine.Selection
	touchedAt time.Time
}

// SelectionStore holds in-progress selection sessions in memory, keyed by an
// opaque session id. Sessions are per-user scratch state, not durable data; a
// restart dropping them is acceptable.
type SelectionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

// NewSelectionStore creates an empty store
func NewSelectionStore() *SelectionStore {
	return &SelectionStore{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// Create opens a session for a fresh selection and returns its id.
func (s *SelectionStore) Create(userID uuid.UUID, sel engine.Selection) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictStaleLocked()

	id := utils.GenerateSessionID()
	s.sessions[id] = &session{
		userID:    userID,
		selection: sel,
		touchedAt: s.now(),
	}
	return id
}

// Get returns the session's selection, scoped to its owner.
func (s *SelectionStore) Get(id string, userID uuid.UUID) (engine.Selection, *errors.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.userID != userID {
		return engine.Selection{}, errors.NewAppError(errors.ErrNotFound, "Selection session not found", nil)
	}
	return sess.selection, nil
}

// Update applies a transition to the stored selection. The whole
// read-transition-write runs under the lock, so concurrent requests against
// one session serialize instead of clobbering each other. An update arriving
// after the session was closed hits the not-found path and is dropped.
func (s *SelectionStore) Update(id string, userID uuid.UUID, fn func(engine.Selection) (engine.Selection, *errors.AppError)) (engine.Selection, *errors.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.userID != userID {
		return engine.Selection{}, errors.NewAppError(errors.ErrNotFound, "Selection session not found", nil)
	}

	next, appErr := fn(sess.selection)
	if appErr != nil {
		return sess.selection, appErr
	}

	sess.selection = next
	sess.touchedAt = s.now()
	return next, nil
}

// Delete closes a session. Deleting an unknown session is a no-op.
func (s *SelectionStore) Delete(id string, userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok && sess.userID == userID {
		delete(s.sessions, id)
	}
}

func (s *SelectionStore) evictStaleLocked() {
	cutoff := s.now().Add(-selectionTTL)
	for id, sess := range s.sessions {
		if sess.touchedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
