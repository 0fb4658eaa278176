package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
)

// Session is one in-progress wizard.
type Session[D any] struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenantId"`
	Step      Step      `json:"step"`
	Data      D         `json:"data"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionStore keeps sessions in memory. Sessions idle for longer than the
// timeout are gone.
type SessionStore[D any] struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Session[D]
	locks    map[uuid.UUID]*sync.Mutex
	timeout  time.Duration
	now      func() time.Time
}

func NewSessionStore[D any](timeout time.Duration) *SessionStore[D] {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &SessionStore[D]{
		sessions: make(map[uuid.UUID]Session[D]),
		locks:    make(map[uuid.UUID]*sync.Mutex),
		timeout:  timeout,
		now:      time.Now,
	}
}

func (s *SessionStore[D]) Create(tenantID uuid.UUID, initial Step) Session[D] {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := Session[D]{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Step:      initial,
		UpdatedAt: s.now(),
	}
	s.sessions[sess.ID] = sess
	s.locks[sess.ID] = &sync.Mutex{}
	return sess
}

// Get returns a copy of the session. Sessions of other tenants are
// reported as missing.
func (s *SessionStore[D]) Get(tenantID, id uuid.UUID) (Session[D], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || sess.TenantID != tenantID || s.expired(sess) {
		return Session[D]{}, httperr.ErrNotFound("session_not_found")
	}
	return sess, nil
}

func (s *SessionStore[D]) Save(sess Session[D]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.UpdatedAt = s.now()
	s.sessions[sess.ID] = sess
	if _, ok := s.locks[sess.ID]; !ok {
		s.locks[sess.ID] = &sync.Mutex{}
	}
}

// Update runs fn on the session while holding that session's lock and saves
// whatever fn leaves in it, also when fn fails. Calls on the same session
// run one at a time; other sessions are not blocked.
func (s *SessionStore[D]) Update(tenantID, id uuid.UUID, fn func(sess *Session[D]) error) (Session[D], error) {
	s.mu.RLock()
	lock, ok := s.locks[id]
	s.mu.RUnlock()
	if !ok {
		return Session[D]{}, httperr.ErrNotFound("session_not_found")
	}

	lock.Lock()
	defer lock.Unlock()

	sess, err := s.Get(tenantID, id)
	if err != nil {
		return Session[D]{}, err
	}

	err = fn(&sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, alive := s.sessions[id]; !alive {
		return Session[D]{}, httperr.ErrNotFound("session_not_found")
	}
	sess.UpdatedAt = s.now()
	s.sessions[id] = sess
	return sess, err
}

func (s *SessionStore[D]) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.locks, id)
}

// Cleanup removes expired sessions and reports how many were dropped.
func (s *SessionStore[D]) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			delete(s.locks, id)
			removed++
		}
	}
	return removed
}

// RunJanitor calls Cleanup every interval until ctx is done.
func (s *SessionStore[D]) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

func (s *SessionStore[D]) expired(sess Session[D]) bool {
	return s.now().Sub(sess.UpdatedAt) > s.timeout
}
