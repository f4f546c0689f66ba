package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("session not found")

// GameSession is the envelope the server keeps per game. The engine
// state travels through it gob-encoded; handlers decode, mutate and
// re-encode it one call at a time.
type GameSession struct {
	SessionID uuid.UUID
	State     []byte
	Country   string
	StartedAt time.Time
	EndedAt   time.Time
	UpdatedAt time.Time
}

// Store keeps sessions in memory, keyed by an opaque id. Sessions do
// not survive a process restart.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*GameSession
	ttl      time.Duration
	logger   *logrus.Logger
}

func NewStore(ttl time.Duration, logger *logrus.Logger) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*GameSession),
		ttl:      ttl,
		logger:   logger,
	}
}

func (s *Store) Create(state []byte, country string) *GameSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	session := &GameSession{
		SessionID: uuid.New(),
		State:     state,
		Country:   country,
		StartedAt: now,
		UpdatedAt: now,
	}
	s.sessions[session.SessionID] = session
	snapshot := *session
	return &snapshot
}

// Get returns a copy of the session with the given id, or
// [ErrNotFound].
func (s *Store) Get(id uuid.UUID) (*GameSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	snapshot := *session
	return &snapshot, nil
}

// Update runs fn against the stored session under the store's lock, so
// concurrent guesses for the same game resolve one at a time. If fn
// returns an error the session is left as it was. Returns a copy of
// the session as fn left it.
func (s *Store) Update(
	id uuid.UUID, fn func(session *GameSession) error,
) (*GameSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	updated := *session
	if err := fn(&updated); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()
	s.sessions[id] = &updated
	snapshot := updated
	return &snapshot, nil
}

// Deletes a session without checking if it existed.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// EvictIdle drops sessions not touched since the store's TTL before
// now and reports how many went.
func (s *Store) EvictIdle(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, session := range s.sessions {
		if now.Sub(session.UpdatedAt) > s.ttl {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Janitor sweeps idle sessions until ctx is done.
func (s *Store) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if evicted := s.EvictIdle(now); evicted > 0 {
				s.logger.WithField("evicted", evicted).
					Debug("swept idle sessions")
			}
		}
	}
}
