package session

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func setupTestStore(ttl time.Duration) *Store {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewStore(ttl, logger)
}

func TestStoreGetMissing(t *testing.T) {
	s := setupTestStore(time.Hour)

	if _, err := s.Get(uuid.New()); err != ErrNotFound {
		t.Fatalf("expected not found error, received %v", err)
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	s := setupTestStore(time.Hour)

	state := []byte{1, 2, 3}
	created := s.Create(state, "USA")
	if created.SessionID == uuid.Nil {
		t.Fatal("created session has no id")
	}
	if created.StartedAt.IsZero() {
		t.Fatal("created session has no start time")
	}

	got, err := s.Get(created.SessionID)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if string(got.State) != string(state) {
		t.Fatalf("state: have %v, want %v", got.State, state)
	}
	if got.Country != "USA" {
		t.Fatalf("country: have %q, want %q", got.Country, "USA")
	}
}

func TestStoreUpdate(t *testing.T) {
	s := setupTestStore(time.Hour)

	created := s.Create([]byte{1}, "")
	updated, err := s.Update(
		created.SessionID, func(session *GameSession) error {
			session.State = []byte{2}
			return nil
		},
	)
	if err != nil {
		t.Fatalf("failed to update session: %v", err)
	}
	if string(updated.State) != string([]byte{2}) {
		t.Fatalf("update not applied: %v", updated.State)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Fatal("update did not touch UpdatedAt")
	}

	got, err := s.Get(created.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.State) != string([]byte{2}) {
		t.Fatalf("update not persisted: %v", got.State)
	}
}

func TestStoreUpdateRollsBackOnError(t *testing.T) {
	s := setupTestStore(time.Hour)

	boom := errors.New("boom")
	created := s.Create([]byte{1}, "")
	if _, err := s.Update(
		created.SessionID, func(session *GameSession) error {
			session.State = []byte{2}
			return boom
		},
	); err != boom {
		t.Fatalf("expected fn error, received %v", err)
	}

	got, err := s.Get(created.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.State) != string([]byte{1}) {
		t.Fatalf("failed update mutated the session: %v", got.State)
	}
}

func TestStoreUpdateMissing(t *testing.T) {
	s := setupTestStore(time.Hour)

	if _, err := s.Update(
		uuid.New(), func(session *GameSession) error { return nil },
	); err != ErrNotFound {
		t.Fatalf("expected not found error, received %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	s := setupTestStore(time.Hour)

	created := s.Create(nil, "")
	s.Delete(created.SessionID)
	if _, err := s.Get(created.SessionID); err != ErrNotFound {
		t.Fatalf("expected not found error, received %v", err)
	}

	s.Delete(uuid.New()) // deleting a missing session is a no-op
}

func TestStoreCount(t *testing.T) {
	s := setupTestStore(time.Hour)

	sessions := make([]*GameSession, 0, 4)
	for range 4 {
		sessions = append(sessions, s.Create(nil, ""))
	}
	if count := s.Count(); count != 4 {
		t.Fatalf("have %d, want %d", count, 4)
	}

	s.Delete(sessions[0].SessionID)
	if count := s.Count(); count != 3 {
		t.Fatalf("have %d, want %d", count, 3)
	}
}

func TestStoreEvictIdle(t *testing.T) {
	s := setupTestStore(time.Minute)

	stale := s.Create(nil, "")
	fresh := s.Create(nil, "")

	// Only sessions idle past the TTL go.
	if evicted := s.EvictIdle(time.Now()); evicted != 0 {
		t.Fatalf("evicted %d fresh sessions", evicted)
	}

	if evicted := s.EvictIdle(time.Now().Add(2 * time.Minute)); evicted != 2 {
		t.Fatalf("have %d evicted, want 2", evicted)
	}
	if _, err := s.Get(stale.SessionID); err != ErrNotFound {
		t.Fatalf("expected not found error, received %v", err)
	}
	if _, err := s.Get(fresh.SessionID); err != ErrNotFound {
		t.Fatalf("expected not found error, received %v", err)
	}
}
