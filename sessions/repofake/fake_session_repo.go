package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carterisland/portal-auth/sessions"
)

// FakeSessionRepo is an in-memory sessions.Repo for testing. LastLoginFn,
// when set, mirrors the login-time bump the real transaction performs on
// the users table.
type FakeSessionRepo struct {
	mu          sync.Mutex
	byID        map[string]*sessions.Session
	LastLoginFn func(userID string, at time.Time)
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{byID: make(map[string]*sessions.Session)}
}

func (f *FakeSessionRepo) CreateExclusive(_ context.Context, session *sessions.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	for id, existing := range f.byID {
		if existing.UserID == session.UserID {
			delete(f.byID, id)
		}
	}
	f.byID[session.ID] = copySession(session)

	if f.LastLoginFn != nil {
		f.LastLoginFn(session.UserID, session.CreatedAt)
	}
	return nil
}

func (f *FakeSessionRepo) FindActiveByToken(_ context.Context, token string) (*sessions.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, session := range f.byID {
		if session.Token == token && session.ExpiresAt.After(time.Now()) {
			return copySession(session), nil
		}
	}
	return nil, sessions.ErrNotFound
}

func (f *FakeSessionRepo) ListByUser(_ context.Context, userID string) ([]*sessions.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*sessions.Session
	for _, session := range f.byID {
		if session.UserID == userID {
			result = append(result, copySession(session))
		}
	}
	return result, nil
}

func (f *FakeSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var removed int64
	for id, session := range f.byID {
		if session.ExpiresAt.Before(time.Now()) {
			delete(f.byID, id)
			removed++
		}
	}
	return removed, nil
}

// Count reports how many sessions are stored, across all users.
func (f *FakeSessionRepo) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

func copySession(session *sessions.Session) *sessions.Session {
	c := *session
	return &c
}
