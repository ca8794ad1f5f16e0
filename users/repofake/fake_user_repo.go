package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carterisland/portal-auth/users"
)

// FakeUserRepo is an in-memory UserRepo for testing. GetByIDCalls counts
// authoritative reads so tests can observe cache effectiveness.
type FakeUserRepo struct {
	mu           sync.Mutex
	usersByID    map[string]*users.User
	GetByIDCalls int
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{usersByID: make(map[string]*users.User)}
}

func (f *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.usersByID {
		if existing.Email == user.Email {
			return users.ErrDuplicate
		}
		if user.Username != "" && existing.Username == user.Username {
			return users.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.usersByID[user.ID] = copyUser(user)
	return nil
}

func (f *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.usersByID {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, users.ErrNotFound
}

func (f *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.GetByIDCalls++
	user, ok := f.usersByID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return user.Projection(), nil
}

func (f *FakeUserRepo) IDsByEmail(_ context.Context, email string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []string
	for id, user := range f.usersByID {
		if user.Email == email {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *FakeUserRepo) SetStatus(_ context.Context, id string, status users.StatusType) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.usersByID[id]
	if !ok {
		return users.ErrNotFound
	}
	user.Status = status
	user.UpdatedAt = time.Now()
	return nil
}

// SetLastLogin records a login timestamp, mirroring the store-side update
// performed by the session transaction.
func (f *FakeUserRepo) SetLastLogin(id string, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if user, ok := f.usersByID[id]; ok {
		user.LastLoginAt = &at
	}
}

// Get returns the stored user, digest included, for test assertions.
func (f *FakeUserRepo) Get(id string) *users.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.usersByID[id]
	if !ok {
		return nil
	}
	return copyUser(user)
}

func copyUser(user *users.User) *users.User {
	c := *user
	return &c
}
