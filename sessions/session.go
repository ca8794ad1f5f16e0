package sessions

import (
	"context"
	"errors"
	"time"
)

// Validity matches the token window: a session outlives its token by nothing.
const Validity = 24 * time.Hour

var ErrNotFound = errors.New("session not found")

// Session is one issued token, owned by exactly one user. A user has at
// most one live session: a new login evicts all prior ones.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"-"` // opaque bearer credential - never serialize
	ExpiresAt time.Time `json:"expiresAt"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repo is the durable session store. Identity resolution does not go
// through it on the hot path; sessions exist for revocation and audit.
type Repo interface {
	// CreateExclusive atomically deletes every existing session for the
	// owning user, inserts the new session, and records the user's login
	// time. A reader must never observe an old and a new live session for
	// the same user at once.
	CreateExclusive(ctx context.Context, session *Session) error

	// FindActiveByToken looks up an unexpired session by its token. Used
	// for operational debugging, not request authorization.
	FindActiveByToken(ctx context.Context, token string) (*Session, error)

	ListByUser(ctx context.Context, userID string) ([]*Session, error)

	// DeleteExpired removes expired rows, returning how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
