package activity

import (
	"context"
	"time"
)

const ActionLogin = "LOGIN"

// Record is one append-only audit trail entry.
type Record struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Action      string    `json:"action"`
	Description string    `json:"description,omitempty"`
	IPAddress   string    `json:"ipAddress,omitempty"`
	UserAgent   string    `json:"userAgent,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Repo appends audit records. There is no read path in scope beyond what
// operational tooling queries directly.
type Repo interface {
	Append(ctx context.Context, record *Record) error
}
