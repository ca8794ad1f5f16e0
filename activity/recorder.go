package activity

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const appendTimeout = 5 * time.Second

// Recorder writes audit records off the caller's critical path. A failed
// write is logged and otherwise ignored; it never affects the primary flow.
type Recorder struct {
	repo        Repo
	synchronous bool
}

type RecorderOption func(*Recorder)

// WithSynchronous makes writes block until completion (primarily for testing)
func WithSynchronous() RecorderOption {
	return func(r *Recorder) {
		r.synchronous = true
	}
}

func NewRecorder(repo Repo, options ...RecorderOption) *Recorder {
	recorder := &Recorder{repo: repo}
	for _, opt := range options {
		opt(recorder)
	}
	return recorder
}

// Record dispatches an audit write. The caller's context is deliberately
// not used: the write must survive the request that triggered it.
func (r *Recorder) Record(userID, action, description, ipAddress, userAgent string) {
	record := &Record{
		UserID:      userID,
		Action:      action,
		Description: description,
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
	}
	if r.synchronous {
		r.append(record)
		return
	}
	go r.append(record)
}

func (r *Recorder) append(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()

	if err := r.repo.Append(ctx, record); err != nil {
		log.Err(err).Str("action", record.Action).Str("userId", record.UserID).Msg("activity log write failed")
	}
}
