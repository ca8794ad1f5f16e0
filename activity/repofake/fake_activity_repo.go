package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carterisland/portal-auth/activity"
)

// FakeActivityRepo is an in-memory activity.Repo for testing.
type FakeActivityRepo struct {
	mu      sync.Mutex
	records []*activity.Record

	// FailWith, when set, makes every append fail with this error.
	FailWith error
}

func NewFakeActivityRepo() *FakeActivityRepo {
	return &FakeActivityRepo{}
}

func (f *FakeActivityRepo) Append(_ context.Context, record *activity.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailWith != nil {
		return f.FailWith
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	c := *record
	f.records = append(f.records, &c)
	return nil
}

func (f *FakeActivityRepo) Records() []*activity.Record {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*activity.Record, len(f.records))
	copy(out, f.records)
	return out
}
