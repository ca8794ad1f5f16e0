package activity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carterisland/portal-auth/activity"
	"github.com/carterisland/portal-auth/activity/repofake"
)

func TestRecordWritesAllFields(t *testing.T) {
	repo := repofake.NewFakeActivityRepo()
	recorder := activity.NewRecorder(repo, activity.WithSynchronous())

	recorder.Record("user-1", activity.ActionLogin, "User logged in successfully - Role: USER", "10.0.0.1", "test-agent")

	records := repo.Records()
	require.Len(t, records, 1)
	require.Equal(t, "user-1", records[0].UserID)
	require.Equal(t, activity.ActionLogin, records[0].Action)
	require.Equal(t, "User logged in successfully - Role: USER", records[0].Description)
	require.Equal(t, "10.0.0.1", records[0].IPAddress)
	require.Equal(t, "test-agent", records[0].UserAgent)
}

func TestRecordSwallowsWriteFailures(t *testing.T) {
	repo := repofake.NewFakeActivityRepo()
	repo.FailWith = errors.New("store down")
	recorder := activity.NewRecorder(repo, activity.WithSynchronous())

	// Must not panic and must not block the caller
	recorder.Record("user-1", activity.ActionLogin, "desc", "", "")
	require.Empty(t, repo.Records())
}
