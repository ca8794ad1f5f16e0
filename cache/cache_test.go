package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carterisland/portal-auth/cache"
)

func TestDisabledServiceIsNoOp(t *testing.T) {
	service, err := cache.New(cache.Options{})
	require.NoError(t, err)
	require.False(t, service.Enabled())

	ctx := context.Background()

	// Writes and deletes are silent no-ops, reads are misses
	service.Set(ctx, "user:1", map[string]string{"id": "1"}, 900)
	service.Del(ctx, "user:1")
	service.InvalidateUser(ctx, "1")

	_, ok := service.Get(ctx, "user:1")
	require.False(t, ok)

	require.NoError(t, service.Close())
}

func TestNewRejectsMalformedURL(t *testing.T) {
	_, err := cache.New(cache.Options{URL: "://not-a-url"})
	require.Error(t, err)
}

func TestUserKeys(t *testing.T) {
	require.Equal(t, "user:abc", cache.UserKey("abc"))
	require.Equal(t, "user:sessions:abc", cache.UserSessionsKey("abc"))
	require.Equal(t, "user:activities:abc", cache.UserActivitiesKey("abc"))
}
