package users_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/carterisland/portal-auth/users"
)

func TestHashPassword(t *testing.T) {
	hash, err := users.HashPassword("S3cretPass")
	require.NoError(t, err)
	require.NotEqual(t, "S3cretPass", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, 12, cost)
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := users.HashPassword("S3cretPass")
	require.NoError(t, err)

	require.True(t, users.CheckPasswordHash("S3cretPass", hash))
	require.False(t, users.CheckPasswordHash("wrong-password", hash))
	require.False(t, users.CheckPasswordHash("S3cretPass", "not-a-bcrypt-digest"))
}

func TestProjectionStripsSecret(t *testing.T) {
	user := &users.User{
		ID:           "user-1",
		Email:        "john.doe@example.com",
		PasswordHash: "some-digest",
		Role:         users.RoleUser,
		Status:       users.StatusActive,
	}

	projection := user.Projection()
	require.Empty(t, projection.PasswordHash)
	require.Equal(t, user.Email, projection.Email)

	// The original must keep its digest
	require.Equal(t, "some-digest", user.PasswordHash)
}

func TestIsActive(t *testing.T) {
	require.True(t, (&users.User{Status: users.StatusActive}).IsActive())
	require.False(t, (&users.User{Status: users.StatusInactive}).IsActive())
	require.False(t, (&users.User{Status: users.StatusSuspended}).IsActive())
}
