package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carterisland/portal-auth/token"
	"github.com/carterisland/portal-auth/users"
)

const testSecret = "test-signing-secret"

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := token.NewCodec(testSecret)

	payload := token.Payload{
		UserID: "user-1",
		Email:  "john.doe@example.com",
		Role:   users.RoleAdmin,
	}

	signed, err := codec.Issue(payload)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	verified, err := codec.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, payload, *verified)
}

func TestVerifyExpiredToken(t *testing.T) {
	issuedAt := time.Now()
	clock := issuedAt
	codec := token.NewCodec(testSecret, token.WithNowTime(func() time.Time { return clock }))

	signed, err := codec.Issue(token.Payload{UserID: "user-1", Email: "a@x.com", Role: users.RoleUser})
	require.NoError(t, err)

	// Still valid just inside the window
	clock = issuedAt.Add(token.Validity - time.Minute)
	_, err = codec.Verify(signed)
	require.NoError(t, err)

	// Rejected once the window elapses
	clock = issuedAt.Add(token.Validity + time.Minute)
	_, err = codec.Verify(signed)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyTamperedToken(t *testing.T) {
	codec := token.NewCodec(testSecret)

	signed, err := codec.Issue(token.Payload{UserID: "user-1", Email: "a@x.com", Role: users.RoleUser})
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + ".eyJ1c2VySWQiOiJ1c2VyLTIifQ." + parts[2]

	_, err = codec.Verify(tampered)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	signed, err := token.NewCodec(testSecret).Issue(token.Payload{UserID: "user-1"})
	require.NoError(t, err)

	_, err = token.NewCodec("a-different-secret").Verify(signed)
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	codec := token.NewCodec(testSecret)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := codec.Verify(raw)
		require.ErrorIs(t, err, token.ErrInvalidToken, "token %q", raw)
	}
}
