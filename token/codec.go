package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/carterisland/portal-auth/users"
)

// Validity is the fixed window embedded in every issued token.
const Validity = 24 * time.Hour

// ErrInvalidToken covers tampered, malformed and expired tokens. Callers
// must not be able to tell these apart; the distinction is logged at the
// point of failure only.
var ErrInvalidToken = errors.New("invalid token")

// Payload is the claim set carried by an issued token.
type Payload struct {
	UserID string
	Email  string
	Role   users.RoleType
}

type claims struct {
	jwtlib.RegisteredClaims
	UserID string         `json:"userId"`
	Email  string         `json:"email"`
	Role   users.RoleType `json:"role"`
}

// Codec signs and verifies the compact, time-bounded claim set with a
// process-wide secret.
type Codec struct {
	secret  []byte
	nowTime func() time.Time
}

type CodecOption func(*Codec)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowTime = nowFunc
	}
}

func NewCodec(secret string, options ...CodecOption) *Codec {
	codec := &Codec{
		secret:  []byte(secret),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(codec)
	}
	return codec
}

// Issue signs the payload, embedding issued-at and a 24-hour expiry.
func (c *Codec) Issue(payload Payload) (string, error) {
	now := c.nowTime()
	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(Validity)),
		},
		UserID: payload.UserID,
		Email:  payload.Email,
		Role:   payload.Role,
	})
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", errors.Wrap(err, "[Codec.Issue] sign")
	}
	return signed, nil
}

// Verify checks signature and expiry, reconstructing the payload.
func (c *Codec) Verify(rawToken string) (*Payload, error) {
	parsed, err := jwtlib.ParseWithClaims(rawToken, &claims{}, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	}, jwtlib.WithTimeFunc(c.nowTime))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	cl, ok := parsed.Claims.(*claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return &Payload{UserID: cl.UserID, Email: cl.Email, Role: cl.Role}, nil
}
