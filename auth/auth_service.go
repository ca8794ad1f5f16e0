package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/carterisland/portal-auth/activity"
	"github.com/carterisland/portal-auth/cache"
	"github.com/carterisland/portal-auth/sessions"
	"github.com/carterisland/portal-auth/token"
	"github.com/carterisland/portal-auth/users"
)

// How long a cached identity projection lives. A status change made
// mid-TTL is only observed after expiry or explicit invalidation.
const identityCacheTTLSeconds = 900

// ClientMeta carries per-request client details for session and audit records.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// Cache is the subset of cache operations the service needs. Every
// implementation is best-effort: a backend failure and a miss are
// indistinguishable, and writes may silently not happen.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value any, ttlSeconds int)
	Del(ctx context.Context, key string)
	InvalidateUser(ctx context.Context, userID string)
}

// Repos holds the repository dependencies for the Service.
type Repos struct {
	Users    users.UserRepo
	Sessions sessions.Repo
}

// Service implements credential verification, token issuance, exclusive
// session creation and cache-backed identity resolution.
type Service struct {
	repos    Repos
	codec    *token.Codec
	cache    Cache
	recorder *activity.Recorder
	nowTime  func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(repos Repos, codec *token.Codec, cacheService Cache, recorder *activity.Recorder, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewService] Sessions repo is required")
	}
	if codec == nil {
		return nil, errors.New("[NewService] token codec is required")
	}
	if cacheService == nil {
		return nil, errors.New("[NewService] cache is required")
	}
	if recorder == nil {
		return nil, errors.New("[NewService] activity recorder is required")
	}

	service := &Service{
		repos:    repos,
		codec:    codec,
		cache:    cacheService,
		recorder: recorder,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(service)
	}
	return service, nil
}

// LoginResult is a successful authentication: the signed token and the
// non-secret projection of its owner.
type LoginResult struct {
	Token string
	User  *users.User
}

// Login verifies credentials, issues a token and opens the user's single
// live session. Credential failures of any kind come back as
// ErrInvalidCredentials; only infrastructure faults surface as other errors.
func (s *Service) Login(ctx context.Context, email, password string, meta ClientMeta) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	// Drop stale projections for any account under this email before the
	// authoritative read.
	ids, err := s.repos.Users.IDsByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] IDsByEmail")
	}
	for _, id := range ids {
		s.cache.Del(ctx, cache.UserKey(id))
	}

	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "[Service.Login] GetByEmail")
	}
	if !user.IsActive() {
		return nil, ErrInvalidCredentials
	}
	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	signed, err := s.codec.Issue(token.Payload{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] issue token")
	}

	now := s.nowTime()
	session := &sessions.Session{
		UserID:    user.ID,
		Token:     signed,
		ExpiresAt: now.Add(sessions.Validity),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
	}
	if err := s.repos.Sessions.CreateExclusive(ctx, session); err != nil {
		return nil, errors.Wrap(err, "[Service.Login] CreateExclusive")
	}

	projection := user.Projection()
	lastLogin := now
	projection.LastLoginAt = &lastLogin
	s.cache.Set(ctx, cache.UserKey(user.ID), projection, identityCacheTTLSeconds)

	s.recorder.Record(user.ID, activity.ActionLogin,
		fmt.Sprintf("User logged in successfully - Role: %s", user.Role),
		meta.IPAddress, meta.UserAgent)

	return &LoginResult{Token: signed, User: projection}, nil
}

// Resolve returns the authenticated identity behind a bearer token,
// consulting the cache before the store. The ACTIVE check runs on every
// call but its rejection is never cached.
func (s *Service) Resolve(ctx context.Context, rawToken string) (*users.User, error) {
	payload, err := s.codec.Verify(rawToken)
	if err != nil {
		return nil, ErrUnauthorized
	}

	key := cache.UserKey(payload.UserID)
	user := s.cachedUser(ctx, key)
	if user == nil {
		user, err = s.repos.Users.GetByID(ctx, payload.UserID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				// User deleted since token issuance
				return nil, ErrUnauthorized
			}
			return nil, errors.Wrap(err, "[Service.Resolve] GetByID")
		}
		s.cache.Set(ctx, key, user, identityCacheTTLSeconds)
	}

	if !user.IsActive() {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// NewUser is the registration input. Role defaults to USER.
type NewUser struct {
	Email      string
	Password   string
	Username   string
	FirstName  string
	LastName   string
	Role       users.RoleType
	Department string
	Position   string
	Phone      string
}

// Register creates an ACTIVE user with a hashed secret and returns the
// non-secret projection.
func (s *Service) Register(ctx context.Context, data NewUser) (*users.User, error) {
	if data.Email == "" || data.Password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := users.HashPassword(data.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] hash password")
	}

	role := data.Role
	if role == "" {
		role = users.RoleUser
	}
	user := &users.User{
		Email:        data.Email,
		Username:     data.Username,
		PasswordHash: hash,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Role:         role,
		Status:       users.StatusActive,
		Department:   data.Department,
		Position:     data.Position,
		Phone:        data.Phone,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, errors.Wrap(err, "[Service.Register] Create")
	}
	return user.Projection(), nil
}

// SetUserStatus changes an account's lifecycle status and invalidates
// every cached projection derived from it, so a suspension takes effect
// on the next resolve rather than after cache TTL expiry.
func (s *Service) SetUserStatus(ctx context.Context, userID string, status users.StatusType) error {
	if err := s.repos.Users.SetStatus(ctx, userID, status); err != nil {
		return errors.Wrap(err, "[Service.SetUserStatus] SetStatus")
	}
	s.cache.InvalidateUser(ctx, userID)
	return nil
}

func (s *Service) cachedUser(ctx context.Context, key string) *users.User {
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil
	}
	var user users.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		// Undecodable entries count as misses
		log.Warn().Err(err).Str("key", key).Msg("cached identity not decodable")
		return nil
	}
	return &user
}
