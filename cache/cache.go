package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Derived per-user cache keys. InvalidateUser must cover all of them.
func UserKey(userID string) string           { return "user:" + userID }
func UserSessionsKey(userID string) string   { return "user:sessions:" + userID }
func UserActivitiesKey(userID string) string { return "user:activities:" + userID }

// Options selects the Redis backend. When both URL and Host are empty the
// service runs disabled: every read is a miss and every write a no-op.
type Options struct {
	URL      string
	Host     string
	Port     int
	Password string
	DB       int
}

// Service is a best-effort key/value cache with TTL. It is a pure
// performance optimization: backend and serialization failures degrade to
// the absent/no-op result and are never surfaced to callers.
type Service struct {
	client *redis.Client
}

func New(opts Options) (*Service, error) {
	switch {
	case opts.URL != "":
		redisOpts, err := redis.ParseURL(opts.URL)
		if err != nil {
			return nil, errors.Wrap(err, "[cache.New] parse redis url")
		}
		return &Service{client: redis.NewClient(redisOpts)}, nil
	case opts.Host != "":
		port := opts.Port
		if port == 0 {
			port = 6379
		}
		return &Service{client: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", opts.Host, port),
			Password: opts.Password,
			DB:       opts.DB,
		})}, nil
	}
	return &Service{}, nil
}

// Enabled reports whether a backend is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

// Get returns the stored text for key, or absent on any failure.
func (s *Service) Get(ctx context.Context, key string) (string, bool) {
	if !s.Enabled() {
		return "", false
	}
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		return "", false
	}
	return value, true
}

// Set stores value under key for ttlSeconds. Non-string values are
// serialized to JSON text.
func (s *Service) Set(ctx context.Context, key string, value any, ttlSeconds int) {
	if !s.Enabled() {
		return
	}
	payload, ok := value.(string)
	if !ok {
		data, err := json.Marshal(value)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set serialization failed")
			return
		}
		payload = string(data)
	}
	if err := s.client.Set(ctx, key, payload, time.Duration(ttlSeconds)*time.Second).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (s *Service) Del(ctx context.Context, key string) {
	if !s.Enabled() {
		return
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache delete failed")
	}
}

// InvalidateUser removes every derived entry for a user as one logical
// operation. The deletes are independent single attempts; a failed one is
// logged and the rest still run.
func (s *Service) InvalidateUser(ctx context.Context, userID string) {
	for _, key := range []string{UserKey(userID), UserSessionsKey(userID), UserActivitiesKey(userID)} {
		s.Del(ctx, key)
	}
}

func (s *Service) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Close()
}
