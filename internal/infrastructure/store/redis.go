package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/domain"
)

const (
	tokenKey   = "triporia:session:token"
	profileKey = "triporia:session:profile"

	opTimeout      = 2 * time.Second
	connectTimeout = 5 * time.Second
)

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = connectTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisStore keeps the session credential in Redis instead of a local file,
// for shared-terminal deployments where several processes serve the same
// session. It honours the same never-errors contract as FileStore: Redis
// failures read as absent and writes are dropped with a warning.
type RedisStore struct {
	client *redis.Client
	mu     sync.Mutex
	log    zerolog.Logger
}

// NewRedisStore wraps an established Redis client.
func NewRedisStore(client *redis.Client, log zerolog.Logger) *RedisStore {
	return &RedisStore{client: client, log: log}
}

func (s *RedisStore) Token() string {
	ctx, cancel := opContext()
	defer cancel()
	token, err := s.client.Get(ctx, tokenKey).Result()
	if err != nil {
		return ""
	}
	return token
}

func (s *RedisStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, cancel := opContext()
	defer cancel()
	var err error
	if token == "" {
		err = s.client.Del(ctx, tokenKey).Err()
	} else {
		err = s.client.Set(ctx, tokenKey, token, 0).Err()
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("redis token write failed")
	}
}

func (s *RedisStore) User() (domain.Profile, bool) {
	ctx, cancel := opContext()
	defer cancel()
	raw, err := s.client.Get(ctx, profileKey).Bytes()
	if err != nil {
		return domain.Profile{}, false
	}
	var p domain.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		s.log.Debug().Err(err).Msg("stored profile malformed, treating as absent")
		return domain.Profile{}, false
	}
	return p, true
}

func (s *RedisStore) SetUser(p *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, cancel := opContext()
	defer cancel()
	if p == nil {
		if err := s.client.Del(ctx, profileKey).Err(); err != nil {
			s.log.Warn().Err(err).Msg("redis profile delete failed")
		}
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		s.log.Warn().Err(err).Msg("profile serialization failed")
		return
	}
	if err := s.client.Set(ctx, profileKey, raw, 0).Err(); err != nil {
		s.log.Warn().Err(err).Msg("redis profile write failed")
	}
}

// ClearIfTokenMatches clears the session keys only while the stored token
// still equals stale. Mutual exclusion is process-local; a cross-process race
// is accepted, matching the file store's semantics.
func (s *RedisStore) ClearIfTokenMatches(stale string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stale == "" {
		return false
	}
	ctx, cancel := opContext()
	defer cancel()
	current, err := s.client.Get(ctx, tokenKey).Result()
	if err != nil || current != stale {
		return false
	}
	if err := s.client.Del(ctx, tokenKey, profileKey).Err(); err != nil {
		s.log.Warn().Err(err).Msg("redis session clear failed")
		return false
	}
	return true
}

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
