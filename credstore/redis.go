package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the two session keys in Redis under a common prefix.
// Save writes both keys in one MULTI/EXEC so concurrent readers never observe
// a credential without its profile. An optional TTL bounds how long an
// untouched session survives; zero means no expiry (the backend remains
// authoritative either way).
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("credstore: redis client required")
	}
	if prefix == "" {
		prefix = "ihdrs"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}, nil
}

func (s *RedisStore) tokenKey() string   { return s.prefix + ":" + KeyToken }
func (s *RedisStore) profileKey() string { return s.prefix + ":" + KeyProfile }

func (s *RedisStore) Load(ctx context.Context) (Record, error) {
	values, err := s.client.MGet(ctx, s.tokenKey(), s.profileKey()).Result()
	if err != nil {
		return Record{}, fmt.Errorf("credstore: redis mget: %w", err)
	}

	var rec Record
	if v, ok := values[0].(string); ok {
		rec.Token = v
	}
	if v, ok := values[1].(string); ok && v != "" {
		if !json.Valid([]byte(v)) {
			return Record{}, fmt.Errorf("%w: key %s", ErrCorrupt, s.profileKey())
		}
		rec.Profile = json.RawMessage(v)
	}
	return rec, nil
}

func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(), rec.Token, s.ttl)
	pipe.Set(ctx, s.profileKey(), string(rec.Profile), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("credstore: redis save: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.tokenKey(), s.profileKey()).Err(); err != nil {
		return fmt.Errorf("credstore: redis clear: %w", err)
	}
	return nil
}
