// Package tokenstore tracks the one refresh token (by jti) each user may currently redeem.
// Redeeming consumes it, so a replayed refresh token is rejected after rotation.
package tokenstore

import (
	"context"
	"strings"
	"time"

	"library-api/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  redis.call("DEL", KEYS[1])
  return 1
end
return 0
`)

type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "library"
	}
	return &RedisStore{
		client: client,
		prefix: prefix + ":refresh",
	}
}

func (s *RedisStore) key(userID uuid.UUID) string {
	return s.prefix + ":" + userID.String()
}

func (s *RedisStore) Save(ctx context.Context, userID uuid.UUID, jti string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(userID), jti, ttl).Err(); err != nil {
		return errs.Wrap(err, "failed to save refresh session")
	}
	return nil
}

func (s *RedisStore) Consume(ctx context.Context, userID uuid.UUID, jti string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.client, []string{s.key(userID)}, jti).Int64()
	if err != nil {
		return false, errs.Wrap(err, "failed to consume refresh session")
	}
	return n == 1, nil
}

func (s *RedisStore) Revoke(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return errs.Wrap(err, "failed to revoke refresh session")
	}
	return nil
}
