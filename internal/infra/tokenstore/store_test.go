//go:build unit

package tokenstore

import (
	"context"
	"testing"
	"time"

	"library-api/internal/pkg/clock"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionStore interface {
	Save(ctx context.Context, userID uuid.UUID, jti string, ttl time.Duration) error
	Consume(ctx context.Context, userID uuid.UUID, jti string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID) error
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) sessionStore{
		"redis": func(t *testing.T) sessionStore {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return NewRedisStore(client, "test")
		},
		"memory": func(_ *testing.T) sessionStore {
			return NewMemoryStore(clock.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("current jti is consumed once", func(t *testing.T) {
				store := newStore(t)
				userID := uuid.New()
				require.NoError(t, store.Save(ctx, userID, "jti-1", time.Hour))

				ok, err := store.Consume(ctx, userID, "jti-1")
				require.NoError(t, err)
				assert.True(t, ok)

				ok, err = store.Consume(ctx, userID, "jti-1")
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("rotated jti replaces the previous one", func(t *testing.T) {
				store := newStore(t)
				userID := uuid.New()
				require.NoError(t, store.Save(ctx, userID, "jti-1", time.Hour))
				require.NoError(t, store.Save(ctx, userID, "jti-2", time.Hour))

				ok, err := store.Consume(ctx, userID, "jti-1")
				require.NoError(t, err)
				assert.False(t, ok)

				ok, err = store.Consume(ctx, userID, "jti-2")
				require.NoError(t, err)
				assert.True(t, ok)
			})

			t.Run("revoke drops the session", func(t *testing.T) {
				store := newStore(t)
				userID := uuid.New()
				require.NoError(t, store.Save(ctx, userID, "jti-1", time.Hour))
				require.NoError(t, store.Revoke(ctx, userID))

				ok, err := store.Consume(ctx, userID, "jti-1")
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("sessions are per user", func(t *testing.T) {
				store := newStore(t)
				alice, bob := uuid.New(), uuid.New()
				require.NoError(t, store.Save(ctx, alice, "jti-a", time.Hour))

				ok, err := store.Consume(ctx, bob, "jti-a")
				require.NoError(t, err)
				assert.False(t, ok)
			})
		})
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clk)
	userID := uuid.New()
	require.NoError(t, store.Save(context.Background(), userID, "jti-1", time.Minute))

	clk.Add(2 * time.Minute)

	ok, err := store.Consume(context.Background(), userID, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
