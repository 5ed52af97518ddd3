package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisProtector(t *testing.T) *RedisLoginProtector {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLoginProtector(client, testAuthConfig)
}

func TestLoginProtectors(t *testing.T) {
	protectors := map[string]func(t *testing.T) LoginProtector{
		"redis":  func(t *testing.T) LoginProtector { return newRedisProtector(t) },
		"memory": func(t *testing.T) LoginProtector { return NewMemoryLoginProtector(testAuthConfig) },
	}

	for name, build := range protectors {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("locks after max attempts", func(t *testing.T) {
				p := build(t)
				identity := "carol@example.com"

				for i := 0; i < testAuthConfig.MaxFailedAttempts-1; i++ {
					require.NoError(t, p.TrackFailure(ctx, identity))
					locked, _, err := p.CheckLockout(ctx, identity)
					require.NoError(t, err)
					assert.False(t, locked, "attempt %d should not lock", i+1)
				}

				require.NoError(t, p.TrackFailure(ctx, identity))
				locked, remaining, err := p.CheckLockout(ctx, identity)
				require.NoError(t, err)
				assert.True(t, locked)
				assert.Greater(t, remaining, 0)
				assert.LessOrEqual(t, remaining, testAuthConfig.LockoutSeconds)
			})

			t.Run("reset clears the counter", func(t *testing.T) {
				p := build(t)
				identity := "carol@example.com"

				for i := 0; i < testAuthConfig.MaxFailedAttempts; i++ {
					require.NoError(t, p.TrackFailure(ctx, identity))
				}
				require.NoError(t, p.Reset(ctx, identity))

				locked, _, err := p.CheckLockout(ctx, identity)
				require.NoError(t, err)
				assert.False(t, locked)
			})

			t.Run("identities are independent", func(t *testing.T) {
				p := build(t)

				for i := 0; i < testAuthConfig.MaxFailedAttempts; i++ {
					require.NoError(t, p.TrackFailure(ctx, "locked@example.com"))
				}

				locked, _, err := p.CheckLockout(ctx, "other@example.com")
				require.NoError(t, err)
				assert.False(t, locked)
			})
		})
	}
}
