package repository_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/heartcraft/storefront/internal/config"
	"github.com/heartcraft/storefront/internal/models"
	repository "github.com/heartcraft/storefront/internal/repositories"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	return mr, client
}

func TestRateLimitRepository(t *testing.T) {
	_, client := setupMiniredis(t)
	repo := repository.NewRateLimitRepo(client, &config.RateConfig{MaxAttempts: 3, WindowSize: time.Minute})
	ctx := t.Context()

	t.Run("attempts inside the limit are allowed", func(t *testing.T) {
		for want := 2; want >= 0; want-- {
			allowed, remaining, retryAfter, err := repo.CheckLoginRateLimit(ctx, "ada@example.com")

			require.NoError(t, err)
			assert.True(t, allowed)
			assert.Equal(t, want, remaining)
			assert.Zero(t, retryAfter)
		}
	})

	t.Run("next attempt is rejected with a retry hint", func(t *testing.T) {
		allowed, remaining, retryAfter, err := repo.CheckLoginRateLimit(ctx, "ada@example.com")

		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.Positive(t, retryAfter)
		assert.LessOrEqual(t, retryAfter, 60)
	})

	t.Run("other users are unaffected", func(t *testing.T) {
		allowed, _, _, err := repo.CheckLoginRateLimit(ctx, "grace@example.com")

		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRateLimitRepository_RedisDown(t *testing.T) {
	mr, client := setupMiniredis(t)
	repo := repository.NewRateLimitRepo(client, &config.RateConfig{MaxAttempts: 3, WindowSize: time.Minute})
	mr.Close()

	allowed, _, _, err := repo.CheckLoginRateLimit(t.Context(), "ada@example.com")

	require.Error(t, err)
	assert.False(t, allowed)
}

func TestSessionRepository(t *testing.T) {
	mr, client := setupMiniredis(t)
	repo := repository.NewSessionRepo(client)
	ctx := t.Context()
	userID := uuid.New()

	t.Run("create then read", func(t *testing.T) {
		session := models.Session{ID: uuid.NewString(), UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}

		require.NoError(t, repo.CreateSession(ctx, session))
		got, err := repo.GetSessionUser(ctx, session.ID)

		require.NoError(t, err)
		assert.Equal(t, userID, got)
		assert.Greater(t, mr.TTL("session:"+session.ID), 59*time.Minute)
	})

	t.Run("expired session is gone", func(t *testing.T) {
		session := models.Session{ID: uuid.NewString(), UserID: userID, ExpiresAt: time.Now().Add(time.Minute)}
		require.NoError(t, repo.CreateSession(ctx, session))

		mr.FastForward(2 * time.Minute)
		_, err := repo.GetSessionUser(ctx, session.ID)

		assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	})

	t.Run("delete revokes", func(t *testing.T) {
		session := models.Session{ID: uuid.NewString(), UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}
		require.NoError(t, repo.CreateSession(ctx, session))

		require.NoError(t, repo.DeleteSession(ctx, session.ID))
		_, err := repo.GetSessionUser(ctx, session.ID)

		assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	})

	t.Run("already expired session is refused", func(t *testing.T) {
		err := repo.CreateSession(ctx, models.Session{ID: "old", UserID: userID, ExpiresAt: time.Now().Add(-time.Second)})

		assert.Error(t, err)
	})
}

func TestCheckoutMarkerRepository(t *testing.T) {
	mr, client := setupMiniredis(t)
	repo := repository.NewCheckoutMarkerRepo(client)
	ctx := t.Context()
	userID, orderID := uuid.New(), uuid.New()

	_, found, err := repo.LastPlaced(ctx, userID)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.MarkPlaced(ctx, userID, orderID, 10*time.Minute))

	got, found, err := repo.LastPlaced(ctx, userID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, orderID, got)

	mr.FastForward(11 * time.Minute)

	_, found, err = repo.LastPlaced(ctx, userID)
	require.NoError(t, err)
	assert.False(t, found)
}
