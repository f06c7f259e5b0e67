package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/smartclean-api/pkg/errors"
)

func TestMemoryTokenRepositoryConsumesOnce(t *testing.T) {
	repo := NewMemoryTokenRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "nonce-1", "acc-1", time.Minute))

	accountID, err := repo.Consume(ctx, "nonce-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", accountID)

	_, err = repo.Consume(ctx, "nonce-1")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestMemoryTokenRepositoryExpires(t *testing.T) {
	repo := NewMemoryTokenRepository()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "nonce-1", "acc-1", time.Minute))
	now = now.Add(2 * time.Minute)

	_, err := repo.Consume(ctx, "nonce-1")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)

	require.NoError(t, repo.Save(ctx, "nonce-2", "acc-2", time.Minute))
	assert.Len(t, repo.tokens, 1)
}

func TestTokenRepositoryWrapsRedisErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	repo := NewTokenRepository(client, nil)
	defer repo.Close()

	err := repo.Save(context.Background(), "nonce", "acc", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set magic link nonce")

	_, err = repo.Consume(context.Background(), "nonce")
	require.Error(t, err)
	assert.NotErrorIs(t, err, appErrors.ErrCacheMiss)
}
