package redisstore

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"ielts-genai-prep/internal/auth/domain/model"
	"ielts-genai-prep/internal/shared/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRepo connects to a local Redis or skips the test when none is
// reachable.
func setupTestRepo(t *testing.T) *RedisTokenRepository {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   15, // keep test keys away from any local data
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.FlushDB(ctx).Err()
		_ = client.Close()
	})

	return NewRedisTokenRepository(client, logger.NewLogger())
}

func testToken(ttl time.Duration) *model.AuthToken {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.AuthToken{
		ID:          uuid.NewString(),
		OwnerID:     "owner-1",
		Entitlement: model.Entitlement{model.AssessmentAcademicWriting},
		IssuedAt:    now,
		ExpiresAt:   now.Add(ttl),
	}
}

func TestRedisConsumeToken_Lifecycle(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	token := testToken(10 * time.Minute)
	require.NoError(t, repo.CreateToken(ctx, token))

	got, err := repo.ConsumeToken(ctx, token.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, got.Consumed)
	assert.Equal(t, token.OwnerID, got.OwnerID)
	assert.Equal(t, token.Entitlement, got.Entitlement)

	_, err = repo.ConsumeToken(ctx, token.ID, time.Now())
	assert.ErrorIs(t, err, model.ErrTokenAlreadyUsed)
}

func TestRedisConsumeToken_Unknown(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.ConsumeToken(context.Background(), uuid.NewString(), time.Now())
	assert.ErrorIs(t, err, model.ErrTokenNotFound)
}

func TestRedisConsumeToken_Expired(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	// The key-level TTL is clamped to a second, so the document outlives its
	// logical expiry long enough for the script to classify it.
	token := testToken(-time.Minute)
	require.NoError(t, repo.CreateToken(ctx, token))

	_, err := repo.ConsumeToken(ctx, token.ID, time.Now())
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestRedisConsumeToken_Concurrent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	token := testToken(10 * time.Minute)
	require.NoError(t, repo.CreateToken(ctx, token))

	const callers = 16
	var wg sync.WaitGroup
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ConsumeToken(ctx, token.ID, time.Now())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, model.ErrTokenAlreadyUsed)
	}
	assert.Equal(t, 1, successes, "the script must admit exactly one caller")
}

func TestRedisSessions(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	session := &model.WebSession{
		ID:          uuid.NewString(),
		OwnerID:     "owner-1",
		Entitlement: model.Entitlement{model.AssessmentGeneralSpeaking},
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Hour),
	}
	require.NoError(t, repo.CreateSession(ctx, session))

	got, err := repo.GetSessionByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.OwnerID, got.OwnerID)
	assert.Equal(t, session.Entitlement, got.Entitlement)

	require.NoError(t, repo.DeleteSession(ctx, session.ID))
	_, err = repo.GetSessionByID(ctx, session.ID)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	assert.NoError(t, repo.DeleteSession(ctx, session.ID))
}

func TestRedisTokenKeyHasTTL(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	token := testToken(10 * time.Minute)
	require.NoError(t, repo.CreateToken(ctx, token))

	ttl, err := repo.client.PTTL(ctx, tokenKeyPrefix+token.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 9*time.Minute)
	assert.LessOrEqual(t, ttl, 10*time.Minute)
}

func TestRedisTokenKeyTTLFromLifetime(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	// A token issued five minutes ago still gets its full ten-minute key
	// life; expiry is enforced logically by the consume script, not by the
	// wall clock at write time.
	now := time.Now().UTC().Truncate(time.Millisecond)
	token := &model.AuthToken{
		ID:          uuid.NewString(),
		OwnerID:     "owner-1",
		Entitlement: model.Entitlement{model.AssessmentAcademicWriting},
		IssuedAt:    now.Add(-5 * time.Minute),
		ExpiresAt:   now.Add(5 * time.Minute),
	}
	require.NoError(t, repo.CreateToken(ctx, token))

	ttl, err := repo.client.PTTL(ctx, tokenKeyPrefix+token.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 9*time.Minute)
	assert.LessOrEqual(t, ttl, 10*time.Minute)
}
