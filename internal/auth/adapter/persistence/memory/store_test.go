package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ielts-genai-prep/internal/auth/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToken(id string, issued time.Time) *model.AuthToken {
	return &model.AuthToken{
		ID:          id,
		OwnerID:     "owner-1",
		Entitlement: model.Entitlement{model.AssessmentAcademicWriting},
		IssuedAt:    issued,
		ExpiresAt:   issued.Add(10 * time.Minute),
	}
}

func TestConsumeToken_Lifecycle(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	issued := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateToken(ctx, newToken("t1", issued)))

	got, err := store.ConsumeToken(ctx, "t1", issued.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, got.Consumed)
	assert.Equal(t, "owner-1", got.OwnerID)

	_, err = store.ConsumeToken(ctx, "t1", issued.Add(2*time.Minute))
	assert.ErrorIs(t, err, model.ErrTokenAlreadyUsed)

	_, err = store.ConsumeToken(ctx, "missing", issued)
	assert.ErrorIs(t, err, model.ErrTokenNotFound)
}

func TestConsumeToken_ExpiryBoundary(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	issued := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateToken(ctx, newToken("t1", issued)))

	// A nanosecond past the deadline the token is gone.
	_, err := store.ConsumeToken(ctx, "t1", issued.Add(10*time.Minute+time.Nanosecond))
	assert.ErrorIs(t, err, model.ErrTokenExpired)

	// Exactly at the deadline it is still consumable.
	require.NoError(t, store.CreateToken(ctx, newToken("t2", issued)))
	_, err = store.ConsumeToken(ctx, "t2", issued.Add(10*time.Minute))
	assert.NoError(t, err)
}

func TestConsumeToken_ConsumedWinsOverExpired(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	issued := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateToken(ctx, newToken("t1", issued)))
	_, err := store.ConsumeToken(ctx, "t1", issued.Add(time.Minute))
	require.NoError(t, err)

	// A token that is both consumed and expired reports the replay.
	_, err = store.ConsumeToken(ctx, "t1", issued.Add(time.Hour))
	assert.ErrorIs(t, err, model.ErrTokenAlreadyUsed)
}

func TestConsumeToken_Concurrent(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	issued := time.Now()

	require.NoError(t, store.CreateToken(ctx, newToken("t1", issued)))

	const callers = 32
	var wg sync.WaitGroup
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.ConsumeToken(ctx, "t1", time.Now())
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
	assert.Equal(t, 1, successes)
}

func TestConsumeToken_ReturnsCopy(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	issued := time.Now()

	require.NoError(t, store.CreateToken(ctx, newToken("t1", issued)))

	got, err := store.ConsumeToken(ctx, "t1", issued)
	require.NoError(t, err)

	// Mutating the returned value must not reach the stored record.
	got.Consumed = false
	_, err = store.ConsumeToken(ctx, "t1", issued)
	assert.ErrorIs(t, err, model.ErrTokenAlreadyUsed)
}

func TestSessions(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now()

	session := &model.WebSession{
		ID:          "s1",
		OwnerID:     "owner-1",
		Entitlement: model.Entitlement{model.AssessmentGeneralSpeaking},
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Hour),
	}
	require.NoError(t, store.CreateSession(ctx, session))

	got, err := store.GetSessionByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, session.Entitlement, got.Entitlement)

	require.NoError(t, store.DeleteSession(ctx, "s1"))
	_, err = store.GetSessionByID(ctx, "s1")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	// Deleting an absent session is a no-op.
	assert.NoError(t, store.DeleteSession(ctx, "s1"))
}

func TestUsers(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user := &model.User{ID: "u1", Email: "student@example.com"}
	require.NoError(t, store.CreateUser(ctx, user))

	err := store.CreateUser(ctx, &model.User{ID: "u2", Email: "student@example.com"})
	assert.ErrorIs(t, err, model.ErrUserExists)

	byEmail, err := store.GetUserByEmail(ctx, "student@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	byID, err := store.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", byID.Email)

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestConcurrentMixedOperations(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	issued := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("t%d", n)
			if err := store.CreateToken(ctx, newToken(id, issued)); err != nil {
				t.Error(err)
				return
			}
			if _, err := store.ConsumeToken(ctx, id, issued); err != nil {
				t.Error(err)
			}
			if _, err := store.ConsumeToken(ctx, id, issued); !errors.Is(err, model.ErrTokenAlreadyUsed) {
				t.Errorf("expected replay error, got %v", err)
			}
		}(i)
	}
	wg.Wait()
}
