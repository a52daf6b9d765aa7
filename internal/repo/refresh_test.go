package repo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbill/healthcare-billing/internal/models"
)

func TestRotateRefreshToken_ExactlyOneActive(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, r, "alice")
	exp := time.Now().UTC().Add(7 * 24 * time.Hour)

	require.NoError(t, r.RotateRefreshToken(ctx, user.ID, "token-1", exp))

	owner, err := r.GetUserByRefreshToken(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, owner.ID)

	require.NoError(t, r.RotateRefreshToken(ctx, user.ID, "token-2", exp))

	// The prior token is revoked in the same unit of work.
	_, err = r.GetUserByRefreshToken(ctx, "token-1")
	assert.ErrorIs(t, err, ErrNotFound)

	owner, err = r.GetUserByRefreshToken(ctx, "token-2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, owner.ID)

	old, err := r.FindRefreshByToken(ctx, "token-1")
	require.NoError(t, err)
	require.NotNil(t, old.RevokedAt)

	var active int64
	require.NoError(t, r.DB.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", user.ID).
		Count(&active).Error)
	assert.Equal(t, int64(1), active)
}

// Two rotations for the same user racing each other must not both leave an
// active token. The rotation takes a write lock on the owner row before
// revoking, so the later transaction revokes the earlier insert instead of
// missing it; without that lock two concurrent commits can each keep their
// own token active on Postgres at read committed.
func TestRotateRefreshToken_ConcurrentRotationsOneSurvivor(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, r, "alice")
	exp := time.Now().UTC().Add(7 * 24 * time.Hour)

	require.NoError(t, r.RotateRefreshToken(ctx, user.ID, "token-0", exp))

	const racers = 2
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = r.RotateRefreshToken(ctx, user.ID, fmt.Sprintf("token-%d", i+1), exp)
		}()
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		}
	}
	require.NotZero(t, won, "at least one rotation must commit")

	var active int64
	require.NoError(t, r.DB.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", user.ID, time.Now().UTC()).
		Count(&active).Error)
	assert.Equal(t, int64(1), active)
}

func TestRotateRefreshToken_UnknownUser(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	err := r.RotateRefreshToken(context.Background(), 999, "orphan-token", time.Now().UTC().Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.FindRefreshByToken(context.Background(), "orphan-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRotateRefreshToken_DuplicateTokenRollsBack(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, r, "alice")
	bob := createTestUser(t, r, "bob")
	exp := time.Now().UTC().Add(24 * time.Hour)

	require.NoError(t, r.RotateRefreshToken(ctx, alice.ID, "shared-token", exp))

	// The insert collides with alice's token, so bob's rotation must fail
	// without touching prior state.
	err := r.RotateRefreshToken(ctx, bob.ID, "shared-token", exp)
	require.Error(t, err)

	owner, err := r.GetUserByRefreshToken(ctx, "shared-token")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, owner.ID)
}

func TestGetUserByRefreshToken_Misses(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, r, "alice")

	t.Run("unknown token", func(t *testing.T) {
		_, err := r.GetUserByRefreshToken(ctx, "never-issued")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expired token", func(t *testing.T) {
		require.NoError(t, r.RotateRefreshToken(ctx, user.ID, "expired-token", time.Now().UTC().Add(-time.Minute)))
		_, err := r.GetUserByRefreshToken(ctx, "expired-token")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("revoked token", func(t *testing.T) {
		require.NoError(t, r.RotateRefreshToken(ctx, user.ID, "revoked-token", time.Now().UTC().Add(time.Hour)))
		require.NoError(t, r.RevokeRefreshToken(ctx, "revoked-token"))
		_, err := r.GetUserByRefreshToken(ctx, "revoked-token")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("inactive owner", func(t *testing.T) {
		require.NoError(t, r.RotateRefreshToken(ctx, user.ID, "live-token", time.Now().UTC().Add(time.Hour)))
		require.NoError(t, r.DB.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("is_active", false).Error)
		_, err := r.GetUserByRefreshToken(ctx, "live-token")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRevokeRefreshToken_Idempotent(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, r, "alice")

	require.NoError(t, r.RotateRefreshToken(ctx, user.ID, "token", time.Now().UTC().Add(time.Hour)))
	require.NoError(t, r.RevokeRefreshToken(ctx, "token"))

	first, err := r.FindRefreshByToken(ctx, "token")
	require.NoError(t, err)
	require.NotNil(t, first.RevokedAt)

	// A second revoke matches no rows and changes nothing.
	require.NoError(t, r.RevokeRefreshToken(ctx, "token"))
	second, err := r.FindRefreshByToken(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, first.RevokedAt.Unix(), second.RevokedAt.Unix())
}
