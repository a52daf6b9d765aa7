package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/medbill/healthcare-billing/internal/models"
)

// RotateRefreshToken revokes any active refresh token for the user and
// inserts the new one as a single transaction: both steps land or neither
// does. The loser's revoke of an already-revoked row is an idempotent no-op.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, userID uint, token string, expiresAt time.Time) error {
	now := time.Now().UTC()
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize concurrent rotations for the same user by taking a
		// write lock on the owner row first. Revoking alone is not
		// enough: at read committed the revoke statement's snapshot
		// cannot see a token inserted by a concurrent rotation, so two
		// rotations could both commit an active token. The touch UPDATE
		// takes the same exclusive row lock as SELECT ... FOR UPDATE;
		// the later transaction's revoke then runs after the earlier
		// commit and sees its insert.
		lock := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("is_active", gorm.Expr("is_active"))
		if lock.Error != nil {
			return lock.Error
		}
		if lock.RowsAffected == 0 {
			return ErrNotFound
		}

		err := tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND revoked_at IS NULL", userID).
			Update("revoked_at", now).Error
		if err != nil {
			return err
		}

		next := models.RefreshToken{
			UserID:    userID,
			Token:     token,
			ExpiresAt: expiresAt,
			CreatedAt: now,
		}
		return tx.Create(&next).Error
	})
}

// GetUserByRefreshToken resolves the owner of a refresh token. It matches
// only when the token row is non-revoked and unexpired and the owning
// credential is active; anything else is ErrNotFound.
func (r *GormRepo) GetUserByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN refresh_tokens ON refresh_tokens.user_id = users.id").
		Where("refresh_tokens.token = ?", token).
		Where("refresh_tokens.expires_at > ?", time.Now().UTC()).
		Where("refresh_tokens.revoked_at IS NULL").
		Where("users.is_active = ?", true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindRefreshByToken returns the raw token row regardless of state.
func (r *GormRepo) FindRefreshByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := r.DB.WithContext(ctx).Where("token = ?", token).First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// RevokeRefreshToken marks a single token as revoked (logout).
func (r *GormRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ? AND revoked_at IS NULL", token).
		Update("revoked_at", time.Now().UTC()).Error
}
