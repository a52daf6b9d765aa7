package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/medbill/healthcare-billing/internal/models"
)

// ErrNotFound is the repo-level miss; services translate it into their own
// sentinel errors so handlers never depend on gorm.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate reports a unique-constraint violation on insert.
var ErrDuplicate = errors.New("duplicate record")

// GetActiveUserByUsername returns the credential record for username,
// considering active records only.
func (r *GormRepo) GetActiveUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Where("username = ? AND is_active = ?", username, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}
