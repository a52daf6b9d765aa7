package repo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medbill/healthcare-billing/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Patient{},
		&models.Bill{},
		&models.BillItem{},
	))

	return &GormRepo{DB: db}
}

func createTestUser(t *testing.T, r *GormRepo, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: []byte("hash"),
		PasswordSalt: []byte("salt"),
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
		Role:         "user",
	}
	require.NoError(t, r.CreateUser(context.Background(), user))
	return user
}
