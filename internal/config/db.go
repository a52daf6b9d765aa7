package config

import (
	"context"

	_ "github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/medbill/healthcare-billing/internal/models"
	"github.com/medbill/healthcare-billing/pkg/db"
)

// InitDB opens the database and migrates the billing schema.
func InitDB(ctx context.Context, dsn string) (*gorm.DB, error) {
	gdb, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Patient{},
		&models.Bill{},
		&models.BillItem{},
	); err != nil {
		return nil, err
	}

	return gdb, nil
}
