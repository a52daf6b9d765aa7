package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medbill/healthcare-billing/internal/models"
)

// CreateBillWithItems inserts the bill and every item in input order inside
// one transaction. Any failed insert rolls back the whole aggregate, so
// readers never observe a bill without its items or with a subset of them.
// An empty items list is a valid parent-only bill.
func (r *GormRepo) CreateBillWithItems(ctx context.Context, bill *models.Bill) (uint, error) {
	items := bill.Items
	bill.Items = nil

	now := time.Now().UTC()
	bill.CreatedAt = now
	bill.UpdatedAt = now

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(bill).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].BillID = bill.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	bill.Items = items
	return bill.ID, nil
}

// GetBillWithItems loads a bill and its items.
func (r *GormRepo) GetBillWithItems(ctx context.Context, id uint) (*models.Bill, error) {
	var bill models.Bill
	err := r.DB.WithContext(ctx).Preload("Items").First(&bill, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// ListBillsByPatient returns the patient's bills in the procedure result
// shape the SPA consumes.
func (r *GormRepo) ListBillsByPatient(ctx context.Context, patientID uint) (ProcResult[models.Bill], error) {
	var bills []models.Bill
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&bills).Error
	if err != nil {
		return ProcResult[models.Bill]{StatusCode: 1, Message: err.Error()}, err
	}
	return ProcResult[models.Bill]{Rows: bills}, nil
}
