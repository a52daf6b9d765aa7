package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/medbill/healthcare-billing/internal/models"
)

func (r *GormRepo) CreatePatient(ctx context.Context, p *models.Patient) (uint, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := r.DB.WithContext(ctx).Create(p).Error; err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (r *GormRepo) GetPatient(ctx context.Context, id uint) (*models.Patient, error) {
	var p models.Patient
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) UpdatePatient(ctx context.Context, p *models.Patient) error {
	p.UpdatedAt = time.Now().UTC()
	result := r.DB.WithContext(ctx).Model(&models.Patient{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"first_name":              p.FirstName,
			"last_name":               p.LastName,
			"date_of_birth":           p.DateOfBirth,
			"email":                   p.Email,
			"phone":                   p.Phone,
			"address":                 p.Address,
			"insurance_provider":      p.InsuranceProvider,
			"insurance_policy_number": p.InsurancePolicyNumber,
			"updated_at":              p.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeletePatient(ctx context.Context, id uint) error {
	result := r.DB.WithContext(ctx).Delete(&models.Patient{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPatients returns patients in the procedure result shape the SPA
// consumes.
func (r *GormRepo) ListPatients(ctx context.Context) (ProcResult[models.Patient], error) {
	var patients []models.Patient
	err := r.DB.WithContext(ctx).Order("last_name, first_name").Find(&patients).Error
	if err != nil {
		return ProcResult[models.Patient]{StatusCode: 1, Message: err.Error()}, err
	}
	return ProcResult[models.Patient]{Rows: patients}, nil
}
