package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/medbill/healthcare-billing/internal/models"
	"github.com/medbill/healthcare-billing/internal/repo"
	"github.com/medbill/healthcare-billing/internal/transport"
	"github.com/medbill/healthcare-billing/pkg/logging"
)

type PatientService struct {
	Repo *repo.GormRepo
}

func patientFromRequest(req transport.PatientRequest) models.Patient {
	return models.Patient{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		DateOfBirth:           req.DateOfBirth,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Address:               req.Address,
		InsuranceProvider:     req.InsuranceProvider,
		InsurancePolicyNumber: req.InsurancePolicyNumber,
	}
}

func (s *PatientService) CreatePatient(ctx context.Context, req transport.PatientRequest) (uint, error) {
	l := logging.FromContext(ctx).With("svc", "patient.create")

	if req.FirstName == "" || req.LastName == "" {
		return 0, fmt.Errorf("%w: first_name and last_name required", ErrValidation)
	}

	p := patientFromRequest(req)
	id, err := s.Repo.CreatePatient(ctx, &p)
	if err != nil {
		l.Error("create_patient_failed", "status", 500, "error", err)
		return 0, err
	}

	l.Info("create_patient_success", "patient_id", id)
	return id, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id uint) (*models.Patient, error) {
	p, err := s.Repo.GetPatient(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PatientService) UpdatePatient(ctx context.Context, id uint, req transport.PatientRequest) error {
	l := logging.FromContext(ctx).With("svc", "patient.update")

	if req.FirstName == "" || req.LastName == "" {
		return fmt.Errorf("%w: first_name and last_name required", ErrValidation)
	}

	p := patientFromRequest(req)
	p.ID = id
	if err := s.Repo.UpdatePatient(ctx, &p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		l.Error("update_patient_failed", "status", 500, "error", err)
		return err
	}
	return nil
}

func (s *PatientService) DeletePatient(ctx context.Context, id uint) error {
	err := s.Repo.DeletePatient(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *PatientService) ListPatients(ctx context.Context) (repo.ProcResult[models.Patient], error) {
	return s.Repo.ListPatients(ctx)
}
