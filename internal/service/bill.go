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

type BillService struct {
	Repo *repo.GormRepo
}

// CreateBill validates the request and writes the bill plus its items as one
// atomic aggregate. An empty items list is a valid parent-only bill. Item
// totals are taken as submitted; the writer does not recompute
// quantity × unit price.
func (s *BillService) CreateBill(ctx context.Context, req transport.CreateBillRequest) (*models.Bill, error) {
	l := logging.FromContext(ctx).With("svc", "bill.create")

	if req.PatientID == 0 {
		return nil, fmt.Errorf("%w: patient_id required", ErrValidation)
	}
	if req.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due_date required", ErrValidation)
	}

	items := make([]models.BillItem, 0, len(req.Items))
	for i := range req.Items {
		if req.Items[i].Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		if req.Items[i].UnitPrice < 0 {
			return nil, fmt.Errorf("%w: unit_price must be >= 0", ErrValidation)
		}
		items = append(items, models.BillItem{
			Description: req.Items[i].Description,
			Quantity:    req.Items[i].Quantity,
			UnitPrice:   req.Items[i].UnitPrice,
			TotalAmount: req.Items[i].TotalAmount,
		})
	}

	bill := models.Bill{
		PatientID:   req.PatientID,
		BillDate:    req.BillDate,
		DueDate:     req.DueDate,
		TotalAmount: req.TotalAmount,
		Status:      req.Status,
		Description: req.Description,
		Items:       items,
	}

	if _, err := s.Repo.CreateBillWithItems(ctx, &bill); err != nil {
		l.Error("create_bill_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("create_bill_success", "bill_id", bill.ID, "items", len(bill.Items))
	return &bill, nil
}

func (s *BillService) GetBill(ctx context.Context, id uint) (*models.Bill, error) {
	bill, err := s.Repo.GetBillWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return bill, nil
}

func (s *BillService) ListBillsByPatient(ctx context.Context, patientID uint) (repo.ProcResult[models.Bill], error) {
	return s.Repo.ListBillsByPatient(ctx, patientID)
}
