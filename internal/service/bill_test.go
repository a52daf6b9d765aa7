package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medbill/healthcare-billing/internal/models"
	"github.com/medbill/healthcare-billing/internal/repo"
	"github.com/medbill/healthcare-billing/internal/transport"
)

func newBillService(t *testing.T) *BillService {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Bill{}, &models.BillItem{}))

	return &BillService{Repo: &repo.GormRepo{DB: db}}
}

func validBillRequest() transport.CreateBillRequest {
	return transport.CreateBillRequest{
		PatientID:   1,
		DueDate:     time.Now().UTC().Add(30 * 24 * time.Hour),
		TotalAmount: 130,
		Status:      "pending",
		Items: []transport.CreateBillItem{
			{Description: "consultation", Quantity: 1, UnitPrice: 100, TotalAmount: 100},
			{Description: "bandages", Quantity: 3, UnitPrice: 10, TotalAmount: 30},
		},
	}
}

func TestBillService_CreateBill_Validation(t *testing.T) {
	t.Parallel()

	svc := newBillService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*transport.CreateBillRequest)
	}{
		{name: "missing patient", mutate: func(r *transport.CreateBillRequest) { r.PatientID = 0 }},
		{name: "missing due date", mutate: func(r *transport.CreateBillRequest) { r.DueDate = time.Time{} }},
		{name: "zero quantity", mutate: func(r *transport.CreateBillRequest) { r.Items[0].Quantity = 0 }},
		{name: "negative price", mutate: func(r *transport.CreateBillRequest) { r.Items[1].UnitPrice = -1 }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := validBillRequest()
			tt.mutate(&req)

			bill, err := svc.CreateBill(ctx, req)
			require.Error(t, err)
			assert.Nil(t, bill)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestBillService_CreateBill_Success(t *testing.T) {
	t.Parallel()

	svc := newBillService(t)
	ctx := context.Background()

	bill, err := svc.CreateBill(ctx, validBillRequest())
	require.NoError(t, err)
	require.NotZero(t, bill.ID)
	require.Len(t, bill.Items, 2)

	got, err := svc.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, got.ID)
	assert.Len(t, got.Items, 2)
}

func TestBillService_CreateBill_EmptyItems(t *testing.T) {
	t.Parallel()

	svc := newBillService(t)
	ctx := context.Background()

	req := validBillRequest()
	req.Items = nil

	bill, err := svc.CreateBill(ctx, req)
	require.NoError(t, err)
	require.NotZero(t, bill.ID)
	assert.Empty(t, bill.Items)
}

func TestBillService_CreateBill_TotalsNotRecomputed(t *testing.T) {
	t.Parallel()

	svc := newBillService(t)
	ctx := context.Background()

	// The submitted line total disagrees with quantity × unit price; the
	// writer stores it as-is.
	req := validBillRequest()
	req.Items = []transport.CreateBillItem{
		{Description: "consultation", Quantity: 2, UnitPrice: 100, TotalAmount: 50},
	}

	bill, err := svc.CreateBill(ctx, req)
	require.NoError(t, err)

	got, err := svc.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 50.0, got.Items[0].TotalAmount)
}

func TestBillService_GetBill_NotFound(t *testing.T) {
	t.Parallel()

	svc := newBillService(t)
	_, err := svc.GetBill(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
