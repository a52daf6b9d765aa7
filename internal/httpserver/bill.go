package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medbill/healthcare-billing/internal/events"
	"github.com/medbill/healthcare-billing/internal/service"
	"github.com/medbill/healthcare-billing/internal/transport"
	"github.com/medbill/healthcare-billing/pkg/logging"
)

type BillHTTP struct {
	Svc      *service.BillService
	Producer *events.Producer
}

func (h *BillHTTP) CreateBill(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bill.create")

	var req transport.CreateBillRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_bill_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	bill, err := h.Svc.CreateBill(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_bill_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		// Rollback already happened; the caller never sees a partial id.
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create bill")
	}

	if err := h.Producer.Publish(ctx, strconv.FormatUint(uint64(bill.ID), 10), map[string]any{
		"type":       "bill_created",
		"bill_id":    bill.ID,
		"patient_id": bill.PatientID,
	}); err != nil {
		l.Error("event_publish_failed", "error", err)
	}

	return c.JSON(http.StatusCreated, transport.CreatedResponse{
		ID:      bill.ID,
		Message: "bill created successfully",
	})
}

func (h *BillHTTP) GetBill(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	bill, err := h.Svc.GetBill(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "bill not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch bill")
	}
	return c.JSON(http.StatusOK, bill)
}

func (h *BillHTTP) BillsByPatient(c echo.Context) error {
	patientID, err := strconv.ParseUint(c.Param("patientId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	result, err := h.Svc.ListBillsByPatient(c.Request().Context(), uint(patientID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch bill data")
	}
	return c.JSON(http.StatusOK, result)
}
