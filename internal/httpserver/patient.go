package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/medbill/healthcare-billing/internal/service"
	"github.com/medbill/healthcare-billing/internal/service/search"
	"github.com/medbill/healthcare-billing/internal/transport"
	"github.com/medbill/healthcare-billing/pkg/logging"
)

type PatientHTTP struct {
	Svc     *service.PatientService
	ES      *elasticsearch.Client
	ESIndex string
}

func (h *PatientHTTP) CreatePatient(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "patient.create")

	var req transport.PatientRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_patient_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	id, err := h.Svc.CreatePatient(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create patient")
	}

	h.indexPatient(c, id)

	return c.JSON(http.StatusOK, transport.CreatedResponse{
		ID:      id,
		Message: "patient created successfully",
	})
}

func (h *PatientHTTP) GetPatient(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := h.Svc.GetPatient(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch patient")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PatientHTTP) UpdatePatient(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.PatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.UpdatePatient(ctx, uint(id), req); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update patient")
		}
	}

	h.indexPatient(c, uint(id))

	return c.JSON(http.StatusOK, echo.Map{"message": "patient updated successfully"})
}

func (h *PatientHTTP) DeletePatient(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.DeletePatient(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete patient")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "patient deleted successfully"})
}

func (h *PatientHTTP) ListPatients(c echo.Context) error {
	result, err := h.Svc.ListPatients(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch patient data")
	}
	return c.JSON(http.StatusOK, result)
}

func (h *PatientHTTP) SearchPatients(c echo.Context) error {
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := paginate(page, size)

	total, patients, err := search.SearchPatients(c.Request().Context(), h.ES, h.ESIndex, q, from, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "patients": patients})
}

// indexPatient mirrors a created/updated patient into the search index.
// Indexing failures are logged, never surfaced.
func (h *PatientHTTP) indexPatient(c echo.Context, id uint) {
	if h.ES == nil {
		return
	}
	ctx := c.Request().Context()
	l := logging.FromContext(ctx)

	p, err := h.Svc.GetPatient(ctx, id)
	if err != nil {
		l.Error("patient_index_failed", "patient_id", id, "error", err)
		return
	}
	if err := search.IndexPatient(ctx, h.ES, h.ESIndex, p); err != nil {
		l.Error("patient_index_failed", "patient_id", id, "error", err)
	}
}

func paginate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return (page - 1) * size, size
}
