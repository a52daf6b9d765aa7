package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medbill/healthcare-billing/internal/middleware"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	PatientHandler *PatientHTTP
	BillHandler    *BillHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	api.POST("/auth/register", d.AuthHandler.Register)
	api.POST("/auth/login", d.AuthHandler.Login)
	api.POST("/auth/refresh", d.AuthHandler.Refresh)

	authMw := middleware.NewRequireAuth(d.JWTSecret)
	private := api.Group("", authMw.Middleware)

	private.POST("/auth/logout", d.AuthHandler.Logout)

	private.GET("/patients", d.PatientHandler.ListPatients)
	private.GET("/patients/search", d.PatientHandler.SearchPatients)
	private.POST("/patients", d.PatientHandler.CreatePatient)
	private.GET("/patients/:id", d.PatientHandler.GetPatient)
	private.PUT("/patients/:id", d.PatientHandler.UpdatePatient)
	private.DELETE("/patients/:id", d.PatientHandler.DeletePatient)

	private.POST("/bills", d.BillHandler.CreateBill)
	private.GET("/bills/:id", d.BillHandler.GetBill)
	private.GET("/bills/patient/:patientId", d.BillHandler.BillsByPatient)
}
