package router

import (
	"github.com/labstack/echo/v4"

	"github.com/demce01/plazhi-sub000/internal/handler"
	"github.com/demce01/plazhi-sub000/internal/middleware"
	"github.com/demce01/plazhi-sub000/internal/model"
)

// RegisterStaff registers the desk routes for employees and admins: on-site
// bookings, the daily overview and all reservation status transitions.
func RegisterStaff(e *echo.Echo, h *handler.StaffHandler, jwtSecret string) {
	g := e.Group("/v1/staff")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleEmployee, model.RoleAdmin))

	g.POST("/reservations", h.Create)
	g.GET("/beaches/:id/reservations", h.ListByBeachDate)
	g.POST("/reservations/:id/confirm", h.Confirm)
	g.POST("/reservations/:id/cancel", h.Cancel)
	g.POST("/reservations/:id/checkin", h.CheckIn)
	g.POST("/reservations/:id/pay", h.MarkPaid)
}
