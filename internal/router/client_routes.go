package router

import (
	"github.com/labstack/echo/v4"

	"github.com/demce01/plazhi-sub000/internal/handler"
	"github.com/demce01/plazhi-sub000/internal/middleware"
	"github.com/demce01/plazhi-sub000/internal/model"
)

// RegisterClient registers the authenticated client booking routes under
// /v1/me. Staff roles pass too so employees can exercise the client flow
// with their own accounts.
func RegisterClient(e *echo.Echo, h *handler.ClientHandler, jwtSecret string) {
	g := e.Group("/v1/me")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleClient, model.RoleEmployee, model.RoleAdmin))

	g.POST("/reservations", h.Create)
	g.GET("/reservations", h.ListMine)
	g.GET("/reservations/:id", h.GetMine)
	g.POST("/reservations/:id/cancel", h.CancelMine)
}
