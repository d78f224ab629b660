package router

import (
	"github.com/labstack/echo/v4"

	"github.com/demce01/plazhi-sub000/internal/handler"
	"github.com/demce01/plazhi-sub000/internal/middleware"
	"github.com/demce01/plazhi-sub000/internal/model"
)

// RegisterAdmin registers catalog and user administration under /v1/admin.
// Only the admin role passes.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/beaches", h.CreateBeach)
	g.PUT("/beaches/:id", h.UpdateBeach)
	g.DELETE("/beaches/:id", h.DeleteBeach)

	g.POST("/beaches/:id/zones", h.CreateZone)
	g.DELETE("/zones/:id", h.DeleteZone)

	g.POST("/beaches/:id/sets", h.CreateSet)
	g.PUT("/sets/:id", h.UpdateSet)
	g.DELETE("/sets/:id", h.DeleteSet)

	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.GetUser)
	g.PUT("/users/:id/role", h.UpdateUserRole)
}
