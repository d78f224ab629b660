// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/demce01/plazhi-sub000/internal/handler"
	"github.com/demce01/plazhi-sub000/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Unauthenticated operations live
// under /v1/auth while /v1/me requires a valid access token of any role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works without the JWT middleware; the handler inspects the
	// Authorization header and body itself.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the guest-visible catalog, availability and
// selection endpoints. No JWT or role middleware applies here: browsing and
// basket building are open to everyone. cacheMW wraps the slow-changing
// catalog routes only; availability must always be served fresh.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, s *handler.SelectionHandler, g *handler.GuestHandler, cacheMW echo.MiddlewareFunc) {
	e.GET("/v1/beaches", p.ListBeaches, cacheMW)
	e.GET("/v1/beaches/:id", p.GetBeach, cacheMW)
	e.GET("/v1/beaches/:id/availability", p.Availability)
	e.GET("/v1/beaches/:id/availability/grid", p.AvailabilityGrid)

	e.POST("/v1/selection", s.Open)
	e.GET("/v1/selection", s.Show)
	e.POST("/v1/selection/toggle", s.Toggle)
	e.DELETE("/v1/selection/sets/:id", s.Remove)

	e.POST("/v1/guest/reservations", g.Create)
	e.GET("/v1/guest/reservations/:code", g.Lookup)
	e.POST("/v1/guest/reservations/:code/cancel", g.Cancel)
}
