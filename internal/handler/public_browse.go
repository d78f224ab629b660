package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/demce01/plazhi-sub000/internal/model"
	"github.com/demce01/plazhi-sub000/internal/repository"
)

// PublicHandler serves the unauthenticated catalog and availability routes.
// Anyone, including guests without an account, can browse beaches and see
// which sets are free on a given date.
type PublicHandler struct {
	BeachRepo *repository.BeachRepo
	ZoneRepo  *repository.ZoneRepo
	SetRepo   *repository.SetRepo
}

func NewPublicHandler(beachRepo *repository.BeachRepo, zoneRepo *repository.ZoneRepo, setRepo *repository.SetRepo) *PublicHandler {
	if beachRepo == nil || zoneRepo == nil || setRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{BeachRepo: beachRepo, ZoneRepo: zoneRepo, SetRepo: setRepo}
}

// ListBeaches handles GET /v1/beaches.
func (h *PublicHandler) ListBeaches(c echo.Context) error {
	beaches, err := h.BeachRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"beaches": beaches})
}

// GetBeach handles GET /v1/beaches/:id and includes the beach's zones.
func (h *PublicHandler) GetBeach(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid beach id"})
	}
	ctx := c.Request().Context()
	beach, err := h.BeachRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBeachNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beach not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	zones, err := h.ZoneRepo.ListByBeach(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"beach": beach, "zones": zones})
}

// Availability handles GET /v1/beaches/:id/availability?date=YYYY-MM-DD.
// It returns every set of the beach with its derived status for the date as
// a flat list. Dates in the past are rejected up front; there is nothing
// left to book on them.
func (h *PublicHandler) Availability(c echo.Context) error {
	sets, date, ok := h.resolve(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date": date,
		"sets": sets,
	})
}

// AvailabilityGrid handles GET /v1/beaches/:id/availability/grid and returns
// the same snapshot arranged into rows for map-style rendering. Sets without
// placement metadata appear under row 0 so none are hidden.
func (h *PublicHandler) AvailabilityGrid(c echo.Context) error {
	sets, date, ok := h.resolve(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date": date,
		"rows": model.BuildGrid(sets),
	})
}

// resolve validates the beach and date and runs the availability query.
// When ok is false the error response has already been written.
func (h *PublicHandler) resolve(c echo.Context) ([]model.SetWithStatus, string, bool) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid beach id"})
		return nil, "", false
	}
	raw := strings.TrimSpace(c.QueryParam("date"))
	if raw == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
		return nil, "", false
	}
	date, err := parseDate(raw)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
		return nil, "", false
	}
	if pastDate(date) {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "date is in the past"})
		return nil, "", false
	}
	ctx := c.Request().Context()
	if _, err := h.BeachRepo.GetByID(ctx, id); err != nil {
		if err == repository.ErrBeachNotFound {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "beach not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return nil, "", false
	}
	sets, err := h.SetRepo.ListWithStatus(ctx, id, date)
	if err != nil {
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		return nil, "", false
	}
	return sets, raw, true
}
