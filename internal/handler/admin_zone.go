package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/demce01/plazhi-sub000/internal/model"
	"github.com/demce01/plazhi-sub000/internal/repository"
)

type zoneReq struct {
	Name        string `json:"name"`
	TotalRows   uint32 `json:"total_rows"`
	SpotsPerRow uint32 `json:"spots_per_row"`
	PriceCents  uint32 `json:"price_cents"`
}

// CreateZone handles POST /v1/admin/beaches/:id/zones. The zone and its full
// rows x spots grid of sets are materialized in one transaction: if any
// generated name is already taken on the beach, nothing is created and the
// colliding names are reported.
func (h *AdminHandler) CreateZone(c echo.Context) error {
	beachID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid beach id"})
	}
	var req zoneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.TotalRows == 0 || req.SpotsPerRow == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_rows and spots_per_row must be positive"})
	}

	ctx := c.Request().Context()
	if _, err := h.BeachRepo.GetByID(ctx, beachID); err != nil {
		if err == repository.ErrBeachNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beach not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	z := &model.Zone{
		BeachID:     beachID,
		Name:        req.Name,
		TotalRows:   req.TotalRows,
		SpotsPerRow: req.SpotsPerRow,
		PriceCents:  req.PriceCents,
	}
	sets, err := h.ZoneRepo.CreateWithSets(ctx, z)
	if err != nil {
		var collision *repository.NameCollisionError
		if errors.As(err, &collision) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "generated set names already in use",
				"names": collision.Names,
			})
		}
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "zone name already exists on this beach"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create zone failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"zone": z, "sets": sets})
}

// DeleteZone handles DELETE /v1/admin/zones/:id. The zone's sets go with it,
// unless any of them is held by a non-cancelled reservation.
func (h *AdminHandler) DeleteZone(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zone id"})
	}
	if err := h.ZoneRepo.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrZoneNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
		}
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "zone has active reservations"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete zone failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
