package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/demce01/plazhi-sub000/internal/model"
	"github.com/demce01/plazhi-sub000/internal/repository"
)

type setReq struct {
	Name       string  `json:"name"`
	RowNumber  *uint32 `json:"row_number"`
	Position   *uint32 `json:"position"`
	PriceCents uint32  `json:"price_cents"`
}

// CreateSet handles POST /v1/admin/beaches/:id/sets: a manually placed set
// outside any zone. Row and position are optional; unplaced sets show up
// under row 0 of the grid.
func (h *AdminHandler) CreateSet(c echo.Context) error {
	beachID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid beach id"})
	}
	var req setReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx := c.Request().Context()
	if _, err := h.BeachRepo.GetByID(ctx, beachID); err != nil {
		if err == repository.ErrBeachNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beach not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	s := &model.Set{
		BeachID:    beachID,
		Name:       req.Name,
		RowNumber:  req.RowNumber,
		Position:   req.Position,
		PriceCents: req.PriceCents,
		Status:     model.StatusAvailable,
	}
	if err := h.SetRepo.Create(ctx, s); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "set name or placement already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create set failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"set": s})
}

// UpdateSet handles PUT /v1/admin/sets/:id. Price changes only affect future
// bookings; existing reservations keep their snapshots.
func (h *AdminHandler) UpdateSet(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid set id"})
	}
	var req setReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx := c.Request().Context()
	s, err := h.SetRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrSetNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "set not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	s.Name = req.Name
	s.RowNumber = req.RowNumber
	s.Position = req.Position
	s.PriceCents = req.PriceCents
	if err := h.SetRepo.Update(ctx, s); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "set name or placement already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update set failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"set": s})
}

// DeleteSet handles DELETE /v1/admin/sets/:id. Sets held by non-cancelled
// reservations cannot be deleted.
func (h *AdminHandler) DeleteSet(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid set id"})
	}
	if err := h.SetRepo.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrSetNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "set not found"})
		}
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "set has active reservations"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete set failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
