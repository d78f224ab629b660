package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/demce01/plazhi-sub000/internal/model"
	"github.com/demce01/plazhi-sub000/internal/repository"
)

// AdminHandler bundles the repositories used by catalog administration:
// beaches, zones with their generated sets, individual sets and users.
type AdminHandler struct {
	BeachRepo *repository.BeachRepo
	ZoneRepo  *repository.ZoneRepo
	SetRepo   *repository.SetRepo
	Users     *repository.UserRepo
	Clients   *repository.ClientRepo
}

func NewAdminHandler(beachRepo *repository.BeachRepo, zoneRepo *repository.ZoneRepo, setRepo *repository.SetRepo, users *repository.UserRepo, clients *repository.ClientRepo) *AdminHandler {
	if beachRepo == nil || zoneRepo == nil || setRepo == nil || users == nil || clients == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		BeachRepo: beachRepo,
		ZoneRepo:  zoneRepo,
		SetRepo:   setRepo,
		Users:     users,
		Clients:   clients,
	}
}

type beachReq struct {
	Name        string  `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

// CreateBeach handles POST /v1/admin/beaches.
func (h *AdminHandler) CreateBeach(c echo.Context) error {
	var req beachReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	b := &model.Beach{Name: req.Name, Location: req.Location, Description: req.Description}
	if err := h.BeachRepo.Create(c.Request().Context(), b); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "beach name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create beach failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"beach": b})
}

// UpdateBeach handles PUT /v1/admin/beaches/:id.
func (h *AdminHandler) UpdateBeach(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid beach id"})
	}
	var req beachReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx := c.Request().Context()
	b, err := h.BeachRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBeachNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beach not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	b.Name = req.Name
	b.Location = req.Location
	b.Description = req.Description
	if err := h.BeachRepo.Update(ctx, b); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "beach name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update beach failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"beach": b})
}

// DeleteBeach handles DELETE /v1/admin/beaches/:id. Zones, sets and
// reservations of the beach go with it through the FK cascade.
func (h *AdminHandler) DeleteBeach(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid beach id"})
	}
	if err := h.BeachRepo.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrBeachNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beach not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete beach failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
