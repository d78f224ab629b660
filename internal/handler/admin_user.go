package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/demce01/plazhi-sub000/internal/model"
)

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	type userRow struct {
		ID    uint64 `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	out := make([]userRow, len(users))
	for i, u := range users {
		out[i] = userRow{ID: u.ID, Email: u.Email, Role: u.Role}
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// GetUser handles GET /v1/admin/users/:id and includes the client profile
// when the user has one.
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	resp := echo.Map{
		"user": echo.Map{"id": u.ID, "email": u.Email, "role": u.Role, "is_active": u.IsActive},
	}
	if profile, err := h.Clients.GetByUserID(ctx, u.ID); err == nil {
		resp["client"] = profile
	}
	return c.JSON(http.StatusOK, resp)
}

type roleReq struct {
	Role string `json:"role"`
}

// UpdateUserRole handles PUT /v1/admin/users/:id/role. Admins promote
// clients to employees (or other admins) and demote them again; this is the
// only way staff accounts come to exist.
func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !model.ValidRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}
	if err := h.Users.UpdateRole(c.Request().Context(), id, role); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
