package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/demce01/plazhi-sub000/internal/repository"
	"github.com/demce01/plazhi-sub000/internal/selection"
)

// sessionHeader carries the opaque selection session token between requests.
const sessionHeader = "X-Selection-Session"

// SelectionHandler exposes the pre-booking basket: visitors open a session
// for one beach and date, toggle sets in and out and read back the running
// total. The basket lives in memory only; the reservation transaction is
// the sole authority on availability.
type SelectionHandler struct {
	Manager   *selection.Manager
	BeachRepo *repository.BeachRepo
	SetRepo   *repository.SetRepo
}

func NewSelectionHandler(mgr *selection.Manager, beachRepo *repository.BeachRepo, setRepo *repository.SetRepo) *SelectionHandler {
	if mgr == nil || beachRepo == nil || setRepo == nil {
		panic("nil dependency passed to NewSelectionHandler")
	}
	return &SelectionHandler{Manager: mgr, BeachRepo: beachRepo, SetRepo: setRepo}
}

type openSelectionReq struct {
	BeachID uint64 `json:"beach_id"`
	Date    string `json:"date"`
}

type toggleReq struct {
	SetID uint64 `json:"set_id"`
}

// Open handles POST /v1/selection. It validates the beach and date and
// returns a fresh session token for the basket.
func (h *SelectionHandler) Open(c echo.Context) error {
	var req openSelectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.BeachID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "beach_id is required"})
	}
	date, err := parseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	if pastDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is in the past"})
	}
	if _, err := h.BeachRepo.GetByID(c.Request().Context(), req.BeachID); err != nil {
		if err == repository.ErrBeachNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beach not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	token, _ := h.Manager.Open(req.BeachID, date)
	return c.JSON(http.StatusCreated, echo.Map{
		"session":  token,
		"beach_id": req.BeachID,
		"date":     req.Date,
	})
}

// errSessionExpired signals that a basket vanished between the snapshot and
// the locked mutation, typically swept by the TTL.
var errSessionExpired = errors.New("selection session expired")

// Toggle handles POST /v1/selection/toggle. Toggling an unselected set adds
// it after checking its derived status for the session's date; toggling a
// selected set removes it. The response always carries the full basket.
func (h *SelectionHandler) Toggle(c echo.Context) error {
	token := c.Request().Header.Get(sessionHeader)
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing " + sessionHeader + " header"})
	}
	var req toggleReq
	if err := c.Bind(&req); err != nil || req.SetID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "set_id is required"})
	}

	view, ok := h.Manager.Snapshot(token)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown or expired selection session"})
	}

	// Resolve the set's current status outside the manager lock; the
	// database call must not serialize all sessions.
	sws, beachID, err := h.SetRepo.GetWithStatus(c.Request().Context(), req.SetID, view.Date)
	if err != nil {
		if err == repository.ErrSetNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "set not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if beachID != view.BeachID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "set belongs to another beach"})
	}

	var toggleErr error
	err = h.Manager.With(token, func(b *selection.Basket) error {
		if b == nil {
			return errSessionExpired
		}
		_, toggleErr = b.Toggle(*sws)
		view = b.View()
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown or expired selection session"})
	}
	if toggleErr != nil {
		var unavailable *selection.UnavailableError
		if errors.As(toggleErr, &unavailable) {
			return c.JSON(http.StatusConflict, echo.Map{"error": toggleErr.Error(), "set_id": unavailable.SetID})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "selection failed"})
	}
	return h.respondBasket(c, view)
}

// Remove handles DELETE /v1/selection/sets/:id. Removing a set that is not
// in the basket is a no-op.
func (h *SelectionHandler) Remove(c echo.Context) error {
	token := c.Request().Header.Get(sessionHeader)
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing " + sessionHeader + " header"})
	}
	setID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid set id"})
	}
	var view selection.View
	err = h.Manager.With(token, func(b *selection.Basket) error {
		if b == nil {
			return errSessionExpired
		}
		b.Remove(setID)
		view = b.View()
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown or expired selection session"})
	}
	return h.respondBasket(c, view)
}

// Show handles GET /v1/selection and returns the current basket.
func (h *SelectionHandler) Show(c echo.Context) error {
	token := c.Request().Header.Get(sessionHeader)
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing " + sessionHeader + " header"})
	}
	view, ok := h.Manager.Snapshot(token)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown or expired selection session"})
	}
	return h.respondBasket(c, view)
}

func (h *SelectionHandler) respondBasket(c echo.Context, v selection.View) error {
	return c.JSON(http.StatusOK, echo.Map{
		"beach_id":    v.BeachID,
		"date":        v.Date.Format("2006-01-02"),
		"sets":        v.Sets,
		"total_cents": v.TotalCents,
	})
}
