package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/demce01/plazhi-sub000/internal/model"
	"github.com/demce01/plazhi-sub000/internal/repository"
	"github.com/demce01/plazhi-sub000/internal/selection"
)

// ClientHandler serves the authenticated client booking flow: create a
// pending reservation from a selection session or an explicit set list,
// list own reservations and cancel them. All methods assume JWTAuth and
// RequireRole(client) ran first.
type ClientHandler struct {
	Clients      *repository.ClientRepo
	Reservations *repository.ReservationRepo
	BeachRepo    *repository.BeachRepo
	Manager      *selection.Manager
}

func NewClientHandler(clients *repository.ClientRepo, reservations *repository.ReservationRepo, beachRepo *repository.BeachRepo, mgr *selection.Manager) *ClientHandler {
	if clients == nil || reservations == nil || beachRepo == nil || mgr == nil {
		panic("nil dependency passed to NewClientHandler")
	}
	return &ClientHandler{Clients: clients, Reservations: reservations, BeachRepo: beachRepo, Manager: mgr}
}

type createReservationReq struct {
	BeachID uint64   `json:"beach_id"`
	Date    string   `json:"date"`
	SetIDs  []uint64 `json:"set_ids"`
}

// reservationInput resolves the booking parameters either from the selection
// session header or from the request body. The session wins when present.
// When ok is false the error response has already been written.
func (h *ClientHandler) reservationInput(c echo.Context) (beachID uint64, date string, setIDs []uint64, fromSession string, ok bool) {
	if token := c.Request().Header.Get(sessionHeader); token != "" {
		view, found := h.Manager.Snapshot(token)
		if !found {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "unknown or expired selection session"})
			return 0, "", nil, "", false
		}
		if len(view.Sets) == 0 {
			_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "selection is empty"})
			return 0, "", nil, "", false
		}
		return view.BeachID, view.Date.Format("2006-01-02"), view.SetIDs(), token, true
	}

	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		return 0, "", nil, "", false
	}
	if req.BeachID == 0 || len(req.SetIDs) == 0 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "beach_id and set_ids are required"})
		return 0, "", nil, "", false
	}
	if _, err := parseDate(strings.TrimSpace(req.Date)); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
		return 0, "", nil, "", false
	}
	return req.BeachID, strings.TrimSpace(req.Date), dedupe(req.SetIDs), "", true
}

// dedupe drops zero and repeated IDs while keeping the original order.
func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Create handles POST /v1/me/reservations. The reservation starts pending;
// staff confirm it on payment or arrival. All writes happen in one
// transaction, so a concurrent booking of the same sets leaves exactly one
// winner and this request either fully succeeds or changes nothing.
func (h *ClientHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	client, err := h.Clients.GetByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrClientNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "client profile missing"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	beachID, dateStr, setIDs, sessionToken, ok := h.reservationInput(c)
	if !ok {
		return nil
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	if pastDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is in the past"})
	}
	if _, err := h.BeachRepo.GetByID(ctx, beachID); err != nil {
		if err == repository.ErrBeachNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beach not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	res := &model.Reservation{
		BeachID:         beachID,
		ReservationDate: date,
		ClientID:        &client.ID,
		Status:          model.ReservationPending,
	}
	if err := h.Reservations.CreateWithSets(ctx, res, setIDs); err != nil {
		var unavailable *repository.SetsUnavailableError
		if errors.As(err, &unavailable) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":   "some sets are no longer available",
				"set_ids": unavailable.SetIDs,
			})
		}
		if err == repository.ErrSetNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown set for this beach"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	if sessionToken != "" {
		h.Manager.Close(sessionToken)
	}

	booked, err := h.Reservations.SetsOf(ctx, res.ID)
	if err != nil {
		booked = nil
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"reservation": res,
		"sets":        booked,
	})
}

// ListMine handles GET /v1/me/reservations.
func (h *ClientHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	client, err := h.Clients.GetByUserID(ctx, userID)
	if err != nil {
		if err == repository.ErrClientNotFound {
			return c.JSON(http.StatusOK, echo.Map{"reservations": []model.Reservation{}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	list, err := h.Reservations.ListByClient(ctx, client.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// GetMine handles GET /v1/me/reservations/:id and includes the booked sets.
func (h *ClientHandler) GetMine(c echo.Context) error {
	res, ok := h.ownReservation(c)
	if !ok {
		return nil
	}
	booked, err := h.Reservations.SetsOf(c.Request().Context(), res.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res, "sets": booked})
}

// CancelMine handles POST /v1/me/reservations/:id/cancel. A reservation
// whose booker already checked in can no longer be self-cancelled.
func (h *ClientHandler) CancelMine(c echo.Context) error {
	res, ok := h.ownReservation(c)
	if !ok {
		return nil
	}
	if err := h.Reservations.Cancel(c.Request().Context(), res.ID, true); err != nil {
		if err == repository.ErrForbidden {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "checked-in reservations cannot be cancelled"})
		}
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation cannot be cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ownReservation loads the reservation from the path and verifies it belongs
// to the caller's client profile. When ok is false the error response has
// already been written.
func (h *ClientHandler) ownReservation(c echo.Context) (*model.Reservation, bool) {
	userID, err := getUserID(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return nil, false
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
		return nil, false
	}
	ctx := c.Request().Context()
	client, err := h.Clients.GetByUserID(ctx, userID)
	if err != nil {
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		return nil, false
	}
	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return nil, false
	}
	if res.ClientID == nil || *res.ClientID != client.ID {
		// Hide other clients' reservations entirely.
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		return nil, false
	}
	return res, true
}
