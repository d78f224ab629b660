package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/demce01/plazhi-sub000/internal/model"
	"github.com/demce01/plazhi-sub000/internal/queue"
	"github.com/demce01/plazhi-sub000/internal/repository"
	"github.com/demce01/plazhi-sub000/internal/selection"
	"github.com/demce01/plazhi-sub000/internal/service"
)

// GuestHandler serves bookings made without an account. Guest reservations
// are confirmed immediately (there is no account to come back with) and the
// lookup code returned at creation is the only handle for later lookup and
// cancellation.
type GuestHandler struct {
	Reservations *repository.ReservationRepo
	BeachRepo    *repository.BeachRepo
	Manager      *selection.Manager
}

func NewGuestHandler(reservations *repository.ReservationRepo, beachRepo *repository.BeachRepo, mgr *selection.Manager) *GuestHandler {
	if reservations == nil || beachRepo == nil || mgr == nil {
		panic("nil dependency passed to NewGuestHandler")
	}
	return &GuestHandler{Reservations: reservations, BeachRepo: beachRepo, Manager: mgr}
}

type guestReservationReq struct {
	BeachID    uint64   `json:"beach_id"`
	Date       string   `json:"date"`
	SetIDs     []uint64 `json:"set_ids"`
	GuestName  string   `json:"guest_name"`
	GuestPhone string   `json:"guest_phone"`
	GuestEmail string   `json:"guest_email"`
}

// Create handles POST /v1/guest/reservations. Sets may come from a
// selection session (header) or the body; contact name and phone are always
// required so staff can reach the guest.
func (h *GuestHandler) Create(c echo.Context) error {
	var req guestReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.GuestName = strings.TrimSpace(req.GuestName)
	req.GuestPhone = strings.TrimSpace(req.GuestPhone)
	req.GuestEmail = strings.TrimSpace(req.GuestEmail)
	if req.GuestName == "" || req.GuestPhone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest_name and guest_phone are required"})
	}

	beachID := req.BeachID
	dateStr := strings.TrimSpace(req.Date)
	setIDs := dedupe(req.SetIDs)
	sessionToken := c.Request().Header.Get(sessionHeader)
	if sessionToken != "" {
		view, ok := h.Manager.Snapshot(sessionToken)
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown or expired selection session"})
		}
		if len(view.Sets) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "selection is empty"})
		}
		beachID = view.BeachID
		dateStr = view.Date.Format("2006-01-02")
		setIDs = view.SetIDs()
	}
	if beachID == 0 || len(setIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "beach_id and set_ids are required"})
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	if pastDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is in the past"})
	}

	ctx := c.Request().Context()
	beach, err := h.BeachRepo.GetByID(ctx, beachID)
	if err != nil {
		if err == repository.ErrBeachNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beach not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	res := &model.Reservation{
		BeachID:         beachID,
		ReservationDate: date,
		GuestName:       &req.GuestName,
		GuestPhone:      &req.GuestPhone,
		Status:          model.ReservationConfirmed,
	}
	if req.GuestEmail != "" {
		res.GuestEmail = &req.GuestEmail
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
	publishConfirmed(res, beach.Name, booked)

	return c.JSON(http.StatusCreated, echo.Map{
		"reservation": res,
		"sets":        booked,
		"lookup_code": res.LookupCode,
	})
}

// Lookup handles GET /v1/guest/reservations/:code.
func (h *GuestHandler) Lookup(c echo.Context) error {
	res, ok := h.byCode(c)
	if !ok {
		return nil
	}
	booked, err := h.Reservations.SetsOf(c.Request().Context(), res.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res, "sets": booked})
}

// Cancel handles POST /v1/guest/reservations/:code/cancel. Checked-in
// reservations cannot be self-cancelled.
func (h *GuestHandler) Cancel(c echo.Context) error {
	res, ok := h.byCode(c)
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

func (h *GuestHandler) byCode(c echo.Context) (*model.Reservation, bool) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "lookup code is required"})
		return nil, false
	}
	res, err := h.Reservations.GetByLookupCode(c.Request().Context(), code)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return nil, false
	}
	return res, true
}

// publishConfirmed fires the reservation.confirmed event in the background.
// Delivery is best effort; the reservation row is already committed.
func publishConfirmed(res *model.Reservation, beachName string, booked []repository.BookedSet) {
	names := make([]string, len(booked))
	for i, b := range booked {
		names[i] = b.Name
	}
	ev := queue.ReservationConfirmedEvent{
		ReservationID:    res.ID,
		BeachID:          res.BeachID,
		BeachName:        beachName,
		ReservationDate:  res.ReservationDate.Format("2006-01-02"),
		LookupCode:       res.LookupCode,
		SetNames:         names,
		TotalAmountCents: res.PaymentAmountCents,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if res.IsGuest() {
		if res.GuestName != nil {
			ev.GuestName = *res.GuestName
		}
	} else {
		ev.ClientID = *res.ClientID
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = service.PublishReservationConfirmed(ctx, ev)
	}()
}
