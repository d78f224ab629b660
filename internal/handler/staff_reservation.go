package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/demce01/plazhi-sub000/internal/model"
	"github.com/demce01/plazhi-sub000/internal/repository"
)

// StaffHandler serves the employee/admin desk flow: on-site walk-in
// bookings, the per-day overview of a beach and the reservation status
// transitions (confirm, check-in, cancel, mark paid). JWTAuth plus
// RequireRole(employee, admin) guard every route.
type StaffHandler struct {
	Reservations *repository.ReservationRepo
	BeachRepo    *repository.BeachRepo
	Clients      *repository.ClientRepo
}

func NewStaffHandler(reservations *repository.ReservationRepo, beachRepo *repository.BeachRepo, clients *repository.ClientRepo) *StaffHandler {
	if reservations == nil || beachRepo == nil || clients == nil {
		panic("nil repository passed to NewStaffHandler")
	}
	return &StaffHandler{Reservations: reservations, BeachRepo: beachRepo, Clients: clients}
}

type staffReservationReq struct {
	BeachID    uint64   `json:"beach_id"`
	Date       string   `json:"date"`
	SetIDs     []uint64 `json:"set_ids"`
	ClientID   uint64   `json:"client_id"`
	GuestName  string   `json:"guest_name"`
	GuestPhone string   `json:"guest_phone"`
	MarkPaid   bool     `json:"mark_paid"`
}

// Create handles POST /v1/staff/reservations: an on-site booking entered at
// the desk. It is confirmed immediately. The booking is attached to an
// existing client when client_id is given, otherwise recorded under the
// walk-in's name and phone like a guest booking.
func (h *StaffHandler) Create(c echo.Context) error {
	var req staffReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.GuestName = strings.TrimSpace(req.GuestName)
	req.GuestPhone = strings.TrimSpace(req.GuestPhone)
	setIDs := dedupe(req.SetIDs)
	if req.BeachID == 0 || len(setIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "beach_id and set_ids are required"})
	}
	if req.ClientID == 0 && (req.GuestName == "" || req.GuestPhone == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "client_id or guest_name and guest_phone are required"})
	}
	date, err := parseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	if pastDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is in the past"})
	}

	ctx := c.Request().Context()
	beach, err := h.BeachRepo.GetByID(ctx, req.BeachID)
	if err != nil {
		if err == repository.ErrBeachNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beach not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	res := &model.Reservation{
		BeachID:         req.BeachID,
		ReservationDate: date,
		Status:          model.ReservationConfirmed,
	}
	if req.MarkPaid {
		res.PaymentStatus = model.PaymentPaid
	}
	if req.ClientID != 0 {
		client, err := h.Clients.GetByID(ctx, req.ClientID)
		if err != nil {
			if err == repository.ErrClientNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		res.ClientID = &client.ID
	} else {
		res.GuestName = &req.GuestName
		res.GuestPhone = &req.GuestPhone
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

	booked, err := h.Reservations.SetsOf(ctx, res.ID)
	if err != nil {
		booked = nil
	}
	publishConfirmed(res, beach.Name, booked)

	return c.JSON(http.StatusCreated, echo.Map{
		"reservation": res,
		"sets":        booked,
	})
}

// ListByBeachDate handles GET /v1/staff/beaches/:id/reservations?date=...
// and returns the full day including cancelled rows, each with its sets.
func (h *StaffHandler) ListByBeachDate(c echo.Context) error {
	beachID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid beach id"})
	}
	date, err := parseDate(strings.TrimSpace(c.QueryParam("date")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	ctx := c.Request().Context()
	if _, err := h.BeachRepo.GetByID(ctx, beachID); err != nil {
		if err == repository.ErrBeachNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "beach not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	list, err := h.Reservations.ListByBeachDate(ctx, beachID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	type entry struct {
		Reservation model.Reservation      `json:"reservation"`
		Sets        []repository.BookedSet `json:"sets"`
	}
	out := make([]entry, 0, len(list))
	for _, res := range list {
		booked, err := h.Reservations.SetsOf(ctx, res.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		out = append(out, entry{Reservation: res, Sets: booked})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Confirm handles POST /v1/staff/reservations/:id/confirm and moves a
// pending reservation to confirmed, publishing the confirmation event.
func (h *StaffHandler) Confirm(c echo.Context) error {
	res, ok := h.load(c)
	if !ok {
		return nil
	}
	ctx := c.Request().Context()
	if err := h.Reservations.Confirm(ctx, res.ID); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "only pending reservations can be confirmed"})
		}
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm failed"})
	}
	res.Status = model.ReservationConfirmed

	if beach, err := h.BeachRepo.GetByID(ctx, res.BeachID); err == nil {
		booked, _ := h.Reservations.SetsOf(ctx, res.ID)
		publishConfirmed(res, beach.Name, booked)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

// Cancel handles POST /v1/staff/reservations/:id/cancel. Staff can cancel
// even a checked-in reservation.
func (h *StaffHandler) Cancel(c echo.Context) error {
	res, ok := h.load(c)
	if !ok {
		return nil
	}
	if err := h.Reservations.Cancel(c.Request().Context(), res.ID, false); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is already cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckIn handles POST /v1/staff/reservations/:id/checkin.
func (h *StaffHandler) CheckIn(c echo.Context) error {
	res, ok := h.load(c)
	if !ok {
		return nil
	}
	ctx := c.Request().Context()
	if err := h.Reservations.CheckIn(ctx, res.ID); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation cannot be checked in"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-in failed"})
	}
	// Account holders earn one loyalty point per whole currency unit spent.
	if res.ClientID != nil {
		points := res.PaymentAmountCents / 100
		if points > 0 {
			_ = h.Clients.AddLoyaltyPoints(ctx, *res.ClientID, points)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkPaid handles POST /v1/staff/reservations/:id/pay.
func (h *StaffHandler) MarkPaid(c echo.Context) error {
	res, ok := h.load(c)
	if !ok {
		return nil
	}
	if err := h.Reservations.MarkPaid(c.Request().Context(), res.ID); err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *StaffHandler) load(c echo.Context) (*model.Reservation, bool) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
		return nil, false
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
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
