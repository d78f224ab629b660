package handler // handler defines http handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// JWT numeric claims arrive as float64; other types are handled for safety.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseIDParam parses a positive numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// parseDate parses a YYYY-MM-DD value. Dates arrive from query strings and
// request bodies and are the only time dimension of a reservation.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// pastDate reports whether d is strictly before today in UTC. Bookings for
// past dates are rejected; today's date is still bookable.
func pastDate(d time.Time) bool {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return d.Before(today)
}
