package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demce01/plazhi-sub000/internal/repository"
)

func newPublicHandler(t *testing.T) (*PublicHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPublicHandler(
		repository.NewBeachRepo(db),
		repository.NewZoneRepo(db),
		repository.NewSetRepo(db),
	), mock
}

func beachRow(id uint64, name string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "name", "location", "description", "created_at", "updated_at"}).
		AddRow(id, name, nil, nil, now, now)
}

func availabilityRequest(h func(echo.Context) error, target string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/beaches/:id/availability")
	c.SetParamNames("id")
	c.SetParamValues("7")
	_ = h(c)
	return rec
}

func TestAvailabilityReturnsEverySetWithStatus(t *testing.T) {
	h, mock := newPublicHandler(t)

	mock.ExpectQuery("SELECT id, name, location").
		WithArgs(uint64(7)).
		WillReturnRows(beachRow(7, "Golem"))
	mock.ExpectQuery("SELECT s.id, s.zone_id").
		WithArgs("2099-07-14", uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "zone_id", "name", "row_number", "position", "price_cents", "status"}).
			AddRow(1, 10, "a-1-1", 1, 1, 1500, "reserved").
			AddRow(2, 10, "a-1-2", 1, 2, 1500, "available"))

	rec := availabilityRequest(h.Availability, "/v1/beaches/7/availability?date=2099-07-14")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Date string `json:"date"`
		Sets []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"sets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2099-07-14", body.Date)
	require.Len(t, body.Sets, 2)
	assert.Equal(t, "reserved", body.Sets[0].Status)
	assert.Equal(t, "available", body.Sets[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityGridGroupsRows(t *testing.T) {
	h, mock := newPublicHandler(t)

	mock.ExpectQuery("SELECT id, name, location").
		WithArgs(uint64(7)).
		WillReturnRows(beachRow(7, "Golem"))
	mock.ExpectQuery("SELECT s.id, s.zone_id").
		WithArgs("2099-07-14", uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "zone_id", "name", "row_number", "position", "price_cents", "status"}).
			AddRow(1, 10, "a-1-1", 1, 1, 1500, "available").
			AddRow(2, 10, "a-2-1", 2, 1, 1500, "available").
			AddRow(3, nil, "vip-gazebo", nil, nil, 5000, "available"))

	rec := availabilityRequest(h.AvailabilityGrid, "/v1/beaches/7/availability/grid?date=2099-07-14")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Rows []struct {
			RowNumber uint32 `json:"row_number"`
			Sets      []struct {
				Name string `json:"name"`
			} `json:"sets"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rows, 3)
	// the unplaced set surfaces under the sentinel row
	assert.Equal(t, uint32(0), body.Rows[0].RowNumber)
	assert.Equal(t, "vip-gazebo", body.Rows[0].Sets[0].Name)
	assert.Equal(t, uint32(1), body.Rows[1].RowNumber)
	assert.Equal(t, uint32(2), body.Rows[2].RowNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRejectsBadDate(t *testing.T) {
	h, _ := newPublicHandler(t)

	rec := availabilityRequest(h.Availability, "/v1/beaches/7/availability?date=14-07-2099")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailabilityRejectsPastDate(t *testing.T) {
	h, _ := newPublicHandler(t)

	rec := availabilityRequest(h.Availability, "/v1/beaches/7/availability?date=2001-01-01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailabilityUnknownBeach(t *testing.T) {
	h, mock := newPublicHandler(t)

	mock.ExpectQuery("SELECT id, name, location").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec := availabilityRequest(h.Availability, "/v1/beaches/7/availability?date=2099-07-14")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
