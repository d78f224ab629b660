package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demce01/plazhi-sub000/internal/repository"
)

func newStaffHandler(t *testing.T) (*StaffHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStaffHandler(
		repository.NewReservationRepo(db),
		repository.NewBeachRepo(db),
		repository.NewClientRepo(db),
	), mock
}

func postJSON(h func(echo.Context) error, target, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec
}

func TestStaffCreateRequiresWalkInPhone(t *testing.T) {
	h, mock := newStaffHandler(t)

	rec := postJSON(h.Create, "/v1/staff/reservations",
		`{"beach_id":1,"date":"2099-07-14","set_ids":[1],"guest_name":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffCreateAcceptsFullWalkInContact(t *testing.T) {
	h, mock := newStaffHandler(t)

	// name plus phone clears validation; the request then proceeds to the
	// beach lookup
	mock.ExpectQuery("SELECT id, name, location").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec := postJSON(h.Create, "/v1/staff/reservations",
		`{"beach_id":1,"date":"2099-07-14","set_ids":[1],"guest_name":"Ana","guest_phone":"+355671234567"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
