package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demce01/plazhi-sub000/internal/model"
)

func clientReservation(clientID uint64) *model.Reservation {
	return &model.Reservation{
		BeachID:         7,
		ReservationDate: testDate(),
		ClientID:        &clientID,
		Status:          model.ReservationPending,
	}
}

func TestCreateWithSetsCommitsEverythingTogether(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, price_cents FROM sets").
		WithArgs(uint64(7), uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price_cents"}).
			AddRow(1, 1500).
			AddRow(2, 2000))
	mock.ExpectQuery("SELECT DISTINCT rs.set_id").
		WithArgs("2026-07-14", uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"set_id"}))
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO reservation_sets").
		WithArgs(uint64(11), uint64(1), "2026-07-14", uint32(1500),
			uint64(11), uint64(2), "2026-07-14", uint32(2000)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT created_at, updated_at FROM reservations").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	repo := NewReservationRepo(db)
	res := clientReservation(3)
	err = repo.CreateWithSets(context.Background(), res, []uint64{1, 2})
	require.NoError(t, err)

	assert.Equal(t, uint64(11), res.ID)
	// total is the sum of the prices read under the lock
	assert.Equal(t, uint32(3500), res.PaymentAmountCents)
	_, err = uuid.Parse(res.LookupCode)
	assert.NoError(t, err, "lookup code must be a uuid")
	assert.Equal(t, model.PaymentUnpaid, res.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithSetsLosesWhenSetsAlreadyTaken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, price_cents FROM sets").
		WithArgs(uint64(7), uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price_cents"}).
			AddRow(1, 1500).
			AddRow(2, 2000))
	mock.ExpectQuery("SELECT DISTINCT rs.set_id").
		WithArgs("2026-07-14", uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"set_id"}).AddRow(2))
	mock.ExpectRollback()

	repo := NewReservationRepo(db)
	res := clientReservation(3)
	err = repo.CreateWithSets(context.Background(), res, []uint64{1, 2})

	var unavailable *SetsUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []uint64{2}, unavailable.SetIDs)
	// nothing was written
	assert.Zero(t, res.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithSetsRejectsUnknownSets(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	// only one of the two requested ids belongs to the beach
	mock.ExpectQuery("SELECT id, price_cents FROM sets").
		WithArgs(uint64(7), uint64(1), uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price_cents"}).AddRow(1, 1500))
	mock.ExpectRollback()

	repo := NewReservationRepo(db)
	err = repo.CreateWithSets(context.Background(), clientReservation(3), []uint64{1, 99})
	assert.ErrorIs(t, err, ErrSetNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithSetsRequiresAtLeastOneSet(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	err = repo.CreateWithSets(context.Background(), clientReservation(3), nil)
	assert.Error(t, err)
}

func TestConfirmMovesPendingToConfirmed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs(model.ReservationConfirmed, uint64(11), model.ReservationPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewReservationRepo(db)
	assert.NoError(t, repo.Confirm(context.Background(), 11))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func reservationRow(id uint64, status string, checkedIn bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "beach_id", "reservation_date", "client_id", "guest_name", "guest_phone", "guest_email",
		"lookup_code", "payment_amount_cents", "status", "payment_status", "checked_in", "created_at", "updated_at",
	}).AddRow(id, 7, testDate(), 3, nil, nil, nil, uuid.NewString(), 3500, status, "unpaid", checkedIn, now, now)
}

func TestConfirmRefusesNonPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs(model.ReservationConfirmed, uint64(11), model.ReservationPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, beach_id, reservation_date").
		WithArgs(uint64(11)).
		WillReturnRows(reservationRow(11, model.ReservationCancelled, false))

	repo := NewReservationRepo(db)
	err = repo.Confirm(context.Background(), 11)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRefusesCheckedInForSelfService(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs(model.ReservationCancelled, uint64(11), model.ReservationCancelled).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, beach_id, reservation_date").
		WithArgs(uint64(11)).
		WillReturnRows(reservationRow(11, model.ReservationConfirmed, true))

	repo := NewReservationRepo(db)
	err = repo.Cancel(context.Background(), 11, true)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelAlreadyCancelledIsAConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs(model.ReservationCancelled, uint64(11), model.ReservationCancelled).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, beach_id, reservation_date").
		WithArgs(uint64(11)).
		WillReturnRows(reservationRow(11, model.ReservationCancelled, false))

	repo := NewReservationRepo(db)
	err = repo.Cancel(context.Background(), 11, true)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelSucceedsForStaffEvenWhenCheckedIn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs(model.ReservationCancelled, uint64(11), model.ReservationCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewReservationRepo(db)
	assert.NoError(t, repo.Cancel(context.Background(), 11, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelFreesSetsForTheDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs(model.ReservationCancelled, uint64(11), model.ReservationCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// the availability resolver ignores reservation_sets rows whose parent
	// reservation is cancelled, so the freed sets come back as available
	mock.ExpectQuery(`(?s)SELECT s\.id, s\.zone_id.*res\.status <> 'cancelled'`).
		WithArgs(testDate().Format("2006-01-02"), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "zone_id", "name", "row_number", "position", "price_cents", "status"}).
			AddRow(1, 10, "a-1-1", 1, 1, 1500, "available").
			AddRow(2, 10, "a-1-2", 1, 2, 2000, "available"))

	reservations := NewReservationRepo(db)
	require.NoError(t, reservations.Cancel(context.Background(), 11, false))

	sets, err := NewSetRepo(db).ListWithStatus(context.Background(), 7, testDate())
	require.NoError(t, err)
	require.Len(t, sets, 2)
	for _, s := range sets {
		assert.Equal(t, model.StatusAvailable, s.Status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInOnlyOnceAndNeverCancelled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE reservations SET checked_in").
		WithArgs(uint64(11), model.ReservationCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewReservationRepo(db)
	require.NoError(t, repo.CheckIn(context.Background(), 11))

	// second attempt hits no rows and resolves to a conflict
	mock.ExpectExec("UPDATE reservations SET checked_in").
		WithArgs(uint64(11), model.ReservationCancelled).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, beach_id, reservation_date").
		WithArgs(uint64(11)).
		WillReturnRows(reservationRow(11, model.ReservationConfirmed, true))

	err = repo.CheckIn(context.Background(), 11)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByLookupCodeNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, beach_id, reservation_date").
		WithArgs("no-such-code").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewReservationRepo(db)
	_, err = repo.GetByLookupCode(context.Background(), "no-such-code")
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
