package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demce01/plazhi-sub000/internal/model"
)

func testDate() time.Time {
	return time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
}

func TestListWithStatusDerivesPerDateStatuses(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "zone_id", "name", "row_number", "position", "price_cents", "status"}).
		AddRow(1, 10, "a-1-1", 1, 1, 1500, "reserved").
		AddRow(2, 10, "a-1-2", 1, 2, 1500, "available").
		AddRow(3, nil, "vip-gazebo", nil, nil, 5000, "available")

	mock.ExpectQuery("SELECT s.id, s.zone_id, s.name").
		WithArgs("2026-07-14", uint64(7)).
		WillReturnRows(rows)

	repo := NewSetRepo(db)
	sets, err := repo.ListWithStatus(context.Background(), 7, testDate())
	require.NoError(t, err)
	require.Len(t, sets, 3)

	assert.Equal(t, model.StatusReserved, sets[0].Status)
	assert.Equal(t, model.StatusAvailable, sets[1].Status)

	// unplaced set keeps nil placement but is still present
	assert.Nil(t, sets[2].ZoneID)
	assert.Nil(t, sets[2].RowNumber)
	assert.Nil(t, sets[2].Position)
	assert.Equal(t, uint32(5000), sets[2].PriceCents)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWithStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT s.id, s.beach_id").
		WithArgs("2026-07-14", uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewSetRepo(db)
	_, _, err = repo.GetWithStatus(context.Background(), 99, testDate())
	assert.ErrorIs(t, err, ErrSetNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWithStatusReturnsBeach(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "beach_id", "zone_id", "name", "row_number", "position", "price_cents", "status"}).
		AddRow(4, 7, 10, "a-2-1", 2, 1, 1500, "available")
	mock.ExpectQuery("SELECT s.id, s.beach_id").
		WithArgs("2026-07-14", uint64(4)).
		WillReturnRows(rows)

	repo := NewSetRepo(db)
	s, beachID, err := repo.GetWithStatus(context.Background(), 4, testDate())
	require.NoError(t, err)
	assert.Equal(t, uint64(7), beachID)
	assert.Equal(t, model.StatusAvailable, s.Status)
	require.NotNil(t, s.RowNumber)
	assert.Equal(t, uint32(2), *s.RowNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePriceLeavesReservationSnapshotsAlone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// repricing a set is a single UPDATE on sets; reservations and
	// reservation_sets keep their booking-time price snapshots
	mock.ExpectExec("UPDATE sets").
		WithArgs("a-1-1", nil, nil, uint32(9900), uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSetRepo(db)
	err = repo.Update(context.Background(), &model.Set{ID: 4, Name: "a-1-1", PriceCents: 9900})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRefusedWhileActivelyReserved(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	repo := NewSetRepo(db)
	err = repo.Delete(context.Background(), 4)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRemovesUnreservedSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("DELETE FROM sets").
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSetRepo(db)
	assert.NoError(t, repo.Delete(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}
