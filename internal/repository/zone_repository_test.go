package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demce01/plazhi-sub000/internal/model"
)

func testZone() *model.Zone {
	return &model.Zone{BeachID: 3, Name: "a", TotalRows: 2, SpotsPerRow: 2, PriceCents: 1500}
}

func TestCreateWithSetsRejectsExistingNames(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO zones").
		WithArgs(uint64(3), "a", uint32(2), uint32(2), uint32(1500)).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery("SELECT name FROM sets").
		WithArgs(uint64(3), "a-1-1", "a-1-2", "a-2-1", "a-2-2").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("a-1-1").AddRow("a-2-2"))
	mock.ExpectRollback()

	repo := NewZoneRepo(db)
	_, err = repo.CreateWithSets(context.Background(), testZone())

	var collision *NameCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, []string{"a-1-1", "a-2-2"}, collision.Names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithSetsFailsWhenCollisionCheckBreaks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO zones").
		WithArgs(uint64(3), "a", uint32(2), uint32(2), uint32(1500)).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery("SELECT name FROM sets").
		WithArgs(uint64(3), "a-1-1", "a-1-2", "a-2-1", "a-2-2").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("a-1-1").RowError(0, boom))
	mock.ExpectRollback()

	repo := NewZoneRepo(db)
	_, err = repo.CreateWithSets(context.Background(), testZone())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
