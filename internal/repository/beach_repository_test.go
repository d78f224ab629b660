package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demce01/plazhi-sub000/internal/model"
)

func TestGetByIDScansNullLocation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, name, location").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location", "description", "created_at", "updated_at"}).
			AddRow(7, "Golem", nil, nil, now, now))

	repo := NewBeachRepo(db)
	b, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Golem", b.Name)
	assert.Nil(t, b.Location)
	assert.Nil(t, b.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRoundTripsOptionalFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	loc := "Golem, Durres"
	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO beaches").
		WithArgs("Golem", loc, nil).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT id, name, location").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location", "description", "created_at", "updated_at"}).
			AddRow(7, "Golem", loc, nil, now, now))

	repo := NewBeachRepo(db)
	b := &model.Beach{Name: "Golem", Location: &loc}
	require.NoError(t, repo.Create(context.Background(), b))
	assert.Equal(t, uint64(7), b.ID)
	require.NotNil(t, b.Location)
	assert.Equal(t, "Golem, Durres", *b.Location)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateNameIsAConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO beaches").
		WithArgs("Golem", nil, nil).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'Golem' for key 'uq_beaches_name'"))

	repo := NewBeachRepo(db)
	err = repo.Create(context.Background(), &model.Beach{Name: "Golem"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
