package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/demce01/plazhi-sub000/internal/model"
)

// BeachRepo provides methods to create, retrieve, update and delete
// beaches. Zones, sets and reservations cascade at the database level when
// a beach is removed.
type BeachRepo struct {
	db *sql.DB
}

// NewBeachRepo constructs a BeachRepo with the given DB handle.
func NewBeachRepo(db *sql.DB) *BeachRepo { return &BeachRepo{db: db} }

// Create inserts a new beach and reads the row back so timestamps are
// populated on the provided model.
func (r *BeachRepo) Create(ctx context.Context, b *model.Beach) error {
	const qInsert = `INSERT INTO beaches (name, location, description) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, b.Name, b.Location, b.Description)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	const qSelect = `SELECT id, name, location, description, created_at, updated_at FROM beaches WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, b.ID).
		Scan(&b.ID, &b.Name, &b.Location, &b.Description, &b.CreatedAt, &b.UpdatedAt)
}

// GetByID retrieves a beach by its ID. Returns ErrBeachNotFound when no
// row exists.
func (r *BeachRepo) GetByID(ctx context.Context, id uint64) (*model.Beach, error) {
	const q = `SELECT id, name, location, description, created_at, updated_at FROM beaches WHERE id = ?`
	var b model.Beach
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&b.ID, &b.Name, &b.Location, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBeachNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListAll returns every beach ordered by name.
func (r *BeachRepo) ListAll(ctx context.Context) ([]model.Beach, error) {
	const q = `SELECT id, name, location, description, created_at, updated_at FROM beaches ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Beach
	for rows.Next() {
		var b model.Beach
		if err := rows.Scan(&b.ID, &b.Name, &b.Location, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes name, location and description. Returns ErrBeachNotFound
// when the beach does not exist.
func (r *BeachRepo) Update(ctx context.Context, b *model.Beach) error {
	const q = `UPDATE beaches SET name = ?, location = ?, description = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, b.Name, b.Location, b.Description, b.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, b.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a beach. Zones, sets and reservations cascade via foreign
// keys. Returns ErrBeachNotFound when no row was deleted.
func (r *BeachRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM beaches WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBeachNotFound
	}
	return nil
}
