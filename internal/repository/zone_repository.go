package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/demce01/plazhi-sub000/internal/model"
)

// ZoneRepo provides access to zones and the bulk set generation that
// accompanies zone creation.
type ZoneRepo struct {
	db *sql.DB
}

func NewZoneRepo(db *sql.DB) *ZoneRepo { return &ZoneRepo{db: db} }

// NameCollisionError reports set names that already exist at the beach and
// would collide with the grid a zone is about to generate.
type NameCollisionError struct {
	Names []string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("set names already in use: %s", strings.Join(e.Names, ", "))
}

// CreateWithSets inserts a zone and materializes its full grid of sets in
// one transaction. Before inserting, it verifies that none of the generated
// names collide with sets already present at the beach; on collision the
// whole generation is rejected and nothing is written. A duplicate zone
// name for the beach maps to ErrConflict.
func (r *ZoneRepo) CreateWithSets(ctx context.Context, z *model.Zone) ([]model.Set, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const qInsert = `INSERT INTO zones (beach_id, name, total_rows, spots_per_row, price_cents)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert, z.BeachID, z.Name, z.TotalRows, z.SpotsPerRow, z.PriceCents)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return nil, ErrConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	z.ID = uint64(id)

	sets := z.GenerateSets()

	// probe for name collisions with pre-existing sets at this beach
	names := make([]interface{}, 0, len(sets)+1)
	placeholders := make([]string, 0, len(sets))
	names = append(names, z.BeachID)
	for _, s := range sets {
		names = append(names, s.Name)
		placeholders = append(placeholders, "?")
	}
	probe := `SELECT name FROM sets WHERE beach_id = ? AND name IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := tx.QueryContext(ctx, probe, names...)
	if err != nil {
		return nil, err
	}
	var taken []string
	for rows.Next() {
		var n string
		if scanErr := rows.Scan(&n); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		taken = append(taken, n)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, &NameCollisionError{Names: taken}
	}

	query := `INSERT INTO sets (beach_id, zone_id, name, row_number, position, price_cents) VALUES `
	args := make([]interface{}, 0, len(sets)*6)
	for i, s := range sets {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, s.BeachID, s.ZoneID, s.Name, s.RowNumber, s.Position, s.PriceCents)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}

	const qSelect = `SELECT created_at FROM zones WHERE id = ?`
	if err := tx.QueryRowContext(ctx, qSelect, z.ID).Scan(&z.CreatedAt); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return sets, nil
}

// GetByID retrieves a zone by its ID.
func (r *ZoneRepo) GetByID(ctx context.Context, id uint64) (*model.Zone, error) {
	const q = `SELECT id, beach_id, name, total_rows, spots_per_row, price_cents, created_at
	           FROM zones WHERE id = ?`
	var z model.Zone
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&z.ID, &z.BeachID, &z.Name, &z.TotalRows, &z.SpotsPerRow, &z.PriceCents, &z.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	return &z, nil
}

// ListByBeach returns all zones of a beach ordered by name.
func (r *ZoneRepo) ListByBeach(ctx context.Context, beachID uint64) ([]model.Zone, error) {
	const q = `SELECT id, beach_id, name, total_rows, spots_per_row, price_cents, created_at
	           FROM zones WHERE beach_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, beachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Zone
	for rows.Next() {
		var z model.Zone
		if err := rows.Scan(&z.ID, &z.BeachID, &z.Name, &z.TotalRows, &z.SpotsPerRow, &z.PriceCents, &z.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a zone and its generated sets (cascaded). It refuses with
// ErrConflict while any of the zone's sets is referenced by a non-cancelled
// reservation, so history is never silently destroyed.
func (r *ZoneRepo) Delete(ctx context.Context, id uint64) error {
	const probe = `SELECT COUNT(*)
	               FROM reservation_sets rs
	               JOIN reservations res ON res.id = rs.reservation_id
	               JOIN sets s ON s.id = rs.set_id
	               WHERE s.zone_id = ? AND res.status <> 'cancelled'`
	var active int
	if err := r.db.QueryRowContext(ctx, probe, id).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM zones WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrZoneNotFound
	}
	return nil
}
