package repository // repository defines data access for sets

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/demce01/plazhi-sub000/internal/model"
)

// SetRepo provides methods to work with sets, including the availability
// resolver that derives a per-date status for every set of a beach.
type SetRepo struct {
	db *sql.DB
}

// NewSetRepo constructs a SetRepo with the given DB handle.
func NewSetRepo(db *sql.DB) *SetRepo { return &SetRepo{db: db} }

// dateOnly is the MySQL DATE layout used for reservation dates.
const dateOnly = "2006-01-02"

// ListWithStatus is the availability resolver: it returns every set of the
// beach annotated with its derived status for the given date. A set is
// reserved when it participates in a reservation_sets row whose parent
// reservation has that exact date and is not cancelled; otherwise it is
// available. The stored sets.status column is deliberately ignored here.
// The result is a complete, duplicate-free enumeration of the beach's
// sets, ordered by row then position; unplaced sets sort first.
func (r *SetRepo) ListWithStatus(ctx context.Context, beachID uint64, date time.Time) ([]model.SetWithStatus, error) {
	const q = `SELECT s.id, s.zone_id, s.name, s.row_number, s.position, s.price_cents,
	                  CASE WHEN a.set_id IS NULL THEN 'available' ELSE 'reserved' END AS status
	           FROM sets s
	           LEFT JOIN (
	               SELECT DISTINCT rs.set_id
	               FROM reservation_sets rs
	               JOIN reservations res ON res.id = rs.reservation_id
	               WHERE rs.reservation_date = ? AND res.status <> 'cancelled'
	           ) a ON a.set_id = s.id
	           WHERE s.beach_id = ?
	           ORDER BY COALESCE(s.row_number, 0), COALESCE(s.position, 0), s.id`
	rows, err := r.db.QueryContext(ctx, q, date.Format(dateOnly), beachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SetWithStatus, 0)
	for rows.Next() {
		var (
			s       model.SetWithStatus
			zoneID  sql.NullInt64
			rowNum  sql.NullInt32
			posNum  sql.NullInt32
		)
		if err := rows.Scan(&s.ID, &zoneID, &s.Name, &rowNum, &posNum, &s.PriceCents, &s.Status); err != nil {
			return nil, err
		}
		if zoneID.Valid {
			v := uint64(zoneID.Int64)
			s.ZoneID = &v
		}
		if rowNum.Valid {
			v := uint32(rowNum.Int32)
			s.RowNumber = &v
		}
		if posNum.Valid {
			v := uint32(posNum.Int32)
			s.Position = &v
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWithStatus resolves a single set's derived status for a date. Used by
// the selection endpoints so that toggling a reserved set is rejected
// before any write is attempted.
func (r *SetRepo) GetWithStatus(ctx context.Context, setID uint64, date time.Time) (*model.SetWithStatus, uint64, error) {
	const q = `SELECT s.id, s.beach_id, s.zone_id, s.name, s.row_number, s.position, s.price_cents,
	                  CASE WHEN EXISTS (
	                      SELECT 1 FROM reservation_sets rs
	                      JOIN reservations res ON res.id = rs.reservation_id
	                      WHERE rs.set_id = s.id AND rs.reservation_date = ? AND res.status <> 'cancelled'
	                  ) THEN 'reserved' ELSE 'available' END AS status
	           FROM sets s WHERE s.id = ?`
	var (
		s       model.SetWithStatus
		beachID uint64
		zoneID  sql.NullInt64
		rowNum  sql.NullInt32
		posNum  sql.NullInt32
	)
	err := r.db.QueryRowContext(ctx, q, date.Format(dateOnly), setID).
		Scan(&s.ID, &beachID, &zoneID, &s.Name, &rowNum, &posNum, &s.PriceCents, &s.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrSetNotFound
		}
		return nil, 0, err
	}
	if zoneID.Valid {
		v := uint64(zoneID.Int64)
		s.ZoneID = &v
	}
	if rowNum.Valid {
		v := uint32(rowNum.Int32)
		s.RowNumber = &v
	}
	if posNum.Valid {
		v := uint32(posNum.Int32)
		s.Position = &v
	}
	return &s, beachID, nil
}

// Create inserts a single, possibly unplaced, set. On success the set's ID
// is populated. Duplicate names or placements map to ErrConflict.
func (r *SetRepo) Create(ctx context.Context, s *model.Set) error {
	const q = `INSERT INTO sets (beach_id, zone_id, name, row_number, position, price_cents)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.BeachID, s.ZoneID, s.Name, s.RowNumber, s.Position, s.PriceCents)
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
	s.ID = uint64(id)
	return nil
}

// GetByID retrieves a set by its id.
func (r *SetRepo) GetByID(ctx context.Context, id uint64) (*model.Set, error) {
	const q = `SELECT id, beach_id, zone_id, name, row_number, position, price_cents, status, created_at, updated_at
	           FROM sets WHERE id = ?`
	var (
		s      model.Set
		zoneID sql.NullInt64
		rowNum sql.NullInt32
		posNum sql.NullInt32
	)
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.BeachID, &zoneID, &s.Name, &rowNum, &posNum, &s.PriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}
	if zoneID.Valid {
		v := uint64(zoneID.Int64)
		s.ZoneID = &v
	}
	if rowNum.Valid {
		v := uint32(rowNum.Int32)
		s.RowNumber = &v
	}
	if posNum.Valid {
		v := uint32(posNum.Int32)
		s.Position = &v
	}
	return &s, nil
}

// Update changes name, placement and price of a set. Historical
// reservations are unaffected because they carry price snapshots.
func (r *SetRepo) Update(ctx context.Context, s *model.Set) error {
	const q = `UPDATE sets
	           SET name = ?, row_number = ?, position = ?, price_cents = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.Name, s.RowNumber, s.Position, s.PriceCents, s.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, s.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a set. It refuses with ErrConflict while the set is
// referenced by any non-cancelled reservation.
func (r *SetRepo) Delete(ctx context.Context, id uint64) error {
	const probe = `SELECT COUNT(*)
	               FROM reservation_sets rs
	               JOIN reservations res ON res.id = rs.reservation_id
	               WHERE rs.set_id = ? AND res.status <> 'cancelled'`
	var active int
	if err := r.db.QueryRowContext(ctx, probe, id).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM sets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSetNotFound
	}
	return nil
}
