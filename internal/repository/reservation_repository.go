package repository // repository defines data access for reservations

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/demce01/plazhi-sub000/internal/model"
)

// ReservationRepo provides methods to create reservations atomically and to
// drive their status transitions.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo constructs a ReservationRepo with the given DB handle.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// BookedSet is one set line of a reservation as returned by listings:
// the snapshot price plus the set's current name and placement.
type BookedSet struct {
	SetID      uint64  `json:"set_id"`
	Name       string  `json:"name"`
	RowNumber  *uint32 `json:"row_number,omitempty"`
	Position   *uint32 `json:"position,omitempty"`
	PriceCents uint32  `json:"price_cents"`
}

// CreateWithSets books the given sets for one beach and date inside a single
// transaction. The sets rows are locked with FOR UPDATE, then the existing
// non-cancelled reservations for the same date are probed; if any requested
// set is already taken the transaction is rolled back and a
// SetsUnavailableError listing the losers is returned, so concurrent
// requests for the same set serialize on the row locks and exactly one wins.
// The reservation header and all its set lines are written in the same
// transaction; either everything commits or nothing does. The total and the
// per-set snapshots are taken from the prices read under the lock.
//
// The caller fills BeachID, ReservationDate, Status and exactly one of
// ClientID or the guest contact fields; LookupCode and PaymentAmountCents
// are assigned here.
func (r *ReservationRepo) CreateWithSets(ctx context.Context, res *model.Reservation, setIDs []uint64) error {
	if len(setIDs) == 0 {
		return errors.New("reservation requires at least one set")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	date := res.ReservationDate.Format(dateOnly)

	// Lock the requested sets. Rows that do not belong to the beach (or do
	// not exist) simply fail the count check below.
	lockQ := `SELECT id, price_cents FROM sets WHERE beach_id = ? AND id IN (` +
		placeholders(len(setIDs)) + `) FOR UPDATE`
	args := make([]interface{}, 0, len(setIDs)+1)
	args = append(args, res.BeachID)
	for _, id := range setIDs {
		args = append(args, id)
	}
	rows, err := tx.QueryContext(ctx, lockQ, args...)
	if err != nil {
		return err
	}
	prices := make(map[uint64]uint32, len(setIDs))
	for rows.Next() {
		var (
			id    uint64
			price uint32
		)
		if err := rows.Scan(&id, &price); err != nil {
			rows.Close()
			return err
		}
		prices[id] = price
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(prices) != len(setIDs) {
		return ErrSetNotFound
	}

	// Conflict probe under the lock: any non-cancelled reservation already
	// holding one of these sets on this date makes the whole request lose.
	probeQ := `SELECT DISTINCT rs.set_id
	           FROM reservation_sets rs
	           JOIN reservations res ON res.id = rs.reservation_id
	           WHERE rs.reservation_date = ? AND res.status <> 'cancelled'
	             AND rs.set_id IN (` + placeholders(len(setIDs)) + `)`
	probeArgs := make([]interface{}, 0, len(setIDs)+1)
	probeArgs = append(probeArgs, date)
	for _, id := range setIDs {
		probeArgs = append(probeArgs, id)
	}
	taken, err := tx.QueryContext(ctx, probeQ, probeArgs...)
	if err != nil {
		return err
	}
	var lost []uint64
	for taken.Next() {
		var id uint64
		if err := taken.Scan(&id); err != nil {
			taken.Close()
			return err
		}
		lost = append(lost, id)
	}
	taken.Close()
	if err := taken.Err(); err != nil {
		return err
	}
	if len(lost) > 0 {
		return &SetsUnavailableError{SetIDs: lost}
	}

	var total uint32
	for _, id := range setIDs {
		total += prices[id]
	}
	res.LookupCode = uuid.NewString()
	res.PaymentAmountCents = total
	if res.Status == "" {
		res.Status = model.ReservationPending
	}
	if res.PaymentStatus == "" {
		res.PaymentStatus = model.PaymentUnpaid
	}

	insRes, err := tx.ExecContext(ctx,
		`INSERT INTO reservations
		   (beach_id, reservation_date, client_id, guest_name, guest_phone, guest_email,
		    lookup_code, payment_amount_cents, status, payment_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.BeachID, date, res.ClientID, res.GuestName, res.GuestPhone, res.GuestEmail,
		res.LookupCode, res.PaymentAmountCents, res.Status, res.PaymentStatus)
	if err != nil {
		return err
	}
	id, err := insRes.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// Bulk insert of the set lines, one VALUES tuple per set.
	var sb strings.Builder
	sb.WriteString(`INSERT INTO reservation_sets (reservation_id, set_id, reservation_date, price_cents) VALUES `)
	lineArgs := make([]interface{}, 0, len(setIDs)*4)
	for i, sid := range setIDs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?)")
		lineArgs = append(lineArgs, res.ID, sid, date, prices[sid])
	}
	if _, err := tx.ExecContext(ctx, sb.String(), lineArgs...); err != nil {
		return err
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM reservations WHERE id = ?`, res.ID).
		Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// placeholders returns n comma-joined "?" markers for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// GetByID retrieves a reservation by its id.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

// GetByLookupCode retrieves a reservation by the opaque code handed out at
// booking time. This is the only lookup path for guest reservations.
func (r *ReservationRepo) GetByLookupCode(ctx context.Context, code string) (*model.Reservation, error) {
	return r.getOne(ctx, `WHERE lookup_code = ?`, code)
}

func (r *ReservationRepo) getOne(ctx context.Context, where string, arg interface{}) (*model.Reservation, error) {
	q := `SELECT id, beach_id, reservation_date, client_id, guest_name, guest_phone, guest_email,
	             lookup_code, payment_amount_cents, status, payment_status, checked_in, created_at, updated_at
	      FROM reservations ` + where
	var (
		res      model.Reservation
		clientID sql.NullInt64
		gName    sql.NullString
		gPhone   sql.NullString
		gEmail   sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&res.ID, &res.BeachID, &res.ReservationDate, &clientID, &gName, &gPhone, &gEmail,
		&res.LookupCode, &res.PaymentAmountCents, &res.Status, &res.PaymentStatus,
		&res.CheckedIn, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if clientID.Valid {
		v := uint64(clientID.Int64)
		res.ClientID = &v
	}
	if gName.Valid {
		res.GuestName = &gName.String
	}
	if gPhone.Valid {
		res.GuestPhone = &gPhone.String
	}
	if gEmail.Valid {
		res.GuestEmail = &gEmail.String
	}
	return &res, nil
}

// ListByClient returns a client's reservations newest first.
func (r *ReservationRepo) ListByClient(ctx context.Context, clientID uint64) ([]model.Reservation, error) {
	return r.list(ctx, `WHERE client_id = ? ORDER BY reservation_date DESC, id DESC`, clientID)
}

// ListByBeachDate returns all reservations of a beach for one date, used by
// staff for the daily overview. Cancelled ones are included so that staff
// can see the full history of the day.
func (r *ReservationRepo) ListByBeachDate(ctx context.Context, beachID uint64, date time.Time) ([]model.Reservation, error) {
	return r.list(ctx, `WHERE beach_id = ? AND reservation_date = ? ORDER BY id`, beachID, date.Format(dateOnly))
}

func (r *ReservationRepo) list(ctx context.Context, where string, args ...interface{}) ([]model.Reservation, error) {
	q := `SELECT id, beach_id, reservation_date, client_id, guest_name, guest_phone, guest_email,
	             lookup_code, payment_amount_cents, status, payment_status, checked_in, created_at, updated_at
	      FROM reservations ` + where
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		var (
			res      model.Reservation
			clientID sql.NullInt64
			gName    sql.NullString
			gPhone   sql.NullString
			gEmail   sql.NullString
		)
		if err := rows.Scan(
			&res.ID, &res.BeachID, &res.ReservationDate, &clientID, &gName, &gPhone, &gEmail,
			&res.LookupCode, &res.PaymentAmountCents, &res.Status, &res.PaymentStatus,
			&res.CheckedIn, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		if clientID.Valid {
			v := uint64(clientID.Int64)
			res.ClientID = &v
		}
		if gName.Valid {
			res.GuestName = &gName.String
		}
		if gPhone.Valid {
			res.GuestPhone = &gPhone.String
		}
		if gEmail.Valid {
			res.GuestEmail = &gEmail.String
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetsOf returns the booked set lines of a reservation joined with the sets'
// current names and placements.
func (r *ReservationRepo) SetsOf(ctx context.Context, reservationID uint64) ([]BookedSet, error) {
	const q = `SELECT rs.set_id, s.name, s.row_number, s.position, rs.price_cents
	           FROM reservation_sets rs
	           JOIN sets s ON s.id = rs.set_id
	           WHERE rs.reservation_id = ?
	           ORDER BY COALESCE(s.row_number, 0), COALESCE(s.position, 0), s.id`
	rows, err := r.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BookedSet, 0)
	for rows.Next() {
		var (
			b      BookedSet
			rowNum sql.NullInt32
			posNum sql.NullInt32
		)
		if err := rows.Scan(&b.SetID, &b.Name, &rowNum, &posNum, &b.PriceCents); err != nil {
			return nil, err
		}
		if rowNum.Valid {
			v := uint32(rowNum.Int32)
			b.RowNumber = &v
		}
		if posNum.Valid {
			v := uint32(posNum.Int32)
			b.Position = &v
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Confirm moves a reservation from pending to confirmed. Confirming a
// cancelled or already confirmed reservation returns ErrConflict.
func (r *ReservationRepo) Confirm(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`,
		model.ReservationConfirmed, id, model.ReservationPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// Cancel moves a pending or confirmed reservation to cancelled, which frees
// its sets for the date immediately since availability is derived from
// non-cancelled reservations only. When refuseCheckedIn is true a checked-in
// reservation cannot be cancelled (the self-service rule, ErrForbidden);
// staff pass false. Cancelling an already cancelled reservation returns
// ErrConflict.
func (r *ReservationRepo) Cancel(ctx context.Context, id uint64, refuseCheckedIn bool) error {
	q := `UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP
	      WHERE id = ? AND status <> ?`
	args := []interface{}{model.ReservationCancelled, id, model.ReservationCancelled}
	if refuseCheckedIn {
		q += ` AND checked_in = FALSE`
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if refuseCheckedIn && current.CheckedIn && current.Status != model.ReservationCancelled {
			return ErrForbidden
		}
		return ErrConflict
	}
	return nil
}

// CheckIn marks the booker as arrived. Cancelled reservations cannot be
// checked in and repeating a check-in returns ErrConflict.
func (r *ReservationRepo) CheckIn(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET checked_in = TRUE, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status <> ? AND checked_in = FALSE`,
		id, model.ReservationCancelled)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// MarkPaid flips the informational payment marker to paid.
func (r *ReservationRepo) MarkPaid(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET payment_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.PaymentPaid, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	return nil
}
