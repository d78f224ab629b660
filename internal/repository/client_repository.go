package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/demce01/plazhi-sub000/internal/model"
)

// ClientRepo provides access to client profiles (contact details bound to a
// user account).
type ClientRepo struct {
	db *sql.DB
}

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{db: db} }

// Upsert creates or updates the client profile for a user. On success the
// profile's ID is populated.
func (r *ClientRepo) Upsert(ctx context.Context, c *model.Client) error {
	const q = `INSERT INTO clients (user_id, full_name, phone)
	           VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE full_name = VALUES(full_name), phone = VALUES(phone)`
	if _, err := r.db.ExecContext(ctx, q, c.UserID, c.FullName, c.Phone); err != nil {
		return err
	}
	got, err := r.GetByUserID(ctx, c.UserID)
	if err != nil {
		return err
	}
	*c = *got
	return nil
}

// GetByUserID returns the client profile owned by a user account.
func (r *ClientRepo) GetByUserID(ctx context.Context, userID uint64) (*model.Client, error) {
	const q = `SELECT id, user_id, full_name, phone, loyalty_points, created_at, updated_at
	           FROM clients WHERE user_id = ?`
	var c model.Client
	err := r.db.QueryRowContext(ctx, q, userID).
		Scan(&c.ID, &c.UserID, &c.FullName, &c.Phone, &c.LoyaltyPoints, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByID returns a client profile by its own id.
func (r *ClientRepo) GetByID(ctx context.Context, id uint64) (*model.Client, error) {
	const q = `SELECT id, user_id, full_name, phone, loyalty_points, created_at, updated_at
	           FROM clients WHERE id = ?`
	var c model.Client
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&c.ID, &c.UserID, &c.FullName, &c.Phone, &c.LoyaltyPoints, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &c, nil
}

// AddLoyaltyPoints credits points to a client. Used after check-in.
func (r *ClientRepo) AddLoyaltyPoints(ctx context.Context, id uint64, points uint32) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE clients SET loyalty_points = loyalty_points + ? WHERE id = ?", points, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrClientNotFound
	}
	return nil
}
