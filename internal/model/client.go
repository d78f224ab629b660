package model

import "time"

// Client links a user account to booking contact details and loyalty
// metadata. One-to-one with users.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – owning user account.
//  FullName      – name used on reservations.
//  Phone         – contact phone number.
//  LoyaltyPoints – accumulated loyalty points.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Client struct {
	ID            uint64    `json:"id"`             // clients.id
	UserID        uint64    `json:"user_id"`        // clients.user_id
	FullName      string    `json:"full_name"`      // clients.full_name
	Phone         string    `json:"phone"`          // clients.phone
	LoyaltyPoints uint32    `json:"loyalty_points"` // clients.loyalty_points
	CreatedAt     time.Time `json:"created_at"`     // clients.created_at
	UpdatedAt     time.Time `json:"updated_at"`     // clients.updated_at
}
