package model

import "time"

// Reservation status values. The transitions are pending -> confirmed,
// pending -> cancelled and confirmed -> cancelled; cancelled is terminal.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

// Payment status values. Payments themselves are out of scope; the field is
// a plain marker carried on the reservation.
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// Reservation records one booking event: one or more sets at one beach for
// one calendar date. Exactly one of ClientID or the guest contact fields is
// populated. PaymentAmountCents is a snapshot of the selected sets' prices
// at booking time and never changes afterwards.
//
// Fields:
//  ID                 – primary key identifier.
//  BeachID            – beach being booked.
//  ReservationDate    – calendar date of the booking (time-of-day ignored).
//  ClientID           – booking client, nil for guest bookings.
//  GuestName          – guest contact name (guest bookings only).
//  GuestPhone         – guest contact phone (guest bookings only).
//  GuestEmail         – optional guest email.
//  LookupCode         – opaque code handed to the booker for later lookup.
//  PaymentAmountCents – total price snapshot in cents.
//  Status             – pending, confirmed or cancelled.
//  PaymentStatus      – unpaid or paid (informational only).
//  CheckedIn          – whether the booker physically arrived.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Reservation struct {
	ID                 uint64    `json:"id"`                    // reservations.id
	BeachID            uint64    `json:"beach_id"`              // reservations.beach_id
	ReservationDate    time.Time `json:"reservation_date"`      // reservations.reservation_date (DATE)
	ClientID           *uint64   `json:"client_id,omitempty"`   // reservations.client_id (nullable)
	GuestName          *string   `json:"guest_name,omitempty"`  // reservations.guest_name (nullable)
	GuestPhone         *string   `json:"guest_phone,omitempty"` // reservations.guest_phone (nullable)
	GuestEmail         *string   `json:"guest_email,omitempty"` // reservations.guest_email (nullable)
	LookupCode         string    `json:"lookup_code"`           // reservations.lookup_code
	PaymentAmountCents uint32    `json:"payment_amount_cents"`  // reservations.payment_amount_cents
	Status             string    `json:"status"`                // reservations.status
	PaymentStatus      string    `json:"payment_status"`        // reservations.payment_status
	CheckedIn          bool      `json:"checked_in"`            // reservations.checked_in
	CreatedAt          time.Time `json:"created_at"`            // reservations.created_at
	UpdatedAt          time.Time `json:"updated_at"`            // reservations.updated_at
}

// IsGuest reports whether the reservation was made without an account.
func (r Reservation) IsGuest() bool { return r.ClientID == nil }
