// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a reservation reaches the
// confirmed state. It carries enough information for downstream consumers to
// log, notify or feed analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID    uint64   `json:"reservation_id"`
	BeachID          uint64   `json:"beach_id"`
	BeachName        string   `json:"beach_name"`
	ReservationDate  string   `json:"reservation_date"`
	ClientID         uint64   `json:"client_id,omitempty"`
	GuestName        string   `json:"guest_name,omitempty"`
	LookupCode       string   `json:"lookup_code"`
	SetNames         []string `json:"sets"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	ConfirmedAt      string   `json:"confirmed_at"`
}
