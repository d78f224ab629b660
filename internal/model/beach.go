package model

import "time"

// Beach represents a managed beach with bookable sets. Deleting a beach
// cascades to its zones, sets and reservations at the database level.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – human readable beach name.
//  Location    – optional free-form location text (town, address, ...).
//  Description – optional longer description.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Beach struct {
	ID          uint64    `json:"id"`                    // beaches.id
	Name        string    `json:"name"`                  // beaches.name
	Location    *string   `json:"location,omitempty"`    // beaches.location (nullable)
	Description *string   `json:"description,omitempty"` // beaches.description (nullable)
	CreatedAt   time.Time `json:"created_at"`            // beaches.created_at
	UpdatedAt   time.Time `json:"updated_at"`            // beaches.updated_at
}
