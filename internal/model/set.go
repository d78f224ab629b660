package model

import (
	"sort"
	"time"
)

// Availability status values. The `sets.status` column stores a default
// fallback only; the authoritative status for a date is always derived from
// the reservations that reference the set on that date.
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
)

// Set describes one physical seat unit (umbrella + chairs) at a beach.
// RowNumber and Position are nil for sets that were created manually
// without placement metadata; such sets are still bookable and are grouped
// under a sentinel row in grid projections.
//
// Fields:
//  ID         – primary key identifier.
//  BeachID    – beach to which this set belongs.
//  ZoneID     – generating zone, nil for manually created sets.
//  Name       – unique name within the beach.
//  RowNumber  – 1-based row within the zone grid (nullable).
//  Position   – 1-based position within the row (nullable).
//  PriceCents – current per-day price in cents.
//  Status     – stored fallback status, not date-aware.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Set struct {
	ID         uint64    `json:"id"`                   // sets.id
	BeachID    uint64    `json:"beach_id"`             // sets.beach_id
	ZoneID     *uint64   `json:"zone_id,omitempty"`    // sets.zone_id (nullable)
	Name       string    `json:"name"`                 // sets.name
	RowNumber  *uint32   `json:"row_number,omitempty"` // sets.row_number (nullable)
	Position   *uint32   `json:"position,omitempty"`   // sets.position (nullable)
	PriceCents uint32    `json:"price_cents"`          // sets.price_cents
	Status     string    `json:"status"`               // sets.status (fallback only)
	CreatedAt  time.Time `json:"created_at"`           // sets.created_at
	UpdatedAt  time.Time `json:"updated_at"`           // sets.updated_at
}

// SetWithStatus is a set annotated with its derived status for one
// specific (beach, date). It is the unit returned by the availability
// resolver and consumed by the selection basket.
type SetWithStatus struct {
	ID         uint64  `json:"id"`
	ZoneID     *uint64 `json:"zone_id,omitempty"`
	Name       string  `json:"name"`
	RowNumber  *uint32 `json:"row_number,omitempty"`
	Position   *uint32 `json:"position,omitempty"`
	PriceCents uint32  `json:"price_cents"`
	Status     string  `json:"status"`
}

// GridRow is one row of the availability grid projection.
type GridRow struct {
	RowNumber uint32          `json:"row_number"`
	Sets      []SetWithStatus `json:"sets"`
}

// BuildGrid arranges an availability snapshot into rows ordered by row
// number, each row ordered by position. Sets without placement metadata are
// grouped under row 0 so that no set ever disappears from the grid.
func BuildGrid(sets []SetWithStatus) []GridRow {
	byRow := make(map[uint32][]SetWithStatus)
	for _, s := range sets {
		row := uint32(0)
		if s.RowNumber != nil {
			row = *s.RowNumber
		}
		byRow[row] = append(byRow[row], s)
	}
	rows := make([]GridRow, 0, len(byRow))
	for num, members := range byRow {
		sort.Slice(members, func(i, j int) bool {
			pi, pj := uint32(0), uint32(0)
			if members[i].Position != nil {
				pi = *members[i].Position
			}
			if members[j].Position != nil {
				pj = *members[j].Position
			}
			if pi != pj {
				return pi < pj
			}
			return members[i].ID < members[j].ID
		})
		rows = append(rows, GridRow{RowNumber: num, Sets: members})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].RowNumber < rows[j].RowNumber })
	return rows
}
