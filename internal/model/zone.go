package model

import (
	"fmt"
	"time"
)

// Zone is a rectangular block of sets generated together. Creating a zone
// materializes TotalRows * SpotsPerRow individual Set rows, all priced at
// the zone's per-seat price.
//
// Fields:
//  ID          – primary key identifier.
//  BeachID     – beach to which this zone belongs.
//  Name        – zone name, unique within the beach.
//  TotalRows   – number of rows in the grid.
//  SpotsPerRow – number of sets per row.
//  PriceCents  – flat per-set price in cents.
//  CreatedAt   – creation timestamp.
type Zone struct {
	ID          uint64    `json:"id"`            // zones.id
	BeachID     uint64    `json:"beach_id"`      // zones.beach_id
	Name        string    `json:"name"`          // zones.name
	TotalRows   uint32    `json:"total_rows"`    // zones.total_rows
	SpotsPerRow uint32    `json:"spots_per_row"` // zones.spots_per_row
	PriceCents  uint32    `json:"price_cents"`   // zones.price_cents
	CreatedAt   time.Time `json:"created_at"`    // zones.created_at
}

// SetName builds the canonical name of a generated set: "<zone>-<row>-<pos>".
// Rows and positions are 1-based.
func (z Zone) SetName(row, pos uint32) string {
	return fmt.Sprintf("%s-%d-%d", z.Name, row, pos)
}

// GenerateSets builds the full grid of sets for the zone. Every set carries
// the zone's price and a 1-based (row, position) placement. The zone's ID
// and BeachID must already be populated.
func (z Zone) GenerateSets() []Set {
	total := int(z.TotalRows) * int(z.SpotsPerRow)
	sets := make([]Set, 0, total)
	for row := uint32(1); row <= z.TotalRows; row++ {
		for pos := uint32(1); pos <= z.SpotsPerRow; pos++ {
			r, p := row, pos
			sets = append(sets, Set{
				BeachID:    z.BeachID,
				ZoneID:     &z.ID,
				Name:       z.SetName(row, pos),
				RowNumber:  &r,
				Position:   &p,
				PriceCents: z.PriceCents,
				Status:     StatusAvailable,
			})
		}
	}
	return sets
}
