// Package selection implements the in-memory basket that accumulates a
// visitor's chosen sets for one beach and date before a reservation is
// written. Baskets are advisory only: the authoritative availability check
// happens again inside the reservation transaction.
package selection

import (
	"sort"
	"time"

	"github.com/demce01/plazhi-sub000/internal/model"
)

// Basket holds the sets a visitor has picked for one (beach, date). It is
// not safe for concurrent use; the Manager serializes access per session.
type Basket struct {
	BeachID   uint64
	Date      time.Time
	touchedAt time.Time
	items     map[uint64]model.SetWithStatus
}

// NewBasket creates an empty basket scoped to a beach and date.
func NewBasket(beachID uint64, date time.Time) *Basket {
	return &Basket{
		BeachID:   beachID,
		Date:      date,
		touchedAt: time.Now(),
		items:     make(map[uint64]model.SetWithStatus),
	}
}

// Toggle adds the set when absent and removes it when present. Adding a set
// whose derived status is reserved is rejected; the bool reports whether the
// set is in the basket after the call.
func (b *Basket) Toggle(s model.SetWithStatus) (selected bool, err error) {
	b.touchedAt = time.Now()
	if _, ok := b.items[s.ID]; ok {
		delete(b.items, s.ID)
		return false, nil
	}
	if s.Status != model.StatusAvailable {
		return false, &UnavailableError{SetID: s.ID, Name: s.Name}
	}
	b.items[s.ID] = s
	return true, nil
}

// Remove drops a set from the basket. Removing a set that is not present is
// a no-op.
func (b *Basket) Remove(setID uint64) {
	b.touchedAt = time.Now()
	delete(b.items, setID)
}

// Items returns the selected sets ordered by row, position and id, matching
// the availability listing order.
func (b *Basket) Items() []model.SetWithStatus {
	out := make([]model.SetWithStatus, 0, len(b.items))
	for _, s := range b.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := uint32(0), uint32(0)
		if out[i].RowNumber != nil {
			ri = *out[i].RowNumber
		}
		if out[j].RowNumber != nil {
			rj = *out[j].RowNumber
		}
		if ri != rj {
			return ri < rj
		}
		pi, pj := uint32(0), uint32(0)
		if out[i].Position != nil {
			pi = *out[i].Position
		}
		if out[j].Position != nil {
			pj = *out[j].Position
		}
		if pi != pj {
			return pi < pj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SetIDs returns the ids of the selected sets in listing order.
func (b *Basket) SetIDs() []uint64 {
	items := b.Items()
	ids := make([]uint64, len(items))
	for i, s := range items {
		ids[i] = s.ID
	}
	return ids
}

// TotalCents sums the prices of the selected sets.
func (b *Basket) TotalCents() uint32 {
	var total uint32
	for _, s := range b.items {
		total += s.PriceCents
	}
	return total
}

// Len returns the number of selected sets.
func (b *Basket) Len() int { return len(b.items) }

// View is an immutable copy of a basket's state. Handlers respond from
// views, never from the live basket, so no basket read happens outside the
// manager lock.
type View struct {
	BeachID    uint64
	Date       time.Time
	Sets       []model.SetWithStatus
	TotalCents uint32
}

// View copies the basket state. Only call it while the manager lock is
// held, like every other Basket method.
func (b *Basket) View() View {
	return View{
		BeachID:    b.BeachID,
		Date:       b.Date,
		Sets:       b.Items(),
		TotalCents: b.TotalCents(),
	}
}

// SetIDs returns the ids of the copied sets in listing order.
func (v View) SetIDs() []uint64 {
	ids := make([]uint64, len(v.Sets))
	for i, s := range v.Sets {
		ids[i] = s.ID
	}
	return ids
}

// UnavailableError reports an attempt to select a set that is already
// reserved for the basket's date.
type UnavailableError struct {
	SetID uint64
	Name  string
}

func (e *UnavailableError) Error() string {
	return "set " + e.Name + " is already reserved for this date"
}
