package selection

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demce01/plazhi-sub000/internal/model"
)

func u32(v uint32) *uint32 { return &v }

func available(id uint64, name string, price uint32) model.SetWithStatus {
	return model.SetWithStatus{ID: id, Name: name, PriceCents: price, Status: model.StatusAvailable}
}

func testDate() time.Time {
	return time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
}

func TestToggleAddsAndRemoves(t *testing.T) {
	b := NewBasket(1, testDate())

	selected, err := b.Toggle(available(5, "a-1-1", 1500))
	require.NoError(t, err)
	assert.True(t, selected)
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, uint32(1500), b.TotalCents())

	// toggling again removes
	selected, err = b.Toggle(available(5, "a-1-1", 1500))
	require.NoError(t, err)
	assert.False(t, selected)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, uint32(0), b.TotalCents())
}

func TestToggleRejectsReservedSet(t *testing.T) {
	b := NewBasket(1, testDate())

	s := model.SetWithStatus{ID: 9, Name: "a-2-3", PriceCents: 2000, Status: model.StatusReserved}
	selected, err := b.Toggle(s)
	assert.False(t, selected)

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, uint64(9), unavailable.SetID)
	assert.Equal(t, 0, b.Len())
}

func TestRemoveIsIdempotent(t *testing.T) {
	b := NewBasket(1, testDate())
	_, err := b.Toggle(available(3, "a-1-3", 1000))
	require.NoError(t, err)

	b.Remove(3)
	assert.Equal(t, 0, b.Len())
	b.Remove(3) // removing again is a no-op
	assert.Equal(t, 0, b.Len())
	b.Remove(99) // unknown id is a no-op too
	assert.Equal(t, 0, b.Len())
}

func TestTotalAccumulatesAcrossSets(t *testing.T) {
	b := NewBasket(1, testDate())
	_, err := b.Toggle(available(1, "a-1-1", 1500))
	require.NoError(t, err)
	_, err = b.Toggle(available(2, "a-1-2", 1500))
	require.NoError(t, err)
	_, err = b.Toggle(available(3, "b-1-1", 2500))
	require.NoError(t, err)

	assert.Equal(t, uint32(5500), b.TotalCents())

	_, err = b.Toggle(available(2, "a-1-2", 1500)) // deselect one
	require.NoError(t, err)
	assert.Equal(t, uint32(4000), b.TotalCents())
}

func TestItemsOrderedByPlacement(t *testing.T) {
	b := NewBasket(1, testDate())
	sets := []model.SetWithStatus{
		{ID: 4, Name: "a-2-1", RowNumber: u32(2), Position: u32(1), PriceCents: 100, Status: model.StatusAvailable},
		{ID: 1, Name: "a-1-2", RowNumber: u32(1), Position: u32(2), PriceCents: 100, Status: model.StatusAvailable},
		{ID: 2, Name: "a-1-1", RowNumber: u32(1), Position: u32(1), PriceCents: 100, Status: model.StatusAvailable},
	}
	for _, s := range sets {
		_, err := b.Toggle(s)
		require.NoError(t, err)
	}

	items := b.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "a-1-1", items[0].Name)
	assert.Equal(t, "a-1-2", items[1].Name)
	assert.Equal(t, "a-2-1", items[2].Name)

	assert.Equal(t, []uint64{2, 1, 4}, b.SetIDs())
}

func TestManagerSessions(t *testing.T) {
	m := NewManager(time.Minute)
	defer m.Stop()

	token, basket := m.Open(7, testDate())
	require.NotEmpty(t, token)
	assert.Same(t, basket, m.Get(token))

	assert.Nil(t, m.Get("unknown-token"))

	m.Close(token)
	assert.Nil(t, m.Get(token))
}

func TestSnapshotCopiesBasketState(t *testing.T) {
	m := NewManager(time.Minute)
	defer m.Stop()

	token, _ := m.Open(7, testDate())
	require.NoError(t, m.With(token, func(b *Basket) error {
		_, err := b.Toggle(available(1, "a-1-1", 1500))
		if err != nil {
			return err
		}
		_, err = b.Toggle(available(2, "a-1-2", 2000))
		return err
	}))

	view, ok := m.Snapshot(token)
	require.True(t, ok)
	assert.Equal(t, uint64(7), view.BeachID)
	assert.Equal(t, testDate(), view.Date)
	assert.Equal(t, uint32(3500), view.TotalCents)
	assert.Equal(t, []uint64{1, 2}, view.SetIDs())

	// mutating after the snapshot does not leak into the copy
	require.NoError(t, m.With(token, func(b *Basket) error {
		_, err := b.Toggle(available(1, "a-1-1", 1500))
		return err
	}))
	assert.Len(t, view.Sets, 2)

	_, ok = m.Snapshot("unknown-token")
	assert.False(t, ok)
}

func TestSnapshotDuringConcurrentToggles(t *testing.T) {
	m := NewManager(time.Minute)
	defer m.Stop()

	token, _ := m.Open(1, testDate())
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = m.With(token, func(b *Basket) error {
				_, err := b.Toggle(available(uint64(i%5+1), "s", 100))
				return err
			})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if view, ok := m.Snapshot(token); ok {
				_ = view.SetIDs()
				_ = view.TotalCents
			}
		}
	}()
	wg.Wait()

	view, ok := m.Snapshot(token)
	require.True(t, ok)
	assert.LessOrEqual(t, len(view.Sets), 5)
}

func TestManagerWithRunsUnderLock(t *testing.T) {
	m := NewManager(time.Minute)
	defer m.Stop()

	token, _ := m.Open(1, testDate())
	err := m.With(token, func(b *Basket) error {
		require.NotNil(t, b)
		_, err := b.Toggle(available(1, "a-1-1", 500))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Get(token).Len())
}
