package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u32(v uint32) *uint32 { return &v }

func TestBuildGridGroupsByRowAndSortsByPosition(t *testing.T) {
	sets := []SetWithStatus{
		{ID: 3, Name: "a-1-3", RowNumber: u32(1), Position: u32(3), Status: StatusAvailable},
		{ID: 1, Name: "a-1-1", RowNumber: u32(1), Position: u32(1), Status: StatusReserved},
		{ID: 5, Name: "a-2-1", RowNumber: u32(2), Position: u32(1), Status: StatusAvailable},
		{ID: 2, Name: "a-1-2", RowNumber: u32(1), Position: u32(2), Status: StatusAvailable},
	}

	rows := BuildGrid(sets)
	require.Len(t, rows, 2)

	assert.Equal(t, uint32(1), rows[0].RowNumber)
	require.Len(t, rows[0].Sets, 3)
	assert.Equal(t, "a-1-1", rows[0].Sets[0].Name)
	assert.Equal(t, "a-1-2", rows[0].Sets[1].Name)
	assert.Equal(t, "a-1-3", rows[0].Sets[2].Name)

	assert.Equal(t, uint32(2), rows[1].RowNumber)
	require.Len(t, rows[1].Sets, 1)
}

func TestBuildGridKeepsUnplacedSetsUnderSentinelRow(t *testing.T) {
	sets := []SetWithStatus{
		{ID: 10, Name: "vip-gazebo", Status: StatusAvailable},
		{ID: 1, Name: "a-1-1", RowNumber: u32(1), Position: u32(1), Status: StatusAvailable},
	}

	rows := BuildGrid(sets)
	require.Len(t, rows, 2)
	assert.Equal(t, uint32(0), rows[0].RowNumber)
	assert.Equal(t, "vip-gazebo", rows[0].Sets[0].Name)
	assert.Equal(t, uint32(1), rows[1].RowNumber)
}

func TestBuildGridEmpty(t *testing.T) {
	assert.Empty(t, BuildGrid(nil))
}

func TestZoneGenerateSetsProducesFullGrid(t *testing.T) {
	z := Zone{ID: 7, BeachID: 2, Name: "a", TotalRows: 3, SpotsPerRow: 4, PriceCents: 1500}

	sets := z.GenerateSets()
	require.Len(t, sets, 12)

	// first and last cells of the grid
	assert.Equal(t, "a-1-1", sets[0].Name)
	assert.Equal(t, uint32(1), *sets[0].RowNumber)
	assert.Equal(t, uint32(1), *sets[0].Position)
	assert.Equal(t, "a-3-4", sets[11].Name)
	assert.Equal(t, uint32(3), *sets[11].RowNumber)
	assert.Equal(t, uint32(4), *sets[11].Position)

	seen := make(map[string]bool, len(sets))
	for _, s := range sets {
		assert.False(t, seen[s.Name], "duplicate name %s", s.Name)
		seen[s.Name] = true
		assert.Equal(t, z.PriceCents, s.PriceCents)
		assert.Equal(t, StatusAvailable, s.Status)
		assert.Equal(t, z.BeachID, s.BeachID)
		require.NotNil(t, s.ZoneID)
		assert.Equal(t, z.ID, *s.ZoneID)
	}
}

func TestZoneSetName(t *testing.T) {
	z := Zone{Name: "b"}
	assert.Equal(t, "b-2-7", z.SetName(2, 7))
}
