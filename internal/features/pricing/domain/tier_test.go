package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTierTable_Match covers the first-covering-bracket rule.
func TestTierTable_Match(t *testing.T) {
	table := DefaultTierTable()

	tests := []struct {
		name       string
		distanceKm float64
		wantPrice  float64
	}{
		{"inside first bracket", 0.4, 7.50},
		{"rounds up within bracket", 2.1, 8.50},
		{"mid table", 7.8, 11.80},
		{"exactly on bound", 8.0, 11.80},
		{"last bracket", 29.5, 24.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := table.Match(tt.distanceKm)
			require.NotNil(t, tier)
			assert.Equal(t, tt.wantPrice, tier.Price)
		})
	}
}

// TestTierTable_Match_OutOfRange verifies distances past the last bound.
func TestTierTable_Match_OutOfRange(t *testing.T) {
	table := TierTable{
		{Label: "Raio 5 km", MaxDistanceKm: 5, Price: 10},
		{Label: "Raio 8 km", MaxDistanceKm: 8, Price: 14},
	}

	assert.Nil(t, table.Match(9))
	assert.NotNil(t, table.Match(8))
}

// TestTierTable_Validate checks the ordering and value invariants.
func TestTierTable_Validate(t *testing.T) {
	assert.NoError(t, DefaultTierTable().Validate())

	assert.Error(t, TierTable{
		{MaxDistanceKm: 5, Price: 10},
		{MaxDistanceKm: 5, Price: 12},
	}.Validate(), "duplicate bound")

	assert.Error(t, TierTable{
		{MaxDistanceKm: 8, Price: 10},
		{MaxDistanceKm: 5, Price: 12},
	}.Validate(), "descending bounds")

	assert.Error(t, TierTable{
		{MaxDistanceKm: 5, Price: -1},
	}.Validate(), "negative price")

	assert.Error(t, TierTable{
		{MaxDistanceKm: 0, Price: 10},
	}.Validate(), "zero bound")
}

// TestDefaultTierTable_Monotonic verifies prices never decrease with distance.
func TestDefaultTierTable_Monotonic(t *testing.T) {
	table := DefaultTierTable()
	for i := 1; i < len(table); i++ {
		assert.GreaterOrEqual(t, table[i].Price, table[i-1].Price)
	}
}

// TestLoadTierTable exercises the override path and the default.
func TestLoadTierTable(t *testing.T) {
	table, err := LoadTierTable("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTierTable(), table)

	table, err = LoadTierTable(`[{"label":"Centro","max_distance_km":3,"price":6.9}]`)
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, 6.9, table[0].Price)

	_, err = LoadTierTable(`not json`)
	assert.Error(t, err)

	_, err = LoadTierTable(`[{"max_distance_km":5,"price":10},{"max_distance_km":2,"price":8}]`)
	assert.Error(t, err)
}
