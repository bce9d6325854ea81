package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPackageFromItems_SingleItem verifies a lone item keeps its footprint.
func TestPackageFromItems_SingleItem(t *testing.T) {
	pkg := PackageFromItems([]Item{
		{WeightKg: 0.8, HeightCm: 10, WidthCm: 20, LengthCm: 30, Quantity: 1},
	})

	assert.Equal(t, 0.8, pkg.WeightKg)
	assert.Equal(t, 30.0, pkg.LengthCm)
	assert.Equal(t, 20.0, pkg.WidthCm)
	assert.Equal(t, 10.0, pkg.HeightCm)
}

// TestPackageFromItems_StackedQuantity verifies volume scales with quantity.
func TestPackageFromItems_StackedQuantity(t *testing.T) {
	pkg := PackageFromItems([]Item{
		{WeightKg: 0.5, HeightCm: 10, WidthCm: 20, LengthCm: 30, Quantity: 3},
	})

	assert.InDelta(t, 1.5, pkg.WeightKg, 1e-9)
	assert.Equal(t, 30.0, pkg.LengthCm)
	assert.Equal(t, 26.2, pkg.WidthCm)
	assert.InDelta(t, 22.9, pkg.HeightCm, 0.1)
}

// TestPackageFromItems_Defaults verifies zero-valued items get defaults.
func TestPackageFromItems_Defaults(t *testing.T) {
	pkg := PackageFromItems([]Item{{}})

	assert.Equal(t, 0.3, pkg.WeightKg)
	// 5x10x15 item, still above Correios minimums after estimation.
	assert.GreaterOrEqual(t, pkg.HeightCm, float64(MinHeightCm))
	assert.GreaterOrEqual(t, pkg.WidthCm, float64(MinWidthCm))
	assert.GreaterOrEqual(t, pkg.LengthCm, float64(MinLengthCm))
}

// TestPackageFromItems_Empty verifies the minimal parcel.
func TestPackageFromItems_Empty(t *testing.T) {
	pkg := PackageFromItems(nil)

	assert.Equal(t, 0.3, pkg.WeightKg)
	assert.Equal(t, 2.0, pkg.HeightCm)
	assert.Equal(t, 11.0, pkg.WidthCm)
	assert.Equal(t, 16.0, pkg.LengthCm)
}
