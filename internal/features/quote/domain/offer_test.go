package domain

import (
	"testing"

	carrierdomain "shipping-quoter/internal/features/carrier/domain"

	"github.com/stretchr/testify/assert"
)

// TestRequest_EffectivePackage verifies package/items precedence.
func TestRequest_EffectivePackage(t *testing.T) {
	measured := carrierdomain.Package{WeightKg: 2, HeightCm: 10, WidthCm: 15, LengthCm: 20}

	req := Request{Package: measured}
	assert.Equal(t, measured, req.EffectivePackage())

	req = Request{Items: []carrierdomain.Item{
		{WeightKg: 0.5, HeightCm: 10, WidthCm: 20, LengthCm: 30, Quantity: 2},
	}}
	pkg := req.EffectivePackage()
	assert.InDelta(t, 1.0, pkg.WeightKg, 1e-9)
	assert.Equal(t, 30.0, pkg.LengthCm)

	req = Request{}
	assert.Equal(t, 0.3, req.EffectivePackage().WeightKg)
}
