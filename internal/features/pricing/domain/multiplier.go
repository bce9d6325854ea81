package domain

import "math"

// Component is one contribution to a dynamic multiplier, kept for display
// in the offer breakdown.
type Component struct {
	Reason string  `json:"reason"`
	Factor float64 `json:"factor"`
}

// Multiplier is the combined dynamic pricing factor for one quote.
type Multiplier struct {
	Total      float64     `json:"total"`
	Components []Component `json:"components,omitempty"`
}

// Neutral is the identity multiplier applied when dynamic pricing is off or
// no condition triggers.
func Neutral() Multiplier {
	return Multiplier{Total: 1.0}
}

// Combine multiplies the components together and clamps the product to the
// ceiling. A ceiling of zero means unclamped.
func Combine(components []Component, ceiling float64) Multiplier {
	if len(components) == 0 {
		return Neutral()
	}

	total := 1.0
	for _, c := range components {
		total *= c.Factor
	}
	if ceiling > 0 && total > ceiling {
		total = ceiling
	}

	return Multiplier{
		Total:      math.Round(total*100) / 100,
		Components: components,
	}
}
