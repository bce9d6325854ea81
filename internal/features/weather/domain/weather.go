package domain

import "strings"

// Reading is a point-in-time weather observation near a coordinate pair.
type Reading struct {
	// Condition is the provider's condition group, e.g. "Rain", "Drizzle".
	Condition string `json:"condition"`
	// PrecipMMPerHour is the rain volume over the last hour in millimeters.
	PrecipMMPerHour float64 `json:"precip_mm_per_hour"`
}

// Rain intensity bounds in mm/h. Above heavyRainThreshold the courier pool
// shrinks enough to justify the stronger surcharge.
const heavyRainThreshold = 5.0

// IsHeavyRain reports rain above the heavy threshold or a thunderstorm.
func (r Reading) IsHeavyRain() bool {
	if strings.EqualFold(r.Condition, "Thunderstorm") {
		return true
	}
	return strings.EqualFold(r.Condition, "Rain") && r.PrecipMMPerHour > heavyRainThreshold
}

// IsLightRain reports drizzle or rain at or below the heavy threshold.
func (r Reading) IsLightRain() bool {
	if r.IsHeavyRain() {
		return false
	}
	return strings.EqualFold(r.Condition, "Rain") || strings.EqualFold(r.Condition, "Drizzle")
}
