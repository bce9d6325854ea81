package domain

import (
	"encoding/json"
	"fmt"
)

// Tier is one local-delivery pricing bracket: every distance up to
// MaxDistanceKm (inclusive) costs Price.
type Tier struct {
	Label         string  `json:"label"`
	MaxDistanceKm float64 `json:"max_distance_km"`
	Price         float64 `json:"price"`
}

// TierTable is an ordered sequence of tiers sorted ascending by distance
// bound. It is configuration data, not computed.
type TierTable []Tier

// Validate checks the table invariants: ascending bounds with no duplicates,
// non-negative prices, positive bounds.
func (t TierTable) Validate() error {
	prev := 0.0
	for i, tier := range t {
		if tier.MaxDistanceKm <= 0 {
			return fmt.Errorf("tier %d: max distance must be positive, got %v", i, tier.MaxDistanceKm)
		}
		if tier.Price < 0 {
			return fmt.Errorf("tier %d: price must not be negative, got %v", i, tier.Price)
		}
		if i > 0 && tier.MaxDistanceKm <= prev {
			return fmt.Errorf("tier %d: max distance %v not greater than previous %v", i, tier.MaxDistanceKm, prev)
		}
		prev = tier.MaxDistanceKm
	}
	return nil
}

// Match returns the first tier covering the distance: the bracket is rounded
// up, so a distance exactly on a bound matches that tier. Nil means the
// distance is outside the local delivery range.
func (t TierTable) Match(distanceKm float64) *Tier {
	for i := range t {
		if distanceKm <= t[i].MaxDistanceKm {
			return &t[i]
		}
	}
	return nil
}

// ParseTierTable decodes a JSON tier table override and validates it.
func ParseTierTable(data string) (TierTable, error) {
	var table TierTable
	if err := json.Unmarshal([]byte(data), &table); err != nil {
		return nil, fmt.Errorf("decoding tier table: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadTierTable returns the parsed override when set, the default regressive
// curve otherwise.
func LoadTierTable(override string) (TierTable, error) {
	if override == "" {
		return DefaultTierTable(), nil
	}
	return ParseTierTable(override)
}

// DefaultTierTable is the regressive pricing curve: a minimum fare covers
// the short radius, the per-km increment tapers off so long distances stay
// attractive against ride-hail couriers.
func DefaultTierTable() TierTable {
	return TierTable{
		{Label: "Raio 1.0 km", MaxDistanceKm: 1, Price: 7.50},
		{Label: "Raio 2.0 km", MaxDistanceKm: 2, Price: 8.00},
		{Label: "Raio 3.0 km", MaxDistanceKm: 3, Price: 8.50},
		{Label: "Raio 4.0 km", MaxDistanceKm: 4, Price: 9.00},
		{Label: "Raio 5.0 km", MaxDistanceKm: 5, Price: 9.50},
		{Label: "Raio 6.0 km", MaxDistanceKm: 6, Price: 10.00},
		{Label: "Raio 7.0 km", MaxDistanceKm: 7, Price: 10.90},
		{Label: "Raio 8.0 km", MaxDistanceKm: 8, Price: 11.80},
		{Label: "Raio 9.0 km", MaxDistanceKm: 9, Price: 12.70},
		{Label: "Raio 10.0 km", MaxDistanceKm: 10, Price: 13.60},
		{Label: "Raio 11.0 km", MaxDistanceKm: 11, Price: 14.50},
		{Label: "Raio 12.0 km", MaxDistanceKm: 12, Price: 15.00},
		{Label: "Raio 13.0 km", MaxDistanceKm: 13, Price: 15.50},
		{Label: "Raio 14.0 km", MaxDistanceKm: 14, Price: 16.00},
		{Label: "Raio 15.0 km", MaxDistanceKm: 15, Price: 16.50},
		{Label: "Raio 16.0 km", MaxDistanceKm: 16, Price: 17.00},
		{Label: "Raio 17.0 km", MaxDistanceKm: 17, Price: 17.50},
		{Label: "Raio 18.0 km", MaxDistanceKm: 18, Price: 18.00},
		{Label: "Raio 19.0 km", MaxDistanceKm: 19, Price: 18.50},
		{Label: "Raio 20.0 km", MaxDistanceKm: 20, Price: 19.00},
		{Label: "Raio 21.0 km", MaxDistanceKm: 21, Price: 19.50},
		{Label: "Raio 22.0 km", MaxDistanceKm: 22, Price: 20.00},
		{Label: "Raio 23.0 km", MaxDistanceKm: 23, Price: 20.50},
		{Label: "Raio 24.0 km", MaxDistanceKm: 24, Price: 21.00},
		{Label: "Raio 25.0 km", MaxDistanceKm: 25, Price: 21.50},
		{Label: "Raio 26.0 km", MaxDistanceKm: 26, Price: 22.00},
		{Label: "Raio 27.0 km", MaxDistanceKm: 27, Price: 22.50},
		{Label: "Raio 28.0 km", MaxDistanceKm: 28, Price: 23.00},
		{Label: "Raio 29.0 km", MaxDistanceKm: 29, Price: 23.50},
		{Label: "Raio 30.0 km", MaxDistanceKm: 30, Price: 24.00},
	}
}
