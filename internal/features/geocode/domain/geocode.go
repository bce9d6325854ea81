package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Coordinates is an immutable latitude/longitude pair in decimal degrees.
type Coordinates struct {
	// Latitude in decimal degrees, positive north.
	Latitude float64 `json:"lat"`
	// Longitude in decimal degrees, positive east.
	Longitude float64 `json:"lng"`
}

// IsZero reports whether the pair is unset. The null island origin is not a
// meaningful destination for this system.
func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

// AddressInput carries the structured destination address for one quote
// evaluation. It lives only for the duration of the request.
type AddressInput struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// SingleLine concatenates the populated fields into the free-form query sent
// to the geocoding provider.
func (a AddressInput) SingleLine() string {
	parts := make([]string, 0, 7)

	street := strings.TrimSpace(a.Street)
	if number := strings.TrimSpace(a.Number); number != "" && street != "" {
		street = street + ", " + number
	}
	for _, p := range []string{street, a.Neighborhood, a.City, a.State, a.PostalCode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, ", ")
}

// Signature returns a deterministic hash of the normalized destination
// fields. Callers that cache resolved coordinates per checkout session can
// compare signatures to detect an address change; the quote flow itself
// trusts supplied coordinates without requiring it.
func (a AddressInput) Signature() string {
	parts := []string{a.Street, a.City, a.State, a.PostalCode, a.Country}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	normalized := strings.ToLower(strings.Join(parts, "|"))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// ComponentKind identifies a semantic address component parsed from a
// provider response.
type ComponentKind string

const (
	ComponentStreetNumber ComponentKind = "street_number"
	ComponentStreet       ComponentKind = "street"
	ComponentNeighborhood ComponentKind = "neighborhood"
	ComponentCity         ComponentKind = "city"
	ComponentState        ComponentKind = "state"
	ComponentStateCode    ComponentKind = "state_code"
	ComponentCountry      ComponentKind = "country"
	ComponentPostalCode   ComponentKind = "postal_code"
)

// GeocodeResult is a resolved address. Results are cached by normalized
// address text; CreatedAt/ExpiresAt describe the cache entry's validity
// window and an entry past ExpiresAt is treated as absent.
type GeocodeResult struct {
	// Coordinates of the best candidate.
	Coordinates Coordinates `json:"coordinates"`
	// FormattedAddress is the provider's canonical rendering.
	FormattedAddress string `json:"formatted_address"`
	// Components maps semantic fields parsed from the provider response.
	Components map[ComponentKind]string `json:"components,omitempty"`
	// PlaceID is the provider-specific identifier for the location.
	PlaceID string `json:"place_id,omitempty"`
	// IsFallback marks results produced from the configured default
	// coordinates while the provider is unavailable.
	IsFallback bool `json:"is_fallback,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the cached entry is past its validity window.
func (g GeocodeResult) Expired(now time.Time) bool {
	return !g.ExpiresAt.IsZero() && !g.ExpiresAt.After(now)
}
