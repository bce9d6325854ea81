package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestAddressInput_SingleLine verifies the free-form concatenation.
func TestAddressInput_SingleLine(t *testing.T) {
	addr := AddressInput{
		Street:     "Avenida Paulista",
		Number:     "1578",
		City:       "São Paulo",
		State:      "SP",
		PostalCode: "01310-200",
		Country:    "Brasil",
	}

	assert.Equal(t, "Avenida Paulista, 1578, São Paulo, SP, 01310-200, Brasil", addr.SingleLine())
}

// TestAddressInput_SingleLine_SkipsEmpty verifies blank fields are omitted.
func TestAddressInput_SingleLine_SkipsEmpty(t *testing.T) {
	addr := AddressInput{
		City:  "Uberlândia",
		State: " MG ",
	}

	assert.Equal(t, "Uberlândia, MG", addr.SingleLine())
}

// TestAddressInput_Signature verifies the signature is normalized and stable.
func TestAddressInput_Signature(t *testing.T) {
	a := AddressInput{Street: "Rua A", City: "Uberlândia", State: "MG", PostalCode: "38400-000", Country: "BR"}
	b := AddressInput{Street: " rua a ", City: "UBERLÂNDIA", State: "mg", PostalCode: "38400-000", Country: "br"}
	c := AddressInput{Street: "Rua B", City: "Uberlândia", State: "MG", PostalCode: "38400-000", Country: "BR"}

	assert.Equal(t, a.Signature(), b.Signature())
	assert.NotEqual(t, a.Signature(), c.Signature())
}

// TestCoordinates_IsZero verifies the unset check.
func TestCoordinates_IsZero(t *testing.T) {
	assert.True(t, Coordinates{}.IsZero())
	assert.False(t, Coordinates{Latitude: -18.91}.IsZero())
}

// TestGeocodeResult_Expired verifies the cache validity window.
func TestGeocodeResult_Expired(t *testing.T) {
	now := time.Now()

	fresh := GeocodeResult{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, fresh.Expired(now))

	stale := GeocodeResult{ExpiresAt: now.Add(-time.Second)}
	assert.True(t, stale.Expired(now))

	boundary := GeocodeResult{ExpiresAt: now}
	assert.True(t, boundary.Expired(now))

	// Zero ExpiresAt means no explicit window.
	assert.False(t, GeocodeResult{}.Expired(now))
}
