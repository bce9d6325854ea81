package domain

import (
	carrierdomain "shipping-quoter/internal/features/carrier/domain"
	geodomain "shipping-quoter/internal/features/geocode/domain"
)

// OfferKind distinguishes the two offer variants in the final list.
type OfferKind string

const (
	// KindLocal is the store's own tier-priced delivery.
	KindLocal OfferKind = "local"
	// KindCarrier is a quoted carrier service.
	KindCarrier OfferKind = "carrier"
)

// Offer is one shipping option presented to the customer.
type Offer struct {
	ID           string            `json:"id"`
	Kind         OfferKind         `json:"kind"`
	Label        string            `json:"label"`
	Cost         float64           `json:"cost"`
	DeadlineDays int               `json:"deadline_days,omitempty"`
	// Metadata carries display details: distance, tier, applied multiplier.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Quote is the assembled offer list for one request. Offers may be empty,
// meaning no shipping is available to the destination.
type Quote struct {
	RequestID string  `json:"request_id"`
	Offers    []Offer `json:"offers"`
}

// Request is one quote evaluation input. Coordinates, when present, come
// from a previous resolution in the same checkout session and are trusted
// without re-geocoding. Either a pre-measured Package or the raw cart Items
// may be supplied; Items are folded into a volumetric box when no package
// is given.
type Request struct {
	Address     geodomain.AddressInput `json:"address"`
	Coordinates *geodomain.Coordinates `json:"coordinates,omitempty"`
	Package     carrierdomain.Package  `json:"package"`
	Items       []carrierdomain.Item   `json:"items,omitempty"`
}

// EffectivePackage returns the parcel to quote: the explicit package when one
// was measured, otherwise the box estimated from the cart items.
func (r Request) EffectivePackage() carrierdomain.Package {
	if r.Package != (carrierdomain.Package{}) {
		return r.Package
	}
	return carrierdomain.PackageFromItems(r.Items)
}
