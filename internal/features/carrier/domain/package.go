package domain

import "math"

// Item-level defaults for products with no configured weight or dimensions
// (digital goods, sloppy catalogs).
const (
	defaultItemHeightCm = 5
	defaultItemWidthCm  = 10
	defaultItemLengthCm = 15
)

// Item is one cart line contributing to the quoted parcel.
type Item struct {
	WeightKg float64 `json:"weight_kg"`
	HeightCm float64 `json:"height_cm"`
	WidthCm  float64 `json:"width_cm"`
	LengthCm float64 `json:"length_cm"`
	Quantity int     `json:"quantity"`
}

// PackageFromItems estimates the single box that would hold all items: total
// weight, and a volumetric box whose length/width keep the largest item flat
// and whose height absorbs the remaining volume.
func PackageFromItems(items []Item) Package {
	if len(items) == 0 {
		return Package{WeightKg: MinWeightKg}.Normalize()
	}

	var weight, volume, maxLength, maxWidth float64
	for _, item := range items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}

		itemWeight := item.WeightKg
		if itemWeight <= 0 {
			itemWeight = MinWeightKg
		}
		weight += itemWeight * float64(qty)

		height := item.HeightCm
		if height <= 0 {
			height = defaultItemHeightCm
		}
		width := item.WidthCm
		if width <= 0 {
			width = defaultItemWidthCm
		}
		length := item.LengthCm
		if length <= 0 {
			length = defaultItemLengthCm
		}

		volume += height * width * length * float64(qty)
		maxLength = math.Max(maxLength, length)
		maxWidth = math.Max(maxWidth, width)
	}

	cubic := math.Cbrt(volume)
	length := math.Max(maxLength, cubic)
	width := math.Max(maxWidth, math.Min(cubic, length))
	height := cubic
	if volume > 0 {
		height = volume / (length * width)
	}

	return Package{
		WeightKg: weight,
		HeightCm: round1(height),
		WidthCm:  round1(width),
		LengthCm: round1(length),
	}.Normalize()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
