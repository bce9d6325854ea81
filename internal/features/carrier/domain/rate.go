package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// AvailableServices maps Correios service codes to display names.
var AvailableServices = map[string]string{
	"04510": "PAC",
	"04014": "SEDEX",
	"04782": "SEDEX 10",
	"04790": "SEDEX Hoje",
}

// Correios acceptance limits in cm and kg.
const (
	MinHeightCm = 2
	MinWidthCm  = 11
	MinLengthCm = 16
	MaxWeightKg = 30.0

	// MinWeightKg is assumed for items with no configured weight.
	MinWeightKg = 0.3
)

// Rate is one priced carrier service for a destination.
type Rate struct {
	ID           string  `json:"id"`
	ServiceCode  string  `json:"service_code"`
	Label        string  `json:"label"`
	Cost         float64 `json:"cost"`
	DeadlineDays int     `json:"deadline_days"`
}

// Package is the parcel being quoted. DeclaredValue is optional insurance
// coverage in BRL; zero means none.
type Package struct {
	WeightKg      float64 `json:"weight_kg"`
	HeightCm      float64 `json:"height_cm"`
	WidthCm       float64 `json:"width_cm"`
	LengthCm      float64 `json:"length_cm"`
	DeclaredValue float64 `json:"declared_value,omitempty"`
}

// Normalize raises every dimension to the Correios acceptance minimums. The
// carrier rejects parcels below them, so quoting smaller boxes as the minimum
// matches what would actually be posted.
func (p Package) Normalize() Package {
	if p.WeightKg < MinWeightKg {
		p.WeightKg = MinWeightKg
	}
	if p.HeightCm < MinHeightCm {
		p.HeightCm = MinHeightCm
	}
	if p.WidthCm < MinWidthCm {
		p.WidthCm = MinWidthCm
	}
	if p.LengthCm < MinLengthCm {
		p.LengthCm = MinLengthCm
	}
	return p
}

// ServiceName returns the display name for a service code, "Correios" for
// unknown codes.
func ServiceName(code string) string {
	if name, ok := AvailableServices[code]; ok {
		return name
	}
	return "Correios"
}

// RateLabel formats the customer-facing label for a service and deadline.
func RateLabel(code string, deadlineDays int) string {
	name := ServiceName(code)
	if deadlineDays > 0 {
		return fmt.Sprintf("%s (%d dias úteis)", name, deadlineDays)
	}
	return name
}

var nonDigits = regexp.MustCompile(`\D`)

// SanitizeCEP strips everything but digits from a postal code.
func SanitizeCEP(cep string) string {
	return nonDigits.ReplaceAllString(cep, "")
}

// ParsePrice converts a Correios price to a float. The API formats values in
// Brazilian notation ("1.234,56") but some endpoints return plain decimals.
func ParsePrice(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	if strings.Contains(value, ",") {
		value = strings.ReplaceAll(value, ".", "")
		value = strings.ReplaceAll(value, ",", ".")
	}

	price, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return math.Round(price*100) / 100
}
