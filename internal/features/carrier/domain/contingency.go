package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ContingencyRate is the static regional pricing for one destination state,
// used when the live Correios API is unreachable or returns nothing.
type ContingencyRate struct {
	PAC           float64 `json:"pac"`
	SEDEX         float64 `json:"sedex"`
	DeadlinePAC   int     `json:"deadline_pac"`
	DeadlineSEDEX int     `json:"deadline_sedex"`
}

// ContingencyTable maps destination state (UF) to its static rates.
type ContingencyTable map[string]ContingencyRate

// unknownStateRate covers destinations outside the table with the most
// expensive bracket so a contingency quote never undercuts a real one.
var unknownStateRate = ContingencyRate{PAC: 60.00, SEDEX: 85.00, DeadlinePAC: 20, DeadlineSEDEX: 10}

// DefaultContingencyTable returns static rates for all 27 federative units,
// calibrated for shipments originating in the Triângulo Mineiro.
func DefaultContingencyTable() ContingencyTable {
	return ContingencyTable{
		"MG": {PAC: 18.00, SEDEX: 28.00, DeadlinePAC: 5, DeadlineSEDEX: 2},
		"SP": {PAC: 22.00, SEDEX: 35.00, DeadlinePAC: 6, DeadlineSEDEX: 2},
		"RJ": {PAC: 24.00, SEDEX: 38.00, DeadlinePAC: 7, DeadlineSEDEX: 3},
		"ES": {PAC: 22.00, SEDEX: 35.00, DeadlinePAC: 6, DeadlineSEDEX: 3},
		"PR": {PAC: 28.00, SEDEX: 42.00, DeadlinePAC: 8, DeadlineSEDEX: 3},
		"SC": {PAC: 30.00, SEDEX: 45.00, DeadlinePAC: 9, DeadlineSEDEX: 4},
		"RS": {PAC: 32.00, SEDEX: 48.00, DeadlinePAC: 10, DeadlineSEDEX: 4},
		"GO": {PAC: 20.00, SEDEX: 32.00, DeadlinePAC: 5, DeadlineSEDEX: 2},
		"DF": {PAC: 22.00, SEDEX: 35.00, DeadlinePAC: 5, DeadlineSEDEX: 2},
		"MT": {PAC: 32.00, SEDEX: 50.00, DeadlinePAC: 10, DeadlineSEDEX: 5},
		"MS": {PAC: 28.00, SEDEX: 45.00, DeadlinePAC: 8, DeadlineSEDEX: 4},
		"BA": {PAC: 35.00, SEDEX: 55.00, DeadlinePAC: 12, DeadlineSEDEX: 5},
		"SE": {PAC: 38.00, SEDEX: 58.00, DeadlinePAC: 12, DeadlineSEDEX: 5},
		"AL": {PAC: 40.00, SEDEX: 60.00, DeadlinePAC: 13, DeadlineSEDEX: 6},
		"PE": {PAC: 42.00, SEDEX: 62.00, DeadlinePAC: 14, DeadlineSEDEX: 6},
		"PB": {PAC: 44.00, SEDEX: 65.00, DeadlinePAC: 14, DeadlineSEDEX: 6},
		"RN": {PAC: 45.00, SEDEX: 68.00, DeadlinePAC: 15, DeadlineSEDEX: 7},
		"CE": {PAC: 48.00, SEDEX: 70.00, DeadlinePAC: 15, DeadlineSEDEX: 7},
		"PI": {PAC: 50.00, SEDEX: 72.00, DeadlinePAC: 16, DeadlineSEDEX: 7},
		"MA": {PAC: 52.00, SEDEX: 75.00, DeadlinePAC: 18, DeadlineSEDEX: 8},
		"TO": {PAC: 45.00, SEDEX: 68.00, DeadlinePAC: 15, DeadlineSEDEX: 7},
		"PA": {PAC: 55.00, SEDEX: 80.00, DeadlinePAC: 18, DeadlineSEDEX: 8},
		"AP": {PAC: 60.00, SEDEX: 85.00, DeadlinePAC: 20, DeadlineSEDEX: 10},
		"AM": {PAC: 65.00, SEDEX: 90.00, DeadlinePAC: 22, DeadlineSEDEX: 10},
		"RR": {PAC: 68.00, SEDEX: 95.00, DeadlinePAC: 25, DeadlineSEDEX: 12},
		"RO": {PAC: 55.00, SEDEX: 80.00, DeadlinePAC: 18, DeadlineSEDEX: 8},
		"AC": {PAC: 70.00, SEDEX: 100.00, DeadlinePAC: 25, DeadlineSEDEX: 12},
	}
}

// LoadContingencyTable returns the default table with any JSON override
// merged on top. Overrides replace whole state entries.
func LoadContingencyTable(override string) (ContingencyTable, error) {
	table := DefaultContingencyTable()
	if strings.TrimSpace(override) == "" {
		return table, nil
	}

	var custom ContingencyTable
	if err := json.Unmarshal([]byte(override), &custom); err != nil {
		return nil, fmt.Errorf("decoding contingency table: %w", err)
	}
	for state, rate := range custom {
		table[strings.ToUpper(strings.TrimSpace(state))] = rate
	}
	return table, nil
}

// RatesFor looks up the rates for a state, falling back to the unknown-state
// bracket.
func (t ContingencyTable) RatesFor(state string) ContingencyRate {
	state = strings.ToUpper(strings.TrimSpace(state))
	if rate, ok := t[state]; ok {
		return rate
	}
	return unknownStateRate
}

// WeightMultiplier surcharges packages over 1 kg by 10% per additional kg,
// capped at 3x.
func WeightMultiplier(weightKg float64) float64 {
	if weightKg <= 1 {
		return 1.0
	}
	multiplier := 1 + (weightKg-1)*0.10
	return math.Min(multiplier, 3.0)
}

// Build produces the contingency rates for a destination, restricted to the
// enabled service codes. Only PAC and SEDEX have table entries.
func (t ContingencyTable) Build(state string, weightKg float64, services []string) []Rate {
	regional := t.RatesFor(state)
	multiplier := WeightMultiplier(weightKg)

	var rates []Rate
	for _, code := range services {
		switch code {
		case "04510":
			rates = append(rates, Rate{
				ID:           "correios_04510",
				ServiceCode:  code,
				Label:        fmt.Sprintf("PAC (%d dias úteis)*", regional.DeadlinePAC),
				Cost:         math.Round(regional.PAC*multiplier*100) / 100,
				DeadlineDays: regional.DeadlinePAC,
			})
		case "04014":
			rates = append(rates, Rate{
				ID:           "correios_04014",
				ServiceCode:  code,
				Label:        fmt.Sprintf("SEDEX (%d dias úteis)*", regional.DeadlineSEDEX),
				Cost:         math.Round(regional.SEDEX*multiplier*100) / 100,
				DeadlineDays: regional.DeadlineSEDEX,
			})
		}
	}
	return rates
}
