package greenops

import (
	"fmt"
	"math"
)

// Equivalency expresses an amount of CO2e as everyday activities using EPA factors.
type Equivalency struct {
	Kg             float64 `json:"kg"`
	MilesDriven    float64 `json:"miles_driven"`
	PhonesCharged  float64 `json:"smartphones_charged"`
	DisplayText    string  `json:"display_text"`
	CompactText    string  `json:"compact_text"`
	BelowThreshold bool    `json:"below_threshold"`
}

// CalculateEquivalency converts kg CO2e into miles driven and smartphones charged.
//
// Amounts below MinEquivalencyThresholdKg return an Equivalency with
// BelowThreshold set and no text. Negative or non-finite input is rejected.
func CalculateEquivalency(kg float64) (Equivalency, error) {
	if math.IsInf(kg, 0) || math.IsNaN(kg) {
		return Equivalency{}, ErrCalculationOverflow
	}
	if kg < 0 {
		return Equivalency{}, ErrNegativeValue
	}
	if kg < MinEquivalencyThresholdKg {
		return Equivalency{Kg: kg, BelowThreshold: true}, nil
	}

	miles := kg / EPAMilesDrivenFactor
	phones := kg / EPASmartphoneChargeFactor

	milesText := formatEquivalencyValue(miles)
	phonesText := formatEquivalencyValue(phones)

	return Equivalency{
		Kg:            kg,
		MilesDriven:   miles,
		PhonesCharged: phones,
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
			milesText, phonesText),
		CompactText: fmt.Sprintf("(≈ %s mi, %s phones)", milesText, phonesText),
	}, nil
}

// formatEquivalencyValue keeps one decimal for values under 10 so small
// per-run savings do not collapse to "0".
func formatEquivalencyValue(v float64) string {
	const smallValue = 10
	switch {
	case v >= LargeNumberThreshold:
		return FormatLarge(v)
	case v < smallValue:
		return FormatFloat(v, 1)
	default:
		return FormatNumber(int64(math.Round(v)))
	}
}
