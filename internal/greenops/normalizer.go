package greenops

import (
	"math"
	"strings"
)

// NormalizeEnergyKWh returns the record's energy in kilowatt-hours.
//
// energy_kwh is returned unchanged when present; otherwise energy_wh is divided
// by 1000; otherwise the result is 0. A missing value is a valid zero, so
// callers that must tell "zero" from "absent" check the fields themselves.
func NormalizeEnergyKWh(r RunRecord) float64 {
	if r.EnergyKWh != nil {
		return *r.EnergyKWh
	}
	if r.EnergyWh != nil {
		return *r.EnergyWh * WhToKWh
	}
	return 0
}

// NormalizeCO2Kg returns the record's emissions in kilograms CO2e, with the
// same precedence rule as NormalizeEnergyKWh (co2e_kg wins over co2e_g).
func NormalizeCO2Kg(r RunRecord) float64 {
	if r.CO2eKg != nil {
		return *r.CO2eKg
	}
	if r.CO2eG != nil {
		return *r.CO2eG * GramsToKg
	}
	return 0
}

// HasEnergy reports whether the record carries either energy field.
func HasEnergy(r RunRecord) bool { return r.EnergyKWh != nil || r.EnergyWh != nil }

// HasCO2 reports whether the record carries either emissions field.
func HasCO2(r RunRecord) bool { return r.CO2eKg != nil || r.CO2eG != nil }

// carbonUnitFactor returns the factor to kilograms for a carbon unit.
// Matching is case-insensitive: g, kg, t, lb and their CO2e variants.
func carbonUnitFactor(unit string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g", "gco2e":
		return GramsToKg, true
	case "kg", "kgco2e":
		return KgToKg, true
	case "t", "tco2e":
		return TonsToKg, true
	case "lb", "lbco2e":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// energyUnitFactor returns the factor to kilowatt-hours for an energy unit.
func energyUnitFactor(unit string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "wh":
		return WhToKWh, true
	case "kwh":
		return KWhToKWh, true
	case "mwh":
		return MWhToKWh, true
	default:
		return 0, false
	}
}

// NormalizeToKg converts a carbon quantity in unit to kilograms.
//
// Returns ErrCalculationOverflow for Inf/NaN input or an overflowing result,
// ErrNegativeValue for negative input and ErrInvalidUnit for unknown units.
func NormalizeToKg(value float64, unit string) (float64, error) {
	return convert(value, unit, carbonUnitFactor)
}

// NormalizeToKWh converts an energy quantity in unit (Wh, kWh, MWh) to kilowatt-hours.
// It fails under the same conditions as NormalizeToKg.
func NormalizeToKWh(value float64, unit string) (float64, error) {
	return convert(value, unit, energyUnitFactor)
}

func convert(value float64, unit string, factorOf func(string) (float64, bool)) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}

	factor, ok := factorOf(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}

	result := value * factor
	if math.IsInf(result, 0) {
		return 0, ErrCalculationOverflow
	}
	return result, nil
}

// IsRecognizedCarbonUnit reports whether unit is accepted by NormalizeToKg.
func IsRecognizedCarbonUnit(unit string) bool {
	_, ok := carbonUnitFactor(unit)
	return ok
}

// IsRecognizedEnergyUnit reports whether unit is accepted by NormalizeToKWh.
func IsRecognizedEnergyUnit(unit string) bool {
	_, ok := energyUnitFactor(unit)
	return ok
}
