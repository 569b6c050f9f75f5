package greenops

// EPA Formula Constants (2024 Edition)
// Source: https://www.epa.gov/energy/greenhouse-gas-equivalencies-calculator
//
// These constants represent the kg CO2e equivalent for each activity.
// To calculate the equivalency, divide the carbon value by the factor:
//
//	equivalency = kg_CO2e / factor
const (
	// EPAMilesDrivenFactor is kg CO2e per mile for average passenger vehicle.
	EPAMilesDrivenFactor = 0.192

	// EPASmartphoneChargeFactor is kg CO2e per smartphone charge.
	EPASmartphoneChargeFactor = 0.00822
)

// Unit Conversion Constants for normalizing carbon values to kilograms.
const (
	// GramsToKg converts grams to kilograms.
	GramsToKg = 0.001

	// KgToKg is the identity conversion for kilograms.
	KgToKg = 1.0

	// TonsToKg converts metric tons to kilograms.
	TonsToKg = 1000.0

	// PoundsToKg converts pounds to kilograms.
	PoundsToKg = 0.453592
)

// Unit Conversion Constants for normalizing energy values to kilowatt-hours.
const (
	// WhToKWh converts watt-hours to kilowatt-hours.
	WhToKWh = 0.001

	// KWhToKWh is the identity conversion for kilowatt-hours.
	KWhToKWh = 1.0

	// MWhToKWh converts megawatt-hours to kilowatt-hours.
	MWhToKWh = 1000.0
)

// Display unit selection.
const (
	// DisplayUnitThreshold is the largest-unit magnitude below which a metric
	// is presented in its smaller unit (kWh -> Wh, kg -> g).
	DisplayUnitThreshold = 0.01

	// DisplayUnitScale is the multiplier from the larger to the smaller display unit.
	DisplayUnitScale = 1000.0
)

// ImprovementEpsilon is the smallest baseline for which a percentage change is computed.
const ImprovementEpsilon = 1e-12

// DefaultTopK is the number of greener alternatives returned when no limit is given.
const DefaultTopK = 3

// Default quality gate limits, in percent.
const (
	DefaultMaxLatencyRegressPct = 5.0
	DefaultMaxSCIRegressPct     = 5.0
)

// Default configuration labels matched against run group names.
const (
	DefaultBaselineLabel  = "baseline"
	DefaultOptimizedLabel = "optimized"
)

const percentMultiplier = 100.0

// Display thresholds for equivalency formatting.
const (
	// MinEquivalencyThresholdKg is the minimum kg CO2e for showing equivalencies.
	MinEquivalencyThresholdKg = 0.001

	// LargeNumberThreshold is the threshold for using abbreviated display.
	LargeNumberThreshold = 1_000_000

	// BillionThreshold is the threshold for billion-scale display.
	BillionThreshold = 1_000_000_000
)
