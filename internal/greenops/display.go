package greenops

// DisplayUnit is a presentation unit for a canonical metric.
// Canonical values are multiplied by Scale before display; they are never modified.
type DisplayUnit struct {
	Label string  `json:"label"`
	Scale float64 `json:"scale"`
}

// Apply converts a canonical value into this display unit.
func (u DisplayUnit) Apply(canonical float64) float64 {
	return canonical * u.Scale
}

// Display units for the two canonical metrics.
var (
	UnitKWh = DisplayUnit{Label: "kWh", Scale: 1}
	UnitWh  = DisplayUnit{Label: "Wh", Scale: DisplayUnitScale}
	UnitKg  = DisplayUnit{Label: "kg", Scale: 1}
	UnitG   = DisplayUnit{Label: "g", Scale: DisplayUnitScale}
)

func selectUnit(maxCanonical float64, large, small DisplayUnit) DisplayUnit {
	if maxCanonical < DisplayUnitThreshold {
		return small
	}
	return large
}

// SelectEnergyUnit picks Wh when maxKWh is below the display threshold, kWh otherwise.
func SelectEnergyUnit(maxKWh float64) DisplayUnit {
	return selectUnit(maxKWh, UnitKWh, UnitWh)
}

// SelectCO2Unit picks g when maxKg is below the display threshold, kg otherwise.
func SelectCO2Unit(maxKg float64) DisplayUnit {
	return selectUnit(maxKg, UnitKg, UnitG)
}

// MaxValue returns the largest mean of m across groups, or 0 for no groups.
func MaxValue(groups []AggregateGroup, m Metric) float64 {
	maxVal := 0.0
	for i, g := range groups {
		v := g.Value(m)
		if i == 0 || v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// EnergyDisplayFor chooses one energy unit shared by every group in a view.
func EnergyDisplayFor(groups []AggregateGroup) DisplayUnit {
	return SelectEnergyUnit(MaxValue(groups, MetricEnergy))
}

// CO2DisplayFor chooses one emissions unit shared by every group in a view.
func CO2DisplayFor(groups []AggregateGroup) DisplayUnit {
	return SelectCO2Unit(MaxValue(groups, MetricCO2))
}
