package greenops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectEnergyUnit(t *testing.T) {
	assert.Equal(t, UnitKWh, SelectEnergyUnit(0.92))
	assert.Equal(t, UnitKWh, SelectEnergyUnit(0.01))
	assert.Equal(t, UnitWh, SelectEnergyUnit(0.0099))
	assert.Equal(t, UnitWh, SelectEnergyUnit(0))
}

func TestSelectCO2Unit(t *testing.T) {
	assert.Equal(t, UnitKg, SelectCO2Unit(0.42))
	assert.Equal(t, UnitG, SelectCO2Unit(0.004))
}

func TestDisplayFor_SharedAcrossGroups(t *testing.T) {
	groups := []AggregateGroup{
		{Name: "small", MeanEnergyKWh: 0.002, MeanCO2Kg: 0.001, SampleCount: 1},
		{Name: "large", MeanEnergyKWh: 0.5, MeanCO2Kg: 0.003, SampleCount: 1},
	}

	// One group is large enough for kWh, so both are shown in kWh.
	energy := EnergyDisplayFor(groups)
	assert.Equal(t, UnitKWh, energy)
	assert.InDelta(t, 0.002, energy.Apply(groups[0].MeanEnergyKWh), 1e-12)

	// Neither CO2 mean reaches 0.01 kg, so both are shown in grams.
	co2 := CO2DisplayFor(groups)
	assert.Equal(t, UnitG, co2)
	assert.InDelta(t, 3.0, co2.Apply(groups[1].MeanCO2Kg), 1e-12)

	// Selecting a unit never alters the aggregate.
	assert.InDelta(t, 0.003, groups[1].MeanCO2Kg, 0)
}

func TestDisplayFor_Empty(t *testing.T) {
	assert.Equal(t, UnitWh, EnergyDisplayFor(nil))
	assert.InDelta(t, 0, MaxValue(nil, MetricEnergy), 0)
}

func TestMetricString(t *testing.T) {
	assert.Equal(t, "energy", MetricEnergy.String())
	assert.Equal(t, "Metric(42)", Metric(42).String())
	assert.Len(t, AllMetrics(), 5)
}
