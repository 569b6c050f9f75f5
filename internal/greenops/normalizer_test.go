package greenops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEnergyKWh(t *testing.T) {
	tests := []struct {
		name   string
		record RunRecord
		want   float64
	}{
		{name: "kwh only", record: RunRecord{EnergyKWh: Float(0.92)}, want: 0.92},
		{name: "wh only", record: RunRecord{EnergyWh: Float(920)}, want: 0.92},
		{name: "kwh wins over wh", record: RunRecord{EnergyKWh: Float(0.5), EnergyWh: Float(920)}, want: 0.5},
		{name: "explicit zero kwh wins", record: RunRecord{EnergyKWh: Float(0), EnergyWh: Float(920)}, want: 0},
		{name: "neither present", record: RunRecord{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeEnergyKWh(tt.record)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestNormalizeCO2Kg(t *testing.T) {
	tests := []struct {
		name   string
		record RunRecord
		want   float64
	}{
		{name: "kg only", record: RunRecord{CO2eKg: Float(0.42)}, want: 0.42},
		{name: "g only", record: RunRecord{CO2eG: Float(420)}, want: 0.42},
		{name: "kg wins over g", record: RunRecord{CO2eKg: Float(0.1), CO2eG: Float(420)}, want: 0.1},
		{name: "neither present", record: RunRecord{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeCO2Kg(tt.record), 1e-12)
		})
	}
}

func TestHasEnergyAndCO2(t *testing.T) {
	assert.False(t, HasEnergy(RunRecord{}))
	assert.True(t, HasEnergy(RunRecord{EnergyWh: Float(0)}))
	assert.False(t, HasCO2(RunRecord{}))
	assert.True(t, HasCO2(RunRecord{CO2eG: Float(1)}))
}

func TestNormalizeToKg(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		unit    string
		wantKg  float64
		wantErr error
	}{
		{name: "grams", value: 1000, unit: "g", wantKg: 1},
		{name: "kilograms", value: 150, unit: "kg", wantKg: 150},
		{name: "metric tons", value: 1, unit: "t", wantKg: 1000},
		{name: "pounds", value: 100, unit: "lb", wantKg: 45.3592},
		{name: "gCO2e suffix", value: 150000, unit: "gCO2e", wantKg: 150},
		{name: "uppercase", value: 100, unit: "KG", wantKg: 100},
		{name: "surrounding spaces", value: 5, unit: " kg ", wantKg: 5},
		{name: "zero", value: 0, unit: "kg", wantKg: 0},
		{name: "invalid unit", value: 1, unit: "stone", wantErr: ErrInvalidUnit},
		{name: "empty unit", value: 1, unit: "", wantErr: ErrInvalidUnit},
		{name: "negative", value: -1, unit: "kg", wantErr: ErrNegativeValue},
		{name: "infinite", value: math.Inf(1), unit: "kg", wantErr: ErrCalculationOverflow},
		{name: "nan", value: math.NaN(), unit: "kg", wantErr: ErrCalculationOverflow},
		{name: "overflow", value: math.MaxFloat64, unit: "t", wantErr: ErrCalculationOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeToKg(tt.value, tt.unit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantKg, got, 1e-9)
		})
	}
}

func TestNormalizeToKWh(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		unit    string
		want    float64
		wantErr error
	}{
		{name: "watt-hours", value: 920, unit: "Wh", want: 0.92},
		{name: "kilowatt-hours", value: 0.92, unit: "kWh", want: 0.92},
		{name: "megawatt-hours", value: 0.002, unit: "MWh", want: 2},
		{name: "lowercase", value: 1000, unit: "wh", want: 1},
		{name: "carbon unit rejected", value: 1, unit: "kg", wantErr: ErrInvalidUnit},
		{name: "negative", value: -3, unit: "kWh", wantErr: ErrNegativeValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeToKWh(tt.value, tt.unit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestIsRecognizedUnit(t *testing.T) {
	assert.True(t, IsRecognizedCarbonUnit("tCO2e"))
	assert.False(t, IsRecognizedCarbonUnit("kWh"))
	assert.True(t, IsRecognizedEnergyUnit("KWH"))
	assert.False(t, IsRecognizedEnergyUnit("g"))
}
