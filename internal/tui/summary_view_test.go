package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/carbonwise/internal/greenops"
)

func demoGroups() []greenops.AggregateGroup {
	return []greenops.AggregateGroup{
		{Name: "baseline", MeanEnergyKWh: 0.92, MeanCO2Kg: 0.42, MeanLatencyMs: 980, MeanSCI: 920, MeanCostEUR: 0.23, SampleCount: 1},
		{Name: "optimized", MeanEnergyKWh: 0.58, MeanCO2Kg: 0.27, MeanLatencyMs: 710, MeanSCI: 580, MeanCostEUR: 0.145, SampleCount: 1},
	}
}

func TestRenderCompareSummary(t *testing.T) {
	groups := demoGroups()
	cmp, ok := greenops.Compare(t.Context(), groups, "baseline", "optimized")
	assert.True(t, ok)

	out := RenderCompareSummary(groups, &cmp, 3, 100)

	assert.Contains(t, out, "Run groups (2)")
	assert.Contains(t, out, "Energy (kWh)")
	assert.Contains(t, out, "0.920")
	assert.Contains(t, out, "optimized vs baseline")
	assert.Contains(t, out, "37.0%")
	assert.Contains(t, out, "miles")
}

func TestRenderCompareSummary_NotApplicable(t *testing.T) {
	groups := demoGroups()[:1]
	out := RenderCompareSummary(groups, nil, 3, 0)

	assert.Contains(t, out, "not applicable")
	assert.NotContains(t, out, "vs")
}

func TestRenderCompareSummary_SmallUnits(t *testing.T) {
	groups := []greenops.AggregateGroup{{Name: "tiny", MeanEnergyKWh: 0.004, MeanCO2Kg: 0.002, SampleCount: 2}}
	out := RenderCompareSummary(groups, nil, 1, 100)

	assert.Contains(t, out, "Energy (Wh)")
	assert.Contains(t, out, "CO2e (g)")
	assert.Contains(t, out, "4.0")
}

func TestRenderAlternatives(t *testing.T) {
	regions := testRegions()
	current, _ := greenops.LookupRegion(regions, "us-east-1")
	alts := greenops.TopGreenerAlternatives(regions, "us-east-1", 3)

	out := RenderAlternatives(current, alts, 0.92)
	assert.Contains(t, out, "1. Stockholm (eu-north-1)")
	assert.Contains(t, out, "96.6%")
	assert.Contains(t, out, "0.338 kg saved for 0.92 kWh")

	none := RenderAlternatives(regions[0], nil, 0)
	assert.Contains(t, none, "No greener region")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc…", truncate("abcdef", 4))
	assert.Equal(t, "a", truncate("abc", 1))
}
