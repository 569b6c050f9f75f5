package ingest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonwise/internal/ingest"
)

const regionsJSON = `[
  {"region": "eu-north-1", "gco2_per_kwh": 13, "country": "SE", "display_name": "Stockholm"},
  {"region": "us-east-1", "gco2_per_kwh": 380, "country": "US"},
  {"region": "eu-west-1", "gco2_per_kwh": 50, "country": "IE", "display_name": "Ireland"}
]`

const regionsYAML = `- region: eu-north-1
  gco2_per_kwh: 13
  country: SE
  display_name: Stockholm
- region: us-east-1
  gco2_per_kwh: 380
`

func TestLoadRegionFactors_JSON(t *testing.T) {
	path := writeFile(t, "region_factors.json", regionsJSON)

	regions, err := ingest.LoadRegionFactors(context.Background(), path, ingest.FormatAuto, true)
	require.NoError(t, err)
	require.Len(t, regions, 3)

	assert.Equal(t, "eu-north-1", regions[0].Region)
	assert.InDelta(t, 13.0, regions[0].GCO2PerKWh, 0)
	assert.Equal(t, "Stockholm", regions[0].Label())
	assert.Equal(t, "us-east-1", regions[1].Label())
	assert.Equal(t, "IE", regions[2].Country)
}

func TestLoadRegionFactors_YAML(t *testing.T) {
	path := writeFile(t, "regions.yaml", regionsYAML)

	regions, err := ingest.LoadRegionFactors(context.Background(), path, ingest.FormatAuto, false)
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "Stockholm", regions[0].DisplayName)
	assert.InDelta(t, 380.0, regions[1].GCO2PerKWh, 0)
}

func TestParseRegionFactors_Strict(t *testing.T) {
	data := []byte(`[{"region": "x", "gco2_per_kwh": -5}]`)

	_, err := ingest.ParseRegionFactors(context.Background(), data, ingest.FormatJSON, true)
	require.ErrorIs(t, err, ingest.ErrInvalidRecord)
	assert.Contains(t, err.Error(), "gco2_per_kwh")

	regions, err := ingest.ParseRegionFactors(context.Background(), data, ingest.FormatJSON, false)
	require.NoError(t, err)
	assert.Len(t, regions, 1)

	_, err = ingest.ParseRegionFactors(context.Background(), []byte(`[{"gco2_per_kwh": 5}]`), ingest.FormatJSON, true)
	require.ErrorIs(t, err, ingest.ErrInvalidRecord)
}

func TestParseRegionFactors_DuplicatesKept(t *testing.T) {
	data := []byte(`[{"region":"x","gco2_per_kwh":1},{"region":"x","gco2_per_kwh":2}]`)
	regions, err := ingest.ParseRegionFactors(context.Background(), data, ingest.FormatJSON, true)
	require.NoError(t, err)
	assert.Len(t, regions, 2)
}

func TestParseRegionFactors_Errors(t *testing.T) {
	_, err := ingest.ParseRegionFactors(context.Background(), []byte("{"), ingest.FormatJSON, false)
	require.Error(t, err)

	_, err = ingest.ParseRegionFactors(context.Background(), []byte("a,b"), ingest.FormatCSV, false)
	require.ErrorIs(t, err, ingest.ErrUnsupportedFormat)
}
