package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonwise/internal/config"
)

func TestReport_WritesFile(t *testing.T) {
	setupCLITest(t)
	runLog := writeFixture(t, "run_log.jsonl", pairRunLog)
	regions := writeFixture(t, "region_factors.json", regionTable)
	outPath := filepath.Join(t.TempDir(), "report.md")

	out, _, err := executeCLI(t, "report", runLog,
		"--out", outPath, "--regions", regions, "--current", "us-east-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	report := string(data)

	assert.Contains(t, report, "# CarbonWise Report")
	assert.Contains(t, report, "## Summary")
	assert.Contains(t, report, "| Latency (ms) | 980.0 | 710.0 | 27.6% |")
	assert.Contains(t, report, "## Run groups")
	assert.Contains(t, report, "## Region advice")
	assert.Contains(t, report,
		"- eu-north-1 (eu-north-1): 13 gCO2/kWh → ~96.6% less CO₂e (≈ 0.213 kg saved for 0.58 kWh)")
	assert.Contains(t, report, "- Ireland (eu-west-1): 50 gCO2/kWh → ~86.8% less CO₂e")
	assert.Contains(t, report, "## Notes")
}

func TestReport_DefaultsToProjectReportsDir(t *testing.T) {
	setupCLITest(t)
	projectRoot := t.TempDir()
	t.Setenv(config.EnvProjectDir, projectRoot)
	runLog := writeFixture(t, "run_log.jsonl", pairRunLog)

	out, _, err := executeCLI(t, "report", runLog)
	require.NoError(t, err)

	want := filepath.Join(projectRoot, ".carbonwise", config.ReportsDirName, config.DefaultReportName)
	assert.Contains(t, out, "Wrote "+want)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# CarbonWise Report")
}

func TestReport_Stdout(t *testing.T) {
	setupCLITest(t)
	runLog := writeFixture(t, "run_log.jsonl", baselineOnlyRunLog)

	out, _, err := executeCLI(t, "report", runLog, "--out", "-")
	require.NoError(t, err)

	assert.Contains(t, out, "# CarbonWise Report")
	assert.Contains(t, out, `No run group matches both "baseline" and "optimized"; improvements are not applicable.`)
	assert.NotContains(t, out, "## Region advice")
	assert.NotContains(t, out, "Wrote")
}

func TestReport_EnergyOverride(t *testing.T) {
	setupCLITest(t)
	runLog := writeFixture(t, "run_log.jsonl", pairRunLog)
	regions := writeFixture(t, "region_factors.json", regionTable)

	out, _, err := executeCLI(t, "report", runLog, "--out", "-",
		"--regions", regions, "--current", "us-east-1", "--top", "1", "--energy-kwh", "0.92")
	require.NoError(t, err)

	assert.Contains(t, out, "(≈ 0.338 kg saved for 0.92 kWh)")
	assert.NotContains(t, out, "eu-west-1")
}

func TestReport_UnknownCurrentRegion(t *testing.T) {
	setupCLITest(t)
	runLog := writeFixture(t, "run_log.jsonl", pairRunLog)
	regions := writeFixture(t, "region_factors.json", regionTable)

	out, _, err := executeCLI(t, "report", runLog, "--out", "-", "--regions", regions, "--current", "mars-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Current region mars-1 not in table.")
}

func TestReport_RegionsWithoutCurrent(t *testing.T) {
	setupCLITest(t)
	runLog := writeFixture(t, "run_log.jsonl", pairRunLog)
	regions := writeFixture(t, "region_factors.json", regionTable)

	_, _, err := executeCLI(t, "report", runLog, "--out", "-", "--regions", regions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--current is required")
}
