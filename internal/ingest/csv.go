package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rshade/carbonwise/internal/greenops"
)

// CSV columns with a fixed meaning. Any other column lands in Meta, with a
// "meta." prefix stripped.
const (
	colRunID      = "run_id"
	colRunName    = "run_name"
	colTimestamp  = "ts"
	colEnergyKWh  = "energy_kwh"
	colEnergyWh   = "energy_wh"
	colCO2eKg     = "co2e_kg"
	colCO2eG      = "co2e_g"
	colLatencyMs  = "latency_ms"
	colRequests   = "requests"
	colSCI        = "sci_wh_per_req"
	colCostEUR    = "cost_eur"
	colEnergy     = "energy"
	colEnergyUnit = "energy_unit"
	colCO2e       = "co2e"
	colCO2eUnit   = "co2e_unit"

	metaPrefix = "meta."
)

// floatColumns maps fixed numeric columns to their RunRecord field.
var floatColumns = map[string]func(*greenops.RunRecord) **float64{
	colEnergyKWh: func(r *greenops.RunRecord) **float64 { return &r.EnergyKWh },
	colEnergyWh:  func(r *greenops.RunRecord) **float64 { return &r.EnergyWh },
	colCO2eKg:    func(r *greenops.RunRecord) **float64 { return &r.CO2eKg },
	colCO2eG:     func(r *greenops.RunRecord) **float64 { return &r.CO2eG },
	colLatencyMs: func(r *greenops.RunRecord) **float64 { return &r.LatencyMs },
	colSCI:       func(r *greenops.RunRecord) **float64 { return &r.SCIWhPerRequest },
	colCostEUR:   func(r *greenops.RunRecord) **float64 { return &r.CostEUR },
}

// parseCSV reads a header row followed by one record per row. Empty cells
// are absent values. A unit-tagged pair such as energy=950,energy_unit=Wh is
// converted to kWh (and co2e/co2e_unit to kg) when the canonical column is empty.
func parseCSV(ctx context.Context, data []byte) ([]greenops.RunRecord, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []greenops.RunRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}
	if !containsColumn(header, colRunName) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, colRunName)
	}

	var records []greenops.RunRecord
	for row := 2; ; row++ {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		fields, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", row, readErr)
		}

		r, rowErr := csvRecord(header, fields)
		if rowErr != nil {
			return nil, fmt.Errorf("CSV row %d: %w", row, rowErr)
		}
		records = append(records, r)
	}
	if records == nil {
		records = []greenops.RunRecord{}
	}
	return records, nil
}

func containsColumn(header []string, name string) bool {
	for _, h := range header {
		if h == name {
			return true
		}
	}
	return false
}

func csvRecord(header, fields []string) (greenops.RunRecord, error) {
	var (
		r                    greenops.RunRecord
		energy, co2e         *float64
		energyUnit, co2eUnit string
	)

	for i, col := range header {
		if i >= len(fields) {
			break
		}
		cell := strings.TrimSpace(fields[i])
		if cell == "" {
			continue
		}

		if field, ok := floatColumns[col]; ok {
			v, err := parseFloatCell(col, cell)
			if err != nil {
				return r, err
			}
			*field(&r) = v
			continue
		}

		switch col {
		case colRunID:
			r.RunID = cell
		case colRunName:
			r.RunName = cell
		case colTimestamp:
			r.Timestamp = cell
		case colRequests:
			n, err := strconv.Atoi(cell)
			if err != nil {
				return r, fmt.Errorf("column %s: %w", col, err)
			}
			r.Requests = n
		case colEnergy, colCO2e:
			v, err := parseFloatCell(col, cell)
			if err != nil {
				return r, err
			}
			if col == colEnergy {
				energy = v
			} else {
				co2e = v
			}
		case colEnergyUnit:
			energyUnit = cell
		case colCO2eUnit:
			co2eUnit = cell
		default:
			if r.Meta == nil {
				r.Meta = make(map[string]any)
			}
			r.Meta[strings.TrimPrefix(col, metaPrefix)] = cell
		}
	}

	if energy != nil && r.EnergyKWh == nil {
		kwh, err := greenops.NormalizeToKWh(*energy, unitOr(energyUnit, "kWh"))
		if err != nil {
			return r, fmt.Errorf("column %s: %w", colEnergy, err)
		}
		r.EnergyKWh = greenops.Float(kwh)
	}
	if co2e != nil && r.CO2eKg == nil {
		kg, err := greenops.NormalizeToKg(*co2e, unitOr(co2eUnit, "kg"))
		if err != nil {
			return r, fmt.Errorf("column %s: %w", colCO2e, err)
		}
		r.CO2eKg = greenops.Float(kg)
	}
	return r, nil
}

func parseFloatCell(col, cell string) (*float64, error) {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", col, err)
	}
	return &v, nil
}

func unitOr(unit, fallback string) string {
	if unit == "" {
		return fallback
	}
	return unit
}
