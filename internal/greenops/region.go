package greenops

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField selects the region table column to order by.
type SortField int

const (
	SortByCarbonIntensity SortField = iota
	SortByName
)

// String returns the canonical name of the field.
func (f SortField) String() string {
	switch f {
	case SortByCarbonIntensity:
		return "carbon"
	case SortByName:
		return "region"
	default:
		return fmt.Sprintf("SortField(%d)", int(f))
	}
}

// SortOrder is the direction of a region sort.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// String returns "asc" or "desc".
func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// ParseSortField accepts "region"/"name" and "carbon"/"gco2_per_kwh"/"carbon_intensity".
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "region", "name":
		return SortByName, nil
	case "carbon", "gco2_per_kwh", "carbon_intensity", "intensity":
		return SortByCarbonIntensity, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be region or carbon)", ErrInvalidSortField, s)
	}
}

// ParseSortOrder accepts "asc" and "desc", case-insensitively.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be asc or desc)", ErrInvalidSortOrder, s)
	}
}

// ParseSortExpression parses "field" or "field:order". The order defaults to asc.
//
//nolint:nonamedreturns // Named returns document the pair.
func ParseSortExpression(expr string) (field SortField, order SortOrder, err error) {
	if strings.TrimSpace(expr) == "" {
		return 0, 0, fmt.Errorf("%w: empty sort expression", ErrInvalidSortField)
	}

	parts := strings.Split(expr, ":")
	if len(parts) > 2 { //nolint:mnd // field and order
		return 0, 0, fmt.Errorf("%w: too many colons in %q", ErrInvalidSortField, expr)
	}

	if field, err = ParseSortField(parts[0]); err != nil {
		return 0, 0, err
	}
	if len(parts) == 1 {
		return field, Ascending, nil
	}
	if order, err = ParseSortOrder(parts[1]); err != nil {
		return 0, 0, err
	}
	return field, order, nil
}

// SortRegions returns a sorted copy of regions. Names compare with English
// collation rules and intensities numerically. The sort is stable in both
// directions: regions with equal keys keep their input order.
func SortRegions(regions []RegionFactor, field SortField, order SortOrder) []RegionFactor {
	sorted := slices.Clone(regions)

	var compare func(a, b RegionFactor) int
	switch field {
	case SortByName:
		// A Collator is not safe for concurrent use; one per call keeps this pure.
		col := collate.New(language.English)
		compare = func(a, b RegionFactor) int { return col.CompareString(a.Region, b.Region) }
	default:
		compare = func(a, b RegionFactor) int { return cmp.Compare(a.GCO2PerKWh, b.GCO2PerKWh) }
	}

	slices.SortStableFunc(sorted, func(a, b RegionFactor) int {
		if order == Descending {
			return -compare(a, b)
		}
		return compare(a, b)
	})
	return sorted
}

// LookupRegion returns the first entry whose key equals region.
func LookupRegion(regions []RegionFactor, region string) (RegionFactor, bool) {
	for _, r := range regions {
		if r.Region == region {
			return r, true
		}
	}
	return RegionFactor{}, false
}

// TopGreenerAlternatives returns up to k regions with strictly lower carbon
// intensity than currentRegion, greenest first, each with its improvement over
// the current region. Ties keep input order. An unknown currentRegion yields
// an empty result, as does k <= 0.
func TopGreenerAlternatives(regions []RegionFactor, currentRegion string, k int) []GreenerAlternative {
	current, ok := LookupRegion(regions, currentRegion)
	if !ok || k <= 0 {
		return []GreenerAlternative{}
	}

	greener := make([]RegionFactor, 0, len(regions))
	for _, r := range regions {
		if r.GCO2PerKWh < current.GCO2PerKWh {
			greener = append(greener, r)
		}
	}
	slices.SortStableFunc(greener, func(a, b RegionFactor) int {
		return cmp.Compare(a.GCO2PerKWh, b.GCO2PerKWh)
	})
	if len(greener) > k {
		greener = greener[:k]
	}

	out := make([]GreenerAlternative, 0, len(greener))
	for _, r := range greener {
		out = append(out, GreenerAlternative{
			RegionFactor:   r,
			ImprovementPct: (1 - r.GCO2PerKWh/current.GCO2PerKWh) * percentMultiplier,
			reference:      current.GCO2PerKWh,
		})
	}
	return out
}
