package greenops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats numbers with English thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators: 18248 -> "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats f with the given number of decimals and thousand
// separators: FormatFloat(1234.567, 2) -> "1,234.57".
func FormatFloat(f float64, precision int) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'f', precision, 64)
	}

	s := strconv.FormatFloat(f, 'f', precision, 64)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	negative := strings.HasPrefix(intPart, "-")

	n, err := strconv.ParseInt(strings.TrimPrefix(intPart, "-"), 10, 64)
	if err != nil {
		return s
	}

	grouped := FormatNumber(n)
	if negative {
		grouped = "-" + grouped
	}
	if hasFrac {
		return grouped + "." + frac
	}
	return grouped
}

// FormatPercent formats a percentage with one decimal: 36.956 -> "37.0%".
func FormatPercent(p float64) string {
	return FormatFloat(p, 1) + "%"
}

// FormatLarge abbreviates values of a million or more ("~1.5 billion") and
// formats smaller values as comma-separated integers.
func FormatLarge(n float64) string {
	switch {
	case n >= BillionThreshold:
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	case n >= LargeNumberThreshold:
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	default:
		return FormatNumber(int64(math.Round(n)))
	}
}
