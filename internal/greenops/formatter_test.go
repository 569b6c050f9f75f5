package greenops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{n: 123, want: "123"},
		{n: 1234, want: "1,234"},
		{n: 18248, want: "18,248"},
		{n: 0, want: "0"},
		{n: -1234, want: "-1,234"},
		{n: 1234567890, want: "1,234,567,890"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.n))
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name      string
		f         float64
		precision int
		want      string
	}{
		{name: "two decimals with separator", f: 1234.567, precision: 2, want: "1,234.57"},
		{name: "no decimals", f: 18248.4, precision: 0, want: "18,248"},
		{name: "small value", f: 0.92, precision: 3, want: "0.920"},
		{name: "negative", f: -1234.5, precision: 1, want: "-1,234.5"},
		{name: "negative below one", f: -0.25, precision: 2, want: "-0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.f, tt.precision))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "37.0%", FormatPercent(36.956))
	assert.Equal(t, "-12.5%", FormatPercent(-12.5))
}

func TestFormatLarge(t *testing.T) {
	assert.Equal(t, "999,999", FormatLarge(999_999))
	assert.Equal(t, "~1.5 million", FormatLarge(1_500_000))
	assert.Equal(t, "~2.3 billion", FormatLarge(2_300_000_000))
}
