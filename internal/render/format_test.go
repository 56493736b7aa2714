package render

import (
	"math"
	"strings"
	"testing"
)

func TestFormatFixed(t *testing.T) {
	tests := []struct {
		name   string
		x      float64
		digits int
		want   string
	}{
		{"integer one place", 500, 1, "500.0"},
		{"integer zero places", 981234, 0, "981234"},
		{"exact tie rounds up", 340.25, 1, "340.3"},
		{"below tie", 2.3, 1, "2.3"},
		{"binary below tie", 1.005, 2, "1.00"},
		{"half to zero places", 2.5, 0, "3"},
		{"fractional transactions", 12.49, 0, "12"},
		{"small value", 0.04, 1, "0.0"},
		{"leading zero padding", 0.05, 2, "0.05"},
		{"zero", 0, 1, "0.0"},
		{"negative", -1.25, 1, "-1.3"},
		{"negative rounds to zero", -0.04, 1, "-0.0"},
		{"large", 123456789.87, 1, "123456789.9"},
		{"huge", 1e21, 1, "1e+21"},
		{"nan", math.NaN(), 1, "NaN"},
		{"inf", math.Inf(1), 1, "Infinity"},
		{"negative inf", math.Inf(-1), 0, "-Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatFixed(tt.x, tt.digits); got != tt.want {
				t.Errorf("FormatFixed(%v, %d) = %q, want %q", tt.x, tt.digits, got, tt.want)
			}
		})
	}
}

func TestFormatFixedDecimalCount(t *testing.T) {
	values := []float64{0, 1, 2.3, 99.95, 1024, 340.25, 7.777777, 1e9 + 0.5}

	for _, v := range values {
		one := FormatFixed(v, 1)
		dot := strings.IndexByte(one, '.')
		if dot < 0 || len(one)-dot-1 != 1 {
			t.Errorf("FormatFixed(%v, 1) = %q, want exactly one decimal digit", v, one)
		}

		zero := FormatFixed(v, 0)
		if strings.Contains(zero, ".") {
			t.Errorf("FormatFixed(%v, 0) = %q, want no decimal point", v, zero)
		}
	}
}
