package render

import (
	"math"
	"testing"
)

func TestPacingScaleFactor(t *testing.T) {
	cases := []struct {
		total float64
		want  float64
	}{
		{50.0, 1.0},  // exactly on target
		{100.0, 0.9}, // would be 0.5, clamped up
		{25.0, 1.1},  // would be 2.0, clamped down
		{52.0, 50.0 / 52.0},
		{0, 1.1}, // degenerate input clamps to the upper bound
	}

	for _, tc := range cases {
		got := pacingScaleFactor(tc.total)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("pacingScaleFactor(%v) = %v, want %v", tc.total, got, tc.want)
		}
	}
}
