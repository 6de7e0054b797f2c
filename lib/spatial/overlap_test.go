// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

package spatial_test

import (
	"testing"

	"github.com/koordinates/kart-native/lib/spatial"
)

func TestRangeOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		a1, a2, b1, b2 float64
		want           bool
	}{
		{"disjoint", 0, 1, 2, 3, false},
		{"contained", 0, 10, 2, 3, true},
		{"partial", 0, 5, 3, 8, true},
		{"touching edges don't count", 0, 1, 1, 2, false},
		{"same left edge", 4, 6, 4, 9, true},
		{"same left edge, one zero-width", 4, 4, 4, 9, false},
		{"both zero-width same point", 4, 4, 4, 4, false},
		{"zero-width inside", 2, 2, 0, 5, true},
		{"zero-width at right edge", 5, 5, 0, 5, false},
		{"negative ranges", -10, -5, -7, -1, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := spatial.RangeOverlaps(c.a1, c.a2, c.b1, c.b2); got != c.want {
				t.Errorf("RangeOverlaps(%g, %g, %g, %g) = %v, want %v", c.a1, c.a2, c.b1, c.b2, got, c.want)
			}
			// Symmetry: swapping the intervals never changes the answer.
			if got := spatial.RangeOverlaps(c.b1, c.b2, c.a1, c.a2); got != c.want {
				t.Errorf("RangeOverlaps(%g, %g, %g, %g) = %v, want %v (symmetry)", c.b1, c.b2, c.a1, c.a2, got, c.want)
			}
		})
	}
}

func TestRangeOverlapsPanicsOnInvertedRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("RangeOverlaps(5, 1, 0, 2) did not panic")
		}
	}()
	spatial.RangeOverlaps(5, 1, 0, 2)
}

func TestCyclicRangeOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		a1, a2, b1, b2 float64
		want           bool
	}{
		{"both crossing antimeridian", 170, -170, 175, -175, true},
		{"disjoint either side", -170, -160, 160, 170, false},
		{"crossing meets plain", -170, -160, 160, 210, true},
		{"plain overlap", 10, 20, 15, 25, true},
		{"plain disjoint", 10, 20, 30, 40, false},
		{"crossing vs far interval", 170, -170, 0, 10, false},
		{"crossing contains interval", 150, -150, 160, 170, true},
		{"crossing contains negative interval", 150, -150, -170, -160, true},
		{"whole world vs anything", -180, 180, 5, 6, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := spatial.CyclicRangeOverlaps(c.a1, c.a2, c.b1, c.b2); got != c.want {
				t.Errorf("CyclicRangeOverlaps(%g, %g, %g, %g) = %v, want %v", c.a1, c.a2, c.b1, c.b2, got, c.want)
			}
			if got := spatial.CyclicRangeOverlaps(c.b1, c.b2, c.a1, c.a2); got != c.want {
				t.Errorf("CyclicRangeOverlaps(%g, %g, %g, %g) = %v, want %v (symmetry)", c.b1, c.b2, c.a1, c.a2, got, c.want)
			}
		})
	}
}
