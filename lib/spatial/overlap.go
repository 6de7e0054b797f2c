// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

package spatial

import "fmt"

// RangeOverlaps reports whether the ordered intervals [a1, a2] and
// [b1, b2] intersect. Touching at a single edge does not count: the
// interval that starts to the left must end strictly to the right of
// where the other starts. When both intervals share a left edge they
// intersect unless one of them is zero-width.
//
// Panics if either interval is inverted; callers normalise first
// (see CyclicRangeOverlaps for longitudes).
func RangeOverlaps(a1, a2, b1, b2 float64) bool {
	if a1 > a2 || b1 > b2 {
		panic(fmt.Sprintf("ranges don't make sense: %g %g %g %g", a1, a2, b1, b2))
	}
	if b1 < a1 {
		return b2 > a1
	}
	if a1 < b1 {
		return a2 > b1
	}
	return b2 != b1 && a2 != a1
}

// CyclicRangeOverlaps reports whether two longitude intervals
// intersect on the 360-degree cycle. An interval with left > right
// crosses the antimeridian and is normalised by adding 360 to its
// right edge, e.g. [170, -170] becomes [170, 190]. If the normalised
// intervals do not overlap directly, the one with the smaller left
// edge is shifted up a cycle and retested: [-170, -160] vs [160, 210]
// only overlaps as [190, 200] vs [160, 210].
func CyclicRangeOverlaps(a1, a2, b1, b2 float64) bool {
	if a1 > a2 {
		a2 += 360
	}
	if b1 > b2 {
		b2 += 360
	}
	if RangeOverlaps(a1, a2, b1, b2) {
		return true
	}
	if a1 < b1 {
		a1 += 360
		a2 += 360
	} else {
		b1 += 360
		b2 += 360
	}
	return RangeOverlaps(a1, a2, b1, b2)
}
