package metatex

import (
	"sort"
)

// ColorStop represents a color at a specific position in a ramp.
type ColorStop struct {
	Offset float64 // Position in the ramp, 0.0 to 1.0
	Color  RGBA    // Color at this position
}

// ColorRamp is a sequence of color stops evaluated by normalized position.
//
// Stops may be given in any order; evaluation sorts a private copy and never
// modifies the ramp.
type ColorRamp struct {
	Stops []ColorStop
}

// NewColorRamp creates a ramp from the given stops.
func NewColorRamp(stops ...ColorStop) ColorRamp {
	return ColorRamp{Stops: stops}
}

// TwoColorRamp returns a ramp that blends from a at 0 to b at 1.
func TwoColorRamp(a, b RGBA) ColorRamp {
	return NewColorRamp(ColorStop{Offset: 0, Color: a}, ColorStop{Offset: 1, Color: b})
}

// Evaluate returns the interpolated color at position t.
//
// t is clamped to [0, 1]. Positions before the first stop or after the last
// stop take the nearest stop color. A ramp with no stops evaluates to
// Transparent.
func (r ColorRamp) Evaluate(t float64) RGBA {
	switch len(r.Stops) {
	case 0:
		return Transparent
	case 1:
		return r.Stops[0].Color
	}
	return colorAtOffset(sortStops(r.Stops), clamp01(t))
}

// sorted returns a ramp whose stops are ordered by offset. Fill loops call
// it once so that per-pixel evaluation does not re-sort.
func (r ColorRamp) sorted() ColorRamp {
	if len(r.Stops) < 2 {
		return r
	}
	return ColorRamp{Stops: sortStops(r.Stops)}
}

// evaluateSorted is Evaluate for a ramp already passed through sorted.
func (r ColorRamp) evaluateSorted(t float64) RGBA {
	switch len(r.Stops) {
	case 0:
		return Transparent
	case 1:
		return r.Stops[0].Color
	}
	return colorAtOffset(r.Stops, clamp01(t))
}

// sortStops returns a copy of stops sorted by offset. Stops with equal
// offsets keep their relative order.
func sortStops(stops []ColorStop) []ColorStop {
	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	return sorted
}

// colorAtOffset interpolates between the two stops bracketing t.
// sorted must hold at least two stops ordered by offset.
func colorAtOffset(sorted []ColorStop, t float64) RGBA {
	idx := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].Offset >= t
	})

	if idx == 0 {
		return sorted[0].Color
	}
	if idx >= len(sorted) {
		return sorted[len(sorted)-1].Color
	}

	stop1 := sorted[idx-1]
	stop2 := sorted[idx]

	// Exact hit or coincident stops
	if t == stop2.Offset || stop2.Offset == stop1.Offset {
		return stop2.Color
	}

	localT := (t - stop1.Offset) / (stop2.Offset - stop1.Offset)
	return stop1.Color.Lerp(stop2.Color, localT)
}
