package engine

import "math"

// bandScore grades how well a value fits the half-open band [lo, hi).
// Use math.Inf for an unbounded side. Inside the band the score climbs from
// the 0.5 midpoint at a boundary to base once the value is margin away from
// every finite boundary; outside it falls from 0.5 to zero over the same
// margin. A value exactly on a breakpoint therefore scores 0.5*base for both
// adjacent bands.
func bandScore(value, lo, hi, margin, base float64) float64 {
	inside := value >= lo && value < hi

	dist := math.Inf(1)
	if !math.IsInf(lo, -1) {
		dist = math.Min(dist, math.Abs(value-lo))
	}
	if !math.IsInf(hi, 1) {
		dist = math.Min(dist, math.Abs(value-hi))
	}

	if inside {
		return base * (0.5 + 0.5*math.Min(1, dist/margin))
	}
	return base * math.Max(0, 0.5-0.5*dist/margin)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
