package facemesh

import (
	"fmt"
	"math"
)

// Epsilon is the smallest denominator a ratio may be formed from. Anything
// at or below it is reported as ErrDegenerateMeasurement.
const Epsilon = 1e-9

// Distance returns the Euclidean distance between landmarks i and j in the
// 2D image plane. Depth is ignored; width/height ratios are planar.
func Distance(set *LandmarkSet, i, j int) (float64, error) {
	a, err := set.Point(i)
	if err != nil {
		return 0, err
	}
	b, err := set.Point(j)
	if err != nil {
		return 0, err
	}
	return math.Hypot(b.X-a.X, b.Y-a.Y), nil
}

// Distance3D returns the Euclidean distance between landmarks i and j
// including the relative depth component.
func Distance3D(set *LandmarkSet, i, j int) (float64, error) {
	a, err := set.Point(i)
	if err != nil {
		return 0, err
	}
	b, err := set.Point(j)
	if err != nil {
		return 0, err
	}
	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz), nil
}

// SignedAngle returns the angle in degrees between the vector from landmark
// i to landmark j and the horizontal axis. Image y grows downward, so dy is
// negated: positive means j sits above i (upturned), negative below.
func SignedAngle(set *LandmarkSet, i, j int) (float64, error) {
	a, err := set.Point(i)
	if err != nil {
		return 0, err
	}
	b, err := set.Point(j)
	if err != nil {
		return 0, err
	}
	return math.Atan2(-(b.Y - a.Y), b.X-a.X) * 180 / math.Pi, nil
}

// ElevationAngle is SignedAngle with the horizontal component mirrored to
// its magnitude, so that the result is comparable between the two eyes: for
// either eye, inner-to-outer corner yields positive when the outer corner is
// higher regardless of which side of the face the eye is on.
func ElevationAngle(set *LandmarkSet, i, j int) (float64, error) {
	a, err := set.Point(i)
	if err != nil {
		return 0, err
	}
	b, err := set.Point(j)
	if err != nil {
		return 0, err
	}
	return math.Atan2(-(b.Y - a.Y), math.Abs(b.X-a.X)) * 180 / math.Pi, nil
}

// Ratio divides numerator by denominator, guarding against degenerate
// denominators so NaN and Inf never escape the measurement layer.
func Ratio(numerator, denominator float64) (float64, error) {
	if denominator <= Epsilon {
		return 0, fmt.Errorf("%w: denominator %g", ErrDegenerateMeasurement, denominator)
	}
	return numerator / denominator, nil
}
