package facemesh

import "errors"

var (
	// ErrInvalidLandmarkCount reports an input landmark set whose length is
	// not exactly 478. The whole analysis is aborted on this error.
	ErrInvalidLandmarkCount = errors.New("facemesh: invalid landmark count")

	// ErrInvalidLandmarkIndex reports a measurement referencing an index
	// outside [0,477]. This is a configuration bug and must fail loud rather
	// than classify from wrong data.
	ErrInvalidLandmarkIndex = errors.New("facemesh: invalid landmark index")

	// ErrDegenerateMeasurement reports a denominator at or below epsilon.
	// Callers treat the affected feature as unavailable; NaN and Inf must
	// never propagate past the measurement layer.
	ErrDegenerateMeasurement = errors.New("facemesh: degenerate measurement")
)
