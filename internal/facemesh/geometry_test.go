package facemesh

import (
	"errors"
	"math"
	"testing"
)

func newTestSet(t *testing.T, override func(points []Landmark)) *LandmarkSet {
	t.Helper()
	points := make([]Landmark, LandmarkCount)
	for i := range points {
		points[i] = Landmark{X: 0.5, Y: 0.5}
	}
	if override != nil {
		override(points)
	}
	set, err := NewLandmarkSet(points, 640, 480)
	if err != nil {
		t.Fatalf("failed to build landmark set: %v", err)
	}
	return set
}

func TestNewLandmarkSetRejectsWrongCount(t *testing.T) {
	points := make([]Landmark, LandmarkCount-1)
	if _, err := NewLandmarkSet(points, 640, 480); !errors.Is(err, ErrInvalidLandmarkCount) {
		t.Fatalf("expected ErrInvalidLandmarkCount, got %v", err)
	}
}

func TestDistanceIgnoresDepth(t *testing.T) {
	set := newTestSet(t, func(points []Landmark) {
		points[10] = Landmark{X: 0.1, Y: 0.2, Z: 0.9}
		points[20] = Landmark{X: 0.4, Y: 0.6, Z: -0.9}
	})

	got, err := Distance(set, 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 0.5 // 3-4-5 triangle in the plane
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected distance %v, got %v", want, got)
	}

	got3d, err := Distance3D(set, 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got3d <= got {
		t.Fatalf("expected 3D distance to exceed planar distance, got %v <= %v", got3d, got)
	}
}

func TestDistanceRejectsInvalidIndex(t *testing.T) {
	set := newTestSet(t, nil)
	if _, err := Distance(set, 0, LandmarkCount); !errors.Is(err, ErrInvalidLandmarkIndex) {
		t.Fatalf("expected ErrInvalidLandmarkIndex, got %v", err)
	}
	if _, err := Distance(set, -1, 0); !errors.Is(err, ErrInvalidLandmarkIndex) {
		t.Fatalf("expected ErrInvalidLandmarkIndex, got %v", err)
	}
}

func TestSignedAnglePositiveWhenTargetIsHigher(t *testing.T) {
	set := newTestSet(t, func(points []Landmark) {
		points[0] = Landmark{X: 0.3, Y: 0.5}
		points[1] = Landmark{X: 0.4, Y: 0.45} // above in image coordinates
		points[2] = Landmark{X: 0.4, Y: 0.55} // below
	})

	up, err := SignedAngle(set, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up <= 0 {
		t.Fatalf("expected positive angle for upward vector, got %v", up)
	}

	down, err := SignedAngle(set, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if down >= 0 {
		t.Fatalf("expected negative angle for downward vector, got %v", down)
	}
}

func TestElevationAngleIsMirrorInvariant(t *testing.T) {
	// The same 0.05 rise over a 0.1 run, pointing right and pointing left.
	set := newTestSet(t, func(points []Landmark) {
		points[0] = Landmark{X: 0.5, Y: 0.5}
		points[1] = Landmark{X: 0.6, Y: 0.45}
		points[2] = Landmark{X: 0.4, Y: 0.45}
	})

	right, err := ElevationAngle(set, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	left, err := ElevationAngle(set, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(right-left) > 1e-12 {
		t.Fatalf("expected mirror-invariant elevation, got %v and %v", right, left)
	}
	if right <= 0 {
		t.Fatalf("expected positive elevation for raised target, got %v", right)
	}
}

func TestRatioRejectsDegenerateDenominator(t *testing.T) {
	if _, err := Ratio(1.0, 0); !errors.Is(err, ErrDegenerateMeasurement) {
		t.Fatalf("expected ErrDegenerateMeasurement, got %v", err)
	}
	if _, err := Ratio(1.0, Epsilon/2); !errors.Is(err, ErrDegenerateMeasurement) {
		t.Fatalf("expected ErrDegenerateMeasurement, got %v", err)
	}

	got, err := Ratio(1.0, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2.0 {
		t.Fatalf("expected 2.0, got %v", got)
	}
}
