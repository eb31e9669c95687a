// Package facemesh models the 478-point face-mesh topology produced by the
// external landmark detector and provides the geometric primitives the
// feature classifiers are built on. Landmark indices follow the MediaPipe
// Face Mesh convention: a given index always refers to the same anatomical
// point, and every measurement in this repository depends on that holding.
package facemesh

import "fmt"

// LandmarkCount is the fixed size of a face-mesh landmark set.
const LandmarkCount = 478

// Landmark is one normalized 3D mesh point. X and Y are in [0,1] relative to
// image width and height; Z is a relative depth value.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LandmarkSet is an immutable, fixed-length sequence of 478 landmarks for a
// single detected face, plus the pixel dimensions of the source image.
type LandmarkSet struct {
	points      [LandmarkCount]Landmark
	imageWidth  int
	imageHeight int
}

// NewLandmarkSet validates the point count and copies the points into a set.
// A count other than 478 returns ErrInvalidLandmarkCount; classification must
// not proceed on such input.
func NewLandmarkSet(points []Landmark, imageWidth, imageHeight int) (*LandmarkSet, error) {
	if len(points) != LandmarkCount {
		return nil, fmt.Errorf("%w: got %d points, want %d", ErrInvalidLandmarkCount, len(points), LandmarkCount)
	}
	set := &LandmarkSet{imageWidth: imageWidth, imageHeight: imageHeight}
	copy(set.points[:], points)
	return set, nil
}

// Point returns the landmark at index i.
func (s *LandmarkSet) Point(i int) (Landmark, error) {
	if i < 0 || i >= LandmarkCount {
		return Landmark{}, fmt.Errorf("%w: index %d", ErrInvalidLandmarkIndex, i)
	}
	return s.points[i], nil
}

// ImageWidth returns the declared source image width in pixels.
func (s *LandmarkSet) ImageWidth() int { return s.imageWidth }

// ImageHeight returns the declared source image height in pixels.
func (s *LandmarkSet) ImageHeight() int { return s.imageHeight }
