// Package landmarker wraps the external face-mesh detection service. The
// detector is a black box: given an image it returns either exactly one set
// of 478 landmarks or a face count this service surfaces to the caller.
package landmarker

import (
	"context"

	"github.com/example/face-insight/internal/facemesh"
)

// Detection is the outcome returned by the landmark detection service.
type Detection struct {
	FaceDetected bool
	NumFaces     int
	Landmarks    []facemesh.Landmark
	ImageWidth   int
	ImageHeight  int
}

// Client exposes the subset of detector functionality used by the analysis
// flow.
type Client interface {
	Detect(ctx context.Context, imageBytes []byte) (*Detection, error)
}
