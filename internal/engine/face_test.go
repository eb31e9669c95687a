package engine

import (
	"math"
	"testing"

	"github.com/example/face-insight/internal/facemesh"
)

// faceSpec parametrizes the synthetic frontal face the engine tests measure.
// Coordinates are normalized image coordinates with y growing downward.
type faceSpec struct {
	eyeAspect   float64
	eyeCoverage float64
	eyeAngle    float64 // degrees, positive = outer corner higher

	noseToFaceRatio float64

	upperLipThickness float64
	lowerLipThickness float64
	mouthWidth        float64
}

func defaultFaceSpec() faceSpec {
	return faceSpec{
		eyeAspect:         0.42,
		eyeCoverage:       0.38,
		eyeAngle:          0,
		noseToFaceRatio:   0.30,
		upperLipThickness: 0.02,
		lowerLipThickness: 0.02,
		mouthWidth:        0.20,
	}
}

const testFaceWidth = 0.6

// buildFace lays out a plausible neutral frontal face with the requested
// proportions.
func buildFace(t *testing.T, spec faceSpec) *facemesh.LandmarkSet {
	t.Helper()

	set, err := facemesh.NewLandmarkSet(facePoints(spec), 640, 480)
	if err != nil {
		t.Fatalf("failed to build landmark set: %v", err)
	}
	return set
}

// facePoints returns the raw landmark slice for a synthetic face, for tests
// that need to perturb individual points before building the set.
func facePoints(spec faceSpec) []facemesh.Landmark {
	points := make([]facemesh.Landmark, facemesh.LandmarkCount)
	for i := range points {
		points[i] = facemesh.Landmark{X: 0.5, Y: 0.5}
	}

	// Face frame.
	points[facemesh.LeftCheekBoundary] = facemesh.Landmark{X: 0.2, Y: 0.5}
	points[facemesh.RightCheekBoundary] = facemesh.Landmark{X: 0.8, Y: 0.5}
	points[facemesh.ForeheadCenter] = facemesh.Landmark{X: 0.5, Y: 0.2}
	points[facemesh.ChinCenter] = facemesh.Landmark{X: 0.5, Y: 0.85}

	// Nose. Ala spacing realizes the requested nose-to-face ratio against
	// the fixed 0.6 face width.
	halfNose := spec.noseToFaceRatio * testFaceWidth / 2
	points[facemesh.NoseTip] = facemesh.Landmark{X: 0.5, Y: 0.52}
	points[facemesh.LeftNoseAla] = facemesh.Landmark{X: 0.5 - halfNose, Y: 0.55}
	points[facemesh.RightNoseAla] = facemesh.Landmark{X: 0.5 + halfNose, Y: 0.55}
	points[facemesh.LeftNostrilOuter] = facemesh.Landmark{X: 0.45, Y: 0.56}
	points[facemesh.RightNostrilOuter] = facemesh.Landmark{X: 0.55, Y: 0.56}
	points[facemesh.LeftNostrilInner] = facemesh.Landmark{X: 0.47, Y: 0.54}
	points[facemesh.RightNostrilInner] = facemesh.Landmark{X: 0.53, Y: 0.54}
	points[facemesh.NoseBridgeTop] = facemesh.Landmark{X: 0.5, Y: 0.42}

	// Mouth, centered at x=0.5 with lip landmarks stacked vertically.
	halfMouth := spec.mouthWidth / 2
	points[facemesh.MouthCornerLeft] = facemesh.Landmark{X: 0.5 - halfMouth, Y: 0.70}
	points[facemesh.MouthCornerRight] = facemesh.Landmark{X: 0.5 + halfMouth, Y: 0.70}
	points[facemesh.UpperLipInnerEdge] = facemesh.Landmark{X: 0.5, Y: 0.685}
	points[facemesh.UpperLipOuterTop] = facemesh.Landmark{X: 0.5, Y: 0.685 - spec.upperLipThickness}
	points[facemesh.LowerLipInnerEdge] = facemesh.Landmark{X: 0.5, Y: 0.695}
	points[facemesh.LowerLipOuterBottom] = facemesh.Landmark{X: 0.5, Y: 0.695 + spec.lowerLipThickness}

	// Brows sit well clear of the raised-brow limit.
	points[facemesh.RightBrowCenter] = facemesh.Landmark{X: 0.35, Y: 0.40}
	points[facemesh.LeftBrowCenter] = facemesh.Landmark{X: 0.65, Y: 0.40}

	setEyeGeometry(points, rightEyeRefs, 0.40, 0.30, 0.45, spec)
	setEyeGeometry(points, leftEyeRefs, 0.60, 0.70, 0.45, spec)

	return points
}

// setEyeGeometry places one eye so its measured aspect ratio, eyelid
// coverage, and corner angle equal the requested values exactly.
func setEyeGeometry(points []facemesh.Landmark, refs eyeRefs, innerX, outerX, innerY float64, spec faceSpec) {
	run := math.Abs(outerX - innerX)
	outerY := innerY - math.Tan(spec.eyeAngle*math.Pi/180)*run
	width := math.Hypot(outerX-innerX, outerY-innerY)
	height := spec.eyeAspect * width

	midX := (innerX + outerX) / 2
	midY := (innerY + outerY) / 2
	topY := midY - height/2

	points[refs.inner] = facemesh.Landmark{X: innerX, Y: innerY}
	points[refs.outer] = facemesh.Landmark{X: outerX, Y: outerY}
	points[refs.top] = facemesh.Landmark{X: midX, Y: topY}
	points[refs.bottom] = facemesh.Landmark{X: midX, Y: midY + height/2}
	points[refs.crease] = facemesh.Landmark{X: midX, Y: topY - spec.eyeCoverage*height}
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
