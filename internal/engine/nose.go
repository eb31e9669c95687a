package engine

import (
	"math"

	"github.com/example/face-insight/internal/facemesh"
)

// NoseClassifier grades nose width relative to face width. Face width is
// taken between the cheek boundary landmarks, not nose landmarks, so the
// ratio is invariant to head size and camera distance.
type NoseClassifier struct {
	t NoseThresholds
}

// NewNoseClassifier builds a classifier over validated thresholds.
func NewNoseClassifier(t NoseThresholds) *NoseClassifier {
	return &NoseClassifier{t: t}
}

// Classify produces a three-way width label with confidence decaying
// linearly toward 0.5 at the breakpoints. Nostril and bridge widths are
// measured for explainability only; the decision uses the face ratio alone.
func (c *NoseClassifier) Classify(set *facemesh.LandmarkSet) (*ClassificationResult, error) {
	noseWidth, err := facemesh.Distance(set, facemesh.LeftNoseAla, facemesh.RightNoseAla)
	if err != nil {
		return nil, err
	}
	faceWidth, err := facemesh.Distance(set, facemesh.LeftCheekBoundary, facemesh.RightCheekBoundary)
	if err != nil {
		return nil, err
	}
	ratio, err := facemesh.Ratio(noseWidth, faceWidth)
	if err != nil {
		return nil, err
	}

	nostrilWidth, err := facemesh.Distance(set, facemesh.LeftNostrilOuter, facemesh.RightNostrilOuter)
	if err != nil {
		return nil, err
	}
	bridgeWidth, err := facemesh.Distance(set, facemesh.LeftNostrilInner, facemesh.RightNostrilInner)
	if err != nil {
		return nil, err
	}

	inf := math.Inf(1)
	scores := map[string]float64{
		NoseNarrow: bandScore(ratio, -inf, c.t.NarrowMax, c.t.DecayWidth, 1),
		NoseMedium: bandScore(ratio, c.t.NarrowMax, c.t.WideMin, c.t.DecayWidth, 1),
		NoseWide:   bandScore(ratio, c.t.WideMin, inf, c.t.DecayWidth, 1),
	}

	var label string
	switch {
	case ratio < c.t.NarrowMax:
		label = NoseNarrow
	case ratio < c.t.WideMin:
		label = NoseMedium
	default:
		label = NoseWide
	}

	return &ClassificationResult{
		PrimaryLabel:     label,
		SecondaryLabels:  []string{},
		ConfidenceScores: scores,
		RawMeasurements: map[string]float64{
			"nose_width":         noseWidth,
			"face_width":         faceWidth,
			"nose_to_face_ratio": ratio,
			"nostril_width":      nostrilWidth,
			"bridge_width":       bridgeWidth,
		},
	}, nil
}
