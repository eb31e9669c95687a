package engine

import (
	"math"

	"github.com/example/face-insight/internal/facemesh"
)

// LipClassifier grades lip fullness from lip height relative to mouth width
// and assesses upper/lower balance. Thickness is measured strictly between
// lip-region landmarks: the outer vermillion border and the inner lip edge.
// No nose landmark participates in any lip measurement.
type LipClassifier struct {
	t LipThresholds
}

// NewLipClassifier builds a classifier over validated thresholds.
func NewLipClassifier(t LipThresholds) *LipClassifier {
	return &LipClassifier{t: t}
}

// Classify produces the fullness label with breakpoint-decayed confidence
// and a balance descriptor derived from the upper lip's share of total lip
// height. The balance descriptor is returned as the single secondary label.
func (c *LipClassifier) Classify(set *facemesh.LandmarkSet) (*ClassificationResult, error) {
	mouthWidth, err := facemesh.Distance(set, facemesh.MouthCornerLeft, facemesh.MouthCornerRight)
	if err != nil {
		return nil, err
	}
	upperThickness, err := facemesh.Distance(set, facemesh.UpperLipOuterTop, facemesh.UpperLipInnerEdge)
	if err != nil {
		return nil, err
	}
	lowerThickness, err := facemesh.Distance(set, facemesh.LowerLipInnerEdge, facemesh.LowerLipOuterBottom)
	if err != nil {
		return nil, err
	}

	totalHeight := upperThickness + lowerThickness
	heightToWidth, err := facemesh.Ratio(totalHeight, mouthWidth)
	if err != nil {
		return nil, err
	}
	upperRatio, err := facemesh.Ratio(upperThickness, totalHeight)
	if err != nil {
		return nil, err
	}
	lowerRatio := 1 - upperRatio

	inf := math.Inf(1)
	scores := map[string]float64{
		LipThin:   bandScore(heightToWidth, -inf, c.t.ThinMax, c.t.DecayWidth, 1),
		LipMedium: bandScore(heightToWidth, c.t.ThinMax, c.t.MediumMax, c.t.DecayWidth, 1),
		LipFull:   bandScore(heightToWidth, c.t.MediumMax, inf, c.t.DecayWidth, 1),
	}

	var label string
	switch {
	case heightToWidth < c.t.ThinMax:
		label = LipThin
	case heightToWidth < c.t.MediumMax:
		label = LipMedium
	default:
		label = LipFull
	}

	balance := c.assessBalance(upperRatio)

	return &ClassificationResult{
		PrimaryLabel:     label,
		SecondaryLabels:  []string{balance},
		ConfidenceScores: scores,
		RawMeasurements: map[string]float64{
			"mouth_width":               mouthWidth,
			"upper_lip_thickness":       upperThickness,
			"lower_lip_thickness":       lowerThickness,
			"total_lip_height":          totalHeight,
			"lip_height_to_width_ratio": heightToWidth,
			"upper_lip_ratio":           upperRatio,
			"lower_lip_ratio":           lowerRatio,
		},
	}, nil
}

// assessBalance grades the deviation of the upper lip's share from an even
// split. Margins are symmetric around 0.5, so swapping the two thicknesses
// mirrors the descriptor exactly.
func (c *LipClassifier) assessBalance(upperRatio float64) string {
	deviation := upperRatio - 0.5
	switch {
	case math.Abs(deviation) < c.t.BalancedMargin:
		return BalanceBalanced
	case deviation > 0 && deviation < c.t.DominantMargin:
		return BalanceSlightlyUpper
	case deviation > 0:
		return BalanceUpper
	case deviation > -c.t.DominantMargin:
		return BalanceSlightlyLower
	default:
		return BalanceLower
	}
}
