package engine

import (
	"math"

	"github.com/example/face-insight/internal/facemesh"
)

// eyeRefs names the landmark indices one eye is measured from.
type eyeRefs struct {
	inner, outer, top, bottom, crease int
}

var (
	rightEyeRefs = eyeRefs{
		inner:  facemesh.RightEyeInnerCorner,
		outer:  facemesh.RightEyeOuterCorner,
		top:    facemesh.RightEyeTopCenter,
		bottom: facemesh.RightEyeBottomCenter,
		crease: facemesh.RightEyeUpperCrease,
	}
	leftEyeRefs = eyeRefs{
		inner:  facemesh.LeftEyeInnerCorner,
		outer:  facemesh.LeftEyeOuterCorner,
		top:    facemesh.LeftEyeTopCenter,
		bottom: facemesh.LeftEyeBottomCenter,
		crease: facemesh.LeftEyeUpperCrease,
	}
)

// eyeMetrics are the measurements for a single eye.
type eyeMetrics struct {
	aspectRatio    float64
	eyelidCoverage float64
	cornerAngle    float64
	width          float64
	height         float64
}

// EyeClassifier maps eye-region geometry to a shape label with confidence
// scores. Stateless across calls; thresholds are immutable after New.
type EyeClassifier struct {
	t EyeThresholds
}

// NewEyeClassifier builds a classifier over validated thresholds.
func NewEyeClassifier(t EyeThresholds) *EyeClassifier {
	return &EyeClassifier{t: t}
}

// Classify measures both eyes, averages their metrics, and resolves a
// primary shape plus any orientation modifiers. Both per-eye measurement
// sets are kept in RawMeasurements so strong left/right asymmetry stays
// visible even though the decision uses the average.
func (c *EyeClassifier) Classify(set *facemesh.LandmarkSet) (*ClassificationResult, error) {
	right, err := c.measureEye(set, rightEyeRefs)
	if err != nil {
		return nil, err
	}
	left, err := c.measureEye(set, leftEyeRefs)
	if err != nil {
		return nil, err
	}

	avg := eyeMetrics{
		aspectRatio:    (right.aspectRatio + left.aspectRatio) / 2,
		eyelidCoverage: (right.eyelidCoverage + left.eyelidCoverage) / 2,
		cornerAngle:    (right.cornerAngle + left.cornerAngle) / 2,
	}

	result := c.resolve(avg)
	result.RawMeasurements = map[string]float64{
		"aspect_ratio":          avg.aspectRatio,
		"eyelid_coverage":       avg.eyelidCoverage,
		"corner_angle":          avg.cornerAngle,
		"right_aspect_ratio":    right.aspectRatio,
		"right_eyelid_coverage": right.eyelidCoverage,
		"right_corner_angle":    right.cornerAngle,
		"right_width":           right.width,
		"right_height":          right.height,
		"left_aspect_ratio":     left.aspectRatio,
		"left_eyelid_coverage":  left.eyelidCoverage,
		"left_corner_angle":     left.cornerAngle,
		"left_width":            left.width,
		"left_height":           left.height,
	}
	return result, nil
}

func (c *EyeClassifier) measureEye(set *facemesh.LandmarkSet, refs eyeRefs) (eyeMetrics, error) {
	width, err := facemesh.Distance(set, refs.inner, refs.outer)
	if err != nil {
		return eyeMetrics{}, err
	}
	height, err := facemesh.Distance(set, refs.top, refs.bottom)
	if err != nil {
		return eyeMetrics{}, err
	}
	aspect, err := facemesh.Ratio(height, width)
	if err != nil {
		return eyeMetrics{}, err
	}

	creaseGap, err := facemesh.Distance(set, refs.crease, refs.top)
	if err != nil {
		return eyeMetrics{}, err
	}
	coverage, err := facemesh.Ratio(creaseGap, height)
	if err != nil {
		return eyeMetrics{}, err
	}

	// ElevationAngle keeps "outer corner higher" positive on both sides of
	// the face.
	angle, err := facemesh.ElevationAngle(set, refs.inner, refs.outer)
	if err != nil {
		return eyeMetrics{}, err
	}

	return eyeMetrics{
		aspectRatio:    aspect,
		eyelidCoverage: coverage,
		cornerAngle:    angle,
		width:          width,
		height:         height,
	}, nil
}

// shapeRule is one row of the base-shape decision table. Rules are evaluated
// in order; the first rule whose bands contain the metrics wins. Every rule
// is still scored on every call so confidence_scores covers all candidates.
type shapeRule struct {
	label string
	base  float64
	// coverage band [covLo, covHi) and aspect band [arLo, arHi).
	covLo, covHi float64
	arLo, arHi   float64
	// fallback rules match whenever no earlier rule did.
	fallback bool
}

func (c *EyeClassifier) baseShapeRules() []shapeRule {
	inf := math.Inf(1)
	t := c.t
	return []shapeRule{
		{label: EyeMonolid, base: 0.90, covLo: t.MonolidMin, covHi: inf, arLo: -inf, arHi: inf},
		{label: EyeHooded, base: 0.85, covLo: t.HoodedMin, covHi: t.MonolidMin, arLo: -inf, arHi: inf},
		{label: EyeRound, base: 0.80, covLo: -inf, covHi: t.HoodedMin, arLo: t.RoundMin, arHi: inf},
		{label: EyeAlmond, base: 0.75, covLo: -inf, covHi: t.HoodedMin, arLo: t.AlmondMin, arHi: t.RoundMin, fallback: true},
	}
}

func (c *EyeClassifier) resolve(m eyeMetrics) *ClassificationResult {
	scores := make(map[string]float64, 6)

	primary := ""
	for _, rule := range c.baseShapeRules() {
		covScore := bandScore(m.eyelidCoverage, rule.covLo, rule.covHi, c.t.BoundaryMargin, 1)
		arScore := bandScore(m.aspectRatio, rule.arLo, rule.arHi, c.t.BoundaryMargin, 1)
		scores[rule.label] = rule.base * math.Min(covScore, arScore)

		inBand := m.eyelidCoverage >= rule.covLo && m.eyelidCoverage < rule.covHi &&
			m.aspectRatio >= rule.arLo && m.aspectRatio < rule.arHi
		if primary == "" && (inBand || rule.fallback) {
			primary = rule.label
		}
	}

	secondary := []string{}

	// Orientation detection: record the modifier and its graded confidence
	// whenever the angle crosses the detection threshold.
	orientation := ""
	var detThreshold float64
	if m.cornerAngle > c.t.UpturnedMin {
		orientation = EyeUpturned
		detThreshold = c.t.UpturnedMin
	} else if m.cornerAngle < c.t.DownturnedMax {
		orientation = EyeDownturned
		detThreshold = -c.t.DownturnedMax
	}

	if orientation != "" {
		absAngle := math.Abs(m.cornerAngle)
		detectionConf := math.Min(0.9, absAngle/10)
		scores[orientation] = detectionConf

		// Promotion: a strong enough angle with a confident enough margin
		// over the detection threshold makes the orientation the primary
		// label; the displaced base shape stays as the first secondary.
		promotionConf := clamp01((absAngle - detThreshold) / c.t.PrimaryAngleMin)
		if absAngle > c.t.PrimaryAngleMin && promotionConf >= c.t.PrimaryConfidenceMin {
			scores[orientation] = promotionConf
			secondary = append(secondary, primary)
			primary = orientation
		} else {
			secondary = append(secondary, orientation)
		}
	}

	return &ClassificationResult{
		PrimaryLabel:     primary,
		SecondaryLabels:  secondary,
		ConfidenceScores: scores,
	}
}
