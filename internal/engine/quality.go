package engine

import (
	"fmt"
	"math"

	"github.com/example/face-insight/internal/facemesh"
)

// Capture-quality limits. Violations are advisory only: the analysis still
// runs, but the warnings tell the caller why confidence may be depressed.
const (
	maxHeadRotationDegrees = 15.0
	maxNoseOffsetRatio     = 0.15
	maxCheekDepthGap       = 0.05
	maxMouthOpenRatio      = 0.15
	maxBrowLiftDistance    = 0.08
)

// QualityReport summarizes how suitable the capture was for geometric
// analysis: head-pose frontality and expression neutrality.
type QualityReport struct {
	QualityScore    float64  `json:"quality_score"`
	IsFrontal       bool     `json:"is_frontal"`
	RotationDegrees float64  `json:"rotation_degrees"`
	IsNeutral       bool     `json:"is_neutral"`
	ExpressionType  string   `json:"expression_type"`
	Warnings        []string `json:"warnings"`
}

// AssessQuality runs the head-pose and expression checks. A degenerate
// measurement here only degrades the report, never fails it, since quality
// checking must not block classification.
func AssessQuality(set *facemesh.LandmarkSet) *QualityReport {
	report := &QualityReport{Warnings: []string{}}

	rotation, noseOffset, depthGap := headPose(set)
	report.RotationDegrees = rotation
	report.IsFrontal = rotation < maxHeadRotationDegrees &&
		noseOffset < maxNoseOffsetRatio &&
		depthGap < maxCheekDepthGap
	if !report.IsFrontal {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("head is rotated %.1f degrees from frontal view", rotation))
	}

	report.ExpressionType = expressionType(set)
	report.IsNeutral = report.ExpressionType == "neutral"
	if !report.IsNeutral {
		report.Warnings = append(report.Warnings,
			"non-neutral facial expression detected: "+report.ExpressionType)
	}

	poseScore := clamp01(1 - rotation/90)
	expressionScore := 1.0
	if !report.IsNeutral {
		expressionScore = 0.5
	}
	report.QualityScore = (poseScore + expressionScore) / 2
	return report
}

// headPose estimates frontality from the forehead-to-nose centerline, the
// nose offset from the face center, and the cheek depth asymmetry.
func headPose(set *facemesh.LandmarkSet) (rotation, noseOffset, depthGap float64) {
	nose, _ := set.Point(facemesh.NoseTip)
	forehead, _ := set.Point(facemesh.ForeheadCenter)
	leftCheek, _ := set.Point(facemesh.LeftCheekBoundary)
	rightCheek, _ := set.Point(facemesh.RightCheekBoundary)

	rotation = math.Abs(math.Atan2(nose.X-forehead.X, nose.Y-forehead.Y) * 180 / math.Pi)

	faceCenterX := (leftCheek.X + rightCheek.X) / 2
	faceWidth := math.Abs(rightCheek.X - leftCheek.X)
	if faceWidth > facemesh.Epsilon {
		noseOffset = math.Abs(nose.X-faceCenterX) / faceWidth
	}

	depthGap = math.Abs(leftCheek.Z - rightCheek.Z)
	return rotation, noseOffset, depthGap
}

// expressionType detects mouth opening, smiling, and raised brows, in that
// priority order.
func expressionType(set *facemesh.LandmarkSet) string {
	upperLip, _ := set.Point(facemesh.UpperLipInnerEdge)
	lowerLip, _ := set.Point(facemesh.LowerLipInnerEdge)
	leftCorner, _ := set.Point(facemesh.MouthCornerLeft)
	rightCorner, _ := set.Point(facemesh.MouthCornerRight)

	mouthWidth := math.Abs(rightCorner.X - leftCorner.X)
	if mouthWidth > facemesh.Epsilon {
		mouthAspect := math.Abs(upperLip.Y-lowerLip.Y) / mouthWidth
		if mouthAspect > maxMouthOpenRatio {
			return "mouth_open"
		}
	}

	lipLineY := (upperLip.Y + lowerLip.Y) / 2
	if leftCorner.Y < lipLineY && rightCorner.Y < lipLineY {
		return "smiling"
	}

	leftBrow, _ := set.Point(facemesh.LeftBrowCenter)
	rightBrow, _ := set.Point(facemesh.RightBrowCenter)
	leftEyeTop, _ := set.Point(facemesh.LeftEyeTopCenter)
	rightEyeTop, _ := set.Point(facemesh.RightEyeTopCenter)
	browLift := (math.Abs(leftBrow.Y-leftEyeTop.Y) + math.Abs(rightBrow.Y-rightEyeTop.Y)) / 2
	if browLift > maxBrowLiftDistance {
		return "eyebrows_raised"
	}

	return "neutral"
}
