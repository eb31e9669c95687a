package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/example/face-insight/internal/facemesh"
)

func TestNewRejectsUnorderedThresholds(t *testing.T) {
	thresholds := DefaultThresholds()
	thresholds.Eye.RoundMin = thresholds.Eye.AlmondMin - 0.1

	if _, err := New(thresholds); err == nil {
		t.Fatal("expected an error for round_min below almond_min")
	}

	thresholds = DefaultThresholds()
	thresholds.Nose.WideMin = thresholds.Nose.NarrowMax

	if _, err := New(thresholds); err == nil {
		t.Fatal("expected an error for wide_min equal to narrow_max")
	}
}

func TestAnalyzeProducesFullReport(t *testing.T) {
	eng, err := New(DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := eng.Analyze(buildFace(t, defaultFaceSpec()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.EyeAnalysis == nil || report.NoseAnalysis == nil || report.LipAnalysis == nil {
		t.Fatal("expected all three feature sections")
	}
	if report.EyeAnalysis.EyeShape != EyeAlmond {
		t.Fatalf("expected Almond eyes, got %q", report.EyeAnalysis.EyeShape)
	}
	if report.NoseAnalysis.NoseWidth != NoseMedium {
		t.Fatalf("expected a medium nose, got %q", report.NoseAnalysis.NoseWidth)
	}
	if report.LipAnalysis.LipFullness != LipMedium {
		t.Fatalf("expected medium lips, got %q", report.LipAnalysis.LipFullness)
	}
	if report.LipAnalysis.LipBalance != BalanceBalanced {
		t.Fatalf("expected balanced lips, got %q", report.LipAnalysis.LipBalance)
	}
	if report.Summary == nil {
		t.Fatal("expected a summary")
	}
	if report.Quality == nil || !report.Quality.IsFrontal || !report.Quality.IsNeutral {
		t.Fatalf("expected a frontal neutral quality report, got %+v", report.Quality)
	}
	if len(report.UnavailableFeatures) != 0 {
		t.Fatalf("expected no unavailable features, got %v", report.UnavailableFeatures)
	}
}

// Coincident cheek landmarks make the nose-to-face ratio degenerate. Only
// the nose section goes unavailable; eyes and lips still classify and the
// summary covers them.
func TestAnalyzeDegenerateGeometryDisablesOnlyThatFeature(t *testing.T) {
	eng, err := New(DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	points := facePoints(defaultFaceSpec())
	points[facemesh.RightCheekBoundary] = points[facemesh.LeftCheekBoundary]
	set, err := facemesh.NewLandmarkSet(points, 640, 480)
	if err != nil {
		t.Fatalf("failed to build landmark set: %v", err)
	}

	report, err := eng.Analyze(set)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.NoseAnalysis != nil {
		t.Fatal("expected the nose section to be unavailable")
	}
	reason, ok := report.UnavailableFeatures[FeatureNose]
	if !ok {
		t.Fatalf("expected %q in unavailable features, got %v", FeatureNose, report.UnavailableFeatures)
	}
	if reason == "" {
		t.Fatal("expected a non-empty reason for the unavailable feature")
	}

	if report.EyeAnalysis == nil || report.LipAnalysis == nil {
		t.Fatal("expected eye and lip sections to survive")
	}
	if report.Summary.Features.NoseWidth != "" {
		t.Fatalf("expected the summary to omit the nose, got %q", report.Summary.Features.NoseWidth)
	}
	for _, tag := range report.Summary.SearchTags {
		if strings.Contains(tag, "nose") {
			t.Fatalf("found nose-derived tag %q after the nose went unavailable", tag)
		}
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	eng, err := New(DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spec := defaultFaceSpec()
	spec.eyeAngle = 4.2

	first, err := eng.Analyze(buildFace(t, spec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstJSON, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		again, err := eng.Analyze(buildFace(t, spec))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		againJSON, err := json.Marshal(again)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(firstJSON) != string(againJSON) {
			t.Fatalf("reports not byte-identical:\n%s\n%s", firstJSON, againJSON)
		}
	}
}

func TestAssessQualityFlagsRotatedHead(t *testing.T) {
	points := facePoints(defaultFaceSpec())
	// Push the nose tip sideways past the rotation and offset limits.
	points[facemesh.NoseTip] = facemesh.Landmark{X: 0.68, Y: 0.52}
	set, err := facemesh.NewLandmarkSet(points, 640, 480)
	if err != nil {
		t.Fatalf("failed to build landmark set: %v", err)
	}

	quality := AssessQuality(set)
	if quality.IsFrontal {
		t.Fatal("expected a rotated head to be flagged")
	}
	if len(quality.Warnings) == 0 {
		t.Fatal("expected a rotation warning")
	}
	if quality.QualityScore >= 1 {
		t.Fatalf("expected a reduced quality score, got %v", quality.QualityScore)
	}
}

func TestAssessQualityFlagsOpenMouth(t *testing.T) {
	spec := defaultFaceSpec()
	points := facePoints(spec)
	// Separate the inner lip edges well past the mouth-open limit.
	points[facemesh.UpperLipInnerEdge] = facemesh.Landmark{X: 0.5, Y: 0.66}
	points[facemesh.LowerLipInnerEdge] = facemesh.Landmark{X: 0.5, Y: 0.72}
	set, err := facemesh.NewLandmarkSet(points, 640, 480)
	if err != nil {
		t.Fatalf("failed to build landmark set: %v", err)
	}

	quality := AssessQuality(set)
	if quality.IsNeutral {
		t.Fatal("expected an open mouth to be flagged")
	}
	if quality.ExpressionType != "mouth_open" {
		t.Fatalf("expected expression mouth_open, got %q", quality.ExpressionType)
	}
}
