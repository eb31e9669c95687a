package engine

import (
	"testing"
)

func TestNoseClassifierLabelsByFaceRatio(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  string
	}{
		{"narrow", 0.20, NoseNarrow},
		{"medium", 0.30, NoseMedium},
		{"wide", 0.42, NoseWide},
	}

	classifier := NewNoseClassifier(DefaultThresholds().Nose)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := defaultFaceSpec()
			spec.noseToFaceRatio = tt.ratio
			set := buildFace(t, spec)

			result, err := classifier.Classify(set)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.PrimaryLabel != tt.want {
				t.Fatalf("ratio %v: expected %q, got %q", tt.ratio, tt.want, result.PrimaryLabel)
			}
			if !almostEqual(result.RawMeasurements["nose_to_face_ratio"], tt.ratio, 1e-9) {
				t.Fatalf("expected measured ratio %v, got %v",
					tt.ratio, result.RawMeasurements["nose_to_face_ratio"])
			}
		})
	}
}

// Sweeping the ratio upward must cross each label boundary exactly once,
// and the winning label must never score below the 0.5 breakpoint value.
func TestNoseClassifierMonotonicAcrossBoundaries(t *testing.T) {
	classifier := NewNoseClassifier(DefaultThresholds().Nose)

	var labels []string
	for ratio := 0.15; ratio <= 0.45; ratio += 0.01 {
		spec := defaultFaceSpec()
		spec.noseToFaceRatio = ratio
		set := buildFace(t, spec)

		result, err := classifier.Classify(set)
		if err != nil {
			t.Fatalf("ratio %v: unexpected error: %v", ratio, err)
		}
		if score := result.ConfidenceScores[result.PrimaryLabel]; score < 0.5 {
			t.Fatalf("ratio %v: winning label %q scored %v, below the breakpoint floor",
				ratio, result.PrimaryLabel, score)
		}
		if len(labels) == 0 || labels[len(labels)-1] != result.PrimaryLabel {
			labels = append(labels, result.PrimaryLabel)
		}
	}

	want := []string{NoseNarrow, NoseMedium, NoseWide}
	if len(labels) != len(want) {
		t.Fatalf("expected label sequence %v, got %v", want, labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("expected label sequence %v, got %v", want, labels)
		}
	}
}

func TestNoseClassifierConfidenceDecaysNearBreakpoint(t *testing.T) {
	classifier := NewNoseClassifier(DefaultThresholds().Nose)

	deep := defaultFaceSpec()
	deep.noseToFaceRatio = 0.30
	deepSet := buildFace(t, deep)
	deepResult, err := classifier.Classify(deepSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	edge := defaultFaceSpec()
	edge.noseToFaceRatio = 0.26
	edgeSet := buildFace(t, edge)
	edgeResult, err := classifier.Classify(edgeSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deepScore := deepResult.ConfidenceScores[NoseMedium]
	edgeScore := edgeResult.ConfidenceScores[NoseMedium]
	if edgeScore >= deepScore {
		t.Fatalf("expected lower confidence near the breakpoint: deep %v, edge %v",
			deepScore, edgeScore)
	}
	// Mid-band at 0.30 sits 0.05 from both breakpoints, half the decay
	// width, so the score is exactly the midpoint of the inside ramp.
	if !almostEqual(deepScore, 0.75, 1e-9) {
		t.Fatalf("expected mid-band confidence 0.75, got %v", deepScore)
	}
}

func TestNoseClassifierReportsAuxiliaryMeasurements(t *testing.T) {
	set := buildFace(t, defaultFaceSpec())

	result, err := NewNoseClassifier(DefaultThresholds().Nose).Classify(set)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{"nose_width", "face_width", "nostril_width", "bridge_width"} {
		value, ok := result.RawMeasurements[key]
		if !ok {
			t.Fatalf("expected raw measurement %q", key)
		}
		if value <= 0 {
			t.Fatalf("expected %q to be positive, got %v", key, value)
		}
	}
	for _, label := range []string{NoseNarrow, NoseMedium, NoseWide} {
		if _, ok := result.ConfidenceScores[label]; !ok {
			t.Fatalf("expected a confidence score for %q", label)
		}
	}
}
