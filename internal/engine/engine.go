package engine

import (
	"errors"
	"fmt"

	"github.com/example/face-insight/internal/facemesh"
)

// Engine runs the three feature classifiers over a landmark set and
// aggregates their results. It holds no per-call state; a single Engine is
// safe for unsynchronized concurrent use.
type Engine struct {
	eyes *EyeClassifier
	nose *NoseClassifier
	lips *LipClassifier
}

// New validates the thresholds and constructs the classifiers once.
func New(t Thresholds) (*Engine, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		eyes: NewEyeClassifier(t.Eye),
		nose: NewNoseClassifier(t.Nose),
		lips: NewLipClassifier(t.Lip),
	}, nil
}

// Analyze classifies all three features independently. A degenerate
// measurement disables only the feature it occurred in; the remaining
// features still classify and the summary covers whatever succeeded. An
// invalid landmark index is a configuration bug and fails the whole call
// loudly rather than classifying from wrong data.
func (e *Engine) Analyze(set *facemesh.LandmarkSet) (*Report, error) {
	report := &Report{}

	eyeResult, err := e.runFeature(report, FeatureEye, func() (*ClassificationResult, error) {
		return e.eyes.Classify(set)
	})
	if err != nil {
		return nil, err
	}
	noseResult, err := e.runFeature(report, FeatureNose, func() (*ClassificationResult, error) {
		return e.nose.Classify(set)
	})
	if err != nil {
		return nil, err
	}
	lipResult, err := e.runFeature(report, FeatureLip, func() (*ClassificationResult, error) {
		return e.lips.Classify(set)
	})
	if err != nil {
		return nil, err
	}

	if eyeResult != nil {
		report.EyeAnalysis = &EyeAnalysis{
			EyeShape:          eyeResult.PrimaryLabel,
			SecondaryFeatures: eyeResult.SecondaryLabels,
			ConfidenceScores:  eyeResult.ConfidenceScores,
			Metrics:           eyeResult.RawMeasurements,
		}
	}
	if noseResult != nil {
		report.NoseAnalysis = &NoseAnalysis{
			NoseWidth:    noseResult.PrimaryLabel,
			Confidence:   noseResult.PrimaryConfidence(),
			Measurements: noseResult.RawMeasurements,
		}
	}
	if lipResult != nil {
		balance := BalanceBalanced
		if len(lipResult.SecondaryLabels) > 0 {
			balance = lipResult.SecondaryLabels[0]
		}
		report.LipAnalysis = &LipAnalysis{
			LipFullness:  lipResult.PrimaryLabel,
			Confidence:   lipResult.PrimaryConfidence(),
			LipBalance:   balance,
			Measurements: lipResult.RawMeasurements,
		}
	}

	report.Summary = BuildSummary(eyeResult, noseResult, lipResult)
	report.Quality = AssessQuality(set)
	return report, nil
}

// runFeature isolates a single classifier call. Degenerate geometry is
// recorded and swallowed; anything else propagates.
func (e *Engine) runFeature(report *Report, feature string, classify func() (*ClassificationResult, error)) (*ClassificationResult, error) {
	result, err := classify()
	if err == nil {
		return result, nil
	}
	if errors.Is(err, facemesh.ErrDegenerateMeasurement) {
		if report.UnavailableFeatures == nil {
			report.UnavailableFeatures = map[string]string{}
		}
		report.UnavailableFeatures[feature] = err.Error()
		return nil, nil
	}
	return nil, fmt.Errorf("engine: %s classification: %w", feature, err)
}
