// Package engine turns a validated landmark set into cosmetic-relevant
// feature classifications (eye shape, nose width, lip fullness) and an
// aggregated, confidence-scored summary. All classification is deterministic
// and rule based: identical input always produces identical output.
package engine

// Eye shape labels. The first four are mutually exclusive base shapes; the
// orientation modifiers may co-occur with a base shape as secondary labels
// or, for a strong enough angle, replace it as primary.
const (
	EyeAlmond     = "Almond"
	EyeRound      = "Round"
	EyeMonolid    = "Monolid"
	EyeHooded     = "Hooded"
	EyeUpturned   = "Upturned"
	EyeDownturned = "Downturned"
)

// Nose width labels.
const (
	NoseNarrow = "narrow"
	NoseMedium = "medium"
	NoseWide   = "wide"
)

// Lip fullness labels.
const (
	LipThin   = "thin"
	LipMedium = "medium"
	LipFull   = "full"
)

// Lip balance descriptors, graded symmetrically around an even upper/lower
// split.
const (
	BalanceBalanced      = "balanced"
	BalanceSlightlyUpper = "slightly_upper_dominant"
	BalanceSlightlyLower = "slightly_lower_dominant"
	BalanceUpper         = "upper_dominant"
	BalanceLower         = "lower_dominant"
)

// Feature names used in summaries and unavailable-feature reporting.
const (
	FeatureEye  = "eye"
	FeatureNose = "nose"
	FeatureLip  = "lip"
)

// ClassificationResult is the outcome of one feature classification. It is
// created fresh per call and owned by the caller.
//
// ConfidenceScores carries every candidate label evaluated, not just the
// winner, so downstream consumers can inspect near-ties. SecondaryLabels is
// an explicit ordered list: zero, one, or more modifier labels.
type ClassificationResult struct {
	PrimaryLabel     string
	SecondaryLabels  []string
	ConfidenceScores map[string]float64
	RawMeasurements  map[string]float64
}

// PrimaryConfidence returns the confidence of the primary label.
func (r *ClassificationResult) PrimaryConfidence() float64 {
	return r.ConfidenceScores[r.PrimaryLabel]
}

// EyeAnalysis is the wire shape of the eye classification.
type EyeAnalysis struct {
	EyeShape          string             `json:"eye_shape"`
	SecondaryFeatures []string           `json:"secondary_features"`
	ConfidenceScores  map[string]float64 `json:"confidence_scores"`
	Metrics           map[string]float64 `json:"metrics"`
}

// NoseAnalysis is the wire shape of the nose classification.
type NoseAnalysis struct {
	NoseWidth    string             `json:"nose_width"`
	Confidence   float64            `json:"confidence"`
	Measurements map[string]float64 `json:"measurements"`
}

// LipAnalysis is the wire shape of the lip classification.
type LipAnalysis struct {
	LipFullness  string             `json:"lip_fullness"`
	Confidence   float64            `json:"confidence"`
	LipBalance   string             `json:"lip_balance"`
	Measurements map[string]float64 `json:"measurements"`
}

// Report is the full analysis output for one face. Feature sections that
// could not be measured (degenerate geometry) are nil, with the reason
// recorded in UnavailableFeatures; the summary covers whatever classified.
type Report struct {
	EyeAnalysis         *EyeAnalysis      `json:"eye_analysis,omitempty"`
	NoseAnalysis        *NoseAnalysis     `json:"nose_analysis,omitempty"`
	LipAnalysis         *LipAnalysis      `json:"lip_analysis,omitempty"`
	Summary             *Summary          `json:"summary"`
	Quality             *QualityReport    `json:"quality,omitempty"`
	UnavailableFeatures map[string]string `json:"unavailable_features,omitempty"`
}
