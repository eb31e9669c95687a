package engine

import (
	"fmt"
	"strings"
)

// FeatureSet is the flattened primary-label view used by the summary.
// Fields for features that failed to classify are left empty.
type FeatureSet struct {
	EyeShape     string   `json:"eye_shape,omitempty"`
	EyeSecondary []string `json:"eye_secondary,omitempty"`
	NoseWidth    string   `json:"nose_width,omitempty"`
	LipFullness  string   `json:"lip_fullness,omitempty"`
	LipBalance   string   `json:"lip_balance,omitempty"`
}

// FeatureSummary is the nested quick-reference view of the classified
// features.
type FeatureSummary struct {
	Eyes *EyeFeatureSummary  `json:"eyes,omitempty"`
	Nose *NoseFeatureSummary `json:"nose,omitempty"`
	Lips *LipFeatureSummary  `json:"lips,omitempty"`
}

type EyeFeatureSummary struct {
	Primary   string   `json:"primary"`
	Secondary []string `json:"secondary"`
}

type NoseFeatureSummary struct {
	Width string `json:"width"`
}

type LipFeatureSummary struct {
	Fullness string `json:"fullness"`
	Balance  string `json:"balance"`
}

// Summary merges the independent per-feature classifications into one
// explainable result: a human-readable description, ordered search queries
// for downstream content lookup, and per-feature keyword vocabularies.
type Summary struct {
	Features          FeatureSet          `json:"features"`
	OverallConfidence float64             `json:"overall_confidence"`
	Description       string              `json:"description"`
	SearchTags        []string            `json:"search_tags"`
	MakeupKeywords    map[string][]string `json:"makeup_keywords"`
	FeatureSummary    FeatureSummary      `json:"feature_summary"`
}

// BuildSummary aggregates up to three classification results. Nil inputs
// (features that could not be measured) are simply omitted from every
// derived field rather than failing the whole summary.
//
// Determinism is the contract here: identical inputs produce byte-identical
// output. Tag order is fixed by construction, keyword lists are fixed
// vocabularies, and the only maps emitted are JSON objects whose key order
// the serializer sorts.
//
// OverallConfidence is the unweighted arithmetic mean of the primary-label
// confidences of the results that are present. No feature is weighted above
// another.
func BuildSummary(eye, nose, lip *ClassificationResult) *Summary {
	features := FeatureSet{}
	confidences := []float64{}

	if eye != nil {
		features.EyeShape = eye.PrimaryLabel
		features.EyeSecondary = append([]string{}, eye.SecondaryLabels...)
		confidences = append(confidences, eye.PrimaryConfidence())
	}
	if nose != nil {
		features.NoseWidth = nose.PrimaryLabel
		confidences = append(confidences, nose.PrimaryConfidence())
	}
	if lip != nil {
		features.LipFullness = lip.PrimaryLabel
		features.LipBalance = BalanceBalanced
		if len(lip.SecondaryLabels) > 0 {
			features.LipBalance = lip.SecondaryLabels[0]
		}
		confidences = append(confidences, lip.PrimaryConfidence())
	}

	overall := 0.0
	if len(confidences) > 0 {
		for _, c := range confidences {
			overall += c
		}
		overall /= float64(len(confidences))
	}

	return &Summary{
		Features:          features,
		OverallConfidence: overall,
		Description:       buildDescription(features),
		SearchTags:        buildSearchTags(features),
		MakeupKeywords:    buildMakeupKeywords(features),
		FeatureSummary:    buildFeatureSummary(features),
	}
}

// buildDescription renders the fixed grammar template over whichever
// features classified.
func buildDescription(f FeatureSet) string {
	segments := []string{}
	if f.EyeShape != "" {
		eyeDesc := f.EyeShape
		if len(f.EyeSecondary) > 0 && isOrientation(f.EyeSecondary[0]) {
			eyeDesc += " " + strings.ToLower(f.EyeSecondary[0])
		}
		segments = append(segments, eyeDesc+" eyes")
	}
	if f.NoseWidth != "" {
		segments = append(segments, "a "+f.NoseWidth+" nose")
	}
	if f.LipFullness != "" {
		segments = append(segments, f.LipFullness+" lips")
	}
	if len(segments) == 0 {
		return "No facial features could be classified."
	}

	description := "Your facial features include " + joinClauses(segments)
	if f.LipFullness != "" && strings.Contains(f.LipBalance, "dominant") {
		description += fmt.Sprintf(" with a %s lip balance", strings.ReplaceAll(f.LipBalance, "_", " "))
	}
	return description + "."
}

func joinClauses(segments []string) string {
	switch len(segments) {
	case 1:
		return segments[0]
	case 2:
		return segments[0] + " and " + segments[1]
	default:
		return strings.Join(segments[:len(segments)-1], ", ") + ", and " + segments[len(segments)-1]
	}
}

// buildSearchTags assembles the ordered query list: one combined query,
// one per primary feature, one per secondary feature, then technique tags
// keyed off the primary labels. Order is stable because downstream
// consumers may truncate it.
func buildSearchTags(f FeatureSet) []string {
	tags := []string{}

	combined := []string{}
	if f.EyeShape != "" {
		combined = append(combined, f.EyeShape+" eyes")
	}
	if f.NoseWidth != "" {
		combined = append(combined, f.NoseWidth+" nose")
	}
	if f.LipFullness != "" {
		combined = append(combined, f.LipFullness+" lips")
	}
	if len(combined) > 0 {
		tags = append(tags, strings.Join(combined, " "))
	}

	if f.EyeShape != "" {
		tags = append(tags, f.EyeShape+" eye makeup")
	}
	if f.NoseWidth != "" {
		tags = append(tags, f.NoseWidth+" nose makeup")
	}
	if f.LipFullness != "" {
		tags = append(tags, f.LipFullness+" lips makeup")
	}

	for _, secondary := range f.EyeSecondary {
		if isOrientation(secondary) {
			tags = append(tags, secondary+" eyes makeup")
		}
	}

	if f.NoseWidth != "" {
		tags = append(tags, "makeup for "+f.NoseWidth+" nose")
	}
	if f.LipFullness != "" {
		tags = append(tags, "makeup for "+f.LipFullness+" lips")
	}

	return append(tags, techniqueTags(f)...)
}

func techniqueTags(f FeatureSet) []string {
	techniques := []string{}

	switch f.EyeShape {
	case EyeAlmond:
		techniques = append(techniques, "winged eyeliner")
	case EyeHooded:
		techniques = append(techniques, "cut crease tutorial")
	case EyeMonolid:
		techniques = append(techniques, "monolid eyeshadow technique")
	case EyeRound:
		techniques = append(techniques, "elongating eye makeup")
	}

	switch f.NoseWidth {
	case NoseMedium:
		techniques = append(techniques, "natural contour")
	case NoseNarrow, NoseWide:
		techniques = append(techniques, f.NoseWidth+" nose contour tutorial")
	}

	switch f.LipFullness {
	case LipThin:
		techniques = append(techniques, "lip plumping technique")
	case LipFull:
		techniques = append(techniques, "full lip makeup tutorial")
	}

	return techniques
}

// buildMakeupKeywords combines each primary label with the fixed per-feature
// vocabulary. Only classified feature categories appear in the map.
func buildMakeupKeywords(f FeatureSet) map[string][]string {
	keywords := map[string][]string{}

	if f.EyeShape != "" {
		kw := []string{f.EyeShape, "eye makeup", "eyeshadow"}
		switch f.EyeShape {
		case EyeAlmond:
			kw = append(kw, "winged eyeliner", "cat eye", "smokey eye")
		case EyeRound:
			kw = append(kw, "elongating", "lengthening", "outer corner emphasis")
		case EyeMonolid:
			kw = append(kw, "monolid tutorial", "tightlining", "gradient eye")
		case EyeHooded:
			kw = append(kw, "hooded eye tutorial", "cut crease", "halo eye")
		}
		for _, secondary := range f.EyeSecondary {
			switch secondary {
			case EyeUpturned:
				kw = append(kw, "upturned", "lifted", "fox eye")
			case EyeDownturned:
				kw = append(kw, "downturned", "puppy eye", "lifting technique")
			}
		}
		keywords[FeatureEye] = kw
	}

	if f.NoseWidth != "" {
		kw := []string{f.NoseWidth, "nose contour", "nose makeup"}
		switch f.NoseWidth {
		case NoseNarrow:
			kw = append(kw, "highlight bridge", "widen nose", "side highlight")
		case NoseMedium:
			kw = append(kw, "natural contour", "subtle definition")
		case NoseWide:
			kw = append(kw, "slim nose", "bridge highlight")
		}
		keywords[FeatureNose] = kw
	}

	if f.LipFullness != "" {
		kw := []string{f.LipFullness, "lip makeup", "lipstick"}
		switch f.LipFullness {
		case LipThin:
			kw = append(kw, "plump lips", "lip liner", "overlining", "fuller lips")
		case LipMedium:
			kw = append(kw, "natural lip", "lip definition")
		case LipFull:
			kw = append(kw, "full lips", "matte lipstick", "lip stain")
		}
		if strings.Contains(f.LipBalance, "upper") {
			kw = append(kw, "balance lower lip")
		} else if strings.Contains(f.LipBalance, "lower") {
			kw = append(kw, "balance upper lip")
		}
		keywords[FeatureLip] = kw
	}

	return keywords
}

func buildFeatureSummary(f FeatureSet) FeatureSummary {
	summary := FeatureSummary{}
	if f.EyeShape != "" {
		summary.Eyes = &EyeFeatureSummary{
			Primary:   f.EyeShape,
			Secondary: append([]string{}, f.EyeSecondary...),
		}
	}
	if f.NoseWidth != "" {
		summary.Nose = &NoseFeatureSummary{Width: f.NoseWidth}
	}
	if f.LipFullness != "" {
		summary.Lips = &LipFeatureSummary{
			Fullness: f.LipFullness,
			Balance:  f.LipBalance,
		}
	}
	return summary
}

func isOrientation(label string) bool {
	return label == EyeUpturned || label == EyeDownturned
}
