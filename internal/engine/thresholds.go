package engine

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Thresholds holds the calibration constants for all three classifiers.
// It is versioned configuration data, not code: loaded once at engine
// construction, validated, and never mutated afterwards, so concurrent
// classifications can read it without synchronization.
type Thresholds struct {
	Eye  EyeThresholds  `json:"eye"`
	Nose NoseThresholds `json:"nose"`
	Lip  LipThresholds  `json:"lip"`
}

// EyeThresholds calibrates the eye shape classifier.
//
// Aspect ratio is eye height over width. Eyelid coverage is the crease to
// lash-line distance over eye height; higher means a more lidded eye.
// Corner angles are degrees from horizontal, positive upward.
type EyeThresholds struct {
	AlmondMin float64 `json:"almond_min" validate:"gt=0"`
	RoundMin  float64 `json:"round_min" validate:"gtfield=AlmondMin"`

	HoodedMin  float64 `json:"hooded_min" validate:"gt=0"`
	MonolidMin float64 `json:"monolid_min" validate:"gtfield=HoodedMin"`

	// Detection thresholds: the angle past which an orientation modifier is
	// reported at all.
	UpturnedMin   float64 `json:"upturned_min" validate:"gt=0"`
	DownturnedMax float64 `json:"downturned_max" validate:"lt=0"`

	// Promotion thresholds: the looser angle and the confidence floor an
	// orientation must clear to replace the base shape as primary.
	PrimaryAngleMin      float64 `json:"primary_angle_min" validate:"gt=0"`
	PrimaryConfidenceMin float64 `json:"primary_confidence_min" validate:"gte=0,lte=1"`

	// BoundaryMargin is the distance from a band boundary within which base
	// shape confidence decays toward the 0.5 midpoint.
	BoundaryMargin float64 `json:"boundary_margin" validate:"gt=0"`
}

// NoseThresholds calibrates the nose width classifier over the
// nose-to-face width ratio.
type NoseThresholds struct {
	NarrowMax float64 `json:"narrow_max" validate:"gt=0"`
	WideMin   float64 `json:"wide_min" validate:"gtfield=NarrowMax"`

	// DecayWidth is the ratio distance over which confidence climbs from
	// 0.5 at a breakpoint to 1.0.
	DecayWidth float64 `json:"decay_width" validate:"gt=0"`
}

// LipThresholds calibrates the lip fullness classifier over the
// lip height-to-width ratio, and the balance margins over the upper lip's
// share of total lip height (symmetric around 0.5).
type LipThresholds struct {
	ThinMax   float64 `json:"thin_max" validate:"gt=0"`
	MediumMax float64 `json:"medium_max" validate:"gtfield=ThinMax"`

	DecayWidth float64 `json:"decay_width" validate:"gt=0"`

	BalancedMargin float64 `json:"balanced_margin" validate:"gt=0"`
	DominantMargin float64 `json:"dominant_margin" validate:"gtfield=BalancedMargin"`
}

// DefaultThresholds returns the calibration tuned against typical frontal
// face proportions.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Eye: EyeThresholds{
			AlmondMin:            0.35,
			RoundMin:             0.55,
			HoodedMin:            0.45,
			MonolidMin:           0.70,
			UpturnedMin:          3.0,
			DownturnedMax:        -3.0,
			PrimaryAngleMin:      3.0,
			PrimaryConfidenceMin: 0.65,
			BoundaryMargin:       0.05,
		},
		Nose: NoseThresholds{
			NarrowMax:  0.25,
			WideMin:    0.35,
			DecayWidth: 0.10,
		},
		Lip: LipThresholds{
			ThinMax:        0.15,
			MediumMax:      0.25,
			DecayWidth:     0.06,
			BalancedMargin: 0.08,
			DominantMargin: 0.15,
		},
	}
}

var validate = validator.New()

// Validate checks the ordering invariants between calibration constants, so
// a bad recalibration fails at construction rather than misclassifying.
func (t Thresholds) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("engine: invalid thresholds: %w", err)
	}
	return nil
}
