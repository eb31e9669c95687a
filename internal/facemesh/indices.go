package facemesh

// Named MediaPipe Face Mesh indices used by the classifiers. "Right" and
// "left" are the subject's right and left. Wiring a non-lip index into a lip
// measurement (or similar) silently corrupts classification, so every
// anatomical reference lives here rather than inline in decision logic.
const (
	// Nose region.
	NoseTip           = 1
	NoseBridgeTop     = 168
	LeftNostrilOuter  = 98
	RightNostrilOuter = 327
	LeftNostrilInner  = 219
	RightNostrilInner = 439
	LeftNoseAla       = 129
	RightNoseAla      = 358

	// Facial boundary, used to normalize widths for head size and camera
	// distance.
	LeftCheekBoundary  = 234
	RightCheekBoundary = 454
	ForeheadCenter     = 10
	ChinCenter         = 152

	// Mouth region. 37 is the upper-lip top-center vermillion border; 13/14
	// are the inner edges of the upper and lower lip; 17 is the lower-lip
	// bottom-center vermillion border.
	MouthCornerLeft     = 61
	MouthCornerRight    = 291
	UpperLipOuterTop    = 37
	UpperLipInnerEdge   = 13
	LowerLipInnerEdge   = 14
	LowerLipOuterBottom = 17

	// Right eye.
	RightEyeInnerCorner  = 133
	RightEyeOuterCorner  = 33
	RightEyeTopCenter    = 159
	RightEyeBottomCenter = 145
	RightEyeUpperCrease  = 27
	RightBrowCenter      = 55

	// Left eye.
	LeftEyeInnerCorner  = 362
	LeftEyeOuterCorner  = 263
	LeftEyeTopCenter    = 386
	LeftEyeBottomCenter = 374
	LeftEyeUpperCrease  = 257
	LeftBrowCenter      = 285
)
