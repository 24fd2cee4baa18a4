package engine

// Gain smoother constants
const (
	// unityGain is the gain applied when no limiting is needed.
	unityGain = 1.0

	// overshootFloor and overshootScale bound how fast the faded gain may
	// drop below the smoothed state: (gain - 0.1*state) * 10/9.
	overshootFloor = 0.1
	overshootScale = 1.11111111
)

// Sizing limits
const (
	// minAttackSamples is the shortest lookahead the engine runs with.
	minAttackSamples = 1

	// MaxBufferSamples caps any single state buffer. Construction fails
	// with ErrBufferTooLarge above it.
	MaxBufferSamples = 1 << 26

	// slowSlack covers the rounding in ceil(window/floor(sqrt(window))).
	slowSlack = 3
)

// Byte sizes for float types.
const (
	bytesPerFloat32 = 4
	bytesPerFloat64 = 8
	bytesPerIndex   = 8
)
