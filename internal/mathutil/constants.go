package mathutil

// Time constant parameters
const (
	// settleRatio is the residual fraction left after N+1 samples of a
	// one-pole filter, i.e. the filter settles to 90% of a step in N+1 samples.
	settleRatio = 0.1

	msPerSecond = 1000.0
)

// Level conversion constants
const (
	dbPerDecade = 20.0 // Amplitude dB: 20*log10(a)
)
