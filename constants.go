package limiter

// Defaults
const (
	// DefaultAttackMs is the default lookahead time in milliseconds.
	DefaultAttackMs = 20.0

	// DefaultReleaseMs is the default release time in milliseconds.
	DefaultReleaseMs = 20.0

	defaultThreshold = 1.0 // 0 dBFS
)

// Channel constants
const (
	monoChannels   = 1
	stereoChannels = 2   // Stereo channel count (used by interleave functions)
	maxChannels    = 256 // Maximum supported channel count
)

// Sample rate limits
const (
	maxSampleRate = 768000 // Highest accepted sample rate in Hz
)

// Buffer constants
const (
	// adapterBlockFrames is the block size used when converting PCM buffers.
	adapterBlockFrames = 1024

	bytesPerFloat32 = 4
	bytesPerFloat64 = 8
)

// Integer PCM full-scale values for the go-audio adapters.
const (
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0
)
