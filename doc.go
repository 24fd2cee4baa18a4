// Package limiter provides a real-time lookahead peak limiter in pure Go.
//
// The limiter delays the program by a fixed lookahead and computes, for every
// frame, the largest absolute sample across all channels over the lookahead
// window. A smoothed gain is applied to the delayed signal so that no output
// sample exceeds the threshold, while gain changes stay free of clicks.
//
// # Features
//
//   - Guaranteed ceiling: |output| <= threshold for every sample
//   - Exact sliding maximum in O(sqrt(window)) worst case per frame
//   - Asymmetric attack/release smoothing with an anti-overshoot clamp
//   - Linked gain across up to 256 channels, interleaved or planar layouts
//   - Allocation-free processing: all state is sized at construction
//   - float32 and float64 sample types via generics
//   - Adapters for github.com/go-audio/audio PCM buffers
//
// # Quick Start
//
// For one-shot limiting of a complete signal (delay compensated):
//
//	output, err := limiter.LimitMono(input, 48000, 5, 50, 0.9)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For streaming with a reusable limiter:
//
//	config := limiter.DefaultConfig()
//	config.Threshold = limiter.ThresholdFromDB(-1)
//	l, err := limiter.New(&config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for block := range audioBlocks {
//	    if err := l.ProcessInterleaved(block, len(block)/2); err != nil {
//	        log.Fatal(err)
//	    }
//	    writeOutput(block)
//	}
//
// # Latency
//
// The output lags the input by [Limiter.DelaySamples] frames, which equals
// the attack time in samples. A host that needs aligned output feeds that
// many frames of silence after the program and drops the same number of
// leading output frames, as [LimitMono] and [LimitStereo] do.
//
// # Reconfiguration
//
// [Config] fixes ceilings for attack time, channel count and sample rate;
// buffers are allocated for them once. [Limiter.SetAttack],
// [Limiter.SetChannels] and [Limiter.SetSampleRate] move within the ceilings
// and reset the audio state. [Limiter.SetRelease] and [Limiter.SetThreshold]
// take effect immediately without a reset. A rejected setter returns an error
// wrapping [ErrInvalidParameter] and leaves the limiter untouched.
//
// Hosts that work with numeric status codes can map errors with [StatusOf].
//
// # Thread Safety
//
// A [Limiter] keeps no locks. Processing and setter calls on the same
// instance must be serialized by the caller; separate instances are
// independent.
package limiter
