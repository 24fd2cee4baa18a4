package limiter

import (
	"github.com/tphakala/go-audio-limiter/internal/mathutil"
	"github.com/tphakala/go-audio-limiter/internal/simdops"
)

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateHiRes192 is the very high resolution 4x DAT sample rate.
	RateHiRes192 = 192000
)

// ThresholdFromDB converts a ceiling in dBFS to the linear threshold used by
// Config.Threshold and SetThreshold.
func ThresholdFromDB(db float64) float64 {
	return mathutil.DBToLinear(db)
}

// ThresholdDB returns the ceiling in dBFS.
func (l *Limiter[F]) ThresholdDB() float64 {
	return mathutil.LinearToDB(l.Threshold())
}

// NewMono creates a mono float32 limiter whose ceilings equal the given
// attack time and sample rate.
func NewMono(attackMs, releaseMs, threshold float64, sampleRate int) (*Limiter[float32], error) {
	return NewMultiChannel(attackMs, releaseMs, threshold, monoChannels, sampleRate)
}

// NewStereo creates a stereo float32 limiter.
func NewStereo(attackMs, releaseMs, threshold float64, sampleRate int) (*Limiter[float32], error) {
	return NewMultiChannel(attackMs, releaseMs, threshold, stereoChannels, sampleRate)
}

// NewMultiChannel creates a float32 limiter for the given channel count.
func NewMultiChannel(attackMs, releaseMs, threshold float64, channels, sampleRate int) (*Limiter[float32], error) {
	return New(&Config{
		MaxAttackMs:   attackMs,
		ReleaseMs:     releaseMs,
		Threshold:     threshold,
		MaxChannels:   channels,
		MaxSampleRate: sampleRate,
	})
}

// LimitMono is a convenience function for one-shot mono limiting.
// The limiter delay is compensated: the input is followed by DelaySamples
// frames of silence and the leading delay is dropped, so output[i] is the
// limited input[i] and len(output) == len(input).
func LimitMono(input []float64, sampleRate int, attackMs, releaseMs, threshold float64) ([]float64, error) {
	l, err := NewFloat64(&Config{
		MaxAttackMs:   attackMs,
		ReleaseMs:     releaseMs,
		Threshold:     threshold,
		MaxChannels:   monoChannels,
		MaxSampleRate: sampleRate,
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = l.Close() }()

	delay := l.DelaySamples()
	buf := make([]float64, len(input)+delay)
	copy(buf, input)

	if err := l.ProcessInterleaved(buf, len(buf)); err != nil {
		return nil, err
	}

	return buf[delay:], nil
}

// LimitStereo is a convenience function for one-shot stereo limiting with
// linked gain: both channels get the same gain, driven by the louder one.
// Output is delay compensated like LimitMono. Channels of unequal length are
// truncated to the shorter one.
func LimitStereo(left, right []float64, sampleRate int, attackMs, releaseMs, threshold float64) (leftOut, rightOut []float64, err error) {
	l, err := NewFloat64(&Config{
		MaxAttackMs:   attackMs,
		ReleaseMs:     releaseMs,
		Threshold:     threshold,
		MaxChannels:   stereoChannels,
		MaxSampleRate: sampleRate,
	})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = l.Close() }()

	n := min(len(left), len(right))
	delay := l.DelaySamples()
	leftOut = make([]float64, n+delay)
	rightOut = make([]float64, n+delay)
	copy(leftOut, left[:n])
	copy(rightOut, right[:n])

	if err := l.ProcessPlanar([][]float64{leftOut, rightOut}, n+delay); err != nil {
		return nil, nil, err
	}

	return leftOut[delay:], rightOut[delay:], nil
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// Output format: [L0, R0, L1, R1, L2, R2, ...]
func InterleaveToStereo(left, right []float32) []float32 {
	minLen := min(len(left), len(right))
	result := make([]float32, minLen*stereoChannels)
	simdops.For[float32]().Interleave2(result, left[:minLen], right[:minLen])
	return result
}
