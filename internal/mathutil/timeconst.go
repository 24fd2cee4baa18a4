// Package mathutil provides time-constant and level conversions for the limiter engine.
package mathutil

import (
	"math"
)

// MsToSamples converts a duration in milliseconds to a whole number of samples
// at the given rate. The result is truncated toward zero.
func MsToSamples(ms float64, sampleRate int) int {
	return int(ms * float64(sampleRate) / msPerSecond)
}

// MsToSamplesFrac is like MsToSamples but keeps the fractional part.
// Release times are not restricted to whole samples.
func MsToSamplesFrac(ms float64, sampleRate int) float64 {
	return ms * float64(sampleRate) / msPerSecond
}

// TimeConstant returns the one-pole coefficient that settles to 90% of a
// step within n+1 samples: 0.1^(1/(n+1)).
//
// n may be fractional. For n <= -1 the coefficient is 0 (no smoothing).
func TimeConstant(n float64) float64 {
	if n+1 <= 0 {
		return 0
	}
	return math.Pow(settleRatio, 1.0/(n+1))
}

// LinearToDB converts a linear amplitude to decibels.
// Returns -Inf for zero.
func LinearToDB(a float64) float64 {
	return dbPerDecade * math.Log10(a)
}

// DBToLinear converts decibels to a linear amplitude.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/dbPerDecade)
}

// GainReductionDB returns the attenuation in dB caused by a linear gain.
// A gain of 1 gives 0 dB, a gain of 0.5 gives roughly 6.02 dB.
func GainReductionDB(gain float64) float64 {
	return -LinearToDB(gain)
}
