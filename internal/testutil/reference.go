package testutil

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Peak returns max |s[i]|, or 0 for an empty slice.
func Peak[F Float](s []F) float64 {
	if len(s) == 0 {
		return 0
	}
	abs := make([]float64, len(s))
	for i, v := range s {
		abs[i] = math.Abs(float64(v))
	}
	return floats.Max(abs)
}

// RMS returns the root mean square of s.
func RMS[F Float](s []F) float64 {
	if len(s) == 0 {
		return 0
	}
	x := ToFloat64(s)
	return floats.Norm(x, 2) / math.Sqrt(float64(len(x)))
}

// ToFloat64 converts a sample slice to float64.
func ToFloat64[F Float](s []F) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}

// ThresholdedPeaks reduces interleaved frames to max(threshold, |x|) over
// channels, the detector input of the limiter.
func ThresholdedPeaks[F Float](interleaved []F, channels int, threshold float64) []float64 {
	frames := len(interleaved) / channels
	out := make([]float64, frames)
	row := make([]float64, channels+1)
	for i := range frames {
		row[0] = threshold
		for ch := range channels {
			row[ch+1] = math.Abs(float64(interleaved[i*channels+ch]))
		}
		out[i] = floats.Max(row)
	}
	return out
}

// SlidingMax is the brute-force O(n*window) reference for a trailing window
// maximum over non-negative input.
func SlidingMax(x []float64, window int) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		lo := max(i-window+1, 0)
		out[i] = floats.Max(x[lo : i+1])
	}
	return out
}
