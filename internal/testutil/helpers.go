// Package testutil provides reusable test helpers and reference models for limiter tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	Float32Tolerance = 1e-6
	DBTolerance      = 0.01
)

// Float is the sample type constraint accepted by the helpers.
type Float interface {
	float32 | float64
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf[F Float](t *testing.T, s []F, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(f, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange[F Float](t *testing.T, s []F, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if f < minVal || f > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%g is outside range [%g, %g]", i, f, minVal, maxVal)
		}
	}
	return true
}

// AssertPeakAtMost verifies that max |s[i]| <= limit.
func AssertPeakAtMost[F Float](t *testing.T, s []F, limit float64, msgAndArgs ...any) bool {
	t.Helper()
	return AssertAllInRange(t, s, -limit, limit, msgAndArgs...)
}

// AssertAllZero verifies that every element is exactly zero.
func AssertAllZero[F Float](t *testing.T, s []F, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v != 0 {
			return assert.Fail(t, "non-zero sample", "s[%d]=%g", i, float64(v))
		}
	}
	return true
}

// AssertDelayedCopy verifies that out is in delayed by delay samples per
// channel: the first delay frames are zero and out[i+delay] == in[i] exactly.
// Both slices are interleaved with the given channel count.
func AssertDelayedCopy[F Float](t *testing.T, in, out []F, delay, channels int) bool {
	t.Helper()
	if !assert.Len(t, out, len(in)) {
		return false
	}
	frames := len(in) / channels
	for i := range frames {
		for ch := range channels {
			got := out[i*channels+ch]
			var want F
			if i >= delay {
				want = in[(i-delay)*channels+ch]
			}
			if got != want {
				return assert.Fail(t, "delayed copy mismatch",
					"frame %d ch %d: got %g, want %g", i, ch, float64(got), float64(want))
			}
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}
