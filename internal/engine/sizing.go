package engine

import "math"

// Float is the type constraint for supported sample types.
type Float interface {
	float32 | float64
}

// sectionLayout splits a tracking window into sections of floor(sqrt(window))
// samples, the split that minimises sectionLen + window/sectionLen compares.
// The last section is padded so that sectionLen*sections >= window.
func sectionLayout(window int) (sectionLen, sections int) {
	sectionLen = int(math.Sqrt(float64(window)))
	if sectionLen < 1 {
		sectionLen = 1
	}

	sections = window / sectionLen
	if sections*sectionLen < window {
		sections++
	}

	return sectionLen, sections
}

// trackerCapacity returns buffer sizes large enough for the layout of any
// window in [2, maxWindow].
//
// For window w with s = floor(sqrt(w)) and n = ceil(w/s):
// s*n <= w+s-1 and n <= sqrt(w)+3.
func trackerCapacity(maxWindow int) (samples, sections int) {
	root := int(math.Sqrt(float64(maxWindow)))
	return maxWindow + root, root + slowSlack
}

func bytesPer[F Float]() int64 {
	var zero F
	if _, ok := any(zero).(float64); ok {
		return bytesPerFloat64
	}
	return bytesPerFloat32
}
