package limiter

import (
	"github.com/tphakala/go-audio-limiter/internal/simdops"
)

// Info describes a limiter's current configuration and footprint.
type Info struct {
	// Algorithm describes the limiting algorithm in use.
	Algorithm string

	// DelaySamples is the processing latency in frames.
	DelaySamples int

	// SectionLen and Sections describe the max tracker layout:
	// SectionLen*Sections >= DelaySamples+1.
	SectionLen int
	Sections   int

	// Channels and SampleRate are the current values.
	Channels   int
	SampleRate int

	// MemoryUsage is the allocated state in bytes.
	MemoryUsage int64

	// SIMDType describes the instruction set used for block conversions.
	SIMDType string
}

// GetInfo returns information about the limiter. A closed limiter returns
// the zero Info.
func (l *Limiter[F]) GetInfo() Info {
	e, err := l.handle()
	if err != nil {
		return Info{}
	}

	bytes := int64(bytesPerFloat32)
	var zero F
	if _, ok := any(zero).(float64); ok {
		bytes = bytesPerFloat64
	}

	return Info{
		Algorithm:    "lookahead peak (sectioned sliding max)",
		DelaySamples: e.DelaySamples(),
		SectionLen:   e.SectionLen(),
		Sections:     e.Sections(),
		Channels:     e.Channels(),
		SampleRate:   e.SampleRate(),
		MemoryUsage:  e.MemoryUsage() + int64(cap(l.scratch))*bytes,
		SIMDType:     simdops.CPUInfo(),
	}
}
