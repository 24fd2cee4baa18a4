// Package engine implements the lookahead peak limiter core: a hierarchical
// sliding-window maximum tracker, a lookahead delay line and an attack/release
// gain smoother, driven one frame at a time.
//
// An Engine is not safe for concurrent use. All state is allocated by New;
// processing and reconfiguration never allocate.
package engine

import (
	"fmt"
	"math"

	"github.com/tphakala/go-audio-limiter/internal/mathutil"
)

// Engine is a lookahead peak limiter over interleaved or planar frames.
//
// Type parameter F controls the precision of sample processing.
type Engine[F Float] struct {
	// Ceilings fixed at construction.
	maxAttackMs   float64
	maxAttack     int
	maxChannels   int
	maxSampleRate int

	attackMs   float64
	releaseMs  float64
	attack     int
	channels   int
	sampleRate int
	threshold  F

	tracker  *MaxTracker[F]
	delay    *DelayLine[F]
	smoother GainSmoother[F]
}

// New creates an engine sized for the given ceilings. The current attack,
// channel count and sample rate start at their ceilings.
func New[F Float](maxAttackMs, releaseMs float64, threshold F, maxChannels, maxSampleRate int) (*Engine[F], error) {
	if maxChannels < 1 {
		return nil, fmt.Errorf("%w: channels must be at least 1, got %d", ErrInvalidParameter, maxChannels)
	}
	if maxSampleRate < 1 {
		return nil, fmt.Errorf("%w: sample rate must be at least 1, got %d", ErrInvalidParameter, maxSampleRate)
	}
	if math.IsNaN(maxAttackMs) || math.IsInf(maxAttackMs, 0) {
		return nil, fmt.Errorf("%w: attack must be finite, got %v", ErrInvalidParameter, maxAttackMs)
	}

	// Checked before the int conversion, which is undefined past the int range.
	lookahead := mathutil.MsToSamplesFrac(maxAttackMs, maxSampleRate)
	if lookahead >= MaxBufferSamples || lookahead >= float64(MaxBufferSamples/maxChannels+1) {
		return nil, fmt.Errorf("%w: %g samples lookahead x %d channels", ErrBufferTooLarge, lookahead, maxChannels)
	}
	attack := max(int(lookahead), minAttackSamples)

	e := &Engine[F]{
		maxAttackMs:   maxAttackMs,
		maxAttack:     attack,
		maxChannels:   maxChannels,
		maxSampleRate: maxSampleRate,
		attackMs:      maxAttackMs,
		releaseMs:     releaseMs,
		attack:        attack,
		channels:      maxChannels,
		sampleRate:    maxSampleRate,
		threshold:     threshold,
		tracker:       NewMaxTracker[F](attack + 1),
		delay:         NewDelayLine[F](attack, maxChannels),
	}
	e.smoother.SetAttack(attack)
	e.smoother.SetRelease(mathutil.MsToSamplesFrac(releaseMs, maxSampleRate))
	e.Reset()

	return e, nil
}

// Reset clears all buffers and cursors and restores unity gain.
// Configuration is kept.
func (e *Engine[F]) Reset() {
	e.tracker.Reset()
	e.delay.Reset()
	e.smoother.Reset()
}

// ProcessInterleaved limits n frames of interleaved samples in place.
// samples must hold at least n*Channels() values.
func (e *Engine[F]) ProcessInterleaved(samples []F, n int) {
	ch := e.channels
	for i := range n {
		frame := samples[i*ch : i*ch+ch : i*ch+ch]

		peak := e.threshold
		for _, v := range frame {
			peak = max(peak, abs(v))
		}
		gain := e.smoother.Next(e.tracker.Push(peak), e.threshold)

		tap := e.delay.Tap()
		for j, v := range frame {
			frame[j] = e.clamp(tap[j] * gain)
			tap[j] = v
		}
		e.delay.Advance()
	}
}

// ProcessPlanar limits n frames held one slice per channel, in place.
// samples must hold at least Channels() slices of at least n values.
func (e *Engine[F]) ProcessPlanar(samples [][]F, n int) {
	planes := samples[:e.channels]
	for i := range n {
		peak := e.threshold
		for _, p := range planes {
			peak = max(peak, abs(p[i]))
		}
		gain := e.smoother.Next(e.tracker.Push(peak), e.threshold)

		tap := e.delay.Tap()
		for j, p := range planes {
			v := p[i]
			p[i] = e.clamp(tap[j] * gain)
			tap[j] = v
		}
		e.delay.Advance()
	}
}

func (e *Engine[F]) clamp(v F) F {
	if v > e.threshold {
		return e.threshold
	}
	if v < -e.threshold {
		return -e.threshold
	}
	return v
}

func abs[F Float](v F) F {
	if v < 0 {
		return -v
	}
	return v
}

// SetChannels changes the active channel count and resets state.
func (e *Engine[F]) SetChannels(n int) error {
	if n < 1 || n > e.maxChannels {
		return fmt.Errorf("%w: channels %d outside [1, %d]", ErrInvalidParameter, n, e.maxChannels)
	}
	if !e.delay.Configure(e.attack, n) {
		return fmt.Errorf("%w: channels %d do not fit the delay line", ErrInvalidParameter, n)
	}
	e.channels = n
	e.Reset()
	return nil
}

// SetSampleRate changes the sample rate, re-derives the lookahead from the
// stored attack time and resets state. A rate that would give less than one
// sample of lookahead is rejected.
func (e *Engine[F]) SetSampleRate(hz int) error {
	if hz < 1 || hz > e.maxSampleRate {
		return fmt.Errorf("%w: sample rate %d outside [1, %d]", ErrInvalidParameter, hz, e.maxSampleRate)
	}
	attack := mathutil.MsToSamples(e.attackMs, hz)
	if attack < minAttackSamples {
		return fmt.Errorf("%w: %v ms at %d Hz is shorter than one sample", ErrInvalidParameter, e.attackMs, hz)
	}
	if err := e.resize(attack); err != nil {
		return err
	}

	e.smoother.SetRelease(mathutil.MsToSamplesFrac(e.releaseMs, hz))
	e.sampleRate = hz
	e.Reset()
	return nil
}

// SetAttack changes the lookahead time and resets state. The lookahead is
// clamped to at least one sample.
func (e *Engine[F]) SetAttack(ms float64) error {
	if !(ms <= e.maxAttackMs) {
		return fmt.Errorf("%w: attack %v ms above maximum %v ms", ErrInvalidParameter, ms, e.maxAttackMs)
	}
	attack := max(mathutil.MsToSamples(ms, e.sampleRate), minAttackSamples)
	if err := e.resize(attack); err != nil {
		return err
	}

	e.attackMs = ms
	e.Reset()
	return nil
}

// resize applies a new lookahead length to tracker, delay line and smoother.
// On error nothing has changed.
func (e *Engine[F]) resize(attack int) error {
	if attack > e.maxAttack {
		return fmt.Errorf("%w: lookahead %d samples above capacity %d", ErrInvalidParameter, attack, e.maxAttack)
	}
	// Capacity for maxAttack covers every smaller length, so neither fails here.
	e.tracker.Resize(attack + 1)
	e.delay.Configure(attack, e.channels)
	e.smoother.SetAttack(attack)
	e.attack = attack
	return nil
}

// SetRelease changes the release time. State is kept.
func (e *Engine[F]) SetRelease(ms float64) {
	e.smoother.SetRelease(mathutil.MsToSamplesFrac(ms, e.sampleRate))
	e.releaseMs = ms
}

// SetThreshold changes the limiting threshold. State is kept.
func (e *Engine[F]) SetThreshold(v F) { e.threshold = v }

// Threshold returns the limiting threshold.
func (e *Engine[F]) Threshold() F { return e.threshold }

// DelaySamples returns the processing delay, equal to the lookahead in samples.
func (e *Engine[F]) DelaySamples() int { return e.attack }

// AttackMs returns the lookahead time in milliseconds.
func (e *Engine[F]) AttackMs() float64 { return e.attackMs }

// ReleaseMs returns the release time in milliseconds.
func (e *Engine[F]) ReleaseMs() float64 { return e.releaseMs }

// SampleRate returns the current sample rate in Hz.
func (e *Engine[F]) SampleRate() int { return e.sampleRate }

// Channels returns the active channel count.
func (e *Engine[F]) Channels() int { return e.channels }

// MaxChannels returns the channel ceiling.
func (e *Engine[F]) MaxChannels() int { return e.maxChannels }

// MaxSampleRate returns the sample rate ceiling.
func (e *Engine[F]) MaxSampleRate() int { return e.maxSampleRate }

// MaxAttackMs returns the lookahead time ceiling.
func (e *Engine[F]) MaxAttackMs() float64 { return e.maxAttackMs }

// Gain returns the smoothed gain applied to the most recent frame.
func (e *Engine[F]) Gain() F { return e.smoother.Gain() }

// MaxGainReductionDB returns the attenuation of the most recent frame in dB.
func (e *Engine[F]) MaxGainReductionDB() float64 {
	return mathutil.GainReductionDB(float64(e.smoother.Gain()))
}

// SectionLen returns the tracker section length in samples.
func (e *Engine[F]) SectionLen() int { return e.tracker.SectionLen() }

// Sections returns the number of tracker sections.
func (e *Engine[F]) Sections() int { return e.tracker.Sections() }

// MemoryUsage returns the allocated state size in bytes.
func (e *Engine[F]) MemoryUsage() int64 {
	return e.tracker.MemoryUsage() + e.delay.MemoryUsage()
}
