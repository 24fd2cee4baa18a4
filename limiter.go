package limiter

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-audio-limiter/internal/engine"
)

// Float is the sample type constraint. float32 is the native format of the
// limiter; float64 runs the same algorithm at double precision.
type Float interface {
	float32 | float64
}

// Config holds limiter construction parameters.
//
// The Max* fields are ceilings fixed for the lifetime of the limiter: all
// buffers are allocated for them up front, and later calls to SetAttack,
// SetChannels and SetSampleRate may only move within them.
type Config struct {
	// MaxAttackMs is the longest lookahead in milliseconds. The limiter starts
	// with this attack time.
	MaxAttackMs float64

	// ReleaseMs is the release time in milliseconds: the time for the gain to
	// recover 90% of the way back to unity.
	ReleaseMs float64

	// Threshold is the linear peak ceiling, typically at or below 1.0.
	Threshold float64

	// MaxChannels is the largest channel count. The limiter starts with this
	// many channels.
	MaxChannels int

	// MaxSampleRate is the highest sample rate in Hz. The limiter starts at
	// this rate.
	MaxSampleRate int
}

// DefaultConfig returns a stereo 48 kHz configuration with 20 ms attack,
// 20 ms release and a 0 dBFS ceiling.
func DefaultConfig() Config {
	return Config{
		MaxAttackMs:   DefaultAttackMs,
		ReleaseMs:     DefaultReleaseMs,
		Threshold:     defaultThreshold,
		MaxChannels:   stereoChannels,
		MaxSampleRate: RateDAT,
	}
}

// Common errors returned by the limiter.
var (
	// ErrInvalidConfig indicates invalid construction parameters.
	ErrInvalidConfig = errors.New("invalid limiter configuration")

	// ErrInvalidParameter indicates a rejected setter call. The limiter state
	// is unchanged.
	ErrInvalidParameter = engine.ErrInvalidParameter

	// ErrInvalidHandle indicates a call on a nil or closed limiter.
	ErrInvalidHandle = errors.New("invalid limiter handle")

	// ErrBufferTooSmall indicates a sample buffer shorter than the frame count.
	ErrBufferTooSmall = errors.New("sample buffer too small")

	// ErrBufferTooLarge indicates the ceilings need more state than allowed.
	ErrBufferTooLarge = engine.ErrBufferTooLarge

	// ErrFormatMismatch indicates a PCM buffer whose format does not match
	// the limiter's channel count or sample rate.
	ErrFormatMismatch = errors.New("buffer format mismatch")
)

// Status is the numeric result vocabulary of the limiter, for hosts that
// exchange status codes instead of Go errors.
type Status int

// Status values. The numbering is stable.
const (
	StatusOK               Status = 0
	StatusInvalidHandle    Status = -99
	StatusInvalidParameter Status = -98
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusInvalidHandle:
		return "INVALID_HANDLE"
	case StatusInvalidParameter:
		return "INVALID_PARAMETER"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// StatusOf maps an error returned by this package to a Status.
// nil maps to StatusOK; errors other than ErrInvalidHandle map to
// StatusInvalidParameter.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrInvalidHandle):
		return StatusInvalidHandle
	default:
		return StatusInvalidParameter
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !isFinite(c.MaxAttackMs) || c.MaxAttackMs <= 0 {
		return fmt.Errorf("%w: max attack must be a positive number of ms, got %v", ErrInvalidConfig, c.MaxAttackMs)
	}

	if !isFinite(c.ReleaseMs) || c.ReleaseMs <= 0 {
		return fmt.Errorf("%w: release must be a positive number of ms, got %v", ErrInvalidConfig, c.ReleaseMs)
	}

	if !isFinite(c.Threshold) || c.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive, got %v", ErrInvalidConfig, c.Threshold)
	}

	if c.MaxChannels < 1 {
		return fmt.Errorf("%w: channels must be at least 1", ErrInvalidConfig)
	}

	if c.MaxChannels > maxChannels {
		return fmt.Errorf("%w: too many channels (max %d)", ErrInvalidConfig, maxChannels)
	}

	if c.MaxSampleRate < 1 {
		return fmt.Errorf("%w: sample rate must be at least 1 Hz", ErrInvalidConfig)
	}

	if c.MaxSampleRate > maxSampleRate {
		return fmt.Errorf("%w: sample rate too high (max %d Hz)", ErrInvalidConfig, maxSampleRate)
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Limiter is a lookahead peak limiter. No output sample exceeds the threshold
// in absolute value; the output is delayed by DelaySamples frames.
//
// A Limiter is not safe for concurrent use: processing and setters on the
// same instance must be serialized by the caller.
type Limiter[F Float] struct {
	eng *engine.Engine[F]

	// scratch holds one adapter block for PCM buffer conversion.
	scratch []F
}

// New creates a float32 limiter. Construction is atomic: on error no limiter
// is returned.
func New(config *Config) (*Limiter[float32], error) {
	return newLimiter[float32](config)
}

// NewFloat64 creates a limiter that processes float64 samples.
func NewFloat64(config *Config) (*Limiter[float64], error) {
	return newLimiter[float64](config)
}

func newLimiter[F Float](config *Config) (*Limiter[F], error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	eng, err := engine.New[F](config.MaxAttackMs, config.ReleaseMs, F(config.Threshold),
		config.MaxChannels, config.MaxSampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to create limiter engine: %w", err)
	}

	return &Limiter[F]{
		eng:     eng,
		scratch: make([]F, adapterBlockFrames*config.MaxChannels),
	}, nil
}

// Close releases the limiter's buffers. Later calls return ErrInvalidHandle.
func (l *Limiter[F]) Close() error {
	if l == nil || l.eng == nil {
		return ErrInvalidHandle
	}
	l.eng = nil
	l.scratch = nil
	return nil
}

func (l *Limiter[F]) handle() (*engine.Engine[F], error) {
	if l == nil || l.eng == nil {
		return nil, ErrInvalidHandle
	}
	return l.eng, nil
}

// Reset clears all audio state and restores unity gain without touching the
// configuration.
func (l *Limiter[F]) Reset() error {
	e, err := l.handle()
	if err != nil {
		return err
	}
	e.Reset()
	return nil
}

// ProcessInterleaved limits n frames of interleaved samples in place:
// [f0c0, f0c1, ..., f1c0, ...].
func (l *Limiter[F]) ProcessInterleaved(samples []F, n int) error {
	e, err := l.handle()
	if err != nil {
		return err
	}
	if err := checkInterleaved(len(samples), n, e.Channels()); err != nil {
		return err
	}
	e.ProcessInterleaved(samples, n)
	return nil
}

// ProcessInterleavedTo copies n interleaved frames from src to dst and limits
// dst. src is left untouched unless it aliases dst.
func (l *Limiter[F]) ProcessInterleavedTo(dst, src []F, n int) error {
	e, err := l.handle()
	if err != nil {
		return err
	}
	ch := e.Channels()
	if err := checkInterleaved(len(src), n, ch); err != nil {
		return err
	}
	if err := checkInterleaved(len(dst), n, ch); err != nil {
		return err
	}
	copy(dst[:n*ch], src[:n*ch])
	e.ProcessInterleaved(dst, n)
	return nil
}

// ProcessPlanar limits n frames held one slice per channel, in place.
func (l *Limiter[F]) ProcessPlanar(samples [][]F, n int) error {
	e, err := l.handle()
	if err != nil {
		return err
	}
	if err := checkPlanar(samples, n, e.Channels()); err != nil {
		return err
	}
	e.ProcessPlanar(samples, n)
	return nil
}

// ProcessPlanarTo copies n frames per channel from src to dst and limits dst.
func (l *Limiter[F]) ProcessPlanarTo(dst, src [][]F, n int) error {
	e, err := l.handle()
	if err != nil {
		return err
	}
	ch := e.Channels()
	if err := checkPlanar(src, n, ch); err != nil {
		return err
	}
	if err := checkPlanar(dst, n, ch); err != nil {
		return err
	}
	for c := range ch {
		copy(dst[c][:n], src[c][:n])
	}
	e.ProcessPlanar(dst, n)
	return nil
}

func checkInterleaved(length, n, channels int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative frame count %d", ErrInvalidParameter, n)
	}
	if length < n*channels {
		return fmt.Errorf("%w: %d samples for %d frames of %d channels", ErrBufferTooSmall, length, n, channels)
	}
	return nil
}

func checkPlanar[F Float](planes [][]F, n, channels int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative frame count %d", ErrInvalidParameter, n)
	}
	if len(planes) < channels {
		return fmt.Errorf("%w: %d planes for %d channels", ErrBufferTooSmall, len(planes), channels)
	}
	for c := range channels {
		if len(planes[c]) < n {
			return fmt.Errorf("%w: channel %d holds %d of %d frames", ErrBufferTooSmall, c, len(planes[c]), n)
		}
	}
	return nil
}

// SetChannels sets the active channel count (1..MaxChannels) and resets state.
func (l *Limiter[F]) SetChannels(n int) error {
	e, err := l.handle()
	if err != nil {
		return err
	}
	return e.SetChannels(n)
}

// SetSampleRate sets the sample rate (1..MaxSampleRate), re-derives the
// lookahead from the current attack time and resets state. A rate at which
// the attack time is shorter than one sample is rejected.
func (l *Limiter[F]) SetSampleRate(hz int) error {
	e, err := l.handle()
	if err != nil {
		return err
	}
	return e.SetSampleRate(hz)
}

// SetAttack sets the lookahead time in ms (at most MaxAttackMs) and resets
// state. Times shorter than one sample give a one-sample lookahead.
func (l *Limiter[F]) SetAttack(ms float64) error {
	e, err := l.handle()
	if err != nil {
		return err
	}
	return e.SetAttack(ms)
}

// SetRelease sets the release time in ms. Audio state is kept.
func (l *Limiter[F]) SetRelease(ms float64) error {
	e, err := l.handle()
	if err != nil {
		return err
	}
	e.SetRelease(ms)
	return nil
}

// SetThreshold sets the linear peak ceiling. Audio state is kept and the value
// is not validated.
func (l *Limiter[F]) SetThreshold(v float64) error {
	e, err := l.handle()
	if err != nil {
		return err
	}
	e.SetThreshold(F(v))
	return nil
}

// Threshold returns the linear peak ceiling.
func (l *Limiter[F]) Threshold() float64 {
	if l == nil || l.eng == nil {
		return 0
	}
	return float64(l.eng.Threshold())
}

// DelaySamples returns the processing delay in frames, equal to the lookahead.
func (l *Limiter[F]) DelaySamples() int {
	if l == nil || l.eng == nil {
		return 0
	}
	return l.eng.DelaySamples()
}

// AttackMs returns the lookahead time in milliseconds.
func (l *Limiter[F]) AttackMs() float64 {
	if l == nil || l.eng == nil {
		return 0
	}
	return l.eng.AttackMs()
}

// ReleaseMs returns the release time in milliseconds.
func (l *Limiter[F]) ReleaseMs() float64 {
	if l == nil || l.eng == nil {
		return 0
	}
	return l.eng.ReleaseMs()
}

// SampleRate returns the current sample rate in Hz.
func (l *Limiter[F]) SampleRate() int {
	if l == nil || l.eng == nil {
		return 0
	}
	return l.eng.SampleRate()
}

// Channels returns the active channel count.
func (l *Limiter[F]) Channels() int {
	if l == nil || l.eng == nil {
		return 0
	}
	return l.eng.Channels()
}

// MaxGainReductionDB returns the gain reduction applied to the most recently
// processed frame, in dB (0 when no limiting is active).
func (l *Limiter[F]) MaxGainReductionDB() float64 {
	if l == nil || l.eng == nil {
		return 0
	}
	return l.eng.MaxGainReductionDB()
}
