package limiter

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-limiter/internal/testutil"
)

func mustNew(t *testing.T, cfg Config) *Limiter[float32] {
	t.Helper()
	l, err := New(&cfg)
	require.NoError(t, err)
	require.NotNil(t, l)
	return l
}

func noise32(n int, amplitude float64, seed uint64) []float32 {
	rng := rand.New(rand.NewPCG(seed, 2))
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amplitude * (2*rng.Float64() - 1))
	}
	return out
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero attack", func(c *Config) { c.MaxAttackMs = 0 }},
		{"nan attack", func(c *Config) { c.MaxAttackMs = math.NaN() }},
		{"negative release", func(c *Config) { c.ReleaseMs = -1 }},
		{"inf release", func(c *Config) { c.ReleaseMs = math.Inf(1) }},
		{"zero threshold", func(c *Config) { c.Threshold = 0 }},
		{"zero channels", func(c *Config) { c.MaxChannels = 0 }},
		{"too many channels", func(c *Config) { c.MaxChannels = maxChannels + 1 }},
		{"zero rate", func(c *Config) { c.MaxSampleRate = 0 }},
		{"rate too high", func(c *Config) { c.MaxSampleRate = maxSampleRate + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

			l, err := New(&cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, l)
		})
	}
}

func TestNew_NilConfig(t *testing.T) {
	l, err := New(nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, l)
}

func TestNew_BufferTooLarge(t *testing.T) {
	tests := []struct {
		name     string
		attackMs float64
		channels int
		rate     int
	}{
		{"many channels", 1e6, maxChannels, RateHiRes192},
		{"lookahead past int range", 1e20, 1, RateDAT},
		{"lookahead near float max", 1e300, 1, RateHiRes192},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				MaxAttackMs:   tt.attackMs,
				ReleaseMs:     20,
				Threshold:     0.5,
				MaxChannels:   tt.channels,
				MaxSampleRate: tt.rate,
			}
			l, err := New(&cfg)
			require.ErrorIs(t, err, ErrBufferTooLarge)
			assert.Nil(t, l)
			assert.Equal(t, StatusInvalidParameter, StatusOf(err))

			l64, err := NewFloat64(&cfg)
			require.ErrorIs(t, err, ErrBufferTooLarge)
			assert.Nil(t, l64)
		})
	}
}

func TestNew_DefaultConfig(t *testing.T) {
	l := mustNew(t, DefaultConfig())

	assert.Equal(t, 960, l.DelaySamples())
	assert.InDelta(t, DefaultAttackMs, l.AttackMs(), 1e-12)
	assert.InDelta(t, DefaultReleaseMs, l.ReleaseMs(), 1e-12)
	assert.InDelta(t, 1.0, l.Threshold(), 1e-12)
	assert.Equal(t, RateDAT, l.SampleRate())
	assert.Equal(t, stereoChannels, l.Channels())
	assert.Zero(t, l.MaxGainReductionDB())
}

func TestStatus(t *testing.T) {
	assert.Equal(t, 0, int(StatusOK))
	assert.Equal(t, -99, int(StatusInvalidHandle))
	assert.Equal(t, -98, int(StatusInvalidParameter))

	assert.Equal(t, "OK", StatusOK.String())
	assert.Equal(t, "INVALID_HANDLE", StatusInvalidHandle.String())
	assert.Equal(t, "INVALID_PARAMETER", StatusInvalidParameter.String())
	assert.Equal(t, "Status(7)", Status(7).String())

	assert.Equal(t, StatusOK, StatusOf(nil))
	assert.Equal(t, StatusInvalidHandle, StatusOf(ErrInvalidHandle))
	assert.Equal(t, StatusInvalidParameter, StatusOf(ErrInvalidParameter))
	assert.Equal(t, StatusInvalidParameter, StatusOf(ErrBufferTooSmall))
}

func TestClose(t *testing.T) {
	l := mustNew(t, DefaultConfig())
	require.NoError(t, l.Close())

	buf := make([]float32, 4)
	assert.ErrorIs(t, l.Close(), ErrInvalidHandle)
	assert.ErrorIs(t, l.Reset(), ErrInvalidHandle)
	assert.ErrorIs(t, l.ProcessInterleaved(buf, 2), ErrInvalidHandle)
	assert.ErrorIs(t, l.ProcessPlanar([][]float32{buf, buf}, 2), ErrInvalidHandle)
	assert.ErrorIs(t, l.SetAttack(5), ErrInvalidHandle)
	assert.ErrorIs(t, l.SetRelease(5), ErrInvalidHandle)
	assert.ErrorIs(t, l.SetThreshold(0.5), ErrInvalidHandle)
	assert.ErrorIs(t, l.SetChannels(1), ErrInvalidHandle)
	assert.ErrorIs(t, l.SetSampleRate(RateCD), ErrInvalidHandle)
	assert.Equal(t, StatusInvalidHandle, StatusOf(l.Reset()))

	assert.Zero(t, l.DelaySamples())
	assert.Zero(t, l.Channels())
	assert.Equal(t, Info{}, l.GetInfo())

	var nilLimiter *Limiter[float32]
	assert.ErrorIs(t, nilLimiter.Reset(), ErrInvalidHandle)
	assert.Zero(t, nilLimiter.SampleRate())
}

func TestProcessInterleaved_Containment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttackMs = 5
	cfg.ReleaseMs = 50
	cfg.Threshold = 0.5
	l := mustNew(t, cfg)

	buf := noise32(2*RateDAT, 2.0, 1)
	for pos := 0; pos < len(buf); pos += 2 * 256 {
		end := min(pos+2*256, len(buf))
		require.NoError(t, l.ProcessInterleaved(buf[pos:end], (end-pos)/2))
	}

	testutil.AssertNoNaNOrInf(t, buf)
	testutil.AssertPeakAtMost(t, buf, 0.5)
	assert.Positive(t, l.MaxGainReductionDB())
}

func TestProcessInterleaved_DelayExact(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttackMs = 2
	l := mustNew(t, cfg)
	delay := l.DelaySamples()
	require.Equal(t, 96, delay)

	in := noise32(2*4000, 0.5, 3)
	out := make([]float32, len(in))
	require.NoError(t, l.ProcessInterleavedTo(out, in, len(in)/2))

	testutil.AssertDelayedCopy(t, in, out, delay, 2)
}

func TestProcessInterleavedTo_LeavesSource(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 0.25
	l := mustNew(t, cfg)

	in := noise32(2*2048, 1.0, 4)
	orig := append([]float32(nil), in...)
	out := make([]float32, len(in))
	require.NoError(t, l.ProcessInterleavedTo(out, in, len(in)/2))

	assert.Equal(t, orig, in)
	testutil.AssertPeakAtMost(t, out, 0.25)
}

func TestProcessPlanar_MatchesInterleaved(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttackMs = 3
	cfg.Threshold = 0.3
	a := mustNew(t, cfg)
	b := mustNew(t, cfg)

	left := noise32(3000, 1.0, 5)
	right := noise32(3000, 0.6, 6)
	interleaved := InterleaveToStereo(left, right)

	require.NoError(t, a.ProcessInterleaved(interleaved, len(left)))

	outL := make([]float32, len(left))
	outR := make([]float32, len(right))
	require.NoError(t, b.ProcessPlanarTo([][]float32{outL, outR}, [][]float32{left, right}, len(left)))

	assert.Equal(t, interleaved, InterleaveToStereo(outL, outR))
}

func TestProcess_BufferTooSmall(t *testing.T) {
	l := mustNew(t, DefaultConfig())
	short := make([]float32, 3)

	assert.ErrorIs(t, l.ProcessInterleaved(short, 2), ErrBufferTooSmall)
	assert.ErrorIs(t, l.ProcessInterleavedTo(short, make([]float32, 8), 2), ErrBufferTooSmall)
	assert.ErrorIs(t, l.ProcessPlanar([][]float32{make([]float32, 4)}, 4), ErrBufferTooSmall)
	assert.ErrorIs(t, l.ProcessPlanar([][]float32{make([]float32, 4), short}, 4), ErrBufferTooSmall)
	assert.ErrorIs(t, l.ProcessInterleaved(short, -1), ErrInvalidParameter)

	require.NoError(t, l.ProcessInterleaved(nil, 0))
}

func TestSetters(t *testing.T) {
	cfg := Config{
		MaxAttackMs:   10,
		ReleaseMs:     30,
		Threshold:     1,
		MaxChannels:   4,
		MaxSampleRate: RateDAT,
	}
	l := mustNew(t, cfg)
	require.Equal(t, 480, l.DelaySamples())

	require.NoError(t, l.SetAttack(5))
	assert.Equal(t, 240, l.DelaySamples())
	assert.ErrorIs(t, l.SetAttack(10.5), ErrInvalidParameter)
	assert.ErrorIs(t, l.SetAttack(math.NaN()), ErrInvalidParameter)
	assert.Equal(t, 240, l.DelaySamples())

	require.NoError(t, l.SetSampleRate(RateCD))
	assert.Equal(t, 220, l.DelaySamples())
	assert.ErrorIs(t, l.SetSampleRate(RateHiRes96), ErrInvalidParameter)
	assert.ErrorIs(t, l.SetSampleRate(0), ErrInvalidParameter)
	assert.Equal(t, RateCD, l.SampleRate())

	require.NoError(t, l.SetChannels(1))
	assert.Equal(t, 1, l.Channels())
	assert.ErrorIs(t, l.SetChannels(5), ErrInvalidParameter)
	assert.ErrorIs(t, l.SetChannels(0), ErrInvalidParameter)
	assert.Equal(t, 1, l.Channels())

	require.NoError(t, l.SetRelease(100))
	assert.InDelta(t, 100, l.ReleaseMs(), 1e-12)

	require.NoError(t, l.SetThreshold(0.5))
	assert.InDelta(t, 0.5, l.Threshold(), 1e-7)
	assert.InDelta(t, -6.0206, l.ThresholdDB(), 1e-3)
}

func TestSetSampleRate_AttackBelowOneSample(t *testing.T) {
	cfg := Config{
		MaxAttackMs:   0.05,
		ReleaseMs:     20,
		Threshold:     1,
		MaxChannels:   1,
		MaxSampleRate: RateDAT,
	}
	l := mustNew(t, cfg)
	require.Equal(t, 2, l.DelaySamples())

	// 0.05 ms at 8 kHz is 0.4 samples.
	err := l.SetSampleRate(8000)
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, StatusInvalidParameter, StatusOf(err))
	assert.Equal(t, RateDAT, l.SampleRate())
	assert.Equal(t, 2, l.DelaySamples())
}

func TestReset_MatchesFreshLimiter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttackMs = 4
	cfg.Threshold = 0.4

	used := mustNew(t, cfg)
	warm := noise32(2*5000, 1.5, 7)
	require.NoError(t, used.ProcessInterleaved(warm, len(warm)/2))
	require.NoError(t, used.Reset())
	assert.Zero(t, used.MaxGainReductionDB())

	fresh := mustNew(t, cfg)

	a := noise32(2*3000, 1.0, 8)
	b := append([]float32(nil), a...)
	require.NoError(t, used.ProcessInterleaved(a, len(a)/2))
	require.NoError(t, fresh.ProcessInterleaved(b, len(b)/2))
	assert.Equal(t, b, a)
}

func TestNewFloat64_Impulse(t *testing.T) {
	l, err := NewFloat64(&Config{
		MaxAttackMs:   20,
		ReleaseMs:     20,
		Threshold:     0.5,
		MaxChannels:   1,
		MaxSampleRate: RateDAT,
	})
	require.NoError(t, err)

	buf := make([]float64, 2000)
	buf[0] = 1.0
	require.NoError(t, l.ProcessInterleaved(buf, len(buf)))

	testutil.AssertAllZero(t, buf[:960])
	assert.InDelta(t, 0.5, buf[960], 1e-3)
	testutil.AssertAllZero(t, buf[961:])
	testutil.AssertPeakAtMost(t, buf, 0.5)
}

func TestProcess_DoesNotAllocate(t *testing.T) {
	l := mustNew(t, DefaultConfig())
	buf := noise32(2*512, 2.0, 9)
	left := make([]float32, 512)
	right := make([]float32, 512)
	planes := [][]float32{left, right}

	allocs := testing.AllocsPerRun(50, func() {
		_ = l.ProcessInterleaved(buf, 512)
		_ = l.ProcessPlanar(planes, 512)
	})
	assert.Zero(t, allocs)
}

func TestGetInfo(t *testing.T) {
	l := mustNew(t, DefaultConfig())
	info := l.GetInfo()

	assert.NotEmpty(t, info.Algorithm)
	assert.Equal(t, 960, info.DelaySamples)
	assert.Equal(t, 31, info.SectionLen)
	assert.Equal(t, 31, info.Sections)
	assert.Equal(t, stereoChannels, info.Channels)
	assert.Equal(t, RateDAT, info.SampleRate)
	assert.Greater(t, info.MemoryUsage, int64(adapterBlockFrames*stereoChannels*bytesPerFloat32))
	assert.NotEmpty(t, info.SIMDType)

	require.NoError(t, l.SetAttack(1))
	assert.Equal(t, 48, l.GetInfo().DelaySamples)
	assert.Equal(t, 7, l.GetInfo().SectionLen)
}
