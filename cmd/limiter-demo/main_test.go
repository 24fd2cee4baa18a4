package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	limiter "github.com/tphakala/go-audio-limiter"
)

func TestGenerateTestSignal(t *testing.T) {
	const rate = 48000.0
	// Two seconds cover every level step.
	signal := generateTestSignal(2*int(rate), 2, rate, 6)
	require.Len(t, signal, 4*int(rate))

	lv := measure(signal)
	assert.InDelta(t, 6.0, lv.peakDB, 0.1)
	assert.Less(t, lv.rmsDB, lv.peakDB)
}

func TestMeasure(t *testing.T) {
	lv := measure([]float64{0.5, -1, 0.25})
	assert.InDelta(t, 0.0, lv.peakDB, 1e-12)

	empty := measure(nil)
	assert.True(t, math.IsInf(empty.peakDB, -1))
}

func TestProcessBlocks(t *testing.T) {
	l, err := limiter.NewFloat64(&limiter.Config{
		MaxAttackMs:   5,
		ReleaseMs:     50,
		Threshold:     limiter.ThresholdFromDB(-1),
		MaxChannels:   2,
		MaxSampleRate: 48000,
	})
	require.NoError(t, err)

	samples := generateTestSignal(96000, 2, 48000, 6)
	reduction, err := processBlocks(l, samples, 333, false)
	require.NoError(t, err)

	assert.Greater(t, reduction, 5.0)
	assert.LessOrEqual(t, measure(samples).peakDB, -1.0+1e-6)
}
