package limiter

import (
	"fmt"
	"math"

	"github.com/go-audio/audio"

	"github.com/tphakala/go-audio-limiter/internal/engine"
	"github.com/tphakala/go-audio-limiter/internal/simdops"
)

// ProcessFloat32Buffer limits an interleaved go-audio float buffer in place.
// The buffer format must match the limiter's channel count and sample rate,
// and the data must hold whole frames. Conversion to F goes through a block
// allocated at construction, so the call does not allocate.
func (l *Limiter[F]) ProcessFloat32Buffer(buf *audio.Float32Buffer) error {
	e, err := l.handle()
	if err != nil {
		return err
	}
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", ErrFormatMismatch)
	}
	frames, err := checkFormat(e, buf.Format, len(buf.Data))
	if err != nil {
		return err
	}

	ch := e.Channels()
	for pos := 0; pos < frames; pos += adapterBlockFrames {
		n := min(adapterBlockFrames, frames-pos)
		src := buf.Data[pos*ch : (pos+n)*ch]
		block := l.scratch[:len(src)]
		for i, v := range src {
			block[i] = F(v)
		}
		e.ProcessInterleaved(block, n)
		for i, v := range block {
			src[i] = float32(v)
		}
	}
	return nil
}

// ProcessIntBuffer limits an interleaved go-audio integer PCM buffer in place.
// Samples are signed and scaled by the full-scale value of SourceBitDepth
// (16, 24 or 32; anything else is treated as 16), so a threshold of 1.0
// corresponds to digital full scale.
//
// A float32 limiter holds 24 bits of mantissa: 32-bit samples are rounded
// to that precision even when no limiting occurs. Use a float64 limiter for
// bit-exact pass-through of 32-bit PCM.
func (l *Limiter[F]) ProcessIntBuffer(buf *audio.IntBuffer) error {
	e, err := l.handle()
	if err != nil {
		return err
	}
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", ErrFormatMismatch)
	}
	frames, err := checkFormat(e, buf.Format, len(buf.Data))
	if err != nil {
		return err
	}

	maxVal := fullScale(buf.SourceBitDepth)
	minVal := -maxVal - 1
	scale := F(1 / maxVal)
	unscale := F(maxVal)
	ops := simdops.For[F]()

	ch := e.Channels()
	for pos := 0; pos < frames; pos += adapterBlockFrames {
		n := min(adapterBlockFrames, frames-pos)
		src := buf.Data[pos*ch : (pos+n)*ch]
		block := l.scratch[:len(src)]
		for i, v := range src {
			block[i] = F(v)
		}
		ops.Scale(block, block, scale)
		e.ProcessInterleaved(block, n)
		ops.Scale(block, block, unscale)
		for i, v := range block {
			src[i] = int(max(minVal, min(maxVal, math.Round(float64(v)))))
		}
	}
	return nil
}

func checkFormat[F Float](e *engine.Engine[F], f *audio.Format, samples int) (int, error) {
	if f == nil {
		return 0, fmt.Errorf("%w: buffer has no format", ErrFormatMismatch)
	}
	if f.NumChannels != e.Channels() {
		return 0, fmt.Errorf("%w: %d channels, limiter has %d", ErrFormatMismatch, f.NumChannels, e.Channels())
	}
	if f.SampleRate != e.SampleRate() {
		return 0, fmt.Errorf("%w: %d Hz, limiter runs at %d Hz", ErrFormatMismatch, f.SampleRate, e.SampleRate())
	}
	if samples%f.NumChannels != 0 {
		return 0, fmt.Errorf("%w: %d samples is not a whole number of %d-channel frames",
			ErrFormatMismatch, samples, f.NumChannels)
	}
	return samples / f.NumChannels, nil
}

func fullScale(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}
