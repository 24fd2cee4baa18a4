package engine

// DelayLine holds the last Length() frames of raw input, interleaved by channel.
// Capacity is fixed at construction; Configure reslices within it.
type DelayLine[F Float] struct {
	buf      []F
	length   int
	channels int
	pos      int
}

// NewDelayLine allocates room for maxLength frames of maxChannels samples.
func NewDelayLine[F Float](maxLength, maxChannels int) *DelayLine[F] {
	d := &DelayLine[F]{buf: make([]F, maxLength*maxChannels)}
	d.Configure(maxLength, maxChannels)
	return d
}

// Configure sets the delay length and channel count and clears the line.
// It reports false, leaving the line unchanged, if they do not fit.
func (d *DelayLine[F]) Configure(length, channels int) bool {
	if length < 1 || channels < 1 || length*channels > cap(d.buf) {
		return false
	}
	d.length = length
	d.channels = channels
	d.buf = d.buf[:length*channels]
	d.Reset()
	return true
}

// Reset zeroes the stored samples and rewinds the cursor.
func (d *DelayLine[F]) Reset() {
	clear(d.buf)
	d.pos = 0
}

// Tap returns the frame at the cursor: on read it holds the input from
// Length() frames ago, and the caller overwrites it with the new input.
func (d *DelayLine[F]) Tap() []F {
	off := d.pos * d.channels
	return d.buf[off : off+d.channels : off+d.channels]
}

// Advance moves the cursor to the next frame.
func (d *DelayLine[F]) Advance() {
	d.pos++
	if d.pos >= d.length {
		d.pos = 0
	}
}

// Length returns the delay in frames.
func (d *DelayLine[F]) Length() int { return d.length }

// MemoryUsage returns the allocated size in bytes.
func (d *DelayLine[F]) MemoryUsage() int64 {
	return int64(cap(d.buf)) * bytesPer[F]()
}
