package engine

// MaxTracker reports the maximum of a trailing window of samples with
// amortised O(1) work per sample.
//
// The window is split into sections of floor(sqrt(window)) samples. Each
// section keeps its running maximum and the buffer index holding it, so a new
// sample costs one compare unless it overwrites that index, in which case
// the section is rescanned. Closed sections feed a second tier that keeps the
// maximum over all section maxima and is rescanned only when the slot holding
// it is reused.
//
// Buffers are allocated once for the largest window and resliced by Resize.
type MaxTracker[F Float] struct {
	samples    []F   // circular store of pushed values
	sectionMax []F   // finalized maximum per section slot
	maxIndex   []int // per section slot: index into samples holding its maximum

	window     int
	sectionLen int
	sections   int

	pos          int // next write index into samples
	sectionStart int // index of the first sample of the open section
	sectionFill  int // samples pushed into the open section
	slot         int // section slot being filled
	slowMaxSlot  int // slot holding slowMax

	openMax F // maximum of the open section
	slowMax F // maximum over all closed section slots
}

// NewMaxTracker allocates a tracker that can hold any window up to maxWindow
// samples and configures it for maxWindow.
func NewMaxTracker[F Float](maxWindow int) *MaxTracker[F] {
	if maxWindow < 2 {
		maxWindow = 2
	}
	sampleCap, sectionCap := trackerCapacity(maxWindow)

	m := &MaxTracker[F]{
		samples:    make([]F, sampleCap),
		sectionMax: make([]F, sectionCap),
		maxIndex:   make([]int, sectionCap),
	}
	m.Resize(maxWindow)

	return m
}

// Resize re-derives the section layout for a new window length within the
// allocated capacity and resets all state. It reports false, leaving the
// tracker unchanged, if window does not fit.
func (m *MaxTracker[F]) Resize(window int) bool {
	if window < 2 {
		return false
	}
	sectionLen, sections := sectionLayout(window)
	if sectionLen*sections > cap(m.samples) || sections > cap(m.sectionMax) {
		return false
	}

	m.window = window
	m.sectionLen = sectionLen
	m.sections = sections
	m.samples = m.samples[:sectionLen*sections]
	m.sectionMax = m.sectionMax[:sections]
	m.maxIndex = m.maxIndex[:sections]
	m.Reset()

	return true
}

// Reset zeroes all buffers and cursors. The layout is kept.
func (m *MaxTracker[F]) Reset() {
	clear(m.samples)
	clear(m.sectionMax)
	clear(m.maxIndex)

	m.pos = 0
	m.sectionStart = 0
	m.sectionFill = 0
	m.slot = 0
	m.slowMaxSlot = 0
	m.openMax = 0
	m.slowMax = 0
}

// Push stores v as the newest sample and returns the maximum over the last
// Window() samples, v included. Positions not yet written count as zero.
func (m *MaxTracker[F]) Push(v F) F {
	m.samples[m.pos] = v

	if m.maxIndex[m.slot] == m.pos {
		// Overwrote the sample holding the section maximum.
		m.rescanSection()
	} else if v > m.openMax {
		m.openMax = v
		m.maxIndex[m.slot] = m.pos
	}

	peak := max(m.slowMax, m.openMax)

	m.pos++
	m.sectionFill++
	if m.sectionFill >= m.sectionLen || m.pos >= m.window {
		m.closeSection()
	}
	if m.pos >= m.window {
		m.pos = 0
		m.sectionStart = 0
	}

	return peak
}

func (m *MaxTracker[F]) rescanSection() {
	best := m.samples[m.sectionStart]
	bestIdx := m.sectionStart
	for j := m.sectionStart + 1; j < m.sectionStart+m.sectionLen; j++ {
		if m.samples[j] > best {
			best = m.samples[j]
			bestIdx = j
		}
	}
	m.openMax = best
	m.maxIndex[m.slot] = bestIdx
}

// closeSection commits the open section's maximum and opens the next slot,
// seeded with the maximum that slot held one window ago (those samples are
// still in the buffer until overwritten).
func (m *MaxTracker[F]) closeSection() {
	m.sectionFill = 0

	committed := m.slot
	m.sectionMax[committed] = m.openMax
	stale := m.slowMaxSlot == committed

	m.slot++
	if m.slot >= m.sections {
		m.slot = 0
	}
	if m.slowMaxSlot == m.slot {
		stale = true
	}

	m.openMax = m.sectionMax[m.slot]
	m.sectionMax[m.slot] = 0

	if stale {
		m.rescanSlow()
	} else if m.sectionMax[committed] > m.slowMax {
		m.slowMax = m.sectionMax[committed]
		m.slowMaxSlot = committed
	}

	m.sectionStart += m.sectionLen
}

func (m *MaxTracker[F]) rescanSlow() {
	m.slowMax = 0
	for j, v := range m.sectionMax {
		if v > m.slowMax {
			m.slowMax = v
			m.slowMaxSlot = j
		}
	}
}

// Window returns the tracked window length in samples.
func (m *MaxTracker[F]) Window() int { return m.window }

// SectionLen returns the number of samples per section.
func (m *MaxTracker[F]) SectionLen() int { return m.sectionLen }

// Sections returns the number of section slots.
func (m *MaxTracker[F]) Sections() int { return m.sections }

// MemoryUsage returns the allocated state size in bytes.
func (m *MaxTracker[F]) MemoryUsage() int64 {
	return int64(cap(m.samples)+cap(m.sectionMax))*bytesPer[F]() +
		int64(cap(m.maxIndex))*bytesPerIndex
}
