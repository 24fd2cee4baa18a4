package main

// Default command-line flag values
const (
	defaultAttackMs   = "5"     // Lookahead in ms
	defaultReleaseMs  = "50"    // Release in ms
	defaultCeilingDB  = "-1"    // Ceiling in dBFS
	defaultChannels   = "2"     // Stereo
	defaultSampleRate = "48000" // DAT/DVD sample rate
	defaultDuration   = "2"     // Seconds of test signal
	defaultBlockSize  = "512"   // Frames per block
	defaultDriveDB    = "6"     // Test signal level above full scale
)

// Test signal parameters
const (
	testSignalFrequency = 1000.0 // 1 kHz test tone
	channelDetuneHz     = 3.0    // Per-channel frequency offset
	burstPeriodSeconds  = 0.5    // Level steps every half second
	burstLevels         = 4      // Number of level steps in one cycle
)

// Demo attack times for the comparison run
var demoAttackTimesMs = []float64{0.5, 2, 5, 20}

// Memory conversion
const (
	bytesPerKilobyte = 1024
)
