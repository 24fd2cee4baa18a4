package main

import (
	"fmt"
	"log"
	"math"

	"github.com/alecthomas/kong"
	"gonum.org/v1/gonum/floats"

	limiter "github.com/tphakala/go-audio-limiter"
)

// CLI defines the command-line interface
type CLI struct {
	Attack     float64 `default:"${attack}" help:"Lookahead (attack) time in ms"`
	Release    float64 `default:"${release}" help:"Release time in ms"`
	Ceiling    float64 `default:"${ceiling}" help:"Output ceiling in dBFS"`
	Channels   int     `default:"${channels}" help:"Number of audio channels"`
	SampleRate int     `name:"sample-rate" default:"${rate}" help:"Sample rate in Hz"`
	Duration   float64 `default:"${duration}" help:"Test signal length in seconds"`
	BlockSize  int     `name:"block-size" default:"${block}" help:"Frames per processing block"`
	Drive      float64 `default:"${drive}" help:"Test signal peak level above full scale in dB"`
	Demo       bool    `help:"Run a comparison of attack times"`
	Verbose    bool    `short:"v" help:"Log gain reduction per block"`
}

func main() {
	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("limiter-demo"),
		kong.Description("Lookahead peak limiter demonstration"),
		kong.UsageOnError(),
		kong.Vars{
			"attack":   defaultAttackMs,
			"release":  defaultReleaseMs,
			"ceiling":  defaultCeilingDB,
			"channels": defaultChannels,
			"rate":     defaultSampleRate,
			"duration": defaultDuration,
			"block":    defaultBlockSize,
			"drive":    defaultDriveDB,
		},
	)

	if cli.BlockSize < 1 {
		log.Fatalf("Block size must be at least 1, got %d", cli.BlockSize)
	}

	if cli.Demo {
		runDemo(cli)
		return
	}

	config := limiter.Config{
		MaxAttackMs:   cli.Attack,
		ReleaseMs:     cli.Release,
		Threshold:     limiter.ThresholdFromDB(cli.Ceiling),
		MaxChannels:   cli.Channels,
		MaxSampleRate: cli.SampleRate,
	}

	l, err := limiter.NewFloat64(&config)
	if err != nil {
		log.Fatalf("Failed to create limiter: %v", err)
	}
	defer func() { _ = l.Close() }()

	info := l.GetInfo()
	fmt.Printf("Limiter created:\n")
	fmt.Printf("  Algorithm: %s\n", info.Algorithm)
	fmt.Printf("  Ceiling: %.2f dBFS (%.4f linear)\n", l.ThresholdDB(), l.Threshold())
	fmt.Printf("  Attack: %g ms, release: %g ms\n", l.AttackMs(), l.ReleaseMs())
	fmt.Printf("  Latency: %d samples (%.2f ms)\n", info.DelaySamples,
		float64(info.DelaySamples)*1000/float64(info.SampleRate))
	fmt.Printf("  Max tracker: %d sections of %d\n", info.Sections, info.SectionLen)
	fmt.Printf("  Memory usage: %.2f KB\n", float64(info.MemoryUsage)/bytesPerKilobyte)
	fmt.Printf("  SIMD: %s\n", info.SIMDType)

	fmt.Println("\nProcessing test signal...")
	frames := int(cli.Duration * float64(cli.SampleRate))
	input := generateTestSignal(frames, cli.Channels, float64(cli.SampleRate), cli.Drive)
	output := append([]float64(nil), input...)

	maxReduction, err := processBlocks(l, output, cli.BlockSize, cli.Verbose)
	if err != nil {
		log.Fatalf("Processing failed: %v", err)
	}

	in, out := measure(input), measure(output)
	fmt.Printf("Frames: %d in %d-frame blocks\n", frames, cli.BlockSize)
	fmt.Printf("Input:  peak %7.2f dBFS, RMS %7.2f dBFS\n", in.peakDB, in.rmsDB)
	fmt.Printf("Output: peak %7.2f dBFS, RMS %7.2f dBFS\n", out.peakDB, out.rmsDB)
	fmt.Printf("Max gain reduction: %.2f dB\n", maxReduction)
}

// processBlocks limits interleaved samples block by block and returns the
// largest gain reduction seen at a block boundary.
func processBlocks(l *limiter.Limiter[float64], samples []float64, blockSize int, verbose bool) (float64, error) {
	channels := l.Channels()
	frames := len(samples) / channels
	maxReduction := 0.0

	for pos, block := 0, 0; pos < frames; pos, block = pos+blockSize, block+1 {
		n := min(blockSize, frames-pos)
		if err := l.ProcessInterleaved(samples[pos*channels:], n); err != nil {
			return 0, err
		}

		gr := l.MaxGainReductionDB()
		maxReduction = math.Max(maxReduction, gr)
		if verbose {
			log.Printf("block %d: frames %d-%d, gain reduction %.2f dB", block, pos, pos+n, gr)
		}
	}

	return maxReduction, nil
}

// generateTestSignal builds an interleaved tone whose level steps up to
// driveDB above full scale and back down, with a slight detune per channel.
func generateTestSignal(frames, channels int, sampleRate, driveDB float64) []float64 {
	signal := make([]float64, frames*channels)
	peak := math.Pow(10, driveDB/20)
	burstFrames := int(burstPeriodSeconds * sampleRate)

	for i := range frames {
		step := 0
		if burstFrames > 0 {
			step = (i / burstFrames) % burstLevels
		}
		level := peak * float64(step+1) / burstLevels

		for ch := range channels {
			freq := testSignalFrequency + channelDetuneHz*float64(ch)
			signal[i*channels+ch] = level * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
		}
	}

	return signal
}

type levels struct {
	peakDB float64
	rmsDB  float64
}

func measure(samples []float64) levels {
	if len(samples) == 0 {
		return levels{peakDB: math.Inf(-1), rmsDB: math.Inf(-1)}
	}
	peak := math.Max(floats.Max(samples), -floats.Min(samples))
	rms := floats.Norm(samples, 2) / math.Sqrt(float64(len(samples)))
	return levels{
		peakDB: 20 * math.Log10(peak),
		rmsDB:  20 * math.Log10(rms),
	}
}

func runDemo(cli *CLI) {
	fmt.Println("=== Go Audio Limiter Demo ===")
	fmt.Printf("Ceiling %.1f dBFS, release %g ms, drive +%g dB, %d Hz\n\n",
		cli.Ceiling, cli.Release, cli.Drive, cli.SampleRate)

	frames := int(cli.Duration * float64(cli.SampleRate))
	input := generateTestSignal(frames, cli.Channels, float64(cli.SampleRate), cli.Drive)
	in := measure(input)
	fmt.Printf("Input: peak %.2f dBFS, RMS %.2f dBFS\n\n", in.peakDB, in.rmsDB)

	for _, attack := range demoAttackTimesMs {
		config := limiter.Config{
			MaxAttackMs:   attack,
			ReleaseMs:     cli.Release,
			Threshold:     limiter.ThresholdFromDB(cli.Ceiling),
			MaxChannels:   cli.Channels,
			MaxSampleRate: cli.SampleRate,
		}

		l, err := limiter.NewFloat64(&config)
		if err != nil {
			fmt.Printf("  %5.1f ms: Error - %v\n", attack, err)
			continue
		}

		output := append([]float64(nil), input...)
		if _, err := processBlocks(l, output, cli.BlockSize, false); err != nil {
			fmt.Printf("  %5.1f ms: Error - %v\n", attack, err)
			continue
		}

		info := l.GetInfo()
		out := measure(output)
		fmt.Printf("  %5.1f ms: %5d samples latency, %7.1f KB, peak %6.2f dBFS, RMS %6.2f dBFS\n",
			attack, info.DelaySamples, float64(info.MemoryUsage)/bytesPerKilobyte, out.peakDB, out.rmsDB)
		_ = l.Close()
	}
}
