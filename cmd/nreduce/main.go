// Command nreduce runs the two-pass spectral noise reduction effect over
// raw mono float32 PCM files (little-endian, no header -- this module's
// example pack carries no WAV/audio-container library, so the CLI speaks
// the simplest format the standard library can read and write directly).
//
// Usage:
//
//	nreduce -profile noise.f32 -rate 44100 input.f32 output.f32
//
// Without -profile, nreduce captures the profile from the input file
// itself over [-profile-start, -profile-end) before reducing the whole
// file.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cwbudde/noisereduce/dsp/noisereduce"
)

func main() {
	rate := flag.Float64("rate", 44100, "sample rate in Hz")
	profilePath := flag.String("profile", "", "path to a separate noise-only profile file; defaults to a region of the input")
	profileStart := flag.Int64("profile-start", 0, "profile region start sample, when -profile is not given")
	profileEnd := flag.Int64("profile-end", 0, "profile region end sample (0 = one second), when -profile is not given")

	sensitivity := flag.Float64("sensitivity", 6.0, "classification sensitivity (-log10 tail probability)")
	noiseGain := flag.Float64("noisegain", 12.0, "noise attenuation in dB")
	attack := flag.Float64("attack", 0.02, "attack time in seconds")
	release := flag.Float64("release", 0.10, "release time in seconds")
	smoothing := flag.Int("smoothing", 3, "frequency smoothing half-width in bins")
	windowSizeChoice := flag.Int("windowsize", 3, "window size choice index (0..5 -> 256..8192)")
	stepsChoice := flag.Int("steps", 1, "steps-per-window choice index (0..4 -> 2..32)")
	windowType := flag.Int("windowtype", 2, "window type table index (0..6)")
	mode := flag.String("mode", "reduce", "reduction mode: reduce, isolate, or residue")
	method := flag.String("method", "secondgreatest", "classification method: secondgreatest or median")
	verbose := flag.Bool("v", false, "enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nreduce [flags] input.f32 output.f32\n\n")
		fmt.Fprintf(os.Stderr, "Runs two-pass spectral noise reduction over raw mono float32 PCM.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	inputPath, outputPath := flag.Arg(0), flag.Arg(1)

	reductionMode, err := parseMode(*mode)
	if err != nil {
		logger.Error("invalid -mode", "error", err)
		os.Exit(1)
	}

	classifyMethod, err := parseMethod(*method)
	if err != nil {
		logger.Error("invalid -method", "error", err)
		os.Exit(1)
	}

	cfg := noisereduce.ApplyOptions(
		noisereduce.WithSensitivity(*sensitivity),
		noisereduce.WithNoiseGainDB(*noiseGain),
		noisereduce.WithAttackTime(*attack),
		noisereduce.WithReleaseTime(*release),
		noisereduce.WithFreqSmoothingBins(*smoothing),
		noisereduce.WithReductionMode(reductionMode),
		noisereduce.WithWindowType(*windowType),
		noisereduce.WithWindowSizeChoice(*windowSizeChoice),
		noisereduce.WithStepsPerWindowChoice(*stepsChoice),
		noisereduce.WithMethod(classifyMethod),
	)

	samples, err := readF32(inputPath)
	if err != nil {
		logger.Error("failed to read input", "path", inputPath, "error", err)
		os.Exit(1)
	}

	driver := noisereduce.NewEffectDriver(cfg, noisereduce.WithLogger(logger))

	if *profilePath != "" {
		profileSamples, err := readF32(*profilePath)
		if err != nil {
			logger.Error("failed to read profile", "path", *profilePath, "error", err)
			os.Exit(1)
		}
		profileTrack := noisereduce.NewMemoryTrack(*rate, profileSamples)
		if err := driver.Capture(profileTrack, 0, profileTrack.Len()); err != nil {
			logger.Error("profile capture failed", "error", err)
			os.Exit(1)
		}
	} else {
		end := *profileEnd
		if end == 0 {
			end = int64(*rate)
		}
		profileTrack := noisereduce.NewMemoryTrack(*rate, samples)
		if err := driver.Capture(profileTrack, *profileStart, end); err != nil {
			logger.Error("profile capture failed", "error", err)
			os.Exit(1)
		}
	}

	track := noisereduce.NewMemoryTrack(*rate, samples)
	if err := driver.Reduce(track); err != nil {
		logger.Error("reduce failed", "error", err)
		os.Exit(1)
	}

	if err := writeF32(outputPath, track.Samples()); err != nil {
		logger.Error("failed to write output", "path", outputPath, "error", err)
		os.Exit(1)
	}
}

func parseMode(s string) (noisereduce.ReductionMode, error) {
	switch s {
	case "reduce":
		return noisereduce.ModeReduce, nil
	case "isolate":
		return noisereduce.ModeIsolate, nil
	case "residue":
		return noisereduce.ModeResidue, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want reduce, isolate, or residue)", s)
	}
}

func parseMethod(s string) (noisereduce.Method, error) {
	switch s {
	case "secondgreatest":
		return noisereduce.MethodSecondGreatest, nil
	case "median":
		return noisereduce.MethodMedian, nil
	default:
		return 0, fmt.Errorf("unknown method %q (want secondgreatest or median)", s)
	}
}

func readF32(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []float32
	for {
		var v float32
		if err := binary.Read(f, binary.LittleEndian, &v); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func writeF32(path string, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, v := range samples {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}
