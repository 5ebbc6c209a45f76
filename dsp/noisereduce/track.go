package noisereduce

import "fmt"

// Track is the host audio-track abstraction this effect consumes. It is
// intentionally narrow: random-access read of source samples, append of
// output samples, and a splice to replace a region with processed output.
// A production host adapter (preference storage, UI, progress reporting)
// is out of scope for this core.
type Track interface {
	// Rate returns the track's sample rate in samples/sec.
	Rate() float64
	// Len returns the number of samples currently in the track.
	Len() int64
	// Get reads count samples starting at startSample into dst.
	Get(dst []float32, startSample int64, count int) error
	// NewOutput creates an empty companion track at the given rate to
	// receive appended output samples.
	NewOutput(rate float64) Track
	// Append adds samples to the end of the track.
	Append(src []float32) error
	// Flush finalizes any buffered append operations.
	Flush() error
	// ClearAndPaste replaces [start, end) with the contents of src.
	ClearAndPaste(start, end int64, src Track) error
}

// MemoryTrack is a minimal in-memory Track used by the tests and by
// cmd/nreduce. It is not a host adapter: production hosts provide their own
// Track implementation.
type MemoryTrack struct {
	rate    float64
	samples []float32
}

// NewMemoryTrack wraps samples as a Track at the given sample rate.
func NewMemoryTrack(rate float64, samples []float32) *MemoryTrack {
	return &MemoryTrack{rate: rate, samples: samples}
}

// Rate returns the track's sample rate.
func (t *MemoryTrack) Rate() float64 { return t.rate }

// Len returns the number of samples in the track.
func (t *MemoryTrack) Len() int64 { return int64(len(t.samples)) }

// Samples returns the underlying slice.
func (t *MemoryTrack) Samples() []float32 { return t.samples }

// Get reads count samples starting at startSample into dst, zero-filling
// any portion that falls outside the track.
func (t *MemoryTrack) Get(dst []float32, startSample int64, count int) error {
	if startSample < 0 || count < 0 {
		return fmt.Errorf("noisereduce: invalid read range start=%d count=%d", startSample, count)
	}
	for i := 0; i < count && i < len(dst); i++ {
		idx := startSample + int64(i)
		if idx >= 0 && idx < int64(len(t.samples)) {
			dst[i] = t.samples[idx]
		} else {
			dst[i] = 0
		}
	}
	return nil
}

// NewOutput creates an empty MemoryTrack at the given rate.
func (t *MemoryTrack) NewOutput(rate float64) Track {
	return &MemoryTrack{rate: rate}
}

// Append adds samples to the end of the track.
func (t *MemoryTrack) Append(src []float32) error {
	t.samples = append(t.samples, src...)
	return nil
}

// Flush is a no-op for MemoryTrack.
func (t *MemoryTrack) Flush() error { return nil }

// ClearAndPaste replaces [start, end) with src's full contents.
func (t *MemoryTrack) ClearAndPaste(start, end int64, src Track) error {
	if start < 0 || end < start || end > int64(len(t.samples)) {
		return fmt.Errorf("noisereduce: invalid splice range [%d,%d) over %d samples", start, end, len(t.samples))
	}

	srcMem, ok := src.(*MemoryTrack)
	if !ok {
		return fmt.Errorf("noisereduce: ClearAndPaste requires a *MemoryTrack source")
	}

	out := make([]float32, 0, int64(len(t.samples))-(end-start)+int64(len(srcMem.samples)))
	out = append(out, t.samples[:start]...)
	out = append(out, srcMem.samples...)
	out = append(out, t.samples[end:]...)
	t.samples = out
	return nil
}
