package noisereduce

import (
	"fmt"

	"github.com/cwbudde/noisereduce/dsp/buffer"
	"github.com/cwbudde/noisereduce/dsp/spectrum"
)

// StftEngine is the top-level STFT pipeline (§4.7): it accumulates input
// samples into a sliding frame, windows and transforms each completed
// frame, dispatches to the profile or reduce path, and overlap-adds the
// synthesized result back into an output stream. One engine instance
// serves exactly one pass (profile xor reduce) over one track.
type StftEngine struct {
	cfg          Config
	w            int
	s            int
	h            int
	spectrumSize int
	center       int

	kit  *WindowKit
	fft  FFTHandle
	pool *buffer.Pool

	waveBuf    *buffer.Buffer
	overlapBuf *buffer.Buffer
	scratch    *buffer.Buffer
	reScratch  []float64
	imScratch  []float64

	ring *HistoryRing

	inWavePos     int
	inSampleCount int64
	outStepCount  int64

	profile    bool
	profileAcc *ProfileAccumulator
	classifier *Classifier
	shaper     *GainShaper

	binLow, binHigh int
}

// NewStftEngine constructs an engine for one pass. profileMode selects the
// profile path (ingest power into stats) versus the reduce/isolate/residue
// path (stats is read-only, supplying the noise means). rate is the
// source track's sample rate, used to derive attack/release block counts.
func NewStftEngine(cfg Config, rate float64, profileMode bool, stats *ProfileStatistics) (*StftEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := cfg.WindowSize()
	s := cfg.StepsPerWindow()
	h := cfg.HopSize()
	spectrumSize := cfg.SpectrumSize()
	nExamine := cfg.NExamine()
	center := nExamine / 2

	kit, err := NewWindowKit(cfg.WindowType, w, s)
	if err != nil {
		return nil, err
	}

	fft, err := newPlanFFTHandle(w)
	if err != nil {
		return nil, err
	}

	na := attackReleaseBlocks(cfg.AttackTime, rate, h)
	ringLen := nExamine
	if minLen := center + na + 1; minLen > ringLen {
		ringLen = minLen
	}

	pool := buffer.NewPool()

	e := &StftEngine{
		cfg:          cfg,
		w:            w,
		s:            s,
		h:            h,
		spectrumSize: spectrumSize,
		center:       center,
		kit:          kit,
		fft:          fft,
		pool:         pool,
		waveBuf:      pool.Get(w),
		overlapBuf:   pool.Get(w),
		scratch:      pool.Get(w),
		reScratch:    make([]float64, spectrumSize-2),
		imScratch:    make([]float64, spectrumSize-2),
		ring:         NewHistoryRing(ringLen, spectrumSize, cfg.noiseAttenFactor()),
		profile:      profileMode,
		binLow:       0,
		binHigh:      spectrumSize,
	}

	if profileMode {
		e.profileAcc = NewProfileAccumulator(stats)
		e.inWavePos = 0
		e.outStepCount = -(int64(ringLen) - 1)
	} else {
		e.classifier = NewClassifier(stats.Means, cfg.sensitivityFactor(), cfg.Method, nExamine, e.binLow, e.binHigh)
		e.shaper = NewGainShaper(cfg.NoiseGainDB, cfg.AttackTime, cfg.ReleaseTime, rate, h, cfg.FreqSmoothingBins, spectrumSize)
		e.inWavePos = w - h
		e.outStepCount = -(int64(ringLen) - 1) - int64(s-1)
	}

	return e, nil
}

// attackReleaseBlocks computes 1 + floor(time*rate/hopSize), the block
// count formula shared by the ring-length derivation and GainShaper.
func attackReleaseBlocks(timeSec, rate float64, hopSize int) int {
	if hopSize <= 0 {
		return 1
	}
	blocks := int(timeSec * rate / float64(hopSize))
	return 1 + blocks
}

// Close releases the engine's pooled buffers. Safe to call once after the
// engine is no longer in use.
func (e *StftEngine) Close() {
	e.pool.Put(e.waveBuf)
	e.pool.Put(e.overlapBuf)
	e.pool.Put(e.scratch)
}

// NeedsFlush reports whether the engine still owes output hops relative to
// the samples it has accepted so far (§4.7's end-of-track flush guard).
// Every sample passed to ProcessSamples counts as accepted, zero hops fed
// to flush the engine included, so each zero hop raises both sides of the
// comparison by H.
func (e *StftEngine) NeedsFlush() bool {
	return e.outStepCount*int64(e.h) < e.inSampleCount
}

// ProcessSamples feeds input through the sliding-window pipeline and
// returns any newly produced output samples (possibly none, if no window
// boundary was crossed or the engine is still priming).
func (e *StftEngine) ProcessSamples(input []float32) []float32 {
	var out []float32
	remaining := input

	for len(remaining) > 0 {
		n := e.w - e.inWavePos
		if n > len(remaining) {
			n = len(remaining)
		}

		ws := e.waveBuf.Samples()
		for i := 0; i < n; i++ {
			ws[e.inWavePos+i] = float64(remaining[i])
		}

		e.inWavePos += n
		e.inSampleCount += int64(n)
		remaining = remaining[n:]

		if e.inWavePos != e.w {
			continue
		}

		e.analyzeWindow()

		if e.profile {
			e.profileAcc.IngestPower(e.ring.At(0).Spectrum)
		} else if produced := e.reduceStep(); produced != nil {
			out = append(out, produced...)
		}

		e.outStepCount++
		e.ring.Rotate()

		copy(ws, ws[e.h:])
		for i := e.w - e.h; i < e.w; i++ {
			ws[i] = 0
		}
		e.inWavePos = e.w - e.h
	}

	return out
}

// analyzeWindow windows the current wave buffer, runs the forward FFT, and
// fills the ring's head record (§4.7 "Analyze one window").
func (e *StftEngine) analyzeWindow() {
	scratch := e.scratch.Samples()
	ws := e.waveBuf.Samples()

	if e.kit.InWindow != nil {
		for i, w := range e.kit.InWindow {
			scratch[i] = ws[i] * w
		}
	} else {
		copy(scratch, ws)
	}

	if err := e.fft.Forward(scratch); err != nil {
		// The plan was validated at construction; a forward-transform
		// failure here means the FFT backend itself is broken.
		panic(fmt.Sprintf("noisereduce: forward FFT failed mid-stream: %v", err))
	}

	rec := e.ring.At(0)

	rec.Real[0] = scratch[0]
	rec.Imag[0] = scratch[1]
	rec.Spectrum[0] = rec.Real[0] * rec.Real[0]
	rec.Spectrum[e.spectrumSize-1] = rec.Imag[0] * rec.Imag[0]

	for k := 1; k < e.spectrumSize-1; k++ {
		idx := e.fft.BitReversed(k)
		re, im := scratch[idx], scratch[idx+1]
		rec.Real[k] = re
		rec.Imag[k] = im
		e.reScratch[k-1] = re
		e.imScratch[k-1] = im
	}

	spectrum.PowerFromParts(rec.Spectrum[1:e.spectrumSize-1], e.reScratch, e.imScratch)

	atten := e.cfg.noiseAttenFactor()
	for b := range rec.Gains {
		rec.Gains[b] = atten
	}
}

// reduceStep classifies and shapes gains for the ring's center window, and
// when the tail window is ready, synthesizes and overlap-adds it into the
// output buffer, returning any samples that became ready to emit.
//
// The ring always stores the canonical reduce-mode gain (in
// [mNoiseAttenFactor, 1]), regardless of the configured ReductionMode;
// synthesize derives the mode-specific multiplier from it. This keeps
// isolate's gain the exact complement (1-g) of the shaped, smoothed reduce
// gain rather than an unshaped binary decision, which is what makes the
// isolate+reduce reciprocity invariant hold through attack/release and
// frequency smoothing, not just at a single instant.
func (e *StftEngine) reduceStep() []float32 {
	center := e.ring.At(e.center)

	for b := 0; b < e.spectrumSize; b++ {
		if b < e.binLow || b >= e.binHigh {
			center.Gains[b] = 1
			continue
		}

		if e.classifier.IsNoise(e.ring, e.center, b) {
			center.Gains[b] = e.cfg.noiseAttenFactor()
		} else {
			center.Gains[b] = 1
		}
	}

	e.shaper.Attack(e.ring, e.center)
	e.shaper.Release(e.ring, e.center)

	if e.outStepCount < -(int64(e.s) - 1) {
		return nil
	}

	tailIdx := e.ring.Len() - 1
	tail := e.ring.At(tailIdx)

	e.shaper.SmoothFrequency(tail.Gains)

	e.synthesize(tail)

	if e.outStepCount < 0 {
		return nil
	}

	out := make([]float32, e.h)
	ob := e.overlapBuf.Samples()
	for i := 0; i < e.h; i++ {
		out[i] = float32(ob[i])
	}

	copy(ob, ob[e.h:])
	for i := e.w - e.h; i < e.w; i++ {
		ob[i] = 0
	}

	return out
}

// synthesize builds the inverse-FFT scratch from tail's stored bins times
// the mode-specific multiplier derived from the canonical reduce gain g:
// g itself in reduce mode, g-1 in residue mode (what was removed), or 1-g
// in isolate mode (the exact complement, see reduceStep). Runs the inverse
// FFT and overlap-adds the result into the output buffer through the
// synthesis window.
func (e *StftEngine) synthesize(tail *WindowRecord) {
	scratch := e.scratch.Samples()

	apply := func(g float64) float64 { return g }
	switch e.cfg.Reduction {
	case ModeResidue:
		apply = func(g float64) float64 { return g - 1 }
	case ModeIsolate:
		apply = func(g float64) float64 { return 1 - g }
	}

	g0 := apply(tail.Gains[0])
	gN := apply(tail.Gains[e.spectrumSize-1])
	scratch[0] = tail.Real[0] * g0
	scratch[1] = tail.Imag[0] * gN

	for k := 1; k < e.spectrumSize-1; k++ {
		g := apply(tail.Gains[k])
		idx := e.fft.BitReversed(k)
		scratch[idx] = tail.Real[k] * g
		scratch[idx+1] = tail.Imag[k] * g
	}

	if err := e.fft.Inverse(scratch); err != nil {
		panic(fmt.Sprintf("noisereduce: inverse FFT failed mid-stream: %v", err))
	}

	ob := e.overlapBuf.Samples()
	if e.kit.OutWindow != nil {
		for i, w := range e.kit.OutWindow {
			ob[i] += scratch[i] * w
		}
	} else {
		for i := range ob {
			ob[i] += scratch[i]
		}
	}
}
