package noisereduce

import (
	"math"

	"github.com/cwbudde/noisereduce/dsp/core"
)

// GainShaper applies temporal attack/release shaping and frequency
// smoothing to a HistoryRing's gain vectors (§4.6).
type GainShaper struct {
	noiseAttenFactor float64
	attackStep       float64 // per-step linear multiplier, < 1
	releaseStep      float64 // per-step linear multiplier, < 1
	freqSmoothing    int

	// logScratch/smoothScratch back SmoothFrequency; preallocated here so
	// no per-hop call allocates (§5's no-allocation-in-the-sample-loop rule).
	logScratch    []float64
	smoothScratch []float64
}

// NewGainShaper derives the per-step attack/release multipliers from the
// configured noise gain and attack/release times, following §4.6's formula:
// a = DB_TO_LINEAR(-G/NA), r = DB_TO_LINEAR(-G/NR), where NA/NR are the
// attack/release block counts = 1 + floor(time*rate/H). spectrumSize sizes
// the frequency-smoothing scratch buffers.
func NewGainShaper(noiseGainDB, attackTime, releaseTime, rate float64, hopSize, freqSmoothingBins, spectrumSize int) *GainShaper {
	na := 1 + int(math.Floor(attackTime*rate/float64(hopSize)))
	nr := 1 + int(math.Floor(releaseTime*rate/float64(hopSize)))

	return &GainShaper{
		noiseAttenFactor: core.DBToLinear(-noiseGainDB),
		attackStep:       core.DBToLinear(-noiseGainDB / float64(na)),
		releaseStep:      core.DBToLinear(-noiseGainDB / float64(nr)),
		freqSmoothing:    freqSmoothingBins,
		logScratch:       make([]float64, spectrumSize),
		smoothScratch:    make([]float64, spectrumSize),
	}
}

// Attack walks the ring forward from center+1 to the tail, raising each
// band's gain toward 1 no faster than the attack envelope allows, per
// §4.6: stop as soon as the existing curve already covers the decay.
func (g *GainShaper) Attack(ring *HistoryRing, center int) {
	spectrumSize := len(ring.At(center).Gains)

	for b := 0; b < spectrumSize; b++ {
		for i := center + 1; i < ring.Len(); i++ {
			prev := ring.At(i - 1).Gains[b]
			candidate := math.Max(g.noiseAttenFactor, prev*g.attackStep)

			cur := ring.At(i).Gains[b]
			if cur < candidate {
				ring.At(i).Gains[b] = candidate
			} else {
				break
			}
		}
	}
}

// Release updates the single window immediately before center, per §4.6:
// gains[Center-1][b] = max(gains[Center-1][b], max(floor, gains[Center][b]*r)).
func (g *GainShaper) Release(ring *HistoryRing, center int) {
	centerGains := ring.At(center).Gains
	prevGains := ring.At(center - 1).Gains

	for b := range centerGains {
		candidate := math.Max(g.noiseAttenFactor, centerGains[b]*g.releaseStep)
		prevGains[b] = math.Max(prevGains[b], candidate)
	}
}

// SmoothFrequency applies geometric-mean smoothing (arithmetic mean of
// logs, then exponentiate) across a symmetric bin-window of half-width
// freqSmoothing, clipped to the valid bin range. A half-width of 0 is a
// no-op, satisfying invariant 5's idempotence requirement.
func (g *GainShaper) SmoothFrequency(gains []float64) {
	if g.freqSmoothing <= 0 {
		return
	}

	n := len(gains)
	logs := g.logScratch[:n]
	for i, v := range gains {
		logs[i] = math.Log(v)
	}

	smoothed := g.smoothScratch[:n]
	for i := range gains {
		lo := i - g.freqSmoothing
		if lo < 0 {
			lo = 0
		}
		hi := i + g.freqSmoothing
		if hi > n-1 {
			hi = n - 1
		}

		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += logs[j]
		}
		smoothed[i] = math.Exp(sum / float64(hi-lo+1))
	}

	copy(gains, smoothed)
}
