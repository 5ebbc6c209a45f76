package noisereduce

import (
	"github.com/cwbudde/noisereduce/dsp/window"
)

// windowTypeInfo describes one entry of the window-type table: raised-cosine
// analysis coefficients (c0,c1,c2), synthesis coefficients (d0,d1,d2), the
// minimum steps-per-window it supports, and the overlap-add product constant
// K used to derive the synthesis scale M = 1/(K*S).
type windowTypeInfo struct {
	name                string
	minSteps            int
	analysis            []float64
	synthesis           []float64
	reciprocalSynthesis bool
	k                   float64
}

// windowTypeTable holds the seven analysis/synthesis window combinations.
// Coefficient values are taken verbatim from the window-type table: they
// match this module's dsp/window raised-cosine coefficients (hannCoeffs,
// hammingCoeffs, blackmanCoeffs).
var windowTypeTable = []windowTypeInfo{
	{name: "None/Hann", minSteps: 2, analysis: nil, synthesis: []float64{0.5, -0.5}, k: 0.5},
	{name: "Hann/None", minSteps: 2, analysis: []float64{0.5, -0.5}, synthesis: nil, k: 0.5},
	{name: "Hann/Hann", minSteps: 4, analysis: []float64{0.5, -0.5}, synthesis: []float64{0.5, -0.5}, k: 0.375},
	{name: "Blackman/Hann", minSteps: 4, analysis: []float64{0.42, -0.5, 0.08}, synthesis: []float64{0.5, -0.5}, k: 0.335},
	{name: "Hamming/None", minSteps: 2, analysis: []float64{0.54, -0.46}, synthesis: nil, k: 0.54},
	{name: "Hamming/Hann", minSteps: 4, analysis: []float64{0.54, -0.46}, synthesis: []float64{0.5, -0.5}, k: 0.385},
	{name: "Hamming/Reciprocal", minSteps: 2, analysis: []float64{0.54, -0.46}, reciprocalSynthesis: true, k: 1.0},
}

// WindowKit holds the precomputed analysis and synthesis window coefficient
// arrays for one (windowType, W, S) combination. The overlap-add scaling
// constant is not stored on its own: it is folded into OutWindow, or into
// InWindow when the synthesis window is rectangular.
type WindowKit struct {
	InWindow  []float64 // nil if the analysis window is rectangular
	OutWindow []float64 // nil if the synthesis window is rectangular
}

// NewWindowKit builds the WindowKit for windowType (an index into the
// window-type table) over a window of length w with s steps per window.
func NewWindowKit(windowType, w, s int) (*WindowKit, error) {
	if windowType < 0 || windowType >= len(windowTypeTable) {
		return nil, wrapConfigInvalid("window type out of range: %d", windowType)
	}
	if w <= 0 || s <= 0 {
		return nil, wrapConfigInvalid("window size and steps-per-window must be > 0: w=%d s=%d", w, s)
	}

	info := windowTypeTable[windowType]
	m := 1 / (info.k * float64(s))

	kit := &WindowKit{}

	if info.analysis != nil {
		kit.InWindow = window.Generate(window.TypeFreeCosine, w, window.WithPeriodic(), window.WithCustomCoeffs(info.analysis))
	}

	switch {
	case info.reciprocalSynthesis:
		if kit.InWindow == nil {
			return nil, wrapConfigInvalid("reciprocal synthesis requires a non-rectangular analysis window")
		}
		out := make([]float64, w)
		for i, v := range kit.InWindow {
			out[i] = m / v
		}
		kit.OutWindow = out
	case info.synthesis != nil:
		out := window.Generate(window.TypeFreeCosine, w, window.WithPeriodic(), window.WithCustomCoeffs(info.synthesis))
		for i := range out {
			out[i] *= m
		}
		kit.OutWindow = out
	}

	if kit.InWindow != nil && kit.OutWindow == nil {
		// Synthesis side is rectangular, so the overlap-add scale has to be
		// folded into the analysis window instead.
		scaled := make([]float64, len(kit.InWindow))
		for i, v := range kit.InWindow {
			scaled[i] = v * m
		}
		kit.InWindow = scaled
	}

	return kit, nil
}

// minStepsForType returns the minimum steps-per-window for a window type id,
// or an error if the id is out of range.
func minStepsForType(windowType int) (int, error) {
	if windowType < 0 || windowType >= len(windowTypeTable) {
		return 0, wrapConfigInvalid("window type out of range: %d", windowType)
	}
	return windowTypeTable[windowType].minSteps, nil
}
