package noisereduce

import (
	"math"

	"github.com/cwbudde/noisereduce/dsp/core"
)

// ReductionMode selects how the engine uses the per-band gain decision.
type ReductionMode int

const (
	// ModeReduce suppresses bands classified as noise (the default).
	ModeReduce ReductionMode = iota
	// ModeIsolate outputs the complement of reduce mode: 1-gain instead of
	// gain, so reduce and isolate outputs sum to the input.
	ModeIsolate
	// ModeResidue outputs what reduction removed: gain-1 instead of gain.
	ModeResidue
)

// Method selects the per-band noise classification rule.
type Method int

const (
	// MethodSecondGreatest compares the second-largest power in the
	// classification neighborhood against the threshold (the default).
	MethodSecondGreatest Method = iota
	// MethodMedian compares the median power in the neighborhood against
	// the threshold; only valid for a 3- or 5-window neighborhood.
	MethodMedian
)

// windowSizeChoices enumerates the selectable window sizes, indexed by
// Config.WindowSizeChoice.
var windowSizeChoices = [...]int{256, 512, 1024, 2048, 4096, 8192}

// stepsPerWindowChoices enumerates the selectable steps-per-window values,
// indexed by Config.StepsPerWindowChoice.
var stepsPerWindowChoices = [...]int{2, 4, 8, 16, 32}

// Config holds one effect invocation's settings. Build with DefaultConfig
// and the WithX options, then call Validate before use.
type Config struct {
	Sensitivity          float64
	NoiseGainDB          float64
	AttackTime           float64
	ReleaseTime          float64
	FreqSmoothingBins    int
	Reduction            ReductionMode
	WindowType           int
	WindowSizeChoice     int
	StepsPerWindowChoice int
	Method               Method
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the documented defaults: sensitivity 6.0, noise gain
// 12 dB, attack 20ms, release 100ms, 3-bin frequency smoothing, reduce mode,
// Hann/Hann windowing at W=2048, S=4, second-greatest classification.
func DefaultConfig() Config {
	return Config{
		Sensitivity:          6.0,
		NoiseGainDB:          12.0,
		AttackTime:           0.02,
		ReleaseTime:          0.10,
		FreqSmoothingBins:    3,
		Reduction:            ModeReduce,
		WindowType:           2,
		WindowSizeChoice:     3,
		StepsPerWindowChoice: 1,
		Method:               MethodSecondGreatest,
	}
}

// WithSensitivity sets the -log10(tail probability) threshold parameter.
func WithSensitivity(v float64) Option {
	return func(c *Config) { c.Sensitivity = v }
}

// WithNoiseGainDB sets the noise attenuation floor in dB (positive).
func WithNoiseGainDB(v float64) Option {
	return func(c *Config) { c.NoiseGainDB = v }
}

// WithAttackTime sets the attack time in seconds.
func WithAttackTime(v float64) Option {
	return func(c *Config) { c.AttackTime = v }
}

// WithReleaseTime sets the release time in seconds.
func WithReleaseTime(v float64) Option {
	return func(c *Config) { c.ReleaseTime = v }
}

// WithFreqSmoothingBins sets the frequency-smoothing half-width in bins.
func WithFreqSmoothingBins(n int) Option {
	return func(c *Config) { c.FreqSmoothingBins = n }
}

// WithReductionMode selects reduce, isolate, or residue output.
func WithReductionMode(m ReductionMode) Option {
	return func(c *Config) { c.Reduction = m }
}

// WithWindowType selects one of the seven analysis/synthesis window
// combinations by table index (0..6).
func WithWindowType(id int) Option {
	return func(c *Config) { c.WindowType = id }
}

// WithWindowSizeChoice selects the window size by index (0..5, sizes
// 256..8192).
func WithWindowSizeChoice(choice int) Option {
	return func(c *Config) { c.WindowSizeChoice = choice }
}

// WithStepsPerWindowChoice selects the hop density by index (0..4, steps
// 2..32).
func WithStepsPerWindowChoice(choice int) Option {
	return func(c *Config) { c.StepsPerWindowChoice = choice }
}

// WithMethod selects the classification method.
func WithMethod(m Method) Option {
	return func(c *Config) { c.Method = m }
}

// ApplyOptions applies opts over DefaultConfig.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WindowSize returns W, the FFT analysis/synthesis window length in samples.
func (c Config) WindowSize() int {
	if c.WindowSizeChoice < 0 || c.WindowSizeChoice >= len(windowSizeChoices) {
		return 0
	}
	return windowSizeChoices[c.WindowSizeChoice]
}

// StepsPerWindow returns S, the number of hops per window (hop size H = W/S).
func (c Config) StepsPerWindow() int {
	if c.StepsPerWindowChoice < 0 || c.StepsPerWindowChoice >= len(stepsPerWindowChoices) {
		return 0
	}
	return stepsPerWindowChoices[c.StepsPerWindowChoice]
}

// HopSize returns H = W/S.
func (c Config) HopSize() int {
	s := c.StepsPerWindow()
	if s == 0 {
		return 0
	}
	return c.WindowSize() / s
}

// SpectrumSize returns W/2 + 1, the number of positive-frequency bins.
func (c Config) SpectrumSize() int {
	return c.WindowSize()/2 + 1
}

// NExamine returns the classifier's neighborhood size, 1+S.
func (c Config) NExamine() int {
	return 1 + c.StepsPerWindow()
}

// noiseAttenFactor returns the linear noise floor, DB_TO_LINEAR(-NoiseGainDB).
func (c Config) noiseAttenFactor() float64 {
	return core.DBToLinear(-c.NoiseGainDB)
}

// sensitivityFactor returns the linear threshold multiplier derived from
// Sensitivity, expressed in the natural-log domain per §9's design note:
// Sensitivity (-log10 of the tail probability P) times ln 10 is -ln(P),
// the exponential-distribution quantile in units of the mean.
func (c Config) sensitivityFactor() float64 {
	return c.Sensitivity * math.Ln10
}

// Validate checks configuration consistency: steps-per-window against the
// window type's minimum and against the window size, and median-method
// neighborhood restrictions. It returns an error wrapping ErrConfigInvalid.
func (c Config) Validate() error {
	w := c.WindowSize()
	if w <= 0 {
		return wrapConfigInvalid("window size choice out of range: %d", c.WindowSizeChoice)
	}

	s := c.StepsPerWindow()
	if s <= 0 {
		return wrapConfigInvalid("steps-per-window choice out of range: %d", c.StepsPerWindowChoice)
	}

	minSteps, err := minStepsForType(c.WindowType)
	if err != nil {
		return err
	}

	if s < minSteps {
		return wrapConfigInvalid("steps-per-window %d below window type minimum %d", s, minSteps)
	}

	if s > w {
		return wrapConfigInvalid("steps-per-window %d exceeds window size %d", s, w)
	}

	if c.Method == MethodMedian {
		n := c.NExamine()
		if n != 3 && n != 5 {
			return wrapConfigInvalid("median method requires a 3- or 5-window neighborhood, got %d", n)
		}
	}

	if c.FreqSmoothingBins < 0 {
		return wrapConfigInvalid("frequency smoothing bins must be >= 0: %d", c.FreqSmoothingBins)
	}

	if c.AttackTime < 0 || c.ReleaseTime < 0 {
		return wrapConfigInvalid("attack/release time must be >= 0: attack=%f release=%f", c.AttackTime, c.ReleaseTime)
	}

	if c.NoiseGainDB <= 0 {
		return wrapConfigInvalid("noise gain must be > 0 dB: %f", c.NoiseGainDB)
	}

	return nil
}
