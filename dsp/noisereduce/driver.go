package noisereduce

import (
	"fmt"
	"log/slog"
)

// EffectDriver orchestrates the two-pass workflow: Capture accumulates a
// noise profile over a selection, Reduce applies gain shaping against that
// profile over a whole track (§4.8). It owns Config and ProfileStatistics;
// each pass constructs and discards its own StftEngine.
type EffectDriver struct {
	cfg       Config
	logger    *slog.Logger
	stats     *ProfileStatistics
	doProfile bool
}

// DriverOption configures an EffectDriver at construction.
type DriverOption func(*EffectDriver)

// WithLogger overrides the driver's logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) DriverOption {
	return func(d *EffectDriver) { d.logger = logger }
}

// NewEffectDriver builds a driver against cfg. doProfile starts true: the
// first invocation must be a Capture before Reduce will accept it.
func NewEffectDriver(cfg Config, opts ...DriverOption) *EffectDriver {
	d := &EffectDriver{
		cfg:       cfg,
		logger:    slog.Default(),
		doProfile: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Capture runs the profile pass over [start, end) samples of track,
// replacing any previously stored profile statistics on success. On
// failure, any partial statistics are discarded so the caller must
// recapture before reducing.
func (d *EffectDriver) Capture(track Track, start, end int64) error {
	d.stats = nil
	d.doProfile = true

	if err := d.cfg.Validate(); err != nil {
		return err
	}
	if end < start {
		end = start
	}

	stats := NewProfileStatistics(track.Rate(), d.cfg.WindowSize(), d.cfg.WindowType, d.cfg.SpectrumSize())

	engine, err := NewStftEngine(d.cfg, track.Rate(), true, stats)
	if err != nil {
		return err
	}
	defer engine.Close()

	d.logger.Debug("noisereduce: capture started", "start", start, "end", end)

	hop := make([]float32, d.cfg.HopSize())
	pos := start
	for pos < end {
		n := int64(len(hop))
		if pos+n > end {
			n = end - pos
		}
		if err := track.Get(hop[:n], pos, int(n)); err != nil {
			return fmt.Errorf("noisereduce: capture read failed at %d: %w", pos, err)
		}
		engine.ProcessSamples(hop[:n])
		pos += n
	}

	// Zero hops also count as accepted samples, so the flush compares
	// against the real input count taken before the first zero hop.
	zero := make([]float32, d.cfg.HopSize())
	accepted := engine.inSampleCount
	for engine.outStepCount*int64(engine.h) < accepted {
		engine.ProcessSamples(zero)
	}

	if err := engine.profileAcc.FinishTrack(); err != nil {
		return err
	}

	d.stats = stats
	d.doProfile = false
	d.logger.Debug("noisereduce: capture finished", "windows", stats.TotalWindows)

	return nil
}

// Reduce runs the reduce/isolate/residue pass over the whole of track,
// replacing its contents with the processed result. It fails with
// ErrNoProfile if Capture has never succeeded, ErrProfileRateMismatch or
// ErrProfileWindowSizeMismatch on a stale profile, and only warns (via the
// driver's logger) on a window-type mismatch.
func (d *EffectDriver) Reduce(track Track) error {
	if d.stats == nil {
		return ErrNoProfile
	}
	if err := d.cfg.Validate(); err != nil {
		return err
	}
	if track.Rate() != d.stats.Rate {
		return fmt.Errorf("noisereduce: track rate %f vs profile rate %f: %w", track.Rate(), d.stats.Rate, ErrProfileRateMismatch)
	}
	if d.cfg.WindowSize() != d.stats.WindowSize {
		return fmt.Errorf("noisereduce: window size %d vs profile window size %d: %w", d.cfg.WindowSize(), d.stats.WindowSize, ErrProfileWindowSizeMismatch)
	}
	if d.cfg.WindowType != d.stats.WindowType {
		d.logger.Warn("noisereduce: window type differs from profile pass", "reduce", d.cfg.WindowType, "profile", d.stats.WindowType)
	}

	engine, err := NewStftEngine(d.cfg, track.Rate(), false, d.stats)
	if err != nil {
		return err
	}
	defer engine.Close()

	d.logger.Debug("noisereduce: reduce started", "samples", track.Len())

	out := track.NewOutput(track.Rate())

	hop := make([]float32, d.cfg.HopSize())
	total := track.Len()
	for pos := int64(0); pos < total; pos += int64(len(hop)) {
		n := int64(len(hop))
		if pos+n > total {
			n = total - pos
		}
		if err := track.Get(hop[:n], pos, int(n)); err != nil {
			return fmt.Errorf("noisereduce: reduce read failed at %d: %w", pos, err)
		}
		if produced := engine.ProcessSamples(hop[:n]); len(produced) > 0 {
			if err := out.Append(produced); err != nil {
				return fmt.Errorf("noisereduce: reduce append failed: %w", err)
			}
		}
	}

	zero := make([]float32, d.cfg.HopSize())
	accepted := engine.inSampleCount
	for engine.outStepCount*int64(engine.h) < accepted {
		if produced := engine.ProcessSamples(zero); len(produced) > 0 {
			if err := out.Append(produced); err != nil {
				return fmt.Errorf("noisereduce: reduce flush append failed: %w", err)
			}
		}
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("noisereduce: reduce output flush failed: %w", err)
	}

	// §4.7's flush loop may emit at most one excess hop beyond the
	// original track length; trim it by splicing an empty tail in.
	if out.Len() > total {
		empty := track.NewOutput(track.Rate())
		if err := out.ClearAndPaste(total, out.Len(), empty); err != nil {
			return fmt.Errorf("noisereduce: reduce trim failed: %w", err)
		}
	}

	if err := track.ClearAndPaste(0, track.Len(), out); err != nil {
		return fmt.Errorf("noisereduce: reduce splice failed: %w", err)
	}

	d.logger.Debug("noisereduce: reduce finished", "samples", out.Len())

	return nil
}

// DoProfile reports whether the next invocation should be a Capture rather
// than a Reduce, mirroring the original "repeat last effect" gesture: it
// starts true and clears on a successful Capture.
func (d *EffectDriver) DoProfile() bool {
	return d.doProfile
}
