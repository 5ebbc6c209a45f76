package noisereduce

// ProfileStatistics holds the per-bin noise profile captured during a
// profile pass and consumed read-only during a reduce pass. It persists
// between the two passes (§3); window size and type are recorded so a
// later reduce pass can detect a mismatch.
type ProfileStatistics struct {
	Rate         float64
	WindowSize   int
	WindowType   int
	Sums         []float64
	Means        []float64
	TotalWindows int
	TrackWindows int
}

// NewProfileStatistics allocates empty statistics sized for spectrumSize
// bins, recorded against rate/windowSize/windowType.
func NewProfileStatistics(rate float64, windowSize, windowType, spectrumSize int) *ProfileStatistics {
	return &ProfileStatistics{
		Rate:       rate,
		WindowSize: windowSize,
		WindowType: windowType,
		Sums:       make([]float64, spectrumSize),
		Means:      make([]float64, spectrumSize),
	}
}

// ProfileAccumulator accumulates per-bin power across a profile pass and
// folds it into ProfileStatistics at track end (§4.4).
type ProfileAccumulator struct {
	stats *ProfileStatistics
}

// NewProfileAccumulator wraps stats for accumulation.
func NewProfileAccumulator(stats *ProfileStatistics) *ProfileAccumulator {
	return &ProfileAccumulator{stats: stats}
}

// IngestPower adds one analyzed window's power spectrum into the running
// sum and increments the track-window counter.
func (p *ProfileAccumulator) IngestPower(spectrum []float64) {
	for j, v := range spectrum {
		p.stats.Sums[j] += v
	}
	p.stats.TrackWindows++
}

// FinishTrack folds the accumulated sums into a weighted mean with any
// prior totals, then resets the sums and track-window counter. It returns
// ErrProfileTooShort if no windows were ingested across the accumulator's
// entire lifetime (i.e. TotalWindows remains zero after folding).
func (p *ProfileAccumulator) FinishTrack() error {
	n := float64(p.stats.TrackWindows)
	m := float64(p.stats.TotalWindows)
	denom := n + m

	if denom > 0 {
		for j := range p.stats.Means {
			p.stats.Means[j] = (p.stats.Means[j]*m + p.stats.Sums[j]) / denom
		}
	}

	for j := range p.stats.Sums {
		p.stats.Sums[j] = 0
	}

	p.stats.TotalWindows = int(denom)
	p.stats.TrackWindows = 0

	if p.stats.TotalWindows == 0 {
		return ErrProfileTooShort
	}

	return nil
}
