package noisereduce

// Classifier decides, per band, whether the ring's center window is noise
// (§4.5). It reads the NExamine windows surrounding (and including) the
// center slot and compares against a per-band threshold derived from the
// noise profile.
type Classifier struct {
	means    []float64
	factor   float64
	method   Method
	nExamine int
	binLow   int
	binHigh  int
}

// NewClassifier builds a Classifier against means (the profile's per-bin
// mean power), using sensitivityFactor as the threshold multiplier, over a
// neighborhood of nExamine windows, restricted to the band of interest
// [binLow, binHigh).
func NewClassifier(means []float64, sensitivityFactor float64, method Method, nExamine, binLow, binHigh int) *Classifier {
	return &Classifier{
		means:    means,
		factor:   sensitivityFactor,
		method:   method,
		nExamine: nExamine,
		binLow:   binLow,
		binHigh:  binHigh,
	}
}

// IsNoise reports whether band b at the ring's center is noise, given the
// ring and the center offset.
func (c *Classifier) IsNoise(ring *HistoryRing, center, b int) bool {
	if b < c.binLow || b >= c.binHigh {
		return false
	}

	threshold := c.factor * c.means[b]
	half := c.nExamine / 2

	switch c.method {
	case MethodMedian:
		return c.classifyMedian(ring, center, half, b, threshold)
	default:
		return c.classifySecondGreatest(ring, center, half, b, threshold)
	}
}

// classifySecondGreatest finds the two largest power values in the
// neighborhood and compares the second-largest against threshold.
func (c *Classifier) classifySecondGreatest(ring *HistoryRing, center, half, b int, threshold float64) bool {
	greatest, second := -1.0, -1.0
	for i := center - half; i <= center+half; i++ {
		v := ring.At(i).Spectrum[b]
		switch {
		case v > greatest:
			second = greatest
			greatest = v
		case v > second:
			second = v
		}
	}
	return second <= threshold
}

// classifyMedian is only valid for a 3- or 5-window neighborhood: for 3 it
// is identical to SecondGreatest; for 5 it compares the third-largest.
func (c *Classifier) classifyMedian(ring *HistoryRing, center, half, b int, threshold float64) bool {
	if c.nExamine == 3 {
		return c.classifySecondGreatest(ring, center, half, b, threshold)
	}

	// nExamine == 5: find the third-largest of the five values.
	values := make([]float64, 0, 5)
	for i := center - half; i <= center+half; i++ {
		values = append(values, ring.At(i).Spectrum[b])
	}

	// Selection of the third-largest without a full sort: track the top
	// three seen so far.
	first, second, third := -1.0, -1.0, -1.0
	for _, v := range values {
		switch {
		case v > first:
			first, second, third = v, first, second
		case v > second:
			second, third = v, second
		case v > third:
			third = v
		}
	}

	return third <= threshold
}
