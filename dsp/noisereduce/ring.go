package noisereduce

// WindowRecord holds one history slot: the analyzed power spectrum, the
// packed real/imag bins the spectrum was derived from, and the gain vector
// the classifier/shaper writes as it walks the ring.
type WindowRecord struct {
	Spectrum []float64 // power per bin, length SpectrumSize
	Real     []float64 // packed real bins, length SpectrumSize-1
	Imag     []float64 // packed imag bins, length SpectrumSize-1
	Gains    []float64 // linear gain per bin, length SpectrumSize
}

func newWindowRecord(spectrumSize int) WindowRecord {
	return WindowRecord{
		Spectrum: make([]float64, spectrumSize),
		Real:     make([]float64, spectrumSize-1),
		Imag:     make([]float64, spectrumSize-1),
		Gains:    make([]float64, spectrumSize),
	}
}

// HistoryRing is a fixed-length cyclic buffer of WindowRecords. Index 0
// ("head") is the most recently analyzed window; index Len-1 ("tail") is
// the oldest, and is the slot whose gains are complete and ready to write
// out. Implemented as an array with an integer head offset per §9's design
// note, rather than a linked list: rotation is index arithmetic only.
type HistoryRing struct {
	records []WindowRecord
	head    int
}

// NewHistoryRing allocates a ring of length l, each slot sized for
// spectrumSize bins. All gains are initialized to noiseAttenFactor and all
// spectra/bins to zero, per §4.3.
func NewHistoryRing(l, spectrumSize int, noiseAttenFactor float64) *HistoryRing {
	records := make([]WindowRecord, l)
	for i := range records {
		records[i] = newWindowRecord(spectrumSize)
		for b := range records[i].Gains {
			records[i].Gains[b] = noiseAttenFactor
		}
	}
	return &HistoryRing{records: records, head: 0}
}

// Len returns the ring length L.
func (r *HistoryRing) Len() int {
	return len(r.records)
}

// At returns the record at logical offset i from head (0 = newest). i may
// be negative; the result wraps modulo the ring length.
func (r *HistoryRing) At(i int) *WindowRecord {
	n := len(r.records)
	idx := ((r.head+i)%n + n) % n
	return &r.records[idx]
}

// Rotate advances the ring by one step: the slot previously at head-1
// becomes the new head. The record that falls out of the window (the old
// tail) becomes the new record-to-be-filled at the new head position; its
// contents are reset by the caller (StftEngine.analyzeWindow overwrites
// every field before it is read).
func (r *HistoryRing) Rotate() {
	n := len(r.records)
	r.head = (r.head - 1 + n) % n
}
