package noisereduce

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
)

// FFTHandle is the real-FFT primitive this engine consumes. Forward and
// Inverse operate in place on a packed buffer of length W:
//
//	buf[0]          = DC real
//	buf[1]          = Nyquist real
//	buf[2*k], buf[2*k+1] = real, imag of positive bin k, for k in [1, W/2)
//
// BitReversed exposes the permutation the engine must use to walk packed
// bin indices; this bridge builds its packed layout directly, so the
// permutation is the identity doubling bitReversed[k] = 2*k.
type FFTHandle interface {
	Forward(buf []float64) error
	Inverse(buf []float64) error
	BitReversed(k int) int
}

// planFFTHandle adapts algofft's complex-to-complex Plan64 to the packed
// real-FFT convention described above. It drives one size-W complex plan
// with a zero-imaginary part on the forward path and reconstructs the
// conjugate-symmetric spectrum on the inverse path.
type planFFTHandle struct {
	w       int
	plan    *algofft.Plan[complex128]
	scratch []complex128
}

// newPlanFFTHandle builds the default FFTHandle for a window of length w.
func newPlanFFTHandle(w int) (*planFFTHandle, error) {
	plan, err := algofft.NewPlan64(w)
	if err != nil {
		return nil, fmt.Errorf("noisereduce: failed to create FFT plan for w=%d: %w", w, err)
	}

	return &planFFTHandle{
		w:       w,
		plan:    plan,
		scratch: make([]complex128, w),
	}, nil
}

// BitReversed returns the packed-array index of positive bin k's real
// component; its imaginary component follows immediately after.
func (h *planFFTHandle) BitReversed(k int) int {
	return 2 * k
}

// Forward computes the packed real FFT of buf in place.
func (h *planFFTHandle) Forward(buf []float64) error {
	if len(buf) != h.w {
		return fmt.Errorf("noisereduce: forward FFT buffer length %d != window size %d", len(buf), h.w)
	}

	for i, v := range buf {
		h.scratch[i] = complex(v, 0)
	}

	if err := h.plan.Forward(h.scratch, h.scratch); err != nil {
		return fmt.Errorf("noisereduce: forward FFT failed: %w", err)
	}

	half := h.w / 2

	buf[0] = real(h.scratch[0])
	buf[1] = real(h.scratch[half])

	for k := 1; k < half; k++ {
		c := h.scratch[k]
		idx := h.BitReversed(k)
		buf[idx] = real(c)
		buf[idx+1] = imag(c)
	}

	return nil
}

// Inverse computes the packed inverse real FFT of buf in place.
func (h *planFFTHandle) Inverse(buf []float64) error {
	if len(buf) != h.w {
		return fmt.Errorf("noisereduce: inverse FFT buffer length %d != window size %d", len(buf), h.w)
	}

	half := h.w / 2

	h.scratch[0] = complex(buf[0], 0)
	h.scratch[half] = complex(buf[1], 0)

	for k := 1; k < half; k++ {
		idx := h.BitReversed(k)
		re, im := buf[idx], buf[idx+1]
		h.scratch[k] = complex(re, im)
		h.scratch[h.w-k] = complex(re, -im)
	}

	if err := h.plan.Inverse(h.scratch, h.scratch); err != nil {
		return fmt.Errorf("noisereduce: inverse FFT failed: %w", err)
	}

	for i, c := range h.scratch {
		buf[i] = real(c)
	}

	return nil
}
