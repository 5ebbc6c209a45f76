package noisereduce

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Config.Validate, EffectDriver.Capture, and
// EffectDriver.Reduce. Callers distinguish kinds with errors.Is.
var (
	// ErrConfigInvalid indicates an invalid combination of configuration
	// values (steps-per-window below the window type's minimum or above
	// the window size, or an unsupported classification neighborhood for
	// the median method).
	ErrConfigInvalid = errors.New("noisereduce: invalid configuration")

	// ErrProfileRateMismatch indicates the reduce-pass track's sample rate
	// differs from the rate recorded during the profile pass.
	ErrProfileRateMismatch = errors.New("noisereduce: reduce sample rate does not match profile")

	// ErrProfileWindowSizeMismatch indicates the reduce-pass window size
	// differs from the window size recorded during the profile pass.
	ErrProfileWindowSizeMismatch = errors.New("noisereduce: reduce window size does not match profile")

	// ErrProfileTooShort indicates a profile pass completed without
	// accumulating a single analysis window.
	ErrProfileTooShort = errors.New("noisereduce: profile pass produced no windows")

	// ErrNoProfile indicates Reduce was invoked before any successful
	// Capture.
	ErrNoProfile = errors.New("noisereduce: no profile statistics available")
)

func wrapConfigInvalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConfigInvalid)
}
