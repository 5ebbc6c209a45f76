// Package noisereduce implements a two-pass spectral noise-reduction core:
// profile a stretch of background noise, then suppress spectral bands in a
// later signal that resemble the profile while leaving bands that rise
// above it untouched. Processing is offline and strictly single-threaded;
// see EffectDriver for the two entry points (Capture and Reduce).
package noisereduce
