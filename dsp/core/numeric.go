// Package core holds the small set of pure-math helpers shared by the
// noise-reduction effect's configuration and gain-shaping code.
package core

import "math"

// DBToLinear converts dB to linear amplitude (20*log10 convention). Used
// throughout dsp/noisereduce to turn the configured noise gain and
// attack/release times into linear gain multipliers.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}
