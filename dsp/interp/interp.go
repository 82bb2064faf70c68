package interp

import "math"

// Linear2 interpolates between x0 and x1 at frac in [0,1].
// frac = 0 returns x0 exactly.
func Linear2(frac, x0, x1 float64) float64 {
	return (1-frac)*x0 + frac*x1
}

// ReadLinear returns the linearly interpolated value of samples at the
// real-valued position pos. With i = floor(pos), positions that do not satisfy
// 0 <= i < len(samples)-1 read as silence.
func ReadLinear(samples []float64, pos float64) float64 {
	if math.IsNaN(pos) {
		return 0
	}

	fi := math.Floor(pos)
	if fi < 0 || fi >= float64(len(samples)-1) {
		return 0
	}

	i := int(fi)

	return Linear2(pos-fi, samples[i], samples[i+1])
}
