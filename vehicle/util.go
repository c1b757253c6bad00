package vehicle

import "math"

// notZero floors a value away from zero so it can be used as a divisor.
func notZero(v float64) float64 {
	const eps = 1e-2
	if v >= 0 && v < eps {
		return eps
	}
	if v < 0 && v > -eps {
		return -eps
	}
	return v
}

// wrapToPi normalises an angle to [-π, π). An input of exactly π lands on
// the negative end of the range.
func wrapToPi(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// sign returns -1, 0 or 1. A stopped vehicle gets no lateral correction, so
// zero maps to zero rather than to a direction.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
