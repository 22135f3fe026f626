package profile

import "math"

// CosDistribution returns n+1 signed x-values, distributed by
//
//	x(u) = sign(u-½) ⋅ (1 - sin(π⋅u)),   u = i/n
//
// n is forced to be even (and at least 2), so exactly one value is 0.
// Values run from -1 (upper trailing edge) through 0 (nose) to 1.
func CosDistribution(n int) []float64 {
	return distribute(n, func(u float64) float64 {
		return 1 - math.Sin(math.Pi*u)
	})
}

// Cos2Distribution returns n+1 signed x-values, distributed by
//
//	x(u) = sign(u-½) ⋅ (1 + cos(2π⋅u)) / 2,   u = i/n
//
// This refines the nose and the trailing edge. n is forced to be even
// (and at least 2).
func Cos2Distribution(n int) []float64 {
	return distribute(n, func(u float64) float64 {
		return (1 + math.Cos(2*math.Pi*u)) / 2
	})
}

func distribute(n int, f func(float64) float64) []float64 {
	n -= n % 2
	if n < 2 {
		n = 2
	}
	xs := make([]float64, n+1)
	for i := range xs {
		u := float64(i) / float64(n)
		xs[i] = halfSign(u) * f(u)
	}
	return xs
}

// halfSign is sign(u-½) with sign(0) = 0.
func halfSign(u float64) float64 {
	switch {
	case u > 0.5:
		return 1
	case u < 0.5:
		return -1
	}
	return 0
}
