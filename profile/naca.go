package profile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/npillmayer/airfoil"
	"github.com/npillmayer/airfoil/polyn"
)

// Thickness distribution of NACA 4-digit profiles, with the x⁴ coefficient
// modified for a closed trailing edge:
//
//	yt = t/0.2 ⋅ (0.2969√x - 0.126x - 0.3516x² + 0.2843x³ - 0.1036x⁴)
const nacaSqrtCoeff = 0.2969

var nacaThickness, _ = polyn.New(0,
	polyn.X{I: 1, C: -0.126},
	polyn.X{I: 2, C: -0.3516},
	polyn.X{I: 3, C: 0.2843},
	polyn.X{I: 4, C: -0.1036},
)

// NACA4 computes a NACA 4-digit airfoil. The first digit is the maximum camber
// in percent of the chord, the second digit its position in tenths of the
// chord, and the last two digits are the thickness in percent.
// Each surface gets numpoints points, spaced by
//
//	x = 1 - sin(i/(numpoints-1) ⋅ π/2)
//
// which is dense at the nose. The contour is normalized.
func NACA4(digits string, numpoints int) (*Shape, error) {
	if len(digits) != 4 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDigits, digits)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDigits, digits)
		}
	}
	d, _ := strconv.Atoi(digits)
	if numpoints < 3 {
		return nil, fmt.Errorf("%w: NACA profile with %d points per side", ErrTooFewPoints, numpoints)
	}
	m := float64(d/1000) / 100
	p := float64(d/100%10) / 10
	t := float64(d%100) / 100
	if m > 0 && p == 0 {
		return nil, fmt.Errorf("%w: %q has camber but no camber position", ErrInvalidDigits, digits)
	}
	tracer().Debugf("NACA %s: m=%g, p=%g, t=%g", digits, m, p, t)
	upper := make([]airfoil.Pair, numpoints)
	lower := make([]airfoil.Pair, numpoints)
	for i := 0; i < numpoints; i++ {
		x := 1 - math.Sin(float64(i)/float64(numpoints-1)*math.Pi/2)
		yc, g := nacaCamber(m, p, x)
		yt := t / 0.2 * (nacaSqrtCoeff*math.Sqrt(x) + nacaThickness.Eval(x))
		cos := 1 / math.Sqrt(1+g*g)
		sin := g * cos
		upper[i] = airfoil.P(x-yt*sin, yc+yt*cos)
		lower[i] = airfoil.P(x+yt*sin, yc-yt*cos)
	}
	coords := append(upper, airfoil.Reversed(lower)[1:]...)
	s, err := New(coords, "NACA_"+digits)
	if err != nil {
		return nil, err
	}
	if err = s.Normalize(); err != nil {
		return nil, err
	}
	return s, nil
}

// nacaCamber returns the mean camber line and its gradient at x.
func nacaCamber(m, p, x float64) (float64, float64) {
	if m == 0 {
		return 0, 0
	}
	if x < p {
		return m / (p * p) * (2*p*x - x*x),
			2 * m / (p * p) * (p - x)
	}
	q := (1 - p) * (1 - p)
	return m / q * ((1 - 2*p) + 2*p*x - x*x),
		2 * m / q * (p - x)
}
