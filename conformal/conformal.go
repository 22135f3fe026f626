/*
Package conformal generates airfoil contours by conformal mapping of a circle.

All generators implement profile.Mapping. Points start at the trailing edge
and run counter-clockwise, i.e. along the upper surface first.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package conformal

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'airfoil.conformal'
func tracer() tracing.Trace {
	return tracing.Select("airfoil.conformal")
}

// ErrInvalidParameter is returned for mapping parameters which do not produce
// an airfoil.
var ErrInvalidParameter = errors.New("invalid mapping parameter")

// circle returns n+1 points on the circle around m through ζ=1, starting and
// ending at ζ=1, counter-clockwise.
func circle(m complex128, n int) ([]complex128, error) {
	if real(m) >= 0 {
		return nil, fmt.Errorf("%w: midpoint %v must have a negative real part", ErrInvalidParameter, m)
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: %d points", ErrInvalidParameter, n)
	}
	r := cmplx.Abs(1 - m)
	theta0 := cmplx.Phase(1 - m)
	zeta := make([]complex128, n+1)
	for i := range zeta {
		zeta[i] = m + cmplx.Rect(r, theta0+2*math.Pi*float64(i)/float64(n))
	}
	zeta[0], zeta[n] = 1, 1
	return zeta, nil
}

// --- Joukowsky -------------------------------------------------------------

// Joukowsky maps a circle through ζ=1, centred at Midpoint, by
//
//	z = ζ + 1/ζ
//
// The real part of Midpoint controls thickness, the imaginary part camber.
type Joukowsky struct {
	Midpoint complex128
}

// Name is part of interface profile.Mapping.
func (j Joukowsky) Name() string {
	return fmt.Sprintf("joukowsky_%v", j.Midpoint)
}

// Coordinates returns numpoints+1 points of the contour.
func (j Joukowsky) Coordinates(numpoints int) ([]complex128, error) {
	zeta, err := circle(j.Midpoint, numpoints)
	if err != nil {
		return nil, err
	}
	z := make([]complex128, len(zeta))
	for i, c := range zeta {
		z[i] = c + 1/c
	}
	tracer().Debugf("Joukowsky airfoil for midpoint %v: %d points", j.Midpoint, len(z))
	return z, nil
}

// --- Kármán–Trefftz --------------------------------------------------------

// TrefftzKutta maps a circle through ζ=1, centred at Midpoint, by
//
//	(z-k)/(z+k) = ((ζ-1)/(ζ+1))^k,   k = 2 - Tau/π
//
// resulting in a trailing edge of finite angle Tau (radians). For Tau = 0
// this is the Joukowsky mapping.
type TrefftzKutta struct {
	Midpoint complex128
	Tau      float64
}

// Name is part of interface profile.Mapping.
func (tk TrefftzKutta) Name() string {
	return fmt.Sprintf("TrefftzKuttaAirfoil_m=%v_tau=%g", tk.Midpoint, tk.Tau)
}

// Coordinates returns numpoints+1 points of the contour.
func (tk TrefftzKutta) Coordinates(numpoints int) ([]complex128, error) {
	if tk.Tau < 0 || tk.Tau >= math.Pi {
		return nil, fmt.Errorf("%w: trailing edge angle %g", ErrInvalidParameter, tk.Tau)
	}
	zeta, err := circle(tk.Midpoint, numpoints)
	if err != nil {
		return nil, err
	}
	k := complex(2-tk.Tau/math.Pi, 0)
	z := make([]complex128, len(zeta))
	for i, c := range zeta {
		// arg w stays continuous on the circle, as ζ never enters (-1,1)
		wk := cmplx.Pow((c-1)/(c+1), k)
		z[i] = k * (1 + wk) / (1 - wk)
	}
	return z, nil
}

// --- Van de Vooren ---------------------------------------------------------

// VanDeVooren generates a symmetric airfoil with trailing edge angle Tau
// (radians) and thickness parameter Epsilon, with chord from -1 to 1.
type VanDeVooren struct {
	Tau     float64
	Epsilon float64
}

// Name is part of interface profile.Mapping.
func (v VanDeVooren) Name() string {
	return fmt.Sprintf("VanDeVooren_tau=%g_epsilon=%g", v.Tau, v.Epsilon)
}

// Coordinates returns numpoints+1 points of the contour. With
//
//	k = 2 - τ/π,  a = 2(ε+1)^(k-1) / 2^k,  ζ = a⋅e^(iθ)
//
// every point is
//
//	z = r1^k / r2^(k-1) ⋅ e^(i(k⋅θ1 - (k-1)⋅θ2)) + 1
//
// where (r1,θ1) and (r2,θ2) are the polar coordinates of ζ-a and ζ-ε⋅a.
func (v VanDeVooren) Coordinates(numpoints int) ([]complex128, error) {
	if v.Tau < 0 || v.Tau >= math.Pi {
		return nil, fmt.Errorf("%w: trailing edge angle %g", ErrInvalidParameter, v.Tau)
	}
	if v.Epsilon < 0 || v.Epsilon >= 1 {
		return nil, fmt.Errorf("%w: thickness parameter %g", ErrInvalidParameter, v.Epsilon)
	}
	if numpoints < 2 {
		return nil, fmt.Errorf("%w: %d points", ErrInvalidParameter, numpoints)
	}
	const l = 1.0
	k := 2 - v.Tau/math.Pi
	a := 2 * l * math.Pow(v.Epsilon+1, k-1) / math.Pow(2, k)
	z := make([]complex128, numpoints+1)
	for i := range z {
		theta := 2 * math.Pi * float64(i) / float64(numpoints)
		sin, cos := math.Sincos(theta)
		r1 := a * math.Hypot(cos-1, sin)
		r2 := a * math.Hypot(cos-v.Epsilon, sin)
		if r1 == 0 || i == 0 || i == numpoints {
			z[i] = complex(l, 0)
			continue
		}
		theta1 := math.Pi/2 + theta/2
		theta2 := math.Atan2(sin, cos-v.Epsilon)
		if theta2 < 0 {
			theta2 += 2 * math.Pi
		}
		rho := math.Pow(r1, k) / math.Pow(r2, k-1)
		z[i] = cmplx.Rect(rho, k*theta1-(k-1)*theta2) + complex(l, 0)
	}
	tracer().Debugf("Van de Vooren airfoil k=%g, a=%g: %d points", k, a, len(z))
	return z, nil
}
