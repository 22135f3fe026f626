/*
Package airfoil implements points, affine transformations and numeric helpers
shared by the airfoil modelling packages.

The sub-packages build on these primitives:

	profile    raw-coordinate airfoils: normalization, resampling, NACA and
	           conformal profiles, .dat import/export
	parafoil   parametric airfoils made of two rational B-spline curves,
	           calibration against a profile and shape optimization
	nurbs      rational B-spline evaluation (the curve kernel)
	lsq        bounded nonlinear least squares
	polyn      univariate polynomials
	polygon    closed polygons (area, containment, overlap)
	aero       aerodynamic evaluator capability and objectives
	study      aerodynamic parameter studies

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package airfoil

import (
	"errors"
	"math"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'airfoil'
func tracer() tracing.Trace {
	return tracing.Select("airfoil")
}

// Error taxonomy. Packages wrap these sentinels, clients test with errors.Is.
var (
	// ErrGeometry flags degenerate or non-monotonic coordinate input.
	ErrGeometry = errors.New("geometry error")
	// ErrExternalSolver flags a failing or non-converging external capability,
	// i.e. a conformal mapping or an aerodynamic evaluator.
	ErrExternalSolver = errors.New("external solver error")
)

// === Numeric Data Type =====================================================

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 1e-12

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// Sign returns -1, 0 or 1. Sign(0) is 0.
func Sign(n float64) float64 {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
