/*
Package parafoil implements parametric airfoils.

A Parafoil consists of two rational B-spline curves of degree 4, one for the
upper and one for the lower surface. Each curve has 9 control points, given by
a control matrix with rows x, y, z and w (weight). Both curves run from the
nose (column 0) to the trailing edge (column 8) and share a fixed knot vector.

Parafoils are fitted to raw-coordinate airfoils (Calibrate), discretized back
into raw coordinates (Discretize) and optimized against arbitrary objectives
(Optimize). Only a selection of control matrix entries is ever varied; see
Tag and Selection.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package parafoil

import (
	"errors"
	"fmt"

	"github.com/npillmayer/airfoil"
	"github.com/npillmayer/airfoil/nurbs"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'airfoil.parafoil'
func tracer() tracing.Trace {
	return tracing.Select("airfoil.parafoil")
}

// Degree of both surface curves.
const Degree = 4

// NumPoles is the number of control points per surface.
const NumPoles = 9

// Rows of a control matrix.
const (
	RowX = iota
	RowY
	RowZ // always 0
	RowW
)

// Knots is the knot vector shared by both surfaces.
var Knots = [NumPoles + Degree + 1]float64{0, 0, 0, 0, 0, 1. / 3, 1. / 3, 2. / 3, 2. / 3, 1, 1, 1, 1, 1}

// Errors of package parafoil.
var (
	ErrCurvatureFactor = fmt.Errorf("%w: curvature factor outside [0,1]", airfoil.ErrGeometry)
	ErrSelection       = errors.New("invalid parameter selection")
	ErrObjectivePanic  = errors.New("objective panicked")
)

// ControlMatrix holds the control points of one surface: x, y, z and weight
// (rows) of 9 poles (columns). Column 0 is the nose, column 8 the trailing edge.
type ControlMatrix [4][NumPoles]float64

// Poles returns the control points of the matrix.
func (m *ControlMatrix) Poles() []airfoil.Pair {
	poles := make([]airfoil.Pair, NumPoles)
	for i := range poles {
		poles[i] = airfoil.P(m[RowX][i], m[RowY][i])
	}
	return poles
}

// Weights returns the weights of the control points.
func (m *ControlMatrix) Weights() []float64 {
	w := make([]float64, NumPoles)
	copy(w, m[RowW][:])
	return w
}

// Curve creates the rational B-spline curve for the matrix.
func (m *ControlMatrix) Curve() (*nurbs.Curve, error) {
	return nurbs.New(Degree, m.Poles(), m.Weights(), Knots[:])
}

// Parafoil is a parametric airfoil of two surface curves.
type Parafoil struct {
	Name  string
	Upper ControlMatrix
	Lower ControlMatrix
}

// Default returns a parafoil resembling a moderately cambered airfoil of
// 10% thickness. It is the usual starting point for calibration.
func Default() *Parafoil {
	return &Parafoil{
		Name: "parafoil",
		Upper: ControlMatrix{
			{0, 0, 0.01, 0.07, 0.18, 0.36, 0.5, 0.71, 1},
			{0, 0.02, 0.05, 0.09, 0.1, 0.08, 0.06, 0.04, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 0},
			{1, 1, 1, 1, 1, 1, 1, 1, 1},
		},
		Lower: ControlMatrix{
			{0, 0, 0.03, 0.1, 0.31, 0.53, 0.71, 0.84, 1},
			{0, -0.02, -0.04, -0.06, -0.07, -0.06, -0.04, -0.02, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 0},
			{1, 1, 1, 1, 1, 1, 1, 1, 1},
		},
	}
}

// Clone returns an independent copy of p.
func (p *Parafoil) Clone() *Parafoil {
	c := *p
	return &c
}

// Curves returns the curves of the upper and the lower surface.
func (p *Parafoil) Curves() (*nurbs.Curve, *nurbs.Curve, error) {
	upper, err := p.Upper.Curve()
	if err != nil {
		return nil, nil, fmt.Errorf("upper surface: %w", err)
	}
	lower, err := p.Lower.Curve()
	if err != nil {
		return nil, nil, fmt.Errorf("lower surface: %w", err)
	}
	return upper, lower, nil
}
