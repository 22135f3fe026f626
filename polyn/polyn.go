// Package polyn is for arithmetic with univariate polynomials and for
// polynomial interpolation.
/*
BSD 3-Clause License

Copyright (c) 2017–21, Norbert Pillmayer.

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
   list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
   this list of conditions and the following disclaimer in the documentation
   and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
   contributors may be used to endorse or promote products derived from
   this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/
package polyn

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/airfoil"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/mat"
)

// T traces to the polynomial tracer.
func T() tracing.Trace {
	return tracing.Select("airfoil.polyn")
}

// ErrDegenerate is returned if an interpolation system is singular or if a
// polynomial has no extremum.
var ErrDegenerate = errors.New("degenerate polynomial")

// X is a helper for quick construction of polynomials.
// It denotes a term
//
//	C⋅x^I
//
// I > 0
type X struct {
	I int     // exponent of x
	C float64 // coefficient
}

// New creates a polynomial, given the constant term and further terms.
//
// Use it as
//
//	polyn.New(8, polyn.X{2, 5}, polyn.X{1, 2/3})
//
// to get
//
//	P(x) = 8 + 2/3 x + 5 x²
func New(c float64, tms ...X) (Polynomial, error) {
	p := NewConstantPolynomial(c)
	var err error
	for _, t := range tms {
		if t.I < 1 {
			err = fmt.Errorf("term exponent must be at least 1, skipping it")
		} else {
			p = p.SetTerm(t.I, t.C)
		}
	}
	return p, err
}

// Polynomial is a type for polynomials in a single variable
//
//	c0 + c1 x + c2 x² + ... + cn xⁿ .
//
// We store the coefficients only. Index 0 is the constant term.
// Polynomials are values: operations return new polynomials and never
// alter their receiver.
type Polynomial struct {
	coeffs []float64
}

// NewConstantPolynomial creates a Polynomial consisting of just a constant term.
func NewConstantPolynomial(c float64) Polynomial {
	return Polynomial{coeffs: []float64{c}}
}

// FromCoefficients creates a polynomial from coefficients c[0] + c[1] x + … .
func FromCoefficients(c []float64) Polynomial {
	if len(c) == 0 {
		return NewConstantPolynomial(0)
	}
	p := Polynomial{coeffs: make([]float64, len(c))}
	copy(p.coeffs, c)
	return p
}

// SetTerm returns a copy of p with the coefficient for xⁱ set to scale.
// For i=0, sets the constant term.
func (p Polynomial) SetTerm(i int, scale float64) Polynomial {
	if i < 0 {
		panic(fmt.Sprintf("illegal exponent %d", i))
	}
	n := max(len(p.coeffs), i+1)
	q := Polynomial{coeffs: make([]float64, n)}
	copy(q.coeffs, p.coeffs)
	q.coeffs[i] = scale
	return q
}

// Coeff gets the coefficient for term xⁱ.
func (p Polynomial) Coeff(i int) float64 {
	if i < 0 || i >= len(p.coeffs) {
		return 0.0
	}
	return p.coeffs[i]
}

// Coefficients returns a copy of the coefficients, lowest exponent first.
func (p Polynomial) Coefficients() []float64 {
	c := make([]float64, len(p.coeffs))
	copy(c, p.coeffs)
	return c
}

// Degree is the highest exponent with a non-zero coefficient. The degree of
// the zero polynomial is 0 as well.
func (p Polynomial) Degree() int {
	for i := len(p.coeffs) - 1; i > 0; i-- {
		if !airfoil.Is0(p.coeffs[i]) {
			return i
		}
	}
	return 0
}

// Eval evaluates p at x, using Horner's scheme.
func (p Polynomial) Eval(x float64) float64 {
	var y float64
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		y = y*x + p.coeffs[i]
	}
	return y
}

// Derivative returns the first derivative of p.
func (p Polynomial) Derivative() Polynomial {
	if len(p.coeffs) <= 1 {
		return NewConstantPolynomial(0)
	}
	d := Polynomial{coeffs: make([]float64, len(p.coeffs)-1)}
	for i := 1; i < len(p.coeffs); i++ {
		d.coeffs[i-1] = float64(i) * p.coeffs[i]
	}
	return d
}

// Add adds two Polynomials. Returns a new Polynomial.
func (p Polynomial) Add(p2 Polynomial) Polynomial {
	n := max(len(p.coeffs), len(p2.coeffs))
	q := Polynomial{coeffs: make([]float64, n)}
	for i := range q.coeffs {
		q.coeffs[i] = p.Coeff(i) + p2.Coeff(i)
	}
	return q
}

// Scale multiplies all coefficients by a. Returns a new Polynomial.
func (p Polynomial) Scale(a float64) Polynomial {
	q := FromCoefficients(p.coeffs)
	for i := range q.coeffs {
		q.coeffs[i] *= a
	}
	return q
}

// Zap sets coefficients which "mean" to be zero to zero and drops
// trailing zero terms.
func (p Polynomial) Zap() Polynomial {
	q := FromCoefficients(p.coeffs)
	for i, c := range q.coeffs {
		q.coeffs[i] = airfoil.Zap(c)
	}
	q.coeffs = q.coeffs[:q.Degree()+1]
	return q
}

// Vertex returns the extremum (x, p(x)) of a quadratic polynomial.
// Polynomials of a degree other than 2 do not have a unique vertex and
// return ErrDegenerate.
func (p Polynomial) Vertex() (float64, float64, error) {
	if p.Degree() != 2 {
		return math.NaN(), math.NaN(), fmt.Errorf("%w: vertex of polynomial %s", ErrDegenerate, p)
	}
	x := -p.Coeff(1) / (2 * p.Coeff(2))
	return x, p.Eval(x), nil
}

// Interpolate returns the polynomial of degree len(xs)-1 through the points
// (xs[i], ys[i]), by solving the Vandermonde system
//
//	| 1  x0  x0² … |   | c0 |   | y0 |
//	| 1  x1  x1² … | ⋅ | c1 | = | y1 |
//	| …            |   | …  |   | …  |
//
// Duplicate abscissas make the system singular and result in ErrDegenerate.
func Interpolate(xs, ys []float64) (Polynomial, error) {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return Polynomial{}, fmt.Errorf("%w: need matching, non-empty abscissas and ordinates", ErrDegenerate)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if airfoil.Is0(xs[i] - xs[j]) {
				return Polynomial{}, fmt.Errorf("%w: duplicate abscissa %g", ErrDegenerate, xs[i])
			}
		}
	}
	v := mat.NewDense(n, n, nil)
	for i, x := range xs {
		xp := 1.0
		for j := 0; j < n; j++ {
			v.Set(i, j, xp)
			xp *= x
		}
	}
	var c mat.VecDense
	if err := c.SolveVec(v, mat.NewVecDense(n, append([]float64(nil), ys...))); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return Polynomial{}, fmt.Errorf("%w: %v", ErrDegenerate, err)
		}
		T().Debugf("interpolation system is ill-conditioned: %v", err)
	}
	p := FromCoefficients(c.RawVector().Data)
	T().Debugf("interpolated %s", p)
	return p, nil
}

// String creates a readable string representation for a Polynomial.
// Coefficients are rounded to the 3rd place.
func (p Polynomial) String() string {
	var buffer bytes.Buffer
	buffer.WriteString(fmt.Sprintf("%g", round(p.Coeff(0))))
	for i := 1; i < len(p.coeffs); i++ {
		c := p.coeffs[i]
		if airfoil.Is0(c) {
			continue
		}
		if c < 0 {
			buffer.WriteString(" - ")
		} else {
			buffer.WriteString(" + ")
		}
		if !airfoil.Is0(math.Abs(c) - 1.0) {
			buffer.WriteString(fmt.Sprintf("%g", round(math.Abs(c))))
		}
		if i == 1 {
			buffer.WriteString("x")
		} else {
			buffer.WriteString(fmt.Sprintf("x^%d", i))
		}
	}
	return buffer.String()
}

func round(x float64) float64 {
	return math.Round(x*1000) / 1000
}
