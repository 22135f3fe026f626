/*
Package nurbs evaluates planar rational B-spline curves.

Evaluator is the capability clients of curves depend on: points, arc length,
curvature and the distance of an arbitrary point to the curve. Curve is the
implementation for rational B-splines of arbitrary degree, with basis
functions and their derivatives computed following Piegl & Tiller,
"The NURBS Book".

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package nurbs

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/airfoil"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/integrate/quad"
)

// tracer writes to trace with key 'airfoil.nurbs'
func tracer() tracing.Trace {
	return tracing.Select("airfoil.nurbs")
}

// Evaluator is a parametric curve, parameterized over [0,1] for clamped
// curves with a normalized knot vector.
type Evaluator interface {
	Value(t float64) airfoil.Pair           // point at parameter t
	Length(t0, t1 float64) float64          // arc length between t0 and t1
	Curvature(t float64) float64            // unsigned curvature at t
	DistanceToPoint(p airfoil.Pair) float64 // minimum distance of p to the curve
}

// Errors for invalid curve definitions.
var (
	ErrDegree    = errors.New("invalid degree or number of poles")
	ErrKnotCount = errors.New("number of knots must be #poles + degree + 1")
	ErrKnotOrder = errors.New("knots must be non-decreasing with a non-empty domain")
	ErrWeight    = errors.New("weights must be positive, one per pole")
)

// Curve is a rational B-spline curve in the plane.
type Curve struct {
	degree  int
	poles   []airfoil.Pair
	weights []float64
	knots   []float64
}

var _ Evaluator = (*Curve)(nil)

// gaussPoints is the number of Gauss-Legendre points per knot span.
const gaussPoints = 16

// New creates a rational B-spline curve. The slices are copied.
func New(degree int, poles []airfoil.Pair, weights []float64, knots []float64) (*Curve, error) {
	if err := check(degree, poles, weights, knots); err != nil {
		tracer().Debugf("nurbs: rejected curve of degree %d: %v", degree, err)
		return nil, err
	}
	c := &Curve{
		degree:  degree,
		poles:   append([]airfoil.Pair(nil), poles...),
		weights: append([]float64(nil), weights...),
		knots:   append([]float64(nil), knots...),
	}
	return c, nil
}

func check(degree int, poles []airfoil.Pair, weights []float64, knots []float64) error {
	if degree < 1 || len(poles) <= degree {
		return fmt.Errorf("%w: degree %d with %d poles", ErrDegree, degree, len(poles))
	}
	if len(weights) != len(poles) {
		return fmt.Errorf("%w: %d weights for %d poles", ErrWeight, len(weights), len(poles))
	}
	for i, w := range weights {
		if !(w > 0) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: weight #%d = %g", ErrWeight, i, w)
		}
	}
	if len(knots) != len(poles)+degree+1 {
		return fmt.Errorf("%w: have %d knots, need %d", ErrKnotCount, len(knots), len(poles)+degree+1)
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] || math.IsNaN(knots[i]) {
			return fmt.Errorf("%w: knot #%d = %g", ErrKnotOrder, i, knots[i])
		}
	}
	if knots[degree] >= knots[len(poles)] {
		return fmt.Errorf("%w: empty domain", ErrKnotOrder)
	}
	return nil
}

func (c *Curve) Degree() int {
	return c.degree
}

// Poles returns a copy of the control points.
func (c *Curve) Poles() []airfoil.Pair {
	return append([]airfoil.Pair(nil), c.poles...)
}

// Domain returns the parameter range of the curve.
func (c *Curve) Domain() (float64, float64) {
	return c.knots[c.degree], c.knots[len(c.poles)]
}

func (c *Curve) clamp(t float64) float64 {
	t0, t1 := c.Domain()
	return math.Max(t0, math.Min(t1, t))
}

// findSpan returns the knot span index i with knots[i] <= t < knots[i+1].
func (c *Curve) findSpan(t float64) int {
	n := len(c.poles) - 1
	p := c.degree
	if t >= c.knots[n+1] {
		for n > p && c.knots[n] == c.knots[n+1] {
			n--
		}
		return n
	}
	if t <= c.knots[p] {
		return p
	}
	low, high := p, n+1
	mid := (low + high) / 2
	for t < c.knots[mid] || t >= c.knots[mid+1] {
		if t < c.knots[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// basisDerivatives computes the non-vanishing basis functions at t and their
// derivatives up to order nd, ders[k][j] being the k-th derivative of
// N(span-p+j).
func (c *Curve) basisDerivatives(span int, t float64, nd int) [][]float64 {
	p := c.degree
	ndu := matrix(p+1, p+1)
	left := make([]float64, p+1)
	right := make([]float64, p+1)
	ndu[0][0] = 1
	for j := 1; j <= p; j++ {
		left[j] = t - c.knots[span+1-j]
		right[j] = c.knots[span+j] - t
		saved := 0.0
		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r]
			temp := ndu[r][j-1] / ndu[j][r]
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}
	ders := matrix(nd+1, p+1)
	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}
	du := min(nd, p) // higher derivatives vanish
	a := matrix(2, p+1)
	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1
		for k := 1; k <= du; k++ {
			d := 0.0
			rk, pk := r-k, p-k
			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				d = a[s2][0] * ndu[rk][pk]
			}
			j1 := 1
			if rk < -1 {
				j1 = -rk
			}
			j2 := p - r
			if r-1 <= pk {
				j2 = k - 1
			}
			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				d += a[s2][j] * ndu[rk+j][pk]
			}
			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				d += a[s2][k] * ndu[r][pk]
			}
			ders[k][r] = d
			s1, s2 = s2, s1
		}
	}
	f := float64(p)
	for k := 1; k <= du; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= f
		}
		f *= float64(p - k)
	}
	return ders
}

// Derivatives returns the point at t and its derivatives up to order nd:
// result[0] = C(t), result[1] = C'(t), and so on.
// t is clamped to the domain of the curve.
func (c *Curve) Derivatives(t float64, nd int) []airfoil.Pair {
	t = c.clamp(t)
	p := c.degree
	span := c.findSpan(t)
	ders := c.basisDerivatives(span, t, nd)
	aders := make([]airfoil.Pair, nd+1) // derivatives of the homogeneous numerator
	wders := make([]float64, nd+1)      // derivatives of the weight function
	for k := 0; k <= nd; k++ {
		for j := 0; j <= p; j++ {
			i := span - p + j
			b := ders[k][j] * c.weights[i]
			aders[k] += c.poles[i].Scaled(b)
			wders[k] += b
		}
	}
	cders := make([]airfoil.Pair, nd+1)
	for k := 0; k <= nd; k++ {
		v := aders[k]
		for i := 1; i <= k; i++ {
			v -= cders[k-i].Scaled(binomial(k, i) * wders[i])
		}
		cders[k] = v.Scaled(1 / wders[0])
	}
	return cders
}

// Value is the point on the curve at parameter t.
func (c *Curve) Value(t float64) airfoil.Pair {
	return c.Derivatives(t, 0)[0]
}

// SignedCurvature is (x'y'' - y'x'') / |C'|³, positive where the curve turns
// counter-clockwise. It is 0 where the first derivative vanishes.
func (c *Curve) SignedCurvature(t float64) float64 {
	d := c.Derivatives(t, 2)
	speed := d[1].Abs()
	if speed == 0 {
		return 0
	}
	return (d[1].X()*d[2].Y() - d[1].Y()*d[2].X()) / (speed * speed * speed)
}

// Curvature is the absolute value of the signed curvature.
func (c *Curve) Curvature(t float64) float64 {
	return math.Abs(c.SignedCurvature(t))
}

// Length is the arc length between parameters t0 and t1, integrated with
// Gauss-Legendre quadrature on every knot span in between. Length is
// negative for t1 < t0.
func (c *Curve) Length(t0, t1 float64) float64 {
	if t1 < t0 {
		return -c.Length(t1, t0)
	}
	t0, t1 = c.clamp(t0), c.clamp(t1)
	speed := func(t float64) float64 {
		return c.Derivatives(t, 1)[1].Abs()
	}
	var length float64
	a := t0
	for _, k := range c.knots {
		if k <= a {
			continue
		}
		if k >= t1 {
			break
		}
		length += quad.Fixed(speed, a, k, gaussPoints, quad.Legendre{}, 0)
		a = k
	}
	if t1 > a {
		length += quad.Fixed(speed, a, t1, gaussPoints, quad.Legendre{}, 0)
	}
	return length
}

// ClosestPoint finds the point on the curve closest to p. It returns the
// parameter, the point on the curve and the distance. The curve is sampled
// first, then the best sample is refined by Newton iterations on
//
//	f(t) = C'(t) ⋅ (C(t) - p) = 0
func (c *Curve) ClosestPoint(p airfoil.Pair) (float64, airfoil.Pair, float64) {
	t0, t1 := c.Domain()
	samples := max(32, 8*len(c.poles))
	best, bestD := t0, math.Inf(1)
	for i := 0; i <= samples; i++ {
		t := t0 + (t1-t0)*float64(i)/float64(samples)
		if d := c.Value(t).Distance(p); d < bestD {
			best, bestD = t, d
		}
	}
	t := best
	const maxNewton = 20
	iter := 0
	for ; iter < maxNewton; iter++ {
		d := c.Derivatives(t, 2)
		r := d[0] - p
		f := d[1].Dot(r)
		df := d[2].Dot(r) + d[1].Norm2()
		if df == 0 {
			break
		}
		tn := c.clamp(t - f/df)
		dist := c.Value(tn).Distance(p)
		if dist > bestD {
			break
		}
		best, bestD = tn, dist
		if math.Abs(tn-t) < 1e-15 {
			break
		}
		t = tn
	}
	if iter == maxNewton {
		tracer().Debugf("nurbs: closest point to %v not converged after %d Newton steps, t = %g, distance %g",
			p, maxNewton, best, bestD)
	}
	return best, c.Value(best), bestD
}

// DistanceToPoint is the minimum distance of p to the curve.
func (c *Curve) DistanceToPoint(p airfoil.Pair) float64 {
	_, _, d := c.ClosestPoint(p)
	return d
}

func matrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

func binomial(n, k int) float64 {
	b := 1.0
	for i := 1; i <= k; i++ {
		b = b * float64(n-k+i) / float64(i)
	}
	return b
}
