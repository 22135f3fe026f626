package airfoil

import (
	"fmt"
	"math"
	"math/cmplx"
)

// === Pair Data Type ========================================================

// Pair is a 2D-point or a 2D-vector. Being a complex number, pairs may be added,
// subtracted and rotated with the built-in arithmetic operators.
type Pair complex128

// Origin represents the frequently used constant (0,0).
var Origin = P(0, 0)

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// C returns a Pair as a complex number.
func (p Pair) C() complex128 {
	return complex128(p)
}

// C2P returns a Pair from a complex number.
func C2P(c complex128) Pair {
	if cmplx.IsNaN(c) || cmplx.IsInf(c) {
		tracer().Errorf("created pair for complex.NaN")
		return P(math.NaN(), math.NaN())
	}
	return P(real(c), imag(c))
}

// P is a quick notation for contructing a pair from floats.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair.
func (p Pair) Y() float64 {
	return imag(p)
}

// Dot is the scalar product of two vectors.
func (p Pair) Dot(q Pair) float64 {
	return p.X()*q.X() + p.Y()*q.Y()
}

// Norm2 is the squared euclidean length of p.
func (p Pair) Norm2() float64 {
	return p.Dot(p)
}

// Abs is the euclidean length of p.
func (p Pair) Abs() float64 {
	return math.Hypot(p.X(), p.Y())
}

// Distance returns the euclidean distance between two points.
func (p Pair) Distance(q Pair) float64 {
	return (p - q).Abs()
}

// Scaled returns a new pair scaled by factor a.
func (p Pair) Scaled(a float64) Pair {
	return P(p.X()*a, p.Y()*a)
}

// Lerp linearly interpolates between p (t=0) and q (t=1).
func (p Pair) Lerp(q Pair, t float64) Pair {
	return P(p.X()*(1-t)+q.X()*t, p.Y()*(1-t)+q.Y()*t)
}

// Zap rounds x-part and y-part to Epsilon.
func (p Pair) Zap() Pair {
	return P(Zap(p.X()), Zap(p.Y()))
}

// Equal compares two pairs, allowing for a difference of tol in each
// coordinate.
func (p Pair) Equal(q Pair, tol float64) bool {
	return math.Abs(p.X()-q.X()) <= tol && math.Abs(p.Y()-q.Y()) <= tol
}

// IsNaN reports whether at least one of x and y is NaN or infinite.
func (p Pair) IsNaN() bool {
	return cmplx.IsNaN(p.C()) || cmplx.IsInf(p.C())
}

// Xs returns the x-parts of a sequence of pairs.
func Xs(pts []Pair) []float64 {
	xs := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.X()
	}
	return xs
}

// Ys returns the y-parts of a sequence of pairs.
func Ys(pts []Pair) []float64 {
	ys := make([]float64, len(pts))
	for i, p := range pts {
		ys[i] = p.Y()
	}
	return ys
}

// Reversed returns a reversed copy of pts.
func Reversed(pts []Pair) []Pair {
	r := make([]Pair, len(pts))
	for i, p := range pts {
		r[len(pts)-1-i] = p
	}
	return r
}

// === Affine Transformations ================================================

// AT is an affine transform, a matrix type used for transforming vectors.
type AT [9]float64 // a 3x3 matrix, flattened by rows

func (m *AT) get(row, col int) float64 {
	return m[row*3+col]
}

func (m *AT) set(row, col int, value float64) {
	m[row*3+col] = value
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	var m AT
	m.set(0, 0, 1.0)
	m.set(1, 1, 1.0)
	m.set(2, 2, 1.0)
	return m
}

// Translation transform. Translate a point by (dx,dy).
func Translation(p Pair) AT {
	m := Identity()
	m.set(0, 2, p.X())
	m.set(1, 2, p.Y())
	return m
}

// Rotation transform. Rotate a point counter-clockwise around the origin.
// Argument is in radians.
func Rotation(theta float64) AT {
	m := Identity()
	sin, cos := math.Sincos(theta)
	m.set(0, 0, cos)
	m.set(0, 1, -sin)
	m.set(1, 0, sin)
	m.set(1, 1, cos)
	return m
}

// ChordTransform returns the linear transform which maps the vector chord
// onto (1,0). It is built from chord/|chord|² and therefore rotates and scales
// at the same time:
//
//	| cos  -sin |      cos = chord·(1,0)  / |chord|²
//	| sin   cos |      sin = chord·(0,-1) / |chord|²
//
// A chord of length zero yields a transform of NaNs; callers have to check.
func ChordTransform(chord Pair) AT {
	n2 := chord.Norm2()
	cos := chord.Dot(P(1, 0)) / n2
	sin := chord.Dot(P(0, -1)) / n2
	m := Identity()
	m.set(0, 0, cos)
	m.set(0, 1, -sin)
	m.set(1, 0, sin)
	m.set(1, 1, cos)
	return m
}

// Debug Stringer for an affine transform.
func (m AT) String() string {
	return fmt.Sprintf("[%g,%g,%g|%g,%g,%g|%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

// Combine 2 affine transformation to a new one. The resulting transform
// applies m first, then n.
func (m AT) Combine(n AT) AT {
	var o AT
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += n.get(row, k) * m.get(k, col)
			}
			o.set(row, col, s)
		}
	}
	return o
}

// Transform a 2D-point. The argument is unchanged and a new pair is returned.
func (m AT) Transform(p Pair) Pair {
	x := m.get(0, 0)*p.X() + m.get(0, 1)*p.Y() + m.get(0, 2)
	y := m.get(1, 0)*p.X() + m.get(1, 1)*p.Y() + m.get(1, 2)
	return P(x, y)
}
