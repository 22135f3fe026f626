/*
Package profile implements airfoils given by raw coordinates.

A Shape holds an ordered sequence of points tracing the airfoil contour,
starting at the trailing edge, running along the upper surface to the nose
and back along the lower surface to the trailing edge. Shapes are created
from coordinate files, from NACA 4-digit formulas or from conformal mappings,
and are normalized, refined at the nose and resampled in place.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package profile

import (
	"fmt"
	"math"

	"github.com/npillmayer/airfoil"
	"github.com/npillmayer/airfoil/polygon"
	"github.com/npillmayer/airfoil/polyn"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'airfoil.profile'
func tracer() tracing.Trace {
	return tracing.Select("airfoil.profile")
}

// Errors of package profile. All of them are geometry errors.
var (
	ErrDegenerateChord = fmt.Errorf("%w: chord of zero length", airfoil.ErrGeometry)
	ErrIndexOutOfRange = fmt.Errorf("%w: index out of range", airfoil.ErrGeometry)
	ErrNoseAtBoundary  = fmt.Errorf("%w: nose has no neighbour", airfoil.ErrGeometry)
	ErrNotMonotonic    = fmt.Errorf("%w: x-values not monotonic", airfoil.ErrGeometry)
	ErrTooFewPoints    = fmt.Errorf("%w: too few points", airfoil.ErrGeometry)
	ErrInvalidDigits   = fmt.Errorf("%w: invalid NACA digits", airfoil.ErrGeometry)
	ErrMalformedLine   = fmt.Errorf("%w: malformed coordinate line", airfoil.ErrGeometry)
)

// Shape is an airfoil given by a sequence of coordinates. A shape is owned by
// its creator; all operations change it in place.
type Shape struct {
	Name   string
	coords []airfoil.Pair
	nose   int
}

// New creates a shape from a copy of coords and locates its nose. At least
// three points are required.
func New(coords []airfoil.Pair, name string) (*Shape, error) {
	if len(coords) < 3 {
		return nil, fmt.Errorf("%w: shape needs 3 points, have %d", ErrTooFewPoints, len(coords))
	}
	s := &Shape{Name: name, coords: make([]airfoil.Pair, len(coords))}
	copy(s.coords, coords)
	s.FindNose()
	return s, nil
}

// Len is the number of coordinates.
func (s *Shape) Len() int {
	return len(s.coords)
}

// At returns coordinate #i.
func (s *Shape) At(i int) airfoil.Pair {
	return s.coords[i]
}

// Coordinates returns a copy of the coordinate sequence.
func (s *Shape) Coordinates() []airfoil.Pair {
	c := make([]airfoil.Pair, len(s.coords))
	copy(c, s.coords)
	return c
}

// NoseIndex is the position of the leading edge within the coordinates, as
// found by the most recent call to FindNose.
func (s *Shape) NoseIndex() int {
	return s.nose
}

// Clone returns an independent copy of s.
func (s *Shape) Clone() *Shape {
	return &Shape{Name: s.Name, coords: s.Coordinates(), nose: s.nose}
}

func (s *Shape) String() string {
	return fmt.Sprintf("airfoil %q (%d points, nose at #%d)", s.Name, len(s.coords), s.nose)
}

// FindNose scans the coordinates while x is strictly decreasing and sets the
// nose to the first position where x stops decreasing. The scan stops at the
// last-but-one position, which therefore is the result for sequences with
// strictly decreasing x.
func (s *Shape) FindNose() int {
	i := 0
	for i < len(s.coords)-2 && s.coords[i+1].X() < s.coords[i].X() {
		i++
	}
	s.nose = i
	tracer().Debugf("nose of %q at #%d = %v", s.Name, i, s.coords[i])
	return i
}

// Normalize moves the nose to the origin and de-rotates the chord onto the
// x-axis. See NormalizeAbout.
func (s *Shape) Normalize() error {
	return s.NormalizeAbout(s.nose)
}

// NormalizeAbout normalizes the shape with respect to the point at position
// nose. With diff = first point - nose point, every point p is mapped to
//
//	M ⋅ (p - nose),   M = | cos -sin |,  (cos, -sin) = diff / |diff|²
//	                      | sin  cos |
//
// M maps diff onto (1,0), so the chord ends up at unit length. Finally the
// last point is set equal to the first one.
func (s *Shape) NormalizeAbout(nose int) error {
	if nose < 0 || nose >= len(s.coords) {
		return fmt.Errorf("%w: nose index %d, have %d points", ErrIndexOutOfRange, nose, len(s.coords))
	}
	origin := s.coords[nose]
	diff := s.coords[0] - origin
	if airfoil.Is0(diff.Norm2()) {
		return fmt.Errorf("%w: first point %v coincides with nose", ErrDegenerateChord, origin)
	}
	m := airfoil.Translation(-origin).Combine(airfoil.ChordTransform(diff))
	for i, p := range s.coords {
		s.coords[i] = m.Transform(p)
	}
	s.coords[len(s.coords)-1] = s.coords[0]
	return nil
}

// MoveNose refines the leading edge. It fits the parabola
//
//	x = c0 + c1⋅y + c2⋅y²
//
// through the nose and its two neighbours, replaces the nose point by the
// vertex of the parabola and normalizes again. The shape is assumed to be
// normalized already.
func (s *Shape) MoveNose() error {
	i := s.nose
	if i < 1 || i+1 >= len(s.coords) {
		return fmt.Errorf("%w: nose at #%d of %d", ErrNoseAtBoundary, i, len(s.coords))
	}
	pts := s.coords[i-1 : i+2]
	para, err := polyn.Interpolate(airfoil.Ys(pts), airfoil.Xs(pts))
	if err != nil {
		return fmt.Errorf("%w: nose parabola: %w", airfoil.ErrGeometry, err)
	}
	y, x, err := para.Vertex()
	if err != nil {
		return fmt.Errorf("%w: nose parabola: %w", airfoil.ErrGeometry, err)
	}
	tracer().Debugf("moving nose from %v to %v", s.coords[i], airfoil.P(x, y))
	s.coords[i] = airfoil.P(x, y)
	return s.Normalize()
}

// Upper returns the upper surface, from the trailing edge up to (but not
// including) the nose.
func (s *Shape) Upper() []airfoil.Pair {
	u := make([]airfoil.Pair, s.nose)
	copy(u, s.coords[:s.nose])
	return u
}

// Lower returns the lower surface, starting one point ahead of the nose and
// running to the trailing edge. Upper and lower surface overlap by one point.
func (s *Shape) Lower() []airfoil.Pair {
	from := max(s.nose-1, 0)
	l := make([]airfoil.Pair, len(s.coords)-from)
	copy(l, s.coords[from:])
	return l
}

// XValues returns the x-coordinates signed by surface: negative up to and
// including the nose, positive on the lower surface. For a normalized shape
// the values run from -1 through 0 to 1.
func (s *Shape) XValues() []float64 {
	xs := make([]float64, len(s.coords))
	for i, p := range s.coords {
		xs[i] = s.signedX(i, p)
	}
	return xs
}

func (s *Shape) signedX(i int, p airfoil.Pair) float64 {
	if i > s.nose {
		return p.X()
	}
	return -p.X()
}

// SetXValues resamples the shape at the signed x-values xs (see XValues).
// xs has to be non-decreasing. Every new point is linearly interpolated
// between the two existing points bracketing its x-value. The bracket never
// advances past the second-to-last point, so targets near the end of the
// contour are extrapolated from the segment ending there. Afterwards the nose
// is located again and the shape is normalized.
func (s *Shape) SetXValues(xs []float64) error {
	if len(xs) < 2 {
		return fmt.Errorf("%w: %d target x-values", ErrTooFewPoints, len(xs))
	}
	if len(s.coords) < 3 {
		return fmt.Errorf("%w: resampling %d points", ErrTooFewPoints, len(s.coords))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[i-1] || math.IsNaN(xs[i]) {
			return fmt.Errorf("%w: target #%d = %g after %g", ErrNotMonotonic, i, xs[i], xs[i-1])
		}
	}
	src := s.XValues()
	n := len(src)
	coords := make([]airfoil.Pair, 0, len(xs))
	i := 1
	for _, x := range xs {
		for i < n-2 && src[i] <= x {
			i++
		}
		var t float64
		if den := src[i] - src[i-1]; den != 0 {
			t = (x - src[i-1]) / den
		}
		coords = append(coords, s.coords[i-1].Lerp(s.coords[i], t))
	}
	s.coords = coords
	s.FindNose()
	return s.Normalize()
}

// SetNumPoints resamples the shape with the double-cosine distribution,
// resulting in n+1 points for even n.
func (s *Shape) SetNumPoints(n int) error {
	return s.SetXValues(Cos2Distribution(n))
}

// Polygon returns the closed contour as a polygon.
func (s *Shape) Polygon() *polygon.Polygon {
	return polygon.FromPairs(s.coords)
}

// Area is the area enclosed by the contour.
func (s *Shape) Area() float64 {
	return s.Polygon().Area()
}

// BoundingBox returns the lower left and upper right corner of the shape's
// bounding box.
func (s *Shape) BoundingBox() (airfoil.Pair, airfoil.Pair) {
	return s.Polygon().BoundingBox()
}
