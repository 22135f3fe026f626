/*
Package polygon implements closed polygons in the plane.

Polygons are used to compare airfoil contours: area, point containment and
the area of overlap between two contours. Boolean operations on polygons are
delegated to polyclip-go.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package polygon

import (
	"bytes"
	"fmt"
	"math"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/airfoil"
	"github.com/npillmayer/schuko/tracing"
)

// L traces to the polygon tracer.
func L() tracing.Trace {
	return tracing.Select("airfoil.polygon")
}

// Polygon is a closed polygon, given by its knots. The closing edge from the
// last knot back to the first one is implicit.
type Polygon struct {
	knots  polyclip.Contour
	cycled bool
}

// NullPolygon creates an empty polygon, ready to receive knots.
//
//	pg := NullPolygon().Knot(P(0,0)).Knot(P(1,3)).Knot(P(3,0)).Cycle()
func NullPolygon() *Polygon {
	return &Polygon{knots: make(polyclip.Contour, 0, 16)}
}

// Knot appends a knot to the polygon.
func (pg *Polygon) Knot(p airfoil.Pair) *Polygon {
	pg.knots.Add(polyclip.Point{X: p.X(), Y: p.Y()})
	return pg
}

// Cycle closes the polygon. A last knot equal to the first knot is dropped,
// as the closing edge is implicit.
func (pg *Polygon) Cycle() *Polygon {
	n := len(pg.knots)
	if n > 1 && pg.knots[0].Equals(pg.knots[n-1]) {
		pg.knots = pg.knots[:n-1]
	}
	pg.cycled = true
	return pg
}

// FromPairs creates a closed polygon from a sequence of points, e.g. an
// airfoil contour.
func FromPairs(pts []airfoil.Pair) *Polygon {
	pg := NullPolygon()
	for _, p := range pts {
		pg.Knot(p)
	}
	return pg.Cycle()
}

// Box creates a rectangle from two opposite corners.
func Box(p1, p2 airfoil.Pair) *Polygon {
	xmin, xmax := math.Min(p1.X(), p2.X()), math.Max(p1.X(), p2.X())
	ymin, ymax := math.Min(p1.Y(), p2.Y()), math.Max(p1.Y(), p2.Y())
	return NullPolygon().
		Knot(airfoil.P(xmin, ymin)).Knot(airfoil.P(xmax, ymin)).
		Knot(airfoil.P(xmax, ymax)).Knot(airfoil.P(xmin, ymax)).Cycle()
}

// N returns the number of knots.
func (pg *Polygon) N() int {
	return len(pg.knots)
}

// Pt returns knot #i.
func (pg *Polygon) Pt(i int) airfoil.Pair {
	k := pg.knots[i]
	return airfoil.P(k.X, k.Y)
}

// IsCycle is true for polygons closed with Cycle().
func (pg *Polygon) IsCycle() bool {
	return pg.cycled
}

// AsString returns a polygon in a MetaPost-like notation.
func AsString(pg *Polygon) string {
	var b bytes.Buffer
	for i, k := range pg.knots {
		if i > 0 {
			b.WriteString("--")
		}
		b.WriteString(fmt.Sprintf("(%g,%g)", k.X, k.Y))
	}
	if pg.cycled {
		b.WriteString("--cycle")
	}
	return b.String()
}

// SignedArea returns the area enclosed by the polygon, positive for
// counter-clockwise orientation.
func (pg *Polygon) SignedArea() float64 {
	return signedArea(pg.knots)
}

// Area returns the absolute area enclosed by the polygon.
func (pg *Polygon) Area() float64 {
	return math.Abs(signedArea(pg.knots))
}

// Contains checks if a point lies inside the polygon.
func (pg *Polygon) Contains(p airfoil.Pair) bool {
	if len(pg.knots) < 3 {
		return false
	}
	return pg.knots.Contains(polyclip.Point{X: p.X(), Y: p.Y()})
}

// BoundingBox returns the lower left and the upper right corner of the
// smallest axis-parallel rectangle enclosing the polygon.
func (pg *Polygon) BoundingBox() (airfoil.Pair, airfoil.Pair) {
	if len(pg.knots) == 0 {
		return airfoil.Origin, airfoil.Origin
	}
	r := pg.knots.BoundingBox()
	return airfoil.P(r.Min.X, r.Min.Y), airfoil.P(r.Max.X, r.Max.Y)
}

// IntersectionArea returns the area of the intersection of two polygons.
func IntersectionArea(a, b *Polygon) float64 {
	if a.N() < 3 || b.N() < 3 {
		return 0
	}
	pa := polyclip.Polygon{a.knots.Clone()}
	pb := polyclip.Polygon{b.knots.Clone()}
	isect := pa.Construct(polyclip.INTERSECTION, pb)
	area := multiArea(isect)
	L().Debugf("intersection of %d and %d knots has %d contour(s), area %g",
		a.N(), b.N(), len(isect), area)
	return area
}

// SymmetricDifferenceArea returns the area covered by exactly one of the
// polygons, i.e. area(A) + area(B) - 2⋅area(A∩B). It is 0 for congruent
// polygons.
func SymmetricDifferenceArea(a, b *Polygon) float64 {
	d := a.Area() + b.Area() - 2*IntersectionArea(a, b)
	return math.Max(0, d)
}

// multiArea sums the areas of the contours of a polygon resulting from a
// clipping operation. Contours nested in an odd number of other contours
// are holes.
func multiArea(p polyclip.Polygon) float64 {
	var area float64
	for i, c := range p {
		if len(c) < 3 {
			continue
		}
		depth := 0
		for j, other := range p {
			if i != j && len(other) >= 3 && other.Contains(c[0]) {
				depth++
			}
		}
		a := math.Abs(signedArea(c))
		if depth%2 == 1 {
			a = -a
		}
		area += a
	}
	return area
}

// shoelace formula
func signedArea(c polyclip.Contour) float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	var s float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		s += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return s / 2
}
