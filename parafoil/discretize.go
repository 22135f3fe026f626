package parafoil

import (
	"fmt"
	"math"

	"github.com/npillmayer/airfoil"
	"github.com/npillmayer/airfoil/nurbs"
	"github.com/npillmayer/airfoil/profile"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// discretizationSamples is the size of the parameter grid used to tabulate
// arc length and curvature.
const discretizationSamples = 1000

// DiscretizeCurve samples numpoints points from a curve parameterized over
// [0,1]. The spacing blends arc length and accumulated curvature:
//
//	s(t) = f ⋅ curvature(t) + (1-f) ⋅ arc(t)
//
// where both terms are normalized to [0,1]. With f = 0 the points are
// equidistant along the curve, with f = 1 they cluster where the curve bends.
func DiscretizeCurve(ev nurbs.Evaluator, numpoints int, f float64) ([]airfoil.Pair, error) {
	if !(f >= 0 && f <= 1) {
		return nil, fmt.Errorf("%w: %g", ErrCurvatureFactor, f)
	}
	if numpoints < 2 {
		return nil, fmt.Errorf("%w: cannot discretize to %d points", profile.ErrTooFewPoints, numpoints)
	}
	ts := make([]float64, discretizationSamples)
	floats.Span(ts, 0, 1)
	arc := make([]float64, len(ts))
	curv := make([]float64, len(ts))
	for i, t := range ts {
		if k := ev.Curvature(t); !math.IsNaN(k) && !math.IsInf(k, 0) {
			curv[i] = k
		}
		if i > 0 {
			arc[i] = arc[i-1] + ev.Length(ts[i-1], t)
		}
	}
	floats.CumSum(curv, curv)
	if !normalizeCumulative(arc) {
		return nil, fmt.Errorf("%w: curve has zero length", airfoil.ErrGeometry)
	}
	if !normalizeCumulative(curv) {
		copy(curv, arc) // straight curve
	}
	blend := make([]float64, len(ts))
	for i := range blend {
		blend[i] = f*curv[i] + (1-f)*arc[i]
	}
	normalizeCumulative(blend)
	var blendToArc, arcToT interp.PiecewiseLinear
	if err := fitIncreasing(&blendToArc, blend, arc); err != nil {
		return nil, err
	}
	if err := fitIncreasing(&arcToT, arc, ts); err != nil {
		return nil, err
	}
	us := make([]float64, numpoints)
	floats.Span(us, 0, 1)
	pts := make([]airfoil.Pair, numpoints)
	for i, u := range us {
		t := arcToT.Predict(blendToArc.Predict(u))
		pts[i] = ev.Value(t)
	}
	return pts, nil
}

// normalizeCumulative maps a non-decreasing sequence onto [0,1]. It returns
// false if the sequence is constant.
func normalizeCumulative(v []float64) bool {
	lo, hi := v[0], v[len(v)-1]
	if !(hi-lo > 0) {
		return false
	}
	for i := range v {
		v[i] = (v[i] - lo) / (hi - lo)
	}
	return true
}

// fitIncreasing fits a piecewise linear function, skipping samples where xs
// does not strictly increase.
func fitIncreasing(pl *interp.PiecewiseLinear, xs, ys []float64) error {
	fx := make([]float64, 0, len(xs))
	fy := make([]float64, 0, len(ys))
	for i, x := range xs {
		if len(fx) > 0 && x <= fx[len(fx)-1] {
			continue
		}
		fx = append(fx, x)
		fy = append(fy, ys[i])
	}
	if err := pl.Fit(fx, fy); err != nil {
		return fmt.Errorf("%w: discretization: %w", airfoil.ErrGeometry, err)
	}
	return nil
}

// Discretize converts the parafoil into a raw-coordinate profile. Each surface
// is discretized to numpoints points; the contour runs from the trailing edge
// over the upper surface to the nose and back over the lower surface. The nose
// point is shared, so the profile has 2⋅numpoints-1 points.
func (p *Parafoil) Discretize(numpoints int, f float64) (*profile.Shape, error) {
	upper, lower, err := p.Curves()
	if err != nil {
		return nil, err
	}
	up, err := DiscretizeCurve(upper, numpoints, f)
	if err != nil {
		return nil, err
	}
	lo, err := DiscretizeCurve(lower, numpoints, f)
	if err != nil {
		return nil, err
	}
	coords := append(airfoil.Reversed(up), lo[1:]...)
	return profile.New(coords, p.Name)
}
