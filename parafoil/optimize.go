package parafoil

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/npillmayer/airfoil/lsq"
	"github.com/npillmayer/airfoil/polygon"
	"github.com/npillmayer/airfoil/profile"
)

// Objective computes residuals for a discretized trial airfoil. The number of
// residuals must not change between calls. An objective signals failure by
// returning an error.
type Objective func(ctx context.Context, shape *profile.Shape) ([]float64, error)

// OptimizeOptions configure Optimize. Zero values select defaults.
type OptimizeOptions struct {
	Selection       Selection     // default: YTags
	NumPoints       int           // points per surface for discretization, default 50
	CurvatureFactor float64       // see DiscretizeCurve
	Penalty         float64       // residual substituted on failures, default 1.0
	Residuals       int           // residual count, default: length at the start point, or 1 if that fails
	UpperBounds     *lsq.Bounds   // default: DefaultBounds
	LowerBounds     *lsq.Bounds   // default: DefaultBounds
	Solver          *lsq.Settings // default: lsq.DefaultSettings
}

// Optimization is the outcome of Optimize.
type Optimization struct {
	Result      *lsq.Result
	Evaluations int // calls of the objective
	Failures    int // evaluations replaced by the penalty
}

// DefaultNumPoints is the number of points per surface for discretization
// during optimization.
const DefaultNumPoints = 50

// Optimize varies the selected entries of both control matrices to minimize
// the objective's squared residuals. Upper and lower values form one joint
// vector. Each evaluation works on copies of the control matrices,
// discretizes them and calls obj.
//
// Failing evaluations do not abort the optimization: if the parafoil cannot be
// discretized, or the objective returns an error, panics, returns non-finite
// values or a residual vector of unexpected length, every residual is set to
// the penalty and the failure is counted. This includes the start point. The
// number of residuals is taken from opts.Residuals if set, else from the
// evaluation at the start point. If that fails as well, a single residual is
// used and longer residual vectors are folded into their norm.
//
// When the solver returns, the best iterate is written back to p. This holds
// for cancellation as well, in which case ctx.Err() is returned.
func (p *Parafoil) Optimize(ctx context.Context, obj Objective, opts OptimizeOptions) (*Optimization, error) {
	sel := opts.Selection
	if len(sel) == 0 {
		sel = YTags
	}
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if opts.NumPoints == 0 {
		opts.NumPoints = DefaultNumPoints
	}
	if opts.Penalty == 0 {
		opts.Penalty = 1.0
	}
	ub, lb := DefaultBounds(UpperSide, sel), DefaultBounds(LowerSide, sel)
	if opts.UpperBounds != nil {
		ub = *opts.UpperBounds
	}
	if opts.LowerBounds != nil {
		lb = *opts.LowerBounds
	}
	k := len(sel)
	bounds := lsq.Bounds{
		Lower: append(append([]float64(nil), ub.Lower...), lb.Lower...),
		Upper: append(append([]float64(nil), ub.Upper...), lb.Upper...),
	}
	if len(bounds.Lower) != 2*k || len(bounds.Upper) != 2*k {
		return nil, fmt.Errorf("%w: bounds do not match %d parameters per surface", lsq.ErrDimensionMismatch, k)
	}
	x0 := append(p.Upper.Values(sel), p.Lower.Values(sel)...)
	opt := &Optimization{}
	trial := func(x []float64) (*Parafoil, error) {
		q := p.Clone()
		if err := q.Upper.SetValues(sel, x[:k]); err != nil {
			return nil, err
		}
		if err := q.Lower.SetValues(sel, x[k:]); err != nil {
			return nil, err
		}
		return q, nil
	}
	evaluate := func(x []float64) (r []float64, err error) {
		opt.Evaluations++
		defer func() {
			if e := recover(); e != nil {
				r, err = nil, fmt.Errorf("%w: %v", ErrObjectivePanic, e)
			}
		}()
		q, err := trial(x)
		if err != nil {
			return nil, err
		}
		shape, err := q.Discretize(opts.NumPoints, opts.CurvatureFactor)
		if err != nil {
			return nil, err
		}
		return obj(ctx, shape)
	}
	// The start point is evaluated up front to size the residual vector.
	// The solver's first call repeats x0 and reuses this outcome.
	r0, err0 := evaluate(x0)
	m := opts.Residuals
	if m <= 0 {
		m = 1
		if err0 == nil && len(r0) > 0 {
			m = len(r0)
		}
	}
	startPending := true
	residuals := func(dst, x []float64) {
		var r []float64
		var err error
		if startPending && floats.Equal(x, x0) {
			r, err = r0, err0
		} else {
			r, err = evaluate(x)
		}
		startPending = false
		if err == nil {
			r, err = fitResiduals(r, m)
		}
		if err != nil {
			opt.Failures++
			tracer().Errorf("objective evaluation #%d replaced by penalty: %v", opt.Evaluations, err)
			for i := range dst {
				dst[i] = opts.Penalty
			}
			return
		}
		copy(dst, r)
	}
	res, err := lsq.Minimize(ctx, residuals, m, x0, bounds, opts.Solver)
	if res == nil {
		return nil, err
	}
	opt.Result = res
	if q, e := trial(res.X); e == nil {
		p.Upper, p.Lower = q.Upper, q.Lower
	}
	tracer().Infof("optimized %s: squared error %g after %d evaluations (%d failures), %s",
		p.Name, res.SquaredError(), opt.Evaluations, opt.Failures, res.Status)
	return opt, err
}

// fitResiduals checks an objective's residuals against the expected count m.
// For m = 1 a longer vector is folded into its Euclidean norm, which keeps the
// sum of squares.
func fitResiduals(r []float64, m int) ([]float64, error) {
	if len(r) == 0 {
		return nil, errors.New("objective returned no residuals")
	}
	for i, v := range r {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("objective returned non-finite residual #%d", i)
		}
	}
	if len(r) == m {
		return r, nil
	}
	if m == 1 {
		return []float64{floats.Norm(r, 2)}, nil
	}
	return nil, fmt.Errorf("objective returned %d residuals, expected %d", len(r), m)
}

// AreaDeviation is an objective measuring how much a trial airfoil deviates
// from a target: its single residual is the area of the symmetric difference
// of both contours.
func AreaDeviation(target *profile.Shape) Objective {
	tp := target.Polygon()
	return func(_ context.Context, shape *profile.Shape) ([]float64, error) {
		return []float64{polygon.SymmetricDifferenceArea(tp, shape.Polygon())}, nil
	}
}
