package parafoil

import (
	"context"
	"fmt"

	"github.com/npillmayer/airfoil"
	"github.com/npillmayer/airfoil/lsq"
	"github.com/npillmayer/airfoil/profile"
)

// curvePenalty is the residual for target points whenever a trial matrix does
// not describe a valid curve.
const curvePenalty = 1.0

// CalibrateSide fits a control matrix to target points. The selected entries
// of m are varied within bounds b, minimizing the sum of squared distances of
// the target points to the curve. m is not modified; the fitted matrix is
// returned together with the solver result.
//
// The result is returned even if the solver did not converge. Check
// Result.Converged.
func CalibrateSide(ctx context.Context, m ControlMatrix, sel Selection, b lsq.Bounds,
	target []airfoil.Pair, s *lsq.Settings) (ControlMatrix, *lsq.Result, error) {
	//
	if err := sel.Validate(); err != nil {
		return m, nil, err
	}
	if len(target) == 0 {
		return m, nil, fmt.Errorf("%w: no target points for calibration", profile.ErrTooFewPoints)
	}
	residuals := func(dst, x []float64) {
		trial := m
		if err := trial.SetValues(sel, x); err == nil {
			if curve, err := trial.Curve(); err == nil {
				for i, p := range target {
					dst[i] = curve.DistanceToPoint(p)
				}
				return
			}
		}
		for i := range dst {
			dst[i] = curvePenalty
		}
	}
	res, err := lsq.Minimize(ctx, residuals, len(target), m.Values(sel), b, s)
	if res == nil {
		return m, nil, err
	}
	fitted := m
	if e := fitted.SetValues(sel, res.X); e != nil {
		return m, res, e
	}
	return fitted, res, err
}

// CalibrationOptions configure Calibrate. Zero values select defaults:
// y-coordinates only, DefaultBounds and default solver settings.
type CalibrationOptions struct {
	Selection   Selection
	UpperBounds *lsq.Bounds
	LowerBounds *lsq.Bounds
	Solver      *lsq.Settings
}

// Calibration holds the solver results for both surfaces.
type Calibration struct {
	Upper *lsq.Result
	Lower *lsq.Result
}

// SquaredError is the sum of squared distances of all target points to the
// calibrated curves.
func (c *Calibration) SquaredError() float64 {
	var sum float64
	if c.Upper != nil {
		sum += c.Upper.SquaredError()
	}
	if c.Lower != nil {
		sum += c.Lower.SquaredError()
	}
	return sum
}

// Converged is true if both fits converged.
func (c *Calibration) Converged() bool {
	return c.Upper != nil && c.Lower != nil && c.Upper.Converged && c.Lower.Converged
}

// Calibrate fits the parafoil to a raw-coordinate profile, which should be
// normalized. Upper and lower surface are fitted independently, the upper
// surface against the profile's upper points in nose-to-trailing-edge order.
// Both fitted matrices are written back to p, even if a fit did not converge.
func (p *Parafoil) Calibrate(ctx context.Context, target *profile.Shape, opts CalibrationOptions) (*Calibration, error) {
	sel := opts.Selection
	if len(sel) == 0 {
		sel = YTags
	}
	ub, lb := DefaultBounds(UpperSide, sel), DefaultBounds(LowerSide, sel)
	if opts.UpperBounds != nil {
		ub = *opts.UpperBounds
	}
	if opts.LowerBounds != nil {
		lb = *opts.LowerBounds
	}
	upper, ures, err := CalibrateSide(ctx, p.Upper, sel, ub, airfoil.Reversed(target.Upper()), opts.Solver)
	if ures == nil {
		return nil, fmt.Errorf("upper surface: %w", err)
	}
	p.Upper = upper
	cal := &Calibration{Upper: ures}
	if err != nil {
		return cal, fmt.Errorf("upper surface: %w", err)
	}
	lower, lres, err := CalibrateSide(ctx, p.Lower, sel, lb, target.Lower(), opts.Solver)
	if lres == nil {
		return cal, fmt.Errorf("lower surface: %w", err)
	}
	p.Lower = lower
	cal.Lower = lres
	if err != nil {
		return cal, fmt.Errorf("lower surface: %w", err)
	}
	tracer().Infof("calibrated %s to %s: squared error %g", p.Name, target.Name, cal.SquaredError())
	return cal, nil
}
