/*
Package lsq solves bounded nonlinear least squares problems.

Minimize finds x within a box [Lower, Upper] minimizing ½‖r(x)‖², where r is a
vector of m residuals. It implements a Levenberg-Marquardt trust region
method with Nielsen's damping update. Bounds are handled by freezing variables
which sit on a bound with the descent direction pointing outwards, and by
projecting every trial point into the box. Jacobians are approximated by
forward differences.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package lsq

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// tracer writes to trace with key 'airfoil.lsq'
func tracer() tracing.Trace {
	return tracing.Select("airfoil.lsq")
}

// Errors for invalid problem definitions.
var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidBounds     = errors.New("lower bound exceeds upper bound")
	ErrInfeasible        = errors.New("start point outside bounds")
)

// Func computes the residuals at x into dst. It must not retain dst or x.
type Func func(dst, x []float64)

// Bounds is a box for the variables. A nil slice means no bound on that side.
// Bounds are inclusive.
type Bounds struct {
	Lower []float64
	Upper []float64
}

// Unbounded returns infinite bounds for n variables.
func Unbounded(n int) Bounds {
	b := Bounds{Lower: make([]float64, n), Upper: make([]float64, n)}
	for i := 0; i < n; i++ {
		b.Lower[i], b.Upper[i] = math.Inf(-1), math.Inf(1)
	}
	return b
}

// Settings control the termination of Minimize. Zero values select defaults.
type Settings struct {
	MaxEvaluations int     // residual evaluations, including Jacobians; default 100⋅n
	FTol           float64 // relative reduction of the cost; default 1e-8
	XTol           float64 // relative step length; default 1e-8
	GTol           float64 // max-norm of the projected gradient; default 1e-8
	DiffStep       float64 // step for forward differences; default 1e-7
	InitialDamping float64 // factor for the initial damping; default 1e-3
}

// DefaultSettings returns the default settings for n variables.
func DefaultSettings(n int) Settings {
	return Settings{
		MaxEvaluations: 100 * n,
		FTol:           1e-8,
		XTol:           1e-8,
		GTol:           1e-8,
		DiffStep:       1e-7,
		InitialDamping: 1e-3,
	}
}

func (s *Settings) withDefaults(n int) Settings {
	d := DefaultSettings(n)
	if s == nil {
		return d
	}
	r := *s
	if r.MaxEvaluations <= 0 {
		r.MaxEvaluations = d.MaxEvaluations
	}
	if r.FTol <= 0 {
		r.FTol = d.FTol
	}
	if r.XTol <= 0 {
		r.XTol = d.XTol
	}
	if r.GTol <= 0 {
		r.GTol = d.GTol
	}
	if r.DiffStep <= 0 {
		r.DiffStep = d.DiffStep
	}
	if r.InitialDamping <= 0 {
		r.InitialDamping = d.InitialDamping
	}
	return r
}

// Status tells why Minimize stopped.
type Status int

// Termination states.
const (
	StatusGTol Status = iota + 1
	StatusFTol
	StatusXTol
	StatusMaxEvaluations
	StatusCanceled
)

func (s Status) String() string {
	switch s {
	case StatusGTol:
		return "gradient tolerance reached"
	case StatusFTol:
		return "cost tolerance reached"
	case StatusXTol:
		return "step tolerance reached"
	case StatusMaxEvaluations:
		return "evaluation budget exhausted"
	case StatusCanceled:
		return "canceled"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Result is the best iterate found by Minimize.
type Result struct {
	X           []float64
	Residuals   []float64
	Cost        float64 // ½‖r‖²
	Evaluations int
	Iterations  int
	Converged   bool
	Status      Status
}

// SquaredError is ‖r‖², the sum of squared residuals.
func (r *Result) SquaredError() float64 {
	return 2 * r.Cost
}

// Beyond maxDamping steps are too short to make progress.
const maxDamping = 1e100

// problem bundles the state of one solve.
type problem struct {
	f      Func
	m, n   int
	lower  []float64
	upper  []float64
	s      Settings
	nevals int
}

func (p *problem) eval(dst, x []float64) {
	p.nevals++
	p.f(dst, x)
}

// jacobian approximates J(x) by forward differences. Columns whose forward
// step would leave the box are differenced backwards.
func (p *problem) jacobian(jac *mat.Dense, x, r []float64) {
	h := p.s.DiffStep
	sigma := make([]float64, p.n)
	for j := range sigma {
		sigma[j] = 1
		if x[j]+h > p.upper[j] && x[j]-p.lower[j] > p.upper[j]-x[j] {
			sigma[j] = -1
		}
	}
	xt := make([]float64, p.n)
	g := func(y, u []float64) {
		for j := range u {
			xt[j] = x[j] + sigma[j]*(u[j]-x[j])
		}
		p.eval(y, xt)
	}
	fd.Jacobian(jac, g, x, &fd.JacobianSettings{
		Formula:     fd.Forward,
		OriginValue: r,
		Step:        h,
	})
	for j, sg := range sigma {
		if sg < 0 {
			for i := 0; i < p.m; i++ {
				jac.Set(i, j, -jac.At(i, j))
			}
		}
	}
}

func (p *problem) project(x []float64) {
	for j := range x {
		x[j] = math.Max(p.lower[j], math.Min(p.upper[j], x[j]))
	}
}

// Minimize minimizes ½‖f(x)‖² for m residuals within bounds b, starting at x0.
// x0 is not modified. Settings may be nil.
//
// Failure to converge within the evaluation budget is not an error: the
// result holds the best iterate with Converged = false. If ctx is canceled,
// the best iterate so far is returned together with ctx.Err().
func Minimize(ctx context.Context, f Func, m int, x0 []float64, b Bounds, s *Settings) (*Result, error) {
	n := len(x0)
	if m < 1 || n < 1 {
		return nil, fmt.Errorf("%w: %d residuals, %d variables", ErrDimensionMismatch, m, n)
	}
	p := &problem{f: f, m: m, n: n, s: s.withDefaults(n)}
	inf := Unbounded(n)
	p.lower, p.upper = inf.Lower, inf.Upper
	if b.Lower != nil {
		if len(b.Lower) != n {
			return nil, fmt.Errorf("%w: %d lower bounds for %d variables", ErrDimensionMismatch, len(b.Lower), n)
		}
		p.lower = b.Lower
	}
	if b.Upper != nil {
		if len(b.Upper) != n {
			return nil, fmt.Errorf("%w: %d upper bounds for %d variables", ErrDimensionMismatch, len(b.Upper), n)
		}
		p.upper = b.Upper
	}
	for j := 0; j < n; j++ {
		if p.lower[j] > p.upper[j] || math.IsNaN(p.lower[j]) || math.IsNaN(p.upper[j]) {
			return nil, fmt.Errorf("%w: variable %d in [%g,%g]", ErrInvalidBounds, j, p.lower[j], p.upper[j])
		}
		if !(x0[j] >= p.lower[j] && x0[j] <= p.upper[j]) {
			return nil, fmt.Errorf("%w: x[%d] = %g not in [%g,%g]", ErrInfeasible, j, x0[j], p.lower[j], p.upper[j])
		}
	}
	return p.solve(ctx, x0)
}

func (p *problem) solve(ctx context.Context, x0 []float64) (*Result, error) {
	m, n := p.m, p.n
	x := append([]float64(nil), x0...)
	r := make([]float64, m)
	p.eval(r, x)
	cost := 0.5 * floats.Dot(r, r)
	res := &Result{}
	finish := func(status Status, converged bool) *Result {
		res.X, res.Residuals, res.Cost = x, r, cost
		res.Evaluations, res.Status, res.Converged = p.nevals, status, converged
		tracer().Debugf("lsq: %s after %d iterations, %d evaluations, cost %g",
			status, res.Iterations, res.Evaluations, cost)
		return res
	}
	jac := mat.NewDense(m, n, nil)
	p.jacobian(jac, x, r)
	var a mat.SymDense // JᵀJ
	a.SymOuterK(1, jac.T())
	g := make([]float64, n) // Jᵀr
	gradient(g, jac, r)
	maxDiag := 0.0
	for j := 0; j < n; j++ {
		maxDiag = math.Max(maxDiag, a.At(j, j))
	}
	mu := p.s.InitialDamping * math.Max(maxDiag, 1e-12)
	nu := 2.0
	xn := make([]float64, n)
	rn := make([]float64, m)
	step := make([]float64, n)
	for {
		if err := ctx.Err(); err != nil {
			return finish(StatusCanceled, false), err
		}
		free := p.freeVariables(x, g)
		pg := 0.0
		for _, j := range free {
			pg = math.Max(pg, math.Abs(g[j]))
		}
		if pg <= p.s.GTol || cost == 0 {
			return finish(StatusGTol, true), nil
		}
		if p.nevals >= p.s.MaxEvaluations {
			return finish(StatusMaxEvaluations, false), nil
		}
		res.Iterations++
		if !solveDamped(step, &a, g, free, mu) {
			mu *= nu
			nu *= 2
			if mu > maxDamping {
				return finish(StatusXTol, false), nil
			}
			continue
		}
		for j := range xn {
			xn[j] = x[j] + step[j]
		}
		p.project(xn)
		floats.SubTo(step, xn, x)
		if floats.Norm(step, 2) <= p.s.XTol*(floats.Norm(x, 2)+p.s.XTol) {
			return finish(StatusXTol, true), nil
		}
		p.eval(rn, xn)
		costn := 0.5 * floats.Dot(rn, rn)
		// predicted reduction of the linear model: -(gᵀh + ½hᵀAh)
		hv := mat.NewVecDense(n, step)
		var ah mat.VecDense
		ah.MulVec(&a, hv)
		pred := -(floats.Dot(g, step) + 0.5*mat.Dot(hv, &ah))
		actual := cost - costn
		rho := -1.0
		if pred > 0 && !math.IsNaN(costn) {
			rho = actual / pred
		}
		tracer().Debugf("lsq: iteration %d, cost %g -> %g, rho = %.3g, mu = %.3g", res.Iterations, cost, costn, rho, mu)
		if rho <= 0 {
			mu *= nu
			nu *= 2
			if mu > maxDamping {
				return finish(StatusXTol, false), nil
			}
			continue
		}
		converged := actual <= p.s.FTol*cost
		copy(x, xn)
		copy(r, rn)
		cost = costn
		if converged {
			return finish(StatusFTol, true), nil
		}
		if p.nevals+n > p.s.MaxEvaluations {
			return finish(StatusMaxEvaluations, false), nil
		}
		p.jacobian(jac, x, r)
		a.SymOuterK(1, jac.T())
		gradient(g, jac, r)
		mu *= math.Max(1.0/3, 1-math.Pow(2*rho-1, 3))
		nu = 2
	}
}

// freeVariables returns the indices of variables not pinned at a bound by
// a descent direction pointing out of the box.
func (p *problem) freeVariables(x, g []float64) []int {
	free := make([]int, 0, len(x))
	for j := range x {
		if x[j] <= p.lower[j] && g[j] > 0 {
			continue
		}
		if x[j] >= p.upper[j] && g[j] < 0 {
			continue
		}
		free = append(free, j)
	}
	return free
}

// solveDamped solves (A + μ⋅D) h = -g on the free variables, D being the
// diagonal of A with a floor. Frozen variables get a step of 0.
func solveDamped(step []float64, a *mat.SymDense, g []float64, free []int, mu float64) bool {
	for j := range step {
		step[j] = 0
	}
	k := len(free)
	if k == 0 {
		return false
	}
	maxDiag := 0.0
	for _, j := range free {
		maxDiag = math.Max(maxDiag, a.At(j, j))
	}
	floor := math.Max(1e-12*maxDiag, 1e-300)
	sub := mat.NewSymDense(k, nil)
	rhs := mat.NewVecDense(k, nil)
	for i, ji := range free {
		for l := i; l < k; l++ {
			sub.SetSym(i, l, a.At(ji, free[l]))
		}
		sub.SetSym(i, i, a.At(ji, ji)+mu*math.Max(a.At(ji, ji), floor))
		rhs.SetVec(i, -g[ji])
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(sub); !ok {
		return false
	}
	var h mat.VecDense
	if err := chol.SolveVecTo(&h, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return false
		}
	}
	for i, j := range free {
		step[j] = h.AtVec(i)
		if math.IsNaN(step[j]) || math.IsInf(step[j], 0) {
			return false
		}
	}
	return true
}

func gradient(g []float64, jac *mat.Dense, r []float64) {
	gv := mat.NewVecDense(len(g), g)
	gv.MulVec(jac.T(), mat.NewVecDense(len(r), r))
}
