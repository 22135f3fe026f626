/*
Package study runs aerodynamic parameter studies for an airfoil.

A study evaluates an airfoil for a plan of flow conditions. Plans are sampled
from bounds on the flow parameters, either by Latin hypercube sampling, as a
centered study varying one parameter at a time, or along the diagonal vector
from the lower to the upper bounds. Results may be kept in an SQLite database.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package study

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/npillmayer/airfoil/aero"
	"github.com/npillmayer/airfoil/profile"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'airfoil.study'
func tracer() tracing.Trace {
	return tracing.Select("airfoil.study")
}

// ErrBounds flags inconsistent study bounds or plan sizes.
var ErrBounds = errors.New("invalid study bounds")

// Param is a flow parameter varied by a study.
type Param int

// Flow parameters, in plan order. SpecValue is the prescribed lift
// coefficient or angle of attack, depending on the bounds' mode.
const (
	Reynolds Param = iota
	Mach
	Ncrit
	SpecValue
	numParams
)

func (p Param) String() string {
	switch p {
	case Reynolds:
		return "re"
	case Mach:
		return "mach"
	case Ncrit:
		return "ncrit"
	case SpecValue:
		return "spec"
	}
	return fmt.Sprintf("Param(%d)", int(p))
}

func get(c *aero.Conditions, p Param) float64 {
	switch p {
	case Reynolds:
		return c.Reynolds
	case Mach:
		return c.Mach
	case Ncrit:
		return c.Ncrit
	}
	return c.Spec.Value
}

func set(c *aero.Conditions, p Param, v float64) {
	switch p {
	case Reynolds:
		c.Reynolds = v
	case Mach:
		c.Mach = v
	case Ncrit:
		c.Ncrit = v
	default:
		c.Spec.Value = v
	}
}

// Bounds of a study. Both sides must prescribe the same mode.
type Bounds struct {
	Lower aero.Conditions
	Upper aero.Conditions
}

// Validate checks that both sides are valid conditions of the same mode and
// that lower does not exceed upper.
func (b Bounds) Validate() error {
	if b.Lower.Spec.Mode != b.Upper.Spec.Mode {
		return fmt.Errorf("%w: lower bound prescribes %s, upper bound %s", ErrBounds,
			b.Lower.Spec.Mode, b.Upper.Spec.Mode)
	}
	for _, c := range []aero.Conditions{b.Lower, b.Upper} {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrBounds, err)
		}
	}
	for p := Param(0); p < numParams; p++ {
		if get(&b.Lower, p) > get(&b.Upper, p) {
			return fmt.Errorf("%w: lower %s exceeds upper %s", ErrBounds, p, p)
		}
	}
	return nil
}

func (b Bounds) diff(p Param) float64 {
	return get(&b.Upper, p) - get(&b.Lower, p)
}

// Plan is a sequence of flow conditions to evaluate.
type Plan []aero.Conditions

// LatinHypercube samples a plan of the given size. Every parameter range is
// divided into samples intervals of equal width, and each interval is hit by
// exactly one sample.
func LatinHypercube(b Bounds, samples int, rng *rand.Rand) (Plan, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if samples < 1 {
		return nil, fmt.Errorf("%w: %d samples", ErrBounds, samples)
	}
	plan := make(Plan, samples)
	for i := range plan {
		plan[i] = b.Lower
	}
	for p := Param(0); p < numParams; p++ {
		width := b.diff(p) / float64(samples)
		for i, k := range rng.Perm(samples) {
			set(&plan[i], p, get(&b.Lower, p)+(float64(k)+rng.Float64())*width)
		}
	}
	tracer().Debugf("latin hypercube plan with %d samples", samples)
	return plan, nil
}

// Centered creates a plan starting at the center of the bounds. For each
// parameter with n = steps[p] > 0, n points below and n points above the
// center are added, equally spaced and not reaching the bounds. Parameters are
// varied one at a time, in plan order.
func Centered(b Bounds, steps map[Param]int) (Plan, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	center := b.Lower
	for p := Param(0); p < numParams; p++ {
		set(&center, p, get(&b.Lower, p)+b.diff(p)/2)
	}
	plan := Plan{center}
	for p := Param(0); p < numParams; p++ {
		n := steps[p]
		if n <= 0 {
			continue
		}
		k := float64(n + 1)
		for i := -n; i <= n; i++ {
			if i == 0 {
				continue
			}
			c := center
			set(&c, p, get(&center, p)+b.diff(p)/2*float64(i)/k)
			plan = append(plan, c)
		}
	}
	return plan, nil
}

// Vector creates a plan of steps conditions from the lower to the upper
// bounds, varying all parameters simultaneously.
func Vector(b Bounds, steps int) (Plan, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if steps < 2 {
		return nil, fmt.Errorf("%w: vector study needs at least 2 steps, have %d", ErrBounds, steps)
	}
	plan := make(Plan, steps)
	for i := range plan {
		plan[i] = b.Lower
		f := float64(i) / float64(steps-1)
		for p := Param(0); p < numParams; p++ {
			set(&plan[i], p, get(&b.Lower, p)+b.diff(p)*f)
		}
	}
	return plan, nil
}

// Record is the outcome of one case of a study. Failure is empty for
// successful evaluations.
type Record struct {
	Conditions   aero.Conditions
	Coefficients aero.Coefficients
	Failure      string
}

// OK is true for converged evaluations.
func (r Record) OK() bool {
	return r.Failure == ""
}

// Run evaluates shape for every case of the plan. Failing cases are recorded
// and do not stop the study. Run returns early only if ctx is canceled, with
// the records collected so far.
func Run(ctx context.Context, ev aero.Evaluator, shape *profile.Shape, plan Plan) ([]Record, error) {
	recs := make([]Record, 0, len(plan))
	failures := 0
	for _, c := range plan {
		if err := ctx.Err(); err != nil {
			return recs, err
		}
		coeff, err := aero.Evaluate(ctx, ev, shape, c)
		rec := Record{Conditions: c, Coefficients: coeff}
		if err != nil {
			rec.Failure = err.Error()
			failures++
			tracer().Errorf("study case %v failed: %v", c, err)
		}
		recs = append(recs, rec)
	}
	tracer().Infof("study of %s: %d cases, %d failures", shape.Name, len(recs), failures)
	return recs, nil
}
