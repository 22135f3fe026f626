/*
Package aero connects airfoils to aerodynamic evaluators.

An Evaluator computes lift, drag and moment coefficients of a raw-coordinate
airfoil for given flow conditions, usually by means of an external panel code
with a viscous boundary layer model. Package aero does not implement such a
solver; it defines the capability and builds optimization objectives on top of
it.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package aero

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/airfoil"
	"github.com/npillmayer/airfoil/parafoil"
	"github.com/npillmayer/airfoil/profile"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'airfoil.aero'
func tracer() tracing.Trace {
	return tracing.Select("airfoil.aero")
}

// Errors of package aero.
var (
	ErrNotConverged      = fmt.Errorf("%w: evaluation did not converge", airfoil.ErrExternalSolver)
	ErrInvalidConditions = errors.New("invalid flow conditions")
	ErrNoLift            = errors.New("lift-to-drag ratio undefined for non-positive lift")
)

// Mode selects the quantity prescribed for an evaluation.
type Mode int

// An evaluation prescribes either the lift coefficient or the angle of attack.
const (
	Lift Mode = iota
	Alpha
)

func (m Mode) String() string {
	switch m {
	case Lift:
		return "cl"
	case Alpha:
		return "alpha"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Spec is the prescribed lift coefficient or angle of attack (in degrees).
type Spec struct {
	Mode  Mode
	Value float64
}

// Conditions of the flow.
type Conditions struct {
	Reynolds float64
	Mach     float64
	Ncrit    float64 // transition amplification factor
	Spec     Spec
}

// DefaultConditions are Re = 10⁷, Mach 0.1, Ncrit 9 and a prescribed lift
// coefficient of 0.
func DefaultConditions() Conditions {
	return Conditions{
		Reynolds: 1e7,
		Mach:     0.1,
		Ncrit:    9,
		Spec:     Spec{Mode: Lift, Value: 0},
	}
}

// Validate checks that the conditions are physically meaningful.
func (c Conditions) Validate() error {
	switch {
	case !(c.Reynolds > 0) || math.IsInf(c.Reynolds, 0):
		return fmt.Errorf("%w: Reynolds number %g", ErrInvalidConditions, c.Reynolds)
	case !(c.Mach >= 0 && c.Mach < 1):
		return fmt.Errorf("%w: Mach number %g", ErrInvalidConditions, c.Mach)
	case !(c.Ncrit > 0) || math.IsInf(c.Ncrit, 0):
		return fmt.Errorf("%w: Ncrit %g", ErrInvalidConditions, c.Ncrit)
	case c.Spec.Mode != Lift && c.Spec.Mode != Alpha:
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidConditions, int(c.Spec.Mode))
	case math.IsNaN(c.Spec.Value) || math.IsInf(c.Spec.Value, 0):
		return fmt.Errorf("%w: %s = %g", ErrInvalidConditions, c.Spec.Mode, c.Spec.Value)
	}
	return nil
}

func (c Conditions) String() string {
	return fmt.Sprintf("Re=%g, Ma=%g, Ncrit=%g, %s=%g", c.Reynolds, c.Mach, c.Ncrit, c.Spec.Mode, c.Spec.Value)
}

// Coefficients are the results of an evaluation.
type Coefficients struct {
	Alpha     float64 // angle of attack in degrees
	Lift      float64
	Drag      float64
	Moment    float64
	Converged bool
}

// Evaluator computes aerodynamic coefficients for a closed contour, given
// as for profile.Shape.
type Evaluator interface {
	Evaluate(ctx context.Context, coords []airfoil.Pair, c Conditions) (Coefficients, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, coords []airfoil.Pair, c Conditions) (Coefficients, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(ctx context.Context, coords []airfoil.Pair, c Conditions) (Coefficients, error) {
	return f(ctx, coords, c)
}

// Evaluate runs ev for a shape. Evaluator failures are wrapped as
// airfoil.ErrExternalSolver. A non-converged evaluation returns the
// coefficients together with ErrNotConverged.
func Evaluate(ctx context.Context, ev Evaluator, shape *profile.Shape, c Conditions) (Coefficients, error) {
	if err := c.Validate(); err != nil {
		return Coefficients{}, err
	}
	coeff, err := ev.Evaluate(ctx, shape.Coordinates(), c)
	if err != nil {
		if errors.Is(err, airfoil.ErrExternalSolver) {
			return coeff, err
		}
		return coeff, fmt.Errorf("%w: %s at %v: %w", airfoil.ErrExternalSolver, shape.Name, c, err)
	}
	if !coeff.Converged {
		return coeff, fmt.Errorf("%w: %s at %v", ErrNotConverged, shape.Name, c)
	}
	tracer().Debugf("%s at %v: cl=%g, cd=%g, cm=%g, alpha=%g", shape.Name, c,
		coeff.Lift, coeff.Drag, coeff.Moment, coeff.Alpha)
	return coeff, nil
}

func conditionsOrDefault(conds []Conditions) []Conditions {
	if len(conds) == 0 {
		return []Conditions{DefaultConditions()}
	}
	return conds
}

// DragObjective returns an objective with one residual per flow condition,
// the drag coefficient. Without conditions, DefaultConditions is used.
func DragObjective(ev Evaluator, conds ...Conditions) parafoil.Objective {
	conds = conditionsOrDefault(conds)
	return func(ctx context.Context, shape *profile.Shape) ([]float64, error) {
		r := make([]float64, len(conds))
		for i, c := range conds {
			coeff, err := Evaluate(ctx, ev, shape, c)
			if err != nil {
				return nil, err
			}
			r[i] = coeff.Drag
		}
		return r, nil
	}
}

// LiftToDragObjective returns an objective with one residual per flow
// condition, the drag-to-lift ratio. Minimizing it maximizes the glide ratio.
// An evaluation with non-positive lift fails with ErrNoLift.
func LiftToDragObjective(ev Evaluator, conds ...Conditions) parafoil.Objective {
	conds = conditionsOrDefault(conds)
	return func(ctx context.Context, shape *profile.Shape) ([]float64, error) {
		r := make([]float64, len(conds))
		for i, c := range conds {
			coeff, err := Evaluate(ctx, ev, shape, c)
			if err != nil {
				return nil, err
			}
			if !(coeff.Lift > 0) {
				return nil, fmt.Errorf("%w: cl=%g at %v", ErrNoLift, coeff.Lift, c)
			}
			r[i] = coeff.Drag / coeff.Lift
		}
		return r, nil
	}
}
