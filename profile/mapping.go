package profile

import (
	"fmt"

	"github.com/npillmayer/airfoil"
)

// Mapping is a generator of airfoil contours in the complex plane, usually a
// conformal mapping of a circle. Package conformal provides implementations.
type Mapping interface {
	Name() string
	Coordinates(numpoints int) ([]complex128, error)
}

// FromMapping creates a shape from the points of a mapping. The shape is
// normalized, its nose is refined and it is resampled to numpoints+1 points
// with the double-cosine distribution.
//
// A failing mapping results in an error wrapping airfoil.ErrExternalSolver.
func FromMapping(m Mapping, numpoints int) (*Shape, error) {
	zs, err := m.Coordinates(numpoints)
	if err != nil {
		return nil, fmt.Errorf("%w: mapping %s: %w", airfoil.ErrExternalSolver, m.Name(), err)
	}
	coords := make([]airfoil.Pair, len(zs))
	for i, z := range zs {
		coords[i] = airfoil.C2P(z)
		if coords[i].IsNaN() {
			return nil, fmt.Errorf("%w: mapping %s produced non-finite point #%d",
				airfoil.ErrExternalSolver, m.Name(), i)
		}
	}
	s, err := New(coords, m.Name())
	if err != nil {
		return nil, err
	}
	if err = s.Normalize(); err != nil {
		return nil, err
	}
	if err = s.MoveNose(); err != nil {
		return nil, err
	}
	if err = s.SetNumPoints(numpoints); err != nil {
		return nil, err
	}
	tracer().Infof("%s", s)
	return s, nil
}
