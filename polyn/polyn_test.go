package polyn

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolynSimple1(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := NewConstantPolynomial(1.0)
	if p.Degree() != 0 {
		t.Fail()
	}
}

func TestPolynNew(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p, err := New(8, X{2, 5}, X{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Degree())
	assert.Equal(t, 8.0+2*3+5*9, p.Eval(3))
	assert.Equal(t, "8 + 2x + 5x^2", p.String())
	_, err = New(1, X{0, 4})
	assert.Error(t, err)
}

func TestPolynArithmetic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := FromCoefficients([]float64{1, -1, 0, 2})
	d := p.Derivative()
	assert.Equal(t, []float64{-1, 0, 6}, d.Coefficients())
	q := p.Add(NewConstantPolynomial(-1)).Scale(2)
	assert.Equal(t, []float64{0, -2, 0, 4}, q.Coefficients())
	z := FromCoefficients([]float64{1, 2, 1e-15, 0}).Zap()
	assert.Equal(t, []float64{1, 2}, z.Coefficients())
	// p is unchanged
	assert.Equal(t, 1.0, p.Coeff(0))
}

func TestInterpolateParabola(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// x = 0.5 + 2(y-0.1)² = 0.52 - 0.4y + 2y²
	f := func(y float64) float64 { return 0.52 - 0.4*y + 2*y*y }
	ys := []float64{-0.3, 0.05, 0.4}
	xs := []float64{f(ys[0]), f(ys[1]), f(ys[2])}
	p, err := Interpolate(ys, xs)
	require.NoError(t, err)
	assert.InDelta(t, 0.52, p.Coeff(0), 1e-12)
	assert.InDelta(t, -0.4, p.Coeff(1), 1e-12)
	assert.InDelta(t, 2.0, p.Coeff(2), 1e-12)
	y, x, err := p.Vertex()
	require.NoError(t, err)
	assert.InDelta(t, 0.1, y, 1e-12)
	assert.InDelta(t, 0.5, x, 1e-12)
}

func TestInterpolateDegenerate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := Interpolate([]float64{1, 1, 2}, []float64{0, 1, 2})
	assert.True(t, errors.Is(err, ErrDegenerate))
	line, err := Interpolate([]float64{0, 1, 2}, []float64{0, 1, 2})
	require.NoError(t, err)
	_, _, err = line.Vertex()
	assert.True(t, errors.Is(err, ErrDegenerate))
}
