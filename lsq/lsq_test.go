package lsq

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exponential returns residuals of the model a⋅exp(b⋅t) against data
// generated with a=2, b=-1.5.
func exponential() (Func, int) {
	const m = 20
	ts := make([]float64, m)
	ys := make([]float64, m)
	for i := range ts {
		ts[i] = 2 * float64(i) / float64(m-1)
		ys[i] = 2 * math.Exp(-1.5*ts[i])
	}
	return func(dst, x []float64) {
		for i, t := range ts {
			dst[i] = x[0]*math.Exp(x[1]*t) - ys[i]
		}
	}, m
}

func TestExponentialFit(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	f, m := exponential()
	x0 := []float64{1, 0}
	res, err := Minimize(context.Background(), f, m, x0, Bounds{}, nil)
	require.NoError(t, err)
	assert.True(t, res.Converged, res.Status.String())
	assert.InDelta(t, 2.0, res.X[0], 1e-6)
	assert.InDelta(t, -1.5, res.X[1], 1e-6)
	assert.Less(t, res.Cost, 1e-12)
	assert.Equal(t, []float64{1, 0}, x0)
	assert.LessOrEqual(t, res.Evaluations, 200)
}

func TestRosenbrock(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	f := func(dst, x []float64) {
		dst[0] = 10 * (x[1] - x[0]*x[0])
		dst[1] = 1 - x[0]
	}
	res, err := Minimize(context.Background(), f, 2, []float64{-1.2, 1}, Bounds{}, &Settings{MaxEvaluations: 1000})
	require.NoError(t, err)
	assert.True(t, res.Converged, res.Status.String())
	assert.InDelta(t, 1.0, res.X[0], 1e-5)
	assert.InDelta(t, 1.0, res.X[1], 1e-5)
}

func TestBoundsRespected(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	f, m := exponential()
	b := Bounds{Lower: []float64{0, -1}, Upper: []float64{1.5, 0}}
	res, err := Minimize(context.Background(), f, m, []float64{1, 0}, b, nil)
	require.NoError(t, err)
	for j, x := range res.X {
		assert.GreaterOrEqual(t, x, b.Lower[j])
		assert.LessOrEqual(t, x, b.Upper[j])
	}
	// the unconstrained optimum lies outside in both variables
	assert.Equal(t, 1.5, res.X[0])
	assert.Equal(t, -1.0, res.X[1])
	assert.True(t, res.Converged, res.Status.String())
}

func TestOneSidedBound(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	f, m := exponential()
	b := Bounds{Upper: []float64{1.5, math.Inf(1)}}
	res, err := Minimize(context.Background(), f, m, []float64{1, 0}, b, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.5, res.X[0])
	assert.Less(t, res.X[1], 0.0)
}

func TestEvaluationBudget(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	f, m := exponential()
	res, err := Minimize(context.Background(), f, m, []float64{1, 0}, Bounds{}, &Settings{MaxEvaluations: 7})
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, StatusMaxEvaluations, res.Status)
	assert.LessOrEqual(t, res.Evaluations, 7)
	assert.Equal(t, m, len(res.Residuals))
}

func TestCanceled(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	f, m := exponential()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Minimize(ctx, f, m, []float64{1, 0}, Bounds{}, nil)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, res)
	assert.Equal(t, StatusCanceled, res.Status)
	assert.Equal(t, []float64{1, 0}, res.X)
}

func TestInvalidProblems(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	f, m := exponential()
	ctx := context.Background()
	_, err := Minimize(ctx, f, 0, []float64{1, 0}, Bounds{}, nil)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	_, err = Minimize(ctx, f, m, []float64{1, 0}, Bounds{Lower: []float64{0}}, nil)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	_, err = Minimize(ctx, f, m, []float64{1, 0}, Bounds{Lower: []float64{0, 1}, Upper: []float64{1, 0}}, nil)
	assert.True(t, errors.Is(err, ErrInvalidBounds))
	_, err = Minimize(ctx, f, m, []float64{3, 0}, Bounds{Lower: []float64{0, -1}, Upper: []float64{1, 1}}, nil)
	assert.True(t, errors.Is(err, ErrInfeasible))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "canceled", StatusCanceled.String())
	assert.Equal(t, "status(42)", Status(42).String())
}
