package profile

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/airfoil"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diamond() []airfoil.Pair {
	return []airfoil.Pair{
		airfoil.P(1, 0), airfoil.P(0.5, 0.1), airfoil.P(0, 0),
		airfoil.P(0.5, -0.1), airfoil.P(1, 0),
	}
}

func assertPairs(t *testing.T, expected, actual []airfoil.Pair, tol float64) {
	t.Helper()
	require.Equal(t, len(expected), len(actual))
	for i := range expected {
		if !expected[i].Equal(actual[i], tol) {
			t.Errorf("point #%d: expected %v, have %v", i, expected[i], actual[i])
		}
	}
}

func TestNewNeedsThreePoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := New([]airfoil.Pair{airfoil.P(1, 0), airfoil.P(0, 0)}, "short")
	assert.True(t, errors.Is(err, ErrTooFewPoints))
	assert.True(t, errors.Is(err, airfoil.ErrGeometry))
}

func TestFindNose(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := New(diamond(), "diamond")
	require.NoError(t, err)
	assert.Equal(t, 2, s.NoseIndex())
	// strictly decreasing x: scan stops at last-but-one position
	s, err = New([]airfoil.Pair{airfoil.P(3, 0), airfoil.P(2, 0), airfoil.P(1, 0), airfoil.P(0, 0)}, "mono")
	require.NoError(t, err)
	assert.Equal(t, 2, s.NoseIndex())
}

func TestNormalizeUnitChord(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// scale by 2, rotate by 30° and shift the diamond
	m := airfoil.Rotation(math.Pi / 6).Combine(airfoil.Translation(airfoil.P(3, 4)))
	coords := diamond()
	for i, p := range coords {
		coords[i] = m.Transform(p.Scaled(2))
	}
	s, err := New(coords, "moved")
	require.NoError(t, err)
	require.NoError(t, s.Normalize())
	assertPairs(t, diamond(), s.Coordinates(), 1e-12)
	assert.InDelta(t, 1.0, s.At(0).Distance(s.At(s.NoseIndex())), 1e-12)
	assert.Equal(t, s.At(0), s.At(s.Len()-1))
}

func TestNormalizeErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := New(diamond(), "diamond")
	require.NoError(t, err)
	assert.True(t, errors.Is(s.NormalizeAbout(7), ErrIndexOutOfRange))
	assert.True(t, errors.Is(s.NormalizeAbout(0), ErrDegenerateChord))
}

func TestNormalizeIdempotent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, digits := range []string{"2412", "0012", "4415"} {
		s, err := NACA4(digits, 60)
		require.NoError(t, err)
		before := s.Coordinates()
		require.NoError(t, s.Normalize())
		assertPairs(t, before, s.Coordinates(), 1e-12)
	}
}

func TestUpperLowerSplit(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := New(diamond(), "diamond")
	require.NoError(t, err)
	assert.Equal(t, []airfoil.Pair{airfoil.P(1, 0), airfoil.P(0.5, 0.1)}, s.Upper())
	assert.Equal(t, []airfoil.Pair{airfoil.P(0.5, 0.1), airfoil.P(0, 0),
		airfoil.P(0.5, -0.1), airfoil.P(1, 0)}, s.Lower())
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5, 1}, s.XValues())
}

func TestMoveNose(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// points around the nose lie on x = (y-0.2)², vertex at (0, 0.2)
	coords := []airfoil.Pair{
		airfoil.P(1, 0), airfoil.P(0.09, 0.5), airfoil.P(0.01, 0.3),
		airfoil.P(0.09, -0.1), airfoil.P(1, 0),
	}
	s, err := New(coords, "parabola")
	require.NoError(t, err)
	require.Equal(t, 2, s.NoseIndex())
	require.NoError(t, s.MoveNose())
	assert.True(t, s.At(2).Equal(airfoil.Origin, 1e-12))
	assert.True(t, s.At(0).Equal(airfoil.P(1, 0), 1e-12))
	chord := math.Hypot(1, 0.2)
	assert.InDelta(t, math.Hypot(0.09, 0.3)/chord, s.At(1).Abs(), 1e-12)
	assert.InDelta(t, math.Hypot(0.09, 0.3)/chord, s.At(3).Abs(), 1e-12)
}

func TestMoveNoseAtBoundary(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := New([]airfoil.Pair{airfoil.P(0, 0), airfoil.P(1, 0), airfoil.P(2, 0)}, "ramp")
	require.NoError(t, err)
	assert.True(t, errors.Is(s.MoveNose(), ErrNoseAtBoundary))
}

func TestResample(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := NACA4("2412", 50)
	require.NoError(t, err)
	require.NoError(t, s.SetNumPoints(61)) // forced to 60
	assert.Equal(t, 61, s.Len())
	assert.Equal(t, 30, s.NoseIndex())
	xs := s.XValues()
	for i := 1; i < len(xs); i++ {
		assert.GreaterOrEqual(t, xs[i]+1e-12, xs[i-1], "x-values not monotonic at #%d", i)
	}
	if !cmp.Equal(Cos2Distribution(60), xs, cmpopts.EquateApprox(0, 1e-9)) {
		t.Errorf("resampled x-values differ from target distribution")
	}
}

func TestSetXValuesPreconditions(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := New(diamond(), "diamond")
	require.NoError(t, err)
	assert.True(t, errors.Is(s.SetXValues([]float64{0}), ErrTooFewPoints))
	assert.True(t, errors.Is(s.SetXValues([]float64{-1, 0.5, 0, 1}), ErrNotMonotonic))
	assert.Equal(t, diamond(), s.Coordinates())
	require.NoError(t, s.SetXValues([]float64{-1, -0.75, 0, 0.25, 1}))
	assertPairs(t, []airfoil.Pair{
		airfoil.P(1, 0), airfoil.P(0.75, 0.05), airfoil.P(0, 0),
		airfoil.P(0.25, -0.05), airfoil.P(1, 0),
	}, s.Coordinates(), 1e-12)
}

func TestSetXValuesStopsBeforeLastPoint(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := New([]airfoil.Pair{
		airfoil.P(1, 0), airfoil.P(0.5, 0.1), airfoil.P(0, 0),
		airfoil.P(0.5, -0.1), airfoil.P(0.8, -0.1), airfoil.P(1, 0),
	}, "tail")
	require.NoError(t, err)
	require.NoError(t, s.SetXValues([]float64{-1, -0.5, 0, 0.5, 0.9, 1}))
	assert.Equal(t, 2, s.NoseIndex())
	// x = 0.9 lies on the segment [4,5], but is extrapolated from [3,4]
	assertPairs(t, []airfoil.Pair{
		airfoil.P(1, 0), airfoil.P(0.5, 0.1), airfoil.P(0, 0),
		airfoil.P(0.5, -0.1), airfoil.P(0.9, -0.1), airfoil.P(1, 0),
	}, s.Coordinates(), 1e-12)
}

func TestCloneIsIndependent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := New(diamond(), "diamond")
	require.NoError(t, err)
	c := s.Clone()
	require.NoError(t, c.SetNumPoints(10))
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, 11, c.Len())
}

func TestAreaAndBoundingBox(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s, err := NACA4("0012", 100)
	require.NoError(t, err)
	// ∫ 2⋅yt dx = 0.68088⋅t
	assert.InDelta(t, 0.68088*0.12, s.Area(), 1e-3)
	lo, hi := s.BoundingBox()
	assert.InDelta(t, 0.0, lo.X(), 1e-9)
	assert.InDelta(t, 1.0, hi.X(), 1e-9)
	assert.InDelta(t, 0.06, hi.Y(), 1e-3)
	assert.InDelta(t, -0.06, lo.Y(), 1e-3)
}
