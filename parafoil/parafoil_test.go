package parafoil

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/airfoil"
	"github.com/npillmayer/airfoil/nurbs"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCurves(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := Default()
	upper, lower, err := p.Curves()
	require.NoError(t, err)
	for _, c := range []*nurbs.Curve{upper, lower} {
		assert.Equal(t, Degree, c.Degree())
		assert.InDelta(t, 0.0, c.Value(0).Abs(), 1e-12)
		assert.InDelta(t, 0.0, c.Value(1).Distance(airfoil.P(1, 0)), 1e-12)
	}
	assert.Greater(t, upper.Value(0.5).Y(), 0.0)
	assert.Less(t, lower.Value(0.5).Y(), 0.0)
}

func TestCloneIsIndependent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := Default()
	q := p.Clone()
	q.Upper[RowY][3] = 0.5
	assert.Equal(t, 0.09, p.Upper[RowY][3])
}

func TestTags(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Equal(t, "X2", X2.String())
	assert.Equal(t, "Y1", Y1.String())
	assert.Equal(t, "W7", W7.String())
	assert.Equal(t, RowW, W3.Row())
	assert.Equal(t, 3, W3.Col())
	assert.Len(t, Select(true, true, true), 20)
	assert.Equal(t, YTags, Select(false, true, false))
	assert.Equal(t, Selection{X2, X3, X4, X5, X6, X7, W1, W2, W3, W4, W5, W6, W7}, Select(true, false, true))
	assert.True(t, errors.Is(Select(false, false, false).Validate(), ErrSelection))
	assert.True(t, errors.Is(Selection{Y2, Y2}.Validate(), ErrSelection))
	assert.True(t, errors.Is(Selection{Tag(42)}.Validate(), ErrSelection))
	assert.NoError(t, YTags.Validate())
}

func TestValues(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := Default().Lower
	sel := Selection{X3, Y4, W5}
	assert.Equal(t, []float64{0.1, -0.07, 1}, m.Values(sel))
	require.NoError(t, m.SetValues(sel, []float64{0.2, -0.1, 0.5}))
	assert.Equal(t, []float64{0.2, -0.1, 0.5}, m.Values(sel))
	assert.Equal(t, 0.5, m[RowW][5])
	assert.True(t, errors.Is(m.SetValues(sel, []float64{1}), ErrSelection))
}

func TestY1KeepsNoseTangent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m := Default().Upper
	m[RowX][1] = 0.01 // y1 = 0.02
	require.NoError(t, m.SetValues(Selection{Y1}, []float64{0.04}))
	assert.InDelta(t, 0.02, m[RowX][1], 1e-15)
	assert.Equal(t, 0.04, m[RowY][1])
	m[RowY][1] = 0
	require.NoError(t, m.SetValues(Selection{Y1}, []float64{0.03}))
	assert.InDelta(t, 0.02, m[RowX][1], 1e-15)
	assert.Equal(t, 0.03, m[RowY][1])
}

func TestDefaultBounds(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sel := Selection{X4, Y1, Y2, W1}
	ub := DefaultBounds(UpperSide, sel)
	assert.Equal(t, []float64{0, 0, -1, 0.1}, ub.Lower)
	assert.Equal(t, []float64{1, 1, 1, 1}, ub.Upper)
	lb := DefaultBounds(LowerSide, sel)
	assert.Equal(t, []float64{0, -1, -1, 0.1}, lb.Lower)
	assert.Equal(t, []float64{1, 0, 1, 1}, lb.Upper)
}

func TestSaveLoad(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := Default()
	p.Name = "test foil"
	p.Upper[RowW][4] = 0.75
	var buf bytes.Buffer
	require.NoError(t, p.Save(&buf))
	assert.Contains(t, buf.String(), `"test foil"`)
	q, err := Load(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(p, q); diff != "" {
		t.Errorf("parafoil changed by save/load (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := Load(strings.NewReader("{ not json"))
	assert.True(t, errors.Is(err, ErrFormat))
	_, err = Load(strings.NewReader(`{"name":"x","upper":[[0,1]],"lower":[]}`))
	assert.True(t, errors.Is(err, ErrFormat))
	p := Default()
	p.Lower[RowW][2] = 0
	var buf bytes.Buffer
	require.NoError(t, p.Save(&buf))
	_, err = Load(&buf)
	assert.True(t, errors.Is(err, ErrFormat))
	assert.True(t, errors.Is(err, nurbs.ErrWeight))
}
