package polygon

import (
	"math"
	"testing"

	"github.com/npillmayer/airfoil"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestBuilder(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pg := NullPolygon().Knot(airfoil.P(0, 0)).Knot(airfoil.P(1, 3)).Knot(airfoil.P(3, 0)).Cycle()
	L().Infof("pg = %s", AsString(pg))
	if pg.N() != 3 {
		t.Fail()
	}
	assert.Equal(t, "(0,0)--(1,3)--(3,0)--cycle", AsString(pg))
	assert.InDelta(t, 4.5, pg.Area(), 1e-12)
	assert.Less(t, pg.SignedArea(), 0.0) // clockwise
}

func TestBox(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	box := Box(airfoil.P(0, 5), airfoil.P(4, 1))
	L().Infof("box = %s", AsString(box))
	if box.N() != 4 {
		t.Fail()
	}
	assert.InDelta(t, 16.0, box.Area(), 1e-12)
	lo, hi := box.BoundingBox()
	assert.Equal(t, airfoil.P(0, 1), lo)
	assert.Equal(t, airfoil.P(4, 5), hi)
	assert.True(t, box.Contains(airfoil.P(2, 3)))
	assert.False(t, box.Contains(airfoil.P(5, 3)))
}

func TestFromPairsDropsClosingKnot(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := []airfoil.Pair{airfoil.P(1, 0), airfoil.P(0, 1), airfoil.P(-1, 0), airfoil.P(0, -1), airfoil.P(1, 0)}
	pg := FromPairs(pts)
	assert.Equal(t, 4, pg.N())
	assert.True(t, pg.IsCycle())
	assert.InDelta(t, 2.0, pg.Area(), 1e-12)
}

func TestOverlap(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := Box(airfoil.P(0, 0), airfoil.P(2, 2))
	b := Box(airfoil.P(1, 1), airfoil.P(3, 3))
	assert.InDelta(t, 1.0, IntersectionArea(a, b), 1e-9)
	assert.InDelta(t, 6.0, SymmetricDifferenceArea(a, b), 1e-9)
	inner := Box(airfoil.P(0.5, 0.5), airfoil.P(1.5, 1.5))
	assert.InDelta(t, 1.0, IntersectionArea(a, inner), 1e-9)
	assert.InDelta(t, 3.0, SymmetricDifferenceArea(a, inner), 1e-9)
	far := Box(airfoil.P(10, 10), airfoil.P(11, 11))
	assert.InDelta(t, 0.0, IntersectionArea(a, far), 1e-9)
	assert.False(t, math.IsNaN(SymmetricDifferenceArea(a, far)))
}
