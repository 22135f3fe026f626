package airfoil

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestNumericBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := 0.0000000000008
	if !Is0(a) {
		t.Errorf("Expected a to be zero, is not")
	}
	assert.Equal(t, 0.0, Zap(-a))
	assert.Equal(t, -1.0, Sign(-3))
	assert.Equal(t, 0.0, Sign(0))
}

func TestPairBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := P(3, 2)
	q := P(-3, -2)
	r := p + q
	if r != Origin {
		t.Errorf("Expected p + q to be (0,0), is %v", r)
	}
	assert.Equal(t, 13.0, p.Norm2())
	assert.InDelta(t, 5.0, P(3, 4).Abs(), 1e-15)
	assert.Equal(t, P(1.5, 1), p.Scaled(0.5))
	assert.Equal(t, P(0, 0), p.Lerp(q, 0.5))
	assert.True(t, C2P(complex(math.NaN(), 0)).IsNaN())
	assert.Equal(t, "(3,2)", p.String())
}

func TestChordTransform(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, chord := range []Pair{P(1, 0), P(2, 0), P(0, 1), P(-3, 4), P(0.7, -0.2)} {
		m := ChordTransform(chord)
		d := m.Transform(chord)
		if !d.Equal(P(1, 0), 1e-12) {
			t.Errorf("expected chord %v to map onto (1,0), is %v", chord, d)
		}
	}
}

func TestCombine(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// shift (1,1) to origin, then rotate by 90°
	m := Translation(P(-1, -1)).Combine(Rotation(math.Pi / 2))
	p := m.Transform(P(2, 1))
	if !p.Equal(P(0, 1), 1e-12) {
		t.Errorf("expected (0,1), is %v", p)
	}
	if Identity().Transform(P(3, 7)) != P(3, 7) {
		t.Errorf("identity transform changed a point")
	}
}

func TestSequences(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := []Pair{P(0, 1), P(2, 3), P(4, 5)}
	assert.Equal(t, []float64{0, 2, 4}, Xs(pts))
	assert.Equal(t, []float64{1, 3, 5}, Ys(pts))
	assert.Equal(t, []Pair{P(4, 5), P(2, 3), P(0, 1)}, Reversed(pts))
}
