package parafoil

import (
	"fmt"
	"math"

	"github.com/npillmayer/airfoil/lsq"
)

// Tag names a control matrix entry which may be varied by calibration or
// optimization.
type Tag int

// Free parameters. X2…X7 are the x-coordinates of poles 2 to 7, Y1…Y7 and
// W1…W7 the y-coordinates and weights of poles 1 to 7. The poles at the nose
// and at the trailing edge are fixed. The x-coordinate of pole 1 is not free:
// it follows Y1 such that the direction of the nose tangent is kept.
const (
	X2 Tag = iota
	X3
	X4
	X5
	X6
	X7
	Y1
	Y2
	Y3
	Y4
	Y5
	Y6
	Y7
	W1
	W2
	W3
	W4
	W5
	W6
	W7
	numTags
)

type position struct {
	row, col int
}

var positions = [numTags]position{
	X2: {RowX, 2}, X3: {RowX, 3}, X4: {RowX, 4}, X5: {RowX, 5}, X6: {RowX, 6}, X7: {RowX, 7},
	Y1: {RowY, 1}, Y2: {RowY, 2}, Y3: {RowY, 3}, Y4: {RowY, 4}, Y5: {RowY, 5}, Y6: {RowY, 6}, Y7: {RowY, 7},
	W1: {RowW, 1}, W2: {RowW, 2}, W3: {RowW, 3}, W4: {RowW, 4}, W5: {RowW, 5}, W6: {RowW, 6}, W7: {RowW, 7},
}

func (t Tag) valid() bool {
	return t >= 0 && t < numTags
}

// Row is the control matrix row of the entry.
func (t Tag) Row() int {
	return positions[t].row
}

// Col is the control matrix column (pole) of the entry.
func (t Tag) Col() int {
	return positions[t].col
}

func (t Tag) String() string {
	if !t.valid() {
		return fmt.Sprintf("Tag(%d)", int(t))
	}
	return fmt.Sprintf("%c%d", "XYZW"[t.Row()], t.Col())
}

// Selection is an ordered set of free parameters.
type Selection []Tag

// XTags, YTags and WTags are the selections of all x-coordinates, all
// y-coordinates and all weights.
var (
	XTags = Selection{X2, X3, X4, X5, X6, X7}
	YTags = Selection{Y1, Y2, Y3, Y4, Y5, Y6, Y7}
	WTags = Selection{W1, W2, W3, W4, W5, W6, W7}
)

// Select combines the x-, y- and weight-selections, in this order.
func Select(x, y, w bool) Selection {
	var sel Selection
	if x {
		sel = append(sel, XTags...)
	}
	if y {
		sel = append(sel, YTags...)
	}
	if w {
		sel = append(sel, WTags...)
	}
	return sel
}

// Validate checks for empty selections, unknown and duplicate tags.
func (sel Selection) Validate() error {
	if len(sel) == 0 {
		return fmt.Errorf("%w: no parameters selected", ErrSelection)
	}
	seen := make(map[Tag]bool, len(sel))
	for _, t := range sel {
		if !t.valid() {
			return fmt.Errorf("%w: unknown tag %d", ErrSelection, int(t))
		}
		if seen[t] {
			return fmt.Errorf("%w: duplicate tag %s", ErrSelection, t)
		}
		seen[t] = true
	}
	return nil
}

// Values returns the selected entries of m.
func (m *ControlMatrix) Values(sel Selection) []float64 {
	v := make([]float64, len(sel))
	for i, t := range sel {
		v[i] = m[t.Row()][t.Col()]
	}
	return v
}

// SetValues sets the selected entries of m. Setting Y1 moves x of pole 1
// along, keeping the ratio x1/y1; x1 stays unchanged if y1 has been 0.
func (m *ControlMatrix) SetValues(sel Selection, values []float64) error {
	if len(values) != len(sel) {
		return fmt.Errorf("%w: %d values for %d parameters", ErrSelection, len(values), len(sel))
	}
	for i, t := range sel {
		if t == Y1 {
			if y1 := m[RowY][1]; y1 != 0 {
				m[RowX][1] = m[RowX][1] / y1 * values[i]
			}
		}
		m[t.Row()][t.Col()] = values[i]
	}
	return nil
}

// Side is the upper or the lower surface.
type Side int

// Surfaces of a parafoil.
const (
	UpperSide Side = iota
	LowerSide
)

// DefaultBounds returns the bounds for a selection: x in [0,1], y in [-1,1]
// and weights in [0.1,1]. Y1 is restricted to y ≥ 0 on the upper side and to
// y ≤ 0 on the lower side, so the surfaces do not cross next to the nose.
func DefaultBounds(side Side, sel Selection) lsq.Bounds {
	b := lsq.Bounds{Lower: make([]float64, len(sel)), Upper: make([]float64, len(sel))}
	for i, t := range sel {
		switch t.Row() {
		case RowX:
			b.Lower[i], b.Upper[i] = 0, 1
		case RowY:
			b.Lower[i], b.Upper[i] = -1, 1
		case RowW:
			b.Lower[i], b.Upper[i] = 0.1, 1
		default:
			b.Lower[i], b.Upper[i] = math.Inf(-1), math.Inf(1)
		}
		if t == Y1 {
			if side == UpperSide {
				b.Lower[i] = 0
			} else {
				b.Upper[i] = 0
			}
		}
	}
	return b
}
