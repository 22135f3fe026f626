package parafoil

import (
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrFormat flags malformed parafoil documents.
var ErrFormat = errors.New("malformed parafoil document")

// document is the JSON representation of a parafoil. Matrices are stored by
// rows x, y, z and w.
type document struct {
	Name  string      `json:"name"`
	Upper [][]float64 `json:"upper"`
	Lower [][]float64 `json:"lower"`
}

func (m *ControlMatrix) rows() [][]float64 {
	rows := make([][]float64, len(m))
	for i := range m {
		rows[i] = append([]float64(nil), m[i][:]...)
	}
	return rows
}

func matrixFromRows(rows [][]float64) (ControlMatrix, error) {
	var m ControlMatrix
	if len(rows) != len(m) {
		return m, fmt.Errorf("%w: %d rows instead of %d", ErrFormat, len(rows), len(m))
	}
	for i, row := range rows {
		if len(row) != NumPoles {
			return m, fmt.Errorf("%w: row %d has %d entries instead of %d", ErrFormat, i, len(row), NumPoles)
		}
		copy(m[i][:], row)
	}
	if _, err := m.Curve(); err != nil {
		return m, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return m, nil
}

// Save writes p as JSON to w.
func (p *Parafoil) Save(w io.Writer) error {
	doc := document{Name: p.Name, Upper: p.Upper.rows(), Lower: p.Lower.rows()}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Load reads a parafoil in JSON format, as written by Save.
func Load(r io.Reader) (*Parafoil, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	upper, err := matrixFromRows(doc.Upper)
	if err != nil {
		return nil, fmt.Errorf("upper surface: %w", err)
	}
	lower, err := matrixFromRows(doc.Lower)
	if err != nil {
		return nil, fmt.Errorf("lower surface: %w", err)
	}
	return &Parafoil{Name: doc.Name, Upper: upper, Lower: lower}, nil
}
