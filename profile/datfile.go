package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/airfoil"
)

// ParseText reads a two-column coordinate table. A non-numeric line ahead of
// the first point is taken as the name of the airfoil and overrides name.
// Empty lines are skipped. The coordinates are not normalized.
func ParseText(r io.Reader, name string) (*Shape, error) {
	scanner := bufio.NewScanner(r)
	coords := make([]airfoil.Pair, 0, 128)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		p, ok := parsePoint(line)
		if ok {
			coords = append(coords, p)
			continue
		}
		if len(coords) > 0 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedLine, lineno, line)
		}
		name = line
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	tracer().Debugf("parsed %d points for airfoil %q", len(coords), name)
	return New(coords, name)
}

func parsePoint(line string) (airfoil.Pair, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return airfoil.Origin, false
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return airfoil.Origin, false
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return airfoil.Origin, false
	}
	return airfoil.P(x, y), true
}

// ImportText reads a coordinate table (see ParseText), normalizes the shape
// and refines its nose.
func ImportText(r io.Reader, name string) (*Shape, error) {
	s, err := ParseText(r, name)
	if err != nil {
		return nil, err
	}
	if err = s.Normalize(); err != nil {
		return nil, err
	}
	if err = s.MoveNose(); err != nil {
		return nil, err
	}
	return s, nil
}

// ImportDat imports an airfoil from a '.dat' file. The name of the airfoil is
// the base name of the file, unless the file carries a name line.
func ImportDat(path string) (*Shape, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ImportText(f, name)
}

// WriteDat writes the shape in '.dat' format: a name line (if the shape has a
// name), followed by one tab-separated x/y line per point. Numbers are
// written with the shortest representation which parses back exactly.
func (s *Shape) WriteDat(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if s.Name != "" {
		bw.WriteString(s.Name)
		bw.WriteByte('\n')
	}
	for _, p := range s.coords {
		bw.WriteString(strconv.FormatFloat(p.X(), 'g', -1, 64))
		bw.WriteByte('\t')
		bw.WriteString(strconv.FormatFloat(p.Y(), 'g', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ExportDat writes the shape to a '.dat' file.
func (s *Shape) ExportDat(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = s.WriteDat(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
