package field

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Series is a 1D numeric file kept in file order.
type Series struct {
	Columns [][]float64
}

// Len returns the number of rows.
func (s *Series) Len() int {
	if len(s.Columns) == 0 {
		return 0
	}
	return len(s.Columns[0])
}

// TimeSeries is an energy history: one value per simulation step.
type TimeSeries struct {
	Steps  []float64
	Values []float64
}

// Profile is a center-line cut through the velocity field.
type Profile struct {
	Position  []float64
	U, V      []float64
	Magnitude []float64
}

// LoadSeries reads a file with at least minCols numeric columns. A single
// leading header line is skipped. Rows are never re-sorted.
func LoadSeries(path string, minCols int) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(path)
		}
		return nil, err
	}
	defer f.Close()

	return ReadSeries(path, f, minCols)
}

// ReadSeries is LoadSeries over an io.Reader.
func ReadSeries(name string, src io.Reader, minCols int) (*Series, error) {
	if minCols < 2 {
		minCols = 2
	}

	s := &Series{}
	sc := bufio.NewScanner(src)
	for n := 1; sc.Scan(); n++ {
		tokens := strings.Fields(sc.Text())
		if len(tokens) == 0 {
			continue
		}
		if n == 1 {
			if _, err := strconv.ParseFloat(tokens[0], 64); err != nil {
				continue
			}
		}

		if s.Columns == nil {
			if len(tokens) < minCols {
				return nil, &ParseError{File: name, Line: n, Reason: fmt.Sprintf("need %d columns, got %d", minCols, len(tokens))}
			}
			s.Columns = make([][]float64, len(tokens))
		}
		if len(tokens) != len(s.Columns) {
			return nil, &ParseError{File: name, Line: n, Reason: fmt.Sprintf("expected %d columns, got %d", len(s.Columns), len(tokens))}
		}

		row, err := parseRow(tokens)
		if err != nil {
			return nil, &ParseError{File: name, Line: n, Reason: err.Error()}
		}
		for k, v := range row {
			s.Columns[k] = append(s.Columns[k], v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("field: read %s: %w", name, err)
	}
	if s.Len() == 0 {
		return nil, &ParseError{File: name, Reason: "no data rows"}
	}
	return s, nil
}

// LoadTimeSeries reads an energy history of step/value rows.
func LoadTimeSeries(path string) (*TimeSeries, error) {
	s, err := LoadSeries(path, 2)
	if err != nil {
		return nil, err
	}
	return &TimeSeries{Steps: s.Columns[0], Values: s.Columns[1]}, nil
}

// LoadProfile reads a center-line profile of position, u, v, magnitude rows.
func LoadProfile(path string) (*Profile, error) {
	s, err := LoadSeries(path, 4)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Position:  s.Columns[0],
		U:         s.Columns[1],
		V:         s.Columns[2],
		Magnitude: s.Columns[3],
	}, nil
}
