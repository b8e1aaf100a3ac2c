package field

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Layout selects how many tokens a data row must carry.
type Layout int

const (
	// LayoutAny accepts three or more tokens, fixed by the first data row.
	LayoutAny Layout = iota
	// LayoutScalar accepts rows of x y value.
	LayoutScalar
	// LayoutVector accepts rows of x y u v and an optional magnitude.
	LayoutVector
)

func (l Layout) String() string {
	switch l {
	case LayoutScalar:
		return "scalar"
	case LayoutVector:
		return "vector"
	default:
		return "any"
	}
}

func (l Layout) accepts(n, first int) bool {
	switch l {
	case LayoutScalar:
		return n == 3
	case LayoutVector:
		if first > 0 {
			return n == first
		}
		return n == 4 || n == 5
	default:
		if first > 0 {
			return n == first
		}
		return n >= 3
	}
}

// Reader parses snapshot files into numeric rows.
// The zero value reads any layout and logs nothing.
type Reader struct {
	Layout Layout
	// Log receives the first Preview raw lines at debug level. Nil disables it.
	Log     *slog.Logger
	Preview int
}

// ReadFile opens path and parses its rows.
func (r Reader) ReadFile(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(path)
		}
		return nil, err
	}
	defer f.Close()

	return r.Read(path, f)
}

// Read parses rows from src. name is used in errors and log records.
func (r Reader) Read(name string, src io.Reader) ([][]float64, error) {
	log := r.Log
	if log == nil {
		log = discard
	}

	var rows [][]float64
	width := 0
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if n <= r.Preview && log.Enabled(context.Background(), slog.LevelDebug) {
			log.Debug("raw line", "file", name, "line", n, "text", strings.TrimSpace(line))
		}

		tokens := strings.Fields(line)
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}
		if _, err := strconv.ParseFloat(tokens[0], 64); err != nil {
			// header such as "X Y Value"
			continue
		}
		if !r.Layout.accepts(len(tokens), width) {
			return nil, &ParseError{
				File:   name,
				Line:   n,
				Reason: fmt.Sprintf("%d tokens do not fit %s layout", len(tokens), r.Layout),
			}
		}

		row, err := parseRow(tokens)
		if err != nil {
			return nil, &ParseError{File: name, Line: n, Reason: err.Error()}
		}
		if width == 0 {
			width = len(row)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("field: read %s: %w", name, err)
	}

	log.Debug("rows loaded", "file", name, "rows", len(rows), "cols", width)
	return rows, nil
}

func parseRow(tokens []string) ([]float64, error) {
	row := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("token %d %q is not a number", i+1, tok)
		}
		row[i] = v
	}
	return row, nil
}
