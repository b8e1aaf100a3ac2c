package field

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Grid holds every column of a snapshot reshaped to (NY rows, NX cols).
// Row r, column c is file row r*NX+c regardless of which coordinate the
// file varies fastest. With x as the outer loop a square grid ends up with
// constant x along each row; a non-square one only lines up when y is outer.
type Grid struct {
	NX, NY     int
	X, Y       *mat.Dense
	Components []*mat.Dense
}

// Reshape turns parsed rows into a Grid. Every row must have the same width
// and the row count must equal shape.NX*shape.NY.
func Reshape(rows [][]float64, shape Shape) (*Grid, error) {
	if shape.NX <= 0 || shape.NY <= 0 {
		return nil, fmt.Errorf("field: invalid shape %s", shape)
	}
	if len(rows) != shape.Cells() {
		return nil, &ShapeMismatchError{
			NX: shape.NX, NY: shape.NY, Expected: shape.Cells(), Actual: len(rows),
		}
	}

	width := len(rows[0])
	if width < 3 {
		return nil, fmt.Errorf("field: need at least 3 columns, got %d", width)
	}
	cols := make([][]float64, width)
	for k := range cols {
		cols[k] = make([]float64, len(rows))
	}
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("field: row %d has %d columns, want %d", i, len(row), width)
		}
		for k, v := range row {
			cols[k][i] = v
		}
	}

	g := &Grid{
		NX: shape.NX,
		NY: shape.NY,
		X:  mat.NewDense(shape.NY, shape.NX, cols[0]),
		Y:  mat.NewDense(shape.NY, shape.NX, cols[1]),
	}
	for _, c := range cols[2:] {
		g.Components = append(g.Components, mat.NewDense(shape.NY, shape.NX, c))
	}
	return g, nil
}

// Load reads path, resolves its shape and reshapes it.
func Load(path string, r Reader, resolver ShapeResolver) (*Grid, error) {
	rows, err := r.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &ParseError{File: path, Reason: "no data rows"}
	}
	shape, err := resolver.Resolve(rows)
	if err != nil {
		return nil, withFile(err, path)
	}
	g, err := Reshape(rows, shape)
	if err != nil {
		return nil, withFile(err, path)
	}
	return g, nil
}

func withFile(err error, path string) error {
	if sm, ok := err.(*ShapeMismatchError); ok {
		sm.File = path
		return sm
	}
	return fmt.Errorf("%s: %w", path, err)
}

// Scalar returns the first value column.
func (g *Grid) Scalar() *mat.Dense {
	return g.Components[0]
}

// Vector returns u, v and magnitude. The magnitude column is used when the
// file carried one, otherwise it is computed.
func (g *Grid) Vector() (u, v, mag *mat.Dense, err error) {
	if len(g.Components) < 2 {
		return nil, nil, nil, fmt.Errorf("field: grid has %d components, vector needs 2", len(g.Components))
	}
	u, v = g.Components[0], g.Components[1]
	if len(g.Components) >= 3 {
		return u, v, g.Components[2], nil
	}
	mag = mat.NewDense(g.NY, g.NX, nil)
	mag.Apply(func(i, j int, _ float64) float64 {
		return math.Hypot(u.At(i, j), v.At(i, j))
	}, mag)
	return u, v, mag, nil
}

// Magnitude returns the vector magnitude when the grid has two or more
// components, otherwise the scalar column.
func (g *Grid) Magnitude() *mat.Dense {
	if _, _, m, err := g.Vector(); err == nil {
		return m
	}
	return g.Scalar()
}

// Extent is the physical bounding box of the grid coordinates.
type Extent struct {
	XMin, XMax, YMin, YMax float64
}

// Extent returns the min/max of the x and y coordinates.
func (g *Grid) Extent() Extent {
	xs, ys := Flatten(g.X), Flatten(g.Y)
	e := Extent{
		XMin: floats.Min(xs), XMax: floats.Max(xs),
		YMin: floats.Min(ys), YMax: floats.Max(ys),
	}
	if e.XMax == e.XMin {
		e.XMax = e.XMin + 1
	}
	if e.YMax == e.YMin {
		e.YMax = e.YMin + 1
	}
	return e
}

// Flatten returns m's values in row-major order.
func Flatten(m *mat.Dense) []float64 {
	r, c := m.Dims()
	raw := m.RawMatrix()
	if raw.Stride == c {
		out := make([]float64, r*c)
		copy(out, raw.Data[:r*c])
		return out
	}
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}

// Range returns the finite min and max of m. ok is false when m has no
// finite value.
func Range(m *mat.Dense) (lo, hi float64, ok bool) {
	vals := Flatten(m)
	finite := vals[:0]
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 0, false
	}
	return floats.Min(finite), floats.Max(finite), true
}
