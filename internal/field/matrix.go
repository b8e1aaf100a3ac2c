package field

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Final-state files are plain matrices, one grid row per line.
const (
	FinalU = "u_final.dat"
	FinalV = "v_final.dat"
)

// LoadMatrix reads a whitespace separated matrix.
func LoadMatrix(path string, r Reader) (*mat.Dense, error) {
	r.Layout = LayoutAny
	rows, err := r.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &ParseError{File: path, Reason: "no data rows"}
	}
	m := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, row := range rows {
		m.SetRow(i, row)
	}
	return m, nil
}

// FromMatrices builds a vector Grid over [0,xmax] x [0,ymax] from u and v
// matrices of equal shape.
func FromMatrices(u, v *mat.Dense, xmax, ymax float64) (*Grid, error) {
	ny, nx := u.Dims()
	if r, c := v.Dims(); r != ny || c != nx {
		return nil, &ShapeMismatchError{
			NX: nx, NY: ny, Expected: nx * ny, Actual: r * c,
			Reason: fmt.Sprintf("v is %dx%d", c, r),
		}
	}
	g := &Grid{
		NX: nx,
		NY: ny,
		X:  mat.NewDense(ny, nx, nil),
		Y:  mat.NewDense(ny, nx, nil),
	}
	g.X.Apply(func(_, j int, _ float64) float64 { return linspace(j, nx, xmax) }, g.X)
	g.Y.Apply(func(i, _ int, _ float64) float64 { return linspace(i, ny, ymax) }, g.Y)
	g.Components = []*mat.Dense{u, v}
	return g, nil
}

func linspace(i, n int, hi float64) float64 {
	if n < 2 {
		return 0
	}
	return hi * float64(i) / float64(n-1)
}
