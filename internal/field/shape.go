package field

import (
	"fmt"
	"strings"
)

// Shape is a grid size: NX columns by NY rows.
type Shape struct {
	NX, NY int
}

// Cells returns NX*NY.
func (s Shape) Cells() int { return s.NX * s.NY }

func (s Shape) String() string { return fmt.Sprintf("%dx%d", s.NX, s.NY) }

// ShapeResolver decides the grid shape for a parsed snapshot.
type ShapeResolver interface {
	Resolve(rows [][]float64) (Shape, error)
}

// FixedShape returns externally configured dimensions. The row count is
// checked later by Reshape.
type FixedShape struct {
	NX, NY int
}

func (f FixedShape) Resolve(rows [][]float64) (Shape, error) {
	if f.NX <= 0 || f.NY <= 0 {
		return Shape{}, fmt.Errorf("field: fixed shape %dx%d must be positive", f.NX, f.NY)
	}
	return Shape{NX: f.NX, NY: f.NY}, nil
}

// InferredShape counts distinct x and y coordinates (columns 0 and 1).
type InferredShape struct{}

func (InferredShape) Resolve(rows [][]float64) (Shape, error) {
	xs := make(map[float64]struct{})
	ys := make(map[float64]struct{})
	for _, row := range rows {
		if len(row) < 2 {
			return Shape{}, &ShapeMismatchError{Actual: len(rows), Reason: "rows lack x/y columns"}
		}
		xs[row[0]] = struct{}{}
		ys[row[1]] = struct{}{}
	}

	s := Shape{NX: len(xs), NY: len(ys)}
	if s.NX <= 1 || s.NY <= 1 {
		return Shape{}, &ShapeMismatchError{
			NX: s.NX, NY: s.NY, Expected: s.Cells(), Actual: len(rows),
			Reason: "need more than one distinct x and y",
		}
	}
	if s.Cells() != len(rows) {
		return Shape{}, &ShapeMismatchError{
			NX: s.NX, NY: s.NY, Expected: s.Cells(), Actual: len(rows),
			Reason: "coordinates are not a full rectangle",
		}
	}
	return s, nil
}

// Shape modes accepted by NewShapeResolver.
const (
	ShapeFixed = "fixed"
	ShapeInfer = "infer"
)

// NewShapeResolver selects a resolver by mode name.
func NewShapeResolver(mode string, nx, ny int) (ShapeResolver, error) {
	switch strings.ToLower(mode) {
	case ShapeFixed:
		return FixedShape{NX: nx, NY: ny}, nil
	case ShapeInfer, "":
		return InferredShape{}, nil
	default:
		return nil, fmt.Errorf("unknown shape mode: %s", mode)
	}
}
