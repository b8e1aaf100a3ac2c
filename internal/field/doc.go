// Package field loads solver snapshot files and rebuilds rectangular grids.
//
// The package covers the ingestion side of the pipeline:
//
//   - [Reader]: parses whitespace-delimited snapshot rows, skipping headers
//   - [ShapeResolver]: decides the (nx, ny) grid shape, either from fixed
//     dimensions ([FixedShape]) or from distinct coordinates ([InferredShape])
//   - [Reshape]: turns flat columns into (ny, nx) matrices in file order
//   - [LoadSeries]: reads 1D profile and energy files without reshaping
//   - [Discover]: finds per-step files and orders them by numeric step
//
// # Example
//
//	r := field.Reader{Layout: field.LayoutScalar}
//	g, err := field.Load("u_field_step100.dat", r, field.InferredShape{})
//	if err != nil {
//		return err
//	}
//	z := g.Scalar()
//
// Grids are rebuilt on every call. Nothing is cached between loads.
package field
