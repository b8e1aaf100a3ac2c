// Package session maps viewer actions onto loaders and renderers for one
// working directory.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/san-kum/flowviz/internal/animate"
	"github.com/san-kum/flowviz/internal/config"
	"github.com/san-kum/flowviz/internal/field"
	"github.com/san-kum/flowviz/internal/render"
)

// ErrNoSnapshots is returned by RunAll when the directory has no u snapshots.
var ErrNoSnapshots = errors.New("session: no snapshots found")

// Fields that can be rendered as scalars.
var Fields = []string{"u", "v"}

// Report lists what a batch action produced and what it skipped.
type Report struct {
	Artifacts []string
	Skipped   []string
}

func (r *Report) merge(o *Report) {
	if o == nil {
		return
	}
	r.Artifacts = append(r.Artifacts, o.Artifacts...)
	r.Skipped = append(r.Skipped, o.Skipped...)
}

type Session struct {
	cfg    *config.Config
	reader field.Reader
	shape  field.ShapeResolver
	log    *slog.Logger
}

// New validates cfg and binds it to log. A nil log discards records.
func New(cfg *config.Config, log *slog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	shape, err := field.NewShapeResolver(cfg.Grid.Shape, cfg.Grid.NX, cfg.Grid.NY)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	log = field.OrDiscard(log)
	return &Session{
		cfg:    cfg,
		reader: field.Reader{Log: log, Preview: cfg.PreviewLines},
		shape:  shape,
		log:    log,
	}, nil
}

func (s *Session) Config() *config.Config { return s.cfg }

func (s *Session) path(name string) string {
	return filepath.Join(s.cfg.Dir, name)
}

func (s *Session) loadGrid(path string, layout field.Layout) (*field.Grid, error) {
	r := s.reader
	r.Layout = layout
	return field.Load(path, r, s.shape)
}

func (s *Session) spec(fieldName, cmap, title, out string) render.Spec {
	rc := s.cfg.Render
	return render.Spec{
		Field:      fieldName,
		Title:      title,
		Colormap:   cmap,
		Bounds:     render.Bounds{Fixed: rc.FixedScale, Min: rc.Min, Max: rc.Max},
		Output:     out,
		Width:      rc.Width,
		Height:     rc.Height,
		Stride:     rc.SurfaceStride,
		ArrowScale: rc.ArrowScale,
	}
}

func (s *Session) saved(out string) string {
	s.log.Info("artifact saved", "file", out)
	return out
}

func checkField(name string) error {
	for _, f := range Fields {
		if f == name {
			return nil
		}
	}
	return fmt.Errorf("session: unknown field %q (want %s)", name, strings.Join(Fields, " or "))
}

// Steps lists the available steps for fieldName in numeric order.
func (s *Session) Steps(fieldName string) ([]int, error) {
	if err := checkField(fieldName); err != nil {
		return nil, err
	}
	snaps, err := field.Discover(s.cfg.Dir, field.FieldKind(fieldName))
	if err != nil {
		return nil, err
	}
	return field.Steps(snaps), nil
}

// Heatmap renders <field>_field_step<N>.dat.
func (s *Session) Heatmap(step int, fieldName string) (string, error) {
	if err := checkField(fieldName); err != nil {
		return "", err
	}
	g, err := s.loadGrid(s.path(field.FileName(field.FieldKind(fieldName), step)), field.LayoutScalar)
	if err != nil {
		return "", err
	}
	out := s.path(render.HeatmapName(fieldName, step))
	title := fmt.Sprintf("Velocity field %s - step %d", strings.ToUpper(fieldName), step)
	spec := s.spec(fieldName, s.cfg.Render.HeatmapColormap, title, out)
	spec.XLabel, spec.YLabel = "Position X", "Position Y"
	if err := render.Heatmap(g, spec); err != nil {
		return "", err
	}
	return s.saved(out), nil
}

// Surface renders <field>_field_step<N>.dat as a 3D surface.
func (s *Session) Surface(step int, fieldName string) (string, error) {
	if err := checkField(fieldName); err != nil {
		return "", err
	}
	g, err := s.loadGrid(s.path(field.FileName(field.FieldKind(fieldName), step)), field.LayoutScalar)
	if err != nil {
		return "", err
	}
	out := s.path(render.SurfaceName(fieldName, step))
	title := fmt.Sprintf("3D surface - %s - step %d", strings.ToUpper(fieldName), step)
	spec := s.spec(fieldName, s.cfg.Render.SurfaceColormap, title, out)
	spec.XLabel, spec.YLabel = "Position X", "Position Y"
	if err := render.Surface(g, spec); err != nil {
		return "", err
	}
	return s.saved(out), nil
}

// VectorField renders vector_field_step<N>.dat.
func (s *Session) VectorField(step int) (string, error) {
	g, err := s.loadGrid(s.path(field.FileName(field.KindVector, step)), field.LayoutVector)
	if err != nil {
		return "", err
	}
	out := s.path(render.VectorFieldName(step))
	spec := s.spec("|u|", s.cfg.Render.VectorColormap, fmt.Sprintf("Vector field - step %d", step), out)
	spec.Stride = s.cfg.Render.ArrowStride
	spec.XLabel, spec.YLabel = "Position X", "Position Y"
	if err := render.VectorField(g, spec); err != nil {
		return "", err
	}
	return s.saved(out), nil
}

// Profile renders central_profile_step<N>.dat.
func (s *Session) Profile(step int) (string, error) {
	p, err := field.LoadProfile(s.path(field.FileName(field.KindProfile, step)))
	if err != nil {
		return "", err
	}
	out := s.path(render.ProfileName(step))
	spec := s.spec("", "", fmt.Sprintf("Central profile - step %d", step), out)
	spec.XLabel, spec.YLabel = "Position Y (cut at X = NX/2)", "Velocity"
	if err := render.Profile(p, spec); err != nil {
		return "", err
	}
	return s.saved(out), nil
}

// Energy renders energy_history.dat.
func (s *Session) Energy() (string, error) {
	ts, err := field.LoadTimeSeries(s.path(field.EnergyFile))
	if err != nil {
		return "", err
	}
	out := s.path(render.EnergyHistoryName)
	spec := s.spec("", "", "Kinetic energy over time", out)
	spec.XLabel, spec.YLabel = "Step", "Kinetic energy"
	if err := render.EnergyHistory(ts, spec); err != nil {
		return "", err
	}
	return s.saved(out), nil
}

// Animate renders every <field> snapshot into animation_<field>.gif.
func (s *Session) Animate(fieldName string) (*animate.Result, error) {
	if err := checkField(fieldName); err != nil {
		return nil, err
	}
	snaps, err := field.Discover(s.cfg.Dir, field.FieldKind(fieldName))
	if err != nil {
		return nil, err
	}
	out := s.path(render.AnimationName(fieldName))
	title := fmt.Sprintf("Evolution of field %s", strings.ToUpper(fieldName))
	d := &animate.Driver{
		Load: func(path string) (*field.Grid, error) {
			return s.loadGrid(path, field.LayoutScalar)
		},
		Spec:        s.spec(fieldName, s.cfg.Render.HeatmapColormap, title, ""),
		OutputEvery: s.cfg.OutputEvery,
		FPS:         s.cfg.Animation.FPS,
		Log:         s.log,
	}
	res, err := d.Run(snaps, out)
	if err != nil {
		return nil, err
	}
	s.saved(out)
	return res, nil
}

// Final renders the velocity magnitude of u_final.dat and v_final.dat as a
// 3D surface over the configured domain.
func (s *Session) Final() (string, error) {
	u, err := field.LoadMatrix(s.path(field.FinalU), s.reader)
	if err != nil {
		return "", err
	}
	v, err := field.LoadMatrix(s.path(field.FinalV), s.reader)
	if err != nil {
		return "", err
	}
	g, err := field.FromMatrices(u, v, s.cfg.Final.XMax, s.cfg.Final.YMax)
	if err != nil {
		return "", err
	}
	if s.cfg.Grid.Shape == field.ShapeFixed && (g.NX != s.cfg.Grid.NX || g.NY != s.cfg.Grid.NY) {
		return "", &field.ShapeMismatchError{
			File: s.path(field.FinalU), NX: s.cfg.Grid.NX, NY: s.cfg.Grid.NY,
			Expected: s.cfg.Grid.NX * s.cfg.Grid.NY, Actual: g.NX * g.NY,
		}
	}

	mag := *g
	mag.Components = append(mag.Components[:0:0], g.Magnitude())
	out := s.path(render.FinalName)
	spec := s.spec("|u|", s.cfg.Render.SurfaceColormap, "Fluid velocity magnitude at final time", out)
	spec.XLabel, spec.YLabel = "X axis", "Y axis"
	if err := render.Surface(&mag, spec); err != nil {
		return "", err
	}
	return s.saved(out), nil
}
