package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/flowviz/internal/animate"
	"github.com/san-kum/flowviz/internal/field"
	"github.com/san-kum/flowviz/internal/render"
)

// skippable reports whether a batch may continue past err. Missing inputs
// are skipped; malformed data aborts the batch.
func skippable(err error) bool {
	return errors.Is(err, field.ErrNotFound) ||
		errors.Is(err, animate.ErrNoFrames) ||
		errors.Is(err, render.ErrNoData)
}

// step runs one batch action and records its artifact or skip.
func (s *Session) step(rep *Report, what string, fn func() (string, error)) error {
	out, err := fn()
	if err == nil {
		rep.Artifacts = append(rep.Artifacts, out)
		return nil
	}
	if skippable(err) {
		s.log.Warn("skipped", "action", what, "reason", err)
		rep.Skipped = append(rep.Skipped, what)
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (s *Session) layout() render.Layout {
	return render.Layout{Rows: s.cfg.Render.PanelRows, Cols: s.cfg.Render.PanelCols}
}

// panels loads one panel per step. Missing snapshots become blank panels.
func (s *Session) panels(fieldName string, steps []int, rep *Report) ([]render.Panel, error) {
	if cells := s.layout().Rows * s.layout().Cols; len(steps) > cells {
		return nil, fmt.Errorf("session: %d steps do not fit %d panels", len(steps), cells)
	}
	panels := make([]render.Panel, 0, len(steps))
	for _, step := range steps {
		name := field.FileName(field.FieldKind(fieldName), step)
		p := render.Panel{Title: fmt.Sprintf("Step %d", step)}
		g, err := s.loadGrid(s.path(name), field.LayoutScalar)
		switch {
		case err == nil:
			p.Grid = g
		case errors.Is(err, field.ErrNotFound):
			s.log.Warn("panel missing", "file", name)
			rep.Skipped = append(rep.Skipped, name)
		default:
			return nil, err
		}
		panels = append(panels, p)
	}
	return panels, nil
}

func (s *Session) representative(fieldName string, steps []int) ([]int, error) {
	if len(steps) > 0 {
		return steps, nil
	}
	all, err := s.Steps(fieldName)
	if err != nil {
		return nil, err
	}
	return field.Representative(all), nil
}

// Compare draws heatmaps of fieldName at steps side by side on one color
// scale. With no steps the first, middle and last available are used.
func (s *Session) Compare(fieldName string, steps []int) (*Report, error) {
	return s.grouped(fieldName, steps, render.PanelHeatmap)
}

// GroupedSurface is Compare with 3D surface panels.
func (s *Session) GroupedSurface(fieldName string, steps []int) (*Report, error) {
	return s.grouped(fieldName, steps, render.PanelSurface)
}

func (s *Session) grouped(fieldName string, steps []int, kind render.PanelKind) (*Report, error) {
	if err := checkField(fieldName); err != nil {
		return nil, err
	}
	steps, err := s.representative(fieldName, steps)
	if err != nil {
		return nil, err
	}
	rep := &Report{}
	panels, err := s.panels(fieldName, steps, rep)
	if err != nil {
		return nil, err
	}

	var out, title, cmap string
	if kind == render.PanelSurface {
		out = s.path(render.GroupedSurfaceName(fieldName))
		title = fmt.Sprintf("3D surfaces - %s", strings.ToUpper(fieldName))
		cmap = s.cfg.Render.SurfaceColormap
	} else {
		out = s.path(render.ComparisonName(fieldName))
		title = "Temporal evolution comparison"
		cmap = s.cfg.Render.CompareColormap
	}
	spec := s.spec(fieldName, cmap, title, out)

	err = s.step(rep, out, func() (string, error) {
		if err := render.Grouped(panels, s.layout(), kind, spec); err != nil {
			return "", err
		}
		return s.saved(out), nil
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// RunAll renders the energy history, per-step figures for the first, middle
// and last u steps, their comparison and animations of u and v.
func (s *Session) RunAll() (*Report, error) {
	steps, err := s.Steps("u")
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, ErrNoSnapshots
	}
	s.log.Info("steps available", "steps", steps)

	rep := &Report{}
	if err := s.step(rep, "energy history", s.Energy); err != nil {
		return rep, err
	}

	picks := field.Representative(steps)
	for _, step := range picks {
		s.log.Info("processing step", "step", step)
		actions := []struct {
			what string
			fn   func() (string, error)
		}{
			{fmt.Sprintf("heatmap u step %d", step), func() (string, error) { return s.Heatmap(step, "u") }},
			{fmt.Sprintf("heatmap v step %d", step), func() (string, error) { return s.Heatmap(step, "v") }},
			{fmt.Sprintf("surface u step %d", step), func() (string, error) { return s.Surface(step, "u") }},
			{fmt.Sprintf("vector field step %d", step), func() (string, error) { return s.VectorField(step) }},
			{fmt.Sprintf("profile step %d", step), func() (string, error) { return s.Profile(step) }},
		}
		for _, a := range actions {
			if err := s.step(rep, a.what, a.fn); err != nil {
				return rep, err
			}
		}
	}

	cmp, err := s.Compare("u", picks)
	if err != nil {
		return rep, err
	}
	rep.merge(cmp)

	for _, f := range Fields {
		err := s.step(rep, "animation "+f, func() (string, error) {
			res, err := s.Animate(f)
			if err != nil {
				return "", err
			}
			return res.Output, nil
		})
		if err != nil {
			return rep, err
		}
	}
	return rep, nil
}
