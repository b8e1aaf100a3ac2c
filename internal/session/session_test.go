package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/san-kum/flowviz/internal/config"
	"github.com/san-kum/flowviz/internal/field"
	"github.com/san-kum/flowviz/internal/render"
)

const n = 4

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func writeScalar(t *testing.T, dir, fieldName string, step int) {
	t.Helper()
	var b strings.Builder
	b.WriteString("X Y Value\n")
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			fmt.Fprintf(&b, "%d %d %g\n", i, j, float64(step+i*j)/100)
		}
	}
	writeFile(t, dir, field.FileName(field.FieldKind(fieldName), step), b.String())
}

func writeVector(t *testing.T, dir string, step int) {
	t.Helper()
	var b strings.Builder
	b.WriteString("X Y U V Magnitude\n")
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			fmt.Fprintf(&b, "%d %d 0.3 0.4 0.5\n", i, j)
		}
	}
	writeFile(t, dir, field.FileName(field.KindVector, step), b.String())
}

func writeProfile(t *testing.T, dir string, step int) {
	t.Helper()
	writeFile(t, dir, field.FileName(field.KindProfile, step),
		"Y U V Magnitude\n0 0 0 0\n0.5 1 0.1 1.005\n1 0 0 0\n")
}

func newSession(t *testing.T, dir string) *Session {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Dir = dir
	cfg.Render.Width = 320
	cfg.Render.Height = 240
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OutputEvery = 0
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected validation error")
	}
}

func TestHeatmap(t *testing.T) {
	dir := t.TempDir()
	writeScalar(t, dir, "u", 100)
	s := newSession(t, dir)

	out, err := s.Heatmap(100, "u")
	if err != nil {
		t.Fatalf("heatmap failed: %v", err)
	}
	if out != filepath.Join(dir, "plot_u_step100.png") || !exists(out) {
		t.Errorf("unexpected artifact %s", out)
	}
}

func TestSingleTarget_MissingFile(t *testing.T) {
	dir := t.TempDir()
	s := newSession(t, dir)

	tests := []struct {
		name     string
		run      func() (string, error)
		artifact string
	}{
		{"heatmap", func() (string, error) { return s.Heatmap(42, "v") }, render.HeatmapName("v", 42)},
		{"surface", func() (string, error) { return s.Surface(42, "u") }, render.SurfaceName("u", 42)},
		{"vector", func() (string, error) { return s.VectorField(42) }, render.VectorFieldName(42)},
		{"profile", func() (string, error) { return s.Profile(42) }, render.ProfileName(42)},
		{"energy", s.Energy, render.EnergyHistoryName},
		{"final", s.Final, render.FinalName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.run()
			if !errors.Is(err, field.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			if exists(filepath.Join(dir, tt.artifact)) {
				t.Error("no artifact should be written")
			}
		})
	}
}

func TestHeatmap_UnknownField(t *testing.T) {
	s := newSession(t, t.TempDir())
	if _, err := s.Heatmap(0, "w"); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestHeatmap_FixedShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	writeScalar(t, dir, "u", 0)
	cfg := config.DefaultConfig()
	cfg.Dir = dir
	cfg.Grid = config.GridConfig{Shape: "fixed", NX: 5, NY: 5}
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Heatmap(0, "u")
	var sm *field.ShapeMismatchError
	if !errors.As(err, &sm) {
		t.Fatalf("expected ShapeMismatchError, got %v", err)
	}
	if sm.Expected != 25 || sm.Actual != 16 {
		t.Errorf("unexpected counts %d/%d", sm.Expected, sm.Actual)
	}
}

func TestSingleTargets(t *testing.T) {
	dir := t.TempDir()
	writeScalar(t, dir, "u", 0)
	writeVector(t, dir, 0)
	writeProfile(t, dir, 0)
	writeFile(t, dir, field.EnergyFile, "0 1.5\n100 1.2\n200 0.9\n")
	s := newSession(t, dir)

	for name, run := range map[string]func() (string, error){
		"surface": func() (string, error) { return s.Surface(0, "u") },
		"vector":  func() (string, error) { return s.VectorField(0) },
		"profile": func() (string, error) { return s.Profile(0) },
		"energy":  s.Energy,
	} {
		out, err := run()
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if !exists(out) {
			t.Errorf("%s: %s not written", name, out)
		}
	}
}

func TestSteps_NumericOrder(t *testing.T) {
	dir := t.TempDir()
	for _, step := range []int{1000, 200, 0} {
		writeScalar(t, dir, "u", step)
	}
	s := newSession(t, dir)

	steps, err := s.Steps("u")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(steps, []int{0, 200, 1000}) {
		t.Errorf("expected numeric order, got %v", steps)
	}
}

func TestAnimate(t *testing.T) {
	dir := t.TempDir()
	for _, step := range []int{0, 100, 200} {
		writeScalar(t, dir, "v", step)
	}
	s := newSession(t, dir)

	res, err := s.Animate("v")
	if err != nil {
		t.Fatal(err)
	}
	if res.Frames != 3 || !exists(res.Output) {
		t.Errorf("unexpected result %+v", res)
	}
	if !slices.Equal(res.Labels, []int{0, 100, 200}) {
		t.Errorf("unexpected labels %v", res.Labels)
	}
}

func TestCompare_SkipsMissing(t *testing.T) {
	dir := t.TempDir()
	writeScalar(t, dir, "u", 0)
	writeScalar(t, dir, "u", 100)
	s := newSession(t, dir)

	rep, err := s.Compare("u", []int{0, 100, 999})
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if len(rep.Artifacts) != 1 || !exists(rep.Artifacts[0]) {
		t.Errorf("expected one artifact, got %v", rep.Artifacts)
	}
	if !slices.Contains(rep.Skipped, "u_field_step999.dat") {
		t.Errorf("expected missing step to be skipped, got %v", rep.Skipped)
	}
}

func TestCompare_DefaultsToRepresentative(t *testing.T) {
	dir := t.TempDir()
	for _, step := range []int{0, 100, 200, 300, 400} {
		writeScalar(t, dir, "u", step)
	}
	s := newSession(t, dir)

	rep, err := s.GroupedSurface("u", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Skipped) != 0 || !exists(filepath.Join(dir, "surface_3d_u_grouped_grid.png")) {
		t.Errorf("unexpected report %+v", rep)
	}
}

func TestRunAll(t *testing.T) {
	dir := t.TempDir()
	for _, step := range []int{0, 100, 200} {
		writeScalar(t, dir, "u", step)
		writeScalar(t, dir, "v", step)
	}
	writeVector(t, dir, 0)
	writeProfile(t, dir, 0)
	s := newSession(t, dir)

	rep, err := s.RunAll()
	if err != nil {
		t.Fatalf("run all failed: %v", err)
	}

	for _, name := range []string{
		"plot_u_step0.png", "plot_v_step200.png", "3d_u_step100.png",
		"vector_field_step0.png", "central_profile_step0.png",
		"comparison_u.png", "animation_u.gif", "animation_v.gif",
	} {
		if !slices.Contains(rep.Artifacts, filepath.Join(dir, name)) {
			t.Errorf("missing artifact %s", name)
		}
	}
	for _, what := range []string{"energy history", "vector field step 100", "profile step 200"} {
		if !slices.Contains(rep.Skipped, what) {
			t.Errorf("expected %q to be skipped, got %v", what, rep.Skipped)
		}
	}
}

func TestRunAll_NoSnapshots(t *testing.T) {
	s := newSession(t, t.TempDir())
	if _, err := s.RunAll(); !errors.Is(err, ErrNoSnapshots) {
		t.Errorf("expected ErrNoSnapshots, got %v", err)
	}
}

func TestRunAll_AbortsOnMalformedData(t *testing.T) {
	dir := t.TempDir()
	writeScalar(t, dir, "u", 0)
	writeFile(t, dir, field.FileName(field.KindU, 100), "0 0 1\n0 1 oops\n")
	writeScalar(t, dir, "u", 200)
	s := newSession(t, dir)

	_, err := s.RunAll()
	if !errors.Is(err, field.ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
	if exists(filepath.Join(dir, "comparison_u.png")) {
		t.Error("batch should stop before the comparison")
	}
}

func TestFinal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, field.FinalU, "0 1 2\n1 2 3\n2 3 4\n")
	writeFile(t, dir, field.FinalV, "0 0 0\n1 1 1\n2 2 2\n")
	s := newSession(t, dir)

	out, err := s.Final()
	if err != nil {
		t.Fatalf("final failed: %v", err)
	}
	if !exists(out) {
		t.Errorf("%s not written", out)
	}
}
