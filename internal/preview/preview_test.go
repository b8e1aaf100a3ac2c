package preview

import (
	"strings"
	"testing"

	"github.com/san-kum/flowviz/internal/field"
)

func TestEnergy(t *testing.T) {
	ts := &field.TimeSeries{
		Steps:  []float64{0, 100, 200, 300},
		Values: []float64{4, 3, 2.5, 2.2},
	}
	out, err := Energy(ts, DefaultSize)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "steps 0..300") {
		t.Errorf("caption missing from:\n%s", out)
	}
	if lines := strings.Count(out, "\n"); lines < DefaultSize.Height {
		t.Errorf("expected at least %d lines, got %d", DefaultSize.Height, lines)
	}
}

func TestProfile(t *testing.T) {
	p := &field.Profile{
		Position:  []float64{0, 0.5, 1},
		U:         []float64{0, 1, 0},
		V:         []float64{0, 0.2, 0},
		Magnitude: []float64{0, 1.02, 0},
	}
	out, err := Profile(p, 400, Size{Width: 40, Height: 8})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"step 400", "|u|"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestEmpty(t *testing.T) {
	if _, err := Energy(&field.TimeSeries{}, DefaultSize); err != ErrEmpty {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if _, err := Profile(nil, 0, DefaultSize); err != ErrEmpty {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}
