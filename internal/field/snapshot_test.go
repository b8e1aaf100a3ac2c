package field

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStepFromName(t *testing.T) {
	tests := []struct {
		name string
		step int
		ok   bool
	}{
		{"u_field_step1200.dat", 1200, true},
		{"v_field_step0.dat", 0, true},
		{"central_profile_step50.dat", 50, true},
		{"/tmp/run/vector_field_step7.dat", 7, true},
		{"energy_history.dat", 0, false},
		{"u_field_final.dat", 0, false},
		{"u_field_stepXL.dat", 0, false},
		{"u_field_step.dat", 0, false},
		{"u_field_step12.5.dat", 0, false},
		{"u_field_step+5.dat", 0, false},
		{"u_field_step-3.dat", 0, false},
		{"u_field_step 7.dat", 0, false},
		{"u_field_step007.dat", 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step, ok := StepFromName(tt.name)
			if ok != tt.ok || step != tt.step {
				t.Errorf("StepFromName(%q) = %d, %v; want %d, %v", tt.name, step, ok, tt.step, tt.ok)
			}
		})
	}
}

func TestDiscover_NumericOrder(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"u_field_step1000.dat",
		"u_field_step50.dat",
		"u_field_step200.dat",
		"u_field_step0.dat",
		"u_field_final.dat",
		"u_field_stepX.dat",
		"v_field_step100.dat",
		"u_field_step300.txt",
		"u_field_step50.5.dat",
		"u_field_step+200.dat",
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("0 0 0\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	snaps, err := Discover(dir, KindU)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}
	want := []int{0, 50, 200, 1000}
	if got := Steps(snaps); !reflect.DeepEqual(got, want) {
		t.Errorf("expected steps %v, got %v", want, got)
	}
	if filepath.Base(snaps[1].Path) != "u_field_step50.dat" {
		t.Errorf("unexpected path %s", snaps[1].Path)
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "absent"), KindU)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepresentative(t *testing.T) {
	tests := []struct {
		steps []int
		want  []int
	}{
		{nil, nil},
		{[]int{5}, []int{5}},
		{[]int{0, 100}, []int{0, 100}},
		{[]int{0, 50, 100, 150, 200}, []int{0, 100, 200}},
	}
	for _, tt := range tests {
		if got := Representative(tt.steps); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Representative(%v) = %v, want %v", tt.steps, got, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(FieldKind("u"), 1200); got != "u_field_step1200.dat" {
		t.Errorf("unexpected name %s", got)
	}
	if got := FileName(KindProfile, 3); got != "central_profile_step3.dat" {
		t.Errorf("unexpected name %s", got)
	}
}
