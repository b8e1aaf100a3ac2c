package field

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Snapshot file kinds written by the solver.
const (
	KindU       = "u_field"
	KindV       = "v_field"
	KindVector  = "vector_field"
	KindProfile = "central_profile"

	EnergyFile = "energy_history.dat"

	stepMarker = "step"
	dataExt    = ".dat"
)

// Snapshot is one per-step file.
type Snapshot struct {
	Path string
	Step int
}

// FieldKind maps a field name such as "u" to its file kind.
func FieldKind(name string) string {
	return name + "_field"
}

// FileName builds "<kind>_step<N>.dat".
func FileName(kind string, step int) string {
	return fmt.Sprintf("%s_%s%d%s", kind, stepMarker, step, dataExt)
}

// StepFromName extracts N from names like "u_field_step1200.dat". N is
// everything between the marker and the extension and must be plain
// decimal digits.
func StepFromName(name string) (int, bool) {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	i := strings.LastIndex(base, stepMarker)
	if i < 0 {
		return 0, false
	}
	rest := base[i+len(stepMarker):]
	if !isDigits(rest) {
		return 0, false
	}
	step, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return step, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Discover lists dir for "<kind>_step<N>.dat" files ordered by N. Files
// whose step cannot be parsed are left out.
func Discover(dir, kind string) ([]Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(dir)
		}
		return nil, err
	}

	prefix := kind + "_" + stepMarker
	var snaps []Snapshot
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, dataExt) {
			continue
		}
		step, ok := StepFromName(name)
		if !ok {
			continue
		}
		snaps = append(snaps, Snapshot{Path: filepath.Join(dir, name), Step: step})
	}
	SortSnapshots(snaps)
	return snaps, nil
}

// SortSnapshots orders snaps by numeric step.
func SortSnapshots(snaps []Snapshot) {
	sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].Step < snaps[j].Step })
}

// Steps returns the step numbers of snaps.
func Steps(snaps []Snapshot) []int {
	out := make([]int, len(snaps))
	for i, s := range snaps {
		out[i] = s.Step
	}
	return out
}

// Representative picks the first, middle and last of sorted steps,
// without repeats.
func Representative(steps []int) []int {
	if len(steps) == 0 {
		return nil
	}
	var out []int
	seen := make(map[int]bool, 3)
	for _, s := range []int{steps[0], steps[len(steps)/2], steps[len(steps)-1]} {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
