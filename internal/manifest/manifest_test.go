package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tci/internal/manifest"
	"tci/internal/session"
	"tci/internal/testsupport"
	"tci/internal/wave"
)

func TestParseValidManifest(t *testing.T) {
	m, err := manifest.Parse([]byte(`
dataset: core-17
experiment: exp.csv
waveforms: ["*.trc"]
window: {min: 1, max: 2}
shapes:
  Sx:
    - {x: 1.0e-5, y: 0}
    - {x: 2.0e-5, y: 1}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Dataset != "core-17" || m.Interval().Max != 2 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	pts := m.ShapePoints()[wave.Sx]
	if len(pts) != 2 || pts[1].X != 2.0e-5 {
		t.Fatalf("unexpected points: %+v", pts)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	_, err := manifest.Parse([]byte(`
window: {min: 5, max: 1}
shapes:
  Q: [{x: 1, y: 1}, {x: 2, y: 2}]
  P: [{x: 1, y: 1}]
`))
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"dataset is required", "experiment is required", "waveforms", "window", "unknown wave", "shapes.P"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestRunReplaysManifest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	sess, err := session.New(context.Background(), store, session.Options{Config: cfg})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}

	dir := t.TempDir()
	capDir := filepath.Join(dir, "captures")
	if err := os.MkdirAll(capDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"r1_P.trc", "r2_P.trc", "r3_P.trc"} {
		testsupport.WriteTRC(t, capDir, name, testsupport.TRC{Raw: []int16{1, 2, 3}})
	}
	testsupport.WriteText(t, filepath.Join(dir, "exp.csv"), "Comments,Time\nr1,10\nr2,20\nr3,30\n")
	testsupport.WriteText(t, filepath.Join(dir, "run.yaml"), `
dataset: replay
experiment: exp.csv
waveforms: ["captures/*.trc", "captures/r1_P.trc"]
window: {min: 15, max: 30}
shapes:
  P:
    - {x: 1.0e-5, y: 0}
    - {x: 3.0e-5, y: 2}
export:
  arrivals: out/arrivals.csv
  window_only: true
`)

	m, err := manifest.Load(filepath.Join(dir, "run.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	calls := 0
	res, err := manifest.Run(context.Background(), sess, m, func(done, total int) { calls++ })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Load.Summary.Loaded != 3 || calls != 3 {
		t.Fatalf("loaded %d files with %d progress calls", res.Load.Summary.Loaded, calls)
	}
	if res.Bind.Results[wave.P].Len() != 3 {
		t.Fatalf("bound %d P captures", res.Bind.Results[wave.P].Len())
	}
	if res.Window == nil || res.Window.Selections[wave.P].Len() != 2 {
		t.Fatalf("unexpected window: %+v", res.Window)
	}
	if res.Commit == nil || len(res.Commit.Arrivals[wave.P]) != 3 {
		t.Fatalf("unexpected commit: %+v", res.Commit)
	}
	if res.Arrivals == nil || res.Arrivals.Rows != 2 {
		t.Fatalf("unexpected export: %+v", res.Arrivals)
	}
	if res.Arrivals.Path != filepath.Join(dir, "out", "arrivals.csv") {
		t.Fatalf("export path = %s", res.Arrivals.Path)
	}
	if _, err := os.Stat(res.Arrivals.Path); err != nil {
		t.Fatalf("export missing: %v", err)
	}
}

func TestRunFailsOnUnmatchedGlob(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteText(t, filepath.Join(dir, "run.yaml"), "dataset: d\nexperiment: e.csv\nwaveforms: [none/*.trc]\n")
	m, err := manifest.Load(filepath.Join(dir, "run.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := manifest.Run(context.Background(), nil, m, nil); err == nil || !strings.Contains(err.Error(), "matched no files") {
		t.Fatalf("expected unmatched glob error, got %v", err)
	}
}
