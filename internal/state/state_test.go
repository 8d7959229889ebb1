package state_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"tci/internal/arrival"
	"tci/internal/binding"
	"tci/internal/experiment"
	"tci/internal/state"
	"tci/internal/testsupport"
	"tci/internal/wave"
	"tci/internal/waveform"
	"tci/internal/window"
)

func sampleSnapshot(t *testing.T) *state.Snapshot {
	t.Helper()
	rec, err := experiment.New(
		[]string{"a", "b"},
		map[string]experiment.Column{"Time": {1, 2}, "Sigma1": {math.NaN(), 5}},
		[]string{"Time", "Sigma1"},
		"Time",
	)
	if err != nil {
		t.Fatalf("experiment.New: %v", err)
	}
	return &state.Snapshot{
		Dataset:        "core-17",
		BindingID:      "b-1",
		ArrivalsPicked: true,
		YAxis:          "Sigma1",
		Experiment:     rec,
		Results: map[wave.Type]binding.Result{
			wave.P: {Times: []float64{1, 2}, LocalIndices: []int{0, 1}, ExperimentIndices: []int{0, 1}, Filenames: []string{"a_P.trc", "b_P.trc"}},
		},
		Report:   &binding.Report{Retained: 2},
		Arrivals: map[wave.Type]arrival.Set{wave.P: {1.5e-5, arrival.Undefined}},
		Shapes:   map[wave.Type][]arrival.Point{wave.Sx: {{X: 1, Y: 0}}},
		Window:   &window.Interval{Min: 1, Max: 2},
		Waveforms: []waveform.Record{
			{Filename: "b_P.trc", Wave: wave.P, SampleInterval: 1e-7, Samples: []float64{0.5, -0.5}},
			{Filename: "a_P.trc", Wave: wave.P, SampleInterval: 1e-7, Samples: []float64{1}},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	snap := sampleSnapshot(t)
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx, "core-17")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !got.ArrivalsPicked || got.BindingID != "b-1" || got.YAxis != "Sigma1" || !got.Bound() {
		t.Fatalf("unexpected header fields: %+v", got)
	}
	if got.Experiment == nil || !math.IsNaN(got.Experiment.Columns["Sigma1"][0]) {
		t.Fatalf("experiment not restored: %+v", got.Experiment)
	}
	set := got.Arrivals[wave.P]
	if len(set) != 2 || set[0] != 1.5e-5 || !arrival.IsUndefined(set[1]) {
		t.Fatalf("arrivals not restored: %v", set)
	}
	if got.Window == nil || *got.Window != (window.Interval{Min: 1, Max: 2}) {
		t.Fatalf("window not restored: %v", got.Window)
	}
	if len(got.Shapes[wave.Sx]) != 1 || got.Report == nil || got.Report.Retained != 2 {
		t.Fatalf("shapes/report not restored: %+v", got)
	}

	captures, err := got.CaptureStore()
	if err != nil {
		t.Fatalf("CaptureStore: %v", err)
	}
	if names := captures.Filenames(wave.P); len(names) != 2 || names[0] != "b_P.trc" {
		t.Fatalf("capture order not preserved: %v", names)
	}
}

func TestSaveOverwritesAndKeepsCreatedAt(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	snap := sampleSnapshot(t)
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	created := snap.CreatedAt

	snap.ArrivalsPicked = false
	snap.Arrivals = nil
	snap.Window = nil
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	got, err := store.Load(ctx, snap.Dataset)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ArrivalsPicked || got.Arrivals != nil || got.Window != nil {
		t.Fatalf("expected overwritten snapshot, got %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at changed: %v != %v", got.CreatedAt, created)
	}
}

func TestLoadDeleteMissing(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if _, err := store.Load(ctx, "nope"); !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "nope"); !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
	if err := store.Save(ctx, &state.Snapshot{}); err == nil {
		t.Fatal("expected error for snapshot without dataset id")
	}
}

func TestListActiveAndDelete(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for _, id := range []string{"zeta", "alpha"} {
		if err := store.Save(ctx, &state.Snapshot{Dataset: id}); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}
	if err := store.SetActive(ctx, "zeta"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Dataset != "alpha" || list[1].Dataset != "zeta" {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := store.Delete(ctx, "zeta"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	active, err := store.Active(ctx)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if active != "" {
		t.Fatalf("deleting the active dataset should clear it, got %q", active)
	}
}

func TestOpenRefusesSecondHandle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := testsupport.MustOpenStore(t, cfg)

	if _, err := state.Open(cfg); !errors.Is(err, state.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	second, err := state.Open(cfg)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	_ = second.Close()
}
