package binding_test

import (
	"errors"
	"math"
	"reflect"
	"slices"
	"testing"

	"tci/internal/binding"
	"tci/internal/wave"
	"tci/internal/waveform"
)

func TestBindLastOccurrenceWinsAndSortsByTime(t *testing.T) {
	results, report, err := binding.Bind(
		[]string{"A", "B", "A"},
		[]float64{1.0, 2.0, 3.0},
		map[wave.Type][]string{wave.P: {"fileA.trc", "fileB.trc"}},
	)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	p := results[wave.P]
	if !slices.Equal(p.Times, []float64{2.0, 3.0}) {
		t.Fatalf("times = %v, want [2 3]", p.Times)
	}
	if !slices.Equal(p.Filenames, []string{"fileB.trc", "fileA.trc"}) {
		t.Fatalf("filenames = %v", p.Filenames)
	}
	if !slices.Equal(p.LocalIndices, []int{0, 1}) || !slices.Equal(p.ExperimentIndices, []int{1, 2}) {
		t.Fatalf("indices = %v / %v", p.LocalIndices, p.ExperimentIndices)
	}

	if len(report.Duplicates) != 1 || report.Duplicates[0].Comment != "A" || report.Duplicates[0].Kept != 2 {
		t.Fatalf("unexpected duplicates: %+v", report.Duplicates)
	}
	warning := report.Warning()
	if warning == nil {
		t.Fatal("expected ambiguity warning for repeated comment")
	}
	var target *binding.AmbiguityWarning
	if !errors.As(error(warning), &target) {
		t.Fatalf("warning should be usable as an error")
	}
	if report.Retained != 2 {
		t.Fatalf("retained = %d", report.Retained)
	}
}

func TestBindParallelSlicesHaveEqualLength(t *testing.T) {
	comments := []string{"", "c1", "c2", " ", "c3", "c1", "c4"}
	times := []float64{0, 5, 1, 2, 3, 4, math.NaN()}
	files := map[wave.Type][]string{
		wave.P:  {"c1_P.trc", "c2_P.trc", "zz_P.trc"},
		wave.Sx: {"c3_Sx.trc"},
		wave.Sy: nil,
	}
	results, report, err := binding.Bind(comments, times, files)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	for _, w := range wave.All() {
		r, ok := results[w]
		if !ok {
			t.Fatalf("missing result for %s", w)
		}
		if len(r.Times) != len(r.LocalIndices) || len(r.Times) != len(r.ExperimentIndices) || len(r.Times) != len(r.Filenames) {
			t.Fatalf("%s: parallel slices differ: %+v", w, r)
		}
	}
	if report.Blank != 2 || report.Untimed != 1 {
		t.Fatalf("blank=%d untimed=%d", report.Blank, report.Untimed)
	}
	if got := report.Spurious[wave.P]; !slices.Equal(got, []string{"zz_P.trc"}) {
		t.Fatalf("spurious = %v", got)
	}
	p := results[wave.P]
	if !slices.Equal(p.Filenames, []string{"c2_P.trc", "c1_P.trc"}) || !slices.Equal(p.ExperimentIndices, []int{2, 5}) {
		t.Fatalf("unexpected P result: %+v", p)
	}
	if results[wave.Sy].Len() != 0 {
		t.Fatalf("expected empty Sy result")
	}
}

func TestBindIsIdempotent(t *testing.T) {
	comments := []string{"x1", "x2", "x1", "x3"}
	times := []float64{3, 1, 2, 0}
	files := map[wave.Type][]string{wave.Sx: {"x3.trc", "x1.trc", "x2.trc"}}

	first, firstReport, err := binding.Bind(comments, times, files)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	second, secondReport, err := binding.Bind(comments, times, files)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if !reflect.DeepEqual(first, second) || !reflect.DeepEqual(firstReport, secondReport) {
		t.Fatalf("binding differs between runs:\n%+v\n%+v", first, second)
	}
}

func TestBindFirstMatchInTimeOrderWinsAndIsReported(t *testing.T) {
	tests := []struct {
		name     string
		comments []string
		times    []float64
		wantTime float64
		chosen   string
	}{
		{"shorter comment earlier", []string{"A1", "A10"}, []float64{1, 2}, 1, "A1"},
		{"longer comment earlier", []string{"A1", "A10"}, []float64{2, 1}, 1, "A10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, report, err := binding.Bind(tt.comments, tt.times, map[wave.Type][]string{wave.P: {"run_A10_P.trc"}})
			if err != nil {
				t.Fatalf("Bind: %v", err)
			}
			p := results[wave.P]
			if !slices.Equal(p.Times, []float64{tt.wantTime}) {
				t.Fatalf("times = %v, want [%v]", p.Times, tt.wantTime)
			}
			if len(report.Ambiguities) != 1 {
				t.Fatalf("expected one ambiguity, got %+v", report.Ambiguities)
			}
			amb := report.Ambiguities[0]
			if amb.Filename != "run_A10_P.trc" || amb.Chosen != tt.chosen || len(amb.Candidates) != 2 {
				t.Fatalf("unexpected ambiguity: %+v", amb)
			}
			if report.Warning() == nil {
				t.Fatal("expected an ambiguity warning")
			}
		})
	}
}

func TestBindKeepsCommentsDifferingOnlyInWhitespace(t *testing.T) {
	results, report, err := binding.Bind(
		[]string{"A ", "A"},
		[]float64{1, 2},
		map[wave.Type][]string{wave.P: {"A_P.trc", "A _P.trc"}},
	)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if len(report.Duplicates) != 0 {
		t.Fatalf("expected no duplicates, got %+v", report.Duplicates)
	}
	if report.Retained != 2 {
		t.Fatalf("retained = %d, want 2", report.Retained)
	}
	p := results[wave.P]
	if !slices.Equal(p.Filenames, []string{"A _P.trc", "A_P.trc"}) || !slices.Equal(p.Times, []float64{1, 2}) {
		t.Fatalf("unexpected result: %+v", p)
	}
}

func TestBindReportsSharedComment(t *testing.T) {
	results, report, err := binding.Bind(
		[]string{"s1"},
		[]float64{7},
		map[wave.Type][]string{wave.Sy: {"s1_b.trc", "s1_a.trc"}},
	)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if !slices.Equal(results[wave.Sy].Filenames, []string{"s1_a.trc", "s1_b.trc"}) {
		t.Fatalf("unexpected order: %v", results[wave.Sy].Filenames)
	}
	if len(report.Shared) != 1 || report.Warning() == nil {
		t.Fatalf("expected shared comment warning, got %+v", report)
	}
}

func TestBindMatchesAcrossUnicodeForms(t *testing.T) {
	results, _, err := binding.Bind(
		[]string{"Pe\u0301trole"},
		[]float64{1},
		map[wave.Type][]string{wave.P: {"P\u00e9trole_P.trc"}},
	)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if results[wave.P].Len() != 1 {
		t.Fatal("expected decomposed comment to match composed filename")
	}
}

func TestBindIsCaseSensitive(t *testing.T) {
	_, report, err := binding.Bind([]string{"core"}, []float64{1}, map[wave.Type][]string{wave.P: {"CORE_P.trc"}})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if len(report.Spurious[wave.P]) != 1 {
		t.Fatalf("expected case mismatch to be spurious")
	}
}

func TestBindEmptyCommentsYieldEmptyResults(t *testing.T) {
	results, report, err := binding.Bind([]string{"", "  "}, []float64{1, 2}, map[wave.Type][]string{wave.P: {"a_P.trc"}})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	for _, w := range wave.All() {
		if results[w].Len() != 0 {
			t.Fatalf("%s: expected empty result", w)
		}
	}
	if report.Warning() != nil {
		t.Fatalf("no warning expected: %v", report.Warning())
	}
}

func TestBindRejectsLengthMismatch(t *testing.T) {
	if _, _, err := binding.Bind([]string{"a"}, nil, nil); !errors.Is(err, binding.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestApplyRemovesSpuriousAndReindexes(t *testing.T) {
	store := waveform.NewStore()
	for _, name := range []string{"a_P.trc", "b_P.trc", "junk_P.trc"} {
		if err := store.Put(waveform.Record{Filename: name, Wave: wave.P}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	results, report, err := binding.Bind(
		[]string{"a", "b"},
		[]float64{9, 4},
		store.FilenamesByWave(),
	)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	removed, err := binding.Apply(store, results, report)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if got := store.Filenames(wave.P); !slices.Equal(got, []string{"b_P.trc", "a_P.trc"}) {
		t.Fatalf("store order = %v, want binding order", got)
	}
}

func TestApplyFailsWhenStoreDiverges(t *testing.T) {
	store := waveform.NewStore()
	if err := store.Put(waveform.Record{Filename: "a_P.trc", Wave: wave.P}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	results := map[wave.Type]binding.Result{wave.P: {Filenames: []string{"other_P.trc"}}}
	if _, err := binding.Apply(store, results, binding.Report{}); err == nil {
		t.Fatal("expected error when results name captures missing from the store")
	}
}
