package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"tci/internal/session"
	"tci/internal/wave"
	"tci/internal/window"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Binding", statusWarn, "not bound", false)
	want := statusIndent + fmt.Sprintf("%-*s", statusLabelWidth, "Binding:") + " [WARN] not bound"
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Arrivals", statusOK, "P=3", true)
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestDatasetStatusLines(t *testing.T) {
	resp := session.StatusResponse{
		Dataset:        "core",
		BindingID:      "b-1",
		ExperimentRows: 12,
		Captures:       map[wave.Type]int{wave.P: 4},
		Bound:          map[wave.Type]int{wave.P: 3},
		Arrivals:       map[wave.Type]int{wave.P: 2},
		ArrivalsPicked: true,
		Window:         &window.Interval{Min: 1, Max: 2},
		Shapes:         map[wave.Type]int{wave.Sx: 2},
		YAxis:          "track",
	}
	lines := strings.Join(datasetStatusLines(resp, false), "\n")
	for _, want := range []string{
		"[OK] core",
		"P=4 Sx=0 Sy=0",
		"[OK] 12 rows",
		"b-1 P=3",
		"[1, 2]",
		"Sx=2 pts (uncommitted)",
		"P=2 Sx=0 Sy=0 on track",
	} {
		if !strings.Contains(lines, want) {
			t.Errorf("status lines missing %q:\n%s", want, lines)
		}
	}
}

func TestShouldColorizeNonTTY(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffer should not be colorized")
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "only") || strings.Count(out, "\n") < 4 {
		t.Fatalf("unexpected table:\n%s", out)
	}
}

func TestRenderTableUppercasesHeaders(t *testing.T) {
	out := renderTable([]string{"Wave", "Point"}, [][]string{{"P", "1"}}, nil)
	if !strings.Contains(out, "POINT") || strings.Contains(out, "Point") {
		t.Fatalf("expected upper-case headers:\n%s", out)
	}
}
