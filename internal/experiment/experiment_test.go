package experiment_test

import (
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"tci/internal/experiment"
	"tci/internal/testsupport"
)

const sample = "Time,Comments,Sigma1\n" +
	"1.0,A,10\n" +
	"2.0,B,\n" +
	"3.0,,30\n" +
	"4.0,A,40\n"

func TestReadParsesColumnsAndBlanks(t *testing.T) {
	rec, err := experiment.Read(strings.NewReader(sample), experiment.ReadOptions{CommentColumn: "Comments", TimeParam: "Time"})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rec.Len() != 4 {
		t.Fatalf("Len = %d", rec.Len())
	}
	if !slices.Equal(rec.Comments, []string{"A", "B", "", "A"}) {
		t.Fatalf("comments = %q", rec.Comments)
	}
	if !slices.Equal(rec.Times(), []float64{1, 2, 3, 4}) {
		t.Fatalf("times = %v", rec.Times())
	}
	if !slices.Equal(rec.Params(), []string{"Time", "Sigma1"}) {
		t.Fatalf("params = %v", rec.Params())
	}
	sigma, err := rec.Param("Sigma1")
	if err != nil {
		t.Fatalf("Param: %v", err)
	}
	if !math.IsNaN(sigma[1]) || sigma[3] != 40 {
		t.Fatalf("sigma = %v", sigma)
	}
	if _, err := rec.Param("Sigma3"); !errors.Is(err, experiment.ErrUnknownParam) {
		t.Fatalf("expected ErrUnknownParam, got %v", err)
	}

	got, err := rec.Sample("Sigma1", []int{3, 0})
	if err != nil || !slices.Equal(got, []float64{40, 10}) {
		t.Fatalf("Sample = %v, %v", got, err)
	}
	if _, err := rec.Sample("Sigma1", []int{4}); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		opts experiment.ReadOptions
		want string
	}{
		{"empty", "", experiment.ReadOptions{CommentColumn: "Comments", TimeParam: "Time"}, "no header"},
		{"missing comment column", "Time,Note\n1,a\n", experiment.ReadOptions{CommentColumn: "Comments", TimeParam: "Time"}, "comment column"},
		{"missing time column", "Elapsed,Comments\n1,a\n", experiment.ReadOptions{CommentColumn: "Comments", TimeParam: "Time"}, "unknown parameter"},
		{"non numeric", "Time,Comments\nsoon,a\n", experiment.ReadOptions{CommentColumn: "Comments", TimeParam: "Time"}, "line 2"},
		{"duplicate header", "Time,Time,Comments\n", experiment.ReadOptions{CommentColumn: "Comments", TimeParam: "Time"}, "duplicate column"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := experiment.Read(strings.NewReader(tt.body), tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestReadFileWithSemicolons(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.csv")
	testsupport.WriteText(t, path, "Time;Comments\n0.5;core_1\n1.5;core_2\n")

	rec, err := experiment.ReadFile(path, experiment.ReadOptions{
		CommentColumn: "Comments",
		TimeParam:     "Time",
		Delimiter:     experiment.DelimiterRune(";"),
	})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !slices.Equal(rec.Comments, []string{"core_1", "core_2"}) || rec.Times()[1] != 1.5 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := experiment.New([]string{"a", "b"}, map[string]experiment.Column{"Time": {1}}, []string{"Time"}, "Time")
	if err == nil {
		t.Fatal("expected error for column shorter than comments")
	}
}

func TestColumnJSONEncodesNaNAsNull(t *testing.T) {
	data, err := json.Marshal(experiment.Column{1, math.NaN(), 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "[1,null,3]" {
		t.Fatalf("encoded = %s", data)
	}
	var back experiment.Column
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(back) != 3 || back[0] != 1 || !math.IsNaN(back[1]) || back[2] != 3 {
		t.Fatalf("decoded = %v", back)
	}
}

func TestDelimiterRuneDefaultsToComma(t *testing.T) {
	if experiment.DelimiterRune("") != ',' || experiment.DelimiterRune("\t") != '\t' {
		t.Fatal("unexpected delimiter conversion")
	}
}
