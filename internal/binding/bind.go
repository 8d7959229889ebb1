package binding

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"tci/internal/textutil"
	"tci/internal/wave"
)

// ErrLengthMismatch reports comments and times of different lengths.
var ErrLengthMismatch = errors.New("comments and times differ in length")

// Result is the alignment of one wave family. The four slices are parallel:
// position i binds Filenames[i] to the experiment row ExperimentIndices[i]
// recorded at Times[i]. LocalIndices is always 0..Len()-1.
type Result struct {
	Times             []float64 `json:"times"`
	LocalIndices      []int     `json:"local_indices"`
	ExperimentIndices []int     `json:"experiment_indices"`
	Filenames         []string  `json:"filenames"`
}

// Len returns the number of bound captures.
func (r Result) Len() int {
	return len(r.Times)
}

// entry is one retained comment.
type entry struct {
	key  string
	time float64
	row  int
}

// Bind aligns capture filenames to the experimental record. comments and
// times are the full, unfiltered series; filenames lists the captures held
// per wave family.
//
// Matching is case-sensitive substring containment on NFC-normalized text.
// A filename containing several comments binds to the first of them in time
// order and is listed in Report.Ambiguities. Each wave's result is ordered
// by time and then filename. Every wave in wave.All() gets a result, empty
// when nothing matched.
func Bind(comments []string, times []float64, filenames map[wave.Type][]string) (map[wave.Type]Result, Report, error) {
	var report Report
	if len(comments) != len(times) {
		return nil, report, fmt.Errorf("bind: %w (%d comments, %d times)", ErrLengthMismatch, len(comments), len(times))
	}

	retained := retain(comments, times, &report)
	report.Retained = len(retained)

	results := make(map[wave.Type]Result, len(wave.All()))
	for _, w := range wave.All() {
		result, spurious := match(w, retained, filenames[w], &report)
		results[w] = result
		if len(spurious) > 0 {
			if report.Spurious == nil {
				report.Spurious = make(map[wave.Type][]string)
			}
			report.Spurious[w] = spurious
		}
	}
	return results, report, nil
}

// retain filters blank and untimed rows, keeps the last occurrence of each
// comment and sorts the survivors by time. Equal times keep row order.
func retain(comments []string, times []float64, report *Report) []entry {
	var filtered []entry
	for row, comment := range comments {
		if textutil.IsBlank(comment) {
			report.Blank++
			continue
		}
		if math.IsNaN(times[row]) {
			report.Untimed++
			continue
		}
		filtered = append(filtered, entry{key: textutil.JoinKey(comment), time: times[row], row: row})
	}

	rows := make(map[string][]int, len(filtered))
	var firstSeen []string
	for _, e := range filtered {
		if _, ok := rows[e.key]; !ok {
			firstSeen = append(firstSeen, e.key)
		}
		rows[e.key] = append(rows[e.key], e.row)
	}
	last := make(map[string]int, len(rows))
	for _, key := range firstSeen {
		r := rows[key]
		last[key] = r[len(r)-1]
		if len(r) > 1 {
			report.Duplicates = append(report.Duplicates, Duplicate{Comment: key, Rows: r, Kept: r[len(r)-1]})
		}
	}

	deduped := make([]entry, 0, len(last))
	for _, e := range filtered {
		if last[e.key] == e.row {
			deduped = append(deduped, e)
		}
	}
	slices.SortStableFunc(deduped, func(a, b entry) int {
		return cmp.Compare(a.time, b.time)
	})
	return deduped
}

type bound struct {
	filename string
	entry    entry
}

func match(w wave.Type, retained []entry, names []string, report *Report) (Result, []string) {
	sorted := slices.Clone(names)
	slices.Sort(sorted)

	var pairs []bound
	var spurious []string
	byComment := make(map[string][]string)
	for _, name := range sorted {
		key := textutil.JoinKey(name)
		best := -1
		var candidates []string
		for i, e := range retained {
			if !strings.Contains(key, e.key) {
				continue
			}
			candidates = append(candidates, e.key)
			if best < 0 {
				best = i
			}
		}
		if best < 0 {
			spurious = append(spurious, name)
			continue
		}
		chosen := retained[best]
		if len(candidates) > 1 {
			report.Ambiguities = append(report.Ambiguities, Ambiguity{
				Wave:       w,
				Filename:   name,
				Candidates: candidates,
				Chosen:     chosen.key,
			})
		}
		byComment[chosen.key] = append(byComment[chosen.key], name)
		pairs = append(pairs, bound{filename: name, entry: chosen})
	}

	for _, e := range retained {
		if files := byComment[e.key]; len(files) > 1 {
			report.Shared = append(report.Shared, Shared{Wave: w, Comment: e.key, Filenames: files})
		}
	}

	slices.SortStableFunc(pairs, func(a, b bound) int {
		if c := cmp.Compare(a.entry.time, b.entry.time); c != 0 {
			return c
		}
		return strings.Compare(a.filename, b.filename)
	})

	result := Result{
		Times:             make([]float64, len(pairs)),
		LocalIndices:      make([]int, len(pairs)),
		ExperimentIndices: make([]int, len(pairs)),
		Filenames:         make([]string, len(pairs)),
	}
	for i, p := range pairs {
		result.Times[i] = p.entry.time
		result.LocalIndices[i] = i
		result.ExperimentIndices[i] = p.entry.row
		result.Filenames[i] = p.filename
	}
	return result, spurious
}
