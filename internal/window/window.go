// Package window narrows bound captures to a time interval.
package window

import (
	"math"

	"tci/internal/binding"
	"tci/internal/wave"
)

// Interval is a closed time range [Min, Max] in experiment time units.
type Interval struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Empty reports whether no time can satisfy the interval.
func (iv Interval) Empty() bool {
	return math.IsNaN(iv.Min) || math.IsNaN(iv.Max) || iv.Min > iv.Max
}

// Contains reports whether t lies in the interval, bounds included.
func (iv Interval) Contains(t float64) bool {
	return iv.Min <= t && t <= iv.Max
}

// Selection is the part of a binding result inside an interval. Positions
// index the result's parallel slices; LocalIndices and ExperimentIndices are
// the values found there.
type Selection struct {
	Positions         []int `json:"positions"`
	LocalIndices      []int `json:"local_indices"`
	ExperimentIndices []int `json:"experiment_indices"`
}

// Len returns the number of selected captures.
func (s Selection) Len() int {
	return len(s.Positions)
}

// Select keeps, for every active wave, the bound captures whose time lies in
// iv. Inactive waves are omitted. An empty interval selects nothing.
func Select(results map[wave.Type]binding.Result, iv Interval, active wave.Set) map[wave.Type]Selection {
	out := make(map[wave.Type]Selection, active.Len())
	for _, w := range active.Types() {
		sel := Selection{
			Positions:         []int{},
			LocalIndices:      []int{},
			ExperimentIndices: []int{},
		}
		if !iv.Empty() {
			r := results[w]
			for i, t := range r.Times {
				if !iv.Contains(t) {
					continue
				}
				sel.Positions = append(sel.Positions, i)
				sel.LocalIndices = append(sel.LocalIndices, r.LocalIndices[i])
				sel.ExperimentIndices = append(sel.ExperimentIndices, r.ExperimentIndices[i])
			}
		}
		out[w] = sel
	}
	return out
}

// Bounds returns the smallest interval covering every bound time, and false
// when no wave has any.
func Bounds(results map[wave.Type]binding.Result) (Interval, bool) {
	hasAny := false
	var iv Interval
	for _, w := range wave.All() {
		for _, t := range results[w].Times {
			if !hasAny {
				iv = Interval{Min: t, Max: t}
				hasAny = true
				continue
			}
			iv.Min = math.Min(iv.Min, t)
			iv.Max = math.Max(iv.Max, t)
		}
	}
	return iv, hasAny
}
