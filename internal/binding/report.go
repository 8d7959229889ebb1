package binding

import (
	"fmt"
	"strings"

	"tci/internal/wave"
)

// Duplicate describes a comment that occurred on several rows. Only the row
// in Kept takes part in binding.
type Duplicate struct {
	Comment string `json:"comment"`
	Rows    []int  `json:"rows"`
	Kept    int    `json:"kept"`
}

// Ambiguity describes a filename that contains more than one comment.
type Ambiguity struct {
	Wave       wave.Type `json:"wave"`
	Filename   string    `json:"filename"`
	Candidates []string  `json:"candidates"`
	Chosen     string    `json:"chosen"`
}

// Shared describes a comment bound to more than one capture of a wave.
type Shared struct {
	Wave      wave.Type `json:"wave"`
	Comment   string    `json:"comment"`
	Filenames []string  `json:"filenames"`
}

// Report collects the diagnostics of one Bind call.
type Report struct {
	// Retained counts the comments left after blank removal and deduplication.
	Retained int `json:"retained"`
	// Blank counts rows with an empty comment.
	Blank int `json:"blank"`
	// Untimed counts rows with a comment but no time value.
	Untimed     int                    `json:"untimed"`
	Duplicates  []Duplicate            `json:"duplicates,omitempty"`
	Ambiguities []Ambiguity            `json:"ambiguities,omitempty"`
	Shared      []Shared               `json:"shared,omitempty"`
	Spurious    map[wave.Type][]string `json:"spurious,omitempty"`
}

// SpuriousCount returns the number of unmatched captures over all waves.
func (r Report) SpuriousCount() int {
	n := 0
	for _, names := range r.Spurious {
		n += len(names)
	}
	return n
}

// Warning returns the ambiguity warning for this report, or nil when the
// alignment was unambiguous.
func (r Report) Warning() *AmbiguityWarning {
	if len(r.Duplicates) == 0 && len(r.Ambiguities) == 0 && len(r.Shared) == 0 {
		return nil
	}
	return &AmbiguityWarning{
		Duplicates:  r.Duplicates,
		Ambiguities: r.Ambiguities,
		Shared:      r.Shared,
	}
}

// AmbiguityWarning is a non-fatal condition: binding completed, but some
// pairs were chosen by policy rather than by a unique match.
type AmbiguityWarning struct {
	Duplicates  []Duplicate
	Ambiguities []Ambiguity
	Shared      []Shared
}

func (w *AmbiguityWarning) Error() string {
	var parts []string
	if n := len(w.Duplicates); n > 0 {
		parts = append(parts, fmt.Sprintf("%d repeated comment(s), last occurrence kept", n))
	}
	if n := len(w.Ambiguities); n > 0 {
		parts = append(parts, fmt.Sprintf("%d filename(s) matching several comments", n))
	}
	if n := len(w.Shared); n > 0 {
		parts = append(parts, fmt.Sprintf("%d comment(s) bound to several captures", n))
	}
	return "binding ambiguous: " + strings.Join(parts, "; ")
}
