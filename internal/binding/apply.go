package binding

import (
	"fmt"
	"slices"

	"tci/internal/wave"
	"tci/internal/waveform"
)

// Apply brings store in line with a Bind outcome: spurious captures are
// removed and each wave's table is reordered to the binding order. It
// returns the number of removed captures.
func Apply(store *waveform.Store, results map[wave.Type]Result, report Report) (int, error) {
	removed := 0
	for _, w := range wave.All() {
		removed += store.Remove(w, report.Spurious[w]...)
	}
	for _, w := range wave.All() {
		order := results[w].Filenames
		if slices.Equal(store.Filenames(w), order) {
			continue
		}
		if err := store.Reindex(w, order); err != nil {
			return removed, fmt.Errorf("apply binding: %w", err)
		}
	}
	return removed, nil
}
