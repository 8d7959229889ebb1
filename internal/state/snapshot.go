package state

import (
	"fmt"
	"time"

	"tci/internal/arrival"
	"tci/internal/binding"
	"tci/internal/experiment"
	"tci/internal/wave"
	"tci/internal/waveform"
	"tci/internal/window"
)

// Snapshot is the complete interpretation state of one dataset.
type Snapshot struct {
	Dataset        string
	BindingID      string
	ArrivalsPicked bool
	YAxis          string
	Experiment     *experiment.Record
	Results        map[wave.Type]binding.Result
	Report         *binding.Report
	Arrivals       map[wave.Type]arrival.Set
	Shapes         map[wave.Type][]arrival.Point
	Window         *window.Interval
	Waveforms      []waveform.Record
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Summary is the listing view of a snapshot.
type Summary struct {
	Dataset        string
	BindingID      string
	ArrivalsPicked bool
	Waveforms      int
	UpdatedAt      time.Time
}

// Bound reports whether the snapshot carries binding results.
func (s *Snapshot) Bound() bool {
	return s != nil && s.BindingID != "" && s.Results != nil
}

// CaptureStore rebuilds a waveform store from the saved captures, in saved
// table order.
func (s *Snapshot) CaptureStore() (*waveform.Store, error) {
	store := waveform.NewStore()
	for _, rec := range s.Waveforms {
		if err := store.Put(rec); err != nil {
			return nil, fmt.Errorf("restore captures: %w", err)
		}
	}
	return store, nil
}

// CapturesFrom flattens a store into the snapshot's capture list.
func CapturesFrom(store *waveform.Store) []waveform.Record {
	if store == nil {
		return nil
	}
	var out []waveform.Record
	for _, w := range wave.All() {
		out = append(out, store.Records(w)...)
	}
	return out
}
