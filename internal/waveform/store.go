package waveform

import (
	"fmt"
	"slices"

	"tci/internal/wave"
)

// Store holds loaded captures grouped by wave family. Each family keeps its
// rows in table order; Reindex rewrites that order after binding.
type Store struct {
	records map[wave.Type]map[string]Record
	order   map[wave.Type][]string
}

// Table is the row view of one wave family: row k is Filenames[k].
type Table struct {
	Wave       wave.Type
	Filenames  []string
	Times      [][]float64
	Amplitudes [][]float64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[wave.Type]map[string]Record),
		order:   make(map[wave.Type][]string),
	}
}

// Put adds or replaces a record. New filenames are appended to the table.
func (s *Store) Put(rec Record) error {
	if !rec.Wave.Valid() {
		return fmt.Errorf("put %s: invalid wave type %q", rec.Filename, rec.Wave)
	}
	if rec.Filename == "" {
		return fmt.Errorf("put: empty filename")
	}
	byName := s.records[rec.Wave]
	if byName == nil {
		byName = make(map[string]Record)
		s.records[rec.Wave] = byName
	}
	if _, exists := byName[rec.Filename]; !exists {
		s.order[rec.Wave] = append(s.order[rec.Wave], rec.Filename)
	}
	byName[rec.Filename] = rec
	return nil
}

// Get returns the record for filename in wave family w.
func (s *Store) Get(w wave.Type, filename string) (Record, bool) {
	rec, ok := s.records[w][filename]
	return rec, ok
}

// Filenames returns the filenames of w in table order.
func (s *Store) Filenames(w wave.Type) []string {
	return slices.Clone(s.order[w])
}

// FilenamesByWave returns the table order of every non-empty family.
func (s *Store) FilenamesByWave() map[wave.Type][]string {
	out := make(map[wave.Type][]string, len(s.order))
	for _, w := range wave.All() {
		if names := s.order[w]; len(names) > 0 {
			out[w] = slices.Clone(names)
		}
	}
	return out
}

// Records returns the records of w in table order.
func (s *Store) Records(w wave.Type) []Record {
	names := s.order[w]
	out := make([]Record, 0, len(names))
	for _, name := range names {
		out = append(out, s.records[w][name])
	}
	return out
}

// Len returns the number of records held for w.
func (s *Store) Len(w wave.Type) int {
	return len(s.order[w])
}

// Total returns the number of records across every family.
func (s *Store) Total() int {
	n := 0
	for _, names := range s.order {
		n += len(names)
	}
	return n
}

// Remove drops the named records from w and reports how many existed.
// The remaining rows keep their relative order.
func (s *Store) Remove(w wave.Type, filenames ...string) int {
	byName := s.records[w]
	removed := 0
	for _, name := range filenames {
		if _, ok := byName[name]; ok {
			delete(byName, name)
			removed++
		}
	}
	if removed > 0 {
		s.order[w] = slices.DeleteFunc(s.order[w], func(name string) bool {
			_, ok := byName[name]
			return !ok
		})
	}
	return removed
}

// Reindex rewrites the table order of w. order must name every stored record
// of w exactly once.
func (s *Store) Reindex(w wave.Type, order []string) error {
	byName := s.records[w]
	if len(order) != len(byName) {
		return fmt.Errorf("reindex %s: order has %d entries, store holds %d", w, len(order), len(byName))
	}
	seen := make(map[string]struct{}, len(order))
	for _, name := range order {
		if _, ok := byName[name]; !ok {
			return fmt.Errorf("reindex %s: unknown filename %q", w, name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("reindex %s: filename %q listed twice", w, name)
		}
		seen[name] = struct{}{}
	}
	s.order[w] = slices.Clone(order)
	return nil
}

// Table builds the row view of w.
func (s *Store) Table(w wave.Type) Table {
	records := s.Records(w)
	t := Table{
		Wave:       w,
		Filenames:  make([]string, len(records)),
		Times:      make([][]float64, len(records)),
		Amplitudes: make([][]float64, len(records)),
	}
	for i, rec := range records {
		t.Filenames[i] = rec.Filename
		t.Times[i] = rec.Times()
		t.Amplitudes[i] = rec.Samples
	}
	return t
}

// Reset empties the store.
func (s *Store) Reset() {
	clear(s.records)
	clear(s.order)
}
