package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"tci/internal/arrival"
	"tci/internal/binding"
	"tci/internal/fileutil"
	"tci/internal/wave"
	"tci/internal/window"
)

// ErrArrivalsNotPicked reports an export attempted before any arrival set
// was committed for the dataset.
var ErrArrivalsNotPicked = errors.New("arrival times have not been picked")

const timePrefix = "time_"

// Pair is one exported row of a wave: experiment time and arrival time.
type Pair struct {
	Time  float64
	Value float64
}

// Column is the exported series of one wave.
type Column struct {
	Wave  wave.Type
	Pairs []Pair
}

// ArrivalTable is the ordered set of exported columns.
type ArrivalTable struct {
	Columns []Column
}

// Rows returns the number of data rows the table writes.
func (t ArrivalTable) Rows() int {
	n := 0
	for _, c := range t.Columns {
		n = max(n, len(c.Pairs))
	}
	return n
}

// BuildArrivals assembles the table for every active wave that has an
// arrival set. When selections is non-nil only the selected positions of
// each wave are exported.
func BuildArrivals(
	results map[wave.Type]binding.Result,
	sets map[wave.Type]arrival.Set,
	active wave.Set,
	selections map[wave.Type]window.Selection,
) (ArrivalTable, error) {
	var table ArrivalTable
	for _, w := range active.Types() {
		set, ok := sets[w]
		if !ok {
			continue
		}
		result := results[w]
		if len(set) != result.Len() {
			return ArrivalTable{}, fmt.Errorf("export %s: %d arrivals for %d bound captures", w, len(set), result.Len())
		}
		positions := allPositions(result.Len())
		if selections != nil {
			positions = selections[w].Positions
		}
		col := Column{Wave: w, Pairs: make([]Pair, 0, len(positions))}
		for _, pos := range positions {
			if pos < 0 || pos >= len(set) {
				return ArrivalTable{}, fmt.Errorf("export %s: position %d out of range", w, pos)
			}
			col.Pairs = append(col.Pairs, Pair{Time: result.Times[pos], Value: set[pos]})
		}
		table.Columns = append(table.Columns, col)
	}
	return table, nil
}

// WriteArrivals writes the table as CSV with a header row.
func WriteArrivals(w io.Writer, table ArrivalTable) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, 2*len(table.Columns))
	for _, c := range table.Columns {
		header = append(header, timePrefix+string(c.Wave), string(c.Wave))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write arrivals header: %w", err)
	}
	rows := table.Rows()
	for i := range rows {
		record := make([]string, 0, len(header))
		for _, c := range table.Columns {
			if i >= len(c.Pairs) {
				record = append(record, "", "")
				continue
			}
			record = append(record, formatFloat(c.Pairs[i].Time), formatFloat(c.Pairs[i].Value))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write arrivals row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteArrivalsFile writes the table to path atomically.
func WriteArrivalsFile(path string, table ArrivalTable) error {
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		return WriteArrivals(w, table)
	})
}

// ReadArrivals parses a table written by WriteArrivals. Rows where both
// cells of a wave are empty are padding and are skipped; an empty arrival
// cell next to a time reads back as arrival.Undefined.
func ReadArrivals(r io.Reader) (map[wave.Type][]Pair, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read arrivals header: %w", err)
	}
	if len(header)%2 != 0 {
		return nil, fmt.Errorf("read arrivals header: odd column count %d", len(header))
	}
	waves := make([]wave.Type, len(header)/2)
	for i := range waves {
		timeCol, valueCol := header[2*i], header[2*i+1]
		w, err := wave.Parse(valueCol)
		if err != nil {
			return nil, fmt.Errorf("read arrivals header: %w", err)
		}
		if timeCol != timePrefix+valueCol {
			return nil, fmt.Errorf("read arrivals header: expected %q before %q, got %q", timePrefix+valueCol, valueCol, timeCol)
		}
		waves[i] = w
	}

	out := make(map[wave.Type][]Pair, len(waves))
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read arrivals: %w", err)
		}
		line++
		for i, w := range waves {
			timeCell := strings.TrimSpace(record[2*i])
			valueCell := strings.TrimSpace(record[2*i+1])
			if timeCell == "" && valueCell == "" {
				continue
			}
			t, err := parseFloat(timeCell)
			if err != nil {
				return nil, fmt.Errorf("read arrivals line %d column %s: %w", line, header[2*i], err)
			}
			v, err := parseFloat(valueCell)
			if err != nil {
				return nil, fmt.Errorf("read arrivals line %d column %s: %w", line, header[2*i+1], err)
			}
			out[w] = append(out[w], Pair{Time: t, Value: v})
		}
	}
	return out, nil
}

func allPositions(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(cell string) (float64, error) {
	if cell == "" {
		return arrival.Undefined, nil
	}
	return strconv.ParseFloat(cell, 64)
}
