package experiment

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrUnknownParam reports a parameter name with no matching column.
var ErrUnknownParam = errors.New("unknown parameter")

// Column is one numeric parameter series. NaN marks a missing value and is
// encoded as JSON null.
type Column []float64

// MarshalJSON implements json.Marshaler.
func (c Column) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	out := make([]*float64, len(c))
	for i, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = &c[i]
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Column) UnmarshalJSON(data []byte) error {
	var in []*float64
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in == nil {
		*c = nil
		return nil
	}
	out := make(Column, len(in))
	for i, v := range in {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*c = out
	return nil
}

// Record is an experimental time series: one comment per row plus named
// parameter columns of the same length.
type Record struct {
	Comments  []string          `json:"comments"`
	Columns   map[string]Column `json:"columns"`
	Order     []string          `json:"order"`
	TimeParam string            `json:"time_param"`
}

// New validates and assembles a Record. order lists the column names in
// header order; every column must have as many rows as comments.
func New(comments []string, columns map[string]Column, order []string, timeParam string) (*Record, error) {
	if len(order) != len(columns) {
		return nil, fmt.Errorf("experiment: order names %d columns, have %d", len(order), len(columns))
	}
	for _, name := range order {
		col, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("experiment: order names missing column %q", name)
		}
		if len(col) != len(comments) {
			return nil, fmt.Errorf("experiment: column %q has %d rows, comments have %d", name, len(col), len(comments))
		}
	}
	if _, ok := columns[timeParam]; !ok {
		return nil, fmt.Errorf("experiment: time parameter %q: %w", timeParam, ErrUnknownParam)
	}
	return &Record{
		Comments:  comments,
		Columns:   columns,
		Order:     slices.Clone(order),
		TimeParam: timeParam,
	}, nil
}

// Len returns the number of rows.
func (r *Record) Len() int {
	return len(r.Comments)
}

// Params returns the parameter names in header order.
func (r *Record) Params() []string {
	return slices.Clone(r.Order)
}

// Param returns the named column.
func (r *Record) Param(name string) ([]float64, error) {
	col, ok := r.Columns[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownParam)
	}
	return col, nil
}

// Times returns the time parameter column.
func (r *Record) Times() []float64 {
	return r.Columns[r.TimeParam]
}

// Sample returns the named column read at the given row indices.
func (r *Record) Sample(name string, rows []int) ([]float64, error) {
	col, err := r.Param(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(rows))
	for i, row := range rows {
		if row < 0 || row >= len(col) {
			return nil, fmt.Errorf("sample %q: row %d out of range [0,%d)", name, row, len(col))
		}
		out[i] = col[row]
	}
	return out, nil
}
