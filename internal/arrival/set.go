package arrival

import (
	"encoding/json"
	"fmt"

	"tci/internal/binding"
	"tci/internal/experiment"
)

// AxisTrack selects the capture's local index as the y value.
const AxisTrack = "track"

// Set holds one arrival time per local index of a wave. Undefined entries
// are encoded as JSON null.
type Set []float64

// MarshalJSON implements json.Marshaler.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(experiment.Column(s))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Set) UnmarshalJSON(data []byte) error {
	var col experiment.Column
	if err := json.Unmarshal(data, &col); err != nil {
		return err
	}
	*s = Set(col)
	return nil
}

// Defined returns the number of entries that are not Undefined.
func (s Set) Defined() int {
	n := 0
	for _, v := range s {
		if !IsUndefined(v) {
			n++
		}
	}
	return n
}

// YValues returns the full y array of a bound wave: the local indices for
// AxisTrack, otherwise the named experimental parameter read at each
// capture's experiment row.
func YValues(axis string, result binding.Result, record *experiment.Record) ([]float64, error) {
	if axis == "" || axis == AxisTrack {
		ys := make([]float64, len(result.LocalIndices))
		for i, idx := range result.LocalIndices {
			ys[i] = float64(idx)
		}
		return ys, nil
	}
	if record == nil {
		return nil, fmt.Errorf("y axis %q: no experimental record loaded", axis)
	}
	ys, err := record.Sample(axis, result.ExperimentIndices)
	if err != nil {
		return nil, fmt.Errorf("y axis: %w", err)
	}
	return ys, nil
}
