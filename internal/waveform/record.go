package waveform

import (
	"time"

	"tci/internal/wave"
)

// Record is one captured waveform.
type Record struct {
	Filename       string    `json:"filename"`
	Wave           wave.Type `json:"wave"`
	Instrument     string    `json:"instrument,omitempty"`
	TraceLabel     string    `json:"trace_label,omitempty"`
	SampleInterval float64   `json:"sample_interval"`
	HorizOffset    float64   `json:"horiz_offset"`
	VerticalGain   float64   `json:"vertical_gain"`
	VerticalOffset float64   `json:"vertical_offset"`
	TriggerTime    time.Time `json:"trigger_time,omitzero"`
	Samples        []float64 `json:"samples"`
}

// Len returns the number of samples.
func (r Record) Len() int {
	return len(r.Samples)
}

// Times returns the time of each sample: HorizOffset + i*SampleInterval.
func (r Record) Times() []float64 {
	out := make([]float64, len(r.Samples))
	for i := range out {
		out[i] = r.HorizOffset + float64(i)*r.SampleInterval
	}
	return out
}

// Duration returns the covered time span.
func (r Record) Duration() float64 {
	if len(r.Samples) < 2 {
		return 0
	}
	return float64(len(r.Samples)-1) * r.SampleInterval
}
