package waveform

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// WAVEDESC field offsets, relative to the start of the "WAVEDESC" marker.
const (
	wavedescMarker = "WAVEDESC"
	wavedescLength = 346

	offCommType       = 32
	offCommOrder      = 34
	offWaveDescriptor = 36
	offUserText       = 40
	offResDesc1       = 44
	offTrigTimeArray  = 48
	offRISTimeArray   = 52
	offResArray1      = 56
	offWaveArray1     = 60
	offInstrumentName = 76
	offTraceLabel     = 96
	offVerticalGain   = 156
	offVerticalOffset = 160
	offHorizInterval  = 176
	offHorizOffset    = 180
	offTriggerTime    = 296
)

var (
	// ErrNotTRC indicates the data does not contain a WAVEDESC block.
	ErrNotTRC = errors.New("trc: WAVEDESC block not found")
	// ErrMalformedTRC indicates inconsistent descriptor fields or truncated data.
	ErrMalformedTRC = errors.New("trc: malformed trace")
)

// ReadTRCFile reads a LeCroy trace file from disk.
func ReadTRCFile(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read trace: %w", err)
	}
	rec, err := ParseTRC(data)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	rec.Filename = filepath.Base(path)
	return rec, nil
}

// ParseTRC decodes a LeCroy trace held in memory. Only the first data array
// is read; samples are scaled to physical units with the vertical gain and
// offset of the descriptor.
func ParseTRC(data []byte) (Record, error) {
	start := bytes.Index(data, []byte(wavedescMarker))
	if start < 0 {
		return Record{}, ErrNotTRC
	}
	desc := data[start:]
	if len(desc) < wavedescLength {
		return Record{}, fmt.Errorf("%w: descriptor truncated at %d bytes", ErrMalformedTRC, len(desc))
	}

	// COMM_ORDER is 0 for big endian, 1 for little endian. Reading it
	// little endian yields 1 only for little endian files.
	var order binary.ByteOrder = binary.BigEndian
	if binary.LittleEndian.Uint16(desc[offCommOrder:]) == 1 {
		order = binary.LittleEndian
	}

	i32 := func(off int) int { return int(int32(order.Uint32(desc[off:]))) }
	f32 := func(off int) float64 { return float64(math.Float32frombits(order.Uint32(desc[off:]))) }

	sampleWidth := 1
	if order.Uint16(desc[offCommType:]) == 1 {
		sampleWidth = 2
	}

	blocks := []int{
		i32(offWaveDescriptor),
		i32(offUserText),
		i32(offResDesc1),
		i32(offTrigTimeArray),
		i32(offRISTimeArray),
		i32(offResArray1),
	}
	dataOffset := 0
	for _, size := range blocks {
		if size < 0 {
			return Record{}, fmt.Errorf("%w: negative block length %d", ErrMalformedTRC, size)
		}
		dataOffset += size
	}
	arrayBytes := i32(offWaveArray1)
	if arrayBytes < 0 || arrayBytes%sampleWidth != 0 {
		return Record{}, fmt.Errorf("%w: wave array length %d", ErrMalformedTRC, arrayBytes)
	}
	if dataOffset+arrayBytes > len(desc) {
		return Record{}, fmt.Errorf("%w: wave array exceeds file (%d > %d)", ErrMalformedTRC, dataOffset+arrayBytes, len(desc))
	}

	gain := f32(offVerticalGain)
	offset := f32(offVerticalOffset)
	interval := f32(offHorizInterval)
	horizOffset := math.Float64frombits(order.Uint64(desc[offHorizOffset:]))
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"vertical gain", gain},
		{"vertical offset", offset},
		{"horizontal interval", interval},
		{"horizontal offset", horizOffset},
	} {
		if math.IsNaN(field.value) || math.IsInf(field.value, 0) {
			return Record{}, fmt.Errorf("%w: %s is %v", ErrMalformedTRC, field.name, field.value)
		}
	}
	trigger, err := parseTriggerTime(desc[offTriggerTime:offTriggerTime+16], order)
	if err != nil {
		return Record{}, err
	}
	raw := desc[dataOffset : dataOffset+arrayBytes]
	samples := make([]float64, arrayBytes/sampleWidth)
	for i := range samples {
		var v float64
		if sampleWidth == 2 {
			v = float64(int16(order.Uint16(raw[2*i:])))
		} else {
			v = float64(int8(raw[i]))
		}
		samples[i] = gain*v - offset
	}

	return Record{
		Instrument:     cString(desc[offInstrumentName : offInstrumentName+16]),
		TraceLabel:     cString(desc[offTraceLabel : offTraceLabel+16]),
		SampleInterval: interval,
		HorizOffset:    horizOffset,
		VerticalGain:   gain,
		VerticalOffset: offset,
		TriggerTime:    trigger,
		Samples:        samples,
	}, nil
}

// parseTriggerTime decodes the 16 byte time_stamp: float64 seconds, then
// minutes, hours, day, month as bytes and an int16 year. A year of zero or
// less means no trigger time; years past 9999 or seconds outside [0, 60] are
// rejected.
func parseTriggerTime(b []byte, order binary.ByteOrder) (time.Time, error) {
	year := int(int16(order.Uint16(b[12:])))
	if year <= 0 {
		return time.Time{}, nil
	}
	if year > 9999 {
		return time.Time{}, fmt.Errorf("%w: trigger year %d", ErrMalformedTRC, year)
	}
	seconds := math.Float64frombits(order.Uint64(b[0:]))
	if !(seconds >= 0 && seconds <= 60) {
		return time.Time{}, fmt.Errorf("%w: trigger seconds %v", ErrMalformedTRC, seconds)
	}
	whole, frac := math.Modf(seconds)
	ts := time.Date(year, time.Month(b[11]), int(b[10]), int(b[9]), int(b[8]), int(whole), int(frac*1e9), time.UTC)
	if ts.Year() > 9999 {
		return time.Time{}, fmt.Errorf("%w: trigger time %v out of range", ErrMalformedTRC, ts)
	}
	return ts, nil
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(bytes.TrimSpace(b))
}
