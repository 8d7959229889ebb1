package testsupport

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"
	"time"
)

// TRC describes a synthetic LeCroy trace. Raw holds the integer samples;
// Word selects 16-bit storage, otherwise samples are stored as int8.
type TRC struct {
	Prefix       string
	Instrument   string
	TraceLabel   string
	Raw          []int16
	Word         bool
	LittleEndian bool
	Gain         float32
	Offset       float32
	Interval     float32
	HorizOffset  float64
	Trigger      time.Time
	UserText     []byte
}

// EncodeTRC renders t as a trace file with a 346 byte WAVEDESC block.
func EncodeTRC(t TRC) []byte {
	var order binary.ByteOrder = binary.BigEndian
	if t.LittleEndian {
		order = binary.LittleEndian
	}
	width := 1
	if t.Word {
		width = 2
	}

	desc := make([]byte, 346)
	copy(desc, "WAVEDESC")
	copy(desc[16:], "LECROY_2_3")
	if t.Word {
		order.PutUint16(desc[32:], 1)
	}
	if t.LittleEndian {
		binary.LittleEndian.PutUint16(desc[34:], 1)
	}
	order.PutUint32(desc[36:], 346)
	order.PutUint32(desc[40:], uint32(len(t.UserText)))
	order.PutUint32(desc[60:], uint32(len(t.Raw)*width))
	copy(desc[76:92], t.Instrument)
	copy(desc[96:112], t.TraceLabel)
	order.PutUint32(desc[116:], uint32(len(t.Raw)))
	order.PutUint32(desc[156:], math.Float32bits(t.Gain))
	order.PutUint32(desc[160:], math.Float32bits(t.Offset))
	order.PutUint32(desc[176:], math.Float32bits(t.Interval))
	order.PutUint64(desc[180:], math.Float64bits(t.HorizOffset))
	if !t.Trigger.IsZero() {
		ts := t.Trigger.UTC()
		secs := float64(ts.Second()) + float64(ts.Nanosecond())/1e9
		order.PutUint64(desc[296:], math.Float64bits(secs))
		desc[304] = byte(ts.Minute())
		desc[305] = byte(ts.Hour())
		desc[306] = byte(ts.Day())
		desc[307] = byte(ts.Month())
		order.PutUint16(desc[308:], uint16(ts.Year()))
	}

	out := append([]byte(t.Prefix), desc...)
	out = append(out, t.UserText...)
	var word [2]byte
	for _, v := range t.Raw {
		if t.Word {
			order.PutUint16(word[:], uint16(v))
			out = append(out, word[:]...)
		} else {
			out = append(out, byte(int8(v)))
		}
	}
	return out
}

// WriteTRC writes a synthetic trace under dir and returns its path.
func WriteTRC(t testing.TB, dir, name string, trc TRC) string {
	t.Helper()

	if trc.Gain == 0 {
		trc.Gain = 1
	}
	if trc.Interval == 0 {
		trc.Interval = 1e-7
	}
	path := filepath.Join(dir, name)
	writeBytes(t, path, EncodeTRC(trc))
	return path
}
