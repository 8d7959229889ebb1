package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

func scanSnapshot(scanner interface{ Scan(dest ...any) error }) (*Snapshot, error) {
	var (
		id         string
		bindingID  sql.NullString
		picked     int
		yAxis      sql.NullString
		experiment sql.NullString
		results    sql.NullString
		report     sql.NullString
		arrivals   sql.NullString
		shapes     sql.NullString
		windowJSON sql.NullString
		waveforms  []byte
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&id,
		&bindingID,
		&picked,
		&yAxis,
		&experiment,
		&results,
		&report,
		&arrivals,
		&shapes,
		&windowJSON,
		&waveforms,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Dataset:        id,
		BindingID:      bindingID.String,
		ArrivalsPicked: picked != 0,
		YAxis:          yAxis.String,
	}
	decoders := []struct {
		name string
		raw  sql.NullString
		dst  any
	}{
		{"experiment", experiment, &snap.Experiment},
		{"results", results, &snap.Results},
		{"report", report, &snap.Report},
		{"arrivals", arrivals, &snap.Arrivals},
		{"shapes", shapes, &snap.Shapes},
		{"window", windowJSON, &snap.Window},
	}
	for _, d := range decoders {
		if !d.raw.Valid {
			continue
		}
		if err := json.Unmarshal([]byte(d.raw.String), d.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", d.name, err)
		}
	}
	if len(waveforms) > 0 {
		if err := json.Unmarshal(waveforms, &snap.Waveforms); err != nil {
			return nil, fmt.Errorf("decode waveforms: %w", err)
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		snap.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		snap.UpdatedAt = t
	}
	return snap, nil
}

// encodeJSON returns nil for nil values so the column stays NULL.
func encodeJSON(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if rv := reflect.ValueOf(v); (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Map) && rv.IsNil() {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
