package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const snapshotColumns = "id, binding_id, arrivals_picked, y_axis, experiment_json, results_json, report_json, arrivals_json, shapes_json, window_json, waveforms_blob, created_at, updated_at"

// Save writes snap, replacing any snapshot stored under the same dataset id.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil || snap.Dataset == "" {
		return errors.New("save snapshot: dataset id required")
	}

	encoded := make([]any, 0, 6)
	for _, v := range []any{snap.Experiment, snap.Results, snap.Report, snap.Arrivals, snap.Shapes, snap.Window} {
		text, err := encodeJSON(v)
		if err != nil {
			return fmt.Errorf("save snapshot %s: %w", snap.Dataset, err)
		}
		encoded = append(encoded, text)
	}
	var blob any
	if len(snap.Waveforms) > 0 {
		data, err := json.Marshal(snap.Waveforms)
		if err != nil {
			return fmt.Errorf("save snapshot %s: encode waveforms: %w", snap.Dataset, err)
		}
		blob = data
	}

	now := time.Now().UTC()
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = now
	}
	snap.UpdatedAt = now

	args := []any{snap.Dataset, nullableString(snap.BindingID), boolToInt(snap.ArrivalsPicked), nullableString(snap.YAxis), len(snap.Waveforms)}
	args = append(args, encoded...)
	args = append(args, blob, snap.CreatedAt.Format(time.RFC3339Nano), snap.UpdatedAt.Format(time.RFC3339Nano))

	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO datasets (
                id, binding_id, arrivals_picked, y_axis, waveform_count,
                experiment_json, results_json, report_json, arrivals_json, shapes_json, window_json,
                waveforms_blob, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(id) DO UPDATE SET
                binding_id = excluded.binding_id,
                arrivals_picked = excluded.arrivals_picked,
                y_axis = excluded.y_axis,
                waveform_count = excluded.waveform_count,
                experiment_json = excluded.experiment_json,
                results_json = excluded.results_json,
                report_json = excluded.report_json,
                arrivals_json = excluded.arrivals_json,
                shapes_json = excluded.shapes_json,
                window_json = excluded.window_json,
                waveforms_blob = excluded.waveforms_blob,
                updated_at = excluded.updated_at`,
			args...,
		)
		if err != nil {
			return fmt.Errorf("save snapshot %s: %w", snap.Dataset, err)
		}
		return nil
	})
}

// Load returns the snapshot saved under dataset, or ErrNotFound.
func (s *Store) Load(ctx context.Context, dataset string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM datasets WHERE id = ?`, dataset)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %q: %w", dataset, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", dataset, err)
	}
	return snap, nil
}

// Delete removes the snapshot saved under dataset.
func (s *Store) Delete(ctx context.Context, dataset string) error {
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, dataset)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", dataset, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete %q: %w", dataset, ErrNotFound)
	}
	active, err := s.Active(ctx)
	if err == nil && active == dataset {
		return s.SetActive(ctx, "")
	}
	return nil
}

// List returns a summary of every saved dataset ordered by id.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, binding_id, arrivals_picked, waveform_count, updated_at FROM datasets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			summary   Summary
			bindingID sql.NullString
			picked    int
			updated   string
		)
		if err := rows.Scan(&summary.Dataset, &bindingID, &picked, &summary.Waveforms, &updated); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		summary.BindingID = bindingID.String
		summary.ArrivalsPicked = picked != 0
		if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
			summary.UpdatedAt = t
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

const activeKey = "active_dataset"

// SetActive records the active dataset id. An empty id clears it.
func (s *Store) SetActive(ctx context.Context, dataset string) error {
	return retryOnBusy(ctx, func() error {
		var err error
		if dataset == "" {
			_, err = s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, activeKey)
		} else {
			_, err = s.db.ExecContext(ctx,
				`INSERT INTO settings (key, value) VALUES (?, ?)
                 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, activeKey, dataset)
		}
		if err != nil {
			return fmt.Errorf("set active dataset: %w", err)
		}
		return nil
	})
}

// Active returns the active dataset id, or "" when none is set.
func (s *Store) Active(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, activeKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read active dataset: %w", err)
	}
	return value, nil
}
