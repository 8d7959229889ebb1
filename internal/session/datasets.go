package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tci/internal/logging"
	"tci/internal/state"
	"tci/internal/waveform"
)

func (s *Session) useDataset(ctx context.Context, r UseDatasetRequest) (UseDatasetResponse, error) {
	id := strings.TrimSpace(r.Dataset)
	if id == "" {
		return UseDatasetResponse{}, errors.New("use dataset: id required")
	}
	if s.current != nil && s.current.Dataset != id {
		if err := s.save(ctx); err != nil {
			return UseDatasetResponse{}, err
		}
	}

	ctx = logging.WithDataset(ctx, id)
	snap, err := s.store.Load(ctx, id)
	restored := true
	switch {
	case errors.Is(err, state.ErrNotFound):
		restored = false
		if !r.Create {
			logging.WarnWithContext(logging.WithContext(ctx, s.logger), "no saved state for dataset", "state_inconsistency",
				logging.String(logging.FieldErrorHint, "load waveforms and an experiment for this dataset"),
				logging.String(logging.FieldImpact, "dataset starts empty"),
			)
		}
		snap = &state.Snapshot{Dataset: id}
	case err != nil:
		return UseDatasetResponse{}, fmt.Errorf("use dataset %s: %w", id, err)
	}

	captures, err := snap.CaptureStore()
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "saved captures unreadable", "state_inconsistency",
			logging.Error(err),
			logging.String(logging.FieldImpact, "captures dropped; reload waveforms"),
		)
		captures = waveform.NewStore()
		restored = false
	}

	s.current = snap
	s.captures = captures
	s.picker.Restore(snap.Shapes)
	if err := s.store.SetActive(ctx, id); err != nil {
		return UseDatasetResponse{}, err
	}
	if err := s.save(ctx); err != nil {
		return UseDatasetResponse{}, err
	}
	s.logger.InfoContext(ctx, "dataset active", logging.Bool("restored", restored))
	return UseDatasetResponse{Dataset: id, Restored: restored}, nil
}

func (s *Session) removeDataset(ctx context.Context, r RemoveDatasetRequest) (RemoveDatasetResponse, error) {
	if err := s.store.Delete(ctx, r.Dataset); err != nil {
		return RemoveDatasetResponse{}, err
	}
	if s.current != nil && s.current.Dataset == r.Dataset {
		s.current = nil
		s.captures = waveform.NewStore()
		s.picker.Cancel()
	}
	s.logger.InfoContext(ctx, "dataset removed", logging.Dataset(r.Dataset))
	return RemoveDatasetResponse{Dataset: r.Dataset}, nil
}

func (s *Session) listDatasets(ctx context.Context) (ListDatasetsResponse, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return ListDatasetsResponse{}, err
	}
	return ListDatasetsResponse{Active: s.Dataset(), Datasets: list}, nil
}
