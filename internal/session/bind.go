package session

import (
	"context"
	"errors"
	"fmt"
	"math"

	"tci/internal/binding"
	"tci/internal/logging"
	"tci/internal/window"
)

func (s *Session) bind(ctx context.Context) (BindResponse, error) {
	rec := s.current.Experiment
	if rec == nil {
		return BindResponse{}, errors.New("bind: no experimental record loaded")
	}
	if s.captures.Total() == 0 {
		return BindResponse{}, errors.New("bind: no waveforms loaded")
	}

	results, report, err := binding.Bind(rec.Comments, rec.Times(), s.captures.FilenamesByWave())
	if err != nil {
		return BindResponse{}, fmt.Errorf("bind: %w", err)
	}
	removed, err := binding.Apply(s.captures, results, report)
	if err != nil {
		return BindResponse{}, err
	}

	s.invalidate()
	s.current.BindingID = s.newID()
	s.current.Results = results
	s.current.Report = &report

	logger := logging.WithContext(ctx, s.logger)
	warning := report.Warning()
	if warning != nil {
		logging.WarnWithContext(logger, "binding relied on ambiguity policies", "binding_ambiguity",
			logging.String(logging.FieldErrorHint, "check comments for duplicates or overlapping names"),
			logging.String(logging.FieldImpact, "some captures were matched by policy"),
			logging.Int("duplicates", len(report.Duplicates)),
			logging.Int("ambiguities", len(report.Ambiguities)),
			logging.Int("shared", len(report.Shared)),
		)
	}
	logger.InfoContext(ctx, "binding complete",
		logging.BindingID(s.current.BindingID),
		logging.Int("retained", report.Retained),
		logging.Int("removed", removed),
	)
	return BindResponse{
		BindingID: s.current.BindingID,
		Results:   results,
		Report:    report,
		Removed:   removed,
		Warning:   warning,
	}, nil
}

func (s *Session) selectWindow(ctx context.Context, r SelectWindowRequest) (SelectWindowResponse, error) {
	if !s.current.Bound() {
		return SelectWindowResponse{}, fmt.Errorf("select window: %w", ErrNotBound)
	}
	full, hasTimes := window.Bounds(s.current.Results)
	iv := full
	if r.Interval != nil {
		iv = *r.Interval
		if math.IsNaN(iv.Min) || math.IsNaN(iv.Max) {
			return SelectWindowResponse{}, errors.New("select window: bounds must be numbers")
		}
	}
	// Infinite bounds mean "from the first" or "to the last" capture.
	if r.Interval == nil || math.IsInf(iv.Min, 0) || math.IsInf(iv.Max, 0) {
		if !hasTimes {
			return SelectWindowResponse{}, errors.New("select window: no bound capture times")
		}
		iv.Min = clampInf(iv.Min, full)
		iv.Max = clampInf(iv.Max, full)
	}

	selections := window.Select(s.current.Results, iv, s.activeWaves(r.Active))
	s.current.Window = &iv
	s.logger.DebugContext(ctx, "window selected",
		logging.Float64("min", iv.Min),
		logging.Float64("max", iv.Max),
	)
	return SelectWindowResponse{Interval: iv, Selections: selections}, nil
}

func clampInf(v float64, full window.Interval) float64 {
	switch {
	case math.IsInf(v, -1):
		return full.Min
	case math.IsInf(v, 1):
		return full.Max
	}
	return v
}
