package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tci/internal/experiment"
	"tci/internal/logging"
	"tci/internal/wave"
	"tci/internal/waveform"
)

func (s *Session) loadWaveforms(ctx context.Context, r LoadWaveformsRequest) (LoadWaveformsResponse, error) {
	if len(r.Paths) == 0 {
		return LoadWaveformsResponse{}, errors.New("load waveforms: no paths given")
	}
	loader := waveform.Loader{
		Extensions: s.cfg.Waveform.Extensions,
		Logger:     logging.WithContext(ctx, s.logger),
	}
	store, summary, err := loader.Load(ctx, r.Paths, r.Progress)
	if err != nil {
		return LoadWaveformsResponse{}, err
	}

	s.captures = store
	s.invalidate()

	counts := make(map[wave.Type]int, len(wave.All()))
	for _, w := range wave.All() {
		counts[w] = store.Len(w)
	}
	return LoadWaveformsResponse{Summary: summary, Counts: counts}, nil
}

func (s *Session) loadExperiment(ctx context.Context, r LoadExperimentRequest) (LoadExperimentResponse, error) {
	if strings.TrimSpace(r.Path) == "" {
		return LoadExperimentResponse{}, errors.New("load experiment: path required")
	}
	rec, err := experiment.ReadFile(r.Path, experiment.ReadOptions{
		CommentColumn: s.cfg.Experiment.CommentColumn,
		TimeParam:     s.cfg.Experiment.TimeParam,
		Delimiter:     experiment.DelimiterRune(s.cfg.Experiment.Delimiter),
	})
	if err != nil {
		return LoadExperimentResponse{}, fmt.Errorf("load experiment: %w", err)
	}

	s.current.Experiment = rec
	s.invalidate()
	s.logger.InfoContext(ctx, "experiment loaded",
		logging.String("path", r.Path),
		logging.Int("rows", rec.Len()),
		logging.Int("params", len(rec.Params())),
	)
	return LoadExperimentResponse{Rows: rec.Len(), Params: rec.Params()}, nil
}
