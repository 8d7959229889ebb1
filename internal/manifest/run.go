package manifest

import (
	"context"
	"fmt"

	"tci/internal/session"
	"tci/internal/wave"
	"tci/internal/waveform"
)

// Dispatcher executes session requests.
type Dispatcher interface {
	Dispatch(ctx context.Context, req session.Request) (any, error)
}

// Result collects the responses of a run. Optional steps leave their
// field nil.
type Result struct {
	Dataset  session.UseDatasetResponse
	Load     session.LoadWaveformsResponse
	Bind     session.BindResponse
	Window   *session.SelectWindowResponse
	Commit   *session.CommitShapeResponse
	Arrivals *session.ExportArrivalsResponse
	Moduli   *session.ExportModuliResponse
}

// Run replays m against d: select the dataset, load captures and the
// experiment, bind, then optionally window, pick and export.
func Run(ctx context.Context, d Dispatcher, m *Manifest, progress waveform.ProgressFunc) (Result, error) {
	var res Result
	var err error

	paths, err := m.WaveformPaths()
	if err != nil {
		return res, err
	}
	if res.Dataset, err = call[session.UseDatasetResponse](ctx, d, session.UseDatasetRequest{Dataset: m.Dataset, Create: true}); err != nil {
		return res, err
	}
	if res.Load, err = call[session.LoadWaveformsResponse](ctx, d, session.LoadWaveformsRequest{Paths: paths, Progress: progress}); err != nil {
		return res, err
	}
	if _, err = call[session.LoadExperimentResponse](ctx, d, session.LoadExperimentRequest{Path: m.Resolve(m.Experiment)}); err != nil {
		return res, err
	}
	if res.Bind, err = call[session.BindResponse](ctx, d, session.BindRequest{}); err != nil {
		return res, err
	}

	if iv := m.Interval(); iv != nil {
		win, err := call[session.SelectWindowResponse](ctx, d, session.SelectWindowRequest{Interval: iv})
		if err != nil {
			return res, err
		}
		res.Window = &win
	}

	if len(m.Shapes) > 0 {
		shapes := m.ShapePoints()
		for _, w := range wave.All() {
			pts, ok := shapes[w]
			if !ok {
				continue
			}
			if _, err := call[session.ShapeResponse](ctx, d, session.SeedShapeRequest{Wave: w, Points: pts}); err != nil {
				return res, err
			}
		}
		commit, err := call[session.CommitShapeResponse](ctx, d, session.CommitShapeRequest{YAxis: m.YAxis})
		if err != nil {
			return res, err
		}
		res.Commit = &commit
	}

	if m.Export.Arrivals != "" {
		out, err := call[session.ExportArrivalsResponse](ctx, d, session.ExportArrivalsRequest{
			Path:       m.Resolve(m.Export.Arrivals),
			WindowOnly: m.Export.WindowOnly,
		})
		if err != nil {
			return res, err
		}
		res.Arrivals = &out
	}
	if m.Export.Moduli != "" {
		out, err := call[session.ExportModuliResponse](ctx, d, session.ExportModuliRequest{
			Path:    m.Resolve(m.Export.Moduli),
			Param:   m.Export.Param,
			Length:  m.Export.Length,
			Density: m.Export.Density,
		})
		if err != nil {
			return res, err
		}
		res.Moduli = &out
	}
	return res, nil
}

func call[T any](ctx context.Context, d Dispatcher, req session.Request) (T, error) {
	var zero T
	resp, err := d.Dispatch(ctx, req)
	if err != nil {
		return zero, err
	}
	typed, ok := resp.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected response %T for %T", resp, req)
	}
	return typed, nil
}
