package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tci/internal/export"
	"tci/internal/logging"
	"tci/internal/textutil"
	"tci/internal/wave"
	"tci/internal/window"
)

func (s *Session) exportArrivals(ctx context.Context, r ExportArrivalsRequest) (ExportArrivalsResponse, error) {
	if !s.current.ArrivalsPicked {
		return ExportArrivalsResponse{}, export.ErrArrivalsNotPicked
	}
	var selections map[wave.Type]window.Selection
	active := s.activeWaves(r.Active)
	if r.WindowOnly {
		if s.current.Window == nil {
			return ExportArrivalsResponse{}, fmt.Errorf("export arrivals: no window selected")
		}
		selections = window.Select(s.current.Results, *s.current.Window, active)
	}
	table, err := export.BuildArrivals(s.current.Results, s.current.Arrivals, active, selections)
	if err != nil {
		return ExportArrivalsResponse{}, err
	}

	path, err := s.exportPath(r.Path, "arrivals")
	if err != nil {
		return ExportArrivalsResponse{}, err
	}
	if err := export.WriteArrivalsFile(path, table); err != nil {
		return ExportArrivalsResponse{}, err
	}

	waves := make([]wave.Type, 0, len(table.Columns))
	for _, c := range table.Columns {
		waves = append(waves, c.Wave)
	}
	s.logger.InfoContext(ctx, "arrivals exported",
		logging.String("path", path),
		logging.Int("rows", table.Rows()),
	)
	return ExportArrivalsResponse{Path: path, Rows: table.Rows(), Waves: waves}, nil
}

// exportModuli keys the output by Param read at the experiment rows of the
// first wave, in canonical order, that carries arrivals.
func (s *Session) exportModuli(ctx context.Context, r ExportModuliRequest) (ExportModuliResponse, error) {
	if !s.current.ArrivalsPicked {
		return ExportModuliResponse{}, export.ErrArrivalsNotPicked
	}
	if s.calc == nil {
		return ExportModuliResponse{}, ErrNoCalculator
	}
	paramName := r.Param
	if paramName == "" {
		paramName = s.current.Experiment.TimeParam
	}
	keyRows, ok := s.keyRows()
	if !ok {
		return ExportModuliResponse{}, fmt.Errorf("export moduli: no arrival set recorded")
	}
	param, err := s.current.Experiment.Sample(paramName, keyRows)
	if err != nil {
		return ExportModuliResponse{}, fmt.Errorf("export moduli: %w", err)
	}

	in := export.ModuliInput{
		Arrivals:  s.current.Arrivals,
		Results:   s.current.Results,
		Length:    orDefault(r.Length, s.cfg.Specimen.Length),
		Density:   orDefault(r.Density, s.cfg.Specimen.Density),
		ParamName: paramName,
		Param:     param,
	}
	moduli, err := s.calc.Compute(in)
	if err != nil {
		return ExportModuliResponse{}, fmt.Errorf("export moduli: %w", err)
	}
	path, err := s.exportPath(r.Path, "moduli")
	if err != nil {
		return ExportModuliResponse{}, err
	}
	if err := export.WriteModuliFile(path, moduli); err != nil {
		return ExportModuliResponse{}, err
	}
	s.logger.InfoContext(ctx, "moduli exported",
		logging.String("path", path),
		logging.Int("rows", len(moduli.Keys)),
	)
	return ExportModuliResponse{Path: path, Rows: len(moduli.Keys)}, nil
}

func (s *Session) keyRows() ([]int, bool) {
	for _, w := range wave.All() {
		if _, ok := s.current.Arrivals[w]; ok {
			return s.current.Results[w].ExperimentIndices, true
		}
	}
	return nil, false
}

// exportPath resolves an empty path to <export_dir>/<dataset token>_<kind>.csv.
func (s *Session) exportPath(path, kind string) (string, error) {
	if path == "" {
		path = filepath.Join(s.cfg.Paths.ExportDir, fmt.Sprintf("%s_%s.csv", textutil.FileToken(s.current.Dataset), kind))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	return path, nil
}

func (s *Session) status() StatusResponse {
	resp := StatusResponse{Dataset: s.Dataset(), StatePath: s.cfg.StatePath()}
	if s.current == nil {
		return resp
	}
	resp.BindingID = s.current.BindingID
	resp.ArrivalsPicked = s.current.ArrivalsPicked
	resp.Window = s.current.Window
	resp.YAxis = s.yAxis("")
	if s.current.Experiment != nil {
		resp.ExperimentRows = s.current.Experiment.Len()
	}
	resp.Captures = make(map[wave.Type]int)
	resp.Bound = make(map[wave.Type]int)
	resp.Arrivals = make(map[wave.Type]int)
	resp.Shapes = make(map[wave.Type]int)
	for _, w := range wave.All() {
		resp.Captures[w] = s.captures.Len(w)
		resp.Bound[w] = s.current.Results[w].Len()
		resp.Arrivals[w] = s.current.Arrivals[w].Defined()
		resp.Shapes[w] = len(s.picker.Points(w))
	}
	return resp
}

func (s *Session) inspect() (InspectResponse, error) {
	if s.current == nil {
		return InspectResponse{}, fmt.Errorf("inspect: %w", ErrNoDataset)
	}
	return InspectResponse{
		Dataset:   s.current.Dataset,
		BindingID: s.current.BindingID,
		YAxis:     s.yAxis(""),
		Results:   s.current.Results,
		Arrivals:  s.current.Arrivals,
		Window:    s.current.Window,
	}, nil
}

func orDefault(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}
