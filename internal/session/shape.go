package session

import (
	"context"
	"fmt"
	"maps"
	"math"

	"tci/internal/arrival"
	"tci/internal/logging"
	"tci/internal/wave"
)

// seedShape places the initial vertical shape. When YMin equals YMax the
// span of the wave's current y axis is used.
func (s *Session) seedShape(r SeedShapeRequest) (ShapeResponse, error) {
	if !r.Wave.Valid() {
		return ShapeResponse{}, fmt.Errorf("seed shape: invalid wave %q", r.Wave)
	}
	if len(r.Points) > 0 {
		for _, pt := range r.Points {
			if !finitePoint(pt) {
				return ShapeResponse{}, fmt.Errorf("seed shape: point %v is not finite", pt)
			}
		}
		s.picker.Replace(r.Wave, r.Points)
		return ShapeResponse{Shapes: s.picker.Shapes()}, nil
	}
	if !isFinite(r.X) {
		return ShapeResponse{}, fmt.Errorf("seed shape: x must be a finite number")
	}
	yMin, yMax := r.YMin, r.YMax
	if !isFinite(yMin) || !isFinite(yMax) {
		return ShapeResponse{}, fmt.Errorf("seed shape: y range must be finite")
	}
	if yMin == yMax {
		lo, hi, err := s.yRange(r.Wave)
		if err != nil {
			return ShapeResponse{}, fmt.Errorf("seed shape: %w", err)
		}
		yMin, yMax = lo, hi
	}
	s.picker.Seed(r.Wave, r.X, yMin, yMax)
	return ShapeResponse{Shapes: s.picker.Shapes()}, nil
}

func (s *Session) addPoint(r AddPointRequest) (ShapeResponse, error) {
	if !r.Wave.Valid() {
		return ShapeResponse{}, fmt.Errorf("add point: invalid wave %q", r.Wave)
	}
	if len(s.picker.Points(r.Wave)) == 0 {
		return ShapeResponse{}, fmt.Errorf("add point: no shape seeded for %s", r.Wave)
	}
	if !finitePoint(r.Point) {
		return ShapeResponse{}, fmt.Errorf("add point: %v is not finite", r.Point)
	}
	s.picker.Add(r.Wave, r.Point)
	return ShapeResponse{Shapes: s.picker.Shapes()}, nil
}

func (s *Session) cancelShape() (ShapeResponse, error) {
	s.picker.Cancel()
	return ShapeResponse{Shapes: s.picker.Shapes()}, nil
}

func (s *Session) commitShape(ctx context.Context, r CommitShapeRequest) (CommitShapeResponse, error) {
	if !s.current.Bound() {
		return CommitShapeResponse{}, fmt.Errorf("commit shape: %w", ErrNotBound)
	}
	axis := s.yAxis(r.YAxis)

	yArrays := make(map[wave.Type][]float64)
	for _, w := range s.picker.Waves() {
		ys, err := arrival.YValues(axis, s.current.Results[w], s.current.Experiment)
		if err != nil {
			return CommitShapeResponse{}, fmt.Errorf("commit shape %s: %w", w, err)
		}
		yArrays[w] = ys
	}
	sets, err := s.picker.Commit(yArrays)
	if err != nil {
		return CommitShapeResponse{}, err
	}

	merged := make(map[wave.Type]arrival.Set, len(s.current.Arrivals)+len(sets))
	maps.Copy(merged, s.current.Arrivals)
	maps.Copy(merged, sets)
	s.current.Arrivals = merged
	s.current.ArrivalsPicked = true
	s.current.YAxis = axis

	for w, set := range sets {
		s.logger.InfoContext(ctx, "arrivals committed",
			logging.Wave(w.String()),
			logging.Int("defined", set.Defined()),
			logging.Int("total", len(set)),
			logging.String("y_axis", axis),
		)
	}
	return CommitShapeResponse{YAxis: axis, Arrivals: sets}, nil
}

func (s *Session) yAxis(requested string) string {
	switch {
	case requested != "":
		return requested
	case s.current.YAxis != "":
		return s.current.YAxis
	case s.cfg.Picking.YAxis != "":
		return s.cfg.Picking.YAxis
	default:
		return arrival.AxisTrack
	}
}

func (s *Session) yRange(w wave.Type) (float64, float64, error) {
	if !s.current.Bound() {
		return 0, 0, ErrNotBound
	}
	ys, err := arrival.YValues(s.yAxis(""), s.current.Results[w], s.current.Experiment)
	if err != nil {
		return 0, 0, err
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, y := range ys {
		if math.IsNaN(y) {
			continue
		}
		lo = min(lo, y)
		hi = max(hi, y)
	}
	if math.IsInf(lo, 1) {
		return 0, 0, fmt.Errorf("no y values for %s", w)
	}
	return lo, hi, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finitePoint(p arrival.Point) bool {
	return isFinite(p.X) && isFinite(p.Y)
}
