package arrival

import (
	"fmt"
	"slices"

	"tci/internal/wave"
)

// Picker accumulates control points per wave until they are committed or
// cancelled. A zero Picker is ready to use.
type Picker struct {
	shapes map[wave.Type][]Point
}

// Seed starts a shape for w as a vertical line at x spanning yMin..yMax,
// replacing any points already drawn for w.
func (p *Picker) Seed(w wave.Type, x, yMin, yMax float64) {
	p.set(w, []Point{{X: x, Y: yMin}, {X: x, Y: yMax}})
}

// Add appends a control point to the shape of w.
func (p *Picker) Add(w wave.Type, pt Point) {
	p.set(w, append(p.shapes[w], pt))
}

// Replace sets the shape of w to pts verbatim.
func (p *Picker) Replace(w wave.Type, pts []Point) {
	p.set(w, slices.Clone(pts))
}

// Points returns the control points drawn for w.
func (p *Picker) Points(w wave.Type) []Point {
	return slices.Clone(p.shapes[w])
}

// Waves returns the waves with a shape in progress, in canonical order.
func (p *Picker) Waves() []wave.Type {
	var out []wave.Type
	for _, w := range wave.All() {
		if len(p.shapes[w]) > 0 {
			out = append(out, w)
		}
	}
	return out
}

// Active reports whether any shape is in progress.
func (p *Picker) Active() bool {
	return len(p.Waves()) > 0
}

// Cancel discards every shape in progress.
func (p *Picker) Cancel() {
	clear(p.shapes)
}

// Commit derives an arrival set for each shaped wave from the wave's full y
// array. Either every shape yields a set, or an error is returned and the
// picker is left unchanged. On success the shapes are cleared.
func (p *Picker) Commit(yArrays map[wave.Type][]float64) (map[wave.Type]Set, error) {
	waves := p.Waves()
	if len(waves) == 0 {
		return nil, fmt.Errorf("commit: %w (no shape drawn)", ErrTooFewPoints)
	}
	sets := make(map[wave.Type]Set, len(waves))
	for _, w := range waves {
		ys, ok := yArrays[w]
		if !ok {
			return nil, fmt.Errorf("commit %s: no y values for wave", w)
		}
		xs, err := Interpolate(p.shapes[w], ys)
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", w, err)
		}
		sets[w] = Set(xs)
	}
	p.Cancel()
	return sets, nil
}

// Restore replaces the picker contents, e.g. after reloading saved state.
func (p *Picker) Restore(shapes map[wave.Type][]Point) {
	p.Cancel()
	for w, pts := range shapes {
		p.set(w, slices.Clone(pts))
	}
}

// Shapes returns a copy of every shape in progress.
func (p *Picker) Shapes() map[wave.Type][]Point {
	out := make(map[wave.Type][]Point, len(p.shapes))
	for w, pts := range p.shapes {
		if len(pts) > 0 {
			out[w] = slices.Clone(pts)
		}
	}
	return out
}

func (p *Picker) set(w wave.Type, pts []Point) {
	if p.shapes == nil {
		p.shapes = make(map[wave.Type][]Point)
	}
	p.shapes[w] = pts
}
