// Package manifest describes a complete interpretation run in YAML so a
// dataset can be reproduced without interactive picking.
//
//	dataset: core-17
//	experiment: experiment.csv
//	waveforms:
//	  - captures/*.trc
//	window: {min: 120, max: 480}
//	y_axis: Sigma1
//	shapes:
//	  P:
//	    - {x: 1.2e-5, y: 0}
//	    - {x: 1.4e-5, y: 40}
//	export:
//	  arrivals: out/arrivals.csv
//	  window_only: true
//
// Relative paths resolve against the manifest's directory.
package manifest

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"tci/internal/arrival"
	"tci/internal/wave"
	"tci/internal/window"
)

// Point is one control point of a shape.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Window bounds the selected capture times, inclusive.
type Window struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Export names the outputs of a run. Empty paths skip that output.
type Export struct {
	Arrivals   string  `yaml:"arrivals"`
	WindowOnly bool    `yaml:"window_only"`
	Moduli     string  `yaml:"moduli"`
	Param      string  `yaml:"param"`
	Length     float64 `yaml:"length"`
	Density    float64 `yaml:"density"`
}

// Manifest is a parsed run description.
type Manifest struct {
	Dataset    string             `yaml:"dataset"`
	Experiment string             `yaml:"experiment"`
	Waveforms  []string           `yaml:"waveforms"`
	Window     *Window            `yaml:"window"`
	YAxis      string             `yaml:"y_axis"`
	Shapes     map[string][]Point `yaml:"shapes"`
	Export     Export             `yaml:"export"`

	dir string
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest path: %w", err)
	}
	m.dir = filepath.Dir(abs)
	return m, nil
}

// Parse decodes and validates manifest YAML. Relative paths resolve
// against the working directory.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks required fields, window bounds and shape wave names.
func (m *Manifest) Validate() error {
	var errs []error
	if strings.TrimSpace(m.Dataset) == "" {
		errs = append(errs, errors.New("dataset is required"))
	}
	if strings.TrimSpace(m.Experiment) == "" {
		errs = append(errs, errors.New("experiment is required"))
	}
	if len(m.Waveforms) == 0 {
		errs = append(errs, errors.New("waveforms must list at least one path or glob"))
	}
	if m.Window != nil {
		if math.IsNaN(m.Window.Min) || math.IsNaN(m.Window.Max) || m.Window.Min > m.Window.Max {
			errs = append(errs, fmt.Errorf("window min %g must not exceed max %g", m.Window.Min, m.Window.Max))
		}
	}
	for name, pts := range m.Shapes {
		if _, err := wave.Parse(name); err != nil {
			errs = append(errs, fmt.Errorf("shapes: %w", err))
			continue
		}
		if len(pts) < 2 {
			errs = append(errs, fmt.Errorf("shapes.%s: at least two points are required", name))
		}
	}
	if m.Export.WindowOnly && m.Window == nil {
		errs = append(errs, errors.New("export.window_only needs a window"))
	}
	if m.Export.Moduli != "" && len(m.Shapes) == 0 {
		errs = append(errs, errors.New("export.moduli needs shapes"))
	}
	if m.Export.Arrivals != "" && len(m.Shapes) == 0 {
		errs = append(errs, errors.New("export.arrivals needs shapes"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid manifest: %w", errors.Join(errs...))
	}
	return nil
}

// Resolve returns path relative to the manifest's directory.
func (m *Manifest) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || m.dir == "" {
		return path
	}
	return filepath.Join(m.dir, path)
}

// WaveformPaths expands the waveform globs into a sorted, de-duplicated
// list. A pattern that matches nothing is an error.
func (m *Manifest) WaveformPaths() ([]string, error) {
	var paths []string
	for _, pattern := range m.Waveforms {
		matches, err := filepath.Glob(m.Resolve(pattern))
		if err != nil {
			return nil, fmt.Errorf("waveform pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("waveform pattern %q matched no files", pattern)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	return slices.Compact(paths), nil
}

// ShapePoints returns the control points per wave.
func (m *Manifest) ShapePoints() map[wave.Type][]arrival.Point {
	out := make(map[wave.Type][]arrival.Point, len(m.Shapes))
	for name, pts := range m.Shapes {
		w, err := wave.Parse(name)
		if err != nil {
			continue
		}
		converted := make([]arrival.Point, len(pts))
		for i, p := range pts {
			converted[i] = arrival.Point{X: p.X, Y: p.Y}
		}
		out[w] = converted
	}
	return out
}

// Interval returns the manifest window, or nil.
func (m *Manifest) Interval() *window.Interval {
	if m.Window == nil {
		return nil
	}
	return &window.Interval{Min: m.Window.Min, Max: m.Window.Max}
}
