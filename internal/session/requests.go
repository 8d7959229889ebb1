package session

import (
	"tci/internal/arrival"
	"tci/internal/binding"
	"tci/internal/state"
	"tci/internal/wave"
	"tci/internal/waveform"
	"tci/internal/window"
)

// Request is implemented by every request type accepted by Dispatch.
type Request interface {
	requestName() string
}

// UseDatasetRequest makes Dataset the active dataset. The outgoing dataset
// is saved first. With Create unset, a dataset with no saved state is
// reported as an inconsistency and started empty.
type UseDatasetRequest struct {
	Dataset string
	Create  bool
}

// UseDatasetResponse reports whether saved state was restored.
type UseDatasetResponse struct {
	Dataset  string
	Restored bool
}

// RemoveDatasetRequest deletes a dataset's saved state.
type RemoveDatasetRequest struct {
	Dataset string
}

// RemoveDatasetResponse confirms a removal.
type RemoveDatasetResponse struct {
	Dataset string
}

// ListDatasetsRequest lists saved datasets.
type ListDatasetsRequest struct{}

// ListDatasetsResponse carries the saved datasets and the active one.
type ListDatasetsResponse struct {
	Active   string
	Datasets []state.Summary
}

// LoadWaveformsRequest replaces the active dataset's captures.
type LoadWaveformsRequest struct {
	Paths    []string
	Progress waveform.ProgressFunc
}

// LoadWaveformsResponse summarizes the load.
type LoadWaveformsResponse struct {
	Summary waveform.LoadSummary
	Counts  map[wave.Type]int
}

// LoadExperimentRequest reads the experimental record for the active dataset.
type LoadExperimentRequest struct {
	Path string
}

// LoadExperimentResponse describes the loaded record.
type LoadExperimentResponse struct {
	Rows   int
	Params []string
}

// BindRequest aligns the loaded captures with the experimental record.
type BindRequest struct{}

// BindResponse carries the binding outcome. Warning is non-nil when the
// alignment relied on the ambiguity policies.
type BindResponse struct {
	BindingID string
	Results   map[wave.Type]binding.Result
	Report    binding.Report
	Removed   int
	Warning   *binding.AmbiguityWarning
}

// SelectWindowRequest selects the captures inside Interval. A nil Interval
// selects the full bound time range; an empty Active uses the configured
// active waves.
type SelectWindowRequest struct {
	Interval *window.Interval
	Active   wave.Set
}

// SelectWindowResponse carries the applied interval and per-wave selections.
type SelectWindowResponse struct {
	Interval   window.Interval
	Selections map[wave.Type]window.Selection
}

// SeedShapeRequest starts a shape for Wave as a vertical line at X. When
// Points is set it replaces the shape verbatim and X, YMin and YMax are
// ignored.
type SeedShapeRequest struct {
	Wave       wave.Type
	X          float64
	YMin, YMax float64
	Points     []arrival.Point
}

// AddPointRequest appends a control point to the shape of Wave.
type AddPointRequest struct {
	Wave  wave.Type
	Point arrival.Point
}

// CancelShapeRequest discards every shape in progress.
type CancelShapeRequest struct{}

// ShapeResponse echoes the shapes in progress after a shape edit.
type ShapeResponse struct {
	Shapes map[wave.Type][]arrival.Point
}

// CommitShapeRequest derives arrival sets from the shapes in progress. An
// empty YAxis uses the dataset's last axis, then the configured default.
type CommitShapeRequest struct {
	YAxis string
}

// CommitShapeResponse carries the committed arrival sets.
type CommitShapeResponse struct {
	YAxis    string
	Arrivals map[wave.Type]arrival.Set
}

// ExportArrivalsRequest writes the arrival CSV to Path. WindowOnly restricts
// the rows to the last selected window.
type ExportArrivalsRequest struct {
	Path       string
	Active     wave.Set
	WindowOnly bool
}

// ExportArrivalsResponse reports what was written.
type ExportArrivalsResponse struct {
	Path  string
	Rows  int
	Waves []wave.Type
}

// ExportModuliRequest computes moduli with the configured calculator and
// writes them keyed by Param. Zero Length or Density use the configured
// specimen values.
type ExportModuliRequest struct {
	Path    string
	Param   string
	Length  float64
	Density float64
}

// ExportModuliResponse reports what was written.
type ExportModuliResponse struct {
	Path string
	Rows int
}

// InspectRequest returns the bound captures and arrivals of the active
// dataset.
type InspectRequest struct{}

// InspectResponse carries the binding and arrival state read-only.
type InspectResponse struct {
	Dataset   string
	BindingID string
	YAxis     string
	Results   map[wave.Type]binding.Result
	Arrivals  map[wave.Type]arrival.Set
	Window    *window.Interval
}

// StatusRequest describes the active dataset.
type StatusRequest struct{}

// StatusResponse summarizes the active dataset.
type StatusResponse struct {
	Dataset        string
	BindingID      string
	ExperimentRows int
	Captures       map[wave.Type]int
	Bound          map[wave.Type]int
	Arrivals       map[wave.Type]int
	ArrivalsPicked bool
	Window         *window.Interval
	YAxis          string
	Shapes         map[wave.Type]int
	StatePath      string
}

func (UseDatasetRequest) requestName() string     { return "use_dataset" }
func (RemoveDatasetRequest) requestName() string  { return "remove_dataset" }
func (ListDatasetsRequest) requestName() string   { return "list_datasets" }
func (LoadWaveformsRequest) requestName() string  { return "load_waveforms" }
func (LoadExperimentRequest) requestName() string { return "load_experiment" }
func (BindRequest) requestName() string           { return "bind" }
func (SelectWindowRequest) requestName() string   { return "select_window" }
func (SeedShapeRequest) requestName() string      { return "seed_shape" }
func (AddPointRequest) requestName() string       { return "add_point" }
func (CancelShapeRequest) requestName() string    { return "cancel_shape" }
func (CommitShapeRequest) requestName() string    { return "commit_shape" }
func (ExportArrivalsRequest) requestName() string { return "export_arrivals" }
func (ExportModuliRequest) requestName() string   { return "export_moduli" }
func (InspectRequest) requestName() string        { return "inspect" }
func (StatusRequest) requestName() string         { return "status" }
