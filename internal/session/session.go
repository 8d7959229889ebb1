package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"tci/internal/arrival"
	"tci/internal/config"
	"tci/internal/export"
	"tci/internal/logging"
	"tci/internal/state"
	"tci/internal/wave"
	"tci/internal/waveform"
)

var (
	// ErrBusy reports a request dispatched while another is in flight.
	ErrBusy = errors.New("session busy: another request is in progress")
	// ErrNoDataset reports a dataset-scoped request with no active dataset.
	ErrNoDataset = errors.New("no active dataset")
	// ErrNotBound reports a request that needs binding results.
	ErrNotBound = errors.New("dataset is not bound")
	// ErrNoCalculator reports a moduli export without a calculator.
	ErrNoCalculator = errors.New("no moduli calculator configured")
)

// SnapshotStore is the persistence a Session needs.
type SnapshotStore interface {
	Save(ctx context.Context, snap *state.Snapshot) error
	Load(ctx context.Context, dataset string) (*state.Snapshot, error)
	Delete(ctx context.Context, dataset string) error
	List(ctx context.Context) ([]state.Summary, error)
	SetActive(ctx context.Context, dataset string) error
	Active(ctx context.Context) (string, error)
}

// Options configures a Session.
type Options struct {
	Config     *config.Config
	Logger     *slog.Logger
	Calculator export.ModuliCalculator
	// NewID generates binding and request ids; defaults to uuid.NewString.
	NewID func() string
}

// Session dispatches requests against the active dataset.
type Session struct {
	store  SnapshotStore
	cfg    *config.Config
	logger *slog.Logger
	calc   export.ModuliCalculator
	newID  func() string

	busy atomic.Bool

	current  *state.Snapshot
	captures *waveform.Store
	picker   arrival.Picker
}

// New builds a Session and restores the dataset recorded as active in store.
func New(ctx context.Context, store SnapshotStore, opts Options) (*Session, error) {
	if store == nil {
		return nil, errors.New("session requires a snapshot store")
	}
	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	s := &Session{
		store:    store,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "session"),
		calc:     opts.Calculator,
		newID:    newID,
		captures: waveform.NewStore(),
	}

	active, err := store.Active(ctx)
	if err != nil {
		return nil, err
	}
	if active != "" {
		if _, err := s.useDataset(ctx, UseDatasetRequest{Dataset: active}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Dataset returns the active dataset id, or "".
func (s *Session) Dataset() string {
	if s.current == nil {
		return ""
	}
	return s.current.Dataset
}

// Dispatch runs req to completion and returns its typed response.
func (s *Session) Dispatch(ctx context.Context, req Request) (any, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	ctx = logging.WithRequestID(ctx, s.newID())
	if ds := s.Dataset(); ds != "" {
		ctx = logging.WithDataset(ctx, ds)
	}
	s.logger.DebugContext(ctx, "dispatch", logging.String(logging.FieldEventType, req.requestName()))

	switch r := req.(type) {
	case UseDatasetRequest:
		return s.useDataset(ctx, r)
	case RemoveDatasetRequest:
		return s.removeDataset(ctx, r)
	case ListDatasetsRequest:
		return s.listDatasets(ctx)
	case StatusRequest:
		return s.status(), nil
	case InspectRequest:
		return s.inspect()
	}

	if s.current == nil {
		return nil, fmt.Errorf("%s: %w", req.requestName(), ErrNoDataset)
	}

	var (
		resp any
		err  error
	)
	switch r := req.(type) {
	case LoadWaveformsRequest:
		resp, err = s.loadWaveforms(ctx, r)
	case LoadExperimentRequest:
		resp, err = s.loadExperiment(ctx, r)
	case BindRequest:
		resp, err = s.bind(ctx)
	case SelectWindowRequest:
		resp, err = s.selectWindow(ctx, r)
	case SeedShapeRequest:
		resp, err = s.seedShape(r)
	case AddPointRequest:
		resp, err = s.addPoint(r)
	case CancelShapeRequest:
		resp, err = s.cancelShape()
	case CommitShapeRequest:
		resp, err = s.commitShape(ctx, r)
	case ExportArrivalsRequest:
		return s.exportArrivals(ctx, r)
	case ExportModuliRequest:
		return s.exportModuli(ctx, r)
	default:
		return nil, fmt.Errorf("unsupported request %T", req)
	}
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Session) save(ctx context.Context) error {
	s.current.Waveforms = state.CapturesFrom(s.captures)
	s.current.Shapes = s.picker.Shapes()
	if len(s.current.Shapes) == 0 {
		s.current.Shapes = nil
	}
	if err := s.store.Save(ctx, s.current); err != nil {
		return fmt.Errorf("persist dataset %s: %w", s.current.Dataset, err)
	}
	return nil
}

func (s *Session) activeWaves(requested wave.Set) wave.Set {
	if requested.Len() > 0 {
		return requested
	}
	set, err := wave.ParseSet(s.cfg.Picking.ActiveWaves)
	if err != nil {
		return wave.AllSet()
	}
	return set
}

// invalidate drops everything derived from the current captures and record.
func (s *Session) invalidate() {
	s.current.BindingID = ""
	s.current.Results = nil
	s.current.Report = nil
	s.current.Arrivals = nil
	s.current.ArrivalsPicked = false
	s.current.Window = nil
	s.picker.Cancel()
}
