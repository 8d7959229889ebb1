package waveform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"tci/internal/logging"
	"tci/internal/wave"
)

// ProgressFunc receives the number of processed files after each file.
type ProgressFunc func(done, total int)

// LoadSummary describes one batch load.
type LoadSummary struct {
	Loaded   int
	Bytes    int64
	Rejected []error
}

// Loader reads a batch of capture files into a fresh Store.
type Loader struct {
	// Extensions lists accepted file extensions; nil means wave.DefaultExtensions.
	Extensions []string
	Logger     *slog.Logger
}

// Load classifies and decodes paths in sorted order. Files that cannot be
// classified or decoded are skipped and reported in the summary; the batch
// continues. The context is checked between files. On cancellation the
// partially filled store is discarded.
func (l *Loader) Load(ctx context.Context, paths []string, progress ProgressFunc) (*Store, LoadSummary, error) {
	logger := l.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "loader")

	sorted := slices.Clone(paths)
	slices.Sort(sorted)

	store := NewStore()
	var summary LoadSummary
	sampler := logging.NewProgressSampler(10)
	total := len(sorted)

	for i, path := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, summary, fmt.Errorf("load waveforms: %w", err)
		}
		size, err := l.loadOne(store, path)
		if err != nil {
			summary.Rejected = append(summary.Rejected, err)
			var classErr *wave.ClassificationError
			if errors.As(err, &classErr) {
				logging.WarnWithContext(logger, "capture skipped", "classification_failed",
					logging.String("file", classErr.Filename),
					logging.String("reason", classErr.Reason),
					logging.String(logging.FieldErrorHint, "rename the file so it carries exactly one of P, Sx, Sy"),
					logging.String(logging.FieldImpact, "capture excluded from the waveform store"),
				)
			} else {
				logging.WarnWithContext(logger, "capture unreadable", "trace_decode_failed",
					logging.String("file", filepath.Base(path)),
					logging.Error(err),
					logging.String(logging.FieldImpact, "capture excluded from the waveform store"),
				)
			}
		} else {
			summary.Loaded++
			summary.Bytes += size
		}

		done := i + 1
		if progress != nil {
			progress(done, total)
		}
		if sampler.ShouldLog(100*float64(done)/float64(total), "load") {
			logger.DebugContext(ctx, "load progress", logging.Int("done", done), logging.Int("total", total))
		}
	}

	logger.InfoContext(ctx, "waveforms loaded",
		logging.Int("loaded", summary.Loaded),
		logging.Int("rejected", len(summary.Rejected)),
		logging.Int64("bytes", summary.Bytes),
	)
	return store, summary, nil
}

func (l *Loader) loadOne(store *Store, path string) (int64, error) {
	w, err := wave.Classify(path, l.Extensions)
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	rec, err := ParseTRC(data)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	rec.Filename = filepath.Base(path)
	rec.Wave = w
	if err := store.Put(rec); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}
