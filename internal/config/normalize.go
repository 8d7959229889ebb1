package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExperiment()
	c.normalizeWaveform()
	c.normalizePicking()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("TCI_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = value
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}

	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExperiment() {
	c.Experiment.TimeParam = strings.TrimSpace(c.Experiment.TimeParam)
	if c.Experiment.TimeParam == "" {
		c.Experiment.TimeParam = defaultTimeParam
	}
	c.Experiment.CommentColumn = strings.TrimSpace(c.Experiment.CommentColumn)
	if c.Experiment.CommentColumn == "" {
		c.Experiment.CommentColumn = defaultCommentColumn
	}
	switch strings.ToLower(c.Experiment.Delimiter) {
	case "", "comma":
		c.Experiment.Delimiter = defaultDelimiter
	case "tab", `\t`:
		c.Experiment.Delimiter = "\t"
	case "semicolon":
		c.Experiment.Delimiter = ";"
	}
}

func (c *Config) normalizeWaveform() {
	seen := make(map[string]struct{}, len(c.Waveform.Extensions))
	exts := make([]string, 0, len(c.Waveform.Extensions))
	for _, ext := range c.Waveform.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		exts = []string{".trc"}
	}
	c.Waveform.Extensions = exts
}

func (c *Config) normalizePicking() {
	c.Picking.YAxis = strings.TrimSpace(c.Picking.YAxis)
	if c.Picking.YAxis == "" {
		c.Picking.YAxis = defaultYAxis
	}
	c.Picking.ActiveWaves = strings.TrimSpace(c.Picking.ActiveWaves)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
