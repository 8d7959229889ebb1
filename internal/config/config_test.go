package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"tci/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TCI_DATA_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "tci")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.StatePath() != filepath.Join(wantData, "state.db") {
		t.Fatalf("unexpected state path: %q", cfg.StatePath())
	}
	if cfg.Experiment.TimeParam != "Time" || cfg.Experiment.CommentColumn != "Comments" {
		t.Fatalf("unexpected experiment defaults: %+v", cfg.Experiment)
	}
	if len(cfg.Waveform.Extensions) != 1 || cfg.Waveform.Extensions[0] != ".trc" {
		t.Fatalf("unexpected extensions: %v", cfg.Waveform.Extensions)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "tci.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Experiment struct {
			TimeParam string `toml:"time_param"`
			Delimiter string `toml:"delimiter"`
		} `toml:"experiment"`
		Waveform struct {
			Extensions []string `toml:"extensions"`
		} `toml:"waveform"`
		Specimen struct {
			Length  float64 `toml:"length"`
			Density float64 `toml:"density"`
		} `toml:"specimen"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "state")
	custom.Experiment.TimeParam = "Elapsed"
	custom.Experiment.Delimiter = "tab"
	custom.Waveform.Extensions = []string{"TRC", ".trc", "dat"}
	custom.Specimen.Length = 0.0508
	custom.Specimen.Density = 2650

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TCI_DATA_DIR", "")
	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.DataDir != custom.Paths.DataDir {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Experiment.TimeParam != "Elapsed" || cfg.Experiment.Delimiter != "\t" {
		t.Fatalf("unexpected experiment section: %+v", cfg.Experiment)
	}
	if strings.Join(cfg.Waveform.Extensions, " ") != ".trc .dat" {
		t.Fatalf("extensions not normalized: %v", cfg.Waveform.Extensions)
	}
	if cfg.Specimen.Length != 0.0508 || cfg.Specimen.Density != 2650 {
		t.Fatalf("unexpected specimen: %+v", cfg.Specimen)
	}
}

func TestLoadHonoursDataDirEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	override := filepath.Join(t.TempDir(), "elsewhere")
	t.Setenv("TCI_DATA_DIR", override)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != override {
		t.Fatalf("expected env override %q, got %q", override, cfg.Paths.DataDir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"negative length", "[specimen]\nlength = -1.0\n", "specimen.length"},
		{"bad format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"bad waves", "[picking]\nactive_waves = \"P,Q\"\n", "picking.active_waves"},
		{"same columns", "[experiment]\ntime_param = \"C\"\ncomment_column = \"C\"\n", "must differ"},
		{"unknown key", "[paths]\nstaging_dir = \"/tmp\"\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tci.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "tci.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists || cfg.Experiment.Delimiter != "," {
		t.Fatalf("unexpected sample load result: exists=%v delimiter=%q", exists, cfg.Experiment.Delimiter)
	}
}
