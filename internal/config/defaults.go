package config

const (
	defaultDataDir       = "~/.local/share/tci"
	defaultLogDir        = "~/.local/share/tci/logs"
	defaultExportDir     = "~/tci-exports"
	defaultTimeParam     = "Time"
	defaultCommentColumn = "Comments"
	defaultDelimiter     = ","
	defaultYAxis         = "track"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		Experiment: Experiment{
			TimeParam:     defaultTimeParam,
			CommentColumn: defaultCommentColumn,
			Delimiter:     defaultDelimiter,
		},
		Waveform: Waveform{
			Extensions: []string{".trc"},
		},
		Picking: Picking{
			YAxis: defaultYAxis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
