package config

const (
	defaultConfigPath    = "~/.config/mediasort/config.toml"
	defaultSourceRoot    = "~/mediasort/extracted"
	defaultTargetRoot    = "~/mediasort/organized"
	defaultLogDir        = "~/.local/share/mediasort/logs"
	defaultHistoryPath   = "~/.local/share/mediasort/history.db"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultMinWidth      = 200
	defaultMinHeight     = 200
	defaultMinFileBytes  = 50_000
	defaultMaxFileBytes  = 5_000_000
	envSourceRoot        = "MEDIASORT_SOURCE_ROOT"
	envTargetRoot        = "MEDIASORT_TARGET_ROOT"
	envReportDir         = "MEDIASORT_REPORT_DIR"
	envLogLevel          = "MEDIASORT_LOG_LEVEL"
	envHistoryPath       = "MEDIASORT_HISTORY_PATH"
	defaultHistoryEnable = true
)

var (
	defaultVideoExtensions = []string{".mp4", ".mov", ".avi", ".webm"}
	defaultImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	defaultIgnoreNames     = []string{".DS_Store", "Thumbs.db", "desktop.ini", "__MACOSX"}
)

// DefaultEntities is the alias table shipped with mediasort: archive folder
// names as they were extracted, mapped to clean entity names.
func DefaultEntities() []Entity {
	return []Entity{
		{Alias: "CYCLONE-3rd (105 big)", Name: "CYCLONE-3rd"},
		{Alias: "R10pro-disc (ET)", Name: "R10pro-disc"},
		{Alias: "R5pro-Term (2)", Name: "R5pro-Term"},
		{Alias: "T10pro-2rd", Name: "T10pro-2rd"},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceRoot: defaultSourceRoot,
			TargetRoot: defaultTargetRoot,
			LogDir:     defaultLogDir,
		},
		Entities: DefaultEntities(),
		Classifier: Classifier{
			VideoExtensions: append([]string(nil), defaultVideoExtensions...),
		},
		Scan: Scan{
			IgnoreHidden:    true,
			IgnoreNames:     append([]string(nil), defaultIgnoreNames...),
			ProbeDimensions: true,
		},
		Review: Review{
			MinWidth:        defaultMinWidth,
			MinHeight:       defaultMinHeight,
			MinFileBytes:    defaultMinFileBytes,
			MaxFileBytes:    defaultMaxFileBytes,
			Inline:          true,
			ImageExtensions: append([]string(nil), defaultImageExtensions...),
		},
		Dedupe: Dedupe{
			VerifyContent: true,
		},
		History: History{
			Enabled: defaultHistoryEnable,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
