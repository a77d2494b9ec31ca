// =============================================================================
// Gensoft Converter - Configuration Module
// =============================================================================
//
// Loads the application configuration. Values come from, in increasing order
// of precedence:
//   1. Built-in defaults (applyMainConfigDefaults)
//   2. The YAML config file (optional; a missing file is not an error)
//   3. Environment variables prefixed with GENSOFT_
//      (GENSOFT_DOWNLOAD_DIR, GENSOFT_CSV__DELIMITER, ...)
//
// The conversion itself has no tunables: lookup tables, literals and the
// output layout are fixed. Configuration only covers the surrounding file
// handling, history, logging and metrics.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "GENSOFT_"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// UploadDir receives staged copies of input files, named {uuid}_{name}.
	// Default: "./uploads"
	UploadDir string `koanf:"upload_dir"`

	// DownloadDir receives generated Gensoft workbooks.
	// Default: "./downloads"
	DownloadDir string `koanf:"download_dir"`

	// InboxDir is scanned by `process` when no files are given.
	// Default: "./inbox"
	InboxDir string `koanf:"inbox_dir"`

	// =========================================================================
	// FILE HANDLING
	// =========================================================================

	// AllowedExtensions lists the accepted input extensions, lower case with
	// the leading dot.
	AllowedExtensions []string `koanf:"allowed_extensions"`

	// MaxUploadBytes caps the size of a staged input file.
	// Default: 16 MiB
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// OutputPrefix is prepended to the original file name of each output.
	// Default: "gensoft_"
	OutputPrefix string `koanf:"output_prefix"`

	// Retention is the age after which `cleanup` removes staged and generated
	// files.
	// Default: 24h
	Retention time.Duration `koanf:"retention"`

	// CSV holds settings for CSV delivery files.
	CSV CSVSettings `koanf:"csv"`

	// =========================================================================
	// HISTORY
	// =========================================================================

	// HistoryFile is where past conversion attempts are kept.
	// Default: "<download_dir>/.history.yaml" (cleanup never removes it)
	HistoryFile string `koanf:"history_file"`

	// HistorySize is the number of attempts kept, newest first.
	// Default: 10
	HistorySize int `koanf:"history_size"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the number of files `process` converts at once.
	// Default: 4
	MaxConcurrency int `koanf:"max_concurrency"`

	// =========================================================================
	// LOGGING AND METRICS
	// =========================================================================

	// LogLevel is one of debug, info, warn, error.
	// Default: "info"
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	// Default: "text"
	LogFormat string `koanf:"log_format"`

	// MetricsFile, when set, receives Prometheus metrics in text exposition
	// format after each command (for the node_exporter textfile collector).
	MetricsFile string `koanf:"metrics_file"`
}

// CSVSettings contains settings for parsing CSV delivery files.
type CSVSettings struct {
	// Delimiter separates fields. Accepts a single character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `koanf:"delimiter"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the configuration from configPath (may be empty or
// missing) and the environment, applies defaults and creates the working
// directories.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	var config MainConfig
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// envKey maps GENSOFT_DOWNLOAD_DIR to download_dir and
// GENSOFT_CSV__DELIMITER to csv.delimiter.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Default returns a configuration with every default applied and no
// directories touched.
func Default() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// applyMainConfigDefaults sets default values for any unset option.
func applyMainConfigDefaults(config *MainConfig) {
	if config.UploadDir == "" {
		config.UploadDir = "./uploads"
	}
	if config.DownloadDir == "" {
		config.DownloadDir = "./downloads"
	}
	if config.InboxDir == "" {
		config.InboxDir = "./inbox"
	}
	if len(config.AllowedExtensions) == 0 {
		config.AllowedExtensions = []string{".xlsx", ".xls", ".csv"}
	}
	for i, ext := range config.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		config.AllowedExtensions[i] = ext
	}
	if config.MaxUploadBytes == 0 {
		config.MaxUploadBytes = 16 << 20
	}
	if config.OutputPrefix == "" {
		config.OutputPrefix = "gensoft_"
	}
	if config.Retention == 0 {
		config.Retention = 24 * time.Hour
	}
	if config.CSV.Delimiter == "" {
		config.CSV.Delimiter = ","
	}
	if config.HistoryFile == "" {
		config.HistoryFile = filepath.Join(config.DownloadDir, ".history.yaml")
	}
	if config.HistorySize == 0 {
		config.HistorySize = 10
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
}

// validateMainConfig checks value ranges and creates the working directories.
func validateMainConfig(config *MainConfig) error {
	if config.HistorySize < 0 {
		return fmt.Errorf("history_size must not be negative, got %d", config.HistorySize)
	}
	if config.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative, got %d", config.MaxConcurrency)
	}
	if config.MaxUploadBytes < 0 {
		return fmt.Errorf("max_upload_bytes must not be negative, got %d", config.MaxUploadBytes)
	}
	if config.Retention < 0 {
		return fmt.Errorf("retention must not be negative, got %s", config.Retention)
	}
	switch config.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", config.LogFormat)
	}

	for _, dir := range []string{config.UploadDir, config.DownloadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
