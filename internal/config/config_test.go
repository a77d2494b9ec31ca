package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, "./downloads", cfg.DownloadDir)
	assert.Equal(t, "./inbox", cfg.InboxDir)
	assert.Equal(t, []string{".xlsx", ".xls", ".csv"}, cfg.AllowedExtensions)
	assert.Equal(t, int64(16<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "gensoft_", cfg.OutputPrefix)
	assert.Equal(t, 24*time.Hour, cfg.Retention)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.Equal(t, filepath.Join("./downloads", ".history.yaml"), cfg.HistoryFile)
	assert.Equal(t, 10, cfg.HistorySize)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadMainConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
upload_dir: ` + filepath.Join(dir, "up") + `
download_dir: ` + filepath.Join(dir, "down") + `
allowed_extensions: [XLSX, csv]
retention: 48h
history_size: 3
csv:
  delimiter: semicolon
log_format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "up"), cfg.UploadDir)
	assert.Equal(t, []string{".xlsx", ".csv"}, cfg.AllowedExtensions)
	assert.Equal(t, 48*time.Hour, cfg.Retention)
	assert.Equal(t, 3, cfg.HistorySize)
	assert.Equal(t, "semicolon", cfg.CSV.Delimiter)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, filepath.Join(dir, "down", ".history.yaml"), cfg.HistoryFile)
	assert.DirExists(t, cfg.UploadDir)
	assert.DirExists(t, cfg.DownloadDir)
}

func TestLoadMainConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history_size: 3\nlog_level: info\n"), 0o644))

	t.Setenv("GENSOFT_UPLOAD_DIR", filepath.Join(dir, "up"))
	t.Setenv("GENSOFT_DOWNLOAD_DIR", filepath.Join(dir, "down"))
	t.Setenv("GENSOFT_HISTORY_SIZE", "7")
	t.Setenv("GENSOFT_LOG_LEVEL", "debug")
	t.Setenv("GENSOFT_CSV__DELIMITER", "tab")

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.HistorySize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "tab", cfg.CSV.Delimiter)
	assert.Equal(t, filepath.Join(dir, "down"), cfg.DownloadDir)
}

func TestLoadMainConfigMissingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GENSOFT_UPLOAD_DIR", filepath.Join(dir, "up"))
	t.Setenv("GENSOFT_DOWNLOAD_DIR", filepath.Join(dir, "down"))

	cfg, err := LoadMainConfig(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.HistorySize)
}

func TestLoadMainConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GENSOFT_UPLOAD_DIR", filepath.Join(dir, "up"))
	t.Setenv("GENSOFT_DOWNLOAD_DIR", filepath.Join(dir, "down"))

	tests := map[string]string{
		"bad yaml":          "history_size: [",
		"negative history":  "history_size: -1",
		"negative workers":  "max_concurrency: -2",
		"unknown logformat": "log_format: xml",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := LoadMainConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestEnvKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "download_dir", envKey("GENSOFT_DOWNLOAD_DIR"))
	assert.Equal(t, "csv.delimiter", envKey("GENSOFT_CSV__DELIMITER"))
}
