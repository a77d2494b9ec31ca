// =============================================================================
// Gensoft Converter - File Manager Utility
// =============================================================================
//
// File handling around a conversion:
//   - Directory management
//   - Input discovery in the inbox
//   - Staging inputs into the upload directory as {uuid}_{name}
//   - Output naming ({prefix}{original name}.xlsx)
//   - Removal of staged and generated files past their retention
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/ballistic-tools/gensoft-converter/internal/config"
	"github.com/ballistic-tools/gensoft-converter/internal/types"
)

// ErrUnsupportedFile is returned for inputs whose extension is not allowed.
var ErrUnsupportedFile = errors.New("unsupported file type")

// ErrFileTooLarge is returned when an input exceeds the upload limit.
var ErrFileTooLarge = errors.New("file exceeds the upload size limit")

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the converter.
type FileManager struct {
	// UploadDir receives staged copies of inputs.
	UploadDir string

	// DownloadDir receives generated workbooks.
	DownloadDir string

	// InboxDir is scanned for inputs.
	InboxDir string

	// AllowedExtensions are lower case with a leading dot.
	AllowedExtensions []string

	// MaxUploadBytes caps staged inputs. Zero disables the check.
	MaxUploadBytes int64

	// OutputPrefix is prepended to output file names.
	OutputPrefix string
}

// NewFileManager creates a FileManager from the application configuration.
func NewFileManager(cfg *config.MainConfig) *FileManager {
	return &FileManager{
		UploadDir:         cfg.UploadDir,
		DownloadDir:       cfg.DownloadDir,
		InboxDir:          cfg.InboxDir,
		AllowedExtensions: cfg.AllowedExtensions,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		OutputPrefix:      cfg.OutputPrefix,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the upload and download directories.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.UploadDir, fm.DownloadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// AllowedFile reports whether name has an accepted extension.
func (fm *FileManager) AllowedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext != "" && slices.Contains(fm.AllowedExtensions, ext)
}

// DiscoverInputFiles lists the accepted files directly inside dir, sorted by
// name. Hidden files and Excel lock files (~$name.xlsx) are skipped.
func (fm *FileManager) DiscoverInputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if fm.AllowedFile(name) {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}

// =============================================================================
// STAGING
// =============================================================================

// SanitizeFilename reduces name to a safe base name. Path components are
// dropped; anything but letters, digits, '.', '-' and '_' becomes '_'.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	clean := strings.Trim(b.String(), "._")
	if clean == "" {
		return "file"
	}
	return clean
}

// StageInput copies src into the upload directory as {uuid}_{name} and
// returns the staged path. The original file is left untouched.
func (fm *FileManager) StageInput(src string) (string, error) {
	if !fm.AllowedFile(src) {
		return "", fmt.Errorf("%s: %w", filepath.Base(src), ErrUnsupportedFile)
	}

	info, err := os.Stat(src)
	if err != nil {
		return "", &types.ReadError{Path: src, Err: err}
	}
	if info.IsDir() {
		return "", &types.ReadError{Path: src, Err: errors.New("is a directory")}
	}
	if fm.MaxUploadBytes > 0 && info.Size() > fm.MaxUploadBytes {
		return "", fmt.Errorf("%s (%d bytes): %w", filepath.Base(src), info.Size(), ErrFileTooLarge)
	}

	if err := os.MkdirAll(fm.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	staged := filepath.Join(fm.UploadDir, uuid.NewString()+"_"+SanitizeFilename(filepath.Base(src)))
	if err := copyFile(src, staged); err != nil {
		return "", fmt.Errorf("failed to stage input: %w", err)
	}
	return staged, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputFileName returns the output name for an input:
// "Dati Imp.xlsx" becomes "gensoft_Dati_Imp.xlsx" with the default prefix.
func (fm *FileManager) OutputFileName(original string) string {
	base := SanitizeFilename(filepath.Base(original))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fm.OutputPrefix + base + ".xlsx"
}

// OutputPath joins the download directory and OutputFileName.
func (fm *FileManager) OutputPath(original string) string {
	return filepath.Join(fm.DownloadDir, fm.OutputFileName(original))
}

// =============================================================================
// RETENTION
// =============================================================================

// CleanOldFiles removes regular files in dirs last modified more than maxAge
// before now, except the paths listed in keep (such as the history file). It
// returns the removed paths.
func CleanOldFiles(now time.Time, maxAge time.Duration, keep []string, dirs ...string) ([]string, error) {
	cutoff := now.Add(-maxAge)
	kept := make(map[string]bool, len(keep))
	for _, path := range keep {
		kept[filepath.Clean(path)] = true
	}

	var removed []string
	var errs []error
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to read %s: %w", dir, err))
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() || kept[path] {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if !info.ModTime().Before(cutoff) {
				continue
			}
			if err := os.Remove(path); err != nil {
				errs = append(errs, fmt.Errorf("failed to remove %s: %w", path, err))
				continue
			}
			removed = append(removed, path)
		}
	}

	return removed, errors.Join(errs...)
}

// copyFile copies a file from src to dst. Failing to open src is a
// *types.ReadError.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return &types.ReadError{Path: src, Err: err}
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		os.Remove(dst)
		return err
	}
	return destFile.Close()
}
