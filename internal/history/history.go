// =============================================================================
// Gensoft Converter - Conversion History
// =============================================================================
//
// Keeps the most recent conversion attempts, successful or not, newest first.
// The store has a fixed capacity: recording an attempt beyond it drops the
// oldest one. Entries are persisted as YAML so the history survives between
// command invocations.
//
// =============================================================================

package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"
)

// Status of a conversion attempt.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DefaultSize is the number of attempts kept when no size is configured.
const DefaultSize = 10

// Entry records one conversion attempt.
type Entry struct {
	ID               string    `yaml:"id"`
	Timestamp        time.Time `yaml:"timestamp"`
	OriginalFilename string    `yaml:"original_filename"`
	OutputFilename   string    `yaml:"output_filename,omitempty"`
	OutputPath       string    `yaml:"output_path,omitempty"`
	Status           string    `yaml:"status"`
	Rows             int       `yaml:"rows"`
	ErrorMessage     string    `yaml:"error_message,omitempty"`
	MissingColumns   []string  `yaml:"missing_columns,omitempty"`
}

// document is the on-disk layout.
type document struct {
	Entries []Entry `yaml:"entries"`
}

// History is a bounded, concurrency-safe record of conversion attempts.
type History struct {
	mu    sync.Mutex
	path  string
	size  int
	cache *lru.Cache[string, Entry]
}

// New returns an empty in-memory history holding at most size entries.
func New(size int) (*History, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, Entry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create history store: %w", err)
	}
	return &History{size: size, cache: cache}, nil
}

// Open loads the history persisted at path. A missing file yields an empty
// history that Save will create.
func Open(path string, size int) (*History, error) {
	h, err := New(size)
	if err != nil {
		return nil, err
	}
	h.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse history %s: %w", path, err)
	}

	// The file is newest first; replay oldest first so the newest survive.
	for i := len(doc.Entries) - 1; i >= 0; i-- {
		h.add(doc.Entries[i])
	}
	return h, nil
}

// Record adds an attempt, filling in ID and Timestamp when unset, and returns
// the stored entry.
func (h *History) Record(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.add(e)
	return e
}

func (h *History) add(e Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	h.cache.Add(e.ID, e)
}

// Entries returns the stored attempts, newest first.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	keys := h.cache.Keys()
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		if e, ok := h.cache.Peek(key); ok {
			entries = append(entries, e)
		}
	}
	slices.Reverse(entries)
	return entries
}

// Len returns the number of stored attempts.
func (h *History) Len() int {
	return h.cache.Len()
}

// Cap returns the maximum number of stored attempts.
func (h *History) Cap() int {
	return h.size
}

// Save writes the history to the path it was opened from. It is a no-op for
// histories created with New.
func (h *History) Save() error {
	if h.path == "" {
		return nil
	}

	data, err := yaml.Marshal(document{Entries: h.Entries()})
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := os.Rename(tmp, h.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace history: %w", err)
	}
	return nil
}
