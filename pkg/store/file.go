package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/boxtree-io/boxtree/pkg/model"
)

// FileStore is a file-based diagram store for CLI/standalone usage.
// Diagrams are stored as JSON entry files in a base directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.local/share/boxtree/diagrams/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "boxtree", "diagrams")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", baseDir, err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Get retrieves a diagram by ID.
func (s *FileStore) Get(ctx context.Context, id string) (model.Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return model.Diagram{}, ErrNotFound
	}
	if err != nil {
		return model.Diagram{}, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return model.Diagram{}, fmt.Errorf("decode diagram %s: %w", id, err)
	}
	return e.Diagram, nil
}

// Put stores a diagram under its ID.
func (s *FileStore) Put(ctx context.Context, d model.Diagram) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(Entry{Diagram: d, UpdatedAt: time.Now()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(d.ID), data, 0644)
}

// Delete removes a diagram.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

// List returns summaries of all stored diagrams, sorted by ID.
func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(s.baseDir, "*.json"))
	if err != nil {
		return nil, err
	}

	var infos []Info
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			continue // skip corrupt entries
		}
		infos = append(infos, Info{
			ID:         e.Diagram.ID,
			Name:       e.Diagram.Name,
			Rectangles: len(e.Diagram.Rectangles),
			UpdatedAt:  e.UpdatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error { return nil }

// path returns the entry file for an ID, hex-escaping anything that is not
// filesystem-safe.
func (s *FileStore) path(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteString("_" + hex.EncodeToString([]byte(string(r))))
		}
	}
	return filepath.Join(s.baseDir, b.String()+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
