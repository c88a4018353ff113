package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store writes objects to a local directory. Intended for development and
// single-node deployments.
type Store struct {
	baseDir string
}

// NewStore creates the base directory if needed.
func NewStore(baseDir string) (*Store, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, errors.New("local store: baseDir is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("local store: create base dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// SaveWithKey stores the object at baseDir/storageKey.
func (s *Store) SaveWithKey(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error) {
	_ = contentType
	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, fmt.Errorf("local store: create dir: %w", err)
	}
	f, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("local store: create file: %w", err)
	}
	defer f.Close()
	n, err := io.Copy(f, r)
	if err != nil {
		return n, fmt.Errorf("local store: write file: %w", err)
	}
	return n, nil
}

// Open returns a reader for the object at storageKey.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("local store: open file: %w", err)
	}
	return f, nil
}

// resolve joins the key under baseDir and rejects path traversal.
func (s *Store) resolve(storageKey string) (string, error) {
	key := strings.TrimSpace(storageKey)
	if key == "" {
		return "", errors.New("local store: storage key is required")
	}
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	base, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", fmt.Errorf("local store: resolve base: %w", err)
	}
	abs, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("local store: resolve key: %w", err)
	}
	if abs != base && !strings.HasPrefix(abs, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("local store: invalid storage key %q", storageKey)
	}
	return fullPath, nil
}
