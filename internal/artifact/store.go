package artifact

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a requested artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Store manages generated files under a single directory.
// IDs are opaque filenames; traversal outside the directory is rejected.
type Store struct {
	dir string
}

// NewStore creates the artifact directory if needed.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("artifact dir is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the artifact directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Create opens a new uniquely named file for writing.
// The returned ID is the bare filename the file can later be resolved by.
func (s *Store) Create(prefix string, ext string) (string, *os.File, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", nil, fmt.Errorf("generate artifact id: %w", err)
	}
	id := fmt.Sprintf("%s_%s%s", prefix, hex.EncodeToString(bytes), ext)

	file, err := os.OpenFile(filepath.Join(s.dir, id), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", nil, fmt.Errorf("create artifact: %w", err)
	}
	return id, file, nil
}

// Remove deletes an artifact, ignoring missing files.
func (s *Store) Remove(id string) error {
	path, err := s.Resolve(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove artifact: %w", err)
	}
	return nil
}

// Resolve maps an artifact ID to its on-disk path.
// IDs carrying path separators or parent references are rejected.
func (s *Store) Resolve(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("invalid artifact id: %q", id)
	}
	path := filepath.Join(s.dir, id)
	if filepath.Dir(path) != filepath.Clean(s.dir) {
		return "", fmt.Errorf("invalid artifact id: %q", id)
	}
	return path, nil
}

// Open resolves and opens an existing artifact for reading.
func (s *Store) Open(id string) (*os.File, error) {
	path, err := s.Resolve(id)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	return file, nil
}
