package uploads

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrNotStaged = errors.New("staged file not found")

// Store keeps compressed photos on local disk between the moment a user
// selects them and the moment the submission uploads them to the remote API.
// Staged files are OS-level resources: they are released explicitly via
// Remove, never implicitly.
type Store struct {
	dir       string
	publicURL string
}

func NewStore(dir, publicURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Dir returns the directory staged files live in, for static serving.
func (s *Store) Dir() string {
	return s.dir
}

// Stage writes data under a fresh uuid name and returns the staged id plus
// the preview URL the frontend shows.
func (s *Store) Stage(data []byte) (id, previewURL string, err error) {
	id = uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(s.dir, id), data, 0o644); err != nil {
		return "", "", fmt.Errorf("stage file: %w", err)
	}
	return id, s.publicURL + "/" + id, nil
}

// Open returns the staged bytes for a submission upload.
func (s *Store) Open(id string) ([]byte, error) {
	path, err := s.safePath(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotStaged
	}
	return data, err
}

// Remove deletes a staged file. Removing an already-released id is not an
// error; teardown must be idempotent because reset and entry removal can
// both target the same file.
func (s *Store) Remove(id string) error {
	path, err := s.safePath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RemoveAll releases a batch of staged ids, keeping the first error.
func (s *Store) RemoveAll(ids []string) error {
	var firstErr error
	for _, id := range ids {
		if err := s.Remove(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Store) safePath(id string) (string, error) {
	if id == "" || strings.Contains(id, "/") || strings.Contains(id, "..") {
		return "", ErrNotStaged
	}
	return filepath.Join(s.dir, id), nil
}
