// Package filestore persists received file payloads under a download
// directory. The relay core never touches the filesystem; this is the
// client's file-writing collaborator.
package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEmptyFilename is returned when a file message carries no usable name.
var ErrEmptyFilename = errors.New("empty filename")

// Store writes received files into a single directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is created lazily on the
// first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the download directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the file body under its base name and returns the path
// written. Any directory components in the name are stripped so a sender
// cannot place files outside the store. An existing file with the same name
// is overwritten.
func (s *Store) Save(filename string, data []byte) (string, error) {
	name := filepath.Base(filename)
	if name == "." || name == ".." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("save %q: %w", filename, ErrEmptyFilename)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("saving %s: %w", name, err)
	}
	return path, nil
}
