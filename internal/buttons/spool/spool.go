// internal/buttons/spool/spool.go
package spool

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Suffix marks a pressed button: <dir>/<name>.pressed
const Suffix = ".pressed"

// Source reads button levels from marker files in a directory.
// For bench use alongside the tag spool.
type Source struct {
	dir string
}

func New(dir string) (*Source, error) {
	if dir == "" {
		return nil, errors.New("button spool: directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("button spool: %w", err)
	}
	return &Source{dir: dir}, nil
}

func (s *Source) Pressed(name string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.dir, name+Suffix))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("button spool: %w", err)
}

func (s *Source) Close() error { return nil }
