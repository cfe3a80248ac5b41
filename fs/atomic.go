// Package fs provides file-based output and caching for webnovel.
package fs

import (
	"errors"
	"os"
	"path/filepath"
)

// AtomicFile is an output file that only appears under its final name on
// Commit. Data is written to name.tmp in the same directory and renamed.
type AtomicFile struct {
	dir  string
	name string
	f    *os.File
}

// CreateAtomic creates dir if needed and opens a temporary file for name.
func CreateAtomic(dir, name string) (*AtomicFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	a := &AtomicFile{dir: dir, name: name}
	f, err := os.Create(a.tempPath())
	if err != nil {
		return nil, err
	}
	a.f = f
	return a, nil
}

func (a *AtomicFile) tempPath() string {
	return filepath.Join(a.dir, a.name+".tmp")
}

// Path returns the final path of the file.
func (a *AtomicFile) Path() string {
	return filepath.Join(a.dir, a.name)
}

// Write writes to the temporary file.
func (a *AtomicFile) Write(p []byte) (int, error) {
	return a.f.Write(p)
}

// Commit flushes the temporary file and renames it to its final path.
func (a *AtomicFile) Commit() (string, error) {
	if err := a.f.Sync(); err != nil {
		_ = a.Abort()
		return "", err
	}
	if err := a.f.Close(); err != nil {
		_ = a.Abort()
		return "", err
	}
	if err := os.Rename(a.tempPath(), a.Path()); err != nil {
		_ = a.Abort()
		return "", err
	}
	return a.Path(), nil
}

// Abort removes the temporary file. It is safe to call more than once.
func (a *AtomicFile) Abort() error {
	_ = a.f.Close()
	if err := os.Remove(a.tempPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
