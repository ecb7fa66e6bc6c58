// Package fsutil installs files atomically: each file is written to a temp
// file in its own directory and renamed over the target.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const defaultPerm fs.FileMode = 0o644

// tempPattern names temp files next to their target.
const tempPattern = ".bumpversion-*.tmp"

// WriteAtomic replaces path with data on the OS filesystem.
func WriteAtomic(path string, data []byte) error {
	return writeAtomic(afero.NewOsFs(), path, data)
}

// writeAtomic writes data to a temp file in path's directory, syncs it, gives
// it path's current mode and renames it over path. The temp file is removed
// on every failure path.
func writeAtomic(fsys afero.Fs, path string, data []byte) (err error) {
	perm := defaultPerm
	if info, statErr := fsys.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, statErr)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := afero.TempFile(fsys, filepath.Dir(path), tempPattern)
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			fsys.Remove(tmpPath) // Best effort cleanup
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = fsys.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting mode of temp file: %w", err)
	}
	if err = fsys.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file over %s: %w", path, err)
	}
	return nil
}
