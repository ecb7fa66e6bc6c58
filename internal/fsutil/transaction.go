package fsutil

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/ariel-frischer/bumpversion/internal/logger"
)

// Transaction installs several files so that either all of them are
// replaced or, on failure, the ones already replaced are restored.
type Transaction struct {
	fs     afero.Fs
	staged []stagedFile
}

type stagedFile struct {
	path string
	data []byte
}

type backup struct {
	path    string
	data    []byte
	existed bool
}

// NewTransaction returns a transaction on the OS filesystem.
func NewTransaction() *Transaction {
	return NewTransactionFs(afero.NewOsFs())
}

// NewTransactionFs returns a transaction on fsys.
func NewTransactionFs(fsys afero.Fs) *Transaction {
	return &Transaction{fs: fsys}
}

// Stage queues path to be replaced with data on Commit.
func (t *Transaction) Stage(path string, data []byte) {
	t.staged = append(t.staged, stagedFile{path: path, data: data})
}

// Paths returns the staged paths in order.
func (t *Transaction) Paths() []string {
	paths := make([]string, 0, len(t.staged))
	for _, f := range t.staged {
		paths = append(paths, f.path)
	}
	return paths
}

// Commit installs every staged file in order. If one install fails, files
// already installed are put back to their previous content (or removed if
// they did not exist) and the install error is returned.
func (t *Transaction) Commit() error {
	backups := make([]backup, 0, len(t.staged))
	for _, f := range t.staged {
		b, err := t.backup(f.path)
		if err != nil {
			return err
		}
		backups = append(backups, b)
	}

	for i, f := range t.staged {
		if err := writeAtomic(t.fs, f.path, f.data); err != nil {
			if rbErr := t.rollback(backups[:i]); rbErr != nil {
				return errors.Join(fmt.Errorf("installing %s: %w", f.path, err), rbErr)
			}
			return fmt.Errorf("installing %s: %w", f.path, err)
		}
		logger.Debug().Str("path", f.path).Int("bytes", len(f.data)).Msg("installed file")
	}
	return nil
}

func (t *Transaction) backup(path string) (backup, error) {
	data, err := afero.ReadFile(t.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return backup{path: path}, nil
	}
	if err != nil {
		return backup{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return backup{path: path, data: data, existed: true}, nil
}

// rollback restores backups in reverse install order.
func (t *Transaction) rollback(backups []backup) error {
	var errs []error
	for i := len(backups) - 1; i >= 0; i-- {
		b := backups[i]
		var err error
		if b.existed {
			err = writeAtomic(t.fs, b.path, b.data)
		} else {
			err = t.fs.Remove(b.path)
		}
		if err != nil {
			logger.Error().Str("path", b.path).Err(err).Msg("rollback failed")
			errs = append(errs, fmt.Errorf("restoring %s: %w", b.path, err))
			continue
		}
		logger.Warn().Str("path", b.path).Msg("restored previous content")
	}
	return errors.Join(errs...)
}
