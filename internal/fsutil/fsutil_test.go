package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leftovers returns temp files left in dir.
func leftovers(t *testing.T, fsys afero.Fs, dir string) []string {
	t.Helper()
	matches, err := afero.Glob(fsys, filepath.Join(dir, tempPattern))
	require.NoError(t, err)
	return matches
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "changelog")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o600))

	require.NoError(t, WriteAtomic(path, []byte("new\n")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Empty(t, leftovers(t, afero.NewOsFs(), dir))
}

func TestWriteAtomic_NewFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/repo/debian", 0o755))

	require.NoError(t, writeAtomic(fsys, "/repo/debian/changelog", []byte("x")))

	info, err := fsys.Stat("/repo/debian/changelog")
	require.NoError(t, err)
	assert.Equal(t, defaultPerm, info.Mode().Perm())
}

func TestWriteAtomic_RenameFailureRemovesTemp(t *testing.T) {
	fsys := &failingFs{Fs: afero.NewMemMapFs(), failRename: "/repo/spec"}
	require.NoError(t, afero.WriteFile(fsys, "/repo/spec", []byte("old"), 0o644))

	err := writeAtomic(fsys, "/repo/spec", []byte("new"))
	require.Error(t, err)

	got, err := afero.ReadFile(fsys, "/repo/spec")
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
	assert.Empty(t, leftovers(t, fsys, "/repo"))
}

func TestTransaction_Commit(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/repo/package.json", []byte("1.0"), 0o644))

	tx := NewTransactionFs(fsys)
	tx.Stage("/repo/package.json", []byte("1.1"))
	tx.Stage("/repo/new.txt", []byte("created"))
	assert.Equal(t, []string{"/repo/package.json", "/repo/new.txt"}, tx.Paths())

	require.NoError(t, tx.Commit())

	for path, want := range map[string]string{"/repo/package.json": "1.1", "/repo/new.txt": "created"} {
		got, err := afero.ReadFile(fsys, path)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
	assert.Empty(t, leftovers(t, fsys, "/repo"))
}

func TestTransaction_RollbackOnFailure(t *testing.T) {
	fsys := &failingFs{Fs: afero.NewMemMapFs(), failRename: "/repo/rpm/product.spec"}
	files := map[string]string{
		"/repo/package.json":     "version 1.0",
		"/repo/debian/changelog": "debian old",
		"/repo/rpm/product.spec": "spec old",
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}

	tx := NewTransactionFs(fsys)
	tx.Stage("/repo/package.json", []byte("version 1.1"))
	tx.Stage("/repo/debian/changelog", []byte("debian new"))
	tx.Stage("/repo/created.txt", []byte("new file"))
	tx.Stage("/repo/rpm/product.spec", []byte("spec new"))

	err := tx.Commit()
	require.Error(t, err)
	assert.ErrorContains(t, err, "installing /repo/rpm/product.spec")

	for path, want := range files {
		got, err := afero.ReadFile(fsys, path)
		require.NoError(t, err)
		assert.Equal(t, want, string(got), path)
	}
	_, err = fsys.Stat("/repo/created.txt")
	assert.True(t, os.IsNotExist(err))

	for _, dir := range []string{"/repo", "/repo/debian", "/repo/rpm"} {
		assert.Empty(t, leftovers(t, fsys, dir))
	}
}

// failingFs fails renames onto one target path.
type failingFs struct {
	afero.Fs
	failRename string
}

func (f *failingFs) Rename(oldname, newname string) error {
	if newname == f.failRename {
		return errors.New("injected rename failure")
	}
	return f.Fs.Rename(oldname, newname)
}
