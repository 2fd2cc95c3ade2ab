package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorblint/pkg/fsutil"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user_factory.rb")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "factory :user do\nend\n")

	content, info, err := fsutil.ReadFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "factory :user do\nend\n", string(content))
	assert.Equal(t, path, info.Path)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, os.FileMode(0o600), info.Mode.Perm())
}

func TestReadFile_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.rb"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.ReadFile(context.Background(), t.TempDir())
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = fsutil.ReadFile(ctx, writeFile(t, "x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "a = 1\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.False(t, modified)

		modified, err = fsutil.CheckModifiedQuick(ctx, info)
		require.NoError(t, err)
		assert.False(t, modified)
	})

	t.Run("same size same mtime different content", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "a = 1\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("b = 2\n"), 0o600))
		require.NoError(t, os.Chtimes(path, info.ModTime, info.ModTime))

		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)

		modified, err = fsutil.CheckModifiedQuick(ctx, info)
		require.NoError(t, err)
		assert.False(t, modified)
	})

	t.Run("mtime changed", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "a = 1\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		later := info.ModTime.Add(time.Hour)
		require.NoError(t, os.Chtimes(path, later, later))

		modified, err := fsutil.CheckModifiedQuick(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "a = 1\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		modified, err := fsutil.CheckModified(ctx, info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()
		_, err := fsutil.CheckModified(ctx, nil)
		require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "old\n")

	require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("new\n"), 0o640))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(content))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), stat.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteAtomic_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nope", "file.rb")
	err := fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0)
	require.Error(t, err)
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	path := writeFile(t, "original\n")

	created, err := fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, fsutil.BackupExists(path, fsutil.BackupModeSidecar))

	backup, err := os.ReadFile(path + fsutil.BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(backup))

	// A second backup keeps the first content.
	require.NoError(t, os.WriteFile(path, []byte("changed\n"), 0o600))
	created, err = fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.False(t, created)

	backup, err = os.ReadFile(path + fsutil.BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(backup))
}

func TestCreateBackup_Disabled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := writeFile(t, "x\n")

	for _, cfg := range []fsutil.BackupConfig{
		fsutil.DefaultBackupConfig(),
		{Enabled: true, Mode: fsutil.BackupModeNone},
	} {
		created, err := fsutil.CreateBackup(ctx, path, cfg)
		require.NoError(t, err)
		assert.False(t, created)
	}
	assert.False(t, fsutil.BackupExists(path, fsutil.BackupModeSidecar))

	created, err := fsutil.CreateBackup(ctx, filepath.Join(t.TempDir(), "missing.rb"),
		fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestBackupPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a.rb.gorblint.bak", fsutil.BackupPath("a.rb", fsutil.BackupModeSidecar))
	assert.Equal(t, "a.rb.gorblint.bak", fsutil.BackupPath("a.rb", "weird"))
	assert.Empty(t, fsutil.BackupPath("a.rb", fsutil.BackupModeNone))
}
