package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("39, State-gov"), 0644))
	return path
}

func TestValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(slog.Default())

	t.Run("existing directory passes", func(t *testing.T) {
		assert.NoError(t, v.ValidateOutputDirectory(t.TempDir()))
	})

	t.Run("missing directory is created", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "results", "nested")
		require.NoError(t, v.ValidateOutputDirectory(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("write probe leaves no residue", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, v.ValidateOutputDirectory(dir))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestValidateFile(t *testing.T) {
	v := NewFileValidator(slog.Default())

	t.Run("readable file passes", func(t *testing.T) {
		assert.NoError(t, v.ValidateFile(touch(t, t.TempDir(), "adult.data")))
	})

	t.Run("missing file", func(t *testing.T) {
		err := v.ValidateFile(filepath.Join(t.TempDir(), "absent.csv"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("directory instead of file", func(t *testing.T) {
		err := v.ValidateFile(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})
}

func TestValidateSnapshotFile(t *testing.T) {
	v := NewFileValidator(slog.Default())

	t.Run("accepts ingestible formats", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"extract.csv", "adult.data", "survey.XLSX"} {
			assert.NoError(t, v.ValidateSnapshotFile(touch(t, dir, name)), name)
		}
	})

	t.Run("rejects unknown extension", func(t *testing.T) {
		err := v.ValidateSnapshotFile(touch(t, t.TempDir(), "notes.txt"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a recognized snapshot format")
	})

	t.Run("rejects Excel lock file by name alone", func(t *testing.T) {
		// The lock file is never created; the name is enough to reject.
		err := v.ValidateSnapshotFile(filepath.Join(t.TempDir(), "~$survey.xlsx"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "temporary")
	})

	t.Run("missing snapshot", func(t *testing.T) {
		err := v.ValidateSnapshotFile(filepath.Join(t.TempDir(), "adult.data"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})
}

func TestNilLoggerFallsBack(t *testing.T) {
	v := NewFileValidator(nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.logger)
}
