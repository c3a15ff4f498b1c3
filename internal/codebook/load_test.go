package codebook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docs", "codebook.yaml")

	original := Default()
	require.NoError(t, original.Export(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, original.Version, loaded.Version)
	assert.Equal(t, original.Sentinel, loaded.Sentinel)
	assert.Equal(t, original.Columns, loaded.Columns)
	assert.Equal(t, original.Defaults, loaded.Defaults)
	assert.Equal(t, original.Collapses, loaded.Collapses)
	assert.Equal(t, original.Derives, loaded.Derives)
	assert.Equal(t, original.Bins, loaded.Bins)
	assert.Equal(t, original.Drop, loaded.Drop)
}

func TestExportIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")

	require.NoError(t, Default().Export(first))
	require.NoError(t, Default().Export(second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	write := func(t *testing.T, name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("minimal valid codebook", func(t *testing.T) {
		path := write(t, "minimal.yaml", `
version: test/1
sentinel: "?"
columns:
  - name: age
    kind: numeric
  - name: workclass
    kind: categorical
defaults:
  workclass: unknown
`)
		cb, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "test/1", cb.Version)
		assert.Equal(t, "unknown", cb.Defaults["workclass"])
		assert.Empty(t, cb.Collapses)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		path := write(t, "typo.yaml", `
version: test/1
sentinel: "?"
colums:
  - name: age
    kind: numeric
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse codebook")
	})

	t.Run("invalid codebook fails validation", func(t *testing.T) {
		path := write(t, "badsentinel.yaml", `
version: test/1
sentinel: "xx"
columns:
  - name: age
    kind: numeric
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single rune")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read codebook")
	})
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("empty path yields default", func(t *testing.T) {
		cb, err := LoadOrDefault("")
		require.NoError(t, err)
		assert.Equal(t, DefaultVersion, cb.Version)
	})

	t.Run("explicit path is loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cb.yaml")
		custom := Default()
		custom.Version = "census-adult/2"
		require.NoError(t, custom.Export(path))

		cb, err := LoadOrDefault(path)
		require.NoError(t, err)
		assert.Equal(t, "census-adult/2", cb.Version)
	})
}
