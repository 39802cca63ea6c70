package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKDL(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".bootstrap.kdl"), []byte(content), 0o644))
}

func TestLoadKDL_MissingFileReturnsNil(t *testing.T) {
	cfg, err := LoadKDL(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadKDL_ParsesScalarFields(t *testing.T) {
	dir := t.TempDir()
	writeKDL(t, dir, `
max_file_size 1048576
tier0_deadline_ms 50
tier1_deadline_ms 1000
`)

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, int64(1048576), cfg.MaxFileSizeBytes)
	assert.Equal(t, 50, cfg.Tier0DeadlineMs)
	assert.Equal(t, 1000, cfg.Tier1DeadlineMs)
	assert.Equal(t, dir, cfg.Root)
}

func TestLoadKDL_ParsesSizeSuffix(t *testing.T) {
	dir := t.TempDir()
	writeKDL(t, dir, `max_file_size "4MB"`)

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, int64(4*1024*1024), cfg.MaxFileSizeBytes)
}

func TestLoadKDL_ParsesIncludeExcludeLists(t *testing.T) {
	dir := t.TempDir()
	writeKDL(t, dir, `
include "**/*.ts" "**/*.tsx"
exclude "**/node_modules/**"
`)

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, []string{"**/*.ts", "**/*.tsx"}, cfg.IncludePatterns)
	assert.Equal(t, []string{"**/node_modules/**"}, cfg.ExcludePatterns)
}

func TestLoadKDL_RejectsMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	writeKDL(t, dir, `root "unterminated`)

	_, err := LoadKDL(dir)
	assert.Error(t, err)
}
