package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFileInParentDirs(t *testing.T) {
	tempDir := t.TempDir()

	const cfgName = ".werk.toml"

	err := os.WriteFile(filepath.Join(tempDir, cfgName), []byte("1"), 0o644)
	require.NoError(t, err)

	subDir := filepath.Join(tempDir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(subDir, 0o775))

	path, err := FindFileInParentDirs(subDir, cfgName)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, cfgName), path)
}

func TestFindFileInParentDirsNotFound(t *testing.T) {
	tempDir := t.TempDir()

	_, err := FindFileInParentDirs(tempDir, "does-not-exist-anywhere.toml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindFilesInSubDir(t *testing.T) {
	tempDir := t.TempDir()

	const cfgName = ".component.toml"

	paths := []string{
		filepath.Join(tempDir, "a", cfgName),
		filepath.Join(tempDir, "a", "b", cfgName),
		filepath.Join(tempDir, "c", cfgName),
	}

	for _, p := range paths {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o775))
		require.NoError(t, os.WriteFile(p, []byte("1"), 0o644))
	}

	found, err := FindFilesInSubDir(tempDir, cfgName, 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, paths, found)
}

func TestFindFilesInSubDirRespectsMaxDepth(t *testing.T) {
	tempDir := t.TempDir()

	const cfgName = ".component.toml"

	deepFile := filepath.Join(tempDir, "a", "b", "c", cfgName)
	require.NoError(t, os.MkdirAll(filepath.Dir(deepFile), 0o775))
	require.NoError(t, os.WriteFile(deepFile, []byte("1"), 0o644))

	found, err := FindFilesInSubDir(tempDir, cfgName, 1)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFileSize(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "f")

	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o644))

	size, err := FileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
}
