package fetcher

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestZIP(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dce.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExtractArchive(t *testing.T) {
	t.Parallel()

	zipPath := createTestZIP(t, map[string]string{
		"RC.txt":          "Réf : 2024-A017",
		"annexes/lot.txt": "Lot 1 : Gants d'examen",
	})
	dest := t.TempDir()

	files, err := ExtractArchive(zipPath, dest)
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, f := range files {
		b, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.NotEmpty(t, b)
	}
}

func TestExtractArchive_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	zipPath := createTestZIP(t, map[string]string{
		"../evil.txt": "nope",
	})

	_, err := ExtractArchive(zipPath, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal path")
}

func TestExtractArchive_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ExtractArchive(filepath.Join(t.TempDir(), "absent.zip"), t.TempDir())
	require.Error(t, err)
}
