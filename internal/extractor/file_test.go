package extractor

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadDocument_PlainText(t *testing.T) {
	e := newTestExtractor()
	path := writeDoc(t, "avis.txt", "Réf : 2024-A017\n")

	text, err := e.ReadDocument(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Réf : 2024-A017\n", text)
}

func TestReadDocument_CSVFlattensRows(t *testing.T) {
	e := newTestExtractor()
	path := writeDoc(t, "export.csv", "reference;intitule\n2024-A017;Gants d'examen\n")

	text, err := e.ReadDocument(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "reference\tintitule\n2024-A017\tGants d'examen\n", text)
}

func TestReadDocument_ArchiveJoinsMembers(t *testing.T) {
	e := newTestExtractor()

	zipPath := filepath.Join(t.TempDir(), "dce.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, entry := range []struct{ name, content string }{
		{"RC.txt", "Réf : 2024-A017"},
		{"annexes/lots.txt", "Lot 1 : Gants d'examen"},
		{"meta.json", `{"ignored":true}`},
	} {
		w, err := zw.Create(entry.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(entry.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	text, err := e.ReadDocument(context.Background(), zipPath)
	require.NoError(t, err)
	assert.Equal(t, "Réf : 2024-A017\n\nLot 1 : Gants d'examen", text)
	assert.NotContains(t, text, "ignored")
}

func TestReadDocument_MissingFile(t *testing.T) {
	e := newTestExtractor()

	_, err := e.ReadDocument(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}
