package extractor

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/veille-marches/tender-cli/internal/fetcher"
	"github.com/veille-marches/tender-cli/internal/model"
)

// ExtractFile reads a document from disk and runs the text pipeline on it.
// PDF, XLSX and plain-text inputs are supported.
func (e *Extractor) ExtractFile(ctx context.Context, path string) ([]*model.Entry, error) {
	text, err := e.ReadDocument(ctx, path)
	if err != nil {
		return nil, err
	}
	return e.ExtractText(ctx, text)
}

// ReadDocument returns the text content of a document, dispatching on file
// extension. PDFs go through the configured OCR provider, spreadsheets and
// CSV exports are flattened to tab-separated text, ZIP archives are treated
// as one consultation and read whole. Unknown extensions are read as plain
// text.
func (e *Extractor) ReadDocument(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return e.pdf.ExtractText(ctx, path)
	case ".xlsx", ".xls":
		rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
		if err != nil {
			return "", err
		}
		return fetcher.RowsToText(rows), nil
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return "", eris.Wrapf(err, "extractor: read %s", path)
		}
		defer f.Close() //nolint:errcheck
		rows, err := fetcher.ReadCSV(f, fetcher.CSVOptions{})
		if err != nil {
			return "", err
		}
		return fetcher.RowsToText(rows), nil
	case ".zip":
		return e.readArchive(ctx, path)
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			return "", eris.Wrapf(err, "extractor: read %s", path)
		}
		return string(b), nil
	}
}

// archiveExtensions are the member types read out of a consultation archive.
var archiveExtensions = map[string]bool{
	".pdf":  true,
	".xlsx": true,
	".xls":  true,
	".csv":  true,
	".txt":  true,
}

// readArchive flattens a zipped consultation into one text blob so the lot
// and field patterns see all the documents of the procedure at once.
func (e *Extractor) readArchive(ctx context.Context, path string) (string, error) {
	dir, err := os.MkdirTemp("", "dce-*")
	if err != nil {
		return "", eris.Wrap(err, "extractor: temp dir")
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	files, err := fetcher.ExtractArchive(path, dir)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, f := range files {
		if !archiveExtensions[strings.ToLower(filepath.Ext(f))] {
			continue
		}
		text, err := e.ReadDocument(ctx, f)
		if err != nil {
			return "", err
		}
		if s := strings.TrimSpace(text); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
