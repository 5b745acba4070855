package ocr

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/rotisserie/eris"
)

// PdfToText reads tender PDFs with the poppler pdftotext binary. This is
// the default provider; it needs no network and handles the born-digital
// PDFs that make up most consultation files.
type PdfToText struct {
	binPath string
}

// NewPdfToText returns a PdfToText provider running binPath, or "pdftotext"
// from PATH when empty.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// ExtractText converts one PDF to text on stdout. Layout mode keeps the
// column alignment of lot tables, which the table strategies depend on.
func (p *PdfToText) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, p.binPath, "-layout", "-enc", "UTF-8", pdfPath, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}
	return stdout.String(), nil
}
