package normalize

import (
	"regexp"
	"strings"
)

var (
	reSpaceBeforePunct = regexp.MustCompile(` +([,;:.!?])`)
	reManyBlankLines   = regexp.MustCompile(`\n{3,}`)
	reTrailingSpaces   = regexp.MustCompile(`[ \t]+\n`)
	reRunsOfSpaces     = regexp.MustCompile(`[ \t]{2,}`)
)

// CleanOCR applies conservative cleanup to OCR or PDF-layer text before
// extraction. Only layout noise is touched; no character substitution is
// attempted, since a wrong 0/O or l/1 swap would corrupt amounts, dates
// and lot markers that the strategies depend on.
func CleanOCR(text string) string {
	if text == "" {
		return text
	}
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "’", "'")
	s = reTrailingSpaces.ReplaceAllString(s, "\n")
	s = reRunsOfSpaces.ReplaceAllString(s, " ")
	s = reSpaceBeforePunct.ReplaceAllString(s, "$1")
	s = reManyBlankLines.ReplaceAllString(s, "\n\n")
	return s
}
