package extractor

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/veille-marches/tender-cli/internal/model"
)

// RestrictColumns keeps only the fields named in columns on every entry,
// dropping the rest from both value maps and recounting the stats.
// Matching is case and accent insensitive so database header spellings
// ("Référence_Procédure") reach their snake_case fields. An empty list
// keeps everything.
func RestrictColumns(entries []*model.Entry, columns []string) {
	if len(columns) == 0 {
		return
	}
	want := make(map[string]bool, len(columns))
	for _, c := range columns {
		want[foldColumn(c)] = true
	}
	for _, e := range entries {
		restrictRecord(e.ValeursExtraites, want)
		restrictRecord(e.ValeursGenerees, want)
		e.ComputeStats()
	}
}

func restrictRecord(r model.Record, want map[string]bool) {
	for f := range r {
		if !want[foldColumn(string(f))] {
			delete(r, f)
		}
	}
}

func foldColumn(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
