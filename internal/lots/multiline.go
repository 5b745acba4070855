package lots

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/veille-marches/tender-cli/internal/model"
)

// MultiLineTitles recovers lots whose titles wrap across physical lines.
// A numbered line opens the lot; following lines that start with a letter
// continue the title until a new numbered line, a blank line, or the end
// of the text.
type MultiLineTitles struct{}

func (s *MultiLineTitles) Name() string { return "MultiLineTitles" }

var (
	reMultiOpen = regexp.MustCompile(`^(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]+?)\s*$`)
	reMultiCont = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]*$`)
	reAnyLotRef = regexp.MustCompile(`(?i)^lot\s*n°?\s*\d+`)
)

func (s *MultiLineTitles) Detect(text string) []model.LotCandidate {
	lines := strings.Split(text, "\n")
	var lots []model.LotCandidate

	for i := 0; i < len(lines); i++ {
		m := reMultiOpen.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			continue
		}
		numero, err := strconv.Atoi(m[1])
		if err != nil || !model.ValidNumero(numero) {
			continue
		}

		title := m[2]
		for j := i + 1; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" || reNextIsNewLot.MatchString(next) || !reMultiCont.MatchString(next) {
				break
			}
			title += " " + next
			i = j
		}

		estime, maxi := amountPairFromText(lotContext(text, numero))
		lots = append(lots, model.LotCandidate{
			Numero:        numero,
			Intitule:      cleanTitle(title),
			MontantEstime: estime,
			MontantMaxi:   maxi,
			Sources:       []string{"MultiLineTitles"},
			Confidence:    1,
		})
	}
	return dedupeByNumero(lots)
}

// lotContext returns the text between the "lot n° N" marker and the next
// lot marker, blank line, or end of document.
func lotContext(text string, numero int) string {
	marker := regexp.MustCompile(fmt.Sprintf(`(?i)lot\s*n°?\s*%d\b[^\n]*\n`, numero))
	loc := marker.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	rest := text[loc[1]:]

	end := len(rest)
	if i := strings.Index(rest, "\n\n"); i >= 0 && i < end {
		end = i
	}
	for off := 0; off < end; {
		nl := strings.Index(rest[off:end], "\n")
		if nl < 0 {
			break
		}
		lineStart := off + nl + 1
		if reAnyLotRef.MatchString(rest[lineStart:min(end, lineStart+40)]) {
			end = off + nl
			break
		}
		off = lineStart
	}
	return rest[:end]
}
