package lots

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/veille-marches/tender-cli/internal/model"
)

// LineAnalysis walks the document line by line. Inside a detected lot
// section it extracts lots directly, including several lots collated onto
// one physical line by PDF text extraction. Outside a section it opens a
// lot on a numbered line and extends its title over the following lines
// until amounts or a new lot marker appear.
type LineAnalysis struct{}

func (s *LineAnalysis) Name() string { return "LineAnalysis" }

// lotSectionKeywords mark entry into a lot listing.
var lotSectionKeywords = []string{
	"allotissement", "lotissement", "répartition", "lots", "lot n°", "lot numéro",
	"lot:", "lots:", "numéro du lot", "n° lot", "lot n", "lot numero",
	"prestation", "prestations", "description des lots", "liste des lots",
	"tableau", "table", "annexe", "détail", "détails",
}

// sectionExitKeywords mark the end of a lot listing when they head a long
// non-numbered line.
var sectionExitKeywords = []string{"article", "chapitre", "section", "annexe"}

var (
	reLotShaped   = regexp.MustCompile(`^(\d{1,3})\s+[A-Za-zÀ-ÖØ-öø-ÿ]`)
	reStartsDigit = regexp.MustCompile(`^\d+`)

	// Lot-open cascade. Ordered most structured first; patterns with four
	// groups carry inline amounts.
	lotOpenPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)(?:\s+\d{1,3}(?:\s\d{3})*|$)`),
		regexp.MustCompile(`^(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)\s*$`),
		regexp.MustCompile(`^(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)\s*-\s*(\d{1,3}(?:\s\d{3})*)\s*€?\s*-\s*(\d{1,3}(?:\s\d{3})*)\s*€?`),
		regexp.MustCompile(`^(?:LOT|Lot)\s*(\d+)[\s:-]+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)(?:\s+\d|$)`),
		regexp.MustCompile(`^(?:LOT|Lot)\s*(\d+)[\s:-]+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)\s*-\s*(\d{1,3}(?:\s\d{3})*)\s*€?\s*-\s*(\d{1,3}(?:\s\d{3})*)\s*€?`),
		regexp.MustCompile(`^(\d+)[\s.-]+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)(?:\s+\d|$)`),
		regexp.MustCompile(`^(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+)`),
		regexp.MustCompile(`^(\d+)\s*\)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+)`),
		regexp.MustCompile(`^\s*\(?\s*(\d+)\s*\)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+)`),
		regexp.MustCompile(`^(?:N°|n°|N|n)\s*(\d+)[\s:-]+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+)`),
		regexp.MustCompile(`^(\d+)\s+([a-zà-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+)`),
		regexp.MustCompile(`^(\d+)\s{2,}([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+)`),
	}

	reLineHasAmount = regexp.MustCompile(`\d+(?:\s\d{3})*\s*€`)
)

func (s *LineAnalysis) Detect(text string) []model.LotCandidate {
	lines := strings.Split(text, "\n")
	var lots []model.LotCandidate
	var current *model.LotCandidate
	inLotSection := false
	autoDetect := false

	flush := func() {
		if current != nil {
			lots = append(lots, *current)
			current = nil
		}
	}

	for i := range lines {
		line := strings.TrimSpace(lines[i])
		lower := strings.ToLower(line)

		if containsAny(lower, lotSectionKeywords) {
			inLotSection = true
			autoDetect = true
			continue
		}
		if !inLotSection && reLotShaped.MatchString(line) {
			autoDetect = true
		}
		if inLotSection && containsAny(lower, sectionExitKeywords) && len(line) > 20 && !reStartsDigit.MatchString(line) {
			inLotSection = false
			continue
		}

		// Inside a lot section only the collated extractors run; they
		// cover single lots per line as the degenerate case.
		if inLotSection || autoDetect {
			if found := collatedLotsFromLine(line); len(found) > 0 {
				flush()
				lots = append(lots, found...)
				continue
			}
			if lot := collatedLotAtEnd(line); lot != nil {
				flush()
				lots = append(lots, *lot)
			}
			continue
		}

		if m, withAmounts := matchLotOpen(line); m != nil && i*100 < len(lines)*95 {
			flush()
			numero, _ := strconv.Atoi(m[1])
			if !model.ValidNumero(numero) {
				continue
			}
			current = &model.LotCandidate{
				Numero:     numero,
				Intitule:   strings.TrimSpace(m[2]),
				Sources:    []string{"LineAnalysis"},
				Confidence: 1,
			}
			if withAmounts {
				current.MontantEstime = parseTableAmount(m[3])
				current.MontantMaxi = parseTableAmount(m[4])
			}
			extendLotTitle(current, lines, i)
			continue
		}

		// A following line can still carry the open lot's amount pair.
		if current != nil && reLineHasAmount.MatchString(line) {
			if amounts := amountsInText(line); len(amounts) >= 2 {
				current.MontantEstime = amounts[0]
				current.MontantMaxi = amounts[1]
			}
		}
	}
	flush()

	return dedupeByNumero(lots)
}

// matchLotOpen tries the cascade against a line start. The second return
// reports whether the match carried an inline amount pair.
func matchLotOpen(line string) ([]string, bool) {
	for _, re := range lotOpenPatterns {
		if m := re.FindStringSubmatch(line); m != nil {
			return m, len(m) > 4 && m[3] != "" && m[4] != ""
		}
	}
	return nil, false
}

var (
	reLotStartAny  = regexp.MustCompile(`(?:^|\s)(\d{1,3})\s+[A-Za-zÀ-ÖØ-öø-ÿ]`)
	reSegmentShape = regexp.MustCompile(`^(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][^\n]*?)\s*$`)
)

// collatedLotsFromLine splits a line holding several lots glued together,
// e.g. "20 Micro-manipulateur 400 000 € 800 000 € 21 Station complète ...".
// The line is cut at every "number followed by a word" boundary and each
// segment parsed on its own; fewer than two segments means the line is not
// collated.
func collatedLotsFromLine(line string) []model.LotCandidate {
	locs := reLotStartAny.FindAllStringSubmatchIndex(line, -1)
	if len(locs) < 2 {
		return nil
	}

	var lots []model.LotCandidate
	for k, loc := range locs {
		start := loc[2]
		end := len(line)
		if k+1 < len(locs) {
			end = locs[k+1][2]
		}
		seg := strings.TrimSpace(line[start:end])
		m := reSegmentShape.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		numero, err := strconv.Atoi(m[1])
		if err != nil || !model.ValidNumero(numero) {
			continue
		}
		title, amounts := splitTitleAndAmounts(m[2])
		if title == "" {
			continue
		}
		lot := model.LotCandidate{
			Numero:     numero,
			Intitule:   cleanTitle(title),
			Sources:    []string{"LineAnalysis"},
			Confidence: 1,
		}
		if len(amounts) >= 2 {
			lot.MontantEstime = amounts[0]
			lot.MontantMaxi = amounts[1]
		}
		lots = append(lots, lot)
	}
	if len(lots) < 2 {
		return nil
	}
	return lots
}

// splitTitleAndAmounts cuts a lot segment remainder into its title and the
// trailing amount tokens.
func splitTitleAndAmounts(rest string) (string, []float64) {
	fields := strings.Fields(rest)
	cut := len(fields)
	for i, f := range fields {
		if numericToken(strings.TrimSuffix(f, "€")) {
			cut = i
			break
		}
	}
	title := strings.Join(fields[:cut], " ")
	amounts := amountsInText(strings.Join(fields[cut:], " "))
	return title, amounts
}

// fauxLotKeywords are section headings that look like numbered lots but
// belong to the consultation rules.
var fauxLotKeywords = []string{
	"objet de la consultation", "nomenclature communautaire", "lieux d",
	"contenu du dossier", "mise", "modification du dce", "questions des candidats",
	"modalit", "horodatage", "copie de sauvegarde", "antivirus",
	"documents", "examen des candidatures", "jugement des offres", "mise au point",
}

// collatedEndPatterns locate a single lot attached to the end of a line
// that starts with unrelated content (page footers, amounts of a previous
// lot).  Patterns with four groups carry their own amounts prefix.
var collatedEndPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\s\d{3})*)\s*€?\s*(\d+(?:\s\d{3})*)\s*€?\s*\d+\s+sur\s+\d+\s+(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)(?:\s|$)`),
	regexp.MustCompile(`\d+\s+sur\s+\d+\s+(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)(?:\s|$)`),
	regexp.MustCompile(`(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)\s*$`),
	regexp.MustCompile(`(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+)`),
}

func collatedLotAtEnd(line string) *model.LotCandidate {
	for _, re := range collatedEndPatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var numeroStr, rawTitle string
		if len(m) > 4 {
			numeroStr, rawTitle = m[3], m[4]
		} else {
			numeroStr, rawTitle = m[1], m[2]
		}
		numero, err := strconv.Atoi(numeroStr)
		if err != nil || !model.ValidNumero(numero) {
			continue
		}
		intitule := cleanTitle(rawTitle)
		if len(intitule) < 3 {
			continue
		}
		if containsAny(strings.ToLower(intitule), fauxLotKeywords) {
			continue
		}
		return &model.LotCandidate{
			Numero:     numero,
			Intitule:   intitule,
			Sources:    []string{"LineAnalysis"},
			Confidence: 1,
		}
	}
	return nil
}

var (
	reNextIsNewLot    = regexp.MustCompile(`^\d+\s+[A-Za-zÀ-ÖØ-öø-ÿ]`)
	reNextIsLotMarker = regexp.MustCompile(`^(?:LOT|Lot)\s*\d+`)
	reNextIsNumbered  = regexp.MustCompile(`^\d+[.-]`)
	reAmountLeading   = regexp.MustCompile(`^\d+(?:\s\d{3})*\s*€`)
	reOnlyFiguresLine = regexp.MustCompile(`^[€\s\d,.-]+$`)
	reAllCapsLine     = regexp.MustCompile(`^[A-Z\s]+$`)
	reShortCapsToken  = regexp.MustCompile(`^[A-Z]{2,}\s*$`)
	reTwoLetterStart  = regexp.MustCompile(`^\d+\s+[A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ]`)
)

// extendLotTitle scans up to four lines past a lot opening, completing the
// title and picking up the amount pair. Stops on the first amount pair or
// any new lot marker.
func extendLotTitle(lot *model.LotCandidate, lines []string, start int) {
	limit := start + 5
	if limit > len(lines) {
		limit = len(lines)
	}
	for j := start + 1; j < limit; j++ {
		next := strings.TrimSpace(lines[j])
		if reNextIsNewLot.MatchString(next) || reNextIsLotMarker.MatchString(next) || reNextIsNumbered.MatchString(next) {
			break
		}
		if next == "" {
			continue
		}
		if amounts := amountsInText(next); len(amounts) >= 2 && (amounts[0] > 0 || amounts[1] > 0) {
			lot.MontantEstime = amounts[0]
			lot.MontantMaxi = amounts[1]
			break
		}
		if len(next) > 3 &&
			!reAmountLeading.MatchString(next) &&
			!reOnlyFiguresLine.MatchString(next) &&
			!reAllCapsLine.MatchString(next) &&
			!reShortCapsToken.MatchString(next) &&
			!reTwoLetterStart.MatchString(next) {
			if lot.Intitule != "" && !strings.HasSuffix(lot.Intitule, " ") {
				lot.Intitule += " "
			}
			lot.Intitule += next
		}
	}
}

// dedupeByNumero keeps the first occurrence of each numero and applies
// final title cleanup.
func dedupeByNumero(lots []model.LotCandidate) []model.LotCandidate {
	seen := make(map[int]bool, len(lots))
	out := lots[:0:0]
	for _, lot := range lots {
		if seen[lot.Numero] {
			continue
		}
		seen[lot.Numero] = true
		lot.Intitule = cleanTitle(lot.Intitule)
		out = append(out, lot)
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
