package lots

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/veille-marches/tender-cli/internal/model"
)

// FlexiblePatterns is the fallback detector. It fires a battery of lot
// templates at the lot section (or the whole text when no section is
// found), scores each template by match count times average title length,
// and keeps only the matches of the single best template. Mixing matches
// across templates multiplies false positives, so the winner takes all.
type FlexiblePatterns struct{}

func (s *FlexiblePatterns) Name() string { return "FlexiblePatterns" }

var (
	reSectionAnchor = regexp.MustCompile(`(?i)(allotissement|lotissement|répartition|lots?\b|lot\s*n°|lot\s*numéro)`)
	reSectionStop   = regexp.MustCompile(`(?i)\n\s*(article|chapitre|section|annexe)\b`)
)

// flexTemplate couples a compiled pattern with whether it belongs to the
// amount-capturing block that earns the doubled score.
type flexTemplate struct {
	re         *regexp.Regexp
	amountsSet bool
}

// flexTemplates mirror the pattern battery of the line formats seen in the
// wild: bare tables, dashed amounts, LOT markers, parenthesized numbers,
// article-style numbering. Order is meaningful only for tie-breaking.
var flexTemplates = []flexTemplate{
	{re: regexp.MustCompile(`(?m)^(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ /().\t-]+)$`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)\s+(\d+(?:\s\d{3})*)\s*€?\s+(\d+(?:\s\d{3})*)\s*€?`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]+?)\s+(\d+(?:\s\d{3})*)\s+(\d+(?:\s\d{3})*)\s*`)},
	{re: regexp.MustCompile(`(?m)^(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ /().\t-]+?)\s*$`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]+?)\s+(\d+(?:\s\d{3})*)\s+(\d+(?:\s\d{3})*)\s*(?:\n|$)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]+?)\s+(\d+(?:\s\d{3})*)\s*€\s+(\d+(?:\s\d{3})*)\s*€`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]+?)\s+(\d+(?:\s\d{3})*)\s+(\d+(?:\s\d{3})*)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]+?)\s+(\d+(?:\s\d{3})*)\s+(\d+(?:\s\d{3})*)\s*€?\s*`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]+?)\s+(\d+(?:\s\d{3})*)\s*€`)},
	{re: regexp.MustCompile(`(?i)lot\s*(\d+)[\s:]+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]+?)(?:\n|$)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([^€\n]{10,100})\s+(\d+(?:\s\d{3})*)\s*€`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]{10,80})(?:\n|$)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)[\s.-]+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]{10,80})(?:\n|$)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s*\(([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]{10,80})\)(?:\n|$)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]{5,100})(?:\n|$)`)},
	{re: regexp.MustCompile(`(?i)article\s*(\d+)[\s:]+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]{10,80})(?:\n|$)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/()-]{15,150})(?:\s+\d|$|\n)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/()-]{10,120})(?:\s+\d|$|\n)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/()-]+?)(?:\s+\d{1,3}(?:\s\d{3})*|$|\n)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]{10,200})(?:\s+\d|$|\n)`)},
	{re: regexp.MustCompile(`(?i)prestation\s*(\d+)[\s:]+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/-]{10,80})(?:\n|$)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]{5,50})(?:\s|$)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)(?:\s|$)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(?:LOT|Lot)\s*(\d+)[\s:-]+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)(?:\s+\d|$)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(?:LOT|Lot)\s*(\d+)[\s:-]+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(?:LOT|Lot)\s*(\d+)[\s:-]+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)(?:\s|$)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ /().\t-]+?)(?:\s|$)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ /().\t-]+)`)},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)\s*-\s*(\d+(?:\s\d{3})*)\s*€?\s*-\s*(\d+(?:\s\d{3})*)\s*€?`), amountsSet: true},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(?:LOT|Lot)\s*(\d+)[\s:-]+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)\s*-\s*(\d+(?:\s\d{3})*)\s*€?\s*-\s*(\d+(?:\s\d{3})*)\s*€?`), amountsSet: true},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)\s*-\s*(\d{1,3}(?:,\d{3})*)\s*€?\s*-\s*(\d{1,3}(?:,\d{3})*)\s*€?`), amountsSet: true},
	{re: regexp.MustCompile(`(?m)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)\s*-\s*(\d+)€?\s*-\s*(\d+)€?`), amountsSet: true},
	{re: regexp.MustCompile(`(?mi)(?:^|\n)(\d+)\s+([A-Za-zÀ-ÖØ-öø-ÿ][A-Za-zÀ-ÖØ-öø-ÿ\s/().-]+?)\s*-\s*(\d+(?:\.\d+)?k)€?\s*-\s*(\d+(?:\.\d+)?k)€?`), amountsSet: true},
}

func (s *FlexiblePatterns) Detect(text string) []model.LotCandidate {
	searchText := lotSectionWindow(text)

	var bestMatches [][]string
	bestScore := 0.0
	bestIdx := -1

	for i, tpl := range flexTemplates {
		matches := tpl.re.FindAllStringSubmatch(searchText, -1)
		if len(matches) == 0 {
			continue
		}
		totalLen := 0
		for _, m := range matches {
			totalLen += len(m[2])
		}
		score := float64(len(matches)) * float64(totalLen) / float64(len(matches))
		if tpl.amountsSet && len(matches[0]) > 4 {
			score *= 2
		}
		if score > bestScore {
			bestScore = score
			bestMatches = matches
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil
	}
	zap.L().Debug("lots: flexible template selected",
		zap.Int("template", bestIdx+1), zap.Int("matches", len(bestMatches)), zap.Float64("score", bestScore))

	var lots []model.LotCandidate
	for _, m := range bestMatches {
		numero, err := strconv.Atoi(m[1])
		if err != nil || !model.ValidNumero(numero) {
			continue
		}
		lot := model.LotCandidate{
			Numero:     numero,
			Intitule:   cleanTitle(m[2]),
			Sources:    []string{"FlexiblePatterns"},
			Confidence: 1,
		}
		if len(m) > 3 && m[3] != "" {
			lot.MontantEstime = parseFlexAmount(m[3])
			lot.MontantMaxi = lot.MontantEstime
		}
		if len(m) > 4 && m[4] != "" {
			lot.MontantMaxi = parseFlexAmount(m[4])
		}
		lots = append(lots, lot)
	}
	return dedupeByNumero(lots)
}

// lotSectionWindow narrows the search to the allotment section: from the
// first section keyword to the next article/chapter heading, whole text
// when no keyword is present.
func lotSectionWindow(text string) string {
	loc := reSectionAnchor.FindStringIndex(text)
	if loc == nil {
		return text
	}
	rest := text[loc[0]:]
	if stop := reSectionStop.FindStringIndex(rest); stop != nil {
		return rest[:stop[0]]
	}
	return rest
}

// parseFlexAmount reads table amounts in the forms the flexible templates
// capture: "400 000", "1,000" (comma thousands), "150k".
func parseFlexAmount(s string) float64 {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	mult := 1.0
	if strings.HasSuffix(s, "k") {
		mult = 1000
		s = strings.TrimSuffix(s, "k")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v * mult
}
