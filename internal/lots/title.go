package lots

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reTrailingAmount  = regexp.MustCompile(`\s+\d{1,3}(?:\s\d{3})*(?:[.,]\d{2})?\s*€?\s*$`)
	reTrailingSuffix  = regexp.MustCompile(`(?i)\s+\d+(?:[.,]\d+)?\s*(?:k€|keuros?|m€|meuros?|€|euros?)\s*$`)
	reFormattingChars = regexp.MustCompile(`[^0-9A-Za-zÀ-ÖØ-öø-ÿ\s/()-]`)
	reTrailingStop    = regexp.MustCompile(`(?i)\s+(et|de|du|des|le|la|les|un|une|pour|avec|dans|sur|par|en|au|aux|à|d'|l')\s*$`)
	reWordSpaces      = regexp.MustCompile(`\s+`)
)

// trailingTechnicalWords are boilerplate tokens stripped off lot title
// ends, each at most once, in order.
var trailingTechnicalWords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+MAIN\s*$`),
	regexp.MustCompile(`(?i)\s+POUR TOUT\s*$`),
	regexp.MustCompile(`(?i)\s+POUR\s*$`),
	regexp.MustCompile(`(?i)\s+DE\s*$`),
	regexp.MustCompile(`(?i)\s+ET\s*$`),
	regexp.MustCompile(`(?i)\s+TYPE\s*$`),
	regexp.MustCompile(`(?i)\s+D'ETABLISSEMENTS?\s*$`),
	regexp.MustCompile(`(?i)\s+ETABLISSEMENTS?\s*$`),
	regexp.MustCompile(`(?i)\s+SANTÉ\s*$`),
	regexp.MustCompile(`(?i)\s+SANTE\s*$`),
	regexp.MustCompile(`(?i)\s+PUBLIC\s*$`),
	regexp.MustCompile(`(?i)\s+PRIVÉ\s*$`),
	regexp.MustCompile(`(?i)\s+PRIVE\s*$`),
	regexp.MustCompile(`(?i)\s+HÔPITAUX\s*$`),
	regexp.MustCompile(`(?i)\s+HOPITAUX\s*$`),
	regexp.MustCompile(`(?i)\s+HÔPITAL\s*$`),
	regexp.MustCompile(`(?i)\s+HOPITAL\s*$`),
	regexp.MustCompile(`(?i)\s+CENTRES?\s*$`),
	regexp.MustCompile(`(?i)\s+SERVICES?\s*$`),
}

// cleanTitle normalizes a raw lot title: single line, trailing amounts and
// boilerplate stripped, formatting characters dropped, capped at 300 runes.
func cleanTitle(title string) string {
	s := strings.NewReplacer("\n", " ", "\r", " ").Replace(title)
	s = reWordSpaces.ReplaceAllString(strings.TrimSpace(s), " ")

	s = reTrailingAmount.ReplaceAllString(s, "")
	s = reTrailingSuffix.ReplaceAllString(s, "")
	for _, re := range trailingTechnicalWords {
		s = re.ReplaceAllString(s, "")
	}

	s = reFormattingChars.ReplaceAllString(s, " ")
	s = reWordSpaces.ReplaceAllString(strings.TrimSpace(s), " ")
	s = reTrailingStop.ReplaceAllString(s, "")

	if runes := []rune(s); len(runes) > 300 {
		s = string(runes[:300]) + "..."
	}
	return strings.TrimSpace(s)
}

// parseTableAmount reads a French table amount such as "400 000" or
// "1,5", returning zero when unreadable.
func parseTableAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// amountsInText tokenizes a fragment into euro amounts. Space-grouped
// thousands ("400 000") merge into one amount; adjacent plain numbers
// ("50000 60000") stay separate; a currency sign closes the running
// amount. This sidesteps the ambiguity a single regex has between the two
// spacings.
func amountsInText(s string) []float64 {
	var out []float64
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(cur.String(), ",", "."), 64)
		if err == nil && v >= 0 {
			out = append(out, v)
		}
		cur.Reset()
	}
	for _, f := range strings.Fields(s) {
		tok := strings.TrimSuffix(strings.TrimSuffix(f, "€"), "-")
		closed := tok != f
		if !numericToken(tok) {
			flush()
			continue
		}
		if cur.Len() > 0 && len(tok) == 3 && !strings.ContainsAny(tok, ",.") {
			cur.WriteString(tok)
		} else {
			flush()
			cur.WriteString(tok)
		}
		if closed {
			flush()
		}
	}
	flush()
	return out
}

// numericToken reports whether tok is all digits with at most one decimal
// separator.
func numericToken(tok string) bool {
	if tok == "" {
		return false
	}
	seps := 0
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
		case r == ',' || r == '.':
			seps++
			if seps > 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// amountPairFromText finds the first estimated/maximum amount pair in a
// lot's context text.
func amountPairFromText(text string) (estime, maxi float64) {
	for _, line := range strings.Split(text, "\n") {
		if amounts := amountsInText(line); len(amounts) >= 2 && (amounts[0] > 0 || amounts[1] > 0) {
			return amounts[0], amounts[1]
		}
	}
	return 0, 0
}
