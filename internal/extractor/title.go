package extractor

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Procurement documents bury the procedure title somewhere in the first page,
// usually as a block of mostly-uppercase lines between the buyer letterhead
// and the table of contents. We score candidate blocks rather than trusting
// any single heuristic.

const (
	defaultTitleLines = 30
	titleMinLen       = 30
	titleMaxLen       = 500
	titleTruncateAt   = 400
)

// headerKeywords mark boilerplate lines that never belong to a title.
var headerKeywords = []string{
	"cahier des clauses",
	"ccap", "cctp", "ccp",
	"règlement de la consultation",
	"reglement de la consultation",
	"pouvoir adjudicateur",
	"acheteur public",
	"date limite",
	"sommaire",
	"table des matières",
	"page ",
}

var (
	reTitleDateLine = regexp.MustCompile(`^\s*\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}`)
	reTitleRefLine  = regexp.MustCompile(`(?i)^\s*(?:réf|ref|n°|no)\s*[.:°]`)
	reTitleSpaces   = regexp.MustCompile(`\s+`)
)

// significantWords hint that a line describes the subject of the market.
var significantWords = []string{
	"fourniture", "acquisition", "prestation", "maintenance",
	"travaux", "service", "marché", "accord-cadre", "location",
}

// technicalWords penalise blocks that drifted into the body of the document.
var technicalWords = []string{
	"article", "chapitre", "annexe", "alinéa", "paragraphe",
}

type titleCandidate struct {
	score int
	text  string
	start int
}

// DocumentTitle scans the first maxLines lines of a document and returns the
// most plausible procedure title, or "" when nothing scores.
func DocumentTitle(text string, maxLines int) string {
	if maxLines <= 0 {
		maxLines = defaultTitleLines
	}
	lines := strings.Split(text, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	multi := titleBlocks(lines)
	single := titleLines(lines)

	sort.SliceStable(multi, func(i, j int) bool {
		if multi[i].score != multi[j].score {
			return multi[i].score > multi[j].score
		}
		return multi[i].start < multi[j].start
	})
	sort.SliceStable(single, func(i, j int) bool {
		if single[i].score != single[j].score {
			return single[i].score > single[j].score
		}
		return single[i].start < single[j].start
	})

	var raw string
	switch {
	case len(multi) > 0 && multi[0].score >= 15:
		raw = multi[0].text
	case len(single) > 0:
		raw = single[0].text
	default:
		return ""
	}
	return finishTitle(raw)
}

// titleBlocks accumulates runs of consecutive uppercase lines and scores
// each run as a multi-line title candidate.
func titleBlocks(lines []string) []titleCandidate {
	var out []titleCandidate
	i := 0
	for i < len(lines) {
		var block []string
		start := i
		for i < len(lines) {
			line := strings.TrimSpace(lines[i])
			if line == "" {
				if len(block) > 0 {
					break
				}
				i++
				start = i
				continue
			}
			if isHeaderLine(line) || reTitleDateLine.MatchString(line) || reTitleRefLine.MatchString(line) || digitHeavy(line) {
				if len(block) > 0 {
					break
				}
				i++
				start = i
				continue
			}
			upper := mostlyUpper(line)
			n := len([]rune(line))
			switch {
			case upper && n >= 20:
				block = append(block, line)
				i++
			case len(block) > 0 && upper && n >= 15:
				block = append(block, line)
				i++
			default:
				if len(block) > 0 {
					break
				}
				i++
				start = i
			}
		}
		if len(block) == 0 {
			continue
		}
		joined := strings.Join(block, " ")
		n := len([]rune(joined))
		if n < titleMinLen || n > titleMaxLen {
			continue
		}
		score := 0
		score += 15
		if len(block) >= 2 {
			score += 10
		}
		if start < 15 {
			score += 8
		}
		if containsAnyFold(joined, significantWords) {
			score += 5
		}
		if n >= 50 && n <= 300 {
			score += 3
		}
		score -= 2 * countAnyFold(joined, technicalWords)
		if score > 0 {
			out = append(out, titleCandidate{score: score, text: joined, start: start})
		}
	}
	return out
}

// titleLines is the fallback single-line pass for documents whose title never
// wraps.
func titleLines(lines []string) []titleCandidate {
	var out []titleCandidate
	for i, l := range lines {
		line := strings.TrimSpace(l)
		n := len([]rune(line))
		if n < titleMinLen || n > titleMaxLen {
			continue
		}
		if isHeaderLine(line) || reTitleDateLine.MatchString(line) || reTitleRefLine.MatchString(line) || digitHeavy(line) {
			continue
		}
		if !mostlyUpper(line) {
			continue
		}
		score := 5
		if n >= 50 {
			score = 10
		}
		if i < 15 {
			score += 5
		}
		if containsAnyFold(line, significantWords) {
			score += 5
		}
		if n >= 50 && n <= 300 {
			score += 3
		}
		out = append(out, titleCandidate{score: score, text: line, start: i})
	}
	return out
}

func finishTitle(s string) string {
	s = strings.TrimSpace(reTitleSpaces.ReplaceAllString(s, " "))
	runes := []rune(s)
	if len(runes) <= titleTruncateAt {
		return s
	}
	cut := string(runes[:titleTruncateAt])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

func isHeaderLine(line string) bool {
	return containsAnyFold(line, headerKeywords)
}

func containsAnyFold(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func countAnyFold(s string, words []string) int {
	lower := strings.ToLower(s)
	n := 0
	for _, w := range words {
		n += strings.Count(lower, w)
	}
	return n
}

// digitHeavy reports whether digits make up at least 20% of the non-space
// characters. Lot table rows (numero, label, amounts) read that way and
// never belong to a title.
func digitHeavy(line string) bool {
	total, digits := 0, 0
	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return total > 0 && float64(digits) >= 0.2*float64(total)
}

// mostlyUpper reports whether at least 80% of the letters in line are
// uppercase. Lines without letters do not qualify.
func mostlyUpper(line string) bool {
	letters, uppers := 0, 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}
	if letters == 0 {
		return false
	}
	return float64(uppers) >= 0.8*float64(letters)
}
