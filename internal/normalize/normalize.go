// Package normalize converts raw pattern captures into typed values:
// amounts in euros, dates as DD/MM/YYYY, durations in months, tri-state
// answers, and reference codes.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/veille-marches/tender-cli/internal/model"
)

var (
	reKiloAmount  = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:k\s*€|keuros?|milliers)`)
	reMegaAmount  = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:m\s*€|meuros?|millions?)`)
	reAmountNoise = regexp.MustCompile(`(?i)€|euros?|\bht\b|\bttc\b|\bhta\b|\btva\b`)

	reDateSlash  = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`)
	reDateISO    = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	reDateFrench = regexp.MustCompile(`(?i)(\d{1,2})(?:er)?\s+(janv(?:ier)?|févr(?:ier)?|fevrier|mars|avr(?:il)?|mai|juin|juil(?:let)?|août|aout|sept(?:embre)?|oct(?:obre)?|nov(?:embre)?|déc(?:embre)?|decembre)\.?\s+(\d{4})`)

	reYears  = regexp.MustCompile(`(?i)(\d{1,3})\s*ans?\b`)
	reMonths = regexp.MustCompile(`(?i)(\d{1,3})\s*mois\b`)
	reInt    = regexp.MustCompile(`\d{1,4}`)

	reSpaces   = regexp.MustCompile(`\s+`)
	refSeps    = regexp.MustCompile(`[._\s]+`)
	refStrip   = regexp.MustCompile(`[^A-Z0-9-]`)
	reOuiWord  = regexp.MustCompile(`(?i)\b(oui|inclus|requis|exig[ée]e?s?|obligatoire)\b`)
	reNonWord  = regexp.MustCompile(`(?i)\b(non|aucune?|exclus?|sans\s+objet)\b`)
)

var frenchMonths = map[string]int{
	"janv": 1, "janvier": 1,
	"févr": 2, "février": 2, "fevrier": 2,
	"mars": 3,
	"avr": 4, "avril": 4,
	"mai": 5,
	"juin": 6,
	"juil": 7, "juillet": 7,
	"août": 8, "aout": 8,
	"sept": 9, "septembre": 9,
	"oct": 10, "octobre": 10,
	"nov": 11, "novembre": 11,
	"déc": 12, "décembre": 12, "decembre": 12,
}

// Amount parses a French monetary string into euros rounded to two
// decimals. Suffix multipliers (150k€, 2.5M€) are applied before separator
// cleanup. Returns false when no number can be recovered.
func Amount(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	if m := reMegaAmount.FindStringSubmatch(raw); m != nil {
		if v, ok := parseDecimal(m[1]); ok {
			return round2(v * 1_000_000), true
		}
	}
	if m := reKiloAmount.FindStringSubmatch(raw); m != nil {
		if v, ok := parseDecimal(m[1]); ok {
			return round2(v * 1_000), true
		}
	}

	s := reAmountNoise.ReplaceAllString(raw, "")
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.':
			return r
		case r == ' ', r == ' ':
			return ' '
		default:
			return -1
		}
	}, s)
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	decSep := byte(0)
	switch {
	case lastComma > lastDot && decimalTail(s, lastComma):
		decSep = ','
	case lastDot > lastComma && decimalTail(s, lastDot):
		decSep = '.'
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case decSep != 0 && c == decSep && i == strings.LastIndexByte(s, decSep):
			b.WriteByte('.')
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	if v < 0 {
		v = 0
	}
	return round2(v), true
}

// decimalTail reports whether the separator at i is followed by exactly one
// or two digits at the end of the string, i.e. acts as a decimal separator
// rather than a thousands one.
func decimalTail(s string, i int) bool {
	tail := s[i+1:]
	if len(tail) == 0 || len(tail) > 2 {
		return false
	}
	for j := 0; j < len(tail); j++ {
		if tail[j] < '0' || tail[j] > '9' {
			return false
		}
	}
	return true
}

func parseDecimal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Date parses a day-first French date into DD/MM/YYYY. Two-digit years map
// into the 2000s; anything outside [2000, 2100] is rejected. Already
// normalized dates pass through unchanged.
func Date(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	// ISO first: reDateSlash accepts hyphens and would read the tail of a
	// YYYY-MM-DD string as a day-first date.
	if m := reDateISO.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return formatDate(day, month, year)
	}
	if m := reDateSlash.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		return formatDate(day, month, year)
	}
	if m := reDateFrench.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month := frenchMonths[strings.ToLower(strings.TrimSuffix(m[2], "."))]
		year, _ := strconv.Atoi(m[3])
		if month > 0 {
			return formatDate(day, month, year)
		}
	}
	return "", false
}

func formatDate(day, month, year int) (string, bool) {
	if year < 2000 || year > 2100 || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	// Reject impossible day/month combinations like 31/02.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return "", false
	}
	return fmt.Sprintf("%02d/%02d/%04d", day, month, year), true
}

// ParseDate converts a normalized DD/MM/YYYY string back into a time.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DurationMonths converts French duration phrases into months.
// "2 ans et 3 mois" gives 27, "18 mois" gives 18, a bare integer is read
// as months.
func DurationMonths(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	months := 0
	found := false
	if m := reYears.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		months += n * 12
		found = true
	}
	if m := reMonths.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		months += n
		found = true
	}
	if !found {
		m := reInt.FindString(raw)
		if m == "" {
			return 0, false
		}
		months, _ = strconv.Atoi(m)
	}
	if months < 0 {
		return 0, false
	}
	return months, true
}

// Tri classifies a yes/no capture. A mention without polarity is reported
// as "Non spécifié" rather than dropped, since the document did address
// the topic.
func Tri(raw string) (model.TriState, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if reNonWord.MatchString(raw) {
		return model.TriNon, true
	}
	if reOuiWord.MatchString(raw) {
		return model.TriOui, true
	}
	return model.TriNonSpecifie, true
}

// ReferenceCode canonicalizes a procedure reference: uppercase, separators
// collapsed to hyphens, anything outside [A-Z0-9-] dropped. Idempotent.
func ReferenceCode(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = refSeps.ReplaceAllString(s, "-")
	s = refStrip.ReplaceAllString(s, "")
	s = strings.Trim(s, "-")
	if s == "" {
		return "", false
	}
	return s, true
}

// Text collapses whitespace runs and trims stray separators.
func Text(raw string) (string, bool) {
	s := reSpaces.ReplaceAllString(strings.TrimSpace(raw), " ")
	s = strings.Trim(s, " :;-")
	if s == "" {
		return "", false
	}
	return s, true
}

// IntValue reads the first small integer out of a capture.
func IntValue(raw string) (int, bool) {
	m := reInt.FindString(raw)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Value normalizes a raw capture according to the field's kind. The false
// return means the capture was unusable; absence of a value is never an
// error.
func Value(f model.Field, raw string) (model.Value, bool) {
	switch model.KindOf(f) {
	case model.KindAmount:
		v, ok := Amount(raw)
		if !ok || v == 0 {
			return model.Value{}, false
		}
		return model.Amount(v), true
	case model.KindDate:
		s, ok := Date(raw)
		if !ok {
			return model.Value{}, false
		}
		return model.Date(s), true
	case model.KindDuration:
		n, ok := DurationMonths(raw)
		if !ok || n == 0 {
			return model.Value{}, false
		}
		return model.Duration(n), true
	case model.KindReference:
		s, ok := ReferenceCode(raw)
		if !ok {
			return model.Value{}, false
		}
		return model.Reference(s), true
	case model.KindTriState:
		t, ok := Tri(raw)
		if !ok {
			return model.Value{}, false
		}
		return model.Tri(t), true
	case model.KindInt:
		n, ok := IntValue(raw)
		if !ok || n == 0 {
			return model.Value{}, false
		}
		return model.Int(n), true
	default:
		s, ok := Text(raw)
		if !ok {
			return model.Value{}, false
		}
		return model.Text(s), true
	}
}
