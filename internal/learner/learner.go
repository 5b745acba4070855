// Package learner mines historical extractions for frequent values, numeric
// ranges and field correlations, then serves suggestions and soft
// validations back to the extraction flow.
package learner

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/veille-marches/tender-cli/internal/model"
)

// textFields are the fields whose frequent values are worth remembering.
var textFields = []model.Field{
	model.FieldReferenceProcedure, model.FieldIntituleProcedure, model.FieldIntituleLot,
	model.FieldTypeProcedure, model.FieldMonoMulti, model.FieldGroupement, model.FieldUnivers,
	model.FieldExecutionMarche, model.FieldCriteresEconomique, model.FieldCriteresTechniques,
	model.FieldSegment, model.FieldFamille,
}

// numericFields get range statistics.
var numericFields = []model.Field{
	model.FieldMontantGlobalEstime, model.FieldMontantGlobalMaxi,
	model.FieldDureeMarche, model.FieldNbrLots,
}

const (
	topFrequentValues = 10
	refSampleSize     = 100
)

// Stats summarizes the observed distribution of a numeric field.
type Stats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	P25    float64
	P75    float64
}

// ValueCount is a frequent value with its occurrence count.
type ValueCount struct {
	Value string
	Count int
}

// Validation is the soft verdict on a single extracted value.
type Validation struct {
	Confidence float64
	Warnings   []string
}

// Learner holds everything mined from history. It is read-only after Train,
// safe for concurrent Suggest and ValidateValue calls.
type Learner struct {
	mu sync.RWMutex

	frequent     map[model.Field][]ValueCount
	stats        map[model.Field]Stats
	correlations map[string]string
	monoByLots   map[int]string
	refFormats   []string
	minSupport   int
	trained      bool
}

// New creates an untrained learner. minSupport is the minimum number of
// co-occurrences before a conditional correlation rule is kept; values
// below 1 fall back to 3.
func New(minSupport int) *Learner {
	if minSupport < 1 {
		minSupport = 3
	}
	return &Learner{
		frequent:     make(map[model.Field][]ValueCount),
		stats:        make(map[model.Field]Stats),
		correlations: make(map[string]string),
		monoByLots:   make(map[int]string),
		minSupport:   minSupport,
	}
}

// Trained reports whether Train has run on a non-empty history.
func (l *Learner) Trained() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.trained
}

// Train mines the history records. Calling it again replaces everything
// previously learned.
func (l *Learner) Train(records []model.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.frequent = make(map[model.Field][]ValueCount)
	l.stats = make(map[model.Field]Stats)
	l.correlations = make(map[string]string)
	l.monoByLots = make(map[int]string)
	l.refFormats = nil
	l.trained = false

	if len(records) == 0 {
		return
	}

	l.learnFrequentValues(records)
	l.learnStatistics(records)
	l.learnCorrelations(records)
	l.learnReferenceFormats(records)

	l.trained = true
	zap.L().Info("learner: training complete",
		zap.Int("records", len(records)),
		zap.Int("fields_with_values", len(l.frequent)),
		zap.Int("correlation_rules", len(l.correlations)),
		zap.Int("reference_formats", len(l.refFormats)))
}

func (l *Learner) learnFrequentValues(records []model.Record) {
	for _, f := range textFields {
		counts := make(map[string]int)
		for _, rec := range records {
			if v, ok := rec.Get(f); ok {
				counts[v.AsText()]++
			}
		}
		if len(counts) == 0 {
			continue
		}
		ranked := make([]ValueCount, 0, len(counts))
		for v, c := range counts {
			ranked = append(ranked, ValueCount{Value: v, Count: c})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Count != ranked[j].Count {
				return ranked[i].Count > ranked[j].Count
			}
			return ranked[i].Value < ranked[j].Value
		})
		if len(ranked) > topFrequentValues {
			ranked = ranked[:topFrequentValues]
		}
		l.frequent[f] = ranked
	}
}

func (l *Learner) learnStatistics(records []model.Record) {
	for _, f := range numericFields {
		var values []float64
		for _, rec := range records {
			if v, ok := rec.Get(f); ok {
				switch v.Kind() {
				case model.KindAmount:
					values = append(values, v.AsAmount())
				case model.KindDuration, model.KindInt:
					values = append(values, float64(v.AsInt()))
				}
			}
		}
		if len(values) == 0 {
			continue
		}
		sort.Float64s(values)

		sum := 0.0
		for _, v := range values {
			sum += v
		}
		l.stats[f] = Stats{
			Count:  len(values),
			Min:    values[0],
			Max:    values[len(values)-1],
			Mean:   sum / float64(len(values)),
			Median: quantile(values, 0.5),
			P25:    quantile(values, 0.25),
			P75:    quantile(values, 0.75),
		}
	}
}

// quantile interpolates on pre-sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func (l *Learner) learnCorrelations(records []model.Record) {
	// groupement conditions type_procedure and univers.
	l.learnConditionalMode(records, model.FieldGroupement, model.FieldTypeProcedure, 1, "%s_suggests_type_procedure")
	l.learnConditionalMode(records, model.FieldGroupement, model.FieldUnivers, 1, "%s_suggests_univers")

	// univers conditions segment and famille.
	l.learnConditionalMode(records, model.FieldUnivers, model.FieldSegment, 1, "%s_suggests_segment")
	l.learnConditionalMode(records, model.FieldUnivers, model.FieldFamille, 1, "%s_suggests_famille")

	// univers+segment conditions famille, kept only with real support.
	pairCounts := make(map[string]map[string]int)
	for _, rec := range records {
		u, okU := rec.Get(model.FieldUnivers)
		s, okS := rec.Get(model.FieldSegment)
		f, okF := rec.Get(model.FieldFamille)
		if !okU || !okS || !okF {
			continue
		}
		key := fmt.Sprintf("%s_%s_suggests_famille", u.AsText(), s.AsText())
		if pairCounts[key] == nil {
			pairCounts[key] = make(map[string]int)
		}
		pairCounts[key][f.AsText()]++
	}
	for key, counts := range pairCounts {
		value, support := modeOf(counts)
		if support >= l.minSupport {
			l.correlations[key] = value
		}
	}

	// nbr_lots conditions mono_multi.
	byLots := make(map[int]map[string]int)
	for _, rec := range records {
		n, okN := rec.Get(model.FieldNbrLots)
		m, okM := rec.Get(model.FieldMonoMulti)
		if !okN || !okM {
			continue
		}
		lots := n.AsInt()
		if byLots[lots] == nil {
			byLots[lots] = make(map[string]int)
		}
		byLots[lots][m.AsText()]++
	}
	for lots, counts := range byLots {
		value, _ := modeOf(counts)
		l.monoByLots[lots] = value
	}
}

func (l *Learner) learnConditionalMode(records []model.Record, cond, target model.Field, minSupport int, keyFormat string) {
	counts := make(map[string]map[string]int)
	for _, rec := range records {
		c, okC := rec.Get(cond)
		t, okT := rec.Get(target)
		if !okC || !okT {
			continue
		}
		if counts[c.AsText()] == nil {
			counts[c.AsText()] = make(map[string]int)
		}
		counts[c.AsText()][t.AsText()]++
	}
	for condValue, targetCounts := range counts {
		value, support := modeOf(targetCounts)
		if support >= minSupport {
			l.correlations[fmt.Sprintf(keyFormat, condValue)] = value
		}
	}
}

// modeOf returns the most frequent value with deterministic tie-breaking.
func modeOf(counts map[string]int) (string, int) {
	var best string
	bestCount := -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best, bestCount
}

var (
	reDigits  = regexp.MustCompile(`\d`)
	reLetters = regexp.MustCompile(`[A-Za-z]`)
)

// normalizeToFormat replaces digits with # and letters with X, keeping
// separators, so "2024-A123" becomes "####-X###".
func normalizeToFormat(value string) string {
	return reLetters.ReplaceAllString(reDigits.ReplaceAllString(value, "#"), "X")
}

func (l *Learner) learnReferenceFormats(records []model.Record) {
	seen := make(map[string]bool)
	for i, rec := range records {
		if i >= refSampleSize {
			break
		}
		v, ok := rec.Get(model.FieldReferenceProcedure)
		if !ok {
			continue
		}
		format := normalizeToFormat(v.AsText())
		if format != "" && !seen[format] {
			seen[format] = true
			l.refFormats = append(l.refFormats, format)
		}
	}
}

// Suggest proposes a value for field given already extracted context.
// Correlation rules win over plain frequency.
func (l *Learner) Suggest(field model.Field, ctx model.Record) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.trained {
		return "", false
	}

	if v, ok := l.suggestFromCorrelations(field, ctx); ok {
		return v, true
	}
	if ranked, ok := l.frequent[field]; ok && len(ranked) > 0 {
		return ranked[0].Value, true
	}
	return "", false
}

func (l *Learner) suggestFromCorrelations(field model.Field, ctx model.Record) (string, bool) {
	get := func(f model.Field) string {
		if v, ok := ctx.Get(f); ok {
			return v.AsText()
		}
		return ""
	}

	switch field {
	case model.FieldTypeProcedure:
		if g := get(model.FieldGroupement); g != "" {
			if v, ok := l.correlations[g+"_suggests_type_procedure"]; ok {
				return v, true
			}
		}
	case model.FieldUnivers:
		if g := get(model.FieldGroupement); g != "" {
			if v, ok := l.correlations[g+"_suggests_univers"]; ok {
				return v, true
			}
		}
	case model.FieldSegment:
		if u := get(model.FieldUnivers); u != "" {
			if v, ok := l.correlations[u+"_suggests_segment"]; ok {
				return v, true
			}
		}
	case model.FieldFamille:
		u := get(model.FieldUnivers)
		if s := get(model.FieldSegment); u != "" && s != "" {
			if v, ok := l.correlations[u+"_"+s+"_suggests_famille"]; ok {
				return v, true
			}
		}
		if u != "" {
			if v, ok := l.correlations[u+"_suggests_famille"]; ok {
				return v, true
			}
		}
	case model.FieldMonoMulti:
		if n, ok := ctx.Get(model.FieldNbrLots); ok {
			if v, found := l.monoByLots[n.AsInt()]; found {
				return v, true
			}
		}
	}
	return "", false
}

// ValidateValue checks a value against what history shows. It never
// rejects, only lowers confidence and annotates.
func (l *Learner) ValidateValue(field model.Field, value model.Value) Validation {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := Validation{Confidence: 1}
	if !l.trained || value.IsEmpty() {
		return result
	}

	switch value.Kind() {
	case model.KindAmount, model.KindDuration, model.KindInt:
		stats, ok := l.stats[field]
		if !ok {
			return result
		}
		var v float64
		if value.Kind() == model.KindAmount {
			v = value.AsAmount()
		} else {
			v = float64(value.AsInt())
		}
		switch {
		case v < stats.Min*0.5 || v > stats.Max*1.5:
			result.Confidence = 0.7
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"valeur %.2f hors de la plage observée (%.2f - %.2f)", v, stats.Min, stats.Max))
		case v >= stats.Min && v <= stats.Max:
			result.Confidence = 0.95
		}

	case model.KindText, model.KindReference:
		text := value.AsText()
		if field == model.FieldReferenceProcedure && len(l.refFormats) > 0 {
			if !l.matchesKnownFormat(text) {
				result.Confidence = 0.8
				result.Warnings = append(result.Warnings, "format de référence non standard")
			}
			return result
		}
		ranked, ok := l.frequent[field]
		if !ok {
			return result
		}
		for _, vc := range ranked {
			if vc.Value == text {
				result.Confidence = 0.9
				return result
			}
		}
		if similar := l.similarValues(ranked, text); len(similar) > 0 {
			result.Confidence = 0.6
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"valeur %q absente des données historiques", text))
		}
	}
	return result
}

func (l *Learner) matchesKnownFormat(value string) bool {
	format := normalizeToFormat(value)
	for _, known := range l.refFormats {
		if known == format {
			return true
		}
	}
	return false
}

// similarValues finds learned values close to the candidate, used to decide
// whether an unseen value is a near-miss or simply new.
func (l *Learner) similarValues(ranked []ValueCount, value string) []string {
	lower := strings.ToLower(value)
	var similar []string
	for _, vc := range ranked {
		if similarity(lower, strings.ToLower(vc.Value)) >= 0.8 {
			similar = append(similar, vc.Value)
			if len(similar) == 5 {
				break
			}
		}
	}
	return similar
}

// similarity is a cheap containment-based measure in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	longer, shorter := a, b
	if len(b) > len(a) {
		longer, shorter = b, a
	}
	if strings.Contains(longer, shorter) {
		return float64(len(shorter)) / float64(len(longer))
	}
	common := 0
	for _, r := range shorter {
		if strings.ContainsRune(longer, r) {
			common++
		}
	}
	return float64(common) / float64(len(longer))
}

// FieldStats exposes the learned distribution for a numeric field.
func (l *Learner) FieldStats(field model.Field) (Stats, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.stats[field]
	return s, ok
}

// FrequentValues exposes the learned top values for a field.
func (l *Learner) FrequentValues(field model.Field) []ValueCount {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ranked := l.frequent[field]
	out := make([]ValueCount, len(ranked))
	copy(out, ranked)
	return out
}

// Summary reports the size of everything learned, for CLI display.
func (l *Learner) Summary() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return map[string]int{
		"fields_with_values": len(l.frequent),
		"numeric_fields":     len(l.stats),
		"correlation_rules":  len(l.correlations),
		"reference_formats":  len(l.refFormats),
	}
}
