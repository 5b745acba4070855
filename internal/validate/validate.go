// Package validate scores extracted records. The confidence is a weighted
// blend of three components: presence and quality of the essential fields,
// per-type format checks, and cross-field coherence.
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/veille-marches/tender-cli/internal/model"
	"github.com/veille-marches/tender-cli/internal/normalize"
)

const (
	weightEssential = 0.4
	weightTypes     = 0.4
	weightCoherence = 0.2

	// validThreshold is the confidence floor below which a record is
	// flagged invalid even without hard errors.
	validThreshold = 0.6
)

// Engine validates extraction records. Stateless, safe for concurrent use.
type Engine struct {
	now func() time.Time
}

func New() *Engine {
	return &Engine{now: time.Now}
}

// Validate scores a record and collects issues and suggestions.
func (e *Engine) Validate(rec model.Record) model.ValidationResult {
	result := model.ValidationResult{
		FieldValidations: make(map[model.Field]float64),
	}

	essential := e.validateEssentials(rec, &result)
	types := e.validateByType(rec, &result)
	coherence := e.validateCoherence(rec, &result)

	confidence := essential*weightEssential + types*weightTypes + coherence*weightCoherence
	result.Confidence = clamp01(confidence)
	result.IsValid = result.Confidence >= validThreshold && !result.HasErrors()
	result.Suggestions = e.suggestions(rec, &result)

	zap.L().Debug("validate: record scored",
		zap.Float64("confidence", result.Confidence),
		zap.Bool("is_valid", result.IsValid),
		zap.Int("issues", len(result.Issues)))
	return result
}

// validateEssentials scores the fields a record is useless without.
func (e *Engine) validateEssentials(rec model.Record, result *model.ValidationResult) float64 {
	essentials := model.EssentialFields()
	if len(essentials) == 0 {
		return 0
	}

	total := 0.0
	for _, f := range essentials {
		v, ok := rec.Get(f)
		if !ok {
			result.FieldValidations[f] = 0
			result.Issues = append(result.Issues, model.Issue{
				Field:      f,
				Severity:   model.SeverityError,
				Message:    fmt.Sprintf("champ essentiel %q manquant", f),
				Suggestion: fmt.Sprintf("compléter le champ %q", f),
			})
			continue
		}
		score := e.fieldScore(f, v)
		result.FieldValidations[f] = score
		total += score
		if score < 0.5 {
			result.Issues = append(result.Issues, model.Issue{
				Field:      f,
				Severity:   model.SeverityWarning,
				Message:    fmt.Sprintf("format du champ %q douteux", f),
				Suggestion: fmt.Sprintf("vérifier le format du champ %q", f),
			})
		}
	}
	return total / float64(len(essentials))
}

// validateByType averages amount, date and reference checks. A field class
// with nothing extracted contributes zero, so sparse records score low.
func (e *Engine) validateByType(rec model.Record, result *model.ValidationResult) float64 {
	amountFields := []model.Field{model.FieldMontantGlobalEstime, model.FieldMontantGlobalMaxi}
	amounts := 0.0
	for _, f := range amountFields {
		if v, ok := rec.Get(f); ok {
			score := amountScore(v.AsAmount())
			result.FieldValidations[f] = score
			amounts += score
			if score < 0.5 {
				result.Issues = append(result.Issues, model.Issue{
					Field:      f,
					Severity:   model.SeverityWarning,
					Message:    fmt.Sprintf("montant invalide pour %q", f),
					Suggestion: "vérifier le format du montant (ex: 100000 ou 100 000 €)",
				})
			}
		}
	}
	amounts /= float64(len(amountFields))

	dateFields := []model.Field{model.FieldDateLimite, model.FieldDateAttribution}
	dates := 0.0
	for _, f := range dateFields {
		if v, ok := rec.Get(f); ok {
			score := e.dateScore(v.AsText())
			result.FieldValidations[f] = score
			dates += score
			if score < 0.5 {
				result.Issues = append(result.Issues, model.Issue{
					Field:      f,
					Severity:   model.SeverityWarning,
					Message:    fmt.Sprintf("date invalide pour %q", f),
					Suggestion: "vérifier le format de la date (JJ/MM/AAAA)",
				})
			}
		}
	}
	dates /= float64(len(dateFields))

	references := 0.0
	if v, ok := rec.Get(model.FieldReferenceProcedure); ok {
		references = referenceScore(v.AsText())
		result.FieldValidations[model.FieldReferenceProcedure] = references
	}

	return (amounts + dates + references) / 3
}

// validateCoherence checks cross-field consistency, starting from a perfect
// score and deducting per finding.
func (e *Engine) validateCoherence(rec model.Record, result *model.ValidationResult) float64 {
	score := 1.0

	estime, okE := rec.Get(model.FieldMontantGlobalEstime)
	maxi, okM := rec.Get(model.FieldMontantGlobalMaxi)
	if okE && okM && maxi.AsAmount() < estime.AsAmount() {
		result.Issues = append(result.Issues, model.Issue{
			Field:      model.FieldMontantGlobalMaxi,
			Severity:   model.SeverityError,
			Message:    "le montant maximum est inférieur au montant estimé",
			Suggestion: "vérifier la cohérence des montants",
		})
		score -= 0.3
	}

	limite, okL := rec.Get(model.FieldDateLimite)
	attribution, okA := rec.Get(model.FieldDateAttribution)
	if okL && okA {
		tl, okTL := normalize.ParseDate(limite.AsText())
		ta, okTA := normalize.ParseDate(attribution.AsText())
		if okTL && okTA && ta.Before(tl) {
			result.Issues = append(result.Issues, model.Issue{
				Field:      model.FieldDateAttribution,
				Severity:   model.SeverityWarning,
				Message:    "la date d'attribution est antérieure à la date limite",
				Suggestion: "vérifier les dates",
			})
			score -= 0.2
		}
	}

	nbr, okN := rec.Get(model.FieldNbrLots)
	numero, okNum := rec.Get(model.FieldLotNumero)
	if okN && okNum && numero.AsInt() > nbr.AsInt() {
		result.Issues = append(result.Issues, model.Issue{
			Field:      model.FieldLotNumero,
			Severity:   model.SeverityWarning,
			Message:    "le numéro de lot dépasse le nombre de lots",
			Suggestion: "vérifier la cohérence des lots",
		})
		score -= 0.1
	}

	if score < 0 {
		return 0
	}
	return score
}

// fieldScore dispatches on the field kind.
func (e *Engine) fieldScore(f model.Field, v model.Value) float64 {
	switch v.Kind() {
	case model.KindAmount:
		return amountScore(v.AsAmount())
	case model.KindDate:
		return e.dateScore(v.AsText())
	case model.KindReference:
		return referenceScore(v.AsText())
	default:
		if len(strings.TrimSpace(v.AsText())) > 3 {
			return 0.8
		}
		return 0.3
	}
}

func amountScore(v float64) float64 {
	switch {
	case v < 0:
		return 0.2
	case v > 1_000_000_000:
		return 0.7
	case v > 1_000_000:
		return 0.9
	default:
		return 1
	}
}

var frenchMonthWords = []string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var reDateNumeric = regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)

func (e *Engine) dateScore(s string) float64 {
	if t, ok := normalize.ParseDate(s); ok {
		year := t.Year()
		if year < 2000 || year > e.now().Year()+10 {
			return 0.5
		}
		return 1
	}
	lower := strings.ToLower(s)
	for _, month := range frenchMonthWords {
		if strings.Contains(lower, month) {
			return 0.8
		}
	}
	if reDateNumeric.MatchString(s) {
		return 0.6
	}
	return 0
}

var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-[A-Z]\d{3}-\d{3}-\d{3}`),
	regexp.MustCompile(`^\d{4}-[A-Z]\d{3}`),
	regexp.MustCompile(`^[A-Z]{2,}\d{4,}`),
	regexp.MustCompile(`^[A-Z]{2,}-\d{4,}`),
	regexp.MustCompile(`^[A-Z]{2,}_\d{4,}`),
	regexp.MustCompile(`^[A-Z]{2,}\.\d{4,}`),
	regexp.MustCompile(`^[A-Z]{2,}\s\d{4,}`),
}

var reReferenceChars = regexp.MustCompile(`^[A-Z0-9 ._-]+$`)

func referenceScore(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	for _, re := range referencePatterns {
		if re.MatchString(s) {
			return 1
		}
	}
	if len(s) >= 3 && reReferenceChars.MatchString(s) {
		return 0.7
	}
	return 0.3
}

// suggestions turns findings into actionable guidance.
func (e *Engine) suggestions(rec model.Record, result *model.ValidationResult) []string {
	var out []string

	important := []model.Field{
		model.FieldReferenceProcedure, model.FieldIntituleProcedure,
		model.FieldMontantGlobalEstime, model.FieldDateLimite,
	}
	var missing []string
	for _, f := range important {
		if !rec.Has(f) {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		out = append(out, "compléter les champs essentiels manquants: "+strings.Join(missing, ", "))
	}

	var doubtful []string
	for f, score := range result.FieldValidations {
		if score < 0.5 && rec.Has(f) {
			doubtful = append(doubtful, string(f))
		}
	}
	if len(doubtful) > 0 {
		sort.Strings(doubtful)
		out = append(out, "vérifier le format des champs: "+strings.Join(doubtful, ", "))
	}

	for _, is := range result.Issues {
		if strings.Contains(is.Message, "cohérence") || strings.Contains(is.Suggestion, "cohérence") {
			out = append(out, "vérifier la cohérence des données (montants, dates, lots)")
			break
		}
	}

	if result.Confidence < 0.7 {
		out = append(out, "améliorer la qualité générale des données extraites")
	}
	if len(out) == 0 {
		out = append(out, "données de bonne qualité")
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
