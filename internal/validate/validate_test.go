package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veille-marches/tender-cli/internal/model"
)

func newTestEngine() *Engine {
	e := New()
	e.now = func() time.Time {
		return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return e
}

func goodRecord() model.Record {
	rec := model.Record{}
	rec.Set(model.FieldReferenceProcedure, model.Reference("2024-A017"))
	rec.Set(model.FieldIntituleProcedure, model.Text("Fourniture de gants d'examen"))
	rec.Set(model.FieldMontantGlobalEstime, model.Amount(50000))
	rec.Set(model.FieldMontantGlobalMaxi, model.Amount(80000))
	rec.Set(model.FieldDateLimite, model.Date("15/03/2024"))
	rec.Set(model.FieldDateAttribution, model.Date("10/06/2024"))
	rec.Set(model.FieldNbrLots, model.Int(2))
	rec.Set(model.FieldLotNumero, model.Int(1))
	return rec
}

func TestValidate_CompleteRecord(t *testing.T) {
	e := newTestEngine()

	result := e.Validate(goodRecord())

	assert.True(t, result.IsValid)
	assert.InDelta(t, 0.96, result.Confidence, 1e-9)
	assert.Empty(t, result.Issues)
	assert.Equal(t, []string{"données de bonne qualité"}, result.Suggestions)
}

func TestValidate_MissingEssentials(t *testing.T) {
	e := newTestEngine()

	result := e.Validate(model.Record{})

	assert.False(t, result.IsValid)
	assert.True(t, result.HasErrors())
	assert.InDelta(t, 0.2, result.Confidence, 1e-9)

	require.Len(t, result.Issues, 2)
	for _, is := range result.Issues {
		assert.Equal(t, model.SeverityError, is.Severity)
	}
	require.NotEmpty(t, result.Suggestions)
	assert.Contains(t, result.Suggestions[0], "compléter les champs essentiels manquants")
}

func TestValidate_MaxiBelowEstime(t *testing.T) {
	e := newTestEngine()

	rec := goodRecord()
	rec.Set(model.FieldMontantGlobalEstime, model.Amount(100000))
	rec.Set(model.FieldMontantGlobalMaxi, model.Amount(50000))

	result := e.Validate(rec)

	assert.False(t, result.IsValid)
	assert.True(t, result.HasErrors())
	require.Len(t, result.Issues, 1)
	assert.Equal(t, model.FieldMontantGlobalMaxi, result.Issues[0].Field)
	assert.Equal(t, model.SeverityError, result.Issues[0].Severity)
	assert.Contains(t, result.Suggestions, "vérifier la cohérence des données (montants, dates, lots)")
}

func TestValidate_AttributionBeforeLimite(t *testing.T) {
	e := newTestEngine()

	rec := model.Record{}
	rec.Set(model.FieldReferenceProcedure, model.Reference("2024-A017"))
	rec.Set(model.FieldIntituleProcedure, model.Text("Fourniture de gants d'examen"))
	rec.Set(model.FieldDateLimite, model.Date("15/03/2024"))
	rec.Set(model.FieldDateAttribution, model.Date("10/01/2024"))

	result := e.Validate(rec)

	// A warning lowers confidence but does not invalidate the record.
	assert.True(t, result.IsValid)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, model.FieldDateAttribution, result.Issues[0].Field)
	assert.Equal(t, model.SeverityWarning, result.Issues[0].Severity)
	assert.InDelta(t, 0.7867, result.Confidence, 0.001)
}

func TestValidate_LotNumeroBeyondCount(t *testing.T) {
	e := newTestEngine()

	rec := model.Record{}
	rec.Set(model.FieldReferenceProcedure, model.Reference("2024-A017"))
	rec.Set(model.FieldIntituleProcedure, model.Text("Fourniture de gants d'examen"))
	rec.Set(model.FieldNbrLots, model.Int(2))
	rec.Set(model.FieldLotNumero, model.Int(5))

	result := e.Validate(rec)

	assert.True(t, result.IsValid)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, model.FieldLotNumero, result.Issues[0].Field)
	assert.Equal(t, model.SeverityWarning, result.Issues[0].Severity)
	assert.InDelta(t, 0.6733, result.Confidence, 0.001)
}

func TestAmountScore(t *testing.T) {
	assert.Equal(t, 1.0, amountScore(50000))
	assert.Equal(t, 0.9, amountScore(2_000_000))
	assert.Equal(t, 0.7, amountScore(2_000_000_000))
	assert.Equal(t, 0.2, amountScore(-1))
}

func TestDateScore(t *testing.T) {
	e := newTestEngine()

	assert.Equal(t, 1.0, e.dateScore("15/03/2024"))
	// Parses but is implausibly far in the future.
	assert.Equal(t, 0.5, e.dateScore("01/01/2050"))
	// French month name without a parseable layout.
	assert.Equal(t, 0.8, e.dateScore("15 mars 2024"))
	// Numeric shape that does not survive parsing.
	assert.Equal(t, 0.6, e.dateScore("99/99/9999"))
	assert.Equal(t, 0.0, e.dateScore("prochainement"))
}

func TestReferenceScore(t *testing.T) {
	assert.Equal(t, 1.0, referenceScore("2024-A017"))
	assert.Equal(t, 1.0, referenceScore("AO-20240017"))
	assert.Equal(t, 1.0, referenceScore("REF_2024001"))
	assert.Equal(t, 0.7, referenceScore("MARCHE-GANTS"))
	assert.Equal(t, 0.3, referenceScore("x2"))
	assert.Equal(t, 0.0, referenceScore("   "))
}
