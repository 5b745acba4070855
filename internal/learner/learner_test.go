package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veille-marches/tender-cli/internal/model"
)

func record(pairs map[model.Field]model.Value) model.Record {
	rec := model.Record{}
	for f, v := range pairs {
		rec.Set(f, v)
	}
	return rec
}

func TestTrain_EmptyHistory(t *testing.T) {
	l := New(3)
	l.Train(nil)

	assert.False(t, l.Trained())
	_, ok := l.Suggest(model.FieldSegment, model.Record{})
	assert.False(t, ok)
}

func TestSuggest_CorrelationBeatsFrequency(t *testing.T) {
	l := New(1)
	l.Train([]model.Record{
		record(map[model.Field]model.Value{
			model.FieldUnivers: model.Text("Médical"),
			model.FieldSegment: model.Text("Équipements"),
		}),
		record(map[model.Field]model.Value{model.FieldSegment: model.Text("Consommables")}),
		record(map[model.Field]model.Value{model.FieldSegment: model.Text("Consommables")}),
	})
	require.True(t, l.Trained())

	// With the univers known, the conditional rule wins even though
	// Consommables is the more frequent segment overall.
	ctx := record(map[model.Field]model.Value{model.FieldUnivers: model.Text("Médical")})
	got, ok := l.Suggest(model.FieldSegment, ctx)
	require.True(t, ok)
	assert.Equal(t, "Équipements", got)

	got, ok = l.Suggest(model.FieldSegment, model.Record{})
	require.True(t, ok)
	assert.Equal(t, "Consommables", got)
}

func TestTrain_PairRuleNeedsSupport(t *testing.T) {
	history := []model.Record{
		record(map[model.Field]model.Value{
			model.FieldUnivers: model.Text("Médical"),
			model.FieldSegment: model.Text("Perfusion"),
			model.FieldFamille: model.Text("Pompes"),
		}),
		record(map[model.Field]model.Value{
			model.FieldUnivers: model.Text("Médical"),
			model.FieldSegment: model.Text("Perfusion"),
			model.FieldFamille: model.Text("Pompes"),
		}),
	}

	// Two co-occurrences do not reach a support of three, so only the two
	// single-condition univers rules are kept.
	l := New(3)
	l.Train(history)
	assert.Equal(t, 2, l.Summary()["correlation_rules"])

	l = New(2)
	l.Train(history)
	assert.Equal(t, 3, l.Summary()["correlation_rules"])
}

func TestSuggest_MonoMultiFollowsLotCount(t *testing.T) {
	l := New(1)
	l.Train([]model.Record{
		record(map[model.Field]model.Value{
			model.FieldNbrLots:   model.Int(1),
			model.FieldMonoMulti: model.Text("Mono-attributif"),
		}),
		record(map[model.Field]model.Value{
			model.FieldNbrLots:   model.Int(1),
			model.FieldMonoMulti: model.Text("Mono-attributif"),
		}),
		record(map[model.Field]model.Value{
			model.FieldNbrLots:   model.Int(3),
			model.FieldMonoMulti: model.Text("Multi-attributif"),
		}),
	})

	ctx := record(map[model.Field]model.Value{model.FieldNbrLots: model.Int(3)})
	got, ok := l.Suggest(model.FieldMonoMulti, ctx)
	require.True(t, ok)
	assert.Equal(t, "Multi-attributif", got)

	// An unseen lot count falls back to the most frequent value.
	ctx = record(map[model.Field]model.Value{model.FieldNbrLots: model.Int(5)})
	got, ok = l.Suggest(model.FieldMonoMulti, ctx)
	require.True(t, ok)
	assert.Equal(t, "Mono-attributif", got)
}

func amountHistory(amounts ...float64) []model.Record {
	recs := make([]model.Record, 0, len(amounts))
	for _, a := range amounts {
		recs = append(recs, record(map[model.Field]model.Value{
			model.FieldMontantGlobalEstime: model.Amount(a),
		}))
	}
	return recs
}

func TestValidateValue_NumericRange(t *testing.T) {
	l := New(3)
	l.Train(amountHistory(10000, 20000, 30000))

	v := l.ValidateValue(model.FieldMontantGlobalEstime, model.Amount(20000))
	assert.Equal(t, 0.95, v.Confidence)
	assert.Empty(t, v.Warnings)

	v = l.ValidateValue(model.FieldMontantGlobalEstime, model.Amount(100000))
	assert.Equal(t, 0.7, v.Confidence)
	assert.NotEmpty(t, v.Warnings)

	v = l.ValidateValue(model.FieldMontantGlobalEstime, model.Amount(4000))
	assert.Equal(t, 0.7, v.Confidence)

	// Above the maximum but within tolerance: neither endorsed nor flagged.
	v = l.ValidateValue(model.FieldMontantGlobalEstime, model.Amount(40000))
	assert.Equal(t, 1.0, v.Confidence)
	assert.Empty(t, v.Warnings)
}

func TestValidateValue_Untrained(t *testing.T) {
	l := New(3)
	v := l.ValidateValue(model.FieldMontantGlobalEstime, model.Amount(999999))
	assert.Equal(t, 1.0, v.Confidence)
	assert.Empty(t, v.Warnings)
}

func TestValidateValue_FrequentText(t *testing.T) {
	l := New(1)
	l.Train([]model.Record{
		record(map[model.Field]model.Value{model.FieldTypeProcedure: model.Text("Appel d'offres ouvert")}),
		record(map[model.Field]model.Value{model.FieldTypeProcedure: model.Text("Appel d'offres ouvert")}),
		record(map[model.Field]model.Value{model.FieldTypeProcedure: model.Text("Appel d'offres ouvert")}),
	})

	v := l.ValidateValue(model.FieldTypeProcedure, model.Text("Appel d'offres ouvert"))
	assert.Equal(t, 0.9, v.Confidence)

	// A near-miss of a known value is suspicious.
	v = l.ValidateValue(model.FieldTypeProcedure, model.Text("Appel d'offres ouverts"))
	assert.Equal(t, 0.6, v.Confidence)
	assert.NotEmpty(t, v.Warnings)

	// A genuinely new value is accepted as-is.
	v = l.ValidateValue(model.FieldTypeProcedure, model.Text("Dialogue compétitif"))
	assert.Equal(t, 1.0, v.Confidence)
	assert.Empty(t, v.Warnings)
}

func TestValidateValue_ReferenceFormat(t *testing.T) {
	l := New(1)
	l.Train([]model.Record{
		record(map[model.Field]model.Value{model.FieldReferenceProcedure: model.Reference("2024-A017")}),
		record(map[model.Field]model.Value{model.FieldReferenceProcedure: model.Reference("2023-B112")}),
	})

	v := l.ValidateValue(model.FieldReferenceProcedure, model.Reference("2025-C333"))
	assert.Equal(t, 1.0, v.Confidence)

	v = l.ValidateValue(model.FieldReferenceProcedure, model.Reference("AO_2024_17"))
	assert.Equal(t, 0.8, v.Confidence)
	assert.NotEmpty(t, v.Warnings)
}

func TestNormalizeToFormat(t *testing.T) {
	assert.Equal(t, "####-X###", normalizeToFormat("2024-A123"))
	assert.Equal(t, "XX_####_##", normalizeToFormat("AO_2024_17"))
}

func TestFieldStats(t *testing.T) {
	l := New(3)
	l.Train(amountHistory(10000, 20000, 30000, 40000))

	stats, ok := l.FieldStats(model.FieldMontantGlobalEstime)
	require.True(t, ok)
	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 10000.0, stats.Min)
	assert.Equal(t, 40000.0, stats.Max)
	assert.Equal(t, 25000.0, stats.Mean)
	assert.Equal(t, 25000.0, stats.Median)
	assert.Equal(t, 17500.0, stats.P25)
	assert.Equal(t, 32500.0, stats.P75)

	_, ok = l.FieldStats(model.FieldDureeMarche)
	assert.False(t, ok)
}

func TestFrequentValues_ReturnsCopy(t *testing.T) {
	l := New(1)
	l.Train([]model.Record{
		record(map[model.Field]model.Value{model.FieldUnivers: model.Text("Médical")}),
	})

	vals := l.FrequentValues(model.FieldUnivers)
	require.Len(t, vals, 1)
	vals[0].Value = "mutated"

	assert.Equal(t, "Médical", l.FrequentValues(model.FieldUnivers)[0].Value)
}
