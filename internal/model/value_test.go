package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Constructors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindText, Text("ouvert").Kind())
	assert.Equal(t, "ouvert", Text("ouvert").AsText())

	v := Amount(1234.567)
	assert.Equal(t, KindAmount, v.Kind())
	assert.InDelta(t, 1234.57, v.AsAmount(), 1e-9)

	assert.True(t, Amount(-5).IsEmpty())
	assert.Equal(t, 0.0, Amount(-5).AsAmount())

	assert.Equal(t, 27, Duration(27).AsInt())
	assert.True(t, Duration(-3).IsEmpty())
	assert.Equal(t, 3, Int(3).AsInt())
	assert.Equal(t, TriOui, Tri(TriOui).AsTri())
	assert.Equal(t, TriState(""), Text("oui").AsTri())
}

func TestValue_IsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, Value{}.IsEmpty())
	assert.True(t, Text("   ").IsEmpty())
	assert.True(t, Amount(0).IsEmpty())
	assert.True(t, Int(0).IsEmpty())
	assert.False(t, Reference("2024-A017").IsEmpty())
	assert.False(t, Amount(0.01).IsEmpty())
}

func TestRecord_SetDropsEmpty(t *testing.T) {
	t.Parallel()

	r := make(Record)
	r.Set(FieldMontantGlobalEstime, Amount(50000))
	require.True(t, r.Has(FieldMontantGlobalEstime))

	r.Set(FieldMontantGlobalEstime, Amount(0))
	assert.False(t, r.Has(FieldMontantGlobalEstime))
	_, ok := r.Get(FieldMontantGlobalEstime)
	assert.False(t, ok)
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	r := Record{FieldSegment: Text("Hospitalier")}
	c := r.Clone()
	c.Set(FieldSegment, Text("Services"))

	v, ok := r.Get(FieldSegment)
	require.True(t, ok)
	assert.Equal(t, "Hospitalier", v.AsText())
}

func TestRecord_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	r := Record{}
	r.Set(FieldReferenceProcedure, Reference("2024-A017"))
	r.Set(FieldMontantGlobalEstime, Amount(50000))
	r.Set(FieldDureeMarche, Duration(24))
	r.Set(FieldRSE, Tri(TriNon))

	data, err := json.Marshal(r)
	require.NoError(t, err)

	// Amounts and durations serialize as numbers, not strings.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, 50000.0, raw["montant_global_estime"])
	assert.Equal(t, 24.0, raw["duree_marche"])
	assert.Equal(t, "2024-A017", raw["reference_procedure"])

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)

	v, ok := back.Get(FieldMontantGlobalEstime)
	require.True(t, ok)
	assert.Equal(t, KindAmount, v.Kind())
}

func TestRecord_UnmarshalRetypesStrings(t *testing.T) {
	t.Parallel()

	// Legacy exports carried every value as a string.
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"montant_global_estime":"50000","nbr_lots":"3"}`), &r))

	v, ok := r.Get(FieldMontantGlobalEstime)
	require.True(t, ok)
	assert.Equal(t, 50000.0, v.AsAmount())

	n, ok := r.Get(FieldNbrLots)
	require.True(t, ok)
	assert.Equal(t, 3, n.AsInt())
}

func TestEntry_MergedAndField(t *testing.T) {
	t.Parallel()

	e := NewEntry()
	e.ValeursExtraites.Set(FieldSegment, Text("Hospitalier"))
	e.ValeursGenerees.Set(FieldSegment, Text("Services"))
	e.ValeursGenerees.Set(FieldUnivers, Text("Médical"))

	m := e.Merged()
	seg, ok := m.Get(FieldSegment)
	require.True(t, ok)
	assert.Equal(t, "Hospitalier", seg.AsText())

	uni, ok := e.Field(FieldUnivers)
	require.True(t, ok)
	assert.Equal(t, "Médical", uni.AsText())

	_, ok = e.Field(FieldFamille)
	assert.False(t, ok)
}

func TestEntry_ComputeStats(t *testing.T) {
	t.Parallel()

	e := NewEntry()
	e.ValeursExtraites.Set(FieldReferenceProcedure, Reference("2024-A017"))
	e.ValeursGenerees.Set(FieldUnivers, Text("Médical"))
	e.ComputeStats()

	total := len(AllFields())
	assert.Equal(t, total, e.Statistiques.TotalFields)
	assert.Equal(t, 2, e.Statistiques.FilledFields)
	assert.InDelta(t, 2.0/float64(total), e.Statistiques.CompletionRate, 1e-9)
}

func TestErrorEntry(t *testing.T) {
	t.Parallel()

	e := ErrorEntry("pdf_unreadable", "extraction impossible", "pdftotext exit 1")
	assert.Equal(t, "pdf_unreadable", e.ErrorType)
	assert.Equal(t, "extraction impossible", e.Erreur)
	assert.Empty(t, e.ValeursExtraites)
	assert.NotNil(t, e.ValeursGenerees)
}

func TestEssentialFields(t *testing.T) {
	t.Parallel()

	assert.ElementsMatch(t,
		[]Field{FieldReferenceProcedure, FieldIntituleProcedure},
		EssentialFields())
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindAmount, KindOf(FieldMontantGlobalMaxi))
	assert.Equal(t, KindDate, KindOf(FieldDateLimite))
	assert.Equal(t, KindText, KindOf(Field("unknown")))
}
