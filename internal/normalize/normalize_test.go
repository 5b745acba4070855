package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veille-marches/tender-cli/internal/model"
)

func TestAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"150k€", 150000, true},
		{"150 keuros", 150000, true},
		{"2.5M€", 2500000, true},
		{"2,5 millions d'euros", 2500000, true},
		{"1 234,56 €", 1234.56, true},
		{"50 000 euros HT", 50000, true},
		{"1.234.567", 1234567, true},
		{"1234.56", 1234.56, true},
		{"0", 0, true},
		{"gratuit", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := Amount(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestDate(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"15/03/2024", "15/03/2024", true},
		{"15-03-2024", "15/03/2024", true},
		{"15/03/24", "15/03/2024", true},
		{"2024-03-15", "15/03/2024", true},
		{"1er mars 2024", "01/03/2024", true},
		{"15 sept. 2024", "15/09/2024", true},
		{"3 décembre 2025", "03/12/2025", true},
		{"31/02/2024", "", false},
		{"15/13/2024", "", false},
		{"15/03/1999", "", false},
		{"prochainement", "", false},
	}
	for _, tc := range cases {
		got, ok := Date(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestParseDate_RoundTrip(t *testing.T) {
	s, ok := Date("15 juin 2024")
	require.True(t, ok)
	tm, ok := ParseDate(s)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), tm)

	_, ok = ParseDate("pas une date")
	assert.False(t, ok)
}

func TestDurationMonths(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"18 mois", 18, true},
		{"2 ans et 3 mois", 27, true},
		{"1 an", 12, true},
		{"4 ans", 48, true},
		{"4", 4, true},
		{"durée indéterminée", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := DurationMonths(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestTri(t *testing.T) {
	cases := []struct {
		raw  string
		want model.TriState
	}{
		{"oui", model.TriOui},
		{"clause exigée", model.TriOui},
		{"inclus dans le marché", model.TriOui},
		{"non", model.TriNon},
		{"aucune", model.TriNon},
		{"sans objet", model.TriNon},
		{"voir article 12", model.TriNonSpecifie},
	}
	for _, tc := range cases {
		got, ok := Tri(tc.raw)
		require.True(t, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	_, ok := Tri("  ")
	assert.False(t, ok)
}

func TestReferenceCode(t *testing.T) {
	got, ok := ReferenceCode(" 2024_ach 017 ")
	require.True(t, ok)
	assert.Equal(t, "2024-ACH-017", got)

	// Canonical form survives a second pass.
	again, ok := ReferenceCode(got)
	require.True(t, ok)
	assert.Equal(t, got, again)

	_, ok = ReferenceCode("***")
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	got, ok := Text("  Fourniture   de\n gants : ")
	require.True(t, ok)
	assert.Equal(t, "Fourniture de gants", got)

	_, ok = Text(" : ")
	assert.False(t, ok)
}

func TestValue_ByKind(t *testing.T) {
	v, ok := Value(model.FieldMontantGlobalEstime, "150 k€")
	require.True(t, ok)
	assert.Equal(t, 150000.0, v.AsAmount())

	// A parseable zero amount carries no information.
	_, ok = Value(model.FieldMontantGlobalEstime, "0 €")
	assert.False(t, ok)

	v, ok = Value(model.FieldDateLimite, "15 mars 2024")
	require.True(t, ok)
	assert.Equal(t, "15/03/2024", v.AsText())

	v, ok = Value(model.FieldDureeMarche, "2 ans")
	require.True(t, ok)
	assert.Equal(t, 24, v.AsInt())

	v, ok = Value(model.FieldReferenceProcedure, "2024 a017")
	require.True(t, ok)
	assert.Equal(t, "2024-A017", v.AsText())

	v, ok = Value(model.FieldRSE, "oui")
	require.True(t, ok)
	assert.Equal(t, model.TriOui, v.AsTri())

	v, ok = Value(model.FieldNbrLots, "3 lots")
	require.True(t, ok)
	assert.Equal(t, 3, v.AsInt())

	v, ok = Value(model.FieldIntituleProcedure, "  Fourniture de gants  ")
	require.True(t, ok)
	assert.Equal(t, "Fourniture de gants", v.AsText())
}
