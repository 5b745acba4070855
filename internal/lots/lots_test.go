package lots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veille-marches/tender-cli/internal/model"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"collapses newlines", "Fourniture de reactifs\nde laboratoire", "Fourniture de reactifs de laboratoire"},
		{"strips trailing amount", "Maintenance des ascenseurs 400 000 €", "Maintenance des ascenseurs"},
		{"strips trailing suffix amount", "Nettoyage des locaux 150k€", "Nettoyage des locaux"},
		{"strips boilerplate tail", "Fourniture de gants pour CENTRES", "Fourniture de gants"},
		{"strips dangling stop word", "Transport de", "Transport"},
		{"drops formatting characters", "Blanchisserie * linge plat", "Blanchisserie linge plat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanTitle(tt.in))
		})
	}
}

func TestAmountsInText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected []float64
	}{
		{"adjacent plain numbers stay separate", "50000 60000", []float64{50000, 60000}},
		{"space grouped thousands merge", "400 000 € 800 000 €", []float64{400000, 800000}},
		{"currency closes the amount", "400000€ 800000€", []float64{400000, 800000}},
		{"mixed with words", "estime 10 000 € maxi 20 000 €", []float64{10000, 20000}},
		{"no numbers", "aucun montant ici", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, amountsInText(tt.in))
		})
	}
}

func TestStructuredTable_FourColumnRows(t *testing.T) {
	text := "1 MAINTENANCE INFORMATIQUE 50000 60000\n2 FORMATION 30000 40000"

	lots := (&StructuredTable{}).Detect(text)
	require.Len(t, lots, 2)

	assert.Equal(t, 1, lots[0].Numero)
	assert.Equal(t, "MAINTENANCE INFORMATIQUE", lots[0].Intitule)
	assert.Equal(t, 50000.0, lots[0].MontantEstime)
	assert.Equal(t, 60000.0, lots[0].MontantMaxi)

	assert.Equal(t, 2, lots[1].Numero)
	assert.Equal(t, "FORMATION", lots[1].Intitule)
	assert.Equal(t, 30000.0, lots[1].MontantEstime)
	assert.Equal(t, 40000.0, lots[1].MontantMaxi)
}

func TestLineAnalysis_CollatedLots(t *testing.T) {
	text := "Répartition des lots\n20 Micro-manipulateur 400000€ 800000€ 21 Station complète 100000€ 200000€"

	lots := (&LineAnalysis{}).Detect(text)
	require.Len(t, lots, 2)

	assert.Equal(t, 20, lots[0].Numero)
	assert.Equal(t, "Micro-manipulateur", lots[0].Intitule)
	assert.Equal(t, 400000.0, lots[0].MontantEstime)
	assert.Equal(t, 800000.0, lots[0].MontantMaxi)

	assert.Equal(t, 21, lots[1].Numero)
	assert.Equal(t, "Station complète", lots[1].Intitule)
	assert.Equal(t, 100000.0, lots[1].MontantEstime)
	assert.Equal(t, 200000.0, lots[1].MontantMaxi)
}

func TestLineAnalysis_RejectsFauxLots(t *testing.T) {
	text := "Règlement de la consultation lots\n1 Objet de la consultation"

	lots := (&LineAnalysis{}).Detect(text)
	assert.Empty(t, lots)
}

func TestMultiLineTitles_WrappedTitle(t *testing.T) {
	text := "3 Fourniture de reactifs\nde laboratoire\n\nLot n° 3 conditions\nMontant estime 10 000 € maxi 20 000 €"

	lots := (&MultiLineTitles{}).Detect(text)
	require.Len(t, lots, 1)

	assert.Equal(t, 3, lots[0].Numero)
	assert.Equal(t, "Fourniture de reactifs de laboratoire", lots[0].Intitule)
	assert.Equal(t, 10000.0, lots[0].MontantEstime)
	assert.Equal(t, 20000.0, lots[0].MontantMaxi)
}

func TestFlexiblePatterns_DashSeparatedAmounts(t *testing.T) {
	text := "Allotissement\n1 Fourniture de materiel medical - 400000€ - 800000€\n2 Maintenance des equipements - 100000€ - 200000€\n"

	lots := (&FlexiblePatterns{}).Detect(text)
	require.Len(t, lots, 2)

	assert.Equal(t, 1, lots[0].Numero)
	assert.Equal(t, "Fourniture de materiel medical", lots[0].Intitule)
	assert.Equal(t, 400000.0, lots[0].MontantEstime)
	assert.Equal(t, 800000.0, lots[0].MontantMaxi)

	assert.Equal(t, 2, lots[1].Numero)
	assert.Equal(t, 100000.0, lots[1].MontantEstime)
	assert.Equal(t, 200000.0, lots[1].MontantMaxi)
}

func TestExcelTable_RequiresThreeRows(t *testing.T) {
	three := "1 Nettoyage des locaux 50000 60000\n2 Gardiennage des sites 30000 40000\n3 Entretien des espaces verts 20000 25000"
	two := "1 Nettoyage des locaux 50000 60000\n2 Gardiennage des sites 30000 40000"

	lots := (&ExcelTable{}).Detect(three)
	require.Len(t, lots, 3)
	assert.Equal(t, "Nettoyage des locaux", lots[0].Intitule)
	assert.Equal(t, 50000.0, lots[0].MontantEstime)
	assert.Equal(t, 60000.0, lots[0].MontantMaxi)

	assert.Empty(t, (&ExcelTable{}).Detect(two))
}

func TestExcelTable_SingleAmountFillsBoth(t *testing.T) {
	text := "1 Nettoyage des locaux 50000\n2 Gardiennage des sites 30000\n3 Entretien des espaces verts 20000"

	lots := (&ExcelTable{}).Detect(text)
	require.Len(t, lots, 3)
	assert.Equal(t, 30000.0, lots[1].MontantEstime)
	assert.Equal(t, 30000.0, lots[1].MontantMaxi)
}

func TestFuse_FirstStrategyOwnsTheLot(t *testing.T) {
	byStrategy := map[string][]model.LotCandidate{
		"LineAnalysis": {
			{Numero: 1, Intitule: "MAINTENANCE", Sources: []string{"LineAnalysis"}},
		},
		"StructuredTable": {
			{Numero: 1, Intitule: "MAINTENANCE INFORMATIQUE", MontantEstime: 50000, MontantMaxi: 60000, Sources: []string{"StructuredTable"}},
			{Numero: 2, Intitule: "FORMATION", MontantEstime: 30000, MontantMaxi: 40000, Sources: []string{"StructuredTable"}},
		},
	}

	lots := Fuse(byStrategy)
	require.Len(t, lots, 2)

	// Lot 1 keeps LineAnalysis ownership, gains the longer title and the
	// missing amounts, and records both sources.
	assert.Equal(t, "MAINTENANCE INFORMATIQUE", lots[0].Intitule)
	assert.Equal(t, 50000.0, lots[0].MontantEstime)
	assert.Equal(t, 60000.0, lots[0].MontantMaxi)
	assert.Equal(t, []string{"LineAnalysis", "StructuredTable"}, lots[0].Sources)

	assert.Equal(t, 2, lots[1].Numero)
	assert.Equal(t, []string{"StructuredTable"}, lots[1].Sources)
}

func TestFuse_KeepsExistingAmounts(t *testing.T) {
	byStrategy := map[string][]model.LotCandidate{
		"LineAnalysis": {
			{Numero: 5, Intitule: "Blanchisserie", MontantEstime: 10000, MontantMaxi: 20000},
		},
		"ExcelTable": {
			{Numero: 5, Intitule: "Blanchisserie", MontantEstime: 99999, MontantMaxi: 99999},
		},
	}

	lots := Fuse(byStrategy)
	require.Len(t, lots, 1)
	assert.Equal(t, 10000.0, lots[0].MontantEstime)
	assert.Equal(t, 20000.0, lots[0].MontantMaxi)
}

func TestFuse_DropsInvalidNumeros(t *testing.T) {
	byStrategy := map[string][]model.LotCandidate{
		"StructuredTable": {
			{Numero: 0, Intitule: "Hors bornes"},
			{Numero: 250, Intitule: "Hors bornes"},
			{Numero: 7, Intitule: "Valide"},
		},
	}

	lots := Fuse(byStrategy)
	require.Len(t, lots, 1)
	assert.Equal(t, 7, lots[0].Numero)
}

func TestDetect_TableWithAmounts(t *testing.T) {
	text := "1 MAINTENANCE INFORMATIQUE 50000 60000\n2 FORMATION 30000 40000"

	lots := Detect(text)
	require.Len(t, lots, 2)
	assert.Equal(t, 50000.0, lots[0].MontantEstime)
	assert.Equal(t, 60000.0, lots[0].MontantMaxi)
	assert.Equal(t, 30000.0, lots[1].MontantEstime)
	assert.Equal(t, 40000.0, lots[1].MontantMaxi)
}
