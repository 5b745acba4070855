package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veille-marches/tender-cli/internal/learner"
	"github.com/veille-marches/tender-cli/internal/model"
)

func record(pairs map[model.Field]string) model.Record {
	rec := model.Record{}
	for f, v := range pairs {
		rec.Set(f, model.Text(v))
	}
	return rec
}

func fixedNow(g *Generator) {
	g.now = func() time.Time {
		return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

func TestUniverse(t *testing.T) {
	g := New(nil)

	rec := record(map[model.Field]string{
		model.FieldIntituleProcedure: "Fourniture de gants pour le service de chirurgie",
	})
	assert.Equal(t, "Médical", g.Universe(rec))

	// Two hits each for Médical and Equipement; the declaration order
	// breaks the tie in favor of Médical.
	rec = record(map[model.Field]string{
		model.FieldIntituleProcedure: "Maintenance des équipements de stérilisation du laboratoire",
	})
	assert.Equal(t, "Médical", g.Universe(rec))

	// Medical disposables must not read as office consommables: "gants"
	// and "seringues" are not Consommable triggers, so the care-service
	// vocabulary wins.
	rec = record(map[model.Field]string{
		model.FieldIntituleProcedure: "Fourniture de gants et seringues pour les services de soins",
	})
	assert.Equal(t, "Médical", g.Universe(rec))

	rec = record(map[model.Field]string{
		model.FieldIntituleProcedure: "Fourniture de papier et cartouches d'encre",
	})
	assert.Equal(t, "Consommable", g.Universe(rec))

	assert.Equal(t, UniverseDefault, g.Universe(model.Record{}))
}

func TestGroupement(t *testing.T) {
	g := New(nil)

	rec := record(map[model.Field]string{
		model.FieldIntituleProcedure: "Accord-cadre RESAH de fournitures médicales",
	})
	assert.Equal(t, "RESAH", g.Groupement(rec))

	rec = record(map[model.Field]string{
		model.FieldGroupement: "Union des Groupements d'Achats Publics",
	})
	assert.Equal(t, "UGAP", g.Groupement(rec))

	rec = record(map[model.Field]string{
		model.FieldIntituleProcedure: "Fourniture de papier",
	})
	assert.Equal(t, GroupementAutre, g.Groupement(rec))
}

func TestStatut(t *testing.T) {
	g := New(nil)
	fixedNow(g)

	rec := record(map[model.Field]string{model.FieldDateAttribution: "10/06/2024"})
	assert.Equal(t, "Attribué", g.Statut(rec))

	rec = record(map[model.Field]string{model.FieldAttributaire: "Medline SAS"})
	assert.Equal(t, "Attribué", g.Statut(rec))

	rec = record(map[model.Field]string{model.FieldDateLimite: "15/03/2024"})
	assert.Equal(t, "Clôturé", g.Statut(rec))

	rec = record(map[model.Field]string{
		model.FieldDateLimite:         "15/03/2026",
		model.FieldReferenceProcedure: "2024-A017",
		model.FieldIntituleProcedure:  "Fourniture de gants",
	})
	assert.Equal(t, "En cours", g.Statut(rec))

	assert.Equal(t, "", g.Statut(model.Record{}))
}

func TestKeywords(t *testing.T) {
	g := New(nil)

	rec := record(map[model.Field]string{
		model.FieldIntituleProcedure: "Formation aux gestes de premiers secours",
	})
	assert.Equal(t,
		"formation, gestes, premiers, secours, apprentissage, développement",
		g.Keywords(rec))

	// Too few real words get padded with the generic ones.
	rec = record(map[model.Field]string{model.FieldIntituleProcedure: "Achat de cartouches"})
	assert.Equal(t, "cartouches, appel, offres, marché", g.Keywords(rec))

	assert.Equal(t, "appel, offres, marché, public", g.Keywords(model.Record{}))
}

func TestSegment(t *testing.T) {
	g := New(nil)

	rec := record(map[model.Field]string{model.FieldUnivers: "Médical"})
	assert.Equal(t, "Hospitalier", g.Segment(rec))

	rec = record(map[model.Field]string{model.FieldIntituleProcedure: "Maintenance des ascenseurs"})
	assert.Equal(t, "Services", g.Segment(rec))

	rec = record(map[model.Field]string{model.FieldGroupement: "UNIHA"})
	assert.Equal(t, "Hospitalier", g.Segment(rec))

	assert.Equal(t, "", g.Segment(model.Record{}))
}

func TestSegment_PrefersLearner(t *testing.T) {
	l := learner.New(1)
	hist := model.Record{}
	hist.Set(model.FieldUnivers, model.Text("Médical"))
	hist.Set(model.FieldSegment, model.Text("Perfusion"))
	l.Train([]model.Record{hist})

	g := New(l)
	rec := record(map[model.Field]string{model.FieldUnivers: "Médical"})
	assert.Equal(t, "Perfusion", g.Segment(rec))
}

func TestFamille(t *testing.T) {
	g := New(nil)

	rec := record(map[model.Field]string{
		model.FieldUnivers:           "Médical",
		model.FieldIntituleProcedure: "Stérilisation des instruments",
	})
	assert.Equal(t, "Stérilisation", g.Famille(rec))

	rec = record(map[model.Field]string{
		model.FieldUnivers:           "Médical",
		model.FieldIntituleProcedure: "Fourniture de gants pour la chirurgie",
	})
	assert.Equal(t, "Matériel médical", g.Famille(rec))

	rec = record(map[model.Field]string{model.FieldIntituleProcedure: "Formation bureautique"})
	assert.Equal(t, "Formation", g.Famille(rec))
}

func TestApply_FillsGeneratedSide(t *testing.T) {
	g := New(nil)
	fixedNow(g)

	e := model.NewEntry()
	e.ValeursExtraites.Set(model.FieldIntituleProcedure,
		model.Text("Fourniture de gants pour le service de chirurgie"))
	e.ValeursExtraites.Set(model.FieldReferenceProcedure, model.Reference("2024-A017"))
	e.ValeursExtraites.Set(model.FieldDateLimite, model.Date("15/03/2024"))

	g.Apply(e)

	univers, ok := e.ValeursGenerees.Get(model.FieldUnivers)
	require.True(t, ok)
	assert.Equal(t, "Médical", univers.AsText())

	statut, ok := e.ValeursGenerees.Get(model.FieldStatut)
	require.True(t, ok)
	assert.Equal(t, "Clôturé", statut.AsText())

	mots, ok := e.ValeursGenerees.Get(model.FieldMotsCles)
	require.True(t, ok)
	assert.Contains(t, mots.AsText(), "gants")

	segment, ok := e.ValeursGenerees.Get(model.FieldSegment)
	require.True(t, ok)
	assert.Equal(t, "Hospitalier", segment.AsText())

	famille, ok := e.ValeursGenerees.Get(model.FieldFamille)
	require.True(t, ok)
	assert.Equal(t, "Matériel médical", famille.AsText())

	// No purchasing group was detected; AUTRE is not persisted.
	assert.False(t, e.ValeursGenerees.Has(model.FieldGroupement))
}

func TestApply_NeverOverwritesExtracted(t *testing.T) {
	g := New(nil)
	fixedNow(g)

	e := model.NewEntry()
	e.ValeursExtraites.Set(model.FieldUnivers, model.Text("Informatique"))
	e.ValeursExtraites.Set(model.FieldIntituleProcedure,
		model.Text("Fourniture de gants pour le bloc de chirurgie"))

	g.Apply(e)

	assert.False(t, e.ValeursGenerees.Has(model.FieldUnivers))
	v, ok := e.Field(model.FieldUnivers)
	require.True(t, ok)
	assert.Equal(t, "Informatique", v.AsText())

	// Derivations downstream of univers read the extracted value.
	segment, ok := e.ValeursGenerees.Get(model.FieldSegment)
	require.True(t, ok)
	assert.Equal(t, "Logiciels", segment.AsText())
}
