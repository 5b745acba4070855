package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veille-marches/tender-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func testEntry(reference string, lot int) *model.Entry {
	e := model.NewEntry()
	e.ValeursExtraites.Set(model.FieldReferenceProcedure, model.Reference(reference))
	e.ValeursExtraites.Set(model.FieldLotNumero, model.Int(lot))
	e.ValeursExtraites.Set(model.FieldIntituleLot, model.Text("Gants d'examen"))
	e.ValeursExtraites.Set(model.FieldMontantGlobalEstime, model.Amount(50000))
	e.ValeursGenerees.Set(model.FieldStatut, model.Text("En cours"))
	e.Validation = &model.ValidationResult{IsValid: true, Confidence: 0.85}
	return e
}

func TestSQLiteStore_UpsertAndGet(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertEntry(ctx, testEntry("2024-A017", 2)))

	got, err := s.GetEntry(ctx, "2024-A017", 2)
	require.NoError(t, err)

	if v, ok := got.ValeursExtraites.Get(model.FieldIntituleLot); assert.True(t, ok) {
		assert.Equal(t, "Gants d'examen", v.AsText())
	}
	if v, ok := got.ValeursExtraites.Get(model.FieldMontantGlobalEstime); assert.True(t, ok) {
		assert.Equal(t, 50000.0, v.AsAmount())
	}
	if v, ok := got.ValeursGenerees.Get(model.FieldStatut); assert.True(t, ok) {
		assert.Equal(t, "En cours", v.AsText())
	}
	require.NotNil(t, got.Validation)
	assert.Equal(t, 0.85, got.Validation.Confidence)
}

func TestSQLiteStore_Upsert_ReplacesExisting(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertEntry(ctx, testEntry("2024-A017", 1)))

	updated := testEntry("2024-A017", 1)
	updated.ValeursExtraites.Set(model.FieldIntituleLot, model.Text("Sondes d'aspiration"))
	require.NoError(t, s.UpsertEntry(ctx, updated))

	entries, err := s.ListEntries(ctx, HistoryFilter{Reference: "2024-A017"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	if v, ok := entries[0].ValeursExtraites.Get(model.FieldIntituleLot); assert.True(t, ok) {
		assert.Equal(t, "Sondes d'aspiration", v.AsText())
	}
}

func TestSQLiteStore_UpsertEntries(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	n, err := s.UpsertEntries(ctx, []*model.Entry{
		testEntry("2024-A017", 1),
		testEntry("2024-A017", 2),
		model.NewEntry(), // no reference, skipped
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := s.ListEntries(ctx, HistoryFilter{Reference: "2024-A017"})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// A second run updates in place instead of duplicating.
	n, err = s.UpsertEntries(ctx, []*model.Entry{testEntry("2024-A017", 1)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entries, err = s.ListEntries(ctx, HistoryFilter{Reference: "2024-A017"})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSQLiteStore_Upsert_MissingReference(t *testing.T) {
	s := newTestSQLite(t)

	e := model.NewEntry()
	e.ValeursExtraites.Set(model.FieldIntituleLot, model.Text("sans référence"))

	err := s.UpsertEntry(context.Background(), e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no procedure reference")
}

func TestSQLiteStore_GetEntry_NotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetEntry(context.Background(), "2099-Z999", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteStore_ListHistory_MergesValues(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertEntry(ctx, testEntry("2024-A017", 1)))
	require.NoError(t, s.UpsertEntry(ctx, testEntry("2024-B123", 1)))

	records, err := s.ListHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, rec := range records {
		assert.True(t, rec.Has(model.FieldReferenceProcedure))
		if v, ok := rec.Get(model.FieldStatut); assert.True(t, ok) {
			assert.Equal(t, "En cours", v.AsText())
		}
	}
}

func TestSQLiteStore_ListEntries_FilterByStatut(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertEntry(ctx, testEntry("2024-A017", 1)))

	closed := testEntry("2024-B123", 1)
	closed.ValeursGenerees.Set(model.FieldStatut, model.Text("Clôturé"))
	require.NoError(t, s.UpsertEntry(ctx, closed))

	entries, err := s.ListEntries(ctx, HistoryFilter{Statut: "Clôturé"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	if v, ok := entries[0].ValeursExtraites.Get(model.FieldReferenceProcedure); assert.True(t, ok) {
		assert.Equal(t, "2024-B123", v.AsText())
	}
}

func TestSQLiteStore_Batches(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	batch, err := s.CreateBatch(ctx, "/data/tenders")
	require.NoError(t, err)
	assert.NotEmpty(t, batch.ID)
	assert.Equal(t, model.BatchRunning, batch.Status)

	require.NoError(t, s.CompleteBatch(ctx, batch.ID, 12, 30, 2))

	err = s.CompleteBatch(ctx, "unknown-batch", 0, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
