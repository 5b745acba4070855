package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/veille-marches/tender-cli/internal/config"
	"github.com/veille-marches/tender-cli/internal/model"
)

// HistoryFilter specifies criteria for listing stored entries.
type HistoryFilter struct {
	Reference string `json:"reference,omitempty"`
	Statut    string `json:"statut,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for extraction results. Entries
// are keyed by procedure reference and lot number so re-extracting a
// document updates its rows in place.
type Store interface {
	// Entries
	UpsertEntry(ctx context.Context, entry *model.Entry) error
	// UpsertEntries saves a batch of entries in one write, skipping the
	// ones that carry no procedure reference. Returns the number saved.
	UpsertEntries(ctx context.Context, entries []*model.Entry) (int, error)
	GetEntry(ctx context.Context, reference string, lotNumero int) (*model.Entry, error)
	ListEntries(ctx context.Context, filter HistoryFilter) ([]*model.Entry, error)

	// ListHistory returns merged records for the correlation learner,
	// newest first.
	ListHistory(ctx context.Context, limit int) ([]model.Record, error)

	// Batches
	CreateBatch(ctx context.Context, source string) (*model.Batch, error)
	CompleteBatch(ctx context.Context, batchID string, nbFiles, nbEntries, nbErrors int) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open builds a store from configuration, dispatching on the driver name.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

// entryKey extracts the upsert key from an entry's merged values.
func entryKey(entry *model.Entry) (string, int, error) {
	merged := entry.Merged()
	ref, ok := merged.Get(model.FieldReferenceProcedure)
	if !ok || ref.AsText() == "" {
		return "", 0, eris.New("store: entry has no procedure reference")
	}
	lot := 1
	if v, ok := merged.Get(model.FieldLotNumero); ok && v.AsInt() > 0 {
		lot = v.AsInt()
	}
	return ref.AsText(), lot, nil
}

// entryStatut returns the derived statut for indexing, if present.
func entryStatut(entry *model.Entry) string {
	if v, ok := entry.Field(model.FieldStatut); ok {
		return v.AsText()
	}
	return ""
}

// entryConfidence returns the validation confidence, zero when the entry
// was never validated.
func entryConfidence(entry *model.Entry) float64 {
	if entry.Validation != nil {
		return entry.Validation.Confidence
	}
	return 0
}
