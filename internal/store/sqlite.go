package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/veille-marches/tender-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS entries (
	id           TEXT PRIMARY KEY,
	reference    TEXT NOT NULL,
	lot_numero   INTEGER NOT NULL DEFAULT 1,
	extraites    TEXT NOT NULL,
	generees     TEXT NOT NULL,
	validation   TEXT,
	confidence   REAL NOT NULL DEFAULT 0,
	statut       TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (reference, lot_numero)
);

CREATE TABLE IF NOT EXISTS batches (
	id           TEXT PRIMARY KEY,
	source       TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'running',
	nb_files     INTEGER NOT NULL DEFAULT 0,
	nb_entries   INTEGER NOT NULL DEFAULT 0,
	nb_errors    INTEGER NOT NULL DEFAULT 0,
	started_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_entries_reference ON entries(reference);
CREATE INDEX IF NOT EXISTS idx_entries_statut ON entries(statut);
CREATE INDEX IF NOT EXISTS idx_entries_updated_at ON entries(updated_at);
CREATE INDEX IF NOT EXISTS idx_batches_status ON batches(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertEntry(ctx context.Context, entry *model.Entry) error {
	ref, lot, err := entryKey(entry)
	if err != nil {
		return err
	}

	extraites, generees, validation, err := marshalEntry(entry)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entries (id, reference, lot_numero, extraites, generees, validation, confidence, statut, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (reference, lot_numero) DO UPDATE SET
			extraites = excluded.extraites,
			generees = excluded.generees,
			validation = excluded.validation,
			confidence = excluded.confidence,
			statut = excluded.statut,
			updated_at = excluded.updated_at`,
		uuid.New().String(), ref, lot, extraites, generees, validation,
		entryConfidence(entry), entryStatut(entry), now, now,
	)
	return eris.Wrapf(err, "sqlite: upsert entry %s lot %d", ref, lot)
}

// UpsertEntries saves a batch of entries in a single transaction. Entries
// without a procedure reference are skipped.
func (s *SQLiteStore) UpsertEntries(ctx context.Context, entries []*model.Entry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	saved := 0
	now := time.Now().UTC()
	for _, entry := range entries {
		ref, lot, err := entryKey(entry)
		if err != nil {
			zap.L().Warn("sqlite: skipping entry without reference")
			continue
		}
		extraites, generees, validation, err := marshalEntry(entry)
		if err != nil {
			return 0, err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO entries (id, reference, lot_numero, extraites, generees, validation, confidence, statut, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (reference, lot_numero) DO UPDATE SET
				extraites = excluded.extraites,
				generees = excluded.generees,
				validation = excluded.validation,
				confidence = excluded.confidence,
				statut = excluded.statut,
				updated_at = excluded.updated_at`,
			uuid.New().String(), ref, lot, extraites, generees, validation,
			entryConfidence(entry), entryStatut(entry), now, now,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert entry %s lot %d", ref, lot)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return saved, nil
}

func (s *SQLiteStore) GetEntry(ctx context.Context, reference string, lotNumero int) (*model.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT extraites, generees, validation FROM entries WHERE reference = ? AND lot_numero = ?`,
		reference, lotNumero,
	)
	entry, err := scanEntry(row)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get entry %s lot %d", reference, lotNumero)
	}
	return entry, nil
}

func (s *SQLiteStore) ListEntries(ctx context.Context, filter HistoryFilter) ([]*model.Entry, error) {
	query := `SELECT extraites, generees, validation FROM entries WHERE 1=1`
	var args []any

	if filter.Reference != "" {
		query += ` AND reference = ?`
		args = append(args, filter.Reference)
	}
	if filter.Statut != "" {
		query += ` AND statut = ?`
		args = append(args, filter.Statut)
	}
	query += ` ORDER BY updated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list entries")
	}
	defer rows.Close()

	var entries []*model.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan entry")
		}
		entries = append(entries, entry)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list entries iterate")
}

func (s *SQLiteStore) ListHistory(ctx context.Context, limit int) ([]model.Record, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT extraites, generees, validation FROM entries ORDER BY updated_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list history")
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan history entry")
		}
		records = append(records, entry.Merged())
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list history iterate")
}

func (s *SQLiteStore) CreateBatch(ctx context.Context, source string) (*model.Batch, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO batches (id, source, status, started_at) VALUES (?, ?, ?, ?)`,
		id, source, string(model.BatchRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert batch")
	}

	return &model.Batch{
		ID:        id,
		Source:    source,
		Status:    model.BatchRunning,
		StartedAt: now,
	}, nil
}

func (s *SQLiteStore) CompleteBatch(ctx context.Context, batchID string, nbFiles, nbEntries, nbErrors int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE batches SET status = ?, nb_files = ?, nb_entries = ?, nb_errors = ?, completed_at = ? WHERE id = ?`,
		string(model.BatchComplete), nbFiles, nbEntries, nbErrors, time.Now().UTC(), batchID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete batch %s", batchID)
	}
	return checkRowsAffected(res, "batch", batchID)
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

func marshalEntry(entry *model.Entry) (string, string, sql.NullString, error) {
	extraites, err := json.Marshal(entry.ValeursExtraites)
	if err != nil {
		return "", "", sql.NullString{}, eris.Wrap(err, "store: marshal extracted values")
	}
	generees, err := json.Marshal(entry.ValeursGenerees)
	if err != nil {
		return "", "", sql.NullString{}, eris.Wrap(err, "store: marshal generated values")
	}
	var validation sql.NullString
	if entry.Validation != nil {
		b, err := json.Marshal(entry.Validation)
		if err != nil {
			return "", "", sql.NullString{}, eris.Wrap(err, "store: marshal validation")
		}
		validation = sql.NullString{String: string(b), Valid: true}
	}
	return string(extraites), string(generees), validation, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (*model.Entry, error) {
	var extraites, generees string
	var validation sql.NullString

	err := row.Scan(&extraites, &generees, &validation)
	if err == sql.ErrNoRows {
		return nil, eris.New("entry not found")
	}
	if err != nil {
		return nil, err
	}

	entry := model.NewEntry()
	if err := json.Unmarshal([]byte(extraites), &entry.ValeursExtraites); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal extracted values")
	}
	if err := json.Unmarshal([]byte(generees), &entry.ValeursGenerees); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal generated values")
	}
	if validation.Valid {
		entry.Validation = &model.ValidationResult{}
		if err := json.Unmarshal([]byte(validation.String), entry.Validation); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal validation")
		}
	}
	entry.ComputeStats()
	return entry, nil
}
