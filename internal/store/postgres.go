package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/veille-marches/tender-cli/internal/db"
	"github.com/veille-marches/tender-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"upsert_entry": `INSERT INTO entries (id, reference, lot_numero, extraites, generees, validation, confidence, statut, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (reference, lot_numero) DO UPDATE SET
			extraites = excluded.extraites,
			generees = excluded.generees,
			validation = excluded.validation,
			confidence = excluded.confidence,
			statut = excluded.statut,
			updated_at = excluded.updated_at`,
	"get_entry":      `SELECT extraites, generees, validation FROM entries WHERE reference = $1 AND lot_numero = $2`,
	"list_history":   `SELECT extraites, generees, validation FROM entries ORDER BY updated_at DESC LIMIT $1`,
	"insert_batch":   `INSERT INTO batches (id, source, status, started_at) VALUES ($1, $2, $3, $4)`,
	"complete_batch": `UPDATE batches SET status = $1, nb_files = $2, nb_entries = $3, nb_errors = $4, completed_at = $5 WHERE id = $6`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool, used by tests with pgxmock.
func NewPostgresWithPool(pool db.Pool, closeFn func()) *PostgresStore {
	return &PostgresStore{pool: pool, closeFn: closeFn}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS entries (
	id           TEXT PRIMARY KEY,
	reference    TEXT NOT NULL,
	lot_numero   INTEGER NOT NULL DEFAULT 1,
	extraites    JSONB NOT NULL,
	generees     JSONB NOT NULL,
	validation   JSONB,
	confidence   DOUBLE PRECISION NOT NULL DEFAULT 0,
	statut       TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (reference, lot_numero)
);

CREATE TABLE IF NOT EXISTS batches (
	id           TEXT PRIMARY KEY,
	source       TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'running',
	nb_files     INTEGER NOT NULL DEFAULT 0,
	nb_entries   INTEGER NOT NULL DEFAULT 0,
	nb_errors    INTEGER NOT NULL DEFAULT 0,
	started_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_entries_reference ON entries(reference);
CREATE INDEX IF NOT EXISTS idx_entries_statut ON entries(statut);
CREATE INDEX IF NOT EXISTS idx_entries_updated_at ON entries(updated_at);
CREATE INDEX IF NOT EXISTS idx_batches_status ON batches(status);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertEntry(ctx context.Context, entry *model.Entry) error {
	ref, lot, err := entryKey(entry)
	if err != nil {
		return err
	}

	extraites, generees, validation, err := marshalEntry(entry)
	if err != nil {
		return err
	}

	var validationArg any
	if validation.Valid {
		validationArg = validation.String
	}

	now := time.Now().UTC()
	_, err = s.pool.Exec(ctx,
		preparedStatements["upsert_entry"],
		uuid.New().String(), ref, lot, extraites, generees, validationArg,
		entryConfidence(entry), entryStatut(entry), now, now,
	)
	return eris.Wrapf(err, "postgres: upsert entry %s lot %d", ref, lot)
}

// entryColumns is the column order shared by the single and bulk upserts.
var entryColumns = []string{
	"id", "reference", "lot_numero", "extraites", "generees",
	"validation", "confidence", "statut", "created_at", "updated_at",
}

// UpsertEntries saves a whole extraction run in one COPY plus one upsert
// statement. Entries without a procedure reference are skipped, they have
// no stable key to update later.
func (s *PostgresStore) UpsertEntries(ctx context.Context, entries []*model.Entry) (int, error) {
	now := time.Now().UTC()
	rows := make([][]any, 0, len(entries))
	for _, entry := range entries {
		ref, lot, err := entryKey(entry)
		if err != nil {
			zap.L().Warn("postgres: skipping entry without reference")
			continue
		}
		extraites, generees, validation, err := marshalEntry(entry)
		if err != nil {
			return 0, err
		}
		var validationArg any
		if validation.Valid {
			validationArg = validation.String
		}
		rows = append(rows, []any{
			uuid.New().String(), ref, lot, extraites, generees, validationArg,
			entryConfidence(entry), entryStatut(entry), now, now,
		})
	}

	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "entries",
		Columns:      entryColumns,
		ConflictKeys: []string{"reference", "lot_numero"},
		UpdateCols:   []string{"extraites", "generees", "validation", "confidence", "statut", "updated_at"},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: bulk upsert entries")
	}
	return len(rows), nil
}

func (s *PostgresStore) GetEntry(ctx context.Context, reference string, lotNumero int) (*model.Entry, error) {
	row := s.pool.QueryRow(ctx, preparedStatements["get_entry"], reference, lotNumero)
	entry, err := scanEntryPgx(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("entry not found: %s lot %d", reference, lotNumero)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get entry %s lot %d", reference, lotNumero)
	}
	return entry, nil
}

func (s *PostgresStore) ListEntries(ctx context.Context, filter HistoryFilter) ([]*model.Entry, error) {
	query := `SELECT extraites, generees, validation FROM entries WHERE 1=1`
	var args []any

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Reference != "" {
		query += ` AND reference = ` + next(filter.Reference)
	}
	if filter.Statut != "" {
		query += ` AND statut = ` + next(filter.Statut)
	}
	query += ` ORDER BY updated_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ` + next(limit)

	if filter.Offset > 0 {
		query += ` OFFSET ` + next(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list entries")
	}
	defer rows.Close()

	var entries []*model.Entry
	for rows.Next() {
		entry, err := scanEntryPgx(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan entry")
		}
		entries = append(entries, entry)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list entries iterate")
}

func (s *PostgresStore) ListHistory(ctx context.Context, limit int) ([]model.Record, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.pool.Query(ctx, preparedStatements["list_history"], limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list history")
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		entry, err := scanEntryPgx(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan history entry")
		}
		records = append(records, entry.Merged())
	}
	return records, eris.Wrap(rows.Err(), "postgres: list history iterate")
}

func (s *PostgresStore) CreateBatch(ctx context.Context, source string) (*model.Batch, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx, preparedStatements["insert_batch"],
		id, source, string(model.BatchRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert batch")
	}

	return &model.Batch{
		ID:        id,
		Source:    source,
		Status:    model.BatchRunning,
		StartedAt: now,
	}, nil
}

func (s *PostgresStore) CompleteBatch(ctx context.Context, batchID string, nbFiles, nbEntries, nbErrors int) error {
	tag, err := s.pool.Exec(ctx, preparedStatements["complete_batch"],
		string(model.BatchComplete), nbFiles, nbEntries, nbErrors, time.Now().UTC(), batchID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete batch %s", batchID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("batch not found: %s", batchID)
	}
	return nil
}

// scanEntryPgx is scanEntry for pgx rows, which surface JSONB columns as
// []byte rather than string.
func scanEntryPgx(row pgx.Row) (*model.Entry, error) {
	var extraites, generees, validation []byte

	if err := row.Scan(&extraites, &generees, &validation); err != nil {
		return nil, err
	}

	entry := model.NewEntry()
	if err := json.Unmarshal(extraites, &entry.ValeursExtraites); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal extracted values")
	}
	if err := json.Unmarshal(generees, &entry.ValeursGenerees); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal generated values")
	}
	if len(validation) > 0 {
		entry.Validation = &model.ValidationResult{}
		if err := json.Unmarshal(validation, entry.Validation); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal validation")
		}
	}
	entry.ComputeStats()
	return entry, nil
}
