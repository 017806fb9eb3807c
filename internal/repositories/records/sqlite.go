package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/KirkDiggler/teyvat-catalog/internal/errors"
)

var tableNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// SQLiteConfig contains configuration for the SQLite repository.
type SQLiteConfig struct {
	DB    *sql.DB
	Table string
}

// Validate validates the SQLiteConfig.
func (cfg *SQLiteConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if cfg.DB == nil {
		vb.RequiredField("DB")
	}
	if !tableNamePattern.MatchString(cfg.Table) {
		vb.InvalidField("Table", "must be lower-case letters, digits and underscores")
	}
	return vb.Build()
}

// sequenceTable holds the highest id ever stored in each record table
const sequenceTable = "record_sequences"

// sqliteRepository keeps each record as a JSON document keyed by id.
type sqliteRepository[T Record] struct {
	db    *sql.DB
	table string
}

// NewSQLite creates a SQLite-backed repository, creating its table if needed.
// The caller registers the driver (modernc.org/sqlite) and owns the *sql.DB.
func NewSQLite[T Record](ctx context.Context, cfg *SQLiteConfig) (Repository[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id INTEGER PRIMARY KEY, doc TEXT NOT NULL)`, cfg.Table)
	if _, err := cfg.DB.ExecContext(ctx, ddl); err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to create table %s", cfg.Table)
	}
	seqDDL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (name TEXT PRIMARY KEY, seq INTEGER NOT NULL)`, sequenceTable)
	if _, err := cfg.DB.ExecContext(ctx, seqDDL); err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to create table %s", sequenceTable)
	}

	return &sqliteRepository[T]{db: cfg.DB, table: cfg.Table}, nil
}

func (r *sqliteRepository[T]) List(ctx context.Context, _ ListInput) (*ListOutput[T], error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT doc FROM %s ORDER BY id`, r.table))
	if err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to list %s", r.table)
	}
	defer func() {
		_ = rows.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	recs := make([]T, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.StoreUnavailablef(err, "failed to scan %s", r.table)
		}
		rec, err := decode[T]([]byte(doc))
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to list %s", r.table)
	}

	return &ListOutput[T]{Records: recs}, nil
}

func (r *sqliteRepository[T]) Get(ctx context.Context, input GetInput) (*GetOutput[T], error) {
	rec, found, err := r.get(ctx, r.db, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput[T]{Record: rec, Found: found}, nil
}

func (r *sqliteRepository[T]) Insert(ctx context.Context, input InsertInput[T]) (*InsertOutput[T], error) {
	if isNil(input.Record) {
		return nil, errors.InvalidArgument(errRecordNil)
	}

	doc, err := json.Marshal(input.Record)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal record")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to begin insert into %s", r.table)
	}
	defer func() {
		_ = tx.Rollback() // nolint:errcheck // no-op after commit
	}()

	id := input.Record.RecordID()
	res, err := tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`, r.table),
		id, string(doc))
	if err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to insert into %s", r.table)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to insert into %s", r.table)
	}
	if n == 0 {
		return nil, errors.AlreadyExistsf("record with ID %d already exists", id)
	}

	if err := r.raiseSequence(ctx, tx, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to commit insert into %s", r.table)
	}

	return &InsertOutput[T]{Record: input.Record}, nil
}

func (r *sqliteRepository[T]) Update(ctx context.Context, input UpdateInput) (*UpdateOutput[T], error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to begin update of %s", r.table)
	}
	defer func() {
		_ = tx.Rollback() // nolint:errcheck // no-op after commit
	}()

	existing, found, err := r.get(ctx, tx, input.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		return &UpdateOutput[T]{}, nil
	}

	merged, err := merge(existing, input.Fields)
	if err != nil {
		return nil, err
	}

	doc, err := json.Marshal(merged)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal record")
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET doc = ? WHERE id = ?`, r.table),
		string(doc), input.ID); err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to update record %d in %s", input.ID, r.table)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to commit update of %s", r.table)
	}

	return &UpdateOutput[T]{Record: merged, Found: true}, nil
}

func (r *sqliteRepository[T]) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to begin delete from %s", r.table)
	}
	defer func() {
		_ = tx.Rollback() // nolint:errcheck // no-op after commit
	}()

	res, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table), input.ID)
	if err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to delete record %d from %s", input.ID, r.table)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to delete record %d from %s", input.ID, r.table)
	}
	if n == 0 {
		return &DeleteOutput{Deleted: false}, nil
	}

	// rows written before the sequence table existed still leave their mark
	if err := r.raiseSequence(ctx, tx, input.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.StoreUnavailablef(err, "failed to commit delete from %s", r.table)
	}

	return &DeleteOutput{Deleted: true}, nil
}

func (r *sqliteRepository[T]) MaxID(ctx context.Context) (int64, error) {
	var highest int64
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT max(COALESCE((SELECT seq FROM %s WHERE name = ?), 0), COALESCE((SELECT MAX(id) FROM %s), 0))`,
		sequenceTable, r.table), r.table).Scan(&highest)
	if err != nil {
		return 0, errors.StoreUnavailablef(err, "failed to read highest id of %s", r.table)
	}
	return highest, nil
}

func (r *sqliteRepository[T]) raiseSequence(ctx context.Context, tx *sql.Tx, id int64) error {
	_, err := tx.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (name, seq) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET seq = max(seq, excluded.seq)`,
		sequenceTable), r.table, id)
	if err != nil {
		return errors.StoreUnavailablef(err, "failed to advance id sequence of %s", r.table)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *sqliteRepository[T]) get(ctx context.Context, q queryer, id int64) (T, bool, error) {
	var zero T

	var doc string
	err := q.QueryRowContext(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE id = ?`, r.table), id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, errors.StoreUnavailablef(err, "failed to get record %d from %s", id, r.table)
	}

	rec, err := decode[T]([]byte(doc))
	if err != nil {
		return zero, false, err
	}
	return rec, true, nil
}
