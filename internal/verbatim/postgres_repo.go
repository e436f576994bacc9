package verbatim

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"obsprocess/internal/provider"
)

// PostgresRepo reads a verbatim_<provider> table whose payload column holds the
// record as harvested, encoded as JSON.
type PostgresRepo[T any] struct {
	db    *pgxpool.Pool
	table string
}

func NewPostgresRepo[T any](db *pgxpool.Pool, p provider.DataProvider) *PostgresRepo[T] {
	return &PostgresRepo[T]{db: db, table: TableName(p)}
}

// TableName is the verbatim table of provider p.
func TableName(p provider.DataProvider) string {
	return "verbatim_" + strings.ToLower(p.String())
}

func (r *PostgresRepo[T]) ident() string {
	return pgx.Identifier{r.table}.Sanitize()
}

func (r *PostgresRepo[T]) GetIDSpan(ctx context.Context) (int64, int64, bool, error) {
	var minID, maxID *int64
	query := fmt.Sprintf(`SELECT min(id), max(id) FROM %s`, r.ident())
	if err := r.db.QueryRow(ctx, query).Scan(&minID, &maxID); err != nil {
		return 0, 0, false, err
	}
	if minID == nil || maxID == nil {
		return 0, 0, false, nil
	}
	return *minID, *maxID, true, nil
}

func (r *PostgresRepo[T]) GetBatch(ctx context.Context, startID, endID int64) ([]Record[T], error) {
	query := fmt.Sprintf(`SELECT id, payload FROM %s WHERE id BETWEEN $1 AND $2 ORDER BY id`, r.ident())
	rows, err := r.db.Query(ctx, query, startID, endID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *PostgresRepo[T]) GetBatchAfter(ctx context.Context, lastID int64, limit int) ([]Record[T], error) {
	query := fmt.Sprintf(`SELECT id, payload FROM %s WHERE id > $1 ORDER BY id LIMIT $2`, r.ident())
	rows, err := r.db.Query(ctx, query, lastID, limit)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *PostgresRepo[T]) GetAll(ctx context.Context, fn func(Record[T]) error) error {
	query := fmt.Sprintf(`SELECT id, payload FROM %s`, r.ident())
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *PostgresRepo[T]) collect(rows pgx.Rows) ([]Record[T], error) {
	defer rows.Close()

	var out []Record[T]
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepo[T]) scan(rows pgx.Rows) (Record[T], error) {
	var (
		rec Record[T]
		raw []byte
	)
	if err := rows.Scan(&rec.ID, &raw); err != nil {
		return rec, err
	}
	if err := json.Unmarshal(raw, &rec.Data); err != nil {
		return rec, fmt.Errorf("decode %s record %d: %w", r.table, rec.ID, err)
	}
	return rec, nil
}
