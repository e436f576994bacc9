package fieldmapping

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) GetAll(ctx context.Context) ([]FieldMapping, error) {
	const query = `SELECT id, name, external_systems FROM field_mapping ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FieldMapping
	for rows.Next() {
		var (
			fm  FieldMapping
			raw []byte
		)
		if err := rows.Scan(&fm.ID, &fm.Name, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &fm.ExternalSystems); err != nil {
			return nil, fmt.Errorf("decode field mapping %d: %w", fm.ID, err)
		}
		out = append(out, fm)
	}
	return out, rows.Err()
}
