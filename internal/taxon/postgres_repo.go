package taxon

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) GetChunk(ctx context.Context, skip, take int) ([]Taxon, error) {
	const query = `
		SELECT id, scientific_name, vernacular_name, rank, kingdom, family, parent_id
		FROM taxon
		ORDER BY id
		OFFSET $1 LIMIT $2`

	rows, err := r.db.Query(ctx, query, skip, take)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Taxon
	for rows.Next() {
		var t Taxon
		if err := rows.Scan(&t.ID, &t.ScientificName, &t.VernacularName, &t.Rank, &t.Kingdom, &t.Family, &t.ParentID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
