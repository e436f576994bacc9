package area

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// Locate picks, per area type, the smallest area whose bounding box contains
// the point.
func (r *PostgresRepo) Locate(ctx context.Context, lat, lon float64) (Set, error) {
	const query = `
		SELECT DISTINCT ON (area_type) area_type, feature_id
		FROM area
		WHERE $1 BETWEEN min_lat AND max_lat
		  AND $2 BETWEEN min_lon AND max_lon
		ORDER BY area_type, (max_lat - min_lat) * (max_lon - min_lon)`

	rows, err := r.db.Query(ctx, query, lat, lon)
	if err != nil {
		return Set{}, err
	}
	defer rows.Close()

	var set Set
	for rows.Next() {
		var (
			t         string
			featureID string
		)
		if err := rows.Scan(&t, &featureID); err != nil {
			return Set{}, err
		}
		set.set(Type(t), featureID)
	}
	return set, rows.Err()
}

func (r *PostgresRepo) LoadCache(ctx context.Context) (map[string]Set, error) {
	const query = `SELECT cell_key, county_id, municipality_id, parish_id, province_id FROM area_cache`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]Set)
	for rows.Next() {
		var (
			key string
			s   Set
		)
		if err := rows.Scan(&key, &s.CountyID, &s.MunicipalityID, &s.ParishID, &s.ProvinceID); err != nil {
			return nil, err
		}
		out[key] = s
	}
	return out, rows.Err()
}

func (r *PostgresRepo) SaveCache(ctx context.Context, entries map[string]Set) error {
	const query = `
		INSERT INTO area_cache (cell_key, county_id, municipality_id, parish_id, province_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (cell_key) DO UPDATE SET
			county_id = EXCLUDED.county_id,
			municipality_id = EXCLUDED.municipality_id,
			parish_id = EXCLUDED.parish_id,
			province_id = EXCLUDED.province_id,
			updated_at = now()`

	b := &pgx.Batch{}
	for key, s := range entries {
		b.Queue(query, key, s.CountyID, s.MunicipalityID, s.ParishID, s.ProvinceID)
	}
	return r.db.SendBatch(ctx, b).Close()
}
