package runinfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) GetAllHarvestInfo(ctx context.Context) ([]HarvestInfo, error) {
	const query = `
		SELECT id, provider, start_time, end_time, count, status
		FROM harvest_info
		ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HarvestInfo
	for rows.Next() {
		var hi HarvestInfo
		if err := rows.Scan(&hi.ID, &hi.Provider, &hi.Start, &hi.End, &hi.Count, &hi.Status); err != nil {
			return nil, err
		}
		out = append(out, hi)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetProcessInfo(ctx context.Context, instance byte) (*ProcessInfo, error) {
	const query = `
		SELECT instance, run_id, start_time, end_time, success, providers
		FROM process_info
		WHERE instance = $1`

	var (
		pi         ProcessInfo
		instance16 int16
		raw        []byte
	)
	err := r.db.QueryRow(ctx, query, int16(instance)).Scan(&instance16, &pi.RunID, &pi.Start, &pi.End, &pi.Success, &raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	pi.InstanceID = byte(instance16)
	if err := json.Unmarshal(raw, &pi.ProviderInfo); err != nil {
		return nil, fmt.Errorf("decode provider info: %w", err)
	}
	return &pi, nil
}

func (r *PostgresRepo) AddOrUpdateProcessInfo(ctx context.Context, info *ProcessInfo) error {
	raw, err := json.Marshal(info.ProviderInfo)
	if err != nil {
		return fmt.Errorf("encode provider info: %w", err)
	}

	const query = `
		INSERT INTO process_info (instance, run_id, start_time, end_time, success, providers)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (instance) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			success = EXCLUDED.success,
			providers = EXCLUDED.providers`

	_, err = r.db.Exec(ctx, query, int16(info.InstanceID), info.RunID, info.Start, info.End, info.Success, raw)
	return err
}
