package observation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"obsprocess/internal/provider"
)

var columns = []string{
	"occurrence_id", "provider", "verbatim_id", "taxon_id", "scientific_name", "vernacular_name",
	"start_date", "end_date", "latitude", "longitude", "coordinate_uncertainty", "quantity",
	"recorded_by", "locality", "activity_id", "gender_id", "life_stage_id", "substrate_id",
	"validation_status_id", "biotope_id", "unit_id", "institution_id",
	"county_id", "municipality_id", "parish_id", "province_id", "issues", "modified",
}

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func tableName(instance Instance) string {
	return fmt.Sprintf("processed_observation_%d", byte(instance))
}

func table(instance Instance) string {
	return pgx.Identifier{tableName(instance)}.Sanitize()
}

// VerifyCollectionExists creates both instance tables and the configuration row
// when missing. It is safe to call repeatedly.
func (r *PostgresRepo) VerifyCollectionExists(ctx context.Context) error {
	for _, instance := range []Instance{Instance0, Instance1} {
		ddl := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				occurrence_id TEXT NOT NULL,
				provider SMALLINT NOT NULL,
				verbatim_id BIGINT NOT NULL,
				taxon_id INT NOT NULL,
				scientific_name TEXT NOT NULL DEFAULT '',
				vernacular_name TEXT NOT NULL DEFAULT '',
				start_date TIMESTAMPTZ,
				end_date TIMESTAMPTZ,
				latitude DOUBLE PRECISION,
				longitude DOUBLE PRECISION,
				coordinate_uncertainty INT,
				quantity INT,
				recorded_by TEXT NOT NULL DEFAULT '',
				locality TEXT NOT NULL DEFAULT '',
				activity_id INT,
				gender_id INT,
				life_stage_id INT,
				substrate_id INT,
				validation_status_id INT,
				biotope_id INT,
				unit_id INT,
				institution_id INT,
				county_id TEXT NOT NULL DEFAULT '',
				municipality_id TEXT NOT NULL DEFAULT '',
				parish_id TEXT NOT NULL DEFAULT '',
				province_id TEXT NOT NULL DEFAULT '',
				issues TEXT[] NOT NULL DEFAULT '{}',
				modified TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, table(instance))
		if _, err := r.db.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("create %s: %w", tableName(instance), err)
		}
	}

	const configSQL = `
		CREATE TABLE IF NOT EXISTS processed_configuration (
			id SMALLINT PRIMARY KEY,
			active_instance SMALLINT NOT NULL CHECK (active_instance IN (0, 1)),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := r.db.Exec(ctx, configSQL); err != nil {
		return fmt.Errorf("create processed_configuration: %w", err)
	}
	const seedSQL = `
		INSERT INTO processed_configuration (id, active_instance)
		VALUES (1, 0)
		ON CONFLICT (id) DO NOTHING`
	_, err := r.db.Exec(ctx, seedSQL)
	return err
}

func (r *PostgresRepo) DeleteProviderData(ctx context.Context, instance Instance, p provider.DataProvider) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE provider = $1`, table(instance))
	_, err := r.db.Exec(ctx, query, int(p))
	return err
}

func (r *PostgresRepo) CopyProviderData(ctx context.Context, from, to Instance, p provider.DataProvider) (int64, error) {
	if from == to {
		return 0, fmt.Errorf("copy source and target are both instance %s", from)
	}
	query := fmt.Sprintf(`INSERT INTO %s SELECT * FROM %s WHERE provider = $1`, table(to), table(from))
	tag, err := r.db.Exec(ctx, query, int(p))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresRepo) AddMany(ctx context.Context, instance Instance, obs []*Observation) (int, error) {
	if len(obs) == 0 {
		return 0, nil
	}
	src := pgx.CopyFromSlice(len(obs), func(i int) ([]any, error) {
		o := obs[i]
		issues := o.Issues
		if issues == nil {
			issues = []string{}
		}
		return []any{
			o.OccurrenceID, int(o.Provider), o.VerbatimID, o.TaxonID, o.ScientificName, o.VernacularName,
			o.StartDate, o.EndDate, o.Latitude, o.Longitude, o.CoordinateUncertainty, o.Quantity,
			o.RecordedBy, o.Locality, o.ActivityID, o.GenderID, o.LifeStageID, o.SubstrateID,
			o.ValidationStatusID, o.BiotopeID, o.UnitID, o.InstitutionID,
			o.CountyID, o.MunicipalityID, o.ParishID, o.ProvinceID, issues, o.Modified,
		}, nil
	})
	n, err := r.db.CopyFrom(ctx, pgx.Identifier{tableName(instance)}, columns, src)
	if err != nil {
		return 0, fmt.Errorf("copy observations into %s: %w", tableName(instance), err)
	}
	return int(n), nil
}

func (r *PostgresRepo) CreateIndexes(ctx context.Context, instance Instance) error {
	name := tableName(instance)
	indexes := []string{
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_provider_idx ON %s (provider)`, name, table(instance)),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_taxon_idx ON %s (taxon_id)`, name, table(instance)),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_occurrence_idx ON %s (occurrence_id)`, name, table(instance)),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_start_date_idx ON %s (start_date)`, name, table(instance)),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_county_idx ON %s (county_id)`, name, table(instance)),
	}
	for _, ddl := range indexes {
		if _, err := r.db.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("create index on %s: %w", name, err)
		}
	}
	return nil
}

func (r *PostgresRepo) GetActiveInstance(ctx context.Context) (Instance, error) {
	var active int16
	err := r.db.QueryRow(ctx, `SELECT active_instance FROM processed_configuration WHERE id = 1`).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Instance0, nil
		}
		return 0, err
	}
	return Instance(active), nil
}

func (r *PostgresRepo) SetActiveInstance(ctx context.Context, instance Instance) error {
	if !instance.Valid() {
		return fmt.Errorf("invalid instance %d", byte(instance))
	}
	const query = `
		INSERT INTO processed_configuration (id, active_instance, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET
			active_instance = EXCLUDED.active_instance,
			updated_at = now()`
	_, err := r.db.Exec(ctx, query, int16(instance))
	return err
}
