package archive

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cityobservatory/cityobservatory/internal/classify"
	"github.com/cityobservatory/cityobservatory/internal/derived"
)

// Schema creates the table used by PostgresRepository.
const Schema = `
CREATE TABLE IF NOT EXISTS dashboard_history (
	id                        UUID PRIMARY KEY,
	location_id               BIGINT NOT NULL,
	location_name             TEXT NOT NULL,
	observed_at               TEXT NOT NULL,
	recorded_at               TIMESTAMPTZ NOT NULL,
	temperature               DOUBLE PRECISION NOT NULL,
	humidity                  DOUBLE PRECISION NOT NULL,
	wind_speed                DOUBLE PRECISION NOT NULL,
	precipitation_probability DOUBLE PRECISION NOT NULL,
	pm2_5                     DOUBLE PRECISION NOT NULL,
	condition                 TEXT NOT NULL,
	comfort_score             INTEGER NOT NULL,
	outdoor_risk              TEXT NOT NULL,
	air_quality               TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS dashboard_history_location_recorded
	ON dashboard_history (location_id, recorded_at DESC);
`

const selectColumns = `
	id, location_id, location_name, observed_at, recorded_at,
	temperature, humidity, wind_speed, precipitation_probability, pm2_5,
	condition, comfort_score, outdoor_risk, air_quality
`

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL archive repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the history table if it does not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, Schema)
	return err
}

// Append stores a new record.
func (r *PostgresRepository) Append(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO dashboard_history (
			id, location_id, location_name, observed_at, recorded_at,
			temperature, humidity, wind_speed, precipitation_probability, pm2_5,
			condition, comfort_score, outdoor_risk, air_quality
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.LocationID,
		rec.LocationName,
		rec.ObservedAt,
		rec.RecordedAt,
		rec.Temperature,
		rec.Humidity,
		rec.WindSpeed,
		rec.PrecipitationProbability,
		rec.PM25,
		string(rec.Condition),
		rec.ComfortScore,
		string(rec.OutdoorRisk),
		string(rec.AirQuality),
	)
	return err
}

// List returns the records of a location, newest first.
func (r *PostgresRepository) List(ctx context.Context, locationID int64, opts ListOptions) ([]*Record, error) {
	query := `SELECT ` + selectColumns + `
		FROM dashboard_history
		WHERE location_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, locationID, opts.limit())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Latest returns the newest record of a location.
func (r *PostgresRepository) Latest(ctx context.Context, locationID int64) (*Record, error) {
	query := `SELECT ` + selectColumns + `
		FROM dashboard_history
		WHERE location_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Prune deletes records recorded before cutoff.
func (r *PostgresRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM dashboard_history WHERE recorded_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var (
		rec                              Record
		condition, risk, airQualityLevel string
	)

	err := row.Scan(
		&rec.ID,
		&rec.LocationID,
		&rec.LocationName,
		&rec.ObservedAt,
		&rec.RecordedAt,
		&rec.Temperature,
		&rec.Humidity,
		&rec.WindSpeed,
		&rec.PrecipitationProbability,
		&rec.PM25,
		&condition,
		&rec.ComfortScore,
		&risk,
		&airQualityLevel,
	)
	if err != nil {
		return nil, err
	}

	rec.Condition = classify.Condition(condition)
	rec.OutdoorRisk = derived.RiskLevel(risk)
	rec.AirQuality = derived.AirQualityLevel(airQualityLevel)
	return &rec, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
