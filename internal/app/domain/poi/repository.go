package poi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/loci-route/internal/app/domain/timeutil"
)

// Repository is the raw database access layer for the POI table,
// following the parameterized-SQL + manual Scan style of the
// teacher's location_repository.go.
type Repository interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]POI, error)
	GetByBoundingBox(ctx context.Context, minLat, minLon, maxLat, maxLon float64) ([]POI, error)
}

// querier is the slice of *pgxpool.Pool this repository actually
// calls, narrowed so tests can substitute pgxmock's PgxPoolIface.
type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

type RepositoryImpl struct {
	db querier
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &RepositoryImpl{db: db}
}

const selectColumns = `
	id, name, address, lat, lon, poi_type, poi_type_clean, main_subcategory,
	specialization, normalize_stars_reviews, stay_time, open_hours,
	created_at, updated_at, deleted_at
`

// GetByIDs issues one batched query for every valid ID; malformed IDs
// must already have been dropped by the caller (spec.md §4.4).
func (r *RepositoryImpl) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]POI, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM pois
		WHERE id = ANY($1) AND deleted_at IS NULL
	`, selectColumns)

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("poi repository: get by ids: %w", err)
	}
	defer rows.Close()

	return scanPOIs(rows)
}

// GetByBoundingBox is the H3 cache's miss-set fallback: one range
// query over the bounding box enclosing the miss cells' centroids.
func (r *RepositoryImpl) GetByBoundingBox(ctx context.Context, minLat, minLon, maxLat, maxLon float64) ([]POI, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM pois
		WHERE lat BETWEEN $1 AND $2
		  AND lon BETWEEN $3 AND $4
		  AND deleted_at IS NULL
	`, selectColumns)

	rows, err := r.db.Query(ctx, query, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, fmt.Errorf("poi repository: get by bounding box: %w", err)
	}
	defer rows.Close()

	return scanPOIs(rows)
}

func scanPOIs(rows pgx.Rows) ([]POI, error) {
	var results []POI
	for rows.Next() {
		var p POI
		var openHoursRaw []byte

		if err := rows.Scan(
			&p.ID, &p.Name, &p.Address, &p.Latitude, &p.Longitude,
			&p.PoiType, &p.PoiTypeClean, &p.MainSubcategory, &p.Specialization,
			&p.NormalizeStarsRating, &p.StayTimeMinutes, &openHoursRaw,
			&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("poi repository: scan: %w", err)
		}

		if err := normalizeOpenHours(&p, openHoursRaw); err != nil {
			return nil, err
		}

		results = append(results, p)
	}
	return results, rows.Err()
}

// normalizeOpenHours accepts the open_hours column either as a JSON
// string or an already-parsed JSON array, per spec.md §4.4.
func normalizeOpenHours(p *POI, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}

	var hours []timeutil.DayHours
	if err := json.Unmarshal(raw, &hours); err == nil {
		p.OpenHours = hours
		return nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err != nil {
		return fmt.Errorf("poi repository: open_hours neither array nor string: %w", err)
	}
	if asString == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(asString), &hours); err != nil {
		return fmt.Errorf("poi repository: open_hours string not valid JSON: %w", err)
	}
	p.OpenHours = hours
	return nil
}
