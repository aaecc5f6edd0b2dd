package poi

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

var poiColumns = []string{
	"id", "name", "address", "lat", "lon", "poi_type", "poi_type_clean", "main_subcategory",
	"specialization", "normalize_stars_reviews", "stay_time", "open_hours",
	"created_at", "updated_at", "deleted_at",
}

func TestRepository_GetByIDs_ScansRows(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	id := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows(poiColumns).
		AddRow(id, "Museum", "Main St 1", 10.77, 106.70, "Museum", "Museum", "Culture", "", 0.8, 30, []byte(`[]`), now, now, nil)

	mockPool.ExpectQuery("SELECT").WithArgs([]uuid.UUID{id}).WillReturnRows(rows)

	repo := &RepositoryImpl{db: mockPool}
	results, err := repo.GetByIDs(context.Background(), []uuid.UUID{id})

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Museum", results[0].Name)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepository_GetByIDs_EmptyInputSkipsQuery(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := &RepositoryImpl{db: mockPool}
	results, err := repo.GetByIDs(context.Background(), nil)

	require.NoError(t, err)
	require.Nil(t, results)
}

func TestRepository_GetByBoundingBox_ScansRows(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	id := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows(poiColumns).
		AddRow(id, "Park", "River Rd", 10.78, 106.71, "Park", "Nature & View", "Outdoors", "", 0.6, 45, []byte(`[]`), now, now, nil)

	mockPool.ExpectQuery("SELECT").
		WithArgs(10.0, 11.0, 106.0, 107.0).
		WillReturnRows(rows)

	repo := &RepositoryImpl{db: mockPool}
	results, err := repo.GetByBoundingBox(context.Background(), 10.0, 106.0, 11.0, 107.0)

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Park", results[0].Name)
	require.NoError(t, mockPool.ExpectationsWereMet())
}
