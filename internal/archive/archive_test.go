package archive_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityobservatory/cityobservatory/internal/archive"
	"github.com/cityobservatory/cityobservatory/internal/classify"
	"github.com/cityobservatory/cityobservatory/internal/dashboard"
	"github.com/cityobservatory/cityobservatory/internal/derived"
	"github.com/cityobservatory/cityobservatory/internal/location"
)

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func record(id string, locationID int64, at time.Time) *archive.Record {
	return &archive.Record{
		ID: id,
		Summary: dashboard.Summary{
			LocationID: locationID,
			RecordedAt: at,
		},
	}
}

func TestInMemoryRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := archive.NewInMemoryRepository()

	require.NoError(t, repo.Append(ctx, record("a", 1, base)))
	require.NoError(t, repo.Append(ctx, record("c", 1, base.Add(2*time.Hour))))
	require.NoError(t, repo.Append(ctx, record("b", 1, base.Add(time.Hour))))
	require.NoError(t, repo.Append(ctx, record("other", 2, base)))

	records, err := repo.List(ctx, 1, archive.ListOptions{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, "a", records[2].ID)

	limited, err := repo.List(ctx, 1, archive.ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := repo.List(ctx, 99, archive.ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestInMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := archive.NewInMemoryRepository()

	rec := record("a", 1, base)
	require.NoError(t, repo.Append(ctx, rec))
	rec.ComfortScore = 99

	latest, err := repo.Latest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, latest.ComfortScore)

	latest.ComfortScore = 50
	again, err := repo.Latest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, again.ComfortScore)
}

func TestInMemoryRepository_Latest(t *testing.T) {
	ctx := context.Background()
	repo := archive.NewInMemoryRepository()

	_, err := repo.Latest(ctx, 1)
	assert.ErrorIs(t, err, archive.ErrNotFound)

	require.NoError(t, repo.Append(ctx, record("old", 1, base)))
	require.NoError(t, repo.Append(ctx, record("new", 1, base.Add(time.Minute))))

	latest, err := repo.Latest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", latest.ID)
}

func TestInMemoryRepository_Prune(t *testing.T) {
	ctx := context.Background()
	repo := archive.NewInMemoryRepository()

	require.NoError(t, repo.Append(ctx, record("a", 1, base)))
	require.NoError(t, repo.Append(ctx, record("b", 1, base.Add(2*time.Hour))))
	require.NoError(t, repo.Append(ctx, record("c", 2, base)))

	removed, err := repo.Prune(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = repo.Latest(ctx, 2)
	assert.ErrorIs(t, err, archive.ErrNotFound)

	latest, err := repo.Latest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ID)
}

func TestListOptions_LimitBounds(t *testing.T) {
	ctx := context.Background()
	repo := archive.NewInMemoryRepository()
	for i := 0; i < archive.MaxLimit+10; i++ {
		require.NoError(t, repo.Append(ctx, record("r", 1, base.Add(time.Duration(i)*time.Minute))))
	}

	defaulted, err := repo.List(ctx, 1, archive.ListOptions{Limit: -1})
	require.NoError(t, err)
	assert.Len(t, defaulted, archive.DefaultLimit)

	capped, err := repo.List(ctx, 1, archive.ListOptions{Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, capped, archive.MaxLimit)
}

func testDashboard() *dashboard.Dashboard {
	return &dashboard.Dashboard{
		Location:    location.MustLookup("osaka"),
		GeneratedAt: base,
		Weather: &dashboard.WeatherView{
			Current:   dashboard.CurrentWeather{Time: "2026-01-01T09:00", Temperature: 12.5, Humidity: 60},
			Condition: classify.Weather(0),
		},
		Metrics: &derived.Metrics{
			ComfortScore: 70,
			OutdoorRisk:  derived.RiskLow,
			AirQuality:   derived.AirQualityGood,
		},
	}
}

func TestService_ArchiveAndHistory(t *testing.T) {
	ctx := context.Background()
	svc := archive.NewService(archive.ServiceConfig{
		Repository: archive.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})

	rec, err := svc.Archive(ctx, testDashboard())
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, int64(1853909), rec.LocationID)
	assert.Equal(t, "大阪", rec.LocationName)
	assert.Equal(t, 12.5, rec.Temperature)
	assert.Equal(t, classify.ConditionClear, rec.Condition)
	assert.Equal(t, 70, rec.ComfortScore)

	history, err := svc.History(ctx, rec.LocationID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, rec.ID, history[0].ID)

	latest, err := svc.Latest(ctx, rec.LocationID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, latest.ID)
}

func TestService_ArchiveWithoutWeather(t *testing.T) {
	svc := archive.NewService(archive.ServiceConfig{
		Repository: archive.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})

	_, err := svc.Archive(context.Background(), &dashboard.Dashboard{})

	assert.ErrorIs(t, err, archive.ErrNoSummary)
}

func TestService_PruneUsesRetention(t *testing.T) {
	ctx := context.Background()
	repo := archive.NewInMemoryRepository()
	require.NoError(t, repo.Append(ctx, record("stale", 1, base)))
	require.NoError(t, repo.Append(ctx, record("fresh", 1, base.Add(47*time.Hour))))

	svc := archive.NewService(archive.ServiceConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
		Retention:  24 * time.Hour,
		Now:        func() time.Time { return base.Add(48 * time.Hour) },
	})

	removed, err := svc.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	history, err := svc.History(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "fresh", history[0].ID)
}
