package integration

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/domain"
	factoryrepo "github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/repository"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	ctx := context.Background()
	err = client.Ping(ctx).Err()
	require.NoError(t, err)

	return client, mr
}

func testSnapshot() *domain.FactorySnapshot {
	return &domain.FactorySnapshot{
		Planets: map[int]*domain.PlanetState{
			1: {
				PlanetName: "Alpha",
				Assemblers: []domain.AssemblerMetrics{
					{RecipeID: 1, ProductionRate: 60, TheoreticalMax: 60, Efficiency: 100},
				},
				Belts: []domain.BeltMetrics{
					{BeltID: "belt-1", ItemType: "iron_ingot", Throughput: 3, MaxThroughput: 6, SaturationPercent: 50},
				},
				Power: &domain.PowerState{GenerationMW: 100, ConsumptionMW: 80, SurplusMW: 20},
			},
		},
	}
}

func TestSnapshotRepository_SaveAndGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	repo := factoryrepo.NewSnapshotRepository(client)
	ctx := context.Background()

	t.Run("save assigns id and timestamp", func(t *testing.T) {
		snap := testSnapshot()
		require.NoError(t, repo.Save(ctx, snap))
		assert.NotEmpty(t, snap.ID)
		assert.False(t, snap.Timestamp.IsZero())
	})

	t.Run("get round-trips the snapshot", func(t *testing.T) {
		snap := testSnapshot()
		snap.Timestamp = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Save(ctx, snap))

		got, err := repo.Get(ctx, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, snap.ID, got.ID)
		assert.True(t, got.Timestamp.Equal(snap.Timestamp))
		require.Contains(t, got.Planets, 1)
		assert.Equal(t, "Alpha", got.Planets[1].PlanetName)
		require.Len(t, got.Planets[1].Assemblers, 1)
		assert.Equal(t, 60.0, got.Planets[1].Assemblers[0].ProductionRate)
		require.NotNil(t, got.Planets[1].Power)
		assert.Equal(t, 20.0, got.Planets[1].Power.SurplusMW)
	})

	t.Run("get unknown id", func(t *testing.T) {
		_, err := repo.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})
}

func TestSnapshotRepository_Latest(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	repo := factoryrepo.NewSnapshotRepository(client)
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		_, err := repo.Latest(ctx)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("tracks the most recent save", func(t *testing.T) {
		first := testSnapshot()
		require.NoError(t, repo.Save(ctx, first))

		second := testSnapshot()
		second.Planets[1].PlanetName = "Beta"
		require.NoError(t, repo.Save(ctx, second))

		latest, err := repo.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, latest.ID)
		assert.Equal(t, "Beta", latest.Planets[1].PlanetName)
	})

	t.Run("snapshots expire", func(t *testing.T) {
		snap := testSnapshot()
		require.NoError(t, repo.Save(ctx, snap))

		mr.FastForward(25 * time.Hour)

		_, err := repo.Latest(ctx)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})
}
