package power

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/domain"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/recipegraph"
)

func testGraph() *recipegraph.Graph {
	items := []recipegraph.Item{
		{ID: 1001, Name: "iron_ore"},
		{ID: 1101, Name: "iron_ingot"},
		{ID: 1202, Name: "magnetic_coil"},
		{ID: 1120, Name: "hydrogen"},
	}
	recipes := []*recipegraph.Recipe{
		{ID: 1, Building: "smelter", Time: 1,
			Inputs:  []recipegraph.RecipeInput{{ItemID: 1001, Count: 1}},
			Outputs: []recipegraph.RecipeOutput{{ItemID: 1101, Count: 1}}, PrimaryOutputID: 1101},
		{ID: 4, Building: "assembler", Time: 1,
			Inputs:  []recipegraph.RecipeInput{{ItemID: 1101, Count: 1}},
			Outputs: []recipegraph.RecipeOutput{{ItemID: 1202, Count: 2}}, PrimaryOutputID: 1202},
		{ID: 9, Building: "fractionator", Time: 1,
			Inputs:  []recipegraph.RecipeInput{{ItemID: 1120, Count: 1}},
			Outputs: []recipegraph.RecipeOutput{{ItemID: 1120, Count: 1}}, PrimaryOutputID: 1120},
	}
	return recipegraph.New(items, recipes)
}

var snapTime = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func snapshot(planets map[int]*domain.PlanetState) *domain.FactorySnapshot {
	return &domain.FactorySnapshot{ID: "snap-1", Timestamp: snapTime, Planets: planets}
}

func grid(generation, consumption float64) *domain.PowerState {
	return &domain.PowerState{
		GenerationMW:             generation,
		ConsumptionMW:            consumption,
		SurplusMW:                generation - consumption,
		AccumulatorChargePercent: 75,
	}
}

func TestAnalyze_PlanetStatus(t *testing.T) {
	a := New(testGraph())
	snap := snapshot(map[int]*domain.PlanetState{
		1: {PlanetName: "Alpha", Power: grid(100, 80)},
		2: {PlanetName: "Beta", Power: grid(50, 70)},
	})

	report := a.Analyze(snap, Params{})

	assert.Equal(t, "2026-08-30T12:00:00Z", report.Timestamp)
	require.Len(t, report.Planets, 2)

	alpha := report.Planets[0]
	assert.Equal(t, 1, alpha.PlanetID)
	assert.Equal(t, "Alpha", alpha.PlanetName)
	assert.Equal(t, "surplus", alpha.Status)
	assert.Empty(t, alpha.Recommendation)
	assert.Equal(t, "75.0%", alpha.AccumulatorCharge)

	beta := report.Planets[1]
	assert.Equal(t, "deficit", beta.Status)
	assert.Equal(t, -20.0, beta.SurplusMW)
	assert.NotEmpty(t, beta.Recommendation)

	assert.Equal(t, 150.0, report.Summary.TotalGenerationMW)
	assert.Equal(t, 150.0, report.Summary.TotalConsumptionMW)
	assert.Equal(t, 0.0, report.Summary.NetSurplusMW)
	assert.Equal(t, 1, report.Summary.PlanetsWithDeficit)
}

func TestDeficitRecommendation(t *testing.T) {
	assert.Equal(t, "Minor deficit of 5.0MW - add 1 thermal plant", deficitRecommendation(-5))
	// 20MW at 15MW per plant, rounded up by the +1.
	assert.Equal(t, "Deficit of 20.0MW - add 2 fusion plants", deficitRecommendation(-20))
	assert.Equal(t, "Deficit of 45.0MW - add 4 fusion plants", deficitRecommendation(-45))
	assert.Equal(t, "Major deficit of 60.0MW - consider artificial sun or ray receivers", deficitRecommendation(-60))
}

func TestAnalyze_GlobalRecommendations(t *testing.T) {
	a := New(testGraph())

	t.Run("global deficit is critical", func(t *testing.T) {
		snap := snapshot(map[int]*domain.PlanetState{1: {Power: grid(100, 120)}})
		report := a.Analyze(snap, Params{})
		require.Len(t, report.Recommendations, 1)
		assert.Equal(t, "CRITICAL: Global power deficit of 20.0MW", report.Recommendations[0])
	})

	t.Run("thin surplus warns", func(t *testing.T) {
		snap := snapshot(map[int]*domain.PlanetState{1: {Power: grid(105, 100)}})
		report := a.Analyze(snap, Params{})
		require.Len(t, report.Recommendations, 2)
		assert.Equal(t, "WARNING: Power surplus below 10% (5.0%)", report.Recommendations[0])
		assert.Equal(t, "Consider adding generation capacity before expanding", report.Recommendations[1])
	})

	t.Run("large surplus is called out as healthy", func(t *testing.T) {
		snap := snapshot(map[int]*domain.PlanetState{1: {Power: grid(200, 100)}})
		report := a.Analyze(snap, Params{})
		require.Len(t, report.Recommendations, 1)
		assert.Equal(t, "Healthy power surplus of 100.0%", report.Recommendations[0])
	})

	t.Run("moderate surplus needs no recommendation", func(t *testing.T) {
		snap := snapshot(map[int]*domain.PlanetState{1: {Power: grid(130, 100)}})
		report := a.Analyze(snap, Params{})
		assert.Empty(t, report.Recommendations)
	})
}

func TestAnalyze_ConsumerAttribution(t *testing.T) {
	a := New(testGraph())
	snap := snapshot(map[int]*domain.PlanetState{
		1: {
			Power: grid(100, 80),
			Assemblers: []domain.AssemblerMetrics{
				// Two smelters at 0.72MW modeled draw, one at half load.
				{RecipeID: 1, ProductionRate: 60, Efficiency: 100},
				{RecipeID: 1, ProductionRate: 30, Efficiency: 50},
				// One assembler at 0.54MW.
				{RecipeID: 4, ProductionRate: 120, Efficiency: 100},
			},
		},
	})

	report := a.Analyze(snap, Params{})

	require.Len(t, report.Planets, 1)
	top := report.Planets[0].TopConsumers
	require.Len(t, top, 2)

	// Smelter group: 0.72 + 0.36 = 1.08MW over a 1.44MW nameplate.
	assert.Equal(t, "iron_ingot", top[0].Item)
	assert.Equal(t, 1.08, top[0].PowerMW)
	assert.Equal(t, 2, top[0].BuildingCount)
	assert.Equal(t, 75.0, top[0].Efficiency)

	assert.Equal(t, "magnetic_coil", top[1].Item)
	assert.Equal(t, 0.54, top[1].PowerMW)

	breakdown := report.PowerBreakdown
	require.NotNil(t, breakdown)
	assert.Equal(t, 1.08, breakdown.ByBuildingType["smelter"])
	assert.Equal(t, 0.54, breakdown.ByBuildingType["assembler"])
	assert.Equal(t, 1.62, breakdown.TotalTrackedMW)
	require.Len(t, breakdown.TopPowerConsumers, 2)
	assert.Equal(t, "iron_ingot", breakdown.TopPowerConsumers[0].Item)
	assert.Equal(t, 90.0, breakdown.TopPowerConsumers[0].ProductionRate)
}

func TestAnalyze_OptionalBlocks(t *testing.T) {
	a := New(testGraph())
	off := false
	snap := snapshot(map[int]*domain.PlanetState{
		1: {
			Power:      grid(100, 80),
			Assemblers: []domain.AssemblerMetrics{{RecipeID: 1, ProductionRate: 60, Efficiency: 100}},
		},
	})

	t.Run("accumulators off", func(t *testing.T) {
		report := a.Analyze(snap, Params{IncludeAccumulators: &off})
		assert.Empty(t, report.Planets[0].AccumulatorCharge)
	})

	t.Run("consumers off", func(t *testing.T) {
		report := a.Analyze(snap, Params{IncludeConsumers: &off})
		assert.Empty(t, report.Planets[0].TopConsumers)
		assert.Nil(t, report.PowerBreakdown)
	})
}

func TestAnalyze_SkipsPlanetsWithoutTelemetry(t *testing.T) {
	a := New(testGraph())
	snap := snapshot(map[int]*domain.PlanetState{
		1: {PlanetName: "NoGrid"},
		2: {PlanetName: "Beta", Power: grid(10, 5)},
	})

	report := a.Analyze(snap, Params{})

	require.Len(t, report.Planets, 1)
	assert.Equal(t, 2, report.Planets[0].PlanetID)
}

func TestAnalyze_PlanetFilter(t *testing.T) {
	a := New(testGraph())
	planet := 2
	snap := snapshot(map[int]*domain.PlanetState{
		1: {Power: grid(100, 80)},
		2: {Power: grid(50, 40)},
	})

	report := a.Analyze(snap, Params{PlanetID: &planet})

	require.Len(t, report.Planets, 1)
	assert.Equal(t, 2, report.Planets[0].PlanetID)
	assert.Equal(t, 50.0, report.Summary.TotalGenerationMW)
}

func TestBuildingPower(t *testing.T) {
	assert.Equal(t, 0.72, buildingPower("smelter"))
	assert.Equal(t, 0.54, buildingPower("assembler"))
	assert.Equal(t, 24.0, buildingPower("particle"))
	// No mk2 entry falls back to the default.
	assert.Equal(t, 0.5, buildingPower("fractionator"))
	assert.Equal(t, 0.5, buildingPower("orbital_collector"))
	// Unknown categories too.
	assert.Equal(t, 0.5, buildingPower("warp_gate"))
}
