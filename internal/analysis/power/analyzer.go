package power

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/domain"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/recipegraph"
)

const (
	// Deficit recommendation tiers, MW. Fixed policy constants.
	minorDeficitMW    = 10.0
	moderateDeficitMW = 50.0
	mwPerFusionPlant  = 15.0

	// Global surplus bands, percent of consumption.
	lowSurplusPercent     = 10.0
	healthySurplusPercent = 50.0

	maxPlanetConsumers = 5
	maxGlobalConsumers = 10
)

// Params are the optional knobs of one power analysis call. The zero
// value means: all planets, accumulator detail on, consumer breakdown on.
type Params struct {
	PlanetID            *int
	IncludeAccumulators *bool
	IncludeConsumers    *bool
}

func (p Params) includeAccumulators() bool {
	return p.IncludeAccumulators == nil || *p.IncludeAccumulators
}

func (p Params) includeConsumers() bool {
	return p.IncludeConsumers == nil || *p.IncludeConsumers
}

// Consumer is one production line's attributed power draw, aggregated
// per recipe.
type Consumer struct {
	RecipeID       int
	ItemName       string
	BuildingType   string
	BuildingCount  int
	PowerMW        float64
	Efficiency     float64 // attributed / nameplate, percent; deliberately unclamped
	ProductionRate float64
}

// PlanetEntry is one planet's grid summary in the report.
type PlanetEntry struct {
	PlanetID          int             `json:"planet_id"`
	PlanetName        string          `json:"planet_name"`
	GenerationMW      float64         `json:"generation_mw"`
	ConsumptionMW     float64         `json:"consumption_mw"`
	SurplusMW         float64         `json:"surplus_mw"`
	Status            string          `json:"status"`
	Recommendation    string          `json:"recommendation,omitempty"`
	AccumulatorCharge string          `json:"accumulator_charge,omitempty"`
	TopConsumers      []ConsumerEntry `json:"top_consumers,omitempty"`
}

// ConsumerEntry is one consumer as serialized into a planet's top list.
type ConsumerEntry struct {
	Item          string  `json:"item"`
	PowerMW       float64 `json:"power_mw"`
	BuildingCount int     `json:"building_count"`
	Efficiency    float64 `json:"efficiency"`
}

// BreakdownConsumer is one consumer in the global top list.
type BreakdownConsumer struct {
	Item           string  `json:"item"`
	RecipeID       int     `json:"recipe_id"`
	BuildingType   string  `json:"building_type"`
	BuildingCount  int     `json:"building_count"`
	PowerMW        float64 `json:"power_mw"`
	ProductionRate float64 `json:"production_rate"`
}

// Breakdown is the global consumption breakdown block.
type Breakdown struct {
	ByBuildingType    map[string]float64  `json:"by_building_type"`
	TopPowerConsumers []BreakdownConsumer `json:"top_power_consumers"`
	TotalTrackedMW    float64             `json:"total_tracked_mw"`
}

// Summary is the roll-up block of the report.
type Summary struct {
	TotalGenerationMW  float64 `json:"total_generation_mw"`
	TotalConsumptionMW float64 `json:"total_consumption_mw"`
	NetSurplusMW       float64 `json:"net_surplus_mw"`
	PlanetsWithDeficit int     `json:"planets_with_deficit"`
}

// Report is the power analysis output.
type Report struct {
	Timestamp       string        `json:"timestamp"`
	Summary         Summary       `json:"summary"`
	Planets         []PlanetEntry `json:"planets"`
	Recommendations []string      `json:"recommendations"`
	PowerBreakdown  *Breakdown    `json:"power_breakdown,omitempty"`
}

// Analyzer summarizes grid generation/consumption per planet and
// attributes consumption to production lines via the recipe graph's
// building categories.
type Analyzer struct {
	graph *recipegraph.Graph
}

// New creates a power analyzer over the shared recipe graph.
func New(g *recipegraph.Graph) *Analyzer {
	return &Analyzer{graph: g}
}

// Analyze runs one power analysis pass over the snapshot. Planets
// without power telemetry are skipped entirely.
func (a *Analyzer) Analyze(snap *domain.FactorySnapshot, p Params) *Report {
	var (
		planets          []PlanetEntry
		totalGeneration  float64
		totalConsumption float64
		deficits         int
		allConsumers     []Consumer
	)

	for _, pid := range sortedPlanetIDs(snap) {
		if p.PlanetID != nil && pid != *p.PlanetID {
			continue
		}
		planet := snap.Planets[pid]
		if planet.Power == nil {
			continue
		}

		grid := planet.Power
		totalGeneration += grid.GenerationMW
		totalConsumption += grid.ConsumptionMW

		entry := PlanetEntry{
			PlanetID:      pid,
			PlanetName:    planet.PlanetName,
			GenerationMW:  round2(grid.GenerationMW),
			ConsumptionMW: round2(grid.ConsumptionMW),
			SurplusMW:     round2(grid.SurplusMW),
			Status:        "surplus",
		}

		if grid.SurplusMW < 0 {
			entry.Status = "deficit"
			deficits++
			entry.Recommendation = deficitRecommendation(grid.SurplusMW)
		}

		if p.includeAccumulators() {
			entry.AccumulatorCharge = fmt.Sprintf("%.1f%%", grid.AccumulatorChargePercent)
		}

		if p.includeConsumers() {
			consumers := a.attributeConsumers(planet.Assemblers)
			allConsumers = append(allConsumers, consumers...)
			for i, c := range topByPower(consumers) {
				if i >= maxPlanetConsumers {
					break
				}
				entry.TopConsumers = append(entry.TopConsumers, ConsumerEntry{
					Item:          c.ItemName,
					PowerMW:       round2(c.PowerMW),
					BuildingCount: c.BuildingCount,
					Efficiency:    round1(c.Efficiency),
				})
			}
		}

		planets = append(planets, entry)
	}

	if planets == nil {
		planets = []PlanetEntry{}
	}

	report := &Report{
		Timestamp: snap.Timestamp.UTC().Format(time.RFC3339),
		Summary: Summary{
			TotalGenerationMW:  round2(totalGeneration),
			TotalConsumptionMW: round2(totalConsumption),
			NetSurplusMW:       round2(totalGeneration - totalConsumption),
			PlanetsWithDeficit: deficits,
		},
		Planets:         planets,
		Recommendations: globalRecommendations(totalGeneration, totalConsumption),
	}

	if p.includeConsumers() && len(allConsumers) > 0 {
		report.PowerBreakdown = buildBreakdown(allConsumers)
	}

	return report
}

// attributeConsumers aggregates each building's modeled draw per recipe.
// The draw is the building category's table value scaled by the
// building's reported efficiency.
func (a *Analyzer) attributeConsumers(assemblers []domain.AssemblerMetrics) []Consumer {
	var order []int
	byRecipe := map[int]*Consumer{}

	for _, asm := range assemblers {
		recipe, ok := a.graph.GetRecipe(asm.RecipeID)
		if !ok {
			continue
		}

		c, seen := byRecipe[asm.RecipeID]
		if !seen {
			c = &Consumer{
				RecipeID:     asm.RecipeID,
				ItemName:     a.graph.PrimaryOutputName(recipe),
				BuildingType: recipe.Building,
			}
			byRecipe[asm.RecipeID] = c
			order = append(order, asm.RecipeID)
		}

		c.BuildingCount++
		c.PowerMW += buildingPower(recipe.Building) * (asm.Efficiency / 100)
		c.ProductionRate += asm.ProductionRate
	}

	consumers := make([]Consumer, 0, len(order))
	for _, id := range order {
		c := byRecipe[id]
		if c.BuildingCount > 0 {
			nameplate := float64(c.BuildingCount) * buildingPower(c.BuildingType)
			if nameplate > 0 {
				// Attributed over nameplate; can exceed 100 when the
				// telemetry reports over-100 building efficiency.
				c.Efficiency = c.PowerMW / nameplate * 100
			}
		}
		consumers = append(consumers, *c)
	}
	return consumers
}

func buildBreakdown(consumers []Consumer) *Breakdown {
	byBuilding := map[string]float64{}
	total := 0.0
	for _, c := range consumers {
		byBuilding[c.BuildingType] += c.PowerMW
		total += c.PowerMW
	}
	for k, v := range byBuilding {
		byBuilding[k] = round2(v)
	}

	top := topByPower(consumers)
	if len(top) > maxGlobalConsumers {
		top = top[:maxGlobalConsumers]
	}
	entries := make([]BreakdownConsumer, 0, len(top))
	for _, c := range top {
		entries = append(entries, BreakdownConsumer{
			Item:           c.ItemName,
			RecipeID:       c.RecipeID,
			BuildingType:   c.BuildingType,
			BuildingCount:  c.BuildingCount,
			PowerMW:        round2(c.PowerMW),
			ProductionRate: round2(c.ProductionRate),
		})
	}

	return &Breakdown{
		ByBuildingType:    byBuilding,
		TopPowerConsumers: entries,
		TotalTrackedMW:    round2(total),
	}
}

func deficitRecommendation(surplusMW float64) string {
	deficit := math.Abs(surplusMW)
	switch {
	case deficit < minorDeficitMW:
		return fmt.Sprintf("Minor deficit of %.1fMW - add 1 thermal plant", deficit)
	case deficit < moderateDeficitMW:
		plants := int(deficit/mwPerFusionPlant) + 1
		return fmt.Sprintf("Deficit of %.1fMW - add %d fusion plants", deficit, plants)
	default:
		return fmt.Sprintf("Major deficit of %.1fMW - consider artificial sun or ray receivers", deficit)
	}
}

func globalRecommendations(generation, consumption float64) []string {
	recs := []string{}
	surplus := generation - consumption
	surplusPercent := 100.0
	if consumption > 0 {
		surplusPercent = surplus / consumption * 100
	}

	switch {
	case surplus < 0:
		recs = append(recs, fmt.Sprintf("CRITICAL: Global power deficit of %.1fMW", math.Abs(surplus)))
	case surplusPercent < lowSurplusPercent:
		recs = append(recs,
			fmt.Sprintf("WARNING: Power surplus below 10%% (%.1f%%)", surplusPercent),
			"Consider adding generation capacity before expanding")
	case surplusPercent > healthySurplusPercent:
		recs = append(recs, fmt.Sprintf("Healthy power surplus of %.1f%%", surplusPercent))
	}

	return recs
}

func topByPower(consumers []Consumer) []Consumer {
	sorted := make([]Consumer, len(consumers))
	copy(sorted, consumers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PowerMW > sorted[j].PowerMW })
	return sorted
}

func sortedPlanetIDs(snap *domain.FactorySnapshot) []int {
	ids := make([]int, 0, len(snap.Planets))
	for pid := range snap.Planets {
		ids = append(ids, pid)
	}
	sort.Ints(ids)
	return ids
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
