package domain

import "time"

// AssemblerMetrics is one production building's runtime metrics inside a
// snapshot. Rates are items/min; Efficiency is a percentage.
type AssemblerMetrics struct {
	RecipeID       int     `json:"recipe_id"`
	ProductionRate float64 `json:"production_rate"`
	TheoreticalMax float64 `json:"theoretical_max"`
	Efficiency     float64 `json:"efficiency"`
	InputStarved   bool    `json:"input_starved"`
	OutputBlocked  bool    `json:"output_blocked"`
}

// BeltMetrics is one belt's runtime metrics. ItemType is either a display
// name or the synthetic "item_<id>" key.
type BeltMetrics struct {
	BeltID            string  `json:"belt_id"`
	ItemType          string  `json:"item_type"`
	Throughput        float64 `json:"throughput"`
	MaxThroughput     float64 `json:"max_throughput"`
	SaturationPercent float64 `json:"saturation_percent"`
}

// PowerState is a planet's grid state. SurplusMW is generation minus
// consumption; negative means deficit.
type PowerState struct {
	GenerationMW             float64 `json:"generation_mw"`
	ConsumptionMW            float64 `json:"consumption_mw"`
	SurplusMW                float64 `json:"surplus_mw"`
	AccumulatorChargePercent float64 `json:"accumulator_charge_percent"`
}

// PlanetState is everything captured for one planet.
type PlanetState struct {
	PlanetName string             `json:"planet_name"`
	Assemblers []AssemblerMetrics `json:"assemblers"`
	Belts      []BeltMetrics      `json:"belts"`
	Power      *PowerState        `json:"power,omitempty"`
}

// FactorySnapshot is one read-only capture of the factory economy.
// Engines never mutate it; the caller owns it for the duration of an
// analysis call.
type FactorySnapshot struct {
	ID        string               `json:"id,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
	Planets   map[int]*PlanetState `json:"planets"`
}
