package logistics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/domain"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/recipegraph"
)

const (
	defaultSaturationThreshold = 95.0
	nearSaturationWindow       = 10.0 // points below threshold

	maxSaturatedReported = 20
	maxNearReported      = 10
	maxRequirements      = 15

	// Saturated-belt count at which the global recommendation switches
	// from targeted upgrades to a systematic one.
	systematicUpgradeCutoff = 5
)

// Params are the optional knobs of one logistics analysis call. The zero
// value means: all planets, no item filter, 95% threshold, throughput
// requirements included.
type Params struct {
	PlanetID            *int
	ItemFilter          []string
	SaturationThreshold *float64
	IncludeThroughput   *bool
}

func (p Params) threshold() float64 {
	if p.SaturationThreshold != nil {
		return *p.SaturationThreshold
	}
	return defaultSaturationThreshold
}

func (p Params) includeThroughput() bool {
	return p.IncludeThroughput == nil || *p.IncludeThroughput
}

// BeltStatus is one flagged belt as serialized into the report.
type BeltStatus struct {
	PlanetID       int     `json:"planet_id"`
	BeltID         string  `json:"belt_id"`
	Item           string  `json:"item"`
	Throughput     float64 `json:"throughput"`
	MaxThroughput  float64 `json:"max_throughput"`
	Saturation     float64 `json:"saturation"`
	Status         string  `json:"status"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// Requirement is the computed belt sizing for one item.
type Requirement struct {
	Item            string  `json:"item"`
	ItemID          int     `json:"item_id"`
	ProductionRate  float64 `json:"production_rate"`
	ConsumptionRate float64 `json:"consumption_rate"`
	NetRate         float64 `json:"net_rate"`
	RequiredTier    string  `json:"required_belt_tier"`
	BeltCount       int     `json:"belt_count_needed"`
}

// Summary is the roll-up block of the report.
type Summary struct {
	SaturatedCount      int `json:"saturated_count"`
	NearSaturationCount int `json:"near_saturation_count"`
}

// Report is the logistics analysis output.
type Report struct {
	Timestamp              string        `json:"timestamp"`
	Threshold              float64       `json:"threshold"`
	Summary                Summary       `json:"summary"`
	SaturatedBelts         []BeltStatus  `json:"saturated_belts"`
	NearSaturation         []BeltStatus  `json:"near_saturation"`
	Recommendations        []string      `json:"recommendations"`
	ThroughputRequirements []Requirement `json:"throughput_requirements,omitempty"`
}

// Analyzer flags saturated belts and computes per-item belt sizing from
// the recipe graph and the snapshot's production rates.
type Analyzer struct {
	graph *recipegraph.Graph
}

// New creates a logistics analyzer over the shared recipe graph.
func New(g *recipegraph.Graph) *Analyzer {
	return &Analyzer{graph: g}
}

// Analyze runs one logistics analysis pass over the snapshot.
func (a *Analyzer) Analyze(snap *domain.FactorySnapshot, p Params) *Report {
	threshold := p.threshold()

	var saturated, near []BeltStatus
	var allAssemblers []domain.AssemblerMetrics

	for _, pid := range sortedPlanetIDs(snap) {
		if p.PlanetID != nil && pid != *p.PlanetID {
			continue
		}
		planet := snap.Planets[pid]
		allAssemblers = append(allAssemblers, planet.Assemblers...)

		for _, belt := range planet.Belts {
			item := a.resolveItemDisplay(belt.ItemType)

			if len(p.ItemFilter) > 0 && !contains(p.ItemFilter, item) && !contains(p.ItemFilter, belt.ItemType) {
				continue
			}

			status := BeltStatus{
				PlanetID:      pid,
				BeltID:        belt.BeltID,
				Item:          item,
				Throughput:    round2(belt.Throughput),
				MaxThroughput: belt.MaxThroughput,
				Saturation:    round1(belt.SaturationPercent),
			}

			switch {
			case belt.SaturationPercent >= threshold:
				status.Status = "saturated"
				status.Recommendation = upgradeRecommendation(belt.MaxThroughput)
				saturated = append(saturated, status)
			case belt.SaturationPercent >= threshold-nearSaturationWindow:
				status.Status = "near_saturation"
				near = append(near, status)
			}
		}
	}

	sort.SliceStable(saturated, func(i, j int) bool { return saturated[i].Saturation > saturated[j].Saturation })
	sort.SliceStable(near, func(i, j int) bool { return near[i].Saturation > near[j].Saturation })

	report := &Report{
		Timestamp:       snap.Timestamp.UTC().Format(time.RFC3339),
		Threshold:       threshold,
		Summary:         Summary{SaturatedCount: len(saturated), NearSaturationCount: len(near)},
		SaturatedBelts:  capBelts(saturated, maxSaturatedReported),
		NearSaturation:  capBelts(near, maxNearReported),
		Recommendations: globalRecommendations(saturated),
	}

	if p.includeThroughput() {
		if reqs := a.throughputRequirements(allAssemblers); len(reqs) > 0 {
			sort.SliceStable(reqs, func(i, j int) bool {
				return math.Abs(reqs[i].NetRate) > math.Abs(reqs[j].NetRate)
			})
			if len(reqs) > maxRequirements {
				reqs = reqs[:maxRequirements]
			}
			report.ThroughputRequirements = reqs
		}
	}

	return report
}

// resolveItemDisplay turns a synthetic "item_<id>" belt key back into a
// display name through the graph. Falls back to the raw value when the
// id does not parse or resolves to another placeholder.
func (a *Analyzer) resolveItemDisplay(itemType string) string {
	if !strings.HasPrefix(itemType, "item_") {
		return itemType
	}
	id, err := strconv.Atoi(strings.TrimPrefix(itemType, "item_"))
	if err != nil {
		return itemType
	}
	name := a.graph.ItemName(id)
	if strings.HasPrefix(name, "item_") {
		return itemType
	}
	return name
}

// throughputRequirements aggregates production and consumption per item
// across every building's recipe, then sizes belts for the larger flow.
func (a *Analyzer) throughputRequirements(assemblers []domain.AssemblerMetrics) []Requirement {
	production := map[int]float64{}
	consumption := map[int]float64{}

	for _, asm := range assemblers {
		recipe, ok := a.graph.GetRecipe(asm.RecipeID)
		if !ok {
			continue
		}

		for _, out := range recipe.Outputs {
			production[out.ItemID] += asm.ProductionRate
		}

		// Consumption follows from the cycle rate implied by the
		// primary output's actual rate.
		if asm.ProductionRate > 0 && recipe.Time > 0 {
			primary := recipe.PrimaryOutput()
			if primary.Count > 0 {
				cyclesPerMin := asm.ProductionRate / primary.Count
				for _, in := range recipe.Inputs {
					consumption[in.ItemID] += cyclesPerMin * in.Count
				}
			}
		}
	}

	itemIDs := map[int]bool{}
	for id := range production {
		itemIDs[id] = true
	}
	for id := range consumption {
		itemIDs[id] = true
	}
	ids := make([]int, 0, len(itemIDs))
	for id := range itemIDs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	reqs := make([]Requirement, 0, len(ids))
	for _, id := range ids {
		prod := production[id]
		cons := consumption[id]
		flowPerSec := math.Max(prod, cons) / 60
		tier, count := sizeBelts(flowPerSec)

		reqs = append(reqs, Requirement{
			Item:            a.graph.ItemName(id),
			ItemID:          id,
			ProductionRate:  round2(prod),
			ConsumptionRate: round2(cons),
			NetRate:         round2(prod - cons),
			RequiredTier:    tier,
			BeltCount:       count,
		})
	}

	return reqs
}

func globalRecommendations(saturated []BeltStatus) []string {
	switch {
	case len(saturated) == 0:
		return []string{"No saturated belts detected - logistics healthy"}
	case len(saturated) < systematicUpgradeCutoff:
		return []string{fmt.Sprintf("%d saturated belts - targeted upgrades recommended", len(saturated))}
	}

	recs := []string{fmt.Sprintf("%d saturated belts - consider systematic belt upgrade", len(saturated))}

	counts := map[string]int{}
	worst := saturated[0].Item
	for _, b := range saturated {
		counts[b.Item]++
		if counts[b.Item] > counts[worst] {
			worst = b.Item
		}
	}
	recs = append(recs, fmt.Sprintf("Most congested item: %s (%d belts)", worst, counts[worst]))

	return recs
}

func capBelts(belts []BeltStatus, n int) []BeltStatus {
	if belts == nil {
		return []BeltStatus{}
	}
	if len(belts) > n {
		return belts[:n]
	}
	return belts
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
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
