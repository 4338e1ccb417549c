package bottleneck

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/domain"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/recipegraph"
)

const (
	// A group is flagged when more than this fraction of its buildings
	// report the same starved/blocked condition.
	flagFraction = 0.3

	// Below this group-average efficiency the group is flagged even
	// without starved/blocked reports.
	lowEfficiencyCutoff = 80.0

	// Individual buildings below this efficiency count as inefficient
	// in the summary statistics.
	inefficientCutoff = 90.0

	maxReported       = 10 // bottlenecks kept in the report
	maxTracedNames    = 5  // upstream/downstream names per bottleneck
	downstreamDepth   = 3
	criticalPathDepth = 5
)

// Analyzer turns a snapshot's building-level flags into a ranked,
// explained list of production bottlenecks plus one critical path. It is
// a pure reader of the graph and the snapshot; calls may run
// concurrently.
type Analyzer struct {
	graph *recipegraph.Graph
}

// New creates a bottleneck analyzer over the shared recipe graph.
func New(g *recipegraph.Graph) *Analyzer {
	return &Analyzer{graph: g}
}

// Analyze runs one bottleneck analysis pass over the snapshot.
func (a *Analyzer) Analyze(snap *domain.FactorySnapshot, p Params) *Report {
	var (
		bottlenecks           []Bottleneck
		planetsAnalyzed       int
		totalAssemblers       int
		inefficientAssemblers int
	)

	// Resolve the target item up front. An unknown name scopes nothing
	// out: analysis proceeds unfiltered, mirroring the lookup-miss
	// policy everywhere else.
	targetItemID := -1
	if p.TargetItem != "" {
		if id, ok := a.graph.ItemID(p.TargetItem); ok {
			targetItemID = id
		}
	}

	for _, pid := range sortedPlanetIDs(snap) {
		if p.PlanetID != nil && pid != *p.PlanetID {
			continue
		}
		planet := snap.Planets[pid]

		planetsAnalyzed++
		totalAssemblers += len(planet.Assemblers)

		// Group buildings by recipe, not by item: multiple recipes can
		// share an output and must be judged separately.
		groupOrder, groups := groupByRecipe(planet.Assemblers)

		for _, recipeID := range groupOrder {
			group := groups[recipeID]
			recipe, ok := a.graph.GetRecipe(recipeID)
			if !ok {
				continue
			}

			if targetItemID >= 0 && recipe.PrimaryOutputID != targetItemID {
				// Keep recipes whose chain eventually reaches the target.
				if !a.graph.IsAncestor(recipeID, targetItemID) {
					continue
				}
			}

			if b := a.analyzeGroup(recipe, group, planet, p.includeDownstream()); b != nil {
				b.PlanetID = pid
				bottlenecks = append(bottlenecks, *b)
			}

			for _, asm := range group {
				if asm.Efficiency < inefficientCutoff {
					inefficientAssemblers++
				}
			}
		}
	}

	sort.SliceStable(bottlenecks, func(i, j int) bool {
		return bottlenecks[i].Severity > bottlenecks[j].Severity
	})

	criticalPath := []PathStep{}
	if p.includeDownstream() {
		criticalPath = a.buildCriticalPath(bottlenecks)
	}

	report := &Report{
		Timestamp:             snap.Timestamp.UTC().Format(time.RFC3339),
		PlanetsAnalyzed:       planetsAnalyzed,
		TotalAssemblers:       totalAssemblers,
		InefficientAssemblers: inefficientAssemblers,
		BottlenecksFound:      len(bottlenecks),
		Summary:               a.summarize(bottlenecks, totalAssemblers, inefficientAssemblers),
		Bottlenecks:           []Entry{},
		CriticalPath:          criticalPath,
	}

	for i, b := range bottlenecks {
		if i >= maxReported {
			break
		}
		report.Bottlenecks = append(report.Bottlenecks, Entry{
			Item:             b.ItemName,
			ItemID:           b.ItemID,
			RecipeID:         b.RecipeID,
			PlanetID:         b.PlanetID,
			Type:             b.Type,
			Severity:         round1(b.Severity),
			Efficiency:       round1(b.Efficiency),
			ThroughputLoss:   round2(b.AffectedThroughput),
			AssemblerCount:   b.AssemblerCount,
			RootCause:        b.RootCause,
			Recommendation:   b.Recommendation,
			UpstreamItems:    b.UpstreamItems,
			DownstreamImpact: b.DownstreamImpact,
		})
	}

	return report
}

// analyzeGroup classifies one recipe group. Returns nil when the group is
// healthy.
func (a *Analyzer) analyzeGroup(recipe *recipegraph.Recipe, group []domain.AssemblerMetrics, planet *domain.PlanetState, includeDownstream bool) *Bottleneck {
	totalProduction := 0.0
	for _, asm := range group {
		totalProduction += asm.ProductionRate
	}

	// Trust snapshot-reported theoreticals when populated, otherwise
	// derive from the recipe.
	totalTheoretical := 0.0
	if group[0].TheoreticalMax > 0 {
		for _, asm := range group {
			totalTheoretical += asm.TheoreticalMax
		}
	}
	if totalTheoretical == 0 {
		totalTheoretical = a.graph.TheoreticalRate(recipe.ID, len(group))
	}

	// Zero theoretical means no demand, which is not a failure mode.
	avgEfficiency := 100.0
	if totalTheoretical > 0 {
		avgEfficiency = totalProduction / totalTheoretical * 100
	}

	starved, blocked := 0, 0
	for _, asm := range group {
		if asm.InputStarved {
			starved++
		}
		if asm.OutputBlocked {
			blocked++
		}
	}

	cls, flagged := a.classify(recipe, group, planet, starved, blocked, avgEfficiency, includeDownstream)
	if !flagged {
		return nil
	}

	upstream := a.graph.InputNames(recipe.ID)
	downstream := []string{}
	if includeDownstream {
		downstream = a.downstreamNames(recipe.PrimaryOutputID)
	}

	return &Bottleneck{
		ItemID:             recipe.PrimaryOutputID,
		ItemName:           a.graph.PrimaryOutputName(recipe),
		RecipeID:           recipe.ID,
		Type:               cls.typ,
		Severity:           cls.severity,
		AffectedThroughput: totalTheoretical - totalProduction,
		Efficiency:         avgEfficiency,
		RootCause:          cls.rootCause,
		Recommendation:     cls.recommendation,
		UpstreamItems:      truncate(upstream, maxTracedNames),
		DownstreamImpact:   truncate(downstream, maxTracedNames),
		AssemblerCount:     len(group),
	}
}

// classify applies the fixed precedence: input starvation wins over
// blocked output wins over low efficiency. The first matching rule ends
// evaluation.
func (a *Analyzer) classify(recipe *recipegraph.Recipe, group []domain.AssemblerMetrics, planet *domain.PlanetState, starved, blocked int, avgEfficiency float64, includeDownstream bool) (classification, bool) {
	n := float64(len(group))

	if float64(starved) > n*flagFraction {
		upstream := a.graph.InputNames(recipe.ID)
		first := "inputs"
		if len(upstream) > 0 {
			first = upstream[0]
		}
		return classification{
			typ:            TypeInputStarvation,
			severity:       float64(starved) / n * 100,
			rootCause:      fmt.Sprintf("Insufficient input: %s", strings.Join(truncate(upstream, 3), ", ")),
			recommendation: fmt.Sprintf("Increase production of %s or add more input belts", first),
		}, true
	}

	if float64(blocked) > n*flagFraction {
		recommendation := "Add more output belts or increase downstream consumption"
		if includeDownstream {
			if downstream := a.downstreamNames(recipe.PrimaryOutputID); len(downstream) > 0 {
				recommendation = fmt.Sprintf("Increase consumption by %s or add more output belts", downstream[0])
			}
		}
		return classification{
			typ:            TypeOutputBlocked,
			severity:       float64(blocked) / n * 100,
			rootCause:      "Output buffer full, downstream consumption insufficient",
			recommendation: recommendation,
		}, true
	}

	if avgEfficiency < lowEfficiencyCutoff {
		cls := classification{
			typ:      TypeLowEfficiency,
			severity: 100 - avgEfficiency,
		}
		if planet.Power != nil && planet.Power.SurplusMW < 0 {
			cls.rootCause = fmt.Sprintf("Power deficit of %.1fMW limiting production", math.Abs(planet.Power.SurplusMW))
			cls.recommendation = "Add power generation to restore full efficiency"
		} else {
			cls.rootCause = "Assemblers running below optimal efficiency"
			cls.recommendation = "Check for sporadic input/output issues or power fluctuations"
		}
		return cls, true
	}

	return classification{}, false
}

func (a *Analyzer) downstreamNames(itemID int) []string {
	steps := a.graph.TraceDownstream(itemID, downstreamDepth)
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.ItemName)
	}
	return names
}

// buildCriticalPath traces upstream from the single most severe
// bottleneck and annotates each hop with whether that item is itself
// flagged. Shows whether the top bottleneck's causes are already known
// bottlenecks.
func (a *Analyzer) buildCriticalPath(bottlenecks []Bottleneck) []PathStep {
	path := []PathStep{}
	if len(bottlenecks) == 0 {
		return path
	}

	root := bottlenecks[0]
	for _, hop := range a.graph.TraceUpstream(root.ItemID, criticalPathDepth) {
		step := PathStep{
			Item:     hop.ItemName,
			ItemID:   hop.ItemID,
			RecipeID: hop.RecipeID,
		}
		for _, b := range bottlenecks {
			if b.ItemID == hop.ItemID {
				step.HasBottleneck = true
				step.Type = b.Type
				step.Severity = b.Severity
				break
			}
		}
		path = append(path, step)
	}

	return path
}

func (a *Analyzer) summarize(bottlenecks []Bottleneck, total, inefficient int) Summary {
	if len(bottlenecks) == 0 {
		efficiency := 100.0
		if total > 0 {
			efficiency = round1((1 - float64(inefficient)/float64(total)) * 100)
		}
		return Summary{
			Status:     "healthy",
			Message:    "No significant bottlenecks detected",
			Efficiency: efficiency,
		}
	}

	byType := map[Type]int{}
	for _, b := range bottlenecks {
		byType[b.Type]++
	}
	mostCommon := bottlenecks[0].Type
	for _, b := range bottlenecks {
		if byType[b.Type] > byType[mostCommon] {
			mostCommon = b.Type
		}
	}

	mostSevere := bottlenecks[0]
	status := "minor"
	switch {
	case mostSevere.Severity > 80:
		status = "critical"
	case mostSevere.Severity > 50:
		status = "warning"
	}

	divisor := total
	if divisor < 1 {
		divisor = 1
	}

	return Summary{
		Status:           status,
		Message:          summaryMessage(mostSevere, len(bottlenecks)),
		Efficiency:       round1((1 - float64(inefficient)/float64(divisor)) * 100),
		TotalBottlenecks: len(bottlenecks),
		MostCommonType:   mostCommon,
		MostSevereItem:   mostSevere.ItemName,
		MostSevereType:   mostSevere.Type,
	}
}

func summaryMessage(mostSevere Bottleneck, count int) string {
	switch mostSevere.Type {
	case TypeInputStarvation:
		first := "inputs"
		if len(mostSevere.UpstreamItems) > 0 {
			first = mostSevere.UpstreamItems[0]
		}
		return fmt.Sprintf("Production of %s is limited by input availability. Upstream production of %s needs to be increased.",
			mostSevere.ItemName, first)
	case TypeOutputBlocked:
		return fmt.Sprintf("Production of %s is backing up due to insufficient downstream consumption. Consider adding more output capacity or increasing demand.",
			mostSevere.ItemName)
	case TypeLowEfficiency:
		return fmt.Sprintf("%d production lines running below optimal efficiency. Check power supply and belt saturation.", count)
	default:
		return fmt.Sprintf("%d bottlenecks detected affecting factory throughput.", count)
	}
}

func groupByRecipe(assemblers []domain.AssemblerMetrics) ([]int, map[int][]domain.AssemblerMetrics) {
	var order []int
	groups := map[int][]domain.AssemblerMetrics{}
	for _, asm := range assemblers {
		if _, seen := groups[asm.RecipeID]; !seen {
			order = append(order, asm.RecipeID)
		}
		groups[asm.RecipeID] = append(groups[asm.RecipeID], asm)
	}
	return order, groups
}

func sortedPlanetIDs(snap *domain.FactorySnapshot) []int {
	ids := make([]int, 0, len(snap.Planets))
	for pid := range snap.Planets {
		ids = append(ids, pid)
	}
	sort.Ints(ids)
	return ids
}

func truncate(xs []string, n int) []string {
	if xs == nil {
		return []string{}
	}
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
