// Offline analysis CLI. Runs the factory analysis tools against a snapshot
// JSON file without the API server, or exports the recipe graph as DOT.
//
// Usage:
//
//	worker -catalog data/recipes.json -snapshot snap.json
//	worker -catalog data/recipes.json -snapshot snap.json -planet 1 -target iron_ingot
//	worker -catalog data/recipes.json -dot > graph.dot
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/bottleneck"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/logistics"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/analysis/power"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/factory/domain"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/recipegraph/export"
	"github.com/dsp-factory-lab/factory-analysis-backend/internal/recipegraph/loader"
)

func main() {
	catalogPath := flag.String("catalog", "data/recipes.json", "recipe catalog file (JSON or YAML)")
	snapshotPath := flag.String("snapshot", "", "factory snapshot JSON file")
	planetID := flag.Int("planet", 0, "restrict analysis to one planet id (0 = all)")
	target := flag.String("target", "", "trace bottlenecks for this item only")
	dot := flag.Bool("dot", false, "print the recipe graph as Graphviz DOT and exit")
	flag.Parse()

	graph, err := loader.Load(*catalogPath)
	if err != nil {
		log.Fatalf("recipe catalog: %v", err)
	}

	if *dot {
		fmt.Print(export.ToDOT(graph, "Recipe Graph"))
		return
	}

	if *snapshotPath == "" {
		log.Fatal("-snapshot is required (or use -dot)")
	}
	snap, err := readSnapshot(*snapshotPath)
	if err != nil {
		log.Fatalf("snapshot: %v", err)
	}

	var planet *int
	if *planetID != 0 {
		planet = planetID
	}

	out := map[string]any{
		"bottleneck_report": bottleneck.New(graph).Analyze(snap, bottleneck.Params{PlanetID: planet, TargetItem: *target}),
		"logistics_report":  logistics.New(graph).Analyze(snap, logistics.Params{PlanetID: planet}),
		"power_report":      power.New(graph).Analyze(snap, power.Params{PlanetID: planet}),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode: %v", err)
	}
}

func readSnapshot(path string) (*domain.FactorySnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap domain.FactorySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(snap.Planets) == 0 {
		return nil, fmt.Errorf("%s contains no planets", path)
	}
	return &snap, nil
}
