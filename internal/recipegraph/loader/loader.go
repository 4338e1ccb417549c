package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dsp-factory-lab/factory-analysis-backend/internal/recipegraph"
)

// Catalog is the on-disk recipe dataset. Items and recipes are flat
// lists; the graph derives its indices from them.
type Catalog struct {
	Items   []recipegraph.Item    `json:"items" yaml:"items"`
	Recipes []*recipegraph.Recipe `json:"recipes" yaml:"recipes"`
}

// Load reads, validates, and builds the recipe graph from a catalog file.
// YAML or JSON is chosen by extension (.yaml/.yml vs everything else).
// This is the only place catalog problems surface as errors; once Load
// succeeds, the graph may assume the data is well formed.
func Load(path string) (*recipegraph.Graph, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var cat *Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cat, err = ParseYAMLBytes(b)
	default:
		cat, err = ParseJSONBytes(b)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", filepath.Base(path), err)
	}

	return Build(cat)
}

// Build validates a parsed catalog and constructs the immutable graph.
func Build(cat *Catalog) (*recipegraph.Graph, error) {
	if err := Validate(cat); err != nil {
		return nil, err
	}
	fillNames(cat)
	return recipegraph.New(cat.Items, cat.Recipes), nil
}

func ParseJSONBytes(b []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func ParseYAMLBytes(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate enforces catalog invariants the graph relies on: unique ids,
// named items, at least one output per recipe, positive cycle times for
// rate math, and a primary output drawn from the recipe's own outputs.
// A zero primary_output_id defaults to the first output.
func Validate(cat *Catalog) error {
	if cat == nil {
		return fmt.Errorf("catalog is nil")
	}
	if len(cat.Recipes) == 0 {
		return fmt.Errorf("catalog has no recipes")
	}

	seenItems := map[int]bool{}
	for _, it := range cat.Items {
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("item %d has empty name", it.ID)
		}
		if seenItems[it.ID] {
			return fmt.Errorf("duplicate item id: %d", it.ID)
		}
		seenItems[it.ID] = true
	}

	seenRecipes := map[int]bool{}
	for _, r := range cat.Recipes {
		if r == nil {
			return fmt.Errorf("catalog contains nil recipe")
		}
		if seenRecipes[r.ID] {
			return fmt.Errorf("duplicate recipe id: %d", r.ID)
		}
		seenRecipes[r.ID] = true

		if len(r.Outputs) == 0 {
			return fmt.Errorf("recipe %d has no outputs", r.ID)
		}
		if r.Time <= 0 {
			return fmt.Errorf("recipe %d has non-positive time %v", r.ID, r.Time)
		}

		if r.PrimaryOutputID == 0 {
			r.PrimaryOutputID = r.Outputs[0].ItemID
		}
		found := false
		for _, out := range r.Outputs {
			if out.ItemID == r.PrimaryOutputID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("recipe %d: primary output %d not among its outputs", r.ID, r.PrimaryOutputID)
		}
	}

	return nil
}

// fillNames caches display names on input/output stacks so report code
// can format them without an extra lookup.
func fillNames(cat *Catalog) {
	names := make(map[int]string, len(cat.Items))
	for _, it := range cat.Items {
		names[it.ID] = it.Name
	}
	for _, r := range cat.Recipes {
		for i := range r.Inputs {
			if r.Inputs[i].ItemName == "" {
				r.Inputs[i].ItemName = names[r.Inputs[i].ItemID]
			}
		}
		for i := range r.Outputs {
			if r.Outputs[i].ItemName == "" {
				r.Outputs[i].ItemName = names[r.Outputs[i].ItemID]
			}
		}
	}
}
