package recipegraph

import (
	"fmt"
	"sort"
)

// Graph is the immutable recipe dependency graph: the item and recipe
// catalogs plus the derived producer/consumer adjacency indices.
//
// Build it once at startup (see the loader package) and share the pointer;
// nothing mutates it after New returns, so concurrent readers need no
// locking.
type Graph struct {
	recipes   map[int]*Recipe
	itemNames map[int]string
	itemIDs   map[string]int

	// producers maps item id -> recipe ids that output it.
	// consumers maps item id -> recipe ids that take it as input.
	producers map[int][]int
	consumers map[int][]int
}

// New builds a Graph from an already-validated catalog. The slices are
// copied into internal maps; callers may discard them afterwards.
func New(items []Item, recipes []*Recipe) *Graph {
	g := &Graph{
		recipes:   make(map[int]*Recipe, len(recipes)),
		itemNames: make(map[int]string, len(items)),
		itemIDs:   make(map[string]int, len(items)),
		producers: make(map[int][]int),
		consumers: make(map[int][]int),
	}

	for _, it := range items {
		g.itemNames[it.ID] = it.Name
		g.itemIDs[it.Name] = it.ID
	}

	for _, r := range recipes {
		g.recipes[r.ID] = r
		for _, out := range r.Outputs {
			g.producers[out.ItemID] = append(g.producers[out.ItemID], r.ID)
		}
		for _, in := range r.Inputs {
			g.consumers[in.ItemID] = append(g.consumers[in.ItemID], r.ID)
		}
	}

	// Deterministic adjacency order so traversals report items in a
	// stable order regardless of catalog file ordering.
	for id := range g.producers {
		sort.Ints(g.producers[id])
	}
	for id := range g.consumers {
		sort.Ints(g.consumers[id])
	}

	return g
}

// GetRecipe looks up a recipe by id. A missing id is not an error: the
// snapshot may reference recipes absent from the catalog (modded or
// future content) and callers are expected to skip those entries.
func (g *Graph) GetRecipe(id int) (*Recipe, bool) {
	r, ok := g.recipes[id]
	return r, ok
}

// ItemName resolves an item id to its display name. Unknown ids get the
// synthetic placeholder "item_<id>" so report formatting never fails on
// catalog gaps.
func (g *Graph) ItemName(id int) string {
	if name, ok := g.itemNames[id]; ok {
		return name
	}
	return fmt.Sprintf("item_%d", id)
}

// ItemID resolves a display name to an item id. Case-sensitive exact
// match only.
func (g *Graph) ItemID(name string) (int, bool) {
	id, ok := g.itemIDs[name]
	return id, ok
}

// TheoreticalRate returns the items/min a line of buildingCount buildings
// produces of the recipe's primary output at 100% uptime. Returns 0 for
// unknown recipes or non-positive cycle times.
func (g *Graph) TheoreticalRate(recipeID, buildingCount int) float64 {
	r, ok := g.recipes[recipeID]
	if !ok || r.Time <= 0 {
		return 0
	}
	return float64(buildingCount) * (r.PrimaryOutput().Count / r.Time) * 60
}

// Items returns the item catalog sorted by id.
func (g *Graph) Items() []Item {
	items := make([]Item, 0, len(g.itemNames))
	for id, name := range g.itemNames {
		items = append(items, Item{ID: id, Name: name})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// Recipes returns the recipe catalog sorted by id.
func (g *Graph) Recipes() []*Recipe {
	recipes := make([]*Recipe, 0, len(g.recipes))
	for _, r := range g.recipes {
		recipes = append(recipes, r)
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
	return recipes
}

// inputName resolves an input's display name, preferring the cached name.
func (g *Graph) inputName(in RecipeInput) string {
	if in.ItemName != "" {
		return in.ItemName
	}
	return g.ItemName(in.ItemID)
}

// outputName resolves an output's display name, preferring the cached name.
func (g *Graph) outputName(out RecipeOutput) string {
	if out.ItemName != "" {
		return out.ItemName
	}
	return g.ItemName(out.ItemID)
}

// InputNames returns the display names of a recipe's direct inputs, in
// recipe order. Empty for unknown recipes.
func (g *Graph) InputNames(recipeID int) []string {
	r, ok := g.recipes[recipeID]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(r.Inputs))
	for _, in := range r.Inputs {
		names = append(names, g.inputName(in))
	}
	return names
}

// PrimaryOutputName returns the display name of a recipe's primary output.
func (g *Graph) PrimaryOutputName(r *Recipe) string {
	return g.outputName(r.PrimaryOutput())
}
