package recipegraph

// ancestorDepth bounds IsAncestor's downstream walk. Deep enough to cover
// any real production chain; keeps the check O(1) in practice.
const ancestorDepth = 5

// UpstreamStep is one discovered item on the upstream (producer-side)
// walk. RecipeID is the producing recipe whose input list surfaced the
// item, so callers can attribute the hop.
type UpstreamStep struct {
	ItemID   int    `json:"item_id"`
	ItemName string `json:"item_name"`
	RecipeID int    `json:"recipe_id"`
}

// DownstreamStep is one discovered item on the downstream (consumer-side)
// walk: an item ultimately produced from the starting item.
type DownstreamStep struct {
	ItemID   int    `json:"item_id"`
	ItemName string `json:"item_name"`
}

// TraceUpstream walks toward producers: for the given item, the recipes
// that output it, then each of those recipes' inputs, breadth-first so
// nearer causes come before farther ones. Each item id is visited at most
// once (the visited set is keyed by item, not by path), which both
// terminates recycling cycles and collapses diamond dependencies.
// maxDepth counts hops from the starting item. Unknown ids yield an
// empty result, never an error.
func (g *Graph) TraceUpstream(itemID, maxDepth int) []UpstreamStep {
	var steps []UpstreamStep

	type frame struct {
		item  int
		depth int
	}

	visited := map[int]bool{itemID: true}
	queue := []frame{{item: itemID, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= maxDepth {
			continue
		}

		for _, recipeID := range g.producers[cur.item] {
			r := g.recipes[recipeID]
			for _, in := range r.Inputs {
				if visited[in.ItemID] {
					continue
				}
				visited[in.ItemID] = true
				steps = append(steps, UpstreamStep{
					ItemID:   in.ItemID,
					ItemName: g.inputName(in),
					RecipeID: recipeID,
				})
				queue = append(queue, frame{item: in.ItemID, depth: cur.depth + 1})
			}
		}
	}

	return steps
}

// TraceDownstream is the symmetric walk over the consumer index: the
// recipes that need this item as input, surfacing each such recipe's
// primary output. Same breadth-first order, dedupe, and termination
// guarantees as TraceUpstream.
func (g *Graph) TraceDownstream(itemID, maxDepth int) []DownstreamStep {
	var steps []DownstreamStep

	type frame struct {
		item  int
		depth int
	}

	visited := map[int]bool{itemID: true}
	queue := []frame{{item: itemID, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= maxDepth {
			continue
		}

		for _, recipeID := range g.consumers[cur.item] {
			r := g.recipes[recipeID]
			out := r.PrimaryOutput()
			if visited[out.ItemID] {
				continue
			}
			visited[out.ItemID] = true
			steps = append(steps, DownstreamStep{
				ItemID:   out.ItemID,
				ItemName: g.outputName(out),
			})
			queue = append(queue, frame{item: out.ItemID, depth: cur.depth + 1})
		}
	}

	return steps
}

// IsAncestor reports whether targetItemID lies in the downstream chain of
// the recipe's primary output, within a bounded depth. Used to scope a
// "focus on item X" analysis to every recipe that eventually feeds X,
// not just the ones producing X directly.
func (g *Graph) IsAncestor(recipeID, targetItemID int) bool {
	r, ok := g.recipes[recipeID]
	if !ok {
		return false
	}
	for _, step := range g.TraceDownstream(r.PrimaryOutputID, ancestorDepth) {
		if step.ItemID == targetItemID {
			return true
		}
	}
	return false
}
