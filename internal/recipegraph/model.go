package recipegraph

// Item is one entry in the item catalog. Loaded once, never mutated.
type Item struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// RecipeInput is one input stack of a recipe, in units per cycle.
// ItemName is a cached display name filled by the loader; empty means
// resolve through the graph.
type RecipeInput struct {
	ItemID   int     `json:"item_id" yaml:"item_id"`
	Count    float64 `json:"count" yaml:"count"`
	ItemName string  `json:"item_name,omitempty" yaml:"item_name,omitempty"`
}

// RecipeOutput is one output stack of a recipe, in units per cycle.
type RecipeOutput struct {
	ItemID   int     `json:"item_id" yaml:"item_id"`
	Count    float64 `json:"count" yaml:"count"`
	ItemName string  `json:"item_name,omitempty" yaml:"item_name,omitempty"`
}

// Recipe is a transformation consuming Inputs and producing Outputs over
// Time seconds in a building of the given category (smelter, assembler,
// refinery, ...). PrimaryOutputID names the output item that identifies
// the recipe; the loader guarantees it resolves within Outputs.
type Recipe struct {
	ID              int            `json:"id" yaml:"id"`
	Building        string         `json:"building" yaml:"building"`
	Time            float64        `json:"time" yaml:"time"`
	Inputs          []RecipeInput  `json:"inputs" yaml:"inputs"`
	Outputs         []RecipeOutput `json:"outputs" yaml:"outputs"`
	PrimaryOutputID int            `json:"primary_output_id" yaml:"primary_output_id"`
}

// PrimaryOutput returns the output stack matching PrimaryOutputID.
// Falls back to the first output if the id does not match any stack;
// the loader rejects catalogs where that could happen.
func (r *Recipe) PrimaryOutput() RecipeOutput {
	for _, out := range r.Outputs {
		if out.ItemID == r.PrimaryOutputID {
			return out
		}
	}
	if len(r.Outputs) > 0 {
		return r.Outputs[0]
	}
	return RecipeOutput{}
}
