package bottleneck

// Type classifies a production bottleneck. Exactly three variants; the
// classifier's precedence order is input starvation, then blocked
// output, then low efficiency.
type Type string

const (
	TypeInputStarvation Type = "input_starvation"
	TypeOutputBlocked   Type = "output_blocked"
	TypeLowEfficiency   Type = "low_efficiency"
)

// Bottleneck is one detected production bottleneck for a recipe group on
// a planet. Created fresh per analysis call, never persisted as-is.
type Bottleneck struct {
	ItemID             int
	ItemName           string
	RecipeID           int
	PlanetID           int
	Type               Type
	Severity           float64 // 0-100, higher is worse
	AffectedThroughput float64 // items/min lost vs theoretical
	Efficiency         float64 // group average, percent
	RootCause          string
	Recommendation     string
	UpstreamItems      []string
	DownstreamImpact   []string
	AssemblerCount     int
}

// classification is the classifier's single return value: the variant
// plus its payload, kept together rather than three loose fields.
type classification struct {
	typ            Type
	severity       float64
	rootCause      string
	recommendation string
}

// Params are the optional knobs of one bottleneck analysis call. The
// zero value means: all planets, no target item, downstream tracing on.
type Params struct {
	PlanetID          *int
	TargetItem        string
	IncludeDownstream *bool
}

func (p Params) includeDownstream() bool {
	return p.IncludeDownstream == nil || *p.IncludeDownstream
}

// Entry is one bottleneck as serialized into the report.
type Entry struct {
	Item             string   `json:"item"`
	ItemID           int      `json:"item_id"`
	RecipeID         int      `json:"recipe_id"`
	PlanetID         int      `json:"planet_id"`
	Type             Type     `json:"type"`
	Severity         float64  `json:"severity"`
	Efficiency       float64  `json:"efficiency"`
	ThroughputLoss   float64  `json:"throughput_loss"`
	AssemblerCount   int      `json:"assembler_count"`
	RootCause        string   `json:"root_cause"`
	Recommendation   string   `json:"recommendation"`
	UpstreamItems    []string `json:"upstream_items"`
	DownstreamImpact []string `json:"downstream_impact"`
}

// PathStep is one hop of the critical path: an upstream item of the most
// severe bottleneck, annotated with whether that item is itself
// bottlenecked.
type PathStep struct {
	Item          string  `json:"item"`
	ItemID        int     `json:"item_id"`
	RecipeID      int     `json:"recipe_id"`
	HasBottleneck bool    `json:"has_bottleneck"`
	Type          Type    `json:"bottleneck_type,omitempty"`
	Severity      float64 `json:"severity,omitempty"`
}

// Summary is the roll-up block of the report.
type Summary struct {
	Status           string  `json:"status"`
	Message          string  `json:"message"`
	Efficiency       float64 `json:"efficiency"`
	TotalBottlenecks int     `json:"total_bottlenecks,omitempty"`
	MostCommonType   Type    `json:"most_common_type,omitempty"`
	MostSevereItem   string  `json:"most_severe_item,omitempty"`
	MostSevereType   Type    `json:"most_severe_type,omitempty"`
}

// Report is the bottleneck analysis output, JSON-shaped for the tool
// response. Numeric fields are rounded for presentation; callers needing
// full precision must recompute, not parse this back.
type Report struct {
	Timestamp             string     `json:"timestamp"`
	PlanetsAnalyzed       int        `json:"planets_analyzed"`
	TotalAssemblers       int        `json:"total_assemblers"`
	InefficientAssemblers int        `json:"inefficient_assemblers"`
	BottlenecksFound      int        `json:"bottlenecks_found"`
	Summary               Summary    `json:"summary"`
	Bottlenecks           []Entry    `json:"bottlenecks"`
	CriticalPath          []PathStep `json:"critical_path"`
}
