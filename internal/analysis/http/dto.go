package http

// BottleneckRequest carries the optional parameters of a bottleneck
// analysis call. Absent fields keep default behavior.
type BottleneckRequest struct {
	PlanetID          *int   `json:"planet_id,omitempty"`
	TargetItem        string `json:"target_item,omitempty"`
	IncludeDownstream *bool  `json:"include_downstream,omitempty"`
}

// LogisticsRequest carries the optional parameters of a logistics
// analysis call.
type LogisticsRequest struct {
	PlanetID            *int     `json:"planet_id,omitempty"`
	ItemFilter          []string `json:"item_filter,omitempty"`
	SaturationThreshold *float64 `json:"saturation_threshold,omitempty"`
	IncludeThroughput   *bool    `json:"include_throughput_analysis,omitempty"`
}

// PowerRequest carries the optional parameters of a power analysis call.
type PowerRequest struct {
	PlanetID            *int  `json:"planet_id,omitempty"`
	IncludeAccumulators *bool `json:"include_accumulator_cycles,omitempty"`
	IncludeConsumers    *bool `json:"include_consumers,omitempty"`
}
