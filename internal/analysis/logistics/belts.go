package logistics

import "math"

// beltTier is one transport tier with its capacity in items/sec.
type beltTier struct {
	Name     string
	Capacity float64
}

// Ascending capacities: mk1 (360/min), mk2 (720/min), mk3 (1800/min).
var beltTiers = []beltTier{
	{Name: "mk1", Capacity: 6},
	{Name: "mk2", Capacity: 12},
	{Name: "mk3", Capacity: 30},
}

// sizeBelts picks the smallest tier whose capacity covers the flow and
// the number of parallel belts needed. Flows above the top tier stay on
// the top tier with more lines. Zero flow needs zero belts.
func sizeBelts(flowPerSec float64) (string, int) {
	tier := beltTiers[len(beltTiers)-1]
	for _, t := range beltTiers {
		if flowPerSec <= t.Capacity {
			tier = t
			break
		}
	}

	if flowPerSec <= 0 {
		return tier.Name, 0
	}
	count := int(math.Ceil(flowPerSec / tier.Capacity))
	if count < 1 {
		count = 1
	}
	return tier.Name, count
}

// detectTier infers a belt's tier from its reported max throughput
// (items/sec).
func detectTier(maxThroughput float64) string {
	switch {
	case maxThroughput <= beltTiers[0].Capacity:
		return "mk1"
	case maxThroughput <= beltTiers[1].Capacity:
		return "mk2"
	default:
		return "mk3"
	}
}

// upgradeRecommendation is the single actionable for a saturated belt:
// move up a tier, or go parallel at the top tier.
func upgradeRecommendation(maxThroughput float64) string {
	switch detectTier(maxThroughput) {
	case "mk1":
		return "Upgrade to Mk2 (green) belt for 2x throughput"
	case "mk2":
		return "Upgrade to Mk3 (yellow) belt for 2.5x throughput"
	default:
		return "At max tier - consider parallel belt lines"
	}
}
