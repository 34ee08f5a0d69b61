package planner

import "github.com/BaSui01/delegateflow/types"

// Location planning score increments. Offline capability is deliberately
// dominant: it is a hard constraint, not a preference, and its bonus
// exceeds the maximum any realistic combination of the other rules can
// put on the cloud side.
const (
	latencyUltraLowEdgeBonus  = 10
	latencyLowEdgeBonus       = 5
	latencyTolerantCloudBonus = 3

	safetyCriticalEdgeBonus  = 8
	safetyHighEdgeBonus      = 5
	safetyStandardCloudBonus = 2

	complexityCriticalCloudBonus = 6
	complexityComplexCloudBonus  = 3
	complexityModerateEdgeBonus  = 2

	dataLargeCloudBonus  = 5
	dataMediumCloudBonus = 2
	dataSmallEdgeBonus   = 3

	offlineEdgeBonus = 15
)

// LocationPlanner decides where a task's computation runs: at the edge,
// in a central cloud, or split across both.
type LocationPlanner struct{}

// NewLocationPlanner creates a location planner.
func NewLocationPlanner() *LocationPlanner {
	return &LocationPlanner{}
}

// locationRule is one independent, order-insensitive placement rule
// contribution.
type locationRule struct {
	edge   int
	cloud  int
	reason string
}

// Plan accumulates edge and cloud scores over the independent placement
// rules and picks the higher side, hybrid on an exact tie.
//
// The returned reasoning names every triggered rule that pushed the
// winning side; on hybrid it names all triggered rules, since both sides
// contributed equally to the outcome.
func (p *LocationPlanner) Plan(task *types.Task) types.ExecutionLocation {
	rules := []locationRule{
		latencyRule(task.MaxLatencyMs),
		safetyRule(task.SafetyLevel),
		complexityRule(task.Complexity),
		dataSizeRule(task.DataSize),
	}
	if task.OfflineRequired {
		rules = append(rules, locationRule{
			edge:   offlineEdgeBonus,
			reason: "Offline capability required",
		})
	}

	var edgeScore, cloudScore int
	for _, r := range rules {
		edgeScore += r.edge
		cloudScore += r.cloud
	}

	var location types.Location
	switch {
	case edgeScore > cloudScore:
		location = types.LocationEdge
	case cloudScore > edgeScore:
		location = types.LocationCloud
	default:
		location = types.LocationHybrid
	}

	// Offline execution cannot be satisfied remotely. The bonus alone
	// can still lose by a point to a fully cloud-leaning rule stack
	// (16 cloud vs 15 edge), so the constraint overrides the tally.
	if task.OfflineRequired {
		location = types.LocationEdge
	}

	reasoning := make([]string, 0, len(rules))
	for _, r := range rules {
		switch location {
		case types.LocationEdge:
			if r.edge > 0 {
				reasoning = append(reasoning, r.reason)
			}
		case types.LocationCloud:
			if r.cloud > 0 {
				reasoning = append(reasoning, r.reason)
			}
		default:
			reasoning = append(reasoning, r.reason)
		}
	}

	return types.ExecutionLocation{
		Location:         location,
		EdgeScore:        edgeScore,
		CloudScore:       cloudScore,
		Reasoning:        reasoning,
		FallbackLocation: fallbackLocation(location),
		SyncRequired:     location == types.LocationHybrid || task.SafetyLevel == types.SafetyCritical,
	}
}

func latencyRule(maxLatencyMs int) locationRule {
	switch {
	case maxLatencyMs < 10:
		return locationRule{edge: latencyUltraLowEdgeBonus, reason: "Ultra-low latency requirement (<10ms)"}
	case maxLatencyMs < 100:
		return locationRule{edge: latencyLowEdgeBonus, reason: "Low latency requirement (<100ms)"}
	default:
		return locationRule{cloud: latencyTolerantCloudBonus, reason: "Latency-tolerant workload"}
	}
}

func safetyRule(level types.SafetyLevel) locationRule {
	switch level {
	case types.SafetyCritical:
		return locationRule{edge: safetyCriticalEdgeBonus, reason: "Critical safety level requires local control"}
	case types.SafetyHigh:
		return locationRule{edge: safetyHighEdgeBonus, reason: "High safety level favors local execution"}
	default:
		return locationRule{cloud: safetyStandardCloudBonus, reason: "Standard safety level permits remote execution"}
	}
}

func complexityRule(c types.Complexity) locationRule {
	switch c {
	case types.ComplexityCritical:
		return locationRule{cloud: complexityCriticalCloudBonus, reason: "Critical complexity needs cloud compute capacity"}
	case types.ComplexityComplex:
		return locationRule{cloud: complexityComplexCloudBonus, reason: "Complex processing favors cloud resources"}
	default:
		return locationRule{edge: complexityModerateEdgeBonus, reason: "Moderate complexity runs locally"}
	}
}

func dataSizeRule(size types.DataSize) locationRule {
	switch size {
	case types.DataLarge:
		return locationRule{cloud: dataLargeCloudBonus, reason: "Large data volume favors cloud storage"}
	case types.DataMedium:
		return locationRule{cloud: dataMediumCloudBonus, reason: "Medium data volume leans cloud"}
	default:
		return locationRule{edge: dataSmallEdgeBonus, reason: "Small data volume suits edge processing"}
	}
}

// fallbackLocation is the non-chosen pole, or cloud when the decision is
// hybrid.
func fallbackLocation(chosen types.Location) types.Location {
	switch chosen {
	case types.LocationEdge:
		return types.LocationCloud
	case types.LocationCloud:
		return types.LocationEdge
	default:
		return types.LocationCloud
	}
}
