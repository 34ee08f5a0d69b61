package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/BaSui01/delegateflow/catalog"
	"github.com/BaSui01/delegateflow/types"
)

func taskGen() *rapid.Generator[types.Task] {
	return rapid.Custom(func(rt *rapid.T) types.Task {
		return types.Task{
			ID:         rapid.StringMatching(`task-[a-z0-9]{8}`).Draw(rt, "id"),
			Type:       rapid.SampledFrom([]string{"diagnosis", "routing", "inspection", "forecasting"}).Draw(rt, "type"),
			Industry:   rapid.SampledFrom([]string{"healthcare", "financial", "manufacturing", "retail", "education", "logistics"}).Draw(rt, "industry"),
			Complexity: rapid.SampledFrom([]types.Complexity{types.ComplexitySimple, types.ComplexityMedium, types.ComplexityComplex, types.ComplexityCritical}).Draw(rt, "complexity"),
			Priority:   rapid.SampledFrom([]types.Priority{types.PriorityLow, types.PriorityMedium, types.PriorityHigh, types.PriorityUrgent}).Draw(rt, "priority"),
			SafetyLevel: rapid.SampledFrom([]types.SafetyLevel{
				types.SafetyLow, types.SafetyMedium, types.SafetyHigh, types.SafetyCritical,
			}).Draw(rt, "safetyLevel"),
			MaxLatencyMs:           rapid.IntRange(0, 10000).Draw(rt, "maxLatencyMs"),
			DataSize:               rapid.SampledFrom([]types.DataSize{types.DataSmall, types.DataMedium, types.DataLarge}).Draw(rt, "dataSize"),
			OfflineRequired:        rapid.Bool().Draw(rt, "offlineRequired"),
			RequiresHuman:          rapid.Bool().Draw(rt, "requiresHuman"),
			RequiresConsensus:      rapid.Bool().Draw(rt, "requiresConsensus"),
			RequiresOrdered:        rapid.Bool().Draw(rt, "requiresOrdered"),
			RequiresMultipleAgents: rapid.Bool().Draw(rt, "requiresMultipleAgents"),
			AgentCount:             rapid.IntRange(0, 20).Draw(rt, "agentCount"),
		}
	})
}

func agentPoolGen() *rapid.Generator[[]types.Agent] {
	return rapid.Custom(func(rt *rapid.T) []types.Agent {
		count := rapid.IntRange(1, 8).Draw(rt, "poolSize")
		pool := make([]types.Agent, count)
		for i := range pool {
			pool[i] = types.Agent{
				ID:             fmt.Sprintf("agent-%d", i),
				Type:           types.AgentAI,
				Specialization: rapid.SampledFrom([]string{"diagnosis", "routing", "inspection", ""}).Draw(rt, fmt.Sprintf("spec_%d", i)),
				Availability:   rapid.Float64Range(0, 1).Draw(rt, fmt.Sprintf("avail_%d", i)),
				Performance:    rapid.Float64Range(0, 1).Draw(rt, fmt.Sprintf("perf_%d", i)),
				Capabilities: map[string]float64{
					"diagnosis": rapid.Float64Range(0, 1).Draw(rt, fmt.Sprintf("prof_%d", i)),
				},
			}
		}
		return pool
	})
}

// Offline capability is a hard constraint: no combination of the other
// placement factors may pull an offline task away from the edge.
func TestProperty_OfflineAlwaysPlansEdge(t *testing.T) {
	p := NewLocationPlanner()
	rapid.Check(t, func(rt *rapid.T) {
		task := taskGen().Draw(rt, "task")
		task.OfflineRequired = true

		got := p.Plan(&task)
		require.Equal(rt, types.LocationEdge, got.Location)
	})
}

// No candidate with a strictly higher selection score may be left
// unselected, and every reported alternative scores at or below the
// winner.
func TestProperty_SelectedScoreIsMaximal(t *testing.T) {
	s := NewScorer(nil)
	rapid.Check(t, func(rt *rapid.T) {
		task := taskGen().Draw(rt, "task")
		pool := agentPoolGen().Draw(rt, "pool")

		sel, err := s.Select(pool, &task)
		require.NoError(rt, err)

		for _, agent := range pool {
			require.LessOrEqual(rt, s.SelectionScore(agent, &task), sel.Score)
		}
		for _, alt := range sel.Alternatives {
			require.LessOrEqual(rt, alt.Score, sel.Score)
			require.NotEqual(rt, sel.Agent.ID, alt.Agent.ID)
		}
	})
}

// Fitness stays within [0,1] for proficiencies and weights in range, and
// a task with zero binding weight scores a perfect fit.
func TestProperty_FitnessBounds(t *testing.T) {
	s := NewScorer(nil)
	rapid.Check(t, func(rt *rapid.T) {
		agent := types.Agent{Capabilities: map[string]float64{}}
		count := rapid.IntRange(0, 6).Draw(rt, "reqCount")
		reqs := make([]types.Requirement, count)
		for i := range reqs {
			capName := fmt.Sprintf("cap-%d", i)
			if rapid.Bool().Draw(rt, fmt.Sprintf("known_%d", i)) {
				agent.Capabilities[capName] = rapid.Float64Range(0, 1).Draw(rt, fmt.Sprintf("prof_%d", i))
			}
			reqs[i] = types.Requirement{
				Capability: capName,
				Weight:     rapid.Float64Range(0, 5).Draw(rt, fmt.Sprintf("weight_%d", i)),
			}
		}

		task := types.Task{Requirements: reqs}
		fitness := s.Fitness(agent, &task)
		require.GreaterOrEqual(rt, fitness, 0.0)
		require.LessOrEqual(rt, fitness, 1.0)

		var totalWeight float64
		for _, req := range reqs {
			totalWeight += req.Weight
		}
		if totalWeight == 0 {
			require.Equal(rt, 1.0, fitness)
		}
	})
}

// The composite risk score stays in its documented envelope and the
// level bucket always agrees with the thresholds.
func TestProperty_RiskScoreEnvelope(t *testing.T) {
	r := NewRiskAssessor(nil)
	rapid.Check(t, func(rt *rapid.T) {
		task := taskGen().Draw(rt, "task")

		got := r.Assess(&task)
		require.GreaterOrEqual(rt, got.Score, 0.2)
		require.LessOrEqual(rt, got.Score, 0.85+1e-9)
		require.Equal(rt, riskLevel(got.Score), got.Level)
		require.Len(rt, got.Factors, 4)
	})
}

// Planning the same task twice against an unchanged catalog yields
// byte-identical decisions.
func TestProperty_DelegationIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := taskGen().Draw(rt, "task")
		pool := agentPoolGen().Draw(rt, "pool")

		cat := catalog.NewMemoryCatalog(nil)
		for _, agent := range pool {
			require.NoError(rt, cat.Register(context.Background(), task.Industry, agent))
		}
		o := NewOrchestrator(cat, nil, nil)

		first, err := o.Delegate(context.Background(), &task)
		require.NoError(rt, err)
		second, err := o.Delegate(context.Background(), &task)
		require.NoError(rt, err)

		firstJSON, err := json.Marshal(first)
		require.NoError(rt, err)
		secondJSON, err := json.Marshal(second)
		require.NoError(rt, err)
		require.Equal(rt, string(firstJSON), string(secondJSON))
	})
}
