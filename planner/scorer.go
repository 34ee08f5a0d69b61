package planner

import (
	"fmt"
	"strings"

	"github.com/BaSui01/delegateflow/types"
	"go.uber.org/zap"
)

// Selection score blend weights. Availability and specialization flank a
// heavier performance term.
const (
	selectionAvailabilityWeight   = 0.3
	selectionPerformanceWeight    = 0.4
	selectionSpecializationWeight = 0.3
)

// Specialization match tiers. A deliberately coarse bucket, not a
// continuous similarity metric.
const (
	matchExact     = 1.0
	matchSubstring = 0.8
	matchFallback  = 0.6
)

// maxAlternatives bounds how many non-selected candidates a decision
// reports.
const maxAlternatives = 3

// Scorer ranks candidate agents against a task.
type Scorer struct {
	logger *zap.Logger
}

// NewScorer creates a scorer.
func NewScorer(logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{logger: logger.With(zap.String("component", "scorer"))}
}

// Fitness computes the agent's capability fitness against the task's
// requirement list, in [0,1].
//
// Each requirement contributes proficiency×weight to the numerator; a
// capability the agent lacks contributes 0 but its weight still accrues to
// the denominator, so a missing capability is a full miss rather than an
// exclusion. A task with zero total weight has no binding requirements and
// every agent scores 1.
func (s *Scorer) Fitness(agent types.Agent, task *types.Task) float64 {
	var weighted, totalWeight float64
	for _, req := range task.Requirements {
		weighted += agent.Proficiency(req.Capability) * req.Weight
		totalWeight += req.Weight
	}
	if totalWeight == 0 {
		return 1
	}
	return weighted / totalWeight
}

// SpecializationMatch buckets how well the agent's specialization tag fits
// the task type: exact match, category substring match, or the floor.
func SpecializationMatch(agent types.Agent, task *types.Task) float64 {
	spec := strings.ToLower(agent.Specialization)
	taskType := strings.ToLower(task.Type)

	switch {
	case spec == taskType:
		return matchExact
	case spec != "" && taskType != "" &&
		(strings.Contains(taskType, spec) || strings.Contains(spec, taskType)):
		return matchSubstring
	default:
		return matchFallback
	}
}

// SelectionScore computes the composite metric used to rank candidates:
// a weighted blend of availability, historical performance, and
// specialization match.
func (s *Scorer) SelectionScore(agent types.Agent, task *types.Task) float64 {
	return selectionAvailabilityWeight*agent.Availability +
		selectionPerformanceWeight*agent.Performance +
		selectionSpecializationWeight*SpecializationMatch(agent, task)
}

// Selection is the scorer's ranking result: the winning agent plus the
// top alternatives with the reason each ranked lower.
type Selection struct {
	Agent        types.Agent
	Score        float64
	Fitness      float64
	Alternatives []types.AlternativeAgent
}

// Select picks the best agent from the candidate pool for the task.
//
// Candidates are scanned in catalog order and ties break toward the first
// agent encountered, which keeps selection stable and deterministic. An
// empty pool yields NO_CANDIDATE_AGENTS; the scorer never fabricates a
// default agent.
func (s *Scorer) Select(candidates []types.Agent, task *types.Task) (*Selection, error) {
	if len(candidates) == 0 {
		return nil, types.NewError(types.ErrNoCandidateAgents,
			fmt.Sprintf("no agents registered for industry %q", task.Industry))
	}

	bestIdx := 0
	bestScore := s.SelectionScore(candidates[0], task)
	scores := make([]float64, len(candidates))
	scores[0] = bestScore

	for i := 1; i < len(candidates); i++ {
		scores[i] = s.SelectionScore(candidates[i], task)
		if scores[i] > bestScore {
			bestIdx = i
			bestScore = scores[i]
		}
	}

	selected := candidates[bestIdx]
	alternatives := s.rankAlternatives(candidates, scores, bestIdx, selected, task)

	s.logger.Debug("agent selected",
		zap.String("task_id", task.ID),
		zap.String("agent_id", selected.ID),
		zap.Float64("selection_score", bestScore),
		zap.Int("pool_size", len(candidates)),
	)

	return &Selection{
		Agent:        selected,
		Score:        bestScore,
		Fitness:      s.Fitness(selected, task),
		Alternatives: alternatives,
	}, nil
}

// rankAlternatives returns the best non-selected candidates in descending
// score order, each with a one-line reason describing its dominant deficit
// against the winner.
func (s *Scorer) rankAlternatives(candidates []types.Agent, scores []float64, bestIdx int, selected types.Agent, task *types.Task) []types.AlternativeAgent {
	alts := make([]types.AlternativeAgent, 0, len(candidates)-1)
	for i, agent := range candidates {
		if i == bestIdx {
			continue
		}
		alts = append(alts, types.AlternativeAgent{
			Agent:  agent,
			Score:  scores[i],
			Reason: lowerRankReason(agent, selected, task),
		})
	}

	// stable insertion sort by descending score; equal scores keep
	// catalog order
	for i := 1; i < len(alts); i++ {
		for j := i; j > 0 && alts[j].Score > alts[j-1].Score; j-- {
			alts[j], alts[j-1] = alts[j-1], alts[j]
		}
	}

	if len(alts) > maxAlternatives {
		alts = alts[:maxAlternatives]
	}
	return alts
}

// lowerRankReason names the weighted component where the alternative lost
// the most ground to the selected agent.
func lowerRankReason(alt, selected types.Agent, task *types.Task) string {
	availGap := selectionAvailabilityWeight * (selected.Availability - alt.Availability)
	perfGap := selectionPerformanceWeight * (selected.Performance - alt.Performance)
	specGap := selectionSpecializationWeight *
		(SpecializationMatch(selected, task) - SpecializationMatch(alt, task))

	switch {
	case availGap <= 0 && perfGap <= 0 && specGap <= 0:
		return "equal score, later in catalog order"
	case availGap >= perfGap && availGap >= specGap:
		return "lower availability"
	case perfGap >= specGap:
		return "lower historical performance"
	default:
		return "weaker specialization match"
	}
}
