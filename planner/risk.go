package planner

import (
	"github.com/BaSui01/delegateflow/config"
	"github.com/BaSui01/delegateflow/types"
)

// Risk level thresholds on the composite score.
const (
	riskHighThreshold   = 0.6
	riskMediumThreshold = 0.3
)

// mitigationCatalog is the fixed, ordered catalog of mitigation
// strategies. The assessed level selects a prefix.
var mitigationCatalog = []string{
	"additional checkpoints",
	"backup agent assignment",
	"increased monitoring cadence",
	"human oversight injection",
	"automated rollback",
}

// Mitigation prefix lengths by level.
const (
	mitigationsHigh   = 5
	mitigationsMedium = 3
	mitigationsLow    = 2
)

// RiskAssessor computes a deterministic composite risk score from task
// attributes. No hidden randomness: identical tasks assess identically.
type RiskAssessor struct {
	ref *config.ReferenceTable
}

// NewRiskAssessor creates a risk assessor backed by the industry
// reference table.
func NewRiskAssessor(ref *config.ReferenceTable) *RiskAssessor {
	if ref == nil {
		ref = config.DefaultReferenceTable()
	}
	return &RiskAssessor{ref: ref}
}

// Assess computes four independent, individually capped risk
// contributions and sums them into a composite score with a level bucket
// and a mitigation list sized to the level.
func (r *RiskAssessor) Assess(task *types.Task) types.RiskAssessment {
	factors := map[string]float64{
		"complexity": complexityRisk(task.Complexity),
		"industry":   r.ref.RiskWeight(task.Industry),
		"urgency":    urgencyRisk(task.Priority),
		"automation": automationRisk(task.RequiresHuman),
	}

	// summed in fixed order; map iteration order would let float
	// rounding vary between identical assessments
	score := factors["complexity"] + factors["industry"] + factors["urgency"] + factors["automation"]

	level := riskLevel(score)

	return types.RiskAssessment{
		Level:       level,
		Score:       score,
		Factors:     factors,
		Mitigations: mitigations(level),
	}
}

func complexityRisk(c types.Complexity) float64 {
	switch c {
	case types.ComplexityCritical:
		return 0.3
	case types.ComplexityComplex:
		return 0.2
	default:
		return 0.1
	}
}

func urgencyRisk(p types.Priority) float64 {
	switch p {
	case types.PriorityUrgent, types.PriorityHigh:
		return 0.2
	case types.PriorityMedium:
		return 0.1
	default:
		return 0.05
	}
}

func automationRisk(requiresHuman bool) float64 {
	if requiresHuman {
		return 0.1
	}
	return 0.05
}

// riskLevel buckets a composite score. The 0.6 boundary itself is medium,
// not high.
func riskLevel(score float64) types.RiskLevel {
	switch {
	case score > riskHighThreshold:
		return types.RiskHigh
	case score > riskMediumThreshold:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}

// mitigations returns the level-sized prefix of the mitigation catalog.
func mitigations(level types.RiskLevel) []string {
	n := mitigationsLow
	switch level {
	case types.RiskHigh:
		n = mitigationsHigh
	case types.RiskMedium:
		n = mitigationsMedium
	}

	out := make([]string, n)
	copy(out, mitigationCatalog[:n])
	return out
}
