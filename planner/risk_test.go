package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/delegateflow/types"
)

func TestRiskAssessor_Assess(t *testing.T) {
	r := NewRiskAssessor(nil)

	tests := []struct {
		name      string
		task      types.Task
		wantScore float64
		wantLevel types.RiskLevel
	}{
		{
			name: "worst case healthcare task",
			task: types.Task{
				Industry:      "healthcare",
				Complexity:    types.ComplexityCritical,
				Priority:      types.PriorityUrgent,
				RequiresHuman: true,
			},
			wantScore: 0.3 + 0.25 + 0.2 + 0.1,
			wantLevel: types.RiskHigh,
		},
		{
			name: "routine retail task",
			task: types.Task{
				Industry:   "retail",
				Complexity: types.ComplexitySimple,
				Priority:   types.PriorityLow,
			},
			wantScore: 0.1 + 0.1 + 0.05 + 0.05,
			wantLevel: types.RiskLow,
		},
		{
			name: "medium financial task",
			task: types.Task{
				Industry:   "financial",
				Complexity: types.ComplexityComplex,
				Priority:   types.PriorityMedium,
			},
			wantScore: 0.2 + 0.2 + 0.1 + 0.05,
			wantLevel: types.RiskMedium,
		},
		{
			name: "unknown industry falls back to baseline",
			task: types.Task{
				Industry:   "agriculture",
				Complexity: types.ComplexitySimple,
				Priority:   types.PriorityLow,
			},
			wantScore: 0.1 + 0.1 + 0.05 + 0.05,
			wantLevel: types.RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Assess(&tt.task)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Len(t, got.Factors, 4)
		})
	}
}

func TestRiskAssessor_UrgentEqualsHigh(t *testing.T) {
	r := NewRiskAssessor(nil)
	base := types.Task{Industry: "retail", Complexity: types.ComplexitySimple}

	urgent := base
	urgent.Priority = types.PriorityUrgent
	high := base
	high.Priority = types.PriorityHigh

	assert.InDelta(t, r.Assess(&urgent).Score, r.Assess(&high).Score, 1e-9)
}

func TestRiskLevel_Boundaries(t *testing.T) {
	assert.Equal(t, types.RiskLow, riskLevel(0.0))
	assert.Equal(t, types.RiskLow, riskLevel(0.3))
	assert.Equal(t, types.RiskMedium, riskLevel(0.31))
	assert.Equal(t, types.RiskMedium, riskLevel(0.6))
	assert.Equal(t, types.RiskHigh, riskLevel(0.61))
}

func TestMitigations_SizedToLevel(t *testing.T) {
	high := mitigations(types.RiskHigh)
	medium := mitigations(types.RiskMedium)
	low := mitigations(types.RiskLow)

	require.Len(t, high, 5)
	require.Len(t, medium, 3)
	require.Len(t, low, 2)

	// lower levels are prefixes of higher ones
	assert.Equal(t, high[:3], medium)
	assert.Equal(t, medium[:2], low)
	assert.Equal(t, "additional checkpoints", low[0])
}

func TestRiskAssessor_Deterministic(t *testing.T) {
	r := NewRiskAssessor(nil)
	task := types.Task{
		Industry:   "healthcare",
		Complexity: types.ComplexityComplex,
		Priority:   types.PriorityHigh,
	}

	first := r.Assess(&task)
	for i := 0; i < 50; i++ {
		again := r.Assess(&task)
		assert.Equal(t, first.Score, again.Score)
		assert.Equal(t, first.Level, again.Level)
	}
}
