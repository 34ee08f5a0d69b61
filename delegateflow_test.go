package delegateflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/delegateflow/types"
)

func TestNew_DelegatesAgainstRegisteredAgents(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	err = p.Catalog.Register(context.Background(), "retail", types.Agent{
		ID:             "inventory-bot",
		Name:           "Inventory Bot",
		Type:           types.AgentAI,
		Capabilities:   map[string]float64{"forecasting": 0.9},
		Availability:   0.95,
		Performance:    0.85,
		Specialization: "retail",
	})
	require.NoError(t, err)

	decision, err := p.Delegate(context.Background(), &types.Task{
		ID:         "task-1",
		Type:       "demand_forecast",
		Industry:   "retail",
		Complexity: types.ComplexityMedium,
		Priority:   types.PriorityMedium,
		Requirements: []types.Requirement{
			{Capability: "forecasting", Weight: 1.0},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "inventory-bot", decision.SelectedAgent.ID)
}

func TestNew_UnknownIndustryRejected(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	_, err = p.Delegate(context.Background(), &types.Task{
		ID:         "task-1",
		Type:       "demand_forecast",
		Industry:   "astrology",
		Complexity: types.ComplexityMedium,
		Priority:   types.PriorityMedium,
	})
	require.Error(t, err)
}

func TestWithReferenceTable(t *testing.T) {
	p, err := New(WithReferenceTable(nil))
	require.Error(t, err)
	assert.Nil(t, p)
}
