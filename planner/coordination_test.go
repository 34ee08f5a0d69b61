package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/delegateflow/types"
)

func multiAgentTask(agentCount int) types.Task {
	return types.Task{
		Industry:               "logistics",
		Complexity:             types.ComplexityMedium,
		MaxLatencyMs:           5000,
		RequiresMultipleAgents: true,
		AgentCount:             agentCount,
	}
}

func TestCoordinationPlanner_Topology(t *testing.T) {
	p := NewCoordinationPlanner(nil)

	tests := []struct {
		name string
		task types.Task
		want types.Topology
	}{
		{
			name: "single agent when multi-agent flag is off",
			task: types.Task{RequiresMultipleAgents: false},
			want: types.TopologySingleAgent,
		},
		{
			name: "large pools go hierarchical",
			task: multiAgentTask(11),
			want: types.TopologyHierarchical,
		},
		{
			name: "consensus requirement wins below the hierarchy threshold",
			task: func() types.Task {
				task := multiAgentTask(4)
				task.RequiresConsensus = true
				return task
			}(),
			want: types.TopologyConsensus,
		},
		{
			name: "ordered execution yields sequential",
			task: func() types.Task {
				task := multiAgentTask(4)
				task.RequiresOrdered = true
				return task
			}(),
			want: types.TopologySequential,
		},
		{
			name: "default is collaborative",
			task: multiAgentTask(4),
			want: types.TopologyCollaborative,
		},
		{
			name: "hierarchy threshold is exclusive",
			task: multiAgentTask(10),
			want: types.TopologyCollaborative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.topology(&tt.task))
		})
	}
}

func TestCoordinationPlanner_Protocol(t *testing.T) {
	p := NewCoordinationPlanner(nil)

	tests := []struct {
		name string
		task types.Task
		want string
	}{
		{
			name: "real-time and reliable",
			task: types.Task{Industry: "logistics", MaxLatencyMs: 50, SafetyLevel: types.SafetyCritical},
			want: ProtocolWebsocketReliable,
		},
		{
			name: "regulated industry counts as reliable",
			task: types.Task{Industry: "healthcare", MaxLatencyMs: 50},
			want: ProtocolWebsocketReliable,
		},
		{
			name: "real-time only",
			task: types.Task{Industry: "logistics", MaxLatencyMs: 50},
			want: ProtocolWebsocketStream,
		},
		{
			name: "reliable only",
			task: types.Task{Industry: "financial", MaxLatencyMs: 5000},
			want: ProtocolMQTTQoS2,
		},
		{
			name: "scalable only",
			task: types.Task{Industry: "logistics", MaxLatencyMs: 5000, AgentCount: 6},
			want: ProtocolMessageQueue,
		},
		{
			name: "scalable threshold is exclusive",
			task: types.Task{Industry: "logistics", MaxLatencyMs: 5000, AgentCount: 5},
			want: ProtocolHTTPPolling,
		},
		{
			name: "default is polling",
			task: types.Task{Industry: "logistics", MaxLatencyMs: 5000},
			want: ProtocolHTTPPolling,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.protocol(&tt.task))
		})
	}
}

func TestCoordinationPlanner_Hierarchy(t *testing.T) {
	p := NewCoordinationPlanner(nil)
	task := multiAgentTask(4)
	task.Requirements = []types.Requirement{
		{Capability: "route_planning", Weight: 1},
		{Capability: "load_optimization", Weight: 1},
	}

	plan := p.Plan(&task)
	require.NotNil(t, plan.Hierarchy)

	assert.Equal(t, "supervisor", plan.Hierarchy.Supervisor.Role)
	assert.Len(t, plan.Hierarchy.Supervisor.Responsibilities, 3)
	assert.Len(t, plan.Hierarchy.Workers, 4)
	assert.Equal(t, "star", plan.Hierarchy.CommunicationPattern)
	for i, w := range plan.Hierarchy.Workers {
		assert.Equal(t, i+1, w.Index)
		assert.Equal(t, []string{"route_planning", "load_optimization"}, w.Specializations)
	}
}

func TestCoordinationPlanner_HierarchyDefaultsWorkerCount(t *testing.T) {
	p := NewCoordinationPlanner(nil)
	task := multiAgentTask(0)

	plan := p.Plan(&task)
	require.NotNil(t, plan.Hierarchy)
	assert.Len(t, plan.Hierarchy.Workers, defaultWorkerCount)

	// the plan must distribute load across the defaulted pool, not
	// fall back to single-agent "none"
	assert.Equal(t, "weighted_round_robin", plan.LoadBalancing.Strategy)
	require.NotNil(t, plan.LoadBalancing.Weights)
}

func TestPlannedAgentCount(t *testing.T) {
	tests := []struct {
		name string
		task types.Task
		want int
	}{
		{name: "single agent", task: types.Task{}, want: 1},
		{name: "multi agent explicit", task: types.Task{RequiresMultipleAgents: true, AgentCount: 7}, want: 7},
		{name: "multi agent unset defaults to pool size", task: types.Task{RequiresMultipleAgents: true}, want: defaultWorkerCount},
		{name: "multi agent negative defaults to pool size", task: types.Task{RequiresMultipleAgents: true, AgentCount: -2}, want: defaultWorkerCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plannedAgentCount(&tt.task))
		})
	}
}

func TestSyncPoints(t *testing.T) {
	critical := syncPoints(types.ComplexityCritical)
	require.Len(t, critical, 4)
	assert.Equal(t, "initialization", critical[0].Name)
	assert.Equal(t, "progress_check", critical[1].Name)
	assert.Equal(t, "every_10_percent", critical[1].Frequency)
	assert.Equal(t, "quality_gate", critical[2].Name)
	assert.Equal(t, "completion", critical[3].Name)

	standard := syncPoints(types.ComplexityMedium)
	require.Len(t, standard, 3)
	assert.Equal(t, "midpoint_review", standard[1].Name)
}

func TestFailover(t *testing.T) {
	critical := failover(types.SafetyCritical)
	assert.Equal(t, maxRetriesCritical, critical.MaxRetries)
	assert.Equal(t, []string{"supervisor_agent", "human_operator", "emergency_stop"}, critical.EscalationPath)
	assert.Equal(t, "automatic_replacement", critical.Strategies["primary_agent_failure"])
	assert.Len(t, critical.Strategies, 5)

	standard := failover(types.SafetyLow)
	assert.Equal(t, maxRetriesDefault, standard.MaxRetries)
}

func TestLoadBalancing(t *testing.T) {
	single := loadBalancing(1)
	assert.Equal(t, "none", single.Strategy)
	assert.Nil(t, single.Weights)

	multi := loadBalancing(4)
	assert.Equal(t, "weighted_round_robin", multi.Strategy)
	require.NotNil(t, multi.Weights)
	assert.InDelta(t, 0.4, multi.Weights.Performance, 1e-9)
	assert.InDelta(t, 0.3, multi.Weights.Availability, 1e-9)
	assert.InDelta(t, 0.2, multi.Weights.SpecializationMatch, 1e-9)
	assert.InDelta(t, 0.1, multi.Weights.CurrentLoad, 1e-9)
	assert.Equal(t, 5, multi.RebalanceIntervalMinutes)
	assert.InDelta(t, 0.8, multi.RebalanceThreshold, 1e-9)
	assert.Equal(t, "gradual", multi.Migration)
	require.NotNil(t, multi.HealthCheck)
	assert.Equal(t, 30, multi.HealthCheck.IntervalSeconds)
	assert.Equal(t, 5, multi.HealthCheck.TimeoutSeconds)
	assert.Equal(t, 3, multi.HealthCheck.FailureThreshold)
}
