package planner

import (
	"github.com/BaSui01/delegateflow/config"
	"github.com/BaSui01/delegateflow/types"
)

// Coordination planning constants.
const (
	// hierarchicalAgentThreshold is the pool size above which a flat
	// topology stops scaling and a hierarchy takes over.
	hierarchicalAgentThreshold = 10

	// scalableAgentThreshold is the pool size above which the
	// communication protocol must favor throughput over immediacy.
	scalableAgentThreshold = 5

	// realTimeLatencyMs is the latency bound under which coordination
	// traffic counts as real-time.
	realTimeLatencyMs = 100

	// defaultWorkerCount sizes the worker pool when the task does not
	// say how many agents it wants.
	defaultWorkerCount = 3

	maxRetriesCritical = 5
	maxRetriesDefault  = 3
)

// Communication protocols, in the decision table's priority order.
const (
	ProtocolWebsocketReliable = "websocket_reliable"
	ProtocolWebsocketStream   = "websocket_stream"
	ProtocolMQTTQoS2          = "mqtt_qos2"
	ProtocolMessageQueue      = "message_queue"
	ProtocolHTTPPolling       = "http_polling"
)

// CoordinationPlanner produces the coordination plan for tasks executed
// by more than one agent.
type CoordinationPlanner struct {
	ref *config.ReferenceTable
}

// NewCoordinationPlanner creates a coordination planner backed by the
// industry reference table.
func NewCoordinationPlanner(ref *config.ReferenceTable) *CoordinationPlanner {
	if ref == nil {
		ref = config.DefaultReferenceTable()
	}
	return &CoordinationPlanner{ref: ref}
}

// Plan builds the full coordination plan: topology, hierarchy, protocol,
// synchronization points, failover strategy, and load balancing policy.
func (p *CoordinationPlanner) Plan(task *types.Task) types.CoordinationPlan {
	topology := p.topology(task)
	agentCount := plannedAgentCount(task)

	plan := types.CoordinationPlan{
		Topology:              topology,
		CommunicationProtocol: p.protocol(task),
		SynchronizationPoints: syncPoints(task.Complexity),
		Failover:              failover(task.SafetyLevel),
		LoadBalancing:         loadBalancing(agentCount),
	}

	if topology != types.TopologySingleAgent {
		plan.Hierarchy = hierarchy(task, agentCount)
	}

	return plan
}

// plannedAgentCount is the agent count the plan is actually laid out for.
// Hierarchy sizing and load balancing must agree on it: a multi-agent task
// without an explicit count gets the default worker pool, so its plan also
// distributes load across that pool.
func plannedAgentCount(task *types.Task) int {
	if !task.RequiresMultipleAgents {
		return 1
	}
	if task.AgentCount < 1 {
		return defaultWorkerCount
	}
	return task.AgentCount
}

// topology selects the coordination topology. Single-agent is a defensive
// branch: the orchestrator only invokes this planner for multi-agent
// tasks, but a plan must still be coherent if called directly.
func (p *CoordinationPlanner) topology(task *types.Task) types.Topology {
	switch {
	case !task.RequiresMultipleAgents:
		return types.TopologySingleAgent
	case task.AgentCount > hierarchicalAgentThreshold:
		return types.TopologyHierarchical
	case task.RequiresConsensus:
		return types.TopologyConsensus
	case task.RequiresOrdered:
		return types.TopologySequential
	default:
		return types.TopologyCollaborative
	}
}

// protocol evaluates the 4-input decision table over real-time, reliable,
// and scalable needs. First match wins.
func (p *CoordinationPlanner) protocol(task *types.Task) string {
	realTime := task.MaxLatencyMs < realTimeLatencyMs
	reliable := task.SafetyLevel == types.SafetyCritical || p.ref.Regulated(task.Industry)
	scalable := task.AgentCount > scalableAgentThreshold

	switch {
	case realTime && reliable:
		return ProtocolWebsocketReliable
	case realTime:
		return ProtocolWebsocketStream
	case reliable:
		return ProtocolMQTTQoS2
	case scalable:
		return ProtocolMessageQueue
	default:
		return ProtocolHTTPPolling
	}
}

// hierarchy lays out a single supervisor with a star-connected worker
// pool. Worker slots carry the task's required capability names so
// downstream executors can staff them.
func hierarchy(task *types.Task, workerCount int) *types.Hierarchy {
	specializations := make([]string, 0, len(task.Requirements))
	for _, req := range task.Requirements {
		specializations = append(specializations, req.Capability)
	}

	workers := make([]types.WorkerRole, workerCount)
	for i := range workers {
		workers[i] = types.WorkerRole{
			Role:            "worker",
			Index:           i + 1,
			Specializations: specializations,
		}
	}

	return &types.Hierarchy{
		Supervisor: types.SupervisorRole{
			Role: "supervisor",
			Responsibilities: []string{
				"task distribution",
				"progress monitoring",
				"conflict resolution",
			},
		},
		Workers:              workers,
		CommunicationPattern: "star",
		Frequency:            "real_time",
	}
}

// syncPoints returns the named, ordered checkpoint list: four for
// critical-complexity tasks, three otherwise.
func syncPoints(c types.Complexity) []types.SyncPoint {
	if c == types.ComplexityCritical {
		return []types.SyncPoint{
			{Name: "initialization", Trigger: "task_start"},
			{Name: "progress_check", Trigger: "progress", Frequency: "every_10_percent"},
			{Name: "quality_gate", Trigger: "progress", Frequency: "every_25_percent"},
			{Name: "completion", Trigger: "task_end"},
		}
	}
	return []types.SyncPoint{
		{Name: "initialization", Trigger: "task_start"},
		{Name: "midpoint_review", Trigger: "progress_50_percent"},
		{Name: "completion", Trigger: "task_end"},
	}
}

// failover returns the fixed failure-mode taxonomy with retry bounds and
// the escalation path downstream executors must honor.
func failover(safety types.SafetyLevel) types.FailoverStrategy {
	maxRetries := maxRetriesDefault
	if safety == types.SafetyCritical {
		maxRetries = maxRetriesCritical
	}

	return types.FailoverStrategy{
		Strategies: map[string]string{
			"primary_agent_failure": "automatic_replacement",
			"communication_failure": "switch_to_backup_protocol",
			"resource_exhaustion":   "scale_up_or_delegate_to_cloud",
			"quality_degradation":   "trigger_human_intervention",
			"timeout":               "progressive_timeout_extension",
		},
		MaxRetries:     maxRetries,
		EscalationPath: []string{"supervisor_agent", "human_operator", "emergency_stop"},
	}
}

// loadBalancing returns the load distribution policy: none for a single
// agent, weighted round-robin with fixed weights otherwise.
func loadBalancing(agentCount int) types.LoadBalancing {
	if agentCount <= 1 {
		return types.LoadBalancing{Strategy: "none"}
	}

	return types.LoadBalancing{
		Strategy: "weighted_round_robin",
		Weights: &types.LoadBalancingWeights{
			Performance:         0.4,
			Availability:        0.3,
			SpecializationMatch: 0.2,
			CurrentLoad:         0.1,
		},
		RebalanceIntervalMinutes: 5,
		RebalanceThreshold:       0.8,
		Migration:                "gradual",
		HealthCheck: &types.HealthCheckPolicy{
			IntervalSeconds:  30,
			TimeoutSeconds:   5,
			FailureThreshold: 3,
		},
	}
}
