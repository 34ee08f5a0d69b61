package types

// =============================================================================
// Delegation Decision
// =============================================================================
// The planner's output. A DelegationDecision is created once per delegation
// request and is immutable thereafter; it carries no identity beyond the
// Task.ID it answers.
// =============================================================================

// RiskLevel buckets a composite risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskAssessment is the risk assessor's output: a composite score, its
// named breakdown, and an ordered mitigation list.
type RiskAssessment struct {
	Level       RiskLevel          `json:"level"`
	Score       float64            `json:"score"`
	Factors     map[string]float64 `json:"factors"`
	Mitigations []string           `json:"mitigations"`
}

// Location is where a task's computation physically runs.
type Location string

const (
	LocationEdge   Location = "edge"
	LocationCloud  Location = "cloud"
	LocationHybrid Location = "hybrid"
)

// ExecutionLocation is the location planner's output.
type ExecutionLocation struct {
	Location         Location `json:"location"`
	EdgeScore        int      `json:"edge_score"`
	CloudScore       int      `json:"cloud_score"`
	Reasoning        []string `json:"reasoning"`
	FallbackLocation Location `json:"fallback_location"`
	SyncRequired     bool     `json:"sync_required"`
}

// Topology is the coordination topology for multi-agent tasks. Modeled as
// a tagged variant so peer topologies (ring, mesh) can be added without
// touching callers that only switch on the value.
type Topology string

const (
	TopologySingleAgent   Topology = "single_agent"
	TopologySequential    Topology = "sequential"
	TopologyHierarchical  Topology = "hierarchical"
	TopologyConsensus     Topology = "consensus"
	TopologyCollaborative Topology = "collaborative"
)

// SupervisorRole describes the coordinating agent in a star hierarchy.
type SupervisorRole struct {
	Role             string   `json:"role"`
	Responsibilities []string `json:"responsibilities"`
}

// WorkerRole describes one worker slot in the coordination hierarchy.
type WorkerRole struct {
	Role            string   `json:"role"`
	Index           int      `json:"index"`
	Specializations []string `json:"specializations,omitempty"`
}

// Hierarchy is the supervisor/worker layout of a coordination plan.
type Hierarchy struct {
	Supervisor           SupervisorRole `json:"supervisor"`
	Workers              []WorkerRole   `json:"workers"`
	CommunicationPattern string         `json:"communication_pattern"`
	Frequency            string         `json:"frequency"`
}

// SyncPoint is one named synchronization checkpoint.
type SyncPoint struct {
	Name      string `json:"name"`
	Trigger   string `json:"trigger"`
	Frequency string `json:"frequency,omitempty"`
}

// FailoverStrategy maps failure modes to recovery actions and bounds the
// retry/escalation behavior downstream executors must honor.
type FailoverStrategy struct {
	Strategies     map[string]string `json:"strategies"`
	MaxRetries     int               `json:"max_retries"`
	EscalationPath []string          `json:"escalation_path"`
}

// LoadBalancingWeights are the fixed weights for weighted round-robin
// agent selection.
type LoadBalancingWeights struct {
	Performance         float64 `json:"performance"`
	Availability        float64 `json:"availability"`
	SpecializationMatch float64 `json:"specialization_match"`
	CurrentLoad         float64 `json:"current_load"`
}

// HealthCheckPolicy bounds how agent liveness is probed during execution.
type HealthCheckPolicy struct {
	IntervalSeconds  int `json:"interval_seconds"`
	TimeoutSeconds   int `json:"timeout_seconds"`
	FailureThreshold int `json:"failure_threshold"`
}

// LoadBalancing is the load distribution policy of a coordination plan.
type LoadBalancing struct {
	Strategy                 string                `json:"strategy"`
	Weights                  *LoadBalancingWeights `json:"weights,omitempty"`
	RebalanceIntervalMinutes int                   `json:"rebalance_interval_minutes,omitempty"`
	RebalanceThreshold       float64               `json:"rebalance_threshold,omitempty"`
	Migration                string                `json:"migration,omitempty"`
	HealthCheck              *HealthCheckPolicy    `json:"health_check,omitempty"`
}

// CoordinationPlan governs a task executed by more than one agent.
type CoordinationPlan struct {
	Topology              Topology         `json:"topology"`
	Hierarchy             *Hierarchy       `json:"hierarchy,omitempty"`
	CommunicationProtocol string           `json:"communication_protocol"`
	SynchronizationPoints []SyncPoint      `json:"synchronization_points"`
	Failover              FailoverStrategy `json:"failover_strategy"`
	LoadBalancing         LoadBalancing    `json:"load_balancing"`
}

// AlternativeAgent is a ranked non-selected candidate with the reason it
// lost to the selected agent.
type AlternativeAgent struct {
	Agent  Agent   `json:"agent"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// DelegationDecision is the complete answer to one delegation request.
type DelegationDecision struct {
	TaskID            string             `json:"task_id"`
	SelectedAgent     Agent              `json:"selected_agent"`
	Confidence        float64            `json:"confidence"`
	Reasoning         []string           `json:"reasoning"`
	AlternativeAgents []AlternativeAgent `json:"alternative_agents"`
	Risk              RiskAssessment     `json:"risk"`
	ExecutionLocation ExecutionLocation  `json:"execution_location"`

	// CoordinationPlan is present only when the task requires multiple
	// agents.
	CoordinationPlan *CoordinationPlan `json:"coordination_plan,omitempty"`
}
