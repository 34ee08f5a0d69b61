package types

// Complexity is the ordinal complexity class of a task.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityMedium   Complexity = "medium"
	ComplexityComplex  Complexity = "complex"
	ComplexityCritical Complexity = "critical"
)

// Valid reports whether c is a known complexity class.
func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex, ComplexityCritical:
		return true
	}
	return false
}

// Priority is the ordinal priority class of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority class.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// SafetyLevel is the ordinal safety classification of a task.
type SafetyLevel string

const (
	SafetyLow      SafetyLevel = "low"
	SafetyMedium   SafetyLevel = "medium"
	SafetyHigh     SafetyLevel = "high"
	SafetyCritical SafetyLevel = "critical"
)

// Valid reports whether s is a known safety level.
func (s SafetyLevel) Valid() bool {
	switch s {
	case SafetyLow, SafetyMedium, SafetyHigh, SafetyCritical:
		return true
	}
	return false
}

// DataSize buckets the volume of data a task moves.
type DataSize string

const (
	DataSmall  DataSize = "small"
	DataMedium DataSize = "medium"
	DataLarge  DataSize = "large"
)

// Valid reports whether d is a known data size bucket.
func (d DataSize) Valid() bool {
	switch d {
	case DataSmall, DataMedium, DataLarge:
		return true
	}
	return false
}

// Requirement is one capability demand of a task. Weight need not be
// normalized across a task's requirement list.
type Requirement struct {
	Capability     string  `json:"capability"`
	MinProficiency float64 `json:"min_proficiency"`
	Weight         float64 `json:"weight"`
}

// Task is a unit of work submitted for delegation.
//
// ID is assigned at intake when the caller leaves it empty. Industry must
// match an entry in the industry reference table; unknown industries are
// rejected during validation rather than silently defaulted.
type Task struct {
	ID           string        `json:"id"`
	Type         string        `json:"type"`
	Industry     string        `json:"industry"`
	Complexity   Complexity    `json:"complexity"`
	Priority     Priority      `json:"priority"`
	Requirements []Requirement `json:"requirements,omitempty"`

	SafetyLevel  SafetyLevel `json:"safety_level"`
	MaxLatencyMs int         `json:"max_latency_ms"`
	DataSize     DataSize    `json:"data_size"`

	// OfflineRequired marks offline capability as a hard constraint for
	// location planning, not a preference.
	OfflineRequired bool `json:"offline_required"`

	// RequiresHuman marks tasks that must keep a human in the loop.
	RequiresHuman bool `json:"requires_human"`

	// RequiresConsensus and RequiresOrdered drive coordination topology
	// selection for multi-agent tasks.
	RequiresConsensus bool `json:"requires_consensus"`
	RequiresOrdered   bool `json:"requires_ordered"`

	RequiresMultipleAgents bool `json:"requires_multiple_agents"`

	// AgentCount is only meaningful when RequiresMultipleAgents is true;
	// it is treated as 1 otherwise.
	AgentCount int `json:"agent_count,omitempty"`
}

// EffectiveAgentCount returns the number of agents the task actually asks
// for: AgentCount when multi-agent is requested, 1 otherwise.
func (t *Task) EffectiveAgentCount() int {
	if !t.RequiresMultipleAgents {
		return 1
	}
	if t.AgentCount < 1 {
		return 1
	}
	return t.AgentCount
}
