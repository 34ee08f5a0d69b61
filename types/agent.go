package types

// AgentType classifies a candidate executor.
type AgentType string

const (
	AgentHuman  AgentType = "human"
	AgentRobot  AgentType = "robot"
	AgentAI     AgentType = "ai_agent"
	AgentHybrid AgentType = "hybrid_system"
)

// Valid reports whether t is a known agent type.
func (t AgentType) Valid() bool {
	switch t {
	case AgentHuman, AgentRobot, AgentAI, AgentHybrid:
		return true
	}
	return false
}

// Agent is a candidate executor of a task.
//
// Agents are immutable snapshots for the duration of one delegation call.
// The catalog owns their lifecycle: registration, deregistration, and
// availability updates happen there, never inside the planner.
type Agent struct {
	ID             string    `json:"id"`
	Name           string    `json:"name,omitempty"`
	Type           AgentType `json:"type"`
	Specialization string    `json:"specialization"`

	// Availability and Performance are historical/estimated values in
	// [0,1] supplied by the catalog.
	Availability float64 `json:"availability"`
	Performance  float64 `json:"performance"`

	// Capabilities maps capability name to proficiency in [0,1]. A
	// capability absent from the map counts as a full miss when scoring
	// against a task requirement.
	Capabilities map[string]float64 `json:"capabilities,omitempty"`
}

// Proficiency returns the agent's proficiency for a capability name,
// or 0 when the capability is not listed.
func (a *Agent) Proficiency(capability string) float64 {
	return a.Capabilities[capability]
}
