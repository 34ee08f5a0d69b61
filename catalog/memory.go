package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/BaSui01/delegateflow/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// MemoryCatalog is the default in-memory Catalog implementation.
//
// Agents are kept in per-industry slices in registration order, which is
// the catalog order the scorer's tie-break depends on. Every mutation
// bumps the version counter so snapshots (and cached decisions keyed on
// them) can tell catalog states apart.
type MemoryCatalog struct {
	mu         sync.RWMutex
	version    uint64
	industries map[string][]types.Agent
	byID       map[string]string // agent ID -> industry
	logger     *zap.Logger
}

// NewMemoryCatalog creates an empty in-memory catalog.
func NewMemoryCatalog(logger *zap.Logger) *MemoryCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryCatalog{
		industries: make(map[string][]types.Agent),
		byID:       make(map[string]string),
		logger:     logger.With(zap.String("component", "catalog")),
	}
}

// Snapshot returns an immutable view of the current catalog contents.
func (c *MemoryCatalog) Snapshot(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return NewSnapshot(c.version, c.industries), nil
}

// Register adds an agent to an industry pool. Registering an existing
// agent ID fails; use UpdateAvailability for availability changes.
func (c *MemoryCatalog) Register(ctx context.Context, industry string, agent types.Agent) error {
	if agent.ID == "" {
		return types.NewValidationError("id", "agent id is required")
	}
	if !agent.Type.Valid() {
		return types.NewValidationError("type", fmt.Sprintf("unknown agent type %q", agent.Type))
	}
	if industry == "" {
		return types.NewValidationError("industry", "industry is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[agent.ID]; exists {
		return types.NewError(types.ErrAgentExists,
			fmt.Sprintf("agent %q is already registered", agent.ID))
	}

	c.industries[industry] = append(c.industries[industry], agent)
	c.byID[agent.ID] = industry
	c.version++

	c.logger.Info("agent registered",
		zap.String("agent_id", agent.ID),
		zap.String("industry", industry),
		zap.Uint64("version", c.version),
	)
	return nil
}

// Deregister removes an agent from the catalog.
func (c *MemoryCatalog) Deregister(ctx context.Context, agentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	industry, ok := c.byID[agentID]
	if !ok {
		return types.NewError(types.ErrAgentNotFound,
			fmt.Sprintf("agent %q is not registered", agentID))
	}

	agents := c.industries[industry]
	for i, a := range agents {
		if a.ID == agentID {
			c.industries[industry] = append(agents[:i], agents[i+1:]...)
			break
		}
	}
	delete(c.byID, agentID)
	c.version++

	c.logger.Info("agent deregistered",
		zap.String("agent_id", agentID),
		zap.String("industry", industry),
		zap.Uint64("version", c.version),
	)
	return nil
}

// UpdateAvailability sets an agent's availability estimate in place.
func (c *MemoryCatalog) UpdateAvailability(ctx context.Context, agentID string, availability float64) error {
	if availability < 0 || availability > 1 {
		return types.NewValidationError("availability", "availability must be in [0,1]")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	industry, ok := c.byID[agentID]
	if !ok {
		return types.NewError(types.ErrAgentNotFound,
			fmt.Sprintf("agent %q is not registered", agentID))
	}

	agents := c.industries[industry]
	for i := range agents {
		if agents[i].ID == agentID {
			agents[i].Availability = availability
			break
		}
	}
	c.version++
	return nil
}

// Get returns a registered agent and its industry.
func (c *MemoryCatalog) Get(ctx context.Context, agentID string) (types.Agent, string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	industry, ok := c.byID[agentID]
	if !ok {
		return types.Agent{}, "", types.NewError(types.ErrAgentNotFound,
			fmt.Sprintf("agent %q is not registered", agentID))
	}
	for _, a := range c.industries[industry] {
		if a.ID == agentID {
			return a, industry, nil
		}
	}
	return types.Agent{}, "", types.NewError(types.ErrAgentNotFound,
		fmt.Sprintf("agent %q is not registered", agentID))
}

// =============================================================================
// File loading
// =============================================================================

// catalogFile is the YAML catalog file layout: per-industry agent lists.
type catalogFile struct {
	Industries map[string][]types.Agent `yaml:"industries"`
}

// LoadFile replaces the catalog contents from a YAML catalog file. List
// order in the file becomes catalog order.
func (c *MemoryCatalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse catalog file: %w", err)
	}

	byID := make(map[string]string)
	for industry, agents := range file.Industries {
		for _, agent := range agents {
			if agent.ID == "" {
				return fmt.Errorf("catalog file %s: agent without id in industry %q", path, industry)
			}
			if !agent.Type.Valid() {
				return fmt.Errorf("catalog file %s: agent %q has unknown type %q", path, agent.ID, agent.Type)
			}
			if prev, dup := byID[agent.ID]; dup {
				return fmt.Errorf("catalog file %s: agent %q appears in both %q and %q", path, agent.ID, prev, industry)
			}
			byID[agent.ID] = industry
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.industries = file.Industries
	if c.industries == nil {
		c.industries = make(map[string][]types.Agent)
	}
	c.byID = byID
	c.version++

	c.logger.Info("catalog loaded from file",
		zap.String("path", path),
		zap.Int("agents", len(byID)),
		zap.Uint64("version", c.version),
	)
	return nil
}
