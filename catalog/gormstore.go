package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/BaSui01/delegateflow/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// =============================================================================
// Durable agent registry
// =============================================================================
// The planner itself never touches this store; it exists so an in-memory
// catalog can survive restarts. The contract is deliberately minimal:
// save, delete, list.
// =============================================================================

// agentRecord is the persisted form of a registered agent.
type agentRecord struct {
	ID             string  `gorm:"primaryKey;size:128"`
	Industry       string  `gorm:"index;size:64;not null"`
	Name           string  `gorm:"size:256"`
	Type           string  `gorm:"size:32;not null"`
	Specialization string  `gorm:"size:128"`
	Availability   float64 `gorm:"not null"`
	Performance    float64 `gorm:"not null"`
	// Capabilities is the proficiency map serialized as JSON.
	Capabilities string `gorm:"type:text"`
	// Seq preserves registration order within an industry.
	Seq int64 `gorm:"autoIncrement;uniqueIndex"`
}

// TableName keeps the table name stable across gorm naming strategies.
func (agentRecord) TableName() string { return "agents" }

// Store is a gorm-backed durable agent registry.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a store and migrates its schema.
func NewStore(db *gorm.DB, logger *zap.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := db.AutoMigrate(&agentRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate agent registry schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger.With(zap.String("component", "catalog_store")),
	}, nil
}

// SaveAgent inserts or updates an agent registration.
func (s *Store) SaveAgent(ctx context.Context, industry string, agent types.Agent) error {
	caps, err := json.Marshal(agent.Capabilities)
	if err != nil {
		return fmt.Errorf("failed to serialize capabilities: %w", err)
	}

	// update first so Seq keeps its original registration order,
	// create on miss
	updates := map[string]any{
		"industry":       industry,
		"name":           agent.Name,
		"type":           string(agent.Type),
		"specialization": agent.Specialization,
		"availability":   agent.Availability,
		"performance":    agent.Performance,
		"capabilities":   string(caps),
	}
	result := s.db.WithContext(ctx).Model(&agentRecord{}).Where("id = ?", agent.ID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to save agent %q: %w", agent.ID, result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	rec := agentRecord{
		ID:             agent.ID,
		Industry:       industry,
		Name:           agent.Name,
		Type:           string(agent.Type),
		Specialization: agent.Specialization,
		Availability:   agent.Availability,
		Performance:    agent.Performance,
		Capabilities:   string(caps),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save agent %q: %w", agent.ID, err)
	}
	return nil
}

// DeleteAgent removes an agent registration.
func (s *Store) DeleteAgent(ctx context.Context, agentID string) error {
	result := s.db.WithContext(ctx).Delete(&agentRecord{}, "id = ?", agentID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete agent %q: %w", agentID, result.Error)
	}
	if result.RowsAffected == 0 {
		return types.NewError(types.ErrAgentNotFound,
			fmt.Sprintf("agent %q is not registered", agentID))
	}
	return nil
}

// ListAgents returns all registrations grouped by industry, in
// registration order.
func (s *Store) ListAgents(ctx context.Context) (map[string][]types.Agent, error) {
	var records []agentRecord
	if err := s.db.WithContext(ctx).Order("seq asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}

	industries := make(map[string][]types.Agent)
	for _, rec := range records {
		var caps map[string]float64
		if rec.Capabilities != "" {
			if err := json.Unmarshal([]byte(rec.Capabilities), &caps); err != nil {
				return nil, fmt.Errorf("corrupt capabilities for agent %q: %w", rec.ID, err)
			}
		}
		industries[rec.Industry] = append(industries[rec.Industry], types.Agent{
			ID:             rec.ID,
			Name:           rec.Name,
			Type:           types.AgentType(rec.Type),
			Specialization: rec.Specialization,
			Availability:   rec.Availability,
			Performance:    rec.Performance,
			Capabilities:   caps,
		})
	}
	return industries, nil
}

// Restore loads all persisted registrations into a memory catalog.
func (s *Store) Restore(ctx context.Context, cat *MemoryCatalog) error {
	industries, err := s.ListAgents(ctx)
	if err != nil {
		return err
	}

	count := 0
	skipped := 0
	for industry, agents := range industries {
		for _, agent := range agents {
			// agents already present (catalog file, earlier restore) win
			if _, _, err := cat.Get(ctx, agent.ID); err == nil {
				skipped++
				continue
			}
			if err := cat.Register(ctx, industry, agent); err != nil {
				return fmt.Errorf("failed to restore agent %q: %w", agent.ID, err)
			}
			count++
		}
	}

	s.logger.Info("catalog restored from store",
		zap.Int("agents", count),
		zap.Int("skipped", skipped),
	)
	return nil
}
