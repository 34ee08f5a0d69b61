package catalog

import (
	"context"
	"sort"

	"github.com/BaSui01/delegateflow/types"
)

// Catalog supplies immutable agent snapshots to the planner.
//
// The planner reads one snapshot per delegation call and never mutates
// catalog state; registration, deregistration, and availability updates
// go through the concrete implementation's own methods.
type Catalog interface {
	// Snapshot returns an immutable view of the current catalog
	// contents. Implementations must not mutate a snapshot after
	// returning it.
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Snapshot is an immutable point-in-time view of the catalog.
type Snapshot struct {
	version    uint64
	industries map[string][]types.Agent
}

// NewSnapshot builds a snapshot from per-industry agent lists. The input
// map is copied; later mutation of the source does not leak into the
// snapshot.
func NewSnapshot(version uint64, industries map[string][]types.Agent) *Snapshot {
	copied := make(map[string][]types.Agent, len(industries))
	for industry, agents := range industries {
		list := make([]types.Agent, len(agents))
		copy(list, agents)
		copied[industry] = list
	}
	return &Snapshot{version: version, industries: copied}
}

// Version is a monotonically increasing counter bumped on every catalog
// mutation. Decision caching keys on it so a catalog change invalidates
// cached decisions.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// ByIndustry returns the industry's candidate agents in stable catalog
// order. The returned slice must not be modified.
func (s *Snapshot) ByIndustry(industry string) []types.Agent {
	return s.industries[industry]
}

// Industries returns the industry names with at least one agent, sorted.
func (s *Snapshot) Industries() []string {
	names := make([]string, 0, len(s.industries))
	for name, agents := range s.industries {
		if len(agents) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Size returns the total number of registered agents.
func (s *Snapshot) Size() int {
	n := 0
	for _, agents := range s.industries {
		n += len(agents)
	}
	return n
}
