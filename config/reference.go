package config

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Industry Reference Tables
// =============================================================================
// Per-industry compliance and safety reference data. The planner consults
// this table instead of switching on industry strings, so adding an industry
// is a configuration change, not a code change.
// =============================================================================

// IndustryReference is the reference entry for one industry.
type IndustryReference struct {
	// RiskWeight is the industry's contribution to composite task risk.
	RiskWeight float64 `yaml:"risk_weight" json:"risk_weight"`

	// Regulated marks industries whose coordination traffic needs
	// reliable delivery (e.g. healthcare, financial).
	Regulated bool `yaml:"regulated" json:"regulated"`

	// ComplianceFrameworks names the regulatory frameworks that apply.
	ComplianceFrameworks []string `yaml:"compliance_frameworks" json:"compliance_frameworks"`

	// SafetyConsiderations lists safety notes surfaced to operators.
	SafetyConsiderations []string `yaml:"safety_considerations" json:"safety_considerations"`
}

// ReferenceTable maps industry name to its reference entry. Lookups are
// safe for concurrent use; mutation happens only through Replace.
type ReferenceTable struct {
	mu      sync.RWMutex
	entries map[string]IndustryReference
}

// NewReferenceTable builds a table from the given entries.
func NewReferenceTable(entries map[string]IndustryReference) *ReferenceTable {
	if entries == nil {
		entries = make(map[string]IndustryReference)
	}
	return &ReferenceTable{entries: entries}
}

// Lookup returns the reference entry for an industry.
func (t *ReferenceTable) Lookup(industry string) (IndustryReference, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ref, ok := t.entries[industry]
	return ref, ok
}

// Known reports whether the industry is registered.
func (t *ReferenceTable) Known(industry string) bool {
	_, ok := t.Lookup(industry)
	return ok
}

// RiskWeight returns the industry risk contribution, falling back to the
// baseline weight for industries without an explicit entry.
func (t *ReferenceTable) RiskWeight(industry string) float64 {
	if ref, ok := t.Lookup(industry); ok && ref.RiskWeight > 0 {
		return ref.RiskWeight
	}
	return BaselineIndustryRisk
}

// Regulated reports whether the industry requires reliable coordination
// delivery.
func (t *ReferenceTable) Regulated(industry string) bool {
	ref, ok := t.Lookup(industry)
	return ok && ref.Regulated
}

// Industries returns the registered industry names in sorted order.
func (t *ReferenceTable) Industries() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Replace swaps the table contents. Used by the file watcher on reload.
func (t *ReferenceTable) Replace(entries map[string]IndustryReference) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = entries
}

// ReloadFile re-reads the table from a YAML file in place. The previous
// contents survive a failed reload.
func (t *ReferenceTable) ReloadFile(path string) error {
	loaded, err := LoadReferenceTable(path)
	if err != nil {
		return err
	}
	loaded.mu.RLock()
	entries := loaded.entries
	loaded.mu.RUnlock()
	t.Replace(entries)
	return nil
}

// BaselineIndustryRisk is the industry risk contribution for industries
// without an explicit risk weight.
const BaselineIndustryRisk = 0.1

// LoadReferenceTable reads a reference table from a YAML file, or returns
// the built-in defaults when path is empty.
func LoadReferenceTable(path string) (*ReferenceTable, error) {
	if path == "" {
		return DefaultReferenceTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference table: %w", err)
	}

	var entries map[string]IndustryReference
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse reference table: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("reference table %s defines no industries", path)
	}

	return NewReferenceTable(entries), nil
}

// DefaultReferenceTable returns the built-in industry reference data.
func DefaultReferenceTable() *ReferenceTable {
	return NewReferenceTable(map[string]IndustryReference{
		"healthcare": {
			RiskWeight:           0.25,
			Regulated:            true,
			ComplianceFrameworks: []string{"HIPAA", "FDA 21 CFR Part 11", "HITECH"},
			SafetyConsiderations: []string{
				"patient safety checks before automated action",
				"clinician review for critical decisions",
			},
		},
		"financial": {
			RiskWeight:           0.2,
			Regulated:            true,
			ComplianceFrameworks: []string{"SOX", "PCI-DSS", "Basel III"},
			SafetyConsiderations: []string{
				"transaction audit trail retention",
				"dual control for high-value operations",
			},
		},
		"manufacturing": {
			RiskWeight:           0.1,
			ComplianceFrameworks: []string{"ISO 9001", "IEC 61508"},
			SafetyConsiderations: []string{
				"lockout/tagout around robotic cells",
				"emergency stop reachability",
			},
		},
		"retail": {
			RiskWeight:           0.1,
			ComplianceFrameworks: []string{"PCI-DSS", "GDPR"},
			SafetyConsiderations: []string{"customer data minimization"},
		},
		"education": {
			RiskWeight:           0.1,
			ComplianceFrameworks: []string{"FERPA", "COPPA"},
			SafetyConsiderations: []string{"minor data protection"},
		},
		"logistics": {
			RiskWeight:           0.1,
			ComplianceFrameworks: []string{"DOT", "IATA DGR"},
			SafetyConsiderations: []string{"vehicle operation clearances"},
		},
	})
}
