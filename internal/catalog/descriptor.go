package catalog

import (
	"fmt"
	"strings"
)

// Priority ranks how important a template is relative to its peers. The
// resolver uses it to decide how loudly a missing prerequisite should be
// reported.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank returns a sortable ordinal where lower means more important.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Validate ensures the priority is one of the known levels.
func (p Priority) Validate() error {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return nil
	default:
		return fmt.Errorf("catalog: unknown priority %q", string(p))
	}
}

// TemplateDescriptor declares one generatable document type: its identity,
// its place in the standards framework, and the canonical ids of the
// templates that should exist before it is generated.
type TemplateDescriptor struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Category        string   `yaml:"category,omitempty"`
	Priority        Priority `yaml:"priority"`
	KnowledgeArea   string   `yaml:"knowledge_area,omitempty"`
	Dependencies    []string `yaml:"dependencies,omitempty"`
	Description     string   `yaml:"description,omitempty"`
	EstimatedEffort string   `yaml:"estimated_effort,omitempty"`
}

// Validate ensures the descriptor is well-formed. Dependency edges are only
// checked for shape here; Registry.Validate verifies they point at registered
// descriptors.
func (d TemplateDescriptor) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("catalog: descriptor id is required")
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("catalog: descriptor %s: name is required", d.ID)
	}
	if err := d.Priority.Validate(); err != nil {
		return fmt.Errorf("catalog: descriptor %s: %w", d.ID, err)
	}
	for _, dep := range d.Dependencies {
		if strings.TrimSpace(dep) == "" {
			return fmt.Errorf("catalog: descriptor %s: empty dependency id", d.ID)
		}
		if dep == d.ID {
			return fmt.Errorf("catalog: descriptor %s depends on itself", d.ID)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can hold descriptors without sharing
// the dependency slice.
func (d TemplateDescriptor) Clone() TemplateDescriptor {
	clone := d
	if len(d.Dependencies) > 0 {
		clone.Dependencies = make([]string, len(d.Dependencies))
		copy(clone.Dependencies, d.Dependencies)
	}
	return clone
}
