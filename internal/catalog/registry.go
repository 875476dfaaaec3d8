package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maintains the known template descriptors plus the alias table that
// maps alternate string forms (slugs, display names, legacy storage ids) to
// canonical descriptor ids. Construct one explicitly and pass it by reference;
// there is no package-level instance, so tests can build alternate catalogs.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]TemplateDescriptor
	aliases     map[string]string
	order       []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: map[string]TemplateDescriptor{},
		aliases:     map[string]string{},
	}
}

// Register installs a descriptor. Returns an error if the id already exists
// or collides with a registered alias.
func (r *Registry) Register(desc TemplateDescriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descriptors[desc.ID]; exists {
		return fmt.Errorf("catalog: %s already registered", desc.ID)
	}
	if target, exists := r.aliases[desc.ID]; exists {
		return fmt.Errorf("catalog: %s already aliased to %s", desc.ID, target)
	}
	r.descriptors[desc.ID] = desc.Clone()
	r.order = append(r.order, desc.ID)
	return nil
}

// MustRegister panics if registration fails. Used by the builtin table where
// a failure is a programming error.
func (r *Registry) MustRegister(desc TemplateDescriptor) {
	if err := r.Register(desc); err != nil {
		panic(err)
	}
}

// Alias maps an alternate key to a canonical descriptor id. Multiple aliases
// may target the same descriptor. The target does not have to be registered
// yet, so catalogs can declare aliases in any order; Validate catches targets
// that never materialize.
func (r *Registry) Alias(alias, canonicalID string) error {
	alias = strings.TrimSpace(alias)
	canonicalID = strings.TrimSpace(canonicalID)
	if alias == "" || canonicalID == "" {
		return fmt.Errorf("catalog: alias and target are both required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descriptors[alias]; exists {
		return fmt.Errorf("catalog: alias %s collides with a descriptor id", alias)
	}
	if existing, exists := r.aliases[alias]; exists && existing != canonicalID {
		return fmt.Errorf("catalog: alias %s already targets %s", alias, existing)
	}
	r.aliases[alias] = canonicalID
	return nil
}

// MustAlias panics if alias registration fails.
func (r *Registry) MustAlias(alias, canonicalID string) {
	if err := r.Alias(alias, canonicalID); err != nil {
		panic(err)
	}
}

// Descriptor retrieves a descriptor by canonical id only. Use Resolve for the
// full alias-aware lookup chain.
func (r *Registry) Descriptor(id string) (TemplateDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.descriptors[id]
	if !ok {
		return TemplateDescriptor{}, false
	}
	return desc.Clone(), true
}

// Descriptors returns every registered descriptor in registration order.
func (r *Registry) Descriptors() []TemplateDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TemplateDescriptor, 0, len(r.order))
	for _, id := range r.order {
		if desc, ok := r.descriptors[id]; ok {
			out = append(out, desc.Clone())
		}
	}
	return out
}

// IDs returns a sorted list of registered canonical ids.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports how many descriptors are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}

// CanonicalID translates an alias into its canonical descriptor id.
func (r *Registry) CanonicalID(alias string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.aliases[alias]
	return id, ok
}

// AliasesFor returns every alias targeting the given canonical id, sorted.
func (r *Registry) AliasesFor(canonicalID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for alias, target := range r.aliases {
		if target == canonicalID {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// Validate checks catalog-wide consistency: every dependency edge and alias
// target must point at a registered descriptor, and the dependency graph must
// be acyclic. Catalog authoring mistakes surface here instead of as silently
// truncated generation orders later.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for alias, target := range r.aliases {
		if _, ok := r.descriptors[target]; !ok {
			return fmt.Errorf("catalog: alias %s targets unknown descriptor %s", alias, target)
		}
	}
	for _, desc := range r.descriptors {
		for _, dep := range desc.Dependencies {
			if _, ok := r.descriptors[dep]; !ok {
				return fmt.Errorf("catalog: %s depends on unknown descriptor %s", desc.ID, dep)
			}
		}
	}
	return r.checkAcyclic()
}

func (r *Registry) checkAcyclic() error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(r.descriptors))
	var visit func(id string, trail []string) error
	visit = func(id string, trail []string) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("catalog: dependency cycle: %s", strings.Join(append(trail, id), " -> "))
		}
		state[id] = visiting
		for _, dep := range r.descriptors[id].Dependencies {
			if err := visit(dep, append(trail, id)); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for _, id := range r.order {
		if err := visit(id, nil); err != nil {
			return err
		}
	}
	return nil
}
