package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/docloom/docloom/internal/catalog"
	"github.com/docloom/docloom/internal/logging"
)

// AvailableDocument describes a document that already exists in the current
// session. The resolver maps each entry back to a canonical template id (via
// TemplateID when present, falling back to ID) and uses the mapped set as the
// satisfied side of every dependency check. The slice is owned by the caller;
// the resolver never retains it.
type AvailableDocument struct {
	ID         string
	Name       string
	TemplateID string
}

// ValidationResult reports whether a template's prerequisites are satisfied.
// The resolver never fails hard: malformed input degrades to a permissive
// result, and the caller decides how to act on warnings.
type ValidationResult struct {
	Valid               bool
	MissingDependencies []catalog.TemplateDescriptor
	Warnings            []string
	Recommendations     []string
}

// Unresolved names one requested template the topological sort could not
// place, along with the dependency ids that never became satisfiable. A
// non-empty Missing set on a registered descriptor indicates a dependency
// cycle or a prerequisite outside both the request and the available set.
type Unresolved struct {
	Ref     string
	ID      string
	Missing []string
}

// OrderResult is the tagged outcome of GenerationOrder: the order that could
// be computed plus everything that could not be placed. Callers distinguish
// success from partial failure through Complete instead of comparing lengths.
type OrderResult struct {
	Order      []catalog.TemplateDescriptor
	Unresolved []Unresolved
}

// Complete reports whether every requested template was placed in the order.
func (r OrderResult) Complete() bool {
	return len(r.Unresolved) == 0
}

// Option customizes resolver construction.
type Option func(*Resolver)

// WithStrictUnknown makes unresolved template references invalid instead of
// waving them through. The default stays permissive: registry completeness is
// not guaranteed, and failing closed would block every experimental document
// type. Audit-sensitive pipelines opt in to the strict behavior.
func WithStrictUnknown() Option {
	return func(r *Resolver) {
		r.strictUnknown = true
	}
}

// WithLogger attaches a project log so resolution decisions (fuzzy matches,
// unknown references, truncated orders) leave a trace.
func WithLogger(log *logging.Logger) Option {
	return func(r *Resolver) {
		r.log = log
	}
}

// Resolver answers dependency questions against an injected catalog. It is
// stateless per call and safe for concurrent use: every method reads only the
// registry and its own arguments.
type Resolver struct {
	catalog       *catalog.Registry
	strictUnknown bool
	log           *logging.Logger
}

// New constructs a resolver over the provided registry.
func New(reg *catalog.Registry, opts ...Option) (*Resolver, error) {
	if reg == nil {
		return nil, fmt.Errorf("resolver: catalog registry is required")
	}
	r := &Resolver{catalog: reg}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ValidateDependencies resolves templateRef through the catalog's lookup
// chain and checks each of its dependency edges against the available set.
// Unknown references produce a permissive result with a warning unless the
// resolver was built with WithStrictUnknown.
func (r *Resolver) ValidateDependencies(templateRef string, available []AvailableDocument) ValidationResult {
	desc, ok := r.catalog.Resolve(templateRef)
	if !ok {
		r.log.Printf("resolver: template %q not found in catalog", templateRef)
		if r.strictUnknown {
			return ValidationResult{
				Valid:    false,
				Warnings: []string{fmt.Sprintf("template %q is not registered in the catalog (strict mode)", templateRef)},
			}
		}
		return ValidationResult{
			Valid:    true,
			Warnings: []string{fmt.Sprintf("template %q is not registered in the catalog; dependency checking skipped", templateRef)},
		}
	}
	if len(desc.Dependencies) == 0 {
		return ValidationResult{Valid: true}
	}

	satisfied := r.satisfiedSet(available)
	result := ValidationResult{Valid: true}
	var critical, high []string
	for _, dep := range desc.Dependencies {
		if _, done := satisfied[dep]; done {
			continue
		}
		missing, found := r.catalog.Descriptor(dep)
		if !found {
			// Keeps the function total even when the registry skipped
			// validation and carries a dangling edge.
			missing = catalog.TemplateDescriptor{ID: dep, Name: dep, Priority: catalog.PriorityMedium}
		}
		result.Valid = false
		result.MissingDependencies = append(result.MissingDependencies, missing)
		switch missing.Priority {
		case catalog.PriorityCritical:
			critical = append(critical, missing.Name)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("missing critical prerequisite %q; generating %q now will produce a degraded document", missing.Name, desc.Name))
		case catalog.PriorityHigh:
			high = append(high, missing.Name)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("prerequisite %q is not available yet; %q will lack supporting detail", missing.Name, desc.Name))
		}
	}
	if len(critical) > 0 {
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("generate these first: %s", strings.Join(critical, ", ")))
	}
	if len(high) > 0 {
		result.Recommendations = append(result.Recommendations,
			fmt.Sprintf("consider generating %s before %s", strings.Join(high, ", "), desc.Name))
	}
	return result
}

// AvailableTemplates returns the generation frontier: every registered
// template whose prerequisites are satisfied by the available set right now.
func (r *Resolver) AvailableTemplates(available []AvailableDocument) []catalog.TemplateDescriptor {
	var frontier []catalog.TemplateDescriptor
	for _, desc := range r.catalog.Descriptors() {
		if r.ValidateDependencies(desc.ID, available).Valid {
			frontier = append(frontier, desc)
		}
	}
	return frontier
}

// GenerationOrder computes a dependency-safe order for the requested
// templates: every prerequisite precedes its dependents. The sort is the
// iterative frontier scan — each pass collects the requested templates whose
// dependencies are all satisfied, appends them by priority, and marks them
// generated. Requests that never become satisfiable (a cycle, or a
// prerequisite outside both the request and the available set) are reported
// in Unresolved rather than silently dropped.
func (r *Resolver) GenerationOrder(requested []string, available []AvailableDocument) OrderResult {
	satisfied := r.satisfiedSet(available)

	type pendingEntry struct {
		ref  string
		desc catalog.TemplateDescriptor
		pos  int
	}
	var pending []pendingEntry
	seen := map[string]struct{}{}
	var result OrderResult
	for i, ref := range requested {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		desc, ok := r.catalog.Resolve(ref)
		if !ok {
			if r.strictUnknown {
				result.Unresolved = append(result.Unresolved, Unresolved{Ref: ref})
				continue
			}
			// Fail open: an unregistered template has no known
			// prerequisites, so it is free to generate immediately.
			r.log.Printf("resolver: ordering unregistered template %q first", ref)
			desc = catalog.TemplateDescriptor{ID: ref, Name: ref, Priority: catalog.PriorityMedium}
		}
		if _, dup := seen[desc.ID]; dup {
			continue
		}
		seen[desc.ID] = struct{}{}
		if _, done := satisfied[desc.ID]; done {
			continue
		}
		pending = append(pending, pendingEntry{ref: ref, desc: desc, pos: i})
	}

	for len(pending) > 0 {
		var wave []pendingEntry
		var blocked []pendingEntry
		for _, entry := range pending {
			if unmet(entry.desc.Dependencies, satisfied) == nil {
				wave = append(wave, entry)
			} else {
				blocked = append(blocked, entry)
			}
		}
		if len(wave) == 0 {
			break
		}
		sort.SliceStable(wave, func(i, j int) bool {
			ri, rj := wave[i].desc.Priority.Rank(), wave[j].desc.Priority.Rank()
			if ri != rj {
				return ri < rj
			}
			return wave[i].pos < wave[j].pos
		})
		for _, entry := range wave {
			result.Order = append(result.Order, entry.desc)
			satisfied[entry.desc.ID] = struct{}{}
		}
		pending = blocked
	}

	for _, entry := range pending {
		missing := unmet(entry.desc.Dependencies, satisfied)
		r.log.Printf("resolver: cannot place %q, unsatisfied dependencies: %s", entry.desc.ID, strings.Join(missing, ", "))
		result.Unresolved = append(result.Unresolved, Unresolved{
			Ref:     entry.ref,
			ID:      entry.desc.ID,
			Missing: missing,
		})
	}
	return result
}

// satisfiedSet maps every available document to a canonical template id using
// the same resolution chain applied to template references. Entries that
// resolve nowhere are skipped, not errors.
func (r *Resolver) satisfiedSet(available []AvailableDocument) map[string]struct{} {
	satisfied := make(map[string]struct{}, len(available))
	for _, doc := range available {
		ref := doc.TemplateID
		if strings.TrimSpace(ref) == "" {
			ref = doc.ID
		}
		if strings.TrimSpace(ref) == "" {
			continue
		}
		if desc, ok := r.catalog.Resolve(ref); ok {
			satisfied[desc.ID] = struct{}{}
			continue
		}
		// Unknown documents still count under their own id so callers can
		// satisfy dependencies on templates the catalog has never seen.
		satisfied[ref] = struct{}{}
	}
	return satisfied
}

func unmet(deps []string, satisfied map[string]struct{}) []string {
	var missing []string
	for _, dep := range deps {
		if _, ok := satisfied[dep]; !ok {
			missing = append(missing, dep)
		}
	}
	return missing
}
