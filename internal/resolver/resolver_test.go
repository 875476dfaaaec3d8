package resolver

import (
	"reflect"
	"strings"
	"testing"

	"github.com/docloom/docloom/internal/catalog"
)

// chainRegistry builds the canonical three-node fixture: A has no
// dependencies, B needs A, C needs B.
func chainRegistry(t *testing.T) *catalog.Registry {
	t.Helper()
	reg := catalog.NewRegistry()
	reg.MustRegister(catalog.TemplateDescriptor{ID: "a", Name: "Alpha Charter", Priority: catalog.PriorityCritical})
	reg.MustRegister(catalog.TemplateDescriptor{ID: "b", Name: "Beta Plan", Priority: catalog.PriorityHigh, Dependencies: []string{"a"}})
	reg.MustRegister(catalog.TemplateDescriptor{ID: "c", Name: "Gamma Register", Priority: catalog.PriorityMedium, Dependencies: []string{"b"}})
	reg.MustAlias("Alpha Charter Template", "a")
	if err := reg.Validate(); err != nil {
		t.Fatalf("fixture registry: %v", err)
	}
	return reg
}

func newResolver(t *testing.T, reg *catalog.Registry, opts ...Option) *Resolver {
	t.Helper()
	res, err := New(reg, opts...)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return res
}

func TestValidateNoDependenciesAlwaysValid(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	for _, available := range [][]AvailableDocument{
		nil,
		{},
		{{ID: "x", TemplateID: "c"}},
	} {
		result := res.ValidateDependencies("a", available)
		if !result.Valid {
			t.Fatalf("template without dependencies must be valid, got %+v", result)
		}
		if len(result.MissingDependencies) != 0 {
			t.Fatalf("unexpected missing dependencies: %+v", result.MissingDependencies)
		}
	}
}

func TestValidateSatisfiedDependencies(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	result := res.ValidateDependencies("c", []AvailableDocument{{ID: "doc-1", TemplateID: "b"}})
	if !result.Valid {
		t.Fatalf("expected valid, got %+v", result)
	}
}

func TestValidateMissingDependencyReported(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	result := res.ValidateDependencies("c", []AvailableDocument{{ID: "x", TemplateID: "a"}})
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	if len(result.MissingDependencies) != 1 || result.MissingDependencies[0].ID != "b" {
		t.Fatalf("missing = %+v, want [b]", result.MissingDependencies)
	}
}

func TestValidateCriticalMissSetsBlockingTone(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	result := res.ValidateDependencies("b", nil)
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "critical") {
		t.Fatalf("expected critical warning, got %v", result.Warnings)
	}
	if len(result.Recommendations) == 0 || !strings.Contains(result.Recommendations[0], "generate these first") {
		t.Fatalf("expected generate-first recommendation, got %v", result.Recommendations)
	}
}

func TestValidateHighMissIsAdvisory(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	result := res.ValidateDependencies("c", nil)
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	for _, warning := range result.Warnings {
		if strings.Contains(warning, "critical") {
			t.Fatalf("high-priority miss must not use blocking tone: %v", result.Warnings)
		}
	}
	if len(result.Recommendations) == 0 || !strings.Contains(result.Recommendations[0], "consider generating") {
		t.Fatalf("expected consider-generating recommendation, got %v", result.Recommendations)
	}
}

func TestValidateMediumLowMissesNotWarned(t *testing.T) {
	reg := catalog.NewRegistry()
	reg.MustRegister(catalog.TemplateDescriptor{ID: "notes", Name: "Notes", Priority: catalog.PriorityLow})
	reg.MustRegister(catalog.TemplateDescriptor{ID: "digest", Name: "Digest", Priority: catalog.PriorityMedium, Dependencies: []string{"notes"}})
	res := newResolver(t, reg)
	result := res.ValidateDependencies("digest", nil)
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	if len(result.Warnings) != 0 || len(result.Recommendations) != 0 {
		t.Fatalf("low-priority misses must stay quiet: %+v", result)
	}
	if len(result.MissingDependencies) != 1 || result.MissingDependencies[0].ID != "notes" {
		t.Fatalf("missing = %+v", result.MissingDependencies)
	}
}

func TestValidateUnknownTemplateFailsOpen(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	result := res.ValidateDependencies("totally-unknown-key-xyz", nil)
	if !result.Valid {
		t.Fatalf("unknown template must not block generation: %+v", result)
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "not registered") {
		t.Fatalf("expected not-registered warning, got %v", result.Warnings)
	}
}

func TestValidateUnknownTemplateStrictMode(t *testing.T) {
	res := newResolver(t, chainRegistry(t), WithStrictUnknown())
	result := res.ValidateDependencies("totally-unknown-key-xyz", nil)
	if result.Valid {
		t.Fatalf("strict mode must fail closed: %+v", result)
	}
}

func TestValidateAliasEquivalence(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	available := []AvailableDocument{{ID: "x", TemplateID: "b"}}
	byID := res.ValidateDependencies("a", available)
	byAlias := res.ValidateDependencies("Alpha Charter Template", available)
	if !reflect.DeepEqual(byID, byAlias) {
		t.Fatalf("alias form diverged: %+v vs %+v", byID, byAlias)
	}
}

func TestValidateIdempotent(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	available := []AvailableDocument{{ID: "x", TemplateID: "a"}}
	first := res.ValidateDependencies("c", available)
	second := res.ValidateDependencies("c", available)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different results:\n%+v\n%+v", first, second)
	}
}

func TestValidateResolvesAvailableAliases(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	// The available document references its template by display-name alias.
	result := res.ValidateDependencies("b", []AvailableDocument{{ID: "x", TemplateID: "Alpha Charter Template"}})
	if !result.Valid {
		t.Fatalf("alias-form available document must satisfy the dependency: %+v", result)
	}
}

func TestAvailableTemplatesEmptySetIsRootFrontier(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	frontier := res.AvailableTemplates(nil)
	if len(frontier) != 1 || frontier[0].ID != "a" {
		t.Fatalf("frontier = %+v, want [a]", frontier)
	}
}

func TestAvailableTemplatesAdvancesWithDocuments(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	frontier := res.AvailableTemplates([]AvailableDocument{{ID: "x", TemplateID: "a"}})
	ids := frontierIDs(frontier)
	if !reflect.DeepEqual(ids, []string{"a", "b"}) {
		t.Fatalf("frontier = %v, want [a b]", ids)
	}
}

func TestGenerationOrderChain(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	result := res.GenerationOrder([]string{"c", "b", "a"}, nil)
	if !result.Complete() {
		t.Fatalf("expected complete order, unresolved: %+v", result.Unresolved)
	}
	ids := orderIDs(result)
	if !reflect.DeepEqual(ids, []string{"a", "b", "c"}) {
		t.Fatalf("order = %v, want [a b c]", ids)
	}
}

func TestGenerationOrderInvariant(t *testing.T) {
	reg := catalog.Builtin()
	res := newResolver(t, reg)
	requested := reg.IDs()
	result := res.GenerationOrder(requested, nil)
	if !result.Complete() {
		t.Fatalf("builtin catalog must order completely, unresolved: %+v", result.Unresolved)
	}
	if len(result.Order) != len(requested) {
		t.Fatalf("order has %d entries, want %d", len(result.Order), len(requested))
	}
	placed := map[string]int{}
	for i, desc := range result.Order {
		placed[desc.ID] = i
	}
	for _, desc := range result.Order {
		for _, dep := range desc.Dependencies {
			if placed[dep] >= placed[desc.ID] {
				t.Fatalf("%s placed before its dependency %s", desc.ID, dep)
			}
		}
	}
}

func TestGenerationOrderSkipsAvailable(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	result := res.GenerationOrder([]string{"c", "b", "a"}, []AvailableDocument{{ID: "x", TemplateID: "a"}})
	ids := orderIDs(result)
	if !reflect.DeepEqual(ids, []string{"b", "c"}) {
		t.Fatalf("order = %v, want [b c]", ids)
	}
}

func TestGenerationOrderDeduplicatesAliases(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	result := res.GenerationOrder([]string{"a", "Alpha Charter Template", "b"}, nil)
	ids := orderIDs(result)
	if !reflect.DeepEqual(ids, []string{"a", "b"}) {
		t.Fatalf("order = %v, want [a b]", ids)
	}
}

func TestGenerationOrderPriorityWithinWave(t *testing.T) {
	reg := catalog.NewRegistry()
	reg.MustRegister(catalog.TemplateDescriptor{ID: "minor", Name: "Minor", Priority: catalog.PriorityLow})
	reg.MustRegister(catalog.TemplateDescriptor{ID: "major", Name: "Major", Priority: catalog.PriorityCritical})
	res := newResolver(t, reg)
	result := res.GenerationOrder([]string{"minor", "major"}, nil)
	ids := orderIDs(result)
	if !reflect.DeepEqual(ids, []string{"major", "minor"}) {
		t.Fatalf("critical templates should lead their wave, got %v", ids)
	}
}

func TestGenerationOrderReportsCycle(t *testing.T) {
	reg := catalog.NewRegistry()
	reg.MustRegister(catalog.TemplateDescriptor{ID: "x", Name: "X", Priority: catalog.PriorityLow, Dependencies: []string{"y"}})
	reg.MustRegister(catalog.TemplateDescriptor{ID: "y", Name: "Y", Priority: catalog.PriorityLow, Dependencies: []string{"x"}})
	reg.MustRegister(catalog.TemplateDescriptor{ID: "z", Name: "Z", Priority: catalog.PriorityLow})
	res := newResolver(t, reg)
	result := res.GenerationOrder([]string{"x", "y", "z"}, nil)
	if result.Complete() {
		t.Fatalf("cycle must surface as unresolved")
	}
	if ids := orderIDs(result); !reflect.DeepEqual(ids, []string{"z"}) {
		t.Fatalf("partial order = %v, want [z]", ids)
	}
	if len(result.Unresolved) != 2 {
		t.Fatalf("unresolved = %+v, want x and y", result.Unresolved)
	}
	for _, unresolved := range result.Unresolved {
		if len(unresolved.Missing) == 0 {
			t.Fatalf("unresolved entry must name missing dependencies: %+v", unresolved)
		}
	}
}

func TestGenerationOrderReportsOutOfBatchDependency(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	// b needs a, but a is neither requested nor available.
	result := res.GenerationOrder([]string{"b"}, nil)
	if result.Complete() {
		t.Fatalf("expected unresolved entry")
	}
	if len(result.Unresolved) != 1 || result.Unresolved[0].ID != "b" {
		t.Fatalf("unresolved = %+v", result.Unresolved)
	}
	if !reflect.DeepEqual(result.Unresolved[0].Missing, []string{"a"}) {
		t.Fatalf("missing = %v, want [a]", result.Unresolved[0].Missing)
	}
}

func TestGenerationOrderUnknownRefFailsOpen(t *testing.T) {
	res := newResolver(t, chainRegistry(t))
	result := res.GenerationOrder([]string{"mystery-doc", "a"}, nil)
	if !result.Complete() {
		t.Fatalf("unknown refs must not block the order: %+v", result.Unresolved)
	}
	ids := orderIDs(result)
	if len(ids) != 2 || ids[0] != "a" {
		// a is critical, the synthesized descriptor is medium.
		t.Fatalf("order = %v", ids)
	}
}

func TestGenerationOrderUnknownRefStrictMode(t *testing.T) {
	res := newResolver(t, chainRegistry(t), WithStrictUnknown())
	result := res.GenerationOrder([]string{"mystery-doc", "a"}, nil)
	if result.Complete() {
		t.Fatalf("strict mode must report unknown refs")
	}
	if len(result.Unresolved) != 1 || result.Unresolved[0].Ref != "mystery-doc" {
		t.Fatalf("unresolved = %+v", result.Unresolved)
	}
}

func TestUnknownAvailableDocumentSatisfiesRawID(t *testing.T) {
	reg := catalog.NewRegistry()
	// The dependency points at a template the catalog has never seen; a
	// document carrying that exact id still satisfies it.
	reg.MustRegister(catalog.TemplateDescriptor{ID: "report", Name: "Weekly Report", Priority: catalog.PriorityLow, Dependencies: []string{"external-notes"}})
	res := newResolver(t, reg)
	result := res.ValidateDependencies("report", []AvailableDocument{{ID: "external-notes"}})
	if !result.Valid {
		t.Fatalf("raw-id available document should satisfy the edge: %+v", result)
	}
}

func frontierIDs(descriptors []catalog.TemplateDescriptor) []string {
	ids := make([]string, 0, len(descriptors))
	for _, desc := range descriptors {
		ids = append(ids, desc.ID)
	}
	return ids
}

func orderIDs(result OrderResult) []string {
	ids := make([]string, 0, len(result.Order))
	for _, desc := range result.Order {
		ids = append(ids, desc.ID)
	}
	return ids
}
