package planner

import (
	"fmt"
	"strings"

	"github.com/docloom/docloom/internal/catalog"
	"github.com/docloom/docloom/internal/resolver"
)

// Planner turns resolver orderings into generation batches that respect
// dependency order plus runtime constraints such as batch size and the set of
// documents already being generated.
type Planner struct {
	resolver *resolver.Resolver
	catalog  *catalog.Registry
}

// New wires a Planner to a resolver and the registry it resolves against.
func New(res *resolver.Resolver, reg *catalog.Registry) (*Planner, error) {
	if res == nil {
		return nil, fmt.Errorf("planner: resolver is required")
	}
	if reg == nil {
		return nil, fmt.Errorf("planner: catalog registry is required")
	}
	return &Planner{resolver: res, catalog: reg}, nil
}

// Request captures the current generation state plus scheduling constraints.
type Request struct {
	// Targets lists the templates the caller wants generated, in any known
	// reference form. When empty, every catalog template is considered.
	Targets []string
	// Available lists documents that already exist.
	Available []resolver.AvailableDocument
	// BatchSize limits how many templates are returned at once. Values <= 0
	// are treated as "no limit" (subject to MaxParallel enforcement).
	BatchSize int
	// MaxParallel caps how many generations may be active at once, including
	// the entries listed in InFlight. Values <= 0 disable the limit.
	MaxParallel int
	// InFlight lists template ids currently being generated so the planner
	// won't schedule them twice.
	InFlight []string
}

// Batch describes the planner's decision.
type Batch struct {
	Templates []catalog.TemplateDescriptor
	Skipped   map[string]SkipReason
}

// SkipReason explains why a template was excluded from the batch.
type SkipReason struct {
	Reason SkipReasonCode
	Detail string
}

// SkipReasonCode enumerates planner skip reasons.
type SkipReasonCode string

const (
	SkipReasonBlocked     SkipReasonCode = "blocked"
	SkipReasonActive      SkipReasonCode = "already-generating"
	SkipReasonConcurrency SkipReasonCode = "concurrency"
	SkipReasonUnresolved  SkipReasonCode = "unresolved"
)

// Plan returns the next batch of templates whose prerequisites are satisfied
// right now, constrained by the request. Templates further down the order
// whose dependencies are still pending are reported as blocked rather than
// scheduled.
func (p *Planner) Plan(req Request) (Batch, error) {
	order := p.resolver.GenerationOrder(p.targets(req), req.Available)
	batch := Batch{}
	for _, unresolved := range order.Unresolved {
		id := unresolved.ID
		if id == "" {
			id = unresolved.Ref
		}
		detail := "not registered in catalog"
		if len(unresolved.Missing) > 0 {
			detail = fmt.Sprintf("unsatisfiable dependencies: %s", strings.Join(unresolved.Missing, ", "))
		}
		batch.addSkip(id, SkipReason{Reason: SkipReasonUnresolved, Detail: detail})
	}
	inFlight := req.inFlightSet()
	limit := req.batchLimit(len(inFlight))
	satisfied := p.availableIDs(req.Available)
	for _, desc := range order.Order {
		if _, active := inFlight[desc.ID]; active {
			batch.addSkip(desc.ID, SkipReason{Reason: SkipReasonActive, Detail: "generation already in flight"})
			continue
		}
		if missing := firstUnmet(desc.Dependencies, satisfied); missing != "" {
			batch.addSkip(desc.ID, SkipReason{Reason: SkipReasonBlocked, Detail: fmt.Sprintf("waiting on %s", missing)})
			continue
		}
		if limit >= 0 && len(batch.Templates) >= limit {
			batch.addSkip(desc.ID, SkipReason{Reason: SkipReasonConcurrency, Detail: concurrencyDetail(req)})
			continue
		}
		batch.Templates = append(batch.Templates, desc)
	}
	return batch, nil
}

// Waves partitions the full generation order into dependency levels: every
// template in wave n depends only on the available set and waves before n.
// Useful for callers that want the complete execution plan up front.
func (p *Planner) Waves(req Request) ([][]catalog.TemplateDescriptor, error) {
	order := p.resolver.GenerationOrder(p.targets(req), req.Available)
	satisfied := p.availableIDs(req.Available)
	var waves [][]catalog.TemplateDescriptor
	pending := order.Order
	for len(pending) > 0 {
		var wave []catalog.TemplateDescriptor
		var rest []catalog.TemplateDescriptor
		for _, desc := range pending {
			if firstUnmet(desc.Dependencies, satisfied) == "" {
				wave = append(wave, desc)
			} else {
				rest = append(rest, desc)
			}
		}
		if len(wave) == 0 {
			// GenerationOrder only emits placeable templates; this guards
			// against a registry mutated between the two calls.
			return waves, fmt.Errorf("planner: order contains unsatisfiable templates")
		}
		for _, desc := range wave {
			satisfied[desc.ID] = struct{}{}
		}
		waves = append(waves, wave)
		pending = rest
	}
	return waves, nil
}

func (p *Planner) targets(req Request) []string {
	if len(req.Targets) > 0 {
		return req.Targets
	}
	return p.catalog.IDs()
}

// availableIDs maps the available documents to canonical template ids using
// the catalog's resolution chain, mirroring how the resolver seeds its
// satisfied set.
func (p *Planner) availableIDs(available []resolver.AvailableDocument) map[string]struct{} {
	set := make(map[string]struct{}, len(available))
	for _, doc := range available {
		ref := doc.TemplateID
		if ref == "" {
			ref = doc.ID
		}
		if ref == "" {
			continue
		}
		if desc, ok := p.catalog.Resolve(ref); ok {
			set[desc.ID] = struct{}{}
			continue
		}
		set[ref] = struct{}{}
	}
	return set
}

func (req Request) inFlightSet() map[string]struct{} {
	set := make(map[string]struct{}, len(req.InFlight))
	for _, id := range req.InFlight {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

// batchLimit returns the maximum number of templates Plan may emit, or -1 for
// unlimited.
func (req Request) batchLimit(inFlightCount int) int {
	limit := -1
	if req.BatchSize > 0 {
		limit = req.BatchSize
	}
	if req.MaxParallel > 0 {
		remaining := req.MaxParallel - inFlightCount
		if remaining < 0 {
			remaining = 0
		}
		if limit < 0 || remaining < limit {
			limit = remaining
		}
	}
	return limit
}

func (b *Batch) addSkip(id string, reason SkipReason) {
	if id == "" {
		return
	}
	if b.Skipped == nil {
		b.Skipped = make(map[string]SkipReason)
	}
	b.Skipped[id] = reason
}

func firstUnmet(deps []string, satisfied map[string]struct{}) string {
	for _, dep := range deps {
		if _, ok := satisfied[dep]; !ok {
			return dep
		}
	}
	return ""
}

func concurrencyDetail(req Request) string {
	if req.MaxParallel > 0 {
		return fmt.Sprintf("max parallel %d reached", req.MaxParallel)
	}
	return fmt.Sprintf("batch size %d reached", req.BatchSize)
}
