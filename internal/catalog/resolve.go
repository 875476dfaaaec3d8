package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// strategy attempts to translate one reference form into a descriptor.
// Strategies are tried in a fixed order, cheapest and most exact first, and
// the first hit wins.
type strategy func(r *Registry, ref string) (TemplateDescriptor, bool)

var resolutionChain = []strategy{
	resolveExact,
	resolveAlias,
	resolveReverseAlias,
	resolveFuzzy,
}

// Resolve translates any known reference form (canonical id, alias, display
// name, or near-miss spelling) into a registered descriptor. It reports false
// only when every strategy misses.
func (r *Registry) Resolve(ref string) (TemplateDescriptor, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return TemplateDescriptor{}, false
	}
	for _, try := range resolutionChain {
		if desc, ok := try(r, ref); ok {
			return desc, true
		}
	}
	return TemplateDescriptor{}, false
}

func resolveExact(r *Registry, ref string) (TemplateDescriptor, bool) {
	return r.Descriptor(ref)
}

func resolveAlias(r *Registry, ref string) (TemplateDescriptor, bool) {
	canonical, ok := r.CanonicalID(ref)
	if !ok {
		return TemplateDescriptor{}, false
	}
	return r.Descriptor(canonical)
}

// resolveReverseAlias handles callers that pass a key which is itself the
// target of some alias family but spelled in a normalized variant, e.g. the
// alias table knows "Business Case Template" -> business-case and the caller
// sent "business case template".
func resolveReverseAlias(r *Registry, ref string) (TemplateDescriptor, bool) {
	key := NormalizeKey(ref)
	if key == "" {
		return TemplateDescriptor{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for alias, target := range r.aliases {
		if NormalizeKey(alias) != key {
			continue
		}
		if desc, ok := r.descriptors[target]; ok {
			return desc.Clone(), true
		}
	}
	for id, desc := range r.descriptors {
		if NormalizeKey(id) == key {
			return desc.Clone(), true
		}
	}
	return TemplateDescriptor{}, false
}

// minContainedKeyLen keeps the candidate-inside-reference direction from
// misfiring on very short ids: "totally-unknown-key-xyz" must not match a
// descriptor whose id normalizes to a single letter.
const minContainedKeyLen = 3

// resolveFuzzy is the last-resort pass: normalized substring containment in
// either direction against descriptor names and ids, with fuzzy ranking to
// break ties when several descriptors contain the reference.
func resolveFuzzy(r *Registry, ref string) (TemplateDescriptor, bool) {
	key := NormalizeKey(ref)
	if key == "" {
		return TemplateDescriptor{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var candidates []string
	for _, id := range r.order {
		desc := r.descriptors[id]
		nameKey := NormalizeKey(desc.Name)
		idKey := NormalizeKey(desc.ID)
		if strings.Contains(nameKey, key) || strings.Contains(idKey, key) ||
			(len(nameKey) >= minContainedKeyLen && strings.Contains(key, nameKey)) ||
			(len(idKey) >= minContainedKeyLen && strings.Contains(key, idKey)) {
			candidates = append(candidates, id)
		}
	}
	switch len(candidates) {
	case 0:
		return TemplateDescriptor{}, false
	case 1:
		return r.descriptors[candidates[0]].Clone(), true
	}
	matches := fuzzy.Find(key, candidateKeys(r, candidates))
	if len(matches) > 0 {
		return r.descriptors[candidates[matches[0].Index]].Clone(), true
	}
	return r.descriptors[candidates[0]].Clone(), true
}

func candidateKeys(r *Registry, ids []string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = NormalizeKey(r.descriptors[id].Name)
	}
	return keys
}

// NormalizeKey lowercases a reference and strips everything that is not a
// letter or digit, so "Business Case Template" and "business-case-template"
// compare equal.
func NormalizeKey(ref string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(ref) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
