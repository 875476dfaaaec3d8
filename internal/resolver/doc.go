// Package resolver contains the dependency resolution core for document
// generation. It answers three questions against an injected template
// catalog: are a template's prerequisites satisfied given the documents
// already produced, which templates could be generated right now, and in what
// order should a requested batch be generated so every prerequisite precedes
// its dependents. All operations are pure functions of their inputs plus the
// registry and are designed to fail open rather than block generation.
package resolver
