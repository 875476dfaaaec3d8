// Package planner turns resolver orderings into generation batches that
// respect dependency order plus runtime constraints such as batch size,
// concurrency limits, and in-flight generations. It is a thin layer that
// generation front-ends call to decide which documents to produce next
// without re-implementing filtering logic.
package planner
