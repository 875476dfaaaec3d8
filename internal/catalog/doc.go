// Package catalog holds the template descriptor registry: the static table of
// generatable document types, their dependency edges, and the alias map that
// translates the many string forms callers use (slugs, display names, legacy
// storage ids) into canonical descriptor ids. The registry is an explicit
// object so tests and embedding tools can construct alternate catalogs
// instead of sharing a package-level singleton.
package catalog
