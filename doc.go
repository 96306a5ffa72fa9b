// Package lsiftools answers structural code-navigation queries over LSIF
// dumps: given a source position, find its declaration, its definition, or
// every reference to it across one or more merged graphs.
//
// # Pipeline
//
// An Engine is loaded once and queried read-only:
//
//  1. Load: each dump is a stream of newline-delimited JSON vertex and edge
//     records. Ingestion fills an in-memory graph store — adjacency and
//     reverse-adjacency indices plus a cross-dump symbol index keyed by
//     moniker identity — in a single pass.
//
//  2. Query: a position resolves to the most specific enclosing range per
//     document instance; the result resolver follows next indirections and
//     recursive result structures to the concrete location set, merging
//     results from every dump that indexed the same logical symbol.
//
// # Usage
//
// Create an Engine, load dumps, and query:
//
//	e, err := lsiftools.New()
//	if err != nil { ... }
//	err = e.LoadFile("dump.lsif")
//
//	q := e.Query()
//	locs, err := q.Definitions("file:///src/main.ts", lsiftools.Position{Line: 10, Character: 5})
//
// # Query API
//
// The [QueryBuilder] returned by [Engine.Query] provides four operations:
//
//   - [QueryBuilder.Declarations] — declaration sites of the symbol at a
//     position.
//   - [QueryBuilder.Definitions] — definition sites of the symbol at a
//     position.
//   - [QueryBuilder.References] — every reference across all loaded dumps,
//     optionally including declaration sites.
//   - [QueryBuilder.ExportedDefinitions] — every exported definition a
//     document declares, mapped back to its own location.
//
// The last two combine into the dead-export workflow driven by
// cmd/lsif-tools: an exported definition whose reference count including
// itself is exactly one is used nowhere.
//
// # Merging dumps
//
// Several dumps may be loaded into one Engine. Monikers with the same
// (scheme, identifier) are treated as the same logical symbol, so queries
// stitch together results produced by independent indexing runs. All dumps
// must share one workspace root; duplicate documents with differing content
// are kept and reported, not rejected.
package lsiftools
