// Package store holds the in-memory graph database behind the query API:
// the vertex arena, the typed adjacency and reverse-adjacency maps, the
// cross-dump symbol index, and the position and result resolvers. A Graph is
// populated by one or more Load calls and is immutable afterwards; concurrent
// readers are safe once loading is done, concurrent mutation never is.
package store

import (
	"log/slog"
	"sort"

	"github.com/AdeAttwood/LsifTools/internal/lsifuri"
	"github.com/AdeAttwood/LsifTools/internal/protocol"
)

// Graph is the arena-style store for a set of merged dumps. All vertices
// live in one identity-indexed table; every edge label gets its own map, and
// reverse lookups are explicit maps rather than back-pointers embedded in
// the entities.
type Graph struct {
	logger *slog.Logger

	// vertices is the identity table owning every vertex for the lifetime
	// of the load.
	vertices map[protocol.ID]*Vertex

	// Forward adjacency, one map per edge label.
	contains  map[protocol.ID][]protocol.ID
	items     map[protocol.ID][]Item
	next      map[protocol.ID]protocol.ID
	monikerOf map[protocol.ID]protocol.ID
	relations map[protocol.EdgeLabel]map[protocol.ID]protocol.ID

	// Reverse adjacency.
	containedBy map[protocol.ID]protocol.ID   // range -> owning document
	attachedTo  map[protocol.ID][]protocol.ID // moniker -> vertices carrying it

	// documentsByURI lists every document instance per normalized URI;
	// merged dumps may each contribute one for the same file.
	documentsByURI map[string][]protocol.ID

	// contentHashes records the first-seen content hash per URI. A later
	// mismatch is an integrity warning, not a load failure.
	contentHashes map[string]string

	// monikerSets is the symbol index: identity key -> every non-local
	// moniker vertex sharing it, across all loaded dumps.
	monikerSets map[string][]protocol.ID

	// projectRoot is the single workspace root every loaded dump must agree
	// on.
	projectRoot string
}

// NewGraph returns an empty graph. A nil logger falls back to
// slog.Default().
func NewGraph(logger *slog.Logger) *Graph {
	if logger == nil {
		logger = slog.Default()
	}
	return &Graph{
		logger:         logger,
		vertices:       make(map[protocol.ID]*Vertex),
		contains:       make(map[protocol.ID][]protocol.ID),
		items:          make(map[protocol.ID][]Item),
		next:           make(map[protocol.ID]protocol.ID),
		monikerOf:      make(map[protocol.ID]protocol.ID),
		relations:      make(map[protocol.EdgeLabel]map[protocol.ID]protocol.ID),
		containedBy:    make(map[protocol.ID]protocol.ID),
		attachedTo:     make(map[protocol.ID][]protocol.ID),
		documentsByURI: make(map[string][]protocol.ID),
		contentHashes:  make(map[string]string),
		monikerSets:    make(map[string][]protocol.ID),
	}
}

// ProjectRoot returns the normalized workspace root declared by the loaded
// dumps, or "" before any metaData vertex has been seen.
func (g *Graph) ProjectRoot() string {
	return g.projectRoot
}

// DocumentURIs returns every distinct document URI in the graph, sorted.
func (g *Graph) DocumentURIs() []string {
	uris := make([]string, 0, len(g.documentsByURI))
	for uri := range g.documentsByURI {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// HasDocument reports whether any loaded dump contributed a document for
// uri.
func (g *Graph) HasDocument(uri string) bool {
	_, ok := g.documentsByURI[lsifuri.Normalize(uri)]
	return ok
}

// vertex returns the arena entry for id, or nil.
func (g *Graph) vertex(id protocol.ID) *Vertex {
	return g.vertices[id]
}

// location builds a Location for a range vertex via its reverse pointer to
// the owning document. Ranges without a recorded parent produce no location.
func (g *Graph) location(rangeID protocol.ID) (Location, bool) {
	r := g.vertex(rangeID)
	if r == nil || r.Range == nil {
		return Location{}, false
	}
	docID, ok := g.containedBy[rangeID]
	if !ok {
		return Location{}, false
	}
	doc := g.vertex(docID)
	if doc == nil || doc.Document == nil {
		return Location{}, false
	}
	return Location{URI: doc.Document.URI, Range: *r.Range}, true
}

// containedRanges returns the ids of the range vertices a document contains,
// in insertion order.
func (g *Graph) containedRanges(docID protocol.ID) []protocol.ID {
	children := g.contains[docID]
	ranges := make([]protocol.ID, 0, len(children))
	for _, id := range children {
		if v := g.vertex(id); v != nil && v.Label == protocol.VertexRange {
			ranges = append(ranges, id)
		}
	}
	return ranges
}
