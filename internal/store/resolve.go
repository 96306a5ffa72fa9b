package store

import (
	"errors"
	"fmt"

	"github.com/AdeAttwood/LsifTools/internal/lsifuri"
	"github.com/AdeAttwood/LsifTools/internal/protocol"
)

// ErrCyclicResultChain is returned when a next chain exceeds the hop budget.
// Well-formed input never cycles; a malformed dump must fail instead of
// hanging resolution.
var ErrCyclicResultChain = errors.New("cyclic result chain")

// maxChainHops bounds path resolution through next indirections.
const maxChainHops = 64

// MonikerFilter decides which monikers an exported-definitions scan keeps.
// The concrete policy lives with the caller; the graph only threads it
// through.
type MonikerFilter interface {
	Keep(m *protocol.Moniker) bool
}

// Declarations resolves the declaration sites of the symbol at pos.
func (g *Graph) Declarations(uri string, pos protocol.Position) ([]Location, error) {
	return g.resolveAt(protocol.EdgeDeclaration, uri, pos, nil)
}

// Definitions resolves the definition sites of the symbol at pos.
func (g *Graph) Definitions(uri string, pos protocol.Position) ([]Location, error) {
	return g.resolveAt(protocol.EdgeDefinition, uri, pos, nil)
}

// References resolves every reference to the symbol at pos across all
// loaded dumps. ctx controls whether declaration and definition sites count
// as references.
func (g *Graph) References(uri string, pos protocol.Position, ctx ReferenceContext) ([]Location, error) {
	return g.resolveAt(protocol.EdgeReferences, uri, pos, &ctx)
}

// resolveAt is the shared shape of the position-based queries: resolve the
// enclosing ranges, then run path and moniker resolution for each against
// one relation map.
func (g *Graph) resolveAt(relation protocol.EdgeLabel, uri string, pos protocol.Position, ctx *ReferenceContext) ([]Location, error) {
	starts := g.RangesAt(uri, pos)
	if len(starts) == 0 {
		return nil, nil
	}

	res := g.newResolution(relation, ctx)
	for _, start := range starts {
		if err := res.resolveFrom(start); err != nil {
			return nil, err
		}
	}
	if err := res.drainMonikers(); err != nil {
		return nil, err
	}
	return res.locations, nil
}

// pathResult is the terminal of one path resolution: the result vertex the
// relation map yielded, and the most specific moniker seen on the way there.
type pathResult struct {
	result  protocol.ID
	moniker protocol.ID // "" when no moniker is attached anywhere on the path
}

// resolvePath follows next indirections from start until a vertex has a
// direct entry in the relation's forward map. Vertices passed through are
// recorded on an ordered trail together with their attached monikers; the
// most specific moniker is the terminal's own, or failing that the first one
// found scanning the trail from its tail back to its head. Specificity is
// assumed to increase with proximity to where the result was found — the
// scan order is deliberate and load-bearing, and must not be reordered.
//
// A nil result with a nil error means the query is unanswerable from start.
func (g *Graph) resolvePath(start protocol.ID, relation protocol.EdgeLabel) (*pathResult, error) {
	forward := g.relations[relation]

	type hop struct {
		vertex  protocol.ID
		moniker protocol.ID
	}
	var trail []hop

	current := start
	for steps := 0; steps <= maxChainHops; steps++ {
		if target, ok := forward[current]; ok {
			if m, ok := g.monikerOf[current]; ok {
				return &pathResult{result: target, moniker: m}, nil
			}
			for i := len(trail) - 1; i >= 0; i-- {
				if trail[i].moniker != "" {
					return &pathResult{result: target, moniker: trail[i].moniker}, nil
				}
			}
			return &pathResult{result: target}, nil
		}

		trail = append(trail, hop{vertex: current, moniker: g.monikerOf[current]})
		nxt, ok := g.next[current]
		if !ok {
			return nil, nil
		}
		current = nxt
	}
	return nil, fmt.Errorf("resolving %s from vertex %s: %w", relation, start, ErrCyclicResultChain)
}

// resolution is the per-query state of one top-level resolve: the merged
// location set, the moniker keys already expanded, and the result vertices
// already collected. One resolution never outlives one query.
type resolution struct {
	g        *Graph
	relation protocol.EdgeLabel
	refCtx   *ReferenceContext // nil outside references queries

	locations []Location
	seen      map[Location]struct{}

	expandedKeys   map[string]struct{}
	visitedResults map[protocol.ID]struct{}
	pending        []protocol.ID // moniker vertices awaiting expansion
}

func (g *Graph) newResolution(relation protocol.EdgeLabel, ctx *ReferenceContext) *resolution {
	return &resolution{
		g:              g,
		relation:       relation,
		refCtx:         ctx,
		seen:           make(map[Location]struct{}),
		expandedKeys:   make(map[string]struct{}),
		visitedResults: make(map[protocol.ID]struct{}),
	}
}

// resolveFrom runs one path resolution from start and folds its outcome into
// the query state.
func (r *resolution) resolveFrom(start protocol.ID) error {
	pr, err := r.g.resolvePath(start, r.relation)
	if err != nil {
		return err
	}
	if pr == nil {
		return nil
	}
	r.collect(pr.result)
	if pr.moniker != "" {
		r.pending = append(r.pending, pr.moniker)
	}
	return nil
}

// drainMonikers expands every pending moniker through the symbol index,
// merging results produced by sibling monikers from any loaded dump. Each
// identity key expands at most once per query, which both deduplicates work
// and guarantees termination; reference links discovered during collection
// feed back into the queue.
func (r *resolution) drainMonikers() error {
	for len(r.pending) > 0 {
		id := r.pending[0]
		r.pending = r.pending[1:]

		v := r.g.vertex(id)
		if v == nil || v.Moniker == nil || v.Moniker.Kind == protocol.MonikerLocal {
			continue
		}
		key := MonikerKey(v.Moniker.Scheme, v.Moniker.Identifier)
		if _, done := r.expandedKeys[key]; done {
			continue
		}
		r.expandedKeys[key] = struct{}{}

		for _, sibling := range r.g.monikerSets[key] {
			for _, attached := range r.g.attachedTo[sibling] {
				pr, err := r.g.resolvePath(attached, r.relation)
				if err != nil {
					return err
				}
				if pr != nil {
					r.collect(pr.result)
				}
			}
		}
	}
	return nil
}

// collect folds a result vertex's items into the location set. Declaration
// and definition items are gated on the reference context; nested reference
// results recurse under the same expansion budget; moniker links queue for
// expansion instead of resolving immediately.
func (r *resolution) collect(resultID protocol.ID) {
	if _, done := r.visitedResults[resultID]; done {
		return
	}
	r.visitedResults[resultID] = struct{}{}

	for _, it := range r.g.items[resultID] {
		switch it.Kind {
		case ItemRange, ItemReferenceRange:
			r.addRange(it.Target)
		case ItemDeclarationRange, ItemDefinitionRange:
			if r.refCtx == nil || r.refCtx.IncludeDeclaration {
				r.addRange(it.Target)
			}
		case ItemReferenceResult:
			r.collect(it.Target)
		case ItemMonikerLink:
			r.pending = append(r.pending, it.Target)
		}
	}
}

func (r *resolution) addRange(rangeID protocol.ID) {
	loc, ok := r.g.location(rangeID)
	if !ok {
		return
	}
	if _, dup := r.seen[loc]; dup {
		return
	}
	r.seen[loc] = struct{}{}
	r.locations = append(r.locations, loc)
}

// ExportedDefinitions enumerates every range the document contains, keeps
// those whose definition resolves to a moniker the filter accepts, and maps
// each survivor back onto itself: the range's own definitions are recomputed
// and only locations inside the queried document are kept. Nil when the
// document is unknown or has no ranges.
func (g *Graph) ExportedDefinitions(uri string, filter MonikerFilter) ([]Location, error) {
	normalized := lsifuri.Normalize(uri)
	docs := g.documentsByURI[normalized]
	if len(docs) == 0 {
		return nil, nil
	}

	var locations []Location
	seen := make(map[Location]struct{})
	for _, docID := range docs {
		ranges := g.containedRanges(docID)
		if len(ranges) == 0 {
			return nil, nil
		}

		for _, rangeID := range ranges {
			pr, err := g.resolvePath(rangeID, protocol.EdgeDefinition)
			if err != nil {
				return nil, err
			}
			if pr == nil || pr.moniker == "" {
				continue
			}
			m := g.vertex(pr.moniker)
			if m == nil || m.Moniker == nil || !filter.Keep(m.Moniker) {
				continue
			}

			span := g.vertex(rangeID).Range
			defs, err := g.Definitions(normalized, span.Start)
			if err != nil {
				return nil, err
			}
			for _, def := range defs {
				if def.URI != normalized {
					continue
				}
				if _, dup := seen[def]; dup {
					continue
				}
				seen[def] = struct{}{}
				locations = append(locations, def)
			}
		}
	}
	return locations, nil
}
