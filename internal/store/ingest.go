package store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/AdeAttwood/LsifTools/internal/lsifuri"
	"github.com/AdeAttwood/LsifTools/internal/protocol"
)

// ErrWorkspaceRootConflict is returned when a later dump declares a
// different workspace root than the first one seen. Dumps from different
// workspaces must be loaded into separate graphs.
var ErrWorkspaceRootConflict = errors.New("conflicting workspace roots")

// maxLineSize bounds a single dump record. Document vertices embed full file
// contents, so lines can run well past bufio's default.
const maxLineSize = 32 * 1024 * 1024

// Load ingests one line-delimited dump from r into the graph. The name is
// used in error and log messages only, typically the dump's file name.
// Loading is strictly sequential; a graph must never be queried while a Load
// is in flight.
//
// Malformed records and edges whose endpoints are not yet present abort the
// load: the stream is contract-bound to be schema-valid and emitted in
// dependency order.
func (g *Graph) Load(r io.Reader, name string) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := protocol.Decode(line)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		switch rec.Type {
		case protocol.ElementVertex:
			err = g.addVertex(rec, name)
		case protocol.ElementEdge:
			err = g.addEdge(rec)
		}
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

func (g *Graph) addVertex(rec *protocol.Record, dump string) error {
	switch rec.Vertex() {
	case protocol.VertexEvent:
		// Streaming bookkeeping, no query value.
		return nil
	case protocol.VertexMetaData:
		return g.addMetaData(rec.Meta)
	}

	v := &Vertex{
		ID:       rec.ID,
		Label:    rec.Vertex(),
		Document: rec.Document,
		Range:    rec.Range,
		Moniker:  rec.Moniker,
	}

	switch v.Label {
	case protocol.VertexDocument:
		g.addDocument(v, dump)
	case protocol.VertexMoniker:
		if v.Moniker.Kind != protocol.MonikerLocal {
			key := MonikerKey(v.Moniker.Scheme, v.Moniker.Identifier)
			g.monikerSets[key] = append(g.monikerSets[key], v.ID)
		}
	}

	g.vertices[v.ID] = v
	return nil
}

// addDocument normalizes the document's URI, hashes its contents, and checks
// the hash against any previously loaded instance of the same URI. A
// mismatch is reported but both instances stay queryable.
func (g *Graph) addDocument(v *Vertex, dump string) {
	v.Document.URI = lsifuri.Normalize(v.Document.URI)
	uri := v.Document.URI

	hash := ContentHash(v.Document.Contents)
	if prior, ok := g.contentHashes[uri]; !ok {
		g.contentHashes[uri] = hash
	} else if prior != hash {
		g.logger.Warn("document content differs between dumps",
			"uri", uri, "dump", dump)
	}

	g.documentsByURI[uri] = append(g.documentsByURI[uri], v.ID)
}

func (g *Graph) addMetaData(meta *protocol.MetaData) error {
	root := lsifuri.Normalize(meta.ProjectRoot)
	if g.projectRoot == "" {
		g.projectRoot = root
		return nil
	}
	if g.projectRoot != root {
		return fmt.Errorf("%w: %q and %q", ErrWorkspaceRootConflict, g.projectRoot, root)
	}
	return nil
}

func (g *Graph) addEdge(rec *protocol.Record) error {
	if g.vertex(rec.OutV) == nil {
		return fmt.Errorf("edge %s (%s): unknown source vertex %s", rec.ID, rec.Label, rec.OutV)
	}
	for _, in := range rec.InVs {
		if g.vertex(in) == nil {
			return fmt.Errorf("edge %s (%s): unknown target vertex %s", rec.ID, rec.Label, in)
		}
	}

	switch rec.Edge() {
	case protocol.EdgeContains:
		g.contains[rec.OutV] = append(g.contains[rec.OutV], rec.InVs...)
		for _, in := range rec.InVs {
			// Last write wins; well-formed input assigns a single parent.
			g.containedBy[in] = rec.OutV
		}
	case protocol.EdgeItem:
		kind := itemKinds[rec.Property]
		for _, in := range rec.InVs {
			g.items[rec.OutV] = append(g.items[rec.OutV], Item{Kind: kind, Target: in})
		}
	case protocol.EdgeNext:
		g.next[rec.OutV] = rec.InVs[0]
	case protocol.EdgeMoniker:
		moniker := rec.InVs[0]
		g.monikerOf[rec.OutV] = moniker
		g.attachedTo[moniker] = append(g.attachedTo[moniker], rec.OutV)
	default:
		// One single-valued forward map per relation label.
		m := g.relations[rec.Edge()]
		if m == nil {
			m = make(map[protocol.ID]protocol.ID)
			g.relations[rec.Edge()] = m
		}
		m[rec.OutV] = rec.InVs[0]
	}
	return nil
}
