package store

import (
	"github.com/AdeAttwood/LsifTools/internal/protocol"
)

// Location identifies a source span inside a document. The struct is
// comparable; result sets use it directly as a deduplication key, so a
// location enters a result at most once per query.
type Location struct {
	URI   string
	Range protocol.Range
}

// ReferenceContext carries the caller-side options of a references query.
type ReferenceContext struct {
	// IncludeDeclaration adds declaration and definition sites to the
	// reference results.
	IncludeDeclaration bool
}

// Vertex is one arena entry in the graph's identity table. Exactly one of
// the payload pointers is set for the labels that carry one; pure indirection
// vertices (result sets, result containers) have none.
type Vertex struct {
	ID    protocol.ID
	Label protocol.VertexLabel

	Document *protocol.Document
	Range    *protocol.Range
	Moniker  *protocol.Moniker
}

// ItemKind is the closed set of item-edge target interpretations. The
// property qualifier on the wire becomes an explicit variant tag here.
type ItemKind int

const (
	// ItemRange is a bare range target, the default interpretation.
	ItemRange ItemKind = iota
	// ItemDeclarationRange is a range that is a declaration site.
	ItemDeclarationRange
	// ItemDefinitionRange is a range that is a definition site.
	ItemDefinitionRange
	// ItemReferenceRange is a range that is a reference site.
	ItemReferenceRange
	// ItemReferenceResult is a nested reference result to resolve
	// recursively.
	ItemReferenceResult
	// ItemMonikerLink is a moniker whose identity key joins further results
	// into the query.
	ItemMonikerLink
)

// Item is one tagged entry in a result vertex's ordered item list.
type Item struct {
	Kind   ItemKind
	Target protocol.ID
}

var itemKinds = map[protocol.ItemProperty]ItemKind{
	protocol.ItemDefault:          ItemRange,
	protocol.ItemDeclarations:     ItemDeclarationRange,
	protocol.ItemDefinitions:      ItemDefinitionRange,
	protocol.ItemReferences:       ItemReferenceRange,
	protocol.ItemReferenceResults: ItemReferenceResult,
	protocol.ItemReferenceLinks:   ItemMonikerLink,
}
