package lsiftools

import (
	"github.com/AdeAttwood/LsifTools/internal/policy"
	"github.com/AdeAttwood/LsifTools/internal/store"
)

// QueryBuilder provides the position and document queries over a loaded
// graph. A nil, nil return means the position or document has no usable
// result; it is not an error.
type QueryBuilder struct {
	graph  *store.Graph
	policy *policy.Compiled
}

// Declarations finds the declaration sites of the symbol at the given
// position.
func (q *QueryBuilder) Declarations(uri string, pos Position) ([]Location, error) {
	return q.graph.Declarations(uri, pos)
}

// Definitions finds the definition sites of the symbol at the given
// position.
func (q *QueryBuilder) Definitions(uri string, pos Position) ([]Location, error) {
	return q.graph.Definitions(uri, pos)
}

// References finds every reference to the symbol at the given position
// across all loaded dumps. ctx.IncludeDeclaration additionally counts the
// symbol's declaration and definition sites.
func (q *QueryBuilder) References(uri string, pos Position, ctx ReferenceContext) ([]Location, error) {
	return q.graph.References(uri, pos, ctx)
}

// ExportedDefinitions finds every exported definition the given document
// declares, filtered by the engine's export policy, each mapped back onto
// its own location within the document.
func (q *QueryBuilder) ExportedDefinitions(uri string) ([]Location, error) {
	return q.graph.ExportedDefinitions(uri, q.policy)
}
