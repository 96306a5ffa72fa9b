package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Definitions and declarations
// =============================================================================

func TestDefinitions_ResolvesThroughResultSet(t *testing.T) {
	t.Parallel()
	f := newFixture()
	g := f.load(t)

	// Querying from the call site lands on the definition range.
	locs, err := g.Definitions(fixtureURI, pos(1, 1))
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, fixtureURI, locs[0].URI)
	assert.Equal(t, pos(0, 16), locs[0].Range.Start)
	assert.Equal(t, pos(0, 18), locs[0].Range.End)
}

func TestDefinitions_NoEnclosingRangeYieldsAbsentResult(t *testing.T) {
	t.Parallel()
	f := newFixture()
	g := f.load(t)

	locs, err := g.Definitions(fixtureURI, pos(9, 9))
	require.NoError(t, err)
	assert.Nil(t, locs)
}

func TestDefinitions_RangeWithoutResultYieldsAbsentResult(t *testing.T) {
	t.Parallel()
	d := &dump{}
	doc := d.document(fixtureURI, "x")
	r := d.rng(0, 0, 0, 1)
	d.edge("contains", doc, r)

	g := loadGraph(t, d)
	locs, err := g.Definitions(fixtureURI, pos(0, 0))
	require.NoError(t, err)
	assert.Nil(t, locs)
}

func TestDeclarations_UseDeclarationRelation(t *testing.T) {
	t.Parallel()
	d := &dump{}
	doc := d.document(fixtureURI, "let x")
	r := d.rng(0, 4, 0, 5)
	declRes := d.vertex("declarationResult")
	d.edge("textDocument/declaration", r, declRes)
	d.item(declRes, doc, "", r)
	d.edge("contains", doc, r)

	g := loadGraph(t, d)
	locs, err := g.Declarations(fixtureURI, pos(0, 4))
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, pos(0, 4), locs[0].Range.Start)
}

func TestResolve_CyclicNextChainFails(t *testing.T) {
	t.Parallel()
	d := &dump{}
	doc := d.document(fixtureURI, "x")
	r := d.rng(0, 0, 0, 1)
	a := d.vertex("resultSet")
	b := d.vertex("resultSet")
	d.edge("next", r, a)
	d.edge("next", a, b)
	d.edge("next", b, a)
	d.edge("contains", doc, r)

	g := loadGraph(t, d)
	_, err := g.Definitions(fixtureURI, pos(0, 0))
	require.ErrorIs(t, err, ErrCyclicResultChain)
}

// =============================================================================
// References
// =============================================================================

func TestReferences_IncludeDeclarationGatesDefinitionSites(t *testing.T) {
	t.Parallel()
	f := newFixture()
	g := f.load(t)

	with, err := g.References(fixtureURI, pos(1, 1), ReferenceContext{IncludeDeclaration: true})
	require.NoError(t, err)
	assert.Len(t, with, 2)

	without, err := g.References(fixtureURI, pos(1, 1), ReferenceContext{})
	require.NoError(t, err)
	require.Len(t, without, 1)
	assert.Equal(t, pos(1, 0), without[0].Range.Start)
}

func TestReferences_DeduplicatesAcrossStartRanges(t *testing.T) {
	t.Parallel()
	f := newFixture()
	g := f.load(t)

	// Both the definition range and the use range resolve to the same
	// reference result; every location must still appear once.
	fromDef, err := g.References(fixtureURI, pos(0, 17), ReferenceContext{IncludeDeclaration: true})
	require.NoError(t, err)
	fromUse, err := g.References(fixtureURI, pos(1, 1), ReferenceContext{IncludeDeclaration: true})
	require.NoError(t, err)

	assert.ElementsMatch(t, fromDef, fromUse)
	seen := make(map[Location]int)
	for _, loc := range fromDef {
		seen[loc]++
	}
	for loc, n := range seen {
		assert.Equal(t, 1, n, "duplicate location %v", loc)
	}
}

func TestReferences_NestedReferenceResultsRecurse(t *testing.T) {
	t.Parallel()
	d := &dump{}
	doc := d.document(fixtureURI, "foo\nbar")
	r := d.rng(0, 0, 0, 3)
	nested := d.rng(1, 0, 1, 3)
	outer := d.vertex("referenceResult")
	inner := d.vertex("referenceResult")
	d.edge("textDocument/references", r, outer)
	d.item(outer, doc, "referenceResults", inner)
	d.item(inner, doc, "references", nested)
	d.edge("contains", doc, r, nested)

	g := loadGraph(t, d)
	locs, err := g.References(fixtureURI, pos(0, 0), ReferenceContext{})
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, pos(1, 0), locs[0].Range.Start)
}

func TestReferences_ReferenceLinksExpandMonikers(t *testing.T) {
	t.Parallel()
	d := &dump{}
	doc := d.document(fixtureURI, "foo")
	r := d.rng(0, 0, 0, 3)
	res := d.vertex("referenceResult")
	d.edge("textDocument/references", r, res)
	link := d.moniker("tsc", "lib/b:bar:", "export")
	d.item(res, doc, "referenceLinks", link)
	d.edge("contains", doc, r)

	// A second document owns the linked symbol's reference result.
	doc2 := d.document("file:///src/b.ts", "bar")
	r2 := d.rng(0, 0, 0, 3)
	set2 := d.vertex("resultSet")
	d.edge("next", r2, set2)
	twin := d.moniker("tsc", "lib/b:bar:", "export")
	d.edge("moniker", set2, twin)
	res2 := d.vertex("referenceResult")
	d.edge("textDocument/references", set2, res2)
	d.item(res2, doc2, "references", r2)
	d.edge("contains", doc2, r2)

	g := loadGraph(t, d)
	locs, err := g.References(fixtureURI, pos(0, 0), ReferenceContext{})
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "file:///src/b.ts", locs[0].URI)
}

// =============================================================================
// Cross-dump merge
// =============================================================================

// twinDump builds a dump for b.ts whose resultSet carries the fixture's
// moniker identity and one local reference.
func twinDump() *dump {
	d := &dump{}
	d.line(`{"id":200,"type":"vertex","label":"metaData","version":"0.5.0","projectRoot":"file:///src"}`)
	d.line(`{"id":201,"type":"vertex","label":"document","uri":"file:///src/b.ts","languageId":"typescript","contents":"foo();\n"}`)
	d.line(`{"id":202,"type":"vertex","label":"range","start":{"line":0,"character":0},"end":{"line":0,"character":2}}`)
	d.line(`{"id":203,"type":"vertex","label":"resultSet"}`)
	d.line(`{"id":204,"type":"edge","label":"next","outV":202,"inVs":[203]}`)
	d.line(`{"id":205,"type":"vertex","label":"moniker","scheme":"tsc","identifier":"lib/a:foo:","kind":"import"}`)
	d.line(`{"id":206,"type":"edge","label":"moniker","outV":203,"inVs":[205]}`)
	d.line(`{"id":207,"type":"vertex","label":"referenceResult"}`)
	d.line(`{"id":208,"type":"edge","label":"textDocument/references","outV":203,"inVs":[207]}`)
	d.line(`{"id":209,"type":"edge","label":"item","outV":207,"document":201,"property":"references","inVs":[202]}`)
	d.line(`{"id":210,"type":"edge","label":"contains","outV":201,"inVs":[202]}`)
	return d
}

func TestReferences_MergedDumpsStitchResultsBySymbolKey(t *testing.T) {
	t.Parallel()
	f := newFixture()
	merged := loadGraph(t, f.dump, twinDump())

	locs, err := merged.References(fixtureURI, pos(0, 17), ReferenceContext{IncludeDeclaration: true})
	require.NoError(t, err)

	uris := make(map[string]bool)
	for _, loc := range locs {
		uris[loc.URI] = true
	}
	assert.True(t, uris[fixtureURI])
	assert.True(t, uris["file:///src/b.ts"])
	assert.Len(t, locs, 3)
}

func TestReferences_SeparateStoresReturnLocalSubsetOnly(t *testing.T) {
	t.Parallel()
	f := newFixture()
	local := f.load(t)

	locs, err := local.References(fixtureURI, pos(0, 17), ReferenceContext{IncludeDeclaration: true})
	require.NoError(t, err)
	for _, loc := range locs {
		assert.Equal(t, fixtureURI, loc.URI)
	}
	assert.Len(t, locs, 2)
}

func TestLoad_IsIdempotentAcrossStores(t *testing.T) {
	t.Parallel()
	f1 := newFixture()
	f2 := newFixture()
	g1 := f1.load(t)
	g2 := f2.load(t)

	for _, p := range []struct{ line, char int }{{0, 16}, {0, 17}, {1, 0}, {1, 2}} {
		a, err := g1.References(fixtureURI, pos(p.line, p.char), ReferenceContext{IncludeDeclaration: true})
		require.NoError(t, err)
		b, err := g2.References(fixtureURI, pos(p.line, p.char), ReferenceContext{IncludeDeclaration: true})
		require.NoError(t, err)
		assert.Equal(t, a, b)

		da, err := g1.Definitions(fixtureURI, pos(p.line, p.char))
		require.NoError(t, err)
		db, err := g2.Definitions(fixtureURI, pos(p.line, p.char))
		require.NoError(t, err)
		assert.Equal(t, da, db)
	}
}

// =============================================================================
// Exported definitions
// =============================================================================

func TestExportedDefinitions_MapsExportsBackToThemselves(t *testing.T) {
	t.Parallel()
	f := newFixture()
	g := f.load(t)

	locs, err := g.ExportedDefinitions(fixtureURI, keepAll{})
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, fixtureURI, locs[0].URI)
	assert.Equal(t, pos(0, 16), locs[0].Range.Start)
}

func TestExportedDefinitions_UnknownDocumentReturnsNil(t *testing.T) {
	t.Parallel()
	f := newFixture()
	g := f.load(t)

	locs, err := g.ExportedDefinitions("file:///src/missing.ts", keepAll{})
	require.NoError(t, err)
	assert.Nil(t, locs)
}

func TestExportedDefinitions_FilterRejectionDropsRange(t *testing.T) {
	t.Parallel()
	f := newFixture()
	g := f.load(t)

	locs, err := g.ExportedDefinitions(fixtureURI, keepNone{})
	require.NoError(t, err)
	assert.Empty(t, locs)
}

// =============================================================================
// Moniker keys
// =============================================================================

func TestMonikerKey_SeparatorKeepsSchemesApart(t *testing.T) {
	t.Parallel()
	assert.Equal(t, MonikerKey("a", "b"), MonikerKey("a", "b"))
	assert.NotEqual(t, MonikerKey("a", "b:c"), MonikerKey("a:b", "c"))
}

func TestContentHash_DiffersByContent(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ContentHash("x"), ContentHash("x"))
	assert.NotEqual(t, ContentHash("x"), ContentHash(strings.ToUpper("x")))
}
