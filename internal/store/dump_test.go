package store

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AdeAttwood/LsifTools/internal/protocol"
)

// dump builds newline-delimited LSIF records for tests. IDs are assigned
// sequentially; helpers return them so edges can wire vertices together.
type dump struct {
	lines []string
	id    int
}

func (d *dump) raw(format string, args ...any) int {
	d.id++
	d.lines = append(d.lines, fmt.Sprintf(`{"id":%d,%s}`, d.id, fmt.Sprintf(format, args...)))
	return d.id
}

// line appends a verbatim record, for malformed-input tests.
func (d *dump) line(s string) {
	d.lines = append(d.lines, s)
}

func (d *dump) String() string {
	return strings.Join(d.lines, "\n") + "\n"
}

func (d *dump) meta(root string) int {
	return d.raw(`"type":"vertex","label":"metaData","version":"0.5.0","projectRoot":%q`, root)
}

func (d *dump) document(uri, contents string) int {
	return d.raw(`"type":"vertex","label":"document","uri":%q,"languageId":"typescript","contents":%q`, uri, contents)
}

func (d *dump) rng(startLine, startChar, endLine, endChar int) int {
	return d.raw(`"type":"vertex","label":"range","start":{"line":%d,"character":%d},"end":{"line":%d,"character":%d}`,
		startLine, startChar, endLine, endChar)
}

func (d *dump) vertex(label string) int {
	return d.raw(`"type":"vertex","label":%q`, label)
}

func (d *dump) moniker(scheme, identifier, kind string) int {
	return d.raw(`"type":"vertex","label":"moniker","scheme":%q,"identifier":%q,"kind":%q`, scheme, identifier, kind)
}

func (d *dump) edge(label string, outV int, inVs ...int) int {
	return d.raw(`"type":"edge","label":%q,"outV":%d,"inVs":[%s]`, label, outV, joinIDs(inVs))
}

func (d *dump) item(outV, doc int, property string, inVs ...int) int {
	if property == "" {
		return d.raw(`"type":"edge","label":"item","outV":%d,"document":%d,"inVs":[%s]`, outV, doc, joinIDs(inVs))
	}
	return d.raw(`"type":"edge","label":"item","outV":%d,"document":%d,"property":%q,"inVs":[%s]`, outV, doc, property, joinIDs(inVs))
}

// vid converts a builder-assigned numeric id into the store's normalized
// form.
func vid(id int) protocol.ID {
	return protocol.ID(strconv.Itoa(id))
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// fixture is the canonical single-document dump: a.ts exports function foo
// (defined at 0:16-0:18) and calls it once at 1:0-1:2.
type fixture struct {
	dump    *dump
	doc     int
	defRng  int
	useRng  int
	set     int
	moniker int
	defRes  int
	refRes  int
}

const fixtureURI = "file:///src/a.ts"

func newFixture() *fixture {
	d := &dump{}
	f := &fixture{dump: d}
	d.meta("file:///src")
	f.doc = d.document(fixtureURI, "export function foo() {}\nfoo();\n")
	f.defRng = d.rng(0, 16, 0, 18)
	f.useRng = d.rng(1, 0, 1, 2)
	f.set = d.vertex("resultSet")
	d.edge("next", f.defRng, f.set)
	d.edge("next", f.useRng, f.set)
	f.moniker = d.moniker("tsc", "lib/a:foo:", "export")
	d.edge("moniker", f.set, f.moniker)
	f.defRes = d.vertex("definitionResult")
	d.edge("textDocument/definition", f.set, f.defRes)
	d.item(f.defRes, f.doc, "", f.defRng)
	f.refRes = d.vertex("referenceResult")
	d.edge("textDocument/references", f.set, f.refRes)
	d.item(f.refRes, f.doc, "definitions", f.defRng)
	d.item(f.refRes, f.doc, "references", f.useRng)
	d.edge("contains", f.doc, f.defRng, f.useRng)
	return f
}

// load ingests the dump into a fresh graph, failing the test on error.
func (f *fixture) load(t *testing.T) *Graph {
	t.Helper()
	return loadGraph(t, f.dump)
}

func loadGraph(t *testing.T, dumps ...*dump) *Graph {
	t.Helper()
	g := NewGraph(discardLogger())
	for i, d := range dumps {
		require.NoError(t, g.Load(strings.NewReader(d.String()), fmt.Sprintf("dump-%d.lsif", i)))
	}
	return g
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// keepAll is a MonikerFilter that accepts everything, for tests that are not
// about policy.
type keepAll struct{}

func (keepAll) Keep(_ *protocol.Moniker) bool { return true }

type keepNone struct{}

func (keepNone) Keep(_ *protocol.Moniker) bool { return false }
