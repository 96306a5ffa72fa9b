// Package protocol defines the vertex/edge vocabulary of the LSIF exchange
// format as a closed, typed schema. One newline-delimited JSON record decodes
// into exactly one Record; labels outside the recognized set are rejected, as
// the input is schema-fixed.
package protocol

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is the opaque identity of a vertex or edge. Indexers emit either JSON
// numbers or strings; both normalize to the same comparable form.
type ID string

// UnmarshalJSON accepts number and string identities.
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// ElementType discriminates the two record shapes in a dump.
type ElementType string

const (
	ElementVertex ElementType = "vertex"
	ElementEdge   ElementType = "edge"
)

// VertexLabel selects a vertex variant.
type VertexLabel string

const (
	VertexMetaData             VertexLabel = "metaData"
	VertexProject              VertexLabel = "project"
	VertexDocument             VertexLabel = "document"
	VertexRange                VertexLabel = "range"
	VertexResultSet            VertexLabel = "resultSet"
	VertexMoniker              VertexLabel = "moniker"
	VertexPackageInformation   VertexLabel = "packageInformation"
	VertexHoverResult          VertexLabel = "hoverResult"
	VertexDefinitionResult     VertexLabel = "definitionResult"
	VertexDeclarationResult    VertexLabel = "declarationResult"
	VertexReferenceResult      VertexLabel = "referenceResult"
	VertexImplementationResult VertexLabel = "implementationResult"
	VertexTypeDefinitionResult VertexLabel = "typeDefinitionResult"
	VertexDocumentSymbolResult VertexLabel = "documentSymbolResult"
	VertexFoldingRangeResult   VertexLabel = "foldingRangeResult"
	VertexDocumentLinkResult   VertexLabel = "documentLinkResult"
	VertexDiagnosticResult     VertexLabel = "diagnosticResult"
	VertexEvent                VertexLabel = "$event"
)

// EdgeLabel selects an edge variant. The textDocument/* labels are the
// LSP-style request relations; each maps a range or result set to one result
// vertex.
type EdgeLabel string

const (
	EdgeContains           EdgeLabel = "contains"
	EdgeItem               EdgeLabel = "item"
	EdgeNext               EdgeLabel = "next"
	EdgeMoniker            EdgeLabel = "moniker"
	EdgePackageInformation EdgeLabel = "packageInformation"

	EdgeDefinition     EdgeLabel = "textDocument/definition"
	EdgeDeclaration    EdgeLabel = "textDocument/declaration"
	EdgeReferences     EdgeLabel = "textDocument/references"
	EdgeTypeDefinition EdgeLabel = "textDocument/typeDefinition"
	EdgeImplementation EdgeLabel = "textDocument/implementation"
	EdgeHover          EdgeLabel = "textDocument/hover"
	EdgeDocumentSymbol EdgeLabel = "textDocument/documentSymbol"
	EdgeFoldingRange   EdgeLabel = "textDocument/foldingRange"
	EdgeDocumentLink   EdgeLabel = "textDocument/documentLink"
	EdgeDiagnostic     EdgeLabel = "textDocument/diagnostic"
)

// ItemProperty qualifies how an item edge's targets must be interpreted.
// The zero value means the targets are bare ranges.
type ItemProperty string

const (
	ItemDefault          ItemProperty = ""
	ItemDeclarations     ItemProperty = "declarations"
	ItemDefinitions      ItemProperty = "definitions"
	ItemReferences       ItemProperty = "references"
	ItemReferenceResults ItemProperty = "referenceResults"
	ItemReferenceLinks   ItemProperty = "referenceLinks"
)

// MonikerKind classifies how portable a moniker's identity is.
type MonikerKind string

const (
	MonikerLocal  MonikerKind = "local"
	MonikerExport MonikerKind = "export"
	MonikerImport MonikerKind = "import"
)

// Position is a zero-based line/character pair.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a source span. Containment checks treat both boundaries as
// inclusive.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Document is the payload of a document vertex.
type Document struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Contents   string `json:"contents"`
}

// Moniker is a portable symbol-identity descriptor.
type Moniker struct {
	Scheme     string      `json:"scheme"`
	Identifier string      `json:"identifier"`
	Kind       MonikerKind `json:"kind"`
}

// MetaData is the payload of the metaData vertex, one per dump.
type MetaData struct {
	Version          string `json:"version"`
	ProjectRoot      string `json:"projectRoot"`
	PositionEncoding string `json:"positionEncoding"`
}

// Record is one decoded line of a dump. Exactly one of the payload pointers
// is set for the vertex labels that carry one; edges populate OutV/InVs and,
// for item edges, Property and Shard.
type Record struct {
	ID    ID
	Type  ElementType
	Label string

	// Vertex payloads.
	Document *Document
	Range    *Range
	Moniker  *Moniker
	Meta     *MetaData

	// Edge endpoints. A 1:1 edge decodes into a single-element InVs.
	OutV     ID
	InVs     []ID
	Property ItemProperty
	Shard    ID // the document an item edge belongs to
}

// Vertex returns the record's vertex label. Only meaningful when Type is
// ElementVertex.
func (r *Record) Vertex() VertexLabel { return VertexLabel(r.Label) }

// Edge returns the record's edge label. Only meaningful when Type is
// ElementEdge.
func (r *Record) Edge() EdgeLabel { return EdgeLabel(r.Label) }

var vertexLabels = map[VertexLabel]bool{
	VertexMetaData: true, VertexProject: true, VertexDocument: true,
	VertexRange: true, VertexResultSet: true, VertexMoniker: true,
	VertexPackageInformation: true, VertexHoverResult: true,
	VertexDefinitionResult: true, VertexDeclarationResult: true,
	VertexReferenceResult: true, VertexImplementationResult: true,
	VertexTypeDefinitionResult: true, VertexDocumentSymbolResult: true,
	VertexFoldingRangeResult: true, VertexDocumentLinkResult: true,
	VertexDiagnosticResult: true, VertexEvent: true,
}

var edgeLabels = map[EdgeLabel]bool{
	EdgeContains: true, EdgeItem: true, EdgeNext: true, EdgeMoniker: true,
	EdgePackageInformation: true, EdgeDefinition: true, EdgeDeclaration: true,
	EdgeReferences: true, EdgeTypeDefinition: true, EdgeImplementation: true,
	EdgeHover: true, EdgeDocumentSymbol: true, EdgeFoldingRange: true,
	EdgeDocumentLink: true, EdgeDiagnostic: true,
}

var itemProperties = map[ItemProperty]bool{
	ItemDefault: true, ItemDeclarations: true, ItemDefinitions: true,
	ItemReferences: true, ItemReferenceResults: true, ItemReferenceLinks: true,
}

// rawElement is the superset of fields across every record shape. Decoding
// reads the envelope first and then validates per label.
type rawElement struct {
	ID    ID          `json:"id"`
	Type  ElementType `json:"type"`
	Label string      `json:"label"`

	// Vertex payload fields.
	URI              string      `json:"uri"`
	LanguageID       string      `json:"languageId"`
	Contents         string      `json:"contents"`
	Start            *Position   `json:"start"`
	End              *Position   `json:"end"`
	Scheme           string      `json:"scheme"`
	Identifier       string      `json:"identifier"`
	Kind             MonikerKind `json:"kind"`
	Version          string      `json:"version"`
	ProjectRoot      string      `json:"projectRoot"`
	PositionEncoding string      `json:"positionEncoding"`

	// Edge fields.
	OutV     ID           `json:"outV"`
	InV      ID           `json:"inV"`
	InVs     []ID         `json:"inVs"`
	Document ID           `json:"document"`
	Property ItemProperty `json:"property"`
}

// Decode parses one dump line into a Record. Unrecognized vertex or edge
// labels fail decoding: the stream is contract-bound to the fixed schema.
func Decode(line []byte) (*Record, error) {
	var raw rawElement
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}

	rec := &Record{ID: raw.ID, Type: raw.Type, Label: raw.Label}
	switch raw.Type {
	case ElementVertex:
		return decodeVertex(rec, &raw)
	case ElementEdge:
		return decodeEdge(rec, &raw)
	default:
		return nil, fmt.Errorf("unrecognized element type %q", raw.Type)
	}
}

func decodeVertex(rec *Record, raw *rawElement) (*Record, error) {
	label := rec.Vertex()
	if !vertexLabels[label] {
		return nil, fmt.Errorf("unrecognized vertex label %q", raw.Label)
	}

	switch label {
	case VertexDocument:
		rec.Document = &Document{URI: raw.URI, LanguageID: raw.LanguageID, Contents: raw.Contents}
	case VertexRange:
		if raw.Start == nil || raw.End == nil {
			return nil, fmt.Errorf("range vertex %s is missing start or end", rec.ID)
		}
		rec.Range = &Range{Start: *raw.Start, End: *raw.End}
	case VertexMoniker:
		rec.Moniker = &Moniker{Scheme: raw.Scheme, Identifier: raw.Identifier, Kind: raw.Kind}
	case VertexMetaData:
		rec.Meta = &MetaData{Version: raw.Version, ProjectRoot: raw.ProjectRoot, PositionEncoding: raw.PositionEncoding}
	}
	return rec, nil
}

func decodeEdge(rec *Record, raw *rawElement) (*Record, error) {
	label := rec.Edge()
	if !edgeLabels[label] {
		return nil, fmt.Errorf("unrecognized edge label %q", raw.Label)
	}

	rec.OutV = raw.OutV
	if raw.OutV == "" {
		return nil, fmt.Errorf("edge %s has no outV", rec.ID)
	}
	if len(raw.InVs) > 0 {
		rec.InVs = raw.InVs
	} else if raw.InV != "" {
		rec.InVs = []ID{raw.InV}
	} else {
		return nil, fmt.Errorf("edge %s has no inV or inVs", rec.ID)
	}

	if label == EdgeItem {
		if !itemProperties[raw.Property] {
			return nil, fmt.Errorf("unrecognized item property %q", raw.Property)
		}
		rec.Property = raw.Property
		rec.Shard = raw.Document
	}
	return rec, nil
}

// String renders a position as line:character for errors and CLI output.
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Character)
}
