package store

import (
	"github.com/AdeAttwood/LsifTools/internal/lsifuri"
	"github.com/AdeAttwood/LsifTools/internal/protocol"
)

// RangesAt maps a (uri, position) query to the most specific enclosing range
// in each document instance sharing that URI, one representative per
// instance. An instance whose containing ranges miss the position
// contributes nothing; an instance with no ranges at all marks the whole
// document set as having no usable content and the query returns nil.
func (g *Graph) RangesAt(uri string, pos protocol.Position) []protocol.ID {
	docs := g.documentsByURI[lsifuri.Normalize(uri)]
	if len(docs) == 0 {
		return nil
	}

	var result []protocol.ID
	for _, docID := range docs {
		ranges := g.containedRanges(docID)
		if len(ranges) == 0 {
			return nil
		}

		var best protocol.ID
		var bestSpan *protocol.Range
		for _, id := range ranges {
			span := g.vertex(id).Range
			if !containsPosition(span, pos) {
				continue
			}
			// Prefer the range nested inside all others; equal spans are
			// interchangeable.
			if bestSpan == nil || containsRange(bestSpan, span) {
				best, bestSpan = id, span
			}
		}
		if bestSpan != nil {
			result = append(result, best)
		}
	}
	return result
}

// containsPosition reports whether pos falls inside r, inclusive on both the
// start and end boundary.
func containsPosition(r *protocol.Range, pos protocol.Position) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character > r.End.Character {
		return false
	}
	return true
}

// containsRange reports whether inner lies entirely within outer, treating
// equal boundaries as contained.
func containsRange(outer, inner *protocol.Range) bool {
	return !positionBefore(inner.Start, outer.Start) && !positionBefore(outer.End, inner.End)
}

// positionBefore reports whether a orders strictly before b.
func positionBefore(a, b protocol.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Character < b.Character
}
