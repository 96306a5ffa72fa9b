// Package printer renders a location together with its surrounding source
// lines for terminal display. It is a caller-side collaborator of the query
// surface: the graph returns structured locations, the printer turns one
// into text. Source files are read from disk at render time.
package printer

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AdeAttwood/LsifTools/internal/lsifuri"
	"github.com/AdeAttwood/LsifTools/internal/protocol"
	"github.com/AdeAttwood/LsifTools/internal/store"
)

// Printer formats locations with a fixed number of context lines on either
// side of the span.
type Printer struct {
	context   int
	header    lipgloss.Style
	gutter    lipgloss.Style
	highlight lipgloss.Style
}

// New returns a Printer with context lines of surrounding source. When
// styled is false every style is a no-op, which is what tests and piped
// output want.
func New(context int, styled bool) *Printer {
	p := &Printer{context: context}
	if styled {
		p.header = lipgloss.NewStyle().Bold(true)
		p.gutter = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		p.highlight = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	}
	return p
}

// Render returns the location header followed by the spanning source lines
// and their context, with the spanned lines highlighted.
func (p *Printer) Render(loc store.Location) (string, error) {
	path, err := lsifuri.ToPath(loc.URI)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	lines := strings.Split(string(data), "\n")

	start := loc.Range.Start.Line - p.context
	if start < 0 {
		start = 0
	}
	end := loc.Range.End.Line + p.context
	if end > len(lines)-1 {
		end = len(lines) - 1
	}

	var b strings.Builder
	header := fmt.Sprintf("%s:%d:%d", path, loc.Range.Start.Line+1, loc.Range.Start.Character+1)
	b.WriteString(p.header.Render(header))
	b.WriteByte('\n')

	for i := start; i <= end; i++ {
		gutter := fmt.Sprintf("%4d | ", i+1)
		b.WriteString(p.gutter.Render(gutter))
		if i >= loc.Range.Start.Line && i <= loc.Range.End.Line {
			b.WriteString(p.renderSpanned(lines[i], i, loc.Range))
		} else {
			b.WriteString(lines[i])
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// renderSpanned highlights the columns of one line that fall inside the
// location's range. End-inclusive on both axes, matching the graph's range
// semantics.
func (p *Printer) renderSpanned(line string, lineNo int, r protocol.Range) string {
	from := 0
	if lineNo == r.Start.Line {
		from = clamp(r.Start.Character, 0, len(line))
	}
	to := len(line)
	if lineNo == r.End.Line {
		to = clamp(r.End.Character+1, from, len(line))
	}
	return line[:from] + p.highlight.Render(line[from:to]) + line[to:]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
