// Package policy holds the export filter applied by exported-definition
// scans. The identifier conventions involved — the trailing separator that
// marks a definition site, and the noise categories that are never
// meaningfully referenced — are indexer-format heuristics, so they live in
// configuration rather than in code.
package policy

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	"github.com/AdeAttwood/LsifTools/internal/protocol"
)

// Export configures which monikers count as exported definition sites.
type Export struct {
	// DefinitionSuffix is the trailing separator a moniker identifier must
	// carry to mark a definition.
	DefinitionSuffix string `toml:"definition_suffix"`
	// Exclude lists glob patterns matched against the full identifier;
	// matching monikers are dropped even when they otherwise qualify.
	Exclude []string `toml:"exclude"`
}

// Default returns the built-in policy: identifiers ending in ":" are
// definitions; constructors and the usual framework lifecycle and prop-type
// noise are excluded.
func Default() Export {
	return Export{
		DefinitionSuffix: ":",
		Exclude: []string{
			"*constructor*",
			"*componentDidMount*",
			"*propTypes*",
		},
	}
}

// Load reads an Export from a TOML file. A missing file falls back to
// Default so a policy file stays optional.
func Load(path string) (Export, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Export{}, fmt.Errorf("read policy: %w", err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Export{}, fmt.Errorf("parse policy %s: %w", path, err)
	}
	return cfg, nil
}

// Compiled is an Export with its patterns compiled, ready for matching.
type Compiled struct {
	suffix  string
	exclude []glob.Glob
}

// Compile validates the policy and compiles its exclusion patterns.
func (e Export) Compile() (*Compiled, error) {
	c := &Compiled{suffix: e.DefinitionSuffix}
	for _, pattern := range e.Exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
		}
		c.exclude = append(c.exclude, g)
	}
	return c, nil
}

// Keep reports whether m is an exported definition site under this policy:
// export kind, identifier marked as a definition, and not excluded.
func (c *Compiled) Keep(m *protocol.Moniker) bool {
	if m.Kind != protocol.MonikerExport {
		return false
	}
	if c.suffix != "" && !strings.HasSuffix(m.Identifier, c.suffix) {
		return false
	}
	for _, g := range c.exclude {
		if g.Match(m.Identifier) {
			return false
		}
	}
	return true
}
