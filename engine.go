package lsiftools

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AdeAttwood/LsifTools/internal/policy"
	"github.com/AdeAttwood/LsifTools/internal/store"
)

// Engine owns one graph store for a set of merged dumps. Loading is
// sequential and must finish before the first query; afterwards the graph is
// immutable and safe for concurrent readers.
type Engine struct {
	graph  *store.Graph
	policy *policy.Compiled
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	logger *slog.Logger
	export policy.Export
}

// WithLogger routes the engine's warnings and load diagnostics to logger
// instead of slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithExportPolicy replaces the default export filter used by
// [QueryBuilder.ExportedDefinitions].
func WithExportPolicy(export policy.Export) Option {
	return func(c *config) {
		c.export = export
	}
}

// New creates an empty Engine.
func New(opts ...Option) (*Engine, error) {
	cfg := config{
		logger: slog.Default(),
		export: policy.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	compiled, err := cfg.export.Compile()
	if err != nil {
		return nil, fmt.Errorf("lsiftools: compile export policy: %w", err)
	}

	return &Engine{
		graph:  store.NewGraph(cfg.logger),
		policy: compiled,
		logger: cfg.logger,
	}, nil
}

// LoadFile ingests one dump file into the engine's graph. Several files may
// be loaded in sequence to merge independently produced dumps; order does
// not affect query results.
func (e *Engine) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("lsiftools: open dump: %w", err)
	}
	defer f.Close()
	return e.Load(f, filepath.Base(path))
}

// Load ingests one dump from r. The name labels the dump in errors and
// warnings.
func (e *Engine) Load(r io.Reader, name string) error {
	if err := e.graph.Load(r, name); err != nil {
		return fmt.Errorf("lsiftools: load %s: %w", name, err)
	}
	return nil
}

// Documents returns every document URI known to the loaded dumps, sorted.
func (e *Engine) Documents() []string {
	return e.graph.DocumentURIs()
}

// ProjectRoot returns the workspace root shared by the loaded dumps.
func (e *Engine) ProjectRoot() string {
	return e.graph.ProjectRoot()
}

// Query returns a new QueryBuilder over the loaded graph.
func (e *Engine) Query() *QueryBuilder {
	return &QueryBuilder{graph: e.graph, policy: e.policy}
}
