package main

import (
	"fmt"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	lsiftools "github.com/AdeAttwood/LsifTools"
	"github.com/AdeAttwood/LsifTools/internal/lsifuri"
	"github.com/AdeAttwood/LsifTools/internal/printer"
)

var unusedCmd = &cobra.Command{
	Use:   "unused [pattern ...]",
	Short: "Find exported definitions that nothing references",
	Long: "Scans every document in the loaded dumps (or those matching the given " +
		"glob patterns) for exported definitions whose reference count, counting " +
		"the definition itself, is exactly one.",
	RunE: runUnused,
}

func runUnused(cmd *cobra.Command, args []string) error {
	eng, err := loadEngine()
	if err != nil {
		return err
	}

	targets, err := targetDocuments(eng, args)
	if err != nil {
		return err
	}

	// The graph is immutable after loading, so the per-document scans can
	// run concurrently. Results stay ordered by target index.
	results := make([][]lsiftools.Location, len(targets))
	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, uri := range targets {
		i, uri := i, uri
		g.Go(func() error {
			unused, err := scanDocument(eng.Query(), uri)
			if err != nil {
				return err
			}
			results[i] = unused
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var all []lsiftools.Location
	for _, locs := range results {
		all = append(all, locs...)
	}

	if flagFormat == "json" {
		return outputLocations(cmd, "unused", all)
	}

	p := printer.New(flagContext, true)
	out := cmd.OutOrStdout()
	for _, loc := range all {
		rendered, err := p.Render(loc)
		if err != nil {
			// Sources may have moved since the dump was produced; fall back
			// to the bare location.
			rendered = formatLocation(loc)
		}
		fmt.Fprintln(out, rendered)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d unused exported definition(s) in %d document(s)\n", len(all), len(targets))
	return nil
}

// scanDocument finds the exported definitions of one document that only
// their own definition site references.
func scanDocument(q *lsiftools.QueryBuilder, uri string) ([]lsiftools.Location, error) {
	defs, err := q.ExportedDefinitions(uri)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", uri, err)
	}

	var unused []lsiftools.Location
	for _, def := range defs {
		refs, err := q.References(uri, def.Range.Start, lsiftools.ReferenceContext{IncludeDeclaration: true})
		if err != nil {
			return nil, fmt.Errorf("references for %s: %w", uri, err)
		}
		if len(refs) == 1 {
			unused = append(unused, def)
		}
	}
	return unused, nil
}

// targetDocuments selects the document URIs to scan: every document in the
// store, narrowed by glob patterns matched against each document's path.
func targetDocuments(eng *lsiftools.Engine, patterns []string) ([]string, error) {
	uris := eng.Documents()
	if len(patterns) == 0 {
		return uris, nil
	}

	var targets []string
	for _, uri := range uris {
		path, err := lsifuri.ToPath(uri)
		if err != nil {
			continue
		}
		for _, pattern := range patterns {
			ok, err := doublestar.Match(pattern, path)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			if ok || path == pattern {
				targets = append(targets, uri)
				break
			}
		}
	}
	return targets, nil
}
