package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	lsiftools "github.com/AdeAttwood/LsifTools"
	"github.com/AdeAttwood/LsifTools/internal/lsifuri"
)

var flagIncludeDeclaration bool

var declarationsCmd = &cobra.Command{
	Use:   "declarations <file> <line>:<col>",
	Short: "Find the declaration sites of the symbol at a position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPositionQuery(cmd, args, "declarations",
			func(q *lsiftools.QueryBuilder, uri string, pos lsiftools.Position) ([]lsiftools.Location, error) {
				return q.Declarations(uri, pos)
			})
	},
}

var definitionsCmd = &cobra.Command{
	Use:   "definitions <file> <line>:<col>",
	Short: "Find the definition sites of the symbol at a position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPositionQuery(cmd, args, "definitions",
			func(q *lsiftools.QueryBuilder, uri string, pos lsiftools.Position) ([]lsiftools.Location, error) {
				return q.Definitions(uri, pos)
			})
	},
}

var referencesCmd = &cobra.Command{
	Use:   "references <file> <line>:<col>",
	Short: "Find every reference to the symbol at a position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPositionQuery(cmd, args, "references",
			func(q *lsiftools.QueryBuilder, uri string, pos lsiftools.Position) ([]lsiftools.Location, error) {
				return q.References(uri, pos, lsiftools.ReferenceContext{IncludeDeclaration: flagIncludeDeclaration})
			})
	},
}

var exportsCmd = &cobra.Command{
	Use:   "exports <file>",
	Short: "List every exported definition a document declares",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := loadEngine()
		if err != nil {
			return err
		}
		locs, err := eng.Query().ExportedDefinitions(uriForArg(args[0]))
		if err != nil {
			return err
		}
		return outputLocations(cmd, "exports", locs)
	},
}

func init() {
	referencesCmd.Flags().BoolVar(&flagIncludeDeclaration, "include-declaration", false, "count declaration and definition sites as references")
}

// runPositionQuery is the shared shape of the position commands: load, parse
// the position, run one query, print.
func runPositionQuery(cmd *cobra.Command, args []string, name string,
	query func(*lsiftools.QueryBuilder, string, lsiftools.Position) ([]lsiftools.Location, error),
) error {
	eng, err := loadEngine()
	if err != nil {
		return err
	}
	pos, err := parsePosition(args[1])
	if err != nil {
		return err
	}
	locs, err := query(eng.Query(), uriForArg(args[0]), pos)
	if err != nil {
		return err
	}
	return outputLocations(cmd, name, locs)
}

// uriForArg accepts either a URI or a file system path.
func uriForArg(arg string) string {
	if strings.Contains(arg, "://") {
		return arg
	}
	return lsifuri.FromPath(arg)
}

// parsePosition parses a 0-based "line:col" argument.
func parsePosition(arg string) (lsiftools.Position, error) {
	line, col, ok := strings.Cut(arg, ":")
	if !ok {
		return lsiftools.Position{}, fmt.Errorf("invalid position %q: expected line:col", arg)
	}
	l, err := strconv.Atoi(line)
	if err != nil || l < 0 {
		return lsiftools.Position{}, fmt.Errorf("invalid line %q: must be a non-negative integer", line)
	}
	c, err := strconv.Atoi(col)
	if err != nil || c < 0 {
		return lsiftools.Position{}, fmt.Errorf("invalid column %q: must be a non-negative integer", col)
	}
	return lsiftools.Position{Line: l, Character: c}, nil
}
