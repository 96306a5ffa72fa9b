package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	lsiftools "github.com/AdeAttwood/LsifTools"
)

// CLIResult is the top-level JSON envelope for all query commands.
type CLIResult struct {
	Command string        `json:"command"`
	Results []CLILocation `json:"results"`
}

// CLILocation is a JSON-friendly location. Lines and columns stay 0-based,
// matching the dump format.
type CLILocation struct {
	URI       string `json:"uri"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// outputLocations prints locations in the format selected by --format.
func outputLocations(cmd *cobra.Command, command string, locs []lsiftools.Location) error {
	out := cmd.OutOrStdout()

	if flagFormat == "json" {
		result := CLIResult{Command: command, Results: make([]CLILocation, 0, len(locs))}
		for _, loc := range locs {
			result.Results = append(result.Results, CLILocation{
				URI:       loc.URI,
				StartLine: loc.Range.Start.Line,
				StartCol:  loc.Range.Start.Character,
				EndLine:   loc.Range.End.Line,
				EndCol:    loc.Range.End.Character,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	for _, loc := range locs {
		fmt.Fprintln(out, formatLocation(loc))
	}
	return nil
}

// formatLocation renders one location as "uri:line:col" with 1-based
// positions for human output.
func formatLocation(loc lsiftools.Location) string {
	return fmt.Sprintf("%s:%d:%d", loc.URI, loc.Range.Start.Line+1, loc.Range.Start.Character+1)
}
