package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	lsiftools "github.com/AdeAttwood/LsifTools"
	"github.com/AdeAttwood/LsifTools/internal/policy"
)

var (
	flagDumps   []string
	flagFormat  string
	flagPolicy  string
	flagContext int
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "lsif-tools",
	Short:         "Structural queries over LSIF code-navigation dumps",
	Long:          "lsif-tools loads one or more LSIF dumps into an in-memory graph and answers declaration, definition and reference queries against it. All line and column numbers are 0-based.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(flagFormat); err != nil {
			return err
		}
		setupLogging()
		return nil
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringArrayVar(&flagDumps, "dump", nil, "LSIF dump file to load; repeat to merge several dumps")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagPolicy, "policy", "", "TOML export policy file (defaults to the built-in policy)")
	rootCmd.PersistentFlags().IntVar(&flagContext, "context", 2, "source context lines around each printed location")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "log load diagnostics to stderr")

	rootCmd.AddCommand(unusedCmd)
	rootCmd.AddCommand(declarationsCmd)
	rootCmd.AddCommand(definitionsCmd)
	rootCmd.AddCommand(referencesCmd)
	rootCmd.AddCommand(exportsCmd)
}

func validateFormat(format string) error {
	if format != "json" && format != "text" {
		return fmt.Errorf("invalid format %q: must be json or text", format)
	}
	return nil
}

func setupLogging() {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadEngine builds an Engine from the --dump and --policy flags. Every dump
// is merged into one graph; the engine is ready for read-only queries when
// this returns.
func loadEngine() (*lsiftools.Engine, error) {
	if len(flagDumps) == 0 {
		return nil, fmt.Errorf("no dumps given: pass at least one --dump file")
	}

	export := policy.Default()
	if flagPolicy != "" {
		var err error
		export, err = policy.Load(flagPolicy)
		if err != nil {
			return nil, err
		}
	}

	eng, err := lsiftools.New(
		lsiftools.WithLogger(slog.Default()),
		lsiftools.WithExportPolicy(export),
	)
	if err != nil {
		return nil, err
	}
	for _, dump := range flagDumps {
		if err := eng.LoadFile(dump); err != nil {
			return nil, err
		}
	}
	return eng, nil
}
