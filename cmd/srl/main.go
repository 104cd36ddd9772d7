// Command srl evaluates a rule set to a fixpoint over an RDF graph.
//
// Rule parsing and the full SRL grammar are out of scope for this repo
// (spec.md §1); this command reads a minimal declarative YAML stand-in
// for rule documents (see rulefile.go) and a restricted N-Triples-like
// graph format (see graphfile.go), wiring them to pkg/engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/srl-lang/srl/pkg/engine"
)

func main() {
	cfg := newConfig()

	rootCmd := &cobra.Command{
		Use:           "srl --rules RULES.yaml --graph GRAPH.nt",
		Short:         "Evaluate a rule set to a fixpoint over an RDF graph",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(cfg)
		},
	}

	cfg.registerFlags(rootCmd.Flags())
	rootCmd.MarkFlagRequired(cfg.flags.Rules)
	rootCmd.MarkFlagRequired(cfg.flags.Graph)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config) error {
	if err := cfg.applyYAMLOverrides(); err != nil {
		return err
	}

	rulesFile, err := os.Open(cfg.rulesPath)
	if err != nil {
		return fmt.Errorf("opening rule document: %w", err)
	}
	defer rulesFile.Close()

	rs, err := readRuleSet(rulesFile)
	if err != nil {
		return fmt.Errorf("reading rule document: %w", err)
	}

	graphIn := os.Stdin
	if cfg.graphPath != "-" {
		f, err := os.Open(cfg.graphPath)
		if err != nil {
			return fmt.Errorf("opening graph: %w", err)
		}
		defer f.Close()
		graphIn = f
	}

	g, err := readGraph(graphIn)
	if err != nil {
		return fmt.Errorf("reading graph: %w", err)
	}

	opts := cfg.engineOpts
	opts.Logger = cfg.logger(os.Stderr)

	result, evalErr := engine.Evaluate(rs, g, opts)

	out := os.Stdout
	if cfg.outPath != "-" {
		f, err := os.Create(cfg.outPath)
		if err != nil {
			return fmt.Errorf("opening output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if result.Graph != nil {
		if writeErr := writeGraph(out, result.Graph); writeErr != nil {
			return fmt.Errorf("writing output: %w", writeErr)
		}
	}

	for _, d := range result.Diagnostics {
		fmt.Fprintf(os.Stderr, "diagnostic[%s] rule=%d: %s\n", d.Kind, d.Rule, d.Detail)
	}

	if evalErr != nil {
		return fmt.Errorf("evaluation: %w", evalErr)
	}

	return nil
}
