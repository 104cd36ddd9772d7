package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"

	"github.com/srl-lang/srl/internal/obslog"
	"github.com/srl-lang/srl/pkg/engine"
)

// flagNames mirrors the teacher pack's Flags-struct convention (see
// MacroPower-x's magicschema.Config) so flag names stay adjustable in
// one place without hardcoding strings throughout RegisterFlags.
type flagNames struct {
	Rules         string
	Graph         string
	Output        string
	Config        string
	Inplace       string
	MaxIterations string
	MaxDerived    string
	Verbose       string
}

// config holds the CLI's resolved settings: file paths from flags, plus
// engine options that a YAML file (--config) can override.
type config struct {
	flags flagNames

	rulesPath string
	graphPath string
	outPath   string
	yamlPath  string
	verbose   bool

	engineOpts engine.Options
}

// engineOptionsDoc is the YAML shape accepted by --config, layered on
// top of (and overriding) flag-provided defaults.
type engineOptionsDoc struct {
	Inplace       *bool `yaml:"inplace"`
	MaxIterations *int  `yaml:"max_iterations"`
	MaxDerived    *int  `yaml:"max_derived"`
}

func newConfig() *config {
	return &config{
		flags: flagNames{
			Rules:         "rules",
			Graph:         "graph",
			Output:        "output",
			Config:        "config",
			Inplace:       "inplace",
			MaxIterations: "max-iterations",
			MaxDerived:    "max-derived",
			Verbose:       "verbose",
		},
	}
}

// registerFlags adds the CLI's flags to flags, following the
// StringVarP/BoolVar/IntVar style of MacroPower-x's
// magicschema.Config.RegisterFlags.
func (c *config) registerFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.rulesPath, c.flags.Rules, "r", "", "rule document path (YAML)")
	flags.StringVarP(&c.graphPath, c.flags.Graph, "g", "", "input graph path (N-Triples-like, - for stdin)")
	flags.StringVarP(&c.outPath, c.flags.Output, "o", "-", "output graph path (- for stdout)")
	flags.StringVarP(&c.yamlPath, c.flags.Config, "c", "", "engine options file (YAML), overrides the flags below")
	flags.BoolVar(&c.engineOpts.Inplace, c.flags.Inplace, false, "mutate the input graph rather than copying it first")
	flags.IntVar(&c.engineOpts.MaxIterations, c.flags.MaxIterations, 0, "per-stratum iteration budget (0 = unlimited)")
	flags.IntVar(&c.engineOpts.MaxDerived, c.flags.MaxDerived, 0, "total derived-triple budget (0 = unlimited)")
	flags.BoolVarP(&c.verbose, c.flags.Verbose, "v", false, "log stratum progress to stderr")
}

// applyYAMLOverrides loads c.yamlPath, if set, and overrides any field
// the document specifies explicitly.
func (c *config) applyYAMLOverrides() error {
	if c.yamlPath == "" {
		return nil
	}
	data, err := os.ReadFile(c.yamlPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.yamlPath, err)
	}
	var doc engineOptionsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", c.yamlPath, err)
	}
	if doc.Inplace != nil {
		c.engineOpts.Inplace = *doc.Inplace
	}
	if doc.MaxIterations != nil {
		c.engineOpts.MaxIterations = *doc.MaxIterations
	}
	if doc.MaxDerived != nil {
		c.engineOpts.MaxDerived = *doc.MaxDerived
	}
	return nil
}

func (c *config) logger(stderr io.Writer) *obslog.Logger {
	if !c.verbose {
		return obslog.Discard()
	}
	return obslog.New(stderr)
}
