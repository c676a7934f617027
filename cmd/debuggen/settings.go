package main

import (
	"github.com/spf13/cobra"

	"debuggen/internal/ident"
)

// settings are the effective generation options: manifest values
// overridden by explicitly set flags.
type settings struct {
	Input          string
	Output         string // "" or "-" writes to stdout
	EscapeKeywords bool
	Jobs           int
	Cache          bool
	Verify         bool
	Quiet          bool
	Timings        bool
}

func (s settings) idents() ident.Func {
	if s.EscapeKeywords {
		return ident.Rust
	}
	return ident.Raw
}

func (s settings) identsName() string {
	if s.EscapeKeywords {
		return "rust"
	}
	return "raw"
}

// addGenerateFlags registers the flags shared by gen and plan.
func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	cmd.Flags().Bool("escape-keywords", false, "escape Rust keywords in field accessors (r#type)")
	cmd.Flags().Bool("cache", false, "reuse rendered plans from the disk cache")
	cmd.Flags().Bool("verify", true, "check every procedure against the rendering invariants")
}

func resolveSettings(cmd *cobra.Command, args []string) (settings, error) {
	var s settings
	manifest, _, err := loadProjectManifest(".")
	if err != nil {
		return s, err
	}
	if manifest != nil {
		g := manifest.Config.Generate
		s.Input = manifest.resolvePath(g.Input)
		s.Output = manifest.resolvePath(g.Output)
		s.EscapeKeywords = g.EscapeKeywords
		s.Jobs = g.Jobs
		s.Cache = g.Cache
	}
	s.Verify = true

	if len(args) > 0 {
		s.Input = args[0]
	}
	if s.Input == "" {
		return s, usageError("no input given and no %s with [generate].input found", manifestName)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		if s.Output, err = flags.GetString("output"); err != nil {
			return s, err
		}
	}
	if flags.Changed("escape-keywords") {
		if s.EscapeKeywords, err = flags.GetBool("escape-keywords"); err != nil {
			return s, err
		}
	}
	if flags.Changed("cache") {
		if s.Cache, err = flags.GetBool("cache"); err != nil {
			return s, err
		}
	}
	if flags.Lookup("verify") != nil {
		if s.Verify, err = flags.GetBool("verify"); err != nil {
			return s, err
		}
	}

	root := cmd.Root().PersistentFlags()
	if root.Changed("jobs") || manifest == nil || !manifest.isSet("jobs") {
		if s.Jobs, err = root.GetInt("jobs"); err != nil {
			return s, err
		}
	}
	if s.Jobs < 0 {
		return s, usageError("--jobs must not be negative")
	}
	if s.Quiet, err = root.GetBool("quiet"); err != nil {
		return s, err
	}
	if s.Timings, err = root.GetBool("timings"); err != nil {
		return s, err
	}
	return s, nil
}
