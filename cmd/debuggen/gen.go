package main

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"debuggen/internal/emit"
)

var genCmd = &cobra.Command{
	Use:   "gen [input.toml]",
	Short: "Generate Rust Debug impls for every whitelisted record",
	Long: `gen loads a type graph description and writes one impl ::std::fmt::Debug
block per whitelisted struct or union, in declaration order. The input defaults
to [generate].input of the nearest debuggen.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGen,
}

func init() {
	addGenerateFlags(genCmd)
	genCmd.Flags().String("ui", "auto", "live progress view (auto|on|off)")
}

func runGen(cmd *cobra.Command, args []string) error {
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	r, done, err := startRun(cmd, args, "gen")
	if err != nil {
		return err
	}
	defer done()
	r.tui = shouldUseTUI(mode, r.settings)

	res, err := r.generate()
	if err != nil {
		return err
	}
	return r.phase("emit", func() (string, error) {
		units := res.Units()
		err := r.writeOutput(func(w io.Writer) error {
			return emit.File(w, units, emit.FileOptions{
				Header: []string{"automatically generated by debuggen; do not edit"},
			})
		})
		return strconv.Itoa(len(units)) + " impls", err
	})
}
