package main

import (
	"io"

	"github.com/spf13/cobra"

	"debuggen/internal/driver"
)

var planCmd = &cobra.Command{
	Use:   "plan [input.toml]",
	Short: "Write the rendering plan (format strings and value expressions)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlan,
}

func init() {
	addGenerateFlags(planCmd)
	planCmd.Flags().String("format", "json", "plan encoding (json|msgpack)")
}

func runPlan(cmd *cobra.Command, args []string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format, err := driver.ParsePlanFormat(formatStr)
	if err != nil {
		return err
	}

	r, done, err := startRun(cmd, args, "plan")
	if err != nil {
		return err
	}
	defer done()

	res, err := r.generate()
	if err != nil {
		return err
	}
	return r.phase("emit", func() (string, error) {
		return formatStr, r.writeOutput(func(w io.Writer) error {
			return driver.EncodePlan(w, driver.NewPlan(res), format)
		})
	})
}
