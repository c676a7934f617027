package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const starterManifest = `[generate]
input = "types.toml"
output = "debug_impls.rs"
escape_keywords = false
jobs = 0
cache = false
`

const starterGraph = `# Resolved type graph consumed by debuggen.

[[type]]
id = "int"
kind = "int"

[[type]]
id = "Point"
kind = "struct"

  [[type.field]]
  name = "x"
  type = "int"

  [[type.field]]
  name = "y"
  type = "int"
`

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a starter debuggen.toml and type graph",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, manifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(starterManifest), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", manifestPath, err)
	}
	created := []string{manifestPath}

	graphPath := filepath.Join(target, "types.toml")
	if _, err := os.Stat(graphPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(graphPath, []byte(starterGraph), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", graphPath, err)
		}
		created = append(created, graphPath)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	if !quiet {
		for _, p := range created {
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", p)
		}
	}
	return nil
}
