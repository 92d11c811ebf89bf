package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/buddy/internal/scenario"
)

func newRunCmd(config *baseConfiguration) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run a YAML allocation script against a fresh pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(filepath.Clean(args[0]))
			if err != nil {
				return fmt.Errorf("opening script: %w", err)
			}
			defer f.Close()

			s, err := scenario.Load(f)
			if err != nil {
				return err
			}
			return runScript(cmd.OutOrStdout(), config, s, quiet)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only reports, not per-step results")
	return cmd
}

func newDemoCmd(config *baseConfiguration) *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in 16-byte pool walk-through",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dump {
				data, err := scenario.Demo().Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return runScript(cmd.OutOrStdout(), config, scenario.Demo(), false)
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "print the demo script as YAML instead of running it")
	return cmd
}

func runScript(out io.Writer, config *baseConfiguration, s scenario.Script, quiet bool) error {
	opts, err := config.poolOptions()
	if err != nil {
		return err
	}
	results, err := scenario.Execute(s, out, config.log, opts...)
	if !quiet {
		for _, r := range results {
			fmt.Fprintf(out, "step %2d: %-16s offset %3d  %s\n", r.Index, r.Step, r.Offset, r.Outcome())
		}
	}
	return err
}
