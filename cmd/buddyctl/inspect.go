package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/buddy"
)

const (
	keyOrderMax = "order-max"
	keyOrderMin = "order-min"
	keyLevel    = "level"
)

func newInspectCmd(config *baseConfiguration) *cobra.Command {
	var (
		orderMax, orderMin int
		level              string
	)
	cmd := &cobra.Command{
		Use:   "inspect [size...]",
		Short: "Allocate the given sizes from a fresh pool and report",
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := buddy.ParseReportLevel(level)
			if err != nil {
				return err
			}
			opts, err := config.poolOptions()
			if err != nil {
				return err
			}
			p, err := buddy.New(orderMax, orderMin, opts...)
			if err != nil {
				return err
			}
			defer p.Close()

			out := cmd.OutOrStdout()
			for _, arg := range args {
				size, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("bad size %q: %w", arg, err)
				}
				off, err := p.AllocOffset(size)
				if err != nil {
					fmt.Fprintf(out, "alloc %d: %v\n", size, err)
					continue
				}
				fmt.Fprintf(out, "alloc %d: offset %d\n", size, off)
			}

			if _, err := p.Report(out, lvl, "inspect"); err != nil {
				return err
			}
			m := p.Metrics()
			fmt.Fprintf(out, "blocks: %d, largest free: %d, utilization: %.1f%%\n", m.NumBlocks, m.LargestFree, m.Utilization*100)
			return nil
		},
	}
	cmd.Flags().IntVar(&orderMax, keyOrderMax, 16, "pool size exponent")
	cmd.Flags().IntVar(&orderMin, keyOrderMin, 4, "minimum block size exponent")
	cmd.Flags().StringVar(&level, keyLevel, "total", "report level (none, total, detail)")
	return cmd
}
