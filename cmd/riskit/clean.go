package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/rushteam/riskit/eda"
	"github.com/rushteam/riskit/frame"
)

func newCleanCmd() *cobra.Command {
	var (
		output    string
		threshold float64
		impute    []string
		dates     []string
		capCols   []string
	)

	cmd := &cobra.Command{
		Use:   "clean <input.csv>",
		Short: "Normalise dates, impute nulls and cap upper outliers",
		Long: `Normalise date columns to dates, fill nulls by distribution
(median when |skew| < threshold, otherwise mode) and replace values above
Q3 + 1.5*IQR with the column median. Steps run in that order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := frame.ReadCSVFile(args[0])
			if err != nil {
				return err
			}

			convs, err := eda.ConvertDates(t, dates...)
			if err != nil {
				return err
			}
			for _, c := range convs {
				log.Printf("[riskit] %s: %d dates parsed, %d null", c.Column, c.Parsed, c.Nulls)
			}

			if len(impute) == 0 {
				impute = t.Names()
			}
			ims, err := eda.Impute(t, threshold, impute...)
			for _, im := range ims {
				if im.Filled > 0 {
					log.Printf("[riskit] %s: filled %d null(s) with %s (%s)", im.Column, im.Filled, im.Value.Text(), im.Strategy)
				}
			}
			if err != nil {
				return err
			}

			for _, name := range capCols {
				n, err := eda.CapUpper(t, name)
				if err != nil {
					return err
				}
				log.Printf("[riskit] %s: capped %d value(s) to the median", name, n)
			}

			if output == "" || output == "-" {
				return t.WriteCSV(os.Stdout)
			}
			if err := t.WriteCSVFile(output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV (default stdout)")
	cmd.Flags().Float64Var(&threshold, "skew-threshold", eda.DefaultSkewThreshold, "|skew| below which the median is used")
	cmd.Flags().StringSliceVar(&impute, "impute", nil, "columns to impute (default: all)")
	cmd.Flags().StringSliceVar(&dates, "dates", nil, "date columns to normalise")
	cmd.Flags().StringSliceVar(&capCols, "cap", nil, "numeric columns whose upper outliers are replaced by the median")
	return cmd
}
