package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rushteam/riskit/core"
	"github.com/rushteam/riskit/eda"
	"github.com/rushteam/riskit/frame"
)

func newProfileCmd() *cobra.Command {
	var (
		top       int
		maxValues int
		dates     []string
		counts    []string
		freq      string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "profile <input.csv>",
		Short: "Print null, descriptive, outlier, category and date profiles of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				eda.Logf = func(string, ...any) {}
			}
			t, err := frame.ReadCSVFile(args[0])
			if err != nil {
				return err
			}
			if len(counts) == 0 {
				counts = categoricalColumns(t, dates)
			}
			return profile(cmd.OutOrStdout(), t, profileOptions{
				top: top, maxValues: maxValues, dates: dates, counts: counts, freq: freq,
			})
		},
	}
	cmd.Flags().IntVar(&top, "top", 5, "columns listed by highest std / range")
	cmd.Flags().IntVar(&maxValues, "max-values", 10, "values listed per categorical column (0 = all)")
	cmd.Flags().StringSliceVar(&dates, "dates", nil, "date columns to summarise")
	cmd.Flags().StringSliceVar(&counts, "counts", nil, "categorical columns to count (default: all non-numeric, non-date)")
	cmd.Flags().StringVar(&freq, "freq", eda.FreqYear, "date distribution granularity: Y, M or D")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log per-column details")
	return cmd
}

type profileOptions struct {
	top, maxValues int
	dates, counts  []string
	freq           string
}

func categoricalColumns(t *frame.Table, exclude []string) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, n := range exclude {
		skip[n] = struct{}{}
	}
	for _, n := range t.NumericColumns() {
		skip[n] = struct{}{}
	}
	var out []string
	for _, n := range t.Names() {
		if _, ok := skip[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

func profile(w io.Writer, t *frame.Table, opts profileOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "rows\t%d\ncolumns\t%d\n", t.NumRows(), len(t.Names()))

	nulls, err := eda.NullColumns(t, t.Names())
	if err != nil {
		return err
	}
	section(tw, "NULLS")
	if len(nulls) == 0 {
		fmt.Fprintln(tw, "no null values")
	} else {
		fmt.Fprintln(tw, "COLUMN\tNULLS\tPERCENT")
		for _, r := range nulls {
			fmt.Fprintf(tw, "%s\t%d\t%.2f%%\n", r.Column, r.Nulls, r.Percent)
		}
	}

	stats := eda.Describe(t)
	section(tw, "DESCRIBE")
	fmt.Fprintln(tw, "COLUMN\tCOUNT\tMEAN\tMEDIAN\tMODE\tSTD\tMIN\t25%\t50%\t75%\tMAX\tRANGE\tIQR")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Column, s.Count, joinFloats(
			s.Mean, s.Median, s.Mode, s.Std, s.Min, s.P25, s.P50, s.P75, s.Max, s.Range, s.IQR))
	}
	for _, metric := range []string{"std", "range"} {
		ranked, err := eda.TopBy(stats, metric, opts.top)
		if err != nil {
			return err
		}
		section(tw, fmt.Sprintf("TOP %d BY %s", opts.top, strings.ToUpper(metric)))
		for _, s := range ranked {
			v, _ := s.Metric(metric)
			fmt.Fprintf(tw, "%s\t%s\n", s.Column, formatFloat(v))
		}
	}

	reports, err := eda.ListOutliers(t, t.NumericColumns()...)
	if err != nil {
		return err
	}
	section(tw, "OUTLIERS (IQR)")
	fmt.Fprintln(tw, "COLUMN\tN\tOUTLIERS\tLOWER\tUPPER\tWHISKER_LOW\tWHISKER_HIGH")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", r.Column, r.Count, len(r.Outliers),
			joinFloats(r.Bounds.Lower, r.Bounds.Upper, r.Box.WhiskerLow, r.Box.WhiskerHigh))
	}

	for _, name := range opts.counts {
		vc, err := eda.ValueCounts(t, name)
		if err != nil {
			return err
		}
		section(tw, "VALUES "+name)
		for i, c := range vc {
			if opts.maxValues > 0 && i == opts.maxValues {
				fmt.Fprintf(tw, "...\t%d more\n", len(vc)-i)
				break
			}
			fmt.Fprintf(tw, "%s\t%d\n", displayValue(c.Value), c.Count)
		}
	}

	if len(opts.dates) > 0 {
		summaries, err := eda.SummarizeDates(t, opts.dates...)
		if err != nil {
			return err
		}
		section(tw, "DATES")
		fmt.Fprintln(tw, "COLUMN\tMIN\tMAX\tRANGE_DAYS\tNULLS\tUNIQUE")
		for _, s := range summaries {
			if !s.HasRange {
				fmt.Fprintf(tw, "%s\t-\t-\t-\t%d\t%d\n", s.Column, s.Nulls, s.Unique)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n", s.Column,
				s.Min.Format("2006-01-02"), s.Max.Format("2006-01-02"), s.RangeDays, s.Nulls, s.Unique)
		}
		for _, name := range opts.dates {
			periods, err := eda.DateCounts(t, name, opts.freq)
			if err != nil {
				return err
			}
			section(tw, fmt.Sprintf("DATES %s BY %s", name, opts.freq))
			for _, p := range periods {
				fmt.Fprintf(tw, "%s\t%d\n", p.Period, p.Count)
			}
		}
	}
	return tw.Flush()
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n== %s\n", title)
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return fmt.Sprintf("%.3f", f)
}

func joinFloats(fs ...float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = formatFloat(f)
	}
	return strings.Join(parts, "\t")
}

func displayValue(v core.Value) string {
	if v.IsNull() {
		return "<null>"
	}
	return v.Text()
}
