package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rushteam/riskit/config"
	"github.com/rushteam/riskit/service"
)

func newScoreCmd(all bool) *cobra.Command {
	var output string
	var jsonOutput bool

	use, short := "score [input.csv]", "Score the first client of a CSV file"
	if all {
		use, short = "batch [input.csv]", "Score every client of a CSV file"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				app.Input = args[0]
			}
			if output != "" {
				app.Output = output
			}
			if app.Input == "" {
				return fmt.Errorf("no input file (argument or config input)")
			}

			ctx := cmd.Context()
			svc, err := service.New(ctx, app)
			if err != nil {
				return err
			}
			defer svc.Close()

			res, err := svc.ScoreFile(ctx, app.Input, all)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			return writeResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV (default: config output)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	return cmd
}

func writeResult(w io.Writer, res *service.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run\t%s\n", res.RunID)
	fmt.Fprintln(tw, "ROW\tCLUSTER\tRISK_LEVEL\tPROJECTION")
	for _, a := range res.Assessments {
		proj := make([]string, len(a.Projection))
		for i, p := range a.Projection {
			proj[i] = strconv.FormatFloat(p, 'f', 3, 64)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", a.Row, a.Cluster, a.RiskLevel, strings.Join(proj, ","))
	}
	return tw.Flush()
}

type jsonAssessment struct {
	Row        int               `json:"row"`
	Cluster    int               `json:"cluster"`
	RiskLevel  string            `json:"risk_level"`
	Projection []float64         `json:"projection,omitempty"`
	Labels     map[string]string `json:"labels,omitempty"`
}

func writeJSON(w io.Writer, res *service.Result) error {
	out := struct {
		RunID   string           `json:"run_id"`
		Clients []jsonAssessment `json:"clients"`
	}{RunID: res.RunID}
	for i, a := range res.Assessments {
		ja := jsonAssessment{Row: a.Row, Cluster: a.Cluster, RiskLevel: a.RiskLevel, Projection: a.Projection}
		if c := res.Clients[i]; len(c.Labels) > 0 {
			ja.Labels = make(map[string]string, len(c.Labels))
			for k, l := range c.Labels {
				ja.Labels[k] = l.Value
			}
		}
		out.Clients = append(out.Clients, ja)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
