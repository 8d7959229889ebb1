package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tci/internal/arrival"
	"tci/internal/export"
	"tci/internal/session"
	"tci/internal/wave"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "show [wave]",
		Short: "Show bound captures and their arrival times",
		Long: "Show lists every bound capture of the active dataset with its time,\n" +
			"experiment row and arrival. With --export it reads an exported arrival\n" +
			"CSV back instead.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			waves := wave.All()
			if len(args) == 1 {
				w, err := wave.Parse(args[0])
				if err != nil {
					return err
				}
				waves = []wave.Type{w}
			}
			if exportPath != "" {
				return showExport(cmd, ctx, exportPath, waves)
			}
			return ctx.withSession(cmd, func(rctx context.Context, sess *session.Session) error {
				resp, err := dispatch[session.InspectResponse](rctx, sess, session.InspectRequest{})
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				printInspect(cmd.OutOrStdout(), resp, waves)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&exportPath, "export", "", "Read back an exported arrival CSV")
	return cmd
}

func printInspect(w io.Writer, resp session.InspectResponse, waves []wave.Type) {
	if resp.BindingID == "" {
		fmt.Fprintf(w, "Dataset %s is not bound\n", resp.Dataset)
		return
	}
	fmt.Fprintf(w, "Dataset %s, binding %s, y axis %s\n", resp.Dataset, resp.BindingID, resp.YAxis)
	for _, wt := range waves {
		result := resp.Results[wt]
		if result.Len() == 0 {
			continue
		}
		set := resp.Arrivals[wt]
		rows := make([][]string, 0, result.Len())
		for i := range result.Len() {
			arr := "-"
			if i < len(set) {
				arr = formatFloat(set[i])
			}
			marker := ""
			if resp.Window != nil && resp.Window.Contains(result.Times[i]) {
				marker = "*"
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", result.LocalIndices[i]),
				result.Filenames[i],
				formatFloat(result.Times[i]),
				fmt.Sprintf("%d", result.ExperimentIndices[i]),
				arr,
				marker,
			})
		}
		fmt.Fprintf(w, "\n%s\n", wt)
		fmt.Fprintln(w, renderTable(
			[]string{"Track", "File", "Time", "Row", "Arrival", "Window"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft},
		))
	}
}

func showExport(cmd *cobra.Command, ctx *commandContext, path string, waves []wave.Type) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	defer file.Close()
	cols, err := export.ReadArrivals(file)
	if err != nil {
		return err
	}
	if ctx.jsonOutput() {
		return writeJSON(cmd, exportJSON(cols))
	}
	out := cmd.OutOrStdout()
	for _, wt := range waves {
		pairs, ok := cols[wt]
		if !ok {
			continue
		}
		rows := make([][]string, 0, len(pairs))
		for _, p := range pairs {
			rows = append(rows, []string{formatFloat(p.Time), formatFloat(p.Value)})
		}
		fmt.Fprintf(out, "%s\n", wt)
		fmt.Fprintln(out, renderTable([]string{"Time", "Arrival"}, rows, []columnAlignment{alignRight, alignRight}))
	}
	return nil
}

type exportColumnView struct {
	Times    []float64   `json:"times"`
	Arrivals arrival.Set `json:"arrivals"`
}

// exportJSON splits the read-back pairs so undefined arrivals encode as null.
func exportJSON(cols map[wave.Type][]export.Pair) map[wave.Type]exportColumnView {
	out := make(map[wave.Type]exportColumnView, len(cols))
	for w, pairs := range cols {
		view := exportColumnView{Times: make([]float64, len(pairs)), Arrivals: make(arrival.Set, len(pairs))}
		for i, p := range pairs {
			view.Times[i] = p.Time
			view.Arrivals[i] = p.Value
		}
		out[w] = view
	}
	return out
}
