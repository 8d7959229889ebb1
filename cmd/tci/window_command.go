package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tci/internal/session"
	"tci/internal/wave"
	"tci/internal/window"
)

func newWindowCommand(ctx *commandContext) *cobra.Command {
	var minFlag, maxFlag float64
	var wavesFlag string

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Select the captures inside a time interval",
		Long: "Window selects the bound captures whose time lies in [--min, --max].\n" +
			"Without either bound the full bound time range is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := parseWaveSet(wavesFlag)
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, func(rctx context.Context, sess *session.Session) error {
				req := session.SelectWindowRequest{Active: active}
				if cmd.Flags().Changed("min") || cmd.Flags().Changed("max") {
					iv, err := explicitInterval(rctx, sess, cmd, minFlag, maxFlag)
					if err != nil {
						return err
					}
					req.Interval = &iv
				}
				resp, err := dispatch[session.SelectWindowResponse](rctx, sess, req)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				printWindow(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&minFlag, "min", 0, "Lower time bound (inclusive)")
	cmd.Flags().Float64Var(&maxFlag, "max", 0, "Upper time bound (inclusive)")
	cmd.Flags().StringVar(&wavesFlag, "waves", "", "Comma separated waves to select (default: configured active waves)")
	return cmd
}

// explicitInterval fills an omitted bound from the full bound time range.
func explicitInterval(ctx context.Context, sess *session.Session, cmd *cobra.Command, lo, hi float64) (window.Interval, error) {
	iv := window.Interval{Min: lo, Max: hi}
	if cmd.Flags().Changed("min") && cmd.Flags().Changed("max") {
		return iv, nil
	}
	full, err := dispatch[session.SelectWindowResponse](ctx, sess, session.SelectWindowRequest{})
	if err != nil {
		return iv, err
	}
	if !cmd.Flags().Changed("min") {
		iv.Min = full.Interval.Min
	}
	if !cmd.Flags().Changed("max") {
		iv.Max = full.Interval.Max
	}
	return iv, nil
}

func printWindow(w io.Writer, resp session.SelectWindowResponse) {
	fmt.Fprintf(w, "Window [%s, %s]\n", formatFloat(resp.Interval.Min), formatFloat(resp.Interval.Max))
	rows := make([][]string, 0, len(resp.Selections))
	for _, wt := range wave.All() {
		sel, ok := resp.Selections[wt]
		if !ok {
			continue
		}
		rows = append(rows, []string{wt.String(), fmt.Sprintf("%d", sel.Len()), fmt.Sprint(sel.LocalIndices)})
	}
	fmt.Fprintln(w, renderTable([]string{"Wave", "Selected", "Tracks"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
}
