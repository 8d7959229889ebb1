package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tci/internal/binding"
	"tci/internal/session"
	"tci/internal/wave"
)

func newBindCommand(ctx *commandContext) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "bind",
		Short: "Align loaded captures with experiment comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rctx context.Context, sess *session.Session) error {
				resp, err := dispatch[session.BindResponse](rctx, sess, session.BindRequest{})
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, bindJSONView{
						BindingID: resp.BindingID,
						Removed:   resp.Removed,
						Results:   resp.Results,
						Report:    resp.Report,
					})
				}
				printBindSummary(cmd.OutOrStdout(), resp, verbose)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every duplicate, ambiguity and unmatched capture")
	return cmd
}

type bindJSONView struct {
	BindingID string                       `json:"binding_id"`
	Removed   int                          `json:"removed"`
	Results   map[wave.Type]binding.Result `json:"results"`
	Report    binding.Report               `json:"report"`
}

func printBindSummary(w io.Writer, resp session.BindResponse, verbose bool) {
	fmt.Fprintf(w, "Binding %s: %d comments retained, %d captures removed\n",
		resp.BindingID, resp.Report.Retained, resp.Removed)

	rows := make([][]string, 0, len(wave.All()))
	for _, wt := range wave.All() {
		r := resp.Results[wt]
		span := "-"
		if r.Len() > 0 {
			span = fmt.Sprintf("%s .. %s", formatFloat(r.Times[0]), formatFloat(r.Times[r.Len()-1]))
		}
		rows = append(rows, []string{
			wt.String(),
			fmt.Sprintf("%d", r.Len()),
			fmt.Sprintf("%d", len(resp.Report.Spurious[wt])),
			span,
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Wave", "Bound", "Unmatched", "Time range"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
	))

	if resp.Report.Blank > 0 || resp.Report.Untimed > 0 {
		fmt.Fprintf(w, "Ignored rows: %d without comment, %d without time\n", resp.Report.Blank, resp.Report.Untimed)
	}
	if resp.Warning != nil {
		fmt.Fprintf(w, "Warning: %v\n", resp.Warning)
	}
	if !verbose {
		return
	}
	for _, d := range resp.Report.Duplicates {
		fmt.Fprintf(w, "  duplicate %q on rows %v, kept row %d\n", d.Comment, d.Rows, d.Kept)
	}
	for _, a := range resp.Report.Ambiguities {
		fmt.Fprintf(w, "  %s %s matches %s, chose %q\n", a.Wave, a.Filename, strings.Join(a.Candidates, ", "), a.Chosen)
	}
	for _, s := range resp.Report.Shared {
		fmt.Fprintf(w, "  %s comment %q bound to %s\n", s.Wave, s.Comment, strings.Join(s.Filenames, ", "))
	}
	for _, wt := range wave.All() {
		for _, name := range resp.Report.Spurious[wt] {
			fmt.Fprintf(w, "  %s unmatched %s\n", wt, name)
		}
	}
}
