package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tci/internal/manifest"
	"tci/internal/session"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run <manifest.yaml>",
		Short: "Replay a YAML manifest: load, bind, window, pick and export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, func(rctx context.Context, sess *session.Session) error {
				paths, err := m.WaveformPaths()
				if err != nil {
					return err
				}
				bar := newLoadProgress(cmd.ErrOrStderr(), len(paths), quiet || ctx.jsonOutput())
				res, err := manifest.Run(rctx, sess, m, func(done, _ int) { _ = bar.Set(done) })
				_ = bar.Finish()
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, runJSON(res))
				}
				printRunResult(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	return cmd
}

func printRunResult(w io.Writer, res manifest.Result) {
	fmt.Fprintf(w, "Dataset %s\n", res.Dataset.Dataset)
	printLoadSummary(w, res.Load)
	printBindSummary(w, res.Bind, false)
	if res.Window != nil {
		printWindow(w, *res.Window)
	}
	if res.Commit != nil {
		fmt.Fprintf(w, "Committed arrivals on y axis %q\n", res.Commit.YAxis)
	}
	if res.Arrivals != nil {
		fmt.Fprintf(w, "Wrote %d rows (%s) to %s\n", res.Arrivals.Rows, formatWaves(res.Arrivals.Waves), res.Arrivals.Path)
	}
	if res.Moduli != nil {
		fmt.Fprintf(w, "Wrote %d moduli rows to %s\n", res.Moduli.Rows, res.Moduli.Path)
	}
}

type runJSONView struct {
	Dataset  string                          `json:"dataset"`
	Load     loadJSONView                    `json:"load"`
	Bind     bindJSONView                    `json:"bind"`
	Window   *session.SelectWindowResponse   `json:"window,omitempty"`
	Commit   *session.CommitShapeResponse    `json:"commit,omitempty"`
	Arrivals *session.ExportArrivalsResponse `json:"arrivals,omitempty"`
	Moduli   *session.ExportModuliResponse   `json:"moduli,omitempty"`
}

func runJSON(res manifest.Result) runJSONView {
	view := runJSONView{
		Dataset: res.Dataset.Dataset,
		Bind: bindJSONView{
			BindingID: res.Bind.BindingID,
			Removed:   res.Bind.Removed,
			Results:   res.Bind.Results,
			Report:    res.Bind.Report,
		},
		Window:   res.Window,
		Commit:   res.Commit,
		Arrivals: res.Arrivals,
		Moduli:   res.Moduli,
	}
	view.Load.fromWaveforms(res.Load)
	return view
}
