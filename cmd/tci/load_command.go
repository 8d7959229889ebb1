package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"tci/internal/session"
	"tci/internal/wave"
)

func newLoadCommand(ctx *commandContext) *cobra.Command {
	var experimentPath string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "load [captures...]",
		Short: "Load waveform captures and the experimental record",
		Long: "Load replaces the active dataset's captures with the given .trc files and,\n" +
			"with --experiment, reads the experimental record CSV. Either one clears\n" +
			"any previous binding and picked arrivals.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && experimentPath == "" {
				return errors.New("nothing to load: pass capture files and/or --experiment")
			}
			return ctx.withSession(cmd, func(rctx context.Context, sess *session.Session) error {
				out := cmd.OutOrStdout()
				var view loadJSONView
				if len(args) > 0 {
					bar := newLoadProgress(cmd.ErrOrStderr(), len(args), quiet || ctx.jsonOutput())
					resp, err := dispatch[session.LoadWaveformsResponse](rctx, sess, session.LoadWaveformsRequest{
						Paths:    args,
						Progress: func(done, _ int) { _ = bar.Set(done) },
					})
					_ = bar.Finish()
					if err != nil {
						return err
					}
					view.fromWaveforms(resp)
					if !ctx.jsonOutput() {
						printLoadSummary(out, resp)
					}
				}
				if experimentPath != "" {
					resp, err := dispatch[session.LoadExperimentResponse](rctx, sess, session.LoadExperimentRequest{Path: experimentPath})
					if err != nil {
						return err
					}
					view.Experiment = &resp
					if !ctx.jsonOutput() {
						fmt.Fprintf(out, "Experiment: %d rows, parameters %s\n", resp.Rows, strings.Join(resp.Params, ", "))
					}
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, view)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&experimentPath, "experiment", "e", "", "Experimental record CSV")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	return cmd
}

func newLoadProgress(w io.Writer, total int, hidden bool) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("loading captures"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetVisibility(!hidden),
	)
}

func printLoadSummary(w io.Writer, resp session.LoadWaveformsResponse) {
	fmt.Fprintf(w, "Loaded %d captures (%s)\n", resp.Summary.Loaded, humanize.Bytes(uint64(resp.Summary.Bytes)))
	rows := make([][]string, 0, len(wave.All()))
	for _, wt := range wave.All() {
		rows = append(rows, []string{wt.String(), fmt.Sprintf("%d", resp.Counts[wt])})
	}
	fmt.Fprintln(w, renderTable([]string{"Wave", "Captures"}, rows, []columnAlignment{alignLeft, alignRight}))
	if n := len(resp.Summary.Rejected); n > 0 {
		fmt.Fprintf(w, "Skipped %d file(s):\n", n)
		for _, err := range resp.Summary.Rejected {
			fmt.Fprintf(w, "  - %v\n", err)
		}
	}
}

type loadJSONView struct {
	Loaded     int                             `json:"loaded"`
	Bytes      int64                           `json:"bytes"`
	Counts     map[wave.Type]int               `json:"counts,omitempty"`
	Rejected   []string                        `json:"rejected,omitempty"`
	Experiment *session.LoadExperimentResponse `json:"experiment,omitempty"`
}

func (v *loadJSONView) fromWaveforms(resp session.LoadWaveformsResponse) {
	v.Loaded = resp.Summary.Loaded
	v.Bytes = resp.Summary.Bytes
	v.Counts = resp.Counts
	for _, err := range resp.Summary.Rejected {
		v.Rejected = append(v.Rejected, err.Error())
	}
}
