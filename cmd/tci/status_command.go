package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tci/internal/preflight"
	"tci/internal/session"
	"tci/internal/wave"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active dataset and workspace health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// Preflight runs before the store is opened so the lock check
			// sees other processes, not this one.
			checks := preflight.RunAll(cfg)

			return ctx.withSession(cmd, func(rctx context.Context, sess *session.Session) error {
				resp, err := dispatch[session.StatusResponse](rctx, sess, session.StatusRequest{})
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, struct {
						Status    session.StatusResponse `json:"status"`
						Preflight []preflight.Result     `json:"preflight"`
					}{resp, checks})
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				lines := renderSectionHeader("Dataset", colorize)
				if resp.Dataset == "" {
					lines = append(lines, renderStatusLine("Active", statusWarn, "none (tci datasets use <id>)", colorize))
				} else {
					lines = append(lines, datasetStatusLines(resp, colorize)...)
				}
				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Workspace", colorize)...)
				lines = append(lines, renderStatusLine("State", statusInfo, resp.StatePath, colorize))
				for _, check := range checks {
					kind := statusOK
					if !check.Passed {
						kind = statusError
					}
					lines = append(lines, renderStatusLine(check.Name, kind, check.Detail, colorize))
				}
				fmt.Fprintln(out, strings.Join(lines, "\n"))
				return nil
			})
		},
	}
}

func datasetStatusLines(resp session.StatusResponse, colorize bool) []string {
	lines := []string{renderStatusLine("Active", statusOK, resp.Dataset, colorize)}

	captures := make([]string, 0, len(wave.All()))
	for _, w := range wave.All() {
		captures = append(captures, fmt.Sprintf("%s=%d", w, resp.Captures[w]))
	}
	lines = append(lines, renderStatusLine("Captures", statusInfo, strings.Join(captures, " "), colorize))

	if resp.ExperimentRows == 0 {
		lines = append(lines, renderStatusLine("Experiment", statusWarn, "not loaded", colorize))
	} else {
		lines = append(lines, renderStatusLine("Experiment", statusOK, fmt.Sprintf("%d rows", resp.ExperimentRows), colorize))
	}

	if resp.BindingID == "" {
		lines = append(lines, renderStatusLine("Binding", statusWarn, "not bound", colorize))
	} else {
		bound := make([]string, 0, len(wave.All()))
		for _, w := range wave.All() {
			bound = append(bound, fmt.Sprintf("%s=%d", w, resp.Bound[w]))
		}
		lines = append(lines, renderStatusLine("Binding", statusOK, resp.BindingID+" "+strings.Join(bound, " "), colorize))
	}

	if resp.Window != nil {
		lines = append(lines, renderStatusLine("Window", statusInfo,
			fmt.Sprintf("[%s, %s]", formatFloat(resp.Window.Min), formatFloat(resp.Window.Max)), colorize))
	}

	var shapes []string
	for _, w := range wave.All() {
		if n := resp.Shapes[w]; n > 0 {
			shapes = append(shapes, fmt.Sprintf("%s=%d pts", w, n))
		}
	}
	if len(shapes) > 0 {
		lines = append(lines, renderStatusLine("Shapes", statusWarn, strings.Join(shapes, " ")+" (uncommitted)", colorize))
	}

	if resp.ArrivalsPicked {
		picked := make([]string, 0, len(wave.All()))
		for _, w := range wave.All() {
			picked = append(picked, fmt.Sprintf("%s=%d", w, resp.Arrivals[w]))
		}
		lines = append(lines, renderStatusLine("Arrivals", statusOK,
			fmt.Sprintf("%s on %s", strings.Join(picked, " "), resp.YAxis), colorize))
	} else {
		lines = append(lines, renderStatusLine("Arrivals", statusWarn, "not picked", colorize))
	}
	return lines
}
