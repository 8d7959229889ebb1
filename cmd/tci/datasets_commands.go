package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tci/internal/session"
)

func newDatasetsCommand(ctx *commandContext) *cobra.Command {
	datasetsCmd := &cobra.Command{
		Use:     "datasets",
		Aliases: []string{"ds"},
		Short:   "List, switch and remove datasets",
	}

	datasetsCmd.AddCommand(newDatasetsListCommand(ctx))
	datasetsCmd.AddCommand(newDatasetsUseCommand(ctx))
	datasetsCmd.AddCommand(newDatasetsRemoveCommand(ctx))
	return datasetsCmd
}

func newDatasetsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rctx context.Context, sess *session.Session) error {
				resp, err := dispatch[session.ListDatasetsResponse](rctx, sess, session.ListDatasetsRequest{})
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				if len(resp.Datasets) == 0 {
					fmt.Fprintln(out, "No datasets yet; start one with `tci datasets use <id>`")
					return nil
				}
				rows := make([][]string, 0, len(resp.Datasets))
				for _, d := range resp.Datasets {
					active := ""
					if d.Dataset == resp.Active {
						active = "*"
					}
					rows = append(rows, []string{
						active,
						d.Dataset,
						fmt.Sprintf("%d", d.Waveforms),
						yesNo(d.BindingID != ""),
						yesNo(d.ArrivalsPicked),
						d.UpdatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"", "Dataset", "Captures", "Bound", "Picked", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newDatasetsUseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Make a dataset active, creating it if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rctx context.Context, sess *session.Session) error {
				resp, err := dispatch[session.UseDatasetResponse](rctx, sess, session.UseDatasetRequest{Dataset: args[0], Create: true})
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				verb := "Created"
				if resp.Restored {
					verb = "Restored"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s dataset %s\n", verb, resp.Dataset)
				return nil
			})
		},
	}
}

func newDatasetsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a dataset's saved state",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rctx context.Context, sess *session.Session) error {
				resp, err := dispatch[session.RemoveDatasetResponse](rctx, sess, session.RemoveDatasetRequest{Dataset: args[0]})
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed dataset %s\n", resp.Dataset)
				return nil
			})
		},
	}
}
