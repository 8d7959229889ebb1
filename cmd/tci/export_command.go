package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tci/internal/session"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var windowOnly bool
	var wavesFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write picked arrival times as CSV",
		Long: "Export writes one time_<wave>,<wave> column pair per active wave with\n" +
			"committed arrivals. Without --out the file lands in the configured\n" +
			"export directory as <dataset>_arrivals.csv.",
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := parseWaveSet(wavesFlag)
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, func(rctx context.Context, sess *session.Session) error {
				resp, err := dispatch[session.ExportArrivalsResponse](rctx, sess, session.ExportArrivalsRequest{
					Path:       outPath,
					Active:     active,
					WindowOnly: windowOnly,
				})
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows (%s) to %s\n", resp.Rows, formatWaves(resp.Waves), resp.Path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination CSV path")
	cmd.Flags().BoolVar(&windowOnly, "window-only", false, "Only export captures inside the last selected window")
	cmd.Flags().StringVar(&wavesFlag, "waves", "", "Comma separated waves to export (default: configured active waves)")
	return cmd
}
