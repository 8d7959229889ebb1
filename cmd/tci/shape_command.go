package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tci/internal/arrival"
	"tci/internal/session"
	"tci/internal/wave"
)

func newShapeCommand(ctx *commandContext) *cobra.Command {
	shapeCmd := &cobra.Command{
		Use:   "shape",
		Short: "Draw arrival shapes and commit them as arrival times",
		Long: "A shape is a polyline of (time, y) control points drawn over one wave's\n" +
			"captures. Seed starts it as a vertical line, add appends points, and\n" +
			"commit interpolates an arrival time for every bound capture.",
	}

	shapeCmd.AddCommand(newShapeSeedCommand(ctx))
	shapeCmd.AddCommand(newShapeAddCommand(ctx))
	shapeCmd.AddCommand(newShapeCancelCommand(ctx))
	shapeCmd.AddCommand(newShapeCommitCommand(ctx))
	return shapeCmd
}

func newShapeSeedCommand(ctx *commandContext) *cobra.Command {
	var x, yMin, yMax float64

	cmd := &cobra.Command{
		Use:   "seed <wave>",
		Short: "Start a shape as a vertical line at --x",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wave.Parse(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, func(rctx context.Context, sess *session.Session) error {
				resp, err := dispatch[session.ShapeResponse](rctx, sess, session.SeedShapeRequest{Wave: w, X: x, YMin: yMin, YMax: yMax})
				if err != nil {
					return err
				}
				return printShapes(cmd, ctx, resp)
			})
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "Arrival time of the vertical line")
	cmd.Flags().Float64Var(&yMin, "ymin", 0, "Lower y end (default: y axis minimum)")
	cmd.Flags().Float64Var(&yMax, "ymax", 0, "Upper y end (default: y axis maximum)")
	_ = cmd.MarkFlagRequired("x")
	return cmd
}

func newShapeAddCommand(ctx *commandContext) *cobra.Command {
	var x, y float64

	cmd := &cobra.Command{
		Use:   "add <wave>",
		Short: "Append a control point to a seeded shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wave.Parse(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, func(rctx context.Context, sess *session.Session) error {
				resp, err := dispatch[session.ShapeResponse](rctx, sess, session.AddPointRequest{Wave: w, Point: arrival.Point{X: x, Y: y}})
				if err != nil {
					return err
				}
				return printShapes(cmd, ctx, resp)
			})
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "Arrival time")
	cmd.Flags().Float64Var(&y, "y", 0, "Y axis value")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}

func newShapeCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Discard every shape in progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rctx context.Context, sess *session.Session) error {
				resp, err := dispatch[session.ShapeResponse](rctx, sess, session.CancelShapeRequest{})
				if err != nil {
					return err
				}
				return printShapes(cmd, ctx, resp)
			})
		},
	}
}

func newShapeCommitCommand(ctx *commandContext) *cobra.Command {
	var yAxis string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Interpolate arrival times from the shapes in progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(rctx context.Context, sess *session.Session) error {
				resp, err := dispatch[session.CommitShapeResponse](rctx, sess, session.CommitShapeRequest{YAxis: yAxis})
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Committed on y axis %q\n", resp.YAxis)
				rows := make([][]string, 0, len(resp.Arrivals))
				for _, w := range wave.All() {
					set, ok := resp.Arrivals[w]
					if !ok {
						continue
					}
					rows = append(rows, []string{w.String(), fmt.Sprintf("%d", set.Defined()), fmt.Sprintf("%d", len(set))})
				}
				fmt.Fprintln(out, renderTable([]string{"Wave", "Defined", "Captures"}, rows, []columnAlignment{alignLeft, alignRight, alignRight}))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&yAxis, "y-axis", "", `Y axis: "track" or an experimental parameter (default: last used, then config)`)
	return cmd
}

func printShapes(cmd *cobra.Command, ctx *commandContext, resp session.ShapeResponse) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, resp)
	}
	writeShapes(cmd.OutOrStdout(), resp.Shapes)
	return nil
}

func writeShapes(w io.Writer, shapes map[wave.Type][]arrival.Point) {
	if len(shapes) == 0 {
		fmt.Fprintln(w, "No shapes in progress")
		return
	}
	var rows [][]string
	for _, wt := range wave.All() {
		for i, p := range shapes[wt] {
			rows = append(rows, []string{wt.String(), fmt.Sprintf("%d", i), formatFloat(p.X), formatFloat(p.Y)})
		}
	}
	fmt.Fprintln(w, renderTable([]string{"Wave", "Point", "X", "Y"}, rows, []columnAlignment{alignLeft, alignRight, alignRight, alignRight}))
}
