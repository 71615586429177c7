package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/algocanvas/algocanvas/client"
)

func newCanvasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canvas",
		Short: "Drive pointer interaction on a session's canvas",
	}
	cmd.AddCommand(canvasModeCmd())
	cmd.AddCommand(canvasClickCmd())
	cmd.AddCommand(canvasDragCmd())
	cmd.AddCommand(canvasClearCmd())
	return cmd
}

func parseXY(xs, ys string) (float64, float64, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("y: %w", err)
	}
	return x, y, nil
}

func printAction(a *client.Action) {
	if flagFmt == "quiet" {
		fmt.Println(a.Kind)
		return
	}
	output(a, a.Kind)
}

func canvasModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "mode <session-id> <select|addNode|addEdge|delete>",
		Short:     "Switch the interaction mode",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"select", "addNode", "addEdge", "delete"},
		Run: func(cmd *cobra.Command, args []string) {
			a, err := apiClient.Canvas.SetMode(context.Background(), args[0], args[1])
			if err != nil {
				fatal("set mode", err)
			}
			printAction(a)
		},
	}
}

func canvasClickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "click <session-id> <x> <y>",
		Short: "Press and release the pointer at a point",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			x, y, err := parseXY(args[1], args[2])
			if err != nil {
				fatal("parse point", err)
			}
			a, err := apiClient.Canvas.Click(context.Background(), args[0], x, y)
			if err != nil {
				fatal("click", err)
			}
			printAction(a)
		},
	}
}

func canvasDragCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drag <session-id> <x1> <y1> <x2> <y2>",
		Short: "Drag whatever is under (x1,y1) to (x2,y2)",
		Args:  cobra.ExactArgs(5),
		Run: func(cmd *cobra.Command, args []string) {
			x1, y1, err := parseXY(args[1], args[2])
			if err != nil {
				fatal("parse start", err)
			}
			x2, y2, err := parseXY(args[3], args[4])
			if err != nil {
				fatal("parse end", err)
			}
			ctx := context.Background()
			id := args[0]
			if _, err := apiClient.Canvas.PointerDown(ctx, id, x1, y1); err != nil {
				fatal("pointer down", err)
			}
			a, err := apiClient.Canvas.PointerMove(ctx, id, x2, y2)
			if err != nil {
				fatal("pointer move", err)
			}
			if _, err := apiClient.Canvas.PointerUp(ctx, id, x2, y2); err != nil {
				fatal("pointer up", err)
			}
			printAction(a)
		},
	}
}

func canvasClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <session-id>",
		Short: "Remove every node and edge",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a, err := apiClient.Canvas.Clear(context.Background(), args[0])
			if err != nil {
				fatal("clear", err)
			}
			printAction(a)
		},
	}
}
