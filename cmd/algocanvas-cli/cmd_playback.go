package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/algocanvas/algocanvas/client"
)

func newPlaybackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playback",
		Short: "Control step playback of the last run",
	}
	verbs := []struct {
		use, short string
		fn         func(*client.PlaybackService, context.Context, string) (*client.PlaybackStatus, error)
	}{
		{"play", "Start or resume timed playback", (*client.PlaybackService).Play},
		{"pause", "Pause timed playback", (*client.PlaybackService).Pause},
		{"step", "Apply exactly one command", (*client.PlaybackService).Step},
		{"reset", "Rewind and clear colouring", (*client.PlaybackService).Reset},
	}
	for _, v := range verbs {
		cmd.AddCommand(&cobra.Command{
			Use:   v.use + " <session-id>",
			Short: v.short,
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				st, err := v.fn(apiClient.Playback, context.Background(), args[0])
				if err != nil {
					fatal(v.use, err)
				}
				printPlayback(st)
			},
		})
	}
	cmd.AddCommand(playbackSpeedCmd())
	return cmd
}

func playbackSpeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "speed <session-id> <ms>",
		Short: "Set the delay between steps (clamped by the server)",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			ms, err := strconv.Atoi(args[1])
			if err != nil {
				fatal("parse speed", err)
			}
			st, err := apiClient.Playback.SetSpeed(context.Background(), args[0], ms)
			if err != nil {
				fatal("set speed", err)
			}
			printPlayback(st)
		},
	}
}

func printPlayback(st *client.PlaybackStatus) {
	switch flagFmt {
	case "table":
		fmt.Println(playbackLine(st.State, st.Cursor, st.Total, st.SpeedMS, st.Description))
	case "quiet":
		fmt.Println(st.State)
	default:
		output(st, st.State)
	}
}
