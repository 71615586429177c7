package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/algocanvas/algocanvas/client"
)

func newWatchCmd() *cobra.Command {
	var since uint64
	cmd := &cobra.Command{
		Use:   "watch <session-id>",
		Short: "Stream a session's events until it closes",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := apiClient.Watch(ctx, args[0], since, printEvent)
			if errors.Is(err, client.ErrStreamReset) {
				fmt.Fprintln(os.Stderr, warn.Sprint("stream reset: events since", since, "are gone; rerun without --since"))
				os.Exit(3)
			}
			if err != nil {
				fatal("watch", err)
			}
		},
	}
	cmd.Flags().Uint64Var(&since, "since", 0, "Replay events after this id")
	return cmd
}

func printEvent(ev client.Event) error {
	if flagFmt == "json" {
		formatJSON(ev)
		return nil
	}

	prefix := subtle.Sprintf("#%d", ev.ID)
	switch ev.Type {
	case "step":
		var payload client.StepPayload
		if err := ev.DecodeData(&payload); err != nil {
			return err
		}
		step := payload.Step
		c := step.Command
		target := fmt.Sprint(c.Node)
		if c.Kind == "traverse" {
			target = fmt.Sprintf("%d->%d", c.Node, c.Second)
		}
		fmt.Printf("%s %s %d %s %s %s %s\n", prefix, info.Sprint("step"), step.Index, c.Kind, target, c.Color, statusIcon(step.Applied))
	case "playback":
		var st client.PlaybackStatus
		if err := ev.DecodeData(&st); err != nil {
			return err
		}
		fmt.Printf("%s %s %s\n", prefix, info.Sprint("playback"), playbackLine(st.State, st.Cursor, st.Total, st.SpeedMS, st.Description))
	default:
		fmt.Printf("%s %s %s\n", prefix, info.Sprint(ev.Type), string(ev.Data))
	}
	return nil
}
