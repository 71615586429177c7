package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Manage live canvas sessions",
	}
	cmd.AddCommand(sessionCreateCmd())
	cmd.AddCommand(sessionListCmd())
	cmd.AddCommand(sessionGetCmd())
	cmd.AddCommand(sessionDeleteCmd())
	return cmd
}

func sessionCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a session with an empty graph",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			s, err := apiClient.Sessions.Create(context.Background())
			if err != nil {
				fatal("create session", err)
			}
			output(s, s.ID)
		},
	}
}

func sessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live sessions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			sessions, err := apiClient.Sessions.List(context.Background())
			if err != nil {
				fatal("list sessions", err)
			}
			switch flagFmt {
			case "table":
				var rows [][]string
				for _, s := range sessions {
					rows = append(rows, []string{s.ID, s.CreatedAt.Format(time.RFC3339), s.LastActive.Format(time.RFC3339)})
				}
				formatTable([]string{"ID", "CREATED", "LAST ACTIVE"}, rows)
			case "quiet":
				for _, s := range sessions {
					fmt.Println(s.ID)
				}
			default:
				output(sessions, "")
			}
		},
	}
}

func sessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session-id>",
		Short: "Show a session's graph, interaction and playback state",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s, err := apiClient.Sessions.Get(context.Background(), args[0])
			if err != nil {
				fatal("get session", err)
			}
			if flagFmt == "table" {
				nodes, edges := 0, 0
				if s.Graph != nil {
					nodes, edges = len(s.Graph.Nodes), len(s.Graph.Edges)
				}
				p := s.Playback
				formatTable([]string{"ID", "MODE", "NODES", "EDGES", "PLAYBACK", "TEMPLATE"}, [][]string{{
					s.ID, s.Interaction.Mode, fmt.Sprint(nodes), fmt.Sprint(edges),
					fmt.Sprintf("%s %d/%d", p.State, p.Cursor, p.Total), s.Run.Template,
				}})
				return
			}
			output(s, s.ID)
		},
	}
}

func sessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "End a session",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Sessions.Delete(context.Background(), args[0]); err != nil {
				fatal("delete session", err)
			}
			fmt.Println("deleted")
		},
	}
}
