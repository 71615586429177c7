package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/algocanvas/algocanvas/client"
)

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Manage saved graphs",
	}
	cmd.AddCommand(libraryListCmd())
	cmd.AddCommand(librarySaveCmd())
	cmd.AddCommand(libraryGetCmd())
	cmd.AddCommand(libraryDeleteCmd())
	cmd.AddCommand(libraryLoadCmd())
	return cmd
}

func libraryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved graphs",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			list, err := apiClient.Library.List(context.Background())
			if err != nil {
				fatal("list library", err)
			}
			switch flagFmt {
			case "table":
				var rows [][]string
				for _, g := range list.Graphs {
					rows = append(rows, []string{g.Name, fmt.Sprint(g.Nodes), fmt.Sprint(g.Edges), g.UpdatedAt.Format(time.RFC3339)})
				}
				formatTable([]string{"NAME", "NODES", "EDGES", "UPDATED"}, rows)
				fmt.Println(subtle.Sprintf("backend: %s", list.Backend))
			case "quiet":
				for _, g := range list.Graphs {
					fmt.Println(g.Name)
				}
			default:
				output(list, "")
			}
		},
	}
}

func librarySaveCmd() *cobra.Command {
	var sessionID, file string
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a session's graph or a JSON file under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (sessionID == "") == (file == "") {
				return fmt.Errorf("exactly one of --session or --file is required")
			}
			ctx := context.Background()
			var (
				res *client.SaveResult
				err error
			)
			if sessionID != "" {
				res, err = apiClient.Library.SaveSession(ctx, args[0], sessionID)
			} else {
				doc, readErr := readSource(file)
				if readErr != nil {
					fatal("read file", readErr)
				}
				var g client.Graph
				if err := json.Unmarshal([]byte(doc), &g); err != nil {
					fatal("parse graph", err)
				}
				res, err = apiClient.Library.SaveGraph(ctx, args[0], &g)
			}
			if err != nil {
				fatal("save graph", err)
			}
			output(res, res.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "Session whose graph to save")
	cmd.Flags().StringVar(&file, "file", "", "Graph JSON file to save (- for stdin)")
	return cmd
}

func libraryGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print a saved graph",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			g, err := apiClient.Library.Get(context.Background(), args[0])
			if err != nil {
				fatal("get graph", err)
			}
			output(g, args[0])
		},
	}
}

func libraryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved graph",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Library.Delete(context.Background(), args[0]); err != nil {
				fatal("delete graph", err)
			}
			fmt.Println("deleted")
		},
	}
}

func libraryLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <session-id> <name>",
		Short: "Replace a session's graph with a saved one",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			s, err := apiClient.Library.LoadInto(context.Background(), args[0], args[1])
			if err != nil {
				fatal("load graph", err)
			}
			if flagFmt == "json" {
				output(s.Graph, "")
				return
			}
			fmt.Printf("loaded %q: %d nodes, %d edges\n", args[1], len(s.Graph.Nodes), len(s.Graph.Edges))
		},
	}
}
