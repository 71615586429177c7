package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Import, export and inspect a session's graph",
	}
	cmd.AddCommand(graphExportCmd())
	cmd.AddCommand(graphImportCmd())
	cmd.AddCommand(graphAdjacencyCmd())
	return cmd
}

func graphExportCmd() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a session's graph as JSON",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			raw, err := apiClient.Graphs.ExportRaw(context.Background(), args[0])
			if err != nil {
				fatal("export graph", err)
			}
			if outFile == "" {
				fmt.Println(string(raw))
				return
			}
			if err := os.WriteFile(outFile, raw, 0o644); err != nil {
				fatal("write file", err)
			}
			fmt.Fprintf(os.Stderr, "Exported to %s\n", outFile)
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func graphImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <session-id> <file|->",
		Short: "Replace a session's graph with a JSON document",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doc, err := readSource(args[1])
			if err != nil {
				fatal("read file", err)
			}
			s, err := apiClient.Graphs.ImportRaw(context.Background(), args[0], []byte(doc))
			if err != nil {
				fatal("import graph", err)
			}
			if flagFmt == "json" {
				output(s.Graph, "")
				return
			}
			fmt.Printf("imported %d nodes, %d edges\n", len(s.Graph.Nodes), len(s.Graph.Edges))
		},
	}
}

func graphAdjacencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adjacency <session-id>",
		Short: "Print the adjacency the algorithm would receive",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			res, err := apiClient.Graphs.Adjacency(context.Background(), args[0])
			if err != nil {
				fatal("adjacency", err)
			}
			if flagFmt == "json" {
				output(res.Adjacency, "")
				return
			}
			fmt.Println(res.Text)
		},
	}
}
