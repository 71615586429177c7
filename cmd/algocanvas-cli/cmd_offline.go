package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/algocanvas/algocanvas/internal/adjacency"
	"github.com/algocanvas/algocanvas/internal/models"
	"github.com/algocanvas/algocanvas/internal/playback"
	"github.com/algocanvas/algocanvas/internal/protocol"
)

// The commands in this file work on local files and never contact a server.

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <output-file|->",
		Short: "Extract visualization commands from captured program output",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			text, err := readSource(args[0])
			if err != nil {
				fatal("read output", err)
			}
			printCommands(protocol.Extract(text))
		},
	}
}

func printCommands(cmds []models.Command) {
	switch flagFmt {
	case "table":
		rows := make([][]string, 0, len(cmds))
		for i, c := range cmds {
			rows = append(rows, []string{fmt.Sprint(i), c.String(), c.Description})
		}
		formatTable([]string{"#", "COMMAND", "DESCRIPTION"}, rows)
	case "quiet":
		for _, c := range cmds {
			fmt.Println(protocol.Format(c))
		}
	default:
		output(cmds, "")
	}
}

// replayResult is the outcome of applying commands to a graph offline.
type replayResult struct {
	Steps []playback.StepEvent `json:"steps"`
	Graph *models.GraphFile    `json:"graph"`
}

// replay applies every command in order, recording which ones took effect.
func replay(doc *models.GraphFile, cmds []models.Command, policy playback.VisitedPolicy) (*replayResult, error) {
	g, err := doc.Graph()
	if err != nil {
		return nil, err
	}
	res := &replayResult{Steps: make([]playback.StepEvent, 0, len(cmds))}
	for i, c := range cmds {
		res.Steps = append(res.Steps, playback.StepEvent{Index: i, Command: c, Applied: playback.Apply(g, c, policy)})
	}
	res.Graph = models.NewGraphFile(g)
	return res, nil
}

func loadGraphFile(path string) (*models.GraphFile, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return models.DecodeGraphFile([]byte(data))
}

func newReplayCmd() *cobra.Command {
	var policyName string
	cmd := &cobra.Command{
		Use:   "replay <graph-file> <output-file|->",
		Short: "Apply a run's commands to a graph file and print the coloured result",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			policy, err := playback.ParseVisitedPolicy(policyName)
			if err != nil {
				fatal("parse policy", err)
			}
			doc, err := loadGraphFile(args[0])
			if err != nil {
				fatal("load graph", err)
			}
			text, err := readSource(args[1])
			if err != nil {
				fatal("read output", err)
			}
			res, err := replay(doc, protocol.Extract(text), policy)
			if err != nil {
				fatal("replay", err)
			}

			switch flagFmt {
			case "table":
				rows := make([][]string, 0, len(res.Steps))
				for _, s := range res.Steps {
					rows = append(rows, []string{fmt.Sprint(s.Index), s.Command.String(), statusIcon(s.Applied)})
				}
				formatTable([]string{"#", "COMMAND", "APPLIED"}, rows)
			case "quiet":
				formatJSON(res.Graph)
			default:
				output(res, "")
			}
		},
	}
	cmd.Flags().StringVar(&policyName, "visited-policy", "preserve", "Whether traversals may recolour visited nodes: preserve|overwrite")
	return cmd
}

func newAdjacencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adjacency <graph-file|->",
		Short: "Print the adjacency of a graph file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doc, err := loadGraphFile(args[0])
			if err != nil {
				fatal("load graph", err)
			}
			adj := adjacency.FromGraph(doc.Nodes, doc.Edges)
			if flagFmt == "json" {
				output(adj, "")
				return
			}
			fmt.Println(adjacency.Encode(adj))
		},
	}
}
