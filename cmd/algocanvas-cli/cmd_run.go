package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/algocanvas/algocanvas/client"
)

// readSource reads a file argument, with "-" meaning stdin.
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func newRunCmd() *cobra.Command {
	var template string
	cmd := &cobra.Command{
		Use:   "run <session-id> [file|-]",
		Short: "Run an algorithm against a session's graph",
		Long: "Runs a Python program (or a built-in template) with the session's adjacency\n" +
			"and loads the extracted commands into playback, which starts on its own.",
		Args: cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.RunRequest{Template: template}
			if len(args) == 2 {
				src, err := readSource(args[1])
				if err != nil {
					fatal("read source", err)
				}
				req.Source = src
			}
			if strings.TrimSpace(req.Source) == "" && req.Template == "" {
				fatal("run", fmt.Errorf("a source file or --template is required"))
			}

			res, err := apiClient.Runs.Run(context.Background(), args[0], req)
			if err != nil {
				fatal("run", err)
			}

			switch flagFmt {
			case "table":
				fmt.Print(res.Output)
				if res.HasError {
					fmt.Println(bad.Sprint("run failed"))
					return
				}
				fmt.Println(good.Sprintf("%d commands extracted", len(res.Commands)))
			case "quiet":
				fmt.Println(len(res.Commands))
			default:
				output(res, "")
			}
			if res.HasError {
				os.Exit(2)
			}
		},
	}
	cmd.Flags().StringVar(&template, "template", "", "Built-in template to run (see: algocanvas template list)")
	return cmd
}

func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"templates"},
		Short:   "Browse built-in algorithm templates",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			list, err := apiClient.Templates.List(context.Background())
			if err != nil {
				fatal("list templates", err)
			}
			switch flagFmt {
			case "table":
				var rows [][]string
				for _, t := range list.Templates {
					name := t.Name
					if name == list.Default {
						name += " *"
					}
					rows = append(rows, []string{name, t.Title})
				}
				formatTable([]string{"NAME", "TITLE"}, rows)
			case "quiet":
				for _, t := range list.Templates {
					fmt.Println(t.Name)
				}
			default:
				output(list, "")
			}
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Print a template's source",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			t, err := apiClient.Templates.Get(context.Background(), args[0])
			if err != nil {
				fatal("get template", err)
			}
			if flagFmt == "json" {
				output(t, t.Name)
				return
			}
			fmt.Print(t.Source)
		},
	})
	return cmd
}
