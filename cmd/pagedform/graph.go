package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/pagedform/internal/cli"
	"github.com/aretw0/pagedform/internal/presentation/graph"
)

var (
	graphVisited []string
	graphCurrent string
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <form-file>",
	Short: "Export the page sequence as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph LR) of the pages and the navigation between them.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		forms, err := cli.LoadForms(args[0])
		if err != nil {
			return err
		}
		seq, err := graph.FromBlueprint(forms[0])
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if graphCurrent != "" || len(graphVisited) > 0 {
			overlay = &graph.Overlay{Current: strings.TrimSpace(graphCurrent)}
			for _, key := range graphVisited {
				overlay.Visited = append(overlay.Visited, strings.TrimSpace(key))
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(seq, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSliceVar(&graphVisited, "visited", nil, "pages to highlight as visited")
	graphCmd.Flags().StringVar(&graphCurrent, "current", "", "page to highlight as current")
}
