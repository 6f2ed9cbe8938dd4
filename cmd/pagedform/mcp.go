package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/pagedform/internal/cli"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp <form-file>...",
	Short: "Run the Model Context Protocol (MCP) server on stdio",
	Long: `Exposes every given form to AI agents as MCP tools over standard input
and output:

  list_forms   names of the loaded forms
  get_schema   field types of every page of a form
  submit_page  answers for one page in, the next page out

Logs go to stderr so they never corrupt the JSON-RPC stream. Completed forms
are saved to the configured store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		forms, err := cli.LoadForms(args...)
		if err != nil {
			return err
		}
		srv, closeStore, err := app.NewMCPServer(cmd.Context(), forms, version)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeStore(); err != nil {
				app.Logger.Warn("close store failed", "error", err)
			}
		}()
		app.Logger.Info("mcp server listening on stdio", "forms", len(forms))
		return srv.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
